package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AlmaBetter-School/ai-voice-assistant/internal/conversation"
	"github.com/AlmaBetter-School/ai-voice-assistant/internal/model"
)

// HandleTurn runs the per-turn state machine over the caller-owned
// session state: route the utterance by pending stage, consult the
// collaborators as needed, and hand the updated state back.
func (uc *implUseCase) HandleTurn(ctx context.Context, sc model.Scope, input conversation.TurnInput) (conversation.TurnOutput, error) {
	refNow := uc.dateMath.Now()

	history := appendTurns(input.History)
	pending := clonePending(input.Pending)

	// Input routing: voice fills in when no text was typed.
	msg := strings.TrimSpace(input.Text)
	if msg == "" && input.AudioPath != "" && uc.transcriber != nil {
		msg = strings.TrimSpace(uc.transcriber.Transcribe(ctx, input.AudioPath))
	}
	if msg == "" {
		// No-op turn: nothing heard, nothing changes.
		return conversation.TurnOutput{History: history, Pending: pending}, nil
	}

	if pending.Active() && pending.AwaitingDue {
		return uc.resolveDueDate(ctx, sc, msg, history, pending, refNow, input.SpeakBack), nil
	}

	if pending.Active() && pending.AwaitingConfirm {
		if out, handled := uc.resolveConfirmation(ctx, sc, msg, history, pending, input.SpeakBack); handled {
			return out, nil
		}
		// Ambiguous reply: fall through to ordinary chat with the
		// proposal still pending.
	}

	return uc.chat(ctx, sc, msg, history, pending, refNow, input.SpeakBack), nil
}

// resolveDueDate handles the AwaitingDue stage: parse the utterance as a
// date, or re-ask the fixed follow-up question.
func (uc *implUseCase) resolveDueDate(ctx context.Context, sc model.Scope, msg string, history []conversation.Turn, pending *conversation.PendingProposal, refNow time.Time, speakBack bool) conversation.TurnOutput {
	due, found := uc.dateMath.DueDate(msg, refNow)
	if !found {
		history = appendTurns(history,
			conversation.Turn{Role: conversation.RoleUser, Content: msg},
			conversation.Turn{Role: conversation.RoleAssistant, Content: MsgAskDueDate},
		)
		return conversation.TurnOutput{
			History:    history,
			Pending:    pending,
			Reply:      MsgAskDueDate,
			SpeechPath: uc.speak(ctx, speakBack, MsgAskDueDate),
		}
	}

	pending.DraftTask.Due = due
	pending.AwaitingDue = false
	pending.AwaitingConfirm = true

	uc.l.Infof(ctx, "session %s: due date resolved to %s for %q", sc.SessionID, due, pending.DraftTask.Title)

	prompt := fmt.Sprintf(confirmPromptFormat,
		pending.DraftTask.Title, due, notesPreview(pending.DraftTask.Notes, notesPreviewLimit))
	speech := fmt.Sprintf(confirmSpeechFormat,
		pending.DraftTask.Title, due, notesPreview(pending.DraftTask.Notes, speechNotesLimit))

	history = appendTurns(history,
		conversation.Turn{Role: conversation.RoleUser, Content: msg},
		conversation.Turn{Role: conversation.RoleAssistant, Content: prompt},
	)
	return conversation.TurnOutput{
		History:    history,
		Pending:    pending,
		Reply:      prompt,
		SpeechPath: uc.speak(ctx, speakBack, speech),
	}
}

// resolveConfirmation handles the AwaitingConfirm stage. handled=false
// means the reply was neither a yes nor a no and the caller should treat
// the utterance as ordinary chat. Negative is checked first.
func (uc *implUseCase) resolveConfirmation(ctx context.Context, sc model.Scope, msg string, history []conversation.Turn, pending *conversation.PendingProposal, speakBack bool) (conversation.TurnOutput, bool) {
	if uc.confirm.IsNegative(msg) {
		history = appendTurns(history,
			conversation.Turn{Role: conversation.RoleUser, Content: msg},
			conversation.Turn{Role: conversation.RoleAssistant, Content: MsgDeclined},
		)
		uc.l.Infof(ctx, "session %s: proposal %q declined", sc.SessionID, pending.TopicKey)
		return conversation.TurnOutput{
			History:    history,
			Pending:    nil,
			Reply:      MsgDeclined,
			SpeechPath: uc.speak(ctx, speakBack, MsgDeclined),
		}, true
	}

	if !uc.confirm.IsAffirmative(msg) {
		return conversation.TurnOutput{}, false
	}

	task := pending.DraftTask
	result := uc.dispatcher.Submit(ctx, pending.TopicKey, task)

	var say, speech string
	if result.OK {
		say = fmt.Sprintf(savedFormat,
			task.Title, dueOrDefault(task.Due, "upcoming days"), notesPreview(task.Notes, notesPreviewLimit))
		speech = fmt.Sprintf(savedSpeechFormat,
			task.Title, dueOrDefault(task.Due, "soon"), notesPreview(task.Notes, speechSavedLimit))
		uc.l.Infof(ctx, "session %s: task %q submitted", sc.SessionID, pending.TopicKey)
	} else {
		say = strings.TrimSpace(fmt.Sprintf(saveFailedFormat, result.Diagnostic))
		speech = say
		uc.l.Warnf(ctx, "session %s: task %q submission failed: %s", sc.SessionID, pending.TopicKey, result.Diagnostic)
	}

	history = appendTurns(history,
		conversation.Turn{Role: conversation.RoleUser, Content: msg},
		conversation.Turn{Role: conversation.RoleAssistant, Content: say},
	)
	return conversation.TurnOutput{
		History:    history,
		Pending:    nil,
		Reply:      say,
		SpeechPath: uc.speak(ctx, speakBack, speech),
		TaskSaved:  result.OK,
	}, true
}

// chat handles the Idle stage (and the ambiguous-confirmation
// fallthrough): run the extractor over the recent window, replace the
// thinking placeholder with its reply, and propose a task when one was
// detected.
func (uc *implUseCase) chat(ctx context.Context, sc model.Scope, msg string, history []conversation.Turn, pending *conversation.PendingProposal, refNow time.Time, speakBack bool) conversation.TurnOutput {
	history = appendTurns(history,
		conversation.Turn{Role: conversation.RoleUser, Content: msg},
		conversation.Turn{Role: conversation.RoleAssistant, Content: MsgThinking},
	)

	ext, err := uc.extractor.Extract(ctx, window(history, uc.histWindow))
	if err != nil {
		uc.l.Errorf(ctx, "session %s: extraction failed: %v", sc.SessionID, err)
		history = replaceLastAssistant(history, MsgLLMUnavailable)
		return conversation.TurnOutput{
			History:    history,
			Pending:    pending,
			Reply:      MsgLLMUnavailable,
			SpeechPath: uc.speak(ctx, speakBack, MsgLLMUnavailable),
		}
	}

	reply := strings.TrimSpace(ext.Response)
	if reply == "" {
		reply = MsgFallbackReply
	}
	history = replaceLastAssistant(history, reply)

	title := strings.TrimSpace(ext.Task.Title)
	notes := strings.TrimSpace(ext.Task.Notes)

	if !ext.Task.Enabled || title == "" || notes == "" {
		return conversation.TurnOutput{
			History:    history,
			Pending:    pending,
			Reply:      reply,
			SpeechPath: uc.speak(ctx, speakBack, reply),
		}
	}

	if pending.Active() && uc.policy == conversation.ProposalKeep {
		uc.l.Infof(ctx, "session %s: new proposal %q dropped, %q still pending",
			sc.SessionID, topicKey(title), pending.TopicKey)
		return conversation.TurnOutput{
			History:    history,
			Pending:    pending,
			Reply:      reply,
			SpeechPath: uc.speak(ctx, speakBack, reply),
		}
	}

	due := ""
	if raw := strings.TrimSpace(ext.Task.DueRaw); raw != "" {
		due, _ = uc.dateMath.DueDate(raw, refNow)
	}
	needsDue := ext.NeedsDue || due == ""

	pending = &conversation.PendingProposal{
		TopicKey:  topicKey(title),
		DraftTask: conversation.DraftTask{Title: title, Notes: notes, Due: due},
	}

	var ask, speech string
	if needsDue {
		pending.AwaitingDue = true
		ask = fmt.Sprintf(askWhenFormat, title)
		speech = fmt.Sprintf(askWhenSpeechFormat, title)
	} else {
		pending.AwaitingConfirm = true
		ask = fmt.Sprintf(confirmPromptFormat, title, due, notesPreview(notes, notesPreviewLimit))
		speech = fmt.Sprintf(confirmSpeechFormat, title, due, notesPreview(notes, speechNotesLimit))
	}
	history = appendTurns(history, conversation.Turn{Role: conversation.RoleAssistant, Content: ask})

	uc.l.Infof(ctx, "session %s: proposed task %q due=%q needs_due=%v", sc.SessionID, title, due, needsDue)

	return conversation.TurnOutput{
		History:    history,
		Pending:    pending,
		Reply:      ask,
		SpeechPath: uc.speak(ctx, speakBack, speech),
	}
}
