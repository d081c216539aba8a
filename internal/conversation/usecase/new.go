package usecase

import (
	"github.com/AlmaBetter-School/ai-voice-assistant/internal/confirm"
	"github.com/AlmaBetter-School/ai-voice-assistant/internal/conversation"
	"github.com/AlmaBetter-School/ai-voice-assistant/pkg/datemath"
	pkgLog "github.com/AlmaBetter-School/ai-voice-assistant/pkg/log"
)

type implUseCase struct {
	l           pkgLog.Logger
	extractor   conversation.IntentExtractor
	dispatcher  conversation.ActionDispatcher
	transcriber conversation.Transcriber
	synthesizer conversation.Synthesizer
	confirm     confirm.Service
	dateMath    *datemath.Parser
	policy      conversation.ProposalPolicy
	histWindow  int
}

// New creates a new conversation UseCase instance.
// Transcriber and synthesizer may be nil; the corresponding input/output
// channels are then silently skipped. historyWindow <= 0 selects the
// default extractor window.
func New(
	l pkgLog.Logger,
	extractor conversation.IntentExtractor,
	dispatcher conversation.ActionDispatcher,
	transcriber conversation.Transcriber,
	synthesizer conversation.Synthesizer,
	confirmSvc confirm.Service,
	dateMath *datemath.Parser,
	policy conversation.ProposalPolicy,
	historyWindow int,
) *implUseCase {
	if policy == "" {
		policy = conversation.ProposalOverwrite
	}
	if historyWindow <= 0 {
		historyWindow = defaultHistoryWindow
	}
	return &implUseCase{
		l:           l,
		extractor:   extractor,
		dispatcher:  dispatcher,
		transcriber: transcriber,
		synthesizer: synthesizer,
		confirm:     confirmSvc,
		dateMath:    dateMath,
		policy:      policy,
		histWindow:  historyWindow,
	}
}
