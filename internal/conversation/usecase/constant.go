package usecase

// Fixed conversational messages. The due-date follow-up is matched
// verbatim by callers and tests, treat it as part of the contract.
const (
	MsgAskDueDate     = "What date should I set for this?"
	MsgDeclined       = "Okay, I won’t add it."
	MsgThinking       = "…thinking…"
	MsgFallbackReply  = "Okay."
	MsgLLMUnavailable = "I can’t reach my language model right now. Please try again in a moment."
)

// Message templates. The chat variants carry markdown; the speech
// variants are phrased for TTS with a shorter notes summary.
const (
	confirmPromptFormat = "I can add **%s** for %s.\n\n🧠 **Notes Preview:**\n%s...\n\nShould I save it?"
	confirmSpeechFormat = "I can add %s for %s. Here’s a quick summary of the notes: %s. Should I save it?"
	askWhenFormat       = "When should I set **%s**?"
	askWhenSpeechFormat = "When should I set %s?"
	savedFormat         = "✅ Done! I’ve added **%s** for %s.\n🧠 Notes saved:\n%s..."
	savedSpeechFormat   = "I’ve added your task %s, due %s. It includes notes like: %s."
	saveFailedFormat    = "Hmm, I couldn’t save it right now. %s"
)

const (
	// defaultHistoryWindow is how many trailing turns the extractor sees
	// unless configured otherwise.
	defaultHistoryWindow = 12

	notesPreviewLimit = 300
	speechNotesLimit  = 200
	speechSavedLimit  = 150
)
