package conversation

// Role attributes a turn to one side of the conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in the conversation transcript.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// DraftTask is a not-yet-persisted candidate reminder. Due is an ISO
// "YYYY-MM-DD" date or empty when still unresolved.
type DraftTask struct {
	Title string `json:"title"`
	Notes string `json:"notes"`
	Due   string `json:"due"`
}

// PendingProposal records that a draft task is awaiting a due date or a
// yes/no confirmation. At most one of AwaitingDue/AwaitingConfirm is true;
// both false means no active proposal.
type PendingProposal struct {
	AwaitingDue     bool      `json:"awaiting_due"`
	AwaitingConfirm bool      `json:"awaiting_confirm"`
	TopicKey        string    `json:"topic_key"` // Slug of the title, used as an idempotency hint downstream
	DraftTask       DraftTask `json:"draft_task"`
}

// Active reports whether the proposal is mid-flow.
func (p *PendingProposal) Active() bool {
	return p != nil && (p.AwaitingDue || p.AwaitingConfirm)
}

// TurnInput is one user utterance plus the caller-owned session state.
// History and Pending are threaded through each call; the orchestrator
// holds no state of its own between turns.
type TurnInput struct {
	Text      string // Typed text; may be empty when AudioPath is set
	AudioPath string // Recorded clip to transcribe when Text is empty
	SpeakBack bool   // Synthesize the reply when a Synthesizer is available

	History []Turn
	Pending *PendingProposal
}

// TurnOutput is the updated session state and the assistant's reply.
type TurnOutput struct {
	History []Turn
	Pending *PendingProposal

	Reply      string // Last assistant message of this turn; empty for a no-op turn
	SpeechPath string // Synthesized audio for the reply, when requested and available
	TaskSaved  bool   // True when this turn committed the draft task
}

// Extraction is the structured result of one IntentExtractor call.
// Every field is defaulted; callers can rely on zero values.
type Extraction struct {
	Response string        `json:"response"`
	NeedsDue bool          `json:"needs_due"`
	Task     ExtractedTask `json:"task"`
}

// ExtractedTask is the candidate task proposed by the extractor.
// DueRaw is the user's own date phrase, not yet normalized.
type ExtractedTask struct {
	Enabled bool   `json:"enabled"`
	Title   string `json:"title"`
	DueRaw  string `json:"due_raw"`
	Notes   string `json:"notes"`
}

// DispatchResult reports the outcome of a task submission.
type DispatchResult struct {
	OK         bool
	Diagnostic string // Collaborator response text or fault description
}

// ProposalPolicy decides what happens when a new task proposal arrives
// while a prior one is still pending.
type ProposalPolicy string

const (
	// ProposalOverwrite replaces the pending proposal with the new one.
	ProposalOverwrite ProposalPolicy = "overwrite"
	// ProposalKeep drops the new candidate and leaves the pending one.
	ProposalKeep ProposalPolicy = "keep"
)
