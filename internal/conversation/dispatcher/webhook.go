package dispatcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AlmaBetter-School/ai-voice-assistant/internal/conversation"
	pkgLog "github.com/AlmaBetter-School/ai-voice-assistant/pkg/log"
)

const (
	defaultWebhookTimeout = 10 * time.Second

	// timestampLayout matches the automation pipeline's expected UTC
	// ISO-8601 timestamp without a zone suffix.
	timestampLayout = "2006-01-02T15:04:05.999999"
)

// taskPayload is the wire format the task webhook expects.
type taskPayload struct {
	Title     string `json:"title"`
	Due       string `json:"due"`
	Notes     string `json:"notes"`
	Timestamp string `json:"timestamp"`
}

type webhookDispatcher struct {
	l          pkgLog.Logger
	webhookURL string
	httpClient *http.Client
}

// NewWebhook creates a dispatcher that posts confirmed tasks to an
// automation webhook. An empty URL puts the dispatcher in dry-run mode:
// nothing is sent and every submit reports a diagnostic echoing the
// would-be payload.
func NewWebhook(l pkgLog.Logger, webhookURL string, timeout time.Duration) conversation.ActionDispatcher {
	if timeout <= 0 {
		timeout = defaultWebhookTimeout
	}
	return &webhookDispatcher{
		l:          l,
		webhookURL: strings.TrimSpace(webhookURL),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Submit posts the task once. No retries; the caller reports the
// diagnostic to the user and moves on.
func (d *webhookDispatcher) Submit(ctx context.Context, topicKey string, task conversation.DraftTask) conversation.DispatchResult {
	payload := taskPayload{
		Title:     strings.TrimSpace(task.Title),
		Due:       strings.TrimSpace(task.Due),
		Notes:     strings.TrimSpace(task.Notes),
		Timestamp: time.Now().UTC().Format(timestampLayout),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return conversation.DispatchResult{Diagnostic: fmt.Sprintf("encode task payload: %v", err)}
	}

	if d.webhookURL == "" {
		d.l.Infof(ctx, "dispatcher: dry run, no webhook configured, payload=%s", string(body))
		return conversation.DispatchResult{
			Diagnostic: fmt.Sprintf("(Mock) No webhook configured. Task payload: %s", string(body)),
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return conversation.DispatchResult{Diagnostic: fmt.Sprintf("build webhook request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Idempotency-Key", idempotencyKey(topicKey))

	resp, err := d.httpClient.Do(req)
	if err != nil {
		d.l.Warnf(ctx, "dispatcher: webhook call failed: %v", err)
		return conversation.DispatchResult{Diagnostic: fmt.Sprintf("webhook call failed: %v", err)}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		d.l.Warnf(ctx, "dispatcher: webhook returned %d for %q", resp.StatusCode, topicKey)
		return conversation.DispatchResult{Diagnostic: fmt.Sprintf("webhook returned %d", resp.StatusCode)}
	}

	return conversation.DispatchResult{OK: true}
}

// idempotencyKey derives a stable UUID from the proposal topic key so
// the receiving pipeline can dedupe accidental double confirmations.
func idempotencyKey(topicKey string) string {
	// UUID v5 over the DNS namespace: same topic key, same UUID
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(topicKey)).String()
}
