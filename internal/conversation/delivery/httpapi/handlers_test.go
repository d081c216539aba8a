package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AlmaBetter-School/ai-voice-assistant/internal/conversation"
	"github.com/AlmaBetter-School/ai-voice-assistant/internal/middleware"
	"github.com/AlmaBetter-School/ai-voice-assistant/internal/model"
	"github.com/AlmaBetter-School/ai-voice-assistant/internal/session"
	"github.com/AlmaBetter-School/ai-voice-assistant/pkg/response"
)

// Mock logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Debugf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Info(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Infof(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Warnf(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Error(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Panic(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Panicf(ctx context.Context, template string, arg ...any)  {}

// Mock use case for testing
type mockUseCase struct {
	out      conversation.TurnOutput
	panicMsg string
	gotInput conversation.TurnInput
	gotScope model.Scope
	calls    int
}

func (m *mockUseCase) HandleTurn(ctx context.Context, sc model.Scope, input conversation.TurnInput) (conversation.TurnOutput, error) {
	m.calls++
	m.gotScope = sc
	m.gotInput = input
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	return m.out, nil
}

// echoUseCase appends the user turn to whatever history it was handed,
// after a delay long enough for requests to overlap.
type echoUseCase struct {
	delay time.Duration
}

func (m *echoUseCase) HandleTurn(ctx context.Context, sc model.Scope, input conversation.TurnInput) (conversation.TurnOutput, error) {
	time.Sleep(m.delay)
	history := append(append([]conversation.Turn(nil), input.History...),
		conversation.Turn{Role: conversation.RoleUser, Content: input.Text})
	return conversation.TurnOutput{Reply: "ok", History: history}, nil
}

func newTestRouter(uc conversation.UseCase, sessions *session.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := New(&mockLogger{}, uc, sessions)
	mw := middleware.New(&mockLogger{}, 600)
	RegisterRoutes(r.Group("/api/v1"), h, mw)
	return r
}

func doChat(t *testing.T, r *gin.Engine, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var resp response.Resp
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v (body=%s)", err, w.Body.String())
	}
	data, _ := resp.Data.(map[string]any)
	return w, data
}

func TestChat(t *testing.T) {
	t.Run("New Session Gets An ID", func(t *testing.T) {
		uc := &mockUseCase{out: conversation.TurnOutput{
			Reply:   "Hello!",
			History: []conversation.Turn{{Role: conversation.RoleUser, Content: "hi"}},
		}}
		sessions := session.NewStore(10, time.Minute)
		r := newTestRouter(uc, sessions)

		w, data := doChat(t, r, `{"message":"hi"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if data["session_id"] == "" || data["session_id"] == nil {
			t.Error("expected generated session_id")
		}
		if data["reply"] != "Hello!" {
			t.Errorf("unexpected reply: %v", data["reply"])
		}
		if data["pending_state"] != "idle" {
			t.Errorf("unexpected pending_state: %v", data["pending_state"])
		}
	})

	t.Run("State Persists Between Turns", func(t *testing.T) {
		uc := &mockUseCase{out: conversation.TurnOutput{
			Reply: "Noted.",
			History: []conversation.Turn{
				{Role: conversation.RoleUser, Content: "hi"},
				{Role: conversation.RoleAssistant, Content: "Noted."},
			},
			Pending: &conversation.PendingProposal{AwaitingDue: true, TopicKey: "call-mom"},
		}}
		sessions := session.NewStore(10, time.Minute)
		r := newTestRouter(uc, sessions)

		_, data := doChat(t, r, `{"session_id":"sess-1","message":"remind me to call mom"}`)
		if data["pending_state"] != "awaiting_due" {
			t.Fatalf("unexpected pending_state: %v", data["pending_state"])
		}

		doChat(t, r, `{"session_id":"sess-1","message":"tomorrow"}`)
		if len(uc.gotInput.History) != 2 {
			t.Errorf("second turn should see stored history, got %d turns", len(uc.gotInput.History))
		}
		if uc.gotInput.Pending == nil || uc.gotInput.Pending.TopicKey != "call-mom" {
			t.Errorf("second turn should see stored pending, got %+v", uc.gotInput.Pending)
		}
		if uc.gotScope.SessionID != "sess-1" {
			t.Errorf("unexpected scope: %+v", uc.gotScope)
		}
	})

	t.Run("Panic Preserves Stored State", func(t *testing.T) {
		uc := &mockUseCase{panicMsg: "boom"}
		sessions := session.NewStore(10, time.Minute)
		sessions.Put("sess-1", &session.State{
			History: []conversation.Turn{{Role: conversation.RoleUser, Content: "before"}},
			Pending: &conversation.PendingProposal{AwaitingConfirm: true, TopicKey: "call-mom"},
		})
		r := newTestRouter(uc, sessions)

		w, data := doChat(t, r, `{"session_id":"sess-1","message":"yes"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("faulted turn must still answer 200, got %d", w.Code)
		}
		if data["reply"] != msgTurnFault {
			t.Errorf("unexpected reply: %v", data["reply"])
		}
		if data["pending_state"] != "awaiting_confirm" {
			t.Errorf("pending_state should reflect untouched state: %v", data["pending_state"])
		}

		st, ok := sessions.Get("sess-1")
		if !ok || len(st.History) != 1 || st.Pending == nil {
			t.Errorf("stored state corrupted by faulted turn: %+v", st)
		}
	})

	t.Run("Concurrent Turns Serialize Per Session", func(t *testing.T) {
		uc := &echoUseCase{delay: 50 * time.Millisecond}
		sessions := session.NewStore(10, time.Minute)
		r := newTestRouter(uc, sessions)

		var wg sync.WaitGroup
		for _, msg := range []string{"first message", "second message"} {
			wg.Add(1)
			go func(m string) {
				defer wg.Done()
				w := httptest.NewRecorder()
				body := fmt.Sprintf(`{"session_id":"sess-1","message":%q}`, m)
				req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(body))
				req.Header.Set("Content-Type", "application/json")
				r.ServeHTTP(w, req)
			}(msg)
		}
		wg.Wait()

		st, ok := sessions.Get("sess-1")
		if !ok {
			t.Fatal("session missing after turns")
		}
		if len(st.History) != 2 {
			t.Fatalf("overlapping turns lost history, got %d turn(s): %+v", len(st.History), st.History)
		}
	})

	t.Run("Empty Turn Rejected", func(t *testing.T) {
		uc := &mockUseCase{}
		r := newTestRouter(uc, session.NewStore(10, time.Minute))

		w, _ := doChat(t, r, `{"session_id":"sess-1"}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
		if uc.calls != 0 {
			t.Errorf("use case must not run on invalid input")
		}
	})

	t.Run("Malformed JSON Rejected", func(t *testing.T) {
		r := newTestRouter(&mockUseCase{}, session.NewStore(10, time.Minute))
		w, _ := doChat(t, r, `{"message":`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})
}

func TestHistoryAndReset(t *testing.T) {
	sessions := session.NewStore(10, time.Minute)
	sessions.Put("sess-1", &session.State{
		History: []conversation.Turn{
			{Role: conversation.RoleUser, Content: "hi"},
			{Role: conversation.RoleAssistant, Content: "Hello!"},
		},
		Pending: &conversation.PendingProposal{AwaitingDue: true},
	})
	r := newTestRouter(&mockUseCase{}, sessions)

	t.Run("History", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/chat/sess-1/history", nil)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var resp response.Resp
		json.Unmarshal(w.Body.Bytes(), &resp)
		data, _ := resp.Data.(map[string]any)
		turns, _ := data["turns"].([]any)
		if len(turns) != 2 {
			t.Errorf("expected 2 turns, got %d", len(turns))
		}
		if data["pending_state"] != "awaiting_due" {
			t.Errorf("unexpected pending_state: %v", data["pending_state"])
		}
	})

	t.Run("History Unknown Session", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/chat/no-such/history", nil)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
		if sessions.Len() != 1 {
			t.Errorf("history lookups must not create sessions, got %d", sessions.Len())
		}
	})

	t.Run("Reset", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/sess-1/reset", nil)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if _, ok := sessions.Get("sess-1"); ok {
			t.Error("expected session removed after reset")
		}
	})

	t.Run("Reset Unknown Session", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/no-such/reset", nil)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})
}
