package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
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

func rateLimitedRouter(requestsPerMin int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	m := New(&mockLogger{}, requestsPerMin)
	r.Use(m.RateLimit())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestRateLimit(t *testing.T) {
	t.Run("Allows Within Limit", func(t *testing.T) {
		r := rateLimitedRouter(600)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
	})

	t.Run("Blocks Over Burst", func(t *testing.T) {
		// 10 rpm means burst of 1, so the second immediate request is
		// rejected.
		r := rateLimitedRouter(10)

		for i := 0; i < 2; i++ {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			req.RemoteAddr = "10.0.0.2:1234"
			r.ServeHTTP(w, req)

			if i == 0 && w.Code != http.StatusOK {
				t.Fatalf("first request should pass, got %d", w.Code)
			}
			if i == 1 && w.Code != http.StatusTooManyRequests {
				t.Errorf("second request should be limited, got %d", w.Code)
			}
		}
	})

	t.Run("Separate Sources Separate Buckets", func(t *testing.T) {
		r := rateLimitedRouter(10)

		first := httptest.NewRecorder()
		reqA := httptest.NewRequest(http.MethodGet, "/ping", nil)
		reqA.RemoteAddr = "10.0.0.3:1234"
		r.ServeHTTP(first, reqA)

		second := httptest.NewRecorder()
		reqB := httptest.NewRequest(http.MethodGet, "/ping", nil)
		reqB.RemoteAddr = "10.0.0.4:1234"
		r.ServeHTTP(second, reqB)

		if first.Code != http.StatusOK || second.Code != http.StatusOK {
			t.Errorf("independent sources should both pass, got %d and %d", first.Code, second.Code)
		}
	})

	t.Run("Forwarded Header Wins", func(t *testing.T) {
		r := rateLimitedRouter(10)

		for i := 0; i < 2; i++ {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			req.RemoteAddr = "10.0.0.5:1234"
			req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.5")
			r.ServeHTTP(w, req)

			if i == 1 && w.Code != http.StatusTooManyRequests {
				t.Errorf("forwarded client should share a bucket, got %d", w.Code)
			}
		}
	})
}
