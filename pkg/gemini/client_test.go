package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AlmaBetter-School/ai-voice-assistant/pkg/gemini"
)

func TestGenerateContent(t *testing.T) {
	var gotPath string
	var gotReq gemini.GenerateRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotReq)

		resp := gemini.GenerateResponse{
			Candidates: []gemini.Candidate{
				{Content: gemini.Content{Parts: []gemini.Part{{Text: "hello there"}}}},
			},
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := gemini.NewClient("test-key")
	client.SetAPIURL(server.URL)
	client.SetModel("gemini-test")

	resp, err := client.GenerateContent(context.Background(), gemini.GenerateRequest{
		Contents: []gemini.Content{{Role: "user", Parts: []gemini.Part{{Text: "hi"}}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(gotPath, "gemini-test") {
		t.Errorf("request path %q does not carry the model name", gotPath)
	}
	if len(gotReq.Contents) != 1 || gotReq.Contents[0].Parts[0].Text != "hi" {
		t.Errorf("unexpected forwarded request: %+v", gotReq)
	}
	if len(resp.Candidates) != 1 || resp.Candidates[0].Content.Parts[0].Text != "hello there" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestGenerateContentAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": "quota exceeded"}`))
	}))
	defer server.Close()

	client := gemini.NewClient("test-key")
	client.SetAPIURL(server.URL)

	_, err := client.GenerateContent(context.Background(), gemini.GenerateRequest{})
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error %q does not mention status code", err)
	}
}

func TestBuildAssistantPrompt(t *testing.T) {
	prompt := gemini.BuildAssistantPrompt("User: hi", "Asia/Kolkata", "2025-10-20", "2025-10-21")

	for _, want := range []string{"Asia/Kolkata", "2025-10-20", "2025-10-21", "CONVERSATION:\nUser: hi", "due_raw"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
