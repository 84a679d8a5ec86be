package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

const chatCompletion = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"created": 1700000000,
	"model": "gpt-4o-mini",
	"choices": [{
		"index": 0,
		"finish_reason": "stop",
		"message": {"role": "assistant", "content": "  Keep going, you are on track.  "}
	}]
}`

func TestNewRequiresKey(t *testing.T) {
	for _, provider := range []string{ProviderOpenAI, ProviderGemini} {
		t.Run(provider, func(t *testing.T) {
			_, err := New(provider, "  ", Options{})
			if !errors.Is(err, ErrUnavailable) {
				t.Fatalf("expected ErrUnavailable, got %v", err)
			}
		})
	}
}

func TestNewUnknownProvider(t *testing.T) {
	if _, err := New("claude-on-a-toaster", "key", Options{}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestNewSelectsProvider(t *testing.T) {
	g, err := New("OpenAI", "key", Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, ok := g.(*OpenAIGenerator); !ok {
		t.Errorf("expected *OpenAIGenerator, got %T", g)
	}

	g, err = New(ProviderGemini, "key", Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	gem, ok := g.(*GeminiGenerator)
	if !ok {
		t.Fatalf("expected *GeminiGenerator, got %T", g)
	}
	if gem.model == "" {
		t.Error("expected a default gemini model")
	}
}

func TestOpenAIGenerate(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Errorf("request body is not JSON: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, chatCompletion)
	}))
	defer srv.Close()

	g := NewOpenAI("sk-test", Options{BaseURL: srv.URL + "/", Model: "gpt-4o-mini"})
	ctx := WithTemperature(context.Background(), 0.5)
	got, err := g.Generate(ctx, "You are a coach.", "digest")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got != "Keep going, you are on track." {
		t.Errorf("got %q", got)
	}

	if body["model"] != "gpt-4o-mini" {
		t.Errorf("model = %v", body["model"])
	}
	if body["temperature"] != 0.5 {
		t.Errorf("temperature = %v, want 0.5", body["temperature"])
	}
	msgs, _ := body["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	first, _ := msgs[0].(map[string]any)
	if first["role"] != "system" {
		t.Errorf("first message role = %v, want system", first["role"])
	}
}

func TestOpenAIFailuresAreUnavailable(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":{"message":"bad key","type":"invalid_request_error"}}`},
		{"server error", http.StatusInternalServerError, `{"error":{"message":"boom"}}`},
		{"no choices", http.StatusOK, `{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			g := NewOpenAI("sk-test", Options{BaseURL: srv.URL + "/"})
			_, err := g.Generate(context.Background(), "sys", "user")
			if !errors.Is(err, ErrUnavailable) {
				t.Fatalf("expected ErrUnavailable, got %v", err)
			}
			if n := calls.Load(); n != 1 {
				t.Errorf("expected exactly 1 request (no retries), got %d", n)
			}
		})
	}
}

func TestGeminiGenerate(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "gemini-test:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Nice work today."}]}}]}`)
	}))
	defer srv.Close()

	g, err := NewGemini("key", Options{BaseURL: srv.URL + "/", Model: "gemini-test"})
	if err != nil {
		t.Fatalf("NewGemini failed: %v", err)
	}
	got, err := g.Generate(context.Background(), "You are a coach.", "digest")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got != "Nice work today." {
		t.Errorf("got %q", got)
	}
	if _, ok := body["systemInstruction"]; !ok {
		t.Error("expected systemInstruction in request body")
	}
}

func TestGeminiFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"error":{"code":403,"message":"denied","status":"PERMISSION_DENIED"}}`)
	}))
	defer srv.Close()

	g, err := NewGemini("key", Options{BaseURL: srv.URL + "/", Model: "gemini-test"})
	if err != nil {
		t.Fatalf("NewGemini failed: %v", err)
	}
	if _, err := g.Generate(context.Background(), "sys", "user"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestGeminiModelFallback(t *testing.T) {
	g, err := NewGemini("key", Options{Model: "gpt-4o-mini"})
	if err != nil {
		t.Fatalf("NewGemini failed: %v", err)
	}
	if strings.HasPrefix(g.model, "gpt-") {
		t.Errorf("expected an OpenAI model name to fall back, got %q", g.model)
	}
}
