package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestGemini(t *testing.T, handler http.HandlerFunc) *GeminiProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewGeminiProvider(context.Background(), GeminiConfig{
		APIKey:  "test-key",
		Model:   "gemini-pro",
		BaseURL: server.URL,
	})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	return p
}

// geminiAnswer replies with a single candidate holding text.
func geminiAnswer(text, finish string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content":      map[string]any{"role": "model", "parts": []map[string]any{{"text": text}}},
				"finishReason": finish,
			}},
			"usageMetadata": map[string]any{
				"promptTokenCount": 120, "candidatesTokenCount": 340, "totalTokenCount": 460,
			},
		})
	}
}

func geminiFailure(status int, code string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": status, "message": code, "status": code},
		})
	}
}

func userPrompt(text string) Request {
	return Request{Messages: []Message{{Role: RoleUser, Content: text}}}
}

func TestGeminiProvider_Generate(t *testing.T) {
	var body string
	answer := geminiAnswer(`{"title":"De vos"}`, "STOP")
	p := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		answer(w, r)
	})

	req := userPrompt("Schrijf een tekst.")
	req.Schema = testSchema()
	req.MaxTokens = 1024
	resp, err := p.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text() != `{"title":"De vos"}` {
		t.Errorf("content = %s", resp.Content)
	}
	if resp.Usage != (Usage{InputTokens: 120, OutputTokens: 340, TotalTokens: 460}) {
		t.Errorf("usage = %+v", resp.Usage)
	}
	if resp.Model != "gemini-2.5-pro" || resp.StopReason != "end" {
		t.Errorf("model %q stop %q", resp.Model, resp.StopReason)
	}
	for _, want := range []string{"application/json", "Schrijf een tekst."} {
		if !strings.Contains(body, want) {
			t.Errorf("request body lacks %q: %s", want, body)
		}
	}
}

func TestGeminiProvider_Errors(t *testing.T) {
	emptyCandidates := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[]}`))
	}

	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(error) bool
	}{
		{"truncated", geminiAnswer(`{"title":"De v`, "MAX_TOKENS"), func(err error) bool {
			var e *ErrMaxTokensExceeded
			return errors.As(err, &e)
		}},
		{"no text", emptyCandidates, func(err error) bool {
			var e *ErrInvalidResponse
			return errors.As(err, &e)
		}},
		{"bad request", geminiFailure(http.StatusBadRequest, "INVALID_ARGUMENT"), func(err error) bool {
			var e *ErrProviderUnavailable
			return errors.As(err, &e)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestGemini(t, tt.handler)
			_, err := p.Generate(context.Background(), userPrompt("test"))
			if !tt.check(err) {
				t.Fatalf("unexpected error %T: %v", err, err)
			}
		})
	}
}

func TestNewGeminiProvider_RequiresKey(t *testing.T) {
	if _, err := NewGeminiProvider(context.Background(), GeminiConfig{Model: "gemini-pro"}); err == nil {
		t.Fatal("expected error without API key")
	}
}

func TestGeminiModels(t *testing.T) {
	for short, full := range geminiModels {
		if got := resolveModel(short, geminiModels); got != full {
			t.Errorf("%s resolved to %s", short, got)
		}
	}
	if got := resolveModel("gemini-2.5-pro", geminiModels); got != "gemini-2.5-pro" {
		t.Errorf("full id changed to %s", got)
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	s := buildGeminiSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":     map[string]any{"type": "string", "description": "Titel"},
			"level":     map[string]any{"type": "integer"},
			"answer":    map[string]any{"type": "string", "enum": []string{"A", "B", "C", "D"}},
			"questions": map[string]any{"type": "array", "items": map[string]any{"type": "object"}},
			"odd":       map[string]any{"type": "null"},
		},
		"required":             []any{"title", "level"},
		"additionalProperties": false,
	})

	if s.Type != "OBJECT" || len(s.Properties) != 5 || len(s.Required) != 2 {
		t.Fatalf("top level = %+v", s)
	}
	title := s.Properties["title"]
	if title.Type != "STRING" || title.Description != "Titel" {
		t.Errorf("title = %+v", title)
	}
	if s.Properties["level"].Type != "INTEGER" {
		t.Errorf("level type = %s", s.Properties["level"].Type)
	}
	if len(s.Properties["answer"].Enum) != 4 {
		t.Errorf("answer enum = %v", s.Properties["answer"].Enum)
	}
	if s.Properties["questions"].Items.Type != "OBJECT" {
		t.Errorf("items type = %s", s.Properties["questions"].Items.Type)
	}
	if s.Properties["odd"].Type != "STRING" {
		t.Errorf("unknown type mapped to %s", s.Properties["odd"].Type)
	}
}
