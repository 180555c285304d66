package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOllamaReview(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"response": "```html\n<ul><li id=\"guaranteed\"><strong>Misleading claim:</strong> qualify it</li></ul>\n```",
			"done":     true,
		})
	}))
	defer server.Close()

	client, err := NewFromEnv(Config{Endpoint: server.URL, Model: "test-model"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	got, err := client.Review(context.Background(), "Returns are\n  guaranteed.")
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if !strings.HasPrefix(got, "<ul>") || strings.Contains(got, "```") {
		t.Fatalf("fences not stripped: %q", got)
	}
	if received["model"] != "test-model" || received["stream"] != false {
		t.Fatalf("unexpected payload: %v", received)
	}
	if prompt, _ := received["prompt"].(string); !strings.Contains(prompt, "Returns are guaranteed.") {
		t.Fatalf("prompt missing excerpt: %q", prompt)
	}
	if system, _ := received["system"].(string); !strings.Contains(system, criteriaMet) {
		t.Fatalf("system prompt not sent")
	}
	if client.Name() != "Ollama (test-model)" {
		t.Fatalf("unexpected name %q", client.Name())
	}
}

func TestOllamaReviewErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	client, err := NewFromEnv(Config{Endpoint: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.Review(context.Background(), "Some text."); err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected API error, got %v", err)
	}
	if _, err := client.Review(context.Background(), "   "); err != errEmptyChunk {
		t.Fatalf("expected errEmptyChunk, got %v", err)
	}
}

func TestOpenAIReview(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Fatalf("missing bearer token")
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"content": "All criteria met"}}},
		})
	}))
	defer server.Close()

	client, err := NewFromEnv(Config{Provider: "OpenAI", Endpoint: server.URL, APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	got, err := client.Review(context.Background(), "Fees are in the prospectus.")
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if got != "<p>All criteria met.</p>" {
		t.Fatalf("unexpected comment %q", got)
	}
}

func TestNewFromEnvRejects(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewFromEnv(Config{Provider: "openai"}); err == nil {
		t.Fatalf("expected missing key error")
	}
	if _, err := NewFromEnv(Config{Provider: "bard"}); err == nil {
		t.Fatalf("expected unknown provider error")
	}
}

func TestCleanCommentHTML(t *testing.T) {
	cases := map[string]string{
		"All criteria met.":            "<p>All criteria met.</p>",
		"  all criteria met  ":         "<p>All criteria met.</p>",
		"```\n<ul><li>x</li></ul>\n```": "<ul><li>x</li></ul>",
		"<ul><li>y</li></ul>":          "<ul><li>y</li></ul>",
	}
	for in, want := range cases {
		if got := cleanCommentHTML(in); got != want {
			t.Errorf("cleanCommentHTML(%q) = %q, want %q", in, got, want)
		}
	}
}
