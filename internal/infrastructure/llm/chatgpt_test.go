package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"arxivdigest/internal/config"
)

func TestCompleteReturnsFirstChoice(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if payload.Model != "test-model" {
			t.Errorf("unexpected model: %s", payload.Model)
		}
		if len(payload.Messages) != 1 || payload.Messages[0].Content != "hello" {
			t.Errorf("unexpected messages: %+v", payload.Messages)
		}

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  analyzed text  "}}]}`))
	}))
	defer server.Close()

	client := NewChatGPTClient(config.LLMConfig{
		Endpoint: server.URL,
		Model:    "test-model",
		APIKey:   "key",
	})

	text, err := client.Complete(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if text != "analyzed text" {
		t.Fatalf("unexpected completion: %q", text)
	}
}

func TestCompleteSurfacesAPIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewChatGPTClient(config.LLMConfig{
		Endpoint: server.URL,
		Model:    "test-model",
		APIKey:   "key",
	})

	if _, err := client.Complete(context.Background(), "hello"); err == nil {
		t.Fatalf("expected quota error to propagate")
	}
}

func TestCompleteMisconfigured(t *testing.T) {
	t.Parallel()

	client := NewChatGPTClient(config.LLMConfig{Endpoint: "http://example.invalid", Model: "m"})
	if _, err := client.Complete(context.Background(), "hello"); err == nil {
		t.Fatalf("expected misconfiguration error without api key")
	}
}
