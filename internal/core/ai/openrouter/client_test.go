package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"meal-planner/internal/core/ai/provider"
	"meal-planner/internal/infrastructure/config"
)

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		var body chatRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body.Model != "test/model" || body.MaxTokens != 128 {
			t.Errorf("unexpected body: %+v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","choices":[{"message":{"role":"assistant","content":"hello"}}],"usage":{"total_tokens":7}}`))
	}))
	defer srv.Close()

	c := NewClient(config.OpenRouterConfig{APIKey: "test-key", Model: "test/model", BaseURL: srv.URL, MaxTokens: 128})
	resp, err := c.Generate(context.Background(), provider.UserPrompt("hi", 0))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.Content != "hello" || resp.Usage.TotalTokens != 7 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestGenerateAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid key","code":401}}`))
	}))
	defer srv.Close()

	c := NewClient(config.OpenRouterConfig{APIKey: "bad", Model: "m", BaseURL: srv.URL})
	_, err := c.Generate(context.Background(), provider.UserPrompt("hi", 0))
	if err == nil || !strings.Contains(err.Error(), "invalid key") {
		t.Fatalf("expected api error, got %v", err)
	}
}

func TestGenerateNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewClient(config.OpenRouterConfig{Model: "m", BaseURL: srv.URL})
	if _, err := c.Generate(context.Background(), provider.UserPrompt("hi", 0)); err == nil {
		t.Fatal("expected error for empty choices")
	}
}
