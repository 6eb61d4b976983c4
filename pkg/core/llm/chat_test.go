package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestChatProvider_GenerateResponse(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"**Thesis** text"}}]}`))
	}))
	defer srv.Close()

	p := &ChatProvider{Name: "test", BaseURL: srv.URL, APIKeyEnv: "UNUSED_TEST_KEY", Model: "m1", Client: srv.Client()}
	out, err := p.GenerateResponse(context.Background(), "draft", "be brief", map[string]interface{}{"api_key": "test-key"})
	if err != nil {
		t.Fatalf("GenerateResponse: %v", err)
	}
	if out != "**Thesis** text" {
		t.Errorf("unexpected content %q", out)
	}
	if got.Model != "m1" || len(got.Messages) != 2 || got.Messages[0].Role != "system" {
		t.Errorf("unexpected request: %+v", got)
	}
}

func TestChatProvider_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.Header.Get("Authorization"), "empty") {
			w.Write([]byte(`{"choices":[]}`))
			return
		}
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := &ChatProvider{Name: "test", BaseURL: srv.URL, APIKeyEnv: "UNUSED_TEST_KEY", Client: srv.Client()}

	if _, err := p.GenerateResponse(context.Background(), "x", "", nil); err == nil || !strings.Contains(err.Error(), "API key missing") {
		t.Errorf("expected missing key error, got %v", err)
	}
	if _, err := p.GenerateResponse(context.Background(), "x", "", map[string]interface{}{"api_key": "k"}); err == nil || !strings.Contains(err.Error(), "status=429") {
		t.Errorf("expected status error, got %v", err)
	}
	if _, err := p.GenerateResponse(context.Background(), "x", "", map[string]interface{}{"api_key": "empty"}); err == nil || !strings.Contains(err.Error(), "no choices") {
		t.Errorf("expected no choices error, got %v", err)
	}
}

func TestGeminiProvider_RequiresKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	p := &GeminiProvider{}
	if _, err := p.GenerateResponse(context.Background(), "x", "", nil); err == nil {
		t.Errorf("expected error without API key")
	}
}
