package config

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"peer_valuation/pkg/core/agent"
)

func TestHandleConfig(t *testing.T) {
	h := NewHandler(agent.NewManager(agent.Config{ActiveProvider: agent.ProviderNone}))
	rec := httptest.NewRecorder()
	h.HandleConfig(rec, httptest.NewRequest(http.MethodGet, "/api/config", nil))

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ActiveProvider != "none" {
		t.Errorf("active = %q", resp.ActiveProvider)
	}
	if strings.Join(resp.Available, ",") != "deepseek,gemini,none,qwen" {
		t.Errorf("available = %v", resp.Available)
	}
}

func TestHandleSwitch(t *testing.T) {
	mgr := agent.NewManager(agent.Config{})
	h := NewHandler(mgr)

	rec := httptest.NewRecorder()
	h.HandleSwitch(rec, httptest.NewRequest(http.MethodPost, "/api/config/switch", strings.NewReader(`{"provider":"qwen"}`)))
	if rec.Code != http.StatusOK || mgr.GetActiveProvider() != "qwen" {
		t.Errorf("switch failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.HandleSwitch(rec, httptest.NewRequest(http.MethodPost, "/api/config/switch", strings.NewReader(`{"provider":"kimi"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown provider status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.HandleSwitch(rec, httptest.NewRequest(http.MethodPost, "/api/config/switch", strings.NewReader(`not json`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad body status = %d", rec.Code)
	}
}
