package agent

import (
	"context"
	"testing"
)

type echoProvider struct{ system string }

func (p *echoProvider) GenerateResponse(ctx context.Context, prompt, systemPrompt string, options map[string]interface{}) (string, error) {
	p.system = systemPrompt
	return "echo: " + prompt, nil
}

func (p *echoProvider) AdaptInstructions(raw string) string { return "[adapted] " + raw }

func TestManager_Routing(t *testing.T) {
	m := NewManager(Config{
		ActiveProvider: ProviderNone,
		Agents: map[string]AgentConfig{
			"thesis": {Provider: "echo"},
		},
	})
	echo := &echoProvider{}
	m.Register("echo", echo)

	if p := m.GetProvider("key_message"); p != nil {
		t.Errorf("drafting should be disabled for key_message, got %T", p)
	}
	out, err := m.ExecutePrompt(context.Background(), "thesis", "hi", "sys", nil)
	if err != nil {
		t.Fatalf("ExecutePrompt: %v", err)
	}
	if out != "echo: hi" || echo.system != "[adapted] sys" {
		t.Errorf("unexpected output %q / system %q", out, echo.system)
	}
	if _, err := m.ExecutePrompt(context.Background(), "key_message", "hi", "", nil); err == nil {
		t.Errorf("expected error for disabled task")
	}
}

func TestManager_SetGlobalProvider(t *testing.T) {
	m := NewManager(Config{})
	if err := m.SetGlobalProvider("missing"); err == nil {
		t.Errorf("expected error for unknown provider")
	}
	if err := m.SetGlobalProvider("deepseek"); err != nil {
		t.Fatalf("SetGlobalProvider: %v", err)
	}
	if m.GetActiveProvider() != "deepseek" {
		t.Errorf("active provider = %q", m.GetActiveProvider())
	}
	if m.GetProvider("thesis") == nil {
		t.Errorf("expected deepseek provider")
	}
}

func TestManager_Available(t *testing.T) {
	m := NewManager(Config{})
	m.Register("echo", &echoProvider{})
	got := m.Available()
	want := []string{"deepseek", "echo", "gemini", "none", "qwen"}
	if len(got) != len(want) {
		t.Fatalf("Available = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Available[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
