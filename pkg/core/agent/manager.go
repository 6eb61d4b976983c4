package agent

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"peer_valuation/pkg/core/llm"
)

// ProviderNone disables model drafting; callers fall back to templates.
const ProviderNone = "none"

type Config struct {
	ActiveProvider string                 `yaml:"active_provider"`
	Model          string                 `yaml:"model"`
	Agents         map[string]AgentConfig `yaml:"agents"`
}

type AgentConfig struct {
	Provider    string `yaml:"provider"` // Optional override
	Description string `yaml:"description"`
}

// Manager routes drafting tasks ("thesis", "key_message") to a provider.
type Manager struct {
	mu        sync.RWMutex
	config    Config
	providers map[string]llm.Provider
}

func NewManager(config Config) *Manager {
	return &Manager{
		config: config,
		providers: map[string]llm.Provider{
			"gemini":   &llm.GeminiProvider{Model: config.Model},
			"deepseek": llm.NewDeepSeekProvider(),
			"qwen":     llm.NewQwenProvider(),
		},
	}
}

// Register adds or replaces a provider under name.
func (m *Manager) Register(name string, p llm.Provider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.providers[name] = p
}

// GetProvider returns the provider for a task, or nil when drafting is
// disabled for it.
func (m *Manager) GetProvider(task string) llm.Provider {
	m.mu.RLock()
	defer m.mu.RUnlock()

	name := m.config.ActiveProvider
	if agentConfig, ok := m.config.Agents[task]; ok && agentConfig.Provider != "" {
		name = agentConfig.Provider
	}
	if name == "" || name == ProviderNone {
		return nil
	}
	if p, ok := m.providers[name]; ok {
		return p
	}
	fmt.Printf("[WARNING] provider %q for task %q not registered\n", name, task)
	return nil
}

// ExecutePrompt adapts the system prompt for the task's provider and runs it.
func (m *Manager) ExecutePrompt(ctx context.Context, task string, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	provider := m.GetProvider(task)
	if provider == nil {
		return "", fmt.Errorf("no provider configured for task %q", task)
	}
	return provider.GenerateResponse(ctx, prompt, provider.AdaptInstructions(systemPrompt), options)
}

func (m *Manager) SetGlobalProvider(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.providers[name]; !ok && name != ProviderNone {
		return fmt.Errorf("provider %s not found", name)
	}
	m.config.ActiveProvider = name
	fmt.Printf("[AGENT] Global provider set to: %s\n", name)
	return nil
}

// Available lists the registered provider names plus "none", sorted.
func (m *Manager) Available() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := []string{ProviderNone}
	for name := range m.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Manager) GetActiveProvider() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config.ActiveProvider
}
