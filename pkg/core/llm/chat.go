package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// ChatProvider talks to any OpenAI-compatible /chat/completions endpoint
// (DeepSeek, Qwen via DashScope compatible mode, OpenAI itself).
type ChatProvider struct {
	Name      string
	BaseURL   string
	APIKeyEnv string
	Model     string
	Client    *http.Client
}

var _ Provider = (*ChatProvider)(nil)

// NewDeepSeekProvider returns a provider for api.deepseek.com.
func NewDeepSeekProvider() *ChatProvider {
	return &ChatProvider{
		Name:      "deepseek",
		BaseURL:   "https://api.deepseek.com",
		APIKeyEnv: "DEEPSEEK_API_KEY",
		Model:     "deepseek-chat",
	}
}

// NewQwenProvider returns a provider for DashScope's compatible mode.
func NewQwenProvider() *ChatProvider {
	return &ChatProvider{
		Name:      "qwen",
		BaseURL:   "https://dashscope.aliyuncs.com/compatible-mode/v1",
		APIKeyEnv: "DASHSCOPE_API_KEY",
		Model:     "qwen-plus",
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	Stream      bool      `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateResponse sends a single non-streaming completion request.
// options may carry "api_key", "model" and "temperature".
func (p *ChatProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	apiKey := os.Getenv(p.APIKeyEnv)
	if val, ok := options["api_key"].(string); ok && val != "" {
		apiKey = val
	}
	if apiKey == "" {
		return "", fmt.Errorf("%s: API key missing, set %s", p.Name, p.APIKeyEnv)
	}

	model := p.Model
	if val, ok := options["model"].(string); ok && val != "" {
		model = val
	}
	temperature := 0.3
	if val, ok := options["temperature"].(float64); ok {
		temperature = val
	}

	messages := make([]Message, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, Message{Content: systemPrompt, Role: "system"})
	}
	messages = append(messages, Message{Content: prompt, Role: "user"})

	body, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   1024,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%s: marshal request: %w", p.Name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%s: create request: %w", p.Name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	client := p.Client
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	res, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: call failed: %w", p.Name, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("%s: read body: %w", p.Name, err)
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: status=%d body=%s", p.Name, res.StatusCode, string(raw))
	}

	var resp chatResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("%s: unmarshal response: %w", p.Name, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: no choices in response", p.Name)
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *ChatProvider) AdaptInstructions(raw string) string {
	return raw
}
