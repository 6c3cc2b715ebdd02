package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// openrouterModels maps friendly names to OpenRouter model IDs.
var openrouterModels = map[string]string{
	"llama-free":   "meta-llama/llama-3.3-70b-instruct:free",
	"gemini-flash": "google/gemini-2.0-flash-exp",
}

// OpenRouterProvider talks to OpenRouter (or any chat-completions
// compatible endpoint) over raw HTTP. The SDK-based OpenAI adapter is not
// reused here because OpenRouter accepts a repetition_penalty field the
// SDK has no slot for.
type OpenRouterProvider struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}

	return &OpenRouterProvider{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		model:      resolveModel(cfg.Model, openrouterModels),
		httpClient: &http.Client{},
	}, nil
}

type chatCompletionPayload struct {
	Model             string        `json:"model"`
	Messages          []wireMessage `json:"messages"`
	Temperature       float64       `json:"temperature,omitempty"`
	TopP              float64       `json:"top_p,omitempty"`
	RepetitionPenalty float64       `json:"repetition_penalty,omitempty"`
	MaxTokens         int           `json:"max_tokens,omitempty"`
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResult struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func (p *OpenRouterProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	payload := chatCompletionPayload{
		Model:             p.model,
		Messages:          buildWireMessages(req),
		Temperature:       req.Temperature,
		TopP:              req.TopP,
		RepetitionPenalty: req.RepetitionPenalty,
		MaxTokens:         req.MaxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, &ErrProviderUnavailable{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ErrProviderUnavailable{Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, mapHTTPStatusError(resp, respBody)
	}

	var result chatCompletionResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &ErrInvalidResponse{
			Body: string(respBody),
			Err:  fmt.Errorf("decode response: %w", err),
		}
	}

	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return nil, &ErrInvalidResponse{
			Body: string(respBody),
			Err:  fmt.Errorf("no message content in response"),
		}
	}

	model := result.Model
	if model == "" {
		model = p.model
	}

	return &Response{
		Text: result.Choices[0].Message.Content,
		Usage: Usage{
			InputTokens:  result.Usage.PromptTokens,
			OutputTokens: result.Usage.CompletionTokens,
			TotalTokens:  result.Usage.TotalTokens,
		},
		Model:      model,
		StopReason: mapFinishReason(result.Choices[0].FinishReason),
	}, nil
}

func (p *OpenRouterProvider) ModelID() string {
	return p.model
}

func buildWireMessages(req Request) []wireMessage {
	var messages []wireMessage
	if req.System != "" {
		messages = append(messages, wireMessage{Role: "system", Content: req.System})
	}
	for _, m := range req.Messages {
		role := "user"
		if m.Role == RoleAssistant {
			role = "assistant"
		}
		messages = append(messages, wireMessage{Role: role, Content: m.Content})
	}
	return messages
}

func mapFinishReason(reason string) string {
	switch reason {
	case "length":
		return "max_tokens"
	default:
		return "end"
	}
}

func mapHTTPStatusError(resp *http.Response, body []byte) error {
	err := fmt.Errorf("HTTP %d: %s", resp.StatusCode, truncateBody(body))
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return &ErrRateLimit{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")), Err: err}
	case resp.StatusCode == http.StatusPaymentRequired:
		return &ErrQuotaExhausted{Err: err}
	default:
		return &ErrProviderUnavailable{Err: err}
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	secs, err := strconv.Atoi(header)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func truncateBody(body []byte) string {
	const max = 500
	if len(body) <= max {
		return string(body)
	}
	return string(body[:max]) + "..."
}
