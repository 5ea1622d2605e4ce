package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/visabuddy/visabuddy-backend/internal/observability"
	"github.com/visabuddy/visabuddy-backend/internal/platform/envutil"
	"github.com/visabuddy/visabuddy-backend/internal/platform/logger"
)

// ModelConfig is per-call generation tuning. Zero values fall back to the
// client defaults.
type ModelConfig struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Client is the opaque text-generation oracle the pipeline calls. The
// contract is weak on purpose: the returned text should contain
// schema-conformant JSON but may not, and the caller owns validation.
type Client interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string, cfg ModelConfig) (string, error)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	maxTokens  int
	maxRetries int
	httpClient *http.Client
}

// NewClient builds an OpenAI-compatible chat-completions client. DeepSeek-R1
// via Together is the default backend; any compatible endpoint works through
// LLM_BASE_URL / LLM_MODEL.
func NewClient(log *logger.Logger) (Client, error) {
	apiKey := envutil.Str("DEEPSEEK_API_KEY", envutil.Str("LLM_API_KEY", ""))
	if apiKey == "" {
		return nil, fmt.Errorf("missing DEEPSEEK_API_KEY")
	}
	return &client{
		log:        log.With("service", "LLMClient"),
		baseURL:    strings.TrimRight(envutil.Str("LLM_BASE_URL", "https://api.together.xyz"), "/"),
		apiKey:     apiKey,
		model:      envutil.Str("LLM_MODEL", "deepseek-ai/DeepSeek-R1"),
		maxTokens:  envutil.Int("LLM_MAX_TOKENS", 2048),
		maxRetries: envutil.Int("LLM_MAX_RETRIES", 2),
		httpClient: &http.Client{Timeout: envutil.Duration("LLM_TIMEOUT", 90*time.Second)},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

type httpError struct {
	StatusCode int
	Body       string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("llm http %d: %s", e.StatusCode, e.Body)
}

func (c *client) Generate(ctx context.Context, systemPrompt, userPrompt string, cfg ModelConfig) (string, error) {
	model := cfg.Model
	if model == "" {
		model = c.model
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}
	messages := make([]chatMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: userPrompt})

	req := chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: cfg.Temperature,
		MaxTokens:   maxTokens,
	}

	var out chatResponse
	if err := c.doWithRetry(ctx, "/v1/chat/completions", req, &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("llm returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}

func (c *client) doOnce(ctx context.Context, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &httpError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

// doWithRetry is the transport's own bounded retry loop. The pipeline above
// issues exactly one Generate call per attempt; retry policy lives here.
func (c *client) doWithRetry(ctx context.Context, path string, body any, out *chatResponse) error {
	backoff := 1 * time.Second
	start := time.Now()
	model := extractModel(body)

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		resp, raw, err := c.doOnce(ctx, path, body)
		if err == nil {
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("llm decode error: %w", uErr)
			}
			observability.Current().ObserveLLMRequest(model, statusOf(resp, nil), time.Since(start),
				out.Usage.PromptTokens, out.Usage.CompletionTokens)
			return nil
		}

		if !isRetryable(err) || attempt == c.maxRetries {
			observability.Current().ObserveLLMRequest(model, statusOf(resp, err), time.Since(start), 0, 0)
			return err
		}

		sleepFor := retryAfter(resp, backoff)
		c.log.Warn("llm request retrying",
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleepFor):
		}
		backoff *= 2
	}
	return fmt.Errorf("unreachable retry loop")
}

func isRetryable(err error) bool {
	var he *httpError
	if errors.As(err, &he) {
		return he.StatusCode == http.StatusTooManyRequests || he.StatusCode >= 500
	}
	// Transport-level failures (timeouts, resets) are retryable.
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func retryAfter(resp *http.Response, backoff time.Duration) time.Duration {
	if resp != nil {
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if secs, err := strconv.Atoi(strings.TrimSpace(ra)); err == nil && secs > 0 {
				d := time.Duration(secs) * time.Second
				if d > 10*time.Second {
					d = 10 * time.Second
				}
				return d
			}
		}
	}
	// Up to 25% jitter keeps concurrent retries from aligning.
	jitter := time.Duration(rand.Int63n(int64(backoff)/4 + 1))
	return backoff + jitter
}

func statusOf(resp *http.Response, err error) string {
	if resp != nil {
		return strconv.Itoa(resp.StatusCode)
	}
	if err != nil {
		return "error"
	}
	return "0"
}

func extractModel(body any) string {
	if req, ok := body.(chatRequest); ok {
		return req.Model
	}
	return ""
}
