package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/timmy/flowerpower/internal/logger"
	"github.com/timmy/flowerpower/internal/prompts"
	"golang.org/x/time/rate"
)

// Text generation providers.
const (
	ProviderOpenAI = "openai" // OpenAI-compatible /chat/completions
	ProviderTGI    = "tgi"    // Hugging Face text-generation-inference /generate
)

// NarrativeConfig holds configuration for the narrative generator.
type NarrativeConfig struct {
	Provider      string
	Model         string
	APIKey        string
	BaseURL       string
	MaxTokens     int
	MaxSentences  int
	Temperature   float32
	Timeout       time.Duration
	RatePerMinute int // 0 disables the outbound limit
}

// Narrative is a generated passage about a flower. It is never stored.
type Narrative struct {
	Prompt   string `json:"prompt"`
	Text     string `json:"text"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// NarrativeService asks an external text generation service why a flower
// carries its meaning. Failures are returned to the caller; there is no retry.
type NarrativeService struct {
	client       *resty.Client
	provider     string
	model        string
	endpoint     string
	maxTokens    int
	maxSentences int
	temperature  float32
	limiter      *rate.Limiter
}

// NewNarrativeService creates a new narrative generator.
// Parameters:
//   - cfg: provider, model, endpoint and output bounds.
//
// Returns:
//   - *NarrativeService: initialized generator.
//   - error: non-nil if the provider is unknown.
func NewNarrativeService(cfg *NarrativeConfig) (*NarrativeService, error) {
	client := resty.New()
	if cfg.APIKey != "" {
		client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	}
	client.SetHeader("Content-Type", "application/json")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	client.SetTimeout(timeout)

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	var endpoint string
	switch cfg.Provider {
	case ProviderOpenAI:
		if baseURL == "" {
			baseURL = "https://api.openai.com/v1"
		}
		endpoint = baseURL + "/chat/completions"
	case ProviderTGI:
		if baseURL == "" {
			return nil, fmt.Errorf("tgi provider requires a base URL")
		}
		endpoint = baseURL + "/generate"
	default:
		return nil, fmt.Errorf("unknown text generation provider: %q", cfg.Provider)
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 200
	}
	maxSentences := cfg.MaxSentences
	if maxSentences <= 0 {
		maxSentences = 5
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RatePerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RatePerMinute)), cfg.RatePerMinute)
	}

	return &NarrativeService{
		client:       client,
		provider:     cfg.Provider,
		model:        cfg.Model,
		endpoint:     endpoint,
		maxTokens:    maxTokens,
		maxSentences: maxSentences,
		temperature:  cfg.Temperature,
		limiter:      limiter,
	}, nil
}

// Provider returns the configured provider name.
func (s *NarrativeService) Provider() string {
	return s.provider
}

// Generate builds the narrative question for name and meaning, submits it,
// and returns the first sentences of the answer.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - name: flower name as shown to the user.
//   - meaning: meaning recorded in the catalog.
//
// Returns:
//   - *Narrative: truncated generated text.
//   - error: non-nil if the service call fails.
func (s *NarrativeService) Generate(ctx context.Context, name, meaning string) (*Narrative, error) {
	prompt := prompts.NarrativeQuestion(name, meaning)

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("text generation rate limit: %w", err)
	}

	start := time.Now()
	var raw string
	var err error
	switch s.provider {
	case ProviderOpenAI:
		raw, err = s.chatCompletion(ctx, prompt)
	default:
		raw, err = s.tgiGenerate(ctx, prompt)
	}
	if err != nil {
		return nil, err
	}

	// Some completion endpoints echo the prompt back.
	raw = strings.TrimPrefix(strings.TrimSpace(raw), prompt)
	text := TruncateSentences(raw, s.maxSentences)

	logger.With(logger.Fields{
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
		logger.FieldSize:       len(text),
		logger.FieldProvider:   s.provider,
	}).Debug(ctx, "Narrative generated: model=%s", s.model)

	return &Narrative{
		Prompt:   prompt,
		Text:     text,
		Provider: s.provider,
		Model:    s.model,
	}, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float32       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func (s *NarrativeService) chatCompletion(ctx context.Context, prompt string) (string, error) {
	req := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: prompts.NarrativeSystemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	}

	var resp chatResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		SetError(&resp).
		Post(s.endpoint)
	if err != nil {
		return "", fmt.Errorf("failed to call text generation API: %w", err)
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		if resp.Error != nil {
			return "", fmt.Errorf("text generation API returned error: HTTP %d: %s", httpResp.StatusCode(), resp.Error.Message)
		}
		return "", fmt.Errorf("text generation API returned error: HTTP %d: %s", httpResp.StatusCode(), string(httpResp.Body()))
	}
	if resp.Error != nil {
		return "", fmt.Errorf("text generation API error: %s", resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in text generation response (status: %d)", httpResp.StatusCode())
	}

	return resp.Choices[0].Message.Content, nil
}

type tgiRequest struct {
	Inputs     string        `json:"inputs"`
	Parameters tgiParameters `json:"parameters"`
}

type tgiParameters struct {
	MaxNewTokens   int      `json:"max_new_tokens"`
	Temperature    *float32 `json:"temperature,omitempty"`
	DoSample       bool     `json:"do_sample"`
	ReturnFullText bool     `json:"return_full_text"`
}

type tgiGeneration struct {
	GeneratedText string `json:"generated_text"`
}

type tgiError struct {
	Error     string `json:"error"`
	ErrorType string `json:"error_type,omitempty"`
}

func (s *NarrativeService) tgiGenerate(ctx context.Context, prompt string) (string, error) {
	params := tgiParameters{MaxNewTokens: s.maxTokens}
	// TGI rejects a non-positive temperature; zero means greedy decoding.
	if s.temperature > 0 {
		t := s.temperature
		params.Temperature = &t
		params.DoSample = true
	}

	httpResp, err := s.client.R().
		SetContext(ctx).
		SetBody(tgiRequest{Inputs: prompt, Parameters: params}).
		Post(s.endpoint)
	if err != nil {
		return "", fmt.Errorf("failed to call text generation API: %w", err)
	}

	body := httpResp.Body()
	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		var apiErr tgiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return "", fmt.Errorf("text generation API returned error: HTTP %d: %s", httpResp.StatusCode(), apiErr.Error)
		}
		return "", fmt.Errorf("text generation API returned error: HTTP %d: %s", httpResp.StatusCode(), string(body))
	}

	// TGI returns an object; the hosted Inference API wraps it in an array.
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var gens []tgiGeneration
		if err := json.Unmarshal(body, &gens); err != nil {
			return "", fmt.Errorf("failed to decode text generation response: %w", err)
		}
		if len(gens) == 0 {
			return "", fmt.Errorf("no generations in text generation response")
		}
		return gens[0].GeneratedText, nil
	}

	var gen tgiGeneration
	if err := json.Unmarshal(body, &gen); err != nil {
		return "", fmt.Errorf("failed to decode text generation response: %w", err)
	}
	return gen.GeneratedText, nil
}
