package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/thorfin/insights-backend/internal/config"
	"github.com/thorfin/insights-backend/internal/logger"
)

// ErrInsufficientInput means the review sample was empty or whitespace-only;
// no network call is attempted in that case.
var ErrInsufficientInput = errors.New("not enough review text to summarize")

// ExternalServiceError wraps any AI-call failure: transport, auth, quota or
// a malformed response. The summarizer fails fast; there are no retries,
// the user re-triggers manually.
type ExternalServiceError struct {
	StatusCode int
	Err        error
}

func (e *ExternalServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("ai service http %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("ai service: %v", e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

const summarizerSystemPrompt = "You are a concise product insights assistant that summarizes customer reviews, extracts main pros/cons, and gives suggestions."

// Summarizer turns a bounded sample of review texts into a natural-language
// summary. The output is free text; callers must not assume any structure
// even when the instruction asks for one.
type Summarizer interface {
	Summarize(ctx context.Context, reviews []string, instruction string) (string, error)
}

type aiSummarizer struct {
	log        *logger.Logger
	cfg        config.AIConfig
	httpClient *http.Client
}

func NewSummarizer(log *logger.Logger, cfg config.AIConfig) (Summarizer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing AI_API_KEY")
	}
	return &aiSummarizer{
		log:        log.With("service", "Summarizer"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
	}, nil
}

// NewSummarizerWithClient exists for tests that need to count or fake the
// underlying HTTP traffic.
func NewSummarizerWithClient(log *logger.Logger, cfg config.AIConfig, client *http.Client) Summarizer {
	return &aiSummarizer{
		log:        log.With("service", "Summarizer"),
		cfg:        cfg,
		httpClient: client,
	}
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []chatMsg `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

type chatMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
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

func (s *aiSummarizer) Summarize(ctx context.Context, reviews []string, instruction string) (string, error) {
	joined := strings.Join(reviews, "\n")
	if strings.TrimSpace(joined) == "" {
		return "", ErrInsufficientInput
	}
	if strings.TrimSpace(instruction) == "" {
		instruction = s.cfg.DefaultInstruction
	}

	reqBody := chatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []chatMsg{
			{Role: "system", Content: summarizerSystemPrompt},
			{Role: "user", Content: instruction + "\n\nReviews:\n" + joined},
		},
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
		return "", &ExternalServiceError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint(), &buf)
	if err != nil {
		return "", &ExternalServiceError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.APIVersion != "" {
		// Azure-style endpoints authenticate with an api-key header.
		req.Header.Set("api-key", s.cfg.APIKey)
	} else {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", &ExternalServiceError{Err: err}
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return "", &ExternalServiceError{StatusCode: resp.StatusCode, Err: readErr}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ExternalServiceError{StatusCode: resp.StatusCode, Err: fmt.Errorf("%s", strings.TrimSpace(string(raw)))}
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &ExternalServiceError{StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	if parsed.Error != nil {
		return "", &ExternalServiceError{StatusCode: resp.StatusCode, Err: fmt.Errorf("%s: %s", parsed.Error.Type, parsed.Error.Message)}
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", &ExternalServiceError{StatusCode: resp.StatusCode, Err: fmt.Errorf("response contained no content")}
	}

	s.log.Debug("Summary generated", "reviews", len(reviews))
	return parsed.Choices[0].Message.Content, nil
}

// endpoint builds either an Azure deployment URL (when an API version is
// configured) or a standard chat-completions URL.
func (s *aiSummarizer) endpoint() string {
	base := strings.TrimRight(s.cfg.BaseURL, "/")
	if s.cfg.APIVersion != "" {
		return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
			base, url.PathEscape(s.cfg.Model), url.QueryEscape(s.cfg.APIVersion))
	}
	return base + "/v1/chat/completions"
}
