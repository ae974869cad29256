// Package suggest calls an external model for mood suggestions. It is a
// best-effort collaborator: every failure surfaces as ErrUnavailable so
// the rest of the workflow never blocks or crashes on network trouble.
package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pbaille/moodlog/internal/domain"
)

const openaiAPI = "https://api.openai.com/v1/chat/completions"

// ErrUnavailable is returned for any suggestion failure: missing key,
// network error, timeout, or a bad response.
var ErrUnavailable = errors.New("suggestions unavailable")

// Service handles suggestion generation via the OpenAI API.
type Service struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// New creates a suggestion Service. The timeout bounds every call.
func New(apiKey, model string, timeout time.Duration) (*Service, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY not set", ErrUnavailable)
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Service{
		apiKey:  apiKey,
		model:   model,
		baseURL: openaiAPI,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// Suggest asks the model for activities to maintain or improve the given
// mood. Returns ErrUnavailable on any failure.
func (s *Service) Suggest(ctx context.Context, mood domain.Mood, activities []string) (string, error) {
	prompt := buildPrompt(mood, activities)

	text, err := s.callAPI(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty response", ErrUnavailable)
	}
	return text, nil
}

func buildPrompt(mood domain.Mood, activities []string) string {
	var sb strings.Builder
	sb.WriteString("I am feeling ")
	sb.WriteString(string(mood))
	sb.WriteString(" today.")
	if len(activities) > 0 {
		sb.WriteString(" I have done the following activities: ")
		sb.WriteString(strings.Join(activities, ", "))
		sb.WriteString(".")
	}
	sb.WriteString(" Can you provide some suggestions or activities to help me maintain or improve my mood?")
	return sb.String()
}

type apiRequest struct {
	Model       string       `json:"model"`
	MaxTokens   int          `json:"max_tokens"`
	Temperature float64      `json:"temperature"`
	Messages    []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (s *Service) callAPI(ctx context.Context, prompt string) (string, error) {
	reqBody := apiRequest{
		Model:       s.model,
		MaxTokens:   150,
		Temperature: 0.7,
		Messages: []apiMessage{
			{Role: "system", Content: "You are a helpful assistant."},
			{Role: "user", Content: prompt},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("api error (status %d): %s", resp.StatusCode, string(body))
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if apiResp.Error != nil {
		return "", fmt.Errorf("api error: %s", apiResp.Error.Message)
	}

	if len(apiResp.Choices) == 0 {
		return "", fmt.Errorf("empty response")
	}

	return apiResp.Choices[0].Message.Content, nil
}
