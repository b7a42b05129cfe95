package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// --- Gemini API configuration ---
const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	geminiModel   = "gemini-2.0-flash"
	maxRetries    = 3
)

// initialBackoff is a variable so tests can shrink the retry delays.
var initialBackoff = 1 * time.Second

// --- Gemini request/response envelopes ---

type geminiPayload struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GeminiClient calls the Gemini generateContent REST endpoint directly.
type GeminiClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGeminiClient builds a client with a bounded per-call timeout. An empty
// apiKey is allowed here; calls will fail with ErrNotConfigured so the caller
// can decide between surfacing 503 and engaging the mock fallback.
func NewGeminiClient(apiKey string, timeout time.Duration) *GeminiClient {
	return &GeminiClient{
		apiKey:     apiKey,
		baseURL:    geminiBaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GenerateText sends the prompt and returns the first candidate's text.
// Transport failures are retried with exponential backoff; timeouts, non-2xx
// statuses and bad envelopes are terminal for the request.
func (c *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	payload := geminiPayload{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, geminiModel, c.apiKey)

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payloadBytes))
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		log.Info().Int("attempt", i+1).Msg("Calling Gemini API")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			classified := classifyTransportErr(err)
			if errors.Is(classified, ErrTimeout) || errors.Is(classified, context.Canceled) {
				return "", classified
			}
			lastErr = classified
			log.Warn().Err(err).Int("attempt", i+1).Msg("Gemini call failed, backing off")
			time.Sleep(initialBackoff * time.Duration(math.Pow(2, float64(i))))
			continue
		}

		text, err := decodeGeminiResponse(resp)
		if err != nil {
			return "", err
		}
		return text, nil
	}

	return "", fmt.Errorf("gemini call failed after %d attempts: %w", maxRetries, lastErr)
}

func decodeGeminiResponse(resp *http.Response) (string, error) {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &UpstreamStatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var envelope geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", fmt.Errorf("%w: %v", ErrProtocol, err)
	}

	if len(envelope.Candidates) == 0 || len(envelope.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmpty
	}
	text := envelope.Candidates[0].Content.Parts[0].Text
	if strings.TrimSpace(text) == "" {
		return "", ErrEmpty
	}
	return text, nil
}
