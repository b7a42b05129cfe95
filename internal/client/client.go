// Package client is a small Go consumer of the plan API, used by the CLI and
// by integrations that talk to a running proxy.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Brilu-22/FCalApp3/internal/plan"
)

// Client calls the plan API over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a Client for the API at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("api returned %d: %s", e.Status, e.Message)
}

// Generate requests a plan for the given parameters and returns the raw text.
func (c *Client) Generate(ctx context.Context, req plan.Request) (string, error) {
	var resp struct {
		AiResponse string `json:"aiResponse"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/generate_ai_plan", req, &resp); err != nil {
		return "", err
	}
	return resp.AiResponse, nil
}

// SavePlan stores p as the user's live plan and returns its assigned id.
func (c *Client) SavePlan(ctx context.Context, userID string, p plan.GeneratedPlan) (string, error) {
	body := map[string]interface{}{"plan": p}
	var resp struct {
		PlanID string `json:"planId"`
	}
	if err := c.do(ctx, http.MethodPost, c.userPath(userID, "/plans"), body, &resp); err != nil {
		return "", err
	}
	return resp.PlanID, nil
}

func (c *Client) LatestPlan(ctx context.Context, userID string) (plan.GeneratedPlan, error) {
	var p plan.GeneratedPlan
	err := c.do(ctx, http.MethodGet, c.userPath(userID, "/plans/latest"), nil, &p)
	return p, err
}

func (c *Client) Dashboard(ctx context.Context, userID string) (plan.Dashboard, error) {
	var d plan.Dashboard
	err := c.do(ctx, http.MethodGet, c.userPath(userID, "/dashboard"), nil, &d)
	return d, err
}

func (c *Client) UpdateProgress(ctx context.Context, userID string, weightChange float64) (plan.Dashboard, error) {
	body := map[string]float64{"weightChange": weightChange}
	var d plan.Dashboard
	err := c.do(ctx, http.MethodPost, c.userPath(userID, "/progress"), body, &d)
	return d, err
}

func (c *Client) MarkWorkoutComplete(ctx context.Context, userID string) (plan.Dashboard, error) {
	var d plan.Dashboard
	err := c.do(ctx, http.MethodPost, c.userPath(userID, "/workout-complete"), nil, &d)
	return d, err
}

func (c *Client) userPath(userID, suffix string) string {
	return "/api/user/" + url.PathEscape(userID) + suffix
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return &apiError{Status: resp.StatusCode, Message: errBody.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
