package poller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/i474232898/weather-map/internal/jobs"
)

// ErrServiceUnavailable marks a submission or status channel that could not
// be reached; the poller answers it with the fallback estimate.
var ErrServiceUnavailable = errors.New("service unavailable")

// Client implements JobAPI over the HTTP job API, for callers running outside
// the backend process.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient creates a Client against a base URL like "http://host:8080".
func NewClient(baseURL string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   httpc,
	}
}

func (c *Client) Submit(ctx context.Context, req jobs.Request) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/jobs", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: submit: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest {
		var payload struct {
			Messages []string `json:"messages"`
			Message  string   `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			if len(payload.Messages) == 0 && payload.Message != "" {
				payload.Messages = []string{payload.Message}
			}
			return "", &jobs.InvalidRequestError{Messages: payload.Messages}
		}
		return "", &jobs.InvalidRequestError{Messages: []string{"request rejected"}}
	}
	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("submit returned status %d", resp.StatusCode)
	}

	var payload struct {
		JobID string `json:"jobId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if payload.JobID == "" {
		return "", fmt.Errorf("submit response missing jobId")
	}
	return payload.JobID, nil
}

func (c *Client) Status(ctx context.Context, jobID string) (*jobs.Job, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/jobs/"+jobID, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: status: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, jobs.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return decodeJobPayload(body)
}

// decodeJobPayload normalizes the status payload at the boundary. Some
// deployments relay the record as a JSON string containing the object rather
// than the object itself; both forms are accepted and parsed exactly once
// into the structured record.
func decodeJobPayload(body []byte) (*jobs.Job, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return nil, fmt.Errorf("unwrap status payload: %w", err)
		}
		trimmed = []byte(inner)
	}

	var job jobs.Job
	if err := json.Unmarshal(trimmed, &job); err != nil {
		return nil, fmt.Errorf("decode status payload: %w", err)
	}
	return &job, nil
}
