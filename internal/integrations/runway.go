package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	errpkg "github.com/veranemoloko/pov-video-generator/internal/errors"
	"github.com/veranemoloko/pov-video-generator/internal/validation"
)

// VideoJobStatus is one status report for an asynchronous render job.
// Raw keeps the unparsed body so failures can surface the exact response.
type VideoJobStatus struct {
	Status  string `json:"status"`
	Outputs []struct {
		Video string `json:"video"`
	} `json:"outputs"`
	URL          string          `json:"url"`
	Output       json.RawMessage `json:"output"`
	ErrorMessage string          `json:"error_message"`
	ErrorField   string          `json:"error"`
	Raw          json.RawMessage `json:"-"`
}

// outputURLStrategies is the ordered list of response shapes accepted
// when extracting the rendered video URL. The upstream API has shipped
// several shapes; each strategy is tried in sequence and the first
// resolvable URL wins.
var outputURLStrategies = []func(*VideoJobStatus) string{
	func(s *VideoJobStatus) string {
		if len(s.Outputs) > 0 {
			return s.Outputs[0].Video
		}
		return ""
	},
	func(s *VideoJobStatus) string { return s.URL },
	func(s *VideoJobStatus) string {
		var out string
		if err := json.Unmarshal(s.Output, &out); err != nil {
			return ""
		}
		return out
	},
}

// OutputURL extracts the rendered video URL, trying each known response
// shape in order. Returns false if no strategy yields a resolvable URL.
func (s *VideoJobStatus) OutputURL() (string, bool) {
	for _, strategy := range outputURLStrategies {
		if u := strategy(s); validation.IsResolvable(u) {
			return u, true
		}
	}
	return "", false
}

// FailureReason returns the service-reported reason for a failed job.
func (s *VideoJobStatus) FailureReason() string {
	if s.ErrorMessage != "" {
		return s.ErrorMessage
	}
	if s.ErrorField != "" {
		return s.ErrorField
	}
	return "Unknown RunwayML error"
}

// RunwayClient drives the RunwayML asynchronous video generation API.
type RunwayClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewRunwayClient creates an adapter for the RunwayML tasks API.
func NewRunwayClient(apiKey, baseURL string, client *http.Client, logger *slog.Logger) *RunwayClient {
	return &RunwayClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger,
	}
}

// SubmitVideo starts a render job from an image and a prompt and returns
// the job id assigned by the service.
func (c *RunwayClient) SubmitVideo(ctx context.Context, imageURL, prompt string) (string, error) {
	reqBody, err := json.Marshal(map[string]string{
		"image_url":   imageURL,
		"text_prompt": prompt,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/tasks", bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("RunwayML API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody := readBody(resp)
	if !isSuccess(resp.StatusCode) {
		return "", statusError("RunwayML", resp, respBody)
	}

	var parsed struct {
		UUID   string `json:"uuid"`
		TaskID string `json:"task_id"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse RunwayML API response for task creation: %w - Response: %s", err, string(respBody))
	}

	jobID := parsed.UUID
	if jobID == "" {
		jobID = parsed.TaskID
	}
	if jobID == "" {
		return "", fmt.Errorf("%w. Full response: %s", errpkg.ErrNoJobID, string(respBody))
	}

	c.logger.Debug("video render job submitted", "job_id", jobID)
	return jobID, nil
}

// JobStatus fetches the current status of a render job.
func (c *RunwayClient) JobStatus(ctx context.Context, jobID string) (*VideoJobStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/tasks/"+jobID, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("RunwayML API status check failed: %w", err)
	}
	defer resp.Body.Close()

	respBody := readBody(resp)
	if !isSuccess(resp.StatusCode) {
		return nil, statusError("RunwayML", resp, respBody)
	}

	var status VideoJobStatus
	if err := json.Unmarshal(respBody, &status); err != nil {
		return nil, fmt.Errorf("failed to parse RunwayML API status response: %w - Response: %s", err, string(respBody))
	}
	status.Raw = respBody

	return &status, nil
}
