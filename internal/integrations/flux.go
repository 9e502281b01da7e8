package integrations

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

const fluxModelPath = "/models/black-forest-labs/FLUX.1-schnell"

// placeholderImageURL is served when no Hugging Face key is configured.
// The video stage accepts any fetchable image URL, so generation still
// works end to end without a key.
const placeholderImageURL = "https://images.pexels.com/photos/356056/pexels-photo-356056.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=1"

// FluxClient generates an image from a text prompt using the Hugging Face
// inference API for the FLUX model.
type FluxClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewFluxClient creates an adapter for the Hugging Face FLUX inference API.
func NewFluxClient(apiKey, baseURL string, client *http.Client, logger *slog.Logger) *FluxClient {
	return &FluxClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger,
	}
}

// GenerateImage renders the prompt into an image and returns a URL the
// video service can fetch. Responses carrying raw image bytes are
// returned as a data URI.
func (c *FluxClient) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		c.logger.Warn("HuggingFace API key not set, using placeholder image")
		return placeholderImageURL, nil
	}

	reqBody, err := json.Marshal(map[string]string{"inputs": prompt})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+fluxModelPath, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("HuggingFace API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody := readBody(resp)
	if !isSuccess(resp.StatusCode) {
		return "", statusError("HuggingFace", resp, respBody)
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "image/") {
		uri := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(respBody))
		c.logger.Debug("image generated", "content_type", contentType, "bytes", len(respBody))
		return uri, nil
	}

	// Some inference backends answer with JSON carrying a hosted URL.
	var parsed struct {
		URL    string `json:"url"`
		Output string `json:"output"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse HuggingFace API response: %w", err)
	}
	if parsed.URL != "" {
		return parsed.URL, nil
	}
	if parsed.Output != "" {
		return parsed.Output, nil
	}

	return "", fmt.Errorf("HuggingFace API returned no image. Response: %s", string(respBody))
}
