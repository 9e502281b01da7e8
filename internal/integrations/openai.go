package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

const promptSystemMessage = "You are an assistant that generates detailed, vivid, and creative prompts " +
	"for an image generation model. The user will provide a simple scene description, and you should " +
	"expand it into a rich prompt suitable for creating a POV (Point of View) image. Focus on visual " +
	"details, atmosphere, and emotion. The output should be only the prompt itself."

// OpenAIClient speaks the OpenAI chat completions API to expand a scene
// description into a detailed image prompt.
type OpenAIClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewOpenAIClient creates an adapter for the OpenAI chat completions API.
func NewOpenAIClient(apiKey, baseURL string, client *http.Client, logger *slog.Logger) *OpenAIClient {
	return &OpenAIClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger,
	}
}

// GeneratePrompt expands sceneDescription into a detailed generation prompt.
func (c *OpenAIClient) GeneratePrompt(ctx context.Context, sceneDescription string) (string, error) {
	reqBody := map[string]any{
		"model": "gpt-4",
		"messages": []map[string]string{
			{"role": "system", "content": promptSystemMessage},
			{"role": "user", "content": sceneDescription},
		},
		"max_tokens": 300,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody := readBody(resp)
	if !isSuccess(resp.StatusCode) {
		return "", statusError("OpenAI", resp, respBody)
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse OpenAI API response: %w", err)
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("OpenAI API returned no completion choices")
	}

	prompt := strings.TrimSpace(parsed.Choices[0].Message.Content)
	c.logger.Debug("prompt generated", "chars", len(prompt))
	return prompt, nil
}
