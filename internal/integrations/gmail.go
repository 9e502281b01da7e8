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

// GmailClient sends notification emails through the Gmail REST API.
type GmailClient struct {
	token   string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewGmailClient creates an adapter for the Gmail send API.
func NewGmailClient(token, baseURL string, client *http.Client, logger *slog.Logger) *GmailClient {
	return &GmailClient{
		token:   token,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger,
	}
}

// Send delivers a plain-text email to the recipient.
func (c *GmailClient) Send(ctx context.Context, recipient, subject, bodyText string) error {
	message := fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s",
		recipient, subject, bodyText)
	raw := base64.URLEncoding.EncodeToString([]byte(message))

	body, err := json.Marshal(map[string]string{"raw": raw})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	endpoint := c.baseURL + "/gmail/v1/users/me/messages/send"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("Gmail API error: %w", err)
	}
	defer resp.Body.Close()

	respBody := readBody(resp)
	if !isSuccess(resp.StatusCode) {
		return statusError("Gmail", resp, respBody)
	}

	c.logger.Debug("notification email sent", "recipient", recipient)
	return nil
}
