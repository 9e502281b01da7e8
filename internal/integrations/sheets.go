package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// SheetsClient appends rows to a Google Sheet through the REST API.
type SheetsClient struct {
	token   string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewSheetsClient creates an adapter for the Google Sheets values API.
func NewSheetsClient(token, baseURL string, client *http.Client, logger *slog.Logger) *SheetsClient {
	return &SheetsClient{
		token:   token,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger,
	}
}

// AppendRow appends one row of values to the given sheet range.
func (c *SheetsClient) AppendRow(ctx context.Context, spreadsheetID, rangeName string, values []string) error {
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	body, err := json.Marshal(map[string]any{"values": [][]any{row}})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s:append?valueInputOption=USER_ENTERED",
		c.baseURL, url.PathEscape(spreadsheetID), url.PathEscape(rangeName))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("Google Sheets API error: %w", err)
	}
	defer resp.Body.Close()

	respBody := readBody(resp)
	if !isSuccess(resp.StatusCode) {
		return statusError("Google Sheets", resp, respBody)
	}

	c.logger.Debug("row appended to sheet", "spreadsheet_id", spreadsheetID, "range", rangeName)
	return nil
}
