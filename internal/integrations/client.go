package integrations

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// NewHTTPClient returns the http.Client shared by the adapters.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// readBody drains the response body, capping it so a misbehaving service
// cannot balloon an error message.
func readBody(resp *http.Response) []byte {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil
	}
	return body
}

// statusError builds the error for a non-2xx response, embedding the
// response body for diagnosis.
func statusError(service string, resp *http.Response, body []byte) error {
	return fmt.Errorf("%s API request failed with status %d %s - Details: %s",
		service, resp.StatusCode, http.StatusText(resp.StatusCode), string(body))
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}
