package integrations

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errpkg "github.com/veranemoloko/pov-video-generator/internal/errors"
)

func TestRunwayClient_SubmitVideo(t *testing.T) {
	var gotBody map[string]string
	var gotRequestID string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/tasks", r.URL.Path)
		gotRequestID = r.Header.Get("X-Request-ID")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]string{"uuid": "job-abc"})
	}))
	defer server.Close()

	client := NewRunwayClient("rw-test", server.URL, server.Client(), testLogger())
	jobID, err := client.SubmitVideo(context.Background(), "https://img.example.com/i.jpeg", "a prompt")
	require.NoError(t, err)

	assert.Equal(t, "job-abc", jobID)
	assert.Equal(t, "https://img.example.com/i.jpeg", gotBody["image_url"])
	assert.Equal(t, "a prompt", gotBody["text_prompt"])
	assert.NotEmpty(t, gotRequestID)
}

func TestRunwayClient_SubmitVideoTaskIDFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"task_id": "job-alt"})
	}))
	defer server.Close()

	client := NewRunwayClient("rw-test", server.URL, server.Client(), testLogger())
	jobID, err := client.SubmitVideo(context.Background(), "https://img", "p")
	require.NoError(t, err)
	assert.Equal(t, "job-alt", jobID)
}

func TestRunwayClient_SubmitVideoMissingJobID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "queued"})
	}))
	defer server.Close()

	client := NewRunwayClient("rw-test", server.URL, server.Client(), testLogger())
	_, err := client.SubmitVideo(context.Background(), "https://img", "p")
	require.Error(t, err)
	assert.ErrorIs(t, err, errpkg.ErrNoJobID)
	assert.Contains(t, err.Error(), `"detail":"queued"`, "raw response embedded")
}

func TestRunwayClient_JobStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/tasks/job-abc", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"succeeded","outputs":[{"video":"https://videos.example.com/v.mp4"}]}`))
	}))
	defer server.Close()

	client := NewRunwayClient("rw-test", server.URL, server.Client(), testLogger())
	status, err := client.JobStatus(context.Background(), "job-abc")
	require.NoError(t, err)

	assert.Equal(t, "succeeded", status.Status)
	url, ok := status.OutputURL()
	require.True(t, ok)
	assert.Equal(t, "https://videos.example.com/v.mp4", url)
	assert.NotEmpty(t, status.Raw)
}

func TestRunwayClient_JobStatusHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	client := NewRunwayClient("rw-test", server.URL, server.Client(), testLogger())
	_, err := client.JobStatus(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

// The API has shipped several response shapes for the rendered video URL;
// extraction tries them in a fixed order.
func TestVideoJobStatus_OutputURLStrategies(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
		ok   bool
	}{
		{
			name: "outputs video field",
			body: `{"status":"succeeded","outputs":[{"video":"https://v/1.mp4"}]}`,
			want: "https://v/1.mp4",
			ok:   true,
		},
		{
			name: "top level url field",
			body: `{"status":"succeeded","url":"https://v/2.mp4"}`,
			want: "https://v/2.mp4",
			ok:   true,
		},
		{
			name: "raw output string",
			body: `{"status":"succeeded","output":"https://v/3.mp4"}`,
			want: "https://v/3.mp4",
			ok:   true,
		},
		{
			name: "outputs preferred over url",
			body: `{"status":"succeeded","outputs":[{"video":"https://v/first.mp4"}],"url":"https://v/second.mp4"}`,
			want: "https://v/first.mp4",
			ok:   true,
		},
		{
			name: "non-http output string rejected",
			body: `{"status":"succeeded","output":"ftp://v/3.mp4"}`,
			ok:   false,
		},
		{
			name: "no url anywhere",
			body: `{"status":"succeeded","outputs":[{}]}`,
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var status VideoJobStatus
			require.NoError(t, json.Unmarshal([]byte(tt.body), &status))

			url, ok := status.OutputURL()
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, url)
			}
		})
	}
}

func TestVideoJobStatus_FailureReason(t *testing.T) {
	assert.Equal(t, "boom", (&VideoJobStatus{ErrorMessage: "boom"}).FailureReason())
	assert.Equal(t, "bang", (&VideoJobStatus{ErrorField: "bang"}).FailureReason())
	assert.Equal(t, "Unknown RunwayML error", (&VideoJobStatus{}).FailureReason())
}
