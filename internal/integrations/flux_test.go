package integrations

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFluxClient_PlaceholderWithoutKey(t *testing.T) {
	client := NewFluxClient("", "http://unused", nil, testLogger())

	url, err := client.GenerateImage(context.Background(), "a prompt")
	require.NoError(t, err)
	assert.Equal(t, placeholderImageURL, url)
}

func TestFluxClient_ImageBytesBecomeDataURI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, fluxModelPath, r.URL.Path)
		assert.Equal(t, "Bearer hf-test", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte{0xFF, 0xD8, 0xFF})
	}))
	defer server.Close()

	client := NewFluxClient("hf-test", server.URL, server.Client(), testLogger())
	url, err := client.GenerateImage(context.Background(), "a prompt")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:image/jpeg;base64,"), "got %q", url)
}

func TestFluxClient_HostedURLResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"url":"https://img.example.com/out.jpeg"}`))
	}))
	defer server.Close()

	client := NewFluxClient("hf-test", server.URL, server.Client(), testLogger())
	url, err := client.GenerateImage(context.Background(), "a prompt")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/out.jpeg", url)
}

func TestFluxClient_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model loading"}`, http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewFluxClient("hf-test", server.URL, server.Client(), testLogger())
	_, err := client.GenerateImage(context.Background(), "a prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "model loading")
}

func TestFluxClient_EmptyJSONResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewFluxClient("hf-test", server.URL, server.Client(), testLogger())
	_, err := client.GenerateImage(context.Background(), "a prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no image")
}
