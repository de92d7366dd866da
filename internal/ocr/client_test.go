package ocr

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New("")

	assert.ErrorIs(t, err, ErrMissingBaseURL)
}

func TestExtractText_Success(t *testing.T) {
	image := []byte("fake-png-bytes")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, recognizePath, r.URL.Path)

		var req recognizeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		decoded, err := base64.StdEncoding.DecodeString(req.Image)
		require.NoError(t, err)
		assert.Equal(t, image, decoded)
		assert.Equal(t, defaultLanguages, req.Languages)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(recognizeResponse{
			Success: true,
			Text:    "아크릴 스탠드 15,000원\n특전: 엽서",
		})
	}))
	defer server.Close()

	client, err := New(server.URL)
	require.NoError(t, err)

	text, err := client.ExtractText(context.Background(), image)
	require.NoError(t, err)
	assert.Contains(t, text, "아크릴 스탠드")
}

func TestExtractText_EmptyImage(t *testing.T) {
	client, err := New("http://localhost:5000")
	require.NoError(t, err)

	_, err = client.ExtractText(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestExtractText_ServiceFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(recognizeResponse{Success: false, Error: "engine crashed"})
	}))
	defer server.Close()

	client, err := New(server.URL)
	require.NoError(t, err)

	_, err = client.ExtractText(context.Background(), []byte("img"))
	assert.ErrorIs(t, err, ErrRecognitionFailed)
}

func TestExtractText_UnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("{}"))
	}))
	defer server.Close()

	client, err := New(server.URL)
	require.NoError(t, err)

	_, err = client.ExtractText(context.Background(), []byte("img"))
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestWithLanguages(t *testing.T) {
	client, err := New("http://localhost:5000", WithLanguages("eng"))
	require.NoError(t, err)

	assert.Equal(t, "eng", client.languages)
}
