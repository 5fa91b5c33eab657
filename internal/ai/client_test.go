package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

func TestClientComplete(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantContent string
		wantErr     bool
	}{
		{
			name:        "first choice content",
			status:      http.StatusOK,
			body:        `{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"recommendationText\":\"hi\"}"},"finish_reason":"stop"}]}`,
			wantContent: `{"recommendationText":"hi"}`,
		},
		{
			name:    "no choices",
			status:  http.StatusOK,
			body:    `{"id":"c2","object":"chat.completion","choices":[]}`,
			wantErr: true,
		},
		{
			name:    "upstream error",
			status:  http.StatusUnauthorized,
			body:    `{"error":{"message":"invalid api key","type":"invalid_request_error"}}`,
			wantErr: true,
		},
		{
			name:    "not json",
			status:  http.StatusBadGateway,
			body:    `<html>bad gateway</html>`,
			wantErr: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			var got capturedRequest
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/compatible-mode/v1/chat/completions", r.URL.Path)
				assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(testCase.status)
				w.Write([]byte(testCase.body))
			}))
			defer server.Close()

			client := NewClient(Config{BaseURL: server.URL + "/compatible-mode/v1", APIKey: "secret", Model: "qwen-turbo"}, server.Client())
			content, err := client.Complete(context.Background(), "prompt")

			assert.Equal(t, "qwen-turbo", got.Model)
			assert.Equal(t, "json_object", got.ResponseFormat.Type)
			require.Len(t, got.Messages, 1)
			assert.Equal(t, "user", got.Messages[0].Role)
			assert.Equal(t, "prompt", got.Messages[0].Content)
			if testCase.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.wantContent, content)
		})
	}
}

func TestClientCompleteEmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":""}}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, APIKey: "secret"}, nil)
	_, err := client.Complete(context.Background(), "prompt")
	assert.ErrorIs(t, err, ErrEmptyReply)
}

func TestClientCompleteHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(Config{BaseURL: server.URL, APIKey: "secret"}, server.Client())
	_, err := client.Complete(ctx, "prompt")
	assert.ErrorIs(t, err, context.Canceled)
}
