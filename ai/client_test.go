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

func TestClient_Generate(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  hello there  "}}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/v1", "test-key", "test-model")

	text, err := client.Generate(context.Background(), "say hello")

	require.NoError(t, err)
	assert.Equal(t, "hello there", text)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "/v1/chat/completions", gotPath)
	assert.Equal(t, "test-model", gotBody["model"])

	messages := gotBody["messages"].([]any)
	require.Len(t, messages, 1)
	msg := messages[0].(map[string]any)
	assert.Equal(t, "user", msg["role"])
	assert.Equal(t, "say hello", msg["content"])
}

func TestClient_Generate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid api key","type":"auth"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad-key", "test-model")

	_, err := client.Generate(context.Background(), "hi")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestClient_Generate_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", "test-model")

	_, err := client.Generate(context.Background(), "hi")

	assert.Error(t, err)
}

func TestClient_Generate_MissingModel(t *testing.T) {
	client := NewClient("http://localhost:9", "key", "")

	_, err := client.Generate(context.Background(), "hi")

	assert.Error(t, err)
}

func TestDisabled_Generate(t *testing.T) {
	_, err := Disabled{}.Generate(context.Background(), "hi")

	assert.ErrorIs(t, err, ErrNotConfigured)
}
