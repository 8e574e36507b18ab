package recommend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	appcfg "github.com/mediamuse/core/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompleterPicksFirstEnabled(t *testing.T) {
	c, err := NewCompleter(appcfg.AIConfig{Providers: []appcfg.AIProvider{
		{ID: "off", Type: "openai", APIKey: "sk-1", Enabled: false},
		{ID: "on", Type: "anthropic", APIKey: "sk-2", Enabled: true},
	}})
	require.NoError(t, err)
	assert.IsType(t, &anthropicCompleter{}, c)
}

func TestNewCompleterNoneEnabled(t *testing.T) {
	_, err := NewCompleter(appcfg.AIConfig{})
	assert.Error(t, err)
}

func TestNewCompleterRequiresAPIKey(t *testing.T) {
	_, err := NewCompleter(appcfg.AIConfig{Providers: []appcfg.AIProvider{
		{ID: "openai", Type: "openai", APIKey: "  ", Enabled: true},
	}})
	assert.Error(t, err)
}

func TestUnavailableCompleter(t *testing.T) {
	c := UnavailableCompleter(errEmptyModelResponse)
	_, err := c.Complete(context.Background(), CompletionRequest{Prompt: "hi"})
	assert.ErrorIs(t, err, errEmptyModelResponse)
}

func TestOpenAICompatibleComplete(t *testing.T) {
	var gotPath, gotAuth string
	var gotPayload map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"recommendations\":[]}"}}]}`))
	}))
	defer srv.Close()

	c := newOpenAICompatibleCompleter(appcfg.AIProvider{
		APIKey:       "sk-test",
		Endpoint:     srv.URL,
		DefaultModel: "local-model",
	})

	content, err := c.Complete(context.Background(), CompletionRequest{
		System:     "system text",
		Prompt:     "user text",
		SchemaName: outputSchemaName,
		Schema:     outputSchema(),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"recommendations":[]}`, content)

	assert.Equal(t, "/v1/chat/completions", gotPath)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "local-model", gotPayload["model"])

	messages := gotPayload["messages"].([]interface{})
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]interface{})["role"])
	assert.Equal(t, "system text", messages[0].(map[string]interface{})["content"])
	assert.Equal(t, "user", messages[1].(map[string]interface{})["role"])

	rf := gotPayload["response_format"].(map[string]interface{})
	assert.Equal(t, "json_schema", rf["type"])
	js := rf["json_schema"].(map[string]interface{})
	assert.Equal(t, outputSchemaName, js["name"])
	assert.Equal(t, true, js["strict"])
	assert.NotNil(t, js["schema"])
}

func TestOpenAICompatibleCompleteErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	}))
	defer srv.Close()

	c := newOpenAICompatibleCompleter(appcfg.AIProvider{APIKey: "bad", Endpoint: srv.URL})
	_, err := c.Complete(context.Background(), CompletionRequest{Prompt: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestOpenAICompatibleCompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := newOpenAICompatibleCompleter(appcfg.AIProvider{APIKey: "k", Endpoint: srv.URL})
	_, err := c.Complete(context.Background(), CompletionRequest{Prompt: "hi"})
	assert.ErrorIs(t, err, errEmptyModelResponse)
}

func TestNormalizeOpenAIBaseURL(t *testing.T) {
	assert.Equal(t, "", normalizeOpenAIBaseURL(""))
	assert.Equal(t, "https://example.com/v1", normalizeOpenAIBaseURL("https://example.com"))
	assert.Equal(t, "https://example.com/v1", normalizeOpenAIBaseURL("https://example.com/v1/"))
	assert.Equal(t, "https://example.com/proxy/v1", normalizeOpenAIBaseURL("https://example.com/proxy"))
}

func TestNormalizeOpenAICompatibleEndpoint(t *testing.T) {
	assert.Equal(t, "https://api.openai.com", normalizeOpenAICompatibleEndpoint(""))
	assert.Equal(t, "https://example.com", normalizeOpenAICompatibleEndpoint("https://example.com/"))
	assert.Equal(t, "https://example.com", normalizeOpenAICompatibleEndpoint("https://example.com/v1"))
	assert.Equal(t, "http://localhost:8080", normalizeOpenAICompatibleEndpoint("http://localhost:8080/v1/"))
}
