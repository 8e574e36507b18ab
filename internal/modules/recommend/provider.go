package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	anthropicclient "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	appcfg "github.com/mediamuse/core/internal/config"
	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
)

const completionMaxTokens = 2048

var errEmptyModelResponse = errors.New("empty response from AI")

// CompletionRequest is one structured-output completion call.
type CompletionRequest struct {
	System     string
	Prompt     string
	SchemaName string
	Schema     map[string]interface{}
}

// Completer is the generative-model capability injected into the service.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// NewCompleter builds a Completer from the first enabled provider in config.
func NewCompleter(cfg appcfg.AIConfig) (Completer, error) {
	for _, provider := range cfg.Providers {
		if !provider.Enabled {
			continue
		}
		return newProviderCompleter(provider)
	}
	return nil, errors.New("no enabled AI provider")
}

func newProviderCompleter(provider appcfg.AIProvider) (Completer, error) {
	if strings.TrimSpace(provider.APIKey) == "" {
		return nil, fmt.Errorf("AI provider %q: api key is empty", provider.ID)
	}

	switch normalizeProviderType(provider.Type) {
	case "anthropic":
		return newAnthropicCompleter(provider), nil
	case "openai-compatible", "openaicompatible":
		return newOpenAICompatibleCompleter(provider), nil
	default:
		return newOpenAICompleter(provider), nil
	}
}

// UnavailableCompleter returns a Completer that fails every call with err.
// Used when no provider is configured so the server can still boot.
func UnavailableCompleter(err error) Completer {
	return unavailableCompleter{err: err}
}

type unavailableCompleter struct{ err error }

func (u unavailableCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	return "", u.err
}

func normalizeProviderType(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	t = strings.ReplaceAll(t, "_", "-")
	t = strings.ReplaceAll(t, " ", "")
	return t
}

// openAICompleter calls OpenAI chat completions with a native json_schema
// response format.
type openAICompleter struct {
	client openaiclient.Client
	model  string
}

func newOpenAICompleter(provider appcfg.AIProvider) *openAICompleter {
	opts := []openaioption.RequestOption{
		openaioption.WithAPIKey(strings.TrimSpace(provider.APIKey)),
		openaioption.WithMaxRetries(0),
	}
	if normalized := normalizeOpenAIBaseURL(provider.Endpoint); normalized != "" {
		opts = append(opts, openaioption.WithBaseURL(normalized))
	}

	model := strings.TrimSpace(provider.DefaultModel)
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &openAICompleter{client: openaiclient.NewClient(opts...), model: model}
}

func (o *openAICompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openaiclient.ChatCompletionNewParams{
		Model: openaiclient.ChatModel(o.model),
		Messages: []openaiclient.ChatCompletionMessageParamUnion{
			openaiclient.SystemMessage(req.System),
			openaiclient.UserMessage(req.Prompt),
		},
		MaxTokens: openaiclient.Int(completionMaxTokens),
		ResponseFormat: openaiclient.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   req.SchemaName,
					Strict: openaiclient.Bool(true),
					Schema: req.Schema,
				},
			},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errEmptyModelResponse
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", errEmptyModelResponse
	}
	return content, nil
}

// anthropicCompleter calls the Anthropic Messages API. Anthropic has no
// response_format, so the schema is rendered into the system prompt and the
// reply is parsed as plain text.
type anthropicCompleter struct {
	client anthropicclient.Client
	model  string
}

func newAnthropicCompleter(provider appcfg.AIProvider) *anthropicCompleter {
	opts := []anthropicoption.RequestOption{
		anthropicoption.WithAPIKey(strings.TrimSpace(provider.APIKey)),
		anthropicoption.WithMaxRetries(0),
	}
	if endpoint := strings.TrimSpace(provider.Endpoint); endpoint != "" {
		opts = append(opts, anthropicoption.WithBaseURL(strings.TrimRight(endpoint, "/")))
	}

	model := strings.TrimSpace(provider.DefaultModel)
	if model == "" {
		model = "claude-haiku-4-5-20251001"
	}
	return &anthropicCompleter{client: anthropicclient.NewClient(opts...), model: model}
}

func (a *anthropicCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	system := req.System
	if req.Schema != nil {
		schemaJSON, err := json.Marshal(req.Schema)
		if err != nil {
			return "", err
		}
		system += "\n\nYour reply MUST be a single JSON object conforming to this JSON Schema, with no extra text:\n" + string(schemaJSON)
	}

	msg, err := a.client.Messages.New(ctx, anthropicclient.MessageNewParams{
		Model:     anthropicclient.Model(a.model),
		MaxTokens: completionMaxTokens,
		System: []anthropicclient.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropicclient.MessageParam{
			anthropicclient.NewUserMessage(anthropicclient.NewTextBlock(req.Prompt)),
		},
	})
	if err != nil {
		return "", err
	}

	var full strings.Builder
	for _, block := range msg.Content {
		if text, ok := block.AsAny().(anthropicclient.TextBlock); ok {
			full.WriteString(text.Text)
		}
	}
	content := full.String()
	if strings.TrimSpace(content) == "" {
		return "", errEmptyModelResponse
	}
	return content, nil
}

// openAICompatibleCompleter posts to a self-hosted /v1/chat/completions
// endpoint, forwarding the response_format payload verbatim.
type openAICompatibleCompleter struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
}

func newOpenAICompatibleCompleter(provider appcfg.AIProvider) *openAICompatibleCompleter {
	model := strings.TrimSpace(provider.DefaultModel)
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &openAICompatibleCompleter{
		endpoint:   normalizeOpenAICompatibleEndpoint(provider.Endpoint),
		apiKey:     strings.TrimSpace(provider.APIKey),
		model:      model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (o *openAICompatibleCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	payload := map[string]interface{}{
		"model": o.model,
		"messages": []map[string]string{
			{"role": "system", "content": req.System},
			{"role": "user", "content": req.Prompt},
		},
		"max_tokens": completionMaxTokens,
	}
	if req.Schema != nil {
		payload["response_format"] = map[string]interface{}{
			"type": "json_schema",
			"json_schema": map[string]interface{}{
				"name":   req.SchemaName,
				"strict": true,
				"schema": req.Schema,
			},
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("openai-compatible error: %s", strings.TrimSpace(string(respBody)))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", err
	}
	if result.Error != nil && strings.TrimSpace(result.Error.Message) != "" {
		return "", fmt.Errorf("openai-compatible error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", errEmptyModelResponse
	}
	content := result.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", errEmptyModelResponse
	}
	return content, nil
}

func normalizeOpenAIBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ""
	}
	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimRight(base, "/")
	}

	path := strings.TrimRight(parsed.Path, "/")
	if !strings.HasSuffix(path, "/v1") {
		if path == "" {
			path = "/v1"
		} else {
			path += "/v1"
		}
	}
	parsed.Path = path
	return strings.TrimRight(parsed.String(), "/")
}

func normalizeOpenAICompatibleEndpoint(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return "https://api.openai.com"
	}

	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimSuffix(strings.TrimRight(base, "/"), "/v1")
	}

	path := strings.TrimRight(parsed.Path, "/")
	path = strings.TrimSuffix(path, "/v1")
	parsed.Path = path
	return strings.TrimRight(parsed.String(), "/")
}
