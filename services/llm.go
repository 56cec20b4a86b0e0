package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"evalhub/config"
)

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

// ChatClient talks to an OpenAI-compatible completion endpoint. One client is
// constructed per run from the config (plus an optional per-request key
// override) and threaded through calls; there is no ambient global instance.
type ChatClient struct {
	BaseURL        string
	ChatModel      string
	EmbeddingModel string
	APIKey         string

	httpClient *http.Client
}

// NewChatClient builds a client for the configured endpoint. apiKeyOverride,
// when non-empty, takes precedence over the configured fallback key. When
// InsecureSkipVerify is set, certificate verification is disabled on the
// transport; this is a deliberate trust decision for the internal endpoint.
func NewChatClient(cfg *config.Config, apiKeyOverride string) *ChatClient {
	apiKey := cfg.GenAI.ApiKey
	if apiKeyOverride != "" {
		apiKey = apiKeyOverride
	}

	httpClient := &http.Client{Timeout: 5 * time.Minute}
	if cfg.GenAI.InsecureSkipVerify {
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return &ChatClient{
		BaseURL:        strings.TrimRight(cfg.GenAI.BaseURL, "/"),
		ChatModel:      cfg.GenAI.ChatModel,
		EmbeddingModel: cfg.GenAI.EmbeddingModel,
		APIKey:         apiKey,
		httpClient:     httpClient,
	}
}

// HasKey reports whether a credential is available for this run.
func (c *ChatClient) HasKey() bool {
	return c.APIKey != ""
}

// Chat sends one prompt to the chat-completions endpoint and returns the raw
// reply text. One outbound call, no retries; transport failures propagate.
func (c *ChatClient) Chat(ctx context.Context, prompt string) (string, error) {
	requestData := chatRequest{
		Model:    c.ChatModel,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}

	body, err := c.post(ctx, "/v1/chat/completions", requestData)
	if err != nil {
		return "", err
	}

	var responseData struct {
		Choices []struct {
			Message struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &responseData); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(responseData.Choices) > 0 {
		return responseData.Choices[0].Message.Content, nil
	}
	return "", fmt.Errorf("unexpected response format")
}

// Embed returns the embedding vector for one text through the same transport
// (and trust settings) as Chat.
func (c *ChatClient) Embed(ctx context.Context, text string) ([]float32, error) {
	requestData := embeddingRequest{
		Model: c.EmbeddingModel,
		Input: text,
	}

	body, err := c.post(ctx, "/v1/embeddings", requestData)
	if err != nil {
		return nil, err
	}

	var responseData struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &responseData); err != nil {
		return nil, fmt.Errorf("failed to parse embedding response: %w", err)
	}

	if len(responseData.Data) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return responseData.Data[0].Embedding, nil
}

func (c *ChatClient) post(ctx context.Context, path string, requestData interface{}) ([]byte, error) {
	payload, err := json.Marshal(requestData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request data: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+path, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.APIKey))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error: %s", string(body))
	}
	return body, nil
}
