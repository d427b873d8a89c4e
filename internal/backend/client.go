package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"lingo-gate/internal/types"

	"github.com/sirupsen/logrus"
)

// ErrUnreachable marks transport-level failures talking to the backend.
// The orchestrator maps it to a service-unavailable response.
var ErrUnreachable = errors.New("backend unreachable")

// Client is the chat capability the translation pipeline depends on.
type Client interface {
	// Chat sends the messages with a structured response format and returns
	// the raw content of the model reply. The context bounds the call.
	Chat(ctx context.Context, messages []Message, format any) (string, error)
	// Ping issues a minimal request to verify the model is loaded and warm.
	Ping(ctx context.Context) error
}

// chatRequest is the Ollama /api/chat payload.
type chatRequest struct {
	Model    string         `json:"model"`
	Messages []Message      `json:"messages"`
	Stream   bool           `json:"stream"`
	Format   any            `json:"format,omitempty"`
	Options  map[string]any `json:"options,omitempty"`
}

// chatResponse is the subset of the Ollama reply the pipeline consumes.
type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Error string `json:"error,omitempty"`
}

// OllamaClient talks to a self-hosted Ollama server.
type OllamaClient struct {
	httpClient *http.Client
	baseURL    string
	model      string
}

// NewOllamaClient creates a client for the configured backend.
func NewOllamaClient(configManager types.ConfigManager) *OllamaClient {
	backendConfig := configManager.GetBackendConfig()

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   15 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     120 * time.Second,
	}

	return &OllamaClient{
		// Per-call deadlines come from the caller's context; the client
		// itself carries no global timeout.
		httpClient: &http.Client{Transport: transport},
		baseURL:    backendConfig.BaseURL,
		model:      backendConfig.Model,
	}
}

// Chat implements Client.
func (c *OllamaClient) Chat(ctx context.Context, messages []Message, format any) (string, error) {
	payload := chatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
		Format:   format,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", ErrUnreachable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("backend returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}
	if chatResp.Error != "" {
		return "", fmt.Errorf("backend error: %s", chatResp.Error)
	}

	return chatResp.Message.Content, nil
}

// Ping implements Client. A tiny completion keeps the model resident.
func (c *OllamaClient) Ping(ctx context.Context) error {
	messages := []Message{{Role: RoleUser, Content: "just only say pong"}}
	if _, err := c.Chat(ctx, messages, nil); err != nil {
		logrus.WithError(err).Debug("Backend ping failed")
		return err
	}
	return nil
}
