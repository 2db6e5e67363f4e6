package responder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"safetychat/internal/safety"
)

// RemoteClient calls an external generation service over HTTP. Crisis content
// never leaves the process: the client answers it locally with the canned
// crisis resources before any network call.
type RemoteClient struct {
	baseURL    string
	httpClient *http.Client
	fallback   *Local
}

// GenerateRequest is the payload sent to the generation service.
type GenerateRequest struct {
	Message  string   `json:"message"`
	Category string   `json:"category,omitempty"`
	PIITypes []string `json:"pii_types,omitempty"`
}

// GenerateResponse is the generation service's reply.
type GenerateResponse struct {
	Response string `json:"response"`
}

// HealthResponse is the generation service's health check reply.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewRemoteClient creates a client for the generation service.
func NewRemoteClient(baseURL string, timeout time.Duration) *RemoteClient {
	return &RemoteClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		fallback: NewLocal(),
	}
}

// Generate asks the remote service for a reply. PII and crisis content are
// answered locally without calling out. Any transport or decode failure
// falls back to the local responder so the chat flow never breaks on an
// unavailable generator.
func (c *RemoteClient) Generate(ctx context.Context, message, category string, piiTypes []string) (string, error) {
	if len(piiTypes) > 0 {
		return piiEducationResponse, nil
	}
	if category == safety.CategoryCrisis || safety.ContainsCrisis(message) {
		return CrisisResponse, nil
	}

	reply, err := c.call(ctx, message, category, piiTypes)
	if err != nil {
		return c.fallback.Generate(ctx, message, category, piiTypes)
	}
	return reply, nil
}

func (c *RemoteClient) call(ctx context.Context, message, category string, piiTypes []string) (string, error) {
	jsonData, err := json.Marshal(GenerateRequest{
		Message:  message,
		Category: category,
		PIITypes: piiTypes,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/v1/generate", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("generation service returned status %d: %s", resp.StatusCode, string(body))
	}

	var result GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if result.Response == "" {
		return "", fmt.Errorf("generation service returned empty response")
	}
	return result.Response, nil
}

// HealthCheck checks if the generation service is reachable.
func (c *RemoteClient) HealthCheck(ctx context.Context) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/v1/health", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("generation service returned status %d: %s", resp.StatusCode, string(body))
	}

	var result HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}
