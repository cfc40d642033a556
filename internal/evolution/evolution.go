package evolution

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/oneline-dev/waybridge/internal/breaker"
	"github.com/oneline-dev/waybridge/internal/config"
)

// WebhookEvents is the default event subscription registered for every
// instance.
var WebhookEvents = []string{"CONNECTION_UPDATE", "MESSAGES_UPSERT", "QRCODE_UPDATED"}

type client struct {
	baseURL        string
	httpClient     *http.Client
	logger         *zap.Logger
	circuitBreaker *breaker.CircuitBreaker
}

// NewClient creates the HTTP gateway client. The circuit breaker is shared
// with the health service, so it is injected rather than built here.
func NewClient(cfg *config.EvolutionConfig, cb *breaker.CircuitBreaker, logger *zap.Logger) Client {
	return &client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		logger:         logger,
		circuitBreaker: cb,
	}
}

func (c *client) SendText(ctx context.Context, token, instanceID, number, text string) (string, error) {
	body := map[string]interface{}{
		"number": number,
		"text":   text,
	}

	var resp struct {
		Key struct {
			ID string `json:"id"`
		} `json:"key"`
	}
	err := c.do(ctx, http.MethodPost, "/message/sendText/"+url.PathEscape(instanceID), token, body, &resp)
	if err != nil {
		return "", err
	}

	return resp.Key.ID, nil
}

func (c *client) GetConnectionState(ctx context.Context, token, instanceID string) (string, error) {
	var resp struct {
		Instance struct {
			InstanceName string `json:"instanceName"`
			State        string `json:"state"`
		} `json:"instance"`
	}
	err := c.do(ctx, http.MethodGet, "/instance/connectionState/"+url.PathEscape(instanceID), token, nil, &resp)
	if err != nil {
		return "", err
	}

	return resp.Instance.State, nil
}

func (c *client) GetQRCode(ctx context.Context, token, instanceID string) (*QRCode, error) {
	var resp struct {
		PairingCode string `json:"pairingCode,omitempty"`
		Code        string `json:"code,omitempty"`
		Base64      string `json:"base64,omitempty"`
	}
	err := c.do(ctx, http.MethodGet, "/instance/connect/"+url.PathEscape(instanceID), token, nil, &resp)
	if err != nil {
		return nil, err
	}

	if resp.Base64 != "" {
		return &QRCode{Type: "qr", Data: resp.Base64}, nil
	}
	if resp.PairingCode != "" {
		return &QRCode{Type: "code", Data: resp.PairingCode}, nil
	}
	if resp.Code != "" {
		return &QRCode{Type: "code", Data: resp.Code}, nil
	}

	return nil, fmt.Errorf("gateway returned no pairing material")
}

func (c *client) Logout(ctx context.Context, token, instanceID string) error {
	return c.do(ctx, http.MethodDelete, "/instance/logout/"+url.PathEscape(instanceID), token, nil, nil)
}

func (c *client) Delete(ctx context.Context, token, instanceID string) error {
	return c.do(ctx, http.MethodDelete, "/instance/delete/"+url.PathEscape(instanceID), token, nil, nil)
}

func (c *client) SetWebhook(ctx context.Context, token, instanceID, webhookURL string, events []string) error {
	body := map[string]interface{}{
		"webhook": map[string]interface{}{
			"enabled":  true,
			"url":      webhookURL,
			"events":   events,
			"byEvents": false,
		},
	}

	return c.do(ctx, http.MethodPost, "/webhook/set/"+url.PathEscape(instanceID), token, body, nil)
}

func (c *client) FetchProfilePictureURL(ctx context.Context, token, instanceID, number string) (string, error) {
	body := map[string]interface{}{
		"number": number,
	}

	var resp struct {
		ProfilePictureURL string `json:"profilePictureUrl"`
	}
	err := c.do(ctx, http.MethodPost, "/chat/fetchProfilePictureUrl/"+url.PathEscape(instanceID), token, body, &resp)
	if err != nil {
		return "", err
	}

	return resp.ProfilePictureURL, nil
}

// do performs one gateway call through the circuit breaker.
func (c *client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	return c.circuitBreaker.Execute(ctx, func() error {
		var reader io.Reader
		if body != nil {
			jsonData, err := json.Marshal(body)
			if err != nil {
				return fmt.Errorf("failed to marshal request: %w", err)
			}
			reader = bytes.NewBuffer(jsonData)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("apikey", token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("failed to send request: %w", err)
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				c.logger.Warn("Failed to close response body", zap.Error(err))
			}
		}()

		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			return fmt.Errorf("gateway %s %s: unexpected status code %d: %s",
				method, path, resp.StatusCode, strings.TrimSpace(string(payload)))
		}

		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}
		}

		return nil
	})
}
