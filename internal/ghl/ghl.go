package ghl

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

// apiVersion is the CRM API version header every call carries.
const apiVersion = "2021-07-28"

type client struct {
	cfg            *config.GHLConfig
	baseURL        string
	httpClient     *http.Client
	logger         *zap.Logger
	circuitBreaker *breaker.CircuitBreaker
}

// NewClient creates the HTTP CRM client. The circuit breaker is shared with
// the health service, so it is injected rather than built here.
func NewClient(cfg *config.GHLConfig, cb *breaker.CircuitBreaker, logger *zap.Logger) Client {
	return &client{
		cfg:     cfg,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		logger:         logger,
		circuitBreaker: cb,
	}
}

func (c *client) LookupContactByPhone(ctx context.Context, accessToken, locationID, phone string) (*Contact, error) {
	q := url.Values{}
	q.Set("locationId", locationID)
	q.Set("number", phone)

	var resp struct {
		Contact *Contact `json:"contact"`
	}
	err := c.do(ctx, http.MethodGet, "/contacts/search/duplicate?"+q.Encode(), accessToken, nil, &resp, http.StatusNotFound)
	if err != nil {
		return nil, err
	}

	// The CRM answers 404 or an empty body for unknown numbers; both mean
	// absent, not failure.
	return resp.Contact, nil
}

func (c *client) UpsertContact(ctx context.Context, accessToken string, input UpsertContactInput) (*Contact, error) {
	var resp struct {
		Contact *Contact `json:"contact"`
	}
	err := c.do(ctx, http.MethodPost, "/contacts/upsert", accessToken, input, &resp)
	if err != nil {
		return nil, err
	}

	if resp.Contact == nil || resp.Contact.ID == "" {
		return nil, fmt.Errorf("upsert response lacks a usable contact record")
	}

	return resp.Contact, nil
}

func (c *client) PostMessage(ctx context.Context, accessToken string, input PostMessageInput) (string, error) {
	body := map[string]interface{}{
		"type":                   "WhatsApp",
		"locationId":             input.LocationID,
		"contactId":              input.ContactID,
		"message":                input.Body,
		"direction":              input.Direction,
		"conversationProviderId": input.ConversationProviderID,
	}
	if input.UserID != "" {
		body["userId"] = input.UserID
	}
	if input.TimestampMS > 0 {
		body["date"] = input.TimestampMS
	}

	var resp struct {
		MessageID string `json:"messageId"`
		Message   struct {
			ID string `json:"id"`
		} `json:"message"`
	}
	err := c.do(ctx, http.MethodPost, "/conversations/messages/inbound", accessToken, body, &resp)
	if err != nil {
		return "", err
	}

	if resp.MessageID != "" {
		return resp.MessageID, nil
	}
	return resp.Message.ID, nil
}

func (c *client) UpdateMessageStatus(ctx context.Context, accessToken, messageID, status string) error {
	body := map[string]interface{}{
		"status": status,
	}

	return c.do(ctx, http.MethodPut, "/conversations/messages/"+url.PathEscape(messageID)+"/status", accessToken, body, nil)
}

func (c *client) RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	return c.tokenGrant(ctx, url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	})
}

func (c *client) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	return c.tokenGrant(ctx, url.Values{
		"grant_type": {"authorization_code"},
		"code":       {code},
	})
}

// tokenGrant posts a form-encoded OAuth grant. Token calls bypass the
// circuit breaker: a tripped breaker must not lock tenants out of
// re-authorization.
func (c *client) tokenGrant(ctx context.Context, form url.Values) (*TokenResponse, error) {
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/oauth/token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("Failed to close response body", zap.Error(err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("oauth token grant: unexpected status code %d: %s",
			resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var token TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}

	return &token, nil
}

// do performs one CRM call through the circuit breaker. Statuses listed in
// tolerated are treated as an empty successful response.
func (c *client) do(ctx context.Context, method, path, accessToken string, body, out interface{}, tolerated ...int) error {
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
		req.Header.Set("Authorization", "Bearer "+accessToken)
		req.Header.Set("Version", apiVersion)

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
			for _, code := range tolerated {
				if resp.StatusCode == code {
					return nil
				}
			}
			payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			return fmt.Errorf("crm %s %s: unexpected status code %d: %s",
				method, path, resp.StatusCode, strings.TrimSpace(string(payload)))
		}

		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				if err == io.EOF {
					return nil
				}
				return fmt.Errorf("failed to decode response: %w", err)
			}
		}

		return nil
	})
}
