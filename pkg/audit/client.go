// Package audit posts applied settings changes to an external webhook.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"quantwp/pkg/envsync"
	"quantwp/pkg/logger"
)

// Config holds webhook client settings
type Config struct {
	WebhookURL string
	MaxRetries int
	RetryDelay time.Duration
	Timeout    time.Duration
}

// ChangeSummary names a changed key and where it came from. Values are
// deliberately left out.
type ChangeSummary struct {
	Key    string `json:"key"`
	Source string `json:"source"`
}

// Message is the webhook payload
type Message struct {
	SettingsKey string          `json:"settings_key"`
	PassID      string          `json:"pass_id"`
	Changes     []ChangeSummary `json:"changes"`
	Written     bool            `json:"written"`
	At          time.Time       `json:"at"`
}

// Client delivers audit messages with retries
type Client struct {
	webhookURL string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
}

func NewClient(cfg Config) *Client {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		webhookURL: cfg.WebhookURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}
}

// Notify implements envsync.Notifier
func (c *Client) Notify(ctx context.Context, result *envsync.Result) error {
	msg := &Message{
		SettingsKey: result.SettingsKey,
		PassID:      result.PassID,
		Written:     result.Written,
		At:          time.Now().UTC(),
	}
	for _, ch := range result.Changes {
		msg.Changes = append(msg.Changes, ChangeSummary{Key: ch.Key, Source: ch.Source})
	}
	return c.Send(ctx, msg)
}

// Send posts msg, retrying up to maxRetries times
func (c *Client) Send(ctx context.Context, msg *Message) error {
	if c.webhookURL == "" {
		return ErrWebhookURLEmpty
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMarshalMessage, err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		lastErr = c.post(ctx, body)
		if lastErr == nil {
			return nil
		}
		if attempt < c.maxRetries {
			logger.Warn("Audit webhook failed, retrying",
				zap.Int("attempt", attempt+1),
				zap.Int("max_retries", c.maxRetries),
				zap.Duration("retry_delay", c.retryDelay),
				zap.Error(lastErr))
		}
	}
	return &RetryError{Attempts: c.maxRetries + 1, LastErr: lastErr}
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendRequest, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(respBody)}
	}
	return nil
}
