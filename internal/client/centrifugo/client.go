package centrifugo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/s21platform/roundtable-service/internal/config"
	"github.com/s21platform/roundtable-service/internal/model"
)

const publishMethod = "publish"

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func New(cfg config.Centrifuge) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// Publish sends a round event to one thread channel.
func (c *Client) Publish(ctx context.Context, channel string, event model.RoundEvent) error {
	return c.call(ctx, publishMethod, model.CentrifugoEventParams{
		Channel: channel,
		Data:    event,
	})
}

func (c *Client) call(ctx context.Context, method string, params interface{}) error {
	body, err := json.Marshal(model.CentrifugoEvent{Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("Authorization", "apikey "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute %s request: %w", method, err)
	}
	defer resp.Body.Close() //nolint:errcheck // .

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected %s status code: %d", method, resp.StatusCode)
	}

	var reply model.CentrifugoReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if reply.Error != nil {
		return reply.Error
	}
	return nil
}
