package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"reviewhub/internal/models"
)

// Client talks to the moderate endpoint. The poller uses CheckStatus; the
// simulator worker uses Notify to stand in for the real pipeline's webhooks.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Notify delivers a notification event, expecting only an acknowledgement.
func (c *Client) Notify(ctx context.Context, event models.NotificationEvent) error {
	var ack struct {
		Success bool `json:"success"`
	}
	if err := c.post(ctx, event, &ack); err != nil {
		return fmt.Errorf("deliver notification: %w", err)
	}
	if !ack.Success {
		return fmt.Errorf("deliver notification: endpoint did not acknowledge")
	}
	return nil
}

// CheckStatus issues a status query for one asset and returns the derived
// report.
func (c *Client) CheckStatus(ctx context.Context, assetID, publicID string) (models.StatusReport, error) {
	query := models.NotificationEvent{
		AssetID:     assetID,
		PublicID:    publicID,
		CheckStatus: true,
	}
	var report models.StatusReport
	if err := c.post(ctx, query, &report); err != nil {
		return models.StatusReport{}, fmt.Errorf("check status: %w", err)
	}
	return report, nil
}

func (c *Client) post(ctx context.Context, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, c.endpoint)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
