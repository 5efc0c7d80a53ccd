package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/aalemi-dev/reqscope/event"
)

// Envelope is the JSON body posted by the HTTP deliverer.
type Envelope struct {
	SentAt time.Time      `json:"sent_at"`
	Events []*event.Event `json:"events"`
}

// HTTP posts each batch as one JSON Envelope.
type HTTP struct {
	client   *resty.Client
	endpoint string
}

// NewHTTP returns an HTTP deliverer for cfg.Endpoint.
func NewHTTP(cfg HTTPConfig) (*HTTP, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: http endpoint is required", ErrInvalidConfig)
	}
	client := resty.New().
		SetHeader("Content-Type", "application/json").
		SetHeaders(cfg.Headers)
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	return &HTTP{client: client, endpoint: cfg.Endpoint}, nil
}

func (h *HTTP) Deliver(ctx context.Context, events []*event.Event) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(Envelope{SentAt: time.Now().UTC(), Events: events}).
		Post(h.endpoint)
	if err != nil {
		return fmt.Errorf("post events: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: %s", ErrRejected, resp.Status())
	}
	return nil
}
