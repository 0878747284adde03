// Package insights pushes analytics events to the Algolia Insights API
// through the shared dispatch pipeline, using the insights role and its
// single fixed host.
package insights

import (
	"context"
	nethttp "net/http"

	"github.com/gaborage/go-algolia/config"
	"github.com/gaborage/go-algolia/logger"
	"github.com/gaborage/go-algolia/transport"
)

// Event is one analytics event. Event semantics are opaque payload; only
// the envelope is validated by the service.
type Event struct {
	EventType string   `json:"eventType"`
	EventName string   `json:"eventName"`
	Index     string   `json:"index"`
	UserToken string   `json:"userToken"`
	Timestamp int64    `json:"timestamp,omitempty"`
	QueryID   string   `json:"queryID,omitempty"`
	ObjectIDs []string `json:"objectIDs,omitempty"`
	Filters   []string `json:"filters,omitempty"`
	Positions []int    `json:"positions,omitempty"`
}

// Client pushes events to the Insights API. It is safe for concurrent use.
type Client struct {
	dispatcher *transport.Dispatcher
}

// New creates an insights client for the given configuration
func New(cfg *config.Config, log logger.Logger, opts ...transport.Option) *Client {
	return &Client{dispatcher: transport.New(cfg.Transport(), log, opts...)}
}

// PushEvents sends a batch of events
func (c *Client) PushEvents(ctx context.Context, events ...Event) error {
	_, err := c.dispatcher.Do(ctx, transport.RoleInsights, &transport.Request{
		Method: nethttp.MethodPost,
		Path:   "/1/events",
		Body:   map[string]any{"events": events},
	})
	return err
}
