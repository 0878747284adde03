// Package client provides the public entry point for the Algolia REST API.
// Every operation builds a {method, path, body} tuple and hands it to the
// transport dispatcher; all protocol and failure handling lives there.
package client

import (
	"context"
	nethttp "net/http"

	"golang.org/x/sync/errgroup"

	"github.com/gaborage/go-algolia/config"
	"github.com/gaborage/go-algolia/logger"
	"github.com/gaborage/go-algolia/transport"
)

// Client talks to the Algolia REST API. It is safe for concurrent use.
type Client struct {
	config     *config.Config
	dispatcher *transport.Dispatcher
	log        logger.Logger
}

// New creates a Client for the given configuration
func New(cfg *config.Config, log logger.Logger, opts ...transport.Option) *Client {
	return &Client{
		config:     cfg,
		dispatcher: transport.New(cfg.Transport(), log, opts...),
		log:        log,
	}
}

// NewFromEnv creates a Client configured from the environment
func NewFromEnv(log logger.Logger, opts ...transport.Option) (*Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return New(cfg, log, opts...), nil
}

// Index returns a handle on one index
func (c *Client) Index(name string) *Index {
	return &Index{name: name, client: c}
}

// ListIndexes returns every index of the application
func (c *Client) ListIndexes(ctx context.Context) (*ListIndexesResponse, error) {
	resp, err := c.dispatcher.Do(ctx, transport.RoleRead, &transport.Request{
		Method: nethttp.MethodGet,
		Path:   "/1/indexes",
	})
	if err != nil {
		return nil, err
	}

	var out ListIndexesResponse
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WaitTasks blocks until every given task on the index is published. Each
// task gets its own sequential poller; tasks are polled concurrently with
// respect to each other.
func (c *Client) WaitTasks(ctx context.Context, index string, taskIDs ...int64) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, taskID := range taskIDs {
		g.Go(func() error {
			waiter := transport.NewTaskWaiter(c.dispatcher, c.config.PollInterval)
			return waiter.Wait(ctx, index, taskID)
		})
	}
	return g.Wait()
}
