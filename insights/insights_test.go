package insights

import (
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/go-algolia/config"
	"github.com/gaborage/go-algolia/logger"
	"github.com/gaborage/go-algolia/transport"
)

// capturingTransport records the single request it serves
type capturingTransport struct {
	request *nethttp.Request
	body    []byte
	status  int
}

func (c *capturingTransport) RoundTrip(req *nethttp.Request) (*nethttp.Response, error) {
	c.request = req
	if req.Body != nil {
		c.body, _ = io.ReadAll(req.Body)
	}
	status := c.status
	if status == 0 {
		status = 200
	}
	return &nethttp.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(`{"status":200,"message":"OK"}`)),
		Header:     make(nethttp.Header),
	}, nil
}

func newTestClient(rt *capturingTransport) *Client {
	cfg := &config.Config{
		AppID:         "MYAPP",
		APIKey:        "test-key",
		FallbackHosts: []int{1, 2, 3},
		Retry:         config.RetryConfig{Read: 3, Write: 10, Insights: 5},
		Timeout:       time.Second,
		PollInterval:  time.Millisecond,
	}
	return New(cfg, logger.New("error", false),
		transport.WithHTTPClient(&nethttp.Client{Transport: rt}))
}

func TestPushEvents(t *testing.T) {
	rt := &capturingTransport{}
	c := newTestClient(rt)

	err := c.PushEvents(context.Background(), Event{
		EventType: "click",
		EventName: "Product Clicked",
		Index:     "products",
		UserToken: "user-1",
		QueryID:   "q-1",
		ObjectIDs: []string{"sku-1"},
		Positions: []int{3},
	})
	require.NoError(t, err)

	require.NotNil(t, rt.request)
	assert.Equal(t, nethttp.MethodPost, rt.request.Method)
	assert.Equal(t, "insights.algolia.io", rt.request.URL.Host)
	assert.Equal(t, "/1/events", rt.request.URL.Path)
	assert.Equal(t, "test-key", rt.request.Header.Get(transport.HeaderAPIKey))
	assert.Equal(t, "MYAPP", rt.request.Header.Get(transport.HeaderApplicationID))

	var payload struct {
		Events []Event `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rt.body, &payload))
	require.Len(t, payload.Events, 1)
	assert.Equal(t, "click", payload.Events[0].EventType)
	assert.Equal(t, []int{3}, payload.Events[0].Positions)
}

func TestPushEventsSurfacesRejection(t *testing.T) {
	rt := &capturingTransport{status: 422}
	c := newTestClient(rt)

	err := c.PushEvents(context.Background(), Event{EventType: "view", EventName: "v", Index: "i", UserToken: "u"})
	require.Error(t, err)
	assert.True(t, transport.IsHTTPStatusError(err, 422))
}
