package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/gaborage/go-algolia/logger"
	"github.com/gaborage/go-algolia/trace"
)

const tracerName = "github.com/gaborage/go-algolia/transport"

// Dispatcher composes host selection, credential attachment, retry, and
// response classification into a single execute call used by all
// higher-level operations. It is safe for concurrent use: per-call state
// (the attempt counter) is local to each Do invocation.
type Dispatcher struct {
	config  *Config
	log     logger.Logger
	client  *nethttp.Client
	metrics *dispatchMetrics
	tracer  oteltrace.Tracer
}

// Option customizes a Dispatcher
type Option func(*Dispatcher)

// WithHTTPClient replaces the underlying HTTP client, e.g. to install a
// custom transport in tests
func WithHTTPClient(c *nethttp.Client) Option {
	return func(d *Dispatcher) {
		d.client = c
	}
}

// New creates a Dispatcher for the given configuration
func New(cfg *Config, log logger.Logger, opts ...Option) *Dispatcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	d := &Dispatcher{
		config:  cfg,
		log:     log,
		client:  &nethttp.Client{Timeout: timeout},
		metrics: newDispatchMetrics(),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Config returns the dispatcher's configuration
func (d *Dispatcher) Config() *Config {
	return d.config
}

// Do executes one logical operation with per-role host failover and returns
// either the successful response or the terminal error. The observability
// events emitted around the call are side effects only and never influence
// the returned result.
func (d *Dispatcher) Do(ctx context.Context, role Role, req *Request) (*Response, error) {
	start := time.Now()

	if err := d.config.validateCredentials(); err != nil {
		return nil, err
	}

	var payload []byte
	if req.Body != nil {
		var err error
		payload, err = json.Marshal(req.Body)
		if err != nil {
			return nil, NewDecodeError("unencodable request body", err)
		}
	}

	ctx, span := d.tracer.Start(ctx, "algolia.dispatch", oteltrace.WithAttributes(
		attribute.String("algolia.role", string(role)),
		attribute.String("http.method", req.Method),
		attribute.String("url.path", req.Path),
	))
	defer span.End()

	requestID := trace.EnsureRequestID(ctx)
	d.logStart(role, req, payload, requestID)

	resp, retries, err := d.dispatchWithRetry(ctx, role, req, payload)
	elapsed := time.Since(start)

	if resp != nil {
		resp.Stats = Stats{ElapsedTime: elapsed, Retries: retries}
	}

	d.metrics.record(ctx, role, req.Method, retries, elapsed, err)
	d.logFinish(role, req, requestID, resp, retries, elapsed, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	}
	span.SetAttributes(attribute.Int("algolia.retries", retries))

	return resp, err
}

// dispatchWithRetry walks the per-role host sequence until an attempt
// produces a terminal outcome or the budget runs out. On exhaustion the
// last observed failure is returned as-is; no synthetic exhaustion error
// is fabricated.
func (d *Dispatcher) dispatchWithRetry(ctx context.Context, role Role, req *Request, payload []byte) (*Response, int, error) {
	budget := d.config.retryBudget(role)

	var lastErr error
	for attempt := 0; attempt <= budget; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if lastErr != nil {
				return nil, attempt, lastErr
			}
			return nil, attempt, NewNetworkError("dispatch canceled", ctxErr)
		}

		resp, err := d.attempt(ctx, role, attempt, req, payload)
		if err == nil {
			return resp, attempt, nil
		}
		if !IsRetryable(err) {
			return nil, attempt, err
		}
		lastErr = err
	}

	return nil, budget, lastErr
}

// attempt sends the request to the host selected for this attempt number
// and classifies the outcome
func (d *Dispatcher) attempt(ctx context.Context, role Role, attempt int, req *Request, payload []byte) (*Response, error) {
	host := SelectHost(role, attempt, d.config)
	url := "https://" + host + req.Path

	var body io.Reader = nethttp.NoBody
	if len(payload) > 0 {
		body = bytes.NewReader(payload)
	}

	httpReq, err := nethttp.NewRequestWithContext(ctx, req.Method, url, body)
	if err != nil {
		return nil, NewConfigError("invalid request: " + err.Error())
	}

	if len(payload) > 0 {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if err := attachCredentials(httpReq, d.config); err != nil {
		return nil, err
	}

	d.log.Debug().
		Str("host", host).
		Str("method", req.Method).
		Str("path", req.Path).
		Int("attempt", attempt).
		Msg("algolia attempt")

	return classify(d.client.Do(httpReq))
}
