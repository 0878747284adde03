package transport

import (
	"encoding/json"
	nethttp "net/http"
	"time"
)

// Role classifies a logical operation as read, write, or analytics traffic.
// It is fixed for the lifetime of one operation and determines host naming,
// retry budget, and credential scope.
type Role string

const (
	// RoleRead targets the low-latency search hosts
	RoleRead Role = "read"
	// RoleWrite targets the indexing hosts
	RoleWrite Role = "write"
	// RoleInsights targets the analytics host
	RoleInsights Role = "insights"
)

// Default retry budgets (extra attempts beyond the first). Write traffic
// gets the largest budget because write durability matters more than write
// latency; reads fail over quickly instead.
const (
	DefaultReadRetries     = 3
	DefaultWriteRetries    = 10
	DefaultInsightsRetries = 5
)

const (
	// DefaultTimeout bounds a single attempt, not the whole dispatch
	DefaultTimeout = 10 * time.Second
	// DefaultPollInterval is the delay between task status checks
	DefaultPollInterval = 100 * time.Millisecond
)

// DefaultFallbackHosts is the default ordering of the numbered fallback hosts
var DefaultFallbackHosts = []int{1, 2, 3}

// Request describes one logical API call handed to the Dispatcher.
// It is immutable once submitted: the pipeline only adds headers and
// rewrites the target host per attempt, never the path or body.
type Request struct {
	Method  string
	Path    string
	Body    any
	Headers map[string]string
}

// Response carries a successful outcome back to the caller
type Response struct {
	StatusCode int
	Body       []byte
	Headers    nethttp.Header
	Stats      Stats
}

// Stats reports how much work one dispatch took
type Stats struct {
	ElapsedTime time.Duration
	Retries     int
}

// Decode unmarshals the response body into v
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return NewDecodeError("malformed response body", err)
	}
	return nil
}

// Config holds the settings the dispatch pipeline needs. The zero value is
// not usable; AppID and APIKey are mandatory.
type Config struct {
	AppID  string
	APIKey string

	// FallbackHosts orders the numbered *.algolianet.com hosts tried after
	// the primary host for a role has failed. The ordering is explicit
	// configuration so retry sequences stay reproducible.
	FallbackHosts []int

	// Extra attempts per role beyond the first; zero means the default
	ReadRetries     int
	WriteRetries    int
	InsightsRetries int

	// Timeout applies to each individual attempt
	Timeout time.Duration

	// LogPayloads enables debug-level logging of request/response bodies
	LogPayloads bool
	// MaxPayloadLogBytes caps the number of body bytes logged when LogPayloads is enabled
	MaxPayloadLogBytes int
}

// retryBudget returns the number of extra attempts allowed for a role
func (c *Config) retryBudget(role Role) int {
	switch role {
	case RoleWrite:
		if c.WriteRetries > 0 {
			return c.WriteRetries
		}
		return DefaultWriteRetries
	case RoleInsights:
		if c.InsightsRetries > 0 {
			return c.InsightsRetries
		}
		return DefaultInsightsRetries
	default:
		if c.ReadRetries > 0 {
			return c.ReadRetries
		}
		return DefaultReadRetries
	}
}

// validateCredentials fails fast on missing credentials, before any network attempt
func (c *Config) validateCredentials() error {
	if c.AppID == "" {
		return NewConfigError("application ID is required")
	}
	if c.APIKey == "" {
		return NewConfigError("API key is required")
	}
	return nil
}
