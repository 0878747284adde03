package transport

import nethttp "net/http"

// Authentication header names expected by the service
const (
	HeaderAPIKey        = "X-Algolia-API-Key"
	HeaderApplicationID = "X-Algolia-Application-Id"
)

// attachCredentials appends the two authentication headers to an outgoing
// request. Headers already present on the request are left untouched.
// Missing credentials surface as a configuration error, never as a
// retryable outcome.
func attachCredentials(req *nethttp.Request, cfg *Config) error {
	if err := cfg.validateCredentials(); err != nil {
		return err
	}
	req.Header.Set(HeaderAPIKey, cfg.APIKey)
	req.Header.Set(HeaderApplicationID, cfg.AppID)
	return nil
}
