package transport

import (
	"encoding/json"
	"io"
	nethttp "net/http"
)

// classify maps a raw transport outcome into the pipeline's uniform result
// shape: a transport failure becomes a network error, a non-2xx status an
// HTTP error carrying the raw body, and a 2xx response a *Response whose
// body must be valid JSON.
func classify(resp *nethttp.Response, err error) (*Response, error) {
	if err != nil {
		return nil, NewNetworkError("request failed", err)
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, NewNetworkError("reading response body", readErr)
	}

	if !IsSuccessStatus(resp.StatusCode) {
		return nil, NewHTTPError(errorMessage(resp.StatusCode, body), resp.StatusCode, body)
	}

	if len(body) > 0 && !json.Valid(body) {
		return nil, NewDecodeError("response body is not valid JSON", nil)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
		Headers:    resp.Header,
	}, nil
}

// errorMessage extracts the service's message field from an error body,
// falling back to the standard status text
func errorMessage(statusCode int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return nethttp.StatusText(statusCode)
}
