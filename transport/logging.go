package transport

import (
	"strconv"
	"time"
)

const defaultMaxPayloadLogBytes = 1024

// logStart emits the outbound dispatch event before the first attempt
func (d *Dispatcher) logStart(role Role, req *Request, payload []byte, requestID string) {
	event := d.log.Info().
		Str("direction", "outbound").
		Str("method", req.Method).
		Str("path", req.Path).
		Str("role", string(role)).
		Str("request_id", requestID)

	if len(req.Headers) > 0 {
		event = event.Int("header_count", len(req.Headers))
	}
	if len(payload) > 0 {
		event = event.Int("body_size", len(payload))
	}
	event.Msg("algolia dispatch start")

	if d.config.LogPayloads && len(payload) > 0 {
		preview, truncated := d.payloadPreview(payload)
		d.log.Debug().
			Str("direction", "outbound").
			Str("method", req.Method).
			Str("path", req.Path).
			Str("request_id", requestID).
			Int("body_size", len(payload)).
			Str("body_truncated", strconv.FormatBool(truncated)).
			Bytes("body_preview", preview).
			Msg("algolia dispatch start")
	}
}

// logFinish emits the terminal dispatch event carrying the success flag and
// retry count
func (d *Dispatcher) logFinish(role Role, req *Request, requestID string, resp *Response, retries int, elapsed time.Duration, err error) {
	if err != nil {
		d.log.Error().
			Err(err).
			Str("direction", "inbound").
			Str("method", req.Method).
			Str("path", req.Path).
			Str("role", string(role)).
			Str("request_id", requestID).
			Str("success", "false").
			Int("retries", retries).
			Dur("elapsed", elapsed).
			Msg("algolia dispatch failed")
		return
	}

	event := d.log.Info().
		Str("direction", "inbound").
		Str("method", req.Method).
		Str("path", req.Path).
		Str("role", string(role)).
		Str("request_id", requestID).
		Str("success", "true").
		Int("status", resp.StatusCode).
		Int("retries", retries).
		Dur("elapsed", elapsed)
	if len(resp.Body) > 0 {
		event = event.Int("body_size", len(resp.Body))
	}
	event.Msg("algolia dispatch complete")

	if d.config.LogPayloads && len(resp.Body) > 0 {
		preview, truncated := d.payloadPreview(resp.Body)
		d.log.Debug().
			Str("direction", "inbound").
			Str("request_id", requestID).
			Int("body_size", len(resp.Body)).
			Str("body_truncated", strconv.FormatBool(truncated)).
			Bytes("body_preview", preview).
			Msg("algolia dispatch complete")
	}
}

// payloadPreview truncates a payload to the configured logging cap
func (d *Dispatcher) payloadPreview(payload []byte) (preview []byte, truncated bool) {
	maxBytes := d.config.MaxPayloadLogBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxPayloadLogBytes
	}
	if len(payload) > maxBytes {
		return payload[:maxBytes], true
	}
	return payload, false
}
