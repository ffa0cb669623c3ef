package publisher

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tbpush/tbpush/internal/config"
)

// maxErrorBody bounds how much of an error response is carried into the
// round detail for operator diagnosis.
const maxErrorBody = 256

// Result classifies one publish attempt. OK is true only when the transport
// completed and the status code was 2xx. StatusCode is 0 when the transport
// itself failed (connection refused, timeout, DNS).
type Result struct {
	OK         bool
	StatusCode int
	Detail     string
}

// Client performs telemetry POSTs against one resolved endpoint. It holds a
// single http.Client so connections are reused across rounds.
type Client struct {
	url    string
	client *http.Client
}

// New builds a Client for the ThingsBoard device-telemetry API. The device
// token rides in the URL path per the platform convention:
// {server}/api/v1/{token}/telemetry.
func New(ep config.Endpoint) *Client {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: ep.InsecureSkipVerify, //nolint:gosec // user-configured
		},
	}
	return &Client{
		url: fmt.Sprintf("%s/api/v1/%s/telemetry",
			strings.TrimRight(ep.Server, "/"), ep.DeviceToken),
		client: &http.Client{
			Transport: transport,
			Timeout:   ep.Timeout,
		},
	}
}

// URL returns the resolved telemetry URL. Intended for startup logging;
// note it contains the device token.
func (c *Client) URL() string { return c.url }

// Publish POSTs body as JSON and classifies the outcome. Exactly one request
// per call: retries, if any, are the caller's schedule, not ours.
func (c *Client) Publish(ctx context.Context, body []byte) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Result{Detail: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{Detail: fmt.Sprintf("http post: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return Result{OK: true, StatusCode: resp.StatusCode}
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	detail := fmt.Sprintf("HTTP %d", resp.StatusCode)
	if len(snippet) > 0 {
		detail = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, snippet)
	}
	return Result{StatusCode: resp.StatusCode, Detail: detail}
}
