package payment

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"midtrans-go/internal/config"
	"midtrans-go/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	productionBaseURL = "https://api.midtrans.com"
	sandboxBaseURL    = "https://api.sandbox.midtrans.com"

	requestTimeout = 30 * time.Second
	maxAttempts    = 3
	retryBackoff   = 100 * time.Millisecond
)

// BaseURL returns the Midtrans API host for the given environment.
func BaseURL(isProduction bool) string {
	if isProduction {
		return productionBaseURL
	}
	return sandboxBaseURL
}

// Client wraps HTTP access to the Midtrans API: base URL selection, Basic
// auth with the server key, bounded retries on connection errors and uniform
// error mapping. Connection errors are retried up to maxAttempts with a
// short backoff; completed responses never are, since retrying a failed
// charge risks duplicate transactions.
type Client struct {
	baseURL    string
	serverKey  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(cfg *config.Config) *Client {
	transport := http.DefaultTransport
	if !cfg.IsProduction {
		// Sandbox only. Production always verifies certificates.
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	var limiter *rate.Limiter
	if cfg.MaxRequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.MaxRequestsPerSecond), cfg.MaxRequestsPerSecond)
	}

	return &Client{
		baseURL:   BaseURL(cfg.IsProduction),
		serverKey: cfg.ServerKey,
		httpClient: &http.Client{
			Timeout:   requestTimeout,
			Transport: transport,
		},
		limiter: limiter,
	}
}

// Get encodes params into the URL and sends no body.
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values, headers http.Header) (map[string]any, error) {
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	return c.do(ctx, http.MethodGet, endpoint, nil, headers)
}

func (c *Client) Post(ctx context.Context, endpoint string, body map[string]any, headers http.Header) (map[string]any, error) {
	return c.do(ctx, http.MethodPost, endpoint, body, headers)
}

func (c *Client) Patch(ctx context.Context, endpoint string, body map[string]any, headers http.Header) (map[string]any, error) {
	return c.do(ctx, http.MethodPatch, endpoint, body, headers)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body map[string]any, headers http.Header) (map[string]any, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("method", method),
		zap.String("endpoint", endpoint),
	)

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	var resp *http.Response
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, &TransportError{Err: err, Attempts: attempt}
			}
		}

		req, err := c.newRequest(ctx, method, endpoint, payload, headers)
		if err != nil {
			return nil, err
		}

		resp, lastErr = c.httpClient.Do(req)
		if lastErr == nil {
			break
		}

		log.Warn("Midtrans request failed", zap.Int("attempt", attempt), zap.Error(lastErr))
		if attempt < maxAttempts {
			select {
			case <-ctx.Done():
				return nil, &TransportError{Err: ctx.Err(), Attempts: attempt}
			case <-time.After(retryBackoff):
			}
		}
	}
	if lastErr != nil {
		return nil, &TransportError{Err: lastErr, Attempts: maxAttempts}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Midtrans response: %w", err)
	}

	return c.handleResponse(log, resp.StatusCode, respBody)
}

// newRequest builds a fresh request per attempt. Default headers stay on the
// request; per-call extras are merged in without touching client state.
func (c *Client) newRequest(ctx context.Context, method, endpoint string, payload []byte, extra http.Header) (*http.Request, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build Midtrans request: %w", err)
	}

	req.SetBasicAuth(c.serverKey, "")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	for key, values := range extra {
		for _, value := range values {
			req.Header.Set(key, value)
		}
	}

	return req, nil
}

func (c *Client) handleResponse(log *zap.Logger, status int, body []byte) (map[string]any, error) {
	if status >= 200 && status < 300 {
		return decodeObject(body)
	}

	// Error bodies are not always JSON; fall back to the raw text.
	raw, _ := decodeObject(body)
	message := strings.TrimSpace(string(body))
	if msgs, ok := raw["error_messages"].([]any); ok && len(msgs) > 0 {
		if first, ok := msgs[0].(string); ok {
			message = first
		}
	}

	log.Error("Midtrans returned non-success status",
		zap.Int("status", status),
		zap.String("message", message),
	)

	return nil, &GatewayError{Message: message, StatusCode: status, Raw: raw}
}

// decodeObject parses a JSON object keeping numbers as json.Number so
// amounts retain their exact textual form for signature checks.
func decodeObject(body []byte) (map[string]any, error) {
	out := map[string]any{}
	if len(bytes.TrimSpace(body)) == 0 {
		return out, nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode Midtrans response: %w", err)
	}
	return out, nil
}
