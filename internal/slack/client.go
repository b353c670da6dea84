package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/slackrelay/slackrelay/internal/messages"
	"github.com/slackrelay/slackrelay/internal/metrics"
)

const (
	defaultTimeout = 10 * time.Second
	userAgent      = "slackrelay/1"
)

// Config configures a Client.
type Config struct {
	// WebhookURL is the default destination used when Send is called
	// without an explicit URL.
	WebhookURL string

	// ProxyServer routes requests through an HTTP proxy when set.
	ProxyServer string

	// Timeout bounds each request. Zero means ten seconds.
	Timeout time.Duration
}

// Client posts messages to Slack.
type Client struct {
	httpClient *http.Client
	webhookURL string
	metrics    *metrics.Metrics
}

// StatusError reports a non-2xx response from the webhook.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("slack: webhook returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("slack: webhook returned HTTP %d: %s", e.StatusCode, e.Body)
}

// New validates cfg and returns a Client. m may be nil.
func New(cfg Config, m *metrics.Metrics) (*Client, error) {
	if cfg.WebhookURL != "" {
		if err := ValidateWebhookURL(cfg.WebhookURL); err != nil {
			return nil, err
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.ProxyServer != "" {
		proxy, err := url.Parse(cfg.ProxyServer)
		if err != nil || proxy.Host == "" {
			return nil, fmt.Errorf("slack: invalid proxy server %q", cfg.ProxyServer)
		}
		transport.Proxy = http.ProxyURL(proxy)
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout, Transport: transport},
		webhookURL: cfg.WebhookURL,
		metrics:    m,
	}, nil
}

// ValidateWebhookURL checks that raw is an absolute http(s) URL with a host.
func ValidateWebhookURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("slack: invalid webhook URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("slack: webhook URL must use http or https scheme, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("slack: webhook URL must include a host")
	}
	return nil
}

// Send posts msg to the configured webhook.
func (c *Client) Send(ctx context.Context, msg *messages.Message) error {
	return c.sendTo(ctx, c.webhookURL, msg)
}

// sendTo posts msg to webhookURL.
func (c *Client) sendTo(ctx context.Context, webhookURL string, msg *messages.Message) error {
	if webhookURL == "" {
		return fmt.Errorf("slack: no webhook URL configured")
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("slack: marshal message: %w", err)
	}

	start := time.Now()
	err = c.post(ctx, webhookURL, body)
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}
	c.metrics.MessageSent(status, time.Since(start))
	return err
}

func (c *Client) post(ctx context.Context, webhookURL string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("slack: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error embeds the full webhook URL, secret included.
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		return fmt.Errorf("slack: http post to %s: %w", RedactURL(webhookURL), err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
}

// RedactURL masks credentials in a URL for safe logging. Slack webhook URLs
// carry their secret in the path, so every path segment after the first is
// replaced as well as userinfo passwords and query values.
func RedactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid-url>"
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) > 1 {
		for i := 1; i < len(segments); i++ {
			segments[i] = "REDACTED"
		}
		u.Path = "/" + strings.Join(segments, "/")
		u.RawPath = ""
	}

	if u.RawQuery != "" {
		q := u.Query()
		for key := range q {
			q.Set(key, "REDACTED")
		}
		u.RawQuery = q.Encode()
	}
	return u.Redacted()
}
