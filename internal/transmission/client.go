// Package transmission implements the daemon transport over the
// Transmission RPC protocol: one POST endpoint, a JSON envelope per call
// and a CSRF session token negotiated via 409 responses.
package transmission

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"torrentctl/internal/domain"
	"torrentctl/internal/domain/ports"
	"torrentctl/internal/metrics"
)

const sessionHeader = "X-Transmission-Session-Id"

// Client talks to one Transmission daemon. All methods are safe for
// concurrent use; the session token is refreshed transparently.
type Client struct {
	url     string
	http    *retryablehttp.Client
	limiter *rate.Limiter
	logger  *slog.Logger

	mu        sync.Mutex
	sessionID string
}

var _ ports.Transport = (*Client)(nil)

type Option func(*Client)

// WithRateLimit caps outgoing RPC calls per second. Zero or negative
// disables the limiter.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.HTTPClient.Timeout = d }
}

func WithRetryMax(n int) Option {
	return func(c *Client) { c.http.RetryMax = n }
}

func New(rawURL string, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.Logger = nil
	rc.HTTPClient.Timeout = 30 * time.Second
	rc.HTTPClient.Transport = otelhttp.NewTransport(http.DefaultTransport)

	c := &Client{
		url:    rawURL,
		http:   rc,
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Method    string         `json:"method"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

type reply struct {
	Result    string         `json:"result"`
	Arguments map[string]any `json:"arguments"`
}

// call performs one RPC round trip. A 409 response carries a fresh session
// token and is retried once with it.
func (c *Client) call(ctx context.Context, method string, args map[string]any) (map[string]any, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &ports.RPCError{Method: method, Err: err}
		}
	}

	start := time.Now()
	payload, err := c.roundTrip(ctx, method, args)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.RPCRequestsTotal.WithLabelValues(method, outcome).Inc()
	metrics.RPCRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())

	if err != nil {
		c.logger.Debug("rpc failed", slog.String("method", method), slog.String("error", err.Error()))
		return nil, &ports.RPCError{Method: method, Err: err}
	}
	return payload, nil
}

func (c *Client) roundTrip(ctx context.Context, method string, args map[string]any) (map[string]any, error) {
	body, err := json.Marshal(envelope{Method: method, Arguments: args})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	resp, err := c.post(ctx, body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusConflict {
		c.setSessionID(resp.Header.Get(sessionHeader))
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		metrics.SessionRetries.Inc()
		c.logger.Debug("session token refreshed", slog.String("method", method))
		if resp, err = c.post(ctx, body); err != nil {
			return nil, err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	var r reply
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if r.Result != "success" {
		return nil, fmt.Errorf("daemon: %s", r.Result)
	}
	return r.Arguments, nil
}

func (c *Client) post(ctx context.Context, body []byte) (*http.Response, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if id := c.getSessionID(); id != "" {
		req.Header.Set(sessionHeader, id)
	}
	return c.http.Do(req)
}

func (c *Client) setSessionID(id string) {
	c.mu.Lock()
	c.sessionID = id
	c.mu.Unlock()
}

func (c *Client) getSessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

func (c *Client) SessionGet(ctx context.Context) (map[string]any, error) {
	return c.call(ctx, "session-get", nil)
}

func (c *Client) TorrentGet(ctx context.Context, fields []string, ids []domain.TorrentID) ([]map[string]any, error) {
	args := map[string]any{"fields": requestFields(fields)}
	if ids != nil {
		args["ids"] = idList(ids)
	}
	payload, err := c.call(ctx, "torrent-get", args)
	if err != nil {
		return nil, err
	}
	list, _ := payload["torrents"].([]any)
	records := make([]map[string]any, 0, len(list))
	for _, item := range list {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		records = append(records, decodeTorrent(fields, rec))
	}
	return records, nil
}

func (c *Client) TorrentAdd(ctx context.Context, args map[string]any) (map[string]any, error) {
	payload, err := c.call(ctx, "torrent-add", args)
	if err != nil {
		return nil, err
	}
	return decodeAddPayload(payload), nil
}

// decodeAddPayload rewrites torrent-add's answer into the partial record
// shape the core expects under "torrent-added" / "torrent-duplicate".
func decodeAddPayload(payload map[string]any) map[string]any {
	out := make(map[string]any, len(payload))
	for _, key := range []string{"torrent-added", "torrent-duplicate"} {
		rec, ok := payload[key].(map[string]any)
		if !ok {
			continue
		}
		out[key] = map[string]any{
			domain.FieldID:   rec["id"],
			domain.FieldName: rec["name"],
		}
	}
	return out
}

func (c *Client) TorrentStart(ctx context.Context, ids []domain.TorrentID) error {
	return c.simple(ctx, "torrent-start", ids, nil)
}

func (c *Client) TorrentStartNow(ctx context.Context, ids []domain.TorrentID) error {
	return c.simple(ctx, "torrent-start-now", ids, nil)
}

func (c *Client) TorrentStop(ctx context.Context, ids []domain.TorrentID) error {
	return c.simple(ctx, "torrent-stop", ids, nil)
}

func (c *Client) TorrentVerify(ctx context.Context, ids []domain.TorrentID) error {
	return c.simple(ctx, "torrent-verify", ids, nil)
}

func (c *Client) TorrentReannounce(ctx context.Context, ids []domain.TorrentID) error {
	return c.simple(ctx, "torrent-reannounce", ids, nil)
}

func (c *Client) TorrentRemove(ctx context.Context, ids []domain.TorrentID, deleteData bool) error {
	return c.simple(ctx, "torrent-remove", ids, map[string]any{
		"delete-local-data": deleteData,
	})
}

func (c *Client) TorrentSet(ctx context.Context, ids []domain.TorrentID, args map[string]any) error {
	return c.simple(ctx, "torrent-set", ids, args)
}

func (c *Client) TorrentSetLocation(ctx context.Context, ids []domain.TorrentID, path string, move bool) error {
	return c.simple(ctx, "torrent-set-location", ids, map[string]any{
		"location": path,
		"move":     move,
	})
}

func (c *Client) simple(ctx context.Context, method string, ids []domain.TorrentID, extra map[string]any) error {
	args := make(map[string]any, len(extra)+1)
	for k, v := range extra {
		args[k] = v
	}
	args["ids"] = idList(ids)
	_, err := c.call(ctx, method, args)
	return err
}

func idList(ids []domain.TorrentID) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}
