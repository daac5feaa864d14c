// internal/adapters/places/client.go
package places

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"inhotel/internal/adapters/observability"
)

// Client calls the Google Places Details endpoint with a server-side key.
type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, key string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

var (
	ErrNotFound     = errors.New("places: not found")
	ErrUnauthorized = errors.New("places: unauthorized")
	ErrForbidden    = errors.New("places: forbidden")
)

// Details returns the upstream JSON body for placeID unchanged. An empty
// fields list lets the upstream decide which fields to return.
func (c *Client) Details(ctx context.Context, placeID string, fields []string) (map[string]any, error) {
	q := url.Values{}
	q.Set("place_id", placeID)
	if len(fields) > 0 {
		q.Set("fields", strings.Join(fields, ","))
	}
	q.Set("key", c.key)

	var out map[string]any
	start := time.Now()
	status, err := c.get(ctx, c.base+"/details/json?"+q.Encode(), &out)
	observability.ObserveExternal("places", "details", status, time.Since(start))
	return out, err
}

// get performs a GET with client-side rate limiting, retries, and JSON decode into out.
// Retries on 429 and transient 5xx, honoring Retry-After when provided.
// It returns the last upstream status, 0 when no response arrived.
func (c *Client) get(ctx context.Context, u string, out any) (int, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return 0, err
	}

	var lastErr error
	var lastStatus int
	for i := 0; i < 4; i++ {
		// build a fresh request each attempt
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return 0, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "inhotel/1.0")

		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return 0, ctx.Err()
			}
			lastErr = redact(err, c.key)
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return 0, ctx.Err()
			}
			return 0, lastErr
		}
		lastStatus = resp.StatusCode

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			return resp.StatusCode, err

		case http.StatusNotFound:
			resp.Body.Close()
			return resp.StatusCode, ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return resp.StatusCode, ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return resp.StatusCode, ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return lastStatus, ctx.Err()
			}
			return lastStatus, lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return resp.StatusCode, fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastStatus, lastErr
}

// redact keeps the API key out of transport errors, which embed the URL.
func redact(err error, key string) error {
	msg := err.Error()
	if !strings.Contains(msg, key) {
		return err
	}
	return errors.New(strings.ReplaceAll(msg, key, "REDACTED"))
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential delay (200ms, 400ms, 800ms...) with up to
// +50% jitter from crypto/rand.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
