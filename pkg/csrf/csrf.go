// Package csrf caches a CSRF token fetched from the API so that clients
// of state-changing endpoints do not request a fresh token per call. The
// cache refreshes ahead of expiry and retries failed fetches with
// exponential backoff.
package csrf

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
)

type tokenResponse struct {
	Token     string `json:"csrfToken"`
	ExpiresIn int    `json:"expiresIn"` // seconds
}

// Cache holds one token and refreshes it on demand. Safe for concurrent
// use; concurrent callers during a refresh share the single fetch.
type Cache struct {
	url    string
	client *http.Client

	// refreshSkew renews the token this long before its actual expiry so
	// in-flight requests never carry a token about to lapse.
	refreshSkew time.Duration

	maxRetries  int
	baseBackoff time.Duration
	maxBackoff  time.Duration

	// Injected for tests.
	now   func() time.Time
	sleep func(context.Context, time.Duration) error

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func NewCache(url string) *Cache {
	return &Cache{
		url:         url,
		client:      http.DefaultClient,
		refreshSkew: 30 * time.Second,
		maxRetries:  3,
		baseBackoff: 200 * time.Millisecond,
		maxBackoff:  5 * time.Second,
		now:         time.Now,
		sleep:       sleepCtx,
	}
}

func (c *Cache) WithHTTPClient(client *http.Client) *Cache {
	c.client = client
	return c
}

func (c *Cache) WithRetry(maxRetries int, base, max time.Duration) *Cache {
	c.maxRetries = maxRetries
	c.baseBackoff = base
	c.maxBackoff = max
	return c
}

func (c *Cache) WithClock(now func() time.Time, sleep func(context.Context, time.Duration) error) *Cache {
	c.now = now
	c.sleep = sleep
	return c
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Token returns the cached token, fetching a new one if the cache is
// empty or within the refresh skew of expiry.
func (c *Cache) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Add(c.refreshSkew).Before(c.expiresAt) {
		return c.token, nil
	}

	return c.refreshLocked(ctx)
}

// Invalidate drops the cached token; the next Token call fetches fresh.
// Call after a 403 indicating the server rotated tokens early.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.expiresAt = time.Time{}
}

func (c *Cache) refreshLocked(ctx context.Context) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.baseBackoff << (attempt - 1)
			if backoff > c.maxBackoff {
				backoff = c.maxBackoff
			}
			if err := c.sleep(ctx, backoff); err != nil {
				return "", err
			}
		}

		token, expiresIn, err := c.fetch(ctx)
		if err != nil {
			lastErr = err
			continue
		}

		c.token = token
		c.expiresAt = c.now().Add(time.Duration(expiresIn) * time.Second)
		return token, nil
	}

	return "", errors.Wrapf(lastErr, "csrf token fetch failed after %d attempts", c.maxRetries+1)
}

func (c *Cache) fetch(ctx context.Context) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", 0, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", 0, errors.Wrap(err, "failed to decode token response")
	}
	if body.Token == "" {
		return "", 0, errors.New("empty token in response")
	}
	if body.ExpiresIn <= 0 {
		body.ExpiresIn = 3600
	}

	return body.Token, body.ExpiresIn, nil
}
