// Package fetch implements the polite HTTP client used to read karolakvido.cz.
package fetch

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultUserAgent identifies the exporter to the site operator.
	DefaultUserAgent = "karolakvido-ics-export/1.0 (+https://github.com/karolakvido/ics-export)"

	DefaultTimeout       = 30 * time.Second
	DefaultRequestDelay  = 1 * time.Second
	DefaultMaxDelay      = 90 * time.Second
	DefaultBackoffFactor = 2.0
	DefaultMaxAttempts   = 5
)

// ErrRateLimitExhausted reports a fetch abandoned because the server kept
// answering 429 for every allowed attempt.
var ErrRateLimitExhausted = errors.New("rate limit retries exhausted")

// StatusError reports a non-success HTTP status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.StatusCode, e.URL)
}

// Options tunes the politeness and retry behaviour of a Client.
type Options struct {
	UserAgent     string
	Timeout       time.Duration
	RequestDelay  time.Duration // pause before every request; zero disables it
	MaxDelay      time.Duration // upper bound for the adaptive delay
	BackoffFactor float64       // growth factor applied to the delay on each 429
	MaxAttempts   int           // tries per URL before giving up
}

// Client fetches pages politely. It pauses before every request, and whenever
// the server answers 429 it raises that pause for the rest of its lifetime,
// so one rate-limited response slows the whole remaining run down.
type Client struct {
	httpClient *http.Client
	opts       Options
	delay      time.Duration // current politeness delay, only ever grows
	sleep      func(time.Duration)
	logger     zerolog.Logger
}

// New creates a Client, filling zero options from the defaults. RequestDelay
// is the exception: a zero value is kept and means no politeness pause.
func New(opts Options) *Client {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = DefaultMaxDelay
	}
	if opts.BackoffFactor < 1 {
		opts.BackoffFactor = DefaultBackoffFactor
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		opts:       opts,
		delay:      opts.RequestDelay,
		sleep:      time.Sleep,
		logger:     log.Logger,
	}
}

// Fetch retrieves the page at url and returns its body. It sleeps the current
// politeness delay before every request, the first one included. A 429 answer
// raises the delay before the request is tried again; transport failures and
// 5xx answers are retried with a short exponential backoff of their own.
// Other non-200 statuses fail immediately. After MaxAttempts failed tries
// Fetch gives up.
func (c *Client) Fetch(url string) (string, error) {
	transient := backoff.NewExponentialBackOff()
	transient.InitialInterval = time.Second
	transient.MaxInterval = 8 * time.Second
	transient.Multiplier = 2
	transient.RandomizationFactor = 0
	transient.MaxElapsedTime = 0

	var lastErr error
	rateLimited := false

	for attempt := 1; attempt <= c.opts.MaxAttempts; attempt++ {
		if c.delay > 0 {
			c.logger.Debug().Str("url", url).Dur("wait", c.delay).Msg("throttling")
			c.sleep(c.delay)
		}

		resp, body, err := c.do(url)
		if err != nil {
			rateLimited = false
			lastErr = fmt.Errorf("fetching %s: %w", url, err)
			c.logger.Warn().Err(err).Str("url", url).Int("attempt", attempt).Msg("request failed")
			c.sleep(transient.NextBackOff())
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return body, nil
		case resp.StatusCode == http.StatusTooManyRequests:
			rateLimited = true
			lastErr = &StatusError{URL: url, StatusCode: resp.StatusCode}
			c.raiseDelay()
			c.logger.Warn().Str("url", url).Int("attempt", attempt).Dur("delay", c.delay).Msg("rate limited, slowing down")
			if extra := c.retryAfterExcess(resp.Header.Get("Retry-After")); extra > 0 {
				c.sleep(extra)
			}
		case resp.StatusCode >= http.StatusInternalServerError:
			rateLimited = false
			lastErr = &StatusError{URL: url, StatusCode: resp.StatusCode}
			c.logger.Warn().Int("status", resp.StatusCode).Str("url", url).Int("attempt", attempt).Msg("server error, retrying")
			c.sleep(transient.NextBackOff())
		default:
			return "", &StatusError{URL: url, StatusCode: resp.StatusCode}
		}
	}

	if rateLimited {
		return "", fmt.Errorf("giving up on %s after %d attempts: %w", url, c.opts.MaxAttempts, ErrRateLimitExhausted)
	}
	return "", lastErr
}

func (c *Client) do(url string) (*http.Response, string, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return resp, "", nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return resp, string(body), nil
}

// raiseDelay backs the politeness delay off by one step. The delay never
// shrinks again within the client's lifetime.
func (c *Client) raiseDelay() {
	switch {
	case c.delay > 0:
		c.delay = time.Duration(float64(c.delay) * c.opts.BackoffFactor)
	case c.opts.RequestDelay > 0:
		c.delay = c.opts.RequestDelay
	default:
		c.delay = DefaultRequestDelay
	}
	if c.delay > c.opts.MaxDelay {
		c.delay = c.opts.MaxDelay
	}
}

// retryAfterExcess returns how much longer than the current politeness delay
// the server asked us to wait, capped at MaxDelay.
func (c *Client) retryAfterExcess(header string) time.Duration {
	wait, ok := parseRetryAfter(header)
	if !ok {
		return 0
	}
	if wait > c.opts.MaxDelay {
		wait = c.opts.MaxDelay
	}
	if wait <= c.delay {
		return 0
	}
	return wait - c.delay
}

// parseRetryAfter reads a Retry-After header value, which is either a number
// of seconds or an HTTP date.
func parseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}
	when, err := http.ParseTime(value)
	if err != nil {
		return 0, false
	}
	until := time.Until(when)
	if until <= 0 {
		return 0, false
	}
	return until, true
}
