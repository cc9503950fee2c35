// Package probe implements the bounded-retry health check gating commit
// versus rollback. It polls once per attempt with a fixed inter-attempt
// delay; it is not a long-lived health-check daemon.
package probe

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Defaults observed to be enough for an app server to come up behind the
// proxy after a unit start.
const (
	DefaultAttempts = 5
	DefaultDelay    = 3 * time.Second
	DefaultTimeout  = 5 * time.Second
)

// Doer issues a single HTTP request. Satisfied by *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Result is the ephemeral outcome of one probe run.
type Result struct {
	Attempts   int
	LastStatus int
	Succeeded  bool
}

// Probe polls a health target with a fixed retry budget.
type Probe struct {
	client   Doer
	attempts int
	delay    time.Duration
	timeout  time.Duration
	success  map[int]bool
}

// Option configures a Probe.
type Option func(*Probe)

// WithClient sets the HTTP client.
func WithClient(client Doer) Option {
	return func(p *Probe) {
		p.client = client
	}
}

// WithAttempts sets the retry budget.
func WithAttempts(attempts int) Option {
	return func(p *Probe) {
		if attempts > 0 {
			p.attempts = attempts
		}
	}
}

// WithDelay sets the fixed inter-attempt delay.
func WithDelay(delay time.Duration) Option {
	return func(p *Probe) {
		p.delay = delay
	}
}

// WithTimeout sets the per-attempt request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(p *Probe) {
		p.timeout = timeout
	}
}

// WithSuccessStatuses replaces the accepted status codes.
func WithSuccessStatuses(statuses ...int) Option {
	return func(p *Probe) {
		p.success = make(map[int]bool, len(statuses))
		for _, s := range statuses {
			p.success[s] = true
		}
	}
}

// New creates a Probe. Defaults: 5 attempts, 3s delay, 5s per-attempt
// timeout, success on 200, 301 and 302.
func New(opts ...Option) *Probe {
	p := &Probe{
		client:   &http.Client{},
		attempts: DefaultAttempts,
		delay:    DefaultDelay,
		timeout:  DefaultTimeout,
		success: map[int]bool{
			http.StatusOK:               true,
			http.StatusMovedPermanently: true,
			http.StatusFound:            true,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Check polls the URL until a matching status or the retry budget is
// exhausted. Returns the attempts consumed and the last observed status;
// a transport failure leaves LastStatus zero for that attempt.
func (p *Probe) Check(ctx context.Context, url string) (Result, error) {
	result := Result{}

	for attempt := 1; attempt <= p.attempts; attempt++ {
		result.Attempts = attempt

		status, err := p.request(ctx, url)
		if err == nil {
			result.LastStatus = status
			if p.success[status] {
				result.Succeeded = true
				return result, nil
			}
		}

		if attempt < p.attempts {
			if err := sleep(ctx, p.delay); err != nil {
				return result, err
			}
		}
	}

	return result, nil
}

// request performs one attempt with its own timeout.
func (p *Probe) request(ctx context.Context, url string) (int, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode, nil
}

// sleep waits for the inter-attempt delay, honoring cancellation.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("probe interrupted: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
