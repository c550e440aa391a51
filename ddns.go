package dyndns

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cloudflare/cloudflare-go"
	"github.com/sirupsen/logrus"
)

// Sentinel values for State fields. They are reserved placeholders distinct
// from any address a resolver can return for this machine.
const (
	// NoBaselineIP means no update batch has fully succeeded yet.
	NoBaselineIP = "0.0.0.0"
	// UnresolvedIP means the last cycle either failed to resolve the public
	// address or failed to push it to every record.
	UnresolvedIP = "invalid"
)

// DefaultInterval is the wait between public IP checks.
const DefaultInterval = 30 * time.Second

var discard = func() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

// State tracks the reconciliation baseline between cycles. It is a plain
// value handed to Cycle and returned updated; the Client holds no mutable
// state of its own.
type State struct {
	// Committed is the last address for which every configured record was
	// confirmed updated. It advances only when a whole batch succeeds.
	Committed string
	// Observed is the address the most recent cycle believes is current.
	// It is reset to UnresolvedIP when resolution or any update fails,
	// which forces the next cycle to re-detect the same address as changed
	// and retry the whole batch.
	Observed string
}

// NewState returns the starting state: no known-good baseline, nothing
// resolved yet.
func NewState() State {
	return State{Committed: NoBaselineIP, Observed: UnresolvedIP}
}

// New returns a Client that keeps the given record entries pointed at this
// machine's public IP address. An updater option is required; the resolver
// defaults to a WebResolver against DefaultResolverURL.
func New(entries []RecordEntry, options ...clientOption) (*Client, error) {
	if len(entries) == 0 {
		return nil, errors.New("dyndns.New: at least one record entry is required")
	}
	c := &Client{
		resolver: WebResolver(DefaultResolverURL),
		entries:  entries,
		interval: DefaultInterval,
		logger:   discard,
	}
	for i, opt := range options {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("dyndns.New: option %d returned an error: %w", i, err)
		}
	}

	if c.updater == nil {
		return nil, errors.New("dyndns.New: no record updater was registered and there is no default option - use dyndns.UsingEndpoint or dyndns.UsingCloudflare")
	}
	return c, nil
}

type clientOption func(*Client) error

// UsingEndpoint registers an updater that PUTs updates to recordURL + the
// entry's record ID, authenticated with the bearer token.
func UsingEndpoint(recordURL, token string) clientOption {
	return func(c *Client) error {
		if recordURL == "" {
			return errors.New("dyndns.UsingEndpoint: record URL cannot be empty")
		}
		c.updater = &endpointUpdater{recordURL: recordURL, token: token}
		return nil
	}
}

// UsingCloudflare registers an updater backed by the Cloudflare API client,
// updating records inside the given zone.
func UsingCloudflare(token, zoneID string) clientOption {
	return func(c *Client) (err error) {
		if c.updater, err = newCloudflareUpdater(token, zoneID); err != nil {
			return fmt.Errorf("dyndns.UsingCloudflare: error creating cloudflare DNS updater: %w", err)
		}
		return nil
	}
}

// UsingUpdater registers a custom updater implementation.
func UsingUpdater(updater Updater) clientOption {
	return func(c *Client) error {
		if updater == nil {
			return errors.New("dyndns.UsingUpdater: updater cannot be nil")
		}
		c.updater = updater
		return nil
	}
}

// UsingResolver replaces the default public IP resolver.
func UsingResolver(resolver Resolver) clientOption {
	return func(c *Client) error {
		if resolver == nil {
			resolver = WebResolver(DefaultResolverURL)
		}
		c.resolver = resolver
		return nil
	}
}

// UsingHTTPClient propagates httpclient to dependencies that make HTTP calls.
// It must be listed after the resolver and updater options it should affect.
func UsingHTTPClient(httpclient *http.Client) clientOption {
	return func(c *Client) error {
		if httpclient == nil {
			httpclient = http.DefaultClient
		}
		switch r := c.resolver.(type) {
		case *webResolver:
			r.httpClient = httpclient
		}
		switch u := c.updater.(type) {
		case *endpointUpdater:
			u.httpClient = httpclient
		case *cloudflareUpdater:
			if err := cloudflare.HTTPClient(httpclient)(u.api); err != nil {
				return fmt.Errorf("dyndns.UsingHTTPClient: %w", err)
			}
		}
		return nil
	}
}

// WithLogger directs the client's log events to logger.
// Events are discarded when no logger is registered.
func WithLogger(logger logrus.FieldLogger) clientOption {
	return func(c *Client) error {
		if logger == nil {
			logger = discard
		}
		c.logger = logger
		return nil
	}
}

// WithInterval sets the wait between public IP checks.
func WithInterval(interval time.Duration) clientOption {
	return func(c *Client) error {
		if interval <= 0 {
			interval = DefaultInterval
		}
		c.interval = interval
		return nil
	}
}

// WithVerbose enables the extra diagnostic events: the unchanged-IP notice and
// pretty-printed provider response bodies.
func WithVerbose(verbose bool) clientOption {
	return func(c *Client) error {
		c.verbose = verbose
		return nil
	}
}

// Client reconciles the configured DNS records against the machine's public
// IP address. All fields are fixed at construction; per-cycle state lives in
// a State value owned by the caller of Cycle (or by Run).
type Client struct {
	resolver Resolver
	updater  Updater
	entries  []RecordEntry
	interval time.Duration
	verbose  bool
	logger   logrus.FieldLogger
}

// Run executes reconciliation cycles until ctx is cancelled: the first
// immediately, every subsequent one after a single blocking wait of the
// configured interval measured from the end of the previous cycle.
// Resolver and updater failures never end the loop; the baseline simply does
// not advance until a cycle fully succeeds.
func (c *Client) Run(ctx context.Context) error {
	st := NewState()
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			st = c.Cycle(ctx, st)
			timer.Reset(c.interval)
		}
	}
}

// RunOnce performs a single reconciliation cycle from a fresh state.
// It returns an error if the cycle ended without the observed address
// becoming (or already being) the committed baseline.
func (c *Client) RunOnce(ctx context.Context) error {
	st := c.Cycle(ctx, NewState())
	if st.Observed == UnresolvedIP {
		return errors.New("dyndns.RunOnce: update cycle did not complete successfully")
	}
	return nil
}

// Cycle runs one resolve / compare / update-batch pass starting from st and
// returns the resulting state.
//
// Entries are updated strictly in configuration order, one request at a time.
// A failed entry never skips the entries after it: every entry is attempted
// against the same new address. The baseline advances only when the whole
// batch succeeds; otherwise the observed address is reset so the next cycle
// detects the same address as changed and retries everything.
func (c *Client) Cycle(ctx context.Context, st State) State {
	addr, err := c.resolver.Resolve(ctx)
	if err != nil {
		st.Observed = UnresolvedIP
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			c.logger.Errorf("Failed to retrieve public IP address, code: %d", statusErr.StatusCode)
		} else {
			c.logger.Errorf("Failed to retrieve public IP address: %s", err)
		}
		return st
	}

	ip := addr.String()
	st.Observed = ip
	if ip == st.Committed {
		if c.verbose {
			c.logger.Debug("Public IP has not changed since last check")
		}
		return st
	}

	c.logger.Infof("Retrieved new public IP address: %s", ip)

	failed := false
	for _, entry := range c.entries {
		body, err := c.updater.Apply(ctx, entry, addr)
		if err != nil {
			failed = true
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				c.logger.Errorf("Update for entry '%s' failed with code: %d", entry.Prefix, apiErr.StatusCode)
				if c.verbose {
					c.logger.Debugf("Provider API response:\n%s", apiErr.Body)
				}
			} else {
				c.logger.Errorf("Update for entry '%s' failed: %s", entry.Prefix, err)
			}
			continue
		}

		c.logger.Infof("Update for entry '%s' successful!", entry.Prefix)
		if c.verbose && len(body) > 0 {
			c.logger.Debugf("Provider API response:\n%s", prettyJSON(body))
		}
	}

	if failed {
		st.Observed = UnresolvedIP
		return st
	}
	st.Committed = ip
	return st
}

func prettyJSON(body []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "    "); err != nil {
		return string(body)
	}
	return buf.String()
}
