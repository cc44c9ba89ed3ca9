// Package discovery locates a Hue bridge on the local network.
//
// Strategies are tried in order and the first address found wins. The usual
// order is mDNS followed by the cloud discovery endpoint (see Default).
package discovery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

var (
	// ErrTimeout means the local lookup waited its full bound without an answer.
	ErrTimeout = errors.New("timed out waiting for mDNS response")
	// ErrNoResponse means the lookup ended without any usable answer.
	ErrNoResponse = errors.New("no bridge responded")
)

// Strategy is one way of finding a bridge.
type Strategy interface {
	Name() string
	Discover(ctx context.Context) (netip.Addr, error)
}

type Attempt struct {
	Strategy string
	Err      error
}

// Error is returned when every strategy failed. It carries each failure in the
// order the strategies were tried.
type Error struct {
	Attempts []Attempt
}

func (e *Error) Error() string {
	if len(e.Attempts) == 0 {
		return "discovery failed: no strategies configured"
	}
	reasons := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		reasons = append(reasons, fmt.Sprintf("%s: %s", a.Strategy, a.Err))
	}
	return "discovery failed: " + strings.Join(reasons, "; ")
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		errs = append(errs, a.Err)
	}
	return errs
}

type Discoverer struct {
	logger     *log.Logger
	strategies []Strategy
}

func New(logger *log.Logger, strategies ...Strategy) *Discoverer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Discoverer{logger: logger, strategies: strategies}
}

// Default returns the mDNS then cloud discoverer. client is used for the cloud
// request; nil means http.DefaultClient.
func Default(logger *log.Logger, mdnsTimeout time.Duration, cloudURL string, client *http.Client) *Discoverer {
	return New(logger,
		&MDNS{Timeout: mdnsTimeout},
		&Cloud{URL: cloudURL, Client: client},
	)
}

// Discover runs the strategies in order until one returns an address. Each
// strategy is tried once. If all fail the result is a *Error.
func (d *Discoverer) Discover(ctx context.Context) (netip.Addr, error) {
	failed := &Error{}

	for _, s := range d.strategies {
		d.logger.Debug("trying bridge discovery", "strategy", s.Name())

		addr, err := s.Discover(ctx)
		if err == nil {
			d.logger.Info("found bridge", "strategy", s.Name(), "address", addr)
			return addr, nil
		}

		d.logger.Warn("bridge discovery failed", "strategy", s.Name(), "err", err)
		failed.Attempts = append(failed.Attempts, Attempt{Strategy: s.Name(), Err: err})

		// the caller gave up, later strategies would fail the same way
		if ctx.Err() != nil {
			break
		}
	}

	return netip.Addr{}, failed
}
