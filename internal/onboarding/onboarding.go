// Package onboarding obtains an application key, waiting for the user to press
// the bridge's link button.
package onboarding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/wheelibin/hueclient/pkg/hue"
)

var ErrAttemptsExhausted = errors.New("link button was not pressed in time")

type Registrar interface {
	Register(ctx context.Context, deviceType string) (*hue.Registration, error)
}

// Policy controls how long Register keeps asking.
type Policy struct {
	// Delay between attempts.
	Delay time.Duration
	// MaxAttempts of zero retries until ctx is cancelled.
	MaxAttempts int
	// Waiting, if set, is called each time the bridge reports the link button has
	// not been pressed, with the number of the attempt that failed.
	Waiting func(attempt int)
}

// Register asks r for a key until it succeeds. Only the "link button not pressed"
// error is retried; any other error is returned at once.
func Register(ctx context.Context, logger *log.Logger, r Registrar, deviceType string, policy Policy) (*hue.Registration, error) {
	for attempt := 1; ; attempt++ {
		reg, err := r.Register(ctx, deviceType)
		if err == nil {
			return reg, nil
		}
		if !hue.IsLinkButtonNotPressed(err) {
			return nil, err
		}

		logger.Info("Push the bridge's link button", "attempt", attempt)
		if policy.Waiting != nil {
			policy.Waiting(attempt)
		}

		if policy.MaxAttempts > 0 && attempt >= policy.MaxAttempts {
			return nil, fmt.Errorf("%w after %d attempts: %w", ErrAttemptsExhausted, attempt, err)
		}

		timer := time.NewTimer(policy.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
