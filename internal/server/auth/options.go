package auth

import (
	"log/slog"
	"time"

	"github.com/iudanet/usersauth/internal/crypto"
	"github.com/iudanet/usersauth/internal/logging"
)

type options struct {
	clock  func() time.Time
	logger *slog.Logger
	cost   int
}

// Option configures Credentials, Gate and Compactor
type Option func(*options)

// WithClock overrides the time source
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithBcryptCost sets the bcrypt work factor for new password hashes
func WithBcryptCost(cost int) Option {
	return func(o *options) {
		o.cost = cost
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts []Option) options {
	o := options{
		clock:  time.Now,
		cost:   crypto.DefaultCost,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
