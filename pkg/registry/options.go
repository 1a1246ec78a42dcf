package registry

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tcfw/starregistry/pkg/ledger"
)

type Option func(*Registry) error

func WithVerifier(v Verifier) Option {
	return func(r *Registry) error {
		if v == nil {
			return errors.New("nil verifier")
		}
		r.verifier = v
		return nil
	}
}

func WithClock(c ledger.Clock) Option {
	return func(r *Registry) error {
		if c == nil {
			return errors.New("nil clock")
		}
		r.clock = c
		return nil
	}
}

// WithValidityWindow sets how long a challenge may be used, in whole seconds
func WithValidityWindow(d time.Duration) Option {
	return func(r *Registry) error {
		if d < time.Second {
			return errors.Errorf("validity window %s too short", d)
		}
		r.window = int64(d / time.Second)
		return nil
	}
}

func WithLogger(l *logrus.Logger) Option {
	return func(r *Registry) error {
		r.logger = l
		return nil
	}
}
