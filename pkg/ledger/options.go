package ledger

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Option func(*Ledger) error

func WithDigester(d Digester) Option {
	return func(l *Ledger) error {
		if d == nil {
			return errors.New("nil digester")
		}
		l.digester = d
		return nil
	}
}

func WithClock(c Clock) Option {
	return func(l *Ledger) error {
		if c == nil {
			return errors.New("nil clock")
		}
		l.clock = c
		return nil
	}
}

func WithLogger(lg *logrus.Logger) Option {
	return func(l *Ledger) error {
		l.logger = lg
		return nil
	}
}

// WithBloomEstimate sizes the address filter for roughly n claims
func WithBloomEstimate(n uint) Option {
	return func(l *Ledger) error {
		if n == 0 {
			return errors.New("bloom estimate must be positive")
		}
		l.bloomEstimate = n
		return nil
	}
}

// WithDecodeWorkers bounds the number of concurrent body decodes in scans
func WithDecodeWorkers(n int) Option {
	return func(l *Ledger) error {
		if n < 1 {
			return errors.New("decode workers must be at least 1")
		}
		l.decodeWorkers = n
		return nil
	}
}
