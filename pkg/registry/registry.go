package registry

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tcfw/starregistry/pkg/cryptography"
	"github.com/tcfw/starregistry/pkg/ledger"
)

const (
	ChallengeSuffix = "starRegistry"

	DefaultValidityWindow = 300
)

var (
	_ Appender = (*ledger.Ledger)(nil)
	_ Verifier = cryptography.BitcoinVerifier{}
)

// Appender is the write side of the ledger
type Appender interface {
	Append(*ledger.Block) *ledger.Block
}

// Verifier checks that signature proves control of address over message.
// Structurally invalid inputs are reported as an error.
type Verifier interface {
	Verify(message, address, signature string) (bool, error)
}

type Claim struct {
	Address   string      `json:"address"`
	Message   string      `json:"message"`
	Signature string      `json:"signature"`
	Star      ledger.Star `json:"star"`
}

// Registry gates ledger appends behind a signed, time bound challenge.
// It keeps no state between issuing and accepting a challenge.
type Registry struct {
	ledger   Appender
	verifier Verifier
	clock    ledger.Clock
	window   int64

	logger *logrus.Logger
}

func New(l Appender, opts ...Option) (*Registry, error) {
	if l == nil {
		return nil, errors.New("nil ledger")
	}

	r := &Registry{
		ledger:   l,
		verifier: cryptography.BitcoinVerifier{},
		clock:    &ledger.SystemClock{},
		window:   DefaultValidityWindow,
		logger:   logrus.StandardLogger(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func (r *Registry) IssueChallenge(address string) string {
	return fmt.Sprintf("%s:%d:%s", address, r.clock.Now(), ChallengeSuffix)
}

func parseMessageTime(message string) (int64, error) {
	parts := strings.Split(message, ":")
	if len(parts) < 2 {
		return 0, errors.Wrap(ErrMalformedMessage, "missing timestamp")
	}

	ts, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrMalformedMessage, "timestamp %q", parts[1])
	}

	return ts, nil
}

// SubmitClaim checks the claim and appends it to the ledger. When a claim
// is both stale and badly signed, ErrExpiredChallenge is returned.
func (r *Registry) SubmitClaim(ctx context.Context, c Claim) (*ledger.Block, error) {
	log := r.logger.WithField("address", c.Address)

	messageTime, err := parseMessageTime(c.Message)
	if err != nil {
		log.WithError(err).Info("rejected claim")
		return nil, err
	}

	elapsed := r.clock.Now() - messageTime
	if elapsed >= r.window {
		log.WithField("elapsed", elapsed).Info("rejected claim: challenge expired")
		return nil, errors.Wrapf(ErrExpiredChallenge, "%ds elapsed", elapsed)
	}

	ok, err := r.verifier.Verify(c.Message, c.Address, c.Signature)
	if err != nil {
		log.WithError(err).Info("rejected claim: verification failed")
		return nil, &VerificationError{Err: err}
	}
	if !ok {
		log.Info("rejected claim: invalid signature")
		return nil, ErrInvalidSignature
	}

	star := c.Star
	b, err := ledger.NewBlock(&ledger.Payload{
		Address:   c.Address,
		Message:   c.Message,
		Signature: c.Signature,
		Star:      &star,
	})
	if err != nil {
		return nil, errors.Wrap(err, "building claim block")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sealed := r.ledger.Append(b)
	log.WithField("height", sealed.Height).Info("accepted claim")

	return sealed, nil
}
