package registry

import "github.com/pkg/errors"

var (
	ErrMalformedMessage = errors.New("malformed challenge message")
	ErrVerification     = errors.New("signature could not be verified")
	ErrExpiredChallenge = errors.New("challenge has expired")
	ErrInvalidSignature = errors.New("signature does not match address")
)

// VerificationError carries the verifier's cause while matching ErrVerification.
type VerificationError struct {
	Err error
}

func (e *VerificationError) Error() string {
	return ErrVerification.Error() + ": " + e.Err.Error()
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

func (e *VerificationError) Is(target error) bool {
	return target == ErrVerification
}
