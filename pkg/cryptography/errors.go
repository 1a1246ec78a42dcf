package cryptography

import "github.com/pkg/errors"

var (
	ErrInvalidAddress          = errors.New("invalid address")
	ErrAddressChecksum         = errors.New("address checksum mismatch")
	ErrInvalidSignatureFormat  = errors.New("invalid signature format")
	ErrUnsupportedSignatureKey = errors.New("unsupported signature header")
)
