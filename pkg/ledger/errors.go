package ledger

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrDecode = errors.New("malformed block body")
)

const (
	ReasonSelfValidation = "self-validation failed"
	ReasonPreviousHash   = "previous hash mismatch"
)

// Finding is a single block level integrity problem found while
// validating the chain
type Finding struct {
	Block  Block
	Reason string
}

// ChainIntegrityError holds every finding of a chain validation run
type ChainIntegrityError struct {
	Findings []Finding
}

func (e *ChainIntegrityError) Error() string {
	parts := make([]string, 0, len(e.Findings))
	for _, f := range e.Findings {
		parts = append(parts, fmt.Sprintf("block %d: %s", f.Block.Height, f.Reason))
	}

	return "chain integrity: " + strings.Join(parts, "; ")
}

type DecodeError struct {
	Height uint64
	Hash   Hash
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("block %d (%s): %s", e.Height, e.Hash, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// DecodeErrors collects the blocks which could not be decoded during an
// aggregate scan. The scan result is still complete for every other block.
type DecodeErrors []*DecodeError

func (e DecodeErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, d := range e {
		parts = append(parts, d.Error())
	}

	return "decoding blocks: " + strings.Join(parts, "; ")
}
