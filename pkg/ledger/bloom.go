package ledger

import (
	"github.com/bits-and-blooms/bloom/v3"
)

const (
	defaultBloomEstimate = 10000
	falsePositive        = 0.01
)

// addressIndex records every claim address appended through the ledger.
// A negative answer is definite, a positive one needs a scan.
type addressIndex struct {
	filter *bloom.BloomFilter

	//incomplete is set once a body could not be read at append time
	incomplete bool
}

func newAddressIndex(estimate uint) *addressIndex {
	return &addressIndex{
		filter: bloom.NewWithEstimates(estimate, falsePositive),
	}
}

func (a *addressIndex) add(b *Block) {
	p, err := b.DecodePayload()
	if err != nil {
		a.incomplete = true
		return
	}

	if p.Address != "" {
		a.filter.AddString(p.Address)
	}
}

func (a *addressIndex) mayContain(address string) bool {
	if a.incomplete {
		return true
	}

	return a.filter.TestString(address)
}
