package ledger

import (
	"sync/atomic"
	"time"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"github.com/pkg/errors"
)

var (
	_ Digester = (*MultihashDigester)(nil)
	_ Clock    = (*SystemClock)(nil)
)

// Digester produces a deterministic fixed length token over a byte slice
type Digester interface {
	Digest([]byte) Hash
}

// Clock returns the current time in seconds since the epoch
type Clock interface {
	Now() int64
}

// MultihashDigester hashes with a multihash function and renders the
// result as a raw CIDv1
type MultihashDigester struct {
	code   uint64
	length int
}

func NewMultihashDigester(code uint64) (*MultihashDigester, error) {
	length, ok := multihash.DefaultLengths[code]
	if !ok {
		return nil, errors.Errorf("unsupported multihash code 0x%x", code)
	}

	if _, err := multihash.Sum(nil, code, length); err != nil {
		return nil, errors.Wrap(err, "checking multihash function")
	}

	return &MultihashDigester{code: code, length: length}, nil
}

func defaultDigester() *MultihashDigester {
	return &MultihashDigester{
		code:   multihash.SHA3_256,
		length: multihash.DefaultLengths[multihash.SHA3_256],
	}
}

func (m *MultihashDigester) Digest(d []byte) Hash {
	//code and length are checked on construction
	h, _ := multihash.Sum(d, m.code, m.length)

	return Hash(cid.NewCidV1(cid.Raw, h).String())
}

// SystemClock is a wall clock which never goes backwards within a process
type SystemClock struct {
	last int64
}

func (c *SystemClock) Now() int64 {
	now := time.Now().Unix()

	for {
		last := atomic.LoadInt64(&c.last)
		if now <= last {
			return last
		}

		if atomic.CompareAndSwapInt64(&c.last, last, now) {
			return now
		}
	}
}
