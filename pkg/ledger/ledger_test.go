package ledger

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now int64
}

func (c *fakeClock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) advance(s int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now += s
}

// countingDigester is a deterministic stand-in for a real hash function
type countingDigester struct {
	mu    sync.Mutex
	calls int
}

func (d *countingDigester) Digest(b []byte) Hash {
	d.mu.Lock()
	d.calls++
	d.mu.Unlock()

	var sum uint64 = 14695981039346656037
	for _, c := range b {
		sum ^= uint64(c)
		sum *= 1099511628211
	}

	return Hash(fmt.Sprintf("fnv-%016x", sum))
}

func newTestLedger(t *testing.T, opts ...Option) (*Ledger, *fakeClock) {
	clock := &fakeClock{now: 1700000000}

	l, err := New(append([]Option{WithClock(clock)}, opts...)...)
	if err != nil {
		t.Fatal(err)
	}

	return l, clock
}

func appendClaim(t *testing.T, l *Ledger, address string, star Star) *Block {
	b, err := NewBlock(&Payload{
		Address:   address,
		Message:   address + ":1700000000:starRegistry",
		Signature: "sig-" + address,
		Star:      &star,
	})
	if err != nil {
		t.Fatal(err)
	}

	return l.Append(b)
}

func TestGenesis(t *testing.T) {
	l, _ := newTestLedger(t)

	assert.Equal(t, int64(0), l.CurrentHeight())
	require.Len(t, l.chain, 1)

	g := l.chain[0]
	assert.Equal(t, uint64(0), g.Height)
	assert.Equal(t, NoHash, g.PreviousHash)
	assert.True(t, g.IsGenesis())
	assert.True(t, g.SelfValidate(l.digester))

	p, err := g.DecodePayload()
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, &Payload{Data: GenesisData}, p)
}

func TestInitializeIdempotent(t *testing.T) {
	l, _ := newTestLedger(t)

	if err := l.initialize(); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, int64(0), l.CurrentHeight())
	assert.Len(t, l.chain, 1)
}

func TestAppendMonotonicAndLinked(t *testing.T) {
	l, clock := newTestLedger(t)

	for n := 1; n <= 10; n++ {
		clock.advance(1)
		b := appendClaim(t, l, "1Alice", Star{Story: fmt.Sprint(n)})

		assert.Equal(t, int64(n), l.CurrentHeight())
		assert.Equal(t, uint64(n), b.Height)
		assert.Equal(t, clock.Now(), b.Timestamp)
		assert.Equal(t, l.chain[n-1].Hash, b.PreviousHash)
		assert.Equal(t, l.chain[n].Hash, b.Hash)
	}

	for i := range l.chain {
		assert.Equal(t, uint64(i), l.chain[i].Height)
	}

	assert.Empty(t, l.ValidateChain())
	assert.NoError(t, l.Verify())
}

func TestHashDeterminism(t *testing.T) {
	l, _ := newTestLedger(t)
	b := appendClaim(t, l, "1Alice", Star{Dec: "1", RA: "2", Story: "3"})

	h, err := b.Digest(l.digester)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, b.Hash, h)

	stored, ok := l.FindByHeight(1)
	require.True(t, ok)
	h, err = stored.Digest(l.digester)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, stored.Hash, h)
}

func TestInjectedDigester(t *testing.T) {
	d := &countingDigester{}
	l, _ := newTestLedger(t, WithDigester(d))

	appendClaim(t, l, "1Alice", Star{})

	assert.Equal(t, 2, d.calls)
	assert.Contains(t, string(l.chain[1].Hash), "fnv-")
	assert.Empty(t, l.ValidateChain())
}

func TestTamperDetection(t *testing.T) {
	tampers := map[string]func(b *Block){
		"height":       func(b *Block) { b.Height += 7 },
		"timestamp":    func(b *Block) { b.Timestamp++ },
		"previousHash": func(b *Block) { b.PreviousHash = "bafkforged" },
		"body": func(b *Block) {
			body, _ := EncodePayload(&Payload{Address: "1Mallory", Star: &Star{Story: "mine"}})
			b.Body = body
		},
	}

	for name, tamper := range tampers {
		t.Run(name, func(t *testing.T) {
			l, _ := newTestLedger(t)
			appendClaim(t, l, "1Alice", Star{Story: "a"})
			appendClaim(t, l, "1Alice", Star{Story: "b"})
			appendClaim(t, l, "1Alice", Star{Story: "c"})

			tamper(&l.chain[2])

			assert.False(t, l.chain[2].SelfValidate(l.digester))

			findings := l.ValidateChain()
			require.NotEmpty(t, findings)
			for _, f := range findings {
				assert.Equal(t, l.chain[2].Hash, f.Block.Hash)
			}
			assert.Equal(t, ReasonSelfValidation, findings[0].Reason)

			err := l.Verify()
			var ie *ChainIntegrityError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, findings, ie.Findings)
		})
	}
}

func TestValidateChainResynchronises(t *testing.T) {
	l, _ := newTestLedger(t)
	for i := 0; i < 5; i++ {
		appendClaim(t, l, "1Alice", Star{Story: fmt.Sprint(i)})
	}

	//a consistently forged block: resealed with a wrong link
	l.chain[2].PreviousHash = "bafkforged"
	l.chain[2].Hash, _ = l.chain[2].Digest(l.digester)

	findings := l.ValidateChain()

	//block 2 breaks its link, block 3 no longer links to the new hash
	require.Len(t, findings, 2)
	assert.Equal(t, uint64(2), findings[0].Block.Height)
	assert.Equal(t, ReasonPreviousHash, findings[0].Reason)
	assert.Equal(t, uint64(3), findings[1].Block.Height)
	assert.Equal(t, ReasonPreviousHash, findings[1].Reason)
}

func TestGenesisTamper(t *testing.T) {
	l, _ := newTestLedger(t)
	appendClaim(t, l, "1Alice", Star{})

	l.chain[0].Timestamp = 0

	findings := l.ValidateChain()
	require.Len(t, findings, 1)
	assert.Equal(t, uint64(0), findings[0].Block.Height)
	assert.Equal(t, ReasonSelfValidation, findings[0].Reason)
}

func TestFindByHeight(t *testing.T) {
	l, _ := newTestLedger(t)

	g, ok := l.FindByHeight(0)
	require.True(t, ok)
	assert.Equal(t, l.chain[0], *g)

	appendClaim(t, l, "1Alice", Star{})

	_, ok = l.FindByHeight(5)
	assert.False(t, ok)

	b, ok := l.FindByHeight(1)
	require.True(t, ok)
	assert.Equal(t, uint64(1), b.Height)
}

func TestFindByHash(t *testing.T) {
	l, _ := newTestLedger(t)
	sealed := appendClaim(t, l, "1Alice", Star{})

	b, ok := l.FindByHash(sealed.Hash)
	require.True(t, ok)
	assert.Equal(t, *sealed, *b)

	_, ok = l.FindByHash("bafkmissing")
	assert.False(t, ok)
}

func TestReadsReturnCopies(t *testing.T) {
	l, _ := newTestLedger(t)

	b, ok := l.FindByHeight(0)
	require.True(t, ok)
	b.Body = "changed"

	blocks := l.Blocks()
	blocks[0].Height = 99

	assert.Empty(t, l.ValidateChain())
}

func TestCollectClaimsByAddress(t *testing.T) {
	l, _ := newTestLedger(t)

	s1 := Star{Dec: "+1 2 3", RA: "16h 2m", Story: "Found star"}
	s2 := Star{Dec: "-4 5 6", RA: "1h 1m", Story: "Another"}

	appendClaim(t, l, "1Alice", s1)
	appendClaim(t, l, "1Bob", Star{Story: "bob's"})
	appendClaim(t, l, "1Alice", s2)

	stars, err := l.CollectClaimsByAddress(context.Background(), "1Alice")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, []OwnedStar{{Owner: "1Alice", Star: s1}, {Owner: "1Alice", Star: s2}}, stars)

	stars, err = l.CollectClaimsByAddress(context.Background(), "1Carol")
	if err != nil {
		t.Fatal(err)
	}
	assert.Empty(t, stars)
	assert.NotNil(t, stars)
}

func TestCollectClaimsSkipsGenesisAndManyDecodes(t *testing.T) {
	l, _ := newTestLedger(t, WithDecodeWorkers(3))

	for i := 0; i < 200; i++ {
		appendClaim(t, l, fmt.Sprintf("1Addr%d", i%4), Star{Story: fmt.Sprint(i)})
	}

	stars, err := l.CollectClaimsByAddress(context.Background(), "1Addr1")
	if err != nil {
		t.Fatal(err)
	}

	require.Len(t, stars, 50)
	for i, s := range stars {
		assert.Equal(t, fmt.Sprint(i*4+1), s.Star.Story)
	}
}

func TestCollectClaimsReportsDecodeErrors(t *testing.T) {
	l, _ := newTestLedger(t)

	appendClaim(t, l, "1Alice", Star{Story: "a"})
	l.Append(&Block{Body: "?garbage"})
	appendClaim(t, l, "1Alice", Star{Story: "b"})

	stars, err := l.CollectClaimsByAddress(context.Background(), "1Alice")

	var de DecodeErrors
	require.True(t, errors.As(err, &de))
	require.Len(t, de, 1)
	assert.Equal(t, uint64(2), de[0].Height)
	assert.True(t, errors.Is(de[0], ErrDecode))

	require.Len(t, stars, 2)
	assert.Equal(t, "a", stars[0].Star.Story)
	assert.Equal(t, "b", stars[1].Star.Story)
}

func TestCollectClaimsCancelled(t *testing.T) {
	l, _ := newTestLedger(t)
	appendClaim(t, l, "1Alice", Star{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.CollectClaimsByAddress(ctx, "1Alice")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConcurrentAppends(t *testing.T) {
	l, _ := newTestLedger(t)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				appendClaim(t, l, fmt.Sprintf("1Worker%d", w), Star{Story: fmt.Sprint(i)})
				l.ValidateChain()
				l.FindByHeight(uint64(i))
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, int64(200), l.CurrentHeight())
	for i := range l.chain {
		assert.Equal(t, uint64(i), l.chain[i].Height)
		if i > 0 {
			assert.Equal(t, l.chain[i-1].Hash, l.chain[i].PreviousHash)
		}
	}
	assert.Empty(t, l.ValidateChain())
}

func TestOptionErrors(t *testing.T) {
	_, err := New(WithDecodeWorkers(0))
	assert.Error(t, err)

	_, err = New(WithBloomEstimate(0))
	assert.Error(t, err)

	_, err = New(WithClock(nil))
	assert.Error(t, err)
}
