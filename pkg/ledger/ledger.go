package ledger

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	defaultDecodeWorkers = 8
)

// Ledger is the in-memory chain. All mutation goes through Append, which
// holds the write lock for the whole read-link-seal-push sequence. Readers
// get copies and never see a block before it is sealed.
type Ledger struct {
	mu sync.RWMutex

	chain  []Block
	height int64
	addrs  *addressIndex

	digester      Digester
	clock         Clock
	bloomEstimate uint
	decodeWorkers int

	logger *logrus.Logger
}

func New(opts ...Option) (*Ledger, error) {
	l := &Ledger{
		height:        -1,
		digester:      defaultDigester(),
		clock:         &SystemClock{},
		bloomEstimate: defaultBloomEstimate,
		decodeWorkers: defaultDecodeWorkers,
		logger:        logrus.StandardLogger(),
	}

	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}

	l.addrs = newAddressIndex(l.bloomEstimate)

	if err := l.initialize(); err != nil {
		return nil, err
	}

	return l, nil
}

func (l *Ledger) initialize() error {
	if l.CurrentHeight() != -1 {
		return nil
	}

	genesis, err := NewBlock(&Payload{Data: GenesisData})
	if err != nil {
		return err
	}

	l.Append(genesis)

	return nil
}

func (l *Ledger) CurrentHeight() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.height
}

// Append seals b onto the tip of the chain and returns it. b must already
// carry its body; every other field is overwritten.
func (l *Ledger) Append(b *Block) *Block {
	l.mu.Lock()
	defer l.mu.Unlock()

	b.Height = uint64(l.height + 1)
	b.PreviousHash = NoHash
	if l.height > -1 {
		b.PreviousHash = l.chain[l.height].Hash
	}
	b.Timestamp = l.clock.Now()

	//marshalling a Block cannot fail
	b.Hash, _ = b.Digest(l.digester)

	l.chain = append(l.chain, *b)
	l.height++
	l.addrs.add(b)

	l.logger.WithFields(logrus.Fields{
		"height": b.Height,
		"hash":   b.Hash,
	}).Debug("sealed block")

	return b
}

func (l *Ledger) FindByHash(h Hash) (*Block, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for i := range l.chain {
		if l.chain[i].Hash == h {
			b := l.chain[i]
			return &b, true
		}
	}

	return nil, false
}

func (l *Ledger) FindByHeight(height uint64) (*Block, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if height >= uint64(len(l.chain)) {
		return nil, false
	}

	b := l.chain[height]
	if b.Height != height {
		return nil, false
	}

	return &b, true
}

// Blocks returns a copy of the whole chain in height order
func (l *Ledger) Blocks() []Block {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.snapshot(0)
}

// snapshot assumes l.mu is held
func (l *Ledger) snapshot(from int) []Block {
	if from >= len(l.chain) {
		return []Block{}
	}

	blocks := make([]Block, len(l.chain)-from)
	copy(blocks, l.chain[from:])

	return blocks
}

type decodedBlock struct {
	block   *Block
	payload *Payload
	err     error
}

// CollectClaimsByAddress returns every star claimed by address in height
// order. Blocks whose body cannot be decoded are returned as DecodeErrors
// next to the result for all remaining blocks.
func (l *Ledger) CollectClaimsByAddress(ctx context.Context, address string) ([]OwnedStar, error) {
	l.mu.RLock()
	if !l.addrs.mayContain(address) {
		l.mu.RUnlock()
		return []OwnedStar{}, nil
	}
	blocks := l.snapshot(1)
	l.mu.RUnlock()

	decoded, err := l.decodeAll(ctx, blocks)
	if err != nil {
		return nil, err
	}

	stars := []OwnedStar{}
	var failed DecodeErrors

	for _, d := range decoded {
		if d.err != nil {
			failed = append(failed, &DecodeError{Height: d.block.Height, Hash: d.block.Hash, Err: d.err})
			continue
		}

		if d.payload.Address != address || d.payload.Star == nil {
			continue
		}

		stars = append(stars, OwnedStar{Owner: address, Star: *d.payload.Star})
	}

	if len(failed) > 0 {
		l.logger.WithError(failed).WithField("address", address).Warn("undecodable blocks in claim scan")
		return stars, failed
	}

	return stars, nil
}

// decodeAll decodes every block body and only returns once all decodes
// have finished. Results keep the order of blocks.
func (l *Ledger) decodeAll(ctx context.Context, blocks []Block) ([]decodedBlock, error) {
	out := make([]decodedBlock, len(blocks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.decodeWorkers)

	for i := range blocks {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			p, err := blocks[i].DecodePayload()
			out[i] = decodedBlock{block: &blocks[i], payload: p, err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// ValidateChain checks every block and returns all findings. After a
// broken link the expected previous hash is re-synchronised to the
// offending block, so one break is reported once.
func (l *Ledger) ValidateChain() []Finding {
	l.mu.RLock()
	blocks := l.snapshot(0)
	l.mu.RUnlock()

	findings := []Finding{}
	expected := NoHash

	for _, b := range blocks {
		if !b.SelfValidate(l.digester) {
			findings = append(findings, Finding{Block: b, Reason: ReasonSelfValidation})
		}

		if b.PreviousHash != expected {
			findings = append(findings, Finding{Block: b, Reason: ReasonPreviousHash})
		}

		expected = b.Hash
	}

	return findings
}

func (l *Ledger) Verify() error {
	if findings := l.ValidateChain(); len(findings) > 0 {
		return &ChainIntegrityError{Findings: findings}
	}

	return nil
}
