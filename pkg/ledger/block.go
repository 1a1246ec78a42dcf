package ledger

import (
	"github.com/multiformats/go-multibase"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	GenesisData = "Genesis Block"

	bodyEncoding = multibase.Base64
)

// Hash is the digest token of a sealed block
type Hash string

// NoHash is the previous hash of the genesis block
const NoHash Hash = ""

func (h Hash) String() string {
	return string(h)
}

// Block is a single ledger entry. The canonical serialization used for
// hashing is the msgpack encoding of the block without its own hash.
type Block struct {
	Height       uint64 `msgpack:"h" json:"height"`
	Timestamp    int64  `msgpack:"t" json:"time"`
	PreviousHash Hash   `msgpack:"p" json:"previousBlockHash,omitempty"`
	Hash         Hash   `msgpack:"-" json:"hash"`
	Body         string `msgpack:"b" json:"body"`
}

type Star struct {
	Dec   string `msgpack:"dec" json:"dec"`
	RA    string `msgpack:"ra" json:"ra"`
	Story string `msgpack:"story" json:"story"`
}

// Payload is the structured form of a block body. Genesis blocks only
// carry Data, claim blocks carry the remaining fields.
type Payload struct {
	Data      string `msgpack:"data,omitempty" json:"data,omitempty"`
	Address   string `msgpack:"address,omitempty" json:"address,omitempty"`
	Message   string `msgpack:"message,omitempty" json:"message,omitempty"`
	Signature string `msgpack:"signature,omitempty" json:"signature,omitempty"`
	Star      *Star  `msgpack:"star,omitempty" json:"star,omitempty"`
}

// OwnedStar is a star together with the address that claimed it
type OwnedStar struct {
	Owner string `json:"owner"`
	Star  Star   `json:"star"`
}

func EncodePayload(p *Payload) (string, error) {
	raw, err := msgpack.Marshal(p)
	if err != nil {
		return "", errors.Wrap(err, "marshalling payload")
	}

	return multibase.Encode(bodyEncoding, raw)
}

// NewBlock creates an unsealed block carrying p. Height, linkage, time and
// hash are assigned by Ledger.Append.
func NewBlock(p *Payload) (*Block, error) {
	body, err := EncodePayload(p)
	if err != nil {
		return nil, err
	}

	return &Block{Body: body}, nil
}

func (b *Block) IsGenesis() bool {
	return b.Height == 0
}

func (b *Block) DecodePayload() (*Payload, error) {
	_, raw, err := multibase.Decode(b.Body)
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "multibase: %s", err)
	}

	p := &Payload{}
	if err := msgpack.Unmarshal(raw, p); err != nil {
		return nil, errors.Wrapf(ErrDecode, "unmarshalling: %s", err)
	}

	return p, nil
}

// Digest computes the digest of the block content, ignoring the stored hash
func (b *Block) Digest(d Digester) (Hash, error) {
	raw, err := msgpack.Marshal(b)
	if err != nil {
		return NoHash, errors.Wrap(err, "marshalling block")
	}

	return d.Digest(raw), nil
}

// SelfValidate reports whether the stored hash still matches the content
func (b *Block) SelfValidate(d Digester) bool {
	h, err := b.Digest(d)
	if err != nil {
		return false
	}

	return h == b.Hash
}
