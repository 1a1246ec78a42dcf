package cryptography

import (
	"github.com/multiformats/go-multibase"
)

func DecodeMultibase(mb string) ([]byte, error) {
	_, d, err := multibase.Decode(mb)
	return d, err
}

func EncodeMultibase(raw []byte) (string, error) {
	return multibase.Encode(multibase.Base58BTC, raw)
}

// EncodePrivateKey exports a key for storage
func EncodePrivateKey(p *Secp256k1PrivateKey) (string, error) {
	return EncodeMultibase(p.Bytes())
}

func DecodePrivateKey(mb string) (*Secp256k1PrivateKey, error) {
	raw, err := DecodeMultibase(mb)
	if err != nil {
		return nil, err
	}

	return NewSecp256k1PrivateKey(raw)
}
