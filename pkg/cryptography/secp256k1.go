package cryptography

import (
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/base64"

	ethCrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

type Secp256k1PrivateKey struct {
	*ecdsa.PrivateKey
}

func NewEcdsaSecp256k1PrivateKey() (*Secp256k1PrivateKey, error) {
	pk, err := ecdsa.GenerateKey(ethCrypto.S256(), rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "generating ecdsa key")
	}

	return &Secp256k1PrivateKey{pk}, nil
}

func NewSecp256k1PrivateKey(d []byte) (*Secp256k1PrivateKey, error) {
	pk, err := ethCrypto.ToECDSA(d)
	if err != nil {
		return nil, errors.Wrap(err, "unmarshalling ecdsa private key")
	}

	return &Secp256k1PrivateKey{pk}, nil
}

func (p *Secp256k1PrivateKey) Bytes() []byte {
	return ethCrypto.FromECDSA(p.PrivateKey)
}

// Address is the compressed key P2PKH address on net
func (p *Secp256k1PrivateKey) Address(net Network) string {
	return EncodeAddress(ethCrypto.CompressPubkey(&p.PublicKey), net)
}

// SignMessage produces a base64 compact signature over the Bitcoin
// message hash, flagged for a compressed public key
func (p *Secp256k1PrivateKey) SignMessage(message string) (string, error) {
	rsv, err := ethCrypto.Sign(MessageHash(message), p.PrivateKey)
	if err != nil {
		return "", errors.Wrap(err, "signing message")
	}

	sig := make([]byte, compactSigLen)
	sig[0] = headerCompressed + rsv[64]
	copy(sig[1:], rsv[:64])

	return base64.StdEncoding.EncodeToString(sig), nil
}
