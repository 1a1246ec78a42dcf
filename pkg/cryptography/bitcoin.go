package cryptography

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"

	ethCrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ripemd160"
)

const (
	messageMagic = "Bitcoin Signed Message:\n"

	compactSigLen = 65

	//compact signature headers, 27-30 uncompressed keys, 31-34 compressed
	headerMin        = 27
	headerCompressed = 31
	headerMax        = 34
)

// Network is the P2PKH version byte of an address
type Network byte

const (
	MainNet Network = 0x00
	TestNet Network = 0x6f
)

// BitcoinVerifier checks Bitcoin signed messages against P2PKH addresses
type BitcoinVerifier struct{}

func (BitcoinVerifier) Verify(message, address, signature string) (bool, error) {
	return VerifyMessage(message, address, signature)
}

func doubleSha256(b []byte) []byte {
	h1 := sha256.Sum256(b)
	h2 := sha256.Sum256(h1[:])
	return h2[:]
}

func writeVarInt(buf *bytes.Buffer, n uint64) {
	switch {
	case n < 0xfd:
		buf.WriteByte(byte(n))
	case n <= 0xffff:
		buf.WriteByte(0xfd)
		binary.Write(buf, binary.LittleEndian, uint16(n))
	case n <= 0xffffffff:
		buf.WriteByte(0xfe)
		binary.Write(buf, binary.LittleEndian, uint32(n))
	default:
		buf.WriteByte(0xff)
		binary.Write(buf, binary.LittleEndian, n)
	}
}

// MessageHash is the digest a Bitcoin wallet signs for message
func MessageHash(message string) []byte {
	buf := &bytes.Buffer{}
	writeVarInt(buf, uint64(len(messageMagic)))
	buf.WriteString(messageMagic)
	writeVarInt(buf, uint64(len(message)))
	buf.WriteString(message)

	return doubleSha256(buf.Bytes())
}

func hash160(b []byte) []byte {
	sh := sha256.Sum256(b)
	r := ripemd160.New()
	r.Write(sh[:])
	return r.Sum(nil)
}

// EncodeAddress renders a serialized public key as a base58check P2PKH address
func EncodeAddress(pub []byte, net Network) string {
	payload := append([]byte{byte(net)}, hash160(pub)...)
	checksum := doubleSha256(payload)[:4]

	return base58.Encode(append(payload, checksum...))
}

// DecodeAddress returns the version byte and key hash of a P2PKH address
func DecodeAddress(address string) (Network, []byte, error) {
	raw, err := base58.Decode(address)
	if err != nil {
		return 0, nil, errors.Wrap(ErrInvalidAddress, err.Error())
	}

	if len(raw) != 25 {
		return 0, nil, errors.Wrapf(ErrInvalidAddress, "decoded length %d", len(raw))
	}

	payload, checksum := raw[:21], raw[21:]
	if !bytes.Equal(doubleSha256(payload)[:4], checksum) {
		return 0, nil, ErrAddressChecksum
	}

	return Network(payload[0]), payload[1:], nil
}

// VerifyMessage recovers the signing key of a base64 compact signature and
// checks that it hashes to address. Malformed inputs are errors, a
// well-formed signature by another key is false.
func VerifyMessage(message, address, signature string) (bool, error) {
	_, keyHash, err := DecodeAddress(address)
	if err != nil {
		return false, err
	}

	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false, errors.Wrap(ErrInvalidSignatureFormat, err.Error())
	}

	if len(sig) != compactSigLen {
		return false, errors.Wrapf(ErrInvalidSignatureFormat, "length %d", len(sig))
	}

	header := sig[0]
	if header < headerMin || header > headerMax {
		return false, errors.Wrapf(ErrUnsupportedSignatureKey, "header %d", header)
	}

	compressed := header >= headerCompressed
	recid := (header - headerMin) & 3

	// go-ethereum expects [R || S || V]
	rsv := make([]byte, compactSigLen)
	copy(rsv, sig[1:])
	rsv[64] = recid

	pub, err := ethCrypto.SigToPub(MessageHash(message), rsv)
	if err != nil {
		//a valid looking signature that recovers no key
		return false, nil
	}

	var pubBytes []byte
	if compressed {
		pubBytes = ethCrypto.CompressPubkey(pub)
	} else {
		pubBytes = ethCrypto.FromECDSAPub(pub)
	}

	return bytes.Equal(hash160(pubBytes), keyHash), nil
}
