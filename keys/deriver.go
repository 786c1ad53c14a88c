// Package keys provides public-key derivation for the review engine.
//
// The engine needs exactly one key operation: deriving the device's own
// public key for a signing path, so it can recognize (and elide) inputs
// that spend the device's own address. The Deriver interface is that
// contract; on a real device it is backed by the secure element, while
// SoftDeriver implements the same key tree in software for the host-side
// simulator and tests.
//
// # Derivation Paths
//
// Paths use the usual BIP32 notation:
//
//	path, err := keys.ParsePath("m/44'/1234'/0'/0/0")
//	if err != nil {
//		log.Fatal(err)
//	}
//	publicKey, err := deriver.DerivePublicKey(path)
package keys

import (
	"crypto/hmac"
	"crypto/sha512"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
)

// ErrInvalidPath reports a malformed derivation path string.
var ErrInvalidPath = errors.New("invalid derivation path")

// HardenedOffset marks a hardened path component.
const HardenedOffset uint32 = 0x80000000

// Deriver derives the device public key for a signing path. It is the
// review engine's only key contract.
type Deriver interface {
	// DerivePublicKey returns the 33-byte compressed public key for path.
	DerivePublicKey(path []uint32) ([]byte, error)
}

// SoftDeriver is a software secp256k1 key tree seeded from a byte string,
// used by the host simulator and tests in place of the secure element.
type SoftDeriver struct {
	masterKey [32]byte
	chainCode [32]byte
}

// NewSoftDeriver builds a key tree from a seed.
func NewSoftDeriver(seed []byte) (*SoftDeriver, error) {
	mac := hmac.New(sha512.New, []byte("Bitcoin seed"))
	mac.Write(seed)
	sum := mac.Sum(nil)

	d := &SoftDeriver{}
	copy(d.masterKey[:], sum[:32])
	copy(d.chainCode[:], sum[32:])

	var scalar btcec.ModNScalar
	if overflow := scalar.SetBytes(&d.masterKey); overflow != 0 || scalar.IsZero() {
		return nil, errors.New("seed produces an invalid master key")
	}
	return d, nil
}

// DerivePublicKey walks the key tree along path and returns the compressed
// public key of the leaf.
func (d *SoftDeriver) DerivePublicKey(path []uint32) ([]byte, error) {
	key := d.masterKey
	chainCode := d.chainCode

	for _, index := range path {
		parent, _ := btcec.PrivKeyFromBytes(key[:])

		var data []byte
		if index >= HardenedOffset {
			data = append([]byte{0}, key[:]...)
		} else {
			data = parent.PubKey().SerializeCompressed()
		}
		data = append(data, byte(index>>24), byte(index>>16), byte(index>>8), byte(index))

		mac := hmac.New(sha512.New, chainCode[:])
		mac.Write(data)
		sum := mac.Sum(nil)

		var il, parentScalar btcec.ModNScalar
		if overflow := il.SetByteSlice(sum[:32]); overflow {
			return nil, fmt.Errorf("failed to derive child key %d: scalar overflow", index)
		}
		parentScalar.SetBytes(&key)
		il.Add(&parentScalar)
		if il.IsZero() {
			return nil, fmt.Errorf("failed to derive child key %d: zero key", index)
		}

		key = il.Bytes()
		copy(chainCode[:], sum[32:])
	}

	leaf, _ := btcec.PrivKeyFromBytes(key[:])
	return leaf.PubKey().SerializeCompressed(), nil
}

// ParsePath parses a BIP32 path such as "m/44'/1234'/0'/0/0". Components
// suffixed with ' or h are hardened.
func ParsePath(path string) ([]uint32, error) {
	trimmed := strings.TrimPrefix(path, "m/")
	if trimmed == "" || trimmed == path && strings.HasPrefix(path, "m") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}

	parts := strings.Split(trimmed, "/")
	result := make([]uint32, 0, len(parts))
	for _, part := range parts {
		hardened := false
		if strings.HasSuffix(part, "'") || strings.HasSuffix(part, "h") {
			hardened = true
			part = part[:len(part)-1]
		}
		value, err := strconv.ParseUint(part, 10, 32)
		if err != nil || value >= uint64(HardenedOffset) {
			return nil, fmt.Errorf("%w: component %q", ErrInvalidPath, part)
		}
		index := uint32(value)
		if hardened {
			index += HardenedOffset
		}
		result = append(result, index)
	}
	return result, nil
}
