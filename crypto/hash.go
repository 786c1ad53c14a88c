// Package crypto provides the hashing primitives used for address
// derivation.
//
// The chain derives addresses from Blake2b-256 digests: a single-signature
// address hashes the public key, a script-hash address hashes the redeem
// script bytes. The hash is stateless and treated as a black box by the
// review engine.
package crypto

import "golang.org/x/crypto/blake2b"

// Blake2b256 returns the Blake2b-256 digest of data.
func Blake2b256(data []byte) [32]byte {
	return blake2b.Sum256(data)
}

// HashPublicKey hashes a serialized public key for single-signature
// address derivation.
func HashPublicKey(publicKey []byte) [32]byte {
	return Blake2b256(publicKey)
}

// HashScript hashes redeem script bytes for script-hash address derivation.
func HashScript(script []byte) [32]byte {
	return Blake2b256(script)
}
