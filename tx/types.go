// Package tx models the reviewable fields of an unsigned transaction.
//
// The review engine never materializes a whole transaction: the upstream
// decoder hands it one tagged field at a time, in stream order. This
// package defines those field variants, the lockup/unlock script variants
// they carry, and the Borsh-encoded review request envelope the host-side
// tooling uses to replay a field stream.
//
// # Field Stream
//
// A Field is one of NetworkID, TxFee, InputItem, OutputItem or GasItem;
// the engine dispatches on the concrete type:
//
//	switch f := field.(type) {
//	case tx.NetworkID:
//		// single screen, never elided
//	case tx.InputItem:
//		// may extend or flush an input run
//	}
package tx

import "github.com/Lbqds/app-alephium/codec"

// Byte32 is a fixed 32-byte value (hash, token id, transaction id).
type Byte32 [32]byte

// LockupKind enumerates the spending-condition variants of an output.
type LockupKind uint8

const (
	LockupP2PKH LockupKind = iota
	LockupP2MPKH
	LockupP2SH
)

// LockupScript is the spending condition attached to an output. Hash is
// the script payload for the hash-based variants; multi-signature payloads
// have no fixed bound and are staged separately as temp data.
type LockupScript struct {
	Kind LockupKind
	Hash Byte32
}

// ScriptType returns the address prefix byte for the variant.
func (s LockupScript) ScriptType() byte {
	switch s.Kind {
	case LockupP2PKH:
		return 0
	case LockupP2MPKH:
		return 1
	default:
		return 2
	}
}

// UnlockKind enumerates the proof variants supplied by an input.
type UnlockKind uint8

const (
	UnlockP2PKH UnlockKind = iota
	UnlockP2MPKH
	UnlockP2SH
	// UnlockSameAsPrevious marks an input spending the same address as the
	// one before it; no proof payload is repeated on the wire.
	UnlockSameAsPrevious
)

// UnlockScript is the proof variant of an input. PublicKey is set for the
// single-signature variant; the script-hash variant's redeem script bytes
// travel as staged temp data.
type UnlockScript struct {
	Kind      UnlockKind
	PublicKey [33]byte
}

// Token is an asset attached to an output. An asset output carries at most
// one token; the upstream parser enforces that chain invariant.
type Token struct {
	ID     Byte32
	Amount codec.U256
}

// Input is one transaction input as far as review is concerned.
type Input struct {
	Unlock UnlockScript
}

// AssetOutput is one transaction output: native amount, spending condition
// and an optional token.
type AssetOutput struct {
	Amount codec.U256
	Lockup LockupScript
	Tokens []Token
}

// Field is one tagged variant of the transaction field stream. The variant
// set is closed; the engine dispatches with a type switch.
type Field interface {
	isField()
}

// NetworkID identifies the network the transaction commits to.
type NetworkID struct {
	ID byte
}

// TxFee is the transaction fee in native base units.
type TxFee struct {
	Fee codec.U256
}

// InputItem is the input list cursor: one input plus its position and the
// total input count, which the engine needs for run handling.
type InputItem struct {
	Input Input
	Index int
	Count int
}

// OutputItem is the output list cursor.
type OutputItem struct {
	Output AssetOutput
	Index  int
}

// GasItem covers the field variants with no display obligation; the engine
// skips them.
type GasItem struct{}

func (NetworkID) isField()  {}
func (TxFee) isField()      {}
func (InputItem) isField()  {}
func (OutputItem) isField() {}
func (GasItem) isField()    {}

// Name maps a network id byte to its display name.
func (n NetworkID) Name() string {
	switch n.ID {
	case 0:
		return "mainnet"
	case 1:
		return "testnet"
	default:
		return "devnet"
	}
}
