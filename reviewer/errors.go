package reviewer

import (
	"errors"

	"github.com/Lbqds/app-alephium/codec"
)

var (
	// ErrOverflow reports a destination buffer too small for a required
	// rendering. Terminal for the signing attempt; never silently truncated.
	ErrOverflow = codec.ErrOverflow

	// ErrUserCancelled reports an explicit reject at a confirmation point.
	// It aborts the whole in-progress signing operation.
	ErrUserCancelled = errors.New("user declined the review")

	// ErrDerivePublicKey reports a failed key-tree derivation for the
	// requested signing path.
	ErrDerivePublicKey = errors.New("failed to derive device public key")

	// ErrMalformedStream reports a field stream that violates its declared
	// structure, such as a same-as-previous input with no input before it.
	ErrMalformedStream = errors.New("malformed transaction field stream")

	// ErrInternal reports a staged byte range that does not decode as valid
	// text. All staged text is produced internally, so this indicates an
	// offset-arithmetic bug rather than attacker-controlled input.
	ErrInternal = errors.New("staged bytes are not valid text")
)
