package tx

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"github.com/Lbqds/app-alephium/codec"
	"github.com/near/borsh-go"
)

// ErrMalformedRequest reports a review request that does not decode into a
// valid field stream.
var ErrMalformedRequest = errors.New("malformed review request")

// ReviewRequest is the Borsh-encoded envelope the host tooling uses to
// replay a transaction field stream into the review engine. Amount fields
// carry the chain's compact integer encoding.
type ReviewRequest struct {
	NetworkID byte            `borsh:"network_id"`
	Fee       []byte          `borsh:"fee"`
	Path      string          `borsh:"path"`
	Inputs    []RequestInput  `borsh:"inputs"`
	Outputs   []RequestOutput `borsh:"outputs"`
}

// RequestInput is one input of a review request. TempData carries the
// redeem script bytes for the script-hash variant.
type RequestInput struct {
	UnlockType byte   `borsh:"unlock_type"`
	PublicKey  []byte `borsh:"public_key"`
	TempData   []byte `borsh:"temp_data"`
}

// RequestOutput is one output of a review request. TempData carries the
// multi-signature lockup payload; TokenID/TokenAmount are empty when the
// output carries no token.
type RequestOutput struct {
	Amount      []byte `borsh:"amount"`
	LockupType  byte   `borsh:"lockup_type"`
	Hash        []byte `borsh:"hash"`
	TempData    []byte `borsh:"temp_data"`
	TokenID     []byte `borsh:"token_id"`
	TokenAmount []byte `borsh:"token_amount"`
}

// DecodeReviewRequest deserializes a Borsh-encoded review request.
func DecodeReviewRequest(data []byte) (*ReviewRequest, error) {
	var req ReviewRequest
	if err := borsh.Deserialize(&req, data); err != nil {
		return nil, fmt.Errorf("failed to deserialize review request: %w", err)
	}
	return &req, nil
}

// DecodeReviewRequestFromBase64 decodes a base64-encoded review request.
func DecodeReviewRequestFromBase64(requestB64 string) (*ReviewRequest, error) {
	data, err := base64.StdEncoding.DecodeString(requestB64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	return DecodeReviewRequest(data)
}

// DecodeReviewRequestFromFile decodes a review request from a binary file.
func DecodeReviewRequestFromFile(filePath string) (*ReviewRequest, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return DecodeReviewRequest(data)
}

// EncodeReviewRequest serializes a review request to Borsh bytes.
func EncodeReviewRequest(req *ReviewRequest) ([]byte, error) {
	data, err := borsh.Serialize(*req)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize review request: %w", err)
	}
	return data, nil
}

// StreamItem pairs a field with the staged temp data accompanying it.
type StreamItem struct {
	Field    Field
	TempData []byte
}

// Stream expands the request into the ordered field stream the engine
// consumes: network id, fee, inputs, then outputs.
func (r *ReviewRequest) Stream() ([]StreamItem, error) {
	items := []StreamItem{{Field: NetworkID{ID: r.NetworkID}}}

	fee, err := decodeAmount(r.Fee)
	if err != nil {
		return nil, fmt.Errorf("%w: fee: %w", ErrMalformedRequest, err)
	}
	items = append(items, StreamItem{Field: TxFee{Fee: fee}})

	for i, input := range r.Inputs {
		item, err := input.toItem(i, len(r.Inputs))
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	for i, output := range r.Outputs {
		item, err := output.toItem(i)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}

func (in RequestInput) toItem(index, count int) (StreamItem, error) {
	if in.UnlockType > byte(UnlockSameAsPrevious) {
		return StreamItem{}, fmt.Errorf("%w: input %d: unknown unlock type %d", ErrMalformedRequest, index, in.UnlockType)
	}
	unlock := UnlockScript{Kind: UnlockKind(in.UnlockType)}
	if unlock.Kind == UnlockP2PKH {
		if len(in.PublicKey) != len(unlock.PublicKey) {
			return StreamItem{}, fmt.Errorf("%w: input %d: public key must be %d bytes", ErrMalformedRequest, index, len(unlock.PublicKey))
		}
		copy(unlock.PublicKey[:], in.PublicKey)
	}
	return StreamItem{
		Field:    InputItem{Input: Input{Unlock: unlock}, Index: index, Count: count},
		TempData: in.TempData,
	}, nil
}

func (out RequestOutput) toItem(index int) (StreamItem, error) {
	if out.LockupType > byte(LockupP2SH) {
		return StreamItem{}, fmt.Errorf("%w: output %d: unknown lockup type %d", ErrMalformedRequest, index, out.LockupType)
	}
	lockup := LockupScript{Kind: LockupKind(out.LockupType)}
	switch lockup.Kind {
	case LockupP2PKH, LockupP2SH:
		if len(out.Hash) != len(lockup.Hash) {
			return StreamItem{}, fmt.Errorf("%w: output %d: script hash must be %d bytes", ErrMalformedRequest, index, len(lockup.Hash))
		}
		copy(lockup.Hash[:], out.Hash)
	case LockupP2MPKH:
		if len(out.TempData) == 0 {
			return StreamItem{}, fmt.Errorf("%w: output %d: missing multi-sig payload", ErrMalformedRequest, index)
		}
	}

	amount, err := decodeAmount(out.Amount)
	if err != nil {
		return StreamItem{}, fmt.Errorf("%w: output %d amount: %w", ErrMalformedRequest, index, err)
	}
	result := AssetOutput{Amount: amount, Lockup: lockup}

	if len(out.TokenID) > 0 {
		var token Token
		if len(out.TokenID) != len(token.ID) {
			return StreamItem{}, fmt.Errorf("%w: output %d: token id must be %d bytes", ErrMalformedRequest, index, len(token.ID))
		}
		copy(token.ID[:], out.TokenID)
		token.Amount, err = decodeAmount(out.TokenAmount)
		if err != nil {
			return StreamItem{}, fmt.Errorf("%w: output %d token amount: %w", ErrMalformedRequest, index, err)
		}
		result.Tokens = []Token{token}
	}

	return StreamItem{
		Field:    OutputItem{Output: result, Index: index},
		TempData: out.TempData,
	}, nil
}

// decodeAmount runs the streaming codec over a complete encoding, requiring
// it to consume every byte exactly once.
func decodeAmount(encoded []byte) (codec.U256, error) {
	var amount codec.U256
	stage, consumed := amount.Decode(encoded, codec.DecodeStage{})
	if !stage.IsComplete() {
		return codec.U256{}, errors.New("truncated compact integer")
	}
	if consumed != len(encoded) {
		return codec.U256{}, errors.New("trailing bytes after compact integer")
	}
	return amount, nil
}
