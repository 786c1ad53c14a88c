package tx

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/near/borsh-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRequest() *ReviewRequest {
	publicKey := bytes.Repeat([]byte{0x02}, 33)
	hash := bytes.Repeat([]byte{0xab}, 32)
	return &ReviewRequest{
		NetworkID: 0,
		Fee:       []byte{0x3f}, // 63 base units
		Path:      "m/44'/1234'/0'/0/0",
		Inputs: []RequestInput{
			{UnlockType: byte(UnlockP2PKH), PublicKey: publicKey},
			{UnlockType: byte(UnlockSameAsPrevious)},
		},
		Outputs: []RequestOutput{
			{Amount: []byte{0x01}, LockupType: byte(LockupP2PKH), Hash: hash},
		},
	}
}

func TestReviewRequestRoundTrip(t *testing.T) {
	req := sampleRequest()
	data, err := EncodeReviewRequest(req)
	require.NoError(t, err)

	decoded, err := DecodeReviewRequest(data)
	require.NoError(t, err)
	require.Equal(t, req, decoded)

	fromB64, err := DecodeReviewRequestFromBase64(base64.StdEncoding.EncodeToString(data))
	require.NoError(t, err)
	require.Equal(t, req, fromB64)
}

func TestDecodeReviewRequestErrors(t *testing.T) {
	t.Run("invalid base64", func(t *testing.T) {
		_, err := DecodeReviewRequestFromBase64("not-valid-base64!")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode base64")
	})

	t.Run("non-existent file", func(t *testing.T) {
		_, err := DecodeReviewRequestFromFile("does-not-exist.bin")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read file")
	})
}

func TestStream(t *testing.T) {
	items, err := sampleRequest().Stream()
	require.NoError(t, err)
	require.Len(t, items, 5)

	_, ok := items[0].Field.(NetworkID)
	require.True(t, ok)

	fee, ok := items[1].Field.(TxFee)
	require.True(t, ok)
	assert.Equal(t, []byte{0x3f}, fee.Fee.EncodedBytes())

	input, ok := items[2].Field.(InputItem)
	require.True(t, ok)
	assert.Equal(t, 0, input.Index)
	assert.Equal(t, 2, input.Count)
	assert.Equal(t, UnlockP2PKH, input.Input.Unlock.Kind)

	input, ok = items[3].Field.(InputItem)
	require.True(t, ok)
	assert.Equal(t, UnlockSameAsPrevious, input.Input.Unlock.Kind)

	output, ok := items[4].Field.(OutputItem)
	require.True(t, ok)
	assert.Equal(t, 0, output.Index)
	assert.Empty(t, output.Output.Tokens)
}

func TestStreamMalformed(t *testing.T) {
	t.Run("truncated fee", func(t *testing.T) {
		req := sampleRequest()
		req.Fee = []byte{0xc5, 0x01} // header promises 9 payload bytes
		_, err := req.Stream()
		assert.ErrorIs(t, err, ErrMalformedRequest)
	})

	t.Run("trailing fee bytes", func(t *testing.T) {
		req := sampleRequest()
		req.Fee = []byte{0x01, 0x02}
		_, err := req.Stream()
		assert.ErrorIs(t, err, ErrMalformedRequest)
	})

	t.Run("short public key", func(t *testing.T) {
		req := sampleRequest()
		req.Inputs[0].PublicKey = []byte{1, 2, 3}
		_, err := req.Stream()
		assert.ErrorIs(t, err, ErrMalformedRequest)
	})

	t.Run("unknown lockup type", func(t *testing.T) {
		req := sampleRequest()
		req.Outputs[0].LockupType = 9
		_, err := req.Stream()
		assert.ErrorIs(t, err, ErrMalformedRequest)
	})

	t.Run("multisig without payload", func(t *testing.T) {
		req := sampleRequest()
		req.Outputs[0].LockupType = byte(LockupP2MPKH)
		req.Outputs[0].TempData = nil
		_, err := req.Stream()
		assert.ErrorIs(t, err, ErrMalformedRequest)
	})

	t.Run("token id length", func(t *testing.T) {
		req := sampleRequest()
		req.Outputs[0].TokenID = []byte{1}
		req.Outputs[0].TokenAmount = []byte{1}
		_, err := req.Stream()
		assert.ErrorIs(t, err, ErrMalformedRequest)
	})
}

func TestNetworkIDName(t *testing.T) {
	assert.Equal(t, "mainnet", NetworkID{ID: 0}.Name())
	assert.Equal(t, "testnet", NetworkID{ID: 1}.Name())
	assert.Equal(t, "devnet", NetworkID{ID: 2}.Name())
	assert.Equal(t, "devnet", NetworkID{ID: 0xff}.Name())
}

// The envelope layout must stay stable for host tooling: spot-check the
// borsh wire prefix.
func TestEnvelopeWirePrefix(t *testing.T) {
	req := &ReviewRequest{NetworkID: 1, Fee: []byte{0x00}, Path: "m/0"}
	data, err := borsh.Serialize(*req)
	require.NoError(t, err)
	// network id, fee vec length (u32 LE), fee byte.
	assert.Equal(t, []byte{0x01, 0x01, 0x00, 0x00, 0x00, 0x00}, data[:6])
}
