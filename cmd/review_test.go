package cmd

import (
	"context"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/Lbqds/app-alephium/reviewer"
	"github.com/Lbqds/app-alephium/tx"
)

func TestReviewCommand(t *testing.T) {
	cmd := ReviewCommand()

	require.NotNil(t, cmd)
	require.Equal(t, "review", cmd.Name)
	require.Len(t, cmd.Flags, 5)

	// Verify flags
	var hasFile, hasBase64, hasSeed, hasTxID, hasApproveAll bool
	for _, flag := range cmd.Flags {
		switch f := flag.(type) {
		case *cli.StringFlag:
			switch f.Name {
			case "file":
				hasFile = true
			case "base64":
				hasBase64 = true
			case "seed":
				hasSeed = true
			case "tx-id":
				hasTxID = true
			}
		case *cli.BoolFlag:
			if f.Name == "approve-all" {
				hasApproveAll = true
			}
		}
	}

	require.True(t, hasFile)
	require.True(t, hasBase64)
	require.True(t, hasSeed)
	require.True(t, hasTxID)
	require.True(t, hasApproveAll)
}

// encodeAmount builds the compact encoding of a decimal amount.
func encodeAmount(t *testing.T, decimal string) []byte {
	t.Helper()
	value, ok := new(big.Int).SetString(decimal, 10)
	require.True(t, ok)
	if value.Cmp(big.NewInt(0x40)) < 0 {
		return []byte{byte(value.Uint64())}
	}
	payload := value.Bytes()
	require.GreaterOrEqual(t, len(payload), 4, "test helper only covers multi-byte encodings")
	return append([]byte{byte(len(payload)-4) | 0xc0}, payload...)
}

func sampleRequest(t *testing.T) *tx.ReviewRequest {
	t.Helper()
	publicKey := make([]byte, 33)
	publicKey[0] = 0x02
	publicKey[32] = 0x7f
	hash := make([]byte, 32)
	hash[0] = 0x01

	return &tx.ReviewRequest{
		NetworkID: 0,
		Fee:       encodeAmount(t, "2000000000000000"),
		Path:      "m/44'/1234'/0'/0/0",
		Inputs: []tx.RequestInput{
			{UnlockType: byte(tx.UnlockP2PKH), PublicKey: publicKey},
		},
		Outputs: []tx.RequestOutput{
			{
				Amount:     encodeAmount(t, "1000000000000000000"),
				LockupType: byte(tx.LockupP2PKH),
				Hash:       hash,
			},
		},
	}
}

func writeRequestFile(t *testing.T, req *tx.ReviewRequest) string {
	t.Helper()
	data, err := tx.EncodeReviewRequest(req)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "request.bin")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func runCommand(t *testing.T, command *cli.Command, args ...string) error {
	t.Helper()
	root := &cli.Command{Name: "app", Commands: []*cli.Command{command}}
	return root.Run(context.Background(), append([]string{"app"}, args...))
}

func TestReviewCommandRun(t *testing.T) {
	path := writeRequestFile(t, sampleRequest(t))
	txID := "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff"

	err := runCommand(t, ReviewCommand(),
		"review", "--file", path, "--approve-all", "--tx-id", txID)
	require.NoError(t, err)
}

func TestReviewCommandRequiresSource(t *testing.T) {
	err := runCommand(t, ReviewCommand(), "review")
	require.ErrorContains(t, err, "either --file or --base64")

	err = runCommand(t, ReviewCommand(),
		"review", "--file", "x", "--base64", "y")
	require.ErrorContains(t, err, "only one of --file or --base64")
}

func TestReviewCommandRunMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.bin")
	require.NoError(t, os.WriteFile(path, []byte{0xde, 0xad}, 0o600))

	err := runCommand(t, ReviewCommand(), "review", "--file", path, "--approve-all")
	require.ErrorContains(t, err, "failed to decode review request")
}

func TestReviewCommandRunBadTxID(t *testing.T) {
	path := writeRequestFile(t, sampleRequest(t))

	err := runCommand(t, ReviewCommand(),
		"review", "--file", path, "--approve-all", "--tx-id", "zz")
	require.ErrorContains(t, err, "tx-id must be 64 hex chars")
}

func TestReviewOutcome(t *testing.T) {
	assert.EqualError(t, reviewOutcome(reviewer.ErrUserCancelled), "review rejected by user")
	assert.ErrorContains(t, reviewOutcome(reviewer.ErrOverflow), "transaction too large to display")
	assert.ErrorContains(t, reviewOutcome(errors.New("boom")), "failed to review transaction")
}
