package cmd

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/Lbqds/app-alephium/codec"
	"github.com/Lbqds/app-alephium/tx"
)

// DecodeCommand creates the decode command
func DecodeCommand() *cli.Command {
	return &cli.Command{
		Name:  "decode-request",
		Usage: "Decode a review request envelope",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "file",
				Usage: "Path to review request binary file",
			},
			&cli.StringFlag{
				Name:  "base64",
				Usage: "Base64-encoded review request",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output in JSON format",
			},
		},
		Action: runDecodeRequestCommand,
	}
}

func runDecodeRequestCommand(ctx context.Context, cmd *cli.Command) error {
	filePath := cmd.String("file")
	b64 := cmd.String("base64")
	asJSON := cmd.Bool("json")

	if filePath == "" && b64 == "" {
		return fmt.Errorf("either --file or --base64 must be provided")
	}
	if filePath != "" && b64 != "" {
		return fmt.Errorf("only one of --file or --base64 should be provided")
	}

	var req *tx.ReviewRequest
	var err error
	if filePath != "" {
		req, err = tx.DecodeReviewRequestFromFile(filePath)
	} else {
		req, err = tx.DecodeReviewRequestFromBase64(b64)
	}
	if err != nil {
		return fmt.Errorf("failed to decode review request: %w", err)
	}

	if asJSON {
		jsonBytes, err := json.MarshalIndent(formatRequestJSON(req), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		fmt.Println(string(jsonBytes))
		return nil
	}

	fmt.Printf("=== Review Request ===\n")
	fmt.Printf("Network: %s\n", tx.NetworkID{ID: req.NetworkID}.Name())
	fmt.Printf("Fee: %s\n", formatALPHAmount(req.Fee))
	fmt.Printf("Path: %s\n", req.Path)

	fmt.Printf("\nInputs: %d\n", len(req.Inputs))
	for i, input := range req.Inputs {
		fmt.Printf("  #%d %s", i, unlockTypeName(input.UnlockType))
		if len(input.PublicKey) > 0 {
			fmt.Printf(" key=%x", input.PublicKey)
		}
		fmt.Println()
	}

	fmt.Printf("\nOutputs: %d\n", len(req.Outputs))
	for i, output := range req.Outputs {
		fmt.Printf("  #%d %s %s", i, lockupTypeName(output.LockupType), formatALPHAmount(output.Amount))
		if len(output.Hash) > 0 {
			fmt.Printf(" hash=%x", output.Hash)
		}
		if len(output.TokenID) > 0 {
			fmt.Printf(" token=%x amount=%s", output.TokenID, formatRawAmount(output.TokenAmount))
		}
		fmt.Println()
	}

	return nil
}

func formatRequestJSON(req *tx.ReviewRequest) map[string]any {
	inputs := make([]map[string]any, 0, len(req.Inputs))
	for _, input := range req.Inputs {
		inputs = append(inputs, map[string]any{
			"unlockType": unlockTypeName(input.UnlockType),
			"publicKey":  hex.EncodeToString(input.PublicKey),
		})
	}

	outputs := make([]map[string]any, 0, len(req.Outputs))
	for _, output := range req.Outputs {
		entry := map[string]any{
			"lockupType": lockupTypeName(output.LockupType),
			"amount":     formatALPHAmount(output.Amount),
			"hash":       hex.EncodeToString(output.Hash),
		}
		if len(output.TokenID) > 0 {
			entry["tokenId"] = hex.EncodeToString(output.TokenID)
			entry["tokenAmount"] = formatRawAmount(output.TokenAmount)
		}
		outputs = append(outputs, entry)
	}

	return map[string]any{
		"network": tx.NetworkID{ID: req.NetworkID}.Name(),
		"fee":     formatALPHAmount(req.Fee),
		"path":    req.Path,
		"inputs":  inputs,
		"outputs": outputs,
	}
}

func unlockTypeName(unlockType byte) string {
	switch tx.UnlockKind(unlockType) {
	case tx.UnlockP2PKH:
		return "p2pkh"
	case tx.UnlockP2MPKH:
		return "p2mpkh"
	case tx.UnlockP2SH:
		return "p2sh"
	case tx.UnlockSameAsPrevious:
		return "same-as-previous"
	default:
		return fmt.Sprintf("unknown(%d)", unlockType)
	}
}

func lockupTypeName(lockupType byte) string {
	switch tx.LockupKind(lockupType) {
	case tx.LockupP2PKH:
		return "p2pkh"
	case tx.LockupP2MPKH:
		return "p2mpkh"
	case tx.LockupP2SH:
		return "p2sh"
	default:
		return fmt.Sprintf("unknown(%d)", lockupType)
	}
}

// formatALPHAmount renders a compact-encoded amount in native units, or
// the raw hex when the encoding is invalid.
func formatALPHAmount(encoded []byte) string {
	amount, ok := decodeCompact(encoded)
	if !ok {
		return fmt.Sprintf("invalid(%x)", encoded)
	}
	var out [33]byte
	str, err := amount.ToALPH(out[:])
	if err != nil {
		return fmt.Sprintf("invalid(%x)", encoded)
	}
	return string(str)
}

// formatRawAmount renders a compact-encoded amount as a plain decimal,
// used for token amounts whose scale is unknown to the reviewer.
func formatRawAmount(encoded []byte) string {
	amount, ok := decodeCompact(encoded)
	if !ok {
		return fmt.Sprintf("invalid(%x)", encoded)
	}
	var out [codec.MaxDecimalLen]byte
	str, err := amount.ToStr(out[:])
	if err != nil {
		return fmt.Sprintf("invalid(%x)", encoded)
	}
	return string(str)
}

func decodeCompact(encoded []byte) (codec.U256, bool) {
	var amount codec.U256
	stage, consumed := amount.Decode(encoded, codec.DecodeStage{})
	if !stage.IsComplete() || consumed != len(encoded) {
		return codec.U256{}, false
	}
	return amount, true
}
