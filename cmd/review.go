package cmd

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/Lbqds/app-alephium/buffer"
	"github.com/Lbqds/app-alephium/keys"
	"github.com/Lbqds/app-alephium/reviewer"
	"github.com/Lbqds/app-alephium/tx"
)

// defaultSeed is the well-known BIP32 test vector seed, so runs without an
// explicit --seed still exercise the device-address elision path.
const defaultSeed = "000102030405060708090a0b0c0d0e0f"

// ReviewCommand creates the review command
func ReviewCommand() *cli.Command {
	return &cli.Command{
		Name:  "review",
		Usage: "Replay a review request through the transaction review engine",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "file",
				Usage: "Path to review request binary file",
			},
			&cli.StringFlag{
				Name:  "base64",
				Usage: "Base64-encoded review request",
			},
			&cli.StringFlag{
				Name:  "seed",
				Usage: "Hex seed for the software key tree",
				Value: defaultSeed,
			},
			&cli.StringFlag{
				Name:  "tx-id",
				Usage: "Transaction id (64 hex chars) to confirm after the field stream",
			},
			&cli.BoolFlag{
				Name:  "approve-all",
				Usage: "Approve every screen without prompting",
			},
		},
		Action: runReviewCommand,
	}
}

func runReviewCommand(ctx context.Context, cmd *cli.Command) error {
	filePath := cmd.String("file")
	b64 := cmd.String("base64")

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

	items, err := req.Stream()
	if err != nil {
		return fmt.Errorf("failed to expand review request: %w", err)
	}

	path, err := keys.ParsePath(req.Path)
	if err != nil {
		return fmt.Errorf("failed to parse derivation path: %w", err)
	}

	seed, err := hex.DecodeString(cmd.String("seed"))
	if err != nil {
		return fmt.Errorf("failed to decode seed: %w", err)
	}
	deriver, err := keys.NewSoftDeriver(seed)
	if err != nil {
		return fmt.Errorf("failed to build key tree: %w", err)
	}

	var gateway reviewer.Gateway
	if cmd.Bool("approve-all") {
		gateway = &autoGateway{out: os.Stdout}
	} else {
		gateway = newTerminalGateway(os.Stdin, os.Stdout)
	}

	rev := reviewer.NewReviewer(buffer.NewSwappingBuffer(), deriver, gateway)
	for _, item := range items {
		if err := rev.ReviewTxDetails(item.Field, path, item.TempData); err != nil {
			return reviewOutcome(err)
		}
	}

	if txIDHex := cmd.String("tx-id"); txIDHex != "" {
		var txID [32]byte
		if _, err := hex.Decode(txID[:], []byte(txIDHex)); err != nil || len(txIDHex) != 64 {
			return fmt.Errorf("tx-id must be 64 hex chars")
		}
		if err := rev.ReviewTxID(txID); err != nil {
			return reviewOutcome(err)
		}
	}

	fmt.Println("Review approved")
	return nil
}

// reviewOutcome distinguishes a deliberate user rejection from requests
// the engine could not display at all.
func reviewOutcome(err error) error {
	switch {
	case errors.Is(err, reviewer.ErrUserCancelled):
		return fmt.Errorf("review rejected by user")
	case errors.Is(err, reviewer.ErrOverflow):
		return fmt.Errorf("transaction too large to display: %w", err)
	default:
		return fmt.Errorf("failed to review transaction: %w", err)
	}
}
