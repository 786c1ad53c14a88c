// Package reviewer drives field-by-field transaction review on the
// trusted display.
//
// The engine receives one transaction field at a time from the upstream
// decoder, formats it into the staging buffer, shows it through a display
// gateway, and only reports success once the user has approved every
// screen. Its whole purpose is preventing blind signing: nothing is
// authorized that was not shown.
//
// # Review Flow
//
//	rev := reviewer.NewReviewer(buf, deriver, gateway)
//	for _, item := range stream {
//		if err := rev.ReviewTxDetails(item.Field, path, item.TempData); err != nil {
//			return err // ErrUserCancelled, ErrOverflow, ...
//		}
//	}
//	err := rev.ReviewTxID(txID)
//
// Consecutive inputs spending the same address collapse into one screen
// ("Inputs #k - #m"), and a run covering every input is elided entirely
// when the address is the device's own for the active signing path. Fee
// and outputs are always shown.
package reviewer

import (
	"bytes"
	"encoding/hex"
	"unicode/utf8"

	"github.com/Lbqds/app-alephium/base58"
	"github.com/Lbqds/app-alephium/codec"
	"github.com/Lbqds/app-alephium/crypto"
	"github.com/Lbqds/app-alephium/keys"
	"github.com/Lbqds/app-alephium/tx"
)

// multiSigPlaceholder stands in for input multi-signature addresses, whose
// redeem content is not human-decodable as an address. The arithmetic
// encoder is reserved for output lockup scripts, where the full payload is
// displayable.
const multiSigPlaceholder = "multi-sig-address"

// inputInfo remembers the most recently displayed-pending input: its index
// and the length of its staged address. It exists only while a run of
// same-address inputs is open.
type inputInfo struct {
	inputIndex uint16
	length     uint16
}

// Reviewer is the review engine. It exclusively owns the staging buffer
// for the duration of a review; the buffer is reset after every completed
// field and on every failure, so no byte range outlives the field that
// staged it except the retained input-tracking address at offset zero.
type Reviewer struct {
	buffer        StagingBuffer
	deriver       keys.Deriver
	gateway       Gateway
	previousInput *inputInfo
}

// NewReviewer builds an engine around the process-lifetime staging buffer,
// the device key deriver and a display gateway.
func NewReviewer(buffer StagingBuffer, deriver keys.Deriver, gateway Gateway) *Reviewer {
	return &Reviewer{
		buffer:  buffer,
		deriver: deriver,
		gateway: gateway,
	}
}

func (r *Reviewer) reset() {
	r.buffer.Reset()
	r.previousInput = nil
}

// review shows one screen and converts a reject into ErrUserCancelled.
// Rejection resets the engine so the next signing request starts clean.
func (r *Reviewer) review(message string, fields []Field) error {
	if r.gateway.ReviewFields(message, fields) {
		return nil
	}
	r.reset()
	return ErrUserCancelled
}

func (r *Reviewer) getStrFromRange(from, to int) (string, error) {
	staged := r.buffer.Read(from, to)
	if !utf8.Valid(staged) {
		return "", ErrInternal
	}
	return string(staged), nil
}

func (r *Reviewer) writeALPHAmount(amount *codec.U256) (int, error) {
	var out [33]byte
	str, err := amount.ToALPH(out[:])
	if err != nil {
		return 0, err
	}
	return r.buffer.Write(str)
}

func (r *Reviewer) writeTokenAmount(amount *codec.U256) (int, error) {
	var out [codec.MaxDecimalLen]byte
	str, err := amount.ToStr(out[:])
	if err != nil {
		return 0, err
	}
	return r.buffer.Write(str)
}

func (r *Reviewer) writeTokenID(tokenID tx.Byte32) (int, error) {
	var hexStr [64]byte
	hex.Encode(hexStr[:], tokenID[:])
	return r.buffer.Write(hexStr[:])
}

func (r *Reviewer) writeIndexWithPrefix(index int, prefix string) (int, error) {
	var out [13]byte
	str, err := codec.AppendIndex(out[:], prefix, index)
	if err != nil {
		return 0, err
	}
	return r.buffer.Write(str)
}

func (r *Reviewer) writeAddress(prefix byte, hash [32]byte) (int, error) {
	var out [46]byte
	str, err := toBase58Address(prefix, hash, out[:])
	if err != nil {
		return 0, err
	}
	return r.buffer.Write(str)
}

// ReviewNetwork shows the network the transaction commits to. Never elided.
func (r *Reviewer) ReviewNetwork(id byte) error {
	fields := []Field{{Name: "Network", Value: tx.NetworkID{ID: id}.Name()}}
	return r.review("Network", fields)
}

// ReviewTxFee formats the fee as a native-unit amount and shows it. Never
// elided.
func (r *Reviewer) ReviewTxFee(fee *codec.U256) (err error) {
	defer func() {
		if err != nil {
			r.reset()
		}
	}()

	fromIndex := r.buffer.Index()
	toIndex, err := r.writeALPHAmount(fee)
	if err != nil {
		return err
	}
	value, err := r.getStrFromRange(fromIndex, toIndex)
	if err != nil {
		return err
	}
	if err := r.review("Fees", []Field{{Name: "Fees", Value: value}}); err != nil {
		return err
	}
	r.reset()
	return nil
}

// reviewInputs flushes the open input run: one screen labelled either
// "Input #k" or "Inputs #k - #m", with the run's shared address. The run
// is closed by the reset that follows approval.
func (r *Reviewer) reviewInputs(currentInputIndex int) error {
	prev := r.previousInput
	if prev == nil {
		return nil
	}
	previousIndex := int(prev.inputIndex)
	previousLength := int(prev.length)
	inputsCount := currentInputIndex - previousIndex

	messageFrom := r.buffer.Index()
	var messageTo int
	if inputsCount == 1 {
		to, err := r.writeIndexWithPrefix(previousIndex, "Input #")
		if err != nil {
			return err
		}
		messageTo = to
	} else {
		var label [18]byte
		head, err := codec.AppendIndex(label[:], "Inputs #", previousIndex)
		if err != nil {
			return err
		}
		tail, err := codec.AppendIndex(label[len(head):], " - #", currentInputIndex-1)
		if err != nil {
			return err
		}
		to, err := r.buffer.Write(label[:len(head)+len(tail)])
		if err != nil {
			return err
		}
		messageTo = to
	}

	address, err := r.getStrFromRange(0, previousLength)
	if err != nil {
		return err
	}
	message, err := r.getStrFromRange(messageFrom, messageTo)
	if err != nil {
		return err
	}
	if err := r.review(message, []Field{{Name: "Address", Value: address}}); err != nil {
		return err
	}
	r.reset()
	return nil
}

func (r *Reviewer) isInputAddressSameAsPrevious(address []byte) bool {
	prev := r.previousInput
	if prev == nil {
		return false
	}
	return bytes.Equal(r.buffer.Read(0, int(prev.length)), address)
}

// isSameAsDeviceAddress compares the retained run address against the
// device's own address for the signing path. scratch is reused for the
// device address rendering; its previous contents are discarded.
func (r *Reviewer) isSameAsDeviceAddress(previousAddressLength int, scratch []byte, path []uint32) (bool, error) {
	previousAddress := r.buffer.Read(0, previousAddressLength)
	publicKey, err := r.deriver.DerivePublicKey(path)
	if err != nil {
		return false, ErrDerivePublicKey
	}
	deviceAddress, err := toBase58Address(0, crypto.HashPublicKey(publicKey), scratch)
	if err != nil {
		return false, err
	}
	return bytes.Equal(previousAddress, deviceAddress), nil
}

// updatePreviousInput opens a new run: the address is staged at the low
// offset range, where it survives per-field resets until the run flushes.
func (r *Reviewer) updatePreviousInput(inputIndex int, address []byte) error {
	if _, err := r.buffer.Write(address); err != nil {
		return err
	}
	r.previousInput = &inputInfo{
		inputIndex: uint16(inputIndex),
		length:     uint16(len(address)),
	}
	return nil
}

// reviewInput processes one input of the stream: derive its witness
// address, extend or flush the open run, and elide the screen entirely
// when the run covers every input from the device's own address.
func (r *Reviewer) reviewInput(input *tx.Input, currentIndex, inputSize int, path []uint32, tempData []byte) error {
	var addressBytes [46]byte
	addressLength := 0
	isSameAsPrevious := false

	switch input.Unlock.Kind {
	case tx.UnlockP2PKH:
		address, err := toBase58Address(0, crypto.HashPublicKey(input.Unlock.PublicKey[:]), addressBytes[:])
		if err != nil {
			return err
		}
		addressLength = len(address)
		isSameAsPrevious = r.isInputAddressSameAsPrevious(address)
	case tx.UnlockP2MPKH:
		addressLength = copy(addressBytes[:], multiSigPlaceholder)
	case tx.UnlockP2SH:
		address, err := toBase58Address(2, crypto.HashScript(tempData), addressBytes[:])
		if err != nil {
			return err
		}
		addressLength = len(address)
		isSameAsPrevious = r.isInputAddressSameAsPrevious(address)
	case tx.UnlockSameAsPrevious:
		isSameAsPrevious = true
	}

	isLast := currentIndex == inputSize-1
	if isSameAsPrevious && !isLast {
		return nil
	}

	if isSameAsPrevious && isLast {
		prev := r.previousInput
		if prev == nil {
			return ErrMalformedStream
		}
		if prev.inputIndex == 0 {
			same, err := r.isSameAsDeviceAddress(int(prev.length), addressBytes[:], path)
			if err != nil {
				return err
			}
			if same {
				// All inputs come from the device address.
				r.reset()
				return nil
			}
		}
		return r.reviewInputs(inputSize)
	}

	if err := r.reviewInputs(currentIndex); err != nil {
		return err
	}
	if err := r.updatePreviousInput(currentIndex, addressBytes[:addressLength]); err != nil {
		return err
	}
	if inputSize == 1 {
		same, err := r.isSameAsDeviceAddress(addressLength, addressBytes[:], path)
		if err != nil {
			return err
		}
		if same {
			r.reset()
			return nil
		}
	}

	if isLast {
		return r.reviewInputs(inputSize)
	}
	return nil
}

// outputIndexes holds the staged byte ranges of one output's fields.
type outputIndexes struct {
	reviewMessage [2]int
	alphAmount    [2]int
	address       [2]int
	token         *tokenIndexes
}

type tokenIndexes struct {
	tokenID     [2]int
	tokenAmount [2]int
}

func (r *Reviewer) prepareOutput(output *tx.AssetOutput, currentIndex int, tempData []byte) (outputIndexes, error) {
	messageFrom := r.buffer.Index()
	messageTo, err := r.writeIndexWithPrefix(currentIndex, "Output #")
	if err != nil {
		return outputIndexes{}, err
	}

	amountFrom := r.buffer.Index()
	amountTo, err := r.writeALPHAmount(&output.Amount)
	if err != nil {
		return outputIndexes{}, err
	}

	addressFrom := r.buffer.Index()
	var addressTo int
	switch output.Lockup.Kind {
	case tx.LockupP2PKH, tx.LockupP2SH:
		addressTo, err = r.writeAddress(output.Lockup.ScriptType(), output.Lockup.Hash)
	case tx.LockupP2MPKH:
		addressTo, err = r.writeMultiSig(tempData)
	}
	if err != nil {
		return outputIndexes{}, err
	}

	indexes := outputIndexes{
		reviewMessage: [2]int{messageFrom, messageTo},
		alphAmount:    [2]int{amountFrom, amountTo},
		address:       [2]int{addressFrom, addressTo},
	}
	if len(output.Tokens) == 0 {
		return indexes, nil
	}

	// An asset output has at most one token.
	token := &output.Tokens[0]
	tokenIDFrom := r.buffer.Index()
	tokenIDTo, err := r.writeTokenID(token.ID)
	if err != nil {
		return outputIndexes{}, err
	}
	tokenAmountFrom := r.buffer.Index()
	tokenAmountTo, err := r.writeTokenAmount(&token.Amount)
	if err != nil {
		return outputIndexes{}, err
	}
	indexes.token = &tokenIndexes{
		tokenID:     [2]int{tokenIDFrom, tokenIDTo},
		tokenAmount: [2]int{tokenAmountFrom, tokenAmountTo},
	}
	return indexes, nil
}

// reviewOutput shows one output as a single screen: address, native
// amount, and the token pair when present. Never elided.
func (r *Reviewer) reviewOutput(output *tx.AssetOutput, currentIndex int, tempData []byte) error {
	indexes, err := r.prepareOutput(output, currentIndex, tempData)
	if err != nil {
		return err
	}
	message, err := r.getStrFromRange(indexes.reviewMessage[0], indexes.reviewMessage[1])
	if err != nil {
		return err
	}
	alphAmount, err := r.getStrFromRange(indexes.alphAmount[0], indexes.alphAmount[1])
	if err != nil {
		return err
	}
	address, err := r.getStrFromRange(indexes.address[0], indexes.address[1])
	if err != nil {
		return err
	}
	fields := []Field{
		{Name: "Address", Value: address},
		{Name: "ALPH", Value: alphAmount},
	}

	if indexes.token != nil {
		tokenID, err := r.getStrFromRange(indexes.token.tokenID[0], indexes.token.tokenID[1])
		if err != nil {
			return err
		}
		tokenAmount, err := r.getStrFromRange(indexes.token.tokenAmount[0], indexes.token.tokenAmount[1])
		if err != nil {
			return err
		}
		fields = append(fields,
			Field{Name: "Token ID", Value: tokenID},
			Field{Name: "Token Amount", Value: tokenAmount},
		)
	}

	if err := r.review(message, fields); err != nil {
		return err
	}
	r.reset()
	return nil
}

// ReviewTxDetails processes one streamed transaction field. Callers invoke
// it once per field, in stream order; tempData carries the staged redeem
// script or multi-signature payload accompanying the field.
func (r *Reviewer) ReviewTxDetails(field tx.Field, path []uint32, tempData []byte) (err error) {
	defer func() {
		if err != nil {
			r.reset()
		}
	}()

	switch f := field.(type) {
	case tx.NetworkID:
		return r.ReviewNetwork(f.ID)
	case tx.TxFee:
		return r.ReviewTxFee(&f.Fee)
	case tx.InputItem:
		return r.reviewInput(&f.Input, f.Index, f.Count, path, tempData)
	case tx.OutputItem:
		return r.reviewOutput(&f.Output, f.Index, tempData)
	default:
		return nil
	}
}

// ReviewTxID shows the transaction id as hex at the end of the stream and
// syncs the post-approval status on gateways that have one.
func (r *Reviewer) ReviewTxID(txID [32]byte) (err error) {
	defer func() {
		if err != nil {
			r.reset()
		}
	}()

	var hexStr [64]byte
	hex.Encode(hexStr[:], txID[:])
	fields := []Field{{Name: "Transaction ID", Value: string(hexStr[:])}}
	if err := r.review("Transaction ID", fields); err != nil {
		return err
	}
	if syncer, ok := r.gateway.(StatusSyncer); ok {
		syncer.SyncStatus(true)
	}
	return nil
}

func toBase58Address(prefix byte, hash [32]byte, out []byte) ([]byte, error) {
	str := base58.EncodeInputs([][]byte{{prefix}, hash[:]}, out)
	if str == nil {
		return nil, ErrOverflow
	}
	return str, nil
}
