package codec

import "math"

// DecodeStage is a resumable cursor over a value's own byte array: Index
// counts the encoded bytes written so far (0 meaning the header byte has
// not been consumed yet). The zero value starts a fresh decode.
type DecodeStage struct {
	Step  uint16
	Index uint16
}

// stageComplete is the terminal stage, distinct from every in-progress
// cursor so "needs more input" and "done" can never be confused.
var stageComplete = DecodeStage{Step: math.MaxUint16, Index: math.MaxUint16}

// IsComplete reports whether the decode has consumed the full encoding.
func (s DecodeStage) IsComplete() bool {
	return s == stageComplete
}

// Decode consumes bytes from chunk into the value, resuming from stage. It
// returns the updated stage and the number of bytes consumed; an exhausted
// chunk is recorded as partial progress, never an error. Splitting an
// encoding into any number of chunks yields byte-identical results.
func (u *U256) Decode(chunk []byte, stage DecodeStage) (DecodeStage, int) {
	if len(chunk) == 0 {
		return stage, 0
	}
	consumed := 0
	fromIndex := int(stage.Index)
	if fromIndex == 0 {
		// The header byte classifies the length of everything after it.
		u.bytes[0] = chunk[0]
		consumed = 1
		fromIndex = 1
	}
	length := u.Length()
	for consumed < len(chunk) && fromIndex < length {
		u.bytes[fromIndex] = chunk[consumed]
		fromIndex++
		consumed++
	}
	if fromIndex == length {
		return stageComplete, consumed
	}
	return DecodeStage{Step: stage.Step, Index: uint16(fromIndex)}, consumed
}
