package reviewer

import "github.com/Lbqds/app-alephium/base58"

// Multi-signature lockup payloads have no fixed bound, so their base58
// conversion runs in place inside the staging buffer: the staged digit
// sequence (raw values 0-57) is treated as a base-58 number and multiplied
// by 256 per input byte, with carries propagated across 64-byte windows.

const carryWindow = 64

// updateWithCarry multiplies the staged digit range [from, to) by 256 and
// adds carry, window by window. to-from is always a multiple of the window
// size; partial trailing digits live in the caller's local window until
// flushed. Returns the carry left after the last window.
func (r *Reviewer) updateWithCarry(from, to, carry int) (int, error) {
	var window [carryWindow]byte
	for fromIndex := from; fromIndex < to; fromIndex += carryWindow {
		stored := r.buffer.Read(fromIndex, fromIndex+carryWindow)
		for i := 0; i < carryWindow; i++ {
			carry += int(stored[i]) << 8
			window[i] = byte(carry % 58)
			carry /= 58
		}
		if _, err := r.buffer.WriteFrom(fromIndex, window[:]); err != nil {
			return 0, err
		}
		window = [carryWindow]byte{}
	}
	return carry, nil
}

// finalizeMultiSig turns the staged raw digits into the final address
// text: the multiply-accumulate leaves digits least-significant first, so
// the range is walked from both ends inward in mirrored windows, reversing
// byte order and mapping each digit through the base58 alphabet in place.
func (r *Reviewer) finalizeMultiSig(from, to int) {
	var temp0, temp1 [carryWindow]byte
	begin := from
	end := to
	for begin < end {
		if end-begin <= carryWindow {
			stored := r.buffer.Read(begin, end)
			length := end - begin
			for i := 0; i < length; i++ {
				temp0[length-i-1] = base58.Alphabet[stored[i]]
			}
			r.buffer.Update(begin, temp0[:length])
			return
		}

		left := r.buffer.Read(begin, begin+carryWindow)
		right := r.buffer.Read(end-carryWindow, end)
		for i := 0; i < carryWindow; i++ {
			index := carryWindow - i - 1
			temp0[index] = base58.Alphabet[left[i]]
			temp1[index] = base58.Alphabet[right[i]]
		}
		r.buffer.Update(begin, temp1[:])
		r.buffer.Update(end-carryWindow, temp0[:])
		end -= carryWindow
		begin += carryWindow
	}
}

// writeMultiSig stages the base58 encoding of an unbounded multi-signature
// payload, returning the end offset. Multi-sig payloads never carry
// base58's leading-zero-byte convention, so no '1' digits are prepended.
func (r *Reviewer) writeMultiSig(input []byte) (int, error) {
	fromIndex := r.buffer.Index()
	outputLength := 0 // digits flushed into the buffer, window multiple
	outputIndex := 0  // digits produced in total
	var window [carryWindow]byte

	for _, val := range input {
		carry, err := r.updateWithCarry(fromIndex, fromIndex+outputLength, int(val))
		if err != nil {
			return 0, err
		}

		for i := range window[:outputIndex-outputLength] {
			carry += int(window[i]) << 8
			window[i] = byte(carry % 58)
			carry /= 58
		}
		for carry > 0 {
			if outputIndex-outputLength == carryWindow {
				if _, err := r.buffer.WriteFrom(fromIndex+outputLength, window[:]); err != nil {
					return 0, err
				}
				window = [carryWindow]byte{}
				outputLength += carryWindow
			}
			window[outputIndex-outputLength] = byte(carry % 58)
			outputIndex++
			carry /= 58
		}
	}

	if _, err := r.buffer.WriteFrom(fromIndex+outputLength, window[:outputIndex-outputLength]); err != nil {
		return 0, err
	}
	toIndex := fromIndex + outputIndex
	r.finalizeMultiSig(fromIndex, toIndex)
	return toIndex, nil
}
