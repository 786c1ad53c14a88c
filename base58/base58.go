// Package base58 encodes fixed-length address payloads in base58.
//
// Addresses are the base58 encoding of a one-byte script-type prefix
// followed by a 32-byte hash, 46 bytes of text at most. The encoder writes
// into a caller-owned buffer and never allocates; the unbounded encoder for
// multi-signature lockup payloads lives with the review engine, which owns
// the staging buffer it works in.
package base58

// Alphabet is the Bitcoin base58 alphabet, indexed by raw digit value.
var Alphabet = [58]byte{
	'1', '2', '3', '4', '5', '6', '7', '8', '9',
	'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'J', 'K', 'L', 'M',
	'N', 'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z',
	'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i', 'j', 'k',
	'm', 'n', 'o', 'p', 'q', 'r', 's', 't', 'u', 'v', 'w', 'x', 'y', 'z',
}

// maxDigits bounds the digit count of a 33-byte payload.
const maxDigits = 46

// EncodeInputs base58-encodes the concatenation of the inputs into out,
// returning the used prefix, or nil when out is too small or the payload
// exceeds the 33-byte address bound. Leading zero bytes follow the usual
// convention of one '1' digit each.
func EncodeInputs(inputs [][]byte, out []byte) []byte {
	var digits [maxDigits]byte
	digitCount := 0
	zeros := 0
	leading := true

	for _, input := range inputs {
		for _, b := range input {
			if leading && b == 0 {
				zeros++
				continue
			}
			leading = false
			carry := int(b)
			for i := 0; i < digitCount; i++ {
				carry += int(digits[i]) << 8
				digits[i] = byte(carry % 58)
				carry /= 58
			}
			for carry > 0 {
				if digitCount == maxDigits {
					return nil
				}
				digits[digitCount] = byte(carry % 58)
				digitCount++
				carry /= 58
			}
		}
	}

	totalSize := zeros + digitCount
	if totalSize > len(out) {
		return nil
	}
	for i := 0; i < zeros; i++ {
		out[i] = Alphabet[0]
	}
	// Digits accumulate least-significant first.
	for i := 0; i < digitCount; i++ {
		out[zeros+i] = Alphabet[digits[digitCount-i-1]]
	}
	return out[:totalSize]
}
