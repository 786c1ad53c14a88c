// Package codec implements the chain's compact unsigned-integer encoding.
//
// Amounts in an unsigned transaction are serialized as compact integers: a
// self-describing variable-length encoding where the top two bits of the
// first byte select the total length. Values up to 2^256-1 fit in at most 33
// bytes (1 header + 32 payload).
//
// # Streaming Decode
//
// Transactions arrive from the host in chunks smaller than a single value,
// so decoding is resumable:
//
//	var amount codec.U256
//	stage := codec.DecodeStage{}
//	for _, chunk := range chunks {
//		stage, _ = amount.Decode(chunk, stage)
//	}
//	if !stage.IsComplete() {
//		// short input
//	}
//
// # Display
//
// Decoded values render either as plain decimals (ToStr) or as scaled
// native-unit amounts with the " ALPH" suffix (ToALPH). All rendering
// happens in caller-owned fixed buffers; an undersized buffer is reported
// as ErrOverflow, never truncated.
package codec

import "errors"

// ErrOverflow reports a destination buffer too small for a rendering.
var ErrOverflow = errors.New("output buffer too small")

const (
	// maskMode carries the payload bits of the header byte.
	maskMode = 0x3f

	// alphDecimals is the number of implicit decimal places of the native
	// unit, decimalPlaces how many of them are shown.
	alphDecimals  = 18
	decimalPlaces = 6

	// MaxDecimalLen is the digit count of 2^256-1, the worst case for ToStr.
	MaxDecimalLen = 78
)

// thousandNanoALPH is 10^(alphDecimals-decimalPlaces), the smallest amount
// that still renders as a nonzero decimal.
var thousandNanoALPH = pow10(alphDecimals - decimalPlaces)

func pow10(n int) uint64 {
	v := uint64(1)
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}

// decodeLength classifies the total encoded length from the header byte
// alone: the top two bits select 1, 2 or 4 fixed bytes, or a multi-byte
// encoding of (header&0x3f)+4 payload bytes.
func decodeLength(header byte) int {
	switch header >> 6 {
	case 0:
		return 1
	case 1:
		return 2
	case 2:
		return 4
	default:
		return int(header&maskMode) + 4 + 1
	}
}

func isFixedSize(header byte) bool {
	return header>>6 != 3
}

// U256 is a compact-encoded unsigned 256-bit integer. The zero value is the
// encoding of zero; Reset returns a used value to that state before reuse.
type U256 struct {
	bytes [33]byte
}

// FromEncodedBytes builds a U256 from a complete encoding. The input must
// already be a valid compact encoding of at most 33 bytes.
func FromEncodedBytes(encoded []byte) U256 {
	var u U256
	copy(u.bytes[:], encoded)
	return u
}

// Reset zeroes the value for reuse.
func (u *U256) Reset() {
	u.bytes = [33]byte{}
}

// Length returns the total encoded length, computable from the header byte
// alone and never exceeding 33.
func (u *U256) Length() int {
	return decodeLength(u.bytes[0])
}

// IsFixedSize reports whether the encoding is one of the 1/2/4-byte classes.
func (u *U256) IsFixedSize() bool {
	return isFixedSize(u.bytes[0])
}

// EncodedBytes returns the valid prefix of the internal encoding.
func (u *U256) EncodedBytes() []byte {
	return u.bytes[:u.Length()]
}

// IsZero reports whether the decoded value is zero.
func (u *U256) IsZero() bool {
	if u.Length() != 1 {
		return false
	}
	for _, b := range u.bytes {
		if b != 0 {
			return false
		}
	}
	return true
}

// decodeFixedSize reassembles a fixed-class encoding of up to 4 bytes.
func decodeFixedSize(bytes []byte) uint32 {
	result := (uint32(bytes[0]) & maskMode) << ((len(bytes) - 1) * 8)
	for i := 1; i < len(bytes); i++ {
		result |= uint32(bytes[i]) << ((len(bytes) - i - 1) * 8)
	}
	return result
}

// magnitude copies the value into a 32-byte big-endian buffer.
func (u *U256) magnitude() [32]byte {
	var bytes [32]byte
	length := u.Length()
	if u.IsFixedSize() {
		value := decodeFixedSize(u.bytes[:length])
		bytes[28] = byte(value >> 24)
		bytes[29] = byte(value >> 16)
		bytes[30] = byte(value >> 8)
		bytes[31] = byte(value)
	} else {
		copy(bytes[33-length:], u.bytes[1:length])
	}
	return bytes
}

// ToStr renders the value as a decimal string with no leading zeros into
// out, returning the used prefix. The worst case needs MaxDecimalLen bytes.
func (u *U256) ToStr(out []byte) ([]byte, error) {
	if len(out) == 0 {
		return nil, ErrOverflow
	}
	if u.IsZero() {
		out[0] = '0'
		return out[:1], nil
	}

	bytes := u.magnitude()
	index := len(out)
	for !allZero(bytes[:]) {
		if index == 0 {
			return nil, ErrOverflow
		}
		index--
		carry := uint16(0)
		for i := 0; i < 32; i++ {
			v := carry<<8 | uint16(bytes[i])
			bytes[i] = byte(v / 10)
			carry = v % 10
		}
		out[index] = '0' + byte(carry)
	}
	copy(out, out[index:])
	return out[:len(out)-index], nil
}

func allZero(bytes []byte) bool {
	for _, b := range bytes {
		if b != 0 {
			return false
		}
	}
	return true
}

// trim drops trailing zeros of a fractional rendering, and the decimal
// point itself when nothing remains behind it.
func trim(dest []byte) []byte {
	index := len(dest) - 1
	for index != 0 && dest[index] == '0' {
		index--
	}
	if dest[index] == '.' {
		return dest[:index]
	}
	return dest[:index+1]
}

// toStrWithDecimals renders the value as a fixed-point quantity with
// decimals implicit places, showing at most decimalPlaces of them.
func (u *U256) toStrWithDecimals(out []byte, decimals, decimalPlaces int) ([]byte, error) {
	clear(out)
	str, err := u.ToStr(out)
	if err != nil {
		return nil, err
	}
	strLength := len(str)
	if decimals == 0 {
		return out[:strLength], nil
	}

	if strLength > decimals {
		// Splice the point into the digits; it needs one extra byte.
		if strLength+1 > len(out) {
			return nil, ErrOverflow
		}
		decimalIndex := strLength - decimals
		copy(out[decimalIndex+1:strLength+1], out[decimalIndex:strLength])
		out[decimalIndex] = '.'
		return trim(out[:decimalIndex+decimalPlaces+1]), nil
	}

	// Left-pad with "0." and zeros.
	padSize := decimals - strLength
	copy(out[2+padSize:2+padSize+strLength], out[:strLength])
	for i := 0; i < 2+padSize; i++ {
		if i == 1 {
			out[i] = '.'
		} else {
			out[i] = '0'
		}
	}
	return trim(out[:2+decimalPlaces]), nil
}

// isLessThanThousandNano reports whether the value is below the smallest
// displayable native-unit fraction (10^12 base units).
func (u *U256) isLessThanThousandNano() bool {
	if u.IsFixedSize() {
		// Fixed-class values top out below 2^30.
		return true
	}
	length := u.Length()
	if length > 8 {
		return false
	}
	value := uint64(0)
	for i := 1; i < length; i++ {
		value = value<<8 | uint64(u.bytes[i])
		if value >= thousandNanoALPH {
			return false
		}
	}
	return true
}

// ToALPH renders the value as a native-unit amount with the " ALPH" suffix.
// Zero renders as "0 ALPH". Positive values below the displayable threshold
// render as "<0.000001 ALPH" rather than implying an exact zero-rounding
// value. The maximum rendering needs 33 bytes.
func (u *U256) ToALPH(out []byte) ([]byte, error) {
	clear(out)
	const postfix = " ALPH"
	if u.IsZero() {
		totalSize := 1 + len(postfix)
		if len(out) < totalSize {
			return nil, ErrOverflow
		}
		out[0] = '0'
		copy(out[1:totalSize], postfix)
		return out[:totalSize], nil
	}

	if u.isLessThanThousandNano() {
		const str = "<0.000001"
		totalSize := len(str) + len(postfix)
		if len(out) < totalSize {
			return nil, ErrOverflow
		}
		copy(out, str)
		copy(out[len(str):totalSize], postfix)
		return out[:totalSize], nil
	}

	// 28 digits covers the largest representable ALPH amount.
	if len(out) < 28+len(postfix) {
		return nil, ErrOverflow
	}

	str, err := u.toStrWithDecimals(out, alphDecimals, decimalPlaces)
	if err != nil {
		return nil, err
	}
	strLength := len(str)
	totalSize := strLength + len(postfix)
	copy(out[strLength:totalSize], postfix)
	return out[:totalSize], nil
}
