package codec

import "strconv"

// AppendIndex renders prefix followed by the decimal index into out,
// returning the used prefix of out. Used for review-screen labels such as
// "Output #2"; fails with ErrOverflow instead of truncating the label.
func AppendIndex(out []byte, prefix string, index int) ([]byte, error) {
	if len(prefix) > len(out) {
		return nil, ErrOverflow
	}
	var digits [20]byte
	numStr := strconv.AppendUint(digits[:0], uint64(index), 10)
	totalSize := len(prefix) + len(numStr)
	if totalSize > len(out) {
		return nil, ErrOverflow
	}
	copy(out, prefix)
	copy(out[len(prefix):], numStr)
	return out[:totalSize], nil
}
