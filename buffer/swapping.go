// Package buffer provides the staging buffer backing transaction review.
//
// A reviewed field can be larger than the device RAM set aside for it, so
// field text is staged through a hybrid store: a small fast RAM region that
// spills into a larger non-volatile region once exhausted. Callers address
// the two regions as one continuous offset space through byte ranges and a
// monotonically advancing write cursor.
//
// Byte ranges into the buffer stay valid only until the next Reset; the
// buffer is the sole owner of the bytes.
package buffer

import "errors"

// ErrBufferOverflow reports a write past the end of the backing storage.
var ErrBufferOverflow = errors.New("staging buffer exhausted")

const (
	// RAMSize is the fast region, sized to hold typical single fields.
	RAMSize = 1024
	// NVMSize is the spill region for oversized fields such as
	// multi-signature payloads.
	NVMSize = 16 * 1024
)

// SwappingBuffer is a byte-addressable store spanning a RAM region and a
// simulated non-volatile region. Offsets below RAMSize address RAM, the
// rest address NVM. The zero value is ready to use.
type SwappingBuffer struct {
	ram   [RAMSize]byte
	nvm   [NVMSize]byte
	index int
}

// NewSwappingBuffer constructs the process-lifetime staging buffer. The
// engine takes exclusive ownership of it for the duration of a review.
func NewSwappingBuffer() *SwappingBuffer {
	return &SwappingBuffer{}
}

// Index returns the current write cursor.
func (b *SwappingBuffer) Index() int {
	return b.index
}

// Write appends data at the cursor and returns the end offset.
func (b *SwappingBuffer) Write(data []byte) (int, error) {
	return b.WriteFrom(b.index, data)
}

// WriteFrom writes data at offset and returns the end offset. The cursor
// advances to the end offset when the write extends past it.
func (b *SwappingBuffer) WriteFrom(offset int, data []byte) (int, error) {
	if offset < 0 || offset+len(data) > RAMSize+NVMSize {
		return 0, ErrBufferOverflow
	}
	b.set(offset, data)
	end := offset + len(data)
	if end > b.index {
		b.index = end
	}
	return end, nil
}

// Update overwrites in place without moving the cursor. The range must
// already be staged.
func (b *SwappingBuffer) Update(offset int, data []byte) {
	if offset < 0 || offset+len(data) > b.index {
		panic("buffer: update outside staged region")
	}
	b.set(offset, data)
}

func (b *SwappingBuffer) set(offset int, data []byte) {
	if offset < RAMSize {
		n := copy(b.ram[offset:], data)
		data = data[n:]
		offset += n
	}
	if len(data) > 0 {
		copy(b.nvm[offset-RAMSize:], data)
	}
}

// Read returns the bytes of the half-open range [from, to). The result
// aliases the backing storage when the range stays within one region and
// must not be retained across a Reset.
func (b *SwappingBuffer) Read(from, to int) []byte {
	if from < 0 || to < from || to > RAMSize+NVMSize {
		panic("buffer: read out of range")
	}
	if to <= RAMSize {
		return b.ram[from:to]
	}
	if from >= RAMSize {
		return b.nvm[from-RAMSize : to-RAMSize]
	}
	// The range straddles the RAM/NVM seam.
	joined := make([]byte, to-from)
	n := copy(joined, b.ram[from:])
	copy(joined[n:], b.nvm[:to-RAMSize])
	return joined
}

// ReadAll returns the full staged region.
func (b *SwappingBuffer) ReadAll() []byte {
	return b.Read(0, b.index)
}

// Reset invalidates all staged ranges and rewinds the cursor.
func (b *SwappingBuffer) Reset() {
	b.index = 0
}
