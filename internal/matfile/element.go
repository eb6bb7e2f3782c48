package matfile

import (
	"encoding/binary"
	"fmt"
	"math"

	"battexplorer/internal/errors"
)

// reader walks a byte slice of MAT data elements. Offsets inside a matrix
// element are relative to the element payload, which itself starts on an
// 8-byte boundary in the file, so padding arithmetic is the same at every
// nesting level.
type reader struct {
	data  []byte
	off   int
	order binary.ByteOrder
}

func (r *reader) remaining() int {
	return len(r.data) - r.off
}

func align8(n int) int {
	if rem := n % 8; rem != 0 {
		return n + 8 - rem
	}
	return n
}

func decodeErr(format string, args ...interface{}) *errors.AppError {
	return errors.NewDecodeError(fmt.Sprintf(format, args...), nil)
}

func decodeErrAt(off int, format string, args ...interface{}) *errors.AppError {
	return decodeErr(format, args...).WithContext("offset", off)
}

// readElement consumes one data element and returns its type and payload.
// Both tag layouts are handled: the regular 8-byte tag followed by a padded
// payload, and the small data element format that packs up to 4 payload
// bytes into the tag itself. Compressed elements are returned raw; the
// caller inflates them.
func (r *reader) readElement() (uint32, []byte, error) {
	start := r.off
	if r.remaining() < 8 {
		return 0, nil, decodeErrAt(start, "truncated element tag: %d bytes left, need 8", r.remaining())
	}

	word := r.order.Uint32(r.data[r.off:])
	if word>>16 != 0 {
		// Small data element: byte count lives in the upper half of the
		// first word, payload in the second word.
		typ := word & 0xFFFF
		size := int(word >> 16)
		if size > 4 {
			return 0, nil, decodeErrAt(start, "small element claims %d bytes, maximum is 4", size)
		}
		payload := r.data[r.off+4 : r.off+4+size]
		r.off += 8
		return typ, payload, nil
	}

	typ := word
	size := int(r.order.Uint32(r.data[r.off+4:]))
	r.off += 8
	if size < 0 || size > r.remaining() {
		return 0, nil, decodeErrAt(start, "element of %d bytes exceeds the %d remaining", size, r.remaining())
	}
	payload := r.data[r.off : r.off+size]

	if typ == miCOMPRESSED {
		// Compressed elements are not padded.
		r.off += size
	} else {
		r.off += align8(size)
		if r.off > len(r.data) {
			// The final element of a stream may omit its tail padding.
			r.off = len(r.data)
		}
	}
	return typ, payload, nil
}

// decodeNumeric widens a numeric payload of any storable element type to
// float64. MATLAB compresses storage by writing small-valued doubles as
// narrow integers; the array class, not the element type, decides what the
// values mean, and for this decoder everything becomes float64.
func decodeNumeric(typ uint32, payload []byte, order binary.ByteOrder) ([]float64, error) {
	width, ok := numericWidth(typ)
	if !ok {
		return nil, decodeErr("element type %d is not numeric", typ)
	}
	if len(payload)%width != 0 {
		return nil, decodeErr("numeric payload of %d bytes is not a multiple of element width %d", len(payload), width)
	}

	n := len(payload) / width
	vals := make([]float64, n)
	for i := 0; i < n; i++ {
		chunk := payload[i*width:]
		switch typ {
		case miINT8:
			vals[i] = float64(int8(chunk[0]))
		case miUINT8:
			vals[i] = float64(chunk[0])
		case miINT16:
			vals[i] = float64(int16(order.Uint16(chunk)))
		case miUINT16:
			vals[i] = float64(order.Uint16(chunk))
		case miINT32:
			vals[i] = float64(int32(order.Uint32(chunk)))
		case miUINT32:
			vals[i] = float64(order.Uint32(chunk))
		case miSINGLE:
			vals[i] = float64(math.Float32frombits(order.Uint32(chunk)))
		case miDOUBLE:
			vals[i] = math.Float64frombits(order.Uint64(chunk))
		case miINT64:
			vals[i] = float64(int64(order.Uint64(chunk)))
		case miUINT64:
			vals[i] = float64(order.Uint64(chunk))
		}
	}
	return vals, nil
}

func numericWidth(typ uint32) (int, bool) {
	switch typ {
	case miINT8, miUINT8:
		return 1, true
	case miINT16, miUINT16:
		return 2, true
	case miINT32, miUINT32, miSINGLE:
		return 4, true
	case miDOUBLE, miINT64, miUINT64:
		return 8, true
	}
	return 0, false
}
