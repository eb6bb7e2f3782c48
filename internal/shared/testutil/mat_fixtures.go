package testutil

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/require"
)

// MAT 5 type and class codes, duplicated here so the fixture writer stays
// independent of the decoder it exercises.
const (
	matINT8       uint32 = 1
	matUINT8      uint32 = 2
	matINT16      uint32 = 3
	matUINT16     uint32 = 4
	matINT32      uint32 = 5
	matUINT32     uint32 = 6
	matSINGLE     uint32 = 7
	matDOUBLE     uint32 = 9
	matMATRIX     uint32 = 14
	matCOMPRESSED uint32 = 15

	matClassCell   uint32 = 1
	matClassStruct uint32 = 2
	matClassChar   uint32 = 4
	matClassDouble uint32 = 6
)

// MatVar describes one array to serialize into a synthetic MAT file.
// Exactly one payload kind should be set; structural misuse panics, since
// fixtures are authored by tests.
type MatVar struct {
	Dims    []int
	Numeric []float64   // numeric payload, written as a double array
	StoreAs uint32      // element type for the numeric payload; 0 means miDOUBLE
	Chars   string      // char array payload
	Fields  []string    // struct array field names
	Elems   [][]*MatVar // struct: one slice per element, aligned with Fields
	Cells   []*MatVar   // cell array elements
}

// Num builds a 1xN double array.
func Num(values ...float64) *MatVar {
	return &MatVar{Numeric: append([]float64{}, values...)}
}

// NumDims builds a double array with explicit dimensions.
func NumDims(dims []int, values []float64) *MatVar {
	return &MatVar{Dims: dims, Numeric: values}
}

// Chars builds a 1xN char array.
func Chars(s string) *MatVar {
	return &MatVar{Chars: s}
}

// StructArray builds a 1xN struct array. Each element supplies one value
// per field, in field order.
func StructArray(fields []string, elems ...[]*MatVar) *MatVar {
	for i, e := range elems {
		if len(e) != len(fields) {
			panic(fmt.Sprintf("testutil: struct element %d has %d values for %d fields", i, len(e), len(fields)))
		}
	}
	return &MatVar{Fields: fields, Elems: elems}
}

// CellArray builds a 1xN cell array.
func CellArray(cells ...*MatVar) *MatVar {
	if cells == nil {
		cells = []*MatVar{}
	}
	return &MatVar{Cells: cells}
}

// MatEntry names a top-level variable.
type MatEntry struct {
	Name string
	Var  *MatVar
}

// MatFileOptions controls container-level encoding of synthetic files.
type MatFileOptions struct {
	BigEndian  bool
	Compressed bool
	HeaderText string
}

// BuildMatFile serializes the entries into a complete MAT 5 byte stream.
func BuildMatFile(opts MatFileOptions, entries ...MatEntry) []byte {
	order := binary.ByteOrder(binary.LittleEndian)
	if opts.BigEndian {
		order = binary.BigEndian
	}
	w := &matWriter{order: order}

	text := opts.HeaderText
	if text == "" {
		text = "MATLAB 5.0 MAT-file, Platform: test fixture"
	}
	w.header(text)

	for _, e := range entries {
		matrix := w.buildMatrix(e.Var, e.Name)
		if opts.Compressed {
			var inner bytes.Buffer
			writeTagged(&inner, order, matMATRIX, matrix, true)
			var compressed bytes.Buffer
			zw := zlib.NewWriter(&compressed)
			if _, err := zw.Write(inner.Bytes()); err != nil {
				panic(fmt.Sprintf("testutil: zlib write: %v", err))
			}
			if err := zw.Close(); err != nil {
				panic(fmt.Sprintf("testutil: zlib close: %v", err))
			}
			writeTagged(&w.buf, order, matCOMPRESSED, compressed.Bytes(), false)
		} else {
			writeTagged(&w.buf, order, matMATRIX, matrix, true)
		}
	}
	return w.buf.Bytes()
}

// WriteMatFile writes a built MAT stream to path, failing the test on error.
func WriteMatFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, data, 0644))
}

// FixtureCycle holds the five signal slices of one synthetic battery cycle.
type FixtureCycle struct {
	Time        []float64
	Current     []float64
	Voltage     []float64
	Temperature []float64
	Capacity    []float64
}

// SimpleCycle builds a cycle with n-sample ramp signals and the given
// capacity, convenient when a test only cares about structure.
func SimpleCycle(n int, capacity float64) FixtureCycle {
	ramp := make([]float64, n)
	for i := range ramp {
		ramp[i] = float64(i + 1)
	}
	return FixtureCycle{
		Time:        ramp,
		Current:     ramp,
		Voltage:     ramp,
		Temperature: ramp,
		Capacity:    []float64{capacity},
	}
}

// BatteryVar assembles the dataset's nested battery layout: a 1xN struct
// array whose cycleField holds each battery's 1xM cycle struct array with
// the five canonical signal fields.
func BatteryVar(cycleField string, batteries ...[]FixtureCycle) *MatVar {
	signalFields := []string{"relative_time_min", "current_A", "voltage_V", "temperature_C", "capacity"}

	elems := make([][]*MatVar, len(batteries))
	for i, cycles := range batteries {
		cycleElems := make([][]*MatVar, len(cycles))
		for j, c := range cycles {
			cycleElems[j] = []*MatVar{
				NumDims(nil, c.Time),
				NumDims(nil, c.Current),
				NumDims(nil, c.Voltage),
				NumDims(nil, c.Temperature),
				NumDims(nil, c.Capacity),
			}
		}
		elems[i] = []*MatVar{StructArray(signalFields, cycleElems...)}
	}
	return StructArray([]string{cycleField}, elems...)
}

// BuildBatteryMatFile is the common case: one "battery" variable in a
// little-endian, uncompressed container.
func BuildBatteryMatFile(batteries ...[]FixtureCycle) []byte {
	return BuildMatFile(MatFileOptions{}, MatEntry{Name: "battery", Var: BatteryVar("cycle", batteries...)})
}

type matWriter struct {
	order binary.ByteOrder
	buf   bytes.Buffer
}

func (w *matWriter) header(text string) {
	head := make([]byte, 128)
	for i := range head[:116] {
		head[i] = ' '
	}
	copy(head[:116], text)
	w.order.PutUint16(head[124:126], 0x0100)
	w.order.PutUint16(head[126:128], 0x4D49) // "MI" in the writer's byte order
	w.buf.Write(head)
}

// buildMatrix serializes one array as a miMATRIX payload (without the
// outer tag, so it can be nested or compressed by the caller). A nil var
// becomes the zero-byte matrix MATLAB writes for unset struct fields.
func (w *matWriter) buildMatrix(v *MatVar, name string) []byte {
	if v == nil {
		return nil
	}
	var buf bytes.Buffer
	order := w.order

	class := matClassDouble
	switch {
	case v.Fields != nil:
		class = matClassStruct
	case v.Cells != nil:
		class = matClassCell
	case v.Chars != "":
		class = matClassChar
	}

	// Array flags.
	flags := make([]byte, 8)
	order.PutUint32(flags, class)
	writeTagged(&buf, order, matUINT32, flags, true)

	// Dimensions.
	dims := v.Dims
	if dims == nil {
		switch class {
		case matClassStruct:
			dims = []int{1, len(v.Elems)}
		case matClassCell:
			dims = []int{1, len(v.Cells)}
		case matClassChar:
			dims = []int{1, len(utf16.Encode([]rune(v.Chars)))}
		default:
			dims = []int{1, len(v.Numeric)}
			if len(v.Numeric) == 0 {
				dims = []int{0, 0}
			}
		}
	}
	dimBytes := make([]byte, 4*len(dims))
	for i, d := range dims {
		order.PutUint32(dimBytes[i*4:], uint32(int32(d)))
	}
	writeTagged(&buf, order, matINT32, dimBytes, true)

	// Name.
	writeTagged(&buf, order, matINT8, []byte(name), true)

	switch class {
	case matClassDouble:
		writeTagged(&buf, order, numericType(v), encodeNumeric(order, v), true)
	case matClassChar:
		units := utf16.Encode([]rune(v.Chars))
		payload := make([]byte, 2*len(units))
		for i, u := range units {
			order.PutUint16(payload[i*2:], u)
		}
		writeTagged(&buf, order, matUINT16, payload, true)
	case matClassStruct:
		nameLen := make([]byte, 4)
		order.PutUint32(nameLen, 32)
		writeTagged(&buf, order, matINT32, nameLen, true)

		names := make([]byte, 32*len(v.Fields))
		for i, f := range v.Fields {
			if len(f) >= 32 {
				panic(fmt.Sprintf("testutil: field name %q exceeds 31 characters", f))
			}
			copy(names[i*32:], f)
		}
		writeTagged(&buf, order, matINT8, names, true)

		for _, elem := range v.Elems {
			for _, fieldVal := range elem {
				writeTagged(&buf, order, matMATRIX, w.buildMatrix(fieldVal, ""), true)
			}
		}
	case matClassCell:
		for _, cell := range v.Cells {
			writeTagged(&buf, order, matMATRIX, w.buildMatrix(cell, ""), true)
		}
	}
	return buf.Bytes()
}

func numericType(v *MatVar) uint32 {
	if v.StoreAs != 0 {
		return v.StoreAs
	}
	return matDOUBLE
}

func encodeNumeric(order binary.ByteOrder, v *MatVar) []byte {
	typ := numericType(v)
	switch typ {
	case matDOUBLE:
		payload := make([]byte, 8*len(v.Numeric))
		for i, f := range v.Numeric {
			order.PutUint64(payload[i*8:], math.Float64bits(f))
		}
		return payload
	case matSINGLE:
		payload := make([]byte, 4*len(v.Numeric))
		for i, f := range v.Numeric {
			order.PutUint32(payload[i*4:], math.Float32bits(float32(f)))
		}
		return payload
	case matINT8, matUINT8:
		payload := make([]byte, len(v.Numeric))
		for i, f := range v.Numeric {
			payload[i] = byte(int64(f))
		}
		return payload
	case matINT16, matUINT16:
		payload := make([]byte, 2*len(v.Numeric))
		for i, f := range v.Numeric {
			order.PutUint16(payload[i*2:], uint16(int64(f)))
		}
		return payload
	case matINT32, matUINT32:
		payload := make([]byte, 4*len(v.Numeric))
		for i, f := range v.Numeric {
			order.PutUint32(payload[i*4:], uint32(int64(f)))
		}
		return payload
	default:
		panic(fmt.Sprintf("testutil: unsupported numeric storage type %d", typ))
	}
}

// writeTagged writes one data element with its tag. Payloads of 1-4 bytes
// use the small data element format, matching what MATLAB emits; padded
// controls trailing alignment (compressed elements are never padded).
func writeTagged(buf *bytes.Buffer, order binary.ByteOrder, typ uint32, payload []byte, padded bool) {
	if n := len(payload); n >= 1 && n <= 4 && typ != matMATRIX && typ != matCOMPRESSED {
		word := make([]byte, 4)
		order.PutUint32(word, typ|uint32(n)<<16)
		buf.Write(word)
		buf.Write(payload)
		buf.Write(make([]byte, 4-n))
		return
	}

	tag := make([]byte, 8)
	order.PutUint32(tag, typ)
	order.PutUint32(tag[4:], uint32(len(payload)))
	buf.Write(tag)
	buf.Write(payload)
	if padded {
		if rem := len(payload) % 8; rem != 0 {
			buf.Write(make([]byte, 8-rem))
		}
	}
}
