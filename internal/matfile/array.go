package matfile

import (
	"encoding/binary"
	"fmt"
	"strings"
	"unicode/utf16"
)

// Array is one decoded matrix element: a numeric array, a character array,
// a cell array, or a struct array. Exactly one of the class-specific
// payloads is populated, matching Class.
type Array struct {
	Name  string
	Class Class
	Dims  []int

	data   []float64  // numeric classes, widened to float64, column-major
	chars  string     // ClassChar
	fields []string   // ClassStruct, in file order
	elems  [][]*Array // ClassStruct: per element, per field
	cells  []*Array   // ClassCell, column-major
}

// NumElements returns the total element count (the product of Dims).
func (a *Array) NumElements() int {
	if len(a.Dims) == 0 {
		return 0
	}
	n := 1
	for _, d := range a.Dims {
		n *= d
	}
	return n
}

// IsEmpty reports whether the array holds no elements.
func (a *Array) IsEmpty() bool {
	return a.NumElements() == 0
}

// String describes the array for logs and error messages, e.g. "double[1x5]".
func (a *Array) String() string {
	dims := make([]string, len(a.Dims))
	for i, d := range a.Dims {
		dims[i] = fmt.Sprintf("%d", d)
	}
	return fmt.Sprintf("%s[%s]", a.Class, strings.Join(dims, "x"))
}

// Float64s returns the numeric values in storage (column-major) order.
func (a *Array) Float64s() ([]float64, error) {
	if !a.Class.IsNumeric() {
		return nil, decodeErr("array %q is %s, not numeric", a.Name, a.Class)
	}
	return a.data, nil
}

// Chars returns the contents of a character array as a string.
func (a *Array) Chars() (string, error) {
	if a.Class != ClassChar {
		return "", decodeErr("array %q is %s, not char", a.Name, a.Class)
	}
	return a.chars, nil
}

// FieldNames returns a struct array's field names in file order.
// Non-struct arrays have no fields.
func (a *Array) FieldNames() []string {
	return a.fields
}

// HasField reports whether a struct array declares the named field.
func (a *Array) HasField(name string) bool {
	for _, f := range a.fields {
		if f == name {
			return true
		}
	}
	return false
}

// Field returns the named field of struct element elem.
func (a *Array) Field(elem int, name string) (*Array, bool) {
	if a.Class != ClassStruct || elem < 0 || elem >= len(a.elems) {
		return nil, false
	}
	for i, f := range a.fields {
		if f == name {
			return a.elems[elem][i], true
		}
	}
	return nil, false
}

// Cell returns element i of a cell array in storage order.
func (a *Array) Cell(i int) (*Array, bool) {
	if a.Class != ClassCell || i < 0 || i >= len(a.cells) {
		return nil, false
	}
	return a.cells[i], true
}

// emptyArray is what a miMATRIX element with a zero byte count decodes to:
// MATLAB's 0x0 double, used for unset struct fields and cells.
func emptyArray() *Array {
	return &Array{Class: ClassDouble, Dims: []int{0, 0}}
}

// parseMatrix decodes one miMATRIX payload. The payload is a sequence of
// subelements: array flags, dimensions, name, then class-specific data.
func parseMatrix(payload []byte, order binary.ByteOrder) (*Array, error) {
	if len(payload) == 0 {
		return emptyArray(), nil
	}
	r := &reader{data: payload, order: order}

	// Array flags: two uint32 words, class in the low byte of the first.
	typ, p, err := r.readElement()
	if err != nil {
		return nil, err
	}
	if typ != miUINT32 || len(p) != 8 {
		return nil, decodeErr("matrix does not start with array flags (type %d, %d bytes)", typ, len(p))
	}
	flagsWord := order.Uint32(p)
	class := Class(flagsWord & 0xFF)
	isComplex := flagsWord&0x0800 != 0

	// Dimensions: signed 32-bit, column-major.
	typ, p, err = r.readElement()
	if err != nil {
		return nil, err
	}
	if typ != miINT32 {
		return nil, decodeErr("matrix dimensions have type %d, want miINT32", typ)
	}
	dims := make([]int, len(p)/4)
	for i := range dims {
		dims[i] = int(int32(order.Uint32(p[i*4:])))
		if dims[i] < 0 {
			return nil, decodeErr("matrix declares negative dimension %d", dims[i])
		}
	}

	// Array name.
	typ, p, err = r.readElement()
	if err != nil {
		return nil, err
	}
	if typ != miINT8 {
		return nil, decodeErr("matrix name has type %d, want miINT8", typ)
	}
	arr := &Array{Name: string(p), Class: class, Dims: dims}

	switch {
	case class.IsNumeric():
		if isComplex {
			return nil, decodeErr("array %q is complex; complex data is not supported", arr.Name)
		}
		return arr, parseNumericData(r, arr)
	case class == ClassChar:
		return arr, parseCharData(r, arr)
	case class == ClassStruct:
		return arr, parseStructData(r, arr)
	case class == ClassCell:
		return arr, parseCellData(r, arr)
	default:
		return nil, decodeErr("array %q has unsupported class %s", arr.Name, class)
	}
}

func parseNumericData(r *reader, arr *Array) error {
	if r.remaining() == 0 && arr.NumElements() == 0 {
		return nil
	}
	typ, p, err := r.readElement()
	if err != nil {
		return err
	}
	vals, err := decodeNumeric(typ, p, r.order)
	if err != nil {
		return err
	}
	if want := arr.NumElements(); len(vals) != want {
		return decodeErr("array %q declares %d elements but stores %d", arr.Name, want, len(vals))
	}
	arr.data = vals
	return nil
}

func parseCharData(r *reader, arr *Array) error {
	typ, p, err := r.readElement()
	if err != nil {
		return err
	}
	switch typ {
	case miUINT16, miUTF16:
		units := make([]uint16, len(p)/2)
		for i := range units {
			units[i] = r.order.Uint16(p[i*2:])
		}
		arr.chars = string(utf16.Decode(units))
	case miINT8, miUINT8, miUTF8:
		arr.chars = string(p)
	default:
		return decodeErr("char array %q stored as type %d is not supported", arr.Name, typ)
	}
	return nil
}

func parseStructData(r *reader, arr *Array) error {
	// Field name length, then the packed NUL-padded field names.
	typ, p, err := r.readElement()
	if err != nil {
		return err
	}
	if typ != miINT32 || len(p) != 4 {
		return decodeErr("struct %q missing field name length", arr.Name)
	}
	nameLen := int(int32(r.order.Uint32(p)))

	typ, p, err = r.readElement()
	if err != nil {
		return err
	}
	if typ != miINT8 {
		return decodeErr("struct %q field names have type %d, want miINT8", arr.Name, typ)
	}
	var fields []string
	if nameLen > 0 {
		if len(p)%nameLen != 0 {
			return decodeErr("struct %q field name block of %d bytes is not a multiple of %d", arr.Name, len(p), nameLen)
		}
		for off := 0; off < len(p); off += nameLen {
			fields = append(fields, strings.TrimRight(string(p[off:off+nameLen]), "\x00"))
		}
	}
	arr.fields = fields

	// Field values follow element-major: all fields of element 0, then all
	// fields of element 1, and so on.
	n := arr.NumElements()
	if len(fields) > 0 && n > r.remaining()/8+1 {
		return decodeErr("struct %q declares %d elements but only %d payload bytes remain", arr.Name, n, r.remaining())
	}
	arr.elems = make([][]*Array, n)
	for e := 0; e < n; e++ {
		arr.elems[e] = make([]*Array, len(fields))
		for f := range fields {
			child, err := readChildMatrix(r)
			if err != nil {
				return decodeErr("struct %q element %d field %q: %v", arr.Name, e, fields[f], err)
			}
			arr.elems[e][f] = child
		}
	}
	return nil
}

func parseCellData(r *reader, arr *Array) error {
	n := arr.NumElements()
	if n > r.remaining()/8+1 {
		return decodeErr("cell %q declares %d elements but only %d payload bytes remain", arr.Name, n, r.remaining())
	}
	arr.cells = make([]*Array, n)
	for i := 0; i < n; i++ {
		child, err := readChildMatrix(r)
		if err != nil {
			return decodeErr("cell %q element %d: %v", arr.Name, i, err)
		}
		arr.cells[i] = child
	}
	return nil
}

func readChildMatrix(r *reader) (*Array, error) {
	typ, p, err := r.readElement()
	if err != nil {
		return nil, err
	}
	if typ != miMATRIX {
		return nil, decodeErr("expected nested matrix, found element type %d", typ)
	}
	return parseMatrix(p, r.order)
}
