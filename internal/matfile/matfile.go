package matfile

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"io"
	"os"
	"strings"

	"battexplorer/internal/errors"
)

const headerSize = 128

// File is a decoded MAT container: the header text plus the top-level
// variables in file order.
type File struct {
	Header string

	order []string
	vars  map[string]*Array
}

// Open reads and decodes the MAT file at path. The whole file is read into
// memory; dataset files are decoded in full, never streamed.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewStorageError("failed to read MAT file", err).WithContext("path", path)
	}
	f, err := Decode(data)
	if err != nil {
		return nil, errors.NewDecodeError("failed to decode MAT file", err).WithContext("path", path)
	}
	return f, nil
}

// Decode parses a MAT 5 byte stream.
func Decode(data []byte) (*File, error) {
	if len(data) < headerSize {
		return nil, decodeErr("file of %d bytes is too short for the %d-byte MAT header", len(data), headerSize)
	}
	if !bytes.HasPrefix(data, []byte("MATLAB")) {
		return nil, decodeErr("not a MAT 5 container: header text does not start with MATLAB")
	}

	var order binary.ByteOrder
	switch string(data[126:128]) {
	case "IM":
		order = binary.LittleEndian
	case "MI":
		order = binary.BigEndian
	default:
		return nil, decodeErr("invalid endian indicator %q", string(data[126:128]))
	}
	if v := order.Uint16(data[124:126]); v != 0x0100 {
		return nil, decodeErr("unsupported MAT version 0x%04x", v)
	}

	f := &File{
		Header: strings.TrimRight(string(data[:116]), " \x00"),
		vars:   make(map[string]*Array),
	}

	r := &reader{data: data, off: headerSize, order: order}
	for r.remaining() > 0 {
		start := r.off
		typ, payload, err := r.readElement()
		if err != nil {
			return nil, err
		}

		var arr *Array
		switch typ {
		case miCOMPRESSED:
			inner, err := inflate(payload)
			if err != nil {
				return nil, decodeErrAt(start, "failed to inflate compressed element: %v", err)
			}
			arr, err = parseWrappedMatrix(inner, order)
			if err != nil {
				return nil, err
			}
		case miMATRIX:
			arr, err = parseMatrix(payload, order)
			if err != nil {
				return nil, err
			}
		default:
			return nil, decodeErrAt(start, "unexpected top-level element type %d", typ)
		}

		if arr.Name == "" {
			return nil, decodeErrAt(start, "top-level %s variable has no name", arr.Class)
		}
		if _, dup := f.vars[arr.Name]; dup {
			return nil, decodeErrAt(start, "duplicate top-level variable %q", arr.Name)
		}
		f.vars[arr.Name] = arr
		f.order = append(f.order, arr.Name)
	}
	return f, nil
}

// Var returns the named top-level variable.
func (f *File) Var(name string) (*Array, bool) {
	a, ok := f.vars[name]
	return a, ok
}

// Vars returns the top-level variable names in file order.
func (f *File) Vars() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// inflate decompresses a miCOMPRESSED payload, which wraps exactly one
// complete data element in a zlib stream.
func inflate(payload []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

// parseWrappedMatrix decodes the single element inside an inflated
// compressed block.
func parseWrappedMatrix(data []byte, order binary.ByteOrder) (*Array, error) {
	r := &reader{data: data, order: order}
	typ, payload, err := r.readElement()
	if err != nil {
		return nil, err
	}
	if typ != miMATRIX {
		return nil, decodeErr("compressed block wraps element type %d, want matrix", typ)
	}
	return parseMatrix(payload, order)
}
