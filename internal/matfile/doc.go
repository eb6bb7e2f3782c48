// Package matfile decodes Level 5 MAT-file binary containers, the format
// the battery dataset ships in. It is a reader only: the pipeline never
// writes MAT data.
//
// # Architecture
//
// The decoder has three layers:
//
// 1. Element reader: walks tagged data elements, handling both the regular
// 8-byte tag and the packed small data element format, 8-byte payload
// alignment, and zlib-compressed elements
// 2. Matrix parser: assembles numeric, char, cell, and struct arrays from
// their subelements (array flags, dimensions, name, class-specific data)
// 3. File API: exposes the decoded top-level variables by name
//
// # Usage
//
//	f, err := matfile.Open("data/MIT/charge/batch_1.mat")
//	if err != nil {
//	    return err
//	}
//	battery, ok := f.Var("battery")
//	if !ok {
//	    return errors.NewSchemaError("variable \"battery\" not found", nil)
//	}
//
// # Format Notes
//
// Both little-endian and big-endian containers are supported; the byte
// order is taken from the header's endian indicator. Numeric payloads may
// be stored in a narrower element type than the array class declares; the
// decoder widens every numeric value to float64. Struct field values are
// laid out element-major (all fields of element 0, then element 1, ...),
// and values are stored column-major, which is invisible to 1xN arrays.
//
// Sparse, object, and complex arrays are not supported; the battery
// dataset does not use them, and the decoder reports them as decode
// errors rather than guessing.
//
// # Error Handling
//
// Corrupt input never panics. Every failure returns a DECODE-typed
// application error describing what was expected, with the file offset
// attached as context where it helps.
package matfile
