// Copyright 2025 The go-lite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sqlite3

// Value is a single SQL value in one of SQLite's five storage classes
// (INTEGER, FLOAT, TEXT, BLOB, or NULL). The zero Value is NULL.
type Value struct {
	typ    byte
	narrow bool
	num    int64
	real   float64
	str    string
	blob   []byte
}

// Row holds the column values of one result row, in column order.
type Row []Value

// Tagged argument types that bypass the automatic bind conversions. They give
// the caller exact control over the storage class a parameter is bound with.
type (
	// Int is bound as a 32-bit integer.
	Int int32
	// Int64 is bound as a 64-bit integer.
	Int64 int64
	// Float is bound as a 64-bit IEEE float.
	Float float64
	// Text is bound as a TEXT value, even for values that look numeric.
	Text string
	// Blob is bound as a BLOB value. Plain []byte arguments bind as TEXT.
	Blob []byte
)

// NullValue returns a NULL cell.
func NullValue() Value { return Value{typ: NULL} }

// IntegerValue returns a 64-bit INTEGER cell.
func IntegerValue(n int64) Value { return Value{typ: INTEGER, num: n} }

// FloatValue returns a FLOAT cell.
func FloatValue(f float64) Value { return Value{typ: FLOAT, real: f} }

// TextValue returns a TEXT cell.
func TextValue(s string) Value { return Value{typ: TEXT, str: s} }

// BlobValue returns a BLOB cell.
func BlobValue(b []byte) Value { return Value{typ: BLOB, blob: b} }

// Type returns the storage class of the value (one of INTEGER, FLOAT, TEXT,
// BLOB, or NULL).
func (v Value) Type() byte {
	if v.typ == 0 {
		return NULL
	}
	return v.typ
}

// IsNull returns true if the value is NULL.
func (v Value) IsNull() bool { return v.Type() == NULL }

// Int returns the value as an int. FLOAT values are truncated.
func (v Value) Int() int { return int(v.Int64()) }

// Int64 returns the value as an int64. FLOAT values are truncated.
func (v Value) Int64() int64 {
	if v.typ == FLOAT {
		return int64(v.real)
	}
	return v.num
}

// Float returns the value as a float64. INTEGER values are converted.
func (v Value) Float() float64 {
	if v.typ == INTEGER {
		return float64(v.num)
	}
	return v.real
}

// Text returns the value as a string. BLOB values are copied byte for byte.
func (v Value) Text() string {
	if v.typ == BLOB {
		return string(v.blob)
	}
	return v.str
}

// Blob returns the value as a byte slice. TEXT values are copied byte for
// byte.
func (v Value) Blob() []byte {
	if v.typ == TEXT {
		return []byte(v.str)
	}
	return v.blob
}

// Interface returns the value as one of nil, int64, float64, string, or
// []byte, according to its storage class.
func (v Value) Interface() interface{} {
	switch v.Type() {
	case INTEGER:
		return v.num
	case FLOAT:
		return v.real
	case TEXT:
		return v.str
	case BLOB:
		return v.blob
	}
	return nil
}

// coerce converts the bind argument at index i (0-based) to a Value using the
// automatic conversion rules: Go integers bind as 64-bit INTEGER, float64 as
// FLOAT, bool as INTEGER 0/1, string and []byte as TEXT, nil (including nil
// []byte) as NULL. The tagged types Int, Int64, Float, Text, and Blob select
// their storage class directly, and Value cells pass through unchanged. Any
// other type is rejected.
func coerce(i int, arg interface{}) (Value, error) {
	switch v := arg.(type) {
	case nil:
		return Value{typ: NULL}, nil
	case Value:
		return v, nil
	case int:
		return Value{typ: INTEGER, num: int64(v)}, nil
	case int64:
		return Value{typ: INTEGER, num: v}, nil
	case float64:
		return Value{typ: FLOAT, real: v}, nil
	case bool:
		var n int64
		if v {
			n = 1
		}
		return Value{typ: INTEGER, num: n}, nil
	case string:
		return Value{typ: TEXT, str: v}, nil
	case []byte:
		// nil byte slices bind as NULL
		if v == nil {
			return Value{typ: NULL}, nil
		}
		return Value{typ: TEXT, str: string(v)}, nil
	case Int:
		return Value{typ: INTEGER, num: int64(v), narrow: true}, nil
	case Int64:
		return Value{typ: INTEGER, num: int64(v)}, nil
	case Float:
		return Value{typ: FLOAT, real: float64(v)}, nil
	case Text:
		return Value{typ: TEXT, str: string(v)}, nil
	case Blob:
		return Value{typ: BLOB, blob: v}, nil
	}
	return Value{}, pkgErr(MISUSE, "unsupported type at index %d (%T)", i, arg)
}
