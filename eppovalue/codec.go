package eppovalue

import (
	"fmt"

	"github.com/launchdarkly/go-jsonstream/v3/jreader"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// ReadValue decodes a Value from the reader's current position. It accepts a
// JSON null, boolean, number, string, or array of strings, per spec.md
// §4.1's codec contract. Using the streaming reader rather than unmarshaling
// into interface{} avoids an allocation per scalar on the hot path where a
// configuration's hundreds of variation values are parsed on every fetch.
func ReadValue(r *jreader.Reader) Value {
	switch r.WhatIsNext() {
	case jreader.NullValue:
		r.Null()
		return Null()
	case jreader.BoolValue:
		return Bool(r.Bool())
	case jreader.NumberValue:
		return Number(r.Float64())
	case jreader.StringValue:
		return String(r.String())
	case jreader.ArrayValue:
		items := []string{}
		for arr := r.Array(); arr.Next(); {
			items = append(items, r.String())
		}
		return StringArray(items)
	default:
		r.AddError(fmt.Errorf("eppovalue: unsupported value type"))
		return Null()
	}
}

// WriteValue encodes v using the streaming writer, the inverse of ReadValue.
func WriteValue(w *jwriter.Writer, v Value) {
	switch v.kind {
	case NullKind:
		w.Null()
	case BoolKind:
		w.Bool(v.boolValue)
	case NumberKind:
		w.Float64(v.numberValue)
	case StringKind:
		w.String(v.stringValue)
	case StringArrayKind:
		arr := w.Array()
		for _, s := range v.arrayValue {
			arr.String(s)
		}
		arr.End()
	}
}

// MarshalJSON implements json.Marshaler for callers that embed Value inside
// an encoding/json-based struct (e.g. the persistent-cache envelope).
func (v Value) MarshalJSON() ([]byte, error) {
	w := jwriter.NewWriter()
	WriteValue(&w, v)
	return w.Bytes(), w.Error()
}

// UnmarshalJSON implements json.Unmarshaler, the inverse of MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	r := jreader.NewReader(data)
	*v = ReadValue(&r)
	return r.Error()
}
