package zonal

import (
	json "github.com/goccy/go-json"
)

// ValueKind tags the type of an attribute value.
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueString
	ValueNumber
	ValueBool
)

// String returns the kind name.
func (k ValueKind) String() string {
	switch k {
	case ValueString:
		return "string"
	case ValueNumber:
		return "number"
	case ValueBool:
		return "bool"
	default:
		return "null"
	}
}

// Value is a typed attribute value. Attribute maps in source vector formats
// are dynamically typed; Value makes the kind explicit so callers never
// type-switch on interface{}.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	b    bool
}

// NullValue returns the null value.
func NullValue() Value { return Value{} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{kind: ValueString, str: s} }

// NumberValue wraps a number.
func NumberValue(n float64) Value { return Value{kind: ValueNumber, num: n} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{kind: ValueBool, b: b} }

// Kind returns the value's type tag.
func (v Value) Kind() ValueKind { return v.kind }

// AsString returns the string content and whether the value is a string.
func (v Value) AsString() (string, bool) { return v.str, v.kind == ValueString }

// AsNumber returns the numeric content and whether the value is a number.
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == ValueNumber }

// AsBool returns the boolean content and whether the value is a boolean.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == ValueBool }

// MarshalJSON encodes the value as its underlying JSON type.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueString:
		return json.Marshal(v.str)
	case ValueNumber:
		return json.Marshal(v.num)
	case ValueBool:
		return json.Marshal(v.b)
	default:
		return []byte("null"), nil
	}
}
