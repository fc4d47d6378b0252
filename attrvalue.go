// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ifclite

import "strconv"

// valueKind discriminates the payload carried by an AttributeValue.
type valueKind uint8

const (
	valueKindNull valueKind = iota
	valueKindDerived
	valueKindEntityRef
	valueKindBool
	valueKindInteger
	valueKindFloat
	valueKindString
	valueKindEnum
	valueKindList
	valueKindTyped
)

// AttributeValue is a single decoded STEP attribute value. It behaves
// like a small sum type: exactly one of its payload fields is
// meaningful, selected by kind. Use the As* accessors rather than
// reading the fields directly; they know how to recurse into a typed
// wrapper value (TypedValue in the grammar, e.g. IFCLABEL('x')) the
// way every other accessor in this package expects.
type AttributeValue struct {
	kind   valueKind
	b      bool
	i      int64
	f      float64
	s      string
	ref    EntityID
	list   []AttributeValue
	tyName string
}

// Null is the STEP "$" marker: an explicitly absent optional value.
func Null() AttributeValue { return AttributeValue{kind: valueKindNull} }

// Derived is the STEP "*" marker: a value computed by a derived rule
// rather than stored in the file.
func Derived() AttributeValue { return AttributeValue{kind: valueKindDerived} }

// EntityRefValue wraps a "#123"-style reference to another entity.
func EntityRefValue(id EntityID) AttributeValue {
	return AttributeValue{kind: valueKindEntityRef, ref: id}
}

// BoolValue wraps a STEP boolean (".T."/".F.").
func BoolValue(b bool) AttributeValue { return AttributeValue{kind: valueKindBool, b: b} }

// IntegerValue wraps a STEP integer literal.
func IntegerValue(i int64) AttributeValue { return AttributeValue{kind: valueKindInteger, i: i} }

// FloatValue wraps a STEP real literal.
func FloatValue(f float64) AttributeValue { return AttributeValue{kind: valueKindFloat, f: f} }

// StringValue wraps a STEP quoted string, already unescaped.
func StringValue(s string) AttributeValue { return AttributeValue{kind: valueKindString, s: s} }

// EnumValue wraps a STEP enumeration token (".VALUE.", without dots).
func EnumValue(s string) AttributeValue { return AttributeValue{kind: valueKindEnum, s: s} }

// ListValue wraps a parenthesized, comma-separated list of values.
func ListValue(items []AttributeValue) AttributeValue {
	return AttributeValue{kind: valueKindList, list: items}
}

// TypedValue wraps a named simple-type wrapper, e.g. IFCLENGTHMEASURE(3.5),
// carrying the type name and its single inner argument.
func TypedValue(name string, arg AttributeValue) AttributeValue {
	return AttributeValue{kind: valueKindTyped, tyName: name, list: []AttributeValue{arg}}
}

// IsNull reports whether the value is the "$" marker.
func (v AttributeValue) IsNull() bool { return v.kind == valueKindNull }

// IsDerived reports whether the value is the "*" marker.
func (v AttributeValue) IsDerived() bool { return v.kind == valueKindDerived }

// unwrapTyped follows a TypedValue down to its inner payload, the way
// every accessor below is expected to.
func (v AttributeValue) unwrapTyped() AttributeValue {
	for v.kind == valueKindTyped && len(v.list) == 1 {
		v = v.list[0]
	}
	return v
}

// AsEntityRef returns the referenced EntityID and true if v (after
// unwrapping any TypedValue) is an entity reference.
func (v AttributeValue) AsEntityRef() (EntityID, bool) {
	v = v.unwrapTyped()
	if v.kind != valueKindEntityRef {
		return EntityID(0), false
	}
	return v.ref, true
}

// AsString returns the string payload and true if v is a String or
// Enum value (after unwrapping).
func (v AttributeValue) AsString() (string, bool) {
	v = v.unwrapTyped()
	if v.kind != valueKindString && v.kind != valueKindEnum {
		return "", false
	}
	return v.s, true
}

// AsFloat returns the float payload and true if v is a Float or
// Integer value (after unwrapping); integers widen to float64.
func (v AttributeValue) AsFloat() (float64, bool) {
	v = v.unwrapTyped()
	switch v.kind {
	case valueKindFloat:
		return v.f, true
	case valueKindInteger:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// AsInteger returns the integer payload and true if v is an Integer
// value (after unwrapping).
func (v AttributeValue) AsInteger() (int64, bool) {
	v = v.unwrapTyped()
	if v.kind != valueKindInteger {
		return 0, false
	}
	return v.i, true
}

// AsBool returns the bool payload and true if v is a Bool value
// (after unwrapping).
func (v AttributeValue) AsBool() (bool, bool) {
	v = v.unwrapTyped()
	if v.kind != valueKindBool {
		return false, false
	}
	return v.b, true
}

// AsEnum returns the enumeration token and true if v is an Enum
// value (after unwrapping).
func (v AttributeValue) AsEnum() (string, bool) {
	v = v.unwrapTyped()
	if v.kind != valueKindEnum {
		return "", false
	}
	return v.s, true
}

// AsList returns the list elements and true if v is a List value. A
// List is returned as-is, not unwrapped from a TypedValue: a typed
// wrapper around a list is exceedingly rare in practice and callers
// that need it can unwrap explicitly.
func (v AttributeValue) AsList() ([]AttributeValue, bool) {
	if v.kind != valueKindList {
		return nil, false
	}
	return v.list, true
}

// Format renders v the way a property value would be displayed:
// strings and enums verbatim, floats with trailing zeros trimmed,
// lists space-joined, null as the empty string.
func (v AttributeValue) Format() string {
	v = v.unwrapTyped()
	switch v.kind {
	case valueKindNull, valueKindDerived:
		return ""
	case valueKindString, valueKindEnum:
		return v.s
	case valueKindBool:
		if v.b {
			return "true"
		}
		return "false"
	case valueKindInteger:
		return strconv.FormatInt(v.i, 10)
	case valueKindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case valueKindEntityRef:
		return "#" + strconv.FormatUint(uint64(v.ref), 10)
	case valueKindList:
		var sb []byte
		for i, item := range v.list {
			if i > 0 {
				sb = append(sb, ' ')
			}
			sb = append(sb, item.Format()...)
		}
		return string(sb)
	default:
		return ""
	}
}
