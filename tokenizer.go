// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ifclite

import (
	"strconv"
	"strings"
)

// parseEntityAt tokenizes one complete "#id=TYPE(args);" record
// (given as its byte range within content) into a DecodedEntity. It
// never consults cross-entity state; it is pure lexical parsing of
// one record's argument list, the same separation of concerns the
// teacher keeps between its chunk-dispatch loop and its per-tag
// field decoders.
func parseEntityAt(content []byte, id EntityID, rng entityRange) (*DecodedEntity, error) {
	raw := content[rng.start:rng.end]

	eq := indexByteOutsideString(raw, '=')
	if eq < 0 {
		return nil, newEntityParseError(id, newInvalidFormatErrorf("missing '=' in entity record"))
	}
	rest := raw[eq+1:]

	openParen := indexByteOutsideString(rest, '(')
	if openParen < 0 {
		return nil, newEntityParseError(id, newInvalidFormatErrorf("missing '(' after type name"))
	}
	typeName := strings.TrimSpace(string(rest[:openParen]))

	closeParen := lastByteBeforeSemicolon(rest)
	if closeParen < openParen {
		return nil, newEntityParseError(id, newInvalidFormatErrorf("missing closing ')'"))
	}
	argsText := rest[openParen+1 : closeParen]

	tokenizer := &tokenizer{src: argsText}
	args, err := tokenizer.parseArgList()
	if err != nil {
		return nil, newEntityParseError(id, err)
	}

	return &DecodedEntity{
		ID:         id,
		Type:       parseIfcType(typeName),
		TypeName:   strings.ToUpper(typeName),
		Attributes: args,
	}, nil
}

func indexByteOutsideString(b []byte, target byte) int {
	inString := false
	for i := 0; i < len(b); i++ {
		c := b[i]
		switch {
		case c == '\'' && inString:
			if i+1 < len(b) && b[i+1] == '\'' {
				i++
				continue
			}
			inString = false
		case c == '\'':
			inString = true
		case c == target && !inString:
			return i
		}
	}
	return -1
}

// lastByteBeforeSemicolon returns the index of the matching ')' for
// the record's outermost '(' (rest starts after the '=' and the
// opening paren is located here), i.e. the position just before the
// trailing ';'.
func lastByteBeforeSemicolon(rest []byte) int {
	depth := 1
	inString := false
	openParen := indexByteOutsideString(rest, '(')
	if openParen < 0 {
		return -1
	}
	for i := openParen + 1; i < len(rest); i++ {
		c := rest[i]
		switch {
		case c == '\'' && inString:
			if i+1 < len(rest) && rest[i+1] == '\'' {
				i++
				continue
			}
			inString = false
		case c == '\'':
			inString = true
		case c == '(' && !inString:
			depth++
		case c == ')' && !inString:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// tokenizer parses one comma-separated STEP argument list (the text
// between an entity's outermost parentheses) into AttributeValues.
type tokenizer struct {
	src []byte
	pos int
}

func (t *tokenizer) parseArgList() ([]AttributeValue, error) {
	var args []AttributeValue
	t.skipSpace()
	if t.pos >= len(t.src) {
		return args, nil
	}
	for {
		v, err := t.parseValue()
		if err != nil {
			return nil, err
		}
		args = append(args, v)
		t.skipSpace()
		if t.pos >= len(t.src) {
			break
		}
		if t.src[t.pos] == ',' {
			t.pos++
			t.skipSpace()
			continue
		}
		break
	}
	return args, nil
}

func (t *tokenizer) skipSpace() {
	for t.pos < len(t.src) && (t.src[t.pos] == ' ' || t.src[t.pos] == '\t' || t.src[t.pos] == '\n' || t.src[t.pos] == '\r') {
		t.pos++
	}
}

func (t *tokenizer) parseValue() (AttributeValue, error) {
	if t.pos >= len(t.src) {
		return AttributeValue{}, newInvalidFormatErrorf("unexpected end of argument list")
	}
	c := t.src[t.pos]
	switch {
	case c == '$':
		t.pos++
		return Null(), nil
	case c == '*':
		t.pos++
		return Derived(), nil
	case c == '\'':
		return t.parseString()
	case c == '#':
		return t.parseRef()
	case c == '.':
		return t.parseEnumOrBool()
	case c == '(':
		return t.parseList()
	case c == '-' || c == '+' || (c >= '0' && c <= '9'):
		return t.parseNumber()
	default:
		return t.parseTypedValue()
	}
}

func (t *tokenizer) parseString() (AttributeValue, error) {
	t.pos++ // opening quote
	var sb strings.Builder
	for t.pos < len(t.src) {
		c := t.src[t.pos]
		if c == '\'' {
			if t.pos+1 < len(t.src) && t.src[t.pos+1] == '\'' {
				sb.WriteByte('\'')
				t.pos += 2
				continue
			}
			t.pos++
			return StringValue(sb.String()), nil
		}
		sb.WriteByte(c)
		t.pos++
	}
	return AttributeValue{}, newInvalidFormatErrorf("unterminated string literal")
}

func (t *tokenizer) parseRef() (AttributeValue, error) {
	t.pos++ // '#'
	start := t.pos
	for t.pos < len(t.src) && isDigit(t.src[t.pos]) {
		t.pos++
	}
	if t.pos == start {
		return AttributeValue{}, newInvalidFormatErrorf("malformed entity reference")
	}
	n, err := strconv.ParseUint(string(t.src[start:t.pos]), 10, 32)
	if err != nil {
		return AttributeValue{}, newInvalidFormatErrorf("malformed entity reference: %v", err)
	}
	return EntityRefValue(EntityID(n)), nil
}

func (t *tokenizer) parseEnumOrBool() (AttributeValue, error) {
	t.pos++ // leading '.'
	start := t.pos
	for t.pos < len(t.src) && t.src[t.pos] != '.' {
		t.pos++
	}
	if t.pos >= len(t.src) {
		return AttributeValue{}, newInvalidFormatErrorf("unterminated enumeration token")
	}
	token := string(t.src[start:t.pos])
	t.pos++ // trailing '.'
	switch token {
	case "T":
		return BoolValue(true), nil
	case "F":
		return BoolValue(false), nil
	case "U":
		return Null(), nil
	default:
		return EnumValue(token), nil
	}
}

func (t *tokenizer) parseList() (AttributeValue, error) {
	t.pos++ // '('
	var items []AttributeValue
	t.skipSpace()
	if t.pos < len(t.src) && t.src[t.pos] == ')' {
		t.pos++
		return ListValue(items), nil
	}
	for {
		v, err := t.parseValue()
		if err != nil {
			return AttributeValue{}, err
		}
		items = append(items, v)
		t.skipSpace()
		if t.pos >= len(t.src) {
			return AttributeValue{}, newInvalidFormatErrorf("unterminated list")
		}
		if t.src[t.pos] == ',' {
			t.pos++
			t.skipSpace()
			continue
		}
		if t.src[t.pos] == ')' {
			t.pos++
			return ListValue(items), nil
		}
		return AttributeValue{}, newInvalidFormatErrorf("malformed list, unexpected %q", t.src[t.pos])
	}
}

func (t *tokenizer) parseNumber() (AttributeValue, error) {
	start := t.pos
	if t.src[t.pos] == '-' || t.src[t.pos] == '+' {
		t.pos++
	}
	isFloat := false
	for t.pos < len(t.src) {
		c := t.src[t.pos]
		if c >= '0' && c <= '9' {
			t.pos++
			continue
		}
		if c == '.' || c == 'E' || c == 'e' {
			isFloat = true
			t.pos++
			if t.pos < len(t.src) && (t.src[t.pos] == '+' || t.src[t.pos] == '-') {
				t.pos++
			}
			continue
		}
		break
	}
	text := string(t.src[start:t.pos])
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return AttributeValue{}, newInvalidFormatErrorf("malformed real %q: %v", text, err)
		}
		return FloatValue(f), nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return AttributeValue{}, newInvalidFormatErrorf("malformed integer %q: %v", text, err)
	}
	return IntegerValue(n), nil
}

// parseTypedValue parses a named simple-type wrapper, e.g.
// IFCLENGTHMEASURE(3.5) or IFCLABEL('x'). The grammar technically
// allows ident '(' arglist ')' with more than one inner value (select
// types and a handful of defined types constructed from several
// fields); that case is rare in practice but is parsed into a
// TypedValue wrapping a ListValue rather than left to fail on the
// first unexpected comma.
func (t *tokenizer) parseTypedValue() (AttributeValue, error) {
	start := t.pos
	for t.pos < len(t.src) && isTypeNameByte(t.src[t.pos]) {
		t.pos++
	}
	if t.pos == start {
		return AttributeValue{}, newInvalidFormatErrorf("unrecognized token %q", t.src[t.pos])
	}
	name := string(t.src[start:t.pos])
	t.skipSpace()
	if t.pos >= len(t.src) || t.src[t.pos] != '(' {
		return AttributeValue{}, newInvalidFormatErrorf("expected '(' after typed value %q", name)
	}
	t.pos++
	args := []AttributeValue{}
	for {
		t.skipSpace()
		arg, err := t.parseValue()
		if err != nil {
			return AttributeValue{}, err
		}
		args = append(args, arg)
		t.skipSpace()
		if t.pos >= len(t.src) {
			return AttributeValue{}, newInvalidFormatErrorf("expected ')' closing typed value %q", name)
		}
		if t.src[t.pos] == ',' {
			t.pos++
			continue
		}
		break
	}
	if t.pos >= len(t.src) || t.src[t.pos] != ')' {
		return AttributeValue{}, newInvalidFormatErrorf("expected ')' closing typed value %q", name)
	}
	t.pos++
	upper := strings.ToUpper(name)
	if len(args) == 1 {
		return TypedValue(upper, args[0]), nil
	}
	return TypedValue(upper, ListValue(args)), nil
}
