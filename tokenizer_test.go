// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ifclite

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func parseArgs(c *qt.C, src string) []AttributeValue {
	c.Helper()
	tk := &tokenizer{src: []byte(src)}
	args, err := tk.parseArgList()
	c.Assert(err, qt.IsNil)
	return args
}

func TestTokenizerScalarKinds(t *testing.T) {
	c := qt.New(t)

	args := parseArgs(c, "$,*,#42,.T.,.F.,.U.,.AREA.,'it''s a wall',-3.5,7,(1,2,3)")
	c.Assert(len(args), qt.Equals, 11)

	c.Assert(args[0].IsNull(), qt.Equals, true)
	c.Assert(args[1].IsDerived(), qt.Equals, true)

	ref, ok := args[2].AsEntityRef()
	c.Assert(ok, qt.Equals, true)
	c.Assert(ref, qt.Equals, EntityID(42))

	b, ok := args[3].AsBool()
	c.Assert(ok, qt.Equals, true)
	c.Assert(b, qt.Equals, true)

	b, ok = args[4].AsBool()
	c.Assert(ok, qt.Equals, true)
	c.Assert(b, qt.Equals, false)

	c.Assert(args[5].IsNull(), qt.Equals, true)

	enum, ok := args[6].AsEnum()
	c.Assert(ok, qt.Equals, true)
	c.Assert(enum, qt.Equals, "AREA")

	str, ok := args[7].AsString()
	c.Assert(ok, qt.Equals, true)
	c.Assert(str, qt.Equals, "it's a wall")

	f, ok := args[8].AsFloat()
	c.Assert(ok, qt.Equals, true)
	c.Assert(f, qt.Equals, -3.5)

	i, ok := args[9].AsInteger()
	c.Assert(ok, qt.Equals, true)
	c.Assert(i, qt.Equals, int64(7))

	list, ok := args[10].AsList()
	c.Assert(ok, qt.Equals, true)
	c.Assert(len(list), qt.Equals, 3)
}

func TestTokenizerTypedValueUnwraps(t *testing.T) {
	c := qt.New(t)

	args := parseArgs(c, "IFCLENGTHMEASURE(3.25),IFCLABEL('door')")
	f, ok := args[0].AsFloat()
	c.Assert(ok, qt.Equals, true)
	c.Assert(f, qt.Equals, 3.25)

	s, ok := args[1].AsString()
	c.Assert(ok, qt.Equals, true)
	c.Assert(s, qt.Equals, "door")
}

func TestTokenizerEmptyArgList(t *testing.T) {
	c := qt.New(t)
	args := parseArgs(c, "")
	c.Assert(len(args), qt.Equals, 0)
}

func TestTokenizerNestedList(t *testing.T) {
	c := qt.New(t)
	args := parseArgs(c, "((0.,0.),(1.,0.),(1.,1.))")
	c.Assert(len(args), qt.Equals, 1)

	outer, ok := args[0].AsList()
	c.Assert(ok, qt.Equals, true)
	c.Assert(len(outer), qt.Equals, 3)

	first, ok := outer[0].AsList()
	c.Assert(ok, qt.Equals, true)
	x, _ := first[0].AsFloat()
	y, _ := first[1].AsFloat()
	c.Assert(x, qt.Equals, 0.0)
	c.Assert(y, qt.Equals, 0.0)
}

func TestTokenizerUnterminatedStringErrors(t *testing.T) {
	c := qt.New(t)
	tk := &tokenizer{src: []byte("'unterminated")}
	_, err := tk.parseArgList()
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestTokenizerMalformedReferenceErrors(t *testing.T) {
	c := qt.New(t)
	tk := &tokenizer{src: []byte("#")}
	_, err := tk.parseArgList()
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestParseEntityAtProducesTypedEntity(t *testing.T) {
	c := qt.New(t)

	content := []byte("#1=IFCWALL('guid',$,'Wall',$,$,#2,#3,$);")
	rng := entityRange{start: 0, end: len(content)}
	entity, err := parseEntityAt(content, 1, rng)
	c.Assert(err, qt.IsNil)

	c.Assert(entity.ID, qt.Equals, EntityID(1))
	c.Assert(entity.Type, qt.Equals, IfcWall)
	c.Assert(entity.TypeName, qt.Equals, "IFCWALL")
	c.Assert(len(entity.Attributes), qt.Equals, 8)

	name, ok := entity.GetString(2)
	c.Assert(ok, qt.Equals, true)
	c.Assert(name, qt.Equals, "Wall")
}

func TestParseEntityAtMissingParenErrors(t *testing.T) {
	c := qt.New(t)

	content := []byte("#1=IFCWALL;")
	rng := entityRange{start: 0, end: len(content)}
	_, err := parseEntityAt(content, 1, rng)
	c.Assert(err, qt.Not(qt.IsNil))
}
