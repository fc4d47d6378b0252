// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ifclite

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestDecodeStepEscapesPassesThroughPlainText(t *testing.T) {
	c := qt.New(t)
	c.Assert(DecodeStepEscapes("Corridor Wall"), qt.Equals, "Corridor Wall")
}

func TestDecodeStepEscapesX2FourHexDigits(t *testing.T) {
	c := qt.New(t)
	// \X2\00E9\X0\ is a single BMP escape for 'é' (U+00E9).
	c.Assert(DecodeStepEscapes(`Caf\X2\00E9\X0\`), qt.Equals, "Café")
}

func TestDecodeStepEscapesX4EightHexDigits(t *testing.T) {
	c := qt.New(t)
	// \X4\0001F600\X0\ is the astral-plane escape for U+1F600 (grinning face).
	c.Assert(DecodeStepEscapes(`\X4\0001F600\X0\`), qt.Equals, "\U0001F600")
}

func TestDecodeStepEscapesSingleByteLatin1(t *testing.T) {
	c := qt.New(t)
	// \X\ is followed by one literal 8-bit byte, not hex digits; 0xE9
	// is 'é' under ISO-8859-1.
	c.Assert(DecodeStepEscapes("Caf\\X\\\xe9\\"), qt.Equals, "Café")
}

func TestDecodeStepEscapesUnterminatedRunsToEnd(t *testing.T) {
	c := qt.New(t)
	c.Assert(DecodeStepEscapes(`abc\X2\00E9`), qt.Equals, `abc\X2\00E9`)
}
