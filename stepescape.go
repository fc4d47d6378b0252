// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ifclite

import (
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// DecodeStepEscapes expands ISO-10303-11 Annex D unicode escapes
// (\X2\00E9\X0\, \X4\0001F600\X0\, and \X\ followed by one raw 8-bit
// byte and a closing \) that can appear inside a STEP quoted string
// into their literal UTF-8 rune. Neither the
// scanner nor the tokenizer call this: they leave string bytes
// exactly as they appear in the file, the same "don't interpret what
// you don't have to" contract the teacher's streamReader keeps for
// raw tag bytes. Call it explicitly when a caller wants
// human-readable text out of a Name/Description/etc. attribute.
//
// golang.org/x/text/encoding is the teacher's own text-encoding
// dependency (used for EXIF's Windows/Mac charset tags); \X\ single
// bytes are decoded as Latin-1 via its charmap table for the same
// reason the teacher reaches for x/text rather than hand-rolling a
// codepage table.
func DecodeStepEscapes(s string) string {
	if !strings.Contains(s, "\\X") {
		return s
	}
	var sb strings.Builder
	i := 0
	for i < len(s) {
		if strings.HasPrefix(s[i:], "\\X2\\") {
			end := strings.Index(s[i+4:], "\\X0\\")
			if end < 0 {
				sb.WriteString(s[i:])
				break
			}
			hexRunes := s[i+4 : i+4+end]
			decodeHexRunes(&sb, hexRunes, 4)
			i += 4 + end + 4
			continue
		}
		if strings.HasPrefix(s[i:], "\\X4\\") {
			end := strings.Index(s[i+4:], "\\X0\\")
			if end < 0 {
				sb.WriteString(s[i:])
				break
			}
			hexRunes := s[i+4 : i+4+end]
			decodeHexRunes(&sb, hexRunes, 8)
			i += 4 + end + 4
			continue
		}
		if strings.HasPrefix(s[i:], "\\X\\") && i+3 < len(s) {
			b := s[i+3]
			r, _ := charmap.ISO8859_1.NewDecoder().Bytes([]byte{b})
			sb.Write(r)
			i += 4
			if i < len(s) && s[i] == '\\' {
				i++ // closing backslash of the \X\ escape
			}
			continue
		}
		sb.WriteByte(s[i])
		i++
	}
	return sb.String()
}

func decodeHexRunes(sb *strings.Builder, hex string, width int) {
	for i := 0; i+width <= len(hex); i += width {
		n, err := strconv.ParseUint(hex[i:i+width], 16, 32)
		if err != nil {
			continue
		}
		sb.WriteRune(rune(n))
	}
}
