// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ifclite

import (
	"bytes"
	"strings"
)

// EntityIndex maps an entity id to its byte range [start, end) within
// the model's raw content, end being the offset just past the
// terminating ';'. It is built once, up front, by BuildEntityIndex.
type EntityIndex map[EntityID]entityRange

type entityRange struct {
	start, end int
}

// HeaderInfo is the parsed STEP HEADER section.
type HeaderInfo struct {
	SchemaVersion       string
	FileName            string
	FileDescription     string
	Timestamp           string
	Author              string
	Organization        string
	PreprocessorVersion string
	OriginatingSystem   string
}

// entityScanner walks a STEP file's DATA section, one entity record
// at a time, the Go counterpart of the teacher's per-chunk streaming
// decode loop in imagedecoder_png.go, generalized from fixed-width
// binary chunks to quote-aware semicolon-terminated text records.
type entityScanner struct {
	content []byte
	pos     int
}

func newEntityScanner(content []byte) *entityScanner {
	s := &entityScanner{content: content}
	if idx := bytes.Index(content, []byte("DATA;")); idx >= 0 {
		s.pos = idx + len("DATA;")
	}
	return s
}

// nextEntity finds the next "#id=TYPE(...)" record starting at or
// after the scanner's current position, returning its id, raw type
// keyword, and byte range. It returns ok=false once the DATA section
// is exhausted.
func (s *entityScanner) nextEntity() (id EntityID, typeName string, rng entityRange, ok bool) {
	for {
		hashIdx := bytes.IndexByte(s.content[s.pos:], '#')
		if hashIdx < 0 {
			return 0, "", entityRange{}, false
		}
		start := s.pos + hashIdx

		if !isEntityStart(s.content, start) {
			s.pos = start + 1
			continue
		}

		p := start + 1
		idStart := p
		for p < len(s.content) && isDigit(s.content[p]) {
			p++
		}
		if p == idStart {
			s.pos = start + 1
			continue
		}
		idNum := parseUintBytes(s.content[idStart:p])

		for p < len(s.content) && isSpace(s.content[p]) {
			p++
		}
		if p >= len(s.content) || s.content[p] != '=' {
			s.pos = start + 1
			continue
		}
		p++
		for p < len(s.content) && isSpace(s.content[p]) {
			p++
		}

		typeStart := p
		for p < len(s.content) && isTypeNameByte(s.content[p]) {
			p++
		}
		if p == typeStart {
			s.pos = start + 1
			continue
		}
		typeName := string(s.content[typeStart:p])

		end := findEntityEnd(s.content, p)
		if end < 0 {
			s.pos = start + 1
			continue
		}

		s.pos = end
		return EntityID(idNum), typeName, entityRange{start: start, end: end}, true
	}
}

// isEntityStart reports whether the '#' at idx begins a new entity
// record: either the start of content, or preceded by a newline,
// carriage return, or semicolon (never inside another token).
func isEntityStart(content []byte, idx int) bool {
	if idx == 0 {
		return true
	}
	switch content[idx-1] {
	case '\n', '\r', ';':
		return true
	default:
		return false
	}
}

// findEntityEnd scans forward from p (just past the type keyword)
// for the ';' that terminates the record, skipping over quoted
// strings (where '' is an escaped quote, not a string terminator).
func findEntityEnd(content []byte, p int) int {
	inString := false
	for p < len(content) {
		c := content[p]
		switch {
		case c == '\'' && inString:
			if p+1 < len(content) && content[p+1] == '\'' {
				p += 2
				continue
			}
			inString = false
			p++
		case c == '\'':
			inString = true
			p++
		case c == ';' && !inString:
			return p + 1
		default:
			p++
		}
	}
	return -1
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }
func isTypeNameByte(b byte) bool {
	return b == '_' || isDigit(b) || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func parseUintBytes(b []byte) uint32 {
	var n uint32
	for _, c := range b {
		n = n*10 + uint32(c-'0')
	}
	return n
}

// BuildEntityIndex scans content once and returns the byte range of
// every entity record, keyed by id.
func BuildEntityIndex(content []byte) EntityIndex {
	index := make(EntityIndex)
	s := newEntityScanner(content)
	for {
		id, _, rng, ok := s.nextEntity()
		if !ok {
			break
		}
		index[id] = rng
	}
	return index
}

// findByTypeName scans content for every entity whose raw keyword
// matches typeName case-insensitively, returning their ids in file
// order. The resolver does not call it; it builds its type index
// from its own nextEntity pass.
func findByTypeName(content []byte, typeName string) []EntityID {
	var ids []EntityID
	s := newEntityScanner(content)
	for {
		id, tn, _, ok := s.nextEntity()
		if !ok {
			break
		}
		if strings.EqualFold(tn, typeName) {
			ids = append(ids, id)
		}
	}
	return ids
}

// parseHeader extracts the STEP HEADER section's three mandatory
// records (FILE_DESCRIPTION, FILE_NAME, FILE_SCHEMA). It is
// deliberately forgiving: a missing or malformed field is left at
// its zero value rather than failing the whole parse, matching the
// "never reject outright" posture in the error-handling policy.
func parseHeader(content []byte) HeaderInfo {
	headerStart := bytes.Index(content, []byte("HEADER;"))
	headerEnd := bytes.Index(content, []byte("ENDSEC;"))
	if headerStart < 0 {
		return HeaderInfo{}
	}
	if headerEnd < 0 || headerEnd < headerStart {
		headerEnd = len(content)
	}
	section := string(content[headerStart:headerEnd])

	var info HeaderInfo
	info.SchemaVersion = parseHeaderSchema(section)

	if fn := extractRecord(section, "FILE_NAME"); fn != "" {
		fields := splitHeaderFields(fn)
		if len(fields) > 0 {
			info.FileName = parseHeaderString(fields[0])
		}
		if len(fields) > 1 {
			info.Timestamp = parseHeaderString(fields[1])
		}
		if len(fields) > 2 {
			if items := parseHeaderList(fields[2]); len(items) > 0 {
				info.Author = items[0]
			}
		}
		if len(fields) > 3 {
			if items := parseHeaderList(fields[3]); len(items) > 0 {
				info.Organization = items[0]
			}
		}
		if len(fields) > 4 {
			info.PreprocessorVersion = parseHeaderString(fields[4])
		}
		if len(fields) > 5 {
			info.OriginatingSystem = parseHeaderString(fields[5])
		}
	}

	if fd := extractRecord(section, "FILE_DESCRIPTION"); fd != "" {
		fields := splitHeaderFields(fd)
		if len(fields) > 0 {
			if items := parseHeaderList(fields[0]); len(items) > 0 {
				info.FileDescription = items[0]
			}
		}
	}

	return info
}

func parseHeaderSchema(section string) string {
	raw := extractRecord(section, "FILE_SCHEMA")
	if raw == "" {
		return ""
	}
	items := parseHeaderList(raw)
	if len(items) == 0 {
		return ""
	}
	return items[0]
}

// extractRecord returns the parenthesized argument text of the first
// "NAME(...)" record found in section, or "" if absent.
func extractRecord(section, name string) string {
	idx := strings.Index(section, name+"(")
	if idx < 0 {
		return ""
	}
	start := idx + len(name) + 1
	depth := 1
	inString := false
	for p := start; p < len(section); p++ {
		c := section[p]
		switch {
		case c == '\'' && inString:
			if p+1 < len(section) && section[p+1] == '\'' {
				p++
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
				return section[start:p]
			}
		}
	}
	return ""
}

// splitHeaderFields splits a record's top-level comma-separated
// fields, respecting quoted strings and nested parentheses.
func splitHeaderFields(s string) []string {
	var fields []string
	depth := 0
	inString := false
	last := 0
	for p := 0; p < len(s); p++ {
		c := s[p]
		switch {
		case c == '\'' && inString:
			if p+1 < len(s) && s[p+1] == '\'' {
				p++
				continue
			}
			inString = false
		case c == '\'':
			inString = true
		case c == '(' && !inString:
			depth++
		case c == ')' && !inString:
			depth--
		case c == ',' && !inString && depth == 0:
			fields = append(fields, s[last:p])
			last = p + 1
		}
	}
	fields = append(fields, s[last:])
	return fields
}

// parseHeaderString unescapes a single STEP quoted string field
// ('it''s' -> it's); a non-quoted or empty field returns "".
func parseHeaderString(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '\'' || s[len(s)-1] != '\'' {
		return ""
	}
	inner := s[1 : len(s)-1]
	return strings.ReplaceAll(inner, "''", "'")
}

// parseHeaderList parses a parenthesized, comma-separated list of
// quoted strings, e.g. ('Author') or ('a','b').
func parseHeaderList(s string) []string {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return nil
	}
	inner := s[1 : len(s)-1]
	var out []string
	for _, f := range splitHeaderFields(inner) {
		if v := parseHeaderString(f); v != "" {
			out = append(out, v)
		}
	}
	return out
}
