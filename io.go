// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ifclite

import "errors"

// errStop is the sentinel panic value used by sourceReader.stop, the
// same panic/recover short-circuit the teacher uses in its own
// streamReader: a reader helper that fails calls stop rather than
// threading an error return through every helper, and recoverScan,
// deferred by whatever drives the reader, turns errStop back into a
// normal error return. The scanner and tokenizer in this package
// index content directly and do not use sourceReader.
var errStop = errors.New("stop")

var errShortRead = errors.New("unexpected end of entity data")

// sourceReader is a byte-offset cursor over a whole model's raw STEP
// content. Unlike the teacher's streamReader it wraps an in-memory
// byte slice rather than an io.ReadSeeker: STEP scanning and lazy
// entity decoding both need random access back into earlier bytes
// (an entity's byte range is looked up and re-sliced long after the
// initial scan), which a streaming io.Reader can't give cheaply.
// The panic/recover "stop on first error" discipline is kept as-is.
type sourceReader struct {
	content []byte
	pos     int

	isEOF   bool
	readErr error
}

func newSourceReader(content []byte) *sourceReader {
	return &sourceReader{content: content}
}

func (r *sourceReader) len() int { return len(r.content) }

func (r *sourceReader) atEnd() bool { return r.pos >= len(r.content) }

func (r *sourceReader) peek() byte {
	if r.atEnd() {
		r.stop(errShortRead)
	}
	return r.content[r.pos]
}

func (r *sourceReader) peekAt(offset int) (byte, bool) {
	p := r.pos + offset
	if p < 0 || p >= len(r.content) {
		return 0, false
	}
	return r.content[p], true
}

func (r *sourceReader) advance() byte {
	b := r.peek()
	r.pos++
	return b
}

func (r *sourceReader) skipWhitespace() {
	for !r.atEnd() {
		switch r.content[r.pos] {
		case ' ', '\t', '\n', '\r':
			r.pos++
		default:
			return
		}
	}
}

// stop panics with errStop, recording err unless it is a harmless
// end-of-input at a position where one is expected (mirrors the
// teacher's one-silent-EOF allowance in streamReader.stop).
func (r *sourceReader) stop(err error) {
	if err == errShortRead && !r.isEOF {
		r.isEOF = true
	} else if err != nil {
		r.readErr = err
	}
	panic(errStop)
}

// recoverScan, when deferred, turns a panic(errStop) into a regular
// error return, the same control-flow shape the teacher's top-level
// Decode function uses around its decoder.decode() call.
func recoverScan(r *sourceReader, errp *error) {
	if rec := recover(); rec != nil {
		if rec == errStop {
			if r.readErr != nil {
				*errp = r.readErr
			} else {
				*errp = errShortRead
			}
			return
		}
		panic(rec)
	}
}
