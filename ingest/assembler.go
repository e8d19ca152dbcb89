// SPDX-FileCopyrightText: 2025 夕月霞
// SPDX-License-Identifier: AGPL-3.0-or-later
package ingest

import (
	"bytes"
	"strings"
	"unicode"
)

// LineAssembler turns arbitrarily fragmented byte chunks into complete
// newline-delimited records. The unterminated tail is kept between Feed
// calls, so a record split across chunks is reassembled exactly once the
// closing newline arrives.
type LineAssembler struct {
	pending []byte
}

// Feed appends chunk to the pending buffer and returns every record that is
// now complete, in arrival order, newline stripped. An empty chunk is a
// no-op. Garbled bytes never fail the call; they are dropped when the
// enclosing record is emitted.
func (a *LineAssembler) Feed(chunk []byte) []string {
	if len(chunk) == 0 {
		return nil
	}
	a.pending = append(a.pending, chunk...)

	var records []string
	for {
		i := bytes.IndexByte(a.pending, '\n')
		if i < 0 {
			return records
		}
		records = append(records, scrubRecord(a.pending[:i]))
		a.pending = a.pending[i+1:]
	}
}

// PendingLen reports the size of the buffered unterminated tail.
func (a *LineAssembler) PendingLen() int {
	return len(a.pending)
}

// Discard CRs, invalid UTF-8 and non-printables.
func scrubRecord(raw []byte) string {
	s := strings.ToValidUTF8(string(raw), "")
	return strings.Map(func(r rune) rune {
		if r == '\r' || !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, s)
}
