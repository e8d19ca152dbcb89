// SPDX-FileCopyrightText: 2025 夕月霞
// SPDX-License-Identifier: AGPL-3.0-or-later
package ingest

import (
	"errors"
	"strconv"
	"strings"
)

// Wire record format: TIME,F1,F2,F3,F4,COPX,COPY
const recordFields = 7

// Rejection reasons. Diagnostic rejections are expected firmware chatter and
// must never be reported as parse errors; malformed rejections may be
// counted by the caller.
var (
	ErrMalformed  = errors.New("malformed record")
	ErrDiagnostic = errors.New("diagnostic record")
)

// DefaultDiagnosticPrefixes matches the banners the board firmware prints
// during startup and taring. Case-sensitive. Not assumed exhaustive; the
// set is configuration.
var DefaultDiagnosticPrefixes = []string{"Setup", "Taring", "Format", "Force", "Calculating"}

// Sample is one fully validated board reading.
type Sample struct {
	Time float64 // seconds since firmware boot

	// Force magnitudes per corner sensor, in sensor units (Kg).
	F1, F2, F3, F4 float64

	// Center-of-Pressure position in centimeters, origin at board center.
	CopX, CopY float64
}

// RecordParser turns one text record into a Sample, or rejects it with
// ErrMalformed / ErrDiagnostic. Rejection is wholesale: a record with any
// bad field produces no Sample at all.
type RecordParser struct {
	diagPrefixes []string
}

func NewRecordParser(diagPrefixes []string) *RecordParser {
	return &RecordParser{diagPrefixes: diagPrefixes}
}

func (p *RecordParser) Parse(record string) (Sample, error) {
	for _, prefix := range p.diagPrefixes {
		if strings.HasPrefix(record, prefix) {
			return Sample{}, ErrDiagnostic
		}
	}

	parts := strings.Split(record, ",")
	if len(parts) != recordFields {
		return Sample{}, ErrMalformed
	}

	var vals [recordFields]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return Sample{}, ErrMalformed
		}
		vals[i] = v
	}

	return Sample{
		Time: vals[0],
		F1:   vals[1],
		F2:   vals[2],
		F3:   vals[3],
		F4:   vals[4],
		CopX: vals[5],
		CopY: vals[6],
	}, nil
}
