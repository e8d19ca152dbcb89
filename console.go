// SPDX-FileCopyrightText: 2025 夕月霞
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"io"

	"board-scope/ingest"
)

// consoleSink prints each accepted sample immediately, in arrival order.
// Diagnostic lines are filtered before parsing and never reach it.
type consoleSink struct {
	out io.Writer
}

func (cs *consoleSink) Accept(s ingest.Sample) {
	fmt.Fprintf(cs.out, "%.3f  F=[%.2f %.2f %.2f %.2f]  COP=(%+.2f, %+.2f)\n",
		s.Time, s.F1, s.F2, s.F3, s.F4, s.CopX, s.CopY)
}
