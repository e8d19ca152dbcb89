// SPDX-FileCopyrightText: 2025 夕月霞
// SPDX-License-Identifier: AGPL-3.0-or-later
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
)

// Transport is the non-blocking byte source driving the poll loop. None of
// its methods may block: Available reports bytes ready right now, ReadChunk
// may return fewer than n if bytes were consumed between the two calls.
type Transport interface {
	Available() (int, error)
	ReadChunk(n int) ([]byte, error)
	DiscardInput() error
	Close() error
}

// Sink consumes validated samples. Implementations must not block the
// caller; the poll loop is the latency-critical path.
type Sink interface {
	Accept(s Sample)
}

// PollLoop drains the transport as fast as the loop can spin: no sleep is
// ever inserted between iterations, so end-to-end latency is bounded only
// by iteration overhead.
type PollLoop struct {
	tran   Transport
	parser *RecordParser
	sink   Sink

	// OnRecord, if set, observes every assembled record before parsing,
	// including ones that end up rejected.
	OnRecord func(record string)

	asm       LineAssembler
	malformed atomic.Uint64
}

func NewPollLoop(tran Transport, parser *RecordParser, sink Sink) *PollLoop {
	return &PollLoop{tran: tran, parser: parser, sink: sink}
}

// Run polls until ctx is canceled (returns nil, partial tail discarded) or
// the transport fails (error returned, no retry). Bytes buffered by the
// transport before Run starts are discarded so a stale backlog is never
// replayed.
func (pl *PollLoop) Run(ctx context.Context) error {
	if err := pl.tran.DiscardInput(); err != nil {
		return fmt.Errorf("discard transport backlog: %w", err)
	}

	for {
		if ctx.Err() != nil {
			return nil
		}

		n, err := pl.tran.Available()
		if err != nil {
			return fmt.Errorf("transport failed: %w", err)
		}
		if n == 0 {
			// Nothing ready; re-poll immediately.
			continue
		}

		chunk, err := pl.tran.ReadChunk(n)
		if err != nil {
			return fmt.Errorf("transport failed: %w", err)
		}

		for _, record := range pl.asm.Feed(chunk) {
			if pl.OnRecord != nil {
				pl.OnRecord(record)
			}
			sample, err := pl.parser.Parse(record)
			switch {
			case err == nil:
				pl.sink.Accept(sample)
			case errors.Is(err, ErrMalformed):
				pl.malformed.Add(1)
				slog.Debug("Dropped malformed record", "record", record)
			}
			// Diagnostics are dropped silently.
		}
	}
}

// Malformed returns the number of records rejected as malformed so far.
func (pl *PollLoop) Malformed() uint64 {
	return pl.malformed.Load()
}
