package ingest

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestFeedEmitsCompleteRecordsInOrder(t *testing.T) {
	var asm LineAssembler

	records := asm.Feed([]byte("a,b\nc,d\ntail"))
	expected := []string{"a,b", "c,d"}
	if len(records) != len(expected) {
		t.Fatalf("expected %d records, got %d (%v)", len(expected), len(records), records)
	}
	for i := range expected {
		if records[i] != expected[i] {
			t.Errorf("record[%d]: expected %q, got %q", i, expected[i], records[i])
		}
	}
	if asm.PendingLen() != len("tail") {
		t.Errorf("expected tail of %d bytes to stay buffered, got %d", len("tail"), asm.PendingLen())
	}

	// Tail completes on the next feed, nothing lost across the call boundary.
	records = asm.Feed([]byte("-end\n"))
	if len(records) != 1 || records[0] != "tail-end" {
		t.Fatalf("expected [tail-end], got %v", records)
	}
	if asm.PendingLen() != 0 {
		t.Errorf("expected empty buffer, got %d bytes", asm.PendingLen())
	}
}

func TestFeedEmptyChunkIsNoOp(t *testing.T) {
	var asm LineAssembler
	asm.Feed([]byte("partial"))

	if records := asm.Feed(nil); records != nil {
		t.Fatalf("expected no records, got %v", records)
	}
	if asm.PendingLen() != len("partial") {
		t.Errorf("empty chunk changed the buffer: %d bytes", asm.PendingLen())
	}
}

func TestFeedStripsCRAndGarbledBytes(t *testing.T) {
	var asm LineAssembler

	records := asm.Feed([]byte("1.0,2\r\n\xff\xfe3,4\n"))
	expected := []string{"1.0,2", "3,4"}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %v", records)
	}
	for i := range expected {
		if records[i] != expected[i] {
			t.Errorf("record[%d]: expected %q, got %q", i, expected[i], records[i])
		}
	}
}

// Feeding the same bytes as one chunk or as arbitrarily many fragments must
// yield the same record sequence.
func TestChunkingInvariance(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numLines := rapid.IntRange(0, 20).Draw(t, "numLines")
		var sb strings.Builder
		for range numLines {
			sb.WriteString(rapid.StringMatching(`[0-9A-Za-z,.\- ]{0,30}`).Draw(t, "line"))
			sb.WriteByte('\n')
		}
		sb.WriteString(rapid.StringMatching(`[0-9A-Za-z,.\- ]{0,10}`).Draw(t, "tail"))
		input := []byte(sb.String())

		var whole LineAssembler
		expected := whole.Feed(input)

		var fragmented LineAssembler
		var observed []string
		for start := 0; start < len(input); {
			end := rapid.IntRange(start+1, len(input)).Draw(t, "split")
			observed = append(observed, fragmented.Feed(input[start:end])...)
			start = end
		}

		if len(observed) != len(expected) {
			t.Fatalf("expected %d records, got %d", len(expected), len(observed))
		}
		for i := range expected {
			if observed[i] != expected[i] {
				t.Fatalf("record[%d]: expected %q, got %q", i, expected[i], observed[i])
			}
		}
		if fragmented.PendingLen() != whole.PendingLen() {
			t.Fatalf("tail length mismatch: %d vs %d", fragmented.PendingLen(), whole.PendingLen())
		}
	})
}

func TestFeedEmitsExactlyKRecords(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		k := rapid.IntRange(0, 50).Draw(t, "k")
		lines := make([]string, k)
		var sb strings.Builder
		for i := range k {
			lines[i] = rapid.StringMatching(`[0-9a-z,.]{0,20}`).Draw(t, "line")
			sb.WriteString(lines[i])
			sb.WriteByte('\n')
		}
		tail := rapid.StringMatching(`[0-9a-z,.]{0,20}`).Draw(t, "tail")
		sb.WriteString(tail)

		var asm LineAssembler
		records := asm.Feed([]byte(sb.String()))
		if len(records) != k {
			t.Fatalf("expected %d records, got %d", k, len(records))
		}
		for i := range lines {
			if records[i] != lines[i] {
				t.Fatalf("record[%d]: expected %q, got %q", i, lines[i], records[i])
			}
		}
		if asm.PendingLen() != len(tail) {
			t.Fatalf("expected %d tail bytes buffered, got %d", len(tail), asm.PendingLen())
		}
	})
}
