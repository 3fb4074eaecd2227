package extract

import (
	"fmt"
	"os"
	"strings"

	"github.com/poiesic/resumedex/core"
)

// DocExtractor pulls text out of legacy binary .doc files on a best-effort
// basis. There is no complete open implementation of the OLE/WordDocument
// format in Go, so this scans the raw bytes for readable runs instead: once
// as 8-bit text and once as UTF-16LE (how Word stores most content), keeping
// whichever scan recovers more. Files it cannot make sense of are reported
// as errors and skipped by the loader.
type DocExtractor struct{}

var _ Extractor = (*DocExtractor)(nil)

// minRun is the shortest run of printable characters worth keeping.
// Shorter runs are overwhelmingly format noise.
const minRun = 5

// Extract reads the best-effort text content of the .doc at path.
func (e *DocExtractor) Extract(path string) (*core.RawDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open doc %s: %w", path, err)
	}

	narrow := scanPrintableRuns(data)
	wide := scanUTF16Runs(data)

	text := narrow
	if len(wide) > len(narrow) {
		text = wide
	}
	if text == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoText, path)
	}

	return newRawDocument(path, text), nil
}

func printableByte(b byte) bool {
	return b == '\t' || b == '\n' || b == '\r' || (b >= 0x20 && b < 0x7f)
}

// scanPrintableRuns collects runs of printable single-byte characters.
func scanPrintableRuns(data []byte) string {
	var b strings.Builder
	start := -1
	flush := func(end int) {
		if start >= 0 && end-start >= minRun {
			b.Write(data[start:end])
			b.WriteByte('\n')
		}
		start = -1
	}
	for i, c := range data {
		if printableByte(c) {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(data))
	return strings.TrimSpace(b.String())
}

// scanUTF16Runs collects runs of UTF-16LE characters in the Basic Latin and
// Latin-1 ranges (a printable low byte followed by a zero high byte).
func scanUTF16Runs(data []byte) string {
	var b strings.Builder
	run := make([]byte, 0, 256)
	flush := func() {
		if len(run) >= minRun {
			b.Write(run)
			b.WriteByte('\n')
		}
		run = run[:0]
	}
	for i := 0; i+1 < len(data); i += 2 {
		lo, hi := data[i], data[i+1]
		if hi == 0 && printableByte(lo) {
			run = append(run, lo)
			continue
		}
		flush()
	}
	flush()
	return strings.TrimSpace(b.String())
}
