package index

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressTrackerReportsAtInterval(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 100, 10)
	tracker.Start()

	tracker.Increment(5)
	assert.Empty(t, buf.String(), "no report before crossing the interval")

	tracker.Increment(5)
	assert.Contains(t, buf.String(), "10/100")

	tracker.Finish()
	output := buf.String()
	assert.Contains(t, output, "100/100")
	assert.Contains(t, output, "100.0%")
	assert.True(t, strings.HasSuffix(output, "\n"), "final report ends with newline")
}

func TestProgressTrackerCapsAtTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 1)
	tracker.Start()

	tracker.Increment(50)
	assert.Contains(t, buf.String(), "10/10")
}

func TestProgressTrackerIgnoresUpdatesBeforeStart(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 1)

	tracker.Increment(5)
	tracker.Finish()
	assert.Empty(t, buf.String())
	assert.Zero(t, tracker.Elapsed())
}

func TestProgressTrackerElapsed(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 1)
	tracker.Start()

	require.GreaterOrEqual(t, tracker.Elapsed().Nanoseconds(), int64(0))
}
