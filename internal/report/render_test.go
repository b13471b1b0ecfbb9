package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() Report {
	return Report{
		RunID:     "run-1",
		StartPath: "/root",
		Pattern:   `.*\.txt`,
		Matches:   []string{"/root/a.txt", "/root/sub/b.txt"},
		Files:     2,
		Dirs:      2,
		Duration:  1500 * time.Millisecond,
	}
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "2 Matched, Searched 2 Files & 2 Directories", Summary(sample()))
	assert.Equal(t, "0 Matched, Searched 0 Files & 0 Directories", Summary(Report{}))
}

func TestPrintText(t *testing.T) {
	var buf bytes.Buffer
	PrintText(&buf, sample(), PrintOptions{NoColor: true})
	assert.Equal(t,
		"2 Matched, Searched 2 Files & 2 Directories\n/root/a.txt\n/root/sub/b.txt\n",
		buf.String())
}

func TestPrintText_NoMatches(t *testing.T) {
	var buf bytes.Buffer
	PrintText(&buf, Report{Files: 3, Dirs: 1}, PrintOptions{NoColor: true})
	assert.Equal(t, "0 Matched, Searched 3 Files & 1 Directories\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sample()))
	out := buf.String()
	assert.Contains(t, out, `"directories": 2`)
	assert.Contains(t, out, `"duration_ms": 1500`)
	assert.True(t, strings.HasSuffix(out, "}\n"))

	got, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, sample(), got)
}

func TestWriteJSON_EmptyMatchesIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, Report{}))
	assert.Contains(t, buf.String(), `"matches": []`)
}
