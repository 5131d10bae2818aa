package cmdutil

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/marquee/internal/catalog"
	"github.com/agentstation/marquee/internal/cmd/output"
)

func TestResolveFormat(t *testing.T) {
	f, err := ResolveFormat("json")
	require.NoError(t, err)
	assert.Equal(t, output.FormatJSON, f)

	_, err = ResolveFormat("csv")
	assert.Error(t, err)
}

func TestWriteSnapshotDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	WriteSnapshotDiagnostics(&buf, catalog.Snapshot{
		Diagnostics: []catalog.Diagnostic{{
			Level:   catalog.LevelError,
			Message: "failed to load collection",
			Trace:   "*errors.LoadError: failed\n  *errors.errorString: denied",
		}},
	})

	out := buf.String()
	assert.Contains(t, out, "failed to load collection")
	assert.Contains(t, out, "    *errors.LoadError: failed\n")
	assert.Contains(t, out, "      *errors.errorString: denied\n")
	assert.Contains(t, out, "hint:")
}

func TestWriteSnapshotNote(t *testing.T) {
	var buf bytes.Buffer
	WriteSnapshotNote(&buf, 3)
	assert.Contains(t, buf.String(), "Snapshot of the first 3 records.")
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 result", Plural(1, "result"))
	assert.Equal(t, "0 results", Plural(0, "result"))
	assert.Equal(t, "2 movies", Plural(2, "movie"))
}
