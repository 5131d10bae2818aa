// Package cmdutil provides helpers shared by marquee commands.
package cmdutil

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/marquee/internal/catalog"
	"github.com/agentstation/marquee/internal/cmd/emoji"
	"github.com/agentstation/marquee/internal/cmd/hints"
	"github.com/agentstation/marquee/internal/cmd/output"
)

// ResolveFormat validates the configured output format, auto-detecting one
// from the terminal when it is unset.
func ResolveFormat(configured string) (output.Format, error) {
	return output.ParseFormat(string(output.DetectFormat(configured)))
}

// WriteDiagnostics prints load diagnostics, one symbol-prefixed line each.
// Error diagnostics are followed by their indented trace.
func WriteDiagnostics(w io.Writer, diags []catalog.Diagnostic) {
	for _, d := range diags {
		symbol := emoji.Warning
		if d.Level == catalog.LevelError {
			symbol = emoji.Error
		}
		fmt.Fprintf(w, "%s %s\n", symbol, d.Message)
		if d.Trace == "" {
			continue
		}
		for _, line := range strings.Split(d.Trace, "\n") {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}
}

// WriteSnapshotDiagnostics prints the diagnostics of snap followed by a
// hint when the snapshot is empty or failed.
func WriteSnapshotDiagnostics(w io.Writer, snap catalog.Snapshot) {
	WriteDiagnostics(w, snap.Diagnostics)
	if hint := hints.ForSnapshot(snap); hint != nil {
		fmt.Fprintln(w, hint)
	}
}

// WriteSnapshotNote reminds the reader that the catalog is bounded.
func WriteSnapshotNote(w io.Writer, limit int) {
	fmt.Fprintf(w, "%s Snapshot of the first %d records.\n", emoji.Info, limit)
}

// Plural returns "n word" or "n words".
func Plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// MustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags the command itself defines.
func MustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// MustGetInt retrieves an integer flag value or panics if the flag doesn't exist.
func MustGetInt(cmd *cobra.Command, name string) int {
	val, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// MustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
func MustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
