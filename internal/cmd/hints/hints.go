// Package hints provides actionable user guidance for CLI operations.
package hints

import (
	"fmt"
	"strings"

	"github.com/agentstation/marquee/internal/catalog"
)

// Hint represents actionable user guidance.
type Hint struct {
	Message string // Human-readable guidance message
	Command string // Optional specific command to run
}

// New creates a new hint with the given message.
func New(message string) *Hint {
	return &Hint{Message: message}
}

// WithCommand adds a command to the hint.
func (h *Hint) WithCommand(command string) *Hint {
	h.Command = command
	return h
}

// String returns a string representation of the hint.
func (h *Hint) String() string {
	parts := []string{"hint: " + h.Message}
	if h.Command != "" {
		parts = append(parts, fmt.Sprintf("   Run: %s", h.Command))
	}
	return strings.Join(parts, "\n")
}

// ForSnapshot suggests next steps for a snapshot that came back empty or
// failed to load. It returns nil when there is nothing to suggest.
func ForSnapshot(snap catalog.Snapshot) *Hint {
	switch {
	case snap.Failed():
		return New("check the store settings, or try the in-memory store").
			WithCommand("marquee --backend memory list")
	case snap.Table.IsEmpty() && len(snap.Diagnostics) > 0:
		return New("the collection has no records yet").
			WithCommand(`marquee add --title "..." --year "..." --director "..." --genre "..."`)
	}
	return nil
}
