package catalog

import (
	"time"

	"github.com/agentstation/marquee/internal/cache"
	"github.com/agentstation/marquee/pkg/movies"
)

// Level classifies a diagnostic.
type Level string

// Diagnostic levels.
const (
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Diagnostic is a user-facing note about the last load.
type Diagnostic struct {
	Level   Level     `json:"level" yaml:"level"`
	Message string    `json:"message" yaml:"message"`
	Trace   string    `json:"trace,omitempty" yaml:"trace,omitempty"` // unwrap chain of the failure
	Time    time.Time `json:"time" yaml:"time"`
	Err     error     `json:"-" yaml:"-"`
}

// Snapshot is one memoized load: the table plus what happened while
// reading it. A snapshot is shared between callers and must not be mutated.
type Snapshot struct {
	Table       movies.Table `json:"table" yaml:"table"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
	Collection  string       `json:"collection" yaml:"collection"`
	Limit       int          `json:"limit" yaml:"limit"`
	Epoch       uint64       `json:"epoch" yaml:"epoch"`
	LoadedAt    time.Time    `json:"loaded_at" yaml:"loaded_at"`
}

// Failed reports whether the load hit a store error.
func (s Snapshot) Failed() bool {
	for _, d := range s.Diagnostics {
		if d.Level == LevelError {
			return true
		}
	}
	return false
}

// Stats reports loader activity.
type Stats struct {
	Collection string      `json:"collection" yaml:"collection"`
	Limit      int         `json:"limit" yaml:"limit"`
	Reads      int64       `json:"reads" yaml:"reads"`
	Epoch      uint64      `json:"epoch" yaml:"epoch"`
	Cached     bool        `json:"cached" yaml:"cached"`
	Rows       int         `json:"rows" yaml:"rows"`
	LoadedAt   time.Time   `json:"loaded_at,omitzero" yaml:"loaded_at,omitempty"`
	Cache      cache.Stats `json:"cache" yaml:"cache"`
}
