package marquee

import (
	"sync"

	"github.com/agentstation/marquee/internal/submission"
)

// Hook function types for dashboard events
type (
	// MovieAddedHook is called after a submission is stored
	MovieAddedHook func(res submission.Result)

	// CatalogInvalidatedHook is called after the catalog epoch ends
	CatalogInvalidatedHook func(epoch uint64)
)

// hooks manages event callbacks
type hooks struct {
	mu                   sync.RWMutex
	onMovieAdded         []MovieAddedHook
	onCatalogInvalidated []CatalogInvalidatedHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnMovieAdded registers a callback for accepted submissions
func (h *hooks) OnMovieAdded(fn MovieAddedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onMovieAdded = append(h.onMovieAdded, fn)
}

// OnCatalogInvalidated registers a callback for ended epochs
func (h *hooks) OnCatalogInvalidated(fn CatalogInvalidatedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onCatalogInvalidated = append(h.onCatalogInvalidated, fn)
}

func (h *hooks) triggerMovieAdded(res submission.Result) {
	h.mu.RLock()
	fns := append([]MovieAddedHook(nil), h.onMovieAdded...)
	h.mu.RUnlock()
	for _, fn := range fns {
		fn(res)
	}
}

func (h *hooks) triggerCatalogInvalidated(epoch uint64) {
	h.mu.RLock()
	fns := append([]CatalogInvalidatedHook(nil), h.onCatalogInvalidated...)
	h.mu.RUnlock()
	for _, fn := range fns {
		fn(epoch)
	}
}
