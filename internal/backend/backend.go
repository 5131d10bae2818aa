// Package backend opens the configured record store.
package backend

import (
	"context"
	"strings"

	"github.com/agentstation/marquee/internal/backend/firestore"
	"github.com/agentstation/marquee/internal/backend/memory"
	"github.com/agentstation/marquee/internal/backend/sqlite"
	"github.com/agentstation/marquee/pkg/errors"
	"github.com/agentstation/marquee/pkg/logging"
	"github.com/agentstation/marquee/pkg/store"
)

// Open validates cfg and returns the matching RecordStore.
func Open(ctx context.Context, cfg store.Config) (store.RecordStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	backend := strings.ToLower(cfg.Backend)
	logging.Ctx(ctx).Debug().
		Str("backend", backend).
		Str("collection", cfg.Collection).
		Int("snapshot_limit", cfg.SnapshotLimit).
		Msg("Opening record store")

	switch backend {
	case store.BackendMemory:
		return memory.New(), nil
	case store.BackendSQLite:
		s, err := sqlite.Open(ctx, cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case store.BackendFirestore:
		s, err := firestore.Open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, errors.NewConfigError("store", "backend "+cfg.Backend, errors.ErrUnknownBackend)
	}
}
