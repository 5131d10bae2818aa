// Package application provides the application interface for marquee commands.
//
// The Application interface is the contract between the application layer and
// the command and server implementations. Commands accept it instead of the
// concrete App type so they can be tested with a mock.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            mq, err := app.Marquee()
//	            if err != nil {
//	                return err
//	            }
//	            table := mq.Catalog(cmd.Context())
//	            // ... render table
//	            return nil
//	        },
//	    }
//	}
//
// Testing with Mocks:
//
//	mock := &application.Mock{
//	    MarqueeFunc: func() (marquee.Marquee, error) {
//	        return testMarquee, nil
//	    },
//	}
//	cmd := NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/marquee"
	"github.com/agentstation/marquee/pkg/store"
)

// Application provides what commands and the HTTP server need.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Marquee returns the shared dashboard core, opening the configured
	// record store on first use.
	Marquee() (marquee.Marquee, error)

	// RecordStore returns the record store shared with Marquee. Bulk
	// commands use it directly.
	RecordStore() (store.RecordStore, error)

	// StoreConfig returns the resolved store configuration.
	StoreConfig() store.Config

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml, markdown).
	OutputFormat() string
}
