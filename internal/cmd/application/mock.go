// Package application provides test doubles for the command application interface.
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/marquee"
	app "github.com/agentstation/marquee/cmd/application"
	"github.com/agentstation/marquee/pkg/store"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
//
// Example Usage:
//
//	mock := &application.Mock{
//	    MarqueeFunc: func() (marquee.Marquee, error) {
//	        return mq, nil
//	    },
//	}
//	cmd := list.NewCommand(mock)
type Mock struct {
	MarqueeFunc      func() (marquee.Marquee, error)
	RecordStoreFunc  func() (store.RecordStore, error)
	StoreConfigFunc  func() store.Config
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
}

var _ app.Application = (*Mock)(nil)

// Marquee returns an instance using the mock function or nil.
func (m *Mock) Marquee() (marquee.Marquee, error) {
	if m.MarqueeFunc != nil {
		return m.MarqueeFunc()
	}
	return nil, nil
}

// RecordStore returns a store using the mock function or nil.
func (m *Mock) RecordStore() (store.RecordStore, error) {
	if m.RecordStoreFunc != nil {
		return m.RecordStoreFunc()
	}
	return nil, nil
}

// StoreConfig returns the store configuration using the mock function or the default.
func (m *Mock) StoreConfig() store.Config {
	if m.StoreConfigFunc != nil {
		return m.StoreConfigFunc()
	}
	return store.DefaultConfig()
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}
