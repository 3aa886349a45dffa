// Package sl holds small slog helpers shared by the service.
package sl

import (
	"io"

	"golang.org/x/exp/slog"
)

// Err wraps an error as an "error" attribute.
//
//	log.Error("failed to save cart", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Discard returns a logger that drops everything, for tests and tools.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
