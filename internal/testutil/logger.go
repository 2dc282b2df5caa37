package testutil

import (
	"io"
	"log/slog"
)

// NopLogger returns a logger that discards all output.
// Use this in tests to avoid log noise.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// Places is a small gazetteer used by tests across packages
var Places = []string{
	"Argentina", "Albania", "Algeria", "Angola", "Australia", "Austria",
	"Brazil", "Belgium", "Canada", "Chile", "Denmark", "Egypt", "Estonia",
	"France", "Germany", "India", "Indonesia", "Italy", "Japan", "Kenya",
	"Lebanon", "Nepal", "Norway", "Oman", "Yemen",
	"New York City", "Rio de Janeiro", "Tokyo", "Oslo", "Ohio",
}
