// Package sl holds small helpers for building slog attributes.
package sl

import "log/slog"

// Err returns the "error" attribute for err.
//
//	slog.Error("payment_record_failed", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
