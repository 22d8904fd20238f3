// Copyright 2025 the libevm authors.
//
// The libevm additions to go-ethereum are free software: you can redistribute
// them and/or modify them under the terms of the GNU Lesser General Public License
// as published by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// The libevm additions are distributed in the hope that they will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU Lesser
// General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see
// <http://www.gnu.org/licenses/>.

// Package log provides the structured logging surface shared by every
// package in this module, following the same key-value idiom as
// go-ethereum's own `log` package.
package log

import (
	"context"
	"os"

	"golang.org/x/exp/slog"
)

var root = slog.New(slog.NewTextHandler(os.Stderr, nil))

// SetDefault replaces the package-level logger used by Debug/Info/Warn/Error/Crit.
func SetDefault(l *slog.Logger) {
	root = l
}

// Debug logs at debug level with structured key-value pairs.
func Debug(msg string, kv ...any) { root.Debug(msg, kv...) }

// Info logs at info level with structured key-value pairs.
func Info(msg string, kv ...any) { root.Info(msg, kv...) }

// Warn logs at warn level with structured key-value pairs.
func Warn(msg string, kv ...any) { root.Warn(msg, kv...) }

// Error logs at error level with structured key-value pairs.
func Error(msg string, kv ...any) { root.Error(msg, kv...) }

// Crit logs at error level and terminates the process, mirroring
// go-ethereum's log.Crit. Reserved for invariant violations the caller has
// already decided are unrecoverable.
func Crit(msg string, kv ...any) {
	root.Error(msg, kv...)
	os.Exit(1)
}

// Ctx returns a logger with the key-value pairs carried by ctx, if any were
// attached with WithContext. Otherwise it returns the package default.
func Ctx(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return root
}

type ctxKey struct{}

// WithContext attaches kv pairs to ctx so that Ctx(ctx) returns a logger that
// includes them on every subsequent call.
func WithContext(ctx context.Context, kv ...any) context.Context {
	return context.WithValue(ctx, ctxKey{}, Ctx(ctx).With(kv...))
}
