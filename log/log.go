// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log is a thin layer over go-ethereum's structured logger.
// Package level loggers created by WithContext always write through the
// current root, so the daemon can swap handlers after packages were initialised.
package log

import (
	"context"
	"io"
	"log/slog"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// Levels, aliased from go-ethereum.
const (
	LevelTrace = ethlog.LevelTrace
	LevelDebug = ethlog.LevelDebug
	LevelInfo  = ethlog.LevelInfo
	LevelWarn  = ethlog.LevelWarn
	LevelError = ethlog.LevelError
	LevelCrit  = ethlog.LevelCrit
)

// Logger writes key/value pairs at a given level.
type Logger interface {
	New(ctx ...any) Logger
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Crit(msg string, ctx ...any)
}

type lazyLogger struct {
	ctx []any
}

// WithContext returns a logger carrying the given context pairs.
func WithContext(ctx ...any) Logger {
	return &lazyLogger{ctx: ctx}
}

// Root returns the root logger.
func Root() Logger {
	return &lazyLogger{}
}

// SetDefault replaces the handler of the root logger.
func SetDefault(h slog.Handler) {
	ethlog.SetDefault(ethlog.NewLogger(h))
}

func (l *lazyLogger) eth() ethlog.Logger {
	if len(l.ctx) == 0 {
		return ethlog.Root()
	}
	return ethlog.Root().With(l.ctx...)
}

func (l *lazyLogger) New(ctx ...any) Logger {
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	merged = append(merged, l.ctx...)
	return &lazyLogger{ctx: append(merged, ctx...)}
}

func (l *lazyLogger) Trace(msg string, ctx ...any) { l.eth().Trace(msg, ctx...) }
func (l *lazyLogger) Debug(msg string, ctx ...any) { l.eth().Debug(msg, ctx...) }
func (l *lazyLogger) Info(msg string, ctx ...any)  { l.eth().Info(msg, ctx...) }
func (l *lazyLogger) Warn(msg string, ctx ...any)  { l.eth().Warn(msg, ctx...) }
func (l *lazyLogger) Error(msg string, ctx ...any) { l.eth().Error(msg, ctx...) }
func (l *lazyLogger) Crit(msg string, ctx ...any)  { l.eth().Crit(msg, ctx...) }

// FromLegacyLevel converts the 0..5 verbosity used on the command line.
func FromLegacyLevel(verbosity int) slog.Level {
	return ethlog.FromLegacyLevel(verbosity)
}

// NewTerminalHandler returns a human readable handler gated by lvl.
func NewTerminalHandler(wr io.Writer, lvl *slog.LevelVar, useColor bool) slog.Handler {
	return &levelHandler{
		lvl:  lvl,
		next: ethlog.NewTerminalHandlerWithLevel(wr, LevelTrace, useColor),
	}
}

// NewJSONHandler returns a json handler gated by lvl.
func NewJSONHandler(wr io.Writer, lvl *slog.LevelVar) slog.Handler {
	return &levelHandler{
		lvl:  lvl,
		next: ethlog.JSONHandlerWithLevel(wr, LevelTrace),
	}
}

// DiscardHandler drops every record.
func DiscardHandler() slog.Handler {
	return ethlog.DiscardHandler()
}

// levelHandler lets verbosity change at runtime.
type levelHandler struct {
	lvl  *slog.LevelVar
	next slog.Handler
}

func (h *levelHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.lvl.Level()
}

func (h *levelHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.next.Handle(ctx, r)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{lvl: h.lvl, next: h.next.WithAttrs(attrs)}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{lvl: h.lvl, next: h.next.WithGroup(name)}
}
