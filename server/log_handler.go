package server

import (
	"context"
	"log/slog"
	"strings"

	gethlog "github.com/ethereum/go-ethereum/log"

	"cosmossdk.io/log"
)

// slogHandler forwards slog records, including go-ethereum's, to a cosmos logger.
type slogHandler struct {
	logger log.Logger
	level  slog.Level
	group  string
}

// NewSlogLogger wraps logger in a slog.Logger dropping records below level.
// Unknown levels fall back to info.
func NewSlogLogger(logger log.Logger, level string) *slog.Logger {
	h := &slogHandler{logger: logger, level: slog.LevelInfo}
	_ = h.level.UnmarshalText([]byte(strings.ToUpper(level)))
	return slog.New(h)
}

// SetGethLogger routes go-ethereum's root logger through logger.
func SetGethLogger(logger *slog.Logger) {
	gethlog.SetDefault(gethlog.NewLogger(logger.Handler()))
}

func (h *slogHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make([]any, 0, 2*r.NumAttrs())
	r.Attrs(func(attr slog.Attr) bool {
		attrs = append(attrs, h.key(attr.Key), attr.Value.Any())
		return true
	})

	switch {
	case r.Level >= slog.LevelError:
		h.logger.Error(r.Message, attrs...)
	case r.Level >= slog.LevelWarn:
		h.logger.Warn(r.Message, attrs...)
	case r.Level >= slog.LevelInfo:
		h.logger.Info(r.Message, attrs...)
	default:
		h.logger.Debug(r.Message, attrs...)
	}
	return nil
}

func (h *slogHandler) Enabled(_ context.Context, lvl slog.Level) bool {
	return lvl >= h.level
}

func (h *slogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	flat := make([]any, 0, len(attrs)*2)
	for _, attr := range attrs {
		flat = append(flat, h.key(attr.Key), attr.Value.Any())
	}
	return &slogHandler{logger: h.logger.With(flat...), level: h.level, group: h.group}
}

func (h *slogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &slogHandler{logger: h.logger, level: h.level, group: h.key(name)}
}

func (h *slogHandler) key(k string) string {
	if h.group == "" {
		return k
	}
	return h.group + "." + k
}
