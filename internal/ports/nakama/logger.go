package nakama

import (
	"context"
	"log/slog"

	"github.com/heroiclabs/nakama-common/runtime"
)

// runtimeHandler sends slog records from the engine to the Nakama runtime logger.
// Groups are flattened into dotted keys.
type runtimeHandler struct {
	logger runtime.Logger
	level  slog.Level
	attrs  map[string]interface{}
	group  string
}

func newRuntimeLogger(logger runtime.Logger, level slog.Level) *slog.Logger {
	return slog.New(&runtimeHandler{logger: logger, level: level})
}

func (h *runtimeHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *runtimeHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make(map[string]interface{}, len(h.attrs)+r.NumAttrs())
	for k, v := range h.attrs {
		fields[k] = v
	}
	r.Attrs(func(a slog.Attr) bool {
		fields[h.key(a.Key)] = a.Value.Resolve().Any()
		return true
	})

	l := h.logger
	if len(fields) > 0 {
		l = l.WithFields(fields)
	}
	switch {
	case r.Level >= slog.LevelError:
		l.Error("%s", r.Message)
	case r.Level >= slog.LevelWarn:
		l.Warn("%s", r.Message)
	case r.Level >= slog.LevelInfo:
		l.Info("%s", r.Message)
	default:
		l.Debug("%s", r.Message)
	}
	return nil
}

func (h *runtimeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.clone()
	for _, a := range attrs {
		next.attrs[h.key(a.Key)] = a.Value.Resolve().Any()
	}
	return next
}

func (h *runtimeHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.clone()
	next.group = h.key(name)
	return next
}

func (h *runtimeHandler) key(k string) string {
	if h.group == "" {
		return k
	}
	return h.group + "." + k
}

func (h *runtimeHandler) clone() *runtimeHandler {
	attrs := make(map[string]interface{}, len(h.attrs))
	for k, v := range h.attrs {
		attrs[k] = v
	}
	return &runtimeHandler{logger: h.logger, level: h.level, attrs: attrs, group: h.group}
}
