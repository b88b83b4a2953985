package logging

import (
	"context"
	"log/slog"
)

// AttrsFunc extracts attributes from a request context.
type AttrsFunc func(ctx context.Context) []slog.Attr

// ContextHandler adds attributes taken from the context of each record, such
// as the invocation's request id.
type ContextHandler struct {
	slog.Handler
	attrs AttrsFunc
}

func NewContextHandler(h slog.Handler, attrs AttrsFunc) *ContextHandler {
	return &ContextHandler{Handler: h, attrs: attrs}
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil && h.attrs != nil {
		r.AddAttrs(h.attrs(ctx)...)
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithAttrs(attrs), attrs: h.attrs}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithGroup(name), attrs: h.attrs}
}
