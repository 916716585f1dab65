package log

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
)

// errStackHandler decorates log records that carry an error attribute with
// the stack trace recorded by cockroachdb/errors.
type errStackHandler struct {
	next slog.Handler
}

// WrapByErrFmtHandler wraps a slog handler so records logged with ErrAttr
// also emit a stacktrace attribute.
func WrapByErrFmtHandler(next slog.Handler) slog.Handler {
	return &errStackHandler{next: next}
}

func (h *errStackHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.next.Enabled(ctx, l)
}

func (h *errStackHandler) Handle(ctx context.Context, r slog.Record) error {
	var stacktrace string
	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key != ErrAttrKey {
			return true
		}
		if err, ok := attr.Value.Any().(error); ok {
			stacktrace = stacktraceOf(err)
		}
		return false
	})
	if stacktrace != "" {
		r.AddAttrs(slog.String(StacktraceAttrKey, stacktrace))
	}
	return h.next.Handle(ctx, r)
}

func (h *errStackHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &errStackHandler{next: h.next.WithAttrs(attrs)}
}

func (h *errStackHandler) WithGroup(g string) slog.Handler {
	return &errStackHandler{next: h.next.WithGroup(g)}
}

// stacktraceOf pulls the first safe detail payload, which is where
// cockroachdb/errors keeps the formatted stack.
func stacktraceOf(err error) string {
	details := errors.GetSafeDetails(err).SafeDetails
	if len(details) > 0 {
		return details[0]
	}
	return ""
}
