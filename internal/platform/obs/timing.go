package obs

import (
	"context"
	"log/slog"
	"time"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// Time logs the duration of an operation when the returned func is called.
// Typical use: defer obs.Time(ctx, "op")(&err).
// The request id is added only when the logger does not come from ctx;
// request-scoped loggers already carry it.
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	var base []any
	if _, scoped := ctx.Value(loggerKey{}).(*slog.Logger); !scoped {
		if reqID, _ := ctx.Value(RequestIDKey).(string); reqID != "" {
			base = append(base, slog.String("req_id", reqID))
		}
	}

	return func(errp *error) {
		dur := time.Since(start)
		logger := FromContext(ctx)
		args := append(append([]any{}, base...), slog.String("op", name), slog.Int64("dur_ms", dur.Milliseconds()))

		if errp != nil && *errp != nil {
			logger.Warn("operation failed", append(args, slog.String("error", (*errp).Error()))...)
			return
		}
		logger.Debug("operation", args...)
	}
}
