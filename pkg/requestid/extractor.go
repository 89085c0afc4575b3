package requestid

import (
	"context"
	"log/slog"
)

// LoggerExtractor adapts FromContext to the logger's ContextExtractor shape
// so every log line emitted within a request carries its request_id.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if requestID := FromContext(ctx); requestID != "" {
			return slog.String("request_id", requestID), true
		}
		return slog.Attr{}, false
	}
}
