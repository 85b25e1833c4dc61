package middleware

import (
	"net/http"
	"time"

	"github.com/fourloop/sourceflow/internal/logger"
	"go.uber.org/zap"
)

// Recovery turns a handler panic into a logged 500 response.
// onPanic writes the response body; nil answers with plain text.
func Recovery(log *zap.Logger, onPanic http.HandlerFunc) func(http.Handler) http.Handler {
	if onPanic == nil {
		onPanic = func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.ForRequest(log, r, r.Header.Get(RequestIDHeader)).Error("Recovered from panic",
					zap.Any("panic", rec),
					zap.Int("status_code", http.StatusInternalServerError),
					zap.Duration("duration", time.Since(start)),
					zap.Stack("stack"),
				)

				onPanic(w, r)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
