package infra

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/roundtable-service/internal/config"
)

const userUUIDHeader = "X-User-UUID"

// AuthInterceptorHTTP moves the caller's uuid from the gateway header into
// the request context. Requests without a valid uuid are rejected.
func AuthInterceptorHTTP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		userUUID := strings.TrimSpace(r.Header.Get(userUUIDHeader))
		if _, err := uuid.Parse(userUUID); err != nil {
			http.Error(w, "failed to find uuid", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), config.KeyUUID, userUUID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LoggerHTTP puts logger into the request context for handlers and logs one
// line per request.
func LoggerHTTP(next http.Handler, logger logger_lib.LoggerInterface) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		ctx := context.WithValue(r.Context(), config.KeyLogger, logger)
		next.ServeHTTP(ww, r.WithContext(ctx))

		msg := fmt.Sprintf("%s %s %d %s", r.Method, r.URL.Path, ww.Status(), time.Since(start))
		if ww.Status() >= http.StatusInternalServerError {
			logger.Error(msg)
			return
		}
		logger.Info(msg)
	})
}
