package logging

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. ENV=dev gets the colored console encoder,
// every other environment gets JSON.
func New(level, env string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	if env == "dev" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

// RequestLogger logs every request once it completes. Paths under apiPrefix
// are logged at info, everything else at debug.
func RequestLogger(log *zap.Logger, apiPrefix string) func(http.Handler) http.Handler {
	prefix := strings.TrimRight(apiPrefix, "/") + "/"
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			dur := time.Since(start)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			path := r.URL.Path
			fields := []any{
				"method", r.Method,
				"path", path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"latency", dur.String(),
				"requestID", middleware.GetReqID(r.Context()),
				"clientIP", r.RemoteAddr,
			}
			if strings.HasPrefix(path, prefix) {
				log.Sugar().Infow("HTTP", fields...)
			} else {
				log.Sugar().Debugw("HTTP", fields...)
			}
		}
		return http.HandlerFunc(fn)
	}
}
