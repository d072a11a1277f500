package httpapp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/alphabot-ai/skillswap/internal/moderation"
	"github.com/google/uuid"
)

type ctxKey string

const ctxKeyRequestID ctxKey = "request_id"

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", reqID)
		ctx := context.WithValue(r.Context(), ctxKeyRequestID, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestIDFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(ctxKeyRequestID).(string); ok {
		return s
	}
	return ""
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.ErrorContext(r.Context(), "panic recovered",
					"operation", "http_panic_recovery",
					"outcome", "failure",
					"request_id", requestIDFromContext(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec,
				)
				writeError(w, http.StatusInternalServerError, moderation.ErrServerFault)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	bytes      int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *statusRecorder) Write(payload []byte) (int, error) {
	if r.statusCode == 0 {
		r.statusCode = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(payload)
	r.bytes += n
	return n, err
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(recorder, r)

		statusCode := recorder.statusCode
		if statusCode == 0 {
			statusCode = http.StatusOK
		}
		outcome := "success"
		if statusCode >= 400 {
			outcome = "failure"
		}
		fields := []any{
			"operation", "http_request",
			"outcome", outcome,
			"method", r.Method,
			"path", r.URL.Path,
			"status_code", statusCode,
			"bytes", recorder.bytes,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", requestIDFromContext(r.Context()),
		}
		switch {
		case statusCode >= 500:
			s.logger.ErrorContext(r.Context(), "http request completed", fields...)
		case statusCode >= 400:
			s.logger.WarnContext(r.Context(), "http request completed", fields...)
		default:
			s.logger.InfoContext(r.Context(), "http request completed", fields...)
		}
	})
}

// fail logs err and writes it to the client. Server errors are replaced by a
// generic message.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, status int, err error) {
	fields := []any{
		"operation", op,
		"outcome", "failure",
		"status_code", status,
		"request_id", requestIDFromContext(r.Context()),
		"error", err.Error(),
	}
	if status >= 500 {
		s.logger.ErrorContext(r.Context(), "http operation failed", fields...)
		writeError(w, status, moderation.ErrServerFault)
		return
	}
	s.logger.WarnContext(r.Context(), "http operation failed", fields...)
	writeError(w, status, err)
}

// failModeration maps a moderation error kind to its status code.
func (s *Server) failModeration(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := http.StatusInternalServerError
	switch moderation.KindOf(err) {
	case moderation.ErrAuthenticationRequired:
		status = http.StatusUnauthorized
	case moderation.ErrAuthorizationDenied:
		status = http.StatusForbidden
	case moderation.ErrNotFound:
		status = http.StatusNotFound
	case moderation.ErrValidation:
		status = http.StatusBadRequest
	}
	var merr *moderation.Error
	if status < 500 && errors.As(err, &merr) {
		s.logger.WarnContext(r.Context(), "http operation failed",
			"operation", op,
			"outcome", "failure",
			"status_code", status,
			"request_id", requestIDFromContext(r.Context()),
			"error", err.Error(),
		)
		writeError(w, status, errors.New(merr.Public()))
		return
	}
	s.fail(w, r, op, status, err)
}
