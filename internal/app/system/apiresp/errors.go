// internal/app/system/apiresp/errors.go
package apiresp

import (
	"net/http"

	"github.com/dalemusser/hearmeout/internal/app/system/apperr"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrorWriter is the single translation layer from errors to error envelopes.
//
// An *apperr.Error is written with its own status and message. Anything else
// becomes a 500; the real message is only exposed when Expose is set (dev).
// Every 500 gets a reference id that is both logged and returned.
type ErrorWriter struct {
	Log    *zap.Logger
	Expose bool
}

// NewErrorWriter creates an ErrorWriter. expose should be false in production.
func NewErrorWriter(logger *zap.Logger, expose bool) *ErrorWriter {
	return &ErrorWriter{Log: logger, Expose: expose}
}

// Write sends err to the client.
func (e *ErrorWriter) Write(w http.ResponseWriter, r *http.Request, err error) {
	if ae, ok := apperr.As(err); ok && ae.Status < http.StatusInternalServerError {
		if ae.Err != nil {
			e.Log.Debug("request failed",
				zap.String("path", r.URL.Path),
				zap.Int("status", ae.Status),
				zap.Error(ae.Err))
		}
		JSON(w, ae.Status, Envelope{Success: false, Error: ae.Message})
		return
	}

	ref := uuid.NewString()
	e.Log.Error("server error",
		zap.String("ref", ref),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))

	msg := "internal server error"
	if e.Expose && err != nil {
		msg = err.Error()
	}
	JSON(w, http.StatusInternalServerError, Envelope{Success: false, Error: msg, Ref: ref})
}

// Recoverer turns a panic in next into a 500 envelope.
func (e *ErrorWriter) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				e.Log.Error("panic in handler", zap.Any("panic", rec), zap.String("path", r.URL.Path))
				e.Write(w, r, apperr.Internal(nil))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// NotFound serves unknown routes with the error envelope.
func (e *ErrorWriter) NotFound(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusNotFound, Envelope{Success: false, Error: "Cannot find " + r.URL.Path + " on this server"})
}

// MethodNotAllowed serves known routes hit with the wrong method.
func (e *ErrorWriter) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusMethodNotAllowed, Envelope{Success: false, Error: "method not allowed"})
}
