package web

// errors.go provides unified error response handling for the web layer.
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err)
//  3. Error is mapped via core.MapError to a user message and code
//  4. Technical error is logged with the request and session IDs
//  5. User message is rendered for the client: an HTMX partial, JSON or text

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/keydrift/internal/compare"
	"github.com/JonMunkholm/keydrift/internal/core"
	"github.com/JonMunkholm/keydrift/internal/logging"
	"github.com/JonMunkholm/keydrift/internal/source"
	"github.com/JonMunkholm/keydrift/internal/web/templates"
)

// ErrorResponse represents the JSON structure for API error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusFor picks the HTTP status for err. Sentinels wrapped by a size or
// emptiness error are checked in the same order as core.MapError.
func statusFor(err error) int {
	switch {
	case errors.Is(err, source.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, source.ErrEmptyFile),
		errors.Is(err, compare.ErrMalformedKeySource),
		errors.Is(err, compare.ErrMalformedTableSource):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrNoFile), errors.Is(err, compare.ErrUnknownTrack):
		return http.StatusBadRequest
	case errors.Is(err, compare.ErrInputsMissing):
		return http.StatusConflict
	case errors.Is(err, core.ErrNoReport), errors.Is(err, core.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrTooManyUploads):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes the user-facing message in the format the
// client asked for.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	userMsg := core.MapError(err)

	logger := logging.WithFields(r.Context(),
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"code", userMsg.Code,
		"error", err.Error(),
	)
	if status >= http.StatusInternalServerError {
		logger.Error("request error")
	} else {
		logger.Warn("request rejected")
	}

	switch {
	case isHTMX(r):
		renderErrorPartial(w, r, userMsg, status)
	case wantsJSON(r):
		writeJSON(w, status, ErrorResponse{
			Error:   userMsg.Message,
			Message: userMsg.Message,
			Action:  userMsg.Action,
			Code:    userMsg.Code,
		})
	default:
		http.Error(w, userMsg.Message+" ("+userMsg.Code+")", status)
	}
}

// renderErrorPartial renders the error alert into #errors regardless of the
// element the request targeted.
func renderErrorPartial(w http.ResponseWriter, r *http.Request, msg core.UserMessage, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("HX-Retarget", "#errors")
	w.Header().Set("HX-Reswap", "innerHTML")
	w.WriteHeader(status)
	_ = templates.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(r.Context(), w)
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// wantsJSON checks if the client prefers a JSON response. API routes
// default to JSON.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/api/")
}
