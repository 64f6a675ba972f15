package core

// error_messages.go maps technical errors to user-facing messages.
//
// When users encounter errors, they can quote the code to support staff for
// faster diagnosis. Known sentinel errors are matched with errors.Is first;
// anything else falls through to case-insensitive substring patterns.
//
// # Comparison (CMP001-CMP099)
//
//	CMP001 - Inputs missing: compare ran before both files were loaded
//	         Action: Upload the key file and the translation table first
//	CMP002 - No report: nothing to show or export yet
//	         Action: Run a comparison first
//
// # Sources (SRC001-SRC099)
//
//	SRC001 - Malformed key file: the key document is not a JSON object
//	SRC002 - Malformed table: the table could not be read as CSV or XLSX
//
// # Files (FILE001-FILE099)
//
//	FILE001 - File too large
//	FILE004 - No file selected
//	FILE005 - Empty file
//
// # Uploads and requests (UPL001-UPL099)
//
//	UPL002 - System busy: every parse slot is taken
//	UPL004 - Request cancelled
//	UPL005 - Request timed out
//
// # Other
//
//	SES001  - Session expired or unknown
//	ACK001  - Unknown acknowledgement track
//	RATE001 - Rate limited
//	ERR000  - Fallback; check the logs for the technical error

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/keydrift/internal/compare"
	"github.com/JonMunkholm/keydrift/internal/source"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var (
	msgInputsMissing = UserMessage{
		Message: "Both files are needed before comparing",
		Action:  "Upload the key file and the translation table, then compare again",
		Code:    "CMP001",
	}
	msgNoReport = UserMessage{
		Message: "There is no comparison result yet",
		Action:  "Run a comparison first",
		Code:    "CMP002",
	}
	msgMalformedKeys = UserMessage{
		Message: "The key file could not be read",
		Action:  "Upload a JSON file whose top level is an object of keys",
		Code:    "SRC001",
	}
	msgMalformedTable = UserMessage{
		Message: "The translation table could not be read",
		Action:  "Upload a CSV or XLSX export with a header row",
		Code:    "SRC002",
	}
	msgTooLarge = UserMessage{
		Message: "File exceeds the maximum upload size",
		Action:  "Remove unused columns or split the export",
		Code:    "FILE001",
	}
	msgNoFile = UserMessage{
		Message: "No file was selected",
		Action:  "Please select a file to upload",
		Code:    "FILE004",
	}
	msgEmptyFile = UserMessage{
		Message: "The uploaded file is empty",
		Action:  "Please upload a file with content",
		Code:    "FILE005",
	}
	msgBusy = UserMessage{
		Message: "Too many uploads in progress",
		Action:  "Please wait a moment and try again",
		Code:    "UPL002",
	}
	msgCancelled = UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "UPL004",
	}
	msgTimeout = UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller file or check your connection",
		Code:    "UPL005",
	}
	msgSession = UserMessage{
		Message: "Your session has expired",
		Action:  "Reload the page and upload the files again",
		Code:    "SES001",
	}
	msgTrack = UserMessage{
		Message: "Unknown acknowledgement list",
		Action:  "Use either the missing keys or the translation issues list",
		Code:    "ACK001",
	}
	msgRateLimited = UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}
)

// sentinelMessages is checked in order; size and emptiness come before the
// malformed-source wrappers that carry them.
var sentinelMessages = []struct {
	err error
	msg UserMessage
}{
	{compare.ErrInputsMissing, msgInputsMissing},
	{ErrNoReport, msgNoReport},
	{source.ErrFileTooLarge, msgTooLarge},
	{source.ErrEmptyFile, msgEmptyFile},
	{ErrNoFile, msgNoFile},
	{compare.ErrMalformedKeySource, msgMalformedKeys},
	{compare.ErrMalformedTableSource, msgMalformedTable},
	{ErrTooManyUploads, msgBusy},
	{ErrSessionNotFound, msgSession},
	{compare.ErrUnknownTrack, msgTrack},
	{context.Canceled, msgCancelled},
	{context.DeadlineExceeded, msgTimeout},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns covers errors that arrive as text only, e.g. from a proxy or
// a wrapped driver error. The first matching pattern wins.
var errorPatterns = []errorPattern{
	{"request body too large", msgTooLarge},
	{"file too large", msgTooLarge},
	{"no such file", msgNoFile},
	{"rate limit", msgRateLimited},
	{"context canceled", msgCancelled},
	{"context deadline exceeded", msgTimeout},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. Known
// sentinels are matched first, then text patterns; anything else maps to
// ERR000. A nil error maps to the zero UserMessage.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, s := range sentinelMessages {
		if errors.Is(err, s.err) {
			return s.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message. Error()
// returns the user message; Unwrap exposes the original for logging.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
