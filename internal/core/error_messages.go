package core

// error_messages.go maps import failures to operator-facing messages with codes.
//
// Codes:
//
//	SRC001 - Source file could not be opened or read
//	SRC002 - Source file has no header row
//	SRC003 - Source file is missing expected columns
//	SRC004 - Import stopped on an unexpected error while processing rows
//	ROW001 - A record is missing a required field
//	ROW002 - A record has an invalid email address
//	NET001 - The creation endpoint refused the connection
//	NET002 - The creation endpoint timed out
//	NET003 - The creation endpoint kept answering with a non-created status
//	ERR000 - Anything else

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// sentinelMessages are checked with errors.Is in order; the first match wins.
var sentinelMessages = []struct {
	err error
	msg UserMessage
}{
	{ErrMissingHeaders, UserMessage{"The import file has no header row", "Add a first line with the column names name,email,role", "SRC002"}},
	{ErrMissingColumns, UserMessage{"The import file is missing expected columns", "Check the header row against the expected columns listed in the error log", "SRC003"}},
	{ErrSourceUnavailable, UserMessage{"The import file could not be opened or read", "Check the path and that the file is a readable CSV", "SRC001"}},
	{context.Canceled, UserMessage{"The import was interrupted", "Re-run the import; rows already created will be submitted again", "SRC004"}},
	{ErrUnexpected, UserMessage{"The import stopped on an unexpected error", "See error.log for the failing line and fix the file before re-running", "SRC004"}},
	{ErrMissingField, UserMessage{"A record is missing a required field", "Fill in the column named in warning.log", "ROW001"}},
	{ErrInvalidEmail, UserMessage{"A record has an invalid email address", "Use the form name@domain.tld", "ROW002"}},
	{ErrRetriesExhausted, UserMessage{"A user could not be created after all attempts", "Check the creation service and re-import the failed records", "NET003"}},
}

// errorPatterns match transport failures that do not carry a sentinel.
var errorPatterns = []struct {
	pattern string
	msg     UserMessage
}{
	{"connection refused", UserMessage{"The creation service refused the connection", "Check IMPORT_ENDPOINT and that the service is running", "NET001"}},
	{"timeout", UserMessage{"The creation service timed out", "Raise IMPORT_REQUEST_TIMEOUT or try again later", "NET002"}},
	{"deadline exceeded", UserMessage{"The creation service timed out", "Raise IMPORT_REQUEST_TIMEOUT or try again later", "NET002"}},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check error.log for details",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.msg
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
