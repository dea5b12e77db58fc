package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "missing headers",
			err:         &FatalBatchError{Kind: ErrMissingHeaders},
			wantCode:    "SRC002",
			wantMessage: "The import file has no header row",
		},
		{
			name:        "missing columns",
			err:         &FatalBatchError{Kind: ErrMissingColumns, Err: errors.New("missing email")},
			wantCode:    "SRC003",
			wantMessage: "The import file is missing expected columns",
		},
		{
			name:        "source unavailable",
			err:         &FatalBatchError{Kind: ErrSourceUnavailable, Err: errors.New("stat file x.csv: no such file or directory")},
			wantCode:    "SRC001",
			wantMessage: "The import file could not be opened or read",
		},
		{
			name:        "cancellation wins over unexpected",
			err:         &FatalBatchError{Kind: ErrUnexpected, Err: context.Canceled},
			wantCode:    "SRC004",
			wantMessage: "The import was interrupted",
		},
		{
			name:        "unexpected row error",
			err:         &FatalBatchError{Kind: ErrUnexpected, Line: 4, Err: errors.New("bare quote")},
			wantCode:    "SRC004",
			wantMessage: "The import stopped on an unexpected error",
		},
		{
			name:        "skippable row",
			err:         &SkippableRowError{Field: "email", Err: ErrMissingField},
			wantCode:    "ROW001",
			wantMessage: "A record is missing a required field",
		},
		{
			name:        "invalid email",
			err:         &SkippableRowError{Field: "email", Err: ErrInvalidEmail},
			wantCode:    "ROW002",
			wantMessage: "A record has an invalid email address",
		},
		{
			name:        "retries exhausted",
			err:         fmt.Errorf("%w after 3 attempts: %w", ErrRetriesExhausted, ErrUnexpectedStatus),
			wantCode:    "NET003",
			wantMessage: "A user could not be created after all attempts",
		},
		{
			name:        "connection refused",
			err:         errors.New("dial tcp 127.0.0.1:5000: connect: connection refused"),
			wantCode:    "NET001",
			wantMessage: "The creation service refused the connection",
		},
		{
			name:        "client timeout",
			err:         errors.New("Post \"http://x\": context deadline exceeded (Client.Timeout exceeded)"),
			wantCode:    "NET002",
			wantMessage: "The creation service timed out",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("something strange happened"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() Code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() Message = %q, want %q", got.Message, tt.wantMessage)
			}
			if tt.err != nil && got.Action == "" {
				t.Error("MapError() Action is empty")
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}

	got := FormatUserError(&FatalBatchError{Kind: ErrMissingHeaders})
	if !strings.HasPrefix(got, "The import file has no header row (Code: SRC002). ") {
		t.Errorf("FormatUserError() = %q", got)
	}
}
