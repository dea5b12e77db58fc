package core

// validation.go provides row-level validation for user records before creation.
//
// A record is rejected (skipped) when a required field is missing or empty, or
// when its email does not look like local@domain.tld. Kept records are
// normalized: a missing name is derived from the email local part and a
// missing role defaults to DefaultRole. Validate never mutates its input; it
// returns a normalized copy.

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
)

// emailPattern is local-part@domain.tld where the domain part holds a dot.
var emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

// RowValidator checks and normalizes records.
type RowValidator struct {
	log      *zap.Logger
	progress *zap.Logger
}

// NewRowValidator creates a validator that reports skips to log and traces
// every processed record to progress.
func NewRowValidator(log, progress *zap.Logger) *RowValidator {
	if log == nil {
		log = zap.NewNop()
	}
	if progress == nil {
		progress = zap.NewNop()
	}
	return &RowValidator{log: log, progress: progress}
}

// Validate returns the normalized record and whether it should be submitted.
// Rejections are logged at WARN with the offending field and the full record.
func (v *RowValidator) Validate(record Record, requiredFields []string) (Record, bool) {
	v.progress.Info("processing record", zap.Object("record", record))

	normalized, err := Check(record, requiredFields)
	if err != nil {
		v.log.Warn("skipping record",
			zap.String("reason", err.Err.Error()),
			zap.String("field", err.Field),
			zap.Object("record", record),
		)
		v.progress.Warn("skipping record", zap.String("reason", err.Error()))
		return nil, false
	}

	return normalized, true
}

// Check is the pure form of Validate. It returns the first rule the record
// breaks, checking required fields in order before the email format.
func Check(record Record, requiredFields []string) (Record, *SkippableRowError) {
	out := make(Record, len(record))
	for k, val := range record {
		out[k] = strings.TrimSpace(val)
	}

	for _, field := range requiredFields {
		if out[strings.ToLower(field)] == "" {
			return nil, &SkippableRowError{Field: field, Err: ErrMissingField}
		}
	}

	email := out[ColumnEmail]
	if email != "" && !emailPattern.MatchString(email) {
		return nil, &SkippableRowError{Field: ColumnEmail, Err: ErrInvalidEmail}
	}

	if email != "" && out[ColumnName] == "" {
		out[ColumnName] = capitalize(email[:strings.IndexByte(email, '@')])
	}

	if out[ColumnRole] == "" {
		out[ColumnRole] = DefaultRole
	}

	return out, nil
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
