// Package core provides the business logic for bulk user imports.
// This package has no transport dependencies; the creation endpoint is
// reached through the UserClient interface.
package core

import (
	"context"
	"sort"

	"go.uber.org/zap/zapcore"
)

// Column names of an import file.
const (
	ColumnName  = "name"
	ColumnEmail = "email"
	ColumnRole  = "role"
)

// DefaultRole is assigned to records without a role.
const DefaultRole = "user"

// DefaultMaxRetries is the creation attempt budget per record.
const DefaultMaxRetries = 3

// Schema is the ordered set of columns a source must contain.
type Schema []string

// DefaultSchema is the header shape of a user import file.
var DefaultSchema = Schema{ColumnName, ColumnEmail, ColumnRole}

// DefaultRequiredFields are the columns that must be non-empty per record.
var DefaultRequiredFields = []string{ColumnEmail}

// Record is one row of input keyed by column name.
type Record map[string]string

// Clone returns an independent copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// MarshalLogObject writes the record with sorted keys so log lines are stable.
func (r Record) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		enc.AddString(k, r[k])
	}
	return nil
}

// HeaderIndex maps column names (lowercase) to their position in the CSV row.
type HeaderIndex map[string]int

// CreateResponse is what the creation endpoint answered.
type CreateResponse struct {
	StatusCode int
	Body       string
}

// UserClient submits one record to the creation endpoint.
// A non-nil error means no response was obtained.
type UserClient interface {
	CreateUser(ctx context.Context, record Record) (CreateResponse, error)
}

// Outcome is the result of creating one record.
type Outcome struct {
	Created    bool
	Attempts   int
	StatusCode int   // last status received, zero if none
	Err        error // last failure, nil when Created
}

// BatchSummary counts what happened to the rows of one source.
type BatchSummary struct {
	RunID   string
	Read    int
	Skipped int
	Created int
	Failed  int
}
