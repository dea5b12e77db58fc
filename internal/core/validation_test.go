package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name      string
		record    Record
		required  []string
		want      Record
		wantField string
		wantErr   error
	}{
		{
			name:     "complete record kept as is",
			record:   Record{"name": "Ann", "email": "ann@example.com", "role": "admin"},
			required: []string{"email"},
			want:     Record{"name": "Ann", "email": "ann@example.com", "role": "admin"},
		},
		{
			name:     "missing name derived from email",
			record:   Record{"name": "", "email": "jane.doe@example.com", "role": "admin"},
			required: []string{"email"},
			want:     Record{"name": "Jane.doe", "email": "jane.doe@example.com", "role": "admin"},
		},
		{
			name:     "derived name lowercases the rest",
			record:   Record{"email": "JANE.DOE@example.com"},
			required: []string{"email"},
			want:     Record{"name": "Jane.doe", "email": "JANE.DOE@example.com", "role": "user"},
		},
		{
			name:     "missing role defaults to user",
			record:   Record{"name": "Bob", "email": "bob@example.com", "role": ""},
			required: []string{"email"},
			want:     Record{"name": "Bob", "email": "bob@example.com", "role": "user"},
		},
		{
			name:     "values are trimmed",
			record:   Record{"name": "  Bob ", "email": " bob@example.com ", "role": " admin"},
			required: []string{"email"},
			want:     Record{"name": "Bob", "email": "bob@example.com", "role": "admin"},
		},
		{
			name:     "extra columns pass through",
			record:   Record{"name": "Bob", "email": "bob@example.com", "role": "user", "team": "ops"},
			required: []string{"email"},
			want:     Record{"name": "Bob", "email": "bob@example.com", "role": "user", "team": "ops"},
		},
		{
			name:      "empty required email",
			record:    Record{"name": "Bob", "email": "", "role": "user"},
			required:  []string{"email"},
			wantField: "email",
			wantErr:   ErrMissingField,
		},
		{
			name:      "whitespace only is empty",
			record:    Record{"name": "Bob", "email": "   "},
			required:  []string{"email"},
			wantField: "email",
			wantErr:   ErrMissingField,
		},
		{
			name:      "absent required field",
			record:    Record{"email": "bob@example.com"},
			required:  []string{"email", "name"},
			wantField: "name",
			wantErr:   ErrMissingField,
		},
		{
			name:      "required fields checked in order",
			record:    Record{},
			required:  []string{"role", "email"},
			wantField: "role",
			wantErr:   ErrMissingField,
		},
		{
			name:      "required field names are case insensitive",
			record:    Record{"email": ""},
			required:  []string{"Email"},
			wantField: "Email",
			wantErr:   ErrMissingField,
		},
		{
			name:     "optional empty email is not checked",
			record:   Record{"name": "Bob", "email": ""},
			required: []string{"name"},
			want:     Record{"name": "Bob", "email": "", "role": "user"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Check(tt.record, tt.required)
			if tt.wantErr != nil {
				require.NotNil(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.wantField, err.Field)
				assert.Nil(t, got)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheck_InvalidEmails(t *testing.T) {
	for _, email := range []string{
		"invalid-email",
		"missing-at.example.com",
		"no-dot@example",
		"two@@example.com",
		"@example.com",
		"user@.",
	} {
		t.Run(email, func(t *testing.T) {
			_, err := Check(Record{"email": email}, DefaultRequiredFields)
			require.NotNil(t, err)
			assert.ErrorIs(t, err, ErrInvalidEmail)
			assert.Equal(t, ColumnEmail, err.Field)
		})
	}
}

func TestCheck_DoesNotMutateInput(t *testing.T) {
	in := Record{"name": "", "email": " jane@example.com ", "role": ""}
	orig := in.Clone()

	out, err := Check(in, DefaultRequiredFields)
	require.Nil(t, err)

	assert.Equal(t, orig, in)
	out["name"] = "changed"
	assert.Equal(t, "", in["name"])
}

func TestCapitalize(t *testing.T) {
	tests := map[string]string{
		"jane.doe": "Jane.doe",
		"Jane.Doe": "Jane.doe",
		"ADMIN":    "Admin",
		"élodie":   "Élodie",
		"x":        "X",
		"":         "",
	}
	for in, want := range tests {
		assert.Equal(t, want, capitalize(in), "capitalize(%q)", in)
	}
}

func TestRowValidator_LogsSkipAsWarning(t *testing.T) {
	log, logs := observed()
	progress, progressLogs := observed()
	v := NewRowValidator(log, progress)

	rec := Record{"name": "Bob", "email": "invalid-email", "role": "user"}
	out, keep := v.Validate(rec, DefaultRequiredFields)

	assert.False(t, keep)
	assert.Nil(t, out)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "skipping record", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "invalid email format", fields["reason"])
	assert.Equal(t, "email", fields["field"])
	assert.Equal(t, map[string]interface{}{"name": "Bob", "email": "invalid-email", "role": "user"}, fields["record"])

	assert.Equal(t, 1, progressLogs.FilterMessage("processing record").Len())
}

func TestRowValidator_KeptRecordLogsNothingDurable(t *testing.T) {
	log, logs := observed()
	v := NewRowValidator(log, nil)

	out, keep := v.Validate(Record{"email": "ann@example.com"}, DefaultRequiredFields)

	assert.True(t, keep)
	assert.Equal(t, "Ann", out["name"])
	assert.Equal(t, 0, logs.Len())
}
