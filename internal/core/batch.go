package core

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BatchReader drives one import file through validation and creation.
// Rows are handled strictly in file order, one at a time.
type BatchReader struct {
	source     Source
	validator  *RowValidator
	creator    *UserCreator
	maxRetries int
	log        *zap.Logger
	progress   *zap.Logger
}

// BatchConfig wires a BatchReader.
type BatchConfig struct {
	Source     Source
	Validator  *RowValidator
	Creator    *UserCreator
	MaxRetries int
	Log        *zap.Logger // durable, severity-routed
	Progress   *zap.Logger // console
}

// NewBatchReader creates a BatchReader. Creator is required. A nil Source
// reads from the working directory and MaxRetries <= 0 uses DefaultMaxRetries.
func NewBatchReader(cfg BatchConfig) (*BatchReader, error) {
	if cfg.Creator == nil {
		return nil, ErrNoCreator
	}
	if cfg.Source == nil {
		cfg.Source = NewLocalSource(".")
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	if cfg.Progress == nil {
		cfg.Progress = zap.NewNop()
	}
	if cfg.Validator == nil {
		cfg.Validator = NewRowValidator(cfg.Log, cfg.Progress)
	}
	return &BatchReader{
		source:     cfg.Source,
		validator:  cfg.Validator,
		creator:    cfg.Creator,
		maxRetries: cfg.MaxRetries,
		log:        cfg.Log,
		progress:   cfg.Progress,
	}, nil
}

// ProcessBatch imports every record of sourcePath.
//
// Source, header and schema problems are fatal before any row is touched.
// Invalid rows are skipped and creation failures are retried then given up on;
// neither stops the batch. Anything unanticipated while iterating (a malformed
// CSV line, a panic in a step, cancellation) halts processing.
//
// Every returned error has already been logged; it is a *FatalBatchError so
// callers can pick an exit code.
func (b *BatchReader) ProcessBatch(ctx context.Context, sourcePath string, schema Schema, requiredFields []string) (BatchSummary, error) {
	summary := BatchSummary{RunID: uuid.NewString()}
	log := b.log.With(zap.String("run_id", summary.RunID), zap.String("source", sourcePath))
	progress := b.progress.With(zap.String("run_id", summary.RunID))

	fail := func(fatal *FatalBatchError, msg string, fields ...zap.Field) (BatchSummary, error) {
		fields = append(fields, zap.Error(fatal))
		log.Error(msg, fields...)
		progress.Error(msg, zap.Error(fatal))
		return summary, fatal
	}

	rc, err := b.source.Open(ctx, sourcePath)
	if err != nil {
		return fail(&FatalBatchError{Kind: ErrSourceUnavailable, Err: err}, "cannot open source file")
	}
	defer rc.Close()

	reader := csv.NewReader(NewSourceReader(rc))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) || (err == nil && isBlankRow(header)) {
		return fail(&FatalBatchError{Kind: ErrMissingHeaders}, "empty or missing headers")
	}
	if err != nil {
		return fail(&FatalBatchError{Kind: ErrSourceUnavailable, Err: err}, "cannot read source file")
	}

	idx := MakeHeaderIndex(header)
	if missing := MissingColumns(idx, schema); len(missing) > 0 {
		available := make([]string, 0, len(header))
		for _, h := range header {
			available = append(available, CleanCell(h))
		}
		return fail(
			&FatalBatchError{Kind: ErrMissingColumns, Err: fmt.Errorf("missing %s", strings.Join(missing, ", "))},
			"source is missing expected columns",
			zap.Strings("expected", schema),
			zap.Strings("available", available),
			zap.Strings("missing", missing),
		)
	}

	log.Info("batch started", zap.Strings("columns", schema))
	progress.Info("batch started", zap.String("source", sourcePath))

	for {
		if err := ctx.Err(); err != nil {
			return fail(&FatalBatchError{Kind: ErrUnexpected, Err: err}, "batch interrupted")
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var line int
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				line = parseErr.StartLine
			}
			return fail(&FatalBatchError{Kind: ErrUnexpected, Line: line, Err: err}, "unexpected error while reading source")
		}
		line, _ := reader.FieldPos(0)

		summary.Read++
		record := BuildRecord(header, idx, schema, row)
		if err := b.processRow(ctx, record, requiredFields, &summary); err != nil {
			return fail(&FatalBatchError{Kind: ErrUnexpected, Line: line, Err: err}, "unexpected error while processing record",
				zap.Object("record", record))
		}
	}

	fields := []zap.Field{
		zap.Int("read", summary.Read),
		zap.Int("created", summary.Created),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
	}
	log.Info("batch complete", fields...)
	progress.Info("batch complete", fields...)
	return summary, nil
}

// processRow validates and submits one record. A panic in either step comes
// back as an error so the batch can stop cleanly.
func (b *BatchReader) processRow(ctx context.Context, record Record, requiredFields []string, summary *BatchSummary) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	normalized, keep := b.validator.Validate(record, requiredFields)
	if !keep {
		summary.Skipped++
		return nil
	}

	outcome := b.creator.CreateUser(ctx, normalized, b.maxRetries)
	if outcome.Created {
		summary.Created++
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(outcome.Err, ctxErr) {
		return outcome.Err
	}
	summary.Failed++
	return nil
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if CleanCell(v) != "" {
			return false
		}
	}
	return true
}
