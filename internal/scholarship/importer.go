package scholarship

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	ErrMalformedCSV = errors.New("malformed CSV file")
	ErrEmptyCSV     = errors.New("CSV file has no header row")
)

// Importer turns an uploaded CSV batch into one reconciled write against the
// record store.
type Importer struct {
	store     Store
	validator *RecordValidator
	logger    *zap.Logger
	now       func() time.Time
}

func NewImporter(store Store, logger *zap.Logger) *Importer {
	return &Importer{
		store:     store,
		validator: NewRecordValidator(),
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// batch is the outcome of parsing and validating one CSV file.
type batch struct {
	accepted []*ScholarshipRecord
	invalid  []InvalidRecord
	parsed   int
}

// parse reads the CSV row by row. Each row is coerced and validated before
// the next one is read; rejected rows are collected, never fatal.
func (im *Importer) parse(r io.Reader) (*batch, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyCSV
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}
	columns := newColumnMap(headers)
	checker := NewBatchValidator(im.validator)
	now := im.now()

	b := &batch{invalid: []InvalidRecord{}}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
		}
		if blankRow(row) {
			continue
		}
		b.parsed++
		line, _ := reader.FieldPos(0)

		rec, raw := columns.toRecord(row)
		if problems := checker.Check(rec); len(problems) > 0 {
			b.invalid = append(b.invalid, InvalidRecord{
				Row:    line,
				Record: raw,
				Error:  strings.Join(problems, "; "),
			})
			continue
		}
		rec.CreatedAt = now
		rec.UpdatedAt = now
		b.accepted = append(b.accepted, rec)
	}
	return b, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if trim(cell) != "" {
			return false
		}
	}
	return true
}

// Import reconciles the batch with one bulk upsert keyed by email.
func (im *Importer) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	b, err := im.parse(r)
	if err != nil {
		return nil, err
	}

	res, err := im.store.BulkUpsert(ctx, b.accepted)
	if err != nil {
		return nil, fmt.Errorf("bulk upsert of %d records: %w", len(b.accepted), err)
	}

	result := &ImportResult{
		UpdatedCount:   res.Matched,
		InsertedCount:  res.Upserted,
		InvalidRecords: b.invalid,
		ParsedRows:     b.parsed,
	}
	im.logSummary(result)
	return result, nil
}

// ImportSerial is the per-row variant: it looks each email up and either
// inserts the record or updates its status when the file carries one that
// differs. It is not atomic
// across rows and a concurrent import can race it on the same email; the
// unique email index turns such a race into a failed insert.
func (im *Importer) ImportSerial(ctx context.Context, r io.Reader) (*ImportResult, error) {
	b, err := im.parse(r)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{InvalidRecords: b.invalid, ParsedRows: b.parsed}
	for _, rec := range b.accepted {
		existing, err := im.store.FindByEmail(ctx, rec.Email)
		if err != nil {
			return nil, fmt.Errorf("look up %s: %w", rec.Email, err)
		}
		if existing == nil {
			if err := im.store.Insert(ctx, rec); err != nil {
				return nil, fmt.Errorf("insert %s: %w", rec.Email, err)
			}
			result.InsertedCount++
			continue
		}
		if rec.supplies("status") && existing.Status != rec.Status {
			if err := im.store.UpdateStatus(ctx, rec.Email, rec.Status); err != nil {
				return nil, fmt.Errorf("update status of %s: %w", rec.Email, err)
			}
		}
		result.UpdatedCount++
	}
	im.logSummary(result)
	return result, nil
}

// ImportFile imports a saved upload and removes it whatever the outcome.
func (im *Importer) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			im.logger.Warn("Failed to remove uploaded file", zap.String("path", path), zap.Error(err))
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	return im.Import(ctx, f)
}

func (im *Importer) logSummary(result *ImportResult) {
	im.logger.Info("CSV import finished",
		zap.Int("parsed", result.ParsedRows),
		zap.Int("inserted", result.InsertedCount),
		zap.Int("updated", result.UpdatedCount),
		zap.Int("invalid", len(result.InvalidRecords)))
}
