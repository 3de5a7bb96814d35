package scholarship

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	// maxPage keeps the skip offset far inside int64 for any page size.
	maxPage = 1_000_000
)

// ValidationError carries the rule failures of a directly entered record.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

// ScholarshipService handles direct administrative entry, edits, deletes
// and the public result lookup.
type ScholarshipService struct {
	store     Store
	validator *RecordValidator
}

func NewScholarshipService(store Store) *ScholarshipService {
	return &ScholarshipService{store: store, validator: NewRecordValidator()}
}

func (s *ScholarshipService) Get(ctx context.Context, email string) (*ScholarshipRecord, error) {
	rec, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (s *ScholarshipService) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Page > maxPage {
		q.Page = maxPage
	}
	if q.Limit < 1 {
		q.Limit = defaultPageSize
	}
	if q.Limit > maxPageSize {
		q.Limit = maxPageSize
	}
	q.Search = strings.TrimSpace(q.Search)

	recs, total, err := s.store.List(ctx, q)
	if err != nil {
		return nil, err
	}
	pages := total / int64(q.Limit)
	if total%int64(q.Limit) != 0 {
		pages++
	}
	return &ListResult{Data: recs, Total: total, Page: q.Page, Limit: q.Limit, TotalPages: pages}, nil
}

func (s *ScholarshipService) Create(ctx context.Context, rec *ScholarshipRecord) error {
	rec.Normalize()
	if problems := s.validator.Validate(rec); len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	now := time.Now().UTC()
	rec.ID = primitive.NilObjectID
	rec.CreatedAt = now
	rec.UpdatedAt = now
	return s.store.Insert(ctx, rec)
}

// Replace overwrites the record stored under email with rec. The email key
// itself is taken from the lookup, not from the body.
func (s *ScholarshipService) Replace(ctx context.Context, email string, rec *ScholarshipRecord) (*ScholarshipRecord, error) {
	rec.Email = email
	rec.Normalize()
	if problems := s.validator.Validate(rec); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	rec.UpdatedAt = time.Now().UTC()

	updated, err := s.store.UpdateByEmail(ctx, rec.Email, rec)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

func (s *ScholarshipService) Delete(ctx context.Context, email string) error {
	return s.store.DeleteByEmail(ctx, email)
}

// CheckResult reports whether the applicant with email was selected.
func (s *ScholarshipService) CheckResult(ctx context.Context, email string) (bool, error) {
	rec, err := s.Get(ctx, email)
	if err != nil {
		return false, err
	}
	return rec.IsSelected(), nil
}
