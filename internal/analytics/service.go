package analytics

import (
	"ScholarsBox/internal/scholarship"
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// RecordFinder is the read side of the record store.
type RecordFinder interface {
	Find(ctx context.Context, filter bson.M) ([]*scholarship.ScholarshipRecord, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
}

type AnalyticsService struct {
	records RecordFinder
}

func NewAnalyticsService(records RecordFinder) *AnalyticsService {
	return &AnalyticsService{records: records}
}

// Analytics summarises every record matching f.
func (s *AnalyticsService) Analytics(ctx context.Context, f Filter) (*Summary, error) {
	recs, err := s.records.Find(ctx, f.Predicate())
	if err != nil {
		return nil, fmt.Errorf("find filtered records: %w", err)
	}
	return Summarize(recs), nil
}

func (s *AnalyticsService) Dashboard(ctx context.Context) (*DashboardCounts, error) {
	total, err := s.records.Count(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}
	selected, err := s.records.Count(ctx, bson.M{"status": scholarship.StatusSelected})
	if err != nil {
		return nil, fmt.Errorf("count selected records: %w", err)
	}
	notSelected, err := s.records.Count(ctx, bson.M{"status": scholarship.StatusNotSelected})
	if err != nil {
		return nil, fmt.Errorf("count not selected records: %w", err)
	}
	return &DashboardCounts{TotalScholarships: total, SelectCount: selected, NotSelectCount: notSelected}, nil
}
