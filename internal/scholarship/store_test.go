package scholarship

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is an in-memory Store keyed by email.
type memStore struct {
	mu      sync.Mutex
	records map[string]*ScholarshipRecord
	err     error

	statusUpdates int
}

func newMemStore(seed ...*ScholarshipRecord) *memStore {
	s := &memStore{records: map[string]*ScholarshipRecord{}}
	for _, rec := range seed {
		rec.Normalize()
		if rec.ID.IsZero() {
			rec.ID = primitive.NewObjectID()
		}
		s.records[rec.Email] = rec
	}
	return s
}

func (s *memStore) get(email string) *ScholarshipRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[NormalizeEmail(email)]
}

func (s *memStore) FindByEmail(_ context.Context, email string) (*ScholarshipRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	rec := s.get(email)
	if rec == nil {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (s *memStore) Find(_ context.Context, filter bson.M) ([]*ScholarshipRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*ScholarshipRecord
	for _, rec := range s.sorted() {
		if status, ok := filter["status"]; ok && rec.Status != status {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *memStore) Count(ctx context.Context, filter bson.M) (int64, error) {
	recs, err := s.Find(ctx, filter)
	return int64(len(recs)), err
}

func (s *memStore) List(_ context.Context, q ListQuery) ([]*ScholarshipRecord, int64, error) {
	if s.err != nil {
		return nil, 0, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []*ScholarshipRecord
	for _, rec := range s.sorted() {
		if q.Search == "" || strings.Contains(strings.ToLower(rec.Name), strings.ToLower(q.Search)) {
			matched = append(matched, rec)
		}
	}
	start := (q.Page - 1) * q.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], int64(len(matched)), nil
}

func (s *memStore) sorted() []*ScholarshipRecord {
	out := make([]*ScholarshipRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}

func (s *memStore) Insert(_ context.Context, rec *ScholarshipRecord) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[rec.Email]; ok {
		return ErrDuplicateEmail
	}
	if rec.ID.IsZero() {
		rec.ID = primitive.NewObjectID()
	}
	cp := *rec
	s.records[rec.Email] = &cp
	return nil
}

// BulkUpsert applies the same $set / $setOnInsert split the Mongo store sends.
func (s *memStore) BulkUpsert(_ context.Context, recs []*ScholarshipRecord) (UpsertResult, error) {
	if s.err != nil {
		return UpsertResult{}, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var res UpsertResult
	for _, rec := range recs {
		set, onInsert, err := upsertDocuments(rec)
		if err != nil {
			return res, err
		}
		doc := bson.M{}
		if existing, ok := s.records[rec.Email]; ok {
			if doc, err = toDocument(existing); err != nil {
				return res, err
			}
			res.Matched++
		} else {
			doc["_id"] = primitive.NewObjectID()
			for field, value := range onInsert {
				doc[field] = value
			}
			res.Upserted++
		}
		for field, value := range set {
			doc[field] = value
		}
		merged, err := fromDocument(doc)
		if err != nil {
			return res, err
		}
		s.records[rec.Email] = merged
	}
	return res, nil
}

func toDocument(rec *ScholarshipRecord) (bson.M, error) {
	raw, err := bson.Marshal(rec)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func fromDocument(doc bson.M) (*ScholarshipRecord, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var rec ScholarshipRecord
	if err := bson.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *memStore) UpdateByEmail(_ context.Context, email string, rec *ScholarshipRecord) (*ScholarshipRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.records[NormalizeEmail(email)]
	if !ok {
		return nil, nil
	}
	cp := *rec
	cp.ID = existing.ID
	cp.CreatedAt = existing.CreatedAt
	s.records[cp.Email] = &cp
	out := cp
	return &out, nil
}

func (s *memStore) UpdateStatus(_ context.Context, email, status string) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[NormalizeEmail(email)]
	if !ok {
		return ErrNotFound
	}
	rec.Status = status
	s.statusUpdates++
	return nil
}

func (s *memStore) DeleteByEmail(_ context.Context, email string) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := NormalizeEmail(email)
	if _, ok := s.records[key]; !ok {
		return ErrNotFound
	}
	delete(s.records, key)
	return nil
}

func validRecord(email string) *ScholarshipRecord {
	return &ScholarshipRecord{
		Email:           email,
		Name:            "Asha Rao",
		Gender:          "female",
		ScholarshipName: "Merit",
		State:           "Kerala",
		Status:          StatusNotSelected,
	}
}
