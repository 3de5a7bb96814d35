package scholarship

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound       = errors.New("scholarship record not found")
	ErrDuplicateEmail = errors.New("a record with this email already exists")
)

// Store is the record store the importer and the CRUD service work against.
type Store interface {
	FindByEmail(ctx context.Context, email string) (*ScholarshipRecord, error)
	Find(ctx context.Context, filter bson.M) ([]*ScholarshipRecord, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	List(ctx context.Context, q ListQuery) ([]*ScholarshipRecord, int64, error)
	Insert(ctx context.Context, rec *ScholarshipRecord) error
	BulkUpsert(ctx context.Context, recs []*ScholarshipRecord) (UpsertResult, error)
	UpdateByEmail(ctx context.Context, email string, rec *ScholarshipRecord) (*ScholarshipRecord, error)
	UpdateStatus(ctx context.Context, email, status string) error
	DeleteByEmail(ctx context.Context, email string) error
}

// ScholarshipRepository is the MongoDB Store.
type ScholarshipRepository struct {
	collection *mongo.Collection
}

func NewScholarshipRepository(db *mongo.Database) *ScholarshipRepository {
	return &ScholarshipRepository{collection: db.Collection("scholarships")}
}

func (r *ScholarshipRepository) FindByEmail(ctx context.Context, email string) (*ScholarshipRecord, error) {
	var rec ScholarshipRecord
	err := r.collection.FindOne(ctx, bson.M{"email": NormalizeEmail(email)}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *ScholarshipRepository) Find(ctx context.Context, filter bson.M) ([]*ScholarshipRecord, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var recs []*ScholarshipRecord
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *ScholarshipRepository) Count(ctx context.Context, filter bson.M) (int64, error) {
	return r.collection.CountDocuments(ctx, filter)
}

// List returns one page of records, newest first, optionally narrowed by a
// case-insensitive search over name, email, scholarship and state.
func (r *ScholarshipRepository) List(ctx context.Context, q ListQuery) ([]*ScholarshipRecord, int64, error) {
	filter := bson.M{}
	if q.Search != "" {
		pattern := searchPattern(q.Search)
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"email": pattern},
			bson.M{"scholarshipName": pattern},
			bson.M{"state": pattern},
		}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(q.Page-1) * int64(q.Limit)).
		SetLimit(int64(q.Limit))
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	recs := []*ScholarshipRecord{}
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, 0, err
	}
	return recs, total, nil
}

func searchPattern(search string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
}

func (r *ScholarshipRepository) Insert(ctx context.Context, rec *ScholarshipRecord) error {
	if rec.ID.IsZero() {
		rec.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, rec)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// BulkUpsert writes every record as an upsert keyed by email in one unordered
// bulk write. Matched documents are overwritten only in the fields the
// record's row supplied; the rest, createdAt included, are written on insert.
func (r *ScholarshipRepository) BulkUpsert(ctx context.Context, recs []*ScholarshipRecord) (UpsertResult, error) {
	if len(recs) == 0 {
		return UpsertResult{}, nil
	}
	models := make([]mongo.WriteModel, 0, len(recs))
	for _, rec := range recs {
		set, onInsert, err := upsertDocuments(rec)
		if err != nil {
			return UpsertResult{}, err
		}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"email": rec.Email}).
			SetUpdate(bson.M{
				"$set":         set,
				"$setOnInsert": onInsert,
			}).
			SetUpsert(true))
	}

	res, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return UpsertResult{}, err
	}
	return UpsertResult{Matched: int(res.MatchedCount), Upserted: int(res.UpsertedCount)}, nil
}

// UpdateByEmail overwrites the stored record with rec and returns the result,
// or nil when no record has that email.
func (r *ScholarshipRepository) UpdateByEmail(ctx context.Context, email string, rec *ScholarshipRecord) (*ScholarshipRecord, error) {
	set, err := setDocument(rec)
	if err != nil {
		return nil, err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated ScholarshipRecord
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"email": NormalizeEmail(email)}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return &updated, nil
}

func (r *ScholarshipRepository) UpdateStatus(ctx context.Context, email, status string) error {
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"email": NormalizeEmail(email)}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ScholarshipRepository) DeleteByEmail(ctx context.Context, email string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"email": NormalizeEmail(email)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// setDocument renders rec as a $set document without _id and createdAt.
func setDocument(rec *ScholarshipRecord) (bson.M, error) {
	raw, err := bson.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal record %s: %w", rec.Email, err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal record %s: %w", rec.Email, err)
	}
	delete(doc, "_id")
	delete(doc, "createdAt")
	return doc, nil
}

// upsertDocuments splits rec into the $set and $setOnInsert halves of an
// import upsert. email and updatedAt are always set; a field the row did not
// supply only gets its default when the document is created.
func upsertDocuments(rec *ScholarshipRecord) (set, onInsert bson.M, err error) {
	set, err = setDocument(rec)
	if err != nil {
		return nil, nil, err
	}
	onInsert = bson.M{"createdAt": rec.CreatedAt}
	for field, value := range set {
		if field == "email" || field == "updatedAt" || rec.supplies(field) {
			continue
		}
		onInsert[field] = value
		delete(set, field)
	}
	return set, onInsert, nil
}
