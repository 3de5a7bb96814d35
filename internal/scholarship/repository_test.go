package scholarship

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestScholarshipRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("find by email", func(mt *mtest.T) {
		repo := &ScholarshipRepository{collection: mt.Coll}
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.scholarships", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "email", Value: "asha@example.com"},
			{Key: "name", Value: "Asha"},
			{Key: "status", Value: StatusSelected},
		}))

		rec, err := repo.FindByEmail(ctx, "Asha@Example.com")
		require.NoError(mt, err)
		require.NotNil(mt, rec)
		assert.Equal(mt, id, rec.ID)
		assert.True(mt, rec.IsSelected())
	})

	mt.Run("find by email missing", func(mt *mtest.T) {
		repo := &ScholarshipRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.scholarships", mtest.FirstBatch))

		rec, err := repo.FindByEmail(ctx, "nobody@example.com")
		require.NoError(mt, err)
		assert.Nil(mt, rec)
	})

	mt.Run("insert duplicate", func(mt *mtest.T) {
		repo := &ScholarshipRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: db.scholarships index: email_1",
		}))

		err := repo.Insert(ctx, validRecord("asha@example.com"))
		assert.ErrorIs(mt, err, ErrDuplicateEmail)
	})

	mt.Run("insert assigns id", func(mt *mtest.T) {
		repo := &ScholarshipRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		rec := validRecord("asha@example.com")
		require.NoError(mt, repo.Insert(ctx, rec))
		assert.False(mt, rec.ID.IsZero())
	})

	mt.Run("bulk upsert counts", func(mt *mtest.T) {
		repo := &ScholarshipRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 2},
			bson.E{Key: "nModified", Value: 1},
			bson.E{Key: "upserted", Value: bson.A{
				bson.D{{Key: "index", Value: 1}, {Key: "_id", Value: primitive.NewObjectID()}},
			}},
		))

		res, err := repo.BulkUpsert(ctx, []*ScholarshipRecord{
			validRecord("old@example.com"),
			validRecord("new@example.com"),
		})
		require.NoError(mt, err)
		assert.Equal(mt, UpsertResult{Matched: 1, Upserted: 1}, res)
	})

	mt.Run("bulk upsert of nothing", func(mt *mtest.T) {
		repo := &ScholarshipRepository{collection: mt.Coll}

		res, err := repo.BulkUpsert(ctx, nil)
		require.NoError(mt, err)
		assert.Equal(mt, UpsertResult{}, res)
	})

	mt.Run("update status of missing record", func(mt *mtest.T) {
		repo := &ScholarshipRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := repo.UpdateStatus(ctx, "nobody@example.com", StatusSelected)
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("delete", func(mt *mtest.T) {
		repo := &ScholarshipRepository{collection: mt.Coll}
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)

		require.NoError(mt, repo.DeleteByEmail(ctx, "asha@example.com"))
		assert.ErrorIs(mt, repo.DeleteByEmail(ctx, "asha@example.com"), ErrNotFound)
	})

	mt.Run("count", func(mt *mtest.T) {
		repo := &ScholarshipRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.scholarships", mtest.FirstBatch, bson.D{{Key: "n", Value: int32(7)}}))

		n, err := repo.Count(ctx, bson.M{"status": StatusSelected})
		require.NoError(mt, err)
		assert.Equal(mt, int64(7), n)
	})
}

func TestSetDocumentKeepsCreatedAtForInsertOnly(t *testing.T) {
	rec := validRecord("asha@example.com")
	rec.ID = primitive.NewObjectID()
	rec.CreatedAt = time.Now()
	rec.PwdPercentage = ptr(40.0)

	doc, err := setDocument(rec)
	require.NoError(t, err)

	assert.NotContains(t, doc, "_id")
	assert.NotContains(t, doc, "createdAt")
	assert.Equal(t, "asha@example.com", doc["email"])
	assert.Equal(t, 40.0, doc["pwdPercentage"])
	assert.Contains(t, doc, "updatedAt")
}

func TestUpsertDocumentsSetOnlySuppliedFields(t *testing.T) {
	columns := newColumnMap([]string{"email", "name", "gender", "state", "Scholarship Name"})
	rec, _ := columns.toRecord([]string{"Asha@Example.com", "Asha", "female", "Kerala", "Merit"})

	set, onInsert, err := upsertDocuments(rec)
	require.NoError(t, err)

	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{"email", "name", "gender", "state", "scholarshipName", "updatedAt"}, keys)
	assert.Equal(t, "asha@example.com", set["email"])

	for _, field := range []string{"status", "installments", "age", "totalAmount", "amountDisbursed"} {
		assert.NotContains(t, set, field)
		assert.Contains(t, onInsert, field)
	}
	assert.Equal(t, StatusNotSelected, onInsert["status"])
	assert.Contains(t, onInsert, "createdAt")
	assert.NotContains(t, onInsert, "name")
}

func TestUpsertDocumentsInstallmentColumnsSupplyInstallments(t *testing.T) {
	columns := newColumnMap([]string{"email", "status", "Installment 1 Amount"})
	rec, _ := columns.toRecord([]string{"a@example.com", "Selected", "5000"})

	set, onInsert, err := upsertDocuments(rec)
	require.NoError(t, err)
	assert.Equal(t, StatusSelected, set["status"])
	assert.Contains(t, set, "installments")
	assert.NotContains(t, onInsert, "installments")
	assert.NotContains(t, set, "name")
}

func TestUpsertDocumentsWithoutImportSetEverything(t *testing.T) {
	set, onInsert, err := upsertDocuments(validRecord("asha@example.com"))
	require.NoError(t, err)
	assert.Contains(t, set, "status")
	assert.Contains(t, set, "age")
	assert.Equal(t, bson.M{"createdAt": time.Time{}}, onInsert)
}

func TestColumnSettersResolveToRecordFields(t *testing.T) {
	for key := range columnSetters {
		assert.Contains(t, recordFields, key)
	}
}

func TestSearchPatternEscapesInput(t *testing.T) {
	assert.Equal(t, bson.M{"$regex": `a\.b\+`, "$options": "i"}, searchPattern("a.b+"))
}
