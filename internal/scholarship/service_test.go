package scholarship

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceList(t *testing.T) {
	var seed []*ScholarshipRecord
	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com", "d@x.com", "e@x.com"} {
		seed = append(seed, validRecord(email))
	}
	svc := NewScholarshipService(newMemStore(seed...))

	result, err := svc.List(context.Background(), ListQuery{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), result.Total)
	assert.Equal(t, int64(3), result.TotalPages)
	assert.Equal(t, 2, result.Page)
	require.Len(t, result.Data, 2)
	assert.Equal(t, "c@x.com", result.Data[0].Email)

	result, err = svc.List(context.Background(), ListQuery{Page: 0, Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, maxPageSize, result.Limit)
	assert.Equal(t, int64(1), result.TotalPages)

	result, err = svc.List(context.Background(), ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, defaultPageSize, result.Limit)

	result, err = svc.List(context.Background(), ListQuery{Page: math.MaxInt, Limit: maxPageSize})
	require.NoError(t, err)
	assert.Equal(t, maxPage, result.Page)
	assert.Empty(t, result.Data)
	assert.Equal(t, int64(5), result.Total)
}

func TestServiceCreate(t *testing.T) {
	store := newMemStore()
	svc := NewScholarshipService(store)

	rec := validRecord(" New@Example.com ")
	rec.Status = "selected"
	require.NoError(t, svc.Create(context.Background(), rec))

	stored := store.get("new@example.com")
	require.NotNil(t, stored)
	assert.Equal(t, StatusSelected, stored.Status)
	assert.False(t, stored.CreatedAt.IsZero())
	assert.NotNil(t, stored.Installments)

	err := svc.Create(context.Background(), validRecord("new@example.com"))
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestServiceCreateRejectsInvalidRecord(t *testing.T) {
	svc := NewScholarshipService(newMemStore())

	rec := validRecord("bad-email")
	err := svc.Create(context.Background(), rec)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"invalid email format"}, verr.Problems)
}

func TestServiceReplace(t *testing.T) {
	store := newMemStore(validRecord("asha@example.com"))
	svc := NewScholarshipService(store)

	body := validRecord("someone-else@example.com")
	body.State = "Goa"
	updated, err := svc.Replace(context.Background(), "ASHA@example.com", body)
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", updated.Email)
	assert.Equal(t, "Goa", updated.State)
	assert.Nil(t, store.get("someone-else@example.com"))

	_, err = svc.Replace(context.Background(), "missing@example.com", validRecord("x@example.com"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceCheckResult(t *testing.T) {
	selected := validRecord("yes@example.com")
	selected.Status = StatusSelected
	svc := NewScholarshipService(newMemStore(selected, validRecord("no@example.com")))

	ok, err := svc.CheckResult(context.Background(), "YES@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CheckResult(context.Background(), "no@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.CheckResult(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceDelete(t *testing.T) {
	store := newMemStore(validRecord("asha@example.com"))
	svc := NewScholarshipService(store)

	require.NoError(t, svc.Delete(context.Background(), "asha@example.com"))
	assert.Nil(t, store.get("asha@example.com"))
	assert.ErrorIs(t, svc.Delete(context.Background(), "asha@example.com"), ErrNotFound)
}
