package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ScholarsBox/internal/auth"
	"ScholarsBox/internal/scholarship"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type fakeFinder struct {
	recs       []*scholarship.ScholarshipRecord
	lastFilter bson.M
	err        error
}

func (f *fakeFinder) Find(_ context.Context, filter bson.M) ([]*scholarship.ScholarshipRecord, error) {
	f.lastFilter = filter
	return f.recs, f.err
}

func (f *fakeFinder) Count(_ context.Context, filter bson.M) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	var n int64
	for _, rec := range f.recs {
		if status, ok := filter["status"]; ok && rec.Status != status {
			continue
		}
		n++
	}
	return n, nil
}

// roleAuthorizer grants read-pii to the listed roles only.
type roleAuthorizer map[string]bool

func (a roleAuthorizer) Can(role, object, action string) bool {
	return object == ApplicantsObject && action == ReadPIIAction && a[role]
}

func newAnalyticsContext(target string, claims *auth.JWTClaims) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if claims != nil {
		c.Set("user", claims)
	}
	return c, rec
}

func TestAnalyticsHandlerRedactsByRole(t *testing.T) {
	finder := &fakeFinder{recs: []*scholarship.ScholarshipRecord{
		record("a@x.com", "female", "Kerala", "GEN", "Merit", true),
	}}
	h := NewAnalyticsHandler(NewAnalyticsService(finder), roleAuthorizer{auth.RoleAdmin: true}, zap.NewNop())

	tests := []struct {
		role      string
		wantEmail string
	}{
		{auth.RoleAdmin, "a@x.com"},
		{auth.RoleViewer, "[redacted]"},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			c, rec := newAnalyticsContext("/api/admin/analytics?age=18-25&state=Kerala", &auth.JWTClaims{Role: tt.role})
			require.NoError(t, h.Analytics(c))
			require.Equal(t, http.StatusOK, rec.Code)

			var s Summary
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
			require.Len(t, s.Applicants, 1)
			assert.Equal(t, tt.wantEmail, s.Applicants[0].Email)
			assert.Equal(t, 1, s.SelectCount)
			assert.Equal(t, bson.M{"$gte": 18, "$lte": 25}, finder.lastFilter["age"])
			assert.Equal(t, "Kerala", finder.lastFilter["state"])
		})
	}
}

func TestAnalyticsHandlerRequiresClaims(t *testing.T) {
	h := NewAnalyticsHandler(NewAnalyticsService(&fakeFinder{}), roleAuthorizer{}, zap.NewNop())

	c, rec := newAnalyticsContext("/api/admin/analytics", nil)
	require.NoError(t, h.Analytics(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAnalyticsHandlerStoreError(t *testing.T) {
	h := NewAnalyticsHandler(NewAnalyticsService(&fakeFinder{err: assert.AnError}), roleAuthorizer{}, zap.NewNop())

	c, rec := newAnalyticsContext("/api/admin/analytics", &auth.JWTClaims{Role: auth.RoleAdmin})
	require.NoError(t, h.Analytics(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Error fetching analytics"}`, rec.Body.String())
}

func TestDashboard(t *testing.T) {
	finder := &fakeFinder{recs: []*scholarship.ScholarshipRecord{
		record("a@x.com", "female", "Kerala", "GEN", "Merit", true),
		record("b@x.com", "male", "Goa", "GEN", "Merit", false),
		record("c@x.com", "male", "Goa", "GEN", "Merit", true),
	}}
	h := NewAnalyticsHandler(NewAnalyticsService(finder), roleAuthorizer{}, zap.NewNop())

	c, rec := newAnalyticsContext("/api/admin/dashboard", &auth.JWTClaims{Role: auth.RoleViewer})
	require.NoError(t, h.Dashboard(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"totalScholarships":3,"selectCount":2,"notSelectCount":1}`, rec.Body.String())
}
