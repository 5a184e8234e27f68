package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/frcteamops/pitcrew-api/internal/models"
	appErrors "github.com/frcteamops/pitcrew-api/pkg/errors"
)

type fakeDashboardSrv struct {
	snapshot   *models.DashboardSnapshot
	cacheHit   bool
	err        error
	lastSeason models.SeasonContext
}

func (f *fakeDashboardSrv) Snapshot(_ context.Context, season models.SeasonContext) (*models.DashboardSnapshot, bool, error) {
	f.lastSeason = season
	return f.snapshot, f.cacheHit, f.err
}

type fakeSeasonResolver struct {
	season models.SeasonContext
	err    error
	lastID string
}

func (f *fakeSeasonResolver) Resolve(_ context.Context, seasonID string) (models.SeasonContext, error) {
	f.lastID = seasonID
	return f.season, f.err
}

func TestDashboardHandlerSnapshotSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeDashboardSrv{
		snapshot: &models.DashboardSnapshot{SeasonID: "ssn-1", ActiveMembers: 12},
		cacheHit: true,
	}
	handler := NewDashboardHandler(srv, &fakeSeasonResolver{season: models.SeasonContext{SeasonID: "ssn-1"}})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard?seasonId=ssn-1", nil)

	handler.Snapshot(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ssn-1", srv.lastSeason.SeasonID)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	assert.Equal(t, "ssn-1", envelope.Data["season_id"])
	assert.Equal(t, float64(12), envelope.Data["active_members"])
}

func TestDashboardHandlerSnapshotDefaultsToCurrentSeason(t *testing.T) {
	gin.SetMode(gin.TestMode)
	resolver := &fakeSeasonResolver{season: models.SeasonContext{SeasonID: "ssn-current"}}
	srv := &fakeDashboardSrv{snapshot: &models.DashboardSnapshot{SeasonID: "ssn-current"}}
	handler := NewDashboardHandler(srv, resolver)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard", nil)

	handler.Snapshot(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", resolver.lastID)
	assert.Equal(t, "ssn-current", srv.lastSeason.SeasonID)
}

func TestDashboardHandlerSnapshotNoCurrentSeason(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{}, &fakeSeasonResolver{
		err: appErrors.Clone(appErrors.ErrNoCurrentSeason, "no current season configured"),
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard", nil)

	handler.Snapshot(c)

	assert.Equal(t, appErrors.ErrNoCurrentSeason.Status, rec.Code)
}

type responseEnvelope struct {
	Data map[string]interface{} `json:"data"`
	Meta map[string]interface{} `json:"meta"`
}
