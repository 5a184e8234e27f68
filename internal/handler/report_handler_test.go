package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frcteamops/pitcrew-api/internal/models"
	"github.com/frcteamops/pitcrew-api/internal/service"
	appErrors "github.com/frcteamops/pitcrew-api/pkg/errors"
)

type hoursProviderMock struct {
	hours     *models.MeetingHours
	hoursErr  error
	report    []models.MemberHoursReport
	reportErr error
	lastOpts  service.ReportOptions
}

func (m *hoursProviderMock) MeetingHours(context.Context, models.SeasonContext) (*models.MeetingHours, error) {
	return m.hours, m.hoursErr
}

func (m *hoursProviderMock) AttendanceReport(_ context.Context, _ models.SeasonContext, opts service.ReportOptions) ([]models.MemberHoursReport, error) {
	m.lastOpts = opts
	return m.report, m.reportErr
}

type exporterMock struct {
	result     *service.ExportResult
	err        error
	lastFormat service.ReportFormat
}

func (m *exporterMock) AttendanceReport(_ context.Context, _ models.SeasonContext, _ service.ReportOptions, format service.ReportFormat) (*service.ExportResult, error) {
	m.lastFormat = format
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func newReportHandler(hours *hoursProviderMock, export *exporterMock) *ReportHandler {
	return NewReportHandler(hours, export, &fakeSeasonResolver{season: models.SeasonContext{SeasonID: "ssn-1"}})
}

func TestReportHandlerMeetingHours(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newReportHandler(&hoursProviderMock{
		hours: &models.MeetingHours{Hours: 12, HoursFuture: 4, BonusHours: 1.5, EventHours: 8},
	}, &exporterMock{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/reports/meeting-hours", nil)

	handler.MeetingHours(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"hours":12`)
}

func TestReportHandlerMeetingHoursOpenMeeting(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newReportHandler(&hoursProviderMock{
		hoursErr: appErrors.Clone(appErrors.ErrMeetingOpen, `meeting "Kickoff" has no end time`),
	}, &exporterMock{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/reports/meeting-hours", nil)

	handler.MeetingHours(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "MEETING_OPEN")
}

func TestReportHandlerAttendanceReportPassesFilters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hours := &hoursProviderMock{report: []models.MemberHoursReport{{UserID: "usr-1", FullName: "Alex"}}}
	handler := newReportHandler(hours, &exporterMock{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/reports/attendance?userId=usr-1&meetingId=mtg-1", nil)

	handler.AttendanceReport(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "usr-1", hours.lastOpts.UserID)
	assert.Equal(t, "mtg-1", hours.lastOpts.MeetingID)
}

func TestReportHandlerExportCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	export := &exporterMock{result: &service.ExportResult{
		Payload:     []byte("Member,Required Hours\n"),
		ContentType: "text/csv",
		Filename:    "attendance-report-ssn-1.csv",
	}}
	handler := newReportHandler(&hoursProviderMock{}, export)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/reports/attendance/export?format=csv", nil)

	handler.Export(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.ReportFormatCSV, export.lastFormat)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attendance-report-ssn-1.csv")
	assert.Contains(t, rec.Body.String(), "Member")
}

func TestReportHandlerExportUnknownFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	export := &exporterMock{err: appErrors.Clone(appErrors.ErrValidation, `unsupported export format "xlsx"`)}
	handler := newReportHandler(&hoursProviderMock{}, export)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/reports/attendance/export?format=xlsx", nil)

	handler.Export(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
