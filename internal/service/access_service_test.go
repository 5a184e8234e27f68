package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/frcteamops/pitcrew-api/internal/models"
)

type mockPermissionReader struct {
	codes map[string][]string
	err   error
}

func (m *mockPermissionReader) EffectiveCodes(ctx context.Context, userID string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.codes[userID], nil
}

func TestHasAccessUnionOfGroupAndDirectGrants(t *testing.T) {
	reader := &mockPermissionReader{codes: map[string][]string{
		"usr-1": {models.PermRecordAttendance, models.PermViewReports},
	}}
	svc := NewAccessService(reader, zap.NewNop())

	ok, err := svc.HasAccess(context.Background(), "usr-1", models.PermViewReports)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.HasAccess(context.Background(), "usr-1", models.PermManageUsers)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.HasAccess(context.Background(), "usr-1", models.PermManageUsers, models.PermRecordAttendance)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHasAccessUnknownUserFailsClosed(t *testing.T) {
	svc := NewAccessService(&mockPermissionReader{codes: map[string][]string{}}, zap.NewNop())

	ok, err := svc.HasAccess(context.Background(), "ghost", models.PermViewReports)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExecuteWithAccessDeniedNeverInvokesOperation(t *testing.T) {
	svc := NewAccessService(&mockPermissionReader{codes: map[string][]string{}}, zap.NewNop())

	calls := 0
	result := svc.ExecuteWithAccess(context.Background(), "end_meeting", "usr-1", []string{models.PermManageMeetings}, "not allowed to end meetings", func() (interface{}, error) {
		calls++
		return "done", nil
	})

	assert.Equal(t, 0, calls)
	assert.Equal(t, GateDenied, result.Outcome)
	assert.Equal(t, "not allowed to end meetings", result.Message)
	assert.False(t, result.Granted())
	assert.Nil(t, result.Data)
}

func TestExecuteWithAccessGrantedPassesResultThrough(t *testing.T) {
	reader := &mockPermissionReader{codes: map[string][]string{
		"usr-1": {models.PermManageMeetings},
	}}
	svc := NewAccessService(reader, zap.NewNop())

	result := svc.ExecuteWithAccess(context.Background(), "end_meeting", "usr-1", []string{models.PermManageMeetings}, "denied", func() (interface{}, error) {
		return map[string]int{"synthesized": 3}, nil
	})

	require.Equal(t, GateGranted, result.Outcome)
	assert.True(t, result.Granted())
	assert.Equal(t, map[string]int{"synthesized": 3}, result.Data)
	assert.Empty(t, result.Message)
}

func TestExecuteWithAccessConvertsErrors(t *testing.T) {
	reader := &mockPermissionReader{codes: map[string][]string{
		"usr-1": {models.PermManageMeetings},
	}}
	svc := NewAccessService(reader, zap.NewNop())

	result := svc.ExecuteWithAccess(context.Background(), "end_meeting", "usr-1", []string{models.PermManageMeetings}, "denied", func() (interface{}, error) {
		return nil, fmt.Errorf("meeting store unavailable")
	})

	assert.Equal(t, GateErrored, result.Outcome)
	assert.Contains(t, result.Message, "end_meeting")
	assert.Contains(t, result.Detail, "meeting store unavailable")
}

func TestExecuteWithAccessRecoversPanics(t *testing.T) {
	reader := &mockPermissionReader{codes: map[string][]string{
		"usr-1": {models.PermManageMeetings},
	}}
	svc := NewAccessService(reader, zap.NewNop())

	result := svc.ExecuteWithAccess(context.Background(), "end_meeting", "usr-1", []string{models.PermManageMeetings}, "denied", func() (interface{}, error) {
		panic("boom")
	})

	assert.Equal(t, GateErrored, result.Outcome)
	assert.Contains(t, result.Message, "end_meeting")
	assert.Contains(t, result.Detail, "boom")
}

func TestExecuteWithAccessErroredOnPermissionLookupFailure(t *testing.T) {
	svc := NewAccessService(&mockPermissionReader{err: fmt.Errorf("connection refused")}, zap.NewNop())

	calls := 0
	result := svc.ExecuteWithAccess(context.Background(), "end_meeting", "usr-1", []string{models.PermManageMeetings}, "denied", func() (interface{}, error) {
		calls++
		return nil, nil
	})

	assert.Equal(t, 0, calls)
	assert.Equal(t, GateErrored, result.Outcome)
}
