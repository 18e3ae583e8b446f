package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajna/ajna-hub/internal/domain"
)

var deviceColumns = []string{"device_id", "fcm_token", "status", "last_seen", "created_at", "updated_at"}

func newMockRepo(t *testing.T) (*PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresRepository(mock), mock
}

func strPtr(s string) *string { return &s }

func TestPostgresRepository_EnsureSchema(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS devices")).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_MergeDevice(t *testing.T) {
	testCases := []struct {
		name   string
		update domain.DeviceUpdate
		token  any
		status any
		touch  bool
	}{
		{
			name:   "register with token",
			update: domain.DeviceUpdate{FCMToken: strPtr("tok-1"), Status: domain.StatusOnline},
			token:  "tok-1",
			status: "online",
		},
		{
			name:   "register without token keeps stored token",
			update: domain.DeviceUpdate{Status: domain.StatusOnline},
			token:  nil,
			status: "online",
		},
		{
			name:   "heartbeat",
			update: domain.DeviceUpdate{Status: domain.StatusOnline, TouchLastSeen: true},
			token:  nil,
			status: "online",
			touch:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (device_id) DO UPDATE")).
				WithArgs("d1", tc.token, tc.status, tc.touch).
				WillReturnResult(pgxmock.NewResult("INSERT", 1))

			require.NoError(t, repo.MergeDevice(context.Background(), "d1", tc.update))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresRepository_MergeDeviceError(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO devices")).
		WithArgs("d1", nil, "online", false).
		WillReturnError(errors.New("connection reset"))

	err := repo.MergeDevice(context.Background(), "d1", domain.DeviceUpdate{Status: domain.StatusOnline})
	assert.ErrorContains(t, err, "connection reset")
}

func TestPostgresRepository_GetDevice(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM devices WHERE device_id = $1")).
		WithArgs("d1").
		WillReturnRows(pgxmock.NewRows(deviceColumns).
			AddRow("d1", strPtr("tok-1"), strPtr("online"), &now, now, now))

	device, err := repo.GetDevice(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, "d1", device.ID)
	assert.Equal(t, strPtr("tok-1"), device.FCMToken)
	assert.Equal(t, domain.StatusOnline, device.Status)
	require.NotNil(t, device.LastSeen)
	assert.True(t, now.Equal(*device.LastSeen))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetDeviceNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM devices WHERE device_id = $1")).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetDevice(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgresRepository_ListDevices(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM devices ORDER BY device_id")).
		WillReturnRows(pgxmock.NewRows(deviceColumns).
			AddRow("d1", strPtr("tok-1"), strPtr("online"), (*time.Time)(nil), now, now).
			AddRow("d2", (*string)(nil), strPtr("online"), &now, now, now).
			AddRow("d3", strPtr(""), strPtr("online"), (*time.Time)(nil), now, now))

	devices, err := repo.ListDevices(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 3)
	assert.Equal(t, "d1", devices[0].ID)
	assert.Nil(t, devices[0].LastSeen)
	assert.Nil(t, devices[1].FCMToken)
	require.NotNil(t, devices[2].FCMToken)
	assert.Equal(t, "", *devices[2].FCMToken)
	assert.Contains(t, devices[1].Extra, "created_at")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_ListDevicesEmpty(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM devices ORDER BY device_id")).
		WillReturnRows(pgxmock.NewRows(deviceColumns))

	devices, err := repo.ListDevices(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, devices)
	assert.Empty(t, devices)
}

func TestPostgresRepository_CountDevices(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM devices")).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))

	count, err := repo.CountDevices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
