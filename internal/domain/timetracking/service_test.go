package timetracking

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	svc := NewService(NewStore(mock))
	svc.Now = func() time.Time {
		return time.Date(2025, time.August, 20, 14, 30, 0, 0, time.UTC)
	}
	return svc, mock
}

func entryRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "employee_id", "entry_date", "time_in", "time_out", "status"})
}

func TestClockInRejectedWhenAlreadyIn(t *testing.T) {
	svc, mock := newTestService(t)

	day := time.Date(2025, time.August, 20, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM time_entries").
		WithArgs(int64(7), day, StatusIn).
		WillReturnRows(entryRows().AddRow(int64(1), int64(7), day, day.Add(9*time.Hour), nil, StatusIn))

	_, err := svc.Clock(context.Background(), 7, "in")
	assert.ErrorIs(t, err, ErrAlreadyClockedIn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClockOutRejectedWhenNotIn(t *testing.T) {
	svc, mock := newTestService(t)

	day := time.Date(2025, time.August, 20, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM time_entries").
		WithArgs(int64(7), day, StatusIn).
		WillReturnRows(entryRows())

	_, err := svc.Clock(context.Background(), 7, "out")
	assert.ErrorIs(t, err, ErrNotClockedIn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClockInCreatesEntry(t *testing.T) {
	svc, mock := newTestService(t)

	day := time.Date(2025, time.August, 20, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, time.August, 20, 14, 30, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM time_entries").
		WithArgs(int64(7), day, StatusIn).
		WillReturnRows(entryRows())
	mock.ExpectQuery("INSERT INTO time_entries").
		WithArgs(int64(7), day, now, StatusIn).
		WillReturnRows(entryRows().AddRow(int64(42), int64(7), day, now, nil, StatusIn))

	entry, err := svc.Clock(context.Background(), 7, "in")
	require.NoError(t, err)
	assert.Equal(t, int64(42), entry.ID)
	assert.Equal(t, "2025-08-20", entry.Date)
	assert.Equal(t, StatusIn, entry.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClockOutClosesOpenEntry(t *testing.T) {
	svc, mock := newTestService(t)

	day := time.Date(2025, time.August, 20, 0, 0, 0, 0, time.UTC)
	in := day.Add(9 * time.Hour)
	now := time.Date(2025, time.August, 20, 14, 30, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM time_entries").
		WithArgs(int64(7), day, StatusIn).
		WillReturnRows(entryRows().AddRow(int64(42), int64(7), day, in, nil, StatusIn))
	mock.ExpectQuery("UPDATE time_entries").
		WithArgs(now, StatusOut, int64(42)).
		WillReturnRows(entryRows().AddRow(int64(42), int64(7), day, in, &now, StatusOut))

	entry, err := svc.Clock(context.Background(), 7, "out")
	require.NoError(t, err)
	assert.Equal(t, StatusOut, entry.Status)
	require.NotNil(t, entry.TimeOut)
	assert.Equal(t, now, *entry.TimeOut)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClockRejectsUnknownAction(t *testing.T) {
	svc, mock := newTestService(t)

	day := time.Date(2025, time.August, 20, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM time_entries").
		WithArgs(int64(7), day, StatusIn).
		WillReturnRows(entryRows())

	_, err := svc.Clock(context.Background(), 7, "sideways")
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestStatusDefaultsToOut(t *testing.T) {
	svc, mock := newTestService(t)

	day := time.Date(2025, time.August, 20, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM time_entries").
		WithArgs(int64(7), day).
		WillReturnRows(entryRows())

	entry, err := svc.Status(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, StatusOut, entry.Status)
	assert.Nil(t, entry.TimeOut)
}
