package assignments

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewStore(mock), mock
}

func TestUpdateStatusWritesHistoryInOneTransaction(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE employee_tasks").
		WithArgs(StatusCompleted, int64(5)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO task_history").
		WithArgs(int64(5), StatusInProgress, StatusCompleted).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := store.UpdateStatus(context.Background(), 5, StatusInProgress, StatusCompleted)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusUnknownTaskRollsBack(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE employee_tasks").
		WithArgs(StatusCompleted, int64(99)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	err := store.UpdateStatus(context.Background(), 99, StatusPending, StatusCompleted)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpcomingDeadlinesShape(t *testing.T) {
	store, mock := newMockStore(t)

	due := time.Date(2025, time.September, 10, 0, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows([]string{"id", "title", "due_date", "priority", "name"}).
		AddRow(int64(1), "Quarterly report", due, "High", "Alex Kim")

	mock.ExpectQuery("SELECT (.+) FROM employee_tasks").
		WithArgs(int64(7), StatusCompleted, 3).
		WillReturnRows(rows)

	deadlines, err := store.UpcomingDeadlines(context.Background(), 7, 3)
	require.NoError(t, err)
	require.Len(t, deadlines, 1)
	assert.Equal(t, "2025-09-10", deadlines[0].DueDate)
	assert.Equal(t, "Alex Kim", deadlines[0].AssignedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}
