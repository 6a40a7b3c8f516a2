package metrics

import (
	"context"
	"log/slog"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) GetOrCreate(ctx context.Context, employeeID int64) (Metric, error) {
	return s.Store.GetOrCreate(ctx, employeeID)
}

// OnTaskStatusChange recomputes the employee's metrics after a task status
// transition. The old and new status are logged for traceability only;
// every figure is rebuilt from the tables, so the transition itself never
// feeds a delta.
func (s *Service) OnTaskStatusChange(ctx context.Context, employeeID int64, oldStatus, newStatus string) (Metric, error) {
	metric, err := s.Store.Recalculate(ctx, employeeID)
	if err != nil {
		return Metric{}, err
	}
	slog.Info("performance metrics recomputed",
		"employeeId", employeeID,
		"oldStatus", oldStatus,
		"newStatus", newStatus,
		"tasksCompleted", metric.TasksCompleted,
	)
	return metric, nil
}
