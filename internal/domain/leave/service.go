package leave

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidType  = errors.New("leave: invalid leave type")
	ErrInvalidRange = errors.New("leave: end date before start date")
)

type Service struct {
	Store *Store
	Now   func() time.Time
}

func NewService(store *Store) *Service {
	return &Service{Store: store, Now: time.Now}
}

func (s *Service) History(ctx context.Context, employeeID int64) ([]Request, error) {
	return s.Store.History(ctx, employeeID)
}

func (s *Service) Balance(ctx context.Context, employeeID int64) (Balance, error) {
	return s.Store.BalanceForYear(ctx, employeeID, s.Now().UTC().Year())
}

// Request files a pending leave request after validating the type and range.
func (s *Service) Request(ctx context.Context, employeeID int64, in NewRequest, start, end time.Time) (Request, error) {
	switch in.Type {
	case TypeAnnual, TypeSick, TypePersonal:
	default:
		return Request{}, ErrInvalidType
	}
	if end.Before(start) {
		return Request{}, ErrInvalidRange
	}
	return s.Store.CreateRequest(ctx, employeeID, in, start, end)
}
