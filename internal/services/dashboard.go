package services

import (
	"context"
	"errors"

	"github.com/mg3/promag-api/internal/store"
	"github.com/mg3/promag-api/types"
)

// DashboardRepository runs the summary aggregate.
type DashboardRepository interface {
	Summary(ctx context.Context) (types.DashboardSummary, error)
}

type DashboardService struct {
	repo DashboardRepository
}

func NewDashboardService(repo DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

// Summary reports all zeros until the tables exist.
func (s *DashboardService) Summary(ctx context.Context) (types.DashboardSummary, error) {
	summary, err := s.repo.Summary(ctx)
	if errors.Is(err, store.ErrSchemaNotProvisioned) {
		return types.DashboardSummary{}, nil
	}
	return summary, err
}
