package services

import (
	"context"

	"crmdesk/internal/models"
	"crmdesk/internal/repositories"
)

type ReportService struct {
	Repo *repositories.ReportRepository
}

func NewReportService(repo *repositories.ReportRepository) *ReportService {
	return &ReportService{Repo: repo}
}

// DashboardStats counts every customer regardless of plan state.
func (s *ReportService) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	total, err := s.Repo.CountCustomers(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.Repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	byPriority, err := s.Repo.CountByPriority(ctx)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.Repo.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}
	return &models.DashboardStats{
		TotalCustomers: total,
		ByStatus:       byStatus,
		ByPriority:     byPriority,
		ByCategory:     byCategory,
	}, nil
}
