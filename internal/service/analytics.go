package service

import (
	"context"
	"fmt"

	"github.com/shenikar/incident_reporting/internal/analytics"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -source=analytics.go -destination=mocks/mock_analytics.go -package=mocks

// AnalyticsService - отчеты для модераторов
type AnalyticsService interface {
	Overall(ctx context.Context) (analytics.Overall, error)
	ByType(ctx context.Context) ([]analytics.TypeStat, error)
	ByStatus(ctx context.Context) ([]analytics.StatusStat, error)
	OverTime(ctx context.Context, period analytics.Period, days int) ([]analytics.Bucket, error)
	TopReporters(ctx context.Context, limit int) ([]analytics.Reporter, error)
	RecentActivity(ctx context.Context, limit int) (analytics.RecentActivity, error)
	Verification(ctx context.Context) (analytics.Verification, error)
}

type analyticsService struct {
	engine *analytics.Engine
	logger *logrus.Logger
}

func NewAnalyticsService(engine *analytics.Engine, logger *logrus.Logger) AnalyticsService {
	return &analyticsService{engine: engine, logger: logger}
}

func (s *analyticsService) fail(method string, err error) error {
	s.logger.WithFields(logrus.Fields{
		"service": "analytics",
		"method":  method,
	}).WithError(err).Error("Failed to compute report")
	return fmt.Errorf("service: could not compute %s: %w", method, err)
}

func (s *analyticsService) Overall(ctx context.Context) (analytics.Overall, error) {
	o, err := s.engine.Overall(ctx)
	if err != nil {
		return analytics.Overall{}, s.fail("Overall", err)
	}
	return o, nil
}

func (s *analyticsService) ByType(ctx context.Context) ([]analytics.TypeStat, error) {
	stats, err := s.engine.ByType(ctx)
	if err != nil {
		return nil, s.fail("ByType", err)
	}
	return stats, nil
}

func (s *analyticsService) ByStatus(ctx context.Context) ([]analytics.StatusStat, error) {
	stats, err := s.engine.ByStatus(ctx)
	if err != nil {
		return nil, s.fail("ByStatus", err)
	}
	return stats, nil
}

func (s *analyticsService) OverTime(ctx context.Context, period analytics.Period, days int) ([]analytics.Bucket, error) {
	buckets, err := s.engine.OverTime(ctx, period, days)
	if err != nil {
		return nil, s.fail("OverTime", err)
	}
	return buckets, nil
}

func (s *analyticsService) TopReporters(ctx context.Context, limit int) ([]analytics.Reporter, error) {
	top, err := s.engine.TopReporters(ctx, limit)
	if err != nil {
		return nil, s.fail("TopReporters", err)
	}
	return top, nil
}

func (s *analyticsService) RecentActivity(ctx context.Context, limit int) (analytics.RecentActivity, error) {
	activity, err := s.engine.RecentActivity(ctx, limit)
	if err != nil {
		return analytics.RecentActivity{}, s.fail("RecentActivity", err)
	}
	return activity, nil
}

func (s *analyticsService) Verification(ctx context.Context) (analytics.Verification, error) {
	v, err := s.engine.Verification(ctx)
	if err != nil {
		return analytics.Verification{}, s.fail("Verification", err)
	}
	return v, nil
}
