package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/crm-helpdesk/internal/auth"
	"github.com/spec-kit/crm-helpdesk/internal/domain"
	"github.com/spec-kit/crm-helpdesk/internal/repository"
	apperrors "github.com/spec-kit/crm-helpdesk/pkg/util"
)

const (
	reportsCacheKey = "reports:overview"
	reportsCacheTTL = 60 * time.Second
)

// ReportsOverview aggregates ticket counts for dashboarding.
type ReportsOverview struct {
	ByStatus      []repository.StatusCount   `json:"byStatus"`
	ByPriority    []repository.PriorityCount `json:"byPriority"`
	MonthlyTrends []repository.MonthlyCount  `json:"monthlyTrends"`
}

// ReportService serves aggregate overviews with a short-lived redis cache.
// Cache failures are non-fatal; the aggregates are recomputed from postgres.
type ReportService struct {
	reports repository.ReportRepository
	cache   *redis.Client
	logger  *zap.Logger
}

// NewReportService constructs the service. cache may be nil.
func NewReportService(reports repository.ReportRepository, cache *redis.Client, logger *zap.Logger) *ReportService {
	return &ReportService{reports: reports, cache: cache, logger: logger}
}

// Overview returns byStatus/byPriority/monthlyTrends counts. Admin/manager
// only.
func (s *ReportService) Overview(ctx context.Context, caller domain.Caller) (*ReportsOverview, error) {
	if !auth.Allowed(caller, auth.OpViewReports) {
		return nil, apperrors.NewForbidden("access denied")
	}

	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	byStatus, err := s.reports.CountByStatus(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	byPriority, err := s.reports.CountByPriority(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	trends, err := s.reports.MonthlyTrends(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	overview := &ReportsOverview{
		ByStatus:      byStatus,
		ByPriority:    byPriority,
		MonthlyTrends: trends,
	}
	s.toCache(ctx, overview)
	return overview, nil
}

func (s *ReportService) fromCache(ctx context.Context) *ReportsOverview {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, reportsCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("reports cache read failed", zap.Error(err))
		}
		return nil
	}
	var overview ReportsOverview
	if err := json.Unmarshal(raw, &overview); err != nil {
		s.logger.Warn("reports cache entry malformed", zap.Error(err))
		return nil
	}
	return &overview
}

func (s *ReportService) toCache(ctx context.Context, overview *ReportsOverview) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(overview)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, reportsCacheKey, raw, reportsCacheTTL).Err(); err != nil {
		s.logger.Warn("reports cache write failed", zap.Error(err))
	}
}
