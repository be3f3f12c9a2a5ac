package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/crm-helpdesk/internal/domain"
	"github.com/spec-kit/crm-helpdesk/internal/repository"
	apperrors "github.com/spec-kit/crm-helpdesk/pkg/util"
)

type fakeReportRepo struct {
	byStatus   []repository.StatusCount
	byPriority []repository.PriorityCount
	trends     []repository.MonthlyCount
	err        error
	calls      int
}

func (r *fakeReportRepo) CountByStatus(ctx context.Context) ([]repository.StatusCount, error) {
	r.calls++
	return r.byStatus, r.err
}

func (r *fakeReportRepo) CountByPriority(ctx context.Context) ([]repository.PriorityCount, error) {
	return r.byPriority, r.err
}

func (r *fakeReportRepo) MonthlyTrends(ctx context.Context) ([]repository.MonthlyCount, error) {
	return r.trends, r.err
}

func TestOverview(t *testing.T) {
	repo := &fakeReportRepo{
		byStatus: []repository.StatusCount{
			{Status: domain.TicketStatusOpen, Count: 3},
			{Status: domain.TicketStatusResolved, Count: 1},
		},
		byPriority: []repository.PriorityCount{
			{Priority: domain.TicketPriorityMedium, Count: 4},
		},
		trends: []repository.MonthlyCount{
			{Month: "2024-01", Tickets: 2},
			{Month: "2024-02", Tickets: 2},
		},
	}

	t.Run("ForbiddenForRegularUsers", func(t *testing.T) {
		svc := NewReportService(repo, nil, zap.NewNop())
		_, err := svc.Overview(context.Background(), userXCaller)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
	})

	t.Run("AggregatesWithoutCache", func(t *testing.T) {
		svc := NewReportService(repo, nil, zap.NewNop())
		overview, err := svc.Overview(context.Background(), managerCaller)
		require.NoError(t, err)
		require.Len(t, overview.ByStatus, 2)
		assert.Equal(t, 3, overview.ByStatus[0].Count)
		require.Len(t, overview.MonthlyTrends, 2)
		assert.Equal(t, "2024-01", overview.MonthlyTrends[0].Month)
	})

	t.Run("PropagatesStoreFailure", func(t *testing.T) {
		broken := &fakeReportRepo{err: errors.New("connection reset")}
		svc := NewReportService(broken, nil, zap.NewNop())
		_, err := svc.Overview(context.Background(), adminCaller)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, "INTERNAL_ERROR"))
	})
}
