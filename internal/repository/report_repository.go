package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crm-helpdesk/internal/domain"
)

// StatusCount is an aggregate bucket per ticket status.
type StatusCount struct {
	Status domain.TicketStatus `json:"status"`
	Count  int                 `json:"count"`
}

// PriorityCount is an aggregate bucket per ticket priority.
type PriorityCount struct {
	Priority domain.TicketPriority `json:"priority"`
	Count    int                   `json:"count"`
}

// MonthlyCount is an aggregate bucket per "YYYY-MM" creation month.
type MonthlyCount struct {
	Month   string `json:"month"`
	Tickets int    `json:"tickets"`
}

// ReportRepository provides ticket aggregates for dashboarding.
type ReportRepository interface {
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	CountByPriority(ctx context.Context) ([]PriorityCount, error)
	MonthlyTrends(ctx context.Context) ([]MonthlyCount, error)
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository builds repository.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

func (r *reportRepository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	const query = `SELECT status, COUNT(*) FROM tickets GROUP BY status ORDER BY status`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []StatusCount
	for rows.Next() {
		var bucket StatusCount
		if err := rows.Scan(&bucket.Status, &bucket.Count); err != nil {
			return nil, err
		}
		result = append(result, bucket)
	}
	return result, rows.Err()
}

func (r *reportRepository) CountByPriority(ctx context.Context) ([]PriorityCount, error) {
	const query = `SELECT priority, COUNT(*) FROM tickets GROUP BY priority ORDER BY priority`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []PriorityCount
	for rows.Next() {
		var bucket PriorityCount
		if err := rows.Scan(&bucket.Priority, &bucket.Count); err != nil {
			return nil, err
		}
		result = append(result, bucket)
	}
	return result, rows.Err()
}

func (r *reportRepository) MonthlyTrends(ctx context.Context) ([]MonthlyCount, error) {
	const query = `
        SELECT to_char(created_at, 'YYYY-MM') AS month, COUNT(*)
        FROM tickets GROUP BY month ORDER BY month ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []MonthlyCount
	for rows.Next() {
		var bucket MonthlyCount
		if err := rows.Scan(&bucket.Month, &bucket.Tickets); err != nil {
			return nil, err
		}
		result = append(result, bucket)
	}
	return result, rows.Err()
}
