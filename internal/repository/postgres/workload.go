package postgres

import (
	"context"
	"fmt"

	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/entities"
)

const (
	countOpenQuery = `
SELECT COUNT(*)
FROM submissions
WHERE assignee_id = $1 AND status NOT IN ('APPROVED', 'REJECTED')`

	workloadStatsQuery = `
SELECT u.id, u.role, COUNT(s.id) AS open_cnt
FROM users u
LEFT JOIN submissions s
    ON s.assignee_id = u.id AND s.status NOT IN ('APPROVED', 'REJECTED')
WHERE u.role IN ('TESTER', 'REVIEWER')
GROUP BY u.id, u.role
ORDER BY u.id`
)

// CountOpenAssignments derives the user's current workload. The count is
// always computed from the submission store so it cannot drift.
func (p *Postgres) CountOpenAssignments(ctx context.Context, userID string) (int64, error) {
	var n int64
	if err := p.db.QueryRow(ctx, countOpenQuery, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count open assignments: %w", err)
	}
	return n, nil
}

// WorkloadStats returns derived open counts for every assignable user.
func (p *Postgres) WorkloadStats(ctx context.Context) ([]entities.WorkloadStat, error) {
	rows, err := p.db.Query(ctx, workloadStatsQuery)
	if err != nil {
		return nil, fmt.Errorf("workload stats: %w", err)
	}
	defer rows.Close()

	stats := make([]entities.WorkloadStat, 0)
	for rows.Next() {
		var s entities.WorkloadStat
		if err := rows.Scan(&s.UserID, &s.Role, &s.OpenCnt); err != nil {
			return nil, fmt.Errorf("scan workload stat: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workload stats: %w", err)
	}
	return stats, nil
}
