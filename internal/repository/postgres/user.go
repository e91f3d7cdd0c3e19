package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	insertUserQuery = `
INSERT INTO users(id, username, role, is_approved, is_green_light)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, username, role, is_approved, is_green_light, created_at`

	selectUserQuery = `
SELECT id, username, role, is_approved, is_green_light, created_at
FROM users WHERE id = $1`

	setGreenLightQuery = `
UPDATE users SET is_green_light = $2
WHERE id = $1
RETURNING id, username, role, is_approved, is_green_light, created_at`

	setApprovedQuery = `
UPDATE users SET is_approved = $2
WHERE id = $1
RETURNING id, username, role, is_approved, is_green_light, created_at`

	releaseAssignmentsQuery = `
UPDATE submissions
SET assignee_id = NULL, version = version + 1, updated_at = NOW()
WHERE assignee_id = $1 AND status NOT IN ('APPROVED', 'REJECTED')
RETURNING id`

	listCandidatesQuery = `
SELECT u.id, u.created_at, COUNT(s.id) AS open_cnt
FROM users u
LEFT JOIN submissions s
    ON s.assignee_id = u.id AND s.status NOT IN ('APPROVED', 'REJECTED')
WHERE u.role = $1 AND u.is_approved = true AND u.is_green_light = true
GROUP BY u.id, u.created_at`
)

// CreateUser registers an assignment target.
func (p *Postgres) CreateUser(ctx context.Context, user entities.User) (*entities.User, error) {
	var u entities.User
	err := p.db.QueryRow(ctx, insertUserQuery,
		user.ID, user.Username, user.Role, user.IsApproved, user.IsGreenLight).
		Scan(&u.ID, &u.Username, &u.Role, &u.IsApproved, &u.IsGreenLight, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, entities.ErrUserExists
		}
		p.log.Errorw("failed to insert user", "error", err, "user_id", user.ID)
		return nil, fmt.Errorf("insert user: %w", err)
	}

	p.log.Infow("user registered", "user_id", u.ID, "role", u.Role)
	return &u, nil
}

// GetUser returns a user by id.
func (p *Postgres) GetUser(ctx context.Context, userID string) (*entities.User, error) {
	var u entities.User
	err := p.db.QueryRow(ctx, selectUserQuery, userID).
		Scan(&u.ID, &u.Username, &u.Role, &u.IsApproved, &u.IsGreenLight, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// SetGreenLight updates the availability flag and returns the updated user.
func (p *Postgres) SetGreenLight(ctx context.Context, userID string, on bool) (*entities.User, error) {
	var u entities.User
	err := p.db.QueryRow(ctx, setGreenLightQuery, userID, on).
		Scan(&u.ID, &u.Username, &u.Role, &u.IsApproved, &u.IsGreenLight, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrUserNotFound
		}
		p.log.Errorw("failed to set green light", "error", err, "user_id", userID)
		return nil, fmt.Errorf("set green light: %w", err)
	}

	p.log.Infow("green light updated", "user_id", userID, "is_green_light", on)
	return &u, nil
}

// SetUserApproved flips approval; revocation releases the user's open
// assignments back to the deferred queue within one transaction.
func (p *Postgres) SetUserApproved(ctx context.Context, userID string, approved bool) (*entities.User, int, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var u entities.User
	err = tx.QueryRow(ctx, setApprovedQuery, userID, approved).
		Scan(&u.ID, &u.Username, &u.Role, &u.IsApproved, &u.IsGreenLight, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, entities.ErrUserNotFound
		}
		return nil, 0, fmt.Errorf("set approved: %w", err)
	}

	released := 0
	if !approved {
		rows, err := tx.Query(ctx, releaseAssignmentsQuery, userID)
		if err != nil {
			return nil, 0, fmt.Errorf("release assignments: %w", err)
		}
		defer rows.Close()
		releasedIDs := make([]string, 0)
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				return nil, 0, fmt.Errorf("scan released id: %w", err)
			}
			releasedIDs = append(releasedIDs, id)
		}
		if err := rows.Err(); err != nil {
			return nil, 0, fmt.Errorf("iterate released ids: %w", err)
		}
		for _, id := range releasedIDs {
			if err := p.insertAssignmentHistory(ctx, tx, id, &userID, nil); err != nil {
				return nil, 0, err
			}
		}
		released = len(releasedIDs)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, err
	}

	p.log.Infow("approval updated", "user_id", userID, "approved", approved, "released", released)
	return &u, released, nil
}

// ListCandidates snapshots assignable users of a pool with derived workloads.
func (p *Postgres) ListCandidates(ctx context.Context, pool entities.Role) ([]entities.Candidate, error) {
	rows, err := p.db.Query(ctx, listCandidatesQuery, pool)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	candidates := make([]entities.Candidate, 0)
	for rows.Next() {
		var c entities.Candidate
		if err := rows.Scan(&c.UserID, &c.CreatedAt, &c.Workload); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}
	return candidates, nil
}
