package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const submissionColumns = `
id, contributor_id, kind, status, assignee_id, category, language, difficulty,
submitted_account, task_link, account_posted_in, file_url,
version, created_at, updated_at`

const (
	insertSubmissionQuery = `
INSERT INTO submissions(id, contributor_id, kind, status, category, language, difficulty, file_url)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + submissionColumns

	selectSubmissionQuery = `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1`

	deleteSubmissionQuery = `DELETE FROM submissions WHERE id = $1`

	setAssigneeQuery = `
UPDATE submissions
SET assignee_id = $3, version = version + 1, updated_at = NOW()
WHERE id = $1 AND version = $2
RETURNING ` + submissionColumns

	applyTransitionQuery = `
UPDATE submissions
SET status = $3,
    assignee_id = CASE WHEN $4 THEN NULL ELSE assignee_id END,
    submitted_account = COALESCE(NULLIF($5, ''), submitted_account),
    task_link = COALESCE(NULLIF($6, ''), task_link),
    account_posted_in = COALESCE(NULLIF($7, ''), account_posted_in),
    file_url = COALESCE(NULLIF($8, ''), file_url),
    version = version + 1,
    updated_at = NOW()
WHERE id = $1 AND version = $2
RETURNING ` + submissionColumns

	listDeferredQuery = `
SELECT ` + submissionColumns + `
FROM submissions
WHERE assignee_id IS NULL AND status NOT IN ('APPROVED', 'REJECTED')
ORDER BY created_at ASC`

	listAssignedToQuery = `
SELECT ` + submissionColumns + `
FROM submissions
WHERE assignee_id = $1 AND status NOT IN ('APPROVED', 'REJECTED')
ORDER BY created_at DESC`

	insertFeedbackQuery = `
INSERT INTO submission_feedback(submission_id, author_id, author_role, kind, body)
VALUES ($1, $2, $3, $4, $5)`

	listFeedbackQuery = `
SELECT id, submission_id, author_id, author_role, kind, body, created_at
FROM submission_feedback
WHERE submission_id = $1
ORDER BY created_at ASC, id ASC`

	insertHistoryQuery = `
INSERT INTO assignment_history(submission_id, old_assignee_id, new_assignee_id)
VALUES ($1, $2, $3)`

	listHistoryQuery = `
SELECT old_assignee_id, new_assignee_id, changed_at
FROM assignment_history
WHERE submission_id = $1
ORDER BY changed_at ASC, id ASC`
)

// CreateSubmission stores a new submission with its initial status.
func (p *Postgres) CreateSubmission(ctx context.Context, sub entities.Submission) (*entities.Submission, error) {
	row := p.db.QueryRow(ctx, insertSubmissionQuery,
		sub.ID, sub.ContributorID, sub.Kind, sub.Status,
		sub.Category, sub.Language, sub.Difficulty, sub.FileURL)
	out, err := scanSubmission(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%w: duplicate submission id", entities.ErrInvalidArgument)
		}
		p.log.Errorw("failed to insert submission", "error", err, "id", sub.ID)
		return nil, fmt.Errorf("insert submission: %w", err)
	}

	p.log.Infow("submission created", "submission_id", out.ID, "kind", out.Kind, "status", out.Status)
	return out, nil
}

// GetSubmission returns a submission by id.
func (p *Postgres) GetSubmission(ctx context.Context, id string) (*entities.Submission, error) {
	out, err := scanSubmission(p.db.QueryRow(ctx, selectSubmissionQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("get submission: %w", err)
	}
	return out, nil
}

// DeleteSubmission removes a submission; feedback and history cascade.
func (p *Postgres) DeleteSubmission(ctx context.Context, id string) error {
	tag, err := p.db.Exec(ctx, deleteSubmissionQuery, id)
	if err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrSubmissionNotFound
	}
	p.log.Infow("submission deleted", "submission_id", id)
	return nil
}

// SetAssignee CAS-updates the assignee and appends a history record.
func (p *Postgres) SetAssignee(ctx context.Context, id string, version int64, assigneeID *string) (*entities.Submission, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	prev, err := scanSubmission(tx.QueryRow(ctx, selectSubmissionQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("get submission: %w", err)
	}

	out, err := scanSubmission(tx.QueryRow(ctx, setAssigneeQuery, id, version, assigneeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrConcurrentModification
		}
		return nil, fmt.Errorf("set assignee: %w", err)
	}

	if err := p.insertAssignmentHistory(ctx, tx, id, prev.AssigneeID, assigneeID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

// ApplyTransition CAS-updates status, attachments and appended feedback.
func (p *Postgres) ApplyTransition(ctx context.Context, id string, version int64, tr entities.TransitionWrite) (*entities.Submission, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	prev, err := scanSubmission(tx.QueryRow(ctx, selectSubmissionQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("get submission: %w", err)
	}

	out, err := scanSubmission(tx.QueryRow(ctx, applyTransitionQuery,
		id, version, tr.To, tr.ClearAssignee,
		tr.SubmittedAccount, tr.TaskLink, tr.AccountPostedIn, tr.FileURL))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrConcurrentModification
		}
		return nil, fmt.Errorf("apply transition: %w", err)
	}

	if tr.ClearAssignee && prev.AssigneeID != nil {
		if err := p.insertAssignmentHistory(ctx, tx, id, prev.AssigneeID, nil); err != nil {
			return nil, err
		}
	}

	if tr.Feedback != nil {
		fb := tr.Feedback
		if _, err := tx.Exec(ctx, insertFeedbackQuery,
			id, fb.AuthorID, fb.AuthorRole, fb.Kind, fb.Body); err != nil {
			return nil, fmt.Errorf("insert feedback: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	p.log.Infow("transition applied",
		"submission_id", id, "from_status", prev.Status, "to_status", out.Status)
	return out, nil
}

// ListDeferred returns unassigned non-terminal submissions, oldest first.
func (p *Postgres) ListDeferred(ctx context.Context) ([]entities.Submission, error) {
	return p.querySubmissions(ctx, listDeferredQuery)
}

// ListAssignedTo returns open submissions assigned to the user, newest first.
func (p *Postgres) ListAssignedTo(ctx context.Context, userID string) ([]entities.Submission, error) {
	return p.querySubmissions(ctx, listAssignedToQuery, userID)
}

// ListFeedback returns feedback records in append order.
func (p *Postgres) ListFeedback(ctx context.Context, submissionID string) ([]entities.Feedback, error) {
	rows, err := p.db.Query(ctx, listFeedbackQuery, submissionID)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	records := make([]entities.Feedback, 0)
	for rows.Next() {
		var fb entities.Feedback
		if err := rows.Scan(&fb.ID, &fb.SubmissionID, &fb.AuthorID, &fb.AuthorRole, &fb.Kind, &fb.Body, &fb.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		records = append(records, fb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feedback: %w", err)
	}
	return records, nil
}

// ListAssignmentHistory returns assignee changes in append order.
func (p *Postgres) ListAssignmentHistory(ctx context.Context, submissionID string) ([]entities.AssignmentChange, error) {
	rows, err := p.db.Query(ctx, listHistoryQuery, submissionID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	changes := make([]entities.AssignmentChange, 0)
	for rows.Next() {
		var ch entities.AssignmentChange
		if err := rows.Scan(&ch.OldAssigneeID, &ch.NewAssigneeID, &ch.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		changes = append(changes, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return changes, nil
}

func (p *Postgres) querySubmissions(ctx context.Context, query string, args ...any) ([]entities.Submission, error) {
	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	subs := make([]entities.Submission, 0)
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		subs = append(subs, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return subs, nil
}

func (p *Postgres) insertAssignmentHistory(ctx context.Context, tx pgx.Tx, submissionID string, oldAssignee, newAssignee *string) error {
	if _, err := tx.Exec(ctx, insertHistoryQuery, submissionID, oldAssignee, newAssignee); err != nil {
		return fmt.Errorf("insert assignment history: %w", err)
	}
	return nil
}

func scanSubmission(row pgx.Row) (*entities.Submission, error) {
	var sub entities.Submission
	err := row.Scan(
		&sub.ID, &sub.ContributorID, &sub.Kind, &sub.Status, &sub.AssigneeID,
		&sub.Category, &sub.Language, &sub.Difficulty,
		&sub.SubmittedAccount, &sub.TaskLink, &sub.AccountPostedIn, &sub.FileURL,
		&sub.Version, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
