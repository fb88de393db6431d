package reviewrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nuvia/nutrition-advisor/internal/domain/review"
	apperrors "github.com/nuvia/nutrition-advisor/pkg/errors"
)

// PostgresRepository implements review.Repository using pgx.
//
// Schema:
//
//	CREATE TABLE review_queue (
//	    id UUID PRIMARY KEY,
//	    session_id UUID NOT NULL UNIQUE,
//	    status TEXT NOT NULL,
//	    risk_level TEXT NOT NULL,
//	    assigned_to TEXT,
//	    created_at TIMESTAMPTZ NOT NULL,
//	    resolved_at TIMESTAMPTZ,
//	    resolution_note TEXT,
//	    case_detail JSONB
//	);
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const reviewColumns = `id, session_id, status, risk_level, COALESCE(assigned_to, ''), created_at, resolved_at, COALESCE(resolution_note, ''), case_detail`

// Insert stores a new review queue row.
func (r *PostgresRepository) Insert(ctx context.Context, item review.Item) error {
	detail, err := marshalDetail(item.CaseDetail)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO review_queue
			(id, session_id, status, risk_level, assigned_to, created_at, resolved_at, resolution_note, case_detail)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, NULLIF($8, ''), $9)
	`, item.ID, item.SessionID, string(item.Status), string(item.RiskLevel),
		item.AssignedTo, item.CreatedAt, item.ResolvedAt, item.ResolutionNote, detail)
	return err
}

// GetByID fetches one review item by primary key.
func (r *PostgresRepository) GetByID(ctx context.Context, reviewID string) (review.Item, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+reviewColumns+` FROM review_queue WHERE id = $1`, reviewID)
	item, err := scanItem(row)
	if err == pgx.ErrNoRows {
		return review.Item{}, apperrors.Wrap(review.CodeNotFound, "review item not found", nil)
	}
	return item, err
}

// GetBySessionID fetches the review item tied to a session, if any.
func (r *PostgresRepository) GetBySessionID(ctx context.Context, sessionID string) (review.Item, bool, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+reviewColumns+` FROM review_queue WHERE session_id = $1`, sessionID)
	item, err := scanItem(row)
	if err == pgx.ErrNoRows {
		return review.Item{}, false, nil
	}
	if err != nil {
		return review.Item{}, false, err
	}
	return item, true, nil
}

// Update rewrites the mutable fields of a review item.
func (r *PostgresRepository) Update(ctx context.Context, item review.Item) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE review_queue
		SET status = $2,
		    assigned_to = NULLIF($3, ''),
		    resolved_at = $4,
		    resolution_note = NULLIF($5, '')
		WHERE id = $1
	`, item.ID, string(item.Status), item.AssignedTo, item.ResolvedAt, item.ResolutionNote)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.Wrap(review.CodeNotFound, "review item not found", nil)
	}
	return nil
}

// List pages filtered review items, CRITICAL risk first, newest first
// within a risk level.
func (r *PostgresRepository) List(ctx context.Context, filter review.Filter, offset, limit int) ([]review.Item, int, error) {
	where, args := buildFilter(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM review_queue` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + reviewColumns + ` FROM review_queue` + where + `
		ORDER BY CASE risk_level
			WHEN 'CRITICAL' THEN 3
			WHEN 'HIGH' THEN 2
			WHEN 'MEDIUM' THEN 1
			ELSE 0
		END DESC, created_at DESC
		OFFSET $` + fmt.Sprint(len(args)+1) + ` LIMIT $` + fmt.Sprint(len(args)+2)
	args = append(args, offset, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []review.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, item)
	}
	return out, total, rows.Err()
}

// CountByStatus counts items in one status.
func (r *PostgresRepository) CountByStatus(ctx context.Context, status review.Status) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM review_queue WHERE status = $1
	`, string(status)).Scan(&count)
	return count, err
}

// CountPendingByRisk counts pending items at one risk level.
func (r *PostgresRepository) CountPendingByRisk(ctx context.Context, risk review.RiskLevel) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM review_queue WHERE status = $1 AND risk_level = $2
	`, string(review.StatusPending), string(risk)).Scan(&count)
	return count, err
}

func buildFilter(filter review.Filter) (string, []any) {
	var clauses []string
	var args []any

	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.Status != "" {
		add("status = $%d", string(filter.Status))
	}
	if filter.RiskLevel != "" {
		add("risk_level = $%d", string(filter.RiskLevel))
	}
	if filter.AssignedTo != "" {
		add("assigned_to = $%d", filter.AssignedTo)
	}
	if filter.DateFrom != nil {
		add("created_at >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		add("created_at <= $%d", *filter.DateTo)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanItem(row pgx.Row) (review.Item, error) {
	var (
		item   review.Item
		status string
		risk   string
		detail []byte
	)
	if err := row.Scan(&item.ID, &item.SessionID, &status, &risk,
		&item.AssignedTo, &item.CreatedAt, &item.ResolvedAt, &item.ResolutionNote, &detail); err != nil {
		return review.Item{}, err
	}
	item.Status = review.Status(status)
	item.RiskLevel = review.RiskLevel(risk)
	if len(detail) > 0 {
		var cd review.CaseDetail
		if err := json.Unmarshal(detail, &cd); err != nil {
			return review.Item{}, err
		}
		item.CaseDetail = &cd
	}
	return item, nil
}

func marshalDetail(detail *review.CaseDetail) ([]byte, error) {
	if detail == nil {
		return nil, nil
	}
	return json.Marshal(detail)
}
