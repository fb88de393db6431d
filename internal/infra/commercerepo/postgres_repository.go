package commercerepo

// Expected schema:
//
//	CREATE TABLE commerce_bindings (
//	    rec_key    TEXT PRIMARY KEY,
//	    slot_type  TEXT NOT NULL,
//	    product_id TEXT NOT NULL DEFAULT '',
//	    offer_id   TEXT NOT NULL DEFAULT '',
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nuvia/nutrition-advisor/internal/domain/recommend"
)

// PostgresRepository implements Repository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Resolve implements recommend.CommerceResolver.
func (r *PostgresRepository) Resolve(ctx context.Context, recKey string) (recommend.CommerceSlot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT slot_type, product_id, offer_id
		FROM commerce_bindings
		WHERE rec_key = $1
		LIMIT 1
	`, normalizeKey(recKey))
	if err != nil {
		return recommend.CommerceSlot{}, err
	}
	defer rows.Close()
	if !rows.Next() {
		return recommend.CommerceSlot{Type: "none"}, rows.Err()
	}
	var slot recommend.CommerceSlot
	if err := rows.Scan(&slot.Type, &slot.ProductID, &slot.OfferID); err != nil {
		return recommend.CommerceSlot{}, err
	}
	return slot, rows.Err()
}

// Upsert inserts or replaces the binding for its rec key.
func (r *PostgresRepository) Upsert(ctx context.Context, binding Binding) (Binding, error) {
	rows, err := r.pool.Query(ctx, `
		INSERT INTO commerce_bindings (rec_key, slot_type, product_id, offer_id, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (rec_key) DO UPDATE
		SET slot_type = EXCLUDED.slot_type,
		    product_id = EXCLUDED.product_id,
		    offer_id = EXCLUDED.offer_id,
		    updated_at = now()
		RETURNING rec_key, slot_type, product_id, offer_id, updated_at
	`, normalizeKey(binding.RecKey), binding.SlotType, binding.ProductID, binding.OfferID)
	if err != nil {
		return Binding{}, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Binding{}, err
		}
		return Binding{}, errors.New("upsert returned no row")
	}
	return scanBinding(rows)
}

// List returns all bindings ordered by rec key.
func (r *PostgresRepository) List(ctx context.Context) ([]Binding, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT rec_key, slot_type, product_id, offer_id, updated_at
		FROM commerce_bindings
		ORDER BY rec_key
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Binding
	for rows.Next() {
		binding, err := scanBinding(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, binding)
	}
	return out, rows.Err()
}

// Delete removes a binding, reporting whether it existed.
func (r *PostgresRepository) Delete(ctx context.Context, recKey string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM commerce_bindings WHERE rec_key = $1`, normalizeKey(recKey))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBinding(row rowScanner) (Binding, error) {
	var binding Binding
	if err := row.Scan(&binding.RecKey, &binding.SlotType, &binding.ProductID, &binding.OfferID, &binding.UpdatedAt); err != nil {
		return Binding{}, err
	}
	return binding, nil
}
