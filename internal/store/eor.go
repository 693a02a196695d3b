package store

import (
	"context"
	"database/sql"

	"github.com/mg3/promag-api/types"
)

// EORRepository handles persistence for engineers of record.
type EORRepository struct {
	db *sql.DB
}

func NewEORRepository(db *sql.DB) *EORRepository {
	return &EORRepository{db: db}
}

// List returns every EOR, or only those of eorType when it is non-empty.
func (r *EORRepository) List(ctx context.Context, eorType types.EORType) ([]types.EOR, error) {
	const query = `
		SELECT id, type, name
		FROM eors
		WHERE ($1::text = '' OR type = $1)
		ORDER BY type ASC, name ASC`
	rows, err := r.db.QueryContext(ctx, query, string(eorType))
	if err != nil {
		return nil, Classify(err)
	}
	defer rows.Close()

	eors := make([]types.EOR, 0)
	for rows.Next() {
		var eor types.EOR
		if err := rows.Scan(&eor.ID, &eor.Type, &eor.Name); err != nil {
			return nil, Classify(err)
		}
		eors = append(eors, eor)
	}
	if err := rows.Err(); err != nil {
		return nil, Classify(err)
	}
	return eors, nil
}

func (r *EORRepository) Create(ctx context.Context, eor types.EOR) (types.EOR, error) {
	const query = `INSERT INTO eors (type, name) VALUES ($1, $2) RETURNING id, type, name`
	var created types.EOR
	err := r.db.QueryRowContext(ctx, query, string(eor.Type), eor.Name).Scan(&created.ID, &created.Type, &created.Name)
	if err != nil {
		return types.EOR{}, Classify(err)
	}
	return created, nil
}

func (r *EORRepository) Update(ctx context.Context, eor types.EOR) (types.EOR, error) {
	const query = `UPDATE eors SET type = $2, name = $3 WHERE id = $1 RETURNING id, type, name`
	var updated types.EOR
	err := r.db.QueryRowContext(ctx, query, eor.ID, string(eor.Type), eor.Name).Scan(&updated.ID, &updated.Type, &updated.Name)
	if err != nil {
		return types.EOR{}, Classify(err)
	}
	return updated, nil
}

func (r *EORRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM eors WHERE id = $1`
	return execAffectingOne(ctx, r.db, query, id)
}
