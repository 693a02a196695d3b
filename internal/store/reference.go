package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mg3/promag-api/types"
)

// referenceTables maps each name-only list to its table. Table names never
// come from user input.
var referenceTables = map[types.ReferenceKind]string{
	types.ReferenceAOR:           "aors",
	types.ReferenceProvider:      "providers",
	types.ReferenceSubcontractor: "subcontractors",
}

// ReferenceRepository handles one of the name-only lookup lists.
type ReferenceRepository struct {
	db    *sql.DB
	kind  types.ReferenceKind
	table string
}

// NewReferenceRepository panics on an unknown kind; the set is fixed at compile time.
func NewReferenceRepository(db *sql.DB, kind types.ReferenceKind) *ReferenceRepository {
	table, ok := referenceTables[kind]
	if !ok {
		panic(fmt.Sprintf("store: unknown reference kind %q", kind))
	}
	return &ReferenceRepository{db: db, kind: kind, table: table}
}

func (r *ReferenceRepository) Kind() types.ReferenceKind {
	return r.kind
}

func (r *ReferenceRepository) List(ctx context.Context) ([]types.Reference, error) {
	query := `SELECT id, name FROM ` + r.table + ` ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, Classify(err)
	}
	defer rows.Close()

	refs := make([]types.Reference, 0)
	for rows.Next() {
		var ref types.Reference
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, Classify(err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, Classify(err)
	}
	return refs, nil
}

func (r *ReferenceRepository) Create(ctx context.Context, name string) (types.Reference, error) {
	query := `INSERT INTO ` + r.table + ` (name) VALUES ($1) RETURNING id, name`
	var ref types.Reference
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&ref.ID, &ref.Name); err != nil {
		return types.Reference{}, Classify(err)
	}
	return ref, nil
}

func (r *ReferenceRepository) Update(ctx context.Context, ref types.Reference) (types.Reference, error) {
	query := `UPDATE ` + r.table + ` SET name = $2 WHERE id = $1 RETURNING id, name`
	var updated types.Reference
	if err := r.db.QueryRowContext(ctx, query, ref.ID, ref.Name).Scan(&updated.ID, &updated.Name); err != nil {
		return types.Reference{}, Classify(err)
	}
	return updated, nil
}

func (r *ReferenceRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM ` + r.table + ` WHERE id = $1`
	return execAffectingOne(ctx, r.db, query, id)
}
