package store

import (
	"context"
	"database/sql"

	"github.com/mg3/promag-api/types"
)

// ActionItemRepository handles persistence for project action items.
type ActionItemRepository struct {
	db *sql.DB
}

func NewActionItemRepository(db *sql.DB) *ActionItemRepository {
	return &ActionItemRepository{db: db}
}

const actionItemColumns = `
	id, project_id, task, description, assigned_to, start_date, due_date,
	status, priority,
	CASE WHEN due_date IS NULL THEN NULL ELSE (due_date - CURRENT_DATE)::int END AS days_left,
	notes`

func scanActionItem(row interface{ Scan(...any) error }) (types.ActionItem, error) {
	var item types.ActionItem
	err := row.Scan(
		&item.ID,
		&item.ProjectID,
		&item.Task,
		&item.Description,
		&item.AssignedTo,
		&item.StartDate,
		&item.DueDate,
		&item.Status,
		&item.Priority,
		&item.DaysLeft,
		&item.Notes,
	)
	return item, err
}

func (r *ActionItemRepository) List(ctx context.Context) ([]types.ActionItem, error) {
	query := `SELECT ` + actionItemColumns + ` FROM action_items ORDER BY due_date ASC NULLS LAST, id ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, Classify(err)
	}
	defer rows.Close()

	items := make([]types.ActionItem, 0)
	for rows.Next() {
		item, err := scanActionItem(rows)
		if err != nil {
			return nil, Classify(err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, Classify(err)
	}
	return items, nil
}

func (r *ActionItemRepository) Create(ctx context.Context, item types.ActionItem) (types.ActionItem, error) {
	query := `
		INSERT INTO action_items (
			project_id, task, description, assigned_to, start_date, due_date,
			status, priority, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + actionItemColumns
	created, err := scanActionItem(r.db.QueryRowContext(
		ctx,
		query,
		item.ProjectID,
		item.Task,
		item.Description,
		item.AssignedTo,
		item.StartDate,
		item.DueDate,
		item.Status,
		item.Priority,
		item.Notes,
	))
	if err != nil {
		return types.ActionItem{}, Classify(err)
	}
	return created, nil
}

func (r *ActionItemRepository) Update(ctx context.Context, item types.ActionItem) (types.ActionItem, error) {
	query := `
		UPDATE action_items
		SET project_id = $2,
			task = $3,
			description = $4,
			assigned_to = $5,
			start_date = $6,
			due_date = $7,
			status = $8,
			priority = $9,
			notes = $10
		WHERE id = $1
		RETURNING ` + actionItemColumns
	updated, err := scanActionItem(r.db.QueryRowContext(
		ctx,
		query,
		item.ID,
		item.ProjectID,
		item.Task,
		item.Description,
		item.AssignedTo,
		item.StartDate,
		item.DueDate,
		item.Status,
		item.Priority,
		item.Notes,
	))
	if err != nil {
		return types.ActionItem{}, Classify(err)
	}
	return updated, nil
}

func (r *ActionItemRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM action_items WHERE id = $1`
	return execAffectingOne(ctx, r.db, query, id)
}
