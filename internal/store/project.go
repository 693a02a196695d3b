package store

import (
	"context"
	"database/sql"

	"github.com/mg3/promag-api/types"
)

// ProjectRepository handles persistence for the project list.
type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `
	project_id, project_name, address, developer, aor, eor,
	start_date, end_date, status, priority, notes, image_url`

func scanProject(row interface{ Scan(...any) error }) (types.Project, error) {
	var project types.Project
	err := row.Scan(
		&project.ProjectID,
		&project.ProjectName,
		&project.Address,
		&project.Developer,
		&project.AOR,
		&project.EOR,
		&project.StartDate,
		&project.EndDate,
		&project.Status,
		&project.Priority,
		&project.Notes,
		&project.ImageURL,
	)
	return project, err
}

func (r *ProjectRepository) List(ctx context.Context) ([]types.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM product_list ORDER BY project_name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, Classify(err)
	}
	defer rows.Close()

	projects := make([]types.Project, 0)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, Classify(err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, Classify(err)
	}
	return projects, nil
}

func (r *ProjectRepository) Get(ctx context.Context, projectID string) (types.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM product_list WHERE project_id = $1`
	project, err := scanProject(r.db.QueryRowContext(ctx, query, projectID))
	if err != nil {
		return types.Project{}, Classify(err)
	}
	return project, nil
}

// Exists reports whether projectID is already taken.
func (r *ProjectRepository) Exists(ctx context.Context, projectID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM product_list WHERE project_id = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, projectID).Scan(&exists); err != nil {
		return false, Classify(err)
	}
	return exists, nil
}

// Create inserts the project. A duplicate project_id yields ErrConflict.
func (r *ProjectRepository) Create(ctx context.Context, project types.Project) (types.Project, error) {
	query := `
		INSERT INTO product_list (
			project_id, project_name, address, developer, aor, eor,
			start_date, end_date, status, priority, notes, image_url
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + projectColumns
	created, err := scanProject(r.db.QueryRowContext(
		ctx,
		query,
		project.ProjectID,
		project.ProjectName,
		project.Address,
		project.Developer,
		project.AOR,
		project.EOR,
		project.StartDate,
		project.EndDate,
		project.Status,
		project.Priority,
		project.Notes,
		project.ImageURL,
	))
	if err != nil {
		return types.Project{}, Classify(err)
	}
	return created, nil
}

// Update rewrites every mutable column. project_id and image_url are left alone.
func (r *ProjectRepository) Update(ctx context.Context, project types.Project) (types.Project, error) {
	query := `
		UPDATE product_list
		SET project_name = $2,
			address = $3,
			developer = $4,
			aor = $5,
			eor = $6,
			start_date = $7,
			end_date = $8,
			status = $9,
			priority = $10,
			notes = $11
		WHERE project_id = $1
		RETURNING ` + projectColumns
	updated, err := scanProject(r.db.QueryRowContext(
		ctx,
		query,
		project.ProjectID,
		project.ProjectName,
		project.Address,
		project.Developer,
		project.AOR,
		project.EOR,
		project.StartDate,
		project.EndDate,
		project.Status,
		project.Priority,
		project.Notes,
	))
	if err != nil {
		return types.Project{}, Classify(err)
	}
	return updated, nil
}

func (r *ProjectRepository) SetImageURL(ctx context.Context, projectID string, imageURL *string) (types.Project, error) {
	query := `
		UPDATE product_list
		SET image_url = $2
		WHERE project_id = $1
		RETURNING ` + projectColumns
	updated, err := scanProject(r.db.QueryRowContext(ctx, query, projectID, imageURL))
	if err != nil {
		return types.Project{}, Classify(err)
	}
	return updated, nil
}

func (r *ProjectRepository) Delete(ctx context.Context, projectID string) error {
	const query = `DELETE FROM product_list WHERE project_id = $1`
	return execAffectingOne(ctx, r.db, query, projectID)
}

func execAffectingOne(ctx context.Context, db *sql.DB, query string, args ...any) error {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return Classify(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Classify(err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
