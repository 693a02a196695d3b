package store

import (
	"context"
	"database/sql"

	"github.com/mg3/promag-api/types"
)

// UserRepository handles persistence for app users.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, email, full_name, password_hash, api_token, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (types.User, error) {
	var user types.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.PasswordHash,
		&user.APIToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (types.User, error) {
	query := `SELECT ` + userColumns + ` FROM app_users WHERE username = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		return types.User{}, Classify(err)
	}
	return user, nil
}

// GetByToken resolves a bearer token by exact match.
func (r *UserRepository) GetByToken(ctx context.Context, token string) (types.User, error) {
	query := `SELECT ` + userColumns + ` FROM app_users WHERE api_token = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, token))
	if err != nil {
		return types.User{}, Classify(err)
	}
	return user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]types.User, error) {
	query := `SELECT ` + userColumns + ` FROM app_users ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, Classify(err)
	}
	defer rows.Close()

	users := make([]types.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, Classify(err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, Classify(err)
	}
	return users, nil
}

// SetToken replaces the user's live token. A nil token logs the user out.
func (r *UserRepository) SetToken(ctx context.Context, id int64, token *string) error {
	const query = `UPDATE app_users SET api_token = $1, updated_at = NOW() WHERE id = $2`
	return execAffectingOne(ctx, r.db, query, token, id)
}

// Upsert creates the user or refreshes email, name and password of an
// existing user with the same username.
func (r *UserRepository) Upsert(ctx context.Context, user types.User) (types.User, error) {
	const query = `
		INSERT INTO app_users (username, email, full_name, password_hash)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (username)
		DO UPDATE SET
			email = EXCLUDED.email,
			full_name = EXCLUDED.full_name,
			password_hash = EXCLUDED.password_hash,
			updated_at = NOW()
		RETURNING ` + userColumns
	saved, err := scanUser(r.db.QueryRowContext(
		ctx,
		query,
		user.Username,
		user.Email,
		user.FullName,
		user.PasswordHash,
	))
	if err != nil {
		return types.User{}, Classify(err)
	}
	return saved, nil
}
