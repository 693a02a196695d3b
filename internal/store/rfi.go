package store

import (
	"context"
	"database/sql"

	"github.com/mg3/promag-api/types"
)

// RFIRepository handles persistence for the RFI tracker.
type RFIRepository struct {
	db *sql.DB
}

func NewRFIRepository(db *sql.DB) *RFIRepository {
	return &RFIRepository{db: db}
}

const rfiColumns = `
	id, project_id, rfi_number, subject, description, from_contractor, date_sent,
	sent_to_aor, sent_to_eor, sent_to_subcontractor, sent_to_date, response_due,
	date_answered, status,
	CASE
		WHEN status = 'Approved' THEN (COALESCE(date_answered, CURRENT_DATE) - created_at::date)::int
		ELSE (CURRENT_DATE - created_at::date)::int
	END AS days_open,
	responsible, notes, COALESCE(lifecycle_status, 'opened') AS lifecycle_status, created_at`

func scanRFI(row interface{ Scan(...any) error }) (types.RFI, error) {
	var rfi types.RFI
	err := row.Scan(
		&rfi.ID,
		&rfi.ProjectID,
		&rfi.RFINumber,
		&rfi.Subject,
		&rfi.Description,
		&rfi.FromContractor,
		&rfi.DateSent,
		&rfi.SentToAOR,
		&rfi.SentToEOR,
		&rfi.SentToSubcontractor,
		&rfi.SentToDate,
		&rfi.ResponseDue,
		&rfi.DateAnswered,
		&rfi.Status,
		&rfi.DaysOpen,
		&rfi.Responsible,
		&rfi.Notes,
		&rfi.LifecycleStatus,
		&rfi.CreatedAt,
	)
	return rfi, err
}

func (r *RFIRepository) List(ctx context.Context) ([]types.RFI, error) {
	query := `SELECT ` + rfiColumns + ` FROM rfi_tracker ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, Classify(err)
	}
	defer rows.Close()

	rfis := make([]types.RFI, 0)
	for rows.Next() {
		rfi, err := scanRFI(rows)
		if err != nil {
			return nil, Classify(err)
		}
		rfis = append(rfis, rfi)
	}
	if err := rows.Err(); err != nil {
		return nil, Classify(err)
	}
	return rfis, nil
}

func (r *RFIRepository) Get(ctx context.Context, id int64) (types.RFI, error) {
	query := `SELECT ` + rfiColumns + ` FROM rfi_tracker WHERE id = $1`
	rfi, err := scanRFI(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return types.RFI{}, Classify(err)
	}
	return rfi, nil
}

func (r *RFIRepository) Create(ctx context.Context, rfi types.RFI) (types.RFI, error) {
	query := `
		INSERT INTO rfi_tracker (
			project_id, rfi_number, subject, description, from_contractor, date_sent,
			sent_to_aor, sent_to_eor, sent_to_subcontractor, sent_to_date, response_due,
			date_answered, status, responsible, notes, lifecycle_status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + rfiColumns
	created, err := scanRFI(r.db.QueryRowContext(
		ctx,
		query,
		rfi.ProjectID,
		rfi.RFINumber,
		rfi.Subject,
		rfi.Description,
		rfi.FromContractor,
		rfi.DateSent,
		rfi.SentToAOR,
		rfi.SentToEOR,
		rfi.SentToSubcontractor,
		rfi.SentToDate,
		rfi.ResponseDue,
		rfi.DateAnswered,
		rfi.Status,
		rfi.Responsible,
		rfi.Notes,
		rfi.LifecycleStatus,
	))
	if err != nil {
		return types.RFI{}, Classify(err)
	}
	return created, nil
}

// Update rewrites the row. sent_to_date follows the same rule as submittals;
// date_answered is stamped when the status is Approved and no date exists.
func (r *RFIRepository) Update(ctx context.Context, rfi types.RFI) (types.RFI, error) {
	query := `
		UPDATE rfi_tracker
		SET project_id = $2,
			rfi_number = $3,
			subject = $4,
			description = $5,
			from_contractor = $6,
			date_sent = $7,
			sent_to_aor = $8,
			sent_to_eor = $9,
			sent_to_subcontractor = $10,
			sent_to_date = ` + sentToDateCase + `,
			response_due = $12,
			date_answered = CASE
				WHEN $14::text = 'Approved' THEN COALESCE($13::date, date_answered, CURRENT_DATE)
				ELSE $13::date
			END,
			status = $14,
			responsible = $15,
			notes = $16,
			lifecycle_status = $17
		WHERE id = $1
		RETURNING ` + rfiColumns
	updated, err := scanRFI(r.db.QueryRowContext(
		ctx,
		query,
		rfi.ID,
		rfi.ProjectID,
		rfi.RFINumber,
		rfi.Subject,
		rfi.Description,
		rfi.FromContractor,
		rfi.DateSent,
		rfi.SentToAOR,
		rfi.SentToEOR,
		rfi.SentToSubcontractor,
		rfi.SentToDate,
		rfi.ResponseDue,
		rfi.DateAnswered,
		rfi.Status,
		rfi.Responsible,
		rfi.Notes,
		rfi.LifecycleStatus,
	))
	if err != nil {
		return types.RFI{}, Classify(err)
	}
	return updated, nil
}

func (r *RFIRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM rfi_tracker WHERE id = $1`
	return execAffectingOne(ctx, r.db, query, id)
}
