package store

import (
	"context"
	"database/sql"

	"github.com/mg3/promag-api/types"
)

// SubmittalRepository handles persistence for the submittal tracker.
type SubmittalRepository struct {
	db *sql.DB
}

func NewSubmittalRepository(db *sql.DB) *SubmittalRepository {
	return &SubmittalRepository{db: db}
}

const submittalColumns = `
	id, project_id, division_csi, submittal_number, subject, contractor,
	date_received, sent_to_aor, sent_to_eor, sent_to_subcontractor, sent_to_date,
	approvers, approval_status, revision, due_date,
	CASE WHEN date_received IS NULL THEN NULL ELSE (CURRENT_DATE - date_received)::int END AS days_pending,
	overall_status, responsible, workflow_stage, notes, COALESCE(lifecycle_status, 'opened') AS lifecycle_status, created_at`

func scanSubmittal(row interface{ Scan(...any) error }) (types.Submittal, error) {
	var s types.Submittal
	err := row.Scan(
		&s.ID,
		&s.ProjectID,
		&s.DivisionCSI,
		&s.SubmittalNumber,
		&s.Subject,
		&s.Contractor,
		&s.DateReceived,
		&s.SentToAOR,
		&s.SentToEOR,
		&s.SentToSubcontractor,
		&s.SentToDate,
		&s.Approvers,
		&s.ApprovalStatus,
		&s.Revision,
		&s.DueDate,
		&s.DaysPending,
		&s.OverallStatus,
		&s.Responsible,
		&s.WorkflowStage,
		&s.Notes,
		&s.LifecycleStatus,
		&s.CreatedAt,
	)
	return s, err
}

func (r *SubmittalRepository) List(ctx context.Context) ([]types.Submittal, error) {
	query := `SELECT ` + submittalColumns + ` FROM submittal_tracker ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, Classify(err)
	}
	defer rows.Close()

	submittals := make([]types.Submittal, 0)
	for rows.Next() {
		s, err := scanSubmittal(rows)
		if err != nil {
			return nil, Classify(err)
		}
		submittals = append(submittals, s)
	}
	if err := rows.Err(); err != nil {
		return nil, Classify(err)
	}
	return submittals, nil
}

func (r *SubmittalRepository) Get(ctx context.Context, id int64) (types.Submittal, error) {
	query := `SELECT ` + submittalColumns + ` FROM submittal_tracker WHERE id = $1`
	s, err := scanSubmittal(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return types.Submittal{}, Classify(err)
	}
	return s, nil
}

// Create inserts the submittal as given; derived fields are filled by the caller.
func (r *SubmittalRepository) Create(ctx context.Context, s types.Submittal) (types.Submittal, error) {
	query := `
		INSERT INTO submittal_tracker (
			project_id, division_csi, submittal_number, subject, contractor, date_received,
			sent_to_aor, sent_to_eor, sent_to_subcontractor, sent_to_date, approvers,
			approval_status, revision, due_date, overall_status, responsible, workflow_stage,
			notes, lifecycle_status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING ` + submittalColumns
	created, err := scanSubmittal(r.db.QueryRowContext(
		ctx,
		query,
		s.ProjectID,
		s.DivisionCSI,
		s.SubmittalNumber,
		s.Subject,
		s.Contractor,
		s.DateReceived,
		s.SentToAOR,
		s.SentToEOR,
		s.SentToSubcontractor,
		s.SentToDate,
		s.Approvers,
		s.ApprovalStatus,
		s.Revision,
		s.DueDate,
		s.OverallStatus,
		s.Responsible,
		s.WorkflowStage,
		s.Notes,
		s.LifecycleStatus,
	))
	if err != nil {
		return types.Submittal{}, Classify(err)
	}
	return created, nil
}

// Update rewrites the row. sent_to_date is restamped only when a recipient
// changed to a non-empty value; otherwise the stored date is kept unless an
// explicit one is given.
func (r *SubmittalRepository) Update(ctx context.Context, s types.Submittal) (types.Submittal, error) {
	query := `
		UPDATE submittal_tracker
		SET project_id = $2,
			division_csi = $3,
			submittal_number = $4,
			subject = $5,
			contractor = $6,
			date_received = $7,
			sent_to_aor = $8,
			sent_to_eor = $9,
			sent_to_subcontractor = $10,
			sent_to_date = ` + sentToDateCase + `,
			approvers = $12,
			approval_status = $13,
			revision = $14,
			due_date = $15,
			overall_status = $16,
			responsible = $17,
			workflow_stage = $18,
			notes = $19,
			lifecycle_status = $20
		WHERE id = $1
		RETURNING ` + submittalColumns
	updated, err := scanSubmittal(r.db.QueryRowContext(
		ctx,
		query,
		s.ID,
		s.ProjectID,
		s.DivisionCSI,
		s.SubmittalNumber,
		s.Subject,
		s.Contractor,
		s.DateReceived,
		s.SentToAOR,
		s.SentToEOR,
		s.SentToSubcontractor,
		s.SentToDate,
		s.Approvers,
		s.ApprovalStatus,
		s.Revision,
		s.DueDate,
		s.OverallStatus,
		s.Responsible,
		s.WorkflowStage,
		s.Notes,
		s.LifecycleStatus,
	))
	if err != nil {
		return types.Submittal{}, Classify(err)
	}
	return updated, nil
}

func (r *SubmittalRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM submittal_tracker WHERE id = $1`
	return execAffectingOne(ctx, r.db, query, id)
}

// sentToDateCase expects $8 = sent_to_aor, $9 = sent_to_eor, $11 = explicit date.
const sentToDateCase = `CASE
				WHEN ($8::text IS DISTINCT FROM sent_to_aor OR $9::text IS DISTINCT FROM sent_to_eor)
					AND ($8::text IS NOT NULL OR $9::text IS NOT NULL)
					THEN COALESCE($11::date, CURRENT_DATE)
				ELSE COALESCE($11::date, sent_to_date)
			END`
