package store

import (
	"context"
	"database/sql"

	"github.com/mg3/promag-api/types"
)

// DashboardRepository runs the read-only summary aggregate.
type DashboardRepository struct {
	db *sql.DB
}

func NewDashboardRepository(db *sql.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// An explicit lifecycle_status wins; otherwise the free-text status decides.
const dashboardSummaryQuery = `
WITH project_counts AS (
	SELECT COUNT(*)::int AS active_projects
	FROM product_list
	WHERE COALESCE(NULLIF(TRIM(status), ''), 'active') !~* '^(done|completed|closed|cancelled)$'
),
submittal_base AS (
	SELECT
		due_date,
		COALESCE(
			NULLIF(TRIM(lifecycle_status), ''),
			CASE
				WHEN COALESCE(NULLIF(TRIM(overall_status), ''), NULLIF(TRIM(approval_status), ''), 'open')
					~* '^(approved|closed|complete|completed|resolved)$'
					THEN 'closed'
				ELSE 'opened'
			END
		) AS lifecycle_text
	FROM submittal_tracker
),
submittal_counts AS (
	SELECT
		COUNT(*) FILTER (WHERE lifecycle_text = 'opened')::int AS submittals_open,
		COUNT(*) FILTER (
			WHERE lifecycle_text = 'opened'
				AND due_date IS NOT NULL
				AND due_date < CURRENT_DATE
		)::int AS submittals_late
	FROM submittal_base
),
rfi_base AS (
	SELECT
		response_due,
		COALESCE(
			NULLIF(TRIM(lifecycle_status), ''),
			CASE
				WHEN COALESCE(NULLIF(TRIM(status), ''), 'open')
					~* '^(closed|answered|resolved|complete|completed|approved)$'
					THEN 'closed'
				ELSE 'opened'
			END
		) AS lifecycle_text
	FROM rfi_tracker
),
rfi_counts AS (
	SELECT
		COUNT(*) FILTER (WHERE lifecycle_text = 'opened')::int AS rfis_open,
		COUNT(*) FILTER (
			WHERE lifecycle_text = 'opened'
				AND response_due IS NOT NULL
				AND response_due < CURRENT_DATE
		)::int AS rfis_overdue_open
	FROM rfi_base
),
task_counts AS (
	SELECT
		COUNT(*) FILTER (WHERE NOT closed)::int AS tasks_open_in_progress,
		COUNT(*) FILTER (
			WHERE NOT closed
				AND due_date IS NOT NULL
				AND due_date < CURRENT_DATE
		)::int AS tasks_overdue
	FROM (
		SELECT
			due_date,
			COALESCE(NULLIF(TRIM(status), ''), 'open') ~* '^(done|complete|completed|closed|cancelled)$' AS closed
		FROM action_items
	) t
)
SELECT
	p.active_projects,
	s.submittals_open,
	s.submittals_late,
	r.rfis_open,
	r.rfis_overdue_open,
	t.tasks_open_in_progress,
	t.tasks_overdue
FROM project_counts p
CROSS JOIN submittal_counts s
CROSS JOIN rfi_counts r
CROSS JOIN task_counts t`

func (r *DashboardRepository) Summary(ctx context.Context) (types.DashboardSummary, error) {
	var summary types.DashboardSummary
	err := r.db.QueryRowContext(ctx, dashboardSummaryQuery).Scan(
		&summary.ActiveProjects,
		&summary.SubmittalsOpen,
		&summary.SubmittalsLate,
		&summary.RFIsOpen,
		&summary.RFIsOverdueOpen,
		&summary.TasksOpenInProgress,
		&summary.TasksOverdue,
	)
	if err != nil {
		return types.DashboardSummary{}, Classify(err)
	}
	return summary, nil
}
