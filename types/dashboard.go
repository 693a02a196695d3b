package types

// DashboardSummary holds the portfolio-wide counters shown on the dashboard.
// The zero value is what an unprovisioned database reports.
type DashboardSummary struct {
	ActiveProjects      int `json:"active_projects"`
	SubmittalsOpen      int `json:"submittals_open"`
	SubmittalsLate      int `json:"submittals_late"`
	RFIsOpen            int `json:"rfis_open"`
	RFIsOverdueOpen     int `json:"rfis_overdue_open"`
	TasksOpenInProgress int `json:"tasks_open_in_progress"`
	TasksOverdue        int `json:"tasks_overdue"`
}
