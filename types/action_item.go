package types

// ActionItem is a task on a project. It has no lifecycle status.
type ActionItem struct {
	ID          int64   `json:"id" db:"id"`
	ProjectID   *string `json:"project_id" db:"project_id"`
	Task        *string `json:"task" db:"task"`
	Description *string `json:"description" db:"description"`
	AssignedTo  *string `json:"assigned_to" db:"assigned_to"`
	StartDate   Date    `json:"start_date" db:"start_date"`
	DueDate     Date    `json:"due_date" db:"due_date"`
	Status      *string `json:"status" db:"status"`
	Priority    *string `json:"priority" db:"priority"`

	// DaysLeft is due_date minus today, computed at read time.
	DaysLeft *int `json:"days_left" db:"days_left"`

	Notes *string `json:"notes" db:"notes"`
}
