package types

import "time"

// Submittal tracks a document package sent out for review on a project.
type Submittal struct {
	// ID is the unique identifier of the submittal.
	ID int64 `json:"id" db:"id"`

	// ProjectID is a soft reference to Project.ProjectID. Required.
	ProjectID string `json:"project_id" db:"project_id"`

	DivisionCSI     *string `json:"division_csi" db:"division_csi"`
	SubmittalNumber *string `json:"submittal_number" db:"submittal_number"`
	Subject         *string `json:"subject" db:"subject"`
	Contractor      *string `json:"contractor" db:"contractor"`
	DateReceived    Date    `json:"date_received" db:"date_received"`

	// SentToAOR and SentToEOR are the two tracked recipients. SentToDate is
	// stamped the first time either becomes non-empty.
	SentToAOR           *string `json:"sent_to_aor" db:"sent_to_aor"`
	SentToEOR           *string `json:"sent_to_eor" db:"sent_to_eor"`
	SentToSubcontractor *string `json:"sent_to_subcontractor" db:"sent_to_subcontractor"`
	SentToDate          Date    `json:"sent_to_date" db:"sent_to_date"`

	Approvers      *string `json:"approvers" db:"approvers"`
	ApprovalStatus *string `json:"approval_status" db:"approval_status"`
	Revision       *string `json:"revision" db:"revision"`
	DueDate        Date    `json:"due_date" db:"due_date"`

	// DaysPending is computed at read time from DateReceived.
	DaysPending *int `json:"days_pending" db:"days_pending"`

	OverallStatus *string `json:"overall_status" db:"overall_status"`
	Responsible   *string `json:"responsible" db:"responsible"`
	WorkflowStage *string `json:"workflow_stage" db:"workflow_stage"`
	Notes         *string `json:"notes" db:"notes"`

	// LifecycleStatus is always opened or closed once persisted.
	LifecycleStatus Lifecycle `json:"lifecycle_status" db:"lifecycle_status"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// StatusText is the free-text status the lifecycle is derived from:
// the overall status, falling back to the approval status.
func (s Submittal) StatusText() string {
	if s.OverallStatus != nil && *s.OverallStatus != "" {
		return *s.OverallStatus
	}
	if s.ApprovalStatus != nil {
		return *s.ApprovalStatus
	}
	return ""
}
