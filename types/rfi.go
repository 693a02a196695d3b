package types

import "time"

// RFI is a request for information raised on a project.
type RFI struct {
	ID             int64   `json:"id" db:"id"`
	ProjectID      string  `json:"project_id" db:"project_id"`
	RFINumber      *string `json:"rfi_number" db:"rfi_number"`
	Subject        *string `json:"subject" db:"subject"`
	Description    *string `json:"description" db:"description"`
	FromContractor *string `json:"from_contractor" db:"from_contractor"`
	DateSent       Date    `json:"date_sent" db:"date_sent"`

	SentToAOR           *string `json:"sent_to_aor" db:"sent_to_aor"`
	SentToEOR           *string `json:"sent_to_eor" db:"sent_to_eor"`
	SentToSubcontractor *string `json:"sent_to_subcontractor" db:"sent_to_subcontractor"`
	SentToDate          Date    `json:"sent_to_date" db:"sent_to_date"`

	ResponseDue Date `json:"response_due" db:"response_due"`

	// DateAnswered is stamped with today's date when Status becomes
	// "Approved" and no explicit value is supplied.
	DateAnswered Date    `json:"date_answered" db:"date_answered"`
	Status       *string `json:"status" db:"status"`

	// DaysOpen is computed at read time, never stored.
	DaysOpen *int `json:"days_open" db:"days_open"`

	Responsible     *string   `json:"responsible" db:"responsible"`
	Notes           *string   `json:"notes" db:"notes"`
	LifecycleStatus Lifecycle `json:"lifecycle_status" db:"lifecycle_status"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// StatusText returns the free-text status or "".
func (r RFI) StatusText() string {
	if r.Status == nil {
		return ""
	}
	return *r.Status
}
