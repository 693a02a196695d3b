package types

// Project is a row of the project list. ProjectID is generated from the
// display name at creation and never changes afterwards.
type Project struct {
	// ProjectID is the human-readable key, e.g. "harbor-tower-20261018".
	ProjectID string `json:"project_id" db:"project_id"`

	// ProjectName is the display name. Required.
	ProjectName string `json:"project_name" db:"project_name"`

	Address   *string `json:"address" db:"address"`
	Developer *string `json:"developer" db:"developer"`

	// AOR and EOR hold the architect/engineer of record by name.
	AOR *string `json:"aor" db:"aor"`
	EOR *string `json:"eor" db:"eor"`

	StartDate Date    `json:"start_date" db:"start_date"`
	EndDate   Date    `json:"end_date" db:"end_date"`
	Status    *string `json:"status" db:"status"`
	Priority  *string `json:"priority" db:"priority"`
	Notes     *string `json:"notes" db:"notes"`

	// ImageURL points at the uploaded project image, when one exists.
	ImageURL *string `json:"image_url" db:"image_url"`
}
