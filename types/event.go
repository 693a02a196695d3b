package types

import "time"

// ChangeAction is the kind of mutation a ChangeEvent reports.
type ChangeAction string

const (
	ChangeCreated ChangeAction = "created"
	ChangeUpdated ChangeAction = "updated"
	ChangeDeleted ChangeAction = "deleted"
)

// ChangeEvent is published on the event bus after a successful mutation.
type ChangeEvent struct {
	// Entity is the resource name, e.g. "submittal" or "project".
	Entity string `json:"entity"`

	Action ChangeAction `json:"action"`

	// Key identifies the row: the numeric id or the project id.
	Key string `json:"key"`

	// Actor is the username of the caller, when known.
	Actor string `json:"actor,omitempty"`

	At time.Time `json:"at"`
}
