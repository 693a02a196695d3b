package types

// Lifecycle is the two-state open/closed status carried by submittals and RFIs.
type Lifecycle string

const (
	LifecycleOpened Lifecycle = "opened"
	LifecycleClosed Lifecycle = "closed"
)

// StatusApproved is the RFI status that stamps date_answered.
const StatusApproved = "Approved"
