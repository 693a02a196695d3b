package types

// ReferenceKind names one of the name-only lookup lists.
type ReferenceKind string

const (
	ReferenceAOR           ReferenceKind = "aor"
	ReferenceProvider      ReferenceKind = "provider"
	ReferenceSubcontractor ReferenceKind = "subcontractor"
)

// Label is the human-readable name of the list, used in messages.
func (k ReferenceKind) Label() string {
	switch k {
	case ReferenceAOR:
		return "AOR"
	case ReferenceProvider:
		return "Provider"
	case ReferenceSubcontractor:
		return "Subcontractor"
	default:
		return string(k)
	}
}

// Reference is an entry of a name-only lookup list (AOR, provider, subcontractor).
type Reference struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// EORType is the discipline of an engineer of record.
type EORType string

// EORTypes is the closed set of accepted engineer-of-record types.
var EORTypes = []EORType{
	"Civil EOR",
	"Structural EOR",
	"MEP EOR",
	"Geotechnical EOR",
	"Landscape EOR",
}

// Valid reports whether t is one of EORTypes.
func (t EORType) Valid() bool {
	for _, known := range EORTypes {
		if t == known {
			return true
		}
	}
	return false
}

// EOR is an engineer of record; names are unique per type.
type EOR struct {
	ID   int64   `json:"id" db:"id"`
	Type EORType `json:"type" db:"type"`
	Name string  `json:"name" db:"name"`
}
