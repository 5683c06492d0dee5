package domain

// RecordKind identifies a type of reference record.
type RecordKind string

// Reference record kinds.
const (
	RecordCatalog           RecordKind = "catalog"
	RecordCommsPlan         RecordKind = "comms_plan"
	RecordRezoningSubmittal RecordKind = "rezoning_submittal"
)

// RecordKinds returns every kind in the order the controls list them.
func RecordKinds() []RecordKind {
	return []RecordKind{RecordCatalog, RecordCommsPlan, RecordRezoningSubmittal}
}

// IsValid returns true if the kind is recognised.
func (k RecordKind) IsValid() bool {
	switch k {
	case RecordCatalog, RecordCommsPlan, RecordRezoningSubmittal:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k RecordKind) String() string {
	return string(k)
}

// Description returns a human-readable name.
func (k RecordKind) Description() string {
	switch k {
	case RecordCatalog:
		return "Catalog"
	case RecordCommsPlan:
		return "Communications Plan"
	case RecordRezoningSubmittal:
		return "Rezoning Submittal"
	default:
		return unknownDescription
	}
}

// RecordRef points at a reference record to include as context.
type RecordRef struct {
	Kind RecordKind
	ID   string
}

// Record is a flat field record returned by a lookup.
type Record struct {
	Kind   RecordKind
	ID     string
	Fields map[string]string
}

// Field returns the named field, or "" when absent.
func (r Record) Field(name string) string {
	return r.Fields[name]
}
