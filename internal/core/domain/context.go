package domain

// ContextRole tags where a context statement came from.
type ContextRole string

// Context statement provenance.
const (
	ContextRoleDraft  ContextRole = "current_draft"
	ContextRoleRecord ContextRole = "reference_record"
)

// ContextStatement is one block of background text for a completion request.
type ContextStatement struct {
	Role ContextRole
	Text string
}

// ContextTexts drops role tags, keeping order.
func ContextTexts(statements []ContextStatement) []string {
	texts := make([]string, len(statements))
	for i, s := range statements {
		texts[i] = s.Text
	}
	return texts
}
