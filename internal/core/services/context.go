package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/reportdraft/internal/core/domain"
	"github.com/custodia-labs/reportdraft/internal/core/ports/driven"
	"github.com/custodia-labs/reportdraft/internal/logger"
)

const draftHeading = "Here is the current version of the staff report:\n\n"

const missingField = "N/A"

// recordTemplates lists, per kind, the heading and the labelled fields in print order.
var recordTemplates = map[domain.RecordKind]struct {
	heading string
	fields  []recordLine
}{
	domain.RecordCatalog: {
		heading: "Catalog Info:",
		fields: []recordLine{
			{label: "Name", field: "name"},
			{label: "Description", field: "description"},
			{label: "Department", field: "department"},
		},
	},
	domain.RecordCommsPlan: {
		heading: "Communications Plan Info:",
		fields: []recordLine{
			{label: "Name", field: "name"},
			{label: "General Facts", field: "general_facts"},
			{label: "Goal", field: "goal"},
			{label: "Key Messages", field: "key_messages"},
			{label: "Objectives", field: "objectives"},
		},
	},
	domain.RecordRezoningSubmittal: {
		heading: "Rezoning Submittal Info:",
		fields: []recordLine{
			{label: "Name", field: "name", suffix: "case_name"},
			{label: "Status", field: "status"},
			{label: "Process Stage", field: "process_stage"},
			{label: "Acreage", field: "acreage"},
			{label: "Description", field: "description"},
			{label: "Address", field: "address"},
		},
	},
}

// recordLine prints "Label: field", or "Label: field (suffix)" when suffix is set.
type recordLine struct {
	label  string
	field  string
	suffix string
}

// ContextAssembler builds the background statements sent with a request.
type ContextAssembler struct {
	lookup driven.RecordLookup
}

// NewContextAssembler creates an assembler. lookup may be nil when no
// reference records are available; selecting one then fails the request.
func NewContextAssembler(lookup driven.RecordLookup) *ContextAssembler {
	return &ContextAssembler{lookup: lookup}
}

// Assemble returns the draft statement (when the report is non-empty)
// followed by one statement per selected record, in the order given.
// Lookups run one at a time and the first failure aborts.
func (a *ContextAssembler) Assemble(
	ctx context.Context,
	doc domain.Document,
	refs []domain.RecordRef,
) ([]domain.ContextStatement, error) {
	var statements []domain.ContextStatement

	if !doc.IsEmpty() {
		statements = append(statements, domain.ContextStatement{
			Role: domain.ContextRoleDraft,
			Text: DraftStatement(doc),
		})
	}

	for _, ref := range refs {
		if ref.ID == "" {
			continue
		}
		if a.lookup == nil {
			return nil, fmt.Errorf("%w: no record source for %s %s", domain.ErrRecordLookup, ref.Kind, ref.ID)
		}

		logger.Debug("Looking up %s record %s", ref.Kind, ref.ID)
		record, err := a.lookup.Lookup(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %s: %w", domain.ErrRecordLookup, ref.Kind, ref.ID, err)
		}

		text, err := RecordStatement(*record)
		if err != nil {
			return nil, err
		}
		statements = append(statements, domain.ContextStatement{
			Role: domain.ContextRoleRecord,
			Text: text,
		})
	}

	return statements, nil
}

// DraftStatement renders the report as labelled lines in key order.
func DraftStatement(doc domain.Document) string {
	keys := doc.Keys()
	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = domain.SectionLabel(k) + ": " + doc.Get(k)
	}
	return draftHeading + strings.Join(lines, "\n")
}

// RecordStatement renders a record with the template for its kind.
// Missing or empty fields print as N/A.
func RecordStatement(record domain.Record) (string, error) {
	tmpl, ok := recordTemplates[record.Kind]
	if !ok {
		return "", fmt.Errorf("%w: unknown record kind %q", domain.ErrRecordLookup, record.Kind)
	}

	lines := make([]string, 0, len(tmpl.fields)+1)
	lines = append(lines, tmpl.heading)
	for _, f := range tmpl.fields {
		line := f.label + ": " + fieldOrMissing(record, f.field)
		if f.suffix != "" {
			line += " (" + fieldOrMissing(record, f.suffix) + ")"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

func fieldOrMissing(record domain.Record, name string) string {
	if v := record.Field(name); v != "" {
		return v
	}
	return missingField
}
