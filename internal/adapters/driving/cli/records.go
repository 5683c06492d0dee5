package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/reportdraft/internal/core/domain"
)

var recordFields []string

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Manage reference records",
	Long: `Reference records add background to draft and review requests.

Kinds:
  catalog             - Catalog entries
  comms_plan          - Communications plans
  rezoning_submittal  - Rezoning submittals`,
}

var recordsListCmd = &cobra.Command{
	Use:   "list [kind]",
	Short: "List records of a kind",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecordsList,
}

var recordsShowCmd = &cobra.Command{
	Use:   "show [kind] [id]",
	Short: "Show one record",
	Args:  cobra.ExactArgs(2),
	RunE:  runRecordsShow,
}

var recordsAddCmd = &cobra.Command{
	Use:   "add [kind] [id]",
	Short: "Add or replace a record",
	Long: `Add or replace a record. Fields are given as --field name=value.

Example:
  reportdraft records add rezoning_submittal Z-12 \
      --field "name=Z-12" --field "case_name=Elm St"`,
	Args: cobra.ExactArgs(2),
	RunE: runRecordsAdd,
}

func init() {
	recordsAddCmd.Flags().StringArrayVarP(&recordFields, "field", "f", nil, "field as name=value (repeatable)")

	recordsCmd.AddCommand(recordsListCmd)
	recordsCmd.AddCommand(recordsShowCmd)
	recordsCmd.AddCommand(recordsAddCmd)
	rootCmd.AddCommand(recordsCmd)
}

func runRecordsList(cmd *cobra.Command, args []string) error {
	if recordService == nil {
		return errors.New("record service not configured")
	}
	kind := domain.RecordKind(args[0])

	records, err := recordService.List(cmd.Context(), kind)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		cmd.Printf("No %s records.\n", kind.Description())
		return nil
	}

	cmd.Printf("%s records:\n", kind.Description())
	for _, r := range records {
		if name := r.Field("name"); name != "" {
			cmd.Printf("  %s - %s\n", r.ID, name)
		} else {
			cmd.Printf("  %s\n", r.ID)
		}
	}
	return nil
}

func runRecordsShow(cmd *cobra.Command, args []string) error {
	if recordService == nil {
		return errors.New("record service not configured")
	}
	ref := domain.RecordRef{Kind: domain.RecordKind(args[0]), ID: args[1]}

	record, err := recordService.Get(cmd.Context(), ref)
	if err != nil {
		return err
	}

	cmd.Println(labelColour.Sprintf("%s %s", ref.Kind.Description(), record.ID))
	names := make([]string, 0, len(record.Fields))
	for name := range record.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cmd.Printf("  %s: %s\n", name, record.Fields[name])
	}
	return nil
}

func runRecordsAdd(cmd *cobra.Command, args []string) error {
	if recordService == nil {
		return errors.New("record service not configured")
	}

	fields, err := parseFields(recordFields)
	if err != nil {
		return err
	}
	record := domain.Record{Kind: domain.RecordKind(args[0]), ID: args[1], Fields: fields}

	if err := recordService.Save(cmd.Context(), record); err != nil {
		return err
	}
	cmd.Printf("Saved %s %s (%d field(s)).\n", record.Kind.Description(), record.ID, len(fields))
	return nil
}

// parseFields parses "name=value" pairs. Values may contain "=".
func parseFields(pairs []string) (map[string]string, error) {
	fields := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: field %q is not name=value", domain.ErrInvalidInput, pair)
		}
		fields[name] = value
	}
	return fields, nil
}
