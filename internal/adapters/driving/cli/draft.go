package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/reportdraft/internal/core/domain"
)

// Flags shared by the draft subcommands.
var (
	draftReportFile   string
	draftOutFile      string
	draftPrompt       string
	draftInstructions string
	draftSections     []string
	draftAllSections  bool
	draftRecords      []string
	draftModel        string
	draftTemperature  string
	draftVectorStore  string
	draftApply        bool
	draftJSON         bool
	draftBaseURL      string
)

var (
	labelColour = color.New(color.FgCyan, color.Bold)
	noteColour  = color.New(color.FgYellow)
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Generate, review and export staff reports",
	Long: `Draft staff report sections with the configured LLM.

Reports are read from and written to JSON files holding one string per
section, for example:

  {"title": "Adopt the Parks Master Plan", "purpose": "..."}`,
}

var draftGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Draft report sections",
	Long: `Ask the LLM to draft the selected sections.

The draft is shown as a preview. Pass --apply to merge it into the report
and --out to save the merged report.

Examples:
  reportdraft draft generate --sections title,purpose
  reportdraft draft generate --report report.json --sections discussion \
      --record catalog=cat-7 --apply --out report.json`,
	Args: cobra.NoArgs,
	RunE: runDraftGenerate,
}

var draftReviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review a report",
	Long:  `Ask the LLM to critique a report and print its feedback.`,
	Args:  cobra.NoArgs,
	RunE:  runDraftReview,
}

var draftSectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "List the report sections",
	Args:  cobra.NoArgs,
	RunE:  runDraftSections,
}

var draftDownloadURLCmd = &cobra.Command{
	Use:   "download-url",
	Short: "Print the download link for a report",
	Args:  cobra.NoArgs,
	RunE:  runDraftDownloadURL,
}

func init() {
	for _, c := range []*cobra.Command{draftGenerateCmd, draftReviewCmd, draftDownloadURLCmd} {
		c.Flags().StringVarP(&draftReportFile, "report", "r", "", "report JSON file to start from")
	}

	f := draftGenerateCmd.Flags()
	f.StringVarP(&draftPrompt, "prompt", "p", "", "request text (default from prompts)")
	f.StringVar(&draftInstructions, "instructions", "", "system instructions (default from prompts)")
	f.StringSliceVarP(&draftSections, "sections", "s", nil, "sections to draft, in order")
	f.BoolVar(&draftAllSections, "all-sections", false, "draft every section")
	f.StringArrayVar(&draftRecords, "record", nil, "reference record as kind=id (repeatable)")
	f.StringVar(&draftModel, "model", "", "completion model")
	f.StringVar(&draftTemperature, "temperature", "", "sampling temperature")
	f.StringVar(&draftVectorStore, "vector-store", "", "hosted file-search store id")
	f.BoolVar(&draftApply, "apply", false, "merge the draft into the report")
	f.StringVarP(&draftOutFile, "out", "o", "", "write the report to this file after --apply")
	f.BoolVar(&draftJSON, "json", false, "print the draft as JSON")

	draftReviewCmd.Flags().StringArrayVar(&draftRecords, "record", nil, "reference record as kind=id (repeatable)")

	draftDownloadURLCmd.Flags().StringVar(&draftBaseURL, "base", "", "export endpoint (default from settings)")

	draftCmd.AddCommand(draftGenerateCmd)
	draftCmd.AddCommand(draftReviewCmd)
	draftCmd.AddCommand(draftSectionsCmd)
	draftCmd.AddCommand(draftDownloadURLCmd)
	rootCmd.AddCommand(draftCmd)
}

func runDraftGenerate(cmd *cobra.Command, _ []string) error {
	if err := requireDraftServices(); err != nil {
		return err
	}
	if draftOutFile != "" && !draftApply {
		return errors.New("--out requires --apply")
	}
	if err := loadReport(draftReportFile); err != nil {
		return err
	}
	if err := applyDraftFlags(); err != nil {
		return err
	}

	if err := draftService.Generate(cmd.Context()); err != nil {
		return fmt.Errorf("draft failed: %s", domain.ErrorMessage(err))
	}

	preview := draftService.State().Preview
	if draftJSON {
		data, err := json.MarshalIndent(preview, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal draft: %w", err)
		}
		cmd.Println(string(data))
	} else {
		printPatch(cmd, preview)
	}

	if !draftApply {
		return nil
	}
	if err := draftService.Apply(); err != nil {
		return fmt.Errorf("apply failed: %w", err)
	}
	cmd.Println(noteColour.Sprintf("Applied %d section(s) to the report.", len(preview)))

	if draftOutFile != "" {
		return saveReport(draftOutFile, reportService.Report())
	}
	return nil
}

func runDraftReview(cmd *cobra.Command, _ []string) error {
	if err := requireDraftServices(); err != nil {
		return err
	}
	if err := loadReport(draftReportFile); err != nil {
		return err
	}
	if err := selectRecords(draftRecords); err != nil {
		return err
	}
	if reportService.Report().IsEmpty() {
		cmd.Println(noteColour.Sprint("The report is empty; the review will have little to say."))
	}

	if err := draftService.Review(cmd.Context()); err != nil {
		return fmt.Errorf("review failed: %s", domain.ErrorMessage(err))
	}

	cmd.Println(labelColour.Sprint("Review"))
	cmd.Println(draftService.State().ReviewOutput)
	return nil
}

func runDraftSections(cmd *cobra.Command, _ []string) error {
	for _, key := range domain.SectionKeys() {
		cmd.Printf("  %-18s %s\n", key, domain.SectionLabel(key))
	}
	return nil
}

func runDraftDownloadURL(cmd *cobra.Command, _ []string) error {
	if err := requireDraftServices(); err != nil {
		return err
	}
	if draftReportFile == "" {
		return errors.New("--report is required")
	}
	if err := loadReport(draftReportFile); err != nil {
		return err
	}

	base := draftBaseURL
	if base == "" && settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		base = settings.Export.BaseURL
	}
	if base == "" {
		return errors.New("no export endpoint: pass --base or set export.base_url")
	}

	link, err := reportService.DownloadURL(base)
	if err != nil {
		return fmt.Errorf("build download link: %w", err)
	}
	cmd.Println(link)
	return nil
}

// applyDraftFlags pushes explicitly set flags onto the controls surface.
func applyDraftFlags() error {
	if draftInstructions != "" {
		draftService.SetInstructions(draftInstructions)
	}
	if draftPrompt != "" {
		draftService.SetPrompt(draftPrompt)
	}
	switch {
	case draftAllSections:
		draftService.SelectAllSections()
	case len(draftSections) > 0:
		if err := draftService.SetSections(draftSections); err != nil {
			return err
		}
	}
	if draftModel != "" {
		draftService.SetModel(draftModel)
	}
	if draftTemperature != "" {
		t, err := domain.ParseTemperature(draftTemperature)
		if err != nil {
			return err
		}
		draftService.SetTemperature(t)
	}
	if draftVectorStore != "" {
		draftService.SetVectorStoreID(draftVectorStore)
	}
	return selectRecords(draftRecords)
}

func selectRecords(pairs []string) error {
	for _, pair := range pairs {
		ref, err := parseRecordRef(pair)
		if err != nil {
			return err
		}
		if err := draftService.SelectRecord(ref.Kind, ref.ID); err != nil {
			return err
		}
	}
	return nil
}

// parseRecordRef parses "kind=id".
func parseRecordRef(pair string) (domain.RecordRef, error) {
	kind, id, ok := strings.Cut(pair, "=")
	kind = strings.TrimSpace(kind)
	id = strings.TrimSpace(id)
	if !ok || kind == "" || id == "" {
		return domain.RecordRef{}, fmt.Errorf("%w: record %q is not kind=id", domain.ErrInvalidInput, pair)
	}
	return domain.RecordRef{Kind: domain.RecordKind(kind), ID: id}, nil
}

// loadReport publishes every value of a report file through the content
// surface, so both surfaces start from it.
func loadReport(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}
	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	for _, key := range doc.Keys() {
		if err := reportService.EditSection(key, doc.Get(key)); err != nil {
			return err
		}
	}
	return nil
}

func saveReport(path string, doc domain.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func printPatch(cmd *cobra.Command, patch domain.Patch) {
	if len(patch) == 0 {
		cmd.Println("The draft is empty.")
		return
	}
	for _, s := range patch.Sections() {
		cmd.Println(labelColour.Sprint(s.Label))
		cmd.Println(s.Value)
		cmd.Println()
	}
}
