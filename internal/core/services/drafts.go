package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/custodia-labs/reportdraft/internal/bus"
	"github.com/custodia-labs/reportdraft/internal/core/domain"
	"github.com/custodia-labs/reportdraft/internal/core/ports/driven"
	"github.com/custodia-labs/reportdraft/internal/core/ports/driving"
	"github.com/custodia-labs/reportdraft/internal/logger"
)

// Ensure DraftController implements the interface.
var _ driving.DraftService = (*DraftController)(nil)

// OwnerControls is the bus owner name of the controls surface.
const OwnerControls = "controls"

const tracerName = "github.com/custodia-labs/reportdraft/internal/core/services"

// DraftController is the controls surface. It holds its own copy of the
// report, builds completion requests from the user's settings and keeps
// the reply as a preview until the user applies it.
type DraftController struct {
	bus        *bus.Bus
	completion driven.CompletionService
	builder    *RequestBuilder
	normaliser driven.ResponseNormaliser
	review     driven.TextPipeline
	prompts    driven.PromptStore
	tracer     trace.Tracer

	mu            sync.Mutex
	sub           *bus.Subscription
	report        domain.Document
	instructions  string
	prompt        string
	sections      []string
	vectorStoreID string
	model         string
	temperature   float64
	records       map[domain.RecordKind]string
	preview       domain.Patch
	reviewOutput  string
	errText       string
	loading       bool
	showSettings  bool
}

// NewDraftController creates the controls surface.
// completion may be nil; Generate and Review then report ErrCompletionUnavailable.
// Initial instructions and request text come from prompts; the remaining
// draft settings come from defaults.
func NewDraftController(
	b *bus.Bus,
	completion driven.CompletionService,
	builder *RequestBuilder,
	normaliser driven.ResponseNormaliser,
	review driven.TextPipeline,
	prompts driven.PromptStore,
	defaults domain.DraftSettings,
) *DraftController {
	c := &DraftController{
		bus:           b,
		completion:    completion,
		builder:       builder,
		normaliser:    normaliser,
		review:        review,
		prompts:       prompts,
		tracer:        otel.Tracer(tracerName),
		report:        domain.NewDocument(),
		vectorStoreID: defaults.VectorStoreID,
		model:         defaults.Model,
		temperature:   defaults.Temperature,
		records:       make(map[domain.RecordKind]string),
		showSettings:  true,
	}

	c.instructions = c.loadPrompt(driven.PromptDraftInstructions)
	c.prompt = c.loadPrompt(driven.PromptDraftRequest)

	if err := c.SetSections(defaults.Sections); err != nil {
		logger.Warn("Ignoring default sections: %v", err)
		c.SelectAllSections()
	}
	if c.model == "" && completion != nil {
		c.model = completion.ModelName()
	}
	return c
}

// Attach subscribes to report snapshots.
func (c *DraftController) Attach() error {
	sub, err := c.bus.Subscribe(OwnerControls, c.receive)
	if err != nil {
		return fmt.Errorf("attach controls: %w", err)
	}
	c.mu.Lock()
	c.sub = sub
	c.mu.Unlock()
	return nil
}

// Detach drops the subscription.
func (c *DraftController) Detach() {
	c.mu.Lock()
	sub := c.sub
	c.sub = nil
	c.mu.Unlock()
	sub.Close()
}

// receive replaces the local report with a valid snapshot, or records the
// error and keeps the current report.
func (c *DraftController) receive(msg bus.Message) {
	doc, err := domain.DecodeReportMessage(msg.Payload)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		logger.Warn("controls: rejected message %s from %s: %v", msg.ID, msg.Source, err)
		c.errText = err.Error()
		return
	}
	logger.Debug("controls: adopted report from %s (%d keys)", msg.Source, doc.Len())
	c.report = doc
	c.errText = ""
}

// Generate drafts the selected sections and stores the reply as the preview.
func (c *DraftController) Generate(ctx context.Context) error {
	c.mu.Lock()
	if err := c.beginLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	intent := c.intentLocked()
	doc := c.report.Clone()
	c.mu.Unlock()

	ctx, span := c.tracer.Start(ctx, "draft.generate", trace.WithAttributes(
		attribute.Int("draft.sections", len(intent.Sections)),
		attribute.Int("draft.records", len(intent.Records)),
		attribute.String("draft.model", intent.Model),
	))
	defer span.End()

	logger.Section("Draft Generation")
	patch, err := c.run(ctx, intent, doc)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.failLocked(span, err)
		return err
	}
	c.preview = patch
	c.reviewOutput = ""
	span.SetAttributes(attribute.Int("draft.preview_keys", len(patch)))
	return nil
}

// Review critiques the report. The reply is rendered through the review
// pipeline and replaces any preview. A failed review leaves the preview in place.
func (c *DraftController) Review(ctx context.Context) error {
	c.mu.Lock()
	if err := c.beginLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	intent := c.intentLocked()
	doc := c.report.Clone()
	c.mu.Unlock()

	intent.Instructions = c.loadPrompt(driven.PromptReviewInstructions)
	intent.Prompt = c.loadPrompt(driven.PromptReviewRequest)
	intent.Sections = nil

	ctx, span := c.tracer.Start(ctx, "draft.review", trace.WithAttributes(
		attribute.Int("draft.records", len(intent.Records)),
		attribute.String("draft.model", intent.Model),
	))
	defer span.End()

	logger.Section("Draft Review")
	patch, err := c.run(ctx, intent, doc)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.failLocked(span, err)
		return err
	}
	c.preview = nil
	c.reviewOutput = c.review.Apply(patch[domain.FallbackResponseKey])
	return nil
}

// run performs assemble, complete and normalise without holding the lock.
func (c *DraftController) run(ctx context.Context, intent DraftIntent, doc domain.Document) (domain.Patch, error) {
	req, err := c.builder.Build(ctx, intent, doc)
	if err != nil {
		return nil, err
	}
	logger.Debug("Request mode: %s, sections: %v, context blocks: %d", req.Mode, req.Sections, len(req.Context))

	raw, err := c.completion.Complete(ctx, req)
	if err != nil {
		if !errors.Is(err, domain.ErrCompletionFailed) {
			err = fmt.Errorf("%w: %w", domain.ErrCompletionFailed, err)
		}
		return nil, err
	}
	logger.Debug("Reply: %d bytes", len(raw))

	return c.normaliser.Normalise(raw, req)
}

// beginLocked clears the error and marks a request in flight.
func (c *DraftController) beginLocked() error {
	if c.loading {
		return domain.ErrRequestInFlight
	}
	if c.completion == nil {
		c.errText = domain.ErrCompletionUnavailable.Error()
		return domain.ErrCompletionUnavailable
	}
	c.errText = ""
	c.loading = true
	c.showSettings = false
	return nil
}

func (c *DraftController) failLocked(span trace.Span, err error) {
	c.errText = domain.ErrorMessage(err)
	c.showSettings = true
	span.RecordError(err)
	span.SetStatus(codes.Error, c.errText)
	logger.Warn("controls: %v", err)
}

func (c *DraftController) intentLocked() DraftIntent {
	sections := make([]string, len(c.sections))
	copy(sections, c.sections)
	return DraftIntent{
		Instructions:  c.instructions,
		Prompt:        c.prompt,
		Sections:      sections,
		VectorStoreID: c.vectorStoreID,
		Model:         c.model,
		Temperature:   c.temperature,
		Records:       c.recordRefsLocked(),
	}
}

func (c *DraftController) recordRefsLocked() []domain.RecordRef {
	var refs []domain.RecordRef
	for _, kind := range domain.RecordKinds() {
		if id := c.records[kind]; id != "" {
			refs = append(refs, domain.RecordRef{Kind: kind, ID: id})
		}
	}
	return refs
}

// EditPreview changes one value of the pending preview.
// Only keys the preview already holds can be edited.
func (c *DraftController) EditPreview(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.preview == nil {
		return domain.ErrNoPreview
	}
	if _, ok := c.preview[key]; !ok {
		return fmt.Errorf("%w: %q is not in the preview", domain.ErrInvalidInput, key)
	}
	c.preview[key] = value
	return nil
}

// Apply merges the preview into the report and publishes the full report.
// Report keys the preview does not hold are left as they are.
func (c *DraftController) Apply() error {
	c.mu.Lock()
	if c.preview == nil {
		c.mu.Unlock()
		return domain.ErrNoPreview
	}
	c.report.ApplyPatch(c.preview)
	c.preview = nil
	c.reviewOutput = ""
	c.showSettings = true
	snapshot := c.report.Clone()
	c.mu.Unlock()

	logger.Debug("controls: applied preview, publishing %d keys", snapshot.Len())
	if err := c.bus.Publish(OwnerControls, snapshot); err != nil {
		c.mu.Lock()
		c.errText = err.Error()
		c.mu.Unlock()
		return fmt.Errorf("publish report: %w", err)
	}
	return nil
}

// Dismiss drops the preview and any review output.
func (c *DraftController) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.preview = nil
	c.reviewOutput = ""
	c.showSettings = true
}

// SetInstructions replaces the system text sent with drafts.
func (c *DraftController) SetInstructions(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.instructions = text
}

// SetPrompt replaces the draft request text.
func (c *DraftController) SetPrompt(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompt = text
}

// SetSections replaces the selection. Unknown keys are rejected and
// repeated keys keep their first position.
func (c *DraftController) SetSections(keys []string) error {
	seen := make(map[string]struct{}, len(keys))
	selected := make([]string, 0, len(keys))
	for _, k := range keys {
		if !domain.IsKnownSection(k) {
			return fmt.Errorf("%w: unknown section %q", domain.ErrInvalidInput, k)
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		selected = append(selected, k)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.sections = selected
	return nil
}

// SelectAllSections selects every section in display order.
func (c *DraftController) SelectAllSections() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sections = domain.SectionKeys()
}

// SetVectorStoreID sets the hosted file-search store.
func (c *DraftController) SetVectorStoreID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vectorStoreID = id
}

// SetModel sets the completion model.
func (c *DraftController) SetModel(model string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.model = model
}

// SetTemperature sets the sampling temperature. The value is passed through unchecked.
func (c *DraftController) SetTemperature(t float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.temperature = t
}

// SelectRecord picks the record of kind to send as context. An empty id clears it.
func (c *DraftController) SelectRecord(kind domain.RecordKind, id string) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: unknown record kind %q", domain.ErrInvalidInput, kind)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if id == "" {
		delete(c.records, kind)
		return nil
	}
	c.records[kind] = id
	return nil
}

// State returns a snapshot of the controls surface.
func (c *DraftController) State() driving.DraftState {
	c.mu.Lock()
	defer c.mu.Unlock()

	sections := make([]string, len(c.sections))
	copy(sections, c.sections)

	return driving.DraftState{
		Report:          c.report.Clone(),
		Instructions:    c.instructions,
		Prompt:          c.prompt,
		Sections:        sections,
		VectorStoreID:   c.vectorStoreID,
		Model:           c.model,
		Temperature:     c.temperature,
		Records:         c.recordRefsLocked(),
		Preview:         c.preview.Clone(),
		ReviewOutput:    c.reviewOutput,
		Err:             c.errText,
		Loading:         c.loading,
		SettingsVisible: c.showSettings,
	}
}

func (c *DraftController) loadPrompt(name string) string {
	if c.prompts == nil {
		return ""
	}
	text, err := c.prompts.Load(name)
	if err != nil {
		logger.Warn("Failed to load prompt %s: %v", name, err)
		return ""
	}
	return text
}
