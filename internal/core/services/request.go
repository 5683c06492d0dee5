package services

import (
	"context"

	"github.com/custodia-labs/reportdraft/internal/core/domain"
)

// DraftIntent is what the user asked for on the controls surface.
type DraftIntent struct {
	Instructions  string
	Prompt        string
	Sections      []string
	VectorStoreID string
	Model         string
	Temperature   float64
	Records       []domain.RecordRef
}

// RequestBuilder turns an intent and the current report into a completion request.
type RequestBuilder struct {
	assembler *ContextAssembler
}

// NewRequestBuilder creates a builder that gathers context through assembler.
func NewRequestBuilder(assembler *ContextAssembler) *RequestBuilder {
	return &RequestBuilder{assembler: assembler}
}

// Build assembles context and picks the reply mode.
// The request is structured iff at least one section is selected; repeated
// section keys keep their first position. Only context assembly can fail.
func (b *RequestBuilder) Build(ctx context.Context, intent DraftIntent, doc domain.Document) (domain.CompletionRequest, error) {
	statements, err := b.assembler.Assemble(ctx, doc, intent.Records)
	if err != nil {
		return domain.CompletionRequest{}, err
	}

	req := domain.CompletionRequest{
		Instructions:  intent.Instructions,
		Context:       domain.ContextTexts(statements),
		Prompt:        intent.Prompt,
		Mode:          domain.ModeUnstructured,
		VectorStoreID: intent.VectorStoreID,
		Model:         intent.Model,
		Temperature:   intent.Temperature,
	}

	if len(intent.Sections) > 0 {
		schema := domain.NewResponseSchema(intent.Sections)
		req.Mode = domain.ModeStructured
		req.Schema = schema
		req.Sections = schema.Properties()
	}

	return req, nil
}
