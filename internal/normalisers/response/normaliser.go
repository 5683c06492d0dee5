// Package response decodes completion replies into section patches.
//
// Structured replies go through an ordered list of strategies; the first
// strategy that recovers a JSON object wins. Unstructured replies are
// tidied and stored under a single key.
package response

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/reportdraft/internal/core/domain"
	"github.com/custodia-labs/reportdraft/internal/core/ports/driven"
	"github.com/custodia-labs/reportdraft/internal/logger"
)

// Ensure Normaliser implements the interface.
var _ driven.ResponseNormaliser = (*Normaliser)(nil)

// Strategy is one attempt at recovering a JSON object from a reply.
type Strategy interface {
	// Name returns the strategy name for logging.
	Name() string

	// Decode returns the object's members, or false if raw does not fit.
	Decode(raw string) (domain.Patch, bool)
}

// Normaliser decodes completion replies.
type Normaliser struct {
	strategies []Strategy
}

// New creates a normaliser. With no strategies it uses DefaultStrategies.
func New(strategies ...Strategy) *Normaliser {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &Normaliser{strategies: strategies}
}

// DefaultStrategies returns the structured cascade in the order it is tried.
func DefaultStrategies() []Strategy {
	return []Strategy{DirectObject{}, BracedObject{}}
}

// Strategies returns the strategy names in order.
func (n *Normaliser) Strategies() []string {
	names := make([]string, len(n.strategies))
	for i, s := range n.strategies {
		names[i] = s.Name()
	}
	return names
}

// Normalise decodes raw according to the request's mode.
func (n *Normaliser) Normalise(raw string, req domain.CompletionRequest) (domain.Patch, error) {
	if !req.Structured() {
		return domain.Patch{req.ResponseKey(): Tidy(unwrapResponse(raw))}, nil
	}

	for _, s := range n.strategies {
		if patch, ok := s.Decode(raw); ok {
			logger.Debug("response: decoded %d key(s) with %s", len(patch), s.Name())
			return patch, nil
		}
	}

	logger.Warn("response: no strategy decoded a %d byte reply", len(raw))
	return nil, fmt.Errorf("%w: expected a JSON object with %d section(s)",
		domain.ErrUnparseableResponse, len(req.Sections))
}

// DirectObject decodes the whole reply as a JSON object.
type DirectObject struct{}

// Name returns the strategy name.
func (DirectObject) Name() string { return "direct" }

// Decode parses raw as-is.
func (DirectObject) Decode(raw string) (domain.Patch, bool) {
	return decodeObject(raw)
}

// BracedObject decodes the text between the first "{" and the last "}".
// It recovers objects wrapped in prose or code fences.
type BracedObject struct{}

// Name returns the strategy name.
func (BracedObject) Name() string { return "braced" }

// Decode parses the outermost braced span of raw.
func (BracedObject) Decode(raw string) (domain.Patch, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	return decodeObject(raw[start : end+1])
}

// decodeObject accepts only a JSON object. Member values that are not
// strings keep their compact JSON text; null becomes "".
func decodeObject(text string) (domain.Patch, bool) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "{") {
		return nil, false
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &members); err != nil {
		return nil, false
	}

	patch := make(domain.Patch, len(members))
	for k, v := range members {
		patch[k] = memberText(v)
	}
	return patch, true
}

func memberText(v json.RawMessage) string {
	if string(v) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, v); err != nil {
		return string(v)
	}
	return buf.String()
}

// unwrapResponse returns the "response" member when raw is an object that
// carries one as a string, and raw otherwise.
func unwrapResponse(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		return raw
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &envelope); err != nil {
		return raw
	}
	member, ok := envelope[domain.FallbackResponseKey]
	if !ok {
		return raw
	}
	var s string
	if err := json.Unmarshal(member, &s); err != nil {
		return raw
	}
	return s
}

var blankRun = regexp.MustCompile(`\n{3,}`)

// Tidy trims surrounding whitespace and collapses runs of blank lines.
func Tidy(text string) string {
	return blankRun.ReplaceAllString(strings.TrimSpace(text), "\n\n")
}
