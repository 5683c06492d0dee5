package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CompletionMode selects how the completion reply is shaped.
type CompletionMode string

// Available completion modes.
const (
	// ModeStructured constrains the reply to a JSON object of section strings.
	ModeStructured CompletionMode = "structured"

	// ModeUnstructured expects a single block of free text.
	ModeUnstructured CompletionMode = "unstructured"
)

// String returns the string representation.
func (m CompletionMode) String() string {
	return string(m)
}

// FallbackResponseKey keys unstructured replies when no section is selected.
const FallbackResponseKey = "response"

// CompletionRequest is one call to the completion service.
type CompletionRequest struct {
	// Instructions is the system text.
	Instructions string

	// Context holds background statements in the order they must be sent.
	Context []string

	// Prompt is the user request.
	Prompt string

	// Mode is structured iff Sections is non-empty.
	Mode CompletionMode

	// Schema constrains a structured reply. Nil in unstructured mode.
	Schema *ResponseSchema

	// Sections are the selected section keys, in request order.
	Sections []string

	// VectorStoreID is passed through to the service untouched.
	VectorStoreID string

	// Model is the completion model name.
	Model string

	// Temperature is passed through; the service owns its bounds.
	Temperature float64
}

// Structured reports whether the request expects a JSON object reply.
func (r CompletionRequest) Structured() bool {
	return r.Mode == ModeStructured
}

// ResponseKey is the key an unstructured reply is stored under.
func (r CompletionRequest) ResponseKey() string {
	if len(r.Sections) > 0 {
		return r.Sections[0]
	}
	return FallbackResponseKey
}

// ResponseSchema is the JSON schema sent with structured requests.
// Every property is a string and every property is required.
type ResponseSchema struct {
	keys []string
}

// NewResponseSchema builds the schema for the given keys.
// Repeated keys keep their first position.
func NewResponseSchema(keys []string) *ResponseSchema {
	seen := make(map[string]struct{}, len(keys))
	ordered := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		ordered = append(ordered, k)
	}
	return &ResponseSchema{keys: ordered}
}

// Properties returns the property names in declaration order.
func (s *ResponseSchema) Properties() []string {
	props := make([]string, len(s.keys))
	copy(props, s.keys)
	return props
}

// Required returns the required property names; always equal to Properties.
func (s *ResponseSchema) Required() []string {
	return s.Properties()
}

// AdditionalProperties is always false.
func (s *ResponseSchema) AdditionalProperties() bool {
	return false
}

// MarshalJSON writes the schema with properties in declaration order.
func (s *ResponseSchema) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"type":"object","additionalProperties":false,"properties":{`)
	for i, k := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteString(`:{"type":"string"}`)
	}
	buf.WriteString(`},"required":`)
	required, err := json.Marshal(s.keys)
	if err != nil {
		return nil, err
	}
	if s.keys == nil {
		required = []byte("[]")
	}
	buf.Write(required)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ParseTemperature accepts any finite number.
// Range checks are left to the completion service.
func ParseTemperature(s string) (float64, error) {
	t, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(t) || math.IsInf(t, 0) {
		return 0, fmt.Errorf("%w: temperature %q is not a number", ErrInvalidInput, s)
	}
	return t, nil
}
