package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Section keys of a staff report, in display order.
const (
	SectionTitle            = "title"
	SectionPurpose          = "purpose"
	SectionExecutiveSummary = "executive_summary"
	SectionRecommendation   = "recommendation"
	SectionBackground       = "background"
	SectionDiscussion       = "discussion"
	SectionFiscalImpact     = "fiscal_impact"
	SectionNextSteps        = "next_steps"
)

var sectionKeys = []string{
	SectionTitle,
	SectionPurpose,
	SectionExecutiveSummary,
	SectionRecommendation,
	SectionBackground,
	SectionDiscussion,
	SectionFiscalImpact,
	SectionNextSteps,
}

var sectionIndex = func() map[string]int {
	idx := make(map[string]int, len(sectionKeys))
	for i, k := range sectionKeys {
		idx[k] = i
	}
	return idx
}()

// SectionKeys returns the fixed section vocabulary in display order.
func SectionKeys() []string {
	keys := make([]string, len(sectionKeys))
	copy(keys, sectionKeys)
	return keys
}

// IsKnownSection returns true if key belongs to the section vocabulary.
func IsKnownSection(key string) bool {
	_, ok := sectionIndex[key]
	return ok
}

// SectionLabel turns a section key into a display label.
// Underscores become spaces and each word starts upper-case,
// so "fiscal_impact" becomes "Fiscal Impact".
func SectionLabel(key string) string {
	runes := []rune(strings.ReplaceAll(key, "_", " "))
	wordChar := func(r rune) bool {
		return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
	}
	for i, r := range runes {
		if i == 0 || !wordChar(runes[i-1]) {
			runes[i] = unicode.ToUpper(r)
		}
	}
	return string(runes)
}

// Section is one labelled entry of the standard display list.
type Section struct {
	Key   string
	Label string
	Value string
}

// Document is the staff report being drafted.
// Every key maps to text; a key that was never set reads as "".
// Keys outside the vocabulary are kept but never displayed as sections.
type Document struct {
	values map[string]string
}

// NewDocument returns an empty document.
func NewDocument() Document {
	return Document{values: make(map[string]string)}
}

// DocumentFrom builds a document from a plain map.
func DocumentFrom(values map[string]string) Document {
	d := NewDocument()
	for k, v := range values {
		d.values[k] = v
	}
	return d
}

// Get returns the text for key, or "" if the key was never set.
func (d Document) Get(key string) string {
	return d.values[key]
}

// Has reports whether key has been set, even to "".
func (d Document) Has(key string) bool {
	_, ok := d.values[key]
	return ok
}

// Set stores value under key.
func (d *Document) Set(key, value string) {
	if d.values == nil {
		d.values = make(map[string]string)
	}
	d.values[key] = value
}

// Len returns the number of keys set.
func (d Document) Len() int {
	return len(d.values)
}

// IsEmpty returns true when no key has been set.
func (d Document) IsEmpty() bool {
	return len(d.values) == 0
}

// DownloadDisabled mirrors IsEmpty: an empty report cannot be exported.
func (d Document) DownloadDisabled() bool {
	return d.IsEmpty()
}

// Keys returns the set keys: vocabulary keys in display order,
// followed by unknown keys sorted alphabetically.
func (d Document) Keys() []string {
	return orderKeys(d.values)
}

// Sections returns the standard labelled section list.
// Every vocabulary key is present; unset keys carry "".
func (d Document) Sections() []Section {
	sections := make([]Section, len(sectionKeys))
	for i, k := range sectionKeys {
		sections[i] = Section{Key: k, Label: SectionLabel(k), Value: d.values[k]}
	}
	return sections
}

// Extras returns keys outside the vocabulary, sorted.
func (d Document) Extras() []string {
	var extras []string
	for k := range d.values {
		if !IsKnownSection(k) {
			extras = append(extras, k)
		}
	}
	sort.Strings(extras)
	return extras
}

// Map returns a copy of the underlying key/value map.
func (d Document) Map() map[string]string {
	m := make(map[string]string, len(d.values))
	for k, v := range d.values {
		m[k] = v
	}
	return m
}

// Clone returns an independent copy.
func (d Document) Clone() Document {
	return DocumentFrom(d.values)
}

// Equal reports whether both documents hold the same keys and values.
func (d Document) Equal(other Document) bool {
	if len(d.values) != len(other.values) {
		return false
	}
	for k, v := range d.values {
		ov, ok := other.values[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// ApplyPatch overwrites every key present in p. Keys absent from p are untouched.
func (d *Document) ApplyPatch(p Patch) {
	for k, v := range p {
		d.Set(k, v)
	}
}

// MarshalJSON encodes the document as a flat object of strings.
func (d Document) MarshalJSON() ([]byte, error) {
	if d.values == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d.values)
}

// UnmarshalJSON decodes a flat object. Anything other than an object,
// or a member that is neither a string nor null, is rejected as a whole.
func (d *Document) UnmarshalJSON(data []byte) error {
	values, err := decodeFlatObject(data)
	if err != nil {
		return err
	}
	d.values = values
	return nil
}

func decodeFlatObject(data []byte) (map[string]string, error) {
	trimmed := strings.TrimSpace(string(data))
	if !strings.HasPrefix(trimmed, "{") {
		return nil, fmt.Errorf("%w: report must be an object", ErrInvalidSnapshot)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	values := make(map[string]string, len(raw))
	for k, v := range raw {
		if string(v) == "null" {
			values[k] = ""
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return nil, fmt.Errorf("%w: section %q is not text", ErrInvalidSnapshot, k)
		}
		values[k] = s
	}
	return values, nil
}

func orderKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for _, k := range sectionKeys {
		if _, ok := m[k]; ok {
			keys = append(keys, k)
		}
	}
	var extras []string
	for k := range m {
		if !IsKnownSection(k) {
			extras = append(extras, k)
		}
	}
	sort.Strings(extras)
	return append(keys, extras...)
}
