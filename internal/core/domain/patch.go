package domain

// Patch is a partial set of section values proposed by a completion.
// It stays private to the controls surface until it is applied.
type Patch map[string]string

// Keys returns the patch keys in document order.
func (p Patch) Keys() []string {
	return orderKeys(p)
}

// Clone returns an independent copy.
func (p Patch) Clone() Patch {
	if p == nil {
		return nil
	}
	c := make(Patch, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// Sections returns the patch as labelled entries in document order.
func (p Patch) Sections() []Section {
	keys := p.Keys()
	sections := make([]Section, len(keys))
	for i, k := range keys {
		sections[i] = Section{Key: k, Label: SectionLabel(k), Value: p[k]}
	}
	return sections
}
