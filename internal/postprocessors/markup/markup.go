// Package markup converts the light markdown used in review replies into
// the small HTML subset the report surfaces render.
//
// Each stage is a TextTransform. Stages assume they run in the order
// bold, italic, breaks, lists: italic only sees single asterisks once
// bold has consumed the doubled ones, and lists work on <br> separators.
package markup

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/reportdraft/internal/core/ports/driven"
)

// Stage names.
const (
	NameBold   = "bold"
	NameItalic = "italic"
	NameBreaks = "breaks"
	NameLists  = "lists"
)

const lineBreak = "<br>"

var (
	_ driven.TextTransform = Bold{}
	_ driven.TextTransform = Italic{}
	_ driven.TextTransform = Breaks{}
	_ driven.TextTransform = (*Lists)(nil)
)

var (
	boldPattern   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicPattern = regexp.MustCompile(`\*([^*\n]+)\*`)
)

// Bold turns **text** into <b>text</b>.
type Bold struct{}

// Name returns the stage name.
func (Bold) Name() string { return NameBold }

// Apply rewrites every doubled-asterisk span.
func (Bold) Apply(text string) string {
	return boldPattern.ReplaceAllString(text, "<b>$1</b>")
}

// Italic turns *text* into <i>text</i>. Spans never cross a line.
type Italic struct{}

// Name returns the stage name.
func (Italic) Name() string { return NameItalic }

// Apply rewrites every single-asterisk span.
func (Italic) Apply(text string) string {
	return italicPattern.ReplaceAllString(text, "<i>$1</i>")
}

// Breaks turns line endings into <br>.
type Breaks struct{}

// Name returns the stage name.
func (Breaks) Name() string { return NameBreaks }

// Apply replaces CRLF and LF line endings.
func (Breaks) Apply(text string) string {
	text = strings.ReplaceAll(text, "\r\n", lineBreak)
	return strings.ReplaceAll(text, "\n", lineBreak)
}

// Lists groups consecutive marker-prefixed lines into one <ul> block.
// The <br> separators around and inside a block are absorbed by it.
type Lists struct {
	marker string
}

// ListOption configures the list stage.
type ListOption func(*Lists)

// WithMarker sets the line prefix that starts a list item.
func WithMarker(marker string) ListOption {
	return func(l *Lists) {
		if marker != "" {
			l.marker = marker
		}
	}
}

// NewLists creates the list stage. The default marker is "- ".
func NewLists(opts ...ListOption) *Lists {
	l := &Lists{marker: "- "}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Name returns the stage name.
func (l *Lists) Name() string { return NameLists }

// Apply rewrites list runs. Text without list lines is returned unchanged.
func (l *Lists) Apply(text string) string {
	segments := strings.Split(text, lineBreak)

	var b strings.Builder
	wrote := false
	afterList := false

	for i := 0; i < len(segments); {
		if !strings.HasPrefix(segments[i], l.marker) {
			if wrote && !afterList {
				b.WriteString(lineBreak)
			}
			b.WriteString(segments[i])
			wrote = true
			afterList = false
			i++
			continue
		}

		b.WriteString("<ul>")
		for ; i < len(segments) && strings.HasPrefix(segments[i], l.marker); i++ {
			b.WriteString("<li>")
			b.WriteString(strings.TrimSpace(strings.TrimPrefix(segments[i], l.marker)))
			b.WriteString("</li>")
		}
		b.WriteString("</ul>")
		wrote = true
		afterList = true
	}

	return b.String()
}
