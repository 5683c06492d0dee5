// Package export builds download links that hand a report to a rendering endpoint.
package export

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/custodia-labs/reportdraft/internal/core/domain"
	"github.com/custodia-labs/reportdraft/internal/core/ports/driven"
)

// Ensure URLBuilder implements the interface.
var _ driven.ReportExporter = (*URLBuilder)(nil)

// componentUnescape restores the characters encodeURIComponent leaves alone
// but url.QueryEscape encodes.
var componentUnescape = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// URLBuilder attaches every report key to a base URL as a query parameter.
type URLBuilder struct{}

// NewURLBuilder creates a URL builder.
func NewURLBuilder() *URLBuilder {
	return &URLBuilder{}
}

// DownloadURL returns base?key=value&... with keys in document order.
// An existing query on base is kept and extended.
func (b *URLBuilder) DownloadURL(base string, doc domain.Document) (string, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return "", fmt.Errorf("%w: export base URL is not configured", domain.ErrInvalidInput)
	}
	if _, err := url.Parse(base); err != nil {
		return "", fmt.Errorf("%w: export base URL: %v", domain.ErrInvalidInput, err)
	}

	keys := doc.Keys()
	params := make([]string, len(keys))
	for i, k := range keys {
		params[i] = EncodeComponent(k) + "=" + EncodeComponent(doc.Get(k))
	}

	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + strings.Join(params, "&"), nil
}

// EncodeComponent percent-encodes s the way encodeURIComponent does.
func EncodeComponent(s string) string {
	return componentUnescape.Replace(url.QueryEscape(s))
}
