package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeReportMessage(t *testing.T) {
	doc := DocumentFrom(map[string]string{SectionTitle: "T"})

	data, err := EncodeReportMessage(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"report":{"title":"T"}}`, string(data))
}

func TestDecodeReportMessage_RoundTrip(t *testing.T) {
	doc := DocumentFrom(map[string]string{
		SectionTitle:   "T",
		SectionPurpose: "",
		"extra":        "x",
	})

	data, err := EncodeReportMessage(doc)
	require.NoError(t, err)

	decoded, err := DecodeReportMessage(data)
	require.NoError(t, err)
	assert.True(t, doc.Equal(decoded))
}

func TestDecodeReportMessage_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", `report`},
		{"array envelope", `[{"report":{}}]`},
		{"missing report", `{"other":{}}`},
		{"null report", `{"report":null}`},
		{"array report", `{"report":["title"]}`},
		{"string report", `{"report":"title"}`},
		{"non-string value", `{"report":{"title":42}}`},
		{"truncated", `{"report":{"title":"T"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeReportMessage([]byte(tt.payload))
			assert.ErrorIs(t, err, ErrInvalidSnapshot)
		})
	}
}

func TestDecodeReportMessage_NullValuesBecomeEmpty(t *testing.T) {
	doc, err := DecodeReportMessage([]byte(`{"report":{"title":null,"purpose":"P"}}`))
	require.NoError(t, err)
	assert.True(t, doc.Has(SectionTitle))
	assert.Equal(t, "", doc.Get(SectionTitle))
	assert.Equal(t, "P", doc.Get(SectionPurpose))
}
