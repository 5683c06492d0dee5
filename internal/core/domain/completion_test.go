package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseSchema_MarshalJSON(t *testing.T) {
	schema := NewResponseSchema([]string{SectionTitle, SectionPurpose})

	data, err := json.Marshal(schema)
	require.NoError(t, err)

	assert.Equal(t,
		`{"type":"object","additionalProperties":false,"properties":{"title":{"type":"string"},"purpose":{"type":"string"}},"required":["title","purpose"]}`,
		string(data))
}

func TestResponseSchema_DeterministicBytes(t *testing.T) {
	keys := []string{SectionNextSteps, SectionTitle, SectionBackground}

	first, err := json.Marshal(NewResponseSchema(keys))
	require.NoError(t, err)
	second, err := json.Marshal(NewResponseSchema(keys))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestResponseSchema_RequiredMatchesProperties(t *testing.T) {
	schema := NewResponseSchema([]string{SectionTitle, SectionPurpose, SectionTitle})

	assert.Equal(t, []string{SectionTitle, SectionPurpose}, schema.Properties())
	assert.Equal(t, schema.Properties(), schema.Required())
	assert.False(t, schema.AdditionalProperties())
}

func TestResponseSchema_Empty(t *testing.T) {
	data, err := json.Marshal(NewResponseSchema(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"object","additionalProperties":false,"properties":{},"required":[]}`, string(data))
}

func TestCompletionRequest_ResponseKey(t *testing.T) {
	req := CompletionRequest{Sections: []string{SectionDiscussion, SectionTitle}}
	assert.Equal(t, SectionDiscussion, req.ResponseKey())

	req = CompletionRequest{}
	assert.Equal(t, FallbackResponseKey, req.ResponseKey())
}

func TestCompletionRequest_Structured(t *testing.T) {
	assert.True(t, CompletionRequest{Mode: ModeStructured}.Structured())
	assert.False(t, CompletionRequest{Mode: ModeUnstructured}.Structured())
}

func TestParseTemperature(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{input: "1.2", want: 1.2},
		{input: " 0 ", want: 0},
		{input: "5", want: 5},
		{input: "-1", want: -1},
		{input: "abc", wantErr: true},
		{input: "", wantErr: true},
		{input: "NaN", wantErr: true},
		{input: "Inf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTemperature(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestContextTexts(t *testing.T) {
	texts := ContextTexts([]ContextStatement{
		{Role: ContextRoleDraft, Text: "draft"},
		{Role: ContextRoleRecord, Text: "record"},
	})
	assert.Equal(t, []string{"draft", "record"}, texts)
	assert.Empty(t, ContextTexts(nil))
}
