package records

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reportdraft/internal/core/domain"
)

func writeRecord(t *testing.T, dir string, kind domain.RecordKind, id, content string) {
	t.Helper()
	path := filepath.Join(dir, string(kind), id+".toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestFileLookup_Lookup(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, domain.RecordRezoningSubmittal, "z-12", `
name = "Z-12"
case_name = "Elm Street"
acreage = 4.5
key_points = ["traffic", "parking"]
`)
	l := NewFileLookup(dir)

	r, err := l.Lookup(context.Background(), domain.RecordRef{Kind: domain.RecordRezoningSubmittal, ID: "z-12"})

	require.NoError(t, err)
	assert.Equal(t, domain.RecordRezoningSubmittal, r.Kind)
	assert.Equal(t, "z-12", r.ID)
	assert.Equal(t, "Z-12", r.Field("name"))
	assert.Equal(t, "Elm Street", r.Field("case_name"))
	assert.Equal(t, "4.5", r.Field("acreage"))
	assert.Equal(t, "traffic\nparking", r.Field("key_points"))
}

func TestFileLookup_NotFound(t *testing.T) {
	l := NewFileLookup(t.TempDir())

	_, err := l.Lookup(context.Background(), domain.RecordRef{Kind: domain.RecordCatalog, ID: "missing"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFileLookup_InvalidRefs(t *testing.T) {
	l := NewFileLookup(t.TempDir())

	refs := []domain.RecordRef{
		{Kind: "permit", ID: "x"},
		{Kind: domain.RecordCatalog, ID: ""},
		{Kind: domain.RecordCatalog, ID: ".."},
		{Kind: domain.RecordCatalog, ID: "../secret"},
		{Kind: domain.RecordCatalog, ID: `a\b`},
	}
	for _, ref := range refs {
		_, err := l.Lookup(context.Background(), ref)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, ref.ID)
	}
}

func TestFileLookup_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, domain.RecordCatalog, "bad", `name = "unterminated`)

	_, err := NewFileLookup(dir).Lookup(context.Background(), domain.RecordRef{Kind: domain.RecordCatalog, ID: "bad"})

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestFileLookup_SaveAndList(t *testing.T) {
	ctx := context.Background()
	l := NewFileLookup(t.TempDir())

	require.NoError(t, l.Save(ctx, domain.Record{
		Kind:   domain.RecordCommsPlan,
		ID:     "p2",
		Fields: map[string]string{"name": "Second", "goal": "Inform"},
	}))
	require.NoError(t, l.Save(ctx, domain.Record{
		Kind:   domain.RecordCommsPlan,
		ID:     "p1",
		Fields: map[string]string{"name": "First"},
	}))

	records, err := l.List(ctx, domain.RecordCommsPlan)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "p1", records[0].ID)
	assert.Equal(t, "First", records[0].Field("name"))
	assert.Equal(t, "Inform", records[1].Field("goal"))

	empty, err := l.List(ctx, domain.RecordCatalog)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestFileLookup_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileLookup(t.TempDir()).Lookup(ctx, domain.RecordRef{Kind: domain.RecordCatalog, ID: "c"})

	assert.ErrorIs(t, err, context.Canceled)
}
