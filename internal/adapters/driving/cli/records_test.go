package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reportdraft/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/reportdraft/internal/core/domain"
	"github.com/custodia-labs/reportdraft/internal/core/services"
)

func setupRecords(t *testing.T, records ...domain.Record) *memory.RecordStore {
	t.Helper()
	store := memory.NewRecordStore(records...)
	recordFields = nil
	SetServices(Services{Records: services.NewRecordService(store, nil)})
	t.Cleanup(func() {
		recordFields = nil
		SetServices(Services{})
	})
	return store
}

func TestRecordsList(t *testing.T) {
	setupRecords(t,
		domain.Record{Kind: domain.RecordCatalog, ID: "cat-2", Fields: map[string]string{"name": "Trails"}},
		domain.Record{Kind: domain.RecordCatalog, ID: "cat-1"},
		domain.Record{Kind: domain.RecordCommsPlan, ID: "cp-1"},
	)

	out, err := runRoot(t, "records", "list", "catalog")

	require.NoError(t, err)
	assert.Contains(t, out, "Catalog records:")
	assert.Contains(t, out, "cat-2 - Trails")
	assert.Contains(t, out, "cat-1")
	assert.NotContains(t, out, "cp-1")
}

func TestRecordsList_Empty(t *testing.T) {
	setupRecords(t)

	out, err := runRoot(t, "records", "list", "comms_plan")

	require.NoError(t, err)
	assert.Contains(t, out, "No Communications Plan records.")
}

func TestRecordsList_UnknownKind(t *testing.T) {
	setupRecords(t)

	_, err := runRoot(t, "records", "list", "budget")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordsShow(t *testing.T) {
	setupRecords(t, domain.Record{
		Kind:   domain.RecordRezoningSubmittal,
		ID:     "Z-12",
		Fields: map[string]string{"case_name": "Elm St", "address": "12 Elm St"},
	})

	out, err := runRoot(t, "records", "show", "rezoning_submittal", "Z-12")

	require.NoError(t, err)
	assert.Contains(t, out, "Rezoning Submittal Z-12")
	assert.Contains(t, out, "address: 12 Elm St")
	assert.Contains(t, out, "case_name: Elm St")
	assert.Less(t, strings.Index(out, "address"), strings.Index(out, "case_name"), "fields are sorted")
}

func TestRecordsShow_NotFound(t *testing.T) {
	setupRecords(t)

	_, err := runRoot(t, "records", "show", "catalog", "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordsAdd(t *testing.T) {
	store := setupRecords(t)

	out, err := runRoot(t, "records", "add", "catalog", "cat-9",
		"--field", "name=Pools", "--field", "notes=a=b")

	require.NoError(t, err)
	assert.Contains(t, out, "Saved Catalog cat-9 (2 field(s)).")

	saved, err := store.Lookup(t.Context(), domain.RecordRef{Kind: domain.RecordCatalog, ID: "cat-9"})
	require.NoError(t, err)
	assert.Equal(t, "Pools", saved.Field("name"))
	assert.Equal(t, "a=b", saved.Field("notes"))
}

func TestRecordsAdd_BadField(t *testing.T) {
	setupRecords(t)

	_, err := runRoot(t, "records", "add", "catalog", "cat-9", "--field", "novalue")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecords_NoService(t *testing.T) {
	SetServices(Services{})

	for _, args := range [][]string{
		{"records", "list", "catalog"},
		{"records", "show", "catalog", "x"},
		{"records", "add", "catalog", "x"},
	} {
		_, err := runRoot(t, args...)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "record service not configured")
	}
}

func TestParseFields(t *testing.T) {
	fields, err := parseFields([]string{"name=Elm", " case_name =Elm St", "empty="})

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"name": "Elm", "case_name": "Elm St", "empty": ""}, fields)

	_, err = parseFields([]string{"=x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
