package records

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/reportdraft/internal/core/domain"
	"github.com/custodia-labs/reportdraft/internal/core/ports/driven"
	"github.com/custodia-labs/reportdraft/internal/logger"
)

// Ensure FileLookup implements the interface.
var _ driven.RecordStore = (*FileLookup)(nil)

const recordExt = ".toml"

// FileLookup reads and writes records as TOML files.
type FileLookup struct {
	dir string
}

// NewFileLookup creates a lookup rooted at dir.
func NewFileLookup(dir string) *FileLookup {
	return &FileLookup{dir: dir}
}

// Dir returns the root directory.
func (l *FileLookup) Dir() string {
	return l.dir
}

// Lookup reads the record file for ref.
func (l *FileLookup) Lookup(ctx context.Context, ref domain.RecordRef) (*domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := l.path(ref.Kind, ref.ID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s %s", domain.ErrNotFound, ref.Kind, ref.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}

	fields, err := decodeFields(data)
	if err != nil {
		return nil, fmt.Errorf("parse record %s: %w", path, err)
	}

	logger.Debug("records: loaded %s %s (%d fields)", ref.Kind, ref.ID, len(fields))
	return &domain.Record{Kind: ref.Kind, ID: ref.ID, Fields: fields}, nil
}

// Save writes record to its file, creating the kind directory if needed.
func (l *FileLookup) Save(ctx context.Context, record domain.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := l.path(record.Kind, record.ID)
	if err != nil {
		return err
	}

	data, err := toml.Marshal(record.Fields)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create record directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}

// List reads every record of kind, sorted by ID. A missing directory is empty.
func (l *FileLookup) List(ctx context.Context, kind domain.RecordKind) ([]domain.Record, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown record kind %q", domain.ErrInvalidInput, kind)
	}

	entries, err := os.ReadDir(filepath.Join(l.dir, string(kind)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != recordExt {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), recordExt))
	}
	sort.Strings(ids)

	records := make([]domain.Record, 0, len(ids))
	for _, id := range ids {
		r, err := l.Lookup(ctx, domain.RecordRef{Kind: kind, ID: id})
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}
	return records, nil
}

// path validates kind and id and returns the record file path.
// IDs may not contain path separators or dot segments.
func (l *FileLookup) path(kind domain.RecordKind, id string) (string, error) {
	if !kind.IsValid() {
		return "", fmt.Errorf("%w: unknown record kind %q", domain.ErrInvalidInput, kind)
	}
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("%w: invalid record id %q", domain.ErrInvalidInput, id)
	}
	return filepath.Join(l.dir, string(kind), id+recordExt), nil
}

// decodeFields flattens a TOML table into strings.
// Arrays become one line per element; other values use their default format.
func decodeFields(data []byte) (map[string]string, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			fields[k] = val
		case []any:
			lines := make([]string, len(val))
			for i, item := range val {
				lines[i] = fmt.Sprint(item)
			}
			fields[k] = strings.Join(lines, "\n")
		default:
			fields[k] = fmt.Sprint(val)
		}
	}
	return fields, nil
}
