package tabular

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/okian/propcast/pkg/logger"
	"github.com/okian/propcast/pkg/metrics"
)

// Store reads and writes tabular artifacts under a single root
// directory. Writes are full-file overwrites staged through a temp
// file so a concurrent reader never observes a half-written artifact.
type Store struct {
	root string
	log  logger.Logger
}

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithLogger sets a custom logger for the store.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// NewStore creates a store rooted at dir.
func NewStore(dir string, opts ...Option) *Store {
	s := &Store{
		root: dir,
		log:  logger.Get().Named("tabular"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the store's root directory.
func (s *Store) Root() string { return s.root }

// Path resolves a relative artifact name under the store root.
func (s *Store) Path(rel string) string { return filepath.Join(s.root, rel) }

// Exists reports whether the artifact is present.
func (s *Store) Exists(rel string) bool {
	_, err := os.Stat(s.Path(rel))
	return err == nil
}

// Glob returns artifact names (relative to the root) matching pattern.
func (s *Store) Glob(ctx context.Context, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.root, pattern))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	rels := make([]string, 0, len(matches))
	for _, m := range matches {
		rel, err := filepath.Rel(s.root, m)
		if err != nil {
			return nil, err
		}
		rels = append(rels, rel)
	}
	return rels, nil
}

// Read loads a CSV artifact. A missing file fails with ErrMissingFile,
// a file without a header row with ErrEmptyInput. A header with zero
// data rows is valid and yields an empty table so downstream stages
// can still run over zero players.
func (s *Store) Read(ctx context.Context, rel string) (*Table, error) {
	f, err := os.Open(s.Path(rel))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingFile, rel)
		}
		return nil, fmt.Errorf("open %s: %w", rel, err)
	}
	defer f.Close() //nolint:errcheck // read-only handle

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // width enforced against the header below
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyInput, rel)
	}

	t := New(records[0]...)
	for i, rec := range records[1:] {
		if len(rec) != len(records[0]) {
			return nil, fmt.Errorf("%s row %d: %w", rel, i+2, ErrRowWidth)
		}
		if err := t.Append(rec); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", rel, i+2, err)
		}
	}
	metrics.RecordRowsRead(rel, t.Len())
	s.log.Debug(ctx, "artifact read", logger.String("artifact", rel), logger.Int("rows", t.Len()))
	return t, nil
}

// Write persists a table as a CSV artifact, creating parent
// directories as needed and replacing any prior file whole.
func (s *Store) Write(ctx context.Context, rel string, t *Table) error {
	records := make([][]string, 0, t.Len()+1)
	records = append(records, t.Columns())
	for i := 0; i < t.Len(); i++ {
		records = append(records, t.Row(i))
	}
	if err := s.writeFile(ctx, rel, func(f *os.File) error {
		w := csv.NewWriter(f)
		if err := w.WriteAll(records); err != nil {
			return err
		}
		w.Flush()
		return w.Error()
	}); err != nil {
		return err
	}
	metrics.RecordRowsWritten(rel, t.Len())
	return nil
}

// WriteText persists a plain-text artifact, e.g. the match summary.
func (s *Store) WriteText(ctx context.Context, rel, content string) error {
	return s.writeFile(ctx, rel, func(f *os.File) error {
		_, err := f.WriteString(content)
		return err
	})
}

// writeFile stages content in a temp file next to the target and
// renames it into place.
func (s *Store) writeFile(ctx context.Context, rel string, fill func(*os.File) error) error {
	path := s.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir for %s: %w", rel, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("stage %s: %w", rel, err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // best-effort cleanup on failure

	if err := fill(tmp); err != nil {
		tmp.Close() //nolint:errcheck,gosec // write error takes precedence
		return fmt.Errorf("write %s: %w", rel, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", rel, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("publish %s: %w", rel, err)
	}
	s.log.Debug(ctx, "artifact written", logger.String("artifact", rel))
	return nil
}
