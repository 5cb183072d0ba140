package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/timmy/flowerpower/internal/domain"
	"github.com/timmy/flowerpower/internal/logger"
)

// Source produces catalog rows.
type Source interface {
	// Name identifies the source in logs, e.g. the CSV path.
	Name() string

	// Read returns the rows in catalog order.
	Read(ctx context.Context) (*Dataset, error)
}

// FileSource reads the catalog from a CSV file.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string {
	return "csv:" + s.Path
}

func (s FileSource) Read(ctx context.Context) (*Dataset, error) {
	return ReadFile(s.Path)
}

// FlowerLister is the subset of the flower repository the database source needs.
type FlowerLister interface {
	ListOrdered(ctx context.Context) ([]domain.Flower, error)
}

// DatabaseSource reads a catalog previously imported into the database.
type DatabaseSource struct {
	Repo FlowerLister
}

func (s DatabaseSource) Name() string {
	return "database"
}

func (s DatabaseSource) Read(ctx context.Context) (*Dataset, error) {
	rows, err := s.Repo.ListOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list flowers: %w", err)
	}
	ds := &Dataset{Entries: make([]Entry, 0, len(rows))}
	for _, row := range rows {
		ds.Entries = append(ds.Entries, Entry{
			Flower:  row.Name,
			Color:   row.Color,
			Meaning: row.Meaning,
		})
	}
	return ds, nil
}

// Loader reads a Source once and keeps the result for the life of the process.
// The first outcome is final, including a failure: later calls return the same
// empty table and error without touching the source again.
type Loader struct {
	source Source

	once  sync.Once
	table *Table
	err   error
}

// NewLoader creates a memoizing loader for src.
func NewLoader(src Source) *Loader {
	return &Loader{source: src}
}

// Load returns the catalog table. On failure the table is empty, so every
// lookup misses, and err explains why (ErrNotFound or *ParseError).
func (l *Loader) Load(ctx context.Context) (*Table, error) {
	l.once.Do(func() {
		l.table, l.err = l.load(ctx)
	})
	return l.table, l.err
}

func (l *Loader) load(ctx context.Context) (*Table, error) {
	ctx = logger.WithField(ctx, logger.FieldComponent, "catalog")
	start := time.Now()

	ds, err := l.source.Read(ctx)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorf("Catalog unavailable: source=%s", l.source.Name())
		return NewTable(nil), err
	}

	table := NewTable(ds.Entries)

	logger.With(logger.Fields{
		logger.FieldCount:      table.Len(),
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
	}).Info(ctx, "Catalog loaded: source=%s, rows=%d, skipped=%d", l.source.Name(), len(ds.Entries), ds.Skipped)

	if dups := table.Overwritten(); len(dups) > 0 {
		logger.CtxWarn(ctx, "Catalog has duplicate keys, later rows win: count=%d, keys=%v", len(dups), dups)
	}

	return table, nil
}
