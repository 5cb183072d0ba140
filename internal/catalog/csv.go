// Package catalog loads the language-of-flowers table and builds the
// exact-match lookups used by the page and the API.
package catalog

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// Column names expected in the catalog header (after trimming).
const (
	ColumnFlower  = "Flower"
	ColumnColor   = "Color"
	ColumnMeaning = "Meaning"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Entry is a single catalog row.
type Entry struct {
	Flower  string
	Color   string
	Meaning string
}

// DisplayName joins color and flower, e.g. "Red Rose", or just "Rose" when
// the row has no color.
func (e Entry) DisplayName() string {
	return strings.TrimSpace(e.Color + " " + e.Flower)
}

// Dataset is the result of parsing a catalog source.
type Dataset struct {
	Entries []Entry
	Skipped int // malformed or incomplete rows
}

// ReadFile parses the catalog at path. A missing file yields ErrNotFound;
// anything else that prevents reading the table yields a *ParseError.
func ReadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	ds, err := Parse(f)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return ds, nil
}

// Parse reads a catalog CSV. Header names are whitespace-trimmed and a
// leading UTF-8 BOM is ignored. Rows that fail to parse, carry more fields
// than the header, or lack a flower or meaning are skipped.
func Parse(r io.Reader) (*Dataset, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, &ParseError{Err: errors.New("empty catalog")}
		}
		return nil, &ParseError{Err: fmt.Errorf("failed to read header: %w", err)}
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	flowerIdx, ok := columns[ColumnFlower]
	if !ok {
		return nil, &ParseError{Err: fmt.Errorf("missing column %q", ColumnFlower)}
	}
	meaningIdx, ok := columns[ColumnMeaning]
	if !ok {
		return nil, &ParseError{Err: fmt.Errorf("missing column %q", ColumnMeaning)}
	}
	colorIdx, hasColor := columns[ColumnColor]

	ds := &Dataset{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				ds.Skipped++
				continue
			}
			return nil, &ParseError{Err: err}
		}

		if len(record) > len(header) {
			ds.Skipped++
			continue
		}

		entry := Entry{
			Flower:  field(record, flowerIdx),
			Meaning: field(record, meaningIdx),
		}
		if hasColor {
			entry.Color = field(record, colorIdx)
		}
		if entry.Flower == "" || entry.Meaning == "" {
			ds.Skipped++
			continue
		}
		ds.Entries = append(ds.Entries, entry)
	}

	return ds, nil
}

func field(record []string, idx int) string {
	if idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
