package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/timmy/flowerpower/internal/domain"
)

const sampleCSV = "\xEF\xBB\xBF Flower , Color ,Meaning \n" +
	"Rose,Red,Love\n" +
	"Daisy,,Innocence\n" +
	"\"Lily, Calla\",White,Magnificent beauty\n" +
	"Tulip,Yellow,Hopeless love,extra\n" +
	"Iris,Blue\n" +
	"Carnation,Pink,Gratitude\n"

func TestParse(t *testing.T) {
	ds, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := []Entry{
		{Flower: "Rose", Color: "Red", Meaning: "Love"},
		{Flower: "Daisy", Color: "", Meaning: "Innocence"},
		{Flower: "Lily, Calla", Color: "White", Meaning: "Magnificent beauty"},
		{Flower: "Carnation", Color: "Pink", Meaning: "Gratitude"},
	}
	if !reflect.DeepEqual(ds.Entries, want) {
		t.Errorf("entries = %+v, want %+v", ds.Entries, want)
	}
	// Tulip has an extra field, Iris has no meaning.
	if ds.Skipped != 2 {
		t.Errorf("skipped = %d, want 2", ds.Skipped)
	}
}

func TestParseSkipsBrokenQuotes(t *testing.T) {
	input := "Flower,Color,Meaning\nRo\"se,Red,Love\nDaisy,,Innocence\n"
	ds, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(ds.Entries) != 1 || ds.Entries[0].Flower != "Daisy" {
		t.Errorf("entries = %+v, want only Daisy", ds.Entries)
	}
	if ds.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", ds.Skipped)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"missing flower column", "Name,Color,Meaning\nRose,Red,Love\n"},
		{"missing meaning column", "Flower,Color\nRose,Red\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("err = %v, want *ParseError", err)
			}
		})
	}
}

func TestReadFileNotFound(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "language-of-flowers.csv"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestReadFileParseErrorCarriesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := ReadFile(path)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *ParseError", err)
	}
	if pe.Path != path {
		t.Errorf("Path = %q, want %q", pe.Path, path)
	}
}

func TestTableLookups(t *testing.T) {
	table := NewTable([]Entry{{Flower: "Rose", Color: "Red", Meaning: "Love"}})

	for _, key := range []string{"red rose", "  Red Rose ", "RED ROSE"} {
		if got, ok := table.Meaning(key); !ok || got != "Love" {
			t.Errorf("Meaning(%q) = %q, %v; want Love", key, got, ok)
		}
	}
	if got, ok := table.Flower("love"); !ok || got != "Red Rose" {
		t.Errorf("Flower(love) = %q, %v; want Red Rose", got, ok)
	}
	if _, ok := table.Meaning("blue rose"); ok {
		t.Error("expected miss for unknown flower")
	}
	if _, ok := table.Flower("envy"); ok {
		t.Error("expected miss for unknown meaning")
	}
}

func TestTableLastWriteWins(t *testing.T) {
	table := NewTable([]Entry{
		{Flower: "Rose", Color: "Red", Meaning: "Love"},
		{Flower: "Rose", Color: "red", Meaning: "Passion"},
		{Flower: "Tulip", Color: "Red", Meaning: "love"},
	})

	if got, _ := table.Meaning("red rose"); got != "Passion" {
		t.Errorf("Meaning(red rose) = %q, want Passion", got)
	}
	if got, _ := table.Flower("love"); got != "Red Tulip" {
		t.Errorf("Flower(love) = %q, want Red Tulip", got)
	}
	if got := table.Overwritten(); !reflect.DeepEqual(got, []string{"red rose", "love"}) {
		t.Errorf("Overwritten = %v", got)
	}
}

func TestTableMappingsAreInverse(t *testing.T) {
	ds, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	table := NewTable(ds.Entries)

	for _, name := range table.Names() {
		meaning, _ := table.Meaning(name)
		back, ok := table.Flower(meaning)
		if !ok || NormalizeKey(back) != name {
			t.Errorf("round trip %q -> %q -> %q", name, meaning, back)
		}
	}
	wantNames := []string{"daisy", "pink carnation", "red rose", "white lily, calla"}
	if got := table.Names(); !reflect.DeepEqual(got, wantNames) {
		t.Errorf("Names = %v, want %v", got, wantNames)
	}
}

type countingSource struct {
	calls int
	ds    *Dataset
	err   error
}

func (s *countingSource) Name() string { return "counting" }

func (s *countingSource) Read(ctx context.Context) (*Dataset, error) {
	s.calls++
	return s.ds, s.err
}

func TestLoaderMemoizes(t *testing.T) {
	src := &countingSource{ds: &Dataset{Entries: []Entry{{Flower: "Rose", Color: "Red", Meaning: "Love"}}}}
	loader := NewLoader(src)

	for i := 0; i < 3; i++ {
		table, err := loader.Load(context.Background())
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if table.Len() != 1 {
			t.Fatalf("Len = %d, want 1", table.Len())
		}
	}
	if src.calls != 1 {
		t.Errorf("source read %d times, want 1", src.calls)
	}
}

func TestLoaderMissingFileDegradesToMiss(t *testing.T) {
	loader := NewLoader(FileSource{Path: filepath.Join(t.TempDir(), "missing.csv")})

	table, err := loader.Load(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, ok := table.Meaning("red rose"); ok {
		t.Error("expected lookups to miss on unavailable catalog")
	}
	if len(table.Names()) != 0 {
		t.Errorf("Names = %v, want empty", table.Names())
	}
}

type stubLister []domain.Flower

func (s stubLister) ListOrdered(ctx context.Context) ([]domain.Flower, error) {
	return s, nil
}

func TestDatabaseSource(t *testing.T) {
	src := DatabaseSource{Repo: stubLister{
		{NameKey: "red rose", Name: "Rose", Color: "Red", Meaning: "Love", Position: 0},
		{NameKey: "daisy", Name: "Daisy", Meaning: "Innocence", Position: 1},
	}}
	table, err := NewLoader(src).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, _ := table.Meaning("red rose"); got != "Love" {
		t.Errorf("Meaning(red rose) = %q, want Love", got)
	}
	if got, _ := table.Flower("innocence"); got != "Daisy" {
		t.Errorf("Flower(innocence) = %q, want Daisy", got)
	}
}
