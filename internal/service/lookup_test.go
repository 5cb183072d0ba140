package service

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/timmy/flowerpower/internal/catalog"
)

type staticCatalog struct {
	table *catalog.Table
	err   error
}

func (c staticCatalog) Load(ctx context.Context) (*catalog.Table, error) {
	return c.table, c.err
}

type fakeGenerator struct {
	calls   int
	name    string
	meaning string
	err     error
}

func (g *fakeGenerator) Generate(ctx context.Context, name, meaning string) (*Narrative, error) {
	g.calls++
	g.name, g.meaning = name, meaning
	if g.err != nil {
		return nil, g.err
	}
	return &Narrative{Text: "Roses belonged to Venus."}, nil
}

func newLookup(t *testing.T, gen NarrativeGenerator, images ...string) *LookupService {
	t.Helper()
	table := catalog.NewTable([]catalog.Entry{
		{Flower: "Rose", Color: "Red", Meaning: "Love"},
		{Flower: "Daisy", Meaning: "Innocence"},
	})
	resolver := NewImageResolver(newImageDir(t, images...), "jpg")
	return NewLookupService(staticCatalog{table: table}, resolver, gen)
}

func TestLookupFlower_Hit(t *testing.T) {
	gen := &fakeGenerator{}
	svc := newLookup(t, gen, "red_rose.jpg")

	res := svc.LookupFlower(context.Background(), "  Red Rose ")
	if !res.Found {
		t.Fatal("expected hit")
	}
	if res.Query != "red rose" || res.Name != "Red Rose" || res.Meaning != "Love" {
		t.Errorf("result = %+v", res)
	}
	if res.Image == nil || res.Image.Key != "red_rose.jpg" {
		t.Errorf("image = %+v", res.Image)
	}
	if res.Narrative == nil || res.Narrative.Text != "Roses belonged to Venus." {
		t.Errorf("narrative = %+v", res.Narrative)
	}
	if gen.name != "red rose" || gen.meaning != "Love" {
		t.Errorf("generator got (%q, %q)", gen.name, gen.meaning)
	}
}

func TestLookupFlower_Miss(t *testing.T) {
	gen := &fakeGenerator{}
	svc := newLookup(t, gen)

	res := svc.LookupFlower(context.Background(), "Blue Orchid")
	if res.Found {
		t.Fatalf("expected miss, got %+v", res)
	}
	if gen.calls != 0 {
		t.Errorf("generator called %d times on a miss", gen.calls)
	}
}

func TestLookupFlower_NarrativeFailureKeepsResult(t *testing.T) {
	svc := newLookup(t, &fakeGenerator{err: errors.New("model is overloaded")})

	res := svc.LookupFlower(context.Background(), "daisy")
	if !res.Found || res.Meaning != "Innocence" {
		t.Fatalf("result = %+v", res)
	}
	if res.Narrative != nil {
		t.Errorf("narrative = %+v, want nil", res.Narrative)
	}
	if res.NarrativeError != "model is overloaded" {
		t.Errorf("NarrativeError = %q", res.NarrativeError)
	}
	if res.Image != nil {
		t.Errorf("image = %+v, want nil", res.Image)
	}
}

func TestLookupMeaning(t *testing.T) {
	svc := newLookup(t, nil, "rose.jpg")

	res := svc.LookupMeaning(context.Background(), "LOVE")
	if !res.Found || res.Flower != "Red Rose" || res.Meaning != "Love" {
		t.Fatalf("result = %+v", res)
	}
	if res.Image == nil || res.Image.Key != "rose.jpg" {
		t.Errorf("image = %+v", res.Image)
	}

	if miss := svc.LookupMeaning(context.Background(), "envy"); miss.Found {
		t.Errorf("expected miss, got %+v", miss)
	}
}

func TestLookup_UnavailableCatalog(t *testing.T) {
	loader := catalog.NewLoader(catalog.FileSource{Path: filepath.Join(t.TempDir(), "missing.csv")})
	gen := &fakeGenerator{}
	svc := NewLookupService(loader, NewImageResolver(newImageDir(t), "jpg"), gen)
	ctx := context.Background()

	if err := svc.CatalogStatus(ctx); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("CatalogStatus = %v, want ErrNotFound", err)
	}
	if res := svc.LookupFlower(ctx, "red rose"); res.Found {
		t.Error("expected miss on unavailable catalog")
	}
	if res := svc.LookupMeaning(ctx, "love"); res.Found {
		t.Error("expected miss on unavailable catalog")
	}
	if opts := svc.Options(ctx); len(opts.Flowers) != 0 || len(opts.Meanings) != 0 {
		t.Errorf("options = %+v, want empty", opts)
	}
	if gen.calls != 0 {
		t.Errorf("generator called %d times", gen.calls)
	}
}

func TestLookupOptions(t *testing.T) {
	svc := newLookup(t, nil)
	got := svc.Options(context.Background())
	want := Options{Flowers: []string{"daisy", "red rose"}, Meanings: []string{"innocence", "love"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Options = %+v, want %+v", got, want)
	}
}

func TestTitleCase(t *testing.T) {
	tests := map[string]string{
		"red rose":          "Red Rose",
		"white lily, calla": "White Lily, Calla",
		"love":              "Love",
	}
	for in, want := range tests {
		if got := TitleCase(in); got != want {
			t.Errorf("TitleCase(%q) = %q, want %q", in, got, want)
		}
	}
}
