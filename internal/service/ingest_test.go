package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/timmy/flowerpower/internal/catalog"
	"github.com/timmy/flowerpower/internal/source/localdir"
	"github.com/timmy/flowerpower/internal/storage"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestIngestFromSource(t *testing.T) {
	srcDir := t.TempDir()
	files := map[string][]byte{
		"red_rose.png": pngBytes(t, 4, 3),
		"daisy.png":    pngBytes(t, 2, 2),
		"broken.jpg":   []byte("not an image"),
		"tulip.png":    pngBytes(t, 1, 1),
		"readme.md":    []byte("# flowers"),
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(srcDir, name), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	dest, err := storage.NewLocalStorage(t.TempDir(), "/images")
	if err != nil {
		t.Fatal(err)
	}
	// Already present, so skipped without Force.
	if err := dest.Upload(context.Background(), "tulip.png", bytes.NewReader([]byte("old")), 3, "image/png"); err != nil {
		t.Fatal(err)
	}

	svc := NewIngestService(dest, &IngestConfig{Workers: 2, BatchSize: 2})
	stats, err := svc.IngestFromSource(context.Background(), localdir.NewAdapter(srcDir), 0, nil)
	if err != nil {
		t.Fatalf("IngestFromSource: %v", err)
	}

	if stats.TotalItems != 4 || stats.ProcessedItems != 4 {
		t.Errorf("total=%d processed=%d, want 4/4", stats.TotalItems, stats.ProcessedItems)
	}
	if stats.SkippedItems != 1 {
		t.Errorf("skipped = %d, want 1", stats.SkippedItems)
	}
	if stats.FailedItems != 1 {
		t.Errorf("failed = %d, want 1 (broken.jpg)", stats.FailedItems)
	}

	for _, key := range []string{"red_rose.png", "daisy.png"} {
		if ok, _ := dest.Exists(context.Background(), key); !ok {
			t.Errorf("%s not uploaded", key)
		}
	}
	if ok, _ := dest.Exists(context.Background(), "broken.jpg"); ok {
		t.Error("broken.jpg should not be uploaded")
	}
	got, _ := os.ReadFile(filepath.Join(dest.Dir(), "tulip.png"))
	if string(got) != "old" {
		t.Error("existing object overwritten without force")
	}
}

func TestIngestFromSource_ForceAndLimit(t *testing.T) {
	srcDir := t.TempDir()
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		if err := os.WriteFile(filepath.Join(srcDir, name), pngBytes(t, 1, 1), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	dest, _ := storage.NewLocalStorage(t.TempDir(), "/images")
	dest.Upload(context.Background(), "a.png", bytes.NewReader([]byte("old")), 3, "image/png")

	svc := NewIngestService(dest, &IngestConfig{Workers: 1, BatchSize: 10})
	stats, err := svc.IngestFromSource(context.Background(), localdir.NewAdapter(srcDir), 2, &IngestOptions{Force: true})
	if err != nil {
		t.Fatalf("IngestFromSource: %v", err)
	}
	if stats.TotalItems != 2 || stats.SkippedItems != 0 || stats.FailedItems != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if got, _ := os.ReadFile(filepath.Join(dest.Dir(), "a.png")); string(got) == "old" {
		t.Error("force did not overwrite a.png")
	}
	if ok, _ := dest.Exists(context.Background(), "c.png"); ok {
		t.Error("c.png uploaded beyond limit")
	}
}

func TestIngestFromSource_SourceError(t *testing.T) {
	dest, _ := storage.NewLocalStorage(t.TempDir(), "/images")
	svc := NewIngestService(dest, &IngestConfig{Workers: 1})
	_, err := svc.IngestFromSource(context.Background(), localdir.NewAdapter(filepath.Join(t.TempDir(), "missing")), 0, nil)
	if err == nil {
		t.Fatal("expected error for missing source directory")
	}
}

func TestGetImageDimensions(t *testing.T) {
	w, h, err := getImageDimensions(pngBytes(t, 7, 5))
	if err != nil || w != 7 || h != 5 {
		t.Errorf("got %dx%d, %v; want 7x5", w, h, err)
	}
	if _, _, err := getImageDimensions([]byte("RIFF....WEBPVP8 ")); err == nil {
		t.Error("expected error for truncated webp")
	}
}

type recordingWriter struct {
	entries []catalog.Entry
	err     error
}

func (w *recordingWriter) ReplaceAll(ctx context.Context, entries []catalog.Entry) (int, error) {
	w.entries = entries
	return len(entries), w.err
}

func TestImportCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "language-of-flowers.csv")
	csv := "Flower,Color,Meaning\nRose,Red,Love\nIris,Blue\nDaisy,,Innocence\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	w := &recordingWriter{}
	stats, err := ImportCatalog(context.Background(), path, w)
	if err != nil {
		t.Fatalf("ImportCatalog: %v", err)
	}
	if stats.Rows != 2 || stats.Skipped != 1 || stats.Stored != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if len(w.entries) != 2 || w.entries[0].DisplayName() != "Red Rose" {
		t.Errorf("entries = %+v", w.entries)
	}

	if _, err := ImportCatalog(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), w); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	failing := &recordingWriter{err: errors.New("database is locked")}
	if _, err := ImportCatalog(context.Background(), path, failing); err == nil {
		t.Error("expected store error")
	}
}
