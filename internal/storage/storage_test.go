package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/timmy/flowerpower/internal/config"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "/images/")
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	ok, err := s.Exists(ctx, "red_rose.jpg")
	if err != nil || ok {
		t.Fatalf("Exists before upload = %v, %v", ok, err)
	}

	if err := s.Upload(ctx, "red_rose.jpg", strings.NewReader("jpeg"), 4, "image/jpeg"); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if ok, err := s.Exists(ctx, "red_rose.jpg"); err != nil || !ok {
		t.Fatalf("Exists after upload = %v, %v", ok, err)
	}

	rc, err := s.Download(ctx, "red_rose.jpg")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "jpeg" {
		t.Errorf("Download = %q", data)
	}

	if got := s.GetURL("red_rose.jpg"); got != "/images/red_rose.jpg" {
		t.Errorf("GetURL = %q", got)
	}

	if err := s.Delete(ctx, "red_rose.jpg"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ok, _ := s.Exists(ctx, "red_rose.jpg"); ok {
		t.Error("object still exists after delete")
	}
}

func TestLocalStorage_StaysInsideRoot(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "images")
	if err := os.MkdirAll(root, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(parent, "secret.jpg"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	s, _ := NewLocalStorage(root, "/images")
	if ok, _ := s.Exists(context.Background(), "../secret.jpg"); ok {
		t.Error("key escaped storage root")
	}
}

func TestLocalStorage_DirectoryIsNotAnObject(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "rose.jpg"), 0755); err != nil {
		t.Fatal(err)
	}
	s, _ := NewLocalStorage(root, "")
	if ok, _ := s.Exists(context.Background(), "rose.jpg"); ok {
		t.Error("directory reported as existing object")
	}
}

func TestDetectStorageType(t *testing.T) {
	tests := []struct {
		endpoint string
		want     StorageType
	}{
		{"https://abc.r2.cloudflarestorage.com", StorageTypeR2},
		{"s3.us-west-2.amazonaws.com", StorageTypeS3},
		{"", StorageTypeS3},
		{"localhost:9000", StorageTypeS3Compatible},
	}
	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			if got := detectStorageType(tt.endpoint); got != tt.want {
				t.Errorf("detectStorageType(%q) = %q, want %q", tt.endpoint, got, tt.want)
			}
		})
	}
}

func TestS3Storage_Keys(t *testing.T) {
	s, err := NewStorage(&S3Config{
		Endpoint: "http://localhost:9000/",
		Bucket:   "flowers",
		Prefix:   "/Flower_images/",
	})
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}
	if got := s.GetURL("red_rose.jpg"); got != "http://localhost:9000/flowers/Flower_images/red_rose.jpg" {
		t.Errorf("GetURL = %q", got)
	}

	s.publicURL = "https://cdn.example.com"
	if got := s.GetURL("rose.jpg"); got != "https://cdn.example.com/Flower_images/rose.jpg" {
		t.Errorf("GetURL with public URL = %q", got)
	}

	hosted, err := NewStorage(&S3Config{
		Bucket: "flowers",
		Region: "eu-west-1",
		UseSSL: true,
		Prefix: "Flower_images",
	})
	if err != nil {
		t.Fatalf("NewStorage without endpoint: %v", err)
	}
	if got := hosted.GetURL("red_rose.jpg"); got != "https://flowers.s3.eu-west-1.amazonaws.com/Flower_images/red_rose.jpg" {
		t.Errorf("GetURL without endpoint = %q", got)
	}

	hosted, _ = NewStorage(&S3Config{Bucket: "flowers"})
	if got := hosted.GetURL("daisy.jpg"); got != "https://flowers.s3.us-east-1.amazonaws.com/daisy.jpg" {
		t.Errorf("GetURL with default region = %q", got)
	}
}

func TestNewImageStorage(t *testing.T) {
	s, err := NewImageStorage(&config.ImagesConfig{Backend: "local", Dir: t.TempDir()}, &config.StorageConfig{})
	if err != nil {
		t.Fatalf("NewImageStorage: %v", err)
	}
	if _, ok := s.(*LocalStorage); !ok {
		t.Errorf("got %T, want *LocalStorage", s)
	}

	if _, err := NewImageStorage(&config.ImagesConfig{Backend: "ftp"}, &config.StorageConfig{}); err == nil {
		t.Error("expected error for unknown backend")
	}
}
