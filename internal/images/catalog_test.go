package images

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "images.json")
	content := `[
  {"id": "img-1", "path": "img-1.jpg", "tags": ["cats"], "default_alt": "a cat", "width": 1200, "height": 800, "bytes": 420000, "mime": "image/jpeg"},
  {"id": "img-2", "path": "img-2.png", "tags": [], "default_alt": "logo", "width": 600, "height": 600, "bytes": 90000, "mime": "image/png"}
]`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	assets, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("expected 2 assets, got %d", len(assets))
	}
	if assets[0].ID != "img-1" || assets[0].DefaultAlt != "a cat" {
		t.Errorf("unexpected first asset: %+v", assets[0])
	}
	if !assets[0].Eligible() {
		t.Error("420kB asset should be eligible")
	}
}

func TestLoadCatalogRejectsDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "images.json")
	content := `[{"id": "x", "path": "x.jpg", "bytes": 1}, {"id": "x", "path": "y.jpg", "bytes": 1}]`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCatalog(path); err == nil {
		t.Error("expected an error for duplicate ids")
	}
}

func TestLoadCatalogMissingFile(t *testing.T) {
	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected an error for a missing catalog")
	}
}
