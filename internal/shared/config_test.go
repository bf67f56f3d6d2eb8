package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATA_DIR", "")
	t.Setenv("CONFIG_FILE", "")
	c := Load()
	if c.StoreBackend != "json" || c.SourceGlob != "*.csv" || c.HTTPAddr != ":8080" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.JSONPath != filepath.Join("data", "reviews.json") || c.LockPath != filepath.Join("data", ".ingest.lock") {
		t.Fatalf("derived paths: %q %q", c.JSONPath, c.LockPath)
	}
	if c.CacheTTL != 15*time.Minute || len(c.SourceURLs) != 0 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("DATA_DIR", "/tmp/rw")
	t.Setenv("STORE_BACKEND", "SQLite")
	t.Setenv("SOURCE_URLS", "http://a/x.csv, ,http://b/y.csv")
	t.Setenv("CACHE_TTL_SECONDS", "30")
	t.Setenv("SEED", "42")
	c := Load()
	if c.StoreBackend != "sqlite" || c.SQLitePath != filepath.Join("/tmp/rw", "reviews.db") {
		t.Fatalf("unexpected store config: %+v", c)
	}
	if len(c.SourceURLs) != 2 || c.SourceURLs[1] != "http://b/y.csv" {
		t.Fatalf("urls: %v", c.SourceURLs)
	}
	if c.CacheTTL != 30*time.Second || c.Seed != 42 {
		t.Fatalf("unexpected values: %+v", c)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviewwise.yaml")
	data := "store_backend: mysql\nsource_urls:\n  - http://a/x.csv\ntaxonomy_file: tax.yaml\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("TAXONOMY_FILE", "override.yaml")
	c := Load()
	if c.StoreBackend != "mysql" || len(c.SourceURLs) != 1 {
		t.Fatalf("file values not applied: %+v", c)
	}
	if c.TaxonomyFile != "override.yaml" {
		t.Fatalf("environment should win over the file, got %q", c.TaxonomyFile)
	}
}
