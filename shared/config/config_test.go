package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg := LoadFrom(filepath.Join(t.TempDir(), "nope.json"))
	if cfg.BatchWaitMs != 200 {
		t.Fatalf("BatchWaitMs = %d, want 200", cfg.BatchWaitMs)
	}
	if !cfg.ShowUnknownEntities {
		t.Fatalf("ShowUnknownEntities should default to true")
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := DefaultConfig()
	cfg.ViewDistance = 12
	cfg.RenderEars = true
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	got := LoadFrom(path)
	if got.ViewDistance != 12 || !got.RenderEars {
		t.Fatalf("loaded %+v", got)
	}
}

func TestLoadFromNormalizesInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	raw := `{"batch_wait_ms": -5, "view_distance": -1, "image_load_workers": 0}`
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := LoadFrom(path)
	if cfg.BatchWaitMs != 0 || cfg.ViewDistance != 0 || cfg.ImageLoadWorkers != 1 {
		t.Fatalf("normalize failed: %+v", cfg)
	}
}

func TestLoadFromCorruptFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if cfg := LoadFrom(path); cfg.WindowTitle != "VoxelView" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}
