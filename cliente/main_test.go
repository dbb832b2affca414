package main

import (
	"testing"

	"VoxelView/shared/config"
)

func TestOverridesOnlyReplaceGivenValues(t *testing.T) {
	cfg := config.DefaultConfig()
	def := *cfg

	overrides{}.apply(cfg)
	if *cfg != def {
		t.Fatal("empty overrides changed the config")
	}

	overrides{serverURL: "ws://bridge:9000/viewer", debug: true, width: 800}.apply(cfg)
	if cfg.ServerURL != "ws://bridge:9000/viewer" || !cfg.ShowDebugInfo {
		t.Fatalf("server/debug not applied: %+v", cfg)
	}
	if cfg.WindowWidth != 800 || cfg.WindowHeight != def.WindowHeight {
		t.Fatalf("window = %dx%d", cfg.WindowWidth, cfg.WindowHeight)
	}
	if cfg.Fullscreen != def.Fullscreen {
		t.Fatal("fullscreen changed without flag")
	}
}
