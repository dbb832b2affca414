package items

import (
	"testing"

	"VoxelView/cliente/internal/entities"
	"VoxelView/cliente/internal/scene/scenetest"
	"VoxelView/shared/mapdata"
)

func TestResolveItem(t *testing.T) {
	b := scenetest.New()
	r := NewResolver(b)
	if b.Textures != 1 {
		t.Fatalf("textures = %d, want 1", b.Textures)
	}

	tests := []struct {
		name    string
		ok      bool
		isBlock bool
		cell    int
	}{
		{"", false, false, 0},
		{"air", false, false, 0},
		{"stone", true, true, r.cells["STONE"]},
		{"diamond_sword", true, false, r.cells["DIAMOND"]},
		{"stick", true, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := r.ResolveItem(entities.Item{Name: tt.name}, entities.DisplayGround)
			if ok != tt.ok {
				t.Fatalf("ok = %v", ok)
			}
			if !ok {
				return
			}
			if m.IsBlock != tt.isBlock {
				t.Fatalf("IsBlock = %v", m.IsBlock)
			}
			if m.UV != r.cellUV(tt.cell) {
				t.Fatalf("UV = %+v, want cell %d", m.UV, tt.cell)
			}
			if m.Atlas == nil {
				t.Fatal("atlas missing")
			}
		})
	}

	r.Release()
	r.Release()
	if b.Textures != 0 {
		t.Fatalf("textures after release = %d", b.Textures)
	}
}

func TestAtlasCoversPalette(t *testing.T) {
	r := NewResolver(scenetest.New())
	if r.n != len(mapdata.BlockColorList)+1 {
		t.Fatalf("cells = %d", r.n)
	}
	last := r.cellUV(r.n - 1)
	if got := last.U + last.W; got < 0.999 || got > 1.001 {
		t.Fatalf("last cell ends at %v", got)
	}
}
