package mapdata

import (
	"testing"
)

func TestColumnSetAndGet(t *testing.T) {
	col := NewColumn(35, -3, DefaultWorldConfig())
	if col.X != 32 || col.Z != -16 {
		t.Fatalf("corner = (%d, %d), want (32, -16)", col.X, col.Z)
	}
	if !col.IsEmpty() {
		t.Fatal("new column should be empty")
	}

	v := col.Version
	if err := col.SetBlock(3, -64, 15, 7); err != nil {
		t.Fatalf("SetBlock: %v", err)
	}
	if got := col.Block(3, -64, 15); got != 7 {
		t.Fatalf("Block = %d, want 7", got)
	}
	if col.Version != v+1 {
		t.Fatalf("Version = %d, want %d", col.Version, v+1)
	}

	// Mesmo valor não muda a versão
	_ = col.SetBlock(3, -64, 15, 7)
	if col.Version != v+1 {
		t.Fatalf("unchanged write bumped version to %d", col.Version)
	}
}

func TestColumnBounds(t *testing.T) {
	col := NewColumn(0, 0, WorldConfig{MinY: 0, WorldHeight: 16})
	tests := []struct {
		name    string
		x, y, z int32
	}{
		{"negative x", -1, 0, 0},
		{"x past edge", 16, 0, 0},
		{"below min y", 0, -1, 0},
		{"above top", 0, 16, 0},
		{"z past edge", 0, 0, 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := col.SetBlock(tt.x, tt.y, tt.z, 1); err == nil {
				t.Fatal("expected error")
			}
			if got := col.Block(tt.x, tt.y, tt.z); got != Air {
				t.Fatalf("Block = %d, want air", got)
			}
		})
	}
}

func TestColumnCloneIsDeep(t *testing.T) {
	col := NewColumn(0, 0, WorldConfig{MinY: 0, WorldHeight: 4})
	_ = col.SetBlock(1, 1, 1, 5)
	clone := col.Clone()
	_ = clone.SetBlock(1, 1, 1, 9)
	if col.Block(1, 1, 1) != 5 {
		t.Fatal("clone shares block storage")
	}
}

func TestBlockStorePalette(t *testing.T) {
	s := NewBlockStore()
	s.UpdatePalette(map[uint16]string{
		1:  "minecraft:stone",
		9:  "minecraft:grass_block[snowy=false]",
		20: "minecraft:glass",
		30: "minecraft:cave_air",
	})

	if info := s.Get(9); info.Name != "grass_block" || info.Transparent {
		t.Fatalf("grass = %+v", info)
	}
	r, g, b, _ := GetBlockColor("STONE")
	if c := s.Get(1).Color; c.R != r || c.G != g || c.B != b {
		t.Fatalf("stone color = %v", c)
	}
	if !s.Get(20).Transparent {
		t.Fatal("glass should be transparent")
	}
	if !s.IsAir(30) || !s.IsAir(Air) || s.IsAir(1) {
		t.Fatal("IsAir mismatch")
	}

	// Ids desconhecidos têm cor estável
	if a, b := s.Get(999), s.Get(999); a.Color != b.Color || a.Color.A != 255 {
		t.Fatalf("unknown color unstable: %v %v", a.Color, b.Color)
	}
}

func TestFindNearestBlockColor(t *testing.T) {
	if got := FindNearestBlockColor(219, 207, 163); got != "SAND" {
		t.Fatalf("nearest = %s, want SAND", got)
	}
}
