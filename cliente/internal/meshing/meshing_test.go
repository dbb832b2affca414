package meshing

import (
	"testing"

	"VoxelView/cliente/internal/scene/scenetest"
	"VoxelView/shared/mapdata"
)

func smallColumn() *mapdata.Column {
	return mapdata.NewColumn(16, 0, mapdata.WorldConfig{MinY: 0, WorldHeight: 8})
}

func TestGenerateCullsHiddenFaces(t *testing.T) {
	tests := []struct {
		name   string
		blocks [][3]int32
		faces  int
	}{
		{"empty", nil, 0},
		{"single cube", [][3]int32{{1, 1, 1}}, 6},
		{"two adjacent cubes", [][3]int32{{1, 1, 1}, {2, 1, 1}}, 10},
		{"column of three", [][3]int32{{4, 1, 4}, {4, 2, 4}, {4, 3, 4}}, 14},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col := smallColumn()
			for _, b := range tt.blocks {
				if err := col.SetBlock(b[0], b[1], b[2], 1); err != nil {
					t.Fatal(err)
				}
			}
			m := NewBuilder(scenetest.New(), nil)
			res := m.Generate(col, 15, false)
			if got := res.Opaque.VertexCount() / 6; got != tt.faces {
				t.Fatalf("faces = %d, want %d", got, tt.faces)
			}
		})
	}
}

func TestTransparentBlocksGoToSeparateMesh(t *testing.T) {
	blocks := mapdata.NewBlockStore()
	blocks.UpdatePalette(map[uint16]string{1: "stone", 2: "glass"})

	col := smallColumn()
	_ = col.SetBlock(1, 1, 1, 1)
	_ = col.SetBlock(2, 1, 1, 2)

	m := NewBuilder(scenetest.New(), blocks)
	res := m.Generate(col, 15, false)

	// O vidro não esconde a face da pedra
	if got := res.Opaque.VertexCount() / 6; got != 6 {
		t.Fatalf("opaque faces = %d, want 6", got)
	}
	// A pedra esconde a face do vidro
	if got := res.Transparent.VertexCount() / 6; got != 5 {
		t.Fatalf("transparent faces = %d, want 5", got)
	}
}

func TestVertexPositionsAreAbsolute(t *testing.T) {
	col := smallColumn()
	_ = col.SetBlock(0, 0, 0, 1)
	res := NewBuilder(scenetest.New(), nil).Generate(col, 15, false)
	for i := 0; i < len(res.Opaque.Vertices); i += 3 {
		x := res.Opaque.Vertices[i]
		if x < 16 || x > 17 {
			t.Fatalf("vertex x = %v, want within [16, 17]", x)
		}
	}
}

func TestSkyLightDarkensColors(t *testing.T) {
	col := smallColumn()
	_ = col.SetBlock(1, 1, 1, 1)
	m := NewBuilder(scenetest.New(), nil)

	day := m.Generate(col, 15, false)
	night := m.Generate(col, 0, false)
	if night.Opaque.Colors[0] >= day.Opaque.Colors[0] {
		t.Fatalf("night color %d should be darker than day %d", night.Opaque.Colors[0], day.Opaque.Colors[0])
	}
}

func TestBuildChunkMeshUsesCacheAndUploads(t *testing.T) {
	backend := scenetest.New()
	m := NewBuilder(backend, nil)
	col := smallColumn()
	_ = col.SetBlock(1, 1, 1, 1)
	cfg := mapdata.MeshConfig{SkyLight: 15}

	node, err := m.BuildChunkMesh(col, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if node.Child("opaque") == nil || node.Child("transparent") != nil {
		t.Fatalf("unexpected children: %d", len(node.Children()))
	}
	if backend.Geometry != 1 || backend.Materials != 1 {
		t.Fatalf("uploads = %d geometry, %d materials", backend.Geometry, backend.Materials)
	}
	if m.ResultStore.Len() != 1 {
		t.Fatalf("cache len = %d", m.ResultStore.Len())
	}

	if _, ok := m.ResultStore.Get(col.Key(), col.Version, 15, false); !ok {
		t.Fatal("expected cached result")
	}
	_ = col.SetBlock(2, 1, 1, 1)
	if _, ok := m.ResultStore.Get(col.Key(), col.Version, 15, false); ok {
		t.Fatal("edited column must not hit the cache")
	}

	m.Forget(col.Key())
	if m.ResultStore.Len() != 0 {
		t.Fatal("Forget did not drop the entry")
	}
}

func TestBuildChunkMeshNilColumn(t *testing.T) {
	if _, err := NewBuilder(scenetest.New(), nil).BuildChunkMesh(nil, mapdata.MeshConfig{}); err != ErrNilColumn {
		t.Fatalf("err = %v, want ErrNilColumn", err)
	}
}

func TestSmoothLightOccludesCorners(t *testing.T) {
	col := smallColumn()
	_ = col.SetBlock(1, 1, 1, 1)
	// Vizinhos acima das bordas da face superior
	_ = col.SetBlock(0, 2, 1, 1)
	_ = col.SetBlock(1, 2, 0, 1)

	m := NewBuilder(scenetest.New(), nil)
	flat := m.Generate(col, 15, false)
	smooth := m.Generate(col, 15, true)

	sum := func(g GeometryData) int {
		n := 0
		for i := 0; i < len(g.Colors); i += 4 {
			n += int(g.Colors[i])
		}
		return n
	}
	if sum(smooth.Opaque) >= sum(flat.Opaque) {
		t.Fatal("smooth lighting should darken occluded vertices")
	}
}
