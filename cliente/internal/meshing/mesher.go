// Package meshing gera as malhas das colunas de chunk: cubos com faces
// ocultas removidas, coloridos pela paleta de blocos e sombreados pela luz do céu.
package meshing

import (
	"sync"

	"VoxelView/cliente/internal/scene"
	"VoxelView/shared/util"
)

// GeometryData contém os buffers de vértices para uma malha.
type GeometryData struct {
	Vertices []float32
	Normals  []float32
	Colors   []uint8
	UVs      []float32
}

// Clone cria uma cópia profunda dos dados para evitar corrupção de memória.
func (g GeometryData) Clone() GeometryData {
	clone := GeometryData{}
	if len(g.Vertices) > 0 {
		clone.Vertices = make([]float32, len(g.Vertices))
		copy(clone.Vertices, g.Vertices)
	}
	if len(g.Normals) > 0 {
		clone.Normals = make([]float32, len(g.Normals))
		copy(clone.Normals, g.Normals)
	}
	if len(g.Colors) > 0 {
		clone.Colors = make([]uint8, len(g.Colors))
		copy(clone.Colors, g.Colors)
	}
	if len(g.UVs) > 0 {
		clone.UVs = make([]float32, len(g.UVs))
		copy(clone.UVs, g.UVs)
	}
	return clone
}

// VertexCount retorna o número de vértices.
func (g GeometryData) VertexCount() int {
	return len(g.Vertices) / 3
}

// ToScene copia os buffers para uma geometria de cena (ainda não enviada).
func (g GeometryData) ToScene() *scene.Geometry {
	c := g.Clone()
	return &scene.Geometry{
		Vertices: c.Vertices,
		Normals:  c.Normals,
		UVs:      c.UVs,
		Colors:   c.Colors,
	}
}

// Result contém as geometrias geradas para uma coluna.
type Result struct {
	Key         util.ChunkKey
	Opaque      GeometryData
	Transparent GeometryData

	// Entradas usadas na geração; o cache só serve resultados idênticos.
	Version     int64
	SkyLight    int
	SmoothLight bool
}

// Clone realiza uma cópia profunda de um Result.
func (r Result) Clone() Result {
	clone := r
	clone.Opaque = r.Opaque.Clone()
	clone.Transparent = r.Transparent.Clone()
	return clone
}

// Global Pool para reciclar MeshBuffers e evitar alocação excessiva (GC Pressure)
var meshBufferPool = sync.Pool{
	New: func() interface{} {
		return &MeshBuffer{
			Geometry: GeometryData{
				Vertices: make([]float32, 0, 4096),
				Normals:  make([]float32, 0, 4096),
				Colors:   make([]uint8, 0, 4096),
				UVs:      make([]float32, 0, 4096),
			},
		}
	},
}

// GetMeshBuffer aloca ou recicla um buffer vazio para meshing.
func GetMeshBuffer() *MeshBuffer {
	return meshBufferPool.Get().(*MeshBuffer)
}

// PutMeshBuffer zera os slices e devolve a memória para o Pool.
func PutMeshBuffer(b *MeshBuffer) {
	if b == nil {
		return
	}
	b.Geometry.Vertices = b.Geometry.Vertices[:0]
	b.Geometry.Normals = b.Geometry.Normals[:0]
	b.Geometry.Colors = b.Geometry.Colors[:0]
	b.Geometry.UVs = b.Geometry.UVs[:0]
	meshBufferPool.Put(b)
}

// MeshBuffer auxilia na construção de malhas dinâmicas.
type MeshBuffer struct {
	Geometry GeometryData
}

// AddFace adiciona uma face retangular (quad) ao buffer com a mesma cor nos 4 vértices.
func (b *MeshBuffer) AddFace(v1, v2, v3, v4 [3]float32, n [3]float32, c [4]uint8) {
	b.AddFaceColors(v1, v2, v3, v4, n, [4][4]uint8{c, c, c, c})
}

// AddFaceColors adiciona um quad com uma cor por vértice. A diagonal é escolhida
// pelo par de vértices mais claro para evitar o artefato de oclusão anisotrópica.
func (b *MeshBuffer) AddFaceColors(v1, v2, v3, v4 [3]float32, n [3]float32, c [4][4]uint8) {
	uv := [4][2]float32{{0, 1}, {0, 0}, {1, 0}, {1, 1}}
	if int(c[0][0])+int(c[2][0]) >= int(c[1][0])+int(c[3][0]) {
		// Triângulos (v1, v2, v3) e (v1, v3, v4)
		b.addVertexUV(v1, uv[0], n, c[0])
		b.addVertexUV(v2, uv[1], n, c[1])
		b.addVertexUV(v3, uv[2], n, c[2])
		b.addVertexUV(v1, uv[0], n, c[0])
		b.addVertexUV(v3, uv[2], n, c[2])
		b.addVertexUV(v4, uv[3], n, c[3])
		return
	}
	// Triângulos (v2, v3, v4) e (v2, v4, v1)
	b.addVertexUV(v2, uv[1], n, c[1])
	b.addVertexUV(v3, uv[2], n, c[2])
	b.addVertexUV(v4, uv[3], n, c[3])
	b.addVertexUV(v2, uv[1], n, c[1])
	b.addVertexUV(v4, uv[3], n, c[3])
	b.addVertexUV(v1, uv[0], n, c[0])
}

func (b *MeshBuffer) addVertexUV(v [3]float32, uv [2]float32, n [3]float32, c [4]uint8) {
	b.Geometry.Vertices = append(b.Geometry.Vertices, v[0], v[1], v[2])
	b.Geometry.Normals = append(b.Geometry.Normals, n[0], n[1], n[2])
	b.Geometry.Colors = append(b.Geometry.Colors, c[0], c[1], c[2], c[3])
	b.Geometry.UVs = append(b.Geometry.UVs, uv[0], uv[1])
}

// AddTriangle adiciona uma face triangular ao buffer.
func (b *MeshBuffer) AddTriangle(v1, v2, v3 [3]float32, n [3]float32, c [4]uint8) {
	b.addVertexUV(v1, [2]float32{}, n, c)
	b.addVertexUV(v2, [2]float32{}, n, c)
	b.addVertexUV(v3, [2]float32{}, n, c)
}
