package meshing

import (
	"errors"
	"image/color"

	"VoxelView/cliente/internal/scene"
	"VoxelView/shared/mapdata"
	"VoxelView/shared/util"
)

// ErrNilColumn é retornado quando não há dados para gerar a malha.
var ErrNilColumn = errors.New("coluna nula")

// face descreve uma das seis faces de um cubo unitário.
type face struct {
	dir     [3]int32
	normal  [3]float32
	corners [4][3]float32 // Anti-horário visto de fora
	shade   float32
}

var cubeFaces = [6]face{
	{dir: [3]int32{0, 1, 0}, normal: [3]float32{0, 1, 0}, shade: 1.0,
		corners: [4][3]float32{{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}}},
	{dir: [3]int32{0, -1, 0}, normal: [3]float32{0, -1, 0}, shade: 0.5,
		corners: [4][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}}},
	{dir: [3]int32{1, 0, 0}, normal: [3]float32{1, 0, 0}, shade: 0.6,
		corners: [4][3]float32{{1, 0, 0}, {1, 1, 0}, {1, 1, 1}, {1, 0, 1}}},
	{dir: [3]int32{-1, 0, 0}, normal: [3]float32{-1, 0, 0}, shade: 0.6,
		corners: [4][3]float32{{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}}},
	{dir: [3]int32{0, 0, 1}, normal: [3]float32{0, 0, 1}, shade: 0.8,
		corners: [4][3]float32{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}}},
	{dir: [3]int32{0, 0, -1}, normal: [3]float32{0, 0, -1}, shade: 0.8,
		corners: [4][3]float32{{0, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, 0, 0}}},
}

// Builder gera e envia as malhas das colunas. Usado pela thread principal
// durante o flush do lote de chunks.
type Builder struct {
	Backend     scene.Backend
	Blocks      *mapdata.BlockStore
	ResultStore *ResultStore
}

// NewBuilder cria um gerador com cache próprio.
func NewBuilder(b scene.Backend, blocks *mapdata.BlockStore) *Builder {
	if blocks == nil {
		blocks = mapdata.NewBlockStore()
	}
	return &Builder{Backend: b, Blocks: blocks, ResultStore: NewResultStore()}
}

// BuildChunkMesh gera o nó da coluna. O nó fica na origem do mundo; os
// vértices já estão em coordenadas absolutas.
func (m *Builder) BuildChunkMesh(col *mapdata.Column, cfg mapdata.MeshConfig) (*scene.Node, error) {
	if col == nil {
		return nil, ErrNilColumn
	}
	skyLight := cfg.SkyLight
	if skyLight < 0 {
		skyLight = 0
	} else if skyLight > 15 {
		skyLight = 15
	}

	res, ok := Result{}, false
	if m.ResultStore != nil {
		res, ok = m.ResultStore.Get(col.Key(), col.Version, skyLight, cfg.SmoothLight)
	}
	if !ok {
		res = m.Generate(col, skyLight, cfg.SmoothLight)
		if m.ResultStore != nil {
			m.ResultStore.Store(res)
		}
	}

	root := scene.NewGroup("chunk_" + col.Key().String())
	if res.Opaque.VertexCount() > 0 {
		root.Add(m.meshNode("opaque", res.Opaque, false))
	}
	if res.Transparent.VertexCount() > 0 {
		n := m.meshNode("transparent", res.Transparent, true)
		n.RenderOrder = 1
		root.Add(n)
	}
	return root, nil
}

// Forget descarta o cache de uma coluna descarregada.
func (m *Builder) Forget(key util.ChunkKey) {
	if m.ResultStore != nil {
		m.ResultStore.Forget(key)
	}
}

func (m *Builder) meshNode(name string, g GeometryData, transparent bool) *scene.Node {
	n := scene.NewNode(name, scene.ShapeMesh)
	n.Geometry = scene.NewGeometry(m.Backend, g.ToScene())
	mat := &scene.Material{
		Color:       color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		UV:          scene.FullRect,
		Transparent: transparent,
	}
	m.Backend.UploadMaterial(mat)
	n.Material = mat
	return n
}

// Generate transforma uma coluna em geometria.
func (m *Builder) Generate(col *mapdata.Column, skyLight int, smooth bool) Result {
	res := Result{
		Key:         col.Key(),
		Version:     col.Version,
		SkyLight:    skyLight,
		SmoothLight: smooth,
	}

	opaque := GetMeshBuffer()
	transparent := GetMeshBuffer()
	defer PutMeshBuffer(opaque)
	defer PutMeshBuffer(transparent)

	light := 0.25 + 0.75*float32(skyLight)/15

	top := col.MinY + col.Height
	for y := col.MinY; y < top; y++ {
		for z := int32(0); z < util.ChunkSize; z++ {
			for x := int32(0); x < util.ChunkSize; x++ {
				id := col.Block(x, y, z)
				if m.Blocks.IsAir(id) {
					continue
				}
				info := m.Blocks.Get(id)
				buf := opaque
				if info.Transparent {
					buf = transparent
				}
				for i := range cubeFaces {
					f := &cubeFaces[i]
					nb := col.Block(x+f.dir[0], y+f.dir[1], z+f.dir[2])
					if m.hidesFace(id, info, nb) {
						continue
					}
					m.addCubeFace(buf, col, f, x, y, z, info.Color, light, smooth)
				}
			}
		}
	}

	res.Opaque = opaque.Geometry.Clone()
	res.Transparent = transparent.Geometry.Clone()
	return res
}

// hidesFace informa se o vizinho cobre a face. Blocos transparentes só
// escondem faces de blocos iguais.
func (m *Builder) hidesFace(id uint16, info mapdata.BlockInfo, nb uint16) bool {
	if m.Blocks.IsAir(nb) {
		return false
	}
	if m.Blocks.Get(nb).Transparent {
		return info.Transparent && nb == id
	}
	return true
}

func (m *Builder) solid(col *mapdata.Column, x, y, z int32) bool {
	id := col.Block(x, y, z)
	return !m.Blocks.IsAir(id) && !m.Blocks.Get(id).Transparent
}

func (m *Builder) addCubeFace(buf *MeshBuffer, col *mapdata.Column, f *face, x, y, z int32, base color.NRGBA, light float32, smooth bool) {
	ox := float32(col.X + x)
	oy := float32(y)
	oz := float32(col.Z + z)

	var verts [4][3]float32
	var colors [4][4]uint8
	for i, c := range f.corners {
		verts[i] = [3]float32{ox + c[0], oy + c[1], oz + c[2]}
		k := f.shade * light
		if smooth {
			k *= m.occlusion(col, f, c, x, y, z)
		}
		colors[i] = [4]uint8{scale(base.R, k), scale(base.G, k), scale(base.B, k), base.A}
	}
	buf.AddFaceColors(verts[0], verts[1], verts[2], verts[3], f.normal, colors)
}

// occlusion calcula a oclusão ambiente de um vértice a partir dos três
// blocos vizinhos do lado de fora da face.
func (m *Builder) occlusion(col *mapdata.Column, f *face, corner [3]float32, x, y, z int32) float32 {
	// Posição do bloco adjacente à face
	p := [3]int32{x + f.dir[0], y + f.dir[1], z + f.dir[2]}

	var offs [2][3]int32
	n := 0
	for axis := 0; axis < 3 && n < 2; axis++ {
		if f.dir[axis] != 0 {
			continue
		}
		d := int32(-1)
		if corner[axis] == 1 {
			d = 1
		}
		offs[n][axis] = d
		n++
	}

	side1 := m.solid(col, p[0]+offs[0][0], p[1]+offs[0][1], p[2]+offs[0][2])
	side2 := m.solid(col, p[0]+offs[1][0], p[1]+offs[1][1], p[2]+offs[1][2])
	corn := m.solid(col, p[0]+offs[0][0]+offs[1][0], p[1]+offs[0][1]+offs[1][1], p[2]+offs[0][2]+offs[1][2])

	ao := 3
	if side1 && side2 {
		ao = 0
	} else {
		for _, s := range []bool{side1, side2, corn} {
			if s {
				ao--
			}
		}
	}
	return 0.55 + 0.15*float32(ao)
}

func scale(c uint8, k float32) uint8 {
	v := float32(c) * k
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return uint8(v)
}
