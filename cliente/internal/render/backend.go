// Package render implementa scene.Backend sobre a raylib e desenha o grafo de
// cena anexado a cada frame.
package render

/*
#include <stdlib.h>
*/
import "C"

import (
	"image"
	"log"
	"unsafe"

	"VoxelView/cliente/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Backend guarda os objetos da raylib de cada recurso enviado. Só pode ser
// usado na thread da janela.
type Backend struct {
	textures map[*scene.Texture]rl.Texture2D
	meshes   map[*scene.Geometry]rl.Mesh

	roots []*scene.Node
	index map[*scene.Node]int

	material rl.Material // Material padrão reaproveitado por todos os draws
	white    rl.Texture2D
	shaders  *Shaders

	labels []pendingLabel
	stats  Stats
}

// Stats são os contadores mostrados no HUD de debug.
type Stats struct {
	Textures  int
	Meshes    int
	Materials int
	Labels    int
	Roots     int
	DrawCalls int
}

// NewBackend cria o backend. A janela já deve estar aberta.
func NewBackend() *Backend {
	b := &Backend{
		textures: make(map[*scene.Texture]rl.Texture2D),
		meshes:   make(map[*scene.Geometry]rl.Mesh),
		index:    make(map[*scene.Node]int),
	}
	if rl.IsWindowReady() {
		b.material = rl.LoadMaterialDefault()
		white := rl.GenImageColor(1, 1, rl.White)
		b.white = rl.LoadTextureFromImage(white)
		rl.UnloadImage(white)
		b.shaders = LoadShaders()
	}
	return b
}

// UploadTexture implementa scene.Backend.
func (b *Backend) UploadTexture(t *scene.Texture) {
	if !rl.IsWindowReady() || t.Image == nil {
		return
	}
	img := rl.NewImageFromImage(toNRGBA(t.Image))
	tex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	if t.Nearest {
		rl.SetTextureFilter(tex, rl.FilterPoint)
	} else {
		rl.SetTextureFilter(tex, rl.FilterBilinear)
	}
	b.textures[t] = tex
	t.Handle = tex
	b.stats.Textures++
	t.OnRelease(func() {
		rl.UnloadTexture(tex)
		delete(b.textures, t)
		b.stats.Textures--
	})
}

// toNRGBA garante um formato que NewImageFromImage converte sem perdas.
func toNRGBA(img image.Image) image.Image {
	if _, ok := img.(*image.NRGBA); ok {
		return img
	}
	bounds := img.Bounds()
	dst := image.NewNRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dst.Set(x, y, img.At(x, y))
		}
	}
	return dst
}

// UploadMaterial implementa scene.Backend. Materiais são só dados: cor e
// textura são aplicadas no material padrão a cada draw.
func (b *Backend) UploadMaterial(m *scene.Material) {
	b.stats.Materials++
	m.OnRelease(func() {
		b.stats.Materials--
	})
}

// UploadGeometry implementa scene.Backend.
func (b *Backend) UploadGeometry(g *scene.Geometry) {
	if !rl.IsWindowReady() || g.VertexCount() == 0 {
		return
	}
	mesh := geometryToMesh(g)
	rl.UploadMesh(&mesh, false)
	b.meshes[g] = mesh
	g.Handle = mesh
	b.stats.Meshes++
	g.OnRelease(func() {
		rl.UnloadMesh(&mesh)
		delete(b.meshes, g)
		b.stats.Meshes--
	})
}

// UploadLabel implementa scene.Backend. Textos são desenhados em 2D.
func (b *Backend) UploadLabel(l *scene.Label) {
	b.stats.Labels++
	l.OnRelease(func() {
		b.stats.Labels--
	})
}

// Attach implementa scene.Backend. Anexar duas vezes não duplica a raiz.
func (b *Backend) Attach(root *scene.Node) {
	if _, ok := b.index[root]; ok {
		return
	}
	b.index[root] = len(b.roots)
	b.roots = append(b.roots, root)
}

// Detach implementa scene.Backend.
func (b *Backend) Detach(root *scene.Node) {
	i, ok := b.index[root]
	if !ok {
		return
	}
	last := len(b.roots) - 1
	b.roots[i] = b.roots[last]
	b.index[b.roots[i]] = i
	b.roots = b.roots[:last]
	delete(b.index, root)
}

// Stats retorna os contadores atuais.
func (b *Backend) Stats() Stats {
	s := b.stats
	s.Roots = len(b.roots)
	return s
}

// Unload libera tudo que ainda estiver na GPU (fechamento da janela).
func (b *Backend) Unload() {
	for t := range b.textures {
		t.Release()
	}
	for g := range b.meshes {
		g.Release()
	}
	if b.shaders != nil {
		b.shaders.Unload()
	}
	if b.white.ID != 0 {
		rl.UnloadTexture(b.white)
	}
	b.roots = nil
	b.index = make(map[*scene.Node]int)
	log.Printf("[Renderer] Recursos liberados")
}

func geometryToMesh(g *scene.Geometry) rl.Mesh {
	var mesh rl.Mesh
	vCount := int32(g.VertexCount())
	mesh.VertexCount = vCount
	mesh.TriangleCount = vCount / 3

	if len(g.Vertices) > 0 {
		mesh.Vertices = (*float32)(copyToC(unsafe.Pointer(&g.Vertices[0]), len(g.Vertices)*4))
	}
	if len(g.Normals) > 0 {
		mesh.Normals = (*float32)(copyToC(unsafe.Pointer(&g.Normals[0]), len(g.Normals)*4))
	}
	if len(g.Colors) > 0 {
		mesh.Colors = (*uint8)(copyToC(unsafe.Pointer(&g.Colors[0]), len(g.Colors)))
	}
	if len(g.UVs) > 0 {
		mesh.Texcoords = (*float32)(copyToC(unsafe.Pointer(&g.UVs[0]), len(g.UVs)*4))
	}
	return mesh
}

// copyToC copia para memória C; a raylib libera esses buffers em UnloadMesh.
func copyToC(data unsafe.Pointer, size int) unsafe.Pointer {
	if size <= 0 || data == nil {
		return nil
	}
	ptr := C.malloc(C.size_t(size))
	if ptr == nil {
		return nil
	}
	copy(unsafe.Slice((*byte)(ptr), size), unsafe.Slice((*byte)(data), size))
	return ptr
}
