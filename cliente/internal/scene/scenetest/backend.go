// Package scenetest fornece um backend em memória que conta recursos vivos.
package scenetest

import (
	"VoxelView/cliente/internal/scene"
)

// Backend conta uploads e liberações para detectar vazamentos em testes.
type Backend struct {
	Textures  int
	Materials int
	Geometry  int
	Labels    int

	Attached map[*scene.Node]bool

	live map[scene.Resource]bool
}

// New cria um backend vazio.
func New() *Backend {
	return &Backend{
		Attached: make(map[*scene.Node]bool),
		live:     make(map[scene.Resource]bool),
	}
}

func (b *Backend) track(r scene.Resource, counter *int, setter func(func())) {
	*counter++
	b.live[r] = true
	setter(func() {
		*counter--
		delete(b.live, r)
	})
}

func (b *Backend) UploadTexture(t *scene.Texture) {
	b.track(t, &b.Textures, t.OnRelease)
}

func (b *Backend) UploadMaterial(m *scene.Material) {
	b.track(m, &b.Materials, m.OnRelease)
}

func (b *Backend) UploadGeometry(g *scene.Geometry) {
	b.track(g, &b.Geometry, g.OnRelease)
}

func (b *Backend) UploadLabel(l *scene.Label) {
	b.track(l, &b.Labels, l.OnRelease)
}

func (b *Backend) Attach(root *scene.Node) {
	b.Attached[root] = true
}

func (b *Backend) Detach(root *scene.Node) {
	delete(b.Attached, root)
}

// Live retorna o número de recursos ainda não liberados.
func (b *Backend) Live() int {
	return len(b.live)
}

// IsLive informa se r ainda não foi liberado.
func (b *Backend) IsLive(r scene.Resource) bool {
	return b.live[r]
}
