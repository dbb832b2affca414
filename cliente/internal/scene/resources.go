package scene

import (
	"image"
	"image/color"
)

// Resource é qualquer objeto que segura memória de GPU ou um recurso externo.
// Release deve ser idempotente.
type Resource interface {
	Release()
}

// handle implementa Release exatamente uma vez.
type handle struct {
	released  bool
	onRelease func()
}

// OnRelease registra a função do backend chamada na liberação.
func (h *handle) OnRelease(fn func()) {
	h.onRelease = fn
}

// Release libera o recurso. Chamadas repetidas são ignoradas.
func (h *handle) Release() {
	if h.released {
		return
	}
	h.released = true
	if h.onRelease != nil {
		h.onRelease()
		h.onRelease = nil
	}
}

// Released informa se o recurso já foi liberado.
func (h *handle) Released() bool {
	return h.released
}

// Texture é uma imagem enviada à GPU.
type Texture struct {
	handle
	Image   image.Image
	Width   int
	Height  int
	Nearest bool // Filtro pixelado (skins)
	Handle  any  // Objeto do backend
}

// Material descreve a aparência de um nó.
type Material struct {
	handle
	Color       color.NRGBA
	Texture     *Texture
	UV          Rect // Região da textura em coordenadas normalizadas
	Transparent bool
	AlphaTest   float32
	DoubleSided bool
	Handle      any
}

// Rect é uma região normalizada de textura. W ou H negativos espelham a região.
type Rect struct {
	U, V, W, H float32
}

// FullRect cobre a textura inteira.
var FullRect = Rect{0, 0, 1, 1}

// Geometry é uma malha triangulada arbitrária.
type Geometry struct {
	handle
	Vertices []float32 // xyz
	Normals  []float32 // xyz
	UVs      []float32 // uv
	Colors   []uint8   // rgba
	Handle   any
}

// VertexCount retorna o número de vértices.
func (g *Geometry) VertexCount() int {
	return len(g.Vertices) / 3
}

// Label é um texto renderizado (nametags, text displays).
type Label struct {
	handle
	Text        string
	Color       color.NRGBA
	Background  color.NRGBA
	TextOpacity uint8
	Handle      any
}

// Resources é a lista de recursos possuídos por um visual, agrupados por nome.
// Um grupo pode ser liberado isoladamente (ex.: trocar a skin) e ReleaseAll
// libera tudo que sobrou.
type Resources struct {
	groups map[string][]Resource
	order  []string
}

// Own adiciona recursos ao grupo.
func (r *Resources) Own(group string, res ...Resource) {
	if r.groups == nil {
		r.groups = make(map[string][]Resource)
	}
	if _, ok := r.groups[group]; !ok {
		r.order = append(r.order, group)
	}
	for _, x := range res {
		if x != nil {
			r.groups[group] = append(r.groups[group], x)
		}
	}
}

// Has informa se o grupo possui algum recurso.
func (r *Resources) Has(group string) bool {
	return len(r.groups[group]) > 0
}

// ReleaseGroup libera e esquece os recursos do grupo. Retorna quantos foram liberados.
func (r *Resources) ReleaseGroup(group string) int {
	res, ok := r.groups[group]
	if !ok {
		return 0
	}
	delete(r.groups, group)
	for i, g := range r.order {
		if g == group {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	for _, x := range res {
		x.Release()
	}
	return len(res)
}

// ReleaseAll libera todos os grupos na ordem em que foram criados.
func (r *Resources) ReleaseAll() int {
	total := 0
	for len(r.order) > 0 {
		total += r.ReleaseGroup(r.order[0])
	}
	return total
}

// Len retorna o total de recursos ainda possuídos.
func (r *Resources) Len() int {
	n := 0
	for _, res := range r.groups {
		n += len(res)
	}
	return n
}
