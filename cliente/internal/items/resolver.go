// Package items resolve a aparência de itens a partir das cores de blocos,
// usando um atlas de cores sólidas compartilhado por todos os visuais.
package items

import (
	"image"
	"image/color"
	"strings"

	"VoxelView/cliente/internal/entities"
	"VoxelView/cliente/internal/scene"
	"VoxelView/shared/mapdata"
)

const cellSize = 4

// Sufixos de itens que não são blocos mesmo contendo um material no nome.
var itemSuffixes = []string{
	"_sword", "_pickaxe", "_axe", "_shovel", "_hoe",
	"_helmet", "_chestplate", "_leggings", "_boots",
	"_ingot", "_nugget", "_bucket", "_map", "_door", "_sign",
}

// Resolver implementa entities.ItemResolver.
type Resolver struct {
	atlas *scene.Texture
	cells map[string]int
	n     int
}

// NewResolver gera e envia o atlas. A célula 0 é o cinza padrão.
func NewResolver(b scene.Backend) *Resolver {
	n := len(mapdata.BlockColorList) + 1
	img := image.NewNRGBA(image.Rect(0, 0, n*cellSize, cellSize))
	r := &Resolver{cells: make(map[string]int, n), n: n}

	fill(img, 0, color.NRGBA{R: 150, G: 150, B: 150, A: 255})
	for i, c := range mapdata.BlockColorList {
		fill(img, i+1, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
		r.cells[c.Token] = i + 1
	}
	r.atlas = scene.NewTexture(b, img, true)
	return r
}

func fill(img *image.NRGBA, cell int, c color.NRGBA) {
	for y := 0; y < cellSize; y++ {
		for x := cell * cellSize; x < (cell+1)*cellSize; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

// ResolveItem retorna a célula do material do item. Itens vazios não resolvem.
func (r *Resolver) ResolveItem(item entities.Item, ctx entities.DisplayContext) (entities.ItemModel, bool) {
	if item.IsEmpty() {
		return entities.ItemModel{}, false
	}
	cell := 0
	token, _, matched := mapdata.MatchToken(item.Name)
	if matched {
		cell = r.cells[token]
	}
	return entities.ItemModel{
		Name:    item.Name,
		IsBlock: matched && !isTool(item.Name),
		Atlas:   r.atlas,
		UV:      r.cellUV(cell),
	}, true
}

func (r *Resolver) cellUV(cell int) scene.Rect {
	w := 1 / float32(r.n)
	return scene.Rect{U: float32(cell) * w, V: 0, W: w, H: 1}
}

func isTool(name string) bool {
	for _, s := range itemSuffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

// Release libera o atlas. Os visuais não são donos dele.
func (r *Resolver) Release() {
	r.atlas.Release()
}
