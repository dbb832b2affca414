package mapdata

import (
	"fmt"
	"hash/fnv"
	"image/color"
	"strings"
	"sync"
)

// BlockInfo é a aparência de um state id.
type BlockInfo struct {
	Name        string
	Color       color.NRGBA
	Transparent bool // Não oculta faces vizinhas (vidro, folhas, água)
}

// BlockStore resolve state ids em nomes e cores. A paleta chega do servidor;
// ids desconhecidos recebem uma cor derivada do id.
type BlockStore struct {
	mu     sync.RWMutex
	blocks map[uint16]BlockInfo
}

// NewBlockStore cria um repositório contendo apenas o ar.
func NewBlockStore() *BlockStore {
	return &BlockStore{
		blocks: map[uint16]BlockInfo{
			Air: {Name: "air", Transparent: true},
		},
	}
}

// UpdatePalette registra os nomes de uma paleta (state id -> nome).
func (s *BlockStore) UpdatePalette(names map[uint16]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, name := range names {
		s.blocks[id] = infoForName(name)
	}
}

// Get retorna a aparência de um state id.
func (s *BlockStore) Get(id uint16) BlockInfo {
	s.mu.RLock()
	info, ok := s.blocks[id]
	s.mu.RUnlock()
	if ok {
		return info
	}
	return BlockInfo{Name: fmt.Sprintf("state_%d", id), Color: hashColor(id)}
}

// IsAir informa se o id não gera geometria.
func (s *BlockStore) IsAir(id uint16) bool {
	if id == Air {
		return true
	}
	name := s.Get(id).Name
	return name == "air" || name == "cave_air" || name == "void_air"
}

// Len retorna o número de ids conhecidos.
func (s *BlockStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blocks)
}

// infoForName escolhe a cor pela primeira palavra-chave que aparece no nome.
func infoForName(name string) BlockInfo {
	name = strings.TrimPrefix(name, "minecraft:")
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	info := BlockInfo{Name: name, Color: color.NRGBA{R: 150, G: 150, B: 150, A: 255}}
	if token, transparent, ok := MatchToken(name); ok {
		if r, g, b, ok := GetBlockColor(token); ok {
			info.Color = color.NRGBA{R: r, G: g, B: b, A: 255}
		}
		info.Transparent = transparent
	}
	if info.Transparent && info.Color.A == 255 {
		info.Color.A = 180
	}
	if name == "air" || name == "cave_air" || name == "void_air" {
		info.Transparent = true
		info.Color = color.NRGBA{}
	}
	return info
}

// MatchToken retorna o token de cor da primeira palavra-chave contida no nome.
func MatchToken(name string) (token string, transparent, ok bool) {
	for _, kw := range blockKeywords {
		if strings.Contains(name, kw.keyword) {
			return kw.token, kw.transparent, true
		}
	}
	return "", false, false
}

func hashColor(id uint16) color.NRGBA {
	h := fnv.New32a()
	h.Write([]byte{byte(id), byte(id >> 8)})
	v := h.Sum32()
	return color.NRGBA{R: 80 + uint8(v)%150, G: 80 + uint8(v>>8)%150, B: 80 + uint8(v>>16)%150, A: 255}
}
