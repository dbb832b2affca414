package mapdata

import (
	"fmt"

	"VoxelView/shared/util"
)

// Air é o state id do ar. Blocos de ar não geram faces.
const Air uint16 = 0

// WorldConfig descreve a faixa vertical do mundo atual.
type WorldConfig struct {
	MinY        int32 `json:"min_y"`
	WorldHeight int32 `json:"world_height"`
}

// DefaultWorldConfig é a faixa do overworld moderno (-64 a 319).
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{MinY: -64, WorldHeight: 384}
}

// MeshConfig é a configuração passada ao gerador de malhas.
type MeshConfig struct {
	World       WorldConfig
	SkyLight    int // 0-15
	SmoothLight bool
}

// Column é uma coluna 16 x Height x 16 de state ids.
type Column struct {
	X, Z   int32 // Canto alinhado a 16
	MinY   int32
	Height int32

	// Índice: ((y-MinY)*16 + z)*16 + x
	Blocks []uint16

	// Version aumenta a cada edição; usado como chave do cache de malhas.
	Version int64
}

// NewColumn cria uma coluna vazia (ar).
func NewColumn(x, z int32, cfg WorldConfig) *Column {
	key := util.NewChunkKey(x, z)
	return &Column{
		X:       key.X,
		Z:       key.Z,
		MinY:    cfg.MinY,
		Height:  cfg.WorldHeight,
		Blocks:  make([]uint16, int(cfg.WorldHeight)*util.ChunkSize*util.ChunkSize),
		Version: 1,
	}
}

// Key retorna a chave da coluna.
func (c *Column) Key() util.ChunkKey {
	return util.ChunkKey{X: c.X, Z: c.Z}
}

func (c *Column) index(x, y, z int32) (int, bool) {
	if x < 0 || x >= util.ChunkSize || z < 0 || z >= util.ChunkSize {
		return 0, false
	}
	ly := y - c.MinY
	if ly < 0 || ly >= c.Height {
		return 0, false
	}
	return int((ly*util.ChunkSize+z)*util.ChunkSize + x), true
}

// Block retorna o state id na posição local (x, z em 0-15, y absoluto).
// Fora da coluna retorna Air.
func (c *Column) Block(x, y, z int32) uint16 {
	i, ok := c.index(x, y, z)
	if !ok {
		return Air
	}
	return c.Blocks[i]
}

// SetBlock altera um bloco e incrementa a versão. Retorna erro fora dos limites.
func (c *Column) SetBlock(x, y, z int32, id uint16) error {
	i, ok := c.index(x, y, z)
	if !ok {
		return fmt.Errorf("posição local (%d, %d, %d) fora da coluna %s", x, y, z, c.Key())
	}
	if c.Blocks[i] != id {
		c.Blocks[i] = id
		c.Version++
	}
	return nil
}

// IsEmpty informa se a coluna só tem ar.
func (c *Column) IsEmpty() bool {
	for _, b := range c.Blocks {
		if b != Air {
			return false
		}
	}
	return true
}

// Clone cria uma cópia profunda da coluna.
func (c *Column) Clone() *Column {
	clone := *c
	clone.Blocks = make([]uint16, len(c.Blocks))
	copy(clone.Blocks, c.Blocks)
	return &clone
}
