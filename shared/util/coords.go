package util

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ChunkSize é a largura (X e Z) de uma coluna de chunk do mundo voxel.
const ChunkSize = 16

// SectionHeight é a altura de uma seção dentro da coluna.
const SectionHeight = 16

// ChunkKey identifica uma coluna de chunk pelo canto (X, Z) alinhado a ChunkSize.
type ChunkKey struct {
	X, Z int32
}

// NewChunkKey alinha coordenadas arbitrárias de bloco ao canto da coluna.
func NewChunkKey(x, z int32) ChunkKey {
	return ChunkKey{X: alignDown(x), Z: alignDown(z)}
}

// ChunkKeyAt retorna a coluna que contém uma posição no mundo.
func ChunkKeyAt(pos mgl32.Vec3) ChunkKey {
	return ChunkKey{
		X: int32(math.Floor(float64(pos.X())/ChunkSize)) * ChunkSize,
		Z: int32(math.Floor(float64(pos.Z())/ChunkSize)) * ChunkSize,
	}
}

// String retorna a chave no formato "x,z".
func (k ChunkKey) String() string {
	return fmt.Sprintf("%d,%d", k.X, k.Z)
}

// Center retorna o centro horizontal da coluna na altura y.
func (k ChunkKey) Center(y float32) mgl32.Vec3 {
	return mgl32.Vec3{float32(k.X) + ChunkSize/2, y, float32(k.Z) + ChunkSize/2}
}

func alignDown(v int32) int32 {
	return int32(math.Floor(float64(v)/ChunkSize)) * ChunkSize
}

// BlockPos é uma posição inteira de bloco no mundo.
type BlockPos struct {
	X, Y, Z int32
}

// ChunkKey retorna a coluna que contém o bloco.
func (p BlockPos) ChunkKey() ChunkKey {
	return NewChunkKey(p.X, p.Z)
}

// Local retorna a posição dentro da coluna (0-15 em X e Z, Y inalterado).
func (p BlockPos) Local() BlockPos {
	k := p.ChunkKey()
	return BlockPos{X: p.X - k.X, Y: p.Y, Z: p.Z - k.Z}
}

// String retorna a representação em string da posição.
func (p BlockPos) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p.X, p.Y, p.Z)
}

// Vec retorna o canto do bloco como vetor.
func (p BlockPos) Vec() mgl32.Vec3 {
	return mgl32.Vec3{float32(p.X), float32(p.Y), float32(p.Z)}
}
