package util

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Dimensões fixas de um chunk. O eixo Y não é particionado:
// cada chunk é uma coluna completa do mundo.
const (
	ChunkDimX = 16
	ChunkDimY = 128
	ChunkDimZ = 16
)

// ChunkCoord identifica um chunk pelo par (X, Z) em unidades de chunk.
type ChunkCoord struct {
	X, Z int32
}

// NewChunkCoord cria uma coordenada de chunk.
func NewChunkCoord(x, z int32) ChunkCoord {
	return ChunkCoord{X: x, Z: z}
}

// String retorna a representação em string da coordenada.
func (c ChunkCoord) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Z)
}

// ChunkCoordAt retorna a coordenada do chunk que contém a posição de mundo dada.
func ChunkCoordAt(x, z float64) ChunkCoord {
	return ChunkCoord{
		X: int32(math.Floor(x / float64(ChunkDimX))),
		Z: int32(math.Floor(z / float64(ChunkDimZ))),
	}
}

// WorldOrigin retorna o canto de menor coordenada do chunk no espaço do mundo.
func (c ChunkCoord) WorldOrigin() mgl32.Vec3 {
	return mgl32.Vec3{
		float32(c.X) * ChunkDimX,
		0,
		float32(c.Z) * ChunkDimZ,
	}
}

// Center retorna o centro geométrico do chunk no espaço do mundo.
func (c ChunkCoord) Center() mgl32.Vec3 {
	o := c.WorldOrigin()
	return mgl32.Vec3{
		o.X() + ChunkDimX/2,
		ChunkDimY / 2,
		o.Z() + ChunkDimZ/2,
	}
}

// AABB é uma caixa alinhada aos eixos no espaço do mundo.
type AABB struct {
	Min, Max mgl32.Vec3
}

// NewAABB cria uma AABB a partir dos cantos mínimo e máximo.
func NewAABB(min, max mgl32.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// Corners devolve os oito cantos da caixa.
func (b AABB) Corners() [8]mgl32.Vec3 {
	return [8]mgl32.Vec3{
		{b.Min.X(), b.Min.Y(), b.Min.Z()},
		{b.Max.X(), b.Min.Y(), b.Min.Z()},
		{b.Min.X(), b.Max.Y(), b.Min.Z()},
		{b.Min.X(), b.Min.Y(), b.Max.Z()},
		{b.Max.X(), b.Max.Y(), b.Min.Z()},
		{b.Max.X(), b.Min.Y(), b.Max.Z()},
		{b.Min.X(), b.Max.Y(), b.Max.Z()},
		{b.Max.X(), b.Max.Y(), b.Max.Z()},
	}
}

// Contains verifica se um ponto está dentro da caixa.
func (b AABB) Contains(p mgl32.Vec3) bool {
	return p.X() >= b.Min.X() && p.X() <= b.Max.X() &&
		p.Y() >= b.Min.Y() && p.Y() <= b.Max.Y() &&
		p.Z() >= b.Min.Z() && p.Z() <= b.Max.Z()
}

// ChunkAABB retorna a caixa envolvente de um chunk inteiro.
func ChunkAABB(c ChunkCoord) AABB {
	o := c.WorldOrigin()
	return AABB{
		Min: o,
		Max: mgl32.Vec3{o.X() + ChunkDimX, ChunkDimY, o.Z() + ChunkDimZ},
	}
}

// BlockAABB retorna a caixa envolvente de um único bloco.
func BlockAABB(x, y, z int32) AABB {
	min := mgl32.Vec3{float32(x), float32(y), float32(z)}
	return AABB{
		Min: min,
		Max: min.Add(mgl32.Vec3{1, 1, 1}),
	}
}
