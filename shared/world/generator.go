package world

import (
	"hash/fnv"
	"math"

	"VoxelTerra/shared/util"
)

// SeaLevel é a altura da superfície de água do gerador padrão.
const SeaLevel int32 = 32

// TerrainGenerator é o gerador procedural padrão: colinas senoidais com
// praias, água abaixo do nível do mar e vegetação esparsa. Serve de
// colaborador mínimo; o streaming não depende de nada além da interface.
type TerrainGenerator struct {
	seed uint64
}

// NewTerrainGenerator cria um gerador a partir de uma seed textual.
func NewTerrainGenerator(seed string) *TerrainGenerator {
	h := fnv.New64a()
	h.Write([]byte(seed))
	return &TerrainGenerator{seed: h.Sum64()}
}

// heightAt calcula a altura do terreno em uma coluna do mundo.
func (g *TerrainGenerator) heightAt(wx, wz int32) int32 {
	fx := float64(wx)
	fz := float64(wz)
	s := float64(g.seed%1024) * 0.01

	h := float64(SeaLevel) +
		6.0*math.Sin(fx*0.05+s) +
		5.0*math.Cos(fz*0.04-s) +
		2.5*math.Sin((fx+fz)*0.11+s*2)

	if h < 1 {
		h = 1
	}
	if h > float64(util.ChunkDimY-8) {
		h = float64(util.ChunkDimY - 8)
	}
	return int32(h)
}

// noiseAt devolve um pseudo-aleatório determinístico por coluna, usado
// para espalhar vegetação.
func (g *TerrainGenerator) noiseAt(wx, wz int32) uint32 {
	n := uint64(uint32(wx))*2654435761 ^ uint64(uint32(wz))*40503 ^ g.seed
	n ^= n >> 13
	n *= 1274126177
	return uint32(n >> 32)
}

// Generate preenche um chunk com o terreno padrão.
func (g *TerrainGenerator) Generate(c *Chunk) error {
	blocks := make([]uint8, ChunkVolume)
	origin := c.Coord.WorldOrigin()

	for z := int32(0); z < util.ChunkDimZ; z++ {
		for x := int32(0); x < util.ChunkDimX; x++ {
			wx := int32(origin.X()) + x
			wz := int32(origin.Z()) + z
			h := g.heightAt(wx, wz)

			for y := int32(0); y < util.ChunkDimY; y++ {
				idx := blockIndex(x, y, z)
				switch {
				case y == 0:
					blocks[idx] = BlockStone
				case y < h-3:
					blocks[idx] = BlockStone
				case y < h:
					blocks[idx] = BlockDirt
				case y == h:
					if h <= SeaLevel+1 {
						blocks[idx] = BlockSand
					} else {
						blocks[idx] = BlockGrass
					}
				case y <= SeaLevel:
					blocks[idx] = BlockWater
				}
			}

			// Vegetação esparsa sobre grama (acima da linha d'água).
			if h > SeaLevel+1 && h+1 < util.ChunkDimY {
				switch g.noiseAt(wx, wz) % 23 {
				case 0:
					blocks[blockIndex(x, h+1, z)] = BlockTallGrass
				case 1:
					blocks[blockIndex(x, h+1, z)] = BlockFlower
				}
			}
		}
	}

	c.FillBlocks(blocks, 1)
	return nil
}
