package sim

import (
	"math/rand"

	"VoxelTerra/shared/util"
	"VoxelTerra/shared/world"

	"github.com/go-gl/mathgl/mgl32"
)

// GrowthSimulator aplica ticks aleatórios de vegetação: terra exposta
// vira grama quando há grama vizinha, e grama ocasionalmente brota
// capim alto ou flores.
type GrowthSimulator struct {
	store   *world.Store
	chunks  func() []*world.Chunk
	inRange func(mgl32.Vec3) bool
	rng     *rand.Rand

	samplesPerChunk int
}

// NewGrowthSimulator cria o simulador. chunks fornece a vizinhança ativa
// (a lista do renderizador); inRange recorta ao alcance de simulação.
func NewGrowthSimulator(store *world.Store, seed int64,
	chunks func() []*world.Chunk, inRange func(mgl32.Vec3) bool) *GrowthSimulator {

	return &GrowthSimulator{
		store:           store,
		chunks:          chunks,
		inRange:         inRange,
		rng:             rand.New(rand.NewSource(seed)),
		samplesPerChunk: 2,
	}
}

// Simulate sorteia colunas na vizinhança ativa e aplica um tick de
// crescimento em cada uma. forceAll aumenta a amostragem (carga
// inicial) e ignora o recorte de alcance.
func (s *GrowthSimulator) Simulate(forceAll bool) {
	samples := s.samplesPerChunk
	if forceAll {
		samples = 16
	}

	for _, c := range s.chunks() {
		center := c.Coord.Center()
		if !forceAll && s.inRange != nil && !s.inRange(center) {
			continue
		}
		origin := c.Coord.WorldOrigin()
		for i := 0; i < samples; i++ {
			wx := int32(origin.X()) + s.rng.Int31n(util.ChunkDimX)
			wz := int32(origin.Z()) + s.rng.Int31n(util.ChunkDimZ)
			s.tickColumn(wx, wz)
		}
	}
}

// tickColumn acha o bloco de superfície da coluna e aplica as regras.
func (s *GrowthSimulator) tickColumn(wx, wz int32) {
	var surfaceY int32 = -1
	for y := int32(util.ChunkDimY - 1); y >= 0; y-- {
		if s.store.GetBlock(wx, y, wz) != world.BlockAir {
			surfaceY = y
			break
		}
	}
	if surfaceY < 0 {
		return
	}

	id := s.store.GetBlock(wx, surfaceY, wz)
	switch id {
	case world.BlockDirt:
		if s.hasGrassNeighbor(wx, surfaceY, wz) {
			s.store.SetBlock(wx, surfaceY, wz, world.BlockGrass, false)
		}
	case world.BlockGrass:
		if surfaceY+1 < util.ChunkDimY && s.rng.Intn(40) == 0 {
			sprout := world.BlockTallGrass
			if s.rng.Intn(8) == 0 {
				sprout = world.BlockFlower
			}
			s.store.SetBlock(wx, surfaceY+1, wz, sprout, false)
		}
	}
}

func (s *GrowthSimulator) hasGrassNeighbor(x, y, z int32) bool {
	offsets := [4][2]int32{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	for _, o := range offsets {
		for dy := int32(-1); dy <= 1; dy++ {
			if s.store.GetBlock(x+o[0], y+dy, z+o[1]) == world.BlockGrass {
				return true
			}
		}
	}
	return false
}
