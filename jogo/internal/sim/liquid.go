package sim

import (
	"VoxelTerra/shared/util"
	"VoxelTerra/shared/world"

	"github.com/go-gl/mathgl/mgl32"
)

// Alcance lateral máximo de um fluxo a partir da origem. Queda vertical
// zera o alcance: água que desceu volta a se espalhar.
const maxFlowSpread = 4

// BlockPos identifica um bloco em coordenadas de mundo.
type BlockPos struct {
	X, Y, Z int32
}

// Center retorna o centro do bloco no espaço do mundo.
func (p BlockPos) Center() mgl32.Vec3 {
	return mgl32.Vec3{float32(p.X) + 0.5, float32(p.Y) + 0.5, float32(p.Z) + 0.5}
}

// LiquidSimulator espalha água por fluxo celular: primeiro para baixo,
// depois para os lados quando há apoio. O trabalho fica em uma fila
// única por posição e é drenado em fatias para não segurar o frame.
type LiquidSimulator struct {
	store      *world.Store
	inRange    func(mgl32.Vec3) bool
	queue      *util.UniqueQueue[BlockPos, int]
	maxPerPass int
}

// NewLiquidSimulator cria o simulador. inRange recorta a simulação ao
// alcance do observador; posições fora do alcance são descartadas.
func NewLiquidSimulator(store *world.Store, inRange func(mgl32.Vec3) bool) *LiquidSimulator {
	return &LiquidSimulator{
		store:      store,
		inRange:    inRange,
		queue:      util.NewUniqueQueue[BlockPos, int](),
		maxPerPass: 32,
	}
}

// RegisterBlockChange agenda reavaliação de fluxo para uma edição de
// bloco: a própria posição e os vizinhos com água.
func (s *LiquidSimulator) RegisterBlockChange(x, y, z int32) {
	s.queue.Enqueue(BlockPos{x, y, z}, 0)

	neighbors := [6]BlockPos{
		{x + 1, y, z}, {x - 1, y, z},
		{x, y + 1, z}, {x, y - 1, z},
		{x, y, z + 1}, {x, y, z - 1},
	}
	for _, n := range neighbors {
		if world.IsWater(s.store.GetBlock(n.X, n.Y, n.Z)) {
			s.queue.Enqueue(n, 0)
		}
	}
}

// Queued retorna o número de posições agendadas.
func (s *LiquidSimulator) Queued() int {
	return s.queue.Len()
}

// Simulate drena a fila de fluxo. forceAll ignora a fatia por passada e
// esvazia a fila inteira (carga inicial).
func (s *LiquidSimulator) Simulate(forceAll bool) {
	limit := s.maxPerPass
	if forceAll {
		limit = s.queue.Len()
	}

	for i := 0; i < limit; i++ {
		pos, spread, ok := s.queue.Dequeue()
		if !ok {
			return
		}
		s.flow(pos, spread)
	}
}

func (s *LiquidSimulator) flow(p BlockPos, spread int) {
	if s.inRange != nil && !s.inRange(p.Center()) {
		return
	}
	if !world.IsWater(s.store.GetBlock(p.X, p.Y, p.Z)) {
		return
	}

	// Queda vertical tem prioridade: enquanto houver ar embaixo, a água
	// desce e não se espalha.
	if p.Y > 0 && s.store.GetBlock(p.X, p.Y-1, p.Z) == world.BlockAir {
		s.store.SetBlock(p.X, p.Y-1, p.Z, world.BlockWater, true)
		s.queue.Enqueue(BlockPos{p.X, p.Y - 1, p.Z}, 0)
		return
	}

	if spread >= maxFlowSpread {
		return
	}

	sides := [4]BlockPos{
		{p.X + 1, p.Y, p.Z}, {p.X - 1, p.Y, p.Z},
		{p.X, p.Y, p.Z + 1}, {p.X, p.Y, p.Z - 1},
	}
	for _, n := range sides {
		if s.store.GetBlock(n.X, n.Y, n.Z) != world.BlockAir {
			continue
		}
		below := s.store.GetBlock(n.X, n.Y-1, n.Z)
		if world.IsSolid(below) || world.IsWater(below) {
			s.store.SetBlock(n.X, n.Y, n.Z, world.BlockWater, true)
			s.queue.Enqueue(n, spread+1)
		}
	}
}
