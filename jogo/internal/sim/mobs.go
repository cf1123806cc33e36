package sim

import (
	"math"
	"math/rand"

	"VoxelTerra/jogo/internal/render"
	"VoxelTerra/shared/util"
	"VoxelTerra/shared/world"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"
)

// Componentes dos mobs. Mantidos pequenos e planos para o layout do ECS.

type Position struct {
	X, Y, Z float32
}

type Velocity struct {
	X, Y, Z float32
}

// Wander é o estado de perambulação: direção atual e cor do corpo.
type Wander struct {
	Heading float32
	Speed   float32
	Color   [4]uint8
}

// MobManager simula criaturas simples que perambulam pelo terreno. A
// movimentação roda a cada frame; a troca de direção roda no gancho de
// dez segundos do coordenador de ticks.
type MobManager struct {
	ecsWorld *ecs.World
	mapper   *ecs.Map3[Position, Velocity, Wander]
	filter   *ecs.Filter3[Position, Velocity, Wander]

	terrain *world.Store
	inRange func(mgl32.Vec3) bool
	rng     *rand.Rand
	maxMobs int
}

// NewMobManager cria o gerenciador vazio.
func NewMobManager(terrain *world.Store, seed int64, inRange func(mgl32.Vec3) bool) *MobManager {
	w := ecs.NewWorld()
	return &MobManager{
		ecsWorld: w,
		mapper:   ecs.NewMap3[Position, Velocity, Wander](w),
		filter:   ecs.NewFilter3[Position, Velocity, Wander](w),
		terrain:  terrain,
		inRange:  inRange,
		rng:      rand.New(rand.NewSource(seed)),
		maxMobs:  32,
	}
}

// Count retorna o número de mobs vivos.
func (m *MobManager) Count() int {
	n := 0
	query := m.filter.Query()
	for query.Next() {
		n++
	}
	return n
}

// Spawn cria um mob na posição dada, sobre a superfície.
func (m *MobManager) Spawn(pos mgl32.Vec3) {
	heading := m.rng.Float32() * 2 * math.Pi
	colors := [][4]uint8{
		{200, 120, 60, 255},
		{90, 90, 200, 255},
		{160, 200, 90, 255},
	}
	m.mapper.NewEntity(
		&Position{X: pos.X(), Y: pos.Y(), Z: pos.Z()},
		&Velocity{},
		&Wander{
			Heading: heading,
			Speed:   1.0 + m.rng.Float32()*1.5,
			Color:   colors[m.rng.Intn(len(colors))],
		},
	)
}

// AtCapacity indica se o limite de população foi atingido.
func (m *MobManager) AtCapacity() bool {
	return m.Count() >= m.maxMobs
}

// Update integra a movimentação dos mobs. Fora do alcance de simulação
// os mobs congelam no lugar em vez de serem removidos.
func (m *MobManager) Update(delta float64) {
	dt := float32(delta)

	query := m.filter.Query()
	for query.Next() {
		pos, vel, wander := query.Get()

		p := mgl32.Vec3{pos.X, pos.Y, pos.Z}
		if m.inRange != nil && !m.inRange(p) {
			continue
		}

		vel.X = float32(math.Cos(float64(wander.Heading))) * wander.Speed
		vel.Z = float32(math.Sin(float64(wander.Heading))) * wander.Speed

		nx := pos.X + vel.X*dt
		nz := pos.Z + vel.Z*dt

		// Mobs andam grudados na superfície: sobem degraus de um bloco
		// e dão meia-volta em paredes.
		ground := m.surfaceAt(nx, nz)
		if ground < 0 {
			wander.Heading += math.Pi
			continue
		}
		if float32(ground)+1 > pos.Y+1.5 {
			wander.Heading += math.Pi
			continue
		}

		pos.X = nx
		pos.Z = nz
		pos.Y = float32(ground) + 1
	}
}

// TickAI sorteia novas direções de perambulação. Chamado a cada dez
// segundos pelo coordenador de ticks.
func (m *MobManager) TickAI() {
	query := m.filter.Query()
	for query.Next() {
		_, _, wander := query.Get()
		wander.Heading = m.rng.Float32() * 2 * math.Pi
	}
}

// surfaceAt retorna o Y do bloco de superfície na coluna, ou -1 se a
// coluna é vazia.
func (m *MobManager) surfaceAt(x, z float32) int32 {
	bx := int32(math.Floor(float64(x)))
	bz := int32(math.Floor(float64(z)))
	for y := int32(util.ChunkDimY - 1); y >= 0; y-- {
		if world.IsSolid(m.terrain.GetBlock(bx, y, bz)) {
			return y
		}
	}
	return -1
}

// Render desenha os mobs como caixas coloridas, na fila translúcida.
func (m *MobManager) Render(b render.Backend) {
	query := m.filter.Query()
	for query.Next() {
		pos, _, wander := query.Get()
		half := float32(0.35)
		box := util.NewAABB(
			mgl32.Vec3{pos.X - half, pos.Y, pos.Z - half},
			mgl32.Vec3{pos.X + half, pos.Y + 0.7, pos.Z + half},
		)
		b.DrawBox(box, wander.Color)
	}
}
