package sim

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// Spawner povoa o entorno do observador. Roda no gancho de um segundo
// do coordenador de ticks e cria no máximo um mob por chamada.
type Spawner struct {
	mobs     *MobManager
	observer func() mgl32.Vec3
	rng      *rand.Rand

	chancePct int
	radius    float32
}

// NewSpawner cria o povoador. observer fornece a posição atual do
// observador a cada tick.
func NewSpawner(mobs *MobManager, seed int64, observer func() mgl32.Vec3) *Spawner {
	return &Spawner{
		mobs:      mobs,
		observer:  observer,
		rng:       rand.New(rand.NewSource(seed)),
		chancePct: 20,
		radius:    24,
	}
}

// TickSpawn tenta criar um mob perto do observador. Respeita o limite
// de população e só nasce em coluna com superfície.
func (s *Spawner) TickSpawn() {
	if s.mobs.AtCapacity() {
		return
	}
	if s.rng.Intn(100) >= s.chancePct {
		return
	}

	center := s.observer()
	offX := (s.rng.Float32()*2 - 1) * s.radius
	offZ := (s.rng.Float32()*2 - 1) * s.radius

	x := center.X() + offX
	z := center.Z() + offZ
	ground := s.mobs.surfaceAt(x, z)
	if ground < 0 {
		return
	}

	s.mobs.Spawn(mgl32.Vec3{x, float32(ground) + 1, z})
}
