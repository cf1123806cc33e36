package render

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

const particleGravity = -18.0

// Particle é um fragmento de bloco lançado ao quebrar ou colocar blocos.
type Particle struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	TTL      float32
	Size     float32
	Color    [4]uint8
	Active   bool
}

// ParticleSystem mantém um pool fixo de partículas. Emissões acima da
// capacidade reciclam os slots mais antigos.
type ParticleSystem struct {
	particles []Particle
	next      int
}

// NewParticleSystem cria o pool com a capacidade dada.
func NewParticleSystem(max int) *ParticleSystem {
	if max <= 0 {
		max = 256
	}
	return &ParticleSystem{
		particles: make([]Particle, max),
	}
}

// EmitBlockBurst lança fragmentos a partir do centro de um bloco, com a
// cor do bloco quebrado.
func (ps *ParticleSystem) EmitBlockBurst(center mgl32.Vec3, color [4]uint8, count int) {
	for i := 0; i < count; i++ {
		p := &ps.particles[ps.next]
		ps.next = (ps.next + 1) % len(ps.particles)

		p.Position = center.Add(mgl32.Vec3{
			rand.Float32()*0.6 - 0.3,
			rand.Float32()*0.6 - 0.3,
			rand.Float32()*0.6 - 0.3,
		})
		p.Velocity = mgl32.Vec3{
			rand.Float32()*4 - 2,
			rand.Float32()*5 + 2,
			rand.Float32()*4 - 2,
		}
		p.TTL = 0.6 + rand.Float32()*0.6
		p.Size = 0.08 + rand.Float32()*0.06
		p.Color = color
		p.Active = true
	}
}

// Update integra posição e gravidade e expira partículas velhas.
func (ps *ParticleSystem) Update(dt float32) {
	for i := range ps.particles {
		p := &ps.particles[i]
		if !p.Active {
			continue
		}
		p.TTL -= dt
		if p.TTL <= 0 {
			p.Active = false
			continue
		}
		p.Velocity = p.Velocity.Add(mgl32.Vec3{0, particleGravity * dt, 0})
		p.Position = p.Position.Add(p.Velocity.Mul(dt))
	}
}

// ActiveCount retorna o número de partículas vivas.
func (ps *ParticleSystem) ActiveCount() int {
	n := 0
	for i := range ps.particles {
		if ps.particles[i].Active {
			n++
		}
	}
	return n
}

// Render desenha as partículas ativas. Faz parte da fila translúcida.
func (ps *ParticleSystem) Render(b Backend) {
	for i := range ps.particles {
		p := &ps.particles[i]
		if !p.Active {
			continue
		}
		b.DrawPoint(p.Position, p.Size, p.Color)
	}
}
