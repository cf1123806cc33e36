package render

import (
	"sync"

	"VoxelTerra/shared/util"

	"github.com/go-gl/mathgl/mgl32"
)

// BlockGrid desenha uma grade de referência no nível do observador,
// útil para conferir alinhamento de chunks.
type BlockGrid struct {
	Slices  int32
	Spacing float32
}

// NewBlockGrid cria a grade com espaçamento de um bloco.
func NewBlockGrid() *BlockGrid {
	return &BlockGrid{Slices: 64, Spacing: 1.0}
}

func (g *BlockGrid) Render(b Backend) {
	b.DrawGrid(g.Slices, g.Spacing)
}

// PhysicsDebug desenha as caixas de colisão registradas no frame. A
// simulação registra de uma goroutine própria, então o acesso é
// protegido por mutex.
type PhysicsDebug struct {
	mu    sync.Mutex
	boxes []util.AABB
}

func NewPhysicsDebug() *PhysicsDebug {
	return &PhysicsDebug{}
}

// SetBoxes substitui o conjunto de caixas a desenhar.
func (d *PhysicsDebug) SetBoxes(boxes []util.AABB) {
	d.mu.Lock()
	d.boxes = append(d.boxes[:0], boxes...)
	d.mu.Unlock()
}

func (d *PhysicsDebug) Render(b Backend) {
	d.mu.Lock()
	boxes := append([]util.AABB(nil), d.boxes...)
	d.mu.Unlock()

	for _, box := range boxes {
		b.DrawBoxLines(box, [4]uint8{255, 80, 80, 255})
	}
}

// ObserverBody desenha o volume de colisão do observador, visível só em
// modo de debug (em primeira pessoa a caixa fica atrás da câmera).
type ObserverBody struct {
	Position mgl32.Vec3
}

func (o *ObserverBody) Render(b Backend) {
	half := float32(0.3)
	box := util.NewAABB(
		o.Position.Sub(mgl32.Vec3{half, 0, half}),
		o.Position.Add(mgl32.Vec3{half, 1.8, half}),
	)
	b.DrawBoxLines(box, [4]uint8{80, 160, 255, 255})
}
