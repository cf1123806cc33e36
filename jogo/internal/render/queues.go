package render

import (
	"fmt"

	"VoxelTerra/shared/world"

	"github.com/go-gl/mathgl/mgl32"
)

// ProximityLess ordena chunks por distância crescente ao observador.
// Usado na lista de proximidade: updates de malha são admitidos na ordem
// da lista, então os chunks mais próximos ganham prioridade de rebuild.
func ProximityLess(observer mgl32.Vec3) func(a, b *world.Chunk) bool {
	return func(a, b *world.Chunk) bool {
		da := a.DistSqTo(observer)
		db := b.DistSqTo(observer)
		if da != db {
			return da < db
		}
		return coordLess(a, b)
	}
}

// FarthestFirst ordena chunks por distância decrescente ao observador,
// com desempate determinístico por coordenada. Fases translúcidas desenham
// de trás para frente; o desempate mantém a ordem estável entre frames
// quando o observador não se move.
func FarthestFirst(observer mgl32.Vec3) func(a, b *world.Chunk) bool {
	return func(a, b *world.Chunk) bool {
		da := a.DistSqTo(observer)
		db := b.DistSqTo(observer)
		if da != db {
			return da > db
		}
		return coordLess(a, b)
	}
}

func coordLess(a, b *world.Chunk) bool {
	if a.Coord.X != b.Coord.X {
		return a.Coord.X < b.Coord.X
	}
	return a.Coord.Z < b.Coord.Z
}

// FrameStats acumula contadores de um frame para o HUD e a telemetria.
type FrameStats struct {
	VisibleChunks  int
	DirtyChunks    int
	SkippedPhases  int
	QueuedUpdates  int
	EvictedMeshes  int
	TrianglesDrawn int
}

func (s FrameStats) String() string {
	return fmt.Sprintf("visíveis: %d, sujos: %d, fases puladas: %d, updates: %d, tris: %d",
		s.VisibleChunks, s.DirtyChunks, s.SkippedPhases, s.QueuedUpdates, s.TrianglesDrawn)
}
