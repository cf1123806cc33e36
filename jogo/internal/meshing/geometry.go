package meshing

import (
	"VoxelTerra/shared/util"
	"VoxelTerra/shared/world"
)

// GeometryData contém os buffers de vértices de uma malha de CPU, prontos
// para upload. Posições em trincas, normais em trincas, cores RGBA por
// vértice.
type GeometryData struct {
	Vertices []float32
	Normals  []float32
	Colors   []uint8
}

// Empty indica que a fase não produziu geometria.
func (g GeometryData) Empty() bool {
	return len(g.Vertices) == 0
}

// TriangleCount retorna o número de triângulos do buffer.
func (g GeometryData) TriangleCount() int32 {
	return int32(len(g.Vertices) / 9)
}

// Clone cria uma cópia profunda dos buffers.
func (g GeometryData) Clone() GeometryData {
	clone := GeometryData{}
	if len(g.Vertices) > 0 {
		clone.Vertices = make([]float32, len(g.Vertices))
		copy(clone.Vertices, g.Vertices)
	}
	if len(g.Normals) > 0 {
		clone.Normals = make([]float32, len(g.Normals))
		copy(clone.Normals, g.Normals)
	}
	if len(g.Colors) > 0 {
		clone.Colors = make([]uint8, len(g.Colors))
		copy(clone.Colors, g.Colors)
	}
	return clone
}

// Result é a geometria reconstruída de um chunk, uma fatia por fase.
// Produzido por um worker; instalado no chunk pelo thread principal.
type Result struct {
	Coord    util.ChunkCoord
	Chunk    *world.Chunk
	MTime    int64
	Type     UpdateType
	Geometry [world.PhaseCount]GeometryData
}
