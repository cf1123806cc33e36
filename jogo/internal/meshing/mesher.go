package meshing

import (
	"VoxelTerra/shared/util"
	"VoxelTerra/shared/world"
)

// face descreve uma das seis faces de um cubo: offset do vizinho, normal
// e os quatro cantos no espaço local do bloco (ordem CCW vista de fora).
type face struct {
	dx, dy, dz int32
	normal     [3]float32
	corners    [4][3]float32
	shade      float32
}

// Sombreamento fixo por direção, no estilo clássico de voxel: topo claro,
// laterais médias, fundo escuro.
var cubeFaces = [6]face{
	// Topo (+Y)
	{0, 1, 0, [3]float32{0, 1, 0}, [4][3]float32{{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}}, 1.0},
	// Fundo (-Y)
	{0, -1, 0, [3]float32{0, -1, 0}, [4][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}}, 0.55},
	// Norte (-Z)
	{0, 0, -1, [3]float32{0, 0, -1}, [4][3]float32{{0, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, 0, 0}}, 0.8},
	// Sul (+Z)
	{0, 0, 1, [3]float32{0, 0, 1}, [4][3]float32{{1, 0, 1}, {1, 1, 1}, {0, 1, 1}, {0, 0, 1}}, 0.8},
	// Oeste (-X)
	{-1, 0, 0, [3]float32{-1, 0, 0}, [4][3]float32{{0, 0, 1}, {0, 1, 1}, {0, 1, 0}, {0, 0, 0}}, 0.7},
	// Leste (+X)
	{1, 0, 0, [3]float32{1, 0, 0}, [4][3]float32{{1, 0, 0}, {1, 1, 0}, {1, 1, 1}, {1, 0, 1}}, 0.7},
}

// builder acumula geometria por fase durante a varredura de um chunk.
type builder struct {
	blocks []uint8
	origin [3]float32
	geo    [world.PhaseCount]GeometryData
}

// BuildChunkGeometry varre um snapshot de blocos e emite a geometria das
// três fases de desenho. Faces entre blocos que se ocluem mutuamente são
// descartadas; blocos de billboard viram quads cruzados.
func BuildChunkGeometry(coord util.ChunkCoord, blocks []uint8) [world.PhaseCount]GeometryData {
	o := coord.WorldOrigin()
	b := &builder{
		blocks: blocks,
		origin: [3]float32{o.X(), o.Y(), o.Z()},
	}

	for y := int32(0); y < util.ChunkDimY; y++ {
		for z := int32(0); z < util.ChunkDimZ; z++ {
			for x := int32(0); x < util.ChunkDimX; x++ {
				id := b.blockAt(x, y, z)
				if id == world.BlockAir {
					continue
				}
				info := world.BlockInfo(id)
				if info.Billboard {
					b.emitBillboard(x, y, z, info)
					continue
				}
				b.emitCube(x, y, z, id, info)
			}
		}
	}

	return b.geo
}

// blockAt lê o snapshot; fora dos limites do chunk é ar. Chunks vizinhos
// não participam: a face de borda é emitida e o depth test resolve.
func (b *builder) blockAt(x, y, z int32) uint8 {
	if x < 0 || x >= util.ChunkDimX || y < 0 || y >= util.ChunkDimY || z < 0 || z >= util.ChunkDimZ {
		return world.BlockAir
	}
	return b.blocks[(y*util.ChunkDimZ+z)*util.ChunkDimX+x]
}

// occludes decide se a face entre um bloco e seu vizinho pode ser
// descartada. Sólidos opacos ocluem tudo; blocos da mesma fase
// translúcida (água contra água) não desenham a face interna.
func occludes(id, neighbor uint8) bool {
	if neighbor == world.BlockAir {
		return false
	}
	nInfo := world.BlockInfo(neighbor)
	if nInfo.Billboard {
		return false
	}
	if nInfo.Phase == world.PhaseOpaque && nInfo.Solid {
		return true
	}
	// Mesma fase translúcida: face interna invisível.
	return nInfo.Phase == world.BlockInfo(id).Phase
}

func (b *builder) emitCube(x, y, z int32, id uint8, info world.BlockType) {
	phase := info.Phase
	for _, f := range cubeFaces {
		neighbor := b.blockAt(x+f.dx, y+f.dy, z+f.dz)
		if occludes(id, neighbor) {
			continue
		}
		b.emitQuad(phase, x, y, z, f, info.Color)
	}
}

// emitQuad adiciona os dois triângulos de uma face ao buffer da fase.
func (b *builder) emitQuad(phase world.RenderPhase, x, y, z int32, f face, color [4]uint8) {
	g := &b.geo[phase]

	shade := func(c uint8) uint8 {
		return uint8(float32(c) * f.shade)
	}
	r, gr, bl, a := shade(color[0]), shade(color[1]), shade(color[2]), color[3]

	push := func(corner [3]float32) {
		g.Vertices = append(g.Vertices,
			b.origin[0]+float32(x)+corner[0],
			b.origin[1]+float32(y)+corner[1],
			b.origin[2]+float32(z)+corner[2],
		)
		g.Normals = append(g.Normals, f.normal[0], f.normal[1], f.normal[2])
		g.Colors = append(g.Colors, r, gr, bl, a)
	}

	// Triângulos 0-1-2 e 0-2-3.
	push(f.corners[0])
	push(f.corners[1])
	push(f.corners[2])
	push(f.corners[0])
	push(f.corners[2])
	push(f.corners[3])
}

// emitBillboard gera dois quads cruzados na diagonal do bloco, dos dois
// lados (quatro quads no total, para não depender de face culling).
func (b *builder) emitBillboard(x, y, z int32, info world.BlockType) {
	g := &b.geo[world.PhaseBillboardAndTranslucent]

	bx := b.origin[0] + float32(x)
	by := b.origin[1] + float32(y)
	bz := b.origin[2] + float32(z)

	quads := [2][4][3]float32{
		{{0, 0, 0}, {1, 0, 1}, {1, 1, 1}, {0, 1, 0}},
		{{1, 0, 0}, {0, 0, 1}, {0, 1, 1}, {1, 1, 0}},
	}
	normals := [2][3]float32{{0.707, 0, -0.707}, {-0.707, 0, -0.707}}

	for qi, q := range quads {
		push := func(corner [3]float32) {
			g.Vertices = append(g.Vertices, bx+corner[0], by+corner[1], bz+corner[2])
			g.Normals = append(g.Normals, normals[qi][0], normals[qi][1], normals[qi][2])
			g.Colors = append(g.Colors, info.Color[0], info.Color[1], info.Color[2], info.Color[3])
		}
		// Frente e verso do mesmo quad.
		for _, order := range [][3]int{{0, 1, 2}, {0, 2, 3}, {0, 2, 1}, {0, 3, 2}} {
			push(q[order[0]])
			push(q[order[1]])
			push(q[order[2]])
		}
	}
}
