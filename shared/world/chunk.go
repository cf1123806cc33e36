package world

import (
	"sync"
	"sync/atomic"

	"VoxelTerra/shared/util"

	"github.com/go-gl/mathgl/mgl32"
)

// ChunkVolume é o total de blocos em um chunk.
const ChunkVolume = util.ChunkDimX * util.ChunkDimY * util.ChunkDimZ

// PhaseMesh é a malha residente na GPU para uma fase de desenho de um chunk.
// É imutável depois de criada: trocas são feitas substituindo o ponteiro
// inteiro, nunca mutando os campos.
type PhaseMesh struct {
	Handle    uint32 // Identificador da malha no backend gráfico
	Triangles int32
}

// Chunk é uma coluna de blocos de dimensão fixa, identificada por (X, Z).
// O Store é o único dono do ciclo de vida; renderizador e filas guardam
// apenas referências válidas durante um frame.
type Chunk struct {
	Coord util.ChunkCoord

	mu     sync.RWMutex
	blocks []uint8
	mtime  int64 // Versão dos dados de bloco, incrementada a cada edição

	// Flags de estado da malha. dirty = geometria desatualizada,
	// lightDirty = iluminação desatualizada, fresh = nunca foi gerada.
	dirty      atomic.Bool
	lightDirty atomic.Bool
	fresh      atomic.Bool
	needsSave  atomic.Bool

	// Malhas por fase, trocadas atomicamente pelo thread principal.
	// O caminho de desenho lê sem lock: desenha a malha instalada no
	// momento, ou nada se ainda não existir.
	meshes [PhaseCount]atomic.Pointer[PhaseMesh]

	lastTouch atomic.Int64
}

// NewChunk cria um chunk vazio (todo ar) já marcado como fresh.
func NewChunk(coord util.ChunkCoord) *Chunk {
	c := &Chunk{
		Coord:  coord,
		blocks: make([]uint8, ChunkVolume),
	}
	c.fresh.Store(true)
	return c
}

// blockIndex converte coordenadas locais em índice linear.
func blockIndex(x, y, z int32) int32 {
	return (y*util.ChunkDimZ+z)*util.ChunkDimX + x
}

// inBounds verifica se a coordenada local é válida.
func inBounds(x, y, z int32) bool {
	return x >= 0 && x < util.ChunkDimX &&
		y >= 0 && y < util.ChunkDimY &&
		z >= 0 && z < util.ChunkDimZ
}

// BlockAt retorna o bloco na coordenada local. Fora dos limites é ar.
func (c *Chunk) BlockAt(x, y, z int32) uint8 {
	if !inBounds(x, y, z) {
		return BlockAir
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks[blockIndex(x, y, z)]
}

// SetBlockLocal grava um bloco na coordenada local e marca o chunk como
// dirty. updateLight marca também a iluminação para reconstrução.
// Retorna false fora dos limites.
func (c *Chunk) SetBlockLocal(x, y, z int32, id uint8, updateLight bool) bool {
	if !inBounds(x, y, z) {
		return false
	}
	c.mu.Lock()
	c.blocks[blockIndex(x, y, z)] = id
	c.mtime++
	c.mu.Unlock()

	c.dirty.Store(true)
	if updateLight {
		c.lightDirty.Store(true)
	}
	c.needsSave.Store(true)
	return true
}

// FillBlocks grava o conteúdo inteiro do chunk de uma vez (geração/carga).
// Não marca needsSave: o chamador decide se o conteúdo precisa persistir.
func (c *Chunk) FillBlocks(blocks []uint8, mtime int64) {
	c.mu.Lock()
	copy(c.blocks, blocks)
	c.mtime = mtime
	c.mu.Unlock()
	c.dirty.Store(true)
}

// SnapshotBlocks copia os dados de bloco sob lock, para que os workers de
// meshing leiam sem correr contra edições concorrentes.
func (c *Chunk) SnapshotBlocks() ([]uint8, int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap := make([]uint8, len(c.blocks))
	copy(snap, c.blocks)
	return snap, c.mtime
}

// MTime retorna a versão atual dos dados de bloco.
func (c *Chunk) MTime() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mtime
}

// IsDirty indica se a geometria precisa ser reconstruída.
func (c *Chunk) IsDirty() bool { return c.dirty.Load() }

// IsLightDirty indica se a iluminação precisa ser reconstruída.
func (c *Chunk) IsLightDirty() bool { return c.lightDirty.Load() }

// IsFresh indica se o chunk nunca teve malha gerada.
func (c *Chunk) IsFresh() bool { return c.fresh.Load() }

// NeedsSave indica se há edições não persistidas.
func (c *Chunk) NeedsSave() bool { return c.needsSave.Load() }

// MarkSaved limpa a pendência de persistência.
func (c *Chunk) MarkSaved() { c.needsSave.Store(false) }

// MarkLightDirty agenda reconstrução por mudança de iluminação.
func (c *Chunk) MarkLightDirty() { c.lightDirty.Store(true) }

// ClearBuildFlags limpa dirty/lightDirty/fresh após uma reconstrução
// bem-sucedida. Chamado apenas pelo thread principal ao instalar malhas.
func (c *Chunk) ClearBuildFlags() {
	c.dirty.Store(false)
	c.lightDirty.Store(false)
	c.fresh.Store(false)
}

// TriangleCount retorna o número de triângulos da malha instalada para a
// fase, ou zero se não há malha.
func (c *Chunk) TriangleCount(phase RenderPhase) int32 {
	if m := c.meshes[phase].Load(); m != nil {
		return m.Triangles
	}
	return 0
}

// Mesh retorna a malha instalada para a fase, ou nil.
func (c *Chunk) Mesh(phase RenderPhase) *PhaseMesh {
	return c.meshes[phase].Load()
}

// InstallMesh troca a malha de uma fase e retorna a anterior para que o
// chamador libere o recurso de GPU. mesh pode ser nil (fase vazia).
func (c *Chunk) InstallMesh(phase RenderPhase, mesh *PhaseMesh) *PhaseMesh {
	return c.meshes[phase].Swap(mesh)
}

// ClearMeshes remove todas as malhas instaladas e as retorna para
// liberação. Marca o chunk como dirty para que a geometria seja refeita
// se ele voltar a ficar visível.
func (c *Chunk) ClearMeshes() [PhaseCount]*PhaseMesh {
	var old [PhaseCount]*PhaseMesh
	any := false
	for p := 0; p < int(PhaseCount); p++ {
		old[p] = c.meshes[p].Swap(nil)
		if old[p] != nil {
			any = true
		}
	}
	if any {
		c.dirty.Store(true)
	}
	return old
}

// HasMeshes indica se alguma fase tem malha residente.
func (c *Chunk) HasMeshes() bool {
	for p := 0; p < int(PhaseCount); p++ {
		if c.meshes[p].Load() != nil {
			return true
		}
	}
	return false
}

// AABB retorna a caixa envolvente do chunk no espaço do mundo.
func (c *Chunk) AABB() util.AABB {
	return util.ChunkAABB(c.Coord)
}

// Update atualiza estado derivado por frame (marcação de uso para o
// descarte de cache). Chamado pelo agendador para chunks visíveis.
func (c *Chunk) Update(frame int64) {
	c.lastTouch.Store(frame)
}

// LastTouch retorna o último frame em que o chunk foi visitado.
func (c *Chunk) LastTouch() int64 {
	return c.lastTouch.Load()
}

// DistSqTo retorna a distância quadrada do centro do chunk a um ponto.
func (c *Chunk) DistSqTo(p mgl32.Vec3) float32 {
	return util.DistSq(c.Coord.Center(), p)
}
