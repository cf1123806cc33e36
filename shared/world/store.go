package world

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"sync"
	"sync/atomic"

	"VoxelTerra/shared/util"

	"gorm.io/gorm"
)

// StorageError indica falha ao carregar ou criar um chunk. É recuperável:
// o slot fica vazio e a próxima atualização de proximidade tenta de novo.
type StorageError struct {
	Coord util.ChunkCoord
	Err   error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: chunk %s: %v", e.Coord.String(), e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Generator produz o conteúdo inicial de um chunk. A qualidade do terreno
// é responsabilidade de quem implementa; o Store só exige determinismo
// por coordenada. Falhas viram *StorageError e a coordenada é tentada
// de novo na próxima carga.
type Generator interface {
	Generate(c *Chunk) error
}

// Store é o dono exclusivo dos chunks carregados. Carrega do banco quando
// existe, gera quando não existe, e descarta os menos usados quando o
// cache passa do limite.
type Store struct {
	mu     sync.RWMutex
	chunks map[util.ChunkCoord]*Chunk

	gen       Generator
	db        *gorm.DB
	maxCached int

	frame atomic.Int64 // Relógio lógico para o descarte LRU
}

// NewStore cria um Store sem persistência aberta.
func NewStore(gen Generator, maxCached int) *Store {
	if maxCached <= 0 {
		maxCached = 1024
	}
	return &Store{
		chunks:    make(map[util.ChunkCoord]*Chunk),
		gen:       gen,
		maxCached: maxCached,
	}
}

// AdvanceFrame avança o relógio lógico usado pelo descarte de cache.
// Chamado uma vez por frame pelo orquestrador.
func (s *Store) AdvanceFrame() int64 {
	return s.frame.Add(1)
}

// Frame retorna o valor atual do relógio lógico.
func (s *Store) Frame() int64 {
	return s.frame.Load()
}

// LoadOrCreateChunk retorna o chunk na coordenada dada, carregando do
// banco ou gerando se necessário. Falhas retornam *StorageError.
func (s *Store) LoadOrCreateChunk(cx, cz int32) (*Chunk, error) {
	coord := util.NewChunkCoord(cx, cz)

	s.mu.RLock()
	c, ok := s.chunks[coord]
	s.mu.RUnlock()
	if ok {
		c.Update(s.frame.Load())
		return c, nil
	}

	c, err := s.loadOrGenerate(coord)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	// Outra chamada pode ter vencido a corrida; o mapa decide.
	if existing, ok := s.chunks[coord]; ok {
		s.mu.Unlock()
		return existing, nil
	}
	s.chunks[coord] = c
	s.mu.Unlock()

	c.Update(s.frame.Load())
	return c, nil
}

func (s *Store) loadOrGenerate(coord util.ChunkCoord) (*Chunk, error) {
	if s.db != nil {
		c, err := s.loadChunk(coord)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &StorageError{Coord: coord, Err: err}
		}
	}

	c := NewChunk(coord)
	if s.gen == nil {
		return nil, &StorageError{Coord: coord, Err: fmt.Errorf("sem gerador e sem registro persistido")}
	}
	if err := s.gen.Generate(c); err != nil {
		return nil, &StorageError{Coord: coord, Err: err}
	}
	return c, nil
}

// GetChunk retorna um chunk já carregado, ou nil.
func (s *Store) GetChunk(coord util.ChunkCoord) *Chunk {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chunks[coord]
}

// Size retorna o número de chunks em cache.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// splitWorldCoord converte coordenada de mundo em (chunk, local).
func splitWorldCoord(x, y, z int32) (util.ChunkCoord, int32, int32, int32) {
	cx := int32(math.Floor(float64(x) / float64(util.ChunkDimX)))
	cz := int32(math.Floor(float64(z) / float64(util.ChunkDimZ)))
	return util.NewChunkCoord(cx, cz), x - cx*util.ChunkDimX, y, z - cz*util.ChunkDimZ
}

// GetBlock lê um bloco em coordenadas de mundo. Chunks não carregados e
// posições fora da faixa vertical são ar.
func (s *Store) GetBlock(x, y, z int32) uint8 {
	if y < 0 || y >= util.ChunkDimY {
		return BlockAir
	}
	coord, lx, ly, lz := splitWorldCoord(x, y, z)
	c := s.GetChunk(coord)
	if c == nil {
		return BlockAir
	}
	return c.BlockAt(lx, ly, lz)
}

// SetBlock grava um bloco em coordenadas de mundo. Marca o chunk como
// dirty (e lightDirty se updateLight). Edições na borda também marcam o
// vizinho, cuja malha depende da face compartilhada.
func (s *Store) SetBlock(x, y, z int32, id uint8, updateLight bool) bool {
	if y < 0 || y >= util.ChunkDimY {
		return false
	}
	coord, lx, ly, lz := splitWorldCoord(x, y, z)
	c := s.GetChunk(coord)
	if c == nil {
		return false
	}
	if !c.SetBlockLocal(lx, ly, lz, id, updateLight) {
		return false
	}

	// Vizinhos de borda: a face compartilhada pode ter mudado.
	if lx == 0 {
		s.markNeighborDirty(util.NewChunkCoord(coord.X-1, coord.Z))
	}
	if lx == util.ChunkDimX-1 {
		s.markNeighborDirty(util.NewChunkCoord(coord.X+1, coord.Z))
	}
	if lz == 0 {
		s.markNeighborDirty(util.NewChunkCoord(coord.X, coord.Z-1))
	}
	if lz == util.ChunkDimZ-1 {
		s.markNeighborDirty(util.NewChunkCoord(coord.X, coord.Z+1))
	}
	return true
}

func (s *Store) markNeighborDirty(coord util.ChunkCoord) {
	if n := s.GetChunk(coord); n != nil {
		n.MarkLightDirty()
	}
}

// FlushCache persiste os chunks com edições pendentes e descarta os menos
// usados quando o cache passa do limite. Chunks descartados que ainda têm
// malha na GPU são pulados: a remoção de malha é responsabilidade do
// renderizador (política de VBOs), nunca do Store.
func (s *Store) FlushCache() {
	s.saveDirty()

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.chunks) <= s.maxCached {
		return
	}

	type aged struct {
		coord util.ChunkCoord
		touch int64
	}
	candidates := make([]aged, 0, len(s.chunks))
	for coord, c := range s.chunks {
		if c.HasMeshes() || c.NeedsSave() {
			continue
		}
		candidates = append(candidates, aged{coord, c.LastTouch()})
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].touch < candidates[j].touch
	})

	excess := len(s.chunks) - s.maxCached
	for i := 0; i < excess && i < len(candidates); i++ {
		delete(s.chunks, candidates[i].coord)
	}
}

func (s *Store) saveDirty() {
	if s.db == nil {
		return
	}

	s.mu.RLock()
	var pending []*Chunk
	for _, c := range s.chunks {
		if c.NeedsSave() {
			pending = append(pending, c)
		}
	}
	s.mu.RUnlock()

	for _, c := range pending {
		if err := s.saveChunk(c); err != nil {
			log.Printf("[Mundo] Falha ao persistir chunk %s: %v", c.Coord.String(), err)
		}
	}
}

// Close persiste pendências e fecha o banco.
func (s *Store) Close() {
	s.saveDirty()
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			sqlDB.Close()
		}
	}
}
