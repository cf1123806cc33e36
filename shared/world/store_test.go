package world

import (
	"errors"
	"testing"

	"VoxelTerra/shared/util"
)

// flatGenerator preenche pedra até a altura dada, para testes.
type flatGenerator struct {
	height int32
}

func (g *flatGenerator) Generate(c *Chunk) error {
	blocks := make([]uint8, ChunkVolume)
	for y := int32(0); y < g.height; y++ {
		for z := int32(0); z < util.ChunkDimZ; z++ {
			for x := int32(0); x < util.ChunkDimX; x++ {
				blocks[(y*util.ChunkDimZ+z)*util.ChunkDimX+x] = BlockStone
			}
		}
	}
	c.FillBlocks(blocks, 0)
	return nil
}

func newTestStore() *Store {
	return NewStore(&flatGenerator{height: 10}, 64)
}

func TestLoadOrCreateChunkGenerates(t *testing.T) {
	s := newTestStore()

	c, err := s.LoadOrCreateChunk(2, -3)
	if err != nil {
		t.Fatalf("LoadOrCreateChunk: %v", err)
	}
	if c.Coord != util.NewChunkCoord(2, -3) {
		t.Errorf("coordenada = %v", c.Coord)
	}
	if got := c.BlockAt(0, 5, 0); got != BlockStone {
		t.Errorf("bloco gerado = %d, want pedra", got)
	}
	if got := c.BlockAt(0, 20, 0); got != BlockAir {
		t.Errorf("acima da superfície = %d, want ar", got)
	}

	// Segunda chamada devolve a mesma instância do cache.
	c2, err := s.LoadOrCreateChunk(2, -3)
	if err != nil {
		t.Fatalf("segunda chamada: %v", err)
	}
	if c2 != c {
		t.Error("cache deveria devolver a mesma instância")
	}
	if s.Size() != 1 {
		t.Errorf("Size = %d, want 1", s.Size())
	}
}

func TestLoadOrCreateChunkWithoutGenerator(t *testing.T) {
	s := NewStore(nil, 64)

	_, err := s.LoadOrCreateChunk(0, 0)
	if err == nil {
		t.Fatal("sem gerador e sem banco deveria falhar")
	}
	var serr *StorageError
	if !errors.As(err, &serr) {
		t.Fatalf("erro deveria ser StorageError, veio %T", err)
	}
	if serr.Coord != util.NewChunkCoord(0, 0) {
		t.Errorf("StorageError.Coord = %v", serr.Coord)
	}
}

func TestSetBlockMarksNeighborsOnBorder(t *testing.T) {
	s := newTestStore()

	// Carrega o chunk alvo e o vizinho a oeste.
	if _, err := s.LoadOrCreateChunk(0, 0); err != nil {
		t.Fatal(err)
	}
	west, err := s.LoadOrCreateChunk(-1, 0)
	if err != nil {
		t.Fatal(err)
	}
	west.ClearBuildFlags()

	// Edição na borda x=0 do chunk (0,0) afeta a iluminação do vizinho.
	if !s.SetBlock(0, 5, 8, BlockAir, true) {
		t.Fatal("SetBlock na borda falhou")
	}
	if !west.IsLightDirty() {
		t.Error("vizinho de borda deveria estar lightDirty")
	}

	// Edição no interior não toca vizinhos.
	west.ClearBuildFlags()
	s.SetBlock(8, 5, 8, BlockAir, true)
	if west.IsLightDirty() {
		t.Error("edição interior não deveria afetar o vizinho")
	}
}

func TestSetBlockOnUnloadedChunk(t *testing.T) {
	s := newTestStore()

	if s.SetBlock(1000, 5, 1000, BlockStone, false) {
		t.Error("SetBlock em chunk não carregado deveria retornar false")
	}
	if got := s.GetBlock(1000, 5, 1000); got != BlockAir {
		t.Errorf("GetBlock em chunk não carregado = %d, want ar", got)
	}
}

func TestFlushCacheRespectsLimits(t *testing.T) {
	s := NewStore(&flatGenerator{height: 4}, 4)

	for x := int32(0); x < 8; x++ {
		if _, err := s.LoadOrCreateChunk(x, 0); err != nil {
			t.Fatal(err)
		}
	}

	// Chunk com malha residente nunca é descartado pelo Store.
	meshed := s.GetChunk(util.NewChunkCoord(0, 0))
	meshed.InstallMesh(PhaseOpaque, &PhaseMesh{Handle: 1, Triangles: 1})

	s.FlushCache()

	if s.Size() > 5 {
		t.Errorf("Size após flush = %d, want <= 5", s.Size())
	}
	if s.GetChunk(util.NewChunkCoord(0, 0)) == nil {
		t.Error("chunk com malha na GPU foi descartado pelo Store")
	}
}
