package sim

import (
	"testing"

	"VoxelTerra/shared/util"
	"VoxelTerra/shared/world"

	"github.com/go-gl/mathgl/mgl32"
)

// planície de pedra até y=10 com uma lâmina de água em y=10.
type pondGenerator struct{}

func (pondGenerator) Generate(c *world.Chunk) error {
	blocks := make([]uint8, world.ChunkVolume)
	for y := int32(0); y <= 10; y++ {
		id := world.BlockStone
		if y == 10 {
			id = world.BlockWater
		}
		for z := int32(0); z < util.ChunkDimZ; z++ {
			for x := int32(0); x < util.ChunkDimX; x++ {
				blocks[(y*util.ChunkDimZ+z)*util.ChunkDimX+x] = id
			}
		}
	}
	c.FillBlocks(blocks, 0)
	return nil
}

func newPond(t *testing.T) *world.Store {
	t.Helper()
	s := world.NewStore(pondGenerator{}, 64)
	if _, err := s.LoadOrCreateChunk(0, 0); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestWaterFillsDugHole(t *testing.T) {
	s := newPond(t)
	liq := NewLiquidSimulator(s, nil)

	// Cava um buraco no fundo da lâmina d'água.
	s.SetBlock(8, 9, 8, world.BlockAir, true)
	liq.RegisterBlockChange(8, 9, 8)

	liq.Simulate(true)

	if got := s.GetBlock(8, 9, 8); !world.IsWater(got) {
		t.Errorf("buraco sob a água contém %d, want água", got)
	}
}

func TestWaterSpreadIsBounded(t *testing.T) {
	s := world.NewStore(pondGenerator{}, 64)
	if _, err := s.LoadOrCreateChunk(0, 0); err != nil {
		t.Fatal(err)
	}

	// Remove a lâmina inteira menos uma célula, deixando uma fonte
	// isolada sobre pedra.
	for z := int32(0); z < util.ChunkDimZ; z++ {
		for x := int32(0); x < util.ChunkDimX; x++ {
			if x != 8 || z != 8 {
				s.SetBlock(x, 10, z, world.BlockAir, false)
			}
		}
	}

	liq := NewLiquidSimulator(s, nil)
	liq.RegisterBlockChange(8, 10, 8)
	for i := 0; i < 50; i++ {
		liq.Simulate(true)
		if liq.Queued() == 0 {
			break
		}
	}

	// O alcance lateral é limitado: a borda do chunk continua seca.
	if world.IsWater(s.GetBlock(0, 10, 0)) {
		t.Error("água se espalhou além do alcance máximo")
	}
	// Mas os vizinhos imediatos molham.
	if !world.IsWater(s.GetBlock(9, 10, 8)) {
		t.Error("vizinho imediato da fonte deveria ter água")
	}
}

func TestOutOfRangeFlowIsDropped(t *testing.T) {
	s := newPond(t)
	liq := NewLiquidSimulator(s, func(mgl32.Vec3) bool { return false })

	s.SetBlock(8, 9, 8, world.BlockAir, true)
	liq.RegisterBlockChange(8, 9, 8)
	liq.Simulate(true)

	// Fora do alcance de simulação nada flui; o buraco fica seco até o
	// observador se aproximar e uma nova edição reagendar.
	if world.IsWater(s.GetBlock(8, 9, 8)) {
		t.Error("fluxo fora do alcance não deveria rodar")
	}
	if liq.Queued() != 0 {
		t.Errorf("posições fora do alcance deveriam ser descartadas, fila com %d", liq.Queued())
	}
}
