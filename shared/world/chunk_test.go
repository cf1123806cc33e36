package world

import (
	"testing"

	"VoxelTerra/shared/util"
)

func TestSetBlockLocalFlags(t *testing.T) {
	c := NewChunk(util.NewChunkCoord(0, 0))
	c.ClearBuildFlags()

	if c.IsDirty() {
		t.Fatal("chunk limpo não deveria estar dirty")
	}

	if !c.SetBlockLocal(3, 10, 5, BlockStone, false) {
		t.Fatal("SetBlockLocal dentro dos limites retornou false")
	}
	if !c.IsDirty() {
		t.Error("edição deveria marcar dirty")
	}
	if c.IsLightDirty() {
		t.Error("updateLight=false não deveria marcar lightDirty")
	}
	if !c.NeedsSave() {
		t.Error("edição deveria marcar needsSave")
	}

	c.ClearBuildFlags()
	c.SetBlockLocal(3, 11, 5, BlockStone, true)
	if !c.IsLightDirty() {
		t.Error("updateLight=true deveria marcar lightDirty")
	}
}

func TestSetBlockLocalBounds(t *testing.T) {
	c := NewChunk(util.NewChunkCoord(0, 0))

	tests := []struct {
		x, y, z int32
		want    bool
	}{
		{0, 0, 0, true},
		{util.ChunkDimX - 1, util.ChunkDimY - 1, util.ChunkDimZ - 1, true},
		{-1, 0, 0, false},
		{0, util.ChunkDimY, 0, false},
		{util.ChunkDimX, 0, 0, false},
	}

	for _, tt := range tests {
		got := c.SetBlockLocal(tt.x, tt.y, tt.z, BlockDirt, false)
		if got != tt.want {
			t.Errorf("SetBlockLocal(%d, %d, %d) = %v, want %v", tt.x, tt.y, tt.z, got, tt.want)
		}
	}

	if got := c.BlockAt(-1, 0, 0); got != BlockAir {
		t.Errorf("BlockAt fora dos limites = %d, want ar", got)
	}
}

func TestMTimeAdvancesPerEdit(t *testing.T) {
	c := NewChunk(util.NewChunkCoord(1, 1))
	before := c.MTime()

	c.SetBlockLocal(0, 0, 0, BlockStone, false)
	c.SetBlockLocal(0, 1, 0, BlockStone, false)

	if got := c.MTime(); got != before+2 {
		t.Errorf("MTime = %d, want %d", got, before+2)
	}
}

func TestInstallMeshSwap(t *testing.T) {
	c := NewChunk(util.NewChunkCoord(0, 0))

	first := &PhaseMesh{Handle: 1, Triangles: 10}
	if old := c.InstallMesh(PhaseOpaque, first); old != nil {
		t.Fatalf("primeira instalação devolveu malha antiga %v", old)
	}
	if got := c.TriangleCount(PhaseOpaque); got != 10 {
		t.Errorf("TriangleCount = %d, want 10", got)
	}

	second := &PhaseMesh{Handle: 2, Triangles: 4}
	if old := c.InstallMesh(PhaseOpaque, second); old != first {
		t.Errorf("troca devolveu %v, want a malha anterior", old)
	}
	if got := c.Mesh(PhaseOpaque); got != second {
		t.Errorf("Mesh = %v, want a malha nova", got)
	}
}

func TestClearMeshesMarksDirty(t *testing.T) {
	c := NewChunk(util.NewChunkCoord(0, 0))
	c.ClearBuildFlags()

	c.InstallMesh(PhaseOpaque, &PhaseMesh{Handle: 1, Triangles: 2})
	c.InstallMesh(PhaseWaterAndIce, &PhaseMesh{Handle: 2, Triangles: 2})

	old := c.ClearMeshes()
	if old[PhaseOpaque] == nil || old[PhaseWaterAndIce] == nil {
		t.Error("ClearMeshes deveria devolver as malhas instaladas")
	}
	if c.HasMeshes() {
		t.Error("HasMeshes deveria ser false após ClearMeshes")
	}
	if !c.IsDirty() {
		t.Error("descarte de malha deveria marcar dirty para reconstrução futura")
	}

	// Sem malha instalada, não marca nada.
	c.ClearBuildFlags()
	c.ClearMeshes()
	if c.IsDirty() {
		t.Error("ClearMeshes sem malhas não deveria marcar dirty")
	}
}

func TestSnapshotIsolation(t *testing.T) {
	c := NewChunk(util.NewChunkCoord(0, 0))
	c.SetBlockLocal(1, 1, 1, BlockStone, false)

	snap, mtime := c.SnapshotBlocks()
	c.SetBlockLocal(1, 1, 1, BlockSand, false)

	idx := blockIndex(1, 1, 1)
	if snap[idx] != BlockStone {
		t.Errorf("snapshot viu edição posterior: %d", snap[idx])
	}
	if c.MTime() == mtime {
		t.Error("edição posterior deveria avançar o MTime do chunk")
	}
}
