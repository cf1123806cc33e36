package meshing

import (
	"testing"
	"time"

	"VoxelTerra/shared/util"
	"VoxelTerra/shared/world"
)

func testChunk(x, z int32) *world.Chunk {
	c := world.NewChunk(util.NewChunkCoord(x, z))
	c.SetBlockLocal(5, 10, 5, world.BlockStone, false)
	return c
}

func waitResult(t *testing.T, m *Manager) Result {
	t.Helper()
	select {
	case res := <-m.Results():
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("timeout esperando resultado do mesher")
		return Result{}
	}
}

func TestQueueChunkUpdateDeduplicates(t *testing.T) {
	m := NewManager(1, 8)
	defer m.Stop()

	c := testChunk(0, 0)
	if !m.QueueChunkUpdate(c, UpdateDefault) {
		t.Fatal("primeira admissão deveria passar")
	}
	if m.QueueChunkUpdate(c, UpdateDefault) {
		t.Error("chunk com pedido em voo deveria ser recusado")
	}

	res := waitResult(t, m)
	if res.Coord != c.Coord {
		t.Errorf("resultado para %v, want %v", res.Coord, c.Coord)
	}

	// A pendência só encerra com Complete: antes dele o chunk ainda
	// conta como em voo.
	if m.QueueChunkUpdate(c, UpdateDefault) {
		t.Error("pedido ainda pendente (sem Complete) deveria ser recusado")
	}
	m.Complete(res)
	if !m.QueueChunkUpdate(c, UpdateDefault) {
		t.Error("após Complete o chunk deveria admitir pedido novo")
	}
	m.Complete(waitResult(t, m))
}

func TestQueueChunkUpdateSaturation(t *testing.T) {
	m := NewManager(1, 2)
	defer m.Stop()

	a := testChunk(0, 0)
	b := testChunk(1, 0)
	c := testChunk(2, 0)

	if !m.QueueChunkUpdate(a, UpdateDefault) {
		t.Fatal("admissão 1 deveria passar")
	}
	if !m.QueueChunkUpdate(b, UpdateDefault) {
		t.Fatal("admissão 2 deveria passar")
	}
	// Limite atingido: recusa é sinal de controle de fluxo.
	if m.QueueChunkUpdate(c, UpdateDefault) {
		t.Error("admissão acima do limite deveria ser recusada")
	}
	if got := m.Outstanding(); got != 2 {
		t.Errorf("Outstanding = %d, want 2", got)
	}

	// Drena e completa um; abre vaga para o recusado.
	m.Complete(waitResult(t, m))
	if !m.QueueChunkUpdate(c, UpdateDefault) {
		t.Error("após liberar vaga a admissão deveria passar")
	}

	m.Complete(waitResult(t, m))
	m.Complete(waitResult(t, m))
}

func TestWorkerBuildsGeometry(t *testing.T) {
	m := NewManager(2, 8)
	defer m.Stop()

	c := testChunk(0, 0)
	mtimeBefore := c.MTime()

	if !m.QueueChunkUpdate(c, UpdatePriority) {
		t.Fatal("admissão deveria passar")
	}

	res := waitResult(t, m)
	if res.Type != UpdatePriority {
		t.Errorf("tipo = %v, want UpdatePriority", res.Type)
	}
	if res.MTime != mtimeBefore {
		t.Errorf("MTime do snapshot = %d, want %d", res.MTime, mtimeBefore)
	}
	if res.Geometry[world.PhaseOpaque].Empty() {
		t.Error("geometria opaca vazia para chunk com um bloco de pedra")
	}
	m.Complete(res)
}

func TestSnapshotRaceMarksForRebuild(t *testing.T) {
	m := NewManager(1, 8)
	defer m.Stop()

	c := testChunk(0, 0)
	m.QueueChunkUpdate(c, UpdateDefault)

	// Edição concorrente depois da admissão: o resultado pode carregar
	// o snapshot antigo, mas o MTime do chunk avança e denuncia isso.
	c.SetBlockLocal(6, 10, 5, world.BlockSand, false)

	res := waitResult(t, m)
	if res.Chunk.MTime() == res.MTime {
		t.Skip("worker fez o snapshot depois da edição; nada a verificar")
	}
	// O instalador usa essa divergência para manter o chunk dirty.
	if !c.IsDirty() {
		t.Error("chunk editado após o snapshot deveria continuar dirty")
	}
	m.Complete(res)
}
