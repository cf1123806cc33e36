package render

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"VoxelTerra/jogo/internal/camera"
	"VoxelTerra/jogo/internal/meshing"
	"VoxelTerra/jogo/internal/telemetry"
	"VoxelTerra/shared/config"
	"VoxelTerra/shared/util"
	"VoxelTerra/shared/world"

	"github.com/go-gl/mathgl/mgl32"
)

// gerador de planície para os testes: pedra até y=10.
type flatGenerator struct{}

func (flatGenerator) Generate(c *world.Chunk) error {
	blocks := make([]uint8, world.ChunkVolume)
	for y := int32(0); y < 10; y++ {
		for z := int32(0); z < util.ChunkDimZ; z++ {
			for x := int32(0); x < util.ChunkDimX; x++ {
				blocks[(y*util.ChunkDimZ+z)*util.ChunkDimX+x] = world.BlockStone
			}
		}
	}
	c.FillBlocks(blocks, 0)
	return nil
}

// flakyGenerator delega ao gerador plano, mas recusa um número de cargas
// da coordenada marcada antes de voltar a funcionar.
type flakyGenerator struct {
	failCoord util.ChunkCoord
	failures  int
}

func (g *flakyGenerator) Generate(c *world.Chunk) error {
	if c.Coord == g.failCoord && g.failures > 0 {
		g.failures--
		return fmt.Errorf("geração indisponível para %s", c.Coord)
	}
	return flatGenerator{}.Generate(c)
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.ViewingDistance = 4
	cfg.MaxChunkVBOs = 3
	cfg.MaxChunkUpdates = 4
	cfg.MesherThreads = 2
	cfg.ShowGrid = false
	return cfg
}

// harness monta um renderizador completo sobre o backend de gravação.
func newTestRenderer(t *testing.T, cfg *config.Config) (*WorldRenderer, *recordingBackend, *meshing.Manager) {
	t.Helper()

	store := world.NewStore(flatGenerator{}, 256)
	cam := camera.New(70, 16.0/9.0)
	cam.Position = mgl32.Vec3{8, 20, 8}
	mgr := meshing.NewManager(cfg.MesherThreads, cfg.MaxChunkUpdates)
	t.Cleanup(mgr.Stop)

	backend := newRecordingBackend()
	r := NewWorldRenderer(cfg, store, cam, mgr, backend, telemetry.NewMonitor())
	return r, backend, mgr
}

// calmProximity carrega a vizinhança e silencia as flags de rebuild,
// para testes que só olham as filas de desenho.
func calmProximity(r *WorldRenderer) {
	r.RefreshProximity(true)
	for _, c := range r.chunksInProximity {
		c.ClearBuildFlags()
	}
}

func TestRefreshProximity(t *testing.T) {
	cfg := testConfig()
	r, _, _ := newTestRenderer(t, cfg)

	if !r.RefreshProximity(false) {
		t.Fatal("primeira chamada deveria reconstruir a vizinhança")
	}
	want := int(cfg.ViewingDistance) * int(cfg.ViewingDistance)
	if got := len(r.chunksInProximity); got != want {
		t.Fatalf("vizinhança com %d chunks, want %d", got, want)
	}

	// Mesma posição: no-op barato.
	if r.RefreshProximity(false) {
		t.Error("sem mudança de chunk a vizinhança não deveria ser refeita")
	}
	if !r.RefreshProximity(true) {
		t.Error("force=true deveria reconstruir mesmo parado")
	}

	// Um chunk para leste: reconstrução completa, mesmo tamanho.
	r.cam.Position = r.cam.Position.Add(mgl32.Vec3{util.ChunkDimX, 0, 0})
	if !r.RefreshProximity(false) {
		t.Error("cruzar fronteira de chunk deveria reconstruir")
	}
	if got := len(r.chunksInProximity); got != want {
		t.Errorf("vizinhança após mover = %d chunks, want %d", got, want)
	}

	// Ordenada por distância crescente ao observador.
	for i := 1; i < len(r.chunksInProximity); i++ {
		prev := r.chunksInProximity[i-1].DistSqTo(r.cam.Position)
		cur := r.chunksInProximity[i].DistSqTo(r.cam.Position)
		if prev > cur {
			t.Fatalf("vizinhança fora de ordem no índice %d: %f > %f", i, prev, cur)
		}
	}
}

func TestRefreshProximityRetriesFailedCoordinate(t *testing.T) {
	cfg := testConfig()

	// Câmera em (8,20,8): chunk (0,0), dentro da janela [-2,2).
	gen := &flakyGenerator{failCoord: util.NewChunkCoord(0, 0), failures: 1}
	store := world.NewStore(gen, 256)
	cam := camera.New(70, 16.0/9.0)
	cam.Position = mgl32.Vec3{8, 20, 8}
	mgr := meshing.NewManager(cfg.MesherThreads, cfg.MaxChunkUpdates)
	t.Cleanup(mgr.Stop)
	r := NewWorldRenderer(cfg, store, cam, mgr, newRecordingBackend(), telemetry.NewMonitor())

	// Primeira carga: a coordenada recusada vira um buraco, o resto entra.
	r.RefreshProximity(true)
	want := int(cfg.ViewingDistance)*int(cfg.ViewingDistance) - 1
	if got := len(r.chunksInProximity); got != want {
		t.Fatalf("vizinhança com %d chunks após falha, want %d", got, want)
	}
	for _, c := range r.chunksInProximity {
		if c.Coord == gen.failCoord {
			t.Fatalf("coordenada com falha %s não deveria estar na vizinhança", gen.failCoord)
		}
	}

	// Próxima reconstrução tenta o buraco de novo; o gerador se recuperou.
	r.RefreshProximity(true)
	if got := len(r.chunksInProximity); got != want+1 {
		t.Fatalf("vizinhança com %d chunks após retry, want %d", got, want+1)
	}
	found := false
	for _, c := range r.chunksInProximity {
		if c.Coord == gen.failCoord {
			found = true
		}
	}
	if !found {
		t.Errorf("coordenada %s deveria entrar na vizinhança após o retry", gen.failCoord)
	}
}

func TestIsWithinSimulationRange(t *testing.T) {
	cfg := testConfig()
	r, _, _ := newTestRenderer(t, cfg)

	near := r.cam.Position.Add(mgl32.Vec3{5, 0, 0})
	if !r.IsWithinSimulationRange(near) {
		t.Error("ponto colado no observador deveria estar no alcance")
	}

	far := r.cam.Position.Add(mgl32.Vec3{10000, 0, 0})
	if r.IsWithinSimulationRange(far) {
		t.Error("ponto a 10 km não deveria estar no alcance")
	}
}

func TestBuildFrameQueuesPhaseSkip(t *testing.T) {
	cfg := testConfig()
	r, _, _ := newTestRenderer(t, cfg)
	calmProximity(r)

	// Uma malha opaca em um chunk visível; as outras fases ficam vazias.
	visible := r.visibleChunkForTest(t)
	visible.InstallMesh(world.PhaseOpaque, &world.PhaseMesh{Handle: 99, Triangles: 6})

	r.buildFrameQueues()

	if len(r.queueOpaque) != 1 {
		t.Errorf("fila opaca com %d chunks, want 1", len(r.queueOpaque))
	}
	if len(r.queueWater) != 0 || len(r.queueBillboard) != 0 {
		t.Error("fases sem geometria não deveriam enfileirar")
	}
	if r.stats.SkippedPhases == 0 {
		t.Error("fases vazias de chunks visíveis deveriam contar como puladas")
	}
	if r.stats.VisibleChunks == 0 {
		t.Error("contador de visíveis zerado com chunk na frente da câmera")
	}
}

// visibleChunkForTest acha um chunk da vizinhança dentro do frustum.
func (r *WorldRenderer) visibleChunkForTest(t *testing.T) *world.Chunk {
	t.Helper()
	f := r.cam.Frustum()
	for _, c := range r.chunksInProximity {
		if f.IntersectsAABB(c.AABB()) {
			return c
		}
	}
	t.Fatal("nenhum chunk visível na vizinhança de teste")
	return nil
}

func TestTransparentQueueOrder(t *testing.T) {
	cfg := testConfig()
	r, _, _ := newTestRenderer(t, cfg)
	calmProximity(r)

	f := r.cam.Frustum()
	handle := uint32(1)
	for _, c := range r.chunksInProximity {
		if f.IntersectsAABB(c.AABB()) {
			c.InstallMesh(world.PhaseWaterAndIce, &world.PhaseMesh{Handle: handle, Triangles: 2})
			handle++
		}
	}

	r.buildFrameQueues()

	if len(r.queueWater) < 2 {
		t.Skip("menos de dois chunks visíveis; ordenação não verificável")
	}
	for i := 1; i < len(r.queueWater); i++ {
		prev := r.queueWater[i-1].DistSqTo(r.cam.Position)
		cur := r.queueWater[i].DistSqTo(r.cam.Position)
		if prev < cur {
			t.Fatalf("fila de água fora de ordem no índice %d: %f < %f", i, prev, cur)
		}
		if prev == cur {
			// Desempate determinístico por coordenada.
			if !coordLess(r.queueWater[i-1], r.queueWater[i]) {
				t.Fatalf("desempate instável no índice %d", i)
			}
		}
	}

	// Reconstruir as filas sem mover a câmera preserva a ordem.
	first := append([]*world.Chunk(nil), r.queueWater...)
	r.buildFrameQueues()
	for i := range first {
		if first[i] != r.queueWater[i] {
			t.Fatal("ordem da fila de água mudou entre frames sem movimento")
		}
	}
}

func TestIndexEvictionFreesOnlyHiddenChunks(t *testing.T) {
	cfg := testConfig()
	r, backend, _ := newTestRenderer(t, cfg)
	calmProximity(r)

	f := r.cam.Frustum()
	handle := uint32(1)
	for _, c := range r.chunksInProximity {
		c.InstallMesh(world.PhaseOpaque, &world.PhaseMesh{Handle: handle, Triangles: 2})
		handle++
	}

	r.buildFrameQueues()

	for i, c := range r.chunksInProximity {
		visible := f.IntersectsAABB(c.AABB())
		switch {
		case visible && !c.HasMeshes():
			t.Errorf("chunk visível %s perdeu a malha", c.Coord)
		case !visible && i > cfg.MaxChunkVBOs && c.HasMeshes():
			t.Errorf("chunk oculto %s (índice %d) deveria ter sido descartado", c.Coord, i)
		case !visible && i <= cfg.MaxChunkVBOs && !c.HasMeshes():
			t.Errorf("chunk oculto %s (índice %d) abaixo do limite não deveria ser descartado", c.Coord, i)
		}
	}

	if len(backend.freed) == 0 {
		t.Error("nenhuma malha liberada; o descarte posicional não rodou")
	}
	if r.stats.EvictedMeshes != len(backend.freed) {
		t.Errorf("stats.EvictedMeshes = %d, backend liberou %d", r.stats.EvictedMeshes, len(backend.freed))
	}
}

func TestRenderFrameDrawSequence(t *testing.T) {
	cfg := testConfig()
	r, backend, _ := newTestRenderer(t, cfg)
	calmProximity(r)

	visible := r.visibleChunkForTest(t)
	visible.InstallMesh(world.PhaseOpaque, &world.PhaseMesh{Handle: 11, Triangles: 2})
	visible.InstallMesh(world.PhaseBillboardAndTranslucent, &world.PhaseMesh{Handle: 22, Triangles: 2})
	visible.InstallMesh(world.PhaseWaterAndIce, &world.PhaseMesh{Handle: 33, Triangles: 2})

	if err := r.RenderFrame(); err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}

	ops := strings.Join(backend.ops, " ")

	mustOrder := []string{
		"capture:begin",
		"sky",
		"draw:11",
		"blend:true",
		"draw:22",
		"colormask:false draw:33 colormask:true draw:33",
		"capture:end",
		"capture:resolve",
		"reticle",
	}
	idx := 0
	for _, marker := range mustOrder {
		pos := strings.Index(ops[idx:], marker)
		if pos < 0 {
			t.Fatalf("sequência de desenho sem %q após posição %d:\n%s", marker, idx, ops)
		}
		idx += pos + len(marker)
	}
}

func TestRenderFrameInstallsRebuiltChunk(t *testing.T) {
	cfg := testConfig()
	r, _, mgr := newTestRenderer(t, cfg)
	r.RefreshProximity(true)

	visible := r.visibleChunkForTest(t)
	// Os demais ficam calados para o teste mirar um único rebuild.
	for _, c := range r.chunksInProximity {
		if c != visible {
			c.ClearBuildFlags()
		}
	}

	if err := r.RenderFrame(); err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if r.stats.QueuedUpdates != 1 {
		t.Fatalf("QueuedUpdates = %d, want 1", r.stats.QueuedUpdates)
	}

	deadline := time.Now().Add(5 * time.Second)
	for mgr.Outstanding() > 0 {
		if time.Now().After(deadline) {
			t.Fatal("timeout esperando a instalação da malha")
		}
		r.InstallResults(2 * time.Millisecond)
	}

	if visible.IsDirty() || visible.IsFresh() {
		t.Error("chunk reconstruído deveria estar limpo")
	}
	if visible.TriangleCount(world.PhaseOpaque) == 0 {
		t.Error("terreno plano deveria produzir geometria opaca")
	}
}

func TestInstallKeepsOldMeshWhenUploadFails(t *testing.T) {
	cfg := testConfig()
	r, backend, mgr := newTestRenderer(t, cfg)
	r.RefreshProximity(true)

	visible := r.visibleChunkForTest(t)
	for _, c := range r.chunksInProximity {
		if c != visible {
			c.ClearBuildFlags()
		}
	}
	// Malha antiga residente: um upload recusado não pode jogá-la fora.
	visible.InstallMesh(world.PhaseOpaque, &world.PhaseMesh{Handle: 77, Triangles: 4})

	if err := r.RenderFrame(); err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}

	backend.failUpload = true
	deadline := time.Now().Add(5 * time.Second)
	for mgr.Outstanding() > 0 {
		if time.Now().After(deadline) {
			t.Fatal("timeout esperando o resultado do rebuild")
		}
		r.InstallResults(2 * time.Millisecond)
	}

	if got := visible.TriangleCount(world.PhaseOpaque); got != 4 {
		t.Errorf("malha antiga substituída após falha de upload: %d triângulos, want 4", got)
	}
	for _, h := range backend.freed {
		if h == 77 {
			t.Error("malha antiga liberada após falha de upload")
		}
	}
	if !visible.IsDirty() && !visible.IsFresh() {
		t.Error("chunk deveria continuar marcado para rebuild após falha de upload")
	}
	if mgr.Pending(visible.Coord) {
		t.Error("falha de upload deveria liberar a vaga de pendência")
	}

	// Backend recuperado: o mesmo chunk reenfileira e instala.
	backend.failUpload = false
	if err := r.RenderFrame(); err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	for mgr.Outstanding() > 0 {
		if time.Now().After(deadline) {
			t.Fatal("timeout esperando a reinstalação")
		}
		r.InstallResults(2 * time.Millisecond)
	}
	if visible.IsDirty() || visible.IsFresh() {
		t.Error("chunk deveria ficar limpo depois do upload recuperado")
	}
	if visible.TriangleCount(world.PhaseOpaque) == 0 {
		t.Error("terreno plano deveria produzir geometria opaca após o retry")
	}
}

func TestUpdateSaturationStopsAdmissions(t *testing.T) {
	cfg := testConfig()
	cfg.MaxChunkUpdates = 2
	r, _, mgr := newTestRenderer(t, cfg)
	r.RefreshProximity(true)

	// Todos os chunks nascem fresh: a montagem das filas só pode admitir
	// até o limite de pendências.
	r.buildFrameQueues()

	if r.stats.QueuedUpdates > cfg.MaxChunkUpdates {
		t.Errorf("admitiu %d updates com limite %d", r.stats.QueuedUpdates, cfg.MaxChunkUpdates)
	}
	if mgr.Outstanding() > cfg.MaxChunkUpdates {
		t.Errorf("Outstanding = %d acima do limite %d", mgr.Outstanding(), cfg.MaxChunkUpdates)
	}
}
