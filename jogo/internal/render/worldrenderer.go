package render

import (
	"log"
	"math"
	"sort"
	"time"

	"VoxelTerra/jogo/internal/camera"
	"VoxelTerra/jogo/internal/meshing"
	"VoxelTerra/jogo/internal/telemetry"
	"VoxelTerra/shared/config"
	"VoxelTerra/shared/util"
	"VoxelTerra/shared/world"

	"github.com/go-gl/mathgl/mgl32"
)

// Alcance do raio de mira, em blocos.
const targetReach = 8.0

// WorldRenderer é o orquestrador de frame: mantém a vizinhança de chunks
// ao redor do observador, monta as filas de desenho por fase a cada frame
// e despacha reconstruções de malha para o pool de meshing. Todos os
// métodos rodam no thread principal, exceto onde anotado.
type WorldRenderer struct {
	cfg     *config.Config
	store   *world.Store
	cam     *camera.Camera
	updates *meshing.Manager
	backend Backend
	monitor *telemetry.Monitor

	sky       *Skysphere
	particles *ParticleSystem

	// Objetos de cena fora do sistema de chunks, drenados na fila
	// translúcida (entidades, debug físico, grade).
	transparents []Drawable

	// Vizinhança ordenada por distância. Substituída inteira a cada
	// mudança de chunk do observador.
	chunksInProximity []*world.Chunk
	chunkPos          util.ChunkCoord
	hasProximity      bool

	queueOpaque    []*world.Chunk
	queueBillboard []*world.Chunk
	queueWater     []*world.Chunk

	stats     FrameStats
	wireframe bool
	showBody  bool
}

// NewWorldRenderer monta o renderizador com as dependências injetadas.
func NewWorldRenderer(cfg *config.Config, store *world.Store, cam *camera.Camera,
	updates *meshing.Manager, backend Backend, monitor *telemetry.Monitor) *WorldRenderer {

	return &WorldRenderer{
		cfg:       cfg,
		store:     store,
		cam:       cam,
		updates:   updates,
		backend:   backend,
		monitor:   monitor,
		sky:       NewSkysphere(cfg.DayLengthSec),
		particles: NewParticleSystem(1024),
		wireframe: cfg.WireframeMode,
	}
}

// Sky retorna o controlador do ciclo dia/noite.
func (r *WorldRenderer) Sky() *Skysphere { return r.sky }

// Particles retorna o emissor de partículas de bloco.
func (r *WorldRenderer) Particles() *ParticleSystem { return r.particles }

// Stats retorna os contadores do último frame desenhado.
func (r *WorldRenderer) Stats() FrameStats { return r.stats }

// ChunksInProximity retorna a vizinhança atual (leitura somente).
func (r *WorldRenderer) ChunksInProximity() []*world.Chunk {
	return r.chunksInProximity
}

// AddTransparent registra um objeto de cena na fila translúcida.
func (r *WorldRenderer) AddTransparent(d Drawable) {
	r.transparents = append(r.transparents, d)
}

// ToggleWireframe alterna o modo de arame.
func (r *WorldRenderer) ToggleWireframe() {
	r.wireframe = !r.wireframe
}

// SetShowBody alterna o desenho do corpo do observador (debug).
func (r *WorldRenderer) SetShowBody(on bool) {
	r.showBody = on
}

// RefreshProximity reconstrói a vizinhança de chunks quando o observador
// cruza uma fronteira de chunk (ou quando force é true). Retorna true se
// a vizinhança foi refeita. Falhas de carga por coordenada são logadas e
// deixam um buraco que a próxima reconstrução tenta de novo.
func (r *WorldRenderer) RefreshProximity(force bool) bool {
	newPos := r.cam.ChunkCoord()
	if r.hasProximity && newPos == r.chunkPos && !force {
		return false
	}

	r.monitor.StartActivity("Atualização de Proximidade")
	defer r.monitor.EndActivity()

	viewing := r.cfg.ViewingDistance
	set := make([]*world.Chunk, 0, int(viewing)*int(viewing))

	for x := -viewing / 2; x < viewing/2; x++ {
		for z := -viewing / 2; z < viewing/2; z++ {
			c, err := r.store.LoadOrCreateChunk(newPos.X+x, newPos.Z+z)
			if err != nil {
				log.Printf("[Renderer] falha ao carregar chunk: %v", err)
				continue
			}
			set = append(set, c)
		}
	}

	sort.SliceStable(set, func(i, j int) bool {
		return ProximityLess(r.cam.Position)(set[i], set[j])
	})

	r.chunksInProximity = set
	r.chunkPos = newPos
	r.hasProximity = true
	return true
}

// IsWithinSimulationRange indica se um ponto está no alcance em que as
// simulações (líquidos, crescimento, mobs) devem rodar.
func (r *WorldRenderer) IsWithinSimulationRange(p mgl32.Vec3) bool {
	limit := float64(r.cfg.ViewingDistance) * util.ChunkDimX / 2.0
	d := math.Sqrt(float64(util.DistSq(r.cam.Position, p)))
	return d < limit
}

// buildFrameQueues percorre a vizinhança uma vez: enfileira as fases
// visíveis com geometria, contabiliza as estatísticas do frame, admite
// reconstruções até o primeiro sinal de saturação e libera malhas de
// chunks fora de vista além do limite de VBOs residentes.
func (r *WorldRenderer) buildFrameQueues() {
	r.monitor.StartActivity("Montagem de Filas")
	defer r.monitor.EndActivity()

	r.stats = FrameStats{}
	r.queueOpaque = r.queueOpaque[:0]
	r.queueBillboard = r.queueBillboard[:0]
	r.queueWater = r.queueWater[:0]

	frustum := r.cam.Frustum()
	frame := r.store.AdvanceFrame()
	saturated := false

	for i, c := range r.chunksInProximity {
		if frustum.IntersectsAABB(c.AABB()) {
			r.stats.VisibleChunks++
			c.Update(frame)

			if c.TriangleCount(world.PhaseOpaque) > 0 {
				r.queueOpaque = append(r.queueOpaque, c)
			} else {
				r.stats.SkippedPhases++
			}
			if c.TriangleCount(world.PhaseBillboardAndTranslucent) > 0 {
				r.queueBillboard = append(r.queueBillboard, c)
			} else {
				r.stats.SkippedPhases++
			}
			if c.TriangleCount(world.PhaseWaterAndIce) > 0 {
				r.queueWater = append(r.queueWater, c)
			} else {
				r.stats.SkippedPhases++
			}

			if c.IsDirty() || c.IsLightDirty() || c.IsFresh() {
				r.stats.DirtyChunks++
				if !saturated {
					if r.updates.QueueChunkUpdate(c, meshing.UpdateDefault) {
						r.stats.QueuedUpdates++
					} else if !r.updates.Pending(c.Coord) {
						// Recusa por limite de pendências, não por
						// duplicata: para de admitir neste frame.
						saturated = true
					}
				}
			}
		} else if i > r.cfg.MaxChunkVBOs {
			// Descarte posicional: a lista está ordenada por distância,
			// então índice alto = chunk distante. Chunks enfileirados
			// neste frame nunca caem aqui (o ramo visível os capturou).
			for _, old := range c.ClearMeshes() {
				if old != nil {
					r.backend.FreeMesh(old)
					r.stats.EvictedMeshes++
				}
			}
		}
	}

	// Fases translúcidas desenham de trás para frente.
	farFirst := FarthestFirst(r.cam.Position)
	sort.SliceStable(r.queueBillboard, func(i, j int) bool {
		return farFirst(r.queueBillboard[i], r.queueBillboard[j])
	})
	sort.SliceStable(r.queueWater, func(i, j int) bool {
		return farFirst(r.queueWater[i], r.queueWater[j])
	})
}

// isSubmerged indica se o ponto de visão está dentro de um bloco de água.
func (r *WorldRenderer) isSubmerged() bool {
	eye := r.cam.Eye()
	id := r.store.GetBlock(
		int32(math.Floor(float64(eye.X()))),
		int32(math.Floor(float64(eye.Y()))),
		int32(math.Floor(float64(eye.Z()))),
	)
	return world.IsWater(id)
}

// TargetBlock lança um raio da câmera e retorna a caixa do primeiro bloco
// sólido ao alcance, para o destaque de mira.
func (r *WorldRenderer) TargetBlock() (util.AABB, bool) {
	eye := r.cam.Eye()
	dir := r.cam.Forward()

	for t := float32(0); t < targetReach; t += 0.05 {
		p := eye.Add(dir.Mul(t))
		bx := int32(math.Floor(float64(p.X())))
		by := int32(math.Floor(float64(p.Y())))
		bz := int32(math.Floor(float64(p.Z())))
		if world.IsSolid(r.store.GetBlock(bx, by, bz)) {
			return util.BlockAABB(bx, by, bz), true
		}
	}
	return util.AABB{}, false
}

// RenderFrame desenha um frame completo na ordem fixa: filas → captura →
// céu → opacos → translúcidos → água em duas passadas → overlays.
// Erros do backend abortam o frame e sobem ao chamador.
func (r *WorldRenderer) RenderFrame() error {
	r.monitor.StartActivity("Renderização do Mundo")
	defer r.monitor.EndActivity()

	r.buildFrameQueues()

	if err := r.backend.BeginSceneCapture(); err != nil {
		return &BackendError{Op: "início de captura", Err: err}
	}

	r.backend.SetWireframe(r.wireframe)
	r.backend.SetProjectionMatrix(r.cam.ProjectionMatrix())

	// Céu: só rotação da câmera, sem translação.
	r.monitor.StartActivity("Céu")
	r.backend.SetViewMatrix(r.cam.ViewMatrixNormalized())
	r.sky.Render(r.backend)
	r.monitor.EndActivity()

	// Transformação completa para o resto da cena.
	r.backend.SetViewMatrix(r.cam.ViewMatrix())
	if r.showBody {
		body := ObserverBody{Position: r.cam.Position}
		body.Render(r.backend)
	}

	r.monitor.StartActivity("Chunks Opacos")
	for _, c := range r.queueOpaque {
		if err := r.drawChunkPhase(c, world.PhaseOpaque); err != nil {
			r.monitor.EndActivity()
			return err
		}
	}
	r.monitor.EndActivity()

	r.backend.SetBlend(true)

	r.monitor.StartActivity("Chunks Translúcidos")
	for _, c := range r.queueBillboard {
		if err := r.drawChunkPhase(c, world.PhaseBillboardAndTranslucent); err != nil {
			r.monitor.EndActivity()
			return err
		}
	}
	r.monitor.EndActivity()

	r.monitor.StartActivity("Objetos de Cena")
	for _, d := range r.transparents {
		d.Render(r.backend)
	}
	r.particles.Render(r.backend)
	if r.cfg.ShowGrid {
		grid := NewBlockGrid()
		grid.Render(r.backend)
	}
	r.monitor.EndActivity()

	// Água em duas passadas por chunk: a primeira só preenche o buffer
	// de profundidade (máscara de cor desligada), a segunda desenha por
	// cima — faces internas da água não aparecem através da superfície.
	r.monitor.StartActivity("Água e Gelo")
	submerged := r.isSubmerged()
	if submerged {
		r.backend.SetCullFace(false)
	}
	for _, c := range r.queueWater {
		r.backend.SetColorMask(false)
		if err := r.drawChunkPhase(c, world.PhaseWaterAndIce); err != nil {
			r.monitor.EndActivity()
			return err
		}
		r.backend.SetColorMask(true)
		if err := r.drawChunkPhase(c, world.PhaseWaterAndIce); err != nil {
			r.monitor.EndActivity()
			return err
		}
	}
	if submerged {
		r.backend.SetCullFace(true)
	}
	r.monitor.EndActivity()

	if box, ok := r.TargetBlock(); ok {
		r.backend.DrawBoxLines(box, [4]uint8{0, 0, 0, 255})
	}

	r.backend.SetBlend(false)
	r.backend.SetWireframe(false)

	if err := r.backend.EndSceneCapture(); err != nil {
		return &BackendError{Op: "fim de captura", Err: err}
	}
	if err := r.backend.ResolveCapture(); err != nil {
		return &BackendError{Op: "resolução de captura", Err: err}
	}

	r.backend.DrawReticle()
	return nil
}

func (r *WorldRenderer) drawChunkPhase(c *world.Chunk, phase world.RenderPhase) error {
	mesh := c.Mesh(phase)
	if mesh == nil {
		return nil
	}
	if err := r.backend.DrawMesh(mesh); err != nil {
		return &BackendError{Op: "desenho de chunk " + c.Coord.String(), Err: err}
	}
	r.stats.TrianglesDrawn += int(mesh.Triangles)
	return nil
}

// InstallResults drena geometrias concluídas pelo pool de meshing, faz o
// upload para a GPU e troca as malhas instaladas. Respeita um orçamento
// de tempo para não travar o frame quando muitos resultados chegam de
// uma vez. Retorna o número de chunks instalados.
func (r *WorldRenderer) InstallResults(budget time.Duration) int {
	r.monitor.StartActivity("Instalação de Malhas")
	defer r.monitor.EndActivity()

	deadline := time.Now().Add(budget)
	installed := 0

	for time.Now().Before(deadline) {
		select {
		case res := <-r.updates.Results():
			r.installResult(res)
			installed++
		default:
			return installed
		}
	}
	return installed
}

func (r *WorldRenderer) installResult(res meshing.Result) {
	for p := world.RenderPhase(0); p < world.PhaseCount; p++ {
		geo := res.Geometry[p]

		var fresh *world.PhaseMesh
		if !geo.Empty() {
			mesh, err := r.backend.UploadMesh(geo)
			if err != nil {
				// Upload recusado: mantém a malha antiga e deixa o
				// chunk dirty para tentar de novo.
				log.Printf("[Renderer] upload falhou para %s fase %s: %v",
					res.Coord, p, err)
				r.updates.Complete(res)
				return
			}
			fresh = &mesh
		}

		if old := res.Chunk.InstallMesh(p, fresh); old != nil {
			r.backend.FreeMesh(old)
		}
	}

	// Só limpa as flags se nenhuma edição chegou depois do snapshot;
	// caso contrário o chunk continua dirty e reenfileira sozinho.
	if res.Chunk.MTime() == res.MTime {
		res.Chunk.ClearBuildFlags()
	}
	r.updates.Complete(res)
}

// GenerateAllMeshes enfileira a reconstrução de toda a vizinhança, usado
// na carga inicial do mundo antes do primeiro frame.
func (r *WorldRenderer) GenerateAllMeshes() {
	for _, c := range r.chunksInProximity {
		if c.IsDirty() || c.IsFresh() {
			r.updates.QueueChunkUpdate(c, meshing.UpdatePriority)
		}
	}
}

// CaptureScreenshot exporta o frame atual. Falha é logada, nunca fatal.
func (r *WorldRenderer) CaptureScreenshot(path string) {
	if err := r.backend.CaptureFrame(path); err != nil {
		log.Printf("[Renderer] screenshot falhou: %v", err)
		return
	}
	log.Printf("[Renderer] screenshot salvo em %s", path)
}

// Update avança o estado por frame fora do caminho de desenho: relógio
// do mundo, partículas, vizinhança e instalação de malhas prontas.
func (r *WorldRenderer) Update(delta float64) {
	r.sky.Update(delta)
	r.particles.Update(float32(delta))
	r.RefreshProximity(false)
	r.InstallResults(4 * time.Millisecond)
}

// Dispose libera todas as malhas residentes. Chamado no encerramento.
func (r *WorldRenderer) Dispose() {
	for _, c := range r.chunksInProximity {
		for _, old := range c.ClearMeshes() {
			if old != nil {
				r.backend.FreeMesh(old)
			}
		}
	}
}
