package app

import (
	"math"

	"VoxelTerra/shared/world"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// digReach é o alcance de escavação, em blocos.
const digReach = 8.0

// traceRay percorre o raio da mira e retorna o primeiro bloco sólido e a
// última célula vazia antes dele (onde um bloco novo pode ser colocado).
func (a *App) traceRay() (hit [3]int32, prev [3]int32, ok bool) {
	eye := a.Cam.Eye()
	dir := a.Cam.Forward()

	prev = [3]int32{
		int32(math.Floor(float64(eye.X()))),
		int32(math.Floor(float64(eye.Y()))),
		int32(math.Floor(float64(eye.Z()))),
	}

	for t := float32(0); t < digReach; t += 0.05 {
		p := eye.Add(dir.Mul(t))
		cell := [3]int32{
			int32(math.Floor(float64(p.X()))),
			int32(math.Floor(float64(p.Y()))),
			int32(math.Floor(float64(p.Z()))),
		}
		if world.IsSolid(a.store.GetBlock(cell[0], cell[1], cell[2])) {
			return cell, prev, true
		}
		prev = cell
	}
	return hit, prev, false
}

// digBlock remove o bloco mirado, solta partículas com a cor dele e
// agenda reavaliação de líquidos vizinhos.
func (a *App) digBlock() {
	cell, _, ok := a.traceRay()
	if !ok {
		return
	}

	id := a.store.GetBlock(cell[0], cell[1], cell[2])
	if !a.store.SetBlock(cell[0], cell[1], cell[2], world.BlockAir, true) {
		return
	}

	center := mgl32.Vec3{
		float32(cell[0]) + 0.5,
		float32(cell[1]) + 0.5,
		float32(cell[2]) + 0.5,
	}
	a.renderer.Particles().EmitBlockBurst(center, world.BlockInfo(id).Color, 12)
	a.liquids.RegisterBlockChange(cell[0], cell[1], cell[2])
}

// placeBlock coloca o bloco selecionado na célula vazia encostada no
// bloco mirado.
func (a *App) placeBlock() {
	_, prev, ok := a.traceRay()
	if !ok {
		return
	}

	// Nunca coloca bloco dentro do observador.
	ex, ey, ez := a.eyeBlock()
	if prev[0] == ex && prev[1] == ey && prev[2] == ez {
		return
	}

	if a.store.SetBlock(prev[0], prev[1], prev[2], a.placeID, true) {
		a.liquids.RegisterBlockChange(prev[0], prev[1], prev[2])
	}
}

// publishStats envia um snapshot para o servidor de telemetria.
func (a *App) publishStats() {
	stats := a.renderer.Stats()
	a.statsSrv.Publish(map[string]any{
		"fps":             rl.GetFPS(),
		"chunks_visiveis": stats.VisibleChunks,
		"chunks_sujos":    stats.DirtyChunks,
		"fases_puladas":   stats.SkippedPhases,
		"updates_em_voo":  a.mesher.Outstanding(),
		"triangulos":      stats.TrianglesDrawn,
		"chunks_na_ram":   a.store.Size(),
		"mobs":            a.mobs.Count(),
		"hora_do_mundo":   a.renderer.Sky().TimeOfDay(),
		"atividades_ms":   a.monitor.Snapshot(),
	})
}
