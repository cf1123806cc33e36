package app

import (
	"fmt"
	"log"

	"VoxelTerra/shared/world"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// draw renderiza um frame completo.
func (a *App) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(30, 30, 40, 255))

	switch a.State {
	case StateLoading:
		a.drawLoadingScreen()
	default:
		if err := a.renderer.RenderFrame(); err != nil {
			log.Printf("[App] Frame abortado: %v", err)
			a.quit = true
		}
		a.drawHUD()

		if a.State == StatePaused {
			a.drawPauseMenu()
		}
	}

	rl.EndDrawing()
}

// drawLoadingScreen mostra o progresso da geração inicial. As instalações
// em si acontecem no update, com orçamento de tempo real.
func (a *App) drawLoadingScreen() {
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())

	rl.DrawText("VoxelTerra", w/2-90, h/2-60, 36, rl.Gold)

	outstanding := a.mesher.Outstanding()
	msg := fmt.Sprintf("Gerando o mundo... (%d reconstruções em voo)", outstanding)
	rl.DrawText(msg, w/2-180, h/2, 18, rl.LightGray)
}

// drawHUD desenha a interface sobreposta.
func (a *App) drawHUD() {
	// Bloco selecionado, sempre visível.
	info := world.BlockInfo(a.placeID)
	rl.DrawText(fmt.Sprintf("Bloco: %s", info.Name), 10,
		int32(rl.GetScreenHeight())-30, 18, rl.RayWhite)

	if !a.Config.ShowDebugInfo {
		return
	}

	width := int32(340)
	height := int32(220)
	x := int32(rl.GetScreenWidth()) - width - 10
	y := int32(10)

	rl.DrawRectangle(x, y, width, height, rl.NewColor(0, 0, 0, 180))
	rl.DrawRectangleLines(x, y, width, height, rl.NewColor(50, 50, 50, 255))

	fps := rl.GetFPS()
	fpsColor := rl.Green
	if fps < 30 {
		fpsColor = rl.Red
	} else if fps < 50 {
		fpsColor = rl.Yellow
	}
	rl.DrawText(fmt.Sprintf("FPS: %d", fps), x+10, y+10, 20, fpsColor)

	// Hora do mundo em formato de relógio.
	tod := a.renderer.Sky().TimeOfDay()
	hours := int(tod * 24)
	minutes := int(tod*24*60) % 60
	rl.DrawText(fmt.Sprintf("%02d:%02d", hours, minutes), x+260, y+10, 20, rl.SkyBlue)

	rl.DrawLine(x+10, y+35, x+width-10, y+35, rl.NewColor(100, 100, 100, 100))

	rl.DrawText("MUNDO", x+10, y+45, 12, rl.Gray)
	pos := a.Cam.Position
	chunk := a.Cam.ChunkCoord()
	rl.DrawText(fmt.Sprintf("Posição: (%.1f, %.1f, %.1f)", pos.X(), pos.Y(), pos.Z()),
		x+10, y+60, 16, rl.White)
	rl.DrawText(fmt.Sprintf("Chunk: %s | RAM: %d chunks", chunk, a.store.Size()),
		x+10, y+80, 14, rl.LightGray)

	rl.DrawLine(x+10, y+100, x+width-10, y+100, rl.NewColor(100, 100, 100, 100))

	stats := a.renderer.Stats()
	rl.DrawText("RENDERIZAÇÃO", x+10, y+110, 12, rl.Gray)
	rl.DrawText(fmt.Sprintf("Visíveis: %d | Sujos: %d | Puladas: %d",
		stats.VisibleChunks, stats.DirtyChunks, stats.SkippedPhases),
		x+10, y+125, 14, rl.LightGray)
	rl.DrawText(fmt.Sprintf("Triângulos: %d | Updates: %d em voo",
		stats.TrianglesDrawn, a.mesher.Outstanding()),
		x+10, y+140, 14, rl.LightGray)
	rl.DrawText(fmt.Sprintf("Mobs: %d | Líquidos na fila: %d",
		a.mobs.Count(), a.liquids.Queued()),
		x+10, y+155, 14, rl.LightGray)

	rl.DrawLine(x+10, y+175, x+width-10, y+175, rl.NewColor(100, 100, 100, 100))

	rl.DrawText("F2: Screenshot | F3: HUD | F4: Wireframe | F5: Grade",
		x+10, y+185, 13, rl.SkyBlue)
	rl.DrawText("1-6: Bloco | Botões do mouse: cavar/colocar",
		x+10, y+200, 13, rl.SkyBlue)
}

// drawPauseMenu escurece a tela e mostra as opções.
func (a *App) drawPauseMenu() {
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())

	rl.DrawRectangle(0, 0, w, h, rl.NewColor(0, 0, 0, 140))
	rl.DrawText("PAUSADO", w/2-80, h/2-40, 36, rl.RayWhite)
	rl.DrawText("ESC para voltar", w/2-70, h/2+10, 18, rl.LightGray)
}
