package app

import (
	"fmt"
	"math"
	"time"

	"VoxelTerra/shared/world"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// Blocos colocáveis, selecionados pelas teclas numéricas.
var hotbar = [...]uint8{
	world.BlockStone,
	world.BlockDirt,
	world.BlockGrass,
	world.BlockSand,
	world.BlockWater,
	world.BlockWood,
}

// updateInput processa teclado e mouse de um frame.
func (a *App) updateInput(delta float64) {
	if rl.IsKeyPressed(rl.KeyEscape) {
		if a.State == StatePaused {
			a.State = StatePlaying
			rl.DisableCursor()
		} else if a.State == StatePlaying {
			a.State = StatePaused
			rl.EnableCursor()
		}
		return
	}
	if a.State == StatePaused {
		return
	}

	a.updateLook()
	a.updateMovement(float32(delta))
	a.updateHotkeys()

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		a.digBlock()
	}
	if rl.IsMouseButtonPressed(rl.MouseRightButton) {
		a.placeBlock()
	}
}

func (a *App) updateLook() {
	md := rl.GetMouseDelta()
	sens := a.Config.CameraSensitivity * float32(math.Pi) / 180.0
	a.Cam.Rotate(md.X*sens, -md.Y*sens)
}

func (a *App) updateMovement(dt float32) {
	speed := a.Config.CameraSpeed
	if rl.IsKeyDown(rl.KeyLeftControl) {
		speed *= 3
	}

	forward := a.Cam.Forward()
	flat := mgl32.Vec3{forward.X(), 0, forward.Z()}
	if flat.Len() > 0 {
		flat = flat.Normalize()
	}
	right := a.Cam.Right()

	var move mgl32.Vec3
	if rl.IsKeyDown(rl.KeyW) {
		move = move.Add(flat)
	}
	if rl.IsKeyDown(rl.KeyS) {
		move = move.Sub(flat)
	}
	if rl.IsKeyDown(rl.KeyD) {
		move = move.Add(right)
	}
	if rl.IsKeyDown(rl.KeyA) {
		move = move.Sub(right)
	}
	if rl.IsKeyDown(rl.KeySpace) {
		move = move.Add(mgl32.Vec3{0, 1, 0})
	}
	if rl.IsKeyDown(rl.KeyLeftShift) {
		move = move.Sub(mgl32.Vec3{0, 1, 0})
	}

	if move.Len() > 0 {
		a.Cam.Position = a.Cam.Position.Add(move.Normalize().Mul(speed * dt))
	}
}

func (a *App) updateHotkeys() {
	if rl.IsKeyPressed(rl.KeyF2) {
		name := fmt.Sprintf("voxelterra_%s.png", time.Now().Format("20060102_150405"))
		a.renderer.CaptureScreenshot(name)
	}
	if rl.IsKeyPressed(rl.KeyF3) {
		a.Config.ShowDebugInfo = !a.Config.ShowDebugInfo
	}
	if rl.IsKeyPressed(rl.KeyF4) {
		a.renderer.ToggleWireframe()
	}
	if rl.IsKeyPressed(rl.KeyF5) {
		a.Config.ShowGrid = !a.Config.ShowGrid
	}

	keys := [...]int32{rl.KeyOne, rl.KeyTwo, rl.KeyThree, rl.KeyFour, rl.KeyFive, rl.KeySix}
	for i, k := range keys {
		if rl.IsKeyPressed(k) {
			a.placeID = hotbar[i]
		}
	}
}
