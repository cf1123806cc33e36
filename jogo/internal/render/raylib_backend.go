package render

/*
#include <stdlib.h>
*/
import "C"

import (
	"fmt"
	"unsafe"

	"VoxelTerra/jogo/internal/meshing"
	"VoxelTerra/shared/util"
	"VoxelTerra/shared/world"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// RaylibBackend implementa Backend sobre raylib. Toda chamada acontece
// no thread principal, entre BeginDrawing e EndDrawing.
type RaylibBackend struct {
	models     map[uint32]rl.Model
	nextHandle uint32

	capture    rl.RenderTexture2D
	hasCapture bool
	capturing  bool
}

// NewRaylibBackend cria o backend. A janela já deve existir.
func NewRaylibBackend() *RaylibBackend {
	return &RaylibBackend{
		models:     make(map[uint32]rl.Model),
		nextHandle: 1,
	}
}

func matToRaylib(m mgl32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M1: m[1], M2: m[2], M3: m[3],
		M4: m[4], M5: m[5], M6: m[6], M7: m[7],
		M8: m[8], M9: m[9], M10: m[10], M11: m[11],
		M12: m[12], M13: m[13], M14: m[14], M15: m[15],
	}
}

func toColor(c [4]uint8) rl.Color {
	return rl.NewColor(c[0], c[1], c[2], c[3])
}

// UploadMesh copia a geometria para buffers C (raylib libera com free ao
// descarregar) e sobe para a GPU.
func (b *RaylibBackend) UploadMesh(geo meshing.GeometryData) (world.PhaseMesh, error) {
	if geo.Empty() {
		return world.PhaseMesh{}, fmt.Errorf("geometria vazia")
	}

	var mesh rl.Mesh
	vCount := int32(len(geo.Vertices) / 3)
	mesh.VertexCount = vCount
	mesh.TriangleCount = vCount / 3

	mesh.Vertices = (*float32)(copyToC(unsafe.Pointer(&geo.Vertices[0]), len(geo.Vertices)*4))
	if len(geo.Normals) > 0 {
		mesh.Normals = (*float32)(copyToC(unsafe.Pointer(&geo.Normals[0]), len(geo.Normals)*4))
	}
	if len(geo.Colors) > 0 {
		mesh.Colors = (*uint8)(copyToC(unsafe.Pointer(&geo.Colors[0]), len(geo.Colors)))
	}
	if mesh.Vertices == nil {
		return world.PhaseMesh{}, fmt.Errorf("sem memória para %d vértices", vCount)
	}

	rl.UploadMesh(&mesh, false)
	model := rl.LoadModelFromMesh(mesh)

	handle := b.nextHandle
	b.nextHandle++
	b.models[handle] = model

	return world.PhaseMesh{Handle: handle, Triangles: mesh.TriangleCount}, nil
}

func copyToC(data unsafe.Pointer, size int) unsafe.Pointer {
	if size <= 0 || data == nil {
		return nil
	}
	ptr := C.malloc(C.size_t(size))
	if ptr == nil {
		return nil
	}
	cSlice := unsafe.Slice((*byte)(ptr), size)
	goSlice := unsafe.Slice((*byte)(data), size)
	copy(cSlice, goSlice)
	return ptr
}

// FreeMesh descarrega o modelo da GPU e da RAM.
func (b *RaylibBackend) FreeMesh(mesh *world.PhaseMesh) {
	if mesh == nil {
		return
	}
	if model, ok := b.models[mesh.Handle]; ok {
		rl.UnloadModel(model)
		delete(b.models, mesh.Handle)
	}
}

func (b *RaylibBackend) DrawMesh(mesh *world.PhaseMesh) error {
	model, ok := b.models[mesh.Handle]
	if !ok {
		return fmt.Errorf("handle %d desconhecido", mesh.Handle)
	}
	rl.DrawModel(model, rl.Vector3{}, 1.0, rl.White)
	return nil
}

func (b *RaylibBackend) SetProjectionMatrix(proj mgl32.Mat4) {
	rl.DrawRenderBatchActive()
	rl.SetMatrixProjection(matToRaylib(proj))
}

func (b *RaylibBackend) SetViewMatrix(view mgl32.Mat4) {
	rl.DrawRenderBatchActive()
	rl.SetMatrixModelview(matToRaylib(view))
}

// Mudanças de estado do rlgl só valem para chamadas futuras; o batch
// acumulado precisa ser despejado antes.
func (b *RaylibBackend) SetBlend(enabled bool) {
	rl.DrawRenderBatchActive()
	if enabled {
		rl.EnableColorBlend()
	} else {
		rl.DisableColorBlend()
	}
}

func (b *RaylibBackend) SetColorMask(enabled bool) {
	rl.DrawRenderBatchActive()
	rl.ColorMask(enabled, enabled, enabled, enabled)
}

func (b *RaylibBackend) SetCullFace(enabled bool) {
	rl.DrawRenderBatchActive()
	if enabled {
		rl.EnableBackfaceCulling()
	} else {
		rl.DisableBackfaceCulling()
	}
}

func (b *RaylibBackend) SetWireframe(enabled bool) {
	rl.DrawRenderBatchActive()
	if enabled {
		rl.EnableWireMode()
	} else {
		rl.DisableWireMode()
	}
}

// BeginSceneCapture redireciona o desenho para a textura de cena, criada
// (ou recriada após resize) sob demanda.
func (b *RaylibBackend) BeginSceneCapture() error {
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())

	if b.hasCapture && (b.capture.Texture.Width != w || b.capture.Texture.Height != h) {
		rl.UnloadRenderTexture(b.capture)
		b.hasCapture = false
	}
	if !b.hasCapture {
		b.capture = rl.LoadRenderTexture(w, h)
		if b.capture.ID == 0 {
			return fmt.Errorf("render texture %dx%d não alocada", w, h)
		}
		b.hasCapture = true
	}

	rl.BeginTextureMode(b.capture)
	rl.ClearBackground(rl.Black)
	b.capturing = true
	return nil
}

func (b *RaylibBackend) EndSceneCapture() error {
	if !b.capturing {
		return fmt.Errorf("captura não iniciada")
	}
	rl.EndTextureMode()
	b.capturing = false
	return nil
}

// ResolveCapture desenha a textura de cena na tela, invertida no eixo Y
// como toda render texture do OpenGL.
func (b *RaylibBackend) ResolveCapture() error {
	if !b.hasCapture {
		return fmt.Errorf("nenhuma cena capturada")
	}
	src := rl.Rectangle{
		Width:  float32(b.capture.Texture.Width),
		Height: -float32(b.capture.Texture.Height),
	}
	rl.DrawTextureRec(b.capture.Texture, src, rl.Vector2{}, rl.White)
	return nil
}

func (b *RaylibBackend) CaptureFrame(path string) error {
	img := rl.LoadImageFromScreen()
	defer rl.UnloadImage(img)
	if !rl.ExportImage(*img, path) {
		return fmt.Errorf("exportação de %s falhou", path)
	}
	return nil
}

// DrawSky desenha uma esfera gigante vista por dentro, com a cor
// interpolada entre noite e dia.
func (b *RaylibBackend) DrawSky(daylight float32) {
	night := mgl32.Vec3{10, 10, 35}
	day := mgl32.Vec3{110, 170, 230}

	color := rl.NewColor(
		uint8(util.Lerp(night.X(), day.X(), daylight)),
		uint8(util.Lerp(night.Y(), day.Y(), daylight)),
		uint8(util.Lerp(night.Z(), day.Z(), daylight)),
		255,
	)

	b.SetCullFace(false)
	rl.DrawSphereEx(rl.Vector3{}, 400.0, 8, 16, color)
	b.SetCullFace(true)
}

func (b *RaylibBackend) DrawBox(box util.AABB, color [4]uint8) {
	center, size := boxCenterSize(box)
	rl.DrawCubeV(center, size, toColor(color))
}

func (b *RaylibBackend) DrawBoxLines(box util.AABB, color [4]uint8) {
	center, size := boxCenterSize(box)
	rl.DrawCubeWiresV(center, size, toColor(color))
}

func boxCenterSize(box util.AABB) (rl.Vector3, rl.Vector3) {
	c := box.Min.Add(box.Max).Mul(0.5)
	s := box.Max.Sub(box.Min)
	return rl.Vector3{X: c.X(), Y: c.Y(), Z: c.Z()},
		rl.Vector3{X: s.X(), Y: s.Y(), Z: s.Z()}
}

func (b *RaylibBackend) DrawGrid(slices int32, spacing float32) {
	rl.DrawGrid(slices, spacing)
}

func (b *RaylibBackend) DrawPoint(pos mgl32.Vec3, size float32, color [4]uint8) {
	rl.DrawCube(rl.Vector3{X: pos.X(), Y: pos.Y(), Z: pos.Z()}, size, size, size, toColor(color))
}

// DrawReticle desenha a mira em espaço de tela, depois da resolução da
// cena.
func (b *RaylibBackend) DrawReticle() {
	cx := int32(rl.GetScreenWidth() / 2)
	cy := int32(rl.GetScreenHeight() / 2)
	rl.DrawLine(cx-8, cy, cx+8, cy, rl.RayWhite)
	rl.DrawLine(cx, cy-8, cx, cy+8, rl.RayWhite)
}

// Dispose libera todos os modelos e a textura de cena.
func (b *RaylibBackend) Dispose() {
	for h, model := range b.models {
		rl.UnloadModel(model)
		delete(b.models, h)
	}
	if b.hasCapture {
		rl.UnloadRenderTexture(b.capture)
		b.hasCapture = false
	}
}
