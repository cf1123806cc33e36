package render

import (
	"fmt"

	"VoxelTerra/jogo/internal/meshing"
	"VoxelTerra/shared/util"
	"VoxelTerra/shared/world"

	"github.com/go-gl/mathgl/mgl32"
)

// recordingBackend grava a sequência de chamadas para os testes
// verificarem a ordem de desenho sem GPU.
type recordingBackend struct {
	ops        []string
	nextHandle uint32
	resident   map[uint32]int32 // handle → triângulos
	freed      []uint32
	failUpload bool
}

func newRecordingBackend() *recordingBackend {
	return &recordingBackend{
		nextHandle: 1,
		resident:   make(map[uint32]int32),
	}
}

func (b *recordingBackend) record(format string, args ...any) {
	b.ops = append(b.ops, fmt.Sprintf(format, args...))
}

func (b *recordingBackend) UploadMesh(geo meshing.GeometryData) (world.PhaseMesh, error) {
	if b.failUpload {
		return world.PhaseMesh{}, fmt.Errorf("upload desligado no teste")
	}
	h := b.nextHandle
	b.nextHandle++
	b.resident[h] = geo.TriangleCount()
	b.record("upload:%d", h)
	return world.PhaseMesh{Handle: h, Triangles: geo.TriangleCount()}, nil
}

func (b *recordingBackend) FreeMesh(mesh *world.PhaseMesh) {
	delete(b.resident, mesh.Handle)
	b.freed = append(b.freed, mesh.Handle)
	b.record("free:%d", mesh.Handle)
}

func (b *recordingBackend) DrawMesh(mesh *world.PhaseMesh) error {
	b.record("draw:%d", mesh.Handle)
	return nil
}

func (b *recordingBackend) SetProjectionMatrix(mgl32.Mat4) {}
func (b *recordingBackend) SetViewMatrix(mgl32.Mat4)       { b.record("view") }
func (b *recordingBackend) SetBlend(on bool)               { b.record("blend:%v", on) }
func (b *recordingBackend) SetColorMask(on bool)           { b.record("colormask:%v", on) }
func (b *recordingBackend) SetCullFace(on bool)            { b.record("cull:%v", on) }
func (b *recordingBackend) SetWireframe(bool)              {}

func (b *recordingBackend) BeginSceneCapture() error { b.record("capture:begin"); return nil }
func (b *recordingBackend) EndSceneCapture() error   { b.record("capture:end"); return nil }
func (b *recordingBackend) ResolveCapture() error    { b.record("capture:resolve"); return nil }
func (b *recordingBackend) CaptureFrame(string) error { return nil }

func (b *recordingBackend) DrawSky(float32)                          { b.record("sky") }
func (b *recordingBackend) DrawBox(util.AABB, [4]uint8)              { b.record("box") }
func (b *recordingBackend) DrawBoxLines(util.AABB, [4]uint8)         { b.record("boxlines") }
func (b *recordingBackend) DrawGrid(int32, float32)                  { b.record("grid") }
func (b *recordingBackend) DrawPoint(mgl32.Vec3, float32, [4]uint8)  { b.record("point") }
func (b *recordingBackend) DrawReticle()                             { b.record("reticle") }
