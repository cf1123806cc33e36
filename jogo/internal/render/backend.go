package render

import (
	"fmt"

	"VoxelTerra/jogo/internal/meshing"
	"VoxelTerra/shared/util"
	"VoxelTerra/shared/world"

	"github.com/go-gl/mathgl/mgl32"
)

// BackendError indica falha em uma chamada do backend gráfico (perda de
// contexto, upload recusado). É fatal para o frame corrente: o orquestrador
// devolve o erro ao chamador em vez de tentar de novo.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend: %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// Backend é a fronteira com a API gráfica. Todas as chamadas acontecem no
// thread principal; nenhuma implementação precisa ser thread-safe.
type Backend interface {
	// Malhas de chunk. UploadMesh devolve o handle residente; FreeMesh
	// libera a memória de vídeo.
	UploadMesh(geo meshing.GeometryData) (world.PhaseMesh, error)
	FreeMesh(mesh *world.PhaseMesh)
	DrawMesh(mesh *world.PhaseMesh) error

	// Estado de pipeline.
	SetProjectionMatrix(proj mgl32.Mat4)
	SetViewMatrix(view mgl32.Mat4)
	SetBlend(enabled bool)
	SetColorMask(enabled bool)
	SetCullFace(enabled bool)
	SetWireframe(enabled bool)

	// Captura de cena para pós-processamento.
	BeginSceneCapture() error
	EndSceneCapture() error
	ResolveCapture() error

	// Exportação de frame (screenshot). Falha é logada, nunca fatal.
	CaptureFrame(path string) error

	// Primitivas auxiliares (céu, overlays, partículas, entidades).
	DrawSky(daylight float32)
	DrawBox(box util.AABB, color [4]uint8)
	DrawBoxLines(box util.AABB, color [4]uint8)
	DrawGrid(slices int32, spacing float32)
	DrawPoint(pos mgl32.Vec3, size float32, color [4]uint8)
	DrawReticle()
}

// Drawable é um objeto de cena fora do sistema de chunks (partículas,
// entidades, overlays de debug) drenado pelas filas não-chunk.
type Drawable interface {
	Render(b Backend)
}
