package camera

import (
	"math"

	"VoxelTerra/shared/util"

	"github.com/go-gl/mathgl/mgl32"
)

// EyeHeight é a altura do ponto de visão acima da posição do observador.
const EyeHeight float32 = 1.7

// Camera é o observador em primeira pessoa: posição, orientação e os
// parâmetros de projeção de onde o frustum é derivado.
type Camera struct {
	Position mgl32.Vec3
	Yaw      float32 // Rotação horizontal em radianos
	Pitch    float32 // Elevação em radianos

	FovY   float32 // Graus
	Aspect float32
	Near   float32
	Far    float32
}

// New cria uma câmera com os parâmetros de projeção dados.
func New(fovY, aspect float32) *Camera {
	return &Camera{
		FovY:   fovY,
		Aspect: aspect,
		Near:   0.1,
		Far:    512.0,
	}
}

// Eye retorna o ponto de visão (posição + altura dos olhos).
func (c *Camera) Eye() mgl32.Vec3 {
	return c.Position.Add(mgl32.Vec3{0, EyeHeight, 0})
}

// Forward retorna o vetor de direção do olhar.
func (c *Camera) Forward() mgl32.Vec3 {
	cy := float32(math.Cos(float64(c.Yaw)))
	sy := float32(math.Sin(float64(c.Yaw)))
	cp := float32(math.Cos(float64(c.Pitch)))
	sp := float32(math.Sin(float64(c.Pitch)))
	return mgl32.Vec3{cy * cp, sp, sy * cp}.Normalize()
}

// Right retorna o vetor lateral projetado no plano do chão.
func (c *Camera) Right() mgl32.Vec3 {
	f := c.Forward()
	flat := mgl32.Vec3{f.X(), 0, f.Z()}
	if flat.Len() == 0 {
		return mgl32.Vec3{1, 0, 0}
	}
	return flat.Normalize().Cross(mgl32.Vec3{0, 1, 0}).Mul(-1)
}

// Rotate aplica deltas de yaw/pitch, limitando a elevação para a câmera
// não virar de ponta cabeça.
func (c *Camera) Rotate(dYaw, dPitch float32) {
	c.Yaw += dYaw
	c.Pitch += dPitch

	limit := float32(89.0 * math.Pi / 180.0)
	if c.Pitch > limit {
		c.Pitch = limit
	}
	if c.Pitch < -limit {
		c.Pitch = -limit
	}
}

// ProjectionMatrix retorna a matriz de projeção em perspectiva.
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FovY), c.Aspect, c.Near, c.Far)
}

// ViewMatrix retorna a transformação completa da câmera.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	eye := c.Eye()
	return mgl32.LookAtV(eye, eye.Add(c.Forward()), mgl32.Vec3{0, 1, 0})
}

// ViewMatrixNormalized retorna a variante sem translação, usada para
// desenhar o céu: ele acompanha a rotação do olhar mas nunca se afasta.
func (c *Camera) ViewMatrixNormalized() mgl32.Mat4 {
	origin := mgl32.Vec3{0, 0, 0}
	return mgl32.LookAtV(origin, c.Forward(), mgl32.Vec3{0, 1, 0})
}

// Frustum deriva o frustum atual da câmera. Deve ser chamado uma vez por
// frame e reutilizado para todos os testes de visibilidade.
func (c *Camera) Frustum() Frustum {
	return NewFrustum(c.ProjectionMatrix().Mul4(c.ViewMatrix()))
}

// ChunkCoord retorna a coordenada do chunk em que o observador está.
func (c *Camera) ChunkCoord() util.ChunkCoord {
	return util.ChunkCoordAt(float64(c.Position.X()), float64(c.Position.Z()))
}
