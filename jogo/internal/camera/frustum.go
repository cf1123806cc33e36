package camera

import (
	"VoxelTerra/shared/util"

	"github.com/go-gl/mathgl/mgl32"
)

// Frustum é o volume de visão derivado da matriz view-projection.
// O teste de interseção é conservador: feito em clip space, uma caixa só
// é descartada se todos os cantos caírem fora do mesmo plano.
type Frustum struct {
	viewProj mgl32.Mat4
}

// NewFrustum cria um frustum a partir de uma matriz view-projection.
func NewFrustum(viewProj mgl32.Mat4) Frustum {
	return Frustum{viewProj: viewProj}
}

// IntersectsAABB verifica se uma caixa alinhada aos eixos toca o volume
// de visão. Função pura; segura para chamar por chunk e por entidade em
// todo frame.
func (f Frustum) IntersectsAABB(box util.AABB) bool {
	var clip [8]mgl32.Vec4
	for i, corner := range box.Corners() {
		clip[i] = f.viewProj.Mul4x1(corner.Vec4(1))
	}

	// Um plano por vez: esquerda, direita, baixo, cima, perto, longe.
	// outside devolve true se o canto está além do plano indicado.
	planes := [6]func(v mgl32.Vec4) bool{
		func(v mgl32.Vec4) bool { return v.X() < -v.W() },
		func(v mgl32.Vec4) bool { return v.X() > v.W() },
		func(v mgl32.Vec4) bool { return v.Y() < -v.W() },
		func(v mgl32.Vec4) bool { return v.Y() > v.W() },
		func(v mgl32.Vec4) bool { return v.Z() < -v.W() },
		func(v mgl32.Vec4) bool { return v.Z() > v.W() },
	}

	for _, outside := range planes {
		allOutside := true
		for i := 0; i < 8; i++ {
			if !outside(clip[i]) {
				allOutside = false
				break
			}
		}
		if allOutside {
			return false
		}
	}
	return true
}
