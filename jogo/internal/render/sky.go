package render

import (
	"math"

	"VoxelTerra/shared/util"
)

// Skysphere controla o ciclo dia/noite. O tempo do dia é normalizado em
// [0, 1): 0.0 é meia-noite, 0.25 amanhecer, 0.5 meio-dia, 0.75 entardecer.
type Skysphere struct {
	dayLengthSec float64
	timeOfDay    float64
}

// NewSkysphere cria o céu com a duração de ciclo configurada, começando
// no meio da manhã para o mundo não nascer no escuro.
func NewSkysphere(dayLengthSec float64) *Skysphere {
	if dayLengthSec <= 0 {
		dayLengthSec = 1200.0
	}
	return &Skysphere{
		dayLengthSec: dayLengthSec,
		timeOfDay:    0.35,
	}
}

// Update avança o relógio do mundo. delta em segundos.
func (s *Skysphere) Update(delta float64) {
	s.timeOfDay += delta / s.dayLengthSec
	for s.timeOfDay >= 1.0 {
		s.timeOfDay -= 1.0
	}
}

// TimeOfDay retorna o tempo normalizado do dia em [0, 1).
func (s *Skysphere) TimeOfDay() float64 {
	return s.timeOfDay
}

// SetTimeOfDay posiciona o relógio do mundo (comando de debug).
func (s *Skysphere) SetTimeOfDay(t float64) {
	t = math.Mod(t, 1.0)
	if t < 0 {
		t += 1.0
	}
	s.timeOfDay = t
}

// Daylight retorna a intensidade da luz do dia em [0, 1], derivada da
// elevação do sol. Ruas de madrugada ficam perto de zero, meio-dia
// perto de um, com transições suaves no amanhecer e entardecer.
func (s *Skysphere) Daylight() float64 {
	elevation := math.Sin((s.timeOfDay - 0.25) * 2.0 * math.Pi)
	return util.Clamp01(elevation*1.3 + 0.15)
}

// Render desenha o céu. O chamador já deve ter aplicado a transformação
// normalizada da câmera (só rotação), para o céu nunca se afastar.
func (s *Skysphere) Render(b Backend) {
	b.DrawSky(float32(s.Daylight()))
}
