package audio

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(48000)

// cue descreve um toque ambiente: sequência de frequências e duração por
// nota. Tudo gerado em runtime; não há arquivos de áudio.
type cue struct {
	freqs  []float64
	noteMs int
}

// Tabela de toques de ambiente disparados pelos eventos de hora do dia.
var cues = map[string]cue{
	"amanhecer":  {freqs: []float64{261.6, 329.6, 392.0, 523.3}, noteMs: 400},
	"tarde":      {freqs: []float64{392.0, 440.0, 523.3}, noteMs: 350},
	"entardecer": {freqs: []float64{523.3, 392.0, 329.6}, noteMs: 450},
	"noite":      {freqs: []float64{220.0, 196.0, 164.8}, noteMs: 600},
	"madrugada":  {freqs: []float64{164.8, 146.8, 130.8}, noteMs: 700},
	"alvorada":   {freqs: []float64{196.0, 246.9, 293.7}, noteMs: 500},
}

// Player toca cues nomeados em um mixer compartilhado. PlayCue é
// fire-and-forget: nomes desconhecidos só geram log.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool
}

// NewPlayer cria um player desligado; Initialize liga o speaker.
func NewPlayer(volume float64) *Player {
	return &Player{
		mixer:  &beep.Mixer{},
		volume: volume,
	}
}

// Initialize abre o dispositivo de áudio. Falha desliga o player em vez
// de derrubar o jogo.
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// PlayCue toca um cue nomeado. Sem retorno: falhas são internas.
func (p *Player) PlayCue(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}

	c, ok := cues[name]
	if !ok {
		log.Printf("[Audio] Cue desconhecido: %q", name)
		return
	}

	speaker.Lock()
	p.mixer.Add(newCueStreamer(c, p.volume))
	speaker.Unlock()
}

// Cleanup silencia o mixer.
func (p *Player) Cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}

// cueStreamer gera a sequência de notas de um cue com envelope senoidal
// por nota, para não dar cliques na transição.
type cueStreamer struct {
	cue     cue
	volume  float64
	pos     int
	perNote int
	total   int
}

func newCueStreamer(c cue, volume float64) *cueStreamer {
	perNote := sampleRate.N(time.Duration(c.noteMs) * time.Millisecond)
	return &cueStreamer{
		cue:     c,
		volume:  volume,
		perNote: perNote,
		total:   perNote * len(c.freqs),
	}
}

func (s *cueStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if s.pos >= s.total {
		return 0, false
	}

	for i := range samples {
		if s.pos >= s.total {
			return i, true
		}

		note := s.pos / s.perNote
		notePos := float64(s.pos%s.perNote) / float64(s.perNote)
		freq := s.cue.freqs[note]
		t := float64(s.pos) / float64(sampleRate)

		envelope := math.Sin(notePos * math.Pi)
		sample := s.volume * 0.25 * envelope * math.Sin(2*math.Pi*freq*t)

		samples[i][0] = sample
		samples[i][1] = sample
		s.pos++
	}
	return len(samples), true
}

func (s *cueStreamer) Err() error {
	return nil
}
