package sim

// CuePlayer toca um aviso sonoro identificado por nome. Disparo sem
// retorno: falha de áudio nunca afeta a simulação.
type CuePlayer interface {
	PlayCue(name string)
}

// WorldTimeEvent dispara quando o tempo normalizado do dia cruza o
// limiar. Eventos repetíveis rearmam quando o relógio dá a volta.
type WorldTimeEvent struct {
	Threshold float64
	Repeat    bool
	Cue       string

	fired bool
}

// TimeEvents avalia a tabela de eventos de hora do mundo contra o tempo
// normalizado do dia a cada chamada.
type TimeEvents struct {
	player   CuePlayer
	events   []*WorldTimeEvent
	lastTime float64
	hasTime  bool
}

// NewTimeEvents cria o avaliador com a tabela padrão: um aviso em cada
// transição do dia. Os nomes correspondem aos cues do pacote de áudio.
func NewTimeEvents(player CuePlayer) *TimeEvents {
	return &TimeEvents{
		player: player,
		events: []*WorldTimeEvent{
			{Threshold: 0.02, Repeat: true, Cue: "madrugada"},
			{Threshold: 0.22, Repeat: true, Cue: "alvorada"},
			{Threshold: 0.27, Repeat: true, Cue: "amanhecer"},
			{Threshold: 0.50, Repeat: true, Cue: "tarde"},
			{Threshold: 0.75, Repeat: true, Cue: "entardecer"},
			{Threshold: 0.88, Repeat: true, Cue: "noite"},
		},
	}
}

// AddEvent registra um evento adicional.
func (te *TimeEvents) AddEvent(ev *WorldTimeEvent) {
	te.events = append(te.events, ev)
}

// Fire avalia a tabela contra o tempo do dia em [0, 1). Cada evento
// dispara uma vez por cruzamento do limiar; a volta do relógio (tempo
// menor que o anterior) rearma os eventos repetíveis.
func (te *TimeEvents) Fire(timeOfDay float64) {
	if !te.hasTime {
		// Primeira avaliação: arma sem tocar, senão todo limiar já
		// passado dispararia em rajada na carga do mundo.
		for _, ev := range te.events {
			if timeOfDay >= ev.Threshold {
				ev.fired = true
			}
		}
		te.lastTime = timeOfDay
		te.hasTime = true
		return
	}

	if timeOfDay < te.lastTime {
		for _, ev := range te.events {
			if ev.Repeat {
				ev.fired = false
			}
		}
	}
	te.lastTime = timeOfDay

	for _, ev := range te.events {
		if !ev.fired && timeOfDay >= ev.Threshold {
			ev.fired = true
			if te.player != nil {
				te.player.PlayCue(ev.Cue)
			}
		}
	}
}
