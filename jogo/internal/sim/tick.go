package sim

// TickCoordinator converte o tempo de parede em ticks de simulação. O
// contador de animação avança a cada chamada; os ganchos de segundo e de
// dez segundos disparam pelo relógio, independente da taxa de frames.
type TickCoordinator struct {
	lastTickMs int64
	tickTock   int64
	animTick   int64

	everySecond     []func()
	everyTenSeconds []func()
}

// NewTickCoordinator cria o coordenador ancorado em startMs. O primeiro
// tick dispara na primeira chamada com um segundo ou mais de distância
// da âncora.
func NewTickCoordinator(startMs int64) *TickCoordinator {
	return &TickCoordinator{lastTickMs: startMs}
}

// OnSecond registra um gancho disparado uma vez por segundo.
func (t *TickCoordinator) OnSecond(fn func()) {
	t.everySecond = append(t.everySecond, fn)
}

// OnTenSeconds registra um gancho disparado a cada dez segundos.
func (t *TickCoordinator) OnTenSeconds(fn func()) {
	t.everyTenSeconds = append(t.everyTenSeconds, fn)
}

// AdvanceTick avança os relógios de simulação. nowMs é tempo de parede
// em milissegundos; atrasos maiores que um segundo disparam um único
// tick, nunca uma rajada de recuperação.
func (t *TickCoordinator) AdvanceTick(nowMs int64) {
	t.animTick++

	if nowMs-t.lastTickMs >= 1000 {
		t.lastTickMs = nowMs
		t.tickTock++

		for _, fn := range t.everySecond {
			fn()
		}
		if t.tickTock%10 == 0 {
			for _, fn := range t.everyTenSeconds {
				fn()
			}
		}
	}
}

// AnimationTick retorna o contador por chamada, usado em animações.
func (t *TickCoordinator) AnimationTick() int64 { return t.animTick }

// TickTock retorna o contador de segundos de simulação.
func (t *TickCoordinator) TickTock() int64 { return t.tickTock }
