package telemetry

import (
	"sync"
	"time"
)

// Monitor acumula marcadores de atividade (início/fim) por nome. Os
// marcadores são apenas informativos: nenhum caminho de execução muda de
// comportamento com base neles.
type Monitor struct {
	mu      sync.Mutex
	stack   []activity
	elapsed map[string]time.Duration
	counts  map[string]int64
}

type activity struct {
	name  string
	start time.Time
}

// NewMonitor cria um monitor vazio.
func NewMonitor() *Monitor {
	return &Monitor{
		elapsed: make(map[string]time.Duration),
		counts:  make(map[string]int64),
	}
}

// StartActivity abre um marcador. Marcadores podem aninhar.
func (m *Monitor) StartActivity(name string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.stack = append(m.stack, activity{name: name, start: time.Now()})
	m.mu.Unlock()
}

// EndActivity fecha o marcador mais recente e acumula a duração.
func (m *Monitor) EndActivity() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.stack) == 0 {
		return
	}
	top := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	m.elapsed[top.name] += time.Since(top.start)
	m.counts[top.name]++
}

// Snapshot retorna os tempos acumulados (em milissegundos) por atividade
// e zera os acumuladores.
func (m *Monitor) Snapshot() map[string]float64 {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]float64, len(m.elapsed))
	for name, d := range m.elapsed {
		out[name] = float64(d.Microseconds()) / 1000.0
	}
	m.elapsed = make(map[string]time.Duration)
	m.counts = make(map[string]int64)
	return out
}
