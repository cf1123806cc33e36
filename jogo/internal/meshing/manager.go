package meshing

import (
	"log"
	"sync"

	"VoxelTerra/shared/util"
	"VoxelTerra/shared/world"
)

// UpdateType classifica um pedido de reconstrução de malha.
type UpdateType int

const (
	UpdateDefault UpdateType = iota
	UpdatePriority
)

// Manager administra as reconstruções assíncronas de malha. Mantém no
// máximo um pedido em voo por chunk e recusa admissões novas quando o
// total pendente atinge o limite configurado — recusa é controle de
// fluxo, não erro: o chamador tenta de novo no próximo ciclo.
type Manager struct {
	requests chan request
	results  chan Result
	stop     chan struct{}

	mu             sync.Mutex
	pending        map[util.ChunkCoord]bool
	maxOutstanding int
}

type request struct {
	chunk *world.Chunk
	typ   UpdateType
}

// NewManager cria o gerenciador e inicia o pool de workers.
func NewManager(workers, maxOutstanding int) *Manager {
	if workers <= 0 {
		workers = 1
	}
	if maxOutstanding <= 0 {
		maxOutstanding = 16
	}
	m := &Manager{
		requests:       make(chan request, maxOutstanding),
		results:        make(chan Result, maxOutstanding),
		stop:           make(chan struct{}),
		pending:        make(map[util.ChunkCoord]bool),
		maxOutstanding: maxOutstanding,
	}

	for i := 0; i < workers; i++ {
		go m.worker()
	}

	return m
}

// QueueChunkUpdate solicita a reconstrução da malha de um chunk.
// Retorna false quando o chunk já tem pedido em voo (o pedido existente
// cobre a edição, já que o snapshot é tirado no worker) ou quando o
// limite de pendências foi atingido.
func (m *Manager) QueueChunkUpdate(c *world.Chunk, typ UpdateType) bool {
	m.mu.Lock()
	if m.pending[c.Coord] {
		m.mu.Unlock()
		return false
	}
	if len(m.pending) >= m.maxOutstanding {
		m.mu.Unlock()
		return false
	}
	m.pending[c.Coord] = true
	m.mu.Unlock()

	select {
	case m.requests <- request{chunk: c, typ: typ}:
		return true
	default:
		// Fila cheia: desfaz a marcação para tentar no próximo frame.
		m.mu.Lock()
		delete(m.pending, c.Coord)
		m.mu.Unlock()
		return false
	}
}

// Results expõe o canal de geometrias concluídas, consumido pelo thread
// principal.
func (m *Manager) Results() <-chan Result {
	return m.results
}

// Complete encerra a pendência de um resultado já instalado. Deve ser
// chamado pelo thread principal depois do upload; só então o chunk pode
// admitir um novo pedido.
func (m *Manager) Complete(res Result) {
	m.mu.Lock()
	delete(m.pending, res.Coord)
	m.mu.Unlock()
}

// Outstanding retorna o número de pedidos em voo.
func (m *Manager) Outstanding() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Pending verifica se um chunk tem pedido em voo.
func (m *Manager) Pending(coord util.ChunkCoord) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending[coord]
}

// Stop encerra os workers. Pedidos em voo são descartados.
func (m *Manager) Stop() {
	close(m.stop)
}

func (m *Manager) worker() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Mesher] PANIC em worker: %v", r)
		}
	}()

	for {
		select {
		case req := <-m.requests:
			// Snapshot copy-on-read: o worker nunca lê a grade viva,
			// então edições concorrentes só marcam dirty de novo.
			blocks, mtime := req.chunk.SnapshotBlocks()
			res := Result{
				Coord:    req.chunk.Coord,
				Chunk:    req.chunk,
				MTime:    mtime,
				Type:     req.typ,
				Geometry: BuildChunkGeometry(req.chunk.Coord, blocks),
			}

			select {
			case m.results <- res:
			case <-m.stop:
				return
			}
		case <-m.stop:
			return
		}
	}
}
