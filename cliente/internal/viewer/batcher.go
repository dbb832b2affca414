package viewer

import (
	"time"

	"VoxelView/shared/util"
)

// Clock fornece o tempo atual. Os testes usam um relógio manual.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock é o relógio real.
var SystemClock Clock = systemClock{}

// loadRequest é um pedido de carga pendente na janela.
type loadRequest struct {
	key       util.ChunkKey
	lightOnly bool
}

// Batcher agrupa pedidos de carga de chunks numa janela de tempo. Existe no
// máximo uma janela aberta; pedidos durante a janela só são anexados.
type Batcher struct {
	wait     time.Duration
	pending  []loadRequest
	deadline time.Time
	open     bool

	deferred []func()
}

// NewBatcher cria um agrupador com a janela indicada.
func NewBatcher(wait time.Duration) *Batcher {
	if wait < 0 {
		wait = 0
	}
	return &Batcher{wait: wait}
}

// Add anexa um pedido e abre a janela se nenhuma estiver aberta.
func (b *Batcher) Add(now time.Time, key util.ChunkKey, lightOnly bool) {
	b.pending = append(b.pending, loadRequest{key: key, lightOnly: lightOnly})
	if !b.open {
		b.open = true
		b.deadline = now.Add(b.wait)
	}
}

// Defer agenda fn para depois do próximo flush.
func (b *Batcher) Defer(fn func()) {
	b.deferred = append(b.deferred, fn)
}

// Open informa se há uma janela aberta.
func (b *Batcher) Open() bool {
	return b.open
}

// Pending retorna quantos pedidos aguardam o flush.
func (b *Batcher) Pending() int {
	return len(b.pending)
}

// Due informa se a janela aberta já venceu.
func (b *Batcher) Due(now time.Time) bool {
	return b.open && !now.Before(b.deadline)
}

// Take fecha a janela vencida e retorna os pedidos na ordem de chegada.
// Retorna nil se a janela não venceu.
func (b *Batcher) Take(now time.Time) []loadRequest {
	if !b.Due(now) {
		return nil
	}
	batch := b.pending
	b.pending = nil
	b.open = false
	return batch
}

// TakeDeferred retorna as funções adiadas até agora e esvazia a fila. Funções
// adiadas durante a execução ficam para o próximo flush.
func (b *Batcher) TakeDeferred() []func() {
	fns := b.deferred
	b.deferred = nil
	return fns
}

// Drop remove os pedidos pendentes de uma coluna.
func (b *Batcher) Drop(key util.ChunkKey) {
	kept := b.pending[:0]
	for _, r := range b.pending {
		if r.key != key {
			kept = append(kept, r)
		}
	}
	b.pending = kept
}

// Reset descarta pedidos, janela e funções adiadas.
func (b *Batcher) Reset() {
	b.pending = nil
	b.open = false
	b.deferred = nil
}
