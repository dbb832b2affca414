// Package async implementa o modelo cooperativo do cliente: trabalho bloqueante
// (download, decodificação, disco) roda em goroutines limitadas e as continuações
// voltam para a thread lógica única, que as executa em Drain a cada frame.
package async

import (
	"context"
	"log"
	"sync"

	"github.com/remeh/sizedwaitgroup"
	"github.com/sasha-s/go-deadlock"
)

// Loop é a caixa de entrada de continuações da thread principal.
type Loop struct {
	mu    deadlock.Mutex
	inbox []func()

	workers  sizedwaitgroup.SizedWaitGroup
	inflight sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

// NewLoop cria um loop com no máximo `workers` tarefas de fundo simultâneas.
func NewLoop(workers int) *Loop {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Loop{
		workers: sizedwaitgroup.New(workers),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Context é cancelado quando o loop é fechado.
func (l *Loop) Context() context.Context {
	return l.ctx
}

// Post agenda fn para o próximo Drain. Seguro para qualquer goroutine.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.inbox = append(l.inbox, fn)
	l.mu.Unlock()
}

// Go executa work em segundo plano sem nunca bloquear quem chama.
func (l *Loop) Go(work func(ctx context.Context)) {
	l.inflight.Add(1)
	go func() {
		defer l.inflight.Done()
		l.workers.Add()
		defer l.workers.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[PANIC] Erro em tarefa de fundo: %v", r)
			}
		}()
		work(l.ctx)
	}()
}

// Run executa work em segundo plano e entrega o resultado a then na thread principal.
func Run[T any](l *Loop, work func(ctx context.Context) (T, error), then func(T, error)) {
	l.Go(func(ctx context.Context) {
		v, err := work(ctx)
		l.Post(func() { then(v, err) })
	})
}

// Drain executa as continuações pendentes e retorna quantas rodaram.
// Continuações agendadas durante o Drain ficam para a próxima chamada.
func (l *Loop) Drain() int {
	l.mu.Lock()
	batch := l.inbox
	l.inbox = nil
	l.mu.Unlock()

	for _, fn := range batch {
		runIsolated(fn)
	}
	return len(batch)
}

// Pending retorna o número de continuações aguardando Drain.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.inbox)
}

// Wait bloqueia até todas as tarefas de fundo terminarem. Não usar no frame loop.
func (l *Loop) Wait() {
	l.inflight.Wait()
}

// Close cancela o contexto das tarefas e aguarda o término delas.
func (l *Loop) Close() {
	l.cancel()
	l.inflight.Wait()
}

func runIsolated(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] Erro em continuação: %v", r)
		}
	}()
	fn()
}
