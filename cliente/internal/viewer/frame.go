package viewer

import (
	"log"
	"time"
)

// Frame avança um quadro: executa o flush vencido, roda as continuações
// assíncronas, avança interpolações e recalcula a visibilidade. Nunca bloqueia.
func (v *Viewer) Frame(dt float32) {
	v.World.Poll(v.clock.Now())
	if v.loop != nil {
		v.loop.Drain()
	}

	v.Entities.Advance(dt)

	if pos, ok := v.World.ViewerPosition(); ok {
		v.Entities.UpdateVisibility(pos, v.World.Finished)
		v.World.UpdateChunkVisibility()
	}
}

// DrainEvents aplica eventos do canal até esvaziá-lo ou estourar o orçamento
// de tempo. Pelo menos um evento é aplicado se houver algum pendente. Erros são
// registrados e não interrompem a drenagem.
func (v *Viewer) DrainEvents(events <-chan Event, budget time.Duration) (applied, failed int) {
	deadline := v.clock.Now().Add(budget)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return applied, failed
			}
			if err := v.Dispatch(ev); err != nil {
				log.Printf("[Viewer] Evento %T rejeitado: %v", ev, err)
				failed++
			} else {
				applied++
			}
			if !v.clock.Now().Before(deadline) {
				return applied, failed
			}
		default:
			return applied, failed
		}
	}
}
