package app

import (
	"log"
	"time"

	"VoxelView/cliente/internal/client"
	"VoxelView/cliente/internal/viewer"
)

// reconnectDelay é a espera antes de uma nova rodada de tentativas.
const reconnectDelay = 5 * time.Second

// connectServer conecta à ponte do protocolo em segundo plano. A troca de
// a.net e o reset do mundo acontecem na thread principal via loop.Post.
func (a *App) connectServer() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] Erro em connectServer: %v", r)
		}
	}()

	for a.ctx.Err() == nil {
		c := client.NewNetworkClient(a.Config.ServerURL, client.DefaultOptions())
		c.OnDisconnect = func(err error) {
			a.connected.Store(false)
			log.Printf("[Network] Conexão perdida: %v", err)
			a.loop.Post(func() { a.onDisconnect(c) })
		}

		if err := c.Connect(a.ctx); err != nil {
			log.Printf("[Server] Erro ao conectar: %v", err)
			select {
			case <-a.ctx.Done():
				return
			case <-time.After(reconnectDelay):
			}
			continue
		}

		log.Println("[Network] Conectado à ponte do VoxelView!")
		a.connected.Store(true)
		a.loop.Post(func() { a.net = c })
		return
	}
}

// onDisconnect descarta o mundo e agenda a reconexão. Roda na thread principal.
func (a *App) onDisconnect(c *client.NetworkClient) {
	if a.net != c {
		return
	}
	a.net = nil
	c.Close()
	if err := a.viewer.Dispatch(viewer.Reset{}); err != nil {
		log.Printf("[App] Erro ao descartar o mundo: %v", err)
	}
	if a.ctx.Err() == nil {
		go a.connectServer()
	}
}

// pumpEvents aplica os eventos pendentes dentro do orçamento do frame.
func (a *App) pumpEvents() {
	if a.net == nil {
		return
	}
	_, failed := a.viewer.DrainEvents(a.net.Events(), eventBudget)
	a.lastEventErrs += failed
}
