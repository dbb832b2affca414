package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// update atualiza a lógica a cada frame: entrada, eventos da rede, quadro do
// viewer e câmera, nesta ordem.
func (a *App) update() {
	a.frameCount++
	dt := rl.GetFrameTime()
	a.frameTimes.Push(dt)

	a.updateInput()
	a.Cam.HandleInput(dt)

	a.pumpEvents()
	a.viewer.Frame(dt)

	if pos, ok := a.viewer.World.ViewerPosition(); ok {
		a.Cam.SetObserver(pos)
	}
	a.Cam.Update(dt)
}
