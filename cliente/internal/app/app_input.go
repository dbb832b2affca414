package app

import (
	"log"

	"VoxelView/cliente/internal/entities"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// updateInput processa atalhos de teclado gerais.
func (a *App) updateInput() {
	if rl.IsKeyPressed(rl.KeyF3) {
		a.Config.ShowDebugInfo = !a.Config.ShowDebugInfo
	}

	if rl.IsKeyPressed(rl.KeyF4) {
		a.Config.ShowEntityBoxes = !a.Config.ShowEntityBoxes
		mode := entities.DebugNone
		if a.Config.ShowEntityBoxes {
			mode = entities.DebugBasic
		}
		a.viewer.Entities.SetDebugMode(mode)
	}

	if rl.IsKeyPressed(rl.KeyF5) {
		a.showNametags = !a.showNametags
		a.viewer.Entities.TogglePlayerNametags(a.showNametags)
	}

	if rl.IsKeyPressed(rl.KeyG) {
		a.Config.ShowGrid = !a.Config.ShowGrid
	}

	// Voltar a seguir o observador
	if rl.IsKeyPressed(rl.KeyF) {
		a.Cam.ResetFollow()
	}

	if rl.IsKeyPressed(rl.KeyL) {
		a.Config.SmoothLight = !a.Config.SmoothLight
		a.viewer.World.SetSmoothLight(a.Config.SmoothLight)
		n := a.viewer.World.RerenderAll()
		log.Printf("[App] Luz suave: %v (%d chunks reconstruídos)", a.Config.SmoothLight, n)
	}

	if rl.IsKeyPressed(rl.KeyR) {
		n := a.viewer.World.RerenderAll()
		log.Printf("[App] %d chunks reenfileirados", n)
	}

	// Raio de visão com + e -
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		a.setViewDistance(a.viewer.World.ViewDistance() + 1)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		a.setViewDistance(a.viewer.World.ViewDistance() - 1)
	}

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
}

func (a *App) setViewDistance(d int32) {
	if d < 1 {
		d = 1
	}
	a.viewer.World.SetViewDistance(d)
	a.Config.ViewDistance = d
	log.Printf("[App] Raio de visão: %d chunks", d)
}
