package app

import (
	"fmt"

	"VoxelView/cliente/internal/render"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// draw renderiza a cena.
func (a *App) draw() {
	sky := a.viewer.Light.SkyLight()
	bg := render.SkyColor(sky)

	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(bg.R, bg.G, bg.B, 255))

	rl.BeginMode3D(a.Cam.RLCamera)
	if a.Config.ShowGrid {
		rl.DrawGrid(64, 1)
	}
	a.backend.Draw3D(a.Cam.RLCamera, render.FogFor(a.viewer.World.ViewDistance(), sky))
	rl.EndMode3D()

	a.backend.DrawLabels(a.Cam.RLCamera)

	if a.net == nil {
		a.drawConnecting()
	}
	a.drawHUD()

	rl.EndDrawing()
}

// drawHUD desenha a interface sobreposta.
func (a *App) drawHUD() {
	if !a.Config.ShowDebugInfo {
		return
	}

	width := int32(340)
	height := int32(270)
	x := int32(rl.GetScreenWidth()) - width - 10
	y := int32(10)

	rl.DrawRectangle(x, y, width, height, rl.NewColor(0, 0, 0, 180))
	rl.DrawRectangleLines(x, y, width, height, rl.NewColor(50, 50, 50, 255))

	fps := rl.GetFPS()
	fpsColor := rl.Green
	if fps < 30 {
		fpsColor = rl.Red
	} else if fps < 50 {
		fpsColor = rl.Yellow
	}
	rl.DrawText(fmt.Sprintf("FPS: %d", fps), x+10, y+10, 20, fpsColor)

	status, statusColor := "Offline", rl.Red
	if a.connected.Load() {
		status, statusColor = "Conectado", rl.Green
	}
	rl.DrawText(status, x+215, y+10, 20, statusColor)

	rl.DrawLine(x+10, y+35, x+width-10, y+35, rl.NewColor(100, 100, 100, 100))

	for i, line := range a.hudLines() {
		rl.DrawText(line, x+10, y+45+int32(i)*18, 14, rl.LightGray)
	}

	rl.DrawText("F3: HUD | F4: Caixas | F5: Nomes | L: Luz | F: Seguir", x+10, y+height-22, 12, rl.SkyBlue)

	title := "VoxelView v0.1.0 - Alpha"
	titleWidth := rl.MeasureText(title, 18)
	rl.DrawText(title,
		int32(rl.GetScreenWidth())-titleWidth-20, int32(rl.GetScreenHeight())-30,
		18, rl.NewColor(200, 200, 200, 150))
}

// hudLines monta as linhas de debug do HUD.
func (a *App) hudLines() []string {
	w := a.viewer.World.Stats()
	b := a.backend.Stats()
	pos := a.Cam.CurrentLookAt
	ents := a.viewer.Entities

	return []string{
		fmt.Sprintf("Frame: %.1f ms (pico %.1f ms)", a.frameTimes.Average()*1000, a.frameTimes.Max()*1000),
		fmt.Sprintf("Câmera: %s (%.1f, %.1f, %.1f)", a.Cam.Mode, pos.X(), pos.Y(), pos.Z()),
		fmt.Sprintf("Chunks: %d carregados, %d na fila", w.Loaded, w.Queued),
		fmt.Sprintf("Terminados: %d/%d (%d flushes)", w.Finished, w.Expected, w.Flushes),
		fmt.Sprintf("Raio de visão: %d | Luz do céu: %d", a.viewer.World.ViewDistance(), a.viewer.Light.SkyLight()),
		fmt.Sprintf("Entidades: %d (%d visíveis)", ents.Len(), ents.RenderingCount()),
		fmt.Sprintf("Texturas: %d | Malhas: %d | Imagens: %d", b.Textures, b.Meshes, a.images.Len()),
		fmt.Sprintf("Draw calls: %d | Rótulos: %d", b.DrawCalls, b.Labels),
		fmt.Sprintf("Eventos rejeitados: %d", a.lastEventErrs),
	}
}

// drawConnecting mostra o aviso de conexão enquanto a ponte não responde.
func (a *App) drawConnecting() {
	msg := fmt.Sprintf("Conectando a %s...", a.Config.ServerURL)
	screenWidth := int32(rl.GetScreenWidth())
	screenHeight := int32(rl.GetScreenHeight())
	msgWidth := rl.MeasureText(msg, 20)

	rl.DrawRectangle(0, screenHeight-60, screenWidth, 40, rl.NewColor(0, 0, 0, 150))
	rl.DrawText(msg, (screenWidth-msgWidth)/2, screenHeight-50, 20, rl.Gold)
}
