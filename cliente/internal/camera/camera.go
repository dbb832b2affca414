// Package camera controla a câmera orbital do viewer: segue a posição do
// observador recebida do jogo ou fica livre enquanto o usuário a move.
package camera

import (
	"math"

	"VoxelView/shared/util"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// Mode define quem controla o alvo da câmera.
type Mode int

const (
	ModeFollow Mode = iota // Alvo = posição do observador
	ModeFree               // Alvo movido por WASD
)

func (m Mode) String() string {
	if m == ModeFree {
		return "livre"
	}
	return "seguindo"
}

// Controller gerencia a movimentação suave da câmera.
type Controller struct {
	RLCamera rl.Camera3D
	Mode     Mode

	MinZoom      float32
	MaxZoom      float32
	MoveSpeed    float32
	RotateSpeed  float32
	ZoomSpeed    float32
	SmoothFactor float32 // 0.0 a 1.0 (quanto menor, mais suave)
	FollowLerp   float32

	// Estado alvo
	TargetLookAt mgl32.Vec3
	TargetZoom   float32
	AngleY       float32 // Azimute (radianos)
	AngleX       float32 // Elevação (radianos, negativa olha para baixo)

	// Estado interpolado
	CurrentLookAt mgl32.Vec3
	CurrentZoom   float32

	observer    mgl32.Vec3
	hasObserver bool
}

// New cria a câmera com o campo de visão em graus.
func New(fov, followLerp float32) *Controller {
	c := &Controller{
		Mode:         ModeFollow,
		MinZoom:      3.0,
		MaxZoom:      300.0,
		MoveSpeed:    30.0,
		RotateSpeed:  2.0,
		ZoomSpeed:    4.0,
		SmoothFactor: 0.15,
		FollowLerp:   followLerp,

		TargetZoom: 24.0,
		AngleY:     util.DegToRad(45),
		AngleX:     util.DegToRad(-35),
	}
	c.CurrentZoom = c.TargetZoom
	c.RLCamera = rl.Camera3D{
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       fov,
		Projection: rl.CameraPerspective,
	}
	c.place()
	return c
}

// SetObserver recebe a posição do observador. Em modo Follow o alvo passa a ser ela.
func (c *Controller) SetObserver(pos mgl32.Vec3) {
	first := !c.hasObserver
	c.observer, c.hasObserver = pos, true
	if c.Mode != ModeFollow {
		return
	}
	c.TargetLookAt = pos
	if first {
		c.CurrentLookAt = pos
		c.place()
	}
}

// ResetFollow volta a seguir o observador.
func (c *Controller) ResetFollow() {
	c.Mode = ModeFollow
	if c.hasObserver {
		c.TargetLookAt = c.observer
	}
}

// Position retorna a posição atual da câmera no mundo.
func (c *Controller) Position() mgl32.Vec3 {
	p := c.RLCamera.Position
	return mgl32.Vec3{p.X, p.Y, p.Z}
}

// Update interpola alvo e zoom. Deve ser chamado a cada frame.
func (c *Controller) Update(dt float32) {
	smooth := c.SmoothFactor
	if c.Mode == ModeFollow && c.FollowLerp > 0 {
		smooth = c.FollowLerp
	}
	factor := util.Clamp01(smooth * 60.0 * dt) // Normaliza para 60 FPS

	c.CurrentLookAt = util.LerpVec(c.CurrentLookAt, c.TargetLookAt, factor)
	c.CurrentZoom = util.Lerp(c.CurrentZoom, c.TargetZoom, factor)
	c.place()
}

// place recalcula a posição a partir dos ângulos e do zoom atuais.
func (c *Controller) place() {
	cosX := float32(math.Cos(float64(c.AngleX)))
	sinX := float32(math.Sin(float64(c.AngleX)))
	cosY := float32(math.Cos(float64(c.AngleY)))
	sinY := float32(math.Sin(float64(c.AngleY)))

	dist := c.CurrentZoom
	offset := mgl32.Vec3{dist * cosX * sinY, dist * -sinX, dist * cosX * cosY}
	pos := c.CurrentLookAt.Add(offset)

	c.RLCamera.Position = rl.Vector3{X: pos.X(), Y: pos.Y(), Z: pos.Z()}
	c.RLCamera.Target = rl.Vector3{X: c.CurrentLookAt.X(), Y: c.CurrentLookAt.Y(), Z: c.CurrentLookAt.Z()}
}

// HandleInput processa mouse e teclado. Mover com WASD solta a câmera do observador.
func (c *Controller) HandleInput(dt float32) bool {
	moved := false
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		moved = true
		c.TargetZoom -= wheel * c.ZoomSpeed
		c.TargetZoom = float32(math.Max(float64(c.MinZoom), math.Min(float64(c.MaxZoom), float64(c.TargetZoom))))
	}

	// Rotação com botão esquerdo (órbita)
	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		delta := rl.GetMouseDelta()
		if delta.X != 0 || delta.Y != 0 {
			moved = true
		}
		c.AngleY -= delta.X * c.RotateSpeed * 0.005
		c.AngleX -= delta.Y * c.RotateSpeed * 0.005

		// Entre -89 graus (topo) e 10 graus (quase horizonte)
		c.AngleX = float32(math.Max(float64(util.DegToRad(-89)), math.Min(float64(util.DegToRad(10)), float64(c.AngleX))))
	}

	// Frente e direita projetadas no plano XZ
	forward := c.TargetLookAt.Sub(c.Position())
	forward[1] = 0
	if forward.Len() == 0 {
		return moved
	}
	forward = forward.Normalize()
	right := forward.Cross(mgl32.Vec3{0, 1, 0}).Normalize()

	var move mgl32.Vec3
	if rl.IsKeyDown(rl.KeyW) {
		move = move.Add(forward)
	}
	if rl.IsKeyDown(rl.KeyS) {
		move = move.Sub(forward)
	}
	if rl.IsKeyDown(rl.KeyD) {
		move = move.Add(right)
	}
	if rl.IsKeyDown(rl.KeyA) {
		move = move.Sub(right)
	}
	if rl.IsKeyDown(rl.KeySpace) {
		move = move.Add(mgl32.Vec3{0, 1, 0})
	}
	if rl.IsKeyDown(rl.KeyLeftShift) {
		move = move.Sub(mgl32.Vec3{0, 1, 0})
	}

	if move.Len() > 0 {
		speed := c.MoveSpeed * (c.CurrentZoom / 24.0) * dt
		c.TargetLookAt = c.TargetLookAt.Add(move.Normalize().Mul(speed))
		c.Mode = ModeFree
		moved = true
	}
	return moved
}
