package entities

import (
	"math"
)

// Mode é o modo de animação de um humanoide.
type Mode string

const (
	ModeIdle     Mode = "idle"
	ModeWalking  Mode = "walking"
	ModeRunning  Mode = "running"
	ModeOneSwing Mode = "oneSwing"
)

// Limiares de velocidade horizontal média (blocos por tick).
const (
	walkingSpeed   = 0.03
	sprintingSpeed = 0.18
)

// Animation atualiza a pose de um jogador a cada frame.
type Animation interface {
	Update(p *PlayerModel, dt float32)
}

// WalkingSwing é a animação persistente dos jogadores: andar/correr como
// estado contínuo e o golpe do braço como sobreposição transitória.
type WalkingSwing struct {
	Moving  bool
	Running bool

	progress float32
	swing    float32 // Tempo decorrido do golpe
	swinging bool
}

const swingDuration = 0.3

// SetMode aplica um modo persistente. Repetir o mesmo modo não muda nada.
func (a *WalkingSwing) SetMode(m Mode) {
	a.Moving = m != ModeIdle
	a.Running = m == ModeRunning
}

// SwingArm inicia um golpe do braço sem alterar o estado persistente.
func (a *WalkingSwing) SwingArm() {
	a.swinging = true
	a.swing = 0
}

// Swinging informa se há um golpe em andamento.
func (a *WalkingSwing) Swinging() bool {
	return a.swinging
}

// Update implementa Animation.
func (a *WalkingSwing) Update(p *PlayerModel, dt float32) {
	var amp, speed float32
	switch {
	case a.Running:
		amp, speed = 1.0, 12
	case a.Moving:
		amp, speed = 0.6, 8
	}
	if amp == 0 {
		a.progress = 0
	} else {
		a.progress += dt * speed
	}
	phase := float32(math.Sin(float64(a.progress))) * amp

	p.RightLeg.Rotation[0] = phase
	p.LeftLeg.Rotation[0] = -phase
	p.LeftArm.Rotation[0] = phase
	p.RightArm.Rotation[0] = -phase

	if a.swinging {
		a.swing += dt
		if a.swing >= swingDuration {
			a.swinging = false
		} else {
			k := a.swing / swingDuration
			p.RightArm.Rotation[0] -= float32(math.Sin(float64(k)*math.Pi)) * 1.2
		}
	}
}

// PlayAnimation aplica um modo à animação do jogador id. oneSwing exige uma
// animação WalkingSwing e entra em pânico caso contrário.
func (s *Synchronizer) PlayAnimation(id int32, mode Mode) {
	v, ok := s.visuals.Get(id)
	if !ok || v.Player == nil {
		return
	}
	if mode == ModeOneSwing {
		swing, ok := v.Player.Animation.(*WalkingSwing)
		if !ok {
			panic("entities: oneSwing requer animação WalkingSwing")
		}
		swing.SwingArm()
		return
	}
	if swing, ok := v.Player.Animation.(*WalkingSwing); ok {
		swing.SetMode(mode)
	}
}

// ModeForSpeed classifica a velocidade horizontal média.
func ModeForSpeed(vx, vz float64) Mode {
	walking := math.Abs(vx) > walkingSpeed || math.Abs(vz) > walkingSpeed
	sprinting := math.Abs(vx) > sprintingSpeed || math.Abs(vz) > sprintingSpeed
	switch {
	case !walking:
		return ModeIdle
	case sprinting:
		return ModeRunning
	}
	return ModeWalking
}

// ObserveSpeed aplica o modo correspondente à velocidade, chamando
// PlayAnimation apenas quando o modo muda.
func (s *Synchronizer) ObserveSpeed(id int32, vx, vz float64) {
	v, ok := s.visuals.Get(id)
	if !ok || v.Player == nil {
		return
	}
	mode := ModeForSpeed(vx, vz)
	if s.speedModes[id] == mode {
		return
	}
	s.speedModes[id] = mode
	s.PlayAnimation(id, mode)
}
