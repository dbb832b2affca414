package entities

import (
	"image/color"

	"VoxelView/shared/util"

	"github.com/go-gl/mathgl/mgl32"
)

// TweenDuration é a duração de cada interpolação de posição e yaw, em segundos.
const TweenDuration = 0.120

// damageDuration é o tempo para a cor vermelha de dano voltar ao normal.
const damageDuration = 0.5

// vecTween interpola linearmente entre dois vetores.
type vecTween struct {
	from, to mgl32.Vec3
	elapsed  float32
	active   bool
}

// start recomeça a interpolação a partir de from.
func (t *vecTween) start(from, to mgl32.Vec3) {
	t.from, t.to = from, to
	t.elapsed = 0
	t.active = true
}

// sample retorna o valor atual sem avançar.
func (t *vecTween) sample() mgl32.Vec3 {
	if !t.active {
		return t.to
	}
	return util.LerpVec(t.from, t.to, t.elapsed/TweenDuration)
}

// advance soma dt e retorna o valor atual. Ao atingir a duração, fixa no alvo.
func (t *vecTween) advance(dt float32) mgl32.Vec3 {
	if !t.active {
		return t.to
	}
	t.elapsed += dt
	if t.elapsed >= TweenDuration {
		t.active = false
		return t.to
	}
	return t.sample()
}

// yawTween interpola o yaw pelo menor caminho angular.
type yawTween struct {
	from, to float32
	elapsed  float32
	active   bool
}

// start inicia a rotação de current até target, com delta normalizado em (-π, π].
func (t *yawTween) start(current, target float32) {
	delta := float32(util.NormalizeAngle(float64(target - current)))
	t.from = current
	t.to = current + delta
	t.elapsed = 0
	t.active = true
}

func (t *yawTween) sample() float32 {
	if !t.active {
		return t.to
	}
	return util.Lerp(t.from, t.to, t.elapsed/TweenDuration)
}

func (t *yawTween) advance(dt float32) float32 {
	if !t.active {
		return t.to
	}
	t.elapsed += dt
	if t.elapsed >= TweenDuration {
		t.active = false
		return t.to
	}
	return t.sample()
}

// tintTween leva a cor de vermelho de volta a branco.
type tintTween struct {
	elapsed float32
	active  bool
}

func (t *tintTween) start() {
	t.elapsed = 0
	t.active = true
}

func (t *tintTween) advance(dt float32) color.NRGBA {
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	if !t.active {
		return white
	}
	t.elapsed += dt
	if t.elapsed >= damageDuration {
		t.active = false
		return white
	}
	k := t.elapsed / damageDuration
	gb := uint8(255 * k)
	return color.NRGBA{R: 255, G: gb, B: gb, A: 255}
}
