package util

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Lerp realiza interpolação linear entre dois floats.
func Lerp(start, end, amount float32) float32 {
	return start + amount*(end-start)
}

// LerpVec interpola dois vetores componente a componente.
func LerpVec(start, end mgl32.Vec3, amount float32) mgl32.Vec3 {
	return start.Add(end.Sub(start).Mul(amount))
}

// DistSq retorna a distância quadrada entre dois vetores 3D.
func DistSq(v1, v2 mgl32.Vec3) float32 {
	d := v1.Sub(v2)
	return d.Dot(d)
}

// NormalizeAngle leva um ângulo em radianos para o intervalo (-π, π].
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// Clamp01 limita um valor ao intervalo [0, 1].
func Clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// DegToRad converte graus para radianos.
func DegToRad(deg float32) float32 {
	return deg * math.Pi / 180
}
