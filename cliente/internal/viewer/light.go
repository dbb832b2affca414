package viewer

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidTimeOfDay é retornado para horários fora de [0, 24000).
var ErrInvalidTimeOfDay = errors.New("horário fora do intervalo [0, 24000)")

// DayLength é a duração de um dia em ticks.
const DayLength = 24000

// SkyLightAt calcula a luz do céu (0-15) para um horário.
// 15 até 6000 e a partir de 18000, descendo até 0 em 12000 e subindo de volta.
func SkyLightAt(timeOfDay int) (int, error) {
	if timeOfDay < 0 || timeOfDay >= DayLength {
		return 0, fmt.Errorf("%w: %d", ErrInvalidTimeOfDay, timeOfDay)
	}
	t := float64(timeOfDay)
	var light float64
	switch {
	case t <= 6000 || t >= 18000:
		light = 15
	case t < 12000:
		light = 15 - 15*(t-6000)/6000
	default:
		light = 15 * (t - 12000) / 6000
	}
	return int(math.Floor(light)), nil
}

// LightController acompanha o horário e avisa quando a luz inteira muda.
type LightController struct {
	skyLight int
	onChange func(level int)
}

// NewLightController começa com luz máxima.
func NewLightController(onChange func(level int)) *LightController {
	return &LightController{skyLight: 15, onChange: onChange}
}

// SkyLight retorna o nível atual.
func (c *LightController) SkyLight() int {
	return c.skyLight
}

// OnTimeUpdate aplica um novo horário. onChange só é chamado quando o nível muda.
func (c *LightController) OnTimeUpdate(timeOfDay int) error {
	level, err := SkyLightAt(timeOfDay)
	if err != nil {
		return err
	}
	if level == c.skyLight {
		return nil
	}
	c.skyLight = level
	if c.onChange != nil {
		c.onChange(level)
	}
	return nil
}
