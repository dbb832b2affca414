package scene

import (
	"image"
	"image/color"
)

// Backend é o contrato com a camada de renderização. Todas as chamadas
// acontecem na thread do frame loop.
type Backend interface {
	UploadTexture(t *Texture)
	UploadMaterial(m *Material)
	UploadGeometry(g *Geometry)
	UploadLabel(l *Label)
	Attach(root *Node)
	Detach(root *Node)
}

// NewTexture cria e envia uma textura.
func NewTexture(b Backend, img image.Image, nearest bool) *Texture {
	bounds := img.Bounds()
	t := &Texture{
		Image:   img,
		Width:   bounds.Dx(),
		Height:  bounds.Dy(),
		Nearest: nearest,
	}
	b.UploadTexture(t)
	return t
}

// NewMaterial cria um material com cor sólida e textura opcional.
func NewMaterial(b Backend, c color.NRGBA, tex *Texture) *Material {
	m := &Material{Color: c, Texture: tex, UV: FullRect}
	if tex != nil {
		m.Transparent = true
		m.AlphaTest = 0.1
	}
	b.UploadMaterial(m)
	return m
}

// NewGeometry envia uma malha.
func NewGeometry(b Backend, g *Geometry) *Geometry {
	b.UploadGeometry(g)
	return g
}

// NewLabel cria um texto.
func NewLabel(b Backend, text string, bg color.NRGBA, opacity uint8) *Label {
	l := &Label{
		Text:        text,
		Color:       color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		Background:  bg,
		TextOpacity: opacity,
	}
	b.UploadLabel(l)
	return l
}
