package assets

import (
	"image"
	"image/color"
)

// ArmModel é o formato de braço inferido da skin.
type ArmModel int

const (
	ArmClassic ArmModel = iota
	ArmSlim
)

func (m ArmModel) String() string {
	if m == ArmSlim {
		return "slim"
	}
	return "default"
}

// NormalizeSkin copia a skin para uma imagem 64x64. Skins antigas (64x32)
// ganham a perna e o braço esquerdos espelhados a partir dos direitos.
func NormalizeSkin(src image.Image) *image.NRGBA {
	b := src.Bounds()
	scale := b.Dx() / 64
	if scale < 1 {
		scale = 1
	}
	dst := image.NewNRGBA(image.Rect(0, 0, 64*scale, 64*scale))
	copyNRGBA(dst, image.Rect(0, 0, b.Dx(), b.Dy()), src, b.Min)

	if b.Dy() == b.Dx()/2 {
		// Perna esquerda <- perna direita, braço esquerdo <- braço direito.
		copyMirrored(dst, 0, 16, 16, 48, scale)
		copyMirrored(dst, 40, 16, 32, 48, scale)
	}
	return dst
}

// copyMirrored espelha horizontalmente o membro de 16x16 em (sx,sy) para (dx,dy).
func copyMirrored(img *image.NRGBA, sx, sy, dx, dy, scale int) {
	size := 16 * scale
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := img.NRGBAAt(sx*scale+x, sy*scale+y)
			img.SetNRGBA(dx*scale+size-1-x, dy*scale+y, c)
		}
	}
}

// EarsRegion extrai a região 14x7 das orelhas (deadmau5) de uma skin normalizada.
func EarsRegion(skin image.Image) *image.NRGBA {
	b := skin.Bounds()
	scale := b.Dx() / 64
	if scale < 1 {
		scale = 1
	}
	ears := image.NewNRGBA(image.Rect(0, 0, 14*scale, 7*scale))
	copyNRGBA(ears, ears.Bounds(), skin, image.Pt(b.Min.X+24*scale, b.Min.Y))
	return ears
}

// copyNRGBA copia src (a partir de sp) para r em dst sem pré-multiplicar, para
// que pixels transparentes guardem a cor original.
func copyNRGBA(dst *image.NRGBA, r image.Rectangle, src image.Image, sp image.Point) {
	sb := src.Bounds()
	n, isNRGBA := src.(*image.NRGBA)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			p := image.Pt(sp.X+x-r.Min.X, sp.Y+y-r.Min.Y)
			if !p.In(sb) {
				continue
			}
			if isNRGBA {
				dst.SetNRGBA(x, y, n.NRGBAAt(p.X, p.Y))
			} else {
				dst.SetNRGBA(x, y, color.NRGBAModel.Convert(src.At(p.X, p.Y)).(color.NRGBA))
			}
		}
	}
}

// IsBlank verifica todos os canais de todos os pixels, sem pré-multiplicar
// pelo alfa: um pixel transparente com cor não é vazio.
func IsBlank(img image.Image) bool {
	if n, ok := img.(*image.NRGBA); ok {
		return blankNRGBA(n)
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.R != 0 || c.G != 0 || c.B != 0 || c.A != 0 {
				return false
			}
		}
	}
	return true
}

func blankNRGBA(img *image.NRGBA) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for _, c := range row {
			if c != 0 {
				return false
			}
		}
	}
	return true
}

// InferArmModel retorna ArmSlim quando as colunas extras dos braços classic
// estão transparentes ou pretas.
func InferArmModel(skin image.Image) ArmModel {
	b := skin.Bounds()
	scale := b.Dx() / 64
	if scale < 1 {
		scale = 1
	}
	regions := [][4]int{
		{50, 16, 2, 4}, {54, 20, 2, 12},
		{42, 48, 2, 4}, {46, 52, 2, 12},
	}
	if b.Dy() < 64*scale {
		regions = regions[:2]
	}

	transparent, black := false, true
	for _, r := range regions {
		for y := r[1] * scale; y < (r[1]+r[3])*scale; y++ {
			for x := r[0] * scale; x < (r[0]+r[2])*scale; x++ {
				cr, cg, cb, ca := skin.At(b.Min.X+x, b.Min.Y+y).RGBA()
				if ca < 0xffff {
					transparent = true
				}
				if cr != 0 || cg != 0 || cb != 0 || ca != 0xffff {
					black = false
				}
			}
		}
	}
	if transparent || black {
		return ArmSlim
	}
	return ArmClassic
}
