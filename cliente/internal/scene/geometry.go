package scene

import "github.com/go-gl/mathgl/mgl32"

// Ordem das faces de uma caixa.
const (
	FaceRight  = iota // +X
	FaceLeft          // -X
	FaceTop           // +Y
	FaceBottom        // -Y
	FaceFront         // +Z
	FaceBack          // -Z
)

// CubeUV calcula as regiões de textura de um cubo no layout de skin
// (offset u,v em pixels, tamanho w,h,d em pixels).
func CubeUV(u, v int, size mgl32.Vec3, texW, texH int) [6]Rect {
	w, h, d := size.X(), size.Y(), size.Z()
	fu, fv := float32(u), float32(v)
	tw, th := float32(texW), float32(texH)
	r := func(x, y, rw, rh float32) Rect {
		return Rect{U: x / tw, V: y / th, W: rw / tw, H: rh / th}
	}
	var faces [6]Rect
	faces[FaceTop] = r(fu+d, fv, w, d)
	faces[FaceBottom] = r(fu+d+w, fv, w, d)
	faces[FaceRight] = r(fu, fv+d, d, h)
	faces[FaceFront] = r(fu+d, fv+d, w, h)
	faces[FaceLeft] = r(fu+d+w, fv+d, d, h)
	faces[FaceBack] = r(fu+d+w+d, fv+d, w, h)
	return faces
}

// BoxGeometry gera os 36 vértices de uma caixa entre min e max. Sem faces,
// todas as faces usam a textura inteira.
func BoxGeometry(min, max mgl32.Vec3, faces *[6]Rect) *Geometry {
	g := &Geometry{
		Vertices: make([]float32, 0, 36*3),
		Normals:  make([]float32, 0, 36*3),
		UVs:      make([]float32, 0, 36*2),
	}
	x0, y0, z0 := min.X(), min.Y(), min.Z()
	x1, y1, z1 := max.X(), max.Y(), max.Z()

	// Cada face: 4 cantos em sentido anti-horário vistos de fora, a partir do canto superior esquerdo.
	quads := [6][4]mgl32.Vec3{
		FaceRight:  {{x1, y1, z1}, {x1, y0, z1}, {x1, y0, z0}, {x1, y1, z0}},
		FaceLeft:   {{x0, y1, z0}, {x0, y0, z0}, {x0, y0, z1}, {x0, y1, z1}},
		FaceTop:    {{x0, y1, z0}, {x0, y1, z1}, {x1, y1, z1}, {x1, y1, z0}},
		FaceBottom: {{x0, y0, z1}, {x0, y0, z0}, {x1, y0, z0}, {x1, y0, z1}},
		FaceFront:  {{x0, y1, z1}, {x0, y0, z1}, {x1, y0, z1}, {x1, y1, z1}},
		FaceBack:   {{x1, y1, z0}, {x1, y0, z0}, {x0, y0, z0}, {x0, y1, z0}},
	}
	normals := [6]mgl32.Vec3{
		FaceRight: {1, 0, 0}, FaceLeft: {-1, 0, 0},
		FaceTop: {0, 1, 0}, FaceBottom: {0, -1, 0},
		FaceFront: {0, 0, 1}, FaceBack: {0, 0, -1},
	}

	for f := 0; f < 6; f++ {
		uv := FullRect
		if faces != nil {
			uv = faces[f]
		}
		corners := [4][2]float32{
			{uv.U, uv.V},
			{uv.U, uv.V + uv.H},
			{uv.U + uv.W, uv.V + uv.H},
			{uv.U + uv.W, uv.V},
		}
		q := quads[f]
		for _, i := range [6]int{0, 1, 2, 0, 2, 3} {
			g.Vertices = append(g.Vertices, q[i].X(), q[i].Y(), q[i].Z())
			g.Normals = append(g.Normals, normals[f].X(), normals[f].Y(), normals[f].Z())
			g.UVs = append(g.UVs, corners[i][0], corners[i][1])
		}
	}
	return g
}

// PlaneGeometry gera um plano XY centrado na origem, voltado para +Z.
func PlaneGeometry(w, h float32, uv Rect) *Geometry {
	hw, hh := w/2, h/2
	q := [4]mgl32.Vec3{{-hw, hh, 0}, {-hw, -hh, 0}, {hw, -hh, 0}, {hw, hh, 0}}
	corners := [4][2]float32{
		{uv.U, uv.V}, {uv.U, uv.V + uv.H}, {uv.U + uv.W, uv.V + uv.H}, {uv.U + uv.W, uv.V},
	}
	g := &Geometry{}
	for _, i := range [6]int{0, 1, 2, 0, 2, 3} {
		g.Vertices = append(g.Vertices, q[i].X(), q[i].Y(), q[i].Z())
		g.Normals = append(g.Normals, 0, 0, 1)
		g.UVs = append(g.UVs, corners[i][0], corners[i][1])
	}
	return g
}
