package render

import (
	"image/color"
	"math"
	"sort"
	"unsafe"

	"VoxelView/cliente/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

type drawItem struct {
	mesh      rl.Mesh
	transform mgl32.Mat4
	mat       *scene.Material
	tint      color.NRGBA
	order     int
	blend     bool
}

type pendingLabel struct {
	pos   mgl32.Vec3
	label *scene.Label
}

// Draw3D desenha todas as raízes anexadas. Deve ser chamado entre
// BeginMode3D e EndMode3D.
func (b *Backend) Draw3D(cam rl.Camera3D, fog Fog) {
	camPos := mgl32.Vec3{cam.Position.X, cam.Position.Y, cam.Position.Z}
	var items []drawItem
	b.labels = b.labels[:0]

	for _, root := range b.roots {
		b.collect(root, mgl32.Ident4(), camPos, &items)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].blend != items[j].blend {
			return !items[i].blend
		}
		return items[i].order < items[j].order
	})

	if b.shaders != nil {
		b.shaders.Apply(camPos, fog)
		b.material.Shader = b.shaders.Terrain
	}
	b.stats.DrawCalls = 0
	blending := false
	for i := range items {
		it := &items[i]
		if it.blend && !blending {
			rl.BeginBlendMode(rl.BlendAlpha)
			blending = true
		}
		b.drawMesh(it)
	}
	if blending {
		rl.EndBlendMode()
	}
}

func (b *Backend) collect(n *scene.Node, parent mgl32.Mat4, camPos mgl32.Vec3, items *[]drawItem) {
	if !n.Visible {
		return
	}
	world := parent.Mul4(n.LocalMatrix())
	if n.Billboard {
		world = billboard(world, n.Scale, camPos)
	}
	if n.Offset != (mgl32.Vec3{}) {
		world = world.Mul4(mgl32.Translate3D(n.Offset.X(), n.Offset.Y(), n.Offset.Z()))
	}

	switch n.Shape {
	case scene.ShapeMesh, scene.ShapeBox, scene.ShapePlane:
		if mesh, ok := b.meshes[n.Geometry]; ok && n.Geometry != nil {
			*items = append(*items, drawItem{
				mesh:      mesh,
				transform: world,
				mat:       n.Material,
				tint:      n.Tint,
				order:     n.RenderOrder,
				blend:     n.RenderOrder > 0 || (n.Material != nil && n.Material.Transparent && n.Material.AlphaTest == 0),
			})
		} else if n.Shape == scene.ShapeBox {
			center := world.Col(3).Vec3()
			c := n.Tint
			if n.Material != nil {
				c = multiply(c, n.Material.Color)
			}
			rl.DrawCubeV(vec(center), vec(scaled(world, n.Size)), rlColor(c))
		}
	case scene.ShapeWireBox:
		center := world.Col(3).Vec3()
		rl.DrawCubeWiresV(vec(center), vec(scaled(world, n.Size)), rlColor(n.Tint))
	case scene.ShapeLabel:
		if n.Label != nil {
			b.labels = append(b.labels, pendingLabel{pos: world.Col(3).Vec3(), label: n.Label})
		}
	}

	for _, c := range n.Children() {
		b.collect(c, world, camPos, items)
	}
}

func (b *Backend) drawMesh(it *drawItem) {
	tex := b.white
	c := it.tint
	if it.mat != nil {
		c = multiply(c, it.mat.Color)
		if it.mat.Texture != nil {
			if t, ok := b.textures[it.mat.Texture]; ok {
				tex = t
			}
		}
	}
	rl.SetMaterialTexture(&b.material, rl.MapDiffuse, tex)
	maps := unsafe.Slice(b.material.Maps, 12)
	maps[rl.MapDiffuse].Color = rlColor(c)
	rl.DrawMesh(it.mesh, b.material, toMatrix(it.transform))
	b.stats.DrawCalls++
}

// DrawLabels desenha os textos em 2D. Deve ser chamado depois de EndMode3D.
func (b *Backend) DrawLabels(cam rl.Camera3D) {
	const fontSize = 16
	for _, pl := range b.labels {
		screen := rl.GetWorldToScreen(vec(pl.pos), cam)
		l := pl.label
		w := rl.MeasureText(l.Text, fontSize)
		x := int32(screen.X) - w/2
		y := int32(screen.Y) - fontSize/2
		if l.Background.A > 0 {
			rl.DrawRectangle(x-3, y-2, w+6, fontSize+4, rlColor(l.Background))
		}
		fg := l.Color
		if l.TextOpacity > 0 {
			fg.A = l.TextOpacity
		}
		rl.DrawText(l.Text, x, y, fontSize, rlColor(fg))
	}
}

// billboard troca a rotação do nó por um giro em Y voltado para a câmera.
func billboard(world mgl32.Mat4, scale mgl32.Vec3, camPos mgl32.Vec3) mgl32.Mat4 {
	pos := world.Col(3).Vec3()
	yaw := float32(math.Atan2(float64(camPos.X()-pos.X()), float64(camPos.Z()-pos.Z())))
	return mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()).
		Mul4(mgl32.HomogRotate3DY(yaw)).
		Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
}

// scaled aplica a escala da matriz às dimensões de uma caixa.
func scaled(m mgl32.Mat4, size mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		size.X() * m.Col(0).Vec3().Len(),
		size.Y() * m.Col(1).Vec3().Len(),
		size.Z() * m.Col(2).Vec3().Len(),
	}
}

func multiply(a, b color.NRGBA) color.NRGBA {
	return color.NRGBA{
		R: uint8(uint16(a.R) * uint16(b.R) / 255),
		G: uint8(uint16(a.G) * uint16(b.G) / 255),
		B: uint8(uint16(a.B) * uint16(b.B) / 255),
		A: uint8(uint16(a.A) * uint16(b.A) / 255),
	}
}

func rlColor(c color.NRGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}

func vec(v mgl32.Vec3) rl.Vector3 {
	return rl.Vector3{X: v.X(), Y: v.Y(), Z: v.Z()}
}

// toMatrix converte a matriz coluna-major do mathgl para a raylib.
func toMatrix(m mgl32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M4: m[4], M8: m[8], M12: m[12],
		M1: m[1], M5: m[5], M9: m[9], M13: m[13],
		M2: m[2], M6: m[6], M10: m[10], M14: m[14],
		M3: m[3], M7: m[7], M11: m[11], M15: m[15],
	}
}
