package scene_test

import (
	"image"
	"image/color"
	"testing"

	"VoxelView/cliente/internal/scene"
	"VoxelView/cliente/internal/scene/scenetest"

	"github.com/go-gl/mathgl/mgl32"
)

type disposable struct {
	disposed int
}

func (d *disposable) Dispose() { d.disposed++ }

func TestRegistryPutReplacesAndDisposesOld(t *testing.T) {
	reg := scene.NewRegistry[string, *disposable]()
	a, b := &disposable{}, &disposable{}

	if reg.Put("x", a) {
		t.Fatalf("first Put reported replacement")
	}
	if !reg.Put("x", b) {
		t.Fatalf("second Put should replace")
	}
	if a.disposed != 1 || b.disposed != 0 {
		t.Fatalf("disposed a=%d b=%d", a.disposed, b.disposed)
	}
	if reg.Len() != 1 {
		t.Fatalf("Len = %d, want 1", reg.Len())
	}
}

func TestRegistryRemoveIsIdempotent(t *testing.T) {
	reg := scene.NewRegistry[int, *disposable]()
	d := &disposable{}
	reg.Put(1, d)

	if _, ok := reg.Remove(1); !ok {
		t.Fatalf("Remove of present id returned false")
	}
	if _, ok := reg.Remove(1); ok {
		t.Fatalf("second Remove returned true")
	}
	if _, ok := reg.Remove(42); ok {
		t.Fatalf("Remove of unknown id returned true")
	}
	if d.disposed != 1 {
		t.Fatalf("disposed %d times", d.disposed)
	}
}

func TestRegistryClear(t *testing.T) {
	reg := scene.NewRegistry[int, *disposable]()
	items := []*disposable{{}, {}, {}}
	for i, d := range items {
		reg.Put(i, d)
	}
	reg.Clear()
	if reg.Len() != 0 {
		t.Fatalf("Len after Clear = %d", reg.Len())
	}
	for i, d := range items {
		if d.disposed != 1 {
			t.Fatalf("item %d disposed %d times", i, d.disposed)
		}
	}
}

func TestResourcesReleaseExactlyOnce(t *testing.T) {
	b := scenetest.New()
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))

	var res scene.Resources
	skin := scene.NewTexture(b, img, true)
	mat := scene.NewMaterial(b, color.NRGBA{A: 255}, skin)
	res.Own("skin", skin, mat)
	res.Own("cape", scene.NewTexture(b, img, true))

	if b.Live() != 3 {
		t.Fatalf("Live = %d, want 3", b.Live())
	}
	if n := res.ReleaseGroup("skin"); n != 2 {
		t.Fatalf("ReleaseGroup = %d, want 2", n)
	}
	if n := res.ReleaseGroup("skin"); n != 0 {
		t.Fatalf("second ReleaseGroup = %d, want 0", n)
	}
	// Liberar diretamente um recurso já liberado não deve contar duas vezes.
	skin.Release()
	if b.Textures != 1 || b.Materials != 0 {
		t.Fatalf("textures=%d materials=%d", b.Textures, b.Materials)
	}
	res.ReleaseAll()
	if b.Live() != 0 || res.Len() != 0 {
		t.Fatalf("leak: live=%d owned=%d", b.Live(), res.Len())
	}
}

func TestNodeWorldMatrix(t *testing.T) {
	root := scene.NewGroup("root")
	root.Position = mgl32.Vec3{10, 0, 0}
	child := scene.NewNode("child", scene.ShapeBox)
	child.Position = mgl32.Vec3{0, 2, 0}
	root.Add(child)

	p := child.WorldMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if !p.Vec3().ApproxEqual(mgl32.Vec3{10, 2, 0}) {
		t.Fatalf("world position = %v", p.Vec3())
	}
	if root.Find("child") != child {
		t.Fatalf("Find did not locate child")
	}
	child.RemoveFromParent()
	if len(root.Children()) != 0 || child.Parent() != nil {
		t.Fatalf("RemoveFromParent did not detach")
	}
}

func TestNodeWorldVisible(t *testing.T) {
	root := scene.NewGroup("root")
	child := scene.NewGroup("child")
	root.Add(child)
	root.Visible = false
	if child.WorldVisible() {
		t.Fatalf("child of hidden parent reported visible")
	}
}

func TestBoxGeometryVertexCount(t *testing.T) {
	g := scene.BoxGeometry(mgl32.Vec3{-1, 0, -1}, mgl32.Vec3{1, 2, 1}, nil)
	if g.VertexCount() != 36 {
		t.Fatalf("VertexCount = %d, want 36", g.VertexCount())
	}
	if len(g.UVs) != 72 || len(g.Normals) != 108 {
		t.Fatalf("uvs=%d normals=%d", len(g.UVs), len(g.Normals))
	}
}

func TestCubeUVFrontFace(t *testing.T) {
	// Cabeça da skin: cubo 8x8x8 em (0,0) numa textura 64x64.
	faces := scene.CubeUV(0, 0, mgl32.Vec3{8, 8, 8}, 64, 64)
	want := scene.Rect{U: 8.0 / 64, V: 8.0 / 64, W: 8.0 / 64, H: 8.0 / 64}
	if faces[scene.FaceFront] != want {
		t.Fatalf("front = %+v, want %+v", faces[scene.FaceFront], want)
	}
}
