package entities

import (
	"image/color"
	"math"

	"VoxelView/cliente/internal/assets"
	"VoxelView/cliente/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// BackEquipment é o que o jogador mostra nas costas.
type BackEquipment int

const (
	BackNone BackEquipment = iota
	BackCape
	BackElytra
)

// PlayerModel é o humanoide de um jogador, em unidades de 1/16 de bloco com
// os pés na origem.
type PlayerModel struct {
	Wrapper *scene.Node

	Head, Body         *scene.Node
	RightArm, LeftArm  *scene.Node
	RightLeg, LeftLeg  *scene.Node
	Cape, Elytra, Ears *scene.Node

	ArmModel  assets.ArmModel
	Back      BackEquipment
	Animation Animation

	skinMat, capeMat, elytraMat, earsMat *scene.Material

	visual *Visual
}

// Geometria da skin (layout 64x64).
type skinPart struct {
	uv, overlayUV [2]int
	size          mgl32.Vec3
	min           mgl32.Vec3 // Relativo ao pivô
	inflate       float32
}

var (
	headPart     = skinPart{uv: [2]int{0, 0}, overlayUV: [2]int{32, 0}, size: mgl32.Vec3{8, 8, 8}, min: mgl32.Vec3{-4, 0, -4}, inflate: 0.5}
	bodyPart     = skinPart{uv: [2]int{16, 16}, overlayUV: [2]int{16, 32}, size: mgl32.Vec3{8, 12, 4}, min: mgl32.Vec3{-4, -12, -2}, inflate: 0.25}
	rightLegPart = skinPart{uv: [2]int{0, 16}, overlayUV: [2]int{0, 32}, size: mgl32.Vec3{4, 12, 4}, min: mgl32.Vec3{-2, -12, -2}, inflate: 0.25}
	leftLegPart  = skinPart{uv: [2]int{16, 48}, overlayUV: [2]int{0, 48}, size: mgl32.Vec3{4, 12, 4}, min: mgl32.Vec3{-2, -12, -2}, inflate: 0.25}
)

func armParts(model assets.ArmModel) (right, left skinPart) {
	w := float32(4)
	if model == assets.ArmSlim {
		w = 3
	}
	right = skinPart{uv: [2]int{40, 16}, overlayUV: [2]int{40, 32}, size: mgl32.Vec3{w, 12, 4}, min: mgl32.Vec3{1 - w, -10, -2}, inflate: 0.25}
	left = skinPart{uv: [2]int{32, 48}, overlayUV: [2]int{48, 48}, size: mgl32.Vec3{w, 12, 4}, min: mgl32.Vec3{-1, -10, -2}, inflate: 0.25}
	return right, left
}

// buildPlayer monta o humanoide do jogador com nametag.
func (s *Synchronizer) buildPlayer(v *Visual, st EntityState, _ Overrides) bool {
	b := s.deps.Backend
	v.Variant = VariantPlayer
	v.Mesh = scene.NewGroup("mesh")

	p := &PlayerModel{visual: v, Back: BackNone, Animation: &WalkingSwing{}}
	p.Wrapper = scene.NewGroup("wrapper")
	p.Wrapper.SetUniformScale(1.0 / 16)
	p.Wrapper.Rotation[1] = math.Pi
	v.Mesh.Add(p.Wrapper)

	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	p.skinMat = scene.NewMaterial(b, white, nil)
	p.skinMat.Transparent = true
	p.skinMat.AlphaTest = 0.1
	p.capeMat = scene.NewMaterial(b, white, nil)
	p.elytraMat = scene.NewMaterial(b, white, nil)
	p.earsMat = scene.NewMaterial(b, white, nil)
	v.res.Own("base", p.skinMat, p.capeMat, p.elytraMat, p.earsMat)

	bone := func(name string, pivot mgl32.Vec3) *scene.Node {
		n := scene.NewGroup(name)
		n.Position = pivot
		p.Wrapper.Add(n)
		return n
	}
	p.Head = bone("bone_head", mgl32.Vec3{0, 24, 0})
	p.Body = bone("bone_body", mgl32.Vec3{0, 24, 0})
	p.RightArm = bone("bone_rightarm", mgl32.Vec3{-5, 22, 0})
	p.LeftArm = bone("bone_leftarm", mgl32.Vec3{5, 22, 0})
	p.RightLeg = bone("bone_rightleg", mgl32.Vec3{-2, 12, 0})
	p.LeftLeg = bone("bone_leftleg", mgl32.Vec3{2, 12, 0})

	p.addPart(p.Head, "base", headPart)
	p.addPart(p.Body, "base", bodyPart)
	p.addPart(p.RightLeg, "base", rightLegPart)
	p.addPart(p.LeftLeg, "base", leftLegPart)
	p.buildArms(assets.ArmClassic)

	// Pontos de fixação dos itens segurados.
	for _, hand := range []struct {
		arm  *scene.Node
		name string
	}{{p.LeftArm, "bone_leftitem"}, {p.RightArm, "bone_rightitem"}} {
		anchor := scene.NewGroup(hand.name)
		anchor.Position = mgl32.Vec3{0, -10, 0}
		hand.arm.Add(anchor)
	}

	// Capa e élitro: textura 64x32.
	p.Cape = scene.NewNode("cape", scene.ShapeMesh)
	p.Cape.Position = mgl32.Vec3{0, 24, -2.5}
	p.Cape.Rotation[0] = 0.18
	capeUV := scene.CubeUV(0, 0, mgl32.Vec3{10, 16, 1}, 64, 32)
	p.Cape.Geometry = scene.NewGeometry(b, scene.BoxGeometry(mgl32.Vec3{-5, -16, -0.5}, mgl32.Vec3{5, 0, 0.5}, &capeUV))
	p.Cape.Material = p.capeMat
	p.Cape.Visible = false
	v.res.Own("base", p.Cape.Geometry)
	p.Wrapper.Add(p.Cape)

	p.Elytra = scene.NewGroup("elytra")
	p.Elytra.Position = mgl32.Vec3{0, 24, -2}
	p.Elytra.Visible = false
	wingUV := scene.CubeUV(22, 0, mgl32.Vec3{10, 20, 2}, 64, 32)
	mirrored := wingUV
	mirrorFaces(&mirrored)
	for i, x := range []float32{-10, 0} {
		uv := wingUV
		if i == 1 {
			uv = mirrored
		}
		wing := scene.NewNode("wing", scene.ShapeMesh)
		wing.Geometry = scene.NewGeometry(b, scene.BoxGeometry(mgl32.Vec3{x, -20, -2}, mgl32.Vec3{x + 10, 0, 0}, &uv))
		wing.Material = p.elytraMat
		v.res.Own("base", wing.Geometry)
		p.Elytra.Add(wing)
	}
	p.Wrapper.Add(p.Elytra)

	// Orelhas: textura 14x7 recortada da skin.
	p.Ears = scene.NewGroup("ears")
	p.Ears.Visible = false
	earUV := scene.CubeUV(0, 0, mgl32.Vec3{6, 6, 1}, 14, 7)
	for _, x := range []float32{-9, 3} {
		ear := scene.NewNode("ear", scene.ShapeMesh)
		ear.Geometry = scene.NewGeometry(b, scene.BoxGeometry(mgl32.Vec3{x, 6, -0.5}, mgl32.Vec3{x + 6, 12, 0.5}, &earUV))
		ear.Material = p.earsMat
		v.res.Own("base", ear.Geometry)
		p.Ears.Add(ear)
	}
	p.Head.Add(p.Ears)

	v.Player = p

	if st.Username != "" {
		s.addNametag(v, nametagOptions{Text: st.Username, Elevation: 35.0 / 16, Background: defaultNametagBackground})
	}
	return true
}

// addPart adiciona a camada interna e a externa de um membro.
func (p *PlayerModel) addPart(bone *scene.Node, group string, part skinPart) {
	b := p.visual.backend
	inner := part.uv
	outer := part.overlayUV
	for i, uv := range [][2]int{inner, outer} {
		inflate := float32(0)
		name := "inner"
		if i == 1 {
			inflate = part.inflate
			name = "outer"
		}
		infl := mgl32.Vec3{inflate, inflate, inflate}
		faces := scene.CubeUV(uv[0], uv[1], part.size, 64, 64)
		n := scene.NewNode(name, scene.ShapeMesh)
		n.Geometry = scene.NewGeometry(b, scene.BoxGeometry(part.min.Sub(infl), part.min.Add(part.size).Add(infl), &faces))
		n.Material = p.skinMat
		p.visual.res.Own(group, n.Geometry)
		bone.Add(n)
	}
}

// buildArms (re)cria a geometria dos braços para o modelo indicado.
func (p *PlayerModel) buildArms(model assets.ArmModel) {
	for _, arm := range []*scene.Node{p.RightArm, p.LeftArm} {
		for _, name := range []string{"inner", "outer"} {
			if c := arm.Child(name); c != nil {
				arm.Remove(c)
			}
		}
	}
	p.visual.res.ReleaseGroup("arms")

	right, left := armParts(model)
	p.addPart(p.RightArm, "arms", right)
	p.addPart(p.LeftArm, "arms", left)
	p.ArmModel = model
}

// SetArmModel troca entre braços classic e slim.
func (p *PlayerModel) SetArmModel(model assets.ArmModel) {
	if model == p.ArmModel {
		return
	}
	p.buildArms(model)
}

// SetBack escolhe o equipamento das costas. A capa só aparece com textura.
func (p *PlayerModel) SetBack(back BackEquipment) {
	p.Back = back
	p.Cape.Visible = back == BackCape && p.capeMat.Texture != nil
	p.Elytra.Visible = back == BackElytra
}

// SkinTexture retorna a textura de skin aplicada, se houver.
func (p *PlayerModel) SkinTexture() *scene.Texture {
	return p.skinMat.Texture
}

// CapeTexture retorna a textura de capa aplicada, se houver.
func (p *PlayerModel) CapeTexture() *scene.Texture {
	return p.capeMat.Texture
}

// EarsTexture retorna a textura das orelhas, se houver.
func (p *PlayerModel) EarsTexture() *scene.Texture {
	return p.earsMat.Texture
}
