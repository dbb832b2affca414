package entities

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"math"

	"VoxelView/cliente/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// defaultNametagBackground é o fundo preto a 30% dos nomes de jogador.
var defaultNametagBackground = color.NRGBA{A: 76}

// nametagOptions descreve um texto preso ao visual.
type nametagOptions struct {
	Text      string
	Height    float32 // Altura da entidade
	Elevation float32 // Quando > 0, substitui a altura calculada

	Fixed      bool // Plano orientado pela entidade em vez de billboard
	Pitch, Yaw float32

	Background color.NRGBA
	Opacity    uint8 // 0 = opaco

	Scale       mgl32.Vec3 // Zero = unitária
	Translation mgl32.Vec3
	Left, Right mgl32.Quat // Zero = identidade
}

func quatOrIdent(q mgl32.Quat) mgl32.Quat {
	if q.W == 0 && q.V == (mgl32.Vec3{}) {
		return mgl32.QuatIdent()
	}
	return q
}

// addNametag substitui o nametag do visual, que fica sob "mesh".
func (s *Synchronizer) addNametag(v *Visual, opts nametagOptions) {
	s.removeNametag(v)

	opacity := opts.Opacity
	if opacity == 0 {
		opacity = 255
	}
	n := scene.NewNode("nametag", scene.ShapeLabel)
	n.Label = scene.NewLabel(s.deps.Backend, opts.Text, opts.Background, opacity)
	n.RenderOrder = 1000
	v.ownNode("nametag", n)

	var base mgl32.Quat
	if opts.Fixed {
		n.Position[1] = opts.Height + 0.3
		base = mgl32.AnglesToQuat(opts.Pitch, opts.Yaw+math.Pi, 0, mgl32.XYZ)
	} else {
		n.Billboard = true
		n.Position[1] = opts.Height + 0.6
		base = mgl32.QuatIdent()
	}
	if opts.Elevation > 0 {
		n.Position[1] = opts.Elevation
	}
	n.Orientation = quatOrIdent(opts.Left).Mul(quatOrIdent(opts.Right)).Mul(base)
	n.HasOrientation = true
	if opts.Scale != (mgl32.Vec3{}) {
		n.Scale = opts.Scale
	}
	n.Position = n.Position.Add(opts.Translation)

	v.Mesh.Add(n)
	v.tag, v.hasTag = opts, true
}

func (s *Synchronizer) removeNametag(v *Visual) {
	for _, c := range append([]*scene.Node(nil), v.Mesh.Children()...) {
		if c.Name == "nametag" {
			v.Mesh.Remove(c)
		}
	}
	v.res.ReleaseGroup("nametag")
	v.hasTag, v.textTag = false, false
}

// backgroundColor converte o ARGB do text display. Alfa zero num valor não
// nulo é tratado como opaco; o valor zero é transparente.
func backgroundColor(raw int32) color.NRGBA {
	u := uint32(raw)
	if u == 0 {
		return color.NRGBA{}
	}
	a := uint8(u >> 24)
	if a == 0 {
		a = 255
	}
	return color.NRGBA{R: uint8(u >> 16), G: uint8(u >> 8), B: uint8(u), A: a}
}

// textOpacity converte o byte com sinal de text_opacity.
func textOpacity(raw int32) uint8 {
	switch {
	case raw == 0:
		return 255
	case raw > 0:
		return uint8(raw)
	}
	return uint8(256 + raw)
}

// applyDisplayText mostra o texto de um text display ou o nome customizado
// visível de qualquer entidade que não seja jogador.
func (s *Synchronizer) applyDisplayText(v *Visual, st EntityState) {
	td := st.Meta.TextDisplay
	var opts nametagOptions
	switch {
	case td != nil && td.Text != "":
		opts = nametagOptions{
			Text:    td.Text,
			Height:  v.Height,
			Fixed:   td.Billboard == "" || td.Billboard == "fixed",
			Pitch:   st.Pitch,
			Opacity: textOpacity(td.TextOpacity),
			Left:    mgl32.QuatIdent(),
			Right:   mgl32.QuatIdent(),
		}
		if st.Yaw != nil {
			opts.Yaw = *st.Yaw
		}
		if td.StyleFlags&StyleNoBackground == 0 {
			opts.Background = backgroundColor(td.Background)
		}
		if td.Scale != nil {
			opts.Scale = *td.Scale
		}
		if td.Translation != nil {
			opts.Translation = *td.Translation
		}
		if td.LeftRotation != nil {
			opts.Left = *td.LeftRotation
		}
		if td.RightRotation != nil {
			opts.Right = *td.RightRotation
		}
	case st.Meta.CustomNameVisible && st.Meta.CustomName != "":
		opts = nametagOptions{Text: st.Meta.CustomName, Height: v.Height}
	default:
		if v.textTag {
			s.removeNametag(v)
		}
		return
	}

	if v.hasTag && v.textTag && v.tag == opts {
		return
	}
	s.addNametag(v, opts)
	v.textTag = true
}

// poseToEuler converte uma pose em graus para Euler ZYX em radianos.
func poseToEuler(p *Pose, def Pose) mgl32.Vec3 {
	if p == nil {
		p = &def
	}
	return mgl32.Vec3{
		-mgl32.DegToRad(p.Pitch),
		-mgl32.DegToRad(p.Yaw),
		mgl32.DegToRad(p.Roll),
	}
}

func setPose(n *scene.Node, rot mgl32.Vec3) {
	n.Rotation = rot
	n.Order = scene.OrderZYX
}

// applyArmorStand aplica flags e poses de um suporte de armadura. As poses
// esquerdas do protocolo vão para os ossos direitos do modelo e vice-versa.
func applyArmorStand(v *Visual, meta *ArmorStandMeta) {
	flags := meta.ClientFlags
	hasArms := flags&StandArms != 0
	if flags&StandSmall != 0 {
		v.Root.SetUniformScale(0.5)
	} else {
		v.Root.SetUniformScale(1)
	}
	if flags&StandMarker != 0 && v.Debug != nil {
		v.Debug.Size = mgl32.Vec3{}
	}

	v.Root.Traverse(func(n *scene.Node) {
		switch n.Name {
		case "bone_baseplate":
			n.SetShown(flags&StandNoBaseplate == 0)
			n.Rotation[1] = -v.yaw.to
		case "bone_head":
			if meta.HeadPose != nil {
				setPose(n, poseToEuler(meta.HeadPose, Pose{}))
			}
		case "bone_body":
			if meta.BodyPose != nil {
				setPose(n, poseToEuler(meta.BodyPose, Pose{}))
			}
		case "bone_rightarm":
			if p := n.Parent(); p == nil || p.Name != "bone_armor" {
				n.SetShown(hasArms)
			}
			setPose(n, poseToEuler(meta.LeftArmPose, Pose{Yaw: -10, Pitch: -10}))
		case "bone_leftarm":
			if p := n.Parent(); p == nil || p.Name != "bone_armor" {
				n.SetShown(hasArms)
			}
			setPose(n, poseToEuler(meta.RightArmPose, Pose{Yaw: 10, Pitch: -10}))
		case "bone_rightleg":
			setPose(n, poseToEuler(meta.LeftLegPose, Pose{Yaw: -1, Pitch: -1}))
		case "bone_leftleg":
			setPose(n, poseToEuler(meta.RightLegPose, Pose{Yaw: 1, Pitch: 1}))
		}
	})
}

// frameKey é o conteúdo exibido por um item frame.
type frameKey struct {
	item     Item
	rotation int32
}

// applyItemFrame monta o item ou mapa exibido por um item frame.
func (s *Synchronizer) applyItemFrame(v *Visual, st EntityState, meta *ItemFrameMeta) {
	v.Root.Rotation[0] = -st.Pitch

	var key *frameKey
	if !meta.Item.IsEmpty() {
		key = &frameKey{item: *meta.Item, rotation: meta.Rotation}
	}
	if (key == nil && v.frame == nil) || (key != nil && v.frame != nil && *key == *v.frame) {
		return
	}
	v.frame = key

	s.clearItemFrame(v)
	v.Mesh.Scale = mgl32.Vec3{1, 1, 1}
	if key == nil {
		return
	}

	if key.item.MapID != 0 {
		v.Mesh.Scale = mgl32.Vec3{16.0 / 12, 16.0 / 12, 1}
		s.addMapModel(v, key.item.MapID, key.rotation)
		return
	}
	if s.deps.Items == nil {
		return
	}
	model, ok := s.deps.Items.ResolveItem(key.item, DisplayFixed)
	if !ok {
		return
	}
	n := s.buildItemNode(v, "frame_item", model, DisplayFixed)
	n.Name = "frame_item"
	n.Position = mgl32.Vec3{0, 0, 0.43}
	if model.IsBlock {
		n.SetUniformScale(0.25)
	} else {
		n.SetUniformScale(0.5)
	}
	rot := float32(key.rotation)
	n.Orientation = mgl32.QuatRotate(math.Pi, mgl32.Vec3{0, 1, 0}).
		Mul(mgl32.QuatRotate(-rot*math.Pi/4, mgl32.Vec3{0, 0, 1}))
	n.HasOrientation = true
	v.Root.Add(n)
}

// clearItemFrame remove o item ou mapa anterior do frame.
func (s *Synchronizer) clearItemFrame(v *Visual) {
	if v.mapNode != nil {
		v.mapNode.RemoveFromParent()
		if frames := s.mapFrames[v.mapID]; frames != nil {
			delete(frames, v.ID)
		}
		v.res.ReleaseGroup("map")
		v.res.ReleaseGroup("map:tex")
		v.mapID, v.mapNode, v.mapMat = 0, nil, nil
	}
	if n := v.Root.Child("frame_item"); n != nil {
		n.RemoveFromParent()
	}
	v.res.ReleaseGroup("frame_item")
}

// addMapModel coloca o plano do mapa no frame. Sem imagem em cache o plano
// fica escondido até UpdateMap.
func (s *Synchronizer) addMapModel(v *Visual, mapID int32, rotation int32) {
	b := s.deps.Backend
	mat := scene.NewMaterial(b, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, nil)
	mat.Transparent = true
	mat.AlphaTest = 0.1

	n := scene.NewNode(fmt.Sprintf("map_%d", mapID), scene.ShapeMesh)
	n.Geometry = scene.NewGeometry(b, scene.PlaneGeometry(1, 1, scene.FullRect))
	n.Material = mat
	v.ownNode("map", n)

	framed := false
	v.Root.Traverse(func(c *scene.Node) {
		if c.Name == "geometry_frame" && c.WorldVisible() {
			framed = true
		}
	})
	if framed {
		n.Position = mgl32.Vec3{0, 0, 0.437}
	} else {
		n.Position = mgl32.Vec3{0, 0, 0.499}
	}
	rot := float32(rotation)
	n.Orientation = mgl32.QuatRotate(math.Pi, mgl32.Vec3{0, 1, 0}).
		Mul(mgl32.QuatRotate(2*math.Pi-rot*math.Pi/2, mgl32.Vec3{0, 0, 1}))
	n.HasOrientation = true

	v.mapID, v.mapNode, v.mapMat = mapID, n, mat
	if img, ok := s.maps[mapID]; ok {
		s.applyMapTexture(v, img)
	} else {
		n.Visible = false
	}
	if s.mapFrames[mapID] == nil {
		s.mapFrames[mapID] = make(map[int32]bool)
	}
	s.mapFrames[mapID][v.ID] = true
	v.Root.Add(n)
}

func (s *Synchronizer) applyMapTexture(v *Visual, img image.Image) {
	tex := scene.NewTexture(s.deps.Backend, img, true)
	v.res.ReleaseGroup("map:tex")
	v.res.Own("map:tex", tex)
	v.mapMat.Texture = tex
	v.mapNode.Visible = true
}

// UpdateMap decodifica a imagem PNG de um mapa e a aplica a todos os frames
// que o exibem.
func (s *Synchronizer) UpdateMap(mapID int32, png []byte) {
	if s.deps.Images == nil {
		return
	}
	key := fmt.Sprintf("map:%d", mapID)
	s.deps.Images.Forget(key)
	s.deps.Images.LoadBytes(key, png).Then(func(img image.Image, err error) {
		if err != nil {
			log.Printf("[Entities] Erro ao decodificar mapa %d: %v", mapID, err)
			return
		}
		s.maps[mapID] = img
		for id := range s.mapFrames[mapID] {
			v, ok := s.visuals.Get(id)
			if !ok || !s.current(id, v) || v.mapID != mapID || v.mapNode == nil {
				delete(s.mapFrames[mapID], id)
				continue
			}
			s.applyMapTexture(v, img)
		}
	})
}
