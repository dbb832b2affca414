package entities

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"strings"

	"VoxelView/cliente/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// defaultLeatherColor é a cor do couro sem tingimento.
var defaultLeatherColor = color.NRGBA{R: 0xB5, G: 0x6D, B: 0x51, A: 0xFF}

// armorMaterials são os prefixos de item com textura de armadura.
var armorMaterials = map[string]string{
	"leather":   "leather",
	"chainmail": "chainmail",
	"iron":      "iron",
	"golden":    "gold",
	"diamond":   "diamond",
	"netherite": "netherite",
	"turtle":    "turtle",
}

// armorPiece é um cubo de armadura preso a um osso humanoide (layout 64x32).
type armorPiece struct {
	bone    string
	uv      [2]int
	size    mgl32.Vec3
	min     mgl32.Vec3
	inflate float32
	mirror  bool
}

// armorModel define as peças de cada slot.
var armorModel = map[string][]armorPiece{
	"head": {
		{bone: "bone_head", uv: [2]int{0, 0}, size: mgl32.Vec3{8, 8, 8}, min: mgl32.Vec3{-4, 0, -4}, inflate: 1},
	},
	"chest": {
		{bone: "bone_body", uv: [2]int{16, 16}, size: mgl32.Vec3{8, 12, 4}, min: mgl32.Vec3{-4, -12, -2}, inflate: 1},
		{bone: "bone_rightarm", uv: [2]int{40, 16}, size: mgl32.Vec3{4, 12, 4}, min: mgl32.Vec3{-3, -10, -2}, inflate: 1},
		{bone: "bone_leftarm", uv: [2]int{40, 16}, size: mgl32.Vec3{4, 12, 4}, min: mgl32.Vec3{-1, -10, -2}, inflate: 1, mirror: true},
	},
	"legs": {
		{bone: "bone_body", uv: [2]int{16, 16}, size: mgl32.Vec3{8, 12, 4}, min: mgl32.Vec3{-4, -12, -2}, inflate: 0.5},
		{bone: "bone_rightleg", uv: [2]int{0, 16}, size: mgl32.Vec3{4, 12, 4}, min: mgl32.Vec3{-2, -12, -2}, inflate: 0.5},
		{bone: "bone_leftleg", uv: [2]int{0, 16}, size: mgl32.Vec3{4, 12, 4}, min: mgl32.Vec3{-2, -12, -2}, inflate: 0.5, mirror: true},
	},
	"feet": {
		{bone: "bone_rightleg", uv: [2]int{0, 16}, size: mgl32.Vec3{4, 12, 4}, min: mgl32.Vec3{-2, -12, -2}, inflate: 1},
		{bone: "bone_leftleg", uv: [2]int{0, 16}, size: mgl32.Vec3{4, 12, 4}, min: mgl32.Vec3{-2, -12, -2}, inflate: 1, mirror: true},
	},
}

// playerHeadPiece é a cabeça de jogador usada como capacete (skin 64x64).
var playerHeadPiece = armorPiece{bone: "bone_head", uv: [2]int{0, 0}, size: mgl32.Vec3{8, 8, 8}, min: mgl32.Vec3{-4, 0, -4}, inflate: 0.6}

// applyEquipment atualiza itens segurados, armaduras e equipamento das costas.
func (s *Synchronizer) applyEquipment(v *Visual, eq *Equipment) {
	s.addItemModel(v, "left", eq[SlotMainHand])
	s.addItemModel(v, "right", eq[SlotOffHand])
	s.addArmorModel(v, "feet", eq[SlotFeet], 1, false)
	s.addArmorModel(v, "legs", eq[SlotLegs], 2, false)
	if v.Player != nil && !eq[SlotChest].IsEmpty() && eq[SlotChest].Name == "elytra" {
		s.removeArmorModel(v, "chest")
	} else {
		s.addArmorModel(v, "chest", eq[SlotChest], 1, false)
	}
	s.addArmorModel(v, "head", eq[SlotHead], 1, false)

	if v.Player != nil {
		back := BackCape
		for _, it := range eq {
			if !it.IsEmpty() && it.Name == "elytra" {
				back = BackElytra
			}
		}
		v.Player.SetBack(back)
	}
}

// addItemModel troca o item segurado na mão indicada.
func (s *Synchronizer) addItemModel(v *Visual, hand string, item *Item) {
	group := "slot:" + hand
	anchorName := "bone_" + hand + "item"
	anchor := v.Root.Find(anchorName)
	if anchor != nil {
		for _, c := range append([]*scene.Node(nil), anchor.Children()...) {
			anchor.Remove(c)
		}
	}
	v.res.ReleaseGroup(group)
	if item.IsEmpty() || anchor == nil || s.deps.Items == nil {
		return
	}

	model, ok := s.deps.Items.ResolveItem(*item, DisplayThirdPerson)
	if !ok {
		return
	}
	itemNode := s.buildItemNode(v, group, model, DisplayThirdPerson)
	holder := scene.NewGroup("held_item")
	holder.Rotation[2] = -math.Pi / 16
	if model.IsBlock {
		holder.Rotation[1] = math.Pi / 4
	} else {
		itemNode.Rotation[2] = -math.Pi / 4
		holder.Rotation[1] = math.Pi / 2
		holder.SetUniformScale(2)
	}
	holder.Add(itemNode)
	anchor.Add(holder)
}

// buildItemNode monta a malha de um item: cubo para blocos, plano com frente
// e verso espelhado para os demais. Os recursos ficam no grupo indicado.
func (s *Synchronizer) buildItemNode(v *Visual, group string, model ItemModel, ctx DisplayContext) *scene.Node {
	b := s.deps.Backend
	scale := float32(1)
	switch ctx {
	case DisplayGround:
		scale = 0.5
	case DisplayThirdPerson:
		scale = 6
	}

	node := scene.NewGroup("item_model")
	node.SetUniformScale(scale)

	newMat := func() *scene.Material {
		m := scene.NewMaterial(b, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, model.Atlas)
		m.UV = model.UV
		m.Transparent = true
		m.AlphaTest = 0.1
		return m
	}

	if model.IsBlock {
		faces := [6]scene.Rect{model.UV, model.UV, model.UV, model.UV, model.UV, model.UV}
		cube := scene.NewNode("block", scene.ShapeMesh)
		cube.Geometry = scene.NewGeometry(b, scene.BoxGeometry(mgl32.Vec3{-0.5, -0.5, -0.5}, mgl32.Vec3{0.5, 0.5, 0.5}, &faces))
		cube.Material = newMat()
		v.ownNode(group, cube)
		node.Add(cube)
		return node
	}

	front := scene.NewNode("front", scene.ShapeMesh)
	front.Geometry = scene.NewGeometry(b, scene.PlaneGeometry(1, 1, model.UV))
	front.Material = newMat()
	v.ownNode(group, front)
	node.Add(front)

	flipped := model.UV
	flipped.U += flipped.W
	flipped.W = -flipped.W
	back := scene.NewNode("back", scene.ShapeMesh)
	back.Rotation[1] = math.Pi
	back.Geometry = scene.NewGeometry(b, scene.PlaneGeometry(1, 1, flipped))
	back.Material = newMat()
	back.Material.UV = flipped
	v.ownNode(group, back)
	node.Add(back)
	return node
}

func armorNodeName(slot string, overlay bool) string {
	if overlay {
		return "geometry_armor_" + slot + "_overlay"
	}
	return "geometry_armor_" + slot
}

// addArmorModel coloca ou atualiza a armadura de um slot. Couro ganha a cor
// do item (ou marrom padrão) e uma camada de overlay sem tinta.
func (s *Synchronizer) addArmorModel(v *Visual, slot string, item *Item, layer int, overlay bool) {
	if v.Variant != VariantPlayer && v.Variant != VariantNamedMesh {
		return
	}
	if item.IsEmpty() {
		s.removeArmorModel(v, slot)
		return
	}

	isPlayerHead := slot == "head" && item.Name == "player_head"
	var texture string
	if isPlayerHead {
		s.removeArmorModel(v, slot)
		if item.HasProfile {
			skin, _, err := DecodeTexturesProperty(item.Profile)
			if err != nil {
				log.Printf("[Entities] Erro ao decodificar textura de cabeça: %v", err)
			}
			texture = ApplyTexturesProxy(skin, s.opts.SkinTexturesProxy)
		} else {
			texture = s.opts.DefaultSkinURL
		}
	}

	prefix, _, _ := strings.Cut(item.Name, "_")
	if texture == "" && !isPlayerHead {
		if mat, ok := armorMaterials[prefix]; ok {
			suffix := ""
			if overlay {
				suffix = "_overlay"
			}
			texture = s.assetPath(fmt.Sprintf("textures/models/armor/%s_layer_%d%s.png", mat, layer, suffix))
		}
	}
	pieces := armorModel[slot]
	if isPlayerHead {
		pieces = []armorPiece{playerHeadPiece}
	}
	if texture == "" || len(pieces) == 0 {
		s.removeArmorModel(v, slot)
		return
	}

	name := armorNodeName(slot, overlay)
	if isPlayerHead {
		name += "_skull"
	} else if v.Root.Find(armorNodeName(slot, false)+"_skull") != nil {
		s.removeArmorModel(v, slot)
	}
	group := "armor:" + slot
	if overlay {
		group += "_overlay"
	}

	mat := s.armorMaterial(v, name)
	if mat == nil {
		mat = scene.NewMaterial(s.deps.Backend, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, nil)
		mat.Transparent = true
		mat.AlphaTest = 0.1
		mat.DoubleSided = !isPlayerHead
		v.res.Own(group, mat)

		texW, texH := 64, 32
		if isPlayerHead {
			texW, texH = 64, 64
		}
		for _, piece := range pieces {
			bone := v.Root.Find(piece.bone)
			if bone == nil {
				continue
			}
			infl := mgl32.Vec3{piece.inflate, piece.inflate, piece.inflate}
			faces := scene.CubeUV(piece.uv[0], piece.uv[1], piece.size, texW, texH)
			if piece.mirror {
				mirrorFaces(&faces)
			}
			n := scene.NewNode(name, scene.ShapeMesh)
			n.Geometry = scene.NewGeometry(s.deps.Backend, scene.BoxGeometry(piece.min.Sub(infl), piece.min.Add(piece.size).Add(infl), &faces))
			n.Material = mat
			v.res.Own(group, n.Geometry)
			bone.Add(n)
		}
	}
	s.loadTextureInto(v, group+":tex", mat, texture)

	if prefix == "leather" && !overlay {
		if item.HasColor {
			c := item.Color
			mat.Color = color.NRGBA{R: uint8(c >> 16 & 0xff), G: uint8(c >> 8 & 0xff), B: uint8(c & 0xff), A: 0xff}
		} else {
			mat.Color = defaultLeatherColor
		}
		s.addArmorModel(v, slot, item, layer, true)
	} else {
		mat.Color = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
		if !overlay {
			s.removeOverlay(v, slot)
		}
	}
}

// removeOverlay retira apenas a camada de overlay do couro.
func (s *Synchronizer) removeOverlay(v *Visual, slot string) {
	name := armorNodeName(slot, true)
	var found []*scene.Node
	v.Root.Traverse(func(n *scene.Node) {
		if n.Name == name {
			found = append(found, n)
		}
	})
	for _, n := range found {
		n.RemoveFromParent()
	}
	group := "armor:" + slot + "_overlay"
	v.res.ReleaseGroup(group)
	v.res.ReleaseGroup(group + ":tex")
	v.bumpSlot(group + ":tex")
}

// armorMaterial retorna o material de uma armadura já montada.
func (s *Synchronizer) armorMaterial(v *Visual, name string) *scene.Material {
	var mat *scene.Material
	v.Root.Traverse(func(n *scene.Node) {
		if mat == nil && n.Name == name {
			mat = n.Material
		}
	})
	return mat
}

// removeArmorModel retira a armadura do slot e sua camada de overlay.
func (s *Synchronizer) removeArmorModel(v *Visual, slot string) {
	names := map[string]bool{
		armorNodeName(slot, false):            true,
		armorNodeName(slot, true):             true,
		armorNodeName(slot, false) + "_skull": true,
	}
	var found []*scene.Node
	v.Root.Traverse(func(n *scene.Node) {
		if names[n.Name] {
			found = append(found, n)
		}
	})
	for _, n := range found {
		n.RemoveFromParent()
	}
	for _, g := range []string{"armor:" + slot, "armor:" + slot + "_overlay"} {
		v.res.ReleaseGroup(g)
		v.res.ReleaseGroup(g + ":tex")
		v.bumpSlot(g + ":tex")
	}
}
