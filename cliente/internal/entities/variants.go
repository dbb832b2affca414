package entities

import (
	"errors"
	"image"
	"image/color"
	"log"
	"strings"

	"VoxelView/cliente/internal/assets"
	"VoxelView/cliente/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// variantBuilder monta a árvore de cena de um visual novo. Retorna false
// quando a entidade não deve ser exibida.
type variantBuilder func(s *Synchronizer, v *Visual, st EntityState, ov Overrides) bool

// variantBuilders mapeia tipos com representação própria. Os demais tipos
// passam pelo catálogo de modelos.
var variantBuilders = map[string]variantBuilder{
	"player": (*Synchronizer).buildPlayer,
	"item":   (*Synchronizer).buildDroppedItem,
}

// maxPlaceholderTags limita quantas caixas de um mesmo tipo ganham nome.
const maxPlaceholderTags = 5

var placeholderColor = color.NRGBA{R: 0xff, B: 0xff, A: 0xff}

func (s *Synchronizer) buildVariant(v *Visual, st EntityState, ov Overrides) bool {
	if build, ok := variantBuilders[v.Kind]; ok {
		return build(s, v, st, ov)
	}
	return s.buildCatalogOrPlaceholder(v, st, ov)
}

func (s *Synchronizer) buildCatalogOrPlaceholder(v *Visual, st EntityState, ov Overrides) bool {
	if st.Name != "" && s.deps.Catalog != nil {
		model, err := s.deps.Catalog.ResolveModel(st.Name)
		if err == nil {
			s.buildNamedMesh(v, model, ov)
			if st.Username != "" {
				s.addNametag(v, nametagOptions{Text: st.Username, Height: v.Height})
			}
			return true
		}
		if !errors.Is(err, assets.ErrModelNotFound) {
			log.Printf("[Entities] Erro ao resolver modelo %s: %v", st.Name, err)
		}
	}

	if !s.opts.ShowUnknownEntities {
		return false
	}
	s.buildPlaceholder(v, st)
	return true
}

// buildPlaceholder cria a caixa magenta do tamanho declarado da entidade.
func (s *Synchronizer) buildPlaceholder(v *Visual, st EntityState) {
	b := s.deps.Backend
	v.Variant = VariantPlaceholder
	v.Mesh = scene.NewGroup("mesh")

	w, h := st.Width, st.Height
	box := scene.NewNode("placeholder", scene.ShapeMesh)
	box.Geometry = scene.NewGeometry(b, scene.BoxGeometry(
		mgl32.Vec3{-w / 2, 0, -w / 2}, mgl32.Vec3{w / 2, h, w / 2}, nil))
	box.Material = scene.NewMaterial(b, placeholderColor, nil)
	v.ownNode("base", box)
	v.Mesh.Add(box)

	s.placeholderTags[st.Name]++
	if s.placeholderTags[st.Name] <= maxPlaceholderTags {
		s.addNametag(v, nametagOptions{Text: st.Name, Height: h})
	}
}

// buildNamedMesh monta os ossos do modelo do catálogo. Coordenadas em 1/16 de bloco.
func (s *Synchronizer) buildNamedMesh(v *Visual, model *assets.EntityModel, ov Overrides) {
	b := s.deps.Backend
	v.Variant = VariantNamedMesh
	v.Mesh = scene.NewGroup("mesh")
	root := scene.NewGroup("model")
	root.SetUniformScale(1.0 / 16)
	v.Mesh.Add(root)

	// Um material por slot de textura; "" é a textura principal.
	materials := make(map[string]*scene.Material)
	material := func(slot string) *scene.Material {
		if m, ok := materials[slot]; ok {
			return m
		}
		m := scene.NewMaterial(b, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, nil)
		m.Transparent = true
		m.AlphaTest = 0.1
		v.res.Own("base", m)
		materials[slot] = m

		url := model.Texture
		if slot != "" && ov.Textures[slot] != "" {
			url = ov.Textures[slot]
		} else if slot == "" && ov.Texture != "" {
			url = ov.Texture
		}
		if url != "" {
			s.loadTextureInto(v, "texture:"+slot, m, s.textureURL(url))
		}
		return m
	}

	bones := make(map[string]*scene.Node)
	pivots := make(map[string]mgl32.Vec3)
	for _, bone := range model.Bones {
		name := strings.ToLower(bone.Name)
		node := scene.NewGroup("bone_" + name)
		pivot := mgl32.Vec3(bone.Pivot)
		parentPivot := mgl32.Vec3{}
		parent := root
		if p, ok := bones[strings.ToLower(bone.Parent)]; ok && bone.Parent != "" {
			parent = p
			parentPivot = pivots[strings.ToLower(bone.Parent)]
		}
		node.Position = pivot.Sub(parentPivot)
		node.Rotation = mgl32.Vec3{
			mgl32.DegToRad(bone.Rotation[0]),
			mgl32.DegToRad(bone.Rotation[1]),
			mgl32.DegToRad(bone.Rotation[2]),
		}
		node.Order = scene.OrderZYX
		parent.Add(node)
		bones[name] = node
		pivots[name] = pivot

		for _, cube := range bone.Cubes {
			size := mgl32.Vec3(cube.Size)
			inflate := mgl32.Vec3{cube.Inflate, cube.Inflate, cube.Inflate}
			min := mgl32.Vec3(cube.Origin).Sub(pivot).Sub(inflate)
			max := mgl32.Vec3(cube.Origin).Add(size).Sub(pivot).Add(inflate)
			faces := scene.CubeUV(cube.UV[0], cube.UV[1], size, model.TextureWidth, model.TextureHeight)
			if cube.Mirror {
				mirrorFaces(&faces)
			}

			geo := scene.NewNode("geometry_"+name, scene.ShapeMesh)
			geo.Geometry = scene.NewGeometry(b, scene.BoxGeometry(min, max, &faces))
			geo.Material = material(bone.Texture)
			v.res.Own("base", geo.Geometry)
			node.Add(geo)
		}
	}
}

func mirrorFaces(faces *[6]scene.Rect) {
	for i := range faces {
		faces[i].U += faces[i].W
		faces[i].W = -faces[i].W
	}
}

// buildDroppedItem monta o item largado no chão, girando em Y.
func (s *Synchronizer) buildDroppedItem(v *Visual, st EntityState, _ Overrides) bool {
	item := st.Meta.Item
	if item.IsEmpty() || s.deps.Items == nil {
		return false
	}
	model, ok := s.deps.Items.ResolveItem(*item, DisplayGround)
	if !ok {
		return false
	}
	v.Variant = VariantItem
	v.Mesh = scene.NewGroup("mesh")
	v.Mesh.SetUniformScale(0.5)
	v.Mesh.Position = mgl32.Vec3{0, 0.2, 0}
	v.Mesh.Spin = 1
	v.spinners = append(v.spinners, v.Mesh)
	v.Mesh.Add(s.buildItemNode(v, "item", model, DisplayGround))
	return true
}

// textureURL converte referências de textura em caminhos carregáveis.
func (s *Synchronizer) textureURL(ref string) string {
	if name, ok := strings.CutPrefix(ref, "block:"); ok {
		return s.assetPath("textures/block/" + name + ".png")
	}
	return ref
}

func (s *Synchronizer) assetPath(rel string) string {
	if s.opts.AssetsDir == "" {
		return "assets/" + rel
	}
	return s.opts.AssetsDir + "/" + rel
}

// loadTextureInto carrega url e aplica a textura ao material quando pronta.
// A textura anterior do grupo é liberada; cargas obsoletas são ignoradas.
func (s *Synchronizer) loadTextureInto(v *Visual, group string, mat *scene.Material, url string) {
	if s.deps.Images == nil {
		return
	}
	gen := v.bumpSlot(group)
	s.deps.Images.Load(url).Then(func(img image.Image, err error) {
		if !s.current(v.ID, v) || v.slotGen[group] != gen {
			return
		}
		if err != nil {
			log.Printf("[Entities] Textura %s indisponível para entidade %d: %v", url, v.ID, err)
			return
		}
		tex := scene.NewTexture(s.deps.Backend, img, true)
		v.res.ReleaseGroup(group)
		v.res.Own(group, tex)
		mat.Texture = tex
	})
}
