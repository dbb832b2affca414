package entities

import (
	"image"
	"image/color"

	"VoxelView/cliente/internal/assets"
	"VoxelView/cliente/internal/async"
	"VoxelView/cliente/internal/scene"
	"VoxelView/shared/util"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// visibleDistanceSq é o raio (ao quadrado) dentro do qual uma entidade é
// sempre visível, mesmo com o chunk ainda carregando.
const visibleDistanceSq = 8 * 8

// Debug modes
const (
	DebugNone  = "none"
	DebugBasic = "basic"
)

// Options controla o comportamento do sincronizador.
type Options struct {
	ShowUnknownEntities bool
	RenderEars          bool
	DefaultSkinURL      string
	SkinLookupURL       string // %s = username, %s = "skin" | "cape"
	SkinTexturesProxy   string
	AssetsDir           string
}

// Deps são os colaboradores do sincronizador.
type Deps struct {
	Backend scene.Backend
	Loop    *async.Loop
	Images  *assets.TextureCache
	Catalog ModelCatalog // Opcional
	Items   ItemResolver // Opcional
	Store   SkinStore    // Opcional
}

// Synchronizer mantém no máximo um visual por id de entidade.
// Todos os métodos devem ser chamados pela thread principal.
type Synchronizer struct {
	deps Deps
	opts Options

	visuals *scene.Registry[int32, *Visual]

	skins           map[uuid.UUID]SkinURLs
	placeholderTags map[string]int
	speedModes      map[int32]Mode

	maps      map[int32]image.Image
	mapFrames map[int32]map[int32]bool

	debugMode    string
	rendering    bool
	cameraEntity int32
	hasCamera    bool

	listeners []func(Notification)
}

// NewSynchronizer cria um sincronizador vazio.
func NewSynchronizer(deps Deps, opts Options) *Synchronizer {
	return &Synchronizer{
		deps:            deps,
		opts:            opts,
		visuals:         scene.NewRegistry[int32, *Visual](),
		skins:           make(map[uuid.UUID]SkinURLs),
		placeholderTags: make(map[string]int),
		speedModes:      make(map[int32]Mode),
		maps:            make(map[int32]image.Image),
		mapFrames:       make(map[int32]map[int32]bool),
		debugMode:       DebugNone,
		rendering:       true,
	}
}

// Subscribe registra um ouvinte de notificações add/remove.
func (s *Synchronizer) Subscribe(fn func(Notification)) {
	s.listeners = append(s.listeners, fn)
}

func (s *Synchronizer) emit(kind NotificationKind, v *Visual) {
	n := Notification{
		Kind:     kind,
		ID:       v.ID,
		Name:     v.Kind,
		Username: v.Username,
		UUID:     v.UUID,
		Position: v.pos.to,
	}
	for _, fn := range s.listeners {
		fn(n)
	}
}

// Get retorna o visual de id.
func (s *Synchronizer) Get(id int32) (*Visual, bool) {
	return s.visuals.Get(id)
}

// Len retorna o número de visuais vivos.
func (s *Synchronizer) Len() int {
	return s.visuals.Len()
}

// current retorna o visual de id somente se ainda for o mesmo objeto v.
func (s *Synchronizer) current(id int32, v *Visual) bool {
	cur, ok := s.visuals.Get(id)
	return ok && cur == v && v.Alive()
}

// Upsert cria o visual da entidade, se necessário, e aplica o novo estado.
func (s *Synchronizer) Upsert(st EntityState, ov Overrides) {
	kind := assets.NormalizeName(st.Name)
	kindOverrides(kind, &ov)

	v, ok := s.visuals.Get(st.ID)
	created := false
	if !ok {
		v = s.create(st, kind, ov)
		if v == nil {
			return
		}
		created = true
	}

	s.apply(v, st, ov)

	if !created {
		if st.Position != nil {
			v.moveTo(*st.Position)
		}
		if st.Yaw != nil {
			v.turnTo(*st.Yaw)
		}
	}
}

// kindOverrides aplica substituições de textura fixas por tipo.
func kindOverrides(kind string, ov *Overrides) {
	switch kind {
	case "zombie_villager":
		ov.Texture = "assets/textures/entity/zombie_villager/zombie_villager.png"
	case "husk":
		ov.Texture = "assets/textures/entity/zombie/husk.png"
	case "glow_item_frame":
		if ov.Textures == nil {
			ov.Textures = make(map[string]string)
		}
		ov.Textures["background"] = "block:glow_item_frame"
	}
}

func (s *Synchronizer) create(st EntityState, kind string, ov Overrides) *Visual {
	v := newVisual(s.deps.Backend, st, kind)
	if !s.buildVariant(v, st, ov) {
		v.res.ReleaseAll()
		return nil
	}
	v.Mesh.Name = "mesh"
	v.Root.Add(v.Mesh)
	v.Root.Add(s.debugBox(v, st))

	s.visuals.Put(st.ID, v)
	s.setDebugMode(v)
	if s.rendering {
		v.attach()
	}
	s.emit(NotifyAdd, v)

	if v.Variant == VariantPlayer {
		// A skin inicial não entra no cache por uuid.
		skin := s.opts.DefaultSkinURL
		if ov.Texture != "" {
			skin = ov.Texture
		}
		if skin != "" {
			s.applySkin(v, st.Username, skin, "")
		}
	}
	return v
}

func (s *Synchronizer) debugBox(v *Visual, st EntityState) *scene.Node {
	w, h := st.Width, st.Height
	if w <= 0 {
		w = 0.6
	}
	if h <= 0 {
		h = 1.8
	}
	box := scene.NewNode("debug", scene.ShapeWireBox)
	box.Size = mgl32.Vec3{w, h, w}
	box.Offset = mgl32.Vec3{0, h / 2, 0}
	box.Tint = categoryColor(st.Category)
	box.Visible = false
	v.Debug = box
	return box
}

func categoryColor(c Category) color.NRGBA {
	switch c {
	case CategoryHostile:
		return color.NRGBA{R: 0xff, A: 0xff}
	case CategoryMob:
		return color.NRGBA{G: 0xff, A: 0xff}
	case CategoryPlayer:
		return color.NRGBA{B: 0xff, A: 0xff}
	}
	return color.NRGBA{R: 0xff, G: 0xa5, A: 0xff}
}

// apply aplica o estado a um visual existente (ou recém-criado).
func (s *Synchronizer) apply(v *Visual, st EntityState, ov Overrides) {
	if st.Equipment != nil {
		s.applyEquipment(v, st.Equipment)
	}

	invisible := st.Meta.Invisible() || (s.hasCamera && s.cameraEntity == st.ID)
	for _, c := range v.Mesh.Children() {
		if c.Name != "nametag" {
			c.Visible = !invisible
		}
	}

	if st.Meta.Baby {
		v.Root.SetUniformScale(0.5)
	} else {
		v.Root.SetUniformScale(1)
	}

	if v.Kind != "player" {
		s.applyDisplayText(v, st)
	}
	if st.Meta.ArmorStand != nil {
		applyArmorStand(v, st.Meta.ArmorStand)
	}
	if st.Meta.ItemFrame != nil {
		s.applyItemFrame(v, st, st.Meta.ItemFrame)
	}

	if st.Username != "" {
		v.Username = st.Username
	}
	if st.UUID != uuid.Nil {
		v.UUID = st.UUID
	}

	if v.Player != nil && ov.Head != nil {
		var yaw float32
		if st.Yaw != nil {
			yaw = *st.Yaw
		}
		head := v.Player.Head
		if ov.Head.HasY {
			head.Rotation[1] = -(ov.Head.Y - yaw)
		} else {
			head.Rotation[1] = 0
		}
		if ov.Head.HasX {
			head.Rotation[0] = -ov.Head.X
		} else {
			head.Rotation[0] = 0
		}
	}
}

// Remove descarta o visual de id. Remover um id ausente não faz nada.
func (s *Synchronizer) Remove(id int32) {
	v, ok := s.visuals.Remove(id)
	if !ok {
		return
	}
	s.forget(v)
	s.emit(NotifyRemove, v)
}

func (s *Synchronizer) forget(v *Visual) {
	delete(s.speedModes, v.ID)
	if v.mapID != 0 {
		delete(s.mapFrames[v.mapID], v.ID)
	}
}

// Clear remove todos os visuais (troca de mundo).
func (s *Synchronizer) Clear() {
	for _, id := range s.visuals.Keys() {
		s.Remove(id)
	}
	s.placeholderTags = make(map[string]int)
}

// Advance avança interpolações e animações de todos os visuais.
func (s *Synchronizer) Advance(dt float32) {
	s.visuals.Each(func(_ int32, v *Visual) {
		v.advance(dt)
	})
}

// UpdateVisibility mostra entidades próximas do observador ou em chunks já
// terminados e esconde as demais. Usa a posição alvo, não a interpolada.
func (s *Synchronizer) UpdateVisibility(viewer mgl32.Vec3, finished func(util.ChunkKey) bool) {
	s.visuals.Each(func(_ int32, v *Visual) {
		p := v.pos.to
		v.Root.Visible = util.DistSq(p, viewer) < visibleDistanceSq || finished(util.ChunkKeyAt(p))
	})
}

// SetDebugMode liga ("basic") ou desliga ("none") as caixas de debug.
func (s *Synchronizer) SetDebugMode(mode string) {
	s.debugMode = mode
	s.visuals.Each(func(_ int32, v *Visual) {
		s.setDebugMode(v)
	})
}

func (s *Synchronizer) setDebugMode(v *Visual) {
	if v.Debug != nil {
		v.Debug.Visible = s.debugMode == DebugBasic
	}
}

// SetRendering adiciona ou remove todas as entidades do backend.
func (s *Synchronizer) SetRendering(rendering bool) {
	s.rendering = rendering
	s.visuals.Each(func(_ int32, v *Visual) {
		if rendering {
			v.attach()
		} else {
			v.detach()
		}
	})
}

// SetCameraEntity marca a entidade usada como câmera (fica invisível).
func (s *Synchronizer) SetCameraEntity(id int32, ok bool) {
	s.cameraEntity, s.hasCamera = id, ok
}

// TogglePlayerNametags mostra ou esconde os nomes dos jogadores.
func (s *Synchronizer) TogglePlayerNametags(show bool) {
	s.visuals.Each(func(_ int32, v *Visual) {
		if v.Kind != "player" {
			return
		}
		v.Root.Traverse(func(n *scene.Node) {
			if n.Name == "nametag" {
				n.Visible = show
			}
		})
	})
}

// HandleDamage pinta a entidade de vermelho e volta à cor normal em 500 ms.
func (s *Synchronizer) HandleDamage(id int32) {
	v, ok := s.visuals.Get(id)
	if !ok {
		return
	}
	red := color.NRGBA{R: 255, A: 255}
	v.Mesh.Traverse(func(n *scene.Node) {
		if n.Material != nil {
			n.Tint = red
		}
	})
	v.damage.start()
}

// EntitiesByName agrupa os visuais pelo tipo normalizado.
func (s *Synchronizer) EntitiesByName() map[string][]*Visual {
	byName := make(map[string][]*Visual)
	s.visuals.Each(func(_ int32, v *Visual) {
		byName[v.Kind] = append(byName[v.Kind], v)
	})
	return byName
}

// RenderingCount retorna quantas entidades estão visíveis.
func (s *Synchronizer) RenderingCount() int {
	n := 0
	s.visuals.Each(func(_ int32, v *Visual) {
		if v.Root.Visible {
			n++
		}
	})
	return n
}

// IDByUUID procura o visual de um jogador pelo uuid.
func (s *Synchronizer) IDByUUID(id uuid.UUID) (int32, bool) {
	var found int32
	ok := false
	s.visuals.Each(func(k int32, v *Visual) {
		if !ok && v.UUID == id {
			found, ok = k, true
		}
	})
	return found, ok
}
