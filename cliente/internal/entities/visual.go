package entities

import (
	"VoxelView/cliente/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Variant é a representação escolhida na criação do visual.
type Variant int

const (
	VariantPlayer Variant = iota
	VariantNamedMesh
	VariantPlaceholder
	VariantItem
)

func (v Variant) String() string {
	switch v {
	case VariantPlayer:
		return "player"
	case VariantNamedMesh:
		return "named_mesh"
	case VariantPlaceholder:
		return "placeholder"
	case VariantItem:
		return "item"
	}
	return "unknown"
}

// Visual é a representação viva de uma entidade.
type Visual struct {
	ID       int32
	Kind     string // Nome normalizado
	Variant  Variant
	UUID     uuid.UUID
	Username string
	Width    float32
	Height   float32

	Root  *scene.Node // "entity", unidades de bloco
	Mesh  *scene.Node // "mesh"
	Debug *scene.Node // "debug"

	Player *PlayerModel

	res      scene.Resources
	pos      vecTween
	yaw      yawTween
	damage   tintTween
	spinners []*scene.Node

	// Geração por slot; cargas de textura antigas são descartadas.
	slotGen map[string]int

	// Último nametag montado; textTag marca os vindos de metadados.
	tag     nametagOptions
	hasTag  bool
	textTag bool

	// Item frame exibindo mapa
	frame   *frameKey
	mapID   int32
	mapNode *scene.Node
	mapMat  *scene.Material

	backend  scene.Backend
	attached bool
	disposed bool
}

func newVisual(b scene.Backend, st EntityState, kind string) *Visual {
	v := &Visual{
		ID:       st.ID,
		Kind:     kind,
		UUID:     st.UUID,
		Username: st.Username,
		Width:    st.Width,
		Height:   st.Height,
		Root:     scene.NewGroup("entity"),
		slotGen:  make(map[string]int),
		backend:  b,
	}
	if st.Position != nil {
		v.Root.Position = *st.Position
	}
	v.pos.to = v.Root.Position
	if st.Yaw != nil {
		v.Root.Rotation[1] = *st.Yaw
	}
	v.yaw.to = v.Root.Rotation.Y()
	return v
}

// Dispose libera todos os recursos do visual e o remove do backend. Idempotente.
func (v *Visual) Dispose() {
	if v.disposed {
		return
	}
	v.disposed = true
	v.detach()
	v.res.ReleaseAll()
	v.spinners = nil
	v.mapNode, v.mapMat = nil, nil
}

// Alive é falso depois de Dispose.
func (v *Visual) Alive() bool {
	return !v.disposed
}

// Resources retorna a lista de recursos possuídos.
func (v *Visual) Resources() *scene.Resources {
	return &v.res
}

// Position retorna a posição amostrada (interpolada) do visual.
func (v *Visual) Position() mgl32.Vec3 {
	return v.Root.Position
}

// TargetPosition retorna o destino da interpolação atual.
func (v *Visual) TargetPosition() mgl32.Vec3 {
	return v.pos.to
}

// Yaw retorna o yaw amostrado.
func (v *Visual) Yaw() float32 {
	return v.Root.Rotation.Y()
}

// Visible informa o resultado do último cálculo de visibilidade.
func (v *Visual) Visible() bool {
	return v.Root.Visible
}

func (v *Visual) attach() {
	if v.attached || v.disposed {
		return
	}
	v.backend.Attach(v.Root)
	v.attached = true
}

func (v *Visual) detach() {
	if !v.attached {
		return
	}
	v.backend.Detach(v.Root)
	v.attached = false
}

// bumpSlot invalida cargas pendentes do slot e retorna a nova geração.
func (v *Visual) bumpSlot(slot string) int {
	v.slotGen[slot]++
	return v.slotGen[slot]
}

// moveTo agenda a interpolação de posição a partir do valor amostrado.
func (v *Visual) moveTo(target mgl32.Vec3) {
	v.pos.start(v.Root.Position, target)
}

// turnTo agenda a interpolação de yaw pelo menor caminho.
func (v *Visual) turnTo(target float32) {
	v.yaw.start(v.Root.Rotation.Y(), target)
}

// advance avança interpolações, animações, rotação contínua e tinta de dano.
func (v *Visual) advance(dt float32) {
	if v.pos.active {
		v.Root.Position = v.pos.advance(dt)
	}
	if v.yaw.active {
		v.Root.Rotation[1] = v.yaw.advance(dt)
	}
	if v.Player != nil && v.Player.Animation != nil {
		v.Player.Animation.Update(v.Player, dt)
	}
	for _, n := range v.spinners {
		n.Rotation[1] += n.Spin * dt
	}
	if v.damage.active {
		tint := v.damage.advance(dt)
		v.Mesh.Traverse(func(n *scene.Node) {
			if n.Material != nil {
				n.Tint = tint
			}
		})
	}
}

// ownNode registra a geometria, o material e o texto do nó no grupo.
func (v *Visual) ownNode(group string, n *scene.Node) {
	if n.Geometry != nil {
		v.res.Own(group, n.Geometry)
	}
	if n.Material != nil {
		v.res.Own(group, n.Material)
	}
	if n.Label != nil {
		v.res.Own(group, n.Label)
	}
}
