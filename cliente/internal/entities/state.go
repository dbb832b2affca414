// Package entities mantém um visual por entidade do mundo: cria, atualiza,
// interpola e descarta as árvores de cena, e aplica skins, equipamentos e
// poses conforme os eventos chegam.
package entities

import (
	"VoxelView/cliente/internal/assets"
	"VoxelView/cliente/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Category define a cor da caixa de debug.
type Category int

const (
	CategoryOther Category = iota
	CategoryHostile
	CategoryMob
	CategoryPlayer
)

// Slots de equipamento na ordem do protocolo.
const (
	SlotMainHand = iota
	SlotOffHand
	SlotFeet
	SlotLegs
	SlotChest
	SlotHead
	SlotCount
)

// Item é um item de inventário já decodificado.
type Item struct {
	Name  string // Sem namespace: "diamond_sword"
	Count int
	MapID int32 // 0 = não é um mapa preenchido

	// Cor de couro tingido
	Color    int32
	HasColor bool

	// Perfil de cabeça de jogador (base64 do JSON de texturas)
	Profile    string
	HasProfile bool
}

// IsEmpty é verdadeiro para slot vazio ou ar.
func (it *Item) IsEmpty() bool {
	return it == nil || it.Name == "" || it.Name == "air"
}

// Equipment é o conteúdo dos seis slots. Slot nil = vazio.
type Equipment [SlotCount]*Item

// EntityState é o snapshot de uma entidade recebido num evento.
type EntityState struct {
	ID       int32
	Name     string // Tipo da entidade ("zombie", "ArmorStand", ...)
	Category Category
	UUID     uuid.UUID
	Username string

	Position *mgl32.Vec3 // nil = inalterada
	Yaw      *float32    // Radianos; nil = inalterado
	Pitch    float32

	Width  float32
	Height float32

	Equipment *Equipment // nil = inalterado
	Meta      Metadata
}

// HeadRotation força a rotação da cabeça do jogador (radianos).
type HeadRotation struct {
	X, Y float32
	HasX bool
	HasY bool
}

// Overrides são substituições visuais fornecidas pelo chamador.
type Overrides struct {
	Texture  string            // Textura principal
	Textures map[string]string // Texturas por nome (ex.: "background")
	Head     *HeadRotation
}

// DisplayContext é o contexto em que um item é mostrado.
type DisplayContext string

const (
	DisplayGround      DisplayContext = "ground"
	DisplayThirdPerson DisplayContext = "thirdperson"
	DisplayFixed       DisplayContext = "fixed"
)

// ItemModel é a aparência de um item resolvida pelo atlas.
type ItemModel struct {
	Name    string
	IsBlock bool
	Atlas   *scene.Texture // Compartilhado; não pertence ao visual
	UV      scene.Rect
}

// ModelCatalog resolve modelos de entidades pelo nome.
type ModelCatalog interface {
	ResolveModel(name string) (*assets.EntityModel, error)
}

// ItemResolver resolve a aparência de um item.
type ItemResolver interface {
	ResolveItem(item Item, ctx DisplayContext) (ItemModel, bool)
}

// SkinURLs é a entrada do cache de skins por uuid.
type SkinURLs struct {
	Skin string
	Cape string
}

// SkinStore persiste o cache de skins. Chamado fora da thread principal.
type SkinStore interface {
	SaveSkin(id uuid.UUID, urls SkinURLs) error
}

// NotificationKind distingue criação e remoção.
type NotificationKind int

const (
	NotifyAdd NotificationKind = iota
	NotifyRemove
)

func (k NotificationKind) String() string {
	if k == NotifyRemove {
		return "remove"
	}
	return "add"
}

// Notification é emitida uma vez por criação e uma vez por remoção de visual.
type Notification struct {
	Kind     NotificationKind
	ID       int32
	Name     string
	Username string
	UUID     uuid.UUID
	Position mgl32.Vec3
}
