package viewer

import (
	"VoxelView/cliente/internal/entities"
	"VoxelView/shared/mapdata"
	"VoxelView/shared/util"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Event é uma mensagem de entrada já decodificada. Todas são aplicadas por Dispatch.
type Event interface {
	isEvent()
}

// EntityUpdate cria ou atualiza uma entidade.
type EntityUpdate struct {
	State     entities.EntityState
	Overrides entities.Overrides
}

// EntityRemove remove uma entidade.
type EntityRemove struct {
	ID int32
}

// EntitySpeed é a velocidade horizontal média de uma entidade.
type EntitySpeed struct {
	ID     int32
	VX, VZ float64
}

// SwingArm inicia o golpe do braço de um jogador.
type SwingArm struct {
	ID int32
}

// Damage pinta a entidade de vermelho por um instante.
type Damage struct {
	ID int32
}

// CameraEntity troca a entidade usada como câmera. Self volta para o próprio jogador.
type CameraEntity struct {
	ID   int32
	Self bool
}

// LoadChunk entrega uma coluna para ser desenhada.
type LoadChunk struct {
	X, Z      int32
	Column    *mapdata.Column
	Config    mapdata.WorldConfig
	LightOnly bool // Atualização de luz; ignorada se a coluna não estiver carregada
}

// UnloadChunk descarta uma coluna.
type UnloadChunk struct {
	X, Z int32
}

// BlockUpdate altera um bloco.
type BlockUpdate struct {
	Pos     util.BlockPos
	StateID uint16
}

// BlockPalette registra nomes de state ids.
type BlockPalette struct {
	Names map[uint16]string
}

// ChunkPosUpdate informa a posição do observador.
type ChunkPosUpdate struct {
	Pos mgl32.Vec3
}

// RenderDistance altera o raio de visão em chunks.
type RenderDistance struct {
	Distance int32
}

// MarkAsLoaded marca uma coluna como terminada sem geometria.
type MarkAsLoaded struct {
	X, Z int32
}

// TimeUpdate é o horário do mundo em ticks (0-23999).
type TimeUpdate struct {
	TimeOfDay int
}

// Reset descarta o mundo inteiro (troca de dimensão ou servidor).
type Reset struct{}

// PlayerInfo traz texturas e modo de jogo de um jogador da lista.
type PlayerInfo struct {
	UUID             uuid.UUID
	Username         string
	TexturesProperty string // base64 do JSON de texturas; vazio = sem propriedade
	Gamemode         int32
	HasGamemode      bool
	Self             bool // Entrada do próprio jogador
}

// MapData traz a imagem PNG de um mapa.
type MapData struct {
	MapID int32
	PNG   []byte
}

func (EntityUpdate) isEvent()   {}
func (EntityRemove) isEvent()   {}
func (EntitySpeed) isEvent()    {}
func (SwingArm) isEvent()       {}
func (Damage) isEvent()         {}
func (CameraEntity) isEvent()   {}
func (LoadChunk) isEvent()      {}
func (UnloadChunk) isEvent()    {}
func (BlockUpdate) isEvent()    {}
func (BlockPalette) isEvent()   {}
func (ChunkPosUpdate) isEvent() {}
func (RenderDistance) isEvent() {}
func (MarkAsLoaded) isEvent()   {}
func (TimeUpdate) isEvent()     {}
func (Reset) isEvent()          {}
func (PlayerInfo) isEvent()     {}
func (MapData) isEvent()        {}
