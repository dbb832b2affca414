// Package viewer liga os eventos do jogo às estruturas do cliente: o
// sincronizador de entidades, o agrupador de chunks e o controle de luz. O
// frame loop chama Dispatch para cada evento e Frame uma vez por quadro.
package viewer

import (
	"errors"
	"fmt"
	"log"
	"time"

	"VoxelView/cliente/internal/async"
	"VoxelView/cliente/internal/entities"
	"VoxelView/cliente/internal/scene"
	"VoxelView/shared/mapdata"
)

var (
	// ErrUnknownEvent é retornado para tipos de evento não tratados.
	ErrUnknownEvent = errors.New("evento desconhecido")
	// ErrEventPanic indica que o tratamento de um evento entrou em pânico.
	ErrEventPanic = errors.New("pânico ao tratar evento")
)

// Options configura o viewer.
type Options struct {
	BatchWait         time.Duration
	ViewDistance      int32
	SmoothLight       bool
	LoadPlayerSkins   bool
	SkinTexturesProxy string
}

// Deps são os colaboradores do viewer.
type Deps struct {
	Backend  scene.Backend
	Loop     *async.Loop
	Entities *entities.Synchronizer
	Builder  MeshBuilder
	Blocks   *mapdata.BlockStore // Opcional
	Clock    Clock               // Opcional
}

// Viewer aplica eventos e avança o quadro. Todos os métodos devem ser
// chamados pela thread principal.
type Viewer struct {
	loop  *async.Loop
	clock Clock
	opts  Options

	Entities *entities.Synchronizer
	World    *World
	Light    *LightController
	Blocks   *mapdata.BlockStore

	skins *skinHook

	// Último estado completo por entidade, usado para reaplicar ao trocar a câmera.
	states map[int32]entities.EntityState

	camera    int32
	hasCamera bool
}

// New cria o viewer e liga os ouvintes de notificações.
func New(deps Deps, opts Options) *Viewer {
	clock := deps.Clock
	if clock == nil {
		clock = SystemClock
	}
	blocks := deps.Blocks
	if blocks == nil {
		blocks = mapdata.NewBlockStore()
	}

	v := &Viewer{
		loop:     deps.Loop,
		clock:    clock,
		opts:     opts,
		Entities: deps.Entities,
		World:    NewWorld(deps.Backend, deps.Builder, clock, opts.BatchWait, opts.ViewDistance),
		Blocks:   blocks,
		states:   make(map[int32]entities.EntityState),
	}
	v.World.SetSmoothLight(opts.SmoothLight)
	v.Light = NewLightController(func(level int) {
		v.World.SetSkyLight(level)
		n := v.World.RerenderAll()
		log.Printf("[World] Luz do céu = %d, %d chunks reenfileirados", level, n)
	})
	v.skins = newSkinHook(v, opts.LoadPlayerSkins)
	v.Entities.Subscribe(v.skins.notify)
	return v
}

// Dispatch aplica um evento. Um evento com falha nunca impede os seguintes.
func (v *Viewer) Dispatch(ev Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w %T: %v", ErrEventPanic, ev, r)
		}
	}()

	switch e := ev.(type) {
	case EntityUpdate:
		st := v.remember(e.State)
		_, existed := v.Entities.Get(st.ID)
		v.Entities.Upsert(e.State, e.Overrides)
		if existed {
			v.skins.moved(st)
		}
	case EntityRemove:
		delete(v.states, e.ID)
		v.Entities.Remove(e.ID)
	case EntitySpeed:
		v.Entities.ObserveSpeed(e.ID, e.VX, e.VZ)
	case SwingArm:
		v.Entities.PlayAnimation(e.ID, entities.ModeOneSwing)
	case Damage:
		v.Entities.HandleDamage(e.ID)
	case CameraEntity:
		v.setCamera(e)
	case LoadChunk:
		return v.World.OnChunkLoad(e)
	case UnloadChunk:
		v.World.OnChunkUnload(e.X, e.Z)
	case BlockUpdate:
		v.World.SetBlockStateID(e.Pos, e.StateID)
	case BlockPalette:
		v.Blocks.UpdatePalette(e.Names)
		v.World.RerenderAll()
	case ChunkPosUpdate:
		v.World.UpdateViewerPosition(e.Pos)
	case RenderDistance:
		v.World.SetViewDistance(e.Distance)
	case MarkAsLoaded:
		v.World.MarkAsLoaded(e.X, e.Z)
	case TimeUpdate:
		return v.Light.OnTimeUpdate(e.TimeOfDay)
	case Reset:
		v.reset()
	case PlayerInfo:
		return v.playerInfo(e)
	case MapData:
		v.Entities.UpdateMap(e.MapID, e.PNG)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownEvent, ev)
	}
	return nil
}

// remember funde o estado parcial com o último conhecido.
func (v *Viewer) remember(st entities.EntityState) entities.EntityState {
	if prev, ok := v.states[st.ID]; ok {
		if st.Position == nil {
			st.Position = prev.Position
		}
		if st.Yaw == nil {
			st.Yaw = prev.Yaw
		}
		if st.Equipment == nil {
			st.Equipment = prev.Equipment
		}
	}
	v.states[st.ID] = st
	return st
}

func (v *Viewer) reapply(id int32) {
	if st, ok := v.states[id]; ok {
		v.Entities.Upsert(st, entities.Overrides{})
	}
}

func (v *Viewer) setCamera(e CameraEntity) {
	prev, had := v.camera, v.hasCamera
	if e.Self {
		v.camera, v.hasCamera = 0, false
	} else {
		v.camera, v.hasCamera = e.ID, true
	}
	v.Entities.SetCameraEntity(v.camera, v.hasCamera)
	if had {
		v.reapply(prev)
	}
	if v.hasCamera {
		v.reapply(v.camera)
	}
}

// CameraEntity retorna a entidade usada como câmera, se houver.
func (v *Viewer) CameraEntity() (int32, bool) {
	return v.camera, v.hasCamera
}

func (v *Viewer) playerInfo(e PlayerInfo) error {
	if e.Self && e.HasGamemode {
		// Espectador não vê nomes
		v.Entities.TogglePlayerNametags(e.Gamemode != 3)
		if v.hasCamera {
			v.setCamera(CameraEntity{Self: true})
		}
	}
	if e.TexturesProperty == "" {
		return nil
	}

	skin, cape, err := entities.DecodeTexturesProperty(e.TexturesProperty)
	if err != nil {
		return fmt.Errorf("texturas de %s: %w", e.UUID, err)
	}
	skin = entities.ApplyTexturesProxy(skin, v.opts.SkinTexturesProxy)
	cape = entities.ApplyTexturesProxy(cape, v.opts.SkinTexturesProxy)

	// Mesmo sem entidade o cache é atualizado
	id, ok := v.Entities.IDByUUID(e.UUID)
	if !ok {
		id = -1
	}
	v.Entities.UpdatePlayerSkin(id, e.Username, e.UUID, entities.SkinURL(skin), entities.SkinURL(cape))
	return nil
}

func (v *Viewer) reset() {
	v.Entities.Clear()
	v.World.Clear()
	v.states = make(map[int32]entities.EntityState)
	v.skins.reset()
	v.camera, v.hasCamera = 0, false
	v.Entities.SetCameraEntity(0, false)
	log.Printf("[World] Mundo descartado")
}
