package client

import (
	"fmt"
	"strings"

	"VoxelView/cliente/internal/assets"
	"VoxelView/cliente/internal/entities"
	"VoxelView/cliente/internal/viewer"
	"VoxelView/shared/proto/vvnet"
	"VoxelView/shared/util"

	"github.com/go-gl/mathgl/mgl32"
)

// Decode converte um envelope recebido no evento correspondente.
func Decode(env *vvnet.Envelope) (viewer.Event, error) {
	switch env.Type {
	case vvnet.MsgEntity:
		var m vvnet.EntityMessage
		if err := m.Unmarshal(env.Payload); err != nil {
			return nil, err
		}
		return entityUpdate(&m), nil
	case vvnet.MsgEntityRemove, vvnet.MsgSwingArm, vvnet.MsgDamage:
		var m vvnet.IDMessage
		if err := m.Unmarshal(env.Payload); err != nil {
			return nil, err
		}
		switch env.Type {
		case vvnet.MsgEntityRemove:
			return viewer.EntityRemove{ID: m.ID}, nil
		case vvnet.MsgSwingArm:
			return viewer.SwingArm{ID: m.ID}, nil
		}
		return viewer.Damage{ID: m.ID}, nil
	case vvnet.MsgEntitySpeed:
		var m vvnet.SpeedMessage
		if err := m.Unmarshal(env.Payload); err != nil {
			return nil, err
		}
		return viewer.EntitySpeed{ID: m.ID, VX: m.VX, VZ: m.VZ}, nil
	case vvnet.MsgCamera:
		var m vvnet.CameraMessage
		if err := m.Unmarshal(env.Payload); err != nil {
			return nil, err
		}
		return viewer.CameraEntity{ID: m.ID, Self: m.Self}, nil
	case vvnet.MsgLoadChunk:
		var m vvnet.ChunkMessage
		if err := m.Unmarshal(env.Payload); err != nil {
			return nil, err
		}
		col, err := m.Column()
		if err != nil {
			return nil, err
		}
		return viewer.LoadChunk{X: m.X, Z: m.Z, Column: col, Config: m.Config(), LightOnly: m.LightOnly}, nil
	case vvnet.MsgUnloadChunk, vvnet.MsgMarkAsLoaded:
		var m vvnet.ChunkKeyMessage
		if err := m.Unmarshal(env.Payload); err != nil {
			return nil, err
		}
		if env.Type == vvnet.MsgUnloadChunk {
			return viewer.UnloadChunk{X: m.X, Z: m.Z}, nil
		}
		return viewer.MarkAsLoaded{X: m.X, Z: m.Z}, nil
	case vvnet.MsgBlockUpdate:
		var m vvnet.BlockUpdateMessage
		if err := m.Unmarshal(env.Payload); err != nil {
			return nil, err
		}
		return viewer.BlockUpdate{Pos: util.BlockPos{X: m.X, Y: m.Y, Z: m.Z}, StateID: uint16(m.StateID)}, nil
	case vvnet.MsgBlockPalette:
		var m vvnet.PaletteMessage
		if err := m.Unmarshal(env.Payload); err != nil {
			return nil, err
		}
		return viewer.BlockPalette{Names: m.Names()}, nil
	case vvnet.MsgChunkPos:
		var m vvnet.Vec3
		if err := m.Unmarshal(env.Payload); err != nil {
			return nil, err
		}
		return viewer.ChunkPosUpdate{Pos: mgl32.Vec3{m.X, m.Y, m.Z}}, nil
	case vvnet.MsgRenderDistance, vvnet.MsgTime:
		var m vvnet.IntMessage
		if err := m.Unmarshal(env.Payload); err != nil {
			return nil, err
		}
		if env.Type == vvnet.MsgTime {
			return viewer.TimeUpdate{TimeOfDay: int(m.Value)}, nil
		}
		return viewer.RenderDistance{Distance: m.Value}, nil
	case vvnet.MsgReset:
		return viewer.Reset{}, nil
	case vvnet.MsgPlayerInfo:
		var m vvnet.PlayerInfoMessage
		if err := m.Unmarshal(env.Payload); err != nil {
			return nil, err
		}
		return viewer.PlayerInfo{
			UUID:             m.UUID,
			Username:         m.Username,
			TexturesProperty: m.Textures,
			Gamemode:         m.Gamemode,
			HasGamemode:      m.HasGamemode,
			Self:             m.Self,
		}, nil
	case vvnet.MsgMapData:
		var m vvnet.MapDataMessage
		if err := m.Unmarshal(env.Payload); err != nil {
			return nil, err
		}
		return viewer.MapData{MapID: m.MapID, PNG: m.PNG}, nil
	}
	return nil, fmt.Errorf("%w: %v", viewer.ErrUnknownEvent, env.Type)
}

func entityUpdate(m *vvnet.EntityMessage) viewer.EntityUpdate {
	st := entities.EntityState{
		ID:       m.ID,
		Name:     m.Name,
		Category: entities.Category(m.Category),
		UUID:     m.UUID,
		Username: m.Username,
		Yaw:      m.Yaw,
		Pitch:    m.Pitch,
		Width:    m.Width,
		Height:   m.Height,
	}
	if m.Position != nil {
		st.Position = &mgl32.Vec3{m.Position.X, m.Position.Y, m.Position.Z}
	}
	if m.HasEquipment {
		var eq entities.Equipment
		for i := range m.Equipment {
			s := &m.Equipment[i]
			if s.Slot < 0 || s.Slot >= entities.SlotCount {
				continue
			}
			it := item(&s.Item)
			eq[s.Slot] = &it
		}
		st.Equipment = &eq
	}

	raw := make(map[string]any, len(m.Meta))
	for i := range m.Meta {
		mv := &m.Meta[i]
		if mv.Kind == vvnet.MetaItem {
			if mv.Item != nil {
				raw[mv.Key] = item(mv.Item)
			}
			continue
		}
		raw[mv.Key] = mv.Value()
	}
	st.Meta = entities.DecodeMetadata(assets.NormalizeName(m.Name), raw)

	ov := entities.Overrides{Texture: m.Texture}
	if m.HeadX != nil || m.HeadY != nil {
		head := &entities.HeadRotation{}
		if m.HeadX != nil {
			head.X, head.HasX = *m.HeadX, true
		}
		if m.HeadY != nil {
			head.Y, head.HasY = *m.HeadY, true
		}
		ov.Head = head
	}
	return viewer.EntityUpdate{State: st, Overrides: ov}
}

func item(it *vvnet.Item) entities.Item {
	return entities.Item{
		Name:       strings.TrimPrefix(it.Name, "minecraft:"),
		Count:      int(it.Count),
		MapID:      it.MapID,
		Color:      it.Color,
		HasColor:   it.HasColor,
		Profile:    it.Profile,
		HasProfile: it.Profile != "",
	}
}
