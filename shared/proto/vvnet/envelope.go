// Package vvnet define as mensagens trocadas entre a ponte do protocolo do
// jogo e o cliente VoxelView, no formato protobuf campo a campo.
package vvnet

import (
	"errors"
	"fmt"

	"VoxelView/shared/pkg/protowire"
)

// MsgType identifica o conteúdo de um Envelope.
type MsgType int32

const (
	MsgEntity MsgType = iota + 1
	MsgEntityRemove
	MsgEntitySpeed
	MsgSwingArm
	MsgDamage
	MsgCamera
	MsgLoadChunk
	MsgUnloadChunk
	MsgBlockUpdate
	MsgBlockPalette
	MsgChunkPos
	MsgRenderDistance
	MsgMarkAsLoaded
	MsgTime
	MsgReset
	MsgPlayerInfo
	MsgMapData

	// Cliente -> ponte
	MsgListening MsgType = 100
)

var msgNames = map[MsgType]string{
	MsgEntity:         "entity",
	MsgEntityRemove:   "entity_remove",
	MsgEntitySpeed:    "entity_speed",
	MsgSwingArm:       "swing_arm",
	MsgDamage:         "damage",
	MsgCamera:         "camera",
	MsgLoadChunk:      "load_chunk",
	MsgUnloadChunk:    "unload_chunk",
	MsgBlockUpdate:    "block_update",
	MsgBlockPalette:   "block_palette",
	MsgChunkPos:       "chunk_pos",
	MsgRenderDistance: "render_distance",
	MsgMarkAsLoaded:   "mark_as_loaded",
	MsgTime:           "time",
	MsgReset:          "reset",
	MsgPlayerInfo:     "player_info",
	MsgMapData:        "map_data",
	MsgListening:      "listening",
}

func (t MsgType) String() string {
	if name, ok := msgNames[t]; ok {
		return name
	}
	return fmt.Sprintf("msg(%d)", int32(t))
}

// ErrEmptyEnvelope é retornado para envelopes sem tipo.
var ErrEmptyEnvelope = errors.New("vvnet: envelope sem tipo")

// Envelope é a unidade enviada por frame do WebSocket.
type Envelope struct {
	Type    MsgType
	Payload []byte
}

// Message é implementado por todos os conteúdos de envelope.
type Message interface {
	Marshal() []byte
	Unmarshal(data []byte) error
}

// Wrap serializa uma mensagem dentro de um envelope.
func Wrap(t MsgType, m Message) []byte {
	env := Envelope{Type: t}
	if m != nil {
		env.Payload = m.Marshal()
	}
	return env.Marshal()
}

func (e *Envelope) Marshal() []byte {
	enc := protowire.NewEncoder()
	enc.EncodeVarint(1, int64(e.Type))
	enc.EncodeBytes(2, e.Payload)
	return enc.Bytes()
}

func (e *Envelope) Unmarshal(data []byte) error {
	err := decodeFields(data, func(d *protowire.Decoder, num int) (bool, error) {
		switch num {
		case 1:
			v, err := d.ReadVarint()
			e.Type = MsgType(v)
			return true, err
		case 2:
			v, err := d.ReadBytes()
			e.Payload = v
			return true, err
		}
		return false, nil
	})
	if err != nil {
		return err
	}
	if e.Type == 0 {
		return ErrEmptyEnvelope
	}
	return nil
}

// decodeFields percorre os campos de uma mensagem. fn retorna false para
// campos desconhecidos, que são pulados.
func decodeFields(data []byte, fn func(d *protowire.Decoder, num int) (bool, error)) error {
	d := protowire.NewDecoder(data)
	for !d.Done() {
		num, wt, err := d.ReadTag()
		if err != nil {
			return err
		}
		handled, err := fn(d, num)
		if err != nil {
			return fmt.Errorf("campo %d: %w", num, err)
		}
		if !handled {
			if err := d.SkipField(num, wt); err != nil {
				return err
			}
		}
	}
	return nil
}

func readInt32(d *protowire.Decoder, dst *int32) error {
	v, err := d.ReadVarint()
	*dst = int32(v)
	return err
}

func readSint32(d *protowire.Decoder, dst *int32) error {
	v, err := d.ReadSint()
	*dst = int32(v)
	return err
}

func readFloatPtr(d *protowire.Decoder, dst **float32) error {
	v, err := d.ReadFloat()
	if err == nil {
		*dst = &v
	}
	return err
}
