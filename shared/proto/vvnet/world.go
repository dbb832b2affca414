package vvnet

import (
	"encoding/binary"
	"fmt"

	"VoxelView/shared/mapdata"
	"VoxelView/shared/pkg/protowire"
	"VoxelView/shared/util"

	"github.com/klauspost/compress/zstd"
)

var (
	encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	decoder, _ = zstd.NewReader(nil)
)

// ChunkMessage carrega uma coluna inteira. Blocks são os state ids em
// little-endian, comprimidos com zstd.
type ChunkMessage struct {
	X, Z        int32
	MinY        int32
	WorldHeight int32
	LightOnly   bool
	Blocks      []byte
}

// NewChunkMessage comprime uma coluna para envio.
func NewChunkMessage(col *mapdata.Column, lightOnly bool) *ChunkMessage {
	raw := make([]byte, len(col.Blocks)*2)
	for i, id := range col.Blocks {
		binary.LittleEndian.PutUint16(raw[i*2:], id)
	}
	return &ChunkMessage{
		X:           col.X,
		Z:           col.Z,
		MinY:        col.MinY,
		WorldHeight: col.Height,
		LightOnly:   lightOnly,
		Blocks:      encoder.EncodeAll(raw, nil),
	}
}

// Config retorna a faixa vertical anunciada pela mensagem.
func (m *ChunkMessage) Config() mapdata.WorldConfig {
	return mapdata.WorldConfig{MinY: m.MinY, WorldHeight: m.WorldHeight}
}

// Column descomprime os blocos. Mensagens sem blocos retornam nil.
func (m *ChunkMessage) Column() (*mapdata.Column, error) {
	if len(m.Blocks) == 0 {
		return nil, nil
	}
	raw, err := decoder.DecodeAll(m.Blocks, nil)
	if err != nil {
		return nil, fmt.Errorf("falha ao descomprimir coluna %d,%d: %w", m.X, m.Z, err)
	}
	want := int(m.WorldHeight) * util.ChunkSize * util.ChunkSize * 2
	if len(raw) != want {
		return nil, fmt.Errorf("coluna %d,%d: %d bytes, esperado %d", m.X, m.Z, len(raw), want)
	}
	col := mapdata.NewColumn(m.X, m.Z, m.Config())
	for i := range col.Blocks {
		col.Blocks[i] = binary.LittleEndian.Uint16(raw[i*2:])
	}
	return col, nil
}

func (m *ChunkMessage) Marshal() []byte {
	e := protowire.NewEncoder()
	e.EncodeSint(1, int64(m.X))
	e.EncodeSint(2, int64(m.Z))
	e.EncodeSint(3, int64(m.MinY))
	e.EncodeVarint(4, int64(m.WorldHeight))
	e.EncodeBool(5, m.LightOnly)
	e.EncodeBytes(6, m.Blocks)
	return e.Bytes()
}

func (m *ChunkMessage) Unmarshal(data []byte) error {
	return decodeFields(data, func(d *protowire.Decoder, num int) (bool, error) {
		var err error
		switch num {
		case 1:
			err = readSint32(d, &m.X)
		case 2:
			err = readSint32(d, &m.Z)
		case 3:
			err = readSint32(d, &m.MinY)
		case 4:
			err = readInt32(d, &m.WorldHeight)
		case 5:
			m.LightOnly, err = d.ReadBool()
		case 6:
			var b []byte
			b, err = d.ReadBytes()
			m.Blocks = append([]byte(nil), b...)
		default:
			return false, nil
		}
		return true, err
	})
}

// ChunkKeyMessage identifica uma coluna (unload, markAsLoaded).
type ChunkKeyMessage struct {
	X, Z int32
}

func (m *ChunkKeyMessage) Marshal() []byte {
	e := protowire.NewEncoder()
	e.EncodeSint(1, int64(m.X))
	e.EncodeSint(2, int64(m.Z))
	return e.Bytes()
}

func (m *ChunkKeyMessage) Unmarshal(data []byte) error {
	return decodeFields(data, func(d *protowire.Decoder, num int) (bool, error) {
		switch num {
		case 1:
			return true, readSint32(d, &m.X)
		case 2:
			return true, readSint32(d, &m.Z)
		}
		return false, nil
	})
}

// BlockUpdateMessage altera um único bloco.
type BlockUpdateMessage struct {
	X, Y, Z int32
	StateID int32
}

func (m *BlockUpdateMessage) Marshal() []byte {
	e := protowire.NewEncoder()
	e.EncodeSint(1, int64(m.X))
	e.EncodeSint(2, int64(m.Y))
	e.EncodeSint(3, int64(m.Z))
	e.EncodeVarint(4, int64(m.StateID))
	return e.Bytes()
}

func (m *BlockUpdateMessage) Unmarshal(data []byte) error {
	return decodeFields(data, func(d *protowire.Decoder, num int) (bool, error) {
		switch num {
		case 1:
			return true, readSint32(d, &m.X)
		case 2:
			return true, readSint32(d, &m.Y)
		case 3:
			return true, readSint32(d, &m.Z)
		case 4:
			return true, readInt32(d, &m.StateID)
		}
		return false, nil
	})
}

// PaletteEntry associa um state id a um nome de bloco.
type PaletteEntry struct {
	ID   int32
	Name string
}

// PaletteMessage registra nomes de blocos.
type PaletteMessage struct {
	Entries []PaletteEntry
}

// Names converte as entradas para o mapa usado pelo BlockStore.
func (m *PaletteMessage) Names() map[uint16]string {
	names := make(map[uint16]string, len(m.Entries))
	for _, en := range m.Entries {
		names[uint16(en.ID)] = en.Name
	}
	return names
}

func (m *PaletteMessage) Marshal() []byte {
	e := protowire.NewEncoder()
	for _, en := range m.Entries {
		se := protowire.NewEncoder()
		se.EncodeVarint(1, int64(en.ID))
		se.EncodeString(2, en.Name)
		e.EncodeSubmessage(1, se.Bytes())
	}
	return e.Bytes()
}

func (m *PaletteMessage) Unmarshal(data []byte) error {
	return decodeFields(data, func(d *protowire.Decoder, num int) (bool, error) {
		if num != 1 {
			return false, nil
		}
		b, err := d.ReadBytes()
		if err != nil {
			return true, err
		}
		var en PaletteEntry
		err = decodeFields(b, func(d *protowire.Decoder, num int) (bool, error) {
			var err error
			switch num {
			case 1:
				err = readInt32(d, &en.ID)
			case 2:
				en.Name, err = d.ReadString()
			default:
				return false, nil
			}
			return true, err
		})
		m.Entries = append(m.Entries, en)
		return true, err
	})
}

// IntMessage carrega um único inteiro (distância de visão, horário).
type IntMessage struct {
	Value int32
}

func (m *IntMessage) Marshal() []byte {
	e := protowire.NewEncoder()
	e.EncodeSint(1, int64(m.Value))
	return e.Bytes()
}

func (m *IntMessage) Unmarshal(data []byte) error {
	return decodeFields(data, func(d *protowire.Decoder, num int) (bool, error) {
		if num != 1 {
			return false, nil
		}
		return true, readSint32(d, &m.Value)
	})
}
