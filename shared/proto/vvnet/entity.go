package vvnet

import (
	"fmt"

	"VoxelView/shared/pkg/protowire"

	"github.com/google/uuid"
)

// Vec3 é um vetor de floats.
type Vec3 struct {
	X, Y, Z float32
}

func (v *Vec3) Marshal() []byte {
	e := protowire.NewEncoder()
	e.EncodeFloat(1, v.X)
	e.EncodeFloat(2, v.Y)
	e.EncodeFloat(3, v.Z)
	return e.Bytes()
}

func (v *Vec3) Unmarshal(data []byte) error {
	return decodeFields(data, func(d *protowire.Decoder, num int) (bool, error) {
		var err error
		switch num {
		case 1:
			v.X, err = d.ReadFloat()
		case 2:
			v.Y, err = d.ReadFloat()
		case 3:
			v.Z, err = d.ReadFloat()
		default:
			return false, nil
		}
		return true, err
	})
}

// Item é um item de inventário.
type Item struct {
	Name     string
	Count    int32
	MapID    int32
	Color    int32
	HasColor bool
	Profile  string // base64 do JSON de texturas de player_head
}

func (it *Item) Marshal() []byte {
	e := protowire.NewEncoder()
	e.EncodeString(1, it.Name)
	e.EncodeVarint(2, int64(it.Count))
	e.EncodeVarint(3, int64(it.MapID))
	e.EncodeSint(4, int64(it.Color))
	e.EncodeBool(5, it.HasColor)
	e.EncodeString(6, it.Profile)
	return e.Bytes()
}

func (it *Item) Unmarshal(data []byte) error {
	return decodeFields(data, func(d *protowire.Decoder, num int) (bool, error) {
		var err error
		switch num {
		case 1:
			it.Name, err = d.ReadString()
		case 2:
			err = readInt32(d, &it.Count)
		case 3:
			err = readInt32(d, &it.MapID)
		case 4:
			err = readSint32(d, &it.Color)
		case 5:
			it.HasColor, err = d.ReadBool()
		case 6:
			it.Profile, err = d.ReadString()
		default:
			return false, nil
		}
		return true, err
	})
}

// EquipmentSlot é um slot preenchido.
type EquipmentSlot struct {
	Slot int32
	Item Item
}

// MetaKind é o tipo do valor de um metadado.
type MetaKind int32

const (
	MetaInt MetaKind = iota + 1
	MetaFloat
	MetaString
	MetaBool
	MetaFloats // Vetores, quaternions e poses
	MetaItem
)

// MetaValue é um metadado de entidade por nome.
type MetaValue struct {
	Key    string
	Kind   MetaKind
	Int    int64
	Float  float32
	Str    string
	Bool   bool
	Floats []float32
	Item   *Item
}

// Value retorna o valor Go correspondente ao tipo.
func (m *MetaValue) Value() any {
	switch m.Kind {
	case MetaInt:
		return m.Int
	case MetaFloat:
		return m.Float
	case MetaString:
		return m.Str
	case MetaBool:
		return m.Bool
	case MetaFloats:
		return m.Floats
	case MetaItem:
		return m.Item
	}
	return nil
}

func (m *MetaValue) Marshal() []byte {
	e := protowire.NewEncoder()
	e.EncodeString(1, m.Key)
	e.EncodeVarint(2, int64(m.Kind))
	e.EncodeSint(3, m.Int)
	if m.Kind == MetaFloat {
		e.EncodeFloat(4, m.Float)
	}
	e.EncodeString(5, m.Str)
	e.EncodeBool(6, m.Bool)
	for _, f := range m.Floats {
		e.EncodeFloat(7, f)
	}
	if m.Item != nil {
		e.EncodeSubmessage(8, m.Item.Marshal())
	}
	return e.Bytes()
}

func (m *MetaValue) Unmarshal(data []byte) error {
	return decodeFields(data, func(d *protowire.Decoder, num int) (bool, error) {
		var err error
		switch num {
		case 1:
			m.Key, err = d.ReadString()
		case 2:
			var k int32
			err = readInt32(d, &k)
			m.Kind = MetaKind(k)
		case 3:
			m.Int, err = d.ReadSint()
		case 4:
			m.Float, err = d.ReadFloat()
		case 5:
			m.Str, err = d.ReadString()
		case 6:
			m.Bool, err = d.ReadBool()
		case 7:
			var f float32
			f, err = d.ReadFloat()
			m.Floats = append(m.Floats, f)
		case 8:
			var sub []byte
			sub, err = d.ReadBytes()
			if err == nil {
				m.Item = &Item{}
				err = m.Item.Unmarshal(sub)
			}
		default:
			return false, nil
		}
		return true, err
	})
}

// EntityMessage é o snapshot de uma entidade. Campos ponteiro nil = inalterados.
type EntityMessage struct {
	ID       int32
	Name     string
	Category int32
	UUID     uuid.UUID
	Username string

	Position *Vec3
	Yaw      *float32 // Radianos
	Pitch    float32
	Width    float32
	Height   float32

	Equipment    []EquipmentSlot
	HasEquipment bool
	Meta         []MetaValue

	Texture string
	HeadX   *float32
	HeadY   *float32
}

func (m *EntityMessage) Marshal() []byte {
	e := protowire.NewEncoder()
	e.EncodeVarintForce(1, int64(m.ID))
	e.EncodeString(2, m.Name)
	e.EncodeVarint(3, int64(m.Category))
	if m.UUID != uuid.Nil {
		e.EncodeBytes(4, m.UUID[:])
	}
	e.EncodeString(5, m.Username)
	if m.Position != nil {
		e.EncodeSubmessage(6, m.Position.Marshal())
	}
	if m.Yaw != nil {
		e.EncodeFloat(7, *m.Yaw)
	}
	e.EncodeFloat(8, m.Pitch)
	e.EncodeFloat(9, m.Width)
	e.EncodeFloat(10, m.Height)
	for i := range m.Equipment {
		s := &m.Equipment[i]
		se := protowire.NewEncoder()
		se.EncodeVarint(1, int64(s.Slot))
		se.EncodeSubmessage(2, s.Item.Marshal())
		e.EncodeSubmessage(11, se.Bytes())
	}
	e.EncodeBool(12, m.HasEquipment)
	for i := range m.Meta {
		e.EncodeSubmessage(13, m.Meta[i].Marshal())
	}
	e.EncodeString(14, m.Texture)
	if m.HeadX != nil {
		e.EncodeFloat(15, *m.HeadX)
	}
	if m.HeadY != nil {
		e.EncodeFloat(16, *m.HeadY)
	}
	return e.Bytes()
}

func (m *EntityMessage) Unmarshal(data []byte) error {
	return decodeFields(data, func(d *protowire.Decoder, num int) (bool, error) {
		var err error
		switch num {
		case 1:
			err = readInt32(d, &m.ID)
		case 2:
			m.Name, err = d.ReadString()
		case 3:
			err = readInt32(d, &m.Category)
		case 4:
			var b []byte
			if b, err = d.ReadBytes(); err == nil {
				m.UUID, err = uuid.FromBytes(b)
			}
		case 5:
			m.Username, err = d.ReadString()
		case 6:
			var b []byte
			if b, err = d.ReadBytes(); err == nil {
				m.Position = &Vec3{}
				err = m.Position.Unmarshal(b)
			}
		case 7:
			err = readFloatPtr(d, &m.Yaw)
		case 8:
			m.Pitch, err = d.ReadFloat()
		case 9:
			m.Width, err = d.ReadFloat()
		case 10:
			m.Height, err = d.ReadFloat()
		case 11:
			var b []byte
			if b, err = d.ReadBytes(); err == nil {
				var s EquipmentSlot
				err = s.unmarshal(b)
				m.Equipment = append(m.Equipment, s)
			}
		case 12:
			m.HasEquipment, err = d.ReadBool()
		case 13:
			var b []byte
			if b, err = d.ReadBytes(); err == nil {
				var mv MetaValue
				err = mv.Unmarshal(b)
				m.Meta = append(m.Meta, mv)
			}
		case 14:
			m.Texture, err = d.ReadString()
		case 15:
			err = readFloatPtr(d, &m.HeadX)
		case 16:
			err = readFloatPtr(d, &m.HeadY)
		default:
			return false, nil
		}
		return true, err
	})
}

func (s *EquipmentSlot) unmarshal(data []byte) error {
	return decodeFields(data, func(d *protowire.Decoder, num int) (bool, error) {
		switch num {
		case 1:
			return true, readInt32(d, &s.Slot)
		case 2:
			b, err := d.ReadBytes()
			if err != nil {
				return true, err
			}
			return true, s.Item.Unmarshal(b)
		}
		return false, nil
	})
}

// IDMessage carrega só o id de uma entidade (remoção, golpe, dano).
type IDMessage struct {
	ID int32
}

func (m *IDMessage) Marshal() []byte {
	e := protowire.NewEncoder()
	e.EncodeVarintForce(1, int64(m.ID))
	return e.Bytes()
}

func (m *IDMessage) Unmarshal(data []byte) error {
	return decodeFields(data, func(d *protowire.Decoder, num int) (bool, error) {
		if num != 1 {
			return false, nil
		}
		return true, readInt32(d, &m.ID)
	})
}

// SpeedMessage é a velocidade horizontal média de uma entidade.
type SpeedMessage struct {
	ID     int32
	VX, VZ float64
}

func (m *SpeedMessage) Marshal() []byte {
	e := protowire.NewEncoder()
	e.EncodeVarintForce(1, int64(m.ID))
	e.EncodeDouble(2, m.VX)
	e.EncodeDouble(3, m.VZ)
	return e.Bytes()
}

func (m *SpeedMessage) Unmarshal(data []byte) error {
	return decodeFields(data, func(d *protowire.Decoder, num int) (bool, error) {
		var err error
		switch num {
		case 1:
			err = readInt32(d, &m.ID)
		case 2:
			m.VX, err = d.ReadDouble()
		case 3:
			m.VZ, err = d.ReadDouble()
		default:
			return false, nil
		}
		return true, err
	})
}

// CameraMessage troca a entidade da câmera.
type CameraMessage struct {
	ID   int32
	Self bool
}

func (m *CameraMessage) Marshal() []byte {
	e := protowire.NewEncoder()
	e.EncodeVarintForce(1, int64(m.ID))
	e.EncodeBool(2, m.Self)
	return e.Bytes()
}

func (m *CameraMessage) Unmarshal(data []byte) error {
	return decodeFields(data, func(d *protowire.Decoder, num int) (bool, error) {
		var err error
		switch num {
		case 1:
			err = readInt32(d, &m.ID)
		case 2:
			m.Self, err = d.ReadBool()
		default:
			return false, nil
		}
		return true, err
	})
}

// PlayerInfoMessage é uma entrada da lista de jogadores.
type PlayerInfoMessage struct {
	UUID        uuid.UUID
	Username    string
	Textures    string
	Gamemode    int32
	HasGamemode bool
	Self        bool
}

func (m *PlayerInfoMessage) Marshal() []byte {
	e := protowire.NewEncoder()
	e.EncodeBytes(1, m.UUID[:])
	e.EncodeString(2, m.Username)
	e.EncodeString(3, m.Textures)
	if m.HasGamemode {
		e.EncodeVarintForce(4, int64(m.Gamemode))
	}
	e.EncodeBool(5, m.Self)
	return e.Bytes()
}

func (m *PlayerInfoMessage) Unmarshal(data []byte) error {
	return decodeFields(data, func(d *protowire.Decoder, num int) (bool, error) {
		var err error
		switch num {
		case 1:
			var b []byte
			if b, err = d.ReadBytes(); err == nil {
				m.UUID, err = uuid.FromBytes(b)
				if err != nil {
					err = fmt.Errorf("uuid inválido: %w", err)
				}
			}
		case 2:
			m.Username, err = d.ReadString()
		case 3:
			m.Textures, err = d.ReadString()
		case 4:
			err = readInt32(d, &m.Gamemode)
			m.HasGamemode = true
		case 5:
			m.Self, err = d.ReadBool()
		default:
			return false, nil
		}
		return true, err
	})
}

// MapDataMessage traz a imagem PNG de um mapa.
type MapDataMessage struct {
	MapID int32
	PNG   []byte
}

func (m *MapDataMessage) Marshal() []byte {
	e := protowire.NewEncoder()
	e.EncodeVarintForce(1, int64(m.MapID))
	e.EncodeBytes(2, m.PNG)
	return e.Bytes()
}

func (m *MapDataMessage) Unmarshal(data []byte) error {
	return decodeFields(data, func(d *protowire.Decoder, num int) (bool, error) {
		var err error
		switch num {
		case 1:
			err = readInt32(d, &m.MapID)
		case 2:
			var b []byte
			b, err = d.ReadBytes()
			m.PNG = append([]byte(nil), b...)
		default:
			return false, nil
		}
		return true, err
	})
}
