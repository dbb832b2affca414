package entities

import (
	"encoding/json"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Bits de flags de entidade.
const (
	FlagInvisible = 0x20
)

// Bits de client_flags do suporte de armadura.
const (
	StandSmall       = 0x01
	StandArms        = 0x04
	StandNoBaseplate = 0x08
	StandMarker      = 0x10
)

// StyleNoBackground em style_flags desativa a cor de fundo do text display.
const StyleNoBackground = 0x04

// Pose é a rotação de um membro em graus, como recebida do jogo.
type Pose struct {
	Pitch, Yaw, Roll float32
}

// ArmorStandMeta são os campos específicos de armor_stand.
type ArmorStandMeta struct {
	ClientFlags  int32
	HeadPose     *Pose
	BodyPose     *Pose
	LeftArmPose  *Pose
	RightArmPose *Pose
	LeftLegPose  *Pose
	RightLegPose *Pose
}

// TextDisplayMeta são os campos específicos de text_display.
type TextDisplayMeta struct {
	Text          string
	Billboard     string // "fixed", "vertical", "horizontal", "center"
	Background    int32
	HasBackground bool
	StyleFlags    int32
	TextOpacity   int32 // 0 = padrão
	Scale         *mgl32.Vec3
	Translation   *mgl32.Vec3
	LeftRotation  *mgl32.Quat
	RightRotation *mgl32.Quat
}

// ItemFrameMeta são os campos de item_frame e glow_item_frame.
type ItemFrameMeta struct {
	Item     *Item
	Rotation int32
}

// Metadata é o registro decodificado dos metadados de uma entidade.
type Metadata struct {
	Flags             int32
	Baby              bool
	CustomName        string
	CustomNameVisible bool

	ArmorStand  *ArmorStandMeta
	TextDisplay *TextDisplayMeta
	ItemFrame   *ItemFrameMeta
	Item        *Item // Item largado no chão
}

// Invisible informa se o bit de invisibilidade está ligado.
func (m Metadata) Invisible() bool {
	return m.Flags&FlagInvisible != 0
}

// DecodeMetadata converte os pares chave/valor recebidos num registro por tipo
// de entidade. Valores de tipo inesperado são ignorados.
func DecodeMetadata(kind string, raw map[string]any) Metadata {
	var m Metadata
	if raw == nil {
		return m
	}
	m.Flags, _ = asInt(raw["flags"])
	m.Baby, _ = raw["is_baby"].(bool)
	if name, ok := raw["custom_name"]; ok {
		m.CustomName = ParseLabel(name)
	}
	m.CustomNameVisible, _ = raw["custom_name_visible"].(bool)

	switch kind {
	case "armor_stand":
		as := &ArmorStandMeta{}
		as.ClientFlags, _ = asInt(raw["client_flags"])
		as.HeadPose = asPose(raw["head_pose"])
		as.BodyPose = asPose(raw["body_pose"])
		as.LeftArmPose = asPose(raw["left_arm_pose"])
		as.RightArmPose = asPose(raw["right_arm_pose"])
		as.LeftLegPose = asPose(raw["left_leg_pose"])
		as.RightLegPose = asPose(raw["right_leg_pose"])
		m.ArmorStand = as
	case "text_display":
		td := &TextDisplayMeta{}
		if text, ok := raw["text"]; ok {
			td.Text = ParseLabel(text)
		}
		td.Billboard, _ = raw["billboard_render_constraints"].(string)
		td.Background, td.HasBackground = asInt(raw["background_color"])
		td.StyleFlags, _ = asInt(raw["style_flags"])
		td.TextOpacity, _ = asInt(raw["text_opacity"])
		td.Scale = asVec3(raw["scale"])
		td.Translation = asVec3(raw["translation"])
		td.LeftRotation = asQuat(raw["left_rotation"])
		td.RightRotation = asQuat(raw["right_rotation"])
		m.TextDisplay = td
	case "item_frame", "glow_item_frame":
		f := &ItemFrameMeta{Item: asItem(raw["item"])}
		f.Rotation, _ = asInt(raw["rotation"])
		m.ItemFrame = f
	case "item":
		m.Item = asItem(raw["item"])
	}
	return m
}

func asInt(v any) (int32, bool) {
	switch x := v.(type) {
	case int:
		return int32(x), true
	case int32:
		return x, true
	case int64:
		return int32(x), true
	case uint32:
		return int32(x), true
	case float64:
		return int32(x), true
	case byte:
		return int32(x), true
	}
	return 0, false
}

func asVec3(v any) *mgl32.Vec3 {
	switch x := v.(type) {
	case mgl32.Vec3:
		return &x
	case []float32:
		if len(x) == 3 {
			vec := mgl32.Vec3{x[0], x[1], x[2]}
			return &vec
		}
	}
	return nil
}

// asQuat aceita mgl32.Quat ou [x, y, z, w].
func asQuat(v any) *mgl32.Quat {
	switch x := v.(type) {
	case mgl32.Quat:
		return &x
	case []float32:
		if len(x) == 4 {
			q := mgl32.Quat{W: x[3], V: mgl32.Vec3{x[0], x[1], x[2]}}
			return &q
		}
	}
	return nil
}

// asPose aceita Pose ou [pitch, yaw, roll].
func asPose(v any) *Pose {
	switch x := v.(type) {
	case Pose:
		return &x
	case *Pose:
		return x
	case []float32:
		if len(x) == 3 {
			return &Pose{Pitch: x[0], Yaw: x[1], Roll: x[2]}
		}
	}
	return nil
}

func asItem(v any) *Item {
	switch x := v.(type) {
	case Item:
		return &x
	case *Item:
		return x
	}
	return nil
}

// ParseLabel extrai o texto puro de um nome, que pode vir como string simples
// ou como componente de chat JSON (texto ou já decodificado). Em caso de erro
// devolve o texto original.
func ParseLabel(v any) string {
	s, ok := v.(string)
	if !ok {
		var b strings.Builder
		flattenComponent(&b, v)
		return b.String()
	}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || !strings.ContainsAny(trimmed[:1], "{[\"") {
		return s
	}
	var component any
	if err := json.Unmarshal([]byte(trimmed), &component); err != nil {
		return s
	}
	var b strings.Builder
	flattenComponent(&b, component)
	return b.String()
}

func flattenComponent(b *strings.Builder, c any) {
	switch x := c.(type) {
	case string:
		b.WriteString(x)
	case []any:
		for _, e := range x {
			flattenComponent(b, e)
		}
	case map[string]any:
		if text, ok := x["text"].(string); ok {
			b.WriteString(text)
		}
		if extra, ok := x["extra"].([]any); ok {
			for _, e := range extra {
				flattenComponent(b, e)
			}
		}
	}
}
