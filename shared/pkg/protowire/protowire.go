// Package protowire implementa um encoder/decoder mínimo de mensagens no
// formato protobuf, campo a campo, sobre google.golang.org/protobuf/encoding/protowire.
// Wire types: 0=Varint, 1=64bit, 2=LengthDelimited, 5=32bit
package protowire

import (
	"errors"
	"fmt"
	"math"

	pw "google.golang.org/protobuf/encoding/protowire"
)

// WireType constantes do protobuf
const (
	WireVarint          = int(pw.VarintType)
	Wire64Bit           = int(pw.Fixed64Type)
	WireLengthDelimited = int(pw.BytesType)
	Wire32Bit           = int(pw.Fixed32Type)
)

// ErrTruncated é retornado quando a mensagem termina no meio de um campo.
var ErrTruncated = errors.New("protowire: mensagem truncada")

// ---------- ENCODER ----------

// Encoder acumula bytes no formato protobuf.
type Encoder struct {
	buf []byte
}

// NewEncoder cria um encoder vazio.
func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0, 256)}
}

// Bytes retorna o buffer serializado.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Reset limpa o buffer.
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
}

func (e *Encoder) tag(fieldNum int, typ pw.Type) {
	e.buf = pw.AppendTag(e.buf, pw.Number(fieldNum), typ)
}

// EncodeVarint codifica um campo varint (int32, int64, uint32, uint64, enum).
func (e *Encoder) EncodeVarint(fieldNum int, v int64) {
	if v == 0 {
		return // proto3: zero é valor default, não serializa
	}
	e.EncodeVarintForce(fieldNum, v)
}

// EncodeVarintForce codifica varint mesmo que seja zero.
func (e *Encoder) EncodeVarintForce(fieldNum int, v int64) {
	e.tag(fieldNum, pw.VarintType)
	e.buf = pw.AppendVarint(e.buf, uint64(v))
}

// EncodeSint codifica um inteiro com sinal em zigzag (coordenadas negativas).
func (e *Encoder) EncodeSint(fieldNum int, v int64) {
	if v == 0 {
		return
	}
	e.tag(fieldNum, pw.VarintType)
	e.buf = pw.AppendVarint(e.buf, pw.EncodeZigZag(v))
}

// EncodeBool codifica um boolean.
func (e *Encoder) EncodeBool(fieldNum int, v bool) {
	if !v {
		return
	}
	e.tag(fieldNum, pw.VarintType)
	e.buf = pw.AppendVarint(e.buf, pw.EncodeBool(v))
}

// EncodeBytes codifica bytes raw (length-delimited).
func (e *Encoder) EncodeBytes(fieldNum int, v []byte) {
	if len(v) == 0 {
		return
	}
	e.tag(fieldNum, pw.BytesType)
	e.buf = pw.AppendBytes(e.buf, v)
}

// EncodeString codifica uma string.
func (e *Encoder) EncodeString(fieldNum int, v string) {
	if v == "" {
		return
	}
	e.tag(fieldNum, pw.BytesType)
	e.buf = pw.AppendString(e.buf, v)
}

// EncodeSubmessage codifica uma submensagem (length-delimited). Submensagens
// vazias também são escritas para que a presença do campo seja preservada.
func (e *Encoder) EncodeSubmessage(fieldNum int, sub []byte) {
	e.tag(fieldNum, pw.BytesType)
	e.buf = pw.AppendBytes(e.buf, sub)
}

// EncodeFloat codifica um float32 como fixed32.
func (e *Encoder) EncodeFloat(fieldNum int, v float32) {
	e.tag(fieldNum, pw.Fixed32Type)
	e.buf = pw.AppendFixed32(e.buf, math.Float32bits(v))
}

// EncodeDouble codifica um float64 como fixed64.
func (e *Encoder) EncodeDouble(fieldNum int, v float64) {
	e.tag(fieldNum, pw.Fixed64Type)
	e.buf = pw.AppendFixed64(e.buf, math.Float64bits(v))
}

// EncodePackedVarint codifica um repeated field como packed varint.
func (e *Encoder) EncodePackedVarint(fieldNum int, values []int32) {
	if len(values) == 0 {
		return
	}
	var sub []byte
	for _, v := range values {
		sub = pw.AppendVarint(sub, uint64(v))
	}
	e.EncodeBytes(fieldNum, sub)
}

// ---------- DECODER ----------

// Decoder lê campos protobuf de um buffer.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder cria um decoder sobre um buffer.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Done retorna true se não há mais bytes.
func (d *Decoder) Done() bool {
	return d.pos >= len(d.buf)
}

// Remaining retorna os bytes restantes.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.pos
}

func (d *Decoder) advance(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %v", ErrTruncated, pw.ParseError(n))
	}
	d.pos += n
	return nil
}

// ReadTag lê o número do campo e o tipo de wire do próximo campo.
func (d *Decoder) ReadTag() (fieldNum int, wireType int, err error) {
	num, typ, n := pw.ConsumeTag(d.buf[d.pos:])
	if err := d.advance(n); err != nil {
		return 0, 0, err
	}
	return int(num), int(typ), nil
}

// ReadVarint lê um valor varint (após o tag já ter sido lido).
func (d *Decoder) ReadVarint() (int64, error) {
	v, n := pw.ConsumeVarint(d.buf[d.pos:])
	if err := d.advance(n); err != nil {
		return 0, err
	}
	return int64(v), nil
}

// ReadSint lê um inteiro zigzag.
func (d *Decoder) ReadSint() (int64, error) {
	v, n := pw.ConsumeVarint(d.buf[d.pos:])
	if err := d.advance(n); err != nil {
		return 0, err
	}
	return pw.DecodeZigZag(v), nil
}

// ReadBool lê um boolean.
func (d *Decoder) ReadBool() (bool, error) {
	v, err := d.ReadVarint()
	return v != 0, err
}

// ReadBytes lê um campo length-delimited. O slice aponta para o buffer original.
func (d *Decoder) ReadBytes() ([]byte, error) {
	v, n := pw.ConsumeBytes(d.buf[d.pos:])
	if err := d.advance(n); err != nil {
		return nil, err
	}
	return v, nil
}

// ReadString lê uma string.
func (d *Decoder) ReadString() (string, error) {
	b, err := d.ReadBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadFloat lê um float32 / fixed32.
func (d *Decoder) ReadFloat() (float32, error) {
	v, n := pw.ConsumeFixed32(d.buf[d.pos:])
	if err := d.advance(n); err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadDouble lê um float64 / fixed64.
func (d *Decoder) ReadDouble() (float64, error) {
	v, n := pw.ConsumeFixed64(d.buf[d.pos:])
	if err := d.advance(n); err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// SkipField pula um campo baseado no wire type.
func (d *Decoder) SkipField(fieldNum, wireType int) error {
	n := pw.ConsumeFieldValue(pw.Number(fieldNum), pw.Type(wireType), d.buf[d.pos:])
	return d.advance(n)
}

// ReadPackedVarint lê um packed repeated varint field.
func (d *Decoder) ReadPackedVarint() ([]int32, error) {
	data, err := d.ReadBytes()
	if err != nil {
		return nil, err
	}
	var result []int32
	for len(data) > 0 {
		v, n := pw.ConsumeVarint(data)
		if n < 0 {
			return result, fmt.Errorf("%w: %v", ErrTruncated, pw.ParseError(n))
		}
		result = append(result, int32(v))
		data = data[n:]
	}
	return result, nil
}
