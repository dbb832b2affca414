package protowire

import (
	"errors"
	"testing"
)

func TestEncodeDecodeFields(t *testing.T) {
	e := NewEncoder()
	e.EncodeVarint(1, 300)
	e.EncodeSint(2, -42)
	e.EncodeString(3, "olá")
	e.EncodeFloat(4, 1.5)
	e.EncodeBool(5, true)
	e.EncodePackedVarint(6, []int32{1, 2, 300})
	e.EncodeDouble(7, -2.25)

	d := NewDecoder(e.Bytes())
	seen := map[int]bool{}
	for !d.Done() {
		num, wt, err := d.ReadTag()
		if err != nil {
			t.Fatal(err)
		}
		seen[num] = true
		switch num {
		case 1:
			if v, _ := d.ReadVarint(); v != 300 {
				t.Fatalf("field 1 = %d", v)
			}
		case 2:
			if v, _ := d.ReadSint(); v != -42 {
				t.Fatalf("field 2 = %d", v)
			}
		case 3:
			if v, _ := d.ReadString(); v != "olá" {
				t.Fatalf("field 3 = %q", v)
			}
		case 4:
			if v, _ := d.ReadFloat(); v != 1.5 {
				t.Fatalf("field 4 = %v", v)
			}
		case 5:
			if v, _ := d.ReadBool(); !v {
				t.Fatal("field 5 = false")
			}
		case 6:
			v, err := d.ReadPackedVarint()
			if err != nil || len(v) != 3 || v[2] != 300 {
				t.Fatalf("field 6 = %v, %v", v, err)
			}
		default:
			if err := d.SkipField(num, wt); err != nil {
				t.Fatal(err)
			}
		}
	}
	for _, n := range []int{1, 2, 3, 4, 5, 6, 7} {
		if !seen[n] {
			t.Errorf("field %d missing", n)
		}
	}
}

func TestZeroValuesAreOmitted(t *testing.T) {
	e := NewEncoder()
	e.EncodeVarint(1, 0)
	e.EncodeString(2, "")
	e.EncodeBool(3, false)
	e.EncodeSint(4, 0)
	if len(e.Bytes()) != 0 {
		t.Fatalf("encoded %d bytes, want 0", len(e.Bytes()))
	}
	e.EncodeSubmessage(5, nil)
	if len(e.Bytes()) == 0 {
		t.Fatal("empty submessage should keep presence")
	}
}

func TestTruncatedInput(t *testing.T) {
	e := NewEncoder()
	e.EncodeString(1, "abcdef")
	data := e.Bytes()[:4]

	d := NewDecoder(data)
	if _, _, err := d.ReadTag(); err != nil {
		t.Fatal(err)
	}
	if _, err := d.ReadBytes(); !errors.Is(err, ErrTruncated) {
		t.Fatalf("err = %v, want ErrTruncated", err)
	}
}
