package viewer

import (
	"errors"
	"testing"
)

func TestSkyLightAt(t *testing.T) {
	tests := []struct {
		t    int
		want int
	}{
		{0, 15},
		{6000, 15},
		{9000, 7},
		{12000, 0},
		{15000, 7},
		{18000, 15},
		{23999, 15},
	}
	for _, tt := range tests {
		got, err := SkyLightAt(tt.t)
		if err != nil {
			t.Fatalf("SkyLightAt(%d): %v", tt.t, err)
		}
		if got != tt.want {
			t.Errorf("SkyLightAt(%d) = %d, want %d", tt.t, got, tt.want)
		}
	}
}

func TestSkyLightAtRejectsOutOfRange(t *testing.T) {
	for _, v := range []int{-1, 24000, 100000} {
		if _, err := SkyLightAt(v); !errors.Is(err, ErrInvalidTimeOfDay) {
			t.Errorf("SkyLightAt(%d) err = %v, want ErrInvalidTimeOfDay", v, err)
		}
	}
}

func TestLightControllerNotifiesOnlyOnChange(t *testing.T) {
	var changes []int
	c := NewLightController(func(level int) { changes = append(changes, level) })

	for _, tod := range []int{0, 100, 5000, 6000} {
		if err := c.OnTimeUpdate(tod); err != nil {
			t.Fatal(err)
		}
	}
	if len(changes) != 0 {
		t.Fatalf("changes during full daylight: %v", changes)
	}

	_ = c.OnTimeUpdate(9000)
	_ = c.OnTimeUpdate(9001)
	_ = c.OnTimeUpdate(12000)
	if len(changes) != 2 || changes[0] != 7 || changes[1] != 0 {
		t.Fatalf("changes = %v, want [7 0]", changes)
	}

	if err := c.OnTimeUpdate(24000); err == nil {
		t.Fatal("expected error")
	}
	if c.SkyLight() != 0 {
		t.Fatalf("invalid update changed level to %d", c.SkyLight())
	}
}
