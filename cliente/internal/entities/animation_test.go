package entities

import (
	"math"
	"testing"

	"VoxelView/shared/util"

	"github.com/go-gl/mathgl/mgl32"
)

func TestVecTweenStartsAtOldValue(t *testing.T) {
	var tw vecTween
	from := mgl32.Vec3{1, 2, 3}
	tw.start(from, mgl32.Vec3{5, 2, 3})
	if got := tw.sample(); got != from {
		t.Fatalf("sample at t=0 = %v, want %v", got, from)
	}
	tw.advance(TweenDuration / 2)
	if got := tw.sample().X(); math.Abs(float64(got-3)) > 1e-5 {
		t.Fatalf("midpoint x = %v, want 3", got)
	}
	if got := tw.advance(TweenDuration); got.X() != 5 || tw.active {
		t.Fatalf("tween did not snap to target: %v active=%v", got, tw.active)
	}
}

func TestYawTweenDelta(t *testing.T) {
	tests := []struct {
		from, to float32
	}{
		{0, 1},
		{3, -3},
		{-3, 3},
		{0.1, 6.2},
		{10, -10},
	}
	for _, tt := range tests {
		var tw yawTween
		tw.start(tt.from, tt.to)
		delta := tw.to - tw.from
		if math.Abs(float64(delta)) > math.Pi+1e-5 {
			t.Errorf("start(%v, %v): |Δ| = %v > π", tt.from, tt.to, delta)
		}
		diff := util.NormalizeAngle(float64(tw.to - tt.to))
		if math.Abs(diff) > 1e-4 {
			t.Errorf("start(%v, %v): end %v not equivalent to target", tt.from, tt.to, tw.to)
		}
	}
}

func TestModeForSpeed(t *testing.T) {
	tests := []struct {
		vx, vz float64
		want   Mode
	}{
		{0, 0, ModeIdle},
		{0.03, 0, ModeIdle},
		{0.031, 0, ModeWalking},
		{0, -0.1, ModeWalking},
		{0.18, 0, ModeWalking},
		{0, 0.2, ModeRunning},
		{-0.5, 0.01, ModeRunning},
	}
	for _, tt := range tests {
		if got := ModeForSpeed(tt.vx, tt.vz); got != tt.want {
			t.Errorf("ModeForSpeed(%v, %v) = %v, want %v", tt.vx, tt.vz, got, tt.want)
		}
	}
}

func TestObserveSpeedAppliesMode(t *testing.T) {
	f := newFixture(t, Options{})
	s := f.sync
	s.Upsert(playerState(1, "alex"), Overrides{})
	v, _ := s.Get(1)
	anim := v.Player.Animation.(*WalkingSwing)

	s.ObserveSpeed(1, 0.1, 0)
	if !anim.Moving || anim.Running {
		t.Fatalf("walking: %+v", anim)
	}
	s.ObserveSpeed(1, 0.3, 0)
	if !anim.Running {
		t.Fatalf("running flag not set")
	}

	// Modo repetido não reaplica: uma mudança manual deve sobreviver.
	anim.Running = false
	s.ObserveSpeed(1, 0.3, 0)
	if anim.Running {
		t.Fatalf("repeated mode was reapplied")
	}
	s.ObserveSpeed(1, 0, 0)
	if anim.Moving {
		t.Fatalf("idle did not stop the animation")
	}
}

func TestSwingKeepsWalkingState(t *testing.T) {
	f := newFixture(t, Options{})
	s := f.sync
	s.Upsert(playerState(1, "alex"), Overrides{})
	v, _ := s.Get(1)
	anim := v.Player.Animation.(*WalkingSwing)

	s.PlayAnimation(1, ModeWalking)
	s.PlayAnimation(1, ModeOneSwing)
	if !anim.Swinging() || !anim.Moving {
		t.Fatalf("swing should overlay walking: %+v", anim)
	}
	s.Advance(swingDuration + 0.01)
	if anim.Swinging() || !anim.Moving {
		t.Fatalf("after swing: %+v", anim)
	}
}

type frozenAnimation struct{}

func (frozenAnimation) Update(*PlayerModel, float32) {}

func TestOneSwingRequiresWalkingSwing(t *testing.T) {
	f := newFixture(t, Options{})
	s := f.sync
	s.Upsert(playerState(1, "alex"), Overrides{})
	v, _ := s.Get(1)
	v.Player.Animation = frozenAnimation{}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for oneSwing without WalkingSwing")
		}
	}()
	s.PlayAnimation(1, ModeOneSwing)
}
