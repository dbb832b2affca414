package async

import (
	"context"
	"errors"
	"testing"
)

func TestRunDeliversResultOnDrain(t *testing.T) {
	l := NewLoop(2)
	defer l.Close()

	var got int
	Run(l, func(ctx context.Context) (int, error) { return 42, nil }, func(v int, err error) {
		got = v
	})

	l.Wait()
	if got != 0 {
		t.Fatalf("continuation ran before Drain")
	}
	if n := l.Drain(); n != 1 {
		t.Fatalf("Drain() = %d, want 1", n)
	}
	if got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}

func TestRunPropagatesError(t *testing.T) {
	l := NewLoop(1)
	defer l.Close()

	boom := errors.New("boom")
	var gotErr error
	Run(l, func(ctx context.Context) (string, error) { return "", boom }, func(_ string, err error) {
		gotErr = err
	})
	l.Wait()
	l.Drain()
	if !errors.Is(gotErr, boom) {
		t.Fatalf("err = %v, want boom", gotErr)
	}
}

func TestDrainRunsInPostOrderAndDefersNested(t *testing.T) {
	l := NewLoop(1)
	defer l.Close()

	var order []int
	l.Post(func() { order = append(order, 1) })
	l.Post(func() {
		order = append(order, 2)
		l.Post(func() { order = append(order, 4) })
	})
	l.Post(func() { order = append(order, 3) })

	if n := l.Drain(); n != 3 {
		t.Fatalf("first Drain ran %d", n)
	}
	if l.Pending() != 1 {
		t.Fatalf("nested continuation should wait for next Drain")
	}
	l.Drain()

	want := []int{1, 2, 3, 4}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestDrainIsolatesPanics(t *testing.T) {
	l := NewLoop(1)
	defer l.Close()

	ran := false
	l.Post(func() { panic("bad continuation") })
	l.Post(func() { ran = true })
	l.Drain()
	if !ran {
		t.Fatalf("panic in one continuation must not stop the others")
	}
}
