package viewer

import (
	"testing"
	"time"

	"VoxelView/shared/util"
)

func TestBatcherOpensSingleWindow(t *testing.T) {
	b := NewBatcher(200 * time.Millisecond)
	t0 := time.Unix(0, 0)

	b.Add(t0, util.ChunkKey{X: 0}, false)
	b.Add(t0.Add(150*time.Millisecond), util.ChunkKey{X: 16}, false)

	// O segundo pedido não estende o prazo
	if b.Take(t0.Add(199*time.Millisecond)) != nil {
		t.Fatal("window flushed early")
	}
	batch := b.Take(t0.Add(200 * time.Millisecond))
	if len(batch) != 2 || batch[0].key.X != 0 || batch[1].key.X != 16 {
		t.Fatalf("batch = %+v", batch)
	}
	if b.Open() || b.Pending() != 0 {
		t.Fatal("window should be closed after take")
	}
}

func TestBatcherDropAndDeferred(t *testing.T) {
	b := NewBatcher(0)
	t0 := time.Unix(0, 0)
	b.Add(t0, util.ChunkKey{X: 0}, false)
	b.Add(t0, util.ChunkKey{X: 16}, false)
	b.Drop(util.ChunkKey{X: 0})
	if b.Pending() != 1 {
		t.Fatalf("Pending = %d, want 1", b.Pending())
	}

	var order []int
	b.Defer(func() { order = append(order, 1) })
	b.Defer(func() { order = append(order, 2) })
	for _, fn := range b.TakeDeferred() {
		fn()
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("order = %v", order)
	}
	if len(b.TakeDeferred()) != 0 {
		t.Fatal("deferred functions must run once")
	}
}
