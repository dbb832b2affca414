package util

import "testing"

func TestHistoryOverwritesOldest(t *testing.T) {
	h := NewHistory[float32](3) // arredonda para 4
	if _, ok := h.Last(); ok {
		t.Fatal("empty history should have no last sample")
	}
	for _, v := range []float32{1, 2, 3, 4, 10} {
		h.Push(v)
	}
	if h.Len() != 4 {
		t.Fatalf("Len = %d, want 4", h.Len())
	}
	if last, _ := h.Last(); last != 10 {
		t.Fatalf("Last = %v, want 10", last)
	}
	// Restam 2, 3, 4, 10
	if avg := h.Average(); avg != 4.75 {
		t.Fatalf("Average = %v, want 4.75", avg)
	}
	if h.Max() != 10 {
		t.Fatalf("Max = %v, want 10", h.Max())
	}
}

func TestHistoryPartial(t *testing.T) {
	h := NewHistory[int](8)
	h.Push(4)
	h.Push(2)
	if h.Len() != 2 || h.Average() != 3 || h.Max() != 4 {
		t.Fatalf("len=%d avg=%v max=%d", h.Len(), h.Average(), h.Max())
	}
}
