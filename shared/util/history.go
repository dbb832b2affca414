package util

// History guarda as últimas amostras em um buffer circular. A capacidade é
// arredondada para potência de 2. Não é seguro para uso concorrente.
type History[T Number] struct {
	entries []T
	mask    uint64
	next    uint64
}

// Number são os tipos aceitos por History.
type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// NewHistory cria um histórico com pelo menos capacity posições.
func NewHistory[T Number](capacity int) *History[T] {
	n := nextPowerOfTwo(capacity)
	return &History[T]{
		entries: make([]T, n),
		mask:    uint64(n - 1),
	}
}

// Push grava uma amostra, sobrescrevendo a mais antiga quando cheio.
func (h *History[T]) Push(v T) {
	h.entries[h.next&h.mask] = v
	h.next++
}

// Len retorna quantas amostras estão guardadas.
func (h *History[T]) Len() int {
	if h.next < uint64(len(h.entries)) {
		return int(h.next)
	}
	return len(h.entries)
}

// Last retorna a amostra mais recente.
func (h *History[T]) Last() (T, bool) {
	var zero T
	if h.next == 0 {
		return zero, false
	}
	return h.entries[(h.next-1)&h.mask], true
}

// Average retorna a média das amostras guardadas (0 se vazio).
func (h *History[T]) Average() float64 {
	n := h.Len()
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(h.entries[i])
	}
	return sum / float64(n)
}

// Max retorna a maior amostra guardada (zero se vazio).
func (h *History[T]) Max() T {
	var m T
	for i := 0; i < h.Len(); i++ {
		if i == 0 || h.entries[i] > m {
			m = h.entries[i]
		}
	}
	return m
}

func nextPowerOfTwo(x int) int {
	res := 2
	for res < x {
		res <<= 1
	}
	return res
}
