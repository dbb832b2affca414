package scene

// Disposable libera tudo que um objeto vivo possui.
type Disposable interface {
	Dispose()
}

// Registry mapeia ids lógicos (chave de chunk, id de entidade) para seus
// objetos vivos. Existe no máximo um objeto por id; substituir ou remover
// descarta o anterior.
type Registry[K comparable, V Disposable] struct {
	items map[K]V
}

// NewRegistry cria um registro vazio.
func NewRegistry[K comparable, V Disposable]() *Registry[K, V] {
	return &Registry[K, V]{items: make(map[K]V)}
}

// Get retorna o objeto registrado para id.
func (r *Registry[K, V]) Get(id K) (V, bool) {
	v, ok := r.items[id]
	return v, ok
}

// Has informa se existe objeto para id.
func (r *Registry[K, V]) Has(id K) bool {
	_, ok := r.items[id]
	return ok
}

// Put registra v, descartando o objeto anterior. Retorna true se houve substituição.
func (r *Registry[K, V]) Put(id K, v V) bool {
	old, ok := r.items[id]
	r.items[id] = v
	if ok {
		old.Dispose()
	}
	return ok
}

// Remove descarta e esquece o objeto de id. Remover um id ausente não faz nada.
func (r *Registry[K, V]) Remove(id K) (V, bool) {
	v, ok := r.items[id]
	if !ok {
		return v, false
	}
	delete(r.items, id)
	v.Dispose()
	return v, true
}

// Len retorna o número de objetos registrados.
func (r *Registry[K, V]) Len() int {
	return len(r.items)
}

// Keys retorna uma cópia das chaves.
func (r *Registry[K, V]) Keys() []K {
	keys := make([]K, 0, len(r.items))
	for k := range r.items {
		keys = append(keys, k)
	}
	return keys
}

// Each visita todos os objetos. fn não deve modificar o registro.
func (r *Registry[K, V]) Each(fn func(K, V)) {
	for k, v := range r.items {
		fn(k, v)
	}
}

// Clear descarta todos os objetos.
func (r *Registry[K, V]) Clear() {
	for k, v := range r.items {
		delete(r.items, k)
		v.Dispose()
	}
}
