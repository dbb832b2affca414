package meshing

import (
	"sync"

	"VoxelView/shared/util"
)

// ResultStore armazena os resultados de meshing na RAM para evitar re-processamento.
type ResultStore struct {
	mu      sync.RWMutex
	results map[util.ChunkKey]Result
}

// NewResultStore cria um novo repositório de resultados.
func NewResultStore() *ResultStore {
	return &ResultStore{
		results: make(map[util.ChunkKey]Result),
	}
}

// Get retorna um resultado se ele existir e tiver sido gerado com as mesmas entradas.
func (s *ResultStore) Get(key util.ChunkKey, version int64, skyLight int, smooth bool) (Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, ok := s.results[key]
	if ok && res.Version == version && res.SkyLight == skyLight && res.SmoothLight == smooth {
		// Retornamos um clone para evitar que modificações externas afetem o cache
		return res.Clone(), true
	}
	return Result{}, false
}

// Store salva um resultado no repositório, substituindo o anterior da coluna.
func (s *ResultStore) Store(res Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[res.Key] = res.Clone()
}

// Forget remove o resultado de uma coluna descarregada.
func (s *ResultStore) Forget(key util.ChunkKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.results, key)
}

// Len retorna o número de colunas em cache.
func (s *ResultStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}

// Clear limpa todo o cache de resultados.
func (s *ResultStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = make(map[util.ChunkKey]Result)
}
