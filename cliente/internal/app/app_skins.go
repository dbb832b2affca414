package app

import (
	"log"

	"VoxelView/cliente/internal/entities"
	"VoxelView/shared/persist"

	"github.com/google/uuid"
)

// skinStore expõe o cache persistente como entities.SkinStore.
type skinStore struct {
	db *persist.SkinStore
}

func (s skinStore) SaveSkin(id uuid.UUID, urls entities.SkinURLs) error {
	return s.db.Save(id, urls.Skin, urls.Cape)
}

// loadSkins lê o cache persistido. Falhas deixam o cache vazio.
func loadSkins(db *persist.SkinStore) map[uuid.UUID]entities.SkinURLs {
	entries, err := db.LoadAll()
	if err != nil {
		log.Printf("[App] Erro ao ler cache de skins: %v", err)
		return nil
	}
	out := make(map[uuid.UUID]entities.SkinURLs, len(entries))
	for id, e := range entries {
		out[id] = entities.SkinURLs{Skin: e.Skin, Cape: e.Cape}
	}
	return out
}
