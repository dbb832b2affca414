// Package persist guarda o cache de skins de jogadores num arquivo SQLite.
package persist

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrClosed é retornado por operações depois de Close.
var ErrClosed = errors.New("persist: banco de dados fechado")

// SkinModel é o esquema de uma entrada do cache de skins.
type SkinModel struct {
	UUID      string `gorm:"primaryKey"`
	Skin      string
	Cape      string
	UpdatedAt time.Time
}

// SkinEntry é uma entrada carregada do banco.
type SkinEntry struct {
	Skin, Cape string
}

// SkinStore é seguro para uso concorrente; o GORM serializa o acesso ao SQLite.
type SkinStore struct {
	db *gorm.DB
}

// OpenSkinStore abre (ou cria) o banco e roda a migração.
func OpenSkinStore(path string) (*SkinStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar no SQLite: %w", err)
	}
	if err := db.AutoMigrate(&SkinModel{}); err != nil {
		return nil, fmt.Errorf("falha na migração do banco: %w", err)
	}

	log.Printf("[Persistence] Cache de skins aberto: %s", path)
	return &SkinStore{db: db}, nil
}

// Save grava (ou substitui) a entrada de um uuid.
func (s *SkinStore) Save(id uuid.UUID, skin, cape string) error {
	if s.db == nil {
		return ErrClosed
	}
	return s.db.Save(&SkinModel{UUID: id.String(), Skin: skin, Cape: cape}).Error
}

// LoadAll retorna todas as entradas. Linhas com uuid inválido são ignoradas.
func (s *SkinStore) LoadAll() (map[uuid.UUID]SkinEntry, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	var rows []SkinModel
	if err := s.db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("falha ao carregar skins: %w", err)
	}
	entries := make(map[uuid.UUID]SkinEntry, len(rows))
	for _, r := range rows {
		id, err := uuid.Parse(r.UUID)
		if err != nil {
			log.Printf("[Persistence] Ignorando uuid inválido %q", r.UUID)
			continue
		}
		entries[id] = SkinEntry{Skin: r.Skin, Cape: r.Cape}
	}
	log.Printf("[Persistence] %d skins carregadas do cache", len(entries))
	return entries, nil
}

// Close fecha a conexão.
func (s *SkinStore) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	s.db = nil
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
