package app

import (
	"path/filepath"
	"testing"

	"VoxelView/cliente/internal/entities"
	"VoxelView/shared/persist"

	"github.com/google/uuid"
)

func TestSkinStoreRoundTripsThroughPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skins", "cache.db")
	db, err := persist.OpenSkinStore(path)
	if err != nil {
		t.Fatalf("OpenSkinStore: %v", err)
	}
	id := uuid.New()
	store := skinStore{db}
	if err := store.SaveSkin(id, entities.SkinURLs{Skin: "http://s/skin.png", Cape: "http://s/cape.png"}); err != nil {
		t.Fatalf("SaveSkin: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	db, err = persist.OpenSkinStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()

	got := loadSkins(db)
	want := entities.SkinURLs{Skin: "http://s/skin.png", Cape: "http://s/cape.png"}
	if len(got) != 1 || got[id] != want {
		t.Fatalf("loadSkins = %+v, want %s -> %+v", got, id, want)
	}
}

func TestLoadSkinsFromClosedStore(t *testing.T) {
	db, err := persist.OpenSkinStore(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	db.Close()
	if got := loadSkins(db); got != nil {
		t.Fatalf("closed store returned %v", got)
	}
}
