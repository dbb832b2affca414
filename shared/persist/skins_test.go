package persist

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "skins.db")
	store, err := OpenSkinStore(path)
	if err != nil {
		t.Fatal(err)
	}
	alex := uuid.New()
	if err := store.Save(alex, "https://a/skin.png", ""); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(alex, "https://a/skin2.png", "https://a/cape.png"); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := OpenSkinStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	entries, err := reopened.LoadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %v", entries)
	}
	if got := entries[alex]; got.Skin != "https://a/skin2.png" || got.Cape != "https://a/cape.png" {
		t.Fatalf("entry = %+v", got)
	}
}

func TestClosedStore(t *testing.T) {
	store, err := OpenSkinStore(filepath.Join(t.TempDir(), "skins.db"))
	if err != nil {
		t.Fatal(err)
	}
	store.Close()
	if err := store.Save(uuid.New(), "x", ""); !errors.Is(err, ErrClosed) {
		t.Fatalf("err = %v", err)
	}
	if _, err := store.LoadAll(); !errors.Is(err, ErrClosed) {
		t.Fatalf("err = %v", err)
	}
}
