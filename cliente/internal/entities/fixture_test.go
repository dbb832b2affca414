package entities

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"sync/atomic"
	"testing"

	"VoxelView/cliente/internal/assets"
	"VoxelView/cliente/internal/async"
	"VoxelView/cliente/internal/scene"
	"VoxelView/cliente/internal/scene/scenetest"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// stubLoader devolve imagens 64x64 transparentes e conta as cargas por URL.
type stubLoader struct {
	calls atomic.Int32

	mu     sync.Mutex
	byURL  map[string]int
	failed map[string]bool
	fill   color.NRGBA
}

func (l *stubLoader) LoadImage(ctx context.Context, url string) (image.Image, error) {
	l.calls.Add(1)
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.byURL == nil {
		l.byURL = make(map[string]int)
	}
	l.byURL[url]++
	if l.failed[url] {
		return nil, errors.New("404")
	}
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	if l.fill.A != 0 {
		for i := 0; i < len(img.Pix); i += 4 {
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = l.fill.R, l.fill.G, l.fill.B, l.fill.A
		}
	}
	return img, nil
}

func (l *stubLoader) count(url string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.byURL[url]
}

type stubCatalog map[string]*assets.EntityModel

func (c stubCatalog) ResolveModel(name string) (*assets.EntityModel, error) {
	if m, ok := c[assets.NormalizeName(name)]; ok {
		return m, nil
	}
	return nil, assets.ErrModelNotFound
}

type stubItems struct{}

func (stubItems) ResolveItem(item Item, ctx DisplayContext) (ItemModel, bool) {
	if item.Name == "unknown_thing" {
		return ItemModel{}, false
	}
	return ItemModel{Name: item.Name, IsBlock: item.Name == "stone", UV: scene.FullRect}, true
}

type savedSkin struct {
	id   uuid.UUID
	urls SkinURLs
}

type memStore struct {
	mu    sync.Mutex
	saved []savedSkin
}

func (m *memStore) SaveSkin(id uuid.UUID, urls SkinURLs) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, savedSkin{id, urls})
	return nil
}

type fixture struct {
	loop    *async.Loop
	backend *scenetest.Backend
	loader  *stubLoader
	store   *memStore
	sync    *Synchronizer
	events  []Notification
}

func standModel() *assets.EntityModel {
	return &assets.EntityModel{
		Tokens:        []string{"armor_stand"},
		Texture:       "block:oak_planks",
		TextureWidth:  64,
		TextureHeight: 64,
		Bones: []assets.Bone{
			{Name: "baseplate", Cubes: []assets.Cube{{Origin: [3]float32{-6, 0, -6}, Size: [3]float32{12, 1, 12}}}},
			{Name: "body", Pivot: [3]float32{0, 24, 0}, Cubes: []assets.Cube{{Origin: [3]float32{-6, 21, -1.5}, Size: [3]float32{12, 3, 3}}}},
			{Name: "head", Parent: "body", Pivot: [3]float32{0, 24, 0}},
			{Name: "rightarm", Parent: "body", Pivot: [3]float32{-5, 22, 0}},
			{Name: "leftarm", Parent: "body", Pivot: [3]float32{5, 22, 0}},
			{Name: "rightleg", Pivot: [3]float32{-2, 12, 0}},
			{Name: "leftleg", Pivot: [3]float32{2, 12, 0}},
		},
	}
}

func frameModel() *assets.EntityModel {
	return &assets.EntityModel{
		Tokens:        []string{"item_frame"},
		Texture:       "block:item_frame",
		TextureWidth:  16,
		TextureHeight: 16,
		Bones: []assets.Bone{
			{Name: "frame", Cubes: []assets.Cube{{Origin: [3]float32{-6, -6, 7}, Size: [3]float32{12, 12, 1}}}},
		},
	}
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	loop := async.NewLoop(2)
	t.Cleanup(loop.Close)

	f := &fixture{
		loop:    loop,
		backend: scenetest.New(),
		loader:  &stubLoader{},
		store:   &memStore{},
	}
	if opts.DefaultSkinURL == "" {
		opts.DefaultSkinURL = "steve.png"
	}
	if opts.SkinLookupURL == "" {
		opts.SkinLookupURL = "https://skins.test/%s/%s"
	}
	f.sync = NewSynchronizer(Deps{
		Backend: f.backend,
		Loop:    loop,
		Images:  assets.NewTextureCache(loop, f.loader),
		Catalog: stubCatalog{
			"armor_stand":  standModel(),
			"zombie":       standModel(),
			"text_display": {Tokens: []string{"text_display"}},
			"item_frame":   frameModel(),
		},
		Items:   stubItems{},
		Store:   f.store,
	}, opts)
	f.sync.Subscribe(func(n Notification) { f.events = append(f.events, n) })
	return f
}

// settle roda tarefas de fundo e continuações até não sobrar nada.
func (f *fixture) settle() {
	for {
		f.loop.Wait()
		if f.loop.Drain() == 0 {
			return
		}
	}
}

func (f *fixture) count(kind NotificationKind) int {
	n := 0
	for _, e := range f.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func vec(x, y, z float32) *mgl32.Vec3 {
	v := mgl32.Vec3{x, y, z}
	return &v
}

func yaw(a float32) *float32 {
	return &a
}

func playerState(id int32, name string) EntityState {
	return EntityState{
		ID:       id,
		Name:     "player",
		Category: CategoryPlayer,
		Username: name,
		UUID:     uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)),
		Position: vec(0, 64, 0),
		Yaw:      yaw(0),
		Width:    0.6,
		Height:   1.8,
	}
}
