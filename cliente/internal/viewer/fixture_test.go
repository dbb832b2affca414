package viewer

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"VoxelView/cliente/internal/assets"
	"VoxelView/cliente/internal/async"
	"VoxelView/cliente/internal/entities"
	"VoxelView/cliente/internal/scene"
	"VoxelView/cliente/internal/scene/scenetest"
	"VoxelView/shared/mapdata"
	"VoxelView/shared/util"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// manualClock só avança quando o teste pede.
type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// fakeBuilder registra a ordem de construção e falha para colunas marcadas.
type fakeBuilder struct {
	backend scene.Backend
	built   []util.ChunkKey
	configs []mapdata.MeshConfig
	fail    map[util.ChunkKey]bool
	panics  map[util.ChunkKey]bool
	forgot  []util.ChunkKey
}

func (b *fakeBuilder) BuildChunkMesh(col *mapdata.Column, cfg mapdata.MeshConfig) (*scene.Node, error) {
	key := col.Key()
	if b.panics[key] {
		panic("mesher quebrado")
	}
	if b.fail[key] {
		return nil, errors.New("falha de teste")
	}
	b.built = append(b.built, key)
	b.configs = append(b.configs, cfg)

	root := scene.NewGroup("chunk_" + key.String())
	n := scene.NewNode("opaque", scene.ShapeMesh)
	n.Geometry = scene.NewGeometry(b.backend, &scene.Geometry{Vertices: []float32{0, 0, 0}})
	n.Material = scene.NewMaterial(b.backend, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, nil)
	root.Add(n)
	return root, nil
}

func (b *fakeBuilder) Forget(key util.ChunkKey) {
	b.forgot = append(b.forgot, key)
}

// countingLoader devolve imagens vazias e conta as cargas por URL.
type countingLoader struct {
	mu    sync.Mutex
	byURL map[string]int
}

func (l *countingLoader) LoadImage(ctx context.Context, url string) (image.Image, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.byURL == nil {
		l.byURL = make(map[string]int)
	}
	l.byURL[url]++
	return image.NewNRGBA(image.Rect(0, 0, 64, 64)), nil
}

func (l *countingLoader) count(url string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.byURL[url]
}

type fixture struct {
	t       *testing.T
	clock   *manualClock
	backend *scenetest.Backend
	builder *fakeBuilder
	loader  *countingLoader
	loop    *async.Loop
	viewer  *Viewer
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	f := &fixture{
		t:       t,
		clock:   &manualClock{now: time.Unix(1000, 0)},
		backend: scenetest.New(),
		loader:  &countingLoader{},
		loop:    async.NewLoop(2),
	}
	t.Cleanup(f.loop.Close)
	f.builder = &fakeBuilder{
		backend: f.backend,
		fail:    make(map[util.ChunkKey]bool),
		panics:  make(map[util.ChunkKey]bool),
	}
	ents := entities.NewSynchronizer(entities.Deps{
		Backend: f.backend,
		Loop:    f.loop,
		Images:  assets.NewTextureCache(f.loop, f.loader),
	}, entities.Options{
		ShowUnknownEntities: true,
		DefaultSkinURL:      "steve.png",
		SkinLookupURL:       "https://skins.test/%s/%s",
	})
	if opts.BatchWait == 0 {
		opts.BatchWait = 200 * time.Millisecond
	}
	f.viewer = New(Deps{
		Backend:  f.backend,
		Loop:     f.loop,
		Entities: ents,
		Builder:  f.builder,
		Clock:    f.clock,
	}, opts)
	return f
}

func (f *fixture) dispatch(ev Event) {
	f.t.Helper()
	if err := f.viewer.Dispatch(ev); err != nil {
		f.t.Fatalf("Dispatch(%T): %v", ev, err)
	}
}

// settle espera os trabalhos assíncronos e roda as continuações.
func (f *fixture) settle() {
	for {
		f.loop.Wait()
		if f.loop.Drain() == 0 {
			return
		}
	}
}

func column(x, z int32) *mapdata.Column {
	return mapdata.NewColumn(x, z, mapdata.WorldConfig{MinY: 0, WorldHeight: 16})
}

func loadChunk(x, z int32) LoadChunk {
	return LoadChunk{X: x, Z: z, Column: column(x, z), Config: mapdata.WorldConfig{MinY: 0, WorldHeight: 16}}
}

func vec(x, y, z float32) *mgl32.Vec3 {
	v := mgl32.Vec3{x, y, z}
	return &v
}

func playerUpdate(id int32, name string, pos mgl32.Vec3) EntityUpdate {
	return EntityUpdate{State: entities.EntityState{
		ID:       id,
		Name:     "player",
		Category: entities.CategoryPlayer,
		Username: name,
		UUID:     uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)),
		Position: &pos,
		Width:    0.6,
		Height:   1.8,
	}}
}
