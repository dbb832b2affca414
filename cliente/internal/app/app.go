package app

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"VoxelView/cliente/internal/assets"
	"VoxelView/cliente/internal/async"
	"VoxelView/cliente/internal/camera"
	"VoxelView/cliente/internal/client"
	"VoxelView/cliente/internal/entities"
	"VoxelView/cliente/internal/items"
	"VoxelView/cliente/internal/meshing"
	"VoxelView/cliente/internal/render"
	"VoxelView/cliente/internal/viewer"
	"VoxelView/shared/config"
	"VoxelView/shared/mapdata"
	"VoxelView/shared/persist"
	"VoxelView/shared/util"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"
)

// eventBudget é o tempo máximo por frame gasto aplicando eventos da rede.
const eventBudget = 8 * time.Millisecond

// App é a aplicação principal do VoxelView.
type App struct {
	Config *config.Config

	Cam *camera.Controller

	backend *render.Backend
	loop    *async.Loop
	images  *assets.TextureCache
	items   *items.Resolver
	skinDB  *persist.SkinStore
	blocks  *mapdata.BlockStore
	viewer  *viewer.Viewer

	// Conexão atual; só é trocada pela thread principal.
	net       *client.NetworkClient
	connected atomic.Bool
	ctx       context.Context
	cancel    context.CancelFunc

	frameCount    int
	frameTimes    *util.History[float32] // Segundos por frame
	showNametags  bool
	lastEventErrs int
}

// New cria uma nova instância da aplicação.
func New(cfg *config.Config) *App {
	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		Config:       cfg,
		ctx:          ctx,
		cancel:       cancel,
		frameTimes:   util.NewHistory[float32](128),
		showNametags: true,
	}
}

// Run inicia o loop principal da aplicação.
func (a *App) Run() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] Erro fatal recuperado: %v", r)
			panic(r)
		}
	}()

	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(a.Config.WindowWidth, a.Config.WindowHeight, a.Config.WindowTitle)
	rl.SetTraceLogLevel(rl.LogWarning)

	if a.Config.Fullscreen {
		rl.ToggleFullscreen()
	}
	rl.SetTargetFPS(a.Config.TargetFPS)
	rl.SetExitKey(0)

	log.Println("[VoxelView] Janela inicializada com sucesso")
	log.Printf("[VoxelView] Resolução: %dx%d", a.Config.WindowWidth, a.Config.WindowHeight)

	a.Cam = camera.New(a.Config.FOV, a.Config.FollowLerp)
	a.init()

	go a.connectServer()

	for !rl.WindowShouldClose() {
		a.update()
		a.draw()
	}

	a.shutdown()
	rl.CloseWindow()
}

// init liga os componentes. Precisa da janela aberta (contexto OpenGL).
func (a *App) init() {
	cfg := a.Config

	a.loop = async.NewLoop(cfg.ImageLoadWorkers)
	a.backend = render.NewBackend()
	a.images = assets.NewTextureCache(a.loop, assets.NewHTTPLoader(""))
	a.items = items.NewResolver(a.backend)
	a.blocks = mapdata.NewBlockStore()

	deps := entities.Deps{
		Backend: a.backend,
		Loop:    a.loop,
		Images:  a.images,
		Items:   a.items,
	}
	if catalog, err := assets.LoadCatalog(cfg.EntityCatalogPath); err != nil {
		log.Printf("[App] Catálogo de entidades indisponível (%s): %v", cfg.EntityCatalogPath, err)
	} else {
		deps.Catalog = catalog
		log.Printf("[App] Catálogo com %d modelos carregado", catalog.Len())
	}

	var preload map[uuid.UUID]entities.SkinURLs
	if cfg.SkinCachePath != "" {
		store, err := persist.OpenSkinStore(cfg.SkinCachePath)
		if err != nil {
			log.Printf("[App] Cache de skins desativado: %v", err)
		} else {
			a.skinDB = store
			deps.Store = skinStore{store}
			preload = loadSkins(store)
		}
	}

	ents := entities.NewSynchronizer(deps, entities.Options{
		ShowUnknownEntities: cfg.ShowUnknownEntities,
		RenderEars:          cfg.RenderEars,
		DefaultSkinURL:      cfg.DefaultSkinPath,
		SkinLookupURL:       cfg.SkinLookupURL,
		SkinTexturesProxy:   cfg.SkinTexturesProxy,
	})
	if len(preload) > 0 {
		ents.PreloadSkins(preload)
		log.Printf("[App] %d skins restauradas do cache", len(preload))
	}
	if cfg.ShowEntityBoxes {
		ents.SetDebugMode(entities.DebugBasic)
	}

	a.viewer = viewer.New(viewer.Deps{
		Backend:  a.backend,
		Loop:     a.loop,
		Entities: ents,
		Builder:  meshing.NewBuilder(a.backend, a.blocks),
		Blocks:   a.blocks,
	}, viewer.Options{
		BatchWait:         time.Duration(cfg.BatchWaitMs) * time.Millisecond,
		ViewDistance:      cfg.ViewDistance,
		SmoothLight:       cfg.SmoothLight,
		LoadPlayerSkins:   cfg.LoadPlayerSkins,
		SkinTexturesProxy: cfg.SkinTexturesProxy,
	})
}

// shutdown realiza a limpeza de recursos.
func (a *App) shutdown() {
	log.Println("[App] Finalizando aplicação...")

	a.cancel()
	if a.net != nil {
		a.net.Close()
	}
	a.loop.Close()
	a.items.Release()
	a.backend.Unload()

	if a.skinDB != nil {
		if err := a.skinDB.Close(); err != nil {
			log.Printf("[App] Erro ao fechar cache de skins: %v", err)
		}
	}
	if err := a.Config.Save(); err != nil {
		log.Printf("[VoxelView] Erro ao salvar configurações: %v", err)
	}
}
