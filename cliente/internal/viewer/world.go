package viewer

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"VoxelView/cliente/internal/scene"
	"VoxelView/shared/mapdata"
	"VoxelView/shared/util"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrMissingColumn é retornado quando uma carga completa chega sem dados.
var ErrMissingColumn = errors.New("carga de chunk sem coluna")

// MeshBuilder gera o nó de uma coluna. Só é chamado dentro de um flush.
type MeshBuilder interface {
	BuildChunkMesh(col *mapdata.Column, cfg mapdata.MeshConfig) (*scene.Node, error)
}

// meshForgetter é implementado por geradores com cache por coluna.
type meshForgetter interface {
	Forget(key util.ChunkKey)
}

// ChunkState é o estado observável de uma coluna.
type ChunkState int

const (
	ChunkAbsent ChunkState = iota
	ChunkQueued
	ChunkLoading
	ChunkFinished
)

func (s ChunkState) String() string {
	switch s {
	case ChunkQueued:
		return "queued"
	case ChunkLoading:
		return "loading"
	case ChunkFinished:
		return "finished"
	}
	return "absent"
}

// chunkRecord guarda os flags de uma coluna. finished implica que loading
// já foi marcado; uma reconstrução mantém finished até o novo flush.
type chunkRecord struct {
	column   *mapdata.Column
	queued   bool
	loading  bool
	finished bool
}

// chunkVisual possui o nó de uma coluna e os recursos de GPU dele.
type chunkVisual struct {
	backend scene.Backend
	node    *scene.Node
	res     scene.Resources
}

func newChunkVisual(b scene.Backend, node *scene.Node) *chunkVisual {
	cv := &chunkVisual{backend: b, node: node}
	node.Traverse(func(n *scene.Node) {
		if n.Geometry != nil {
			cv.res.Own("geometry", n.Geometry)
		}
		if n.Material != nil {
			cv.res.Own("material", n.Material)
		}
		if n.Label != nil {
			cv.res.Own("label", n.Label)
		}
	})
	return cv
}

func (cv *chunkVisual) Dispose() {
	cv.backend.Detach(cv.node)
	cv.res.ReleaseAll()
}

// World mantém as colunas carregadas e seus nós de cena.
// Todos os métodos devem ser chamados pela thread principal.
type World struct {
	backend scene.Backend
	builder MeshBuilder
	batcher *Batcher
	clock   Clock

	records map[util.ChunkKey]*chunkRecord
	visuals *scene.Registry[util.ChunkKey, *chunkVisual]

	worldConfig mapdata.WorldConfig
	meshConfig  mapdata.MeshConfig

	viewDistance  int32
	chunksLength  int
	finishedCount int

	viewerPos    mgl32.Vec3
	hasViewerPos bool

	flushes int
}

// NewWorld cria um mundo vazio.
func NewWorld(b scene.Backend, builder MeshBuilder, clock Clock, batchWait time.Duration, viewDistance int32) *World {
	if clock == nil {
		clock = SystemClock
	}
	w := &World{
		backend:     b,
		builder:     builder,
		batcher:     NewBatcher(batchWait),
		clock:       clock,
		records:     make(map[util.ChunkKey]*chunkRecord),
		visuals:     scene.NewRegistry[util.ChunkKey, *chunkVisual](),
		worldConfig: mapdata.DefaultWorldConfig(),
		meshConfig:  mapdata.MeshConfig{SkyLight: 15},
	}
	w.meshConfig.World = w.worldConfig
	w.SetViewDistance(viewDistance)
	return w
}

func (w *World) record(key util.ChunkKey) *chunkRecord {
	rec, ok := w.records[key]
	if !ok {
		rec = &chunkRecord{}
		w.records[key] = rec
	}
	return rec
}

// OnChunkLoad marca a coluna como enfileirada e a anexa à janela atual.
// Atualizações só de luz para colunas desconhecidas são ignoradas.
func (w *World) OnChunkLoad(ev LoadChunk) error {
	key := util.NewChunkKey(ev.X, ev.Z)
	if ev.LightOnly {
		if rec, ok := w.records[key]; !ok || rec.column == nil {
			return nil
		}
	}
	if ev.Column == nil && !ev.LightOnly {
		return fmt.Errorf("%w: %s", ErrMissingColumn, key)
	}

	if ev.Config.WorldHeight > 0 {
		w.worldConfig = ev.Config
		w.meshConfig.World = ev.Config
	}

	rec := w.record(key)
	if ev.Column != nil {
		rec.column = ev.Column
	}
	w.enqueue(key, rec, ev.LightOnly)
	return nil
}

func (w *World) enqueue(key util.ChunkKey, rec *chunkRecord, lightOnly bool) {
	if rec.queued {
		return
	}
	rec.queued = true
	w.batcher.Add(w.clock.Now(), key, lightOnly)
}

// Poll executa o flush se a janela venceu. Retorna quantas colunas foram
// processadas.
func (w *World) Poll(now time.Time) int {
	batch := w.batcher.Take(now)
	if batch == nil {
		return 0
	}
	w.flushes++

	built := 0
	for _, req := range batch {
		if w.flushOne(req) {
			built++
		}
	}

	for _, fn := range w.batcher.TakeDeferred() {
		runDeferred(fn)
	}
	return built
}

func runDeferred(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[World] PANIC em função adiada: %v", r)
		}
	}()
	fn()
}

// flushOne constrói uma coluna. Falhas ficam restritas à própria coluna.
func (w *World) flushOne(req loadRequest) (ok bool) {
	rec, found := w.records[req.key]
	if !found || !rec.queued {
		return false
	}
	rec.queued = false
	rec.loading = true

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[World] PANIC ao gerar chunk %s: %v", req.key, r)
			ok = false
		}
	}()

	node, err := w.builder.BuildChunkMesh(rec.column, w.meshConfig)
	if err != nil {
		log.Printf("[World] Erro ao gerar chunk %s: %v", req.key, err)
		return false
	}

	cv := newChunkVisual(w.backend, node)
	w.visuals.Put(req.key, cv)
	node.Visible = w.chunkInView(req.key)
	w.backend.Attach(node)

	if !rec.finished {
		rec.finished = true
		w.finishedCount++
	}
	return true
}

// OnChunkUnload remove a coluna imediatamente, mesmo que esteja em andamento.
func (w *World) OnChunkUnload(x, z int32) {
	key := util.NewChunkKey(x, z)
	w.visuals.Remove(key)
	if rec, ok := w.records[key]; ok {
		if rec.finished {
			w.finishedCount--
		}
		delete(w.records, key)
	}
	w.batcher.Drop(key)
	if f, ok := w.builder.(meshForgetter); ok {
		f.Forget(key)
	}
}

// Defer agenda fn para depois do próximo flush.
func (w *World) Defer(fn func()) {
	w.batcher.Defer(fn)
}

// MarkAsLoaded marca a coluna como terminada sem passar pelo agrupador.
func (w *World) MarkAsLoaded(x, z int32) {
	rec := w.record(util.NewChunkKey(x, z))
	rec.loading = true
	if !rec.finished {
		rec.finished = true
		w.finishedCount++
	}
}

// Finished informa se a coluna já foi construída.
func (w *World) Finished(key util.ChunkKey) bool {
	rec, ok := w.records[key]
	return ok && rec.finished
}

// State retorna o estado mais recente da coluna.
func (w *World) State(key util.ChunkKey) ChunkState {
	rec, ok := w.records[key]
	switch {
	case !ok:
		return ChunkAbsent
	case rec.queued:
		return ChunkQueued
	case rec.finished:
		return ChunkFinished
	case rec.loading:
		return ChunkLoading
	}
	return ChunkAbsent
}

// SetBlockStateID altera um bloco. Se a coluna estiver no lote atual, a
// alteração espera o flush.
func (w *World) SetBlockStateID(pos util.BlockPos, id uint16) {
	key := pos.ChunkKey()
	if rec, ok := w.records[key]; ok && rec.queued {
		w.batcher.Defer(func() { w.setBlock(pos, id) })
		return
	}
	w.setBlock(pos, id)
}

func (w *World) setBlock(pos util.BlockPos, id uint16) {
	key := pos.ChunkKey()
	rec, ok := w.records[key]
	if !ok || rec.column == nil {
		return
	}
	local := pos.Local()
	before := rec.column.Version
	if err := rec.column.SetBlock(local.X, local.Y, local.Z, id); err != nil {
		log.Printf("[World] Bloco ignorado em %s: %v", pos, err)
		return
	}
	if rec.column.Version != before {
		w.enqueue(key, rec, false)
	}
}

// Column retorna a coluna carregada de key.
func (w *World) Column(key util.ChunkKey) (*mapdata.Column, bool) {
	rec, ok := w.records[key]
	if !ok || rec.column == nil {
		return nil, false
	}
	return rec.column, true
}

// RerenderAll enfileira todas as colunas carregadas, em ordem de chave.
func (w *World) RerenderAll() int {
	keys := make([]util.ChunkKey, 0, len(w.records))
	for k, rec := range w.records {
		if rec.column != nil {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].X != keys[j].X {
			return keys[i].X < keys[j].X
		}
		return keys[i].Z < keys[j].Z
	})
	for _, k := range keys {
		w.enqueue(k, w.records[k], false)
	}
	return len(keys)
}

// SetSkyLight altera a luz usada nas próximas malhas.
func (w *World) SetSkyLight(level int) {
	w.meshConfig.SkyLight = level
}

// SetSmoothLight liga ou desliga a oclusão ambiente nas próximas malhas.
func (w *World) SetSmoothLight(on bool) {
	w.meshConfig.SmoothLight = on
}

// MeshConfig retorna a configuração atual do gerador.
func (w *World) MeshConfig() mapdata.MeshConfig {
	return w.meshConfig
}

// SetViewDistance altera o raio de visão e o total esperado de colunas.
func (w *World) SetViewDistance(d int32) {
	if d < 0 {
		d = 0
	}
	w.viewDistance = d
	if d == 0 {
		w.chunksLength = 1
	} else {
		side := int(2*d + 1)
		w.chunksLength = side * side
	}
}

// ViewDistance retorna o raio de visão em chunks.
func (w *World) ViewDistance() int32 {
	return w.viewDistance
}

// ChunksLength retorna o total de colunas esperado para o raio atual.
func (w *World) ChunksLength() int {
	return w.chunksLength
}

// FinishedCount retorna quantas colunas já terminaram.
func (w *World) FinishedCount() int {
	return w.finishedCount
}

// AllChunksFinished informa se todas as colunas esperadas terminaram.
func (w *World) AllChunksFinished() bool {
	return w.finishedCount == w.chunksLength
}

// UpdateViewerPosition registra a posição do observador.
func (w *World) UpdateViewerPosition(pos mgl32.Vec3) {
	w.viewerPos = pos
	w.hasViewerPos = true
}

// ViewerPosition retorna a posição do observador, se conhecida.
func (w *World) ViewerPosition() (mgl32.Vec3, bool) {
	return w.viewerPos, w.hasViewerPos
}

func (w *World) chunkInView(key util.ChunkKey) bool {
	if !w.hasViewerPos {
		return true
	}
	center := util.ChunkKeyAt(w.viewerPos)
	dx := abs32(key.X-center.X) / util.ChunkSize
	dz := abs32(key.Z-center.Z) / util.ChunkSize
	return dx <= w.viewDistance && dz <= w.viewDistance
}

// UpdateChunkVisibility esconde as colunas fora do raio de visão.
func (w *World) UpdateChunkVisibility() {
	if !w.hasViewerPos {
		return
	}
	w.visuals.Each(func(key util.ChunkKey, cv *chunkVisual) {
		cv.node.Visible = w.chunkInView(key)
	})
}

// ChunkNode retorna o nó de uma coluna construída.
func (w *World) ChunkNode(key util.ChunkKey) (*scene.Node, bool) {
	cv, ok := w.visuals.Get(key)
	if !ok {
		return nil, false
	}
	return cv.node, true
}

// Clear descarta todas as colunas, pedidos e funções adiadas.
func (w *World) Clear() {
	if f, ok := w.builder.(meshForgetter); ok {
		for k := range w.records {
			f.Forget(k)
		}
	}
	w.visuals.Clear()
	w.records = make(map[util.ChunkKey]*chunkRecord)
	w.batcher.Reset()
	w.finishedCount = 0
}

// WorldStats resume o estado do mundo para o HUD de debug.
type WorldStats struct {
	Loaded   int
	Queued   int
	Finished int
	Expected int
	Flushes  int
}

// Stats retorna contadores do mundo.
func (w *World) Stats() WorldStats {
	return WorldStats{
		Loaded:   w.visuals.Len(),
		Queued:   w.batcher.Pending(),
		Finished: w.finishedCount,
		Expected: w.chunksLength,
		Flushes:  w.flushes,
	}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
