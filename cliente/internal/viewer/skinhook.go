package viewer

import (
	"VoxelView/cliente/internal/entities"
	"VoxelView/shared/util"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// maxSkinLoadDistance é a distância máxima (em blocos) para carregar skins.
const maxSkinLoadDistance = 128

// skinHook carrega a skin de cada jogador uma única vez, quando ele chega
// perto do observador.
type skinHook struct {
	v       *Viewer
	enabled bool
	loaded  map[int32]bool
}

func newSkinHook(v *Viewer, enabled bool) *skinHook {
	return &skinHook{v: v, enabled: enabled, loaded: make(map[int32]bool)}
}

// notify recebe add/remove do sincronizador. O add é adiado para rodar depois
// da skin padrão aplicada na criação.
func (h *skinHook) notify(n entities.Notification) {
	if n.Kind == entities.NotifyRemove {
		delete(h.loaded, n.ID)
		return
	}
	if h.v.loop == nil {
		h.tryLoad(n.ID, n.Username, n.UUID, n.Position)
		return
	}
	h.v.loop.Post(func() {
		h.tryLoad(n.ID, n.Username, n.UUID, n.Position)
	})
}

func (h *skinHook) moved(st entities.EntityState) {
	if st.Position == nil {
		return
	}
	h.tryLoad(st.ID, st.Username, st.UUID, *st.Position)
}

func (h *skinHook) tryLoad(id int32, username string, playerUUID uuid.UUID, pos mgl32.Vec3) {
	if !h.enabled || h.loaded[id] {
		return
	}
	vis, ok := h.v.Entities.Get(id)
	if !ok || vis.Player == nil {
		return
	}
	viewer, ok := h.v.World.ViewerPosition()
	if !ok {
		return
	}
	maxDist := float32(maxSkinLoadDistance)
	if d := float32(h.v.World.ViewDistance() * util.ChunkSize); d < maxDist {
		maxDist = d
	}
	if util.DistSq(pos, viewer) >= maxDist*maxDist {
		return
	}
	h.loaded[id] = true
	if username == "" {
		username = vis.Username
	}
	if playerUUID == uuid.Nil {
		playerUUID = vis.UUID
	}
	h.v.Entities.UpdatePlayerSkin(id, username, playerUUID, entities.Reuse, entities.Reuse)
}

func (h *skinHook) reset() {
	h.loaded = make(map[int32]bool)
}
