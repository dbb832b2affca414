package entities

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"log"
	"net/url"
	"strings"

	"VoxelView/cliente/internal/assets"
	"VoxelView/cliente/internal/scene"

	"github.com/google/uuid"
)

// SkinRefKind distingue URL explícita, reutilização e ausência.
type SkinRefKind int

const (
	RefAbsent SkinRefKind = iota
	RefReuse
	RefURL
)

// SkinRef é a referência de textura recebida em um evento de skin.
type SkinRef struct {
	Kind SkinRefKind
	URL  string
}

// SkinURL cria uma referência explícita. URL vazia vira ausência.
func SkinURL(u string) SkinRef {
	if u == "" {
		return NoSkin
	}
	return SkinRef{Kind: RefURL, URL: u}
}

var (
	// Reuse pede o último valor conhecido para o uuid.
	Reuse = SkinRef{Kind: RefReuse}
	// NoSkin indica que o evento não trouxe a textura.
	NoSkin = SkinRef{Kind: RefAbsent}
)

// earsUsername sempre tem orelhas renderizadas.
const earsUsername = "deadmau5"

// PreloadSkins carrega entradas persistidas no cache de skins.
func (s *Synchronizer) PreloadSkins(entries map[uuid.UUID]SkinURLs) {
	for id, urls := range entries {
		s.skins[id] = urls
	}
}

// CachedSkin retorna a entrada do cache de skins de um uuid.
func (s *Synchronizer) CachedSkin(id uuid.UUID) (SkinURLs, bool) {
	urls, ok := s.skins[id]
	return urls, ok
}

// LookupURL monta a URL padrão de skin ou capa pelo nome do jogador.
func (s *Synchronizer) LookupURL(username, kind string) string {
	return fmt.Sprintf(s.opts.SkinLookupURL, url.QueryEscape(username), kind)
}

// UpdatePlayerSkin resolve as referências de skin/capa, atualiza o cache por
// uuid e carrega as imagens de forma assíncrona. O cache é atualizado mesmo
// que a entidade não tenha visual.
func (s *Synchronizer) UpdatePlayerSkin(id int32, username string, playerUUID uuid.UUID, skin, cape SkinRef) {
	skinURL, capeURL := s.resolveSkinRefs(playerUUID, skin, cape)

	v, ok := s.visuals.Get(id)
	if !ok || v.Player == nil {
		return
	}
	if skinURL == "" {
		if username == "" {
			return
		}
		skinURL = s.LookupURL(username, "skin")
	}
	s.applySkin(v, username, skinURL, capeURL)
}

// applySkin carrega skin e capa no jogador sem tocar no cache. A capa só é
// carregada se nenhuma atualização mais nova tiver substituído esta.
func (s *Synchronizer) applySkin(v *Visual, username, skinURL, capeURL string) {
	p := v.Player
	p.Cape.Visible = false
	if capeURL == "" {
		p.SetBack(BackNone)
		p.elytraMat.Texture = nil
		p.capeMat.Texture = nil
		v.res.ReleaseGroup("cape")
		v.bumpSlot("cape")
	}
	capeGen := v.slotGen["cape"]

	renderEars := s.opts.RenderEars || username == earsUsername
	s.loadAndApplySkin(v, skinURL, renderEars, func(current bool) {
		if current && capeURL != "" && v.slotGen["cape"] == capeGen {
			s.loadAndApplyCape(v, capeURL)
		}
	})
}

// resolveSkinRefs atualiza o cache campo a campo e resolve as reutilizações.
func (s *Synchronizer) resolveSkinRefs(playerUUID uuid.UUID, skin, cape SkinRef) (string, string) {
	var skinURL, capeURL string
	if skin.Kind == RefURL {
		skinURL = skin.URL
	}
	if cape.Kind == RefURL {
		capeURL = cape.URL
	}
	if playerUUID == uuid.Nil {
		return skinURL, capeURL
	}

	entry := s.skins[playerUUID]
	changed := false
	if skinURL != "" && entry.Skin != skinURL {
		entry.Skin = skinURL
		changed = true
	}
	if capeURL != "" && entry.Cape != capeURL {
		entry.Cape = capeURL
		changed = true
	}
	if skin.Kind != RefURL {
		skinURL = entry.Skin
	}
	if cape.Kind != RefURL {
		capeURL = entry.Cape
	}
	if changed {
		s.skins[playerUUID] = entry
		s.persistSkin(playerUUID, entry)
	}
	return skinURL, capeURL
}

func (s *Synchronizer) persistSkin(id uuid.UUID, urls SkinURLs) {
	store := s.deps.Store
	if store == nil || s.deps.Loop == nil {
		return
	}
	s.deps.Loop.Go(func(ctx context.Context) {
		if err := store.SaveSkin(id, urls); err != nil {
			log.Printf("[Entities] Falha ao salvar skin de %s: %v", id, err)
		}
	})
}

// loadAndApplySkin busca a skin e aplica ao jogador se o visual ainda existir.
// next roda depois da tentativa; current é falso quando a carga ficou obsoleta.
func (s *Synchronizer) loadAndApplySkin(v *Visual, skinURL string, renderEars bool, next func(current bool)) {
	if s.deps.Images == nil {
		next(true)
		return
	}
	gen := v.bumpSlot("skin")
	custom := skinURL != s.opts.DefaultSkinURL

	s.deps.Images.Load(skinURL).Then(func(img image.Image, err error) {
		if !s.current(v.ID, v) || v.slotGen["skin"] != gen {
			next(false)
			return
		}
		defer next(true)
		if err != nil {
			log.Printf("[Entities] Erro ao carregar skin de %d (%s): %v", v.ID, skinURL, err)
			return
		}
		p := v.Player
		b := s.deps.Backend

		skin := assets.NormalizeSkin(img)
		tex := scene.NewTexture(b, skin, true)
		v.res.ReleaseGroup("skin")
		v.res.Own("skin", tex)
		p.skinMat.Texture = tex
		p.SetArmModel(assets.InferArmModel(skin))

		var ears *image.NRGBA
		if renderEars && custom {
			ears = assets.EarsRegion(skin)
			if assets.IsBlank(ears) {
				ears = nil
			}
		}
		v.res.ReleaseGroup("ears")
		if ears != nil {
			earsTex := scene.NewTexture(b, ears, true)
			v.res.Own("ears", earsTex)
			p.earsMat.Texture = earsTex
			p.Ears.Visible = true
		} else {
			p.earsMat.Texture = nil
			p.Ears.Visible = false
		}
	})
}

// loadAndApplyCape busca a capa; o élitro usa a mesma textura.
func (s *Synchronizer) loadAndApplyCape(v *Visual, capeURL string) {
	if !s.current(v.ID, v) || s.deps.Images == nil {
		return
	}
	gen := v.bumpSlot("cape")
	s.deps.Images.Load(capeURL).Then(func(img image.Image, err error) {
		if !s.current(v.ID, v) || v.slotGen["cape"] != gen {
			return
		}
		if err != nil {
			log.Printf("[Entities] Erro ao carregar capa de %d (%s): %v", v.ID, capeURL, err)
			// Mantém a capa anterior visível, se houver
			v.Player.SetBack(v.Player.Back)
			return
		}
		p := v.Player
		tex := scene.NewTexture(s.deps.Backend, img, true)
		v.res.ReleaseGroup("cape")
		v.res.Own("cape", tex)
		p.capeMat.Texture = tex
		p.elytraMat.Texture = tex

		if p.Back == BackNone {
			p.SetBack(BackCape)
		} else {
			p.SetBack(p.Back)
		}
	})
}

// texturesProperty é o JSON (base64) da propriedade "textures" do perfil.
type texturesProperty struct {
	Textures struct {
		Skin *struct {
			URL string `json:"url"`
		} `json:"SKIN"`
		Cape *struct {
			URL string `json:"url"`
		} `json:"CAPE"`
	} `json:"textures"`
}

// DecodeTexturesProperty extrai as URLs de skin e capa do valor base64 da
// propriedade "textures".
func DecodeTexturesProperty(value string) (skin, cape string, err error) {
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", "", fmt.Errorf("falha ao decodificar textures: %w", err)
	}
	var prop texturesProperty
	if err := json.Unmarshal(raw, &prop); err != nil {
		return "", "", fmt.Errorf("falha ao parsear textures: %w", err)
	}
	if prop.Textures.Skin != nil {
		skin = prop.Textures.Skin.URL
	}
	if prop.Textures.Cape != nil {
		cape = prop.Textures.Cape.URL
	}
	return skin, cape, nil
}

// ApplyTexturesProxy troca o host de texturas oficial pelo proxy configurado.
func ApplyTexturesProxy(u, proxy string) string {
	if proxy == "" || u == "" {
		return u
	}
	u = strings.Replace(u, "http://textures.minecraft.net/", proxy, 1)
	return strings.Replace(u, "https://textures.minecraft.net/", proxy, 1)
}
