package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config armazena as configurações do VoxelView.
type Config struct {
	// Janela
	WindowWidth  int32  `json:"window_width"`
	WindowHeight int32  `json:"window_height"`
	WindowTitle  string `json:"window_title"`
	Fullscreen   bool   `json:"fullscreen"`
	TargetFPS    int32  `json:"target_fps"`

	// Ponte do protocolo do jogo (WebSocket)
	ServerURL string `json:"server_url"`

	// Mundo
	ViewDistance int32 `json:"view_distance"` // Raio de visão em chunks
	BatchWaitMs  int   `json:"batch_wait_ms"` // Janela de agrupamento de loadChunk
	SmoothLight  bool  `json:"smooth_light"`

	// Entidades
	ShowUnknownEntities bool   `json:"show_unknown_entities"` // Caixa magenta para entidades sem modelo
	LoadPlayerSkins     bool   `json:"load_player_skins"`
	RenderEars          bool   `json:"render_ears"`
	SkinLookupURL       string `json:"skin_lookup_url"` // %s = username, %s = skin|cape
	SkinTexturesProxy   string `json:"skin_textures_proxy"`
	DefaultSkinPath     string `json:"default_skin_path"`
	EntityCatalogPath   string `json:"entity_catalog_path"`
	ImageLoadWorkers    int    `json:"image_load_workers"`

	// Cache persistente de skins (vazio = apenas memória)
	SkinCachePath string `json:"skin_cache_path"`

	// Câmera
	FOV        float32 `json:"fov"`
	FollowLerp float32 `json:"follow_lerp"`

	// Debug
	ShowDebugInfo   bool `json:"show_debug_info"`
	ShowEntityBoxes bool `json:"show_entity_boxes"`
	ShowGrid        bool `json:"show_grid"`
}

// DefaultConfig retorna a configuração padrão.
func DefaultConfig() *Config {
	return &Config{
		WindowWidth:  1280,
		WindowHeight: 720,
		WindowTitle:  "VoxelView",
		Fullscreen:   false,
		TargetFPS:    60,

		ServerURL: "ws://127.0.0.1:8080/viewer",

		ViewDistance: 6,
		BatchWaitMs:  200,
		SmoothLight:  true,

		ShowUnknownEntities: true,
		LoadPlayerSkins:     true,
		RenderEars:          false,
		SkinLookupURL:       "https://mulv.tycrek.dev/api/lookup?username=%s&type=%s",
		DefaultSkinPath:     "assets/textures/entity/steve.png",
		EntityCatalogPath:   "assets/config/entity_models.yaml",
		ImageLoadWorkers:    4,

		FOV:        75.0,
		FollowLerp: 0.25,

		ShowDebugInfo:   true,
		ShowEntityBoxes: false,
		ShowGrid:        false,
	}
}

// configPath retorna o caminho do arquivo de configuração.
func configPath() string {
	execDir, err := os.Executable()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(filepath.Dir(execDir), "config.json")
}

// Load carrega as configurações de um arquivo JSON.
// Se o arquivo não existir, retorna as configurações padrão.
func Load() *Config {
	return LoadFrom(configPath())
}

// LoadFrom carrega as configurações de um caminho específico.
func LoadFrom(path string) *Config {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return DefaultConfig()
	}

	cfg.normalize()
	return cfg
}

// normalize corrige valores que tornariam o pipeline inválido.
func (c *Config) normalize() {
	if c.BatchWaitMs < 0 {
		c.BatchWaitMs = 0
	}
	if c.ViewDistance < 0 {
		c.ViewDistance = 0
	}
	if c.ImageLoadWorkers <= 0 {
		c.ImageLoadWorkers = 1
	}
}

// Save salva as configurações em um arquivo JSON.
func (c *Config) Save() error {
	return c.SaveTo(configPath())
}

// SaveTo salva as configurações em um caminho específico.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
