package main

import (
	"flag"
	"log"
	"os"
	"runtime"

	"VoxelView/cliente/internal/app"
	"VoxelView/shared/config"
)

// overrides são os valores de linha de comando que vencem o config salvo.
type overrides struct {
	serverURL  string
	configFile string
	logFile    string
	fullscreen bool
	debug      bool
	width      int
	height     int
}

func parseFlags() overrides {
	var o overrides
	flag.StringVar(&o.serverURL, "server", "", "URL da ponte do protocolo (padrão: ws://127.0.0.1:8080/viewer)")
	flag.StringVar(&o.configFile, "config", "", "Arquivo de configuração (padrão: config.json ao lado do executável)")
	flag.StringVar(&o.logFile, "log", "debug_vv.log", "Arquivo de log; vazio escreve no terminal")
	flag.BoolVar(&o.fullscreen, "fullscreen", false, "Abrir o visualizador em tela cheia")
	flag.BoolVar(&o.debug, "debug", false, "Mostrar HUD de chunks e entidades")
	flag.IntVar(&o.width, "width", 0, "Largura da janela")
	flag.IntVar(&o.height, "height", 0, "Altura da janela")
	flag.Parse()
	return o
}

func (o overrides) apply(cfg *config.Config) {
	if o.serverURL != "" {
		cfg.ServerURL = o.serverURL
	}
	if o.fullscreen {
		cfg.Fullscreen = true
	}
	if o.debug {
		cfg.ShowDebugInfo = true
	}
	if o.width > 0 {
		cfg.WindowWidth = int32(o.width)
	}
	if o.height > 0 {
		cfg.WindowHeight = int32(o.height)
	}
}

func openLog(path string) {
	log.SetFlags(log.Ltime | log.Lshortfile)
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("[VoxelView] Log em arquivo indisponível (%s): %v", path, err)
		return
	}
	log.SetOutput(f)
	log.Println("--- SESSÃO DO VISUALIZADOR ---")
}

func main() {
	// Contexto GL e fila de uploads do backend ficam presos a esta thread
	runtime.LockOSThread()

	o := parseFlags()
	openLog(o.logFile)

	log.Println("╔══════════════════════════════════════╗")
	log.Println("║          VoxelView v0.1.0            ║")
	log.Println("║   Visualizador 3D de mundos voxel    ║")
	log.Println("╚══════════════════════════════════════╝")

	var cfg *config.Config
	if o.configFile != "" {
		cfg = config.LoadFrom(o.configFile)
	} else {
		cfg = config.Load()
	}
	o.apply(cfg)

	app.New(cfg).Run()
}
