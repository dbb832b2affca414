package main

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// Cores para o terminal (ANSI)
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
)

// target é um binário do projeto.
type target struct {
	name    string
	pkg     string
	output  string
	ldflags []string
}

func targets() []target {
	ext := ""
	gui := ""
	if runtime.GOOS == "windows" {
		ext = ".exe"
		gui = "-H=windowsgui"
	}
	return []target{
		{
			name:    "CLIENTE (CGO + raylib)",
			pkg:     "./cliente",
			output:  "cliente/voxelview" + ext,
			ldflags: []string{"-s", "-w", gui},
		},
	}
}

func main() {
	fmt.Println(ColorCyan + "╔══════════════════════════════════════╗" + ColorReset)
	fmt.Println(ColorCyan + "║         VoxelView Builder            ║" + ColorReset)
	fmt.Println(ColorCyan + "╚══════════════════════════════════════╝" + ColorReset)

	start := time.Now()
	setupEnvironment()

	skipTests := len(os.Args) > 1 && os.Args[1] == "-notest"
	if !skipTests {
		if err := run("TESTES", "test", "./cliente/...", "./shared/..."); err != nil {
			fatal(err)
		}
	}

	for _, t := range targets() {
		if err := build(t); err != nil {
			fatal(err)
		}
	}

	fmt.Printf("\n"+ColorCyan+"Build finalizada com sucesso em %v!"+ColorReset+"\n", time.Since(start).Round(time.Second))
}

func setupEnvironment() {
	fmt.Println(ColorYellow + "\n[0] Configurando ambiente de compilação..." + ColorReset)
	os.Setenv("CGO_ENABLED", "1")

	// MSYS2 fornece o gcc exigido pelo raylib no Windows
	if runtime.GOOS == "windows" {
		msysPath := `C:\msys64\mingw64\bin`
		currentPath := os.Getenv("PATH")
		if !strings.Contains(currentPath, msysPath) {
			os.Setenv("PATH", msysPath+";"+currentPath)
			fmt.Printf("  - PATH atualizado: %s adicionado.\n", msysPath)
		}
		os.Setenv("CC", "gcc")
	}
}

func build(t target) error {
	flags := strings.Join(strings.Fields(strings.Join(t.ldflags, " ")), " ")
	if err := run(t.name, "build", "-ldflags", flags, "-o", t.output, t.pkg); err != nil {
		return err
	}
	fmt.Printf(ColorGreen+"  - %s -> %s"+ColorReset+"\n", t.name, t.output)
	return nil
}

func run(label string, args ...string) error {
	fmt.Printf(ColorYellow+"\n[+] %s: go %s"+ColorReset+"\n", label, strings.Join(args, " "))
	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("falha em %s: %w", label, err)
	}
	return nil
}

func fatal(err error) {
	fmt.Printf("\n"+ColorRed+"[ERRO FATAL] %v"+ColorReset+"\n", err)
	os.Exit(1)
}
