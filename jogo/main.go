package main

import (
	"flag"
	"log"
	"runtime"

	"VoxelTerra/jogo/internal/app"
	"VoxelTerra/shared/config"
)

func main() {
	// Raylib/OpenGL exige rodar na thread principal do SO.
	runtime.LockOSThread()

	fullscreen := flag.Bool("fullscreen", false, "Iniciar em tela cheia")
	debug := flag.Bool("debug", false, "Mostrar informações de debug")
	worldName := flag.String("mundo", "", "Nome do mundo a carregar")
	seed := flag.String("seed", "", "Semente de geração do terreno")
	telemetry := flag.String("telemetria", "", "Endereço do servidor de estatísticas (ex.: localhost:8090)")
	width := flag.Int("width", 0, "Largura da janela")
	height := flag.Int("height", 0, "Altura da janela")
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lshortfile)
	log.Println("=== VoxelTerra v0.1.0 ===")

	cfg := config.Load()

	// Flags de linha de comando sobrescrevem o config salvo.
	if *fullscreen {
		cfg.Fullscreen = true
	}
	if *debug {
		cfg.ShowDebugInfo = true
	}
	if *worldName != "" {
		cfg.WorldName = *worldName
	}
	if *seed != "" {
		cfg.WorldSeed = *seed
	}
	if *telemetry != "" {
		cfg.TelemetryAddr = *telemetry
	}
	if *width > 0 {
		cfg.WindowWidth = int32(*width)
	}
	if *height > 0 {
		cfg.WindowHeight = int32(*height)
	}

	application := app.New(cfg)
	application.Run()
}
