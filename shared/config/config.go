package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config armazena as configurações do VoxelTerra.
type Config struct {
	// Janela
	WindowWidth  int32  `json:"window_width"`
	WindowHeight int32  `json:"window_height"`
	WindowTitle  string `json:"window_title"`
	Fullscreen   bool   `json:"fullscreen"`
	TargetFPS    int32  `json:"target_fps"`

	// Mundo
	WorldName string `json:"world_name"`
	WorldSeed string `json:"world_seed"`

	// Streaming de chunks
	ViewingDistance int32 `json:"viewing_distance"`  // Diâmetro da vizinhança ativa, em chunks
	MaxChunkVBOs    int   `json:"max_chunk_vbos"`    // Limite de malhas residentes na GPU
	MaxChunkUpdates int   `json:"max_chunk_updates"` // Limite de reconstruções de malha em voo
	MesherThreads   int   `json:"mesher_threads"`
	CachedChunks    int   `json:"cached_chunks"` // Limite de chunks mantidos na RAM

	// Renderização
	FOV          float32 `json:"fov"`
	DayLengthSec float64 `json:"day_length_sec"` // Duração de um ciclo dia/noite completo

	// Câmera
	CameraSpeed       float32 `json:"camera_speed"`
	CameraSensitivity float32 `json:"camera_sensitivity"`

	// Áudio
	AudioEnabled bool    `json:"audio_enabled"`
	MasterVolume float64 `json:"master_volume"`

	// Telemetria
	TelemetryAddr string `json:"telemetry_addr"` // Endereço do servidor de estatísticas ("" desliga)

	// Debug
	ShowDebugInfo bool `json:"show_debug_info"`
	ShowGrid      bool `json:"show_grid"`
	WireframeMode bool `json:"wireframe_mode"`
}

// DefaultConfig retorna a configuração padrão.
func DefaultConfig() *Config {
	return &Config{
		WindowWidth:  1280,
		WindowHeight: 720,
		WindowTitle:  "VoxelTerra",
		Fullscreen:   false,
		TargetFPS:    60,

		WorldName: "mundo",
		WorldSeed: "voxelterra",

		ViewingDistance: 16,
		MaxChunkVBOs:    196,
		MaxChunkUpdates: 16,
		MesherThreads:   4,
		CachedChunks:    1024,

		FOV:          70.0,
		DayLengthSec: 1200.0,

		CameraSpeed:       12.0,
		CameraSensitivity: 0.25,

		AudioEnabled: true,
		MasterVolume: 0.5,

		TelemetryAddr: "",

		ShowDebugInfo: true,
		ShowGrid:      false,
		WireframeMode: false,
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
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath())
	if err != nil {
		return cfg
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return DefaultConfig()
	}

	return cfg
}

// Save salva as configurações em um arquivo JSON.
func (c *Config) Save() error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(configPath(), data, 0644)
}
