package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents runtime configuration for the service.
type Config struct {
	BasicConfig BasicConfig               `json:"basic_config"`
	Databases   map[string]DatabaseConfig `json:"databases"`
	Redis       RedisConfig               `json:"redis"`
	Canvas      CanvasConfig              `json:"canvas"`
	Generation  GenerationConfig          `json:"generation"`
}

type BasicConfig struct {
	ServerAddress string `json:"server_address"`
	// SessionStore selects the session backend: sqlite3, mysql, redis,
	// or memory. Defaults to sqlite3.
	SessionStore string `json:"session_store"`
	// DataDir holds video artifacts, generated images, and the sqlite
	// database. Resolved relative to the config file when not absolute.
	DataDir string `json:"data_dir"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Username string `json:"username"`
	Password string `json:"password"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	DBName   string `json:"db_name"`
	Params   string `json:"params"`
}

type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

type CanvasConfig struct {
	// ImageSize is the square frame edge in pixels for every rendered
	// image and video artifact.
	ImageSize int `json:"image_size"`
	// FrameRate of the single-frame looping videos.
	FrameRate int `json:"frame_rate"`
	// CooldownSeconds gates generation requests and duplicate letter
	// input. A non-positive value disables the cooldown; leaving it
	// unset applies the default. Pointer so an explicit 0 survives.
	CooldownSeconds *float64 `json:"cooldown_seconds"`
	// FontSize in points for sentence rendering.
	FontSize float64 `json:"font_size"`
}

type GenerationConfig struct {
	// URL of the text-to-image endpoint.
	URL string `json:"url"`
	// TimeoutSeconds bounds a single generation call; 0 means no timeout.
	TimeoutSeconds int `json:"timeout_seconds"`
}

const (
	defaultImageSize       = 1024
	defaultFrameRate       = 1
	defaultCooldownSeconds = 0.4
	defaultFontSize        = 64
	defaultGenerationURL   = "https://api.stability.ai/v1/generation/stable-diffusion-xl-1024-v1-0/text-to-image"
)

// Load reads configuration from the provided path (defaults to config.json)
// and fills in defaults for everything the file leaves unset.
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.json"
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", absPath, err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.BasicConfig.SessionStore == "" {
		cfg.BasicConfig.SessionStore = "sqlite3"
	}
	if cfg.BasicConfig.DataDir == "" {
		cfg.BasicConfig.DataDir = "data"
	}
	if !filepath.IsAbs(cfg.BasicConfig.DataDir) {
		cfg.BasicConfig.DataDir = filepath.Join(filepath.Dir(absPath), cfg.BasicConfig.DataDir)
	}
	if cfg.Canvas.ImageSize <= 0 {
		cfg.Canvas.ImageSize = defaultImageSize
	}
	if cfg.Canvas.FrameRate <= 0 {
		cfg.Canvas.FrameRate = defaultFrameRate
	}
	if cfg.Canvas.CooldownSeconds == nil {
		cooldown := float64(defaultCooldownSeconds)
		cfg.Canvas.CooldownSeconds = &cooldown
	}
	if cfg.Canvas.FontSize <= 0 {
		cfg.Canvas.FontSize = defaultFontSize
	}
	if cfg.Generation.URL == "" {
		cfg.Generation.URL = defaultGenerationURL
	}

	return &cfg, nil
}
