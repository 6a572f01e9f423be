// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for all match and runner settings.
//
// IMPORTANT: When changing values, only modify this file.
// All other parts of the codebase should reference these values.
package config

import (
	"os"
	"strconv"
	"time"
)

// =============================================================================
// GRID CONFIGURATION
// =============================================================================

// GridConfig holds the World Model's grid layout settings.
type GridConfig struct {
	Size    int    // N, the side length of the square grid
	MapType string // "Rect" or "Circle"
}

// DefaultGrid returns the default grid configuration.
func DefaultGrid() GridConfig {
	return GridConfig{
		Size:    19,
		MapType: "Circle",
	}
}

// GridFromEnv returns grid configuration with environment variable overrides.
func GridFromEnv() GridConfig {
	cfg := DefaultGrid()

	if n := getEnvInt("BATTLEGRID_SIZE", 0); n > 0 {
		cfg.Size = n
	}
	if mt := os.Getenv("BATTLEGRID_MAP_TYPE"); mt != "" {
		cfg.MapType = mt
	}

	return cfg
}

// =============================================================================
// MATCH CONFIGURATION
// =============================================================================

// MatchConfig holds the Match Driver's per-match settings.
type MatchConfig struct {
	MaxTurn          int
	GameMode         string // "Normal" or "NormalHeal"
	Seed             string
	DevMode          bool
	InitialUnitNum   int
	RecurrentUnitNum int
	SpawnEvery       int
}

// DefaultMatch returns the default match configuration.
func DefaultMatch() MatchConfig {
	return MatchConfig{
		MaxTurn:          100,
		GameMode:         "Normal",
		Seed:             "",
		DevMode:          false,
		InitialUnitNum:   6,
		RecurrentUnitNum: 2,
		SpawnEvery:       10,
	}
}

// MatchFromEnv returns match configuration with environment variable overrides.
func MatchFromEnv() MatchConfig {
	cfg := DefaultMatch()

	if mt := getEnvInt("BATTLEGRID_MAX_TURN", 0); mt > 0 {
		cfg.MaxTurn = mt
	}
	if gm := os.Getenv("BATTLEGRID_GAME_MODE"); gm != "" {
		cfg.GameMode = gm
	}
	if s := os.Getenv("BATTLEGRID_SEED"); s != "" {
		cfg.Seed = s
	}
	if os.Getenv("BATTLEGRID_DEV_MODE") == "true" {
		cfg.DevMode = true
	}
	if n := getEnvInt("BATTLEGRID_INITIAL_UNITS", -1); n >= 0 {
		cfg.InitialUnitNum = n
	}
	if n := getEnvInt("BATTLEGRID_RECURRENT_UNITS", -1); n >= 0 {
		cfg.RecurrentUnitNum = n
	}
	if n := getEnvInt("BATTLEGRID_SPAWN_EVERY", -1); n >= 0 {
		cfg.SpawnEvery = n
	}

	return cfg
}

// =============================================================================
// RUNNER CONFIGURATION
// =============================================================================

// RunnerConfig holds the Runner Harness's bounded-execution settings.
type RunnerConfig struct {
	TurnTimeout     time.Duration // per-turn deadline before Timeout fires
	LogLinesPerTurn int           // log-line token-bucket size; not passed to runners (cmd/battlegrid starts them with the runner package default of 256)
}

// DefaultRunner returns the default runner configuration.
func DefaultRunner() RunnerConfig {
	return RunnerConfig{
		TurnTimeout:     5 * time.Second,
		LogLinesPerTurn: 256,
	}
}

// RunnerFromEnv returns runner configuration with environment variable overrides.
func RunnerFromEnv() RunnerConfig {
	cfg := DefaultRunner()

	if ms := getEnvInt("BATTLEGRID_TURN_TIMEOUT_MS", 0); ms > 0 {
		cfg.TurnTimeout = time.Duration(ms) * time.Millisecond
	}
	if n := getEnvInt("BATTLEGRID_LOG_LINES_PER_TURN", 0); n > 0 {
		cfg.LogLinesPerTurn = n
	}

	return cfg
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds the out-of-scope dispatch surface's HTTP settings
// (internal/api — kept minimal per spec.md §1's "thin plumbing").
type ServerConfig struct {
	Addr string
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Addr: ":8089",
	}
}

// ServerFromEnv returns server configuration with environment variable overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if addr := os.Getenv("BATTLEGRID_ADDR"); addr != "" {
		cfg.Addr = addr
	}

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Grid   GridConfig
	Match  MatchConfig
	Runner RunnerConfig
	Server ServerConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Grid:   GridFromEnv(),
		Match:  MatchFromEnv(),
		Runner: RunnerFromEnv(),
		Server: ServerFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}
