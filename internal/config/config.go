package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
}

// Catalog contains configuration for the media-pool gateway connection.
type Catalog struct {
	GatewayURL         string `toml:"gateway_url"`
	APIToken           string `toml:"api_token"`
	RequestTimeout     int    `toml:"request_timeout"`
	ReplaceInMediaPool bool   `toml:"replace_in_media_pool"`
}

// Workers contains scheduling and concurrency configuration.
type Workers struct {
	MaxWorkers   int `toml:"max_workers"`
	BatchSize    int `toml:"batch_size"`
	PollInterval int `toml:"poll_interval"`
	BatchTimeout int `toml:"batch_timeout"`
}

// FFmpeg contains external encoder and prober configuration.
type FFmpeg struct {
	Binary          string   `toml:"binary"`
	FFprobeBinary   string   `toml:"ffprobe_binary"`
	Threads         int      `toml:"threads"`
	Preset          string   `toml:"preset"`
	HWAccelPriority []string `toml:"hwaccel_priority"`
	ProbeTimeout    int      `toml:"probe_timeout"`
}

// Cache contains codec-probe cache and dedup configuration.
type Cache struct {
	CodecCacheSize       int  `toml:"codec_cache_size"`
	SkipAlreadyProcessed bool `toml:"skip_already_processed"`
}

// Ledger contains conversion-history database configuration.
type Ledger struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for poolconv.
//
// Configuration sections by subsystem:
//   - Paths: converted-output and log directories
//   - Catalog: media-pool gateway URL, token, and replace behavior
//   - Workers: worker-pool bounds and poll/batch timing
//   - FFmpeg: encoder/prober binaries, preset, hardware acceleration priority
//   - Cache: codec cache capacity and processed-set skip toggle
//   - Ledger: conversion history persistence
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Catalog Catalog `toml:"catalog"`
	Workers Workers `toml:"workers"`
	FFmpeg  FFmpeg  `toml:"ffmpeg"`
	Cache   Cache   `toml:"cache"`
	Ledger  Ledger  `toml:"ledger"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/poolconv/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("poolconv.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the daemon writes to.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the encoder executable name.
func (c *Config) FFmpegBinary() string {
	if strings.TrimSpace(c.FFmpeg.Binary) == "" {
		return "ffmpeg"
	}
	return c.FFmpeg.Binary
}

// FFprobeBinary returns the prober executable name.
func (c *Config) FFprobeBinary() string {
	if strings.TrimSpace(c.FFmpeg.FFprobeBinary) == "" {
		return "ffprobe"
	}
	return c.FFmpeg.FFprobeBinary
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
