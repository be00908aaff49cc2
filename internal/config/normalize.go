package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCatalog()
	c.normalizeWorkers()
	c.normalizeFFmpeg()
	c.normalizeCache()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCatalog() {
	c.Catalog.GatewayURL = strings.TrimRight(strings.TrimSpace(c.Catalog.GatewayURL), "/")
	if c.Catalog.GatewayURL == "" {
		if value, ok := os.LookupEnv("POOLCONV_GATEWAY_URL"); ok {
			c.Catalog.GatewayURL = strings.TrimRight(strings.TrimSpace(value), "/")
		}
	}
	if c.Catalog.GatewayURL == "" {
		c.Catalog.GatewayURL = defaultGatewayURL
	}
	c.Catalog.APIToken = strings.TrimSpace(c.Catalog.APIToken)
	if c.Catalog.APIToken == "" {
		if value, ok := os.LookupEnv("POOLCONV_GATEWAY_TOKEN"); ok {
			c.Catalog.APIToken = strings.TrimSpace(value)
		}
	}
	if c.Catalog.RequestTimeout <= 0 {
		c.Catalog.RequestTimeout = defaultRequestTimeout
	}
}

func (c *Config) normalizeWorkers() {
	if c.Workers.MaxWorkers <= 0 {
		c.Workers.MaxWorkers = defaultMaxWorkers()
	}
	if c.Workers.BatchSize <= 0 {
		c.Workers.BatchSize = defaultBatchSize
	}
	if c.Workers.PollInterval <= 0 {
		c.Workers.PollInterval = defaultPollInterval
	}
	if c.Workers.BatchTimeout <= 0 {
		c.Workers.BatchTimeout = defaultBatchTimeout
	}
}

func (c *Config) normalizeFFmpeg() {
	c.FFmpeg.Binary = strings.TrimSpace(c.FFmpeg.Binary)
	if c.FFmpeg.Binary == "" {
		c.FFmpeg.Binary = "ffmpeg"
	}
	c.FFmpeg.FFprobeBinary = strings.TrimSpace(c.FFmpeg.FFprobeBinary)
	if c.FFmpeg.FFprobeBinary == "" {
		c.FFmpeg.FFprobeBinary = "ffprobe"
	}
	if c.FFmpeg.Threads < 0 {
		c.FFmpeg.Threads = 0
	}
	c.FFmpeg.Preset = strings.ToLower(strings.TrimSpace(c.FFmpeg.Preset))
	if c.FFmpeg.Preset == "" {
		c.FFmpeg.Preset = defaultPreset
	}
	if c.FFmpeg.ProbeTimeout <= 0 {
		c.FFmpeg.ProbeTimeout = defaultProbeTimeout
	}

	modes := make([]string, 0, len(c.FFmpeg.HWAccelPriority))
	seen := make(map[string]struct{}, len(c.FFmpeg.HWAccelPriority))
	for _, mode := range c.FFmpeg.HWAccelPriority {
		normalized := strings.ToLower(strings.TrimSpace(mode))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		modes = append(modes, normalized)
	}
	if len(modes) == 0 {
		modes = defaultHWAccelPriority()
	}
	c.FFmpeg.HWAccelPriority = modes
}

func (c *Config) normalizeCache() {
	if c.Cache.CodecCacheSize <= 0 {
		c.Cache.CodecCacheSize = defaultCacheSize
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
