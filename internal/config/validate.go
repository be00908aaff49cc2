package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var knownHWAccelModes = map[string]struct{}{
	"cuda":  {},
	"vaapi": {},
	"qsv":   {},
	"none":  {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateWorkers(); err != nil {
		return err
	}
	if err := c.validateFFmpeg(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if !c.Catalog.ReplaceInMediaPool {
		return nil
	}
	if strings.TrimSpace(c.Catalog.GatewayURL) == "" {
		return errors.New("catalog.gateway_url must be set when catalog.replace_in_media_pool is true")
	}
	parsed, err := url.Parse(c.Catalog.GatewayURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("catalog.gateway_url %q is not a valid URL", c.Catalog.GatewayURL)
	}
	if c.Catalog.RequestTimeout <= 0 {
		return errors.New("catalog.request_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateWorkers() error {
	return ensurePositiveMap(map[string]int{
		"workers.max_workers":   c.Workers.MaxWorkers,
		"workers.batch_size":    c.Workers.BatchSize,
		"workers.poll_interval": c.Workers.PollInterval,
		"workers.batch_timeout": c.Workers.BatchTimeout,
	})
}

func (c *Config) validateFFmpeg() error {
	if strings.TrimSpace(c.FFmpeg.Binary) == "" {
		return errors.New("ffmpeg.binary must be set")
	}
	if strings.TrimSpace(c.FFmpeg.FFprobeBinary) == "" {
		return errors.New("ffmpeg.ffprobe_binary must be set")
	}
	if c.FFmpeg.Threads < 0 {
		return errors.New("ffmpeg.threads must be >= 0 (0 lets ffmpeg choose)")
	}
	if c.FFmpeg.ProbeTimeout <= 0 {
		return errors.New("ffmpeg.probe_timeout must be positive (seconds)")
	}
	if len(c.FFmpeg.HWAccelPriority) == 0 {
		return errors.New("ffmpeg.hwaccel_priority must include at least one mode")
	}
	for _, mode := range c.FFmpeg.HWAccelPriority {
		if _, ok := knownHWAccelModes[mode]; !ok {
			return fmt.Errorf("ffmpeg.hwaccel_priority contains unknown mode %q (known: cuda, vaapi, qsv, none)", mode)
		}
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.CodecCacheSize < 1 {
		return errors.New("cache.codec_cache_size must be >= 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("logging.format %q is not supported (auto, console, json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not supported (debug, info, warn, error)", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
