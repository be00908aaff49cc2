package config

import "runtime"

const (
	defaultOutputDir      = "~/.local/share/poolconv/converted"
	defaultLogDir         = "~/.local/share/poolconv/logs"
	defaultGatewayURL     = "http://127.0.0.1:7893"
	defaultRequestTimeout = 10
	defaultBatchSize      = 5
	defaultPollInterval   = 1
	defaultBatchTimeout   = 300
	defaultPreset         = "medium"
	defaultProbeTimeout   = 5
	defaultCacheSize      = 500
	defaultLogFormat      = "auto"
	defaultLogLevel       = "info"

	// maxAutoWorkers caps the derived worker count so the pool does not
	// oversubscribe ffmpeg's own internal threading.
	maxAutoWorkers = 8
)

func defaultHWAccelPriority() []string {
	return []string{"cuda", "vaapi", "qsv", "none"}
}

func defaultMaxWorkers() int {
	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 4
	}
	if workers > maxAutoWorkers {
		workers = maxAutoWorkers
	}
	return workers
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Catalog: Catalog{
			GatewayURL:         defaultGatewayURL,
			RequestTimeout:     defaultRequestTimeout,
			ReplaceInMediaPool: true,
		},
		Workers: Workers{
			MaxWorkers:   defaultMaxWorkers(),
			BatchSize:    defaultBatchSize,
			PollInterval: defaultPollInterval,
			BatchTimeout: defaultBatchTimeout,
		},
		FFmpeg: FFmpeg{
			Binary:          "ffmpeg",
			FFprobeBinary:   "ffprobe",
			Threads:         0,
			Preset:          defaultPreset,
			HWAccelPriority: defaultHWAccelPriority(),
			ProbeTimeout:    defaultProbeTimeout,
		},
		Cache: Cache{
			CodecCacheSize:       defaultCacheSize,
			SkipAlreadyProcessed: true,
		},
		Ledger: Ledger{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
