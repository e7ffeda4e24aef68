package config

import "path/filepath"

const (
	defaultConfigPath       = "~/.config/pulseqr/config.toml"
	defaultOutputFile       = "pulse.json5"
	defaultMaxInflatedBytes = 1 << 20
	defaultScanWorkers      = 4
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 30
	maxScanWorkers          = 64
)

var defaultScanExtensions = []string{".jpg", ".jpeg", ".png"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	dataDir := defaultDataDir()
	return Config{
		Paths: Paths{
			LibraryDB:  filepath.Join(dataDir, "library.db"),
			LogDir:     filepath.Join(dataDir, "logs"),
			OutputFile: defaultOutputFile,
		},
		Decode: Decode{
			MaxInflatedBytes: defaultMaxInflatedBytes,
		},
		Scan: Scan{
			Extensions:         append([]string(nil), defaultScanExtensions...),
			Workers:            defaultScanWorkers,
			TryHarder:          true,
			StripNumericPrefix: true,
		},
		Library: Library{
			Enabled: true,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
