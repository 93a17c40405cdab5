package config

// Default traversal bounds. The depth ceiling keeps discovery out of
// arbitrarily deep user trees; matched candidates are still summed
// exhaustively below it.
const (
	DefaultMaxDepth   = 8
	DefaultIntervalMS = 100
)

// GetDefault returns the default configuration
func GetDefault() *Config {
	return &Config{
		Scan: ScanConfig{
			MaxDepth: DefaultMaxDepth,
			Workers:  0, // one per CPU
			ExcludePatterns: []string{
				".git",
				".svn",
				".hg",
			},
		},
		Progress: ProgressConfig{
			IntervalMS: DefaultIntervalMS,
		},
		Quarantine: QuarantineConfig{},
	}
}
