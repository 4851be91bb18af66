package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Report: ReportConfig{
			Platform: "instagram",
			Format:   FormatMarkdown,
			MaxPosts: 0,
		},
		Storage: StorageConfig{
			Path:              "~/.config/pulse",
			SQLiteFile:        "pulse.db",
			SQLiteJournalMode: "wal",
		},
		Retention: RetentionConfig{
			Days: 90,
		},
		Server: ServerConfig{
			Host:                  "127.0.0.1",
			Port:                  8731,
			MaxRequestSize:        10485760,
			RequestTimeoutSeconds: 30,
			CORSOrigins:           []string{},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
