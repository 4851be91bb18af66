package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// EnvFiles are loaded, when present, before PULSE_* variables are read.
var EnvFiles = []string{".env", ".env.local"}

// LoadEnv loads variables from the given dotenv files into the process
// environment. Missing files are skipped; later files override earlier ones.
func LoadEnv(logger logrus.FieldLogger, files ...string) []string {
	loaded := make([]string, 0, len(files))
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Overload(file); err != nil {
			if logger != nil {
				logger.WithError(err).Warnf("Failed to load %s", file)
			}
			continue
		}
		loaded = append(loaded, file)
	}
	if logger != nil {
		if len(loaded) == 0 {
			logger.Debug("No local env files loaded; relying on process environment")
		} else {
			logger.Debugf("Loaded env files: %s", strings.Join(loaded, ", "))
		}
	}
	return loaded
}

// ApplyEnv overlays PULSE_* environment variables onto cfg. Unparseable
// numeric values are ignored and the file value kept.
func ApplyEnv(cfg *Config) {
	cfg.Report.Platform = GetEnv("PULSE_PLATFORM", cfg.Report.Platform)
	cfg.Report.Format = strings.ToLower(GetEnv("PULSE_FORMAT", cfg.Report.Format))
	cfg.Report.MaxPosts = GetEnvInt("PULSE_MAX_POSTS", cfg.Report.MaxPosts)
	cfg.Storage.Path = GetEnv("PULSE_STORAGE_PATH", cfg.Storage.Path)
	cfg.Storage.SQLiteFile = GetEnv("PULSE_SQLITE_FILE", cfg.Storage.SQLiteFile)
	cfg.Retention.Days = GetEnvInt("PULSE_RETENTION_DAYS", cfg.Retention.Days)
	cfg.Server.Host = GetEnv("PULSE_HOST", cfg.Server.Host)
	cfg.Server.Port = GetEnvInt("PULSE_PORT", cfg.Server.Port)
	cfg.Logging.Level = GetEnv("PULSE_LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = GetEnv("PULSE_LOG_FORMAT", cfg.Logging.Format)

	if origins := os.Getenv("PULSE_CORS_ORIGINS"); origins != "" {
		cfg.Server.CORSOrigins = splitList(origins)
	}
}

// GetEnv gets an environment variable with a default value.
func GetEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt gets an integer environment variable with a default value.
func GetEnvInt(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
