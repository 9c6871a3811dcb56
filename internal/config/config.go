package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// Config is the root configuration for horaextra, stored as YAML under the
// XDG config directory.
type Config struct {
	Extraction ExtractionConfig `mapstructure:"extraction"`
	Export     ExportConfig     `mapstructure:"export"`
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Notify     NotifyConfig     `mapstructure:"notify"`
}

// ExtractionConfig holds the AI service settings.
type ExtractionConfig struct {
	APIKey string `mapstructure:"api_key"`
	// Backend is "gemini" (API key) or "vertex" (application default credentials).
	Backend  string `mapstructure:"backend"`
	Model    string `mapstructure:"model"`
	Project  string `mapstructure:"project"`
	Location string `mapstructure:"location"`
	// Timeout bounds one extraction call. Zero means no limit.
	Timeout time.Duration `mapstructure:"timeout"`
}

// ExportConfig controls where exports are written.
type ExportConfig struct {
	Dir        string `mapstructure:"dir"`
	Prefix     string `mapstructure:"prefix"`
	S3Bucket   string `mapstructure:"s3_bucket"`
	S3Prefix   string `mapstructure:"s3_prefix"`
	S3Region   string `mapstructure:"s3_region"`
	S3Endpoint string `mapstructure:"s3_endpoint"`
}

type ServerConfig struct {
	Addr        string `mapstructure:"addr"`
	MaxUploadMB int    `mapstructure:"max_upload_mb"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type NotifyConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

const (
	keyAPIKey      = "extraction.api_key"
	keyBackend     = "extraction.backend"
	keyModel       = "extraction.model"
	keyProject     = "extraction.project"
	keyLocation    = "extraction.location"
	keyTimeout     = "extraction.timeout"
	keyExportDir   = "export.dir"
	keyPrefix      = "export.prefix"
	keyS3Bucket    = "export.s3_bucket"
	keyS3Prefix    = "export.s3_prefix"
	keyS3Region    = "export.s3_region"
	keyS3Endpoint  = "export.s3_endpoint"
	keyAddr        = "server.addr"
	keyMaxUpload   = "server.max_upload_mb"
	keyLogLevel    = "log.level"
	keyLogFile     = "log.file"
	keyLogSize     = "log.max_size_mb"
	keyLogBackups  = "log.max_backups"
	keyLogAge      = "log.max_age_days"
	keyNotify      = "notify.enabled"
	envPrefix      = "HORAEXTRA"
	appDir         = "horaextra"
	configFileName = "config.yaml"
)

const (
	DefaultBackend   = "gemini"
	DefaultModel     = "gemini-2.5-flash"
	DefaultLocation  = "us-central1"
	DefaultPrefix    = "mendonca-galvao"
	DefaultAddr      = ":8080"
	DefaultMaxUpload = 32
)

// configTemplate is the annotated config written on first run.
const configTemplate = `# horaextra configuration
#
# Every setting is optional. Environment variables override the file:
# HORAEXTRA_<SECTION>_<KEY>, e.g. HORAEXTRA_EXTRACTION_MODEL.

extraction:
  # API key for the Gemini API. GEMINI_API_KEY and API_KEY are also read.
  api_key: ""
  # "gemini" uses the API key, "vertex" uses application default credentials.
  backend: gemini
  model: gemini-2.5-flash
  # Vertex AI only.
  project: ""
  location: us-central1
  # Upper bound for one extraction call, e.g. 90s. 0 waits indefinitely.
  timeout: 0s

export:
  # Directory for exported files.
  dir: .
  # Exported files are named <prefix>_export_<YYYY-MM-DD>.<ext>.
  prefix: mendonca-galvao
  # When s3_bucket is set, exports are uploaded instead of written to dir.
  s3_bucket: ""
  s3_prefix: ""
  s3_region: ""
  # Custom endpoint, e.g. http://localhost:4566 for LocalStack.
  s3_endpoint: ""

server:
  addr: ":8080"
  max_upload_mb: 32

log:
  # trace, debug, info, warn, error
  level: info
  # JSON log file, rotated by size. Empty uses the XDG state directory.
  file: ""
  max_size_mb: 10
  max_backups: 3
  max_age_days: 28

notify:
  # Desktop notification when a batch finishes.
  enabled: false
`

// DefaultPath returns $XDG_CONFIG_HOME/horaextra/config.yaml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appDir, configFileName)
}

// DefaultLogFile returns $XDG_STATE_HOME/horaextra/horaextra.log.
func DefaultLogFile() string {
	return filepath.Join(xdg.StateHome, appDir, "horaextra.log")
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault(keyAPIKey, "")
	v.SetDefault(keyBackend, DefaultBackend)
	v.SetDefault(keyModel, DefaultModel)
	v.SetDefault(keyProject, "")
	v.SetDefault(keyLocation, DefaultLocation)
	v.SetDefault(keyTimeout, "0s")
	v.SetDefault(keyExportDir, ".")
	v.SetDefault(keyPrefix, DefaultPrefix)
	v.SetDefault(keyS3Bucket, "")
	v.SetDefault(keyS3Prefix, "")
	v.SetDefault(keyS3Region, "")
	v.SetDefault(keyS3Endpoint, "")
	v.SetDefault(keyAddr, DefaultAddr)
	v.SetDefault(keyMaxUpload, DefaultMaxUpload)
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyLogFile, "")
	v.SetDefault(keyLogSize, 10)
	v.SetDefault(keyLogBackups, 3)
	v.SetDefault(keyLogAge, 28)
	v.SetDefault(keyNotify, false)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The key is commonly exported under the service's own names.
	_ = v.BindEnv(keyAPIKey, "HORAEXTRA_EXTRACTION_API_KEY", "GEMINI_API_KEY", "API_KEY")
	return v
}

// Load reads the config file at path (DefaultPath when empty), creating it
// with annotated defaults on first run. Environment variables take precedence
// over the file.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	v := newViper(path)

	err := v.ReadInConfig()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err != nil {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}
	if cfg.Log.File == "" {
		cfg.Log.File = DefaultLogFile()
	}
	return cfg, nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

// Setting is one effective configuration value.
type Setting struct {
	Key   string
	Value string
}

// Settings lists the effective configuration with the API key masked.
func (c Config) Settings() []Setting {
	return []Setting{
		{keyAPIKey, MaskSecret(c.Extraction.APIKey)},
		{keyBackend, c.Extraction.Backend},
		{keyModel, c.Extraction.Model},
		{keyProject, c.Extraction.Project},
		{keyLocation, c.Extraction.Location},
		{keyTimeout, c.Extraction.Timeout.String()},
		{keyExportDir, c.Export.Dir},
		{keyPrefix, c.Export.Prefix},
		{keyS3Bucket, c.Export.S3Bucket},
		{keyS3Prefix, c.Export.S3Prefix},
		{keyS3Region, c.Export.S3Region},
		{keyS3Endpoint, c.Export.S3Endpoint},
		{keyAddr, c.Server.Addr},
		{keyMaxUpload, fmt.Sprint(c.Server.MaxUploadMB)},
		{keyLogLevel, c.Log.Level},
		{keyLogFile, c.Log.File},
		{keyLogSize, fmt.Sprint(c.Log.MaxSizeMB)},
		{keyLogBackups, fmt.Sprint(c.Log.MaxBackups)},
		{keyLogAge, fmt.Sprint(c.Log.MaxAgeDays)},
		{keyNotify, fmt.Sprint(c.Notify.Enabled)},
	}
}

// MaskSecret hides all but the last four characters of s.
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
