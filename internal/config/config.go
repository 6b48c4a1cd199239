package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mrlokans/highlights-vault/internal/apperr"
	"github.com/mrlokans/highlights-vault/internal/exporters"
	"github.com/mrlokans/highlights-vault/internal/scheduler"
	"github.com/mrlokans/highlights-vault/internal/templating"
)

type (
	Config struct {
		Input
		Vault
		Layout
		Properties
		Ledger
		Audit
		Schedule
		Log
	}

	Input struct {
		FileName string
	}
	Vault struct {
		Path              string
		SanitizeFileNames bool
	}
	Layout struct {
		BookPath         string
		ChapterPath      string
		HighlightsPath   string
		MindMapPath      string
		GeneratedMindMap bool
		UsingHeadings    bool
	}
	// Properties keep their declared key order, see templating.Properties.
	Properties struct {
		Book      templating.Properties `yaml:"book" json:"book"`
		Chapter   templating.Properties `yaml:"chapter" json:"chapter"`
		Highlight templating.Properties `yaml:"highlight" json:"highlight"`
		MindMap   templating.Properties `yaml:"mindMap" json:"mindMap"`
	}
	Ledger struct {
		DatabasePath string // Empty disables the generation ledger
	}
	Audit struct {
		Dir string // Empty disables JSON run reports
	}
	Schedule struct {
		Spec string // Cron format: "0 * * * *" = hourly
	}
	Log struct {
		Level string
	}
)

var scalarKeys = map[string]string{
	"fileName":          "HV_FILE_NAME",
	"vaultPath":         "HV_VAULT_PATH",
	"sanitizeFileNames": "HV_SANITIZE_FILE_NAMES",
	"bookPath":          "HV_BOOK_PATH",
	"chapterPath":       "HV_CHAPTER_PATH",
	"highlightsPath":    "HV_HIGHLIGHTS_PATH",
	"mindMapPath":       "HV_MIND_MAP_PATH",
	"generatedMindMap":  "HV_GENERATED_MIND_MAP",
	"usingHeadings":     "HV_USING_HEADINGS",
	"databasePath":      "HV_DATABASE_PATH",
	"auditDir":          "HV_AUDIT_DIR",
	"schedule":          "HV_SCHEDULE",
	"logLevel":          "HV_LOG_LEVEL",
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	for key, env := range scalarKeys {
		_ = v.BindEnv(key, env)
	}
	v.SetDefault("fileName", DefaultInputFile)
	v.SetDefault("vaultPath", DefaultVaultPath)
	v.SetDefault("sanitizeFileNames", false)
	v.SetDefault("generatedMindMap", false)
	v.SetDefault("usingHeadings", false)
	v.SetDefault("schedule", DefaultSchedule)
	v.SetDefault("logLevel", DefaultLogLevel)
	return v
}

// NewDefaultConfig returns a config built from defaults and environment
// variables only.
func NewDefaultConfig() *Config {
	return fromViper(newViper())
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Input: Input{
			FileName: v.GetString("fileName"),
		},
		Vault: Vault{
			Path:              v.GetString("vaultPath"),
			SanitizeFileNames: v.GetBool("sanitizeFileNames"),
		},
		Layout: Layout{
			BookPath:         v.GetString("bookPath"),
			ChapterPath:      v.GetString("chapterPath"),
			HighlightsPath:   v.GetString("highlightsPath"),
			MindMapPath:      v.GetString("mindMapPath"),
			GeneratedMindMap: v.GetBool("generatedMindMap"),
			UsingHeadings:    v.GetBool("usingHeadings"),
		},
		Ledger: Ledger{
			DatabasePath: v.GetString("databasePath"),
		},
		Audit: Audit{
			Dir: v.GetString("auditDir"),
		},
		Schedule: Schedule{
			Spec: v.GetString("schedule"),
		},
		Log: Log{
			Level: strings.ToLower(v.GetString("logLevel")),
		},
	}
}

// Load reads a JSON or YAML config file, applies environment overrides to
// scalar options and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.NewIOError("read config file", path, err)
	}
	return Parse(data, configType(path))
}

// Parse decodes config content of the given type ("json" or "yaml").
func Parse(data []byte, configType string) (*Config, error) {
	v := newViper()
	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, apperr.NewConfigurationError("invalid config file", err)
	}
	cfg := fromViper(v)

	// viper lower-cases and reorders map keys, so properties are decoded
	// separately by order-preserving decoders.
	var raw struct {
		Properties Properties `yaml:"properties" json:"properties"`
	}
	var err error
	if configType == "json" {
		err = json.Unmarshal(data, &raw)
	} else {
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, apperr.NewConfigurationError("invalid properties", err)
	}
	cfg.Properties = raw.Properties

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func configType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

// Validate checks required options and reports failures as a
// ConfigurationError.
func (c *Config) Validate() error {
	err := validation.Errors{
		"bookPath":       validation.Validate(c.BookPath, validation.Required),
		"chapterPath":    validation.Validate(c.ChapterPath, validation.Required),
		"highlightsPath": validation.Validate(c.HighlightsPath, validation.Required),
		"mindMapPath": validation.Validate(c.MindMapPath,
			validation.When(c.GeneratedMindMap, validation.Required.Error("is required when generatedMindMap is enabled"))),
		"vaultPath": validation.Validate(c.Vault.Path, validation.Required),
		"logLevel":  validation.Validate(c.Log.Level, validation.In("debug", "info", "warn", "error")),
		"schedule":  validation.Validate(c.Spec, validation.By(validateCronSchedule)),
	}.Filter()
	if err != nil {
		return apperr.NewConfigurationError("invalid configuration", err)
	}
	return nil
}

func validateCronSchedule(value interface{}) error {
	spec, _ := value.(string)
	if spec == "" {
		return nil
	}
	if err := scheduler.ValidateSchedule(spec); err != nil {
		return fmt.Errorf("invalid cron schedule: %w", err)
	}
	return nil
}

// SlogLevel maps the configured level name to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// ExportLayout returns the rendering layout consumed by exporters.
func (c *Config) ExportLayout() exporters.Layout {
	return exporters.Layout{
		BookPath:        c.BookPath,
		ChapterPath:     c.ChapterPath,
		HighlightsPath:  c.HighlightsPath,
		MindMapPath:     c.MindMapPath,
		GenerateMindMap: c.GeneratedMindMap,
		UsingHeadings:   c.UsingHeadings,
		Properties: exporters.PropertySet{
			Book:      c.Properties.Book,
			Chapter:   c.Properties.Chapter,
			Highlight: c.Properties.Highlight,
			MindMap:   c.Properties.MindMap,
		},
	}
}
