package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/tmfelwu/obsidian-file-rename/pkg/types"
	"gopkg.in/yaml.v3"
)

const DefaultDateFormat = "YYYY-MM-DD"

// Settings is the rename configuration. A snapshot is taken at the start of
// each invocation.
type Settings struct {
	DateFormat         string                 `yaml:"date_format" json:"dateFormat"`
	Separator          string                 `yaml:"separator" json:"separator"`
	AvoidDuplicateDate bool                   `yaml:"avoid_duplicate_date" json:"avoidDuplicateDate"`
	Position           types.Position         `yaml:"position" json:"position"`
	DateSource         types.DateSource       `yaml:"date_source" json:"dateSource"`
	ConflictStrategy   types.ConflictStrategy `yaml:"conflict_strategy" json:"conflictStrategy"`
	MarkdownOnly       bool                   `yaml:"markdown_only" json:"markdownOnly"`
}

func DefaultSettings() Settings {
	return Settings{
		DateFormat:         DefaultDateFormat,
		Separator:          " ",
		AvoidDuplicateDate: true,
		Position:           types.PositionPrepend,
		DateSource:         types.DateSourceNow,
		ConflictStrategy:   types.ConflictAppendCounter,
		MarkdownOnly:       true,
	}
}

// Partial holds only the options that were explicitly set. It is what gets
// read from persisted settings, config files and update requests.
type Partial struct {
	DateFormat         *string                 `yaml:"date_format,omitempty" json:"dateFormat,omitempty"`
	Separator          *string                 `yaml:"separator,omitempty" json:"separator,omitempty"`
	AvoidDuplicateDate *bool                   `yaml:"avoid_duplicate_date,omitempty" json:"avoidDuplicateDate,omitempty"`
	Position           *types.Position         `yaml:"position,omitempty" json:"position,omitempty"`
	DateSource         *types.DateSource       `yaml:"date_source,omitempty" json:"dateSource,omitempty"`
	ConflictStrategy   *types.ConflictStrategy `yaml:"conflict_strategy,omitempty" json:"conflictStrategy,omitempty"`
	MarkdownOnly       *bool                   `yaml:"markdown_only,omitempty" json:"markdownOnly,omitempty"`

	// AvoidDuplicatePrefix is the legacy name of AvoidDuplicateDate.
	AvoidDuplicatePrefix *bool `yaml:"avoid_duplicate_prefix,omitempty" json:"avoidDuplicatePrefix,omitempty"`
}

// Merge overlays the set fields of p onto base.
func Merge(base Settings, p Partial) Settings {
	out := base
	if p.DateFormat != nil {
		out.DateFormat = *p.DateFormat
	}
	if p.Separator != nil {
		out.Separator = *p.Separator
	}
	if p.AvoidDuplicatePrefix != nil {
		out.AvoidDuplicateDate = *p.AvoidDuplicatePrefix
	}
	if p.AvoidDuplicateDate != nil {
		out.AvoidDuplicateDate = *p.AvoidDuplicateDate
	}
	if p.Position != nil {
		out.Position = *p.Position
	}
	if p.DateSource != nil {
		out.DateSource = *p.DateSource
	}
	if p.ConflictStrategy != nil {
		out.ConflictStrategy = *p.ConflictStrategy
	}
	if p.MarkdownOnly != nil {
		out.MarkdownOnly = *p.MarkdownOnly
	}
	return out
}

// Sanitize replaces a blank date format with the default, as edits from the
// settings surface never persist an empty pattern.
func (p Partial) Sanitize() Partial {
	if p.DateFormat != nil {
		trimmed := strings.TrimSpace(*p.DateFormat)
		if trimmed == "" {
			trimmed = DefaultDateFormat
		}
		p.DateFormat = &trimmed
	}
	return p
}

func (s Settings) Validate() error {
	switch s.Position {
	case types.PositionPrepend, types.PositionAppend:
	default:
		return &ValidationError{Field: "position", Message: "must be prepend or append, got " + string(s.Position)}
	}
	switch s.DateSource {
	case types.DateSourceNow, types.DateSourceCreated, types.DateSourceModified:
	default:
		return &ValidationError{Field: "dateSource", Message: "must be now, created or modified, got " + string(s.DateSource)}
	}
	switch s.ConflictStrategy {
	case types.ConflictAppendCounter, types.ConflictSkip:
	default:
		return &ValidationError{Field: "conflictStrategy", Message: "must be append-counter or skip, got " + string(s.ConflictStrategy)}
	}
	return nil
}

// Config is the runtime configuration of the CLI and web server.
type Config struct {
	Vault   string  `yaml:"vault" json:"vault"`
	DataDir string  `yaml:"data_dir" json:"data_dir"`
	LogFile string  `yaml:"log_file" json:"log_file"`
	LogJSON bool    `yaml:"log_json" json:"log_json"`
	Rename  Partial `yaml:"rename" json:"rename"`
}

// DefaultDataDir is ~/.obsidian-file-rename.
func DefaultDataDir() string {
	home, err := homedir.Dir()
	if err != nil {
		home, _ = os.UserHomeDir()
	}
	return filepath.Join(home, ".obsidian-file-rename")
}

func DefaultConfig() *Config {
	dataDir := DefaultDataDir()
	return &Config{
		Vault:   ".",
		DataDir: dataDir,
		LogFile: filepath.Join(dataDir, "rename.log"),
		LogJSON: false,
	}
}

func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	path, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate expands "~" in paths and fills in defaults for empty fields.
func (c *Config) Validate() error {
	if c.Vault == "" {
		return &ValidationError{Field: "vault", Message: "vault path is required"}
	}

	var err error
	for _, p := range []*string{&c.Vault, &c.DataDir, &c.LogFile} {
		if *p, err = homedir.Expand(*p); err != nil {
			return &ValidationError{Field: "path", Message: err.Error()}
		}
	}

	if c.DataDir == "" {
		c.DataDir = DefaultDataDir()
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(c.DataDir, "rename.log")
	}

	return Merge(DefaultSettings(), c.Rename).Validate()
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
