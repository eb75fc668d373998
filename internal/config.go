package internal

import (
	"fmt"
	"log/slog"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/A11myt/obsidian-task-heatmap/internal/heatmap"
	"github.com/A11myt/obsidian-task-heatmap/internal/models"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

var hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Vault   VaultConfig       `yaml:"vault"`
	SQLite  SQLiteConfig      `yaml:"sqlite"`
	Auth    AuthConfig        `yaml:"auth"`
	Heatmap HeatmapConfig     `yaml:"heatmap"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Vault.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.Heatmap.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// VaultConfig holds the path to the Markdown vault directory.
type VaultConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// SQLiteConfig holds the scan-history SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// RefreshConfig controls periodic background rescans of the vault.
type RefreshConfig struct {
	Enabled         bool `yaml:"enabled"`
	IntervalSeconds int  `yaml:"interval_seconds"`
}

// Validate validates the refresh configuration.
func (c *RefreshConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.IntervalSeconds, validation.Required, validation.Min(5)),
	)
}

// HeatmapConfig holds heatmap rendering and scanning configuration.
type HeatmapConfig struct {
	NotesFolder     string                  `yaml:"notes_folder"`
	ColorScheme     string                  `yaml:"color_scheme"`
	CustomColors    []string                `yaml:"custom_colors"`
	EmptyColor      string                  `yaml:"empty_color"`
	CellSize        int                     `yaml:"cell_size"`
	DateLocale      string                  `yaml:"date_locale"`
	YearMode        string                  `yaml:"year_mode"`
	Year            int                     `yaml:"year"`
	DailyNoteFormat string                  `yaml:"daily_note_format"`
	SpecialTags     []models.SpecialTagRule `yaml:"special_tags"`
	Refresh         RefreshConfig           `yaml:"refresh"`
}

// Validate validates the heatmap configuration.
func (c *HeatmapConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.NotesFolder, validation.Required),
		validation.Field(&c.ColorScheme, validation.Required,
			validation.In("green", "blue", "purple", "red", "orange", "custom")),
		validation.Field(&c.EmptyColor, validation.Match(hexColorRe)),
		validation.Field(&c.CellSize, validation.Min(4), validation.Max(64)),
		validation.Field(&c.YearMode, validation.Required,
			validation.In(string(heatmap.ModeCurrentYear), string(heatmap.ModeRollingWindow))),
		validation.Field(&c.Year, validation.Min(0), validation.Max(heatmap.MaxYear)),
		validation.Field(&c.DailyNoteFormat, validation.Required),
	); err != nil {
		return err
	}
	if c.ColorScheme == "custom" && len(c.CustomColors) != 5 {
		return fmt.Errorf("heatmap: custom color scheme needs 5 colors, got %d", len(c.CustomColors))
	}
	for _, col := range c.CustomColors {
		if !hexColorRe.MatchString(col) {
			return fmt.Errorf("heatmap: invalid custom color %q", col)
		}
	}
	for _, rule := range c.SpecialTags {
		if rule.Name == "" {
			return fmt.Errorf("heatmap: special tag rule without a name")
		}
		if rule.Color != "" && !hexColorRe.MatchString(rule.Color) {
			return fmt.Errorf("heatmap: special tag %q has invalid color %q", rule.Name, rule.Color)
		}
	}
	return c.Refresh.Validate()
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Vault: VaultConfig{
			Path: "./vault",
		},
		SQLite: SQLiteConfig{
			Path: "./heatmap.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Heatmap: HeatmapConfig{
			NotesFolder:     "Notes",
			ColorScheme:     "green",
			EmptyColor:      "#ebedf0",
			CellSize:        12,
			DateLocale:      "en_US",
			YearMode:        string(heatmap.ModeCurrentYear),
			DailyNoteFormat: "Notes/DD-MMM-YYYY",
			Refresh: RefreshConfig{
				Enabled:         false,
				IntervalSeconds: 60,
			},
		},
	}
}
