package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"todocal/pkg/keymaps"
)

// EnvPrefix is prepended to every environment override, e.g. TODOCAL_DRIVER
const EnvPrefix = "TODOCAL"

// DataDirEnv relocates the default database file
const DataDirEnv = "TODOCAL_DATA_DIR"

// Config holds the application configuration
type Config struct {
	Driver             string            `mapstructure:"driver"`
	Database           string            `mapstructure:"database"`
	KeyMap             map[string]string `mapstructure:"keymap"`
	StylesFile         string            `mapstructure:"styles_file"`
	CalendarTitleWidth int               `mapstructure:"calendar_title_width"`
	SeedWelcome        bool              `mapstructure:"seed_welcome"`
	Verbose            bool              `mapstructure:"verbose"`
	LogDir             string            `mapstructure:"log_dir"`
}

// Styles holds the application colors
type Styles struct {
	BorderColor string `mapstructure:"border_color"`
	AccentColor string `mapstructure:"accent_color"`

	NormalTextColor   string `mapstructure:"normal_text_color"`
	SelectedTextColor string `mapstructure:"selected_text_color"`
	SelectedBgColor   string `mapstructure:"selected_bg_color"`
	ErrorColor        string `mapstructure:"error_color"`
	MutedColor        string `mapstructure:"muted_color"`

	// Deadlines and the calendar
	OverdueColor string `mapstructure:"overdue_color"`
	TodayColor   string `mapstructure:"today_color"`
	ChipColor    string `mapstructure:"chip_color"`
}

// DefaultStyles match the colors the UI was designed with
func DefaultStyles() Styles {
	return Styles{
		BorderColor:       "240",
		AccentColor:       "205",
		NormalTextColor:   "86",
		SelectedTextColor: "229",
		SelectedBgColor:   "57",
		ErrorColor:        "9",
		MutedColor:        "244",
		OverdueColor:      "196",
		TodayColor:        "214",
		ChipColor:         "63",
	}
}

// ConfigDir returns ~/.config/todocal
func ConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "todocal"), nil
}

// Defaults returns the configuration used when nothing overrides it. The
// database lives in TODOCAL_DATA_DIR when set, else next to the config.
func Defaults(configDir string) Config {
	dataDir := os.Getenv(DataDirEnv)
	if dataDir == "" {
		dataDir = configDir
	}

	return Config{
		Driver:             "sqlite3",
		Database:           filepath.Join(dataDir, "todo.db"),
		KeyMap:             keymaps.GetDefaultKeyMappings(),
		StylesFile:         filepath.Join(configDir, "styles.json"),
		CalendarTitleWidth: 4,
		SeedWelcome:        true,
		Verbose:            false,
		LogDir:             "",
	}
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("driver", cfg.Driver)
	v.SetDefault("database", cfg.Database)
	v.SetDefault("keymap", cfg.KeyMap)
	v.SetDefault("styles_file", cfg.StylesFile)
	v.SetDefault("calendar_title_width", cfg.CalendarTitleWidth)
	v.SetDefault("seed_welcome", cfg.SeedWelcome)
	v.SetDefault("verbose", cfg.Verbose)
	v.SetDefault("log_dir", cfg.LogDir)
}

// Load reads the configuration into v, which may already carry bound
// command line flags. An empty configPath means ~/.config/todocal/config.json.
// A missing file is created with the defaults. Environment variables
// prefixed with TODOCAL_ override the file.
func Load(v *viper.Viper, configPath string) (Config, Styles, error) {
	configDir := ""
	if configPath == "" {
		dir, err := ConfigDir()
		if err != nil {
			return Config{}, Styles{}, err
		}
		configDir = dir
		configPath = filepath.Join(configDir, "config.json")
	} else {
		configDir = filepath.Dir(configPath)
	}

	defaults := Defaults(configDir)
	setDefaults(v, defaults)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetConfigFile(configPath)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		if !isMissing(err) {
			return defaults, Styles{}, fmt.Errorf("error reading config %s: %w", configPath, err)
		}
		if err := writeDefaults(configPath, func(w *viper.Viper) { setDefaults(w, defaults) }); err != nil {
			return defaults, Styles{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return defaults, Styles{}, fmt.Errorf("error parsing config: %w", err)
	}
	if cfg.CalendarTitleWidth < 1 {
		cfg.CalendarTitleWidth = defaults.CalendarTitleWidth
	}

	styles, err := loadStyles(cfg.StylesFile)
	if err != nil {
		return cfg, styles, fmt.Errorf("error loading styles: %w", err)
	}

	return cfg, styles, nil
}

// loadStyles reads the styles file, creating it with the defaults when absent
func loadStyles(stylesPath string) (Styles, error) {
	defaults := DefaultStyles()
	set := func(v *viper.Viper) {
		v.SetDefault("border_color", defaults.BorderColor)
		v.SetDefault("accent_color", defaults.AccentColor)
		v.SetDefault("normal_text_color", defaults.NormalTextColor)
		v.SetDefault("selected_text_color", defaults.SelectedTextColor)
		v.SetDefault("selected_bg_color", defaults.SelectedBgColor)
		v.SetDefault("error_color", defaults.ErrorColor)
		v.SetDefault("muted_color", defaults.MutedColor)
		v.SetDefault("overdue_color", defaults.OverdueColor)
		v.SetDefault("today_color", defaults.TodayColor)
		v.SetDefault("chip_color", defaults.ChipColor)
	}

	v := viper.New()
	set(v)
	v.SetConfigFile(stylesPath)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		if !isMissing(err) {
			return defaults, err
		}
		if err := writeDefaults(stylesPath, set); err != nil {
			return defaults, err
		}
		return defaults, nil
	}

	var styles Styles
	if err := v.Unmarshal(&styles); err != nil {
		return defaults, err
	}
	return styles, nil
}

// writeDefaults writes a file holding only the defaults, so flag and
// environment overrides never end up persisted
func writeDefaults(path string, set func(*viper.Viper)) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	w := viper.New()
	set(w)
	w.SetConfigType("json")
	return w.WriteConfigAs(path)
}

func isMissing(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}
