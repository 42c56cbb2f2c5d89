package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/akyairhashvil/worktime/internal/models"
	"github.com/akyairhashvil/worktime/internal/util"
)

// Settings is the user-editable configuration file.
type Settings struct {
	Store  StoreSettings `toml:"store"`
	Timers TimerSettings `toml:"timers"`
	UI     UISettings    `toml:"ui"`
	Log    LogSettings   `toml:"log"`
}

// StoreSettings selects where and how timers are persisted.
type StoreSettings struct {
	Format           string `toml:"format"` // text, json, yaml or sqlite
	Path             string `toml:"path"`   // empty means the data dir default
	AutosaveOnRemove bool   `toml:"autosave_on_remove"`
	// Override is set from the command line and wins over everything else.
	Override string `toml:"-"`
}

// TimerSettings holds the registry policy.
type TimerSettings struct {
	Exclusive     bool   `toml:"exclusive"`
	TickMode      string `toml:"tick_mode"` // live or fold
	ResumeRunning bool   `toml:"resume_running"`
}

type UISettings struct {
	Theme       string `toml:"theme"`
	DailyTarget string `toml:"daily_target"`
}

type LogSettings struct {
	Level string `toml:"level"`
	Path  string `toml:"path"`
}

// Default returns the settings used when no file exists.
func Default() *Settings {
	return &Settings{
		Store: StoreSettings{
			Format:           DefaultFormat,
			AutosaveOnRemove: true,
		},
		Timers: TimerSettings{
			Exclusive: true,
			TickMode:  DefaultTickMode,
		},
		UI: UISettings{
			Theme:       DefaultTheme,
			DailyTarget: DefaultDailyTarget.String(),
		},
		Log: LogSettings{
			Level: DefaultLogLevel,
		},
	}
}

// Path returns the settings file location, honoring WORKTIME_CONFIG.
func Path() string {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p
	}
	return filepath.Join(util.ConfigDir(AppName), ConfigFileName)
}

// Load reads settings from path. A missing file yields defaults; keys absent
// from the file keep their default values.
func Load(path string) (*Settings, error) {
	s := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return s, nil
	}
	if _, err := toml.DecodeFile(path, s); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	s.fillDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Save writes the settings to path, creating the directory if needed.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(s); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (s *Settings) fillDefaults() {
	d := Default()
	if strings.TrimSpace(s.Store.Format) == "" {
		s.Store.Format = d.Store.Format
	}
	if strings.TrimSpace(s.Timers.TickMode) == "" {
		s.Timers.TickMode = d.Timers.TickMode
	}
	if strings.TrimSpace(s.UI.Theme) == "" {
		s.UI.Theme = d.UI.Theme
	}
	if strings.TrimSpace(s.UI.DailyTarget) == "" {
		s.UI.DailyTarget = d.UI.DailyTarget
	}
	if strings.TrimSpace(s.Log.Level) == "" {
		s.Log.Level = d.Log.Level
	}
}

// Validate checks the values that are parsed later.
func (s *Settings) Validate() error {
	if _, err := models.ParseTickMode(s.Timers.TickMode); err != nil {
		return fmt.Errorf("timers.tick_mode: %w", err)
	}
	if _, err := s.Target(); err != nil {
		return fmt.Errorf("ui.daily_target: %w", err)
	}
	return nil
}

// TickMode returns the parsed tick mode, falling back to live.
func (s *Settings) TickMode() models.TickMode {
	mode, _ := models.ParseTickMode(s.Timers.TickMode)
	return mode
}

// Target returns the daily target duration. Zero disables the target bar.
func (s *Settings) Target() (time.Duration, error) {
	v := strings.TrimSpace(s.UI.DailyTarget)
	if v == "" || v == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative target %s", v)
	}
	return d, nil
}

// StorePath resolves the persistence location: the command line override,
// WORKTIME_STORE, the configured path, then fileName inside the data directory.
func (s *Settings) StorePath(fileName string) string {
	if p := strings.TrimSpace(s.Store.Override); p != "" {
		return util.ExpandHome(p)
	}
	if p := strings.TrimSpace(os.Getenv(EnvStorePath)); p != "" {
		return util.ExpandHome(p)
	}
	if p := strings.TrimSpace(s.Store.Path); p != "" {
		return util.ExpandHome(p)
	}
	return filepath.Join(util.DataDir(AppName), fileName)
}

// LogPath resolves the log file location.
func (s *Settings) LogPath() string {
	if p := strings.TrimSpace(s.Log.Path); p != "" {
		return util.ExpandHome(p)
	}
	return filepath.Join(util.DataDir(AppName), LogFileName)
}
