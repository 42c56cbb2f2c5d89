package config

import "time"

// Timing.
const (
	TickInterval = time.Second
)

// Application identity and file names.
const (
	AppName        = "worktime"
	ConfigFileName = "config.toml"
	LogFileName    = "worktime.log"
	EnvStorePath   = "WORKTIME_STORE"
	EnvConfigPath  = "WORKTIME_CONFIG"
)

// Defaults for settings.
const (
	DefaultFormat      = "text"
	DefaultTickMode    = "live"
	DefaultTheme       = "default"
	DefaultLogLevel    = "info"
	DefaultDailyTarget = 8 * time.Hour
)
