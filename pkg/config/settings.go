// Package config resolves the library's environment settings and the
// allow/deny pattern lists that drive the activation policy.
package config

import (
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the library reads.
const EnvPrefix = "LIBNVIDIAHIDE"

// AppName names the per-user configuration directory.
const AppName = "nvidia-hide"

const (
	KeyDebug     = "debug"
	KeyAllowlist = "allowlist"
	KeyDenylist  = "denylist"
	KeyEventLog  = "event_log"
	KeyRunID     = "run_id"
	KeyLibrary   = "so"

	keyXDGConfigHome = "xdg_config_home"
	keyHome          = "home"
)

// Allow and deny list file names inside the configuration directory.
const (
	AllowlistFile = "allowlist"
	DenylistFile  = "denylist"
)

// Settings is the environment-derived configuration, read once at
// library load.
type Settings struct {
	Debug     bool
	Allowlist string
	Denylist  string
	ConfigDir string
	EventLog  string
	RunID     string
	Library   string
}

// AllowlistPath is the allowlist file inside ConfigDir.
func (s Settings) AllowlistPath() string {
	return filepath.Join(s.ConfigDir, AllowlistFile)
}

// DenylistPath is the denylist file inside ConfigDir.
func (s Settings) DenylistPath() string {
	return filepath.Join(s.ConfigDir, DenylistFile)
}

// NewViper returns a viper instance bound to the library's environment
// variables. Each call reads the live environment.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv(keyXDGConfigHome, "XDG_CONFIG_HOME")
	_ = v.BindEnv(keyHome, "HOME")
	return v
}

// LoadSettings reads Settings from v. A nil v reads the environment.
func LoadSettings(v *viper.Viper) Settings {
	if v == nil {
		v = NewViper()
	}
	return Settings{
		Debug:     truthy(v.GetString(KeyDebug)),
		Allowlist: v.GetString(KeyAllowlist),
		Denylist:  v.GetString(KeyDenylist),
		ConfigDir: configDir(v.GetString(keyXDGConfigHome), v.GetString(keyHome)),
		EventLog:  v.GetString(KeyEventLog),
		RunID:     v.GetString(KeyRunID),
		Library:   v.GetString(KeyLibrary),
	}
}

func configDir(xdg, home string) string {
	switch {
	case xdg != "":
		return filepath.Join(xdg, AppName)
	case home != "":
		return filepath.Join(home, ".config", AppName)
	default:
		return "/nonexistent"
	}
}

// truthy treats any non-empty value other than "0" as enabled.
func truthy(v string) bool {
	return v != "" && v != "0"
}
