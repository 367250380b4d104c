package main

import (
	"strings"

	"github.com/google/uuid"

	"github.com/jingkaihe/nvidia-hide/pkg/config"
)

const ldPreload = "LD_PRELOAD"

// launchEnv is what the launcher adds to the child's environment.
type launchEnv struct {
	Library   string
	Debug     bool
	EventLog  string
	Allowlist string
	Denylist  string
}

func envKey(key string) string {
	return config.EnvPrefix + "_" + strings.ToUpper(key)
}

// buildEnv returns environ with the library preloaded and the launch
// settings applied. Existing LD_PRELOAD entries are kept and the library
// is appended once, space separated. A run id is generated unless one
// is already set.
func buildEnv(environ []string, le launchEnv) []string {
	env := newEnvList(environ)

	preload := env.get(ldPreload)
	switch {
	case strings.TrimSpace(preload) == "":
		env.set(ldPreload, le.Library)
	case !preloadHas(preload, le.Library):
		env.set(ldPreload, preload+" "+le.Library)
	}

	if env.get(envKey(config.KeyRunID)) == "" {
		env.set(envKey(config.KeyRunID), uuid.NewString())
	}
	if le.Debug {
		env.set(envKey(config.KeyDebug), "1")
	}
	if le.EventLog != "" {
		env.set(envKey(config.KeyEventLog), le.EventLog)
	}
	if le.Allowlist != "" {
		env.set(envKey(config.KeyAllowlist), le.Allowlist)
	}
	if le.Denylist != "" {
		env.set(envKey(config.KeyDenylist), le.Denylist)
	}
	return env.entries
}

// preloadHas reports whether lib is already one of the space or colon
// separated LD_PRELOAD entries.
func preloadHas(preload, lib string) bool {
	for _, entry := range strings.FieldsFunc(preload, func(r rune) bool { return r == ' ' || r == ':' }) {
		if entry == lib {
			return true
		}
	}
	return false
}

// envList edits KEY=VALUE entries in place, keeping their order.
type envList struct {
	entries []string
}

func newEnvList(environ []string) *envList {
	return &envList{entries: append([]string(nil), environ...)}
}

func (e *envList) index(key string) int {
	for i, kv := range e.entries {
		if k, _, ok := strings.Cut(kv, "="); ok && k == key {
			return i
		}
	}
	return -1
}

func (e *envList) get(key string) string {
	if i := e.index(key); i >= 0 {
		_, v, _ := strings.Cut(e.entries[i], "=")
		return v
	}
	return ""
}

func (e *envList) set(key, value string) {
	kv := key + "=" + value
	if i := e.index(key); i >= 0 {
		e.entries[i] = kv
		return
	}
	e.entries = append(e.entries, kv)
}
