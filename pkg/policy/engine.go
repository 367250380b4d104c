// Package policy decides once per process whether hiding applies.
//
// Hiding starts active. A configured allowlist that does not name the
// process turns it off, and a matching denylist entry always turns it
// off. When the process identity is unknown the policy is skipped and
// hiding stays on.
package policy

import (
	"log/slog"

	"github.com/jingkaihe/nvidia-hide/pkg/config"
	"github.com/jingkaihe/nvidia-hide/pkg/glob"
)

// Decision records the activation outcome and how it was reached.
type Decision struct {
	Active  bool
	Skipped bool

	HasAllow     bool
	AllowMatch   bool
	AllowPattern string
	DenyMatch    bool
	DenyPattern  string

	Identity *Identity
}

// Reason is a short label for logs and the launcher's status output.
func (d Decision) Reason() string {
	switch {
	case d.Skipped:
		return "identity unavailable"
	case d.DenyMatch:
		return "denylist match"
	case d.HasAllow && !d.AllowMatch:
		return "not in allowlist"
	case d.AllowMatch:
		return "allowlist match"
	default:
		return "default"
	}
}

// Engine evaluates the activation policy.
type Engine struct {
	logger *slog.Logger
}

func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger.With("component", "policy")}
}

// Evaluate computes the decision for id. A nil id skips evaluation and
// leaves hiding active.
func (e *Engine) Evaluate(id *Identity, allow, deny config.List) Decision {
	d := Decision{Active: true, Identity: id}
	if id == nil {
		d.Skipped = true
		e.logger.Debug("policy: identity unavailable, staying active")
		return d
	}

	d.AllowPattern, d.AllowMatch = glob.MatchAny(allow.Patterns, id.FullPath, id.BaseName)
	d.DenyPattern, d.DenyMatch = glob.MatchAny(deny.Patterns, id.FullPath, id.BaseName)
	d.HasAllow = allow.Configured()

	if d.HasAllow && !d.AllowMatch {
		d.Active = false
	}
	if d.DenyMatch {
		d.Active = false
	}

	e.logger.Debug("policy: evaluated",
		"exe", id.FullPath,
		"active", d.Active,
		"has_allow", d.HasAllow,
		"allow_match", d.AllowMatch,
		"deny_match", d.DenyMatch,
		"reason", d.Reason(),
	)
	return d
}
