// Package hook reports what the C hooks refused. The hooks themselves
// evaluate a table published once at load time and never enter Go on
// the fast path; they call back into a Reporter only for a denial in
// the process that loaded the library, and only when someone listens.
package hook

import (
	"context"
	"log/slog"

	"github.com/jingkaihe/nvidia-hide/pkg/logging"
)

// Reporter logs denials and appends them to the event log.
type Reporter struct {
	logger *slog.Logger
	events *logging.Emitter
}

// NewReporter builds a reporter. A nil events drops events.
func NewReporter(logger *slog.Logger, events *logging.Emitter) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{
		logger: logger.With("component", "hook"),
		events: events,
	}
}

// Enabled reports whether Denied has anywhere to write. The C hooks
// skip the call into Go when it does not.
func (r *Reporter) Enabled() bool {
	return r.events != nil || r.logger.Enabled(context.Background(), slog.LevelDebug)
}

// Denied records that op on target was refused.
func (r *Reporter) Denied(op, target string) {
	r.logger.Debug("hook: denied", "op", op, "target", target)
	err := r.events.Emit(logging.EventDeny, op+" "+target, &logging.DenyData{Op: op, Target: target})
	if err != nil {
		r.logger.Debug("hook: deny event dropped", "error", err)
	}
}
