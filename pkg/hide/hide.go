// Package hide holds the process-wide hiding state. The state is built
// once, when the library is loaded, and is read-only afterwards.
package hide

import (
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/spf13/afero"

	"github.com/jingkaihe/nvidia-hide/pkg/classify"
	"github.com/jingkaihe/nvidia-hide/pkg/config"
	"github.com/jingkaihe/nvidia-hide/pkg/discover"
	"github.com/jingkaihe/nvidia-hide/pkg/hook"
	"github.com/jingkaihe/nvidia-hide/pkg/logging"
	"github.com/jingkaihe/nvidia-hide/pkg/policy"
)

// Options controls how State is built. Zero fields fall back to the
// real system: the OS filesystem, /proc/self/exe and /sys/class/drm.
type Options struct {
	Settings config.Settings
	Fs       afero.Fs
	Readlink policy.ReadlinkFunc
	DRMRoot  string
	Logger   *slog.Logger
	Events   *logging.Emitter
}

// FromEnvironment reads settings from the environment and builds the
// matching logger and event log. The event log file is only opened
// when the first event is written.
func FromEnvironment() Options {
	s := config.LoadSettings(nil)
	opts := Options{Settings: s, Logger: logging.NewLogger(s.Debug, s.RunID, nil)}
	if s.EventLog == "" {
		return opts
	}
	w := logging.NewJSONLWriter(s.EventLog)
	exe, _ := os.Readlink(policy.SelfExeLink)
	opts.Events = logging.NewEmitter(logging.EmitterConfig{
		RunID: s.RunID,
		PID:   os.Getpid(),
		Exe:   exe,
	}, w)
	return opts
}

// State is the outcome of activation and discovery for this process.
type State struct {
	settings  config.Settings
	decision  policy.Decision
	discovery discover.Result
	rules     *classify.Rules
	reporter  *hook.Reporter
}

// New evaluates the activation policy and, only when hiding is active,
// discovers the devices to hide. It never fails: every error degrades
// to the documented default.
func New(opts Options) *State {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	lists := config.NewListSource(fs, logger)
	allow := lists.Load(opts.Settings.Allowlist, opts.Settings.AllowlistPath())
	deny := lists.Load(opts.Settings.Denylist, opts.Settings.DenylistPath())

	id, err := policy.SelfIdentity(opts.Readlink)
	if err != nil {
		logger.Debug("hide: process identity unavailable", "error", err)
	}
	decision := policy.NewEngine(logger).Evaluate(id, allow, deny)
	emit(logger, opts.Events, logging.EventPolicy, "policy "+decision.Reason(), &logging.PolicyData{
		Active:       decision.Active,
		Reason:       decision.Reason(),
		HasAllow:     decision.HasAllow,
		AllowPattern: decision.AllowPattern,
		DenyPattern:  decision.DenyPattern,
	})

	s := &State{settings: opts.Settings, decision: decision}
	if decision.Active {
		dopts := []discover.Option{discover.WithFs(fs), discover.WithLogger(logger)}
		if opts.DRMRoot != "" {
			dopts = append(dopts, discover.WithRoot(opts.DRMRoot))
		}
		s.discovery = discover.New(dopts...).Discover()
		emit(logger, opts.Events, logging.EventDiscovery, "discovered devices", &logging.DiscoveryData{
			Nodes: s.discovery.Nodes,
			BDFs:  s.discovery.BDFs,
		})
	}

	s.rules = classify.New(decision.Active, s.discovery)
	s.reporter = hook.NewReporter(logger, opts.Events)
	return s
}

func emit(logger *slog.Logger, events *logging.Emitter, eventType, summary string, data any) {
	if err := events.Emit(eventType, summary, data); err != nil {
		logger.Debug("hide: event dropped", "type", eventType, "error", err)
	}
}

var (
	once    sync.Once
	current atomic.Pointer[State]
)

// Init builds the process state on the first call. Later calls ignore
// opts and return the same State.
func Init(opts Options) *State {
	once.Do(func() {
		current.Store(New(opts))
	})
	return current.Load()
}

// Current returns the process state, initialising it from the
// environment if Init has not run yet.
func Current() *State {
	if s := current.Load(); s != nil {
		return s
	}
	return Init(FromEnvironment())
}

func (s *State) Active() bool {
	return s.decision.Active
}

func (s *State) Decision() policy.Decision {
	return s.decision
}

func (s *State) Discovery() discover.Result {
	return s.discovery
}

// Nodes returns the hidden DRM node names.
func (s *State) Nodes() []string {
	return s.discovery.Nodes
}

// BDFs returns the hidden PCI bus addresses.
func (s *State) BDFs() []string {
	return s.discovery.BDFs
}

func (s *State) Rules() *classify.Rules {
	return s.rules
}

// Settings returns the settings the state was built from.
func (s *State) Settings() config.Settings {
	return s.settings
}

// Reporter records denials made by the C hooks.
func (s *State) Reporter() *hook.Reporter {
	return s.reporter
}
