// Package classify decides which paths, library names and directory
// entries expose the hidden device. Every predicate reports false when
// the rules are inactive.
package classify

import (
	"strings"

	"github.com/jingkaihe/nvidia-hide/pkg/discover"
)

const (
	DevicePrefix  = "/dev/nvidia"
	DRIDir        = "/dev/dri/"
	DRIByPathDir  = "/dev/dri/by-path/"
	EntryPrefix   = "nvidia"
	configSegment = "/config"
)

// Userspace driver assets matched by path prefix.
var userspacePrefixes = []string{
	"/usr/share/vulkan/icd.d/nvidia",
	"/usr/share/vulkan/implicit_layer.d/nvidia",
	"/usr/lib/libnvidia-",
}

// Userspace driver assets matched anywhere in the path.
var userspaceFragments = []string{
	"nvidia-drm_gbm.so",
	"libGLX_nvidia.so",
}

// Library names refused by dlopen. Matched as substrings because
// callers often pass bare sonames resolved through the search path.
var dlopenFragments = []string{
	"libGLX_nvidia",
	"nvidia-drm_gbm.so",
	"libnvidia-",
}

// Rules evaluates the hiding predicates against one discovery result.
// Rules is immutable and safe for concurrent use.
type Rules struct {
	table Table
}

// New builds the rules for the given activation and discovery result.
func New(active bool, r discover.Result) *Rules {
	t := Table{Active: active}

	t.Open = append(t.Open, Clause{Kind: KindPrefix, Value: DevicePrefix})
	for _, n := range r.Nodes {
		t.Open = append(t.Open, Clause{Kind: KindExact, Value: DRIDir + n})
	}
	for _, bdf := range r.BDFs {
		t.Open = append(t.Open, Clause{Kind: KindContains, Value: bdf, GuardKind: KindPrefix, Guard: DRIByPathDir})
	}
	for _, p := range userspacePrefixes {
		t.Open = append(t.Open, Clause{Kind: KindPrefix, Value: p})
	}
	for _, f := range userspaceFragments {
		t.Open = append(t.Open, Clause{Kind: KindContains, Value: f})
	}
	// PCI configuration-space reads such as /sys/bus/pci/devices/<bdf>/config.
	for _, bdf := range r.BDFs {
		t.Open = append(t.Open, Clause{Kind: KindContains, Value: "/" + bdf + configSegment, GuardKind: KindContains, Guard: configSegment})
	}

	for _, f := range dlopenFragments {
		t.Dlopen = append(t.Dlopen, Clause{Kind: KindContains, Value: f})
	}

	t.Entry = append(t.Entry, Clause{Kind: KindPrefix, Value: EntryPrefix})
	for _, n := range r.Nodes {
		t.Entry = append(t.Entry, Clause{Kind: KindExact, Value: n})
	}
	for _, bdf := range r.BDFs {
		t.Entry = append(t.Entry, Clause{Kind: KindContains, Value: bdf})
		if _, short, ok := strings.Cut(bdf, ":"); ok && short != "" {
			t.Entry = append(t.Entry, Clause{Kind: KindContains, Value: short})
		}
	}
	return &Rules{table: t}
}

// Inactive returns rules that hide nothing.
func Inactive() *Rules {
	return New(false, discover.Result{})
}

func (r *Rules) Active() bool {
	return r.table.Active
}

// Table returns the clauses behind the predicates. The slices are
// shared and must not be modified.
func (r *Rules) Table() Table {
	return r.table
}

// ShouldBlockOpen reports whether opening path must fail.
func (r *Rules) ShouldBlockOpen(path string) bool {
	return r.table.Matches(r.table.Open, path)
}

// ShouldBlockDlopen reports whether loading the named library must fail.
func (r *Rules) ShouldBlockDlopen(name string) bool {
	return r.table.Matches(r.table.Dlopen, name)
}

// IsHiddenEntry reports whether a directory entry name must be skipped.
func (r *Rules) IsHiddenEntry(name string) bool {
	return r.table.Matches(r.table.Entry, name)
}
