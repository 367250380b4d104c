// Package discover finds the DRM nodes that belong to a PCI vendor and
// the bus addresses backing them.
package discover

import (
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/jingkaihe/nvidia-hide/internal/errx"
)

const (
	// DefaultRoot is the DRM device-class directory.
	DefaultRoot = "/sys/class/drm"

	// VendorNVIDIA is NVIDIA's PCI vendor id.
	VendorNVIDIA uint32 = 0x10de

	minBDFLen = len("0:0.0:0")
)

// Result holds the discovered nodes and their deduplicated bus
// addresses, each in first-seen order. The zero value hides nothing.
type Result struct {
	Nodes []string
	BDFs  []string
}

// Empty reports whether nothing was discovered.
func (r Result) Empty() bool {
	return len(r.Nodes) == 0 && len(r.BDFs) == 0
}

type Discoverer struct {
	fs     afero.Fs
	root   string
	vendor uint32
	logger *slog.Logger
}

type Option func(*Discoverer)

func WithFs(fs afero.Fs) Option {
	return func(d *Discoverer) {
		d.fs = fs
	}
}

func WithRoot(root string) Option {
	return func(d *Discoverer) {
		d.root = root
	}
}

func WithVendor(vendor uint32) Option {
	return func(d *Discoverer) {
		d.vendor = vendor
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(d *Discoverer) {
		d.logger = logger
	}
}

func New(opts ...Option) *Discoverer {
	d := &Discoverer{
		root:   DefaultRoot,
		vendor: VendorNVIDIA,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.fs == nil {
		d.fs = afero.NewOsFs()
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	d.logger = d.logger.With("component", "discover")
	return d
}

// Discover scans the class directory once. Failures are not reported:
// an unreadable directory yields an empty Result and an unreadable
// node is skipped.
func (d *Discoverer) Discover() Result {
	var r Result

	entries, err := afero.ReadDir(d.fs, d.root)
	if err != nil {
		d.logger.Debug("discover: class directory unavailable", "error", errx.Wrap(ErrReadClassDir, err))
		return r
	}

	seen := make(map[string]bool)
	for _, e := range entries {
		name := e.Name()
		if !IsNodeName(name) {
			continue
		}
		vendor, err := d.readVendor(name)
		if err != nil {
			d.logger.Debug("discover: skipping node", "node", name, "error", err)
			continue
		}
		if vendor != d.vendor {
			continue
		}
		r.Nodes = append(r.Nodes, name)

		bdf, err := d.readBDF(name)
		if err != nil {
			d.logger.Debug("discover: node has no bus address", "node", name, "error", err)
			continue
		}
		if !seen[bdf] {
			seen[bdf] = true
			r.BDFs = append(r.BDFs, bdf)
		}
	}

	d.logger.Debug("discover: done", "nodes", r.Nodes, "bdfs", r.BDFs)
	return r
}

func (d *Discoverer) readVendor(node string) (uint32, error) {
	data, err := afero.ReadFile(d.fs, filepath.Join(d.root, node, "device", "vendor"))
	if err != nil {
		return 0, errx.Wrap(ErrReadVendor, err)
	}
	return ParseVendor(string(data))
}

func (d *Discoverer) readBDF(node string) (string, error) {
	lr, ok := d.fs.(afero.LinkReader)
	if !ok {
		return "", ErrNoLinkReader
	}
	target, err := lr.ReadlinkIfPossible(filepath.Join(d.root, node, "device"))
	if err != nil {
		return "", errx.Wrap(ErrReadlink, err)
	}
	bdf := filepath.Base(target)
	if !IsBDF(bdf) {
		return "", errx.With(ErrInvalidBDF, ": %q", bdf)
	}
	return bdf, nil
}

// IsNodeName reports whether name is cardN or renderDN.
func IsNodeName(name string) bool {
	for _, prefix := range []string{"renderD", "card"} {
		if rest, ok := strings.CutPrefix(name, prefix); ok {
			return allDigits(rest)
		}
	}
	return false
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ParseVendor parses a sysfs vendor attribute such as "0x10de\n".
func ParseVendor(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "0x"); ok {
		s = rest
	} else if rest, ok := strings.CutPrefix(s, "0X"); ok {
		s = rest
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, errx.Wrap(ErrParseVendor, err)
	}
	return uint32(v), nil
}

// IsBDF accepts a link target segment as a PCI address when it
// contains ':' and is at least seven bytes long.
func IsBDF(s string) bool {
	return len(s) >= minBDFLen && strings.Contains(s, ":")
}
