package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jingkaihe/nvidia-hide/pkg/discover"
)

var discovered = discover.Result{
	Nodes: []string{"card1", "renderD129"},
	BDFs:  []string{"0000:01:00.0"},
}

func TestShouldBlockOpen(t *testing.T) {
	rules := New(true, discovered)

	tests := []struct {
		path string
		want bool
	}{
		{"/dev/nvidia0", true},
		{"/dev/nvidiactl", true},
		{"/dev/nvidia-uvm", true},
		{"/dev/dri/card1", true},
		{"/dev/dri/renderD129", true},
		{"/dev/dri/card0", false},
		{"/dev/dri/renderD128", false},
		{"/dev/dri/card1/extra", false},
		{"/dev/dri/by-path/pci-0000:01:00.0-card", true},
		{"/dev/dri/by-path/pci-0000:01:00.0-render", true},
		{"/dev/dri/by-path/pci-0000:00:02.0-card", false},
		{"/usr/share/vulkan/icd.d/nvidia_icd.json", true},
		{"/usr/share/vulkan/implicit_layer.d/nvidia_layers.json", true},
		{"/usr/share/vulkan/icd.d/intel_icd.x86_64.json", false},
		{"/usr/lib/gbm/nvidia-drm_gbm.so", true},
		{"/usr/lib/x86_64-linux-gnu/libGLX_nvidia.so.0", true},
		{"/usr/lib/libnvidia-glcore.so.550.54", true},
		{"/usr/lib/libGLX_mesa.so.0", false},
		{"/sys/bus/pci/devices/0000:01:00.0/config", true},
		{"/sys/devices/pci0000:00/0000:00:01.0/0000:01:00.0/config", true},
		{"/sys/bus/pci/devices/0000:02:00.0/config", false},
		{"/sys/bus/pci/devices/0000:01:00.0/vendor", false},
		{"/etc/passwd", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.ShouldBlockOpen(tt.path))
		})
	}
}

func TestShouldBlockOpen_PrefixRulesWithoutDiscovery(t *testing.T) {
	rules := New(true, discover.Result{})
	assert.True(t, rules.ShouldBlockOpen("/dev/nvidia0"))
	assert.True(t, rules.ShouldBlockOpen("/usr/share/vulkan/icd.d/nvidia_icd.json"))
	assert.False(t, rules.ShouldBlockOpen("/dev/dri/card1"))
	assert.False(t, rules.ShouldBlockOpen("/sys/bus/pci/devices/0000:01:00.0/config"))
}

func TestShouldBlockDlopen(t *testing.T) {
	rules := New(true, discover.Result{})

	tests := []struct {
		name string
		want bool
	}{
		{"libGLX_nvidia.so.0", true},
		{"/usr/lib/libGLX_nvidia.so.0", true},
		{"nvidia-drm_gbm.so", true},
		{"libnvidia-glcore.so.550.54", true},
		{"/usr/lib/libnvidia-ml.so.1", true},
		{"libGLX_mesa.so.0", false},
		{"libvulkan.so.1", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.ShouldBlockDlopen(tt.name))
		})
	}
}

func TestIsHiddenEntry(t *testing.T) {
	rules := New(true, discovered)

	tests := []struct {
		name string
		want bool
	}{
		{"nvidia0", true},
		{"nvidiactl", true},
		{"nvidia-caps", true},
		{"card1", true},
		{"renderD129", true},
		{"card0", false},
		{"renderD128", false},
		{"pci-0000:01:00.0-card", true},
		{"pci-01:00.0-render", true},
		{"pci-0000:00:02.0-card", false},
		{"by-path", false},
		{".", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.IsHiddenEntry(tt.name))
		})
	}
}

func TestInactiveRulesHideNothing(t *testing.T) {
	for _, rules := range []*Rules{Inactive(), New(false, discovered)} {
		assert.False(t, rules.Active())
		assert.False(t, rules.ShouldBlockOpen("/dev/nvidia0"))
		assert.False(t, rules.ShouldBlockOpen("/dev/dri/card1"))
		assert.False(t, rules.ShouldBlockOpen("/sys/bus/pci/devices/0000:01:00.0/config"))
		assert.False(t, rules.ShouldBlockDlopen("libGLX_nvidia.so.0"))
		assert.False(t, rules.IsHiddenEntry("nvidia0"))
		assert.False(t, rules.IsHiddenEntry("card1"))
		assert.False(t, rules.IsHiddenEntry("pci-0000:01:00.0-card"))
	}
}

func TestIsHiddenEntry_DirectorySequence(t *testing.T) {
	rules := New(true, discover.Result{Nodes: []string{"card0"}})

	var visible []string
	for _, name := range []string{"card0", "card1", "renderD128", "nvidia0"} {
		if !rules.IsHiddenEntry(name) {
			visible = append(visible, name)
		}
	}
	assert.Equal(t, []string{"card1", "renderD128"}, visible)
}
