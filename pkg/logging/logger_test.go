package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLogger_Debug(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(true, "run-1", &buf)
	logger.Debug("hook: denied", "path", "/dev/nvidia0")

	out := buf.String()
	assert.Contains(t, out, "hook: denied")
	assert.Contains(t, out, "path=/dev/nvidia0")
	assert.Contains(t, out, "run_id=run-1")
	assert.Contains(t, out, "lib=nvidia-hide")
}

func TestNewLogger_Quiet(t *testing.T) {
	logger := NewLogger(false, "run-1", nil)
	assert.False(t, logger.Enabled(t.Context(), 0))
}
