package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_GoldenDeny(t *testing.T) {
	event := &Event{
		Timestamp: time.Date(2026, 2, 23, 14, 30, 0, 123000000, time.UTC),
		RunID:     "9f8e7d6c-0000-4000-8000-1234567890ab",
		PID:       4242,
		Exe:       "/usr/lib/firefox/firefox",
		EventType: EventDeny,
		Summary:   "openat /dev/dri/renderD129",
		Data:      json.RawMessage(`{"op":"openat","target":"/dev/dri/renderD129"}`),
	}
	assertGolden(t, "event_deny.golden", event)
}

func TestEvent_GoldenMinimal(t *testing.T) {
	event := &Event{
		Timestamp: time.Date(2026, 2, 23, 14, 30, 0, 0, time.UTC),
		PID:       1,
		Exe:       "/bin/sh",
		EventType: EventPolicy,
		Summary:   "active",
	}
	assertGolden(t, "event_minimal.golden", event)
}

func assertGolden(t *testing.T, name string, event *Event) {
	t.Helper()
	got, err := json.Marshal(event)
	require.NoError(t, err)

	goldenPath := filepath.Join("testdata", name)
	if os.Getenv("UPDATE_GOLDEN") != "" {
		require.NoError(t, os.WriteFile(goldenPath, append(got, '\n'), 0o644))
		t.Skip("golden file updated")
	}

	expected, err := os.ReadFile(goldenPath)
	require.NoError(t, err, "golden file missing; run with UPDATE_GOLDEN=1 to create")
	assert.JSONEq(t, string(expected), string(got))
}
