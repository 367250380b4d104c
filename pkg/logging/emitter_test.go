package logging

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureSink records events in memory for test assertions.
type captureSink struct {
	mu     sync.Mutex
	events []*Event
}

func (s *captureSink) Write(event *Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *event
	s.events = append(s.events, &cp)
	return nil
}

func TestEmitter_MetadataStamping(t *testing.T) {
	sink := &captureSink{}
	emitter := NewEmitter(EmitterConfig{RunID: "run-123", PID: 42, Exe: "/usr/bin/firefox"}, sink)

	err := emitter.Emit(EventDeny, "open /dev/nvidia0", nil)
	require.NoError(t, err)

	require.Len(t, sink.events, 1)
	event := sink.events[0]
	assert.Equal(t, "run-123", event.RunID)
	assert.Equal(t, 42, event.PID)
	assert.Equal(t, "/usr/bin/firefox", event.Exe)
	assert.Equal(t, EventDeny, event.EventType)
	assert.Equal(t, "open /dev/nvidia0", event.Summary)
	assert.True(t, event.Timestamp.UTC().Equal(event.Timestamp), "timestamp should be UTC")
}

func TestEmitter_DataMarshaling(t *testing.T) {
	sink := &captureSink{}
	emitter := NewEmitter(EmitterConfig{RunID: "r"}, sink)

	err := emitter.Emit(EventDeny, "dlopen", &DenyData{Op: "dlopen", Target: "libGLX_nvidia.so.0"})
	require.NoError(t, err)

	require.Len(t, sink.events, 1)
	var parsed DenyData
	require.NoError(t, json.Unmarshal(sink.events[0].Data, &parsed))
	assert.Equal(t, "dlopen", parsed.Op)
	assert.Equal(t, "libGLX_nvidia.so.0", parsed.Target)
}

func TestEmitter_NilData(t *testing.T) {
	sink := &captureSink{}
	emitter := NewEmitter(EmitterConfig{RunID: "r"}, sink)

	require.NoError(t, emitter.Emit(EventPolicy, "test", nil))
	require.Len(t, sink.events, 1)
	assert.Nil(t, sink.events[0].Data)
}

func TestEmitter_UnmarshalableData(t *testing.T) {
	emitter := NewEmitter(EmitterConfig{}, &captureSink{})
	err := emitter.Emit(EventPolicy, "bad", make(chan int))
	assert.ErrorIs(t, err, ErrEncodeEventData)
}

func TestEmitter_NilIsNoop(t *testing.T) {
	var emitter *Emitter
	assert.NoError(t, emitter.Emit(EventDeny, "x", nil))
}

func TestEmitter_FixedClock(t *testing.T) {
	sink := &captureSink{}
	emitter := NewEmitter(EmitterConfig{}, sink)
	fixed := time.Date(2026, 10, 18, 9, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	emitter.now = func() time.Time { return fixed }

	require.NoError(t, emitter.Emit(EventPolicy, "x", nil))
	assert.Equal(t, fixed.UTC(), sink.events[0].Timestamp)
}

func TestEmitter_MultiSink(t *testing.T) {
	sink1 := &captureSink{}
	sink2 := &captureSink{}
	emitter := NewEmitter(EmitterConfig{RunID: "r"}, sink1, sink2)

	require.NoError(t, emitter.Emit(EventDiscovery, "test", nil))
	assert.Len(t, sink1.events, 1)
	assert.Len(t, sink2.events, 1)
}

type errorSink struct{ err error }

func (s *errorSink) Write(*Event) error { return s.err }

func TestEmitter_SinkErrorPropagation(t *testing.T) {
	emitter := NewEmitter(EmitterConfig{RunID: "r"}, &errorSink{err: errors.New("write failed")})
	assert.Error(t, emitter.Emit(EventDeny, "test", nil))
}

func TestEmitter_StopsAtFirstSinkError(t *testing.T) {
	after := &captureSink{}
	emitter := NewEmitter(EmitterConfig{RunID: "r"}, &errorSink{err: errors.New("disk full")}, after)

	err := emitter.Emit(EventDeny, "test", nil)
	require.EqualError(t, err, "disk full")
	assert.Empty(t, after.events)
}
