package logging

import (
	"encoding/json"
	"time"

	"github.com/jingkaihe/nvidia-hide/internal/errx"
)

// Sink receives every emitted event until the process exits. Sinks are
// shared by all threads of the process.
type Sink interface {
	Write(event *Event) error
}

// EmitterConfig holds the process metadata stamped onto every event.
type EmitterConfig struct {
	RunID string
	PID   int
	Exe   string
}

// Emitter stamps events with process metadata and dispatches them to
// sinks.
//
// A nil *Emitter is valid and drops every event.
type Emitter struct {
	config EmitterConfig
	sinks  []Sink
	now    func() time.Time
}

func NewEmitter(cfg EmitterConfig, sinks ...Sink) *Emitter {
	return &Emitter{
		config: cfg,
		sinks:  sinks,
		now:    time.Now,
	}
}

// Emit writes one event to all sinks and returns the first error.
// Callers log the error at debug level and carry on.
func (e *Emitter) Emit(eventType, summary string, data any) error {
	if e == nil {
		return nil
	}
	var rawData json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return errx.Wrap(ErrEncodeEventData, err)
		}
		rawData = b
	}

	event := &Event{
		Timestamp: e.now().UTC(),
		RunID:     e.config.RunID,
		PID:       e.config.PID,
		Exe:       e.config.Exe,
		EventType: eventType,
		Summary:   summary,
		Data:      rawData,
	}

	for _, sink := range e.sinks {
		if err := sink.Write(event); err != nil {
			return err
		}
	}
	return nil
}
