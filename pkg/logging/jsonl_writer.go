package logging

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/jingkaihe/nvidia-hide/internal/errx"
)

// JSONLWriter appends events as JSON lines to a file shared by every
// process of a run. The file is opened on the first event and stays
// open until the process exits, so processes that never deny anything
// never touch it.
type JSONLWriter struct {
	path string

	mu      sync.Mutex
	file    *os.File
	openErr error
}

func NewJSONLWriter(path string) *JSONLWriter {
	return &JSONLWriter{path: path}
}

func (w *JSONLWriter) Path() string {
	return w.path
}

// Write appends event as one line with a single write(2). The file is
// opened with O_APPEND, so lines from concurrent processes do not
// interleave. A failed open is remembered and returned for every later
// event.
func (w *JSONLWriter) Write(event *Event) error {
	line, err := json.Marshal(event)
	if err != nil {
		return errx.Wrap(ErrEncodeEvent, err)
	}
	line = append(line, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.open(); err != nil {
		return err
	}
	if _, err := w.file.Write(line); err != nil {
		return errx.Wrap(ErrAppendEvent, err)
	}
	return nil
}

func (w *JSONLWriter) open() error {
	if w.file != nil || w.openErr != nil {
		return w.openErr
	}
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		w.openErr = errx.Wrap(ErrOpenEventLog, err)
		return w.openErr
	}
	w.file = f
	return nil
}
