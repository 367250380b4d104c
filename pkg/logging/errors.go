package logging

import "errors"

var (
	ErrOpenEventLog    = errors.New("logging: open event log")
	ErrAppendEvent     = errors.New("logging: append event")
	ErrEncodeEvent     = errors.New("logging: encode event")
	ErrEncodeEventData = errors.New("logging: encode event data")
)
