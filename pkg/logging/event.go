package logging

import (
	"encoding/json"
	"time"
)

// Event is one line of the hiding event log.
// Required fields: Timestamp, RunID, PID, Exe, EventType, Summary.
type Event struct {
	Timestamp time.Time       `json:"ts"`
	RunID     string          `json:"run_id"`
	PID       int             `json:"pid"`
	Exe       string          `json:"exe"`
	EventType string          `json:"event_type"`
	Summary   string          `json:"summary"`
	Data      json.RawMessage `json:"data,omitempty"`
}

const (
	EventPolicy    = "policy"
	EventDiscovery = "discovery"
	EventDeny      = "deny"
)

// PolicyData is the data payload for policy events.
type PolicyData struct {
	Active       bool   `json:"active"`
	Reason       string `json:"reason"`
	HasAllow     bool   `json:"has_allow"`
	AllowPattern string `json:"allow_pattern,omitempty"`
	DenyPattern  string `json:"deny_pattern,omitempty"`
}

// DiscoveryData is the data payload for discovery events.
type DiscoveryData struct {
	Nodes []string `json:"nodes"`
	BDFs  []string `json:"bdfs"`
}

// DenyData is the data payload for deny events.
type DenyData struct {
	Op     string `json:"op"` // "open", "openat2", "dlopen"
	Target string `json:"target"`
}
