package extractor

import "time"

// Request is the material for one tagging call.
type Request struct {
	Notes       string
	CV          string
	Model       string   // preset name or model id; empty uses the client default
	Temperature *float64 // nil uses the client default
	Now         time.Time
}

// TagRequestedEvent is the NATS payload asking for a profile to be tagged.
type TagRequestedEvent struct {
	RequestID   string   `json:"request_id"`
	Notes       string   `json:"notes"`
	CVText      string   `json:"cv_text"`
	Model       string   `json:"model,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	Source      string   `json:"source,omitempty"` // e.g. "api", "batch", "slack"
}
