package dashboard

import "encoding/json"

// Server→client event names. Per-category stat replies are "set" + request
// name ("hostelStats" → "sethostelStats").
const (
	EventAnalyticsUpdate    = "analyticsUpdate"
	EventSetResolution      = "setResolution"
	EventPing               = "ping"
	EventSetCowDashboard    = "setCowDashboardData"
	EventSetWardenDashboard = "setWardenDashboardData"
)

// Client→server event names.
const (
	EventPong            = "pong"
	EventCowDashboard    = "cowDashboardData"
	EventWardenDashboard = "getWardenDashboardData"
)

// Event is one frame on the channel, either direction.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// clientEvent is the decoded form of an incoming frame.
type clientEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}
