package simulate

import "time"

// Config holds configuration for the render event generator
type Config struct {
	BaseURL    string        // Base URL of the inspector service
	NumEvents  int           // Number of render events to generate
	Components int           // Number of distinct component instances
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Output file for events
	LogFile    string        // Log file for generator output
	Verbose    bool          // Enable verbose logging
}

// Event is the wire payload submitted to POST /events
type Event struct {
	UID              string   `json:"uid"`
	ComponentName    string   `json:"componentName"`
	Timestamp        int64    `json:"timestamp,omitempty"`
	Duration         *float64 `json:"duration,omitempty"`
	Reason           string   `json:"reason,omitempty"`
	IsUnnecessary    bool     `json:"isUnnecessary"`
	TriggerMechanism string   `json:"triggerMechanism,omitempty"`
	TriggerSource    string   `json:"triggerSource,omitempty"`
	EnhancedPatterns []string `json:"enhancedPatterns,omitempty"`
}

// ComponentSummary mirrors the entries returned by GET /components
type ComponentSummary struct {
	UID                string `json:"uid"`
	ComponentName      string `json:"componentName"`
	TotalRenders       int    `json:"totalRenders"`
	UnnecessaryRenders int    `json:"unnecessaryRenders"`
}

// Storm mirrors the entries returned by GET /storms
type Storm struct {
	Key      string `json:"key"`
	Count    int    `json:"count"`
	Severity string `json:"severity"`
}

// AckResponse represents the response from event submission
type AckResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

// Stats holds generator statistics
type Stats struct {
	EventsGenerated   int
	EventsSubmitted   int
	EventsSuccessful  int
	EventsFailed      int
	ComponentsTracked int
	StormsDetected    int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
