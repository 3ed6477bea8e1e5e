package models

import "time"

type EventType string

const (
	EventTypePredictionMade  EventType = "prediction_made"
	EventTypeBatchCompleted  EventType = "batch_completed"
	EventTypeArtifactsLoaded EventType = "artifacts_loaded"
	EventTypeError           EventType = "error"
)

type EventSeverity string

const (
	SeverityInfo     EventSeverity = "info"
	SeverityWarning  EventSeverity = "warning"
	SeverityCritical EventSeverity = "critical"
)

// Event represents an internal system event
type Event struct {
	ID        string        `json:"id"`
	Type      EventType     `json:"type"`
	Severity  EventSeverity `json:"severity"`
	Source    string        `json:"source,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	Message   string        `json:"message"`
	Data      interface{}   `json:"data,omitempty"`
	TraceID   string        `json:"trace_id,omitempty"`
}

func NewEvent(eventType EventType, message string) *Event {
	return &Event{
		ID:        NewUUID(),
		Type:      eventType,
		Severity:  SeverityInfo,
		Timestamp: time.Now(),
		Message:   message,
	}
}

func (e *Event) WithSeverity(severity EventSeverity) *Event {
	e.Severity = severity
	return e
}

func (e *Event) WithData(data interface{}) *Event {
	e.Data = data
	return e
}

func (e *Event) WithSource(source string) *Event {
	e.Source = source
	return e
}

func (e *Event) WithTraceID(traceID string) *Event {
	e.TraceID = traceID
	return e
}

// SeverityForRisk maps a risk level to the event severity used for alerts
func SeverityForRisk(r RiskLevel) EventSeverity {
	switch r {
	case RiskCritical:
		return SeverityCritical
	case RiskWarning:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}
