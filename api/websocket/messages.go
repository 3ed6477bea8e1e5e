package websocket

import (
	"encoding/json"
	"time"

	"github.com/OldStager01/motortemp/pkg/models"
)

type MessageType string

const (
	MessageTypePrediction   MessageType = "prediction"
	MessageTypeStatus       MessageType = "status"
	MessageTypeSubscription MessageType = "subscription_update"
	MessageTypeError        MessageType = "error"
)

type OutgoingMessage struct {
	Type      MessageType      `json:"type"`
	Timestamp time.Time        `json:"timestamp"`
	RiskLevel models.RiskLevel `json:"risk_level,omitempty"`
	TraceID   string           `json:"trace_id,omitempty"`
	Data      interface{}      `json:"data"`
}

func NewMessage(msgType MessageType, data interface{}) *OutgoingMessage {
	return &OutgoingMessage{
		Type:      msgType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

func (m *OutgoingMessage) JSON() []byte {
	data, _ := json.Marshal(m)
	return data
}

// PredictionData is the payload of a prediction message
type PredictionData struct {
	Source        string               `json:"source"`
	SampleIndex   *int                 `json:"sample_index,omitempty"`
	Prediction    float64              `json:"prediction"`
	RiskLevel     models.RiskLevel     `json:"risk_level"`
	InputFeatures models.FeatureRecord `json:"input_features"`
	Timestamp     time.Time            `json:"timestamp"`
}

type StatusData struct {
	Event    string      `json:"event"`
	Severity string      `json:"severity"`
	Message  string      `json:"message"`
	Details  interface{} `json:"details,omitempty"`
}

type SubscriptionData struct {
	Action    string           `json:"action"`
	RiskLevel models.RiskLevel `json:"risk_level,omitempty"`
}

// IncomingMessage is a control frame sent by a client
type IncomingMessage struct {
	Type      string `json:"type"`
	RiskLevel string `json:"risk_level,omitempty"`
}

func newPredictionMessage(source string, index *int, result *models.PredictionResult, traceID string) *OutgoingMessage {
	msg := NewMessage(MessageTypePrediction, PredictionData{
		Source:        source,
		SampleIndex:   index,
		Prediction:    result.Prediction,
		RiskLevel:     result.RiskLevel,
		InputFeatures: result.InputFeatures,
		Timestamp:     result.Timestamp,
	})
	msg.RiskLevel = result.RiskLevel
	msg.TraceID = traceID
	return msg
}
