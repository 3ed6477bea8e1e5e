package websocket

import (
	"context"

	"github.com/OldStager01/motortemp/internal/logger"
	"github.com/OldStager01/motortemp/pkg/models"
)

// EventBridge forwards prediction events from the event bus to WebSocket clients
type EventBridge struct {
	hub        *Hub
	eventsChan <-chan *models.Event
	ctx        context.Context
	cancel     context.CancelFunc
	done       chan struct{}
}

func NewEventBridge(hub *Hub, eventsChan <-chan *models.Event) *EventBridge {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventBridge{
		hub:        hub,
		eventsChan: eventsChan,
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
}

func (b *EventBridge) Start() {
	go b.run()
	logger.WithComponent("websocket").Info("Event bridge started")
}

func (b *EventBridge) Stop() {
	b.cancel()
	<-b.done
	logger.WithComponent("websocket").Info("Event bridge stopped")
}

func (b *EventBridge) run() {
	defer close(b.done)

	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-b.eventsChan:
			if !ok {
				logger.Info("Event channel closed, stopping bridge")
				return
			}
			b.forwardEvent(event)
		}
	}
}

func (b *EventBridge) forwardEvent(event *models.Event) {
	switch data := event.Data.(type) {
	case *models.PredictionResult:
		msg := newPredictionMessage(event.Source, nil, data, event.TraceID)
		b.hub.BroadcastPrediction(data.RiskLevel, msg.JSON())

	case *models.BatchResult:
		for _, item := range data.Predictions {
			if !item.Success || item.Result == nil {
				continue
			}
			index := item.SampleIndex
			msg := newPredictionMessage(event.Source, &index, item.Result, event.TraceID)
			b.hub.BroadcastPrediction(item.Result.RiskLevel, msg.JSON())
		}

	default:
		if event.Type != models.EventTypeArtifactsLoaded && event.Type != models.EventTypeError {
			return
		}
		msg := NewMessage(MessageTypeStatus, StatusData{
			Event:    string(event.Type),
			Severity: string(event.Severity),
			Message:  event.Message,
			Details:  event.Data,
		})
		msg.TraceID = event.TraceID
		b.hub.Broadcast(msg.JSON())
	}
}
