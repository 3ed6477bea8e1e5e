package events

import (
	"fmt"

	"github.com/OldStager01/motortemp/pkg/models"
)

type Publisher struct {
	bus     *EventBus
	traceID string
}

func NewPublisher(bus *EventBus) *Publisher {
	return &Publisher{bus: bus}
}

func (p *Publisher) WithTraceID(traceID string) *Publisher {
	if p == nil {
		return nil
	}
	return &Publisher{
		bus:     p.bus,
		traceID: traceID,
	}
}

func (p *Publisher) publish(event *models.Event) {
	if p == nil || p.bus == nil {
		return
	}
	if p.traceID != "" {
		event.TraceID = p.traceID
	}
	p.bus.Publish(event)
}

func (p *Publisher) PredictionMade(result *models.PredictionResult) {
	msg := fmt.Sprintf("Prediction %.4f (%s)", result.Prediction, result.RiskLevel)
	event := models.NewEvent(models.EventTypePredictionMade, msg).
		WithSource(models.SourceSingle).
		WithSeverity(models.SeverityForRisk(result.RiskLevel)).
		WithData(result)
	p.publish(event)
}

func (p *Publisher) BatchCompleted(result *models.BatchResult) {
	msg := fmt.Sprintf("Batch completed: %d/%d succeeded", result.Succeeded(), result.TotalSamples)
	event := models.NewEvent(models.EventTypeBatchCompleted, msg).
		WithSource(models.SourceBatch).
		WithData(result)

	highest := models.RiskLow
	for _, item := range result.Predictions {
		if item.Success && item.RiskLevel.AtLeast(highest) {
			highest = item.RiskLevel
		}
	}
	event.WithSeverity(models.SeverityForRisk(highest))

	p.publish(event)
}

func (p *Publisher) ArtifactsLoaded(modelType string, scalerLoaded, modelLoaded bool) {
	msg := fmt.Sprintf("Artifacts loaded: model=%t scaler=%t", modelLoaded, scalerLoaded)
	event := models.NewEvent(models.EventTypeArtifactsLoaded, msg).
		WithData(map[string]interface{}{
			"model_type":    modelType,
			"model_loaded":  modelLoaded,
			"scaler_loaded": scalerLoaded,
		})
	if !scalerLoaded || !modelLoaded {
		event.WithSeverity(models.SeverityWarning)
	}
	p.publish(event)
}

func (p *Publisher) Error(source string, message string, err error) {
	event := models.NewEvent(models.EventTypeError, message).
		WithSource(source).
		WithSeverity(models.SeverityCritical).
		WithData(map[string]interface{}{
			"error": err.Error(),
		})
	p.publish(event)
}
