package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/OldStager01/motortemp/pkg/models"
)

// Sink receives every prediction recorded from the event stream
type Sink interface {
	Name() string
	Write(ctx context.Context, records []*models.PredictionRecord) error
}

type PredictionWriter interface {
	Insert(ctx context.Context, rec *models.PredictionRecord) error
	InsertBatch(ctx context.Context, recs []*models.PredictionRecord) error
}

// PostgresSink appends predictions to the history table
type PostgresSink struct {
	repo PredictionWriter
}

func NewPostgresSink(repo PredictionWriter) *PostgresSink {
	return &PostgresSink{repo: repo}
}

func (s *PostgresSink) Name() string {
	return "postgres"
}

func (s *PostgresSink) Write(ctx context.Context, records []*models.PredictionRecord) error {
	if len(records) == 1 {
		return s.repo.Insert(ctx, records[0])
	}
	return s.repo.InsertBatch(ctx, records)
}

type RedisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisSink publishes each prediction as JSON on a pub/sub channel
type RedisSink struct {
	client  RedisPublisher
	channel string
}

func NewRedisSink(client RedisPublisher, channel string) *RedisSink {
	return &RedisSink{client: client, channel: channel}
}

func (s *RedisSink) Name() string {
	return "redis"
}

func (s *RedisSink) Write(ctx context.Context, records []*models.PredictionRecord) error {
	for _, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to encode prediction: %w", err)
		}
		if err := s.client.Publish(ctx, s.channel, data).Err(); err != nil {
			return fmt.Errorf("redis publish to %s failed: %w", s.channel, err)
		}
	}
	return nil
}
