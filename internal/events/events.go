package events

import (
	"sync"

	"github.com/OldStager01/motortemp/internal/logger"
	"github.com/OldStager01/motortemp/internal/metrics"
	"github.com/OldStager01/motortemp/pkg/models"
)

type subscription struct {
	name  string
	types map[models.EventType]bool // nil receives every type
	ch    chan *models.Event
}

func (s *subscription) wants(t models.EventType) bool {
	return s.types == nil || s.types[t]
}

// BusStats counts delivered and dropped events per subscriber.
type BusStats struct {
	Published int64
	Delivered map[string]int64
	Dropped   map[string]int64
}

// EventBus fans prediction and lifecycle events out to named subscribers.
type EventBus struct {
	mu         sync.RWMutex
	subs       []*subscription
	bufferSize int
	closed     bool

	statsMu sync.Mutex
	stats   BusStats
}

func NewEventBus(bufferSize int) *EventBus {
	if bufferSize <= 0 {
		bufferSize = 100
	}
	return &EventBus{
		bufferSize: bufferSize,
		stats: BusStats{
			Delivered: make(map[string]int64),
			Dropped:   make(map[string]int64),
		},
	}
}

// Subscribe registers a named subscriber for the given event types, or for
// every type when none are listed. The channel is closed by Close.
func (b *EventBus) Subscribe(name string, types ...models.EventType) <-chan *models.Event {
	sub := &subscription{
		name: name,
		ch:   make(chan *models.Event, b.bufferSize),
	}
	if len(types) > 0 {
		sub.types = make(map[models.EventType]bool, len(types))
		for _, t := range types {
			sub.types[t] = true
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		close(sub.ch)
		return sub.ch
	}
	b.subs = append(b.subs, sub)
	return sub.ch
}

// Publish never blocks: a subscriber whose buffer is full misses the event.
func (b *EventBus) Publish(event *models.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	var delivered, dropped []string
	for _, sub := range b.subs {
		if !sub.wants(event.Type) {
			continue
		}
		select {
		case sub.ch <- event:
			delivered = append(delivered, sub.name)
		default:
			dropped = append(dropped, sub.name)
			metrics.Get().IncEventDropped(string(event.Type))
			logger.WithFields(map[string]interface{}{
				"subscriber": sub.name,
				"event_type": event.Type,
			}).Warn("Subscriber buffer full, dropping event")
		}
	}

	b.statsMu.Lock()
	b.stats.Published++
	for _, name := range delivered {
		b.stats.Delivered[name]++
	}
	for _, name := range dropped {
		b.stats.Dropped[name]++
	}
	b.statsMu.Unlock()
}

func (b *EventBus) Stats() BusStats {
	b.statsMu.Lock()
	defer b.statsMu.Unlock()

	out := BusStats{
		Published: b.stats.Published,
		Delivered: make(map[string]int64, len(b.stats.Delivered)),
		Dropped:   make(map[string]int64, len(b.stats.Dropped)),
	}
	for k, v := range b.stats.Delivered {
		out.Delivered[k] = v
	}
	for k, v := range b.stats.Dropped {
		out.Dropped[k] = v
	}
	return out
}

// Close closes every subscriber channel. Later publishes are ignored.
func (b *EventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for _, sub := range b.subs {
		close(sub.ch)
	}
	b.subs = nil
}
