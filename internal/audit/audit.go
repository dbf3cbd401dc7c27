// Package audit publishes domain events on the rpg-toolkit event bus and
// records them in the structured log
package audit

import (
	"context"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/events"
)

// Event types
const (
	EventCharacterCreated = "dungeon_master.character.created"
	EventCharacterUpdated = "dungeon_master.character.updated"
	EventCharacterDeleted = "dungeon_master.character.deleted"
	EventDiceRolled       = "dungeon_master.dice.rolled"
)

// EventTypes lists every event the logger subscribes to
var EventTypes = []string{
	EventCharacterCreated,
	EventCharacterUpdated,
	EventCharacterDeleted,
	EventDiceRolled,
}

// Event context keys
const (
	KeySessionID  = "session_id"
	KeySummary    = "summary"
	KeyVersion    = "version"
	KeyExpression = "expression"
	KeyReason     = "reason"
	KeyTotal      = "total"
)

// auditPriority runs the logger after any gameplay handlers
const auditPriority = 1000

// Publish emits an event of eventType with source as the acting entity.
// Values are attached to the event context. A nil bus is a no-op.
func Publish(ctx context.Context, bus events.EventBus, eventType string, source core.Entity, values map[string]interface{}) {
	if bus == nil {
		return
	}

	event := events.NewGameEvent(eventType, source, nil)
	for k, v := range values {
		event.Context().Set(k, v)
	}

	if err := bus.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish event",
			"event", eventType,
			"error", err.Error())
	}
}

// Logger subscribes to domain events and writes one log line per event
type Logger struct {
	mu            sync.Mutex
	bus           events.EventBus
	subscriptions []string
	counts        map[string]int
}

// NewLogger subscribes a logger to every event type on bus
func NewLogger(bus events.EventBus) *Logger {
	l := &Logger{
		bus:    bus,
		counts: make(map[string]int),
	}
	for _, eventType := range EventTypes {
		id := bus.SubscribeFunc(eventType, auditPriority, l.handle)
		l.subscriptions = append(l.subscriptions, id)
	}
	return l
}

func (l *Logger) handle(ctx context.Context, event events.Event) error {
	l.mu.Lock()
	l.counts[event.Type()]++
	l.mu.Unlock()

	attrs := []any{"event", event.Type()}
	if source := event.Source(); source != nil {
		attrs = append(attrs,
			"entity_type", source.GetType(),
			"entity_id", source.GetID())
	}
	slog.InfoContext(ctx, "audit", attrs...)
	return nil
}

// Count returns how many events of eventType were seen
func (l *Logger) Count(eventType string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counts[eventType]
}

// Close removes the logger's subscriptions
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, id := range l.subscriptions {
		if err := l.bus.Unsubscribe(id); err != nil {
			return err
		}
	}
	l.subscriptions = nil
	return nil
}
