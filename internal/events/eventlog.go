// Package events provides the economy event log.
// Sales, purchases and every other cash movement are recorded here for
// clients and operators; the simulation never reads it back.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType defines the category of an economy event.
type EventType string

const (
	EventTypeSale           EventType = "SALE"
	EventTypePurchase       EventType = "PURCHASE"
	EventTypeSiteAdded      EventType = "SITE_ADDED"
	EventTypeSkillUnlocked  EventType = "SKILL_UNLOCKED"
	EventTypeGeologistBonus EventType = "GEOLOGIST_BONUS"
	EventTypeOfflineCredit  EventType = "OFFLINE_CREDIT"
	EventTypeAutoUpgradeSet EventType = "AUTO_UPGRADE_SET"
	EventTypeReset          EventType = "RESET"
)

// SalePayload describes one cart delivery at the market.
type SalePayload struct {
	Units      float64 `json:"units"`
	Cash       float64 `json:"cash"`
	Negotiated int     `json:"negotiated"`
}

// PurchasePayload describes a level or manager purchase.
type PurchasePayload struct {
	Subject     string  `json:"subject"`
	Levels      int     `json:"levels"`
	Cost        float64 `json:"cost"`
	NewLevel    int     `json:"new_level"`
	SkillPoints int     `json:"skill_points,omitempty"`
}

// SkillPayload describes a skill unlock.
type SkillPayload struct {
	Skill string `json:"skill"`
	Level int    `json:"level"`
}

// CashPayload carries a plain cash credit.
type CashPayload struct {
	Cash float64 `json:"cash"`
}

// OfflinePayload describes the credit granted when a save is restored.
type OfflinePayload struct {
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	Cash           float64 `json:"cash"`
}

// GameEvent represents an immutable record of an economy action.
type GameEvent struct {
	Seq       uint64      `json:"seq"`
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"` // Entity that caused it, e.g. "site:2", "cart"
	Payload   interface{} `json:"payload"`
	Tick      int64       `json:"tick"`
}

// DefaultCapacity bounds the log when no capacity is configured.
const DefaultCapacity = 1024

// EventLog is a bounded in-memory log. The oldest events are dropped once capacity is reached.
// Sequence numbers keep increasing so readers can resume with Since.
type EventLog struct {
	mu       sync.RWMutex
	events   []GameEvent
	capacity int
	nextSeq  uint64
}

// NewEventLog creates an event log holding at most capacity events.
func NewEventLog(capacity int) *EventLog {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &EventLog{
		events:   make([]GameEvent, 0, capacity),
		capacity: capacity,
		nextSeq:  1,
	}
}

// Append adds an event, assigning its sequence number and filling ID and Timestamp when empty.
func (el *EventLog) Append(event GameEvent) GameEvent {
	el.mu.Lock()
	defer el.mu.Unlock()

	event.Seq = el.nextSeq
	el.nextSeq++
	if event.ID == "" {
		event.ID = GenerateEventID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if len(el.events) == el.capacity {
		copy(el.events, el.events[1:])
		el.events = el.events[:len(el.events)-1]
	}
	el.events = append(el.events, event)
	return event
}

// Since returns the retained events with a sequence number greater than seq.
func (el *EventLog) Since(seq uint64) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.Seq > seq {
			result = append(result, e)
		}
	}
	return result
}

// GetByActor returns the retained events caused by actorID.
func (el *EventLog) GetByActor(actorID string) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.ActorID == actorID {
			result = append(result, e)
		}
	}
	return result
}

// Replay returns a copy of every retained event, oldest first.
func (el *EventLog) Replay() []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()
	out := make([]GameEvent, len(el.events))
	copy(out, el.events)
	return out
}

// LastSeq is the sequence number of the newest event, 0 when none was appended.
func (el *EventLog) LastSeq() uint64 {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return el.nextSeq - 1
}

// GenerateEventID creates a unique event identifier.
func GenerateEventID() string {
	return uuid.NewString()
}
