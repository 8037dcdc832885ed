package engine

import (
	"math/rand"
	"time"

	"github.com/Qenawi/idle-mining/internal/events"
)

// Roller supplies uniform draws in [0,1) for every probabilistic skill.
// *rand.Rand satisfies it; tests inject fixed sequences.
type Roller interface {
	Float64() float64
}

// NewRandRoller returns a seeded source. A zero seed uses the current time.
func NewRandRoller(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

// Now returns the current time using the system clock.
func (RealClock) Now() time.Time {
	return time.Now()
}

// emit appends an economy event stamped with the current tick.
func emit(log *events.EventLog, eventType events.EventType, actor string, payload interface{}, tick int64) {
	if log == nil {
		return
	}
	log.Append(events.GameEvent{
		Type:    eventType,
		ActorID: actor,
		Payload: payload,
		Tick:    tick,
	})
}
