package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventLog_AssignsSequenceAndID(t *testing.T) {
	log := NewEventLog(4)

	e := log.Append(GameEvent{Type: EventTypeSale, ActorID: "cart"})

	assert.Equal(t, uint64(1), e.Seq)
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, uint64(1), log.LastSeq())
}

func TestEventLog_DropsOldestAtCapacity(t *testing.T) {
	log := NewEventLog(3)
	for i := 0; i < 5; i++ {
		log.Append(GameEvent{Type: EventTypePurchase})
	}

	all := log.Replay()
	require.Len(t, all, 3)
	assert.Equal(t, uint64(3), all[0].Seq)
	assert.Equal(t, uint64(5), all[2].Seq)
}

func TestEventLog_Since(t *testing.T) {
	log := NewEventLog(10)
	log.Append(GameEvent{Type: EventTypeSale, ActorID: "cart"})
	log.Append(GameEvent{Type: EventTypePurchase, ActorID: "site:0"})
	log.Append(GameEvent{Type: EventTypeSale, ActorID: "cart"})

	newer := log.Since(1)
	require.Len(t, newer, 2)
	assert.Equal(t, EventTypePurchase, newer[0].Type)

	assert.Empty(t, log.Since(log.LastSeq()))
	assert.Len(t, log.GetByActor("cart"), 2)
}
