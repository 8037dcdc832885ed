// Package engine - shaft_system.go
// Site production: every site fills toward its capacity and may pay a geologist bonus.
package engine

import (
	"fmt"
	"math"

	"github.com/Qenawi/idle-mining/internal/domain/mine"
	"github.com/Qenawi/idle-mining/internal/domain/rules"
	"github.com/Qenawi/idle-mining/internal/events"
	"github.com/Qenawi/idle-mining/internal/platform/logger"
)

// ShaftSystem advances production at every extraction site.
type ShaftSystem struct {
	balance  rules.Balance
	roller   Roller
	eventLog *events.EventLog
	logger   *logger.Logger
}

// NewShaftSystem creates the site production system.
func NewShaftSystem(balance rules.Balance, roller Roller, eventLog *events.EventLog, log *logger.Logger) *ShaftSystem {
	return &ShaftSystem{
		balance:  balance,
		roller:   roller,
		eventLog: eventLog,
		logger:   log,
	}
}

// Update produces dt seconds of output at every site.
// Geologist bonuses are rolled once per site per tick and paid straight to cash.
func (ss *ShaftSystem) Update(st *mine.State, dt float64, tick int64) {
	for i := range st.Sites {
		site := &st.Sites[i]

		production := ss.balance.SiteProduction(site)
		capacity := ss.balance.SiteCapacity(site)
		site.Accumulated = math.Min(capacity, site.Accumulated+production*dt)

		chance := ss.balance.GeologistChanceFor(site)
		if chance <= 0 || ss.roller.Float64() >= chance {
			continue
		}
		bonus := ss.balance.GeologistBonus(site, st.Resources.Value(site.ResourceID))
		st.Cash += bonus

		actor := siteActor(site.ID)
		emit(ss.eventLog, events.EventTypeGeologistBonus, actor, events.CashPayload{Cash: bonus}, tick)
		ss.logger.Event(string(events.EventTypeGeologistBonus), actor, fmt.Sprintf("bonus %.2f", bonus))
	}
}

func siteActor(id int) string {
	return fmt.Sprintf("site:%d", id)
}
