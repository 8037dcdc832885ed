// Package engine - offline.go
// Closed-form steady-state income, used for offline credit and display.
package engine

import (
	"encoding/json"
	"math"
	"time"

	"github.com/Qenawi/idle-mining/internal/domain/mine"
	"github.com/Qenawi/idle-mining/internal/domain/rules"
)

// OfflineReport is the credit granted for time spent away.
type OfflineReport struct {
	Elapsed  time.Duration
	Earnings float64
}

func (r OfflineReport) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ElapsedSeconds float64 `json:"elapsedSeconds"`
		Earnings       float64 `json:"earnings"`
	}{r.Elapsed.Seconds(), r.Earnings})
}

// IdleIncome estimates cash per second as the slowest of three stages:
// site production, elevator throughput and cart throughput, valued at the
// production-weighted average resource value.
func IdleIncome(b rules.Balance, st *mine.State) float64 {
	if len(st.Sites) == 0 {
		return 0
	}

	totalUnits, totalValue := 0.0, 0.0
	for i := range st.Sites {
		production := b.SiteProduction(&st.Sites[i])
		totalUnits += production
		totalValue += production * st.Resources.Value(st.Sites[i].ResourceID)
	}
	if totalUnits <= 0 {
		return 0
	}
	avgValue := totalValue / totalUnits

	e := &st.Elevator
	n := float64(len(st.Sites))
	elevatorAction := b.ElevatorActionMillisFor(e) / 1000
	travelPerSite := b.SitePositionIncrement / b.ElevatorSpeed(e)
	elevatorCycle := n*travelPerSite*2 + n*elevatorAction*2
	elevatorRate := math.Inf(1)
	if elevatorCycle > 0 {
		elevatorRate = b.ElevatorCapacity(e) / elevatorCycle
	}

	c := &st.Cart
	cartCycle := 2*b.CartActionMillis/1000 + 2*b.CartTravelDistance/b.CartSpeed(c)
	cartRate := math.Inf(1)
	if cartCycle > 0 {
		cartRate = b.CartCapacity(c) / cartCycle
	}

	return math.Min(totalUnits, math.Min(elevatorRate, cartRate)) * avgValue
}

// EstimateOffline credits a gap at the idle income rate, floored to whole cash.
// Gaps at or below the minimum earn nothing.
func EstimateOffline(b rules.Balance, st *mine.State, gap time.Duration) OfflineReport {
	if gap <= b.OfflineMinGap() {
		return OfflineReport{}
	}
	earnings := math.Floor(IdleIncome(b, st) * gap.Seconds())
	if earnings < 0 || math.IsNaN(earnings) || math.IsInf(earnings, 0) {
		earnings = 0
	}
	return OfflineReport{Elapsed: gap, Earnings: earnings}
}
