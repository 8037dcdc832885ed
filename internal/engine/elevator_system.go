// Package engine - elevator_system.go
// The elevator sweeps sites top to bottom once per trip, then unloads into its home storage.
package engine

import (
	"math"

	"github.com/Qenawi/idle-mining/internal/domain/mine"
	"github.com/Qenawi/idle-mining/internal/domain/rules"
	"github.com/Qenawi/idle-mining/internal/platform/logger"
)

// ElevatorSystem runs the elevator state machine.
type ElevatorSystem struct {
	balance rules.Balance
	logger  *logger.Logger
}

// NewElevatorSystem creates the elevator system.
func NewElevatorSystem(balance rules.Balance, log *logger.Logger) *ElevatorSystem {
	return &ElevatorSystem{balance: balance, logger: log}
}

// Update advances the elevator by dt seconds.
func (es *ElevatorSystem) Update(st *mine.State, dt float64) {
	e := &st.Elevator
	capacity := es.balance.ElevatorCapacity(e)
	speed := es.balance.ElevatorSpeed(e)

	switch e.Status {
	case mine.ElevatorIdle:
		load := e.Load.Total()
		if next := nextSiteWithResources(st.Sites, 0); next != nil && load < capacity {
			es.headTo(e, next)
			e.Status = mine.ElevatorMovingDown
		} else if load > 0 {
			headHome(e)
			e.Status = mine.ElevatorMovingUp
		}

	case mine.ElevatorMovingDown:
		if e.TargetPosition == nil || e.TargetSiteID == nil {
			headHome(e)
			e.Status = mine.ElevatorMovingUp
			return
		}
		move := speed * dt
		if e.Position+move < *e.TargetPosition {
			e.Position += move
			return
		}

		e.Position = *e.TargetPosition
		site := st.Site(*e.TargetSiteID)
		if site != nil {
			amount := math.Min(site.Accumulated, capacity-e.Load.Total())
			if amount > 0 {
				e.Load.Add(site.ResourceID, amount)
				site.Accumulated -= amount
			}
		}

		// One sweep per trip: only sites below the current one are considered.
		if e.Load.Total() < capacity && site != nil {
			if next := nextSiteWithResources(st.Sites, site.ID+1); next != nil {
				es.headTo(e, next)
				return
			}
		}
		headHome(e)
		e.Status = mine.ElevatorMovingUp

	case mine.ElevatorMovingUp:
		e.Position = math.Max(0, e.Position-speed*dt)
		if e.Position <= 0 {
			e.Position = 0
			e.TargetPosition = nil
			e.TargetSiteID = nil
			e.Status = mine.ElevatorDepositing
			e.ActionTimer = mine.Timer(es.balance.ElevatorActionMillisFor(e))
		}

	case mine.ElevatorDepositing:
		if !elapse(&e.ActionTimer, dt) {
			return
		}
		es.unload(e)
		e.Status = mine.ElevatorIdle

	default:
		es.logger.Warn("elevator in unknown state " + e.Status.String() + ", resetting to idle")
		headHome(e)
		e.Position = 0
		e.Status = mine.ElevatorIdle
	}
}

// unload moves load into storage in insertion order until storage is full.
// Whatever does not fit stays in the load for the next trip.
func (es *ElevatorSystem) unload(e *mine.Elevator) {
	space := es.balance.ElevatorStorageCapacity(e) - e.Storage.Total()
	for _, id := range e.Load.IDs() {
		if space <= 0 {
			break
		}
		moved := e.Load.Take(id, math.Min(e.Load.Get(id), space))
		e.Storage.Add(id, moved)
		space -= moved
	}
}

func (es *ElevatorSystem) headTo(e *mine.Elevator, site *mine.Site) {
	target := es.balance.ElevatorStop(site)
	id := site.ID
	e.TargetPosition = &target
	e.TargetSiteID = &id
}

func headHome(e *mine.Elevator) {
	home := 0.0
	e.TargetPosition = &home
	e.TargetSiteID = nil
}

// nextSiteWithResources returns the first site at index from or later holding anything.
func nextSiteWithResources(sites []mine.Site, from int) *mine.Site {
	for i := from; i < len(sites); i++ {
		if sites[i].Accumulated > 0 {
			return &sites[i]
		}
	}
	return nil
}

// elapse runs an action timer down by dt seconds and reports expiry.
// A missing timer counts as already expired. Expired timers are cleared.
func elapse(timer **float64, dt float64) bool {
	if *timer != nil {
		**timer -= dt * 1000
		if **timer > 0 {
			return false
		}
	}
	*timer = nil
	return true
}
