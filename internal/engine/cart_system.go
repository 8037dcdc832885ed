// Package engine - cart_system.go
// The cart shuttles elevator storage to the market and back.
package engine

import (
	"math"

	"github.com/Qenawi/idle-mining/internal/domain/mine"
	"github.com/Qenawi/idle-mining/internal/domain/rules"
	"github.com/Qenawi/idle-mining/internal/platform/logger"
)

// CartSystem runs the cart state machine and hands deliveries to the market.
type CartSystem struct {
	balance rules.Balance
	roller  Roller
	market  *MarketSystem
	logger  *logger.Logger
}

// NewCartSystem creates the cart system.
func NewCartSystem(balance rules.Balance, roller Roller, market *MarketSystem, log *logger.Logger) *CartSystem {
	return &CartSystem{
		balance: balance,
		roller:  roller,
		market:  market,
		logger:  log,
	}
}

// Update advances the cart by dt seconds.
func (cs *CartSystem) Update(st *mine.State, dt float64, tick int64) {
	c := &st.Cart
	speed := cs.balance.CartSpeed(c)

	switch c.Status {
	case mine.CartIdle:
		if st.Elevator.Storage.Total() > 0 && c.Load.Total() < cs.balance.CartCapacity(c) {
			c.Status = mine.CartCollecting
			c.ActionTimer = mine.Timer(cs.balance.CartActionMillis)
		}

	case mine.CartCollecting:
		if !elapse(&c.ActionTimer, dt) {
			return
		}
		cs.collect(c, &st.Elevator.Storage)
		c.Status = mine.CartMovingToMarket

	case mine.CartMovingToMarket:
		c.Position += speed * dt
		if c.Position >= cs.balance.CartTravelDistance {
			c.Position = cs.balance.CartTravelDistance
			c.Status = mine.CartDepositing
			c.ActionTimer = mine.Timer(cs.balance.CartDepositMillis(&st.Market))
		}

	case mine.CartDepositing:
		// A zero-length deposit still takes one tick to fire.
		if !elapse(&c.ActionTimer, dt) {
			return
		}
		cs.market.Sell(st, &c.Load, tick)
		c.Load.Clear()
		c.Status = mine.CartReturning

	case mine.CartReturning:
		c.Position -= speed * dt
		if c.Position <= 0 {
			c.Position = 0
			c.Status = mine.CartIdle
		}

	default:
		cs.logger.Warn("cart in unknown state " + c.Status.String() + ", resetting to idle")
		c.Position = 0
		c.ActionTimer = nil
		c.Status = mine.CartIdle
	}
}

// collect pulls from storage in insertion order up to the cart's free space.
// The duplicator may double a transfer, but never beyond what storage held.
func (cs *CartSystem) collect(c *mine.Cart, storage *mine.Quantities) {
	space := cs.balance.CartCapacity(c) - c.Load.Total()
	chance := cs.balance.DuplicatorChanceFor(c)

	for _, id := range storage.IDs() {
		if space <= 0 {
			break
		}
		available := storage.Get(id)
		amount := math.Min(available, space)
		if chance > 0 && cs.roller.Float64() < chance {
			amount *= 2
		}
		amount = math.Min(available, amount)
		if amount <= 0 {
			continue
		}
		moved := storage.Take(id, amount)
		c.Load.Add(id, moved)
		space -= moved
	}
}
