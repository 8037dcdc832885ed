// Package engine - market_system.go
// The market turns delivered loads into cash.
package engine

import (
	"fmt"

	"github.com/Qenawi/idle-mining/internal/domain/mine"
	"github.com/Qenawi/idle-mining/internal/domain/rules"
	"github.com/Qenawi/idle-mining/internal/events"
	"github.com/Qenawi/idle-mining/internal/platform/logger"
	"github.com/Qenawi/idle-mining/internal/platform/metrics"
)

// SaleResult summarizes one delivery.
// Base is the value before negotiation; Cash is what was credited.
type SaleResult struct {
	Units      float64
	Base       float64
	Cash       float64
	Negotiated int
}

// MarketSystem prices and credits deliveries.
type MarketSystem struct {
	balance  rules.Balance
	roller   Roller
	eventLog *events.EventLog
	logger   *logger.Logger
}

// NewMarketSystem creates the market system.
func NewMarketSystem(balance rules.Balance, roller Roller, eventLog *events.EventLog, log *logger.Logger) *MarketSystem {
	return &MarketSystem{
		balance:  balance,
		roller:   roller,
		eventLog: eventLog,
		logger:   log,
	}
}

// Sell prices every line of load, rolls the negotiator per line, and credits the total.
// The caller clears the load.
func (ms *MarketSystem) Sell(st *mine.State, load *mine.Quantities, tick int64) SaleResult {
	m := &st.Market
	multiplier := ms.balance.MarketValueMultiplier(m)
	chance := ms.balance.NegotiatorChanceFor(m)
	bonus := ms.balance.NegotiatorBonus(m)

	var res SaleResult
	for _, line := range load.Entries() {
		if line.Amount <= 0 {
			continue
		}
		value := line.Amount * st.Resources.Value(line.ID) * multiplier
		res.Base += value
		if chance > 0 && ms.roller.Float64() < chance {
			value *= bonus
			res.Negotiated++
		}
		res.Cash += value
		res.Units += line.Amount
	}

	if res.Cash > 0 {
		st.Cash += res.Cash
		m.LastDepositAmount = res.Cash
		emit(ms.eventLog, events.EventTypeSale, "market", events.SalePayload{
			Units:      res.Units,
			Cash:       res.Cash,
			Negotiated: res.Negotiated,
		}, tick)
		metrics.Get().RecordSale(res.Cash)
		ms.logger.Debug(fmt.Sprintf("sold %.2f units for %.2f", res.Units, res.Cash))
	}
	return res
}
