package rules

import "math"

// Amount is a requested purchase size: a level count, or AmountMax.
type Amount int

// AmountMax asks for as many levels as cash allows.
const AmountMax Amount = -1

// ParseAmount converts a request value. Zero and negatives other than AmountMax are invalid.
func ParseAmount(n int) (Amount, bool) {
	if n == int(AmountMax) || n > 0 {
		return Amount(n), true
	}
	return 0, false
}

// Quote is the number of levels a purchase grants and its exact total cost.
type Quote struct {
	Levels int     `json:"levels"`
	Cost   float64 `json:"cost"`
}

// Affordable reports whether the quote grants something that cash can cover.
func (q Quote) Affordable(cash float64) bool {
	return q.Levels > 0 && cash >= q.Cost
}

// CostCurve is a geometric price ladder: Cost(level) = Base * Multiplier^(level+Offset).
type CostCurve struct {
	Base       float64
	Multiplier float64
	Offset     int
}

// Cost is the price of the next single level when currently at level.
func (c CostCurve) Cost(level int) float64 {
	return c.Base * math.Pow(c.Multiplier, float64(level+c.Offset))
}

// BulkCost prices n consecutive levels starting at level using the geometric series sum.
func (c CostCurve) BulkCost(level, n int) float64 {
	if n <= 0 {
		return 0
	}
	first := c.Cost(level)
	if n == 1 {
		return first
	}
	if c.Multiplier == 1 {
		return first * float64(n)
	}
	return first * (1 - math.Pow(c.Multiplier, float64(n))) / (1 - c.Multiplier)
}

// MaxAffordable finds the largest n with BulkCost(level, n) <= cash.
// The log solve is verified and corrected in both directions so that
// BulkCost(n) <= cash < BulkCost(n+1) always holds.
func (c CostCurve) MaxAffordable(level int, cash float64) Quote {
	first := c.Cost(level)
	if first <= 0 || math.IsNaN(cash) || cash < first {
		return Quote{}
	}

	var n int
	if c.Multiplier == 1 {
		n = int(math.Floor(cash / first))
	} else {
		raw := math.Log(cash*(c.Multiplier-1)/first+1) / math.Log(c.Multiplier)
		if math.IsNaN(raw) || math.IsInf(raw, 0) {
			return Quote{}
		}
		n = int(math.Floor(raw))
	}
	if n < 1 {
		n = 1
	}

	for n > 1 && c.BulkCost(level, n) > cash {
		n--
	}
	for c.BulkCost(level, n+1) <= cash {
		n++
	}
	return Quote{Levels: n, Cost: c.BulkCost(level, n)}
}

// Quote prices a purchase request. A fixed count always reports the full bulk
// cost; the buyer refuses it when cash cannot cover it.
func (c CostCurve) Quote(level int, amount Amount, cash float64) Quote {
	if amount == AmountMax {
		return c.MaxAffordable(level, cash)
	}
	if amount <= 0 {
		return Quote{}
	}
	return Quote{Levels: int(amount), Cost: c.BulkCost(level, int(amount))}
}

// Curves.

func (b Balance) SiteLevelCurve() CostCurve {
	return CostCurve{Base: b.SiteUpgradeBaseCost, Multiplier: b.UpgradeCostMultiplier}
}

func (b Balance) ElevatorLevelCurve() CostCurve {
	return CostCurve{Base: b.ElevatorUpgradeBaseCost, Multiplier: b.UpgradeCostMultiplier, Offset: -1}
}

func (b Balance) CartLevelCurve() CostCurve {
	return CostCurve{Base: b.CartUpgradeBaseCost, Multiplier: b.UpgradeCostMultiplier}
}

func (b Balance) MarketLevelCurve() CostCurve {
	return CostCurve{Base: b.MarketUpgradeBaseCost, Multiplier: b.UpgradeCostMultiplier, Offset: -1}
}

func (b Balance) SiteManagerCurve() CostCurve {
	return CostCurve{Base: b.SiteManagerBaseCost, Multiplier: b.ManagerCostMultiplier}
}

func (b Balance) ElevatorManagerCurve() CostCurve {
	return CostCurve{Base: b.ElevatorManagerBaseCost, Multiplier: b.ManagerCostMultiplier}
}

func (b Balance) CartManagerCurve() CostCurve {
	return CostCurve{Base: b.CartManagerBaseCost, Multiplier: b.ManagerCostMultiplier}
}

func (b Balance) MarketManagerCurve() CostCurve {
	return CostCurve{Base: b.MarketManagerBaseCost, Multiplier: b.ManagerCostMultiplier}
}

// NewSiteCurve is keyed by the current site count.
func (b Balance) NewSiteCurve() CostCurve {
	return CostCurve{Base: b.NewSiteBaseCost, Multiplier: b.NewSiteCostMultiplier, Offset: -1}
}
