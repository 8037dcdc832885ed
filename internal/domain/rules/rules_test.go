package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Qenawi/idle-mining/internal/domain/mine"
)

func TestBulkCost_MatchesOneAtATime(t *testing.T) {
	curves := map[string]CostCurve{
		"geometric": {Base: 100, Multiplier: 1.15},
		"offset":    {Base: 173, Multiplier: 1.15, Offset: -1},
		"flat":      {Base: 50, Multiplier: 1},
		"managers":  {Base: 5000, Multiplier: 2},
	}

	for name, c := range curves {
		t.Run(name, func(t *testing.T) {
			for _, n := range []int{1, 2, 7, 25} {
				sum := 0.0
				for i := 0; i < n; i++ {
					sum += c.Cost(3 + i)
				}
				assert.InDelta(t, sum, c.BulkCost(3, n), sum*1e-9, "n=%d", n)
			}
			assert.Zero(t, c.BulkCost(3, 0))
		})
	}
}

func TestMaxAffordable_Soundness(t *testing.T) {
	curves := []CostCurve{
		{Base: 100, Multiplier: 1.15},
		{Base: 230, Multiplier: 1.15, Offset: -1},
		{Base: 10, Multiplier: 1},
		{Base: 5000, Multiplier: 2},
	}
	cashes := []float64{0, 99, 100, 101, 1000, 12345.67, 1e6, 3.3e9}

	for _, c := range curves {
		for _, cash := range cashes {
			for _, level := range []int{0, 1, 9, 40} {
				q := c.MaxAffordable(level, cash)
				if q.Levels == 0 {
					assert.Zero(t, q.Cost)
					assert.Less(t, cash, c.Cost(level))
					continue
				}
				assert.LessOrEqual(t, q.Cost, cash)
				assert.Greater(t, c.BulkCost(level, q.Levels+1), cash)
				assert.Equal(t, c.BulkCost(level, q.Levels), q.Cost)
			}
		}
	}
}

func TestMaxAffordable_InsufficientCash(t *testing.T) {
	c := CostCurve{Base: 100, Multiplier: 1.15}
	assert.Equal(t, Quote{}, c.MaxAffordable(0, 50))
}

func TestQuote_FixedCountKeepsFullCost(t *testing.T) {
	c := CostCurve{Base: 100, Multiplier: 1.15}

	q := c.Quote(0, 10, 50)

	assert.Equal(t, 10, q.Levels)
	assert.InDelta(t, c.BulkCost(0, 10), q.Cost, 1e-9)
	assert.False(t, q.Affordable(50))
}

func TestParseAmount(t *testing.T) {
	a, ok := ParseAmount(-1)
	assert.True(t, ok)
	assert.Equal(t, AmountMax, a)

	_, ok = ParseAmount(0)
	assert.False(t, ok)
	_, ok = ParseAmount(-5)
	assert.False(t, ok)
}

func TestDefaultCurves(t *testing.T) {
	b := DefaultBalance()

	assert.InDelta(t, 115.0, b.SiteLevelCurve().Cost(1), 1e-9)
	assert.InDelta(t, 173.0, b.ElevatorLevelCurve().Cost(1), 1e-9)
	assert.InDelta(t, 230.0, b.MarketLevelCurve().Cost(1), 1e-9)
	assert.InDelta(t, 230.0, b.CartLevelCurve().Cost(1), 1e-9)
	assert.InDelta(t, 625.0, b.NewSiteCurve().Cost(1), 1e-9)
	assert.InDelta(t, 1562.5, b.NewSiteCurve().Cost(2), 1e-9)
	assert.InDelta(t, 5000.0, b.SiteManagerCurve().Cost(0), 1e-9)
}

func TestSkillShapes(t *testing.T) {
	assert.Equal(t, 1.0, AdditiveMultiplier(1.5, 0))
	assert.InDelta(t, 2.5, AdditiveMultiplier(1.5, 3), 1e-12)

	assert.Zero(t, ScaledChance(0.05, 0))
	assert.InDelta(t, 0.15, ScaledChance(0.05, 3), 1e-12)
	assert.Equal(t, 1.0, ScaledChance(0.5, 3))

	assert.Equal(t, 1.0, TimeReductionMultiplier(0.2, 0, 5))
	assert.InDelta(t, 0.8, TimeReductionMultiplier(0.2, 1, 5), 1e-12)
	assert.InDelta(t, 0.64, TimeReductionMultiplier(0.2, 5, 5), 1e-12)
	assert.Equal(t, 0.1, TimeReductionMultiplier(0.95, 5, 5))

	assert.Equal(t, 1.0, DepositTimeMultiplier(0.6, 0.1, 0))
	assert.InDelta(t, 0.4, DepositTimeMultiplier(0.6, 0.1, 1), 1e-12)
	assert.InDelta(t, 0, DepositTimeMultiplier(0.6, 0.1, 5), 1e-12)
}

func TestSiteFormulas(t *testing.T) {
	b := DefaultBalance()
	s := b.NewSite(1, nil)
	s.Level = 2
	s.ManagerLevel = 2

	assert.InDelta(t, 100*2*2.0, b.SiteProduction(&s), 1e-9)
	assert.InDelta(t, 10000*2.0, b.SiteCapacity(&s), 1e-9)

	s.SkillLevels[mine.DeeperVeins] = 2
	s.SkillLevels[mine.AdvancedMachinery] = 1
	assert.InDelta(t, 10000*2*2.0, b.SiteCapacity(&s), 1e-9)
	assert.InDelta(t, 100*2*2*1.2, b.SiteProduction(&s), 1e-9)
	assert.Equal(t, 220.0, b.SitePosition(1))
}

func TestCarrierFormulas(t *testing.T) {
	b := DefaultBalance()

	e := mine.Elevator{Level: 3}
	e.ManagerLevel = 4
	e.SkillLevels[mine.ReinforcedFrame] = 2
	assert.InDelta(t, 300*1.5, b.ElevatorCapacity(&e), 1e-9)
	assert.InDelta(t, 3000.0, b.ElevatorStorageCapacity(&e), 1e-9)
	assert.InDelta(t, 200.0, b.ElevatorSpeed(&e), 1e-9)

	c := mine.Cart{Level: 2}
	c.ManagerLevel = 5
	assert.InDelta(t, 150*2*2.0, b.CartCapacity(&c), 1e-9)
	c.SkillLevels[mine.OverclockedPumps] = 1
	assert.InDelta(t, 120.0, b.CartSpeed(&c), 1e-9)
}

func TestMarketFormulas(t *testing.T) {
	b := DefaultBalance()
	m := mine.Market{Level: 11}
	m.ManagerLevel = 2
	m.SkillLevels[mine.MarketInsight] = 1

	assert.InDelta(t, 1.1*1.2*1.1, b.MarketValueMultiplier(&m), 1e-12)
	assert.Equal(t, 1.0, b.NegotiatorBonus(&m))

	m.SkillLevels[mine.MasterNegotiator] = 3
	assert.InDelta(t, 3.0, b.NegotiatorBonus(&m), 1e-12)
	assert.InDelta(t, 0.15, b.NegotiatorChanceFor(&m), 1e-12)

	m.SkillLevels[mine.EfficientLogistics] = 5
	assert.InDelta(t, 0, b.CartDepositMillis(&m), 1e-9)
}

func TestInitialState(t *testing.T) {
	b := DefaultBalance()
	st := b.InitialState()

	require.Len(t, st.Sites, 1)
	assert.Equal(t, 1000.0, st.Cash)
	assert.Equal(t, st.Resources[0].ID, st.Sites[0].ResourceID)
	assert.Equal(t, 70.0, st.Sites[0].Position)
	assert.Len(t, st.Resources, b.CatalogSize)
	assert.Equal(t, mine.SchemaVersion, st.SchemaVersion)
}
