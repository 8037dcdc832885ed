package rules

import (
	"math"

	"github.com/Qenawi/idle-mining/internal/domain/mine"
)

// AdditiveMultiplier grows linearly per level: 1 + (base-1)*level. Never compounds.
func AdditiveMultiplier(base float64, level int) float64 {
	if level <= 0 {
		return 1
	}
	return 1 + (base-1)*float64(level)
}

// ScaledChance is base*level capped at 1.
func ScaledChance(base float64, level int) float64 {
	if level <= 0 {
		return 0
	}
	return math.Min(1, base*float64(level))
}

// TimeReductionMultiplier cuts a duration by reduction at level 1 and by
// reduction/maxLevel for each further level. Floored at 10%.
func TimeReductionMultiplier(reduction float64, level, maxLevel int) float64 {
	if level <= 0 {
		return 1
	}
	extra := 0.0
	if maxLevel > 0 {
		extra = reduction / float64(maxLevel)
	}
	total := reduction + float64(level-1)*extra
	return math.Max(0.1, 1-total)
}

// DepositTimeMultiplier cuts a duration by base at level 1 and perLevel for each further level.
// Floored at 0, so deposits can become instant.
func DepositTimeMultiplier(base, perLevel float64, level int) float64 {
	if level <= 0 {
		return 1
	}
	total := base + float64(level-1)*perLevel
	return math.Max(0, 1-total)
}

// Site skills.

func (b Balance) MachineryMultiplier(s *mine.Site) float64 {
	return AdditiveMultiplier(b.AdvancedMachineryBonus, s.Skill(mine.AdvancedMachinery))
}

func (b Balance) DeeperVeinsMultiplier(s *mine.Site) float64 {
	return AdditiveMultiplier(b.DeeperVeinsBonus, s.Skill(mine.DeeperVeins))
}

// GeologistChanceFor is the per-tick probability of a bonus payout at s.
func (b Balance) GeologistChanceFor(s *mine.Site) float64 {
	return ScaledChance(b.GeologistChance, s.Skill(mine.GeologistsEye))
}

// GeologistBonus is the cash paid when the geologist roll succeeds.
func (b Balance) GeologistBonus(s *mine.Site, resourceValue float64) float64 {
	level := s.Skill(mine.GeologistsEye)
	return b.SiteProduction(s) * resourceValue * (b.GeologistMultiplier * float64(level))
}

// Elevator skills.

func (b Balance) ExpressLoadMultiplier(e *mine.Elevator) float64 {
	return TimeReductionMultiplier(b.ExpressLoadReduction, e.Skill(mine.ExpressLoad), b.MaxSkillLevel)
}

func (b Balance) LightweightMultiplier(e *mine.Elevator) float64 {
	return AdditiveMultiplier(b.LightweightSpeedBonus, e.Skill(mine.LightweightMaterials))
}

func (b Balance) FrameMultiplier(e *mine.Elevator) float64 {
	return AdditiveMultiplier(b.ReinforcedFrameBonus, e.Skill(mine.ReinforcedFrame))
}

// Cart skills.

func (b Balance) PumpsMultiplier(c *mine.Cart) float64 {
	return AdditiveMultiplier(b.OverclockedPumpsBonus, c.Skill(mine.OverclockedPumps))
}

func (b Balance) PipesMultiplier(c *mine.Cart) float64 {
	return AdditiveMultiplier(b.ReinforcedPipesBonus, c.Skill(mine.ReinforcedPipes))
}

// DuplicatorChanceFor is the per-transfer probability that a collection doubles.
func (b Balance) DuplicatorChanceFor(c *mine.Cart) float64 {
	return ScaledChance(b.DuplicatorChance, c.Skill(mine.MatterDuplicator))
}

// Market skills.

func (b Balance) InsightMultiplier(m *mine.Market) float64 {
	return AdditiveMultiplier(b.MarketInsightBonus, m.Skill(mine.MarketInsight))
}

func (b Balance) LogisticsMultiplier(m *mine.Market) float64 {
	return DepositTimeMultiplier(b.LogisticsBaseReduction, b.LogisticsPerLevel, m.Skill(mine.EfficientLogistics))
}

// NegotiatorChanceFor is the per-line probability of a negotiated sale.
func (b Balance) NegotiatorChanceFor(m *mine.Market) float64 {
	return ScaledChance(b.NegotiatorChance, m.Skill(mine.MasterNegotiator))
}

// NegotiatorBonus multiplies a negotiated sale line. Grows with skill level.
func (b Balance) NegotiatorBonus(m *mine.Market) float64 {
	level := m.Skill(mine.MasterNegotiator)
	if level <= 0 {
		return 1
	}
	return b.NegotiatorMultiplier + float64(level-1)*b.NegotiatorPerLevel
}
