package rules

import (
	"math"

	"github.com/Qenawi/idle-mining/internal/domain/mine"
)

// SitePosition is the vertical offset of a site from the surface.
func (b Balance) SitePosition(id int) float64 {
	return b.SitePositionOffset + float64(id)*b.SitePositionIncrement
}

// ElevatorStop is where the elevator halts to collect from s.
func (b Balance) ElevatorStop(s *mine.Site) float64 {
	return s.Position + b.ElevatorStopOffset
}

func (b Balance) depthFactor(id int) float64 {
	return math.Pow(b.SiteDepthGrowth, float64(id))
}

// SiteProduction is units produced per second by s.
func (b Balance) SiteProduction(s *mine.Site) float64 {
	base := b.SiteBaseProduction * b.depthFactor(s.ID) * float64(s.Level)
	return base * (1 + float64(s.ManagerLevel)*b.SiteManagerBonus) * b.MachineryMultiplier(s)
}

// SiteCapacity is the most s can hold.
func (b Balance) SiteCapacity(s *mine.Site) float64 {
	return b.SiteBaseCapacity * b.depthFactor(s.ID) * float64(s.Level) * b.DeeperVeinsMultiplier(s)
}

// ElevatorCapacity bounds the elevator load.
func (b Balance) ElevatorCapacity(e *mine.Elevator) float64 {
	return b.ElevatorBaseCapacity * float64(e.Level) * b.FrameMultiplier(e)
}

// ElevatorStorageCapacity bounds the storage buffer at the elevator's home. Level only.
func (b Balance) ElevatorStorageCapacity(e *mine.Elevator) float64 {
	return b.ElevatorStorageBase * float64(e.Level)
}

// ElevatorSpeed is distance per second.
func (b Balance) ElevatorSpeed(e *mine.Elevator) float64 {
	return b.ElevatorBaseSpeed * (1 + float64(e.ManagerLevel)*b.ElevatorManagerBonus) * b.LightweightMultiplier(e)
}

// ElevatorActionMillisFor is the deposit duration after the express skill.
func (b Balance) ElevatorActionMillisFor(e *mine.Elevator) float64 {
	return b.ElevatorActionMillis * b.ExpressLoadMultiplier(e)
}

// CartCapacity bounds the cart load.
func (b Balance) CartCapacity(c *mine.Cart) float64 {
	base := b.CartBaseCapacity * float64(c.Level) * (1 + float64(c.ManagerLevel)*b.CartManagerBonus)
	return base * b.PipesMultiplier(c)
}

// CartSpeed is distance per second.
func (b Balance) CartSpeed(c *mine.Cart) float64 {
	return b.CartBaseSpeed * b.PumpsMultiplier(c)
}

// CartDepositMillis is how long unloading at the market takes.
func (b Balance) CartDepositMillis(m *mine.Market) float64 {
	return b.CartActionMillis * b.LogisticsMultiplier(m)
}

// MarketValueMultiplier scales the value of every sold unit.
func (b Balance) MarketValueMultiplier(m *mine.Market) float64 {
	level := 1 + float64(m.Level-1)*b.MarketLevelBonus
	manager := 1 + float64(m.ManagerLevel)*b.MarketManagerBonus
	return level * manager * b.InsightMultiplier(m)
}
