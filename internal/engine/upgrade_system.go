// Package engine - upgrade_system.go
// Every purchase goes through here: levels, managers, new sites and skill unlocks.
// Purchases are all-or-nothing; refusals return false and leave state untouched.
package engine

import (
	"fmt"

	"github.com/Qenawi/idle-mining/internal/domain/mine"
	"github.com/Qenawi/idle-mining/internal/domain/rules"
	"github.com/Qenawi/idle-mining/internal/events"
	"github.com/Qenawi/idle-mining/internal/platform/logger"
)

// UpgradeSystem prices and applies purchases.
type UpgradeSystem struct {
	balance  rules.Balance
	eventLog *events.EventLog
	logger   *logger.Logger
}

// NewUpgradeSystem creates the purchase system.
func NewUpgradeSystem(balance rules.Balance, eventLog *events.EventLog, log *logger.Logger) *UpgradeSystem {
	return &UpgradeSystem{
		balance:  balance,
		eventLog: eventLog,
		logger:   log,
	}
}

// ladder resolves the cost curve and current level of a target.
// Reports false for unknown entities or sites that do not exist.
func (us *UpgradeSystem) ladder(st *mine.State, t mine.UpgradeTarget) (rules.CostCurve, int, bool) {
	manager := t.Subject == mine.SubjectManager
	switch t.Entity {
	case mine.EntitySite:
		site := st.Site(t.SiteID)
		if site == nil {
			return rules.CostCurve{}, 0, false
		}
		if manager {
			return us.balance.SiteManagerCurve(), site.ManagerLevel, true
		}
		return us.balance.SiteLevelCurve(), site.Level, true
	case mine.EntityElevator:
		if manager {
			return us.balance.ElevatorManagerCurve(), st.Elevator.ManagerLevel, true
		}
		return us.balance.ElevatorLevelCurve(), st.Elevator.Level, true
	case mine.EntityCart:
		if manager {
			return us.balance.CartManagerCurve(), st.Cart.ManagerLevel, true
		}
		return us.balance.CartLevelCurve(), st.Cart.Level, true
	case mine.EntityMarket:
		if manager {
			return us.balance.MarketManagerCurve(), st.Market.ManagerLevel, true
		}
		return us.balance.MarketLevelCurve(), st.Market.Level, true
	}
	return rules.CostCurve{}, 0, false
}

// Quote prices amount levels of t against the current cash.
func (us *UpgradeSystem) Quote(st *mine.State, t mine.UpgradeTarget, amount rules.Amount) (rules.Quote, bool) {
	if t.Validate() != nil {
		return rules.Quote{}, false
	}
	curve, level, ok := us.ladder(st, t)
	if !ok {
		return rules.Quote{}, false
	}
	return curve.Quote(level, amount, st.Cash), true
}

// Buy debits the quoted cost and grants the levels, or does nothing.
func (us *UpgradeSystem) Buy(st *mine.State, t mine.UpgradeTarget, amount rules.Amount, tick int64) bool {
	q, ok := us.Quote(st, t, amount)
	if !ok || !q.Affordable(st.Cash) {
		return false
	}

	st.Cash -= q.Cost
	newLevel, points := us.apply(st, t, q.Levels)

	actor := actorFor(t)
	emit(us.eventLog, events.EventTypePurchase, actor, events.PurchasePayload{
		Subject:     string(t.Subject),
		Levels:      q.Levels,
		Cost:        q.Cost,
		NewLevel:    newLevel,
		SkillPoints: points,
	}, tick)
	us.logger.Event(string(events.EventTypePurchase), actor,
		fmt.Sprintf("%s +%d for %.2f", t.Subject, q.Levels, q.Cost))
	return true
}

// apply grants levels to t. Returns the new level and any skill points awarded.
func (us *UpgradeSystem) apply(st *mine.State, t mine.UpgradeTarget, levels int) (int, int) {
	interval := us.balance.SkillPointInterval
	manager := t.Subject == mine.SubjectManager

	switch t.Entity {
	case mine.EntitySite:
		site := st.Site(t.SiteID)
		if manager {
			points := site.Promote(levels, interval)
			return site.ManagerLevel, points
		}
		site.Level += levels
		return site.Level, 0
	case mine.EntityElevator:
		if manager {
			points := st.Elevator.Promote(levels, interval)
			return st.Elevator.ManagerLevel, points
		}
		st.Elevator.Level += levels
		return st.Elevator.Level, 0
	case mine.EntityCart:
		if manager {
			points := st.Cart.Promote(levels, interval)
			return st.Cart.ManagerLevel, points
		}
		st.Cart.Level += levels
		return st.Cart.Level, 0
	case mine.EntityMarket:
		if manager {
			points := st.Market.Promote(levels, interval)
			return st.Market.ManagerLevel, points
		}
		st.Market.Level += levels
		return st.Market.Level, 0
	}
	return 0, 0
}

// NewSiteCost is the price of the next site, keyed by the current site count.
func (us *UpgradeSystem) NewSiteCost(st *mine.State) float64 {
	return us.balance.NewSiteCurve().Cost(len(st.Sites))
}

// CanAddSite reports whether another site may be opened and paid for.
func (us *UpgradeSystem) CanAddSite(st *mine.State) bool {
	return len(st.Sites) < us.balance.MaxSites && st.Cash >= us.NewSiteCost(st)
}

// AddSite opens the next site when below the cap and affordable.
func (us *UpgradeSystem) AddSite(st *mine.State, tick int64) bool {
	if !us.CanAddSite(st) {
		return false
	}
	cost := us.NewSiteCost(st)
	st.Cash -= cost
	site := us.balance.NewSite(len(st.Sites), st.Resources)
	st.Sites = append(st.Sites, site)

	actor := siteActor(site.ID)
	emit(us.eventLog, events.EventTypeSiteAdded, actor, events.PurchasePayload{
		Subject:  "site",
		Levels:   1,
		Cost:     cost,
		NewLevel: site.Level,
	}, tick)
	us.logger.Event(string(events.EventTypeSiteAdded), actor, "mining "+site.ResourceID)
	return true
}

// UnlockSiteSkill spends a site manager's skill point.
func (us *UpgradeSystem) UnlockSiteSkill(st *mine.State, siteID int, skill mine.SiteSkill, tick int64) bool {
	site := st.Site(siteID)
	if site == nil || !site.UnlockSkill(skill, us.balance.MaxSkillLevel) {
		return false
	}
	us.skillUnlocked(siteActor(siteID), skill.String(), site.Skill(skill), tick)
	return true
}

// UnlockElevatorSkill spends an elevator manager's skill point.
func (us *UpgradeSystem) UnlockElevatorSkill(st *mine.State, skill mine.ElevatorSkill, tick int64) bool {
	if !st.Elevator.UnlockSkill(skill, us.balance.MaxSkillLevel) {
		return false
	}
	us.skillUnlocked("elevator", skill.String(), st.Elevator.Skill(skill), tick)
	return true
}

// UnlockCartSkill spends a cart manager's skill point.
func (us *UpgradeSystem) UnlockCartSkill(st *mine.State, skill mine.CartSkill, tick int64) bool {
	if !st.Cart.UnlockSkill(skill, us.balance.MaxSkillLevel) {
		return false
	}
	us.skillUnlocked("cart", skill.String(), st.Cart.Skill(skill), tick)
	return true
}

// UnlockMarketSkill spends a market manager's skill point.
func (us *UpgradeSystem) UnlockMarketSkill(st *mine.State, skill mine.MarketSkill, tick int64) bool {
	if !st.Market.UnlockSkill(skill, us.balance.MaxSkillLevel) {
		return false
	}
	us.skillUnlocked("market", skill.String(), st.Market.Skill(skill), tick)
	return true
}

func (us *UpgradeSystem) skillUnlocked(actor, skill string, level int, tick int64) {
	emit(us.eventLog, events.EventTypeSkillUnlocked, actor, events.SkillPayload{Skill: skill, Level: level}, tick)
	us.logger.Event(string(events.EventTypeSkillUnlocked), actor, fmt.Sprintf("%s -> %d", skill, level))
}

func actorFor(t mine.UpgradeTarget) string {
	if t.Entity == mine.EntitySite {
		return siteActor(t.SiteID)
	}
	return string(t.Entity)
}
