// Package engine - autoupgrade_system.go
// Spends post-tick cash on the player's chosen upgrade, one level per tick.
package engine

import (
	"github.com/Qenawi/idle-mining/internal/domain/mine"
	"github.com/Qenawi/idle-mining/internal/platform/logger"
)

// AutoUpgradeSystem applies the auto-upgrade policy.
type AutoUpgradeSystem struct {
	upgrades *UpgradeSystem
	logger   *logger.Logger
}

// NewAutoUpgradeSystem creates the policy runner.
func NewAutoUpgradeSystem(upgrades *UpgradeSystem, log *logger.Logger) *AutoUpgradeSystem {
	return &AutoUpgradeSystem{upgrades: upgrades, logger: log}
}

// Update buys one level of the target when affordable.
// A target naming a site that no longer exists is cleared.
func (as *AutoUpgradeSystem) Update(st *mine.State, tick int64) bool {
	t := st.AutoUpgrade
	if t == nil {
		return false
	}
	if t.Entity == mine.EntitySite && st.Site(t.SiteID) == nil {
		as.logger.Warn("auto-upgrade target " + t.String() + " no longer exists, clearing")
		st.AutoUpgrade = nil
		return false
	}
	return as.upgrades.Buy(st, *t, 1, tick)
}
