package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/Qenawi/idle-mining/internal/domain/mine"
	"github.com/Qenawi/idle-mining/internal/domain/rules"
	"github.com/Qenawi/idle-mining/internal/events"
	"github.com/Qenawi/idle-mining/internal/platform/logger"
)

// Engine is the single owner of the economy state. It runs the subsystems in a
// fixed order each tick and serializes ticks, commands and queries behind one mutex.
type Engine struct {
	mu       sync.Mutex
	balance  rules.Balance
	state    *mine.State
	eventLog *events.EventLog
	logger   *logger.Logger

	// Sub-systems
	shafts   *ShaftSystem
	elevator *ElevatorSystem
	cart     *CartSystem
	market   *MarketSystem
	upgrades *UpgradeSystem
	auto     *AutoUpgradeSystem

	tickNumber int64
	offline    OfflineReport
}

// NewEngine wires the subsystems around a fresh state.
func NewEngine(balance rules.Balance, roller Roller, eventLog *events.EventLog, log *logger.Logger) *Engine {
	market := NewMarketSystem(balance, roller, eventLog, log)
	upgrades := NewUpgradeSystem(balance, eventLog, log)

	return &Engine{
		balance:  balance,
		state:    balance.InitialState(),
		eventLog: eventLog,
		logger:   log,

		shafts:   NewShaftSystem(balance, roller, eventLog, log),
		elevator: NewElevatorSystem(balance, log),
		cart:     NewCartSystem(balance, roller, market, log),
		market:   market,
		upgrades: upgrades,
		auto:     NewAutoUpgradeSystem(upgrades, log),
	}
}

// Step advances the economy by dt seconds.
// Order: reset transient signals, sites, elevator, cart (and market), auto-upgrade.
func (e *Engine) Step(dt float64) {
	if dt < 0 {
		dt = 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.tickNumber++
	st := e.state
	st.Market.LastDepositAmount = 0

	e.shafts.Update(st, dt, e.tickNumber)
	e.elevator.Update(st, dt)
	e.cart.Update(st, dt, e.tickNumber)
	e.auto.Update(st, e.tickNumber)
}

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() *mine.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Balance returns the tuning the engine runs with.
func (e *Engine) Balance() rules.Balance {
	return e.balance
}

// TickNumber is the count of steps taken since start.
func (e *Engine) TickNumber() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tickNumber
}

// EventLog exposes the economy event log for broadcasters.
func (e *Engine) EventLog() *events.EventLog {
	return e.eventLog
}

// Projections computes every derived value for display.
func (e *Engine) Projections() Projections {
	e.mu.Lock()
	defer e.mu.Unlock()
	return project(e.balance, e.upgrades, e.state)
}

// IdleIncome is the steady-state cash rate of the current state.
func (e *Engine) IdleIncome() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return IdleIncome(e.balance, e.state)
}

// OfflineReport returns the credit granted by the last Restore.
func (e *Engine) OfflineReport() OfflineReport {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.offline
}

// Restore replaces the state with a loaded one and credits the time since savedAt once.
func (e *Engine) Restore(st *mine.State, savedAt, now time.Time) OfflineReport {
	restored := st.Clone()
	report := EstimateOffline(e.balance, restored, now.Sub(savedAt))
	restored.Cash += report.Earnings

	e.mu.Lock()
	e.state = restored
	e.offline = report
	tick := e.tickNumber
	e.mu.Unlock()

	if report.Earnings > 0 {
		emit(e.eventLog, events.EventTypeOfflineCredit, "engine", events.OfflinePayload{
			ElapsedSeconds: report.Elapsed.Seconds(),
			Cash:           report.Earnings,
		}, tick)
		e.logger.Info(fmt.Sprintf("Credited %.0f for %s offline", report.Earnings, report.Elapsed.Round(time.Second)))
	}
	return report
}

// Reset returns the economy to a freshly initialized state.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.state = e.balance.InitialState()
	e.offline = OfflineReport{}
	tick := e.tickNumber
	e.mu.Unlock()

	emit(e.eventLog, events.EventTypeReset, "engine", nil, tick)
	e.logger.Warn("Economy reset to initial state")
}

// Commands. Each is all-or-nothing and reports whether anything changed.

// Upgrade buys amount levels of any subject.
func (e *Engine) Upgrade(t mine.UpgradeTarget, amount rules.Amount) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.upgrades.Buy(e.state, t, amount, e.tickNumber)
}

func (e *Engine) UpgradeSite(id int, amount rules.Amount) bool {
	return e.Upgrade(mine.UpgradeTarget{Entity: mine.EntitySite, SiteID: id, Subject: mine.SubjectLevel}, amount)
}

func (e *Engine) UpgradeSiteManager(id int, amount rules.Amount) bool {
	return e.Upgrade(mine.UpgradeTarget{Entity: mine.EntitySite, SiteID: id, Subject: mine.SubjectManager}, amount)
}

func (e *Engine) UpgradeElevator(amount rules.Amount) bool {
	return e.Upgrade(mine.UpgradeTarget{Entity: mine.EntityElevator, Subject: mine.SubjectLevel}, amount)
}

func (e *Engine) UpgradeElevatorManager(amount rules.Amount) bool {
	return e.Upgrade(mine.UpgradeTarget{Entity: mine.EntityElevator, Subject: mine.SubjectManager}, amount)
}

func (e *Engine) UpgradeCart(amount rules.Amount) bool {
	return e.Upgrade(mine.UpgradeTarget{Entity: mine.EntityCart, Subject: mine.SubjectLevel}, amount)
}

func (e *Engine) UpgradeCartManager(amount rules.Amount) bool {
	return e.Upgrade(mine.UpgradeTarget{Entity: mine.EntityCart, Subject: mine.SubjectManager}, amount)
}

func (e *Engine) UpgradeMarket(amount rules.Amount) bool {
	return e.Upgrade(mine.UpgradeTarget{Entity: mine.EntityMarket, Subject: mine.SubjectLevel}, amount)
}

func (e *Engine) UpgradeMarketManager(amount rules.Amount) bool {
	return e.Upgrade(mine.UpgradeTarget{Entity: mine.EntityMarket, Subject: mine.SubjectManager}, amount)
}

// AddSite opens the next extraction site.
func (e *Engine) AddSite() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.upgrades.AddSite(e.state, e.tickNumber)
}

func (e *Engine) UnlockSiteSkill(id int, skill mine.SiteSkill) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.upgrades.UnlockSiteSkill(e.state, id, skill, e.tickNumber)
}

func (e *Engine) UnlockElevatorSkill(skill mine.ElevatorSkill) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.upgrades.UnlockElevatorSkill(e.state, skill, e.tickNumber)
}

func (e *Engine) UnlockCartSkill(skill mine.CartSkill) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.upgrades.UnlockCartSkill(e.state, skill, e.tickNumber)
}

func (e *Engine) UnlockMarketSkill(skill mine.MarketSkill) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.upgrades.UnlockMarketSkill(e.state, skill, e.tickNumber)
}

// SetAutoUpgrade selects the auto-upgrade target; nil clears it.
// A target naming a missing site clears the policy and reports false.
func (e *Engine) SetAutoUpgrade(t *mine.UpgradeTarget) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if t == nil {
		changed := e.state.AutoUpgrade != nil
		e.state.AutoUpgrade = nil
		return changed
	}
	if t.Validate() != nil {
		return false
	}
	if t.Entity == mine.EntitySite && e.state.Site(t.SiteID) == nil {
		e.state.AutoUpgrade = nil
		return false
	}

	target := *t
	e.state.AutoUpgrade = &target
	emit(e.eventLog, events.EventTypeAutoUpgradeSet, actorFor(target), target, e.tickNumber)
	return true
}
