package engine

import (
	"github.com/Qenawi/idle-mining/internal/domain/mine"
	"github.com/Qenawi/idle-mining/internal/domain/rules"
)

// QuoteSet previews a purchase at the three offered sizes.
type QuoteSet struct {
	One rules.Quote `json:"one"`
	Ten rules.Quote `json:"ten"`
	Max rules.Quote `json:"max"`
}

// SiteProjection is the derived, read-only view of one site.
type SiteProjection struct {
	ID         int      `json:"id"`
	Production float64  `json:"production"`
	Capacity   float64  `json:"capacity"`
	Upgrade    QuoteSet `json:"upgrade"`
	Manager    QuoteSet `json:"manager"`
}

// ElevatorProjection is the derived view of the elevator.
type ElevatorProjection struct {
	Capacity        float64  `json:"capacity"`
	StorageCapacity float64  `json:"storageCapacity"`
	Speed           float64  `json:"speed"`
	ActionMillis    float64  `json:"actionMs"`
	Upgrade         QuoteSet `json:"upgrade"`
	Manager         QuoteSet `json:"manager"`
}

// CartProjection is the derived view of the cart.
type CartProjection struct {
	Capacity      float64  `json:"capacity"`
	Speed         float64  `json:"speed"`
	DepositMillis float64  `json:"depositMs"`
	Upgrade       QuoteSet `json:"upgrade"`
	Manager       QuoteSet `json:"manager"`
}

// MarketProjection is the derived view of the market.
type MarketProjection struct {
	ValueMultiplier  float64  `json:"valueMultiplier"`
	NegotiatorChance float64  `json:"negotiatorChance"`
	Upgrade          QuoteSet `json:"upgrade"`
	Manager          QuoteSet `json:"manager"`
}

// Projections bundles every computed value the presentation layer shows.
type Projections struct {
	Cash        float64            `json:"cash"`
	Sites       []SiteProjection   `json:"sites"`
	Elevator    ElevatorProjection `json:"elevator"`
	Cart        CartProjection     `json:"cart"`
	Market      MarketProjection   `json:"market"`
	NewSiteCost float64            `json:"newSiteCost"`
	CanAddSite  bool               `json:"canAddSite"`
	MaxSites    int                `json:"maxSites"`
	IdleIncome  float64            `json:"idleIncome"`
}

func quoteSet(us *UpgradeSystem, st *mine.State, t mine.UpgradeTarget) QuoteSet {
	one, _ := us.Quote(st, t, 1)
	ten, _ := us.Quote(st, t, 10)
	most, _ := us.Quote(st, t, rules.AmountMax)
	return QuoteSet{One: one, Ten: ten, Max: most}
}

func project(b rules.Balance, us *UpgradeSystem, st *mine.State) Projections {
	p := Projections{
		Cash:        st.Cash,
		Sites:       make([]SiteProjection, 0, len(st.Sites)),
		NewSiteCost: us.NewSiteCost(st),
		CanAddSite:  us.CanAddSite(st),
		MaxSites:    b.MaxSites,
		IdleIncome:  IdleIncome(b, st),
	}

	for i := range st.Sites {
		site := &st.Sites[i]
		p.Sites = append(p.Sites, SiteProjection{
			ID:         site.ID,
			Production: b.SiteProduction(site),
			Capacity:   b.SiteCapacity(site),
			Upgrade:    quoteSet(us, st, mine.UpgradeTarget{Entity: mine.EntitySite, SiteID: site.ID, Subject: mine.SubjectLevel}),
			Manager:    quoteSet(us, st, mine.UpgradeTarget{Entity: mine.EntitySite, SiteID: site.ID, Subject: mine.SubjectManager}),
		})
	}

	e := &st.Elevator
	p.Elevator = ElevatorProjection{
		Capacity:        b.ElevatorCapacity(e),
		StorageCapacity: b.ElevatorStorageCapacity(e),
		Speed:           b.ElevatorSpeed(e),
		ActionMillis:    b.ElevatorActionMillisFor(e),
		Upgrade:         quoteSet(us, st, mine.UpgradeTarget{Entity: mine.EntityElevator, Subject: mine.SubjectLevel}),
		Manager:         quoteSet(us, st, mine.UpgradeTarget{Entity: mine.EntityElevator, Subject: mine.SubjectManager}),
	}

	c := &st.Cart
	p.Cart = CartProjection{
		Capacity:      b.CartCapacity(c),
		Speed:         b.CartSpeed(c),
		DepositMillis: b.CartDepositMillis(&st.Market),
		Upgrade:       quoteSet(us, st, mine.UpgradeTarget{Entity: mine.EntityCart, Subject: mine.SubjectLevel}),
		Manager:       quoteSet(us, st, mine.UpgradeTarget{Entity: mine.EntityCart, Subject: mine.SubjectManager}),
	}

	m := &st.Market
	p.Market = MarketProjection{
		ValueMultiplier:  b.MarketValueMultiplier(m),
		NegotiatorChance: b.NegotiatorChanceFor(m),
		Upgrade:          quoteSet(us, st, mine.UpgradeTarget{Entity: mine.EntityMarket, Subject: mine.SubjectLevel}),
		Manager:          quoteSet(us, st, mine.UpgradeTarget{Entity: mine.EntityMarket, Subject: mine.SubjectManager}),
	}
	return p
}

// View is a consistent read of the state and everything derived from it.
type View struct {
	Tick        int64       `json:"tick"`
	State       *mine.State `json:"state"`
	Projections Projections `json:"projections"`
}

// View captures state and projections under one lock.
func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return View{
		Tick:        e.tickNumber,
		State:       e.state.Clone(),
		Projections: project(e.balance, e.upgrades, e.state),
	}
}
