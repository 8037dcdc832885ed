package mine

import (
	"fmt"

	"github.com/Qenawi/idle-mining/internal/domain/resource"
)

// SchemaVersion is the current persisted shape of State.
const SchemaVersion = 3

// EntityKind names an upgradable entity.
type EntityKind string

const (
	EntitySite     EntityKind = "site"
	EntityElevator EntityKind = "elevator"
	EntityCart     EntityKind = "cart"
	EntityMarket   EntityKind = "market"
)

// UpgradeSubject selects what gets bought on an entity.
type UpgradeSubject string

const (
	SubjectLevel   UpgradeSubject = "level"
	SubjectManager UpgradeSubject = "manager"
)

// UpgradeTarget names one purchasable subject: a level or manager of one entity.
// The auto-upgrade policy stores one and buys a single level of it per tick when affordable.
// SiteID is only read when Entity is EntitySite.
type UpgradeTarget struct {
	Entity  EntityKind     `json:"entity"`
	SiteID  int            `json:"siteId,omitempty"`
	Subject UpgradeSubject `json:"subject"`
}

// Validate checks the target names a known entity and subject.
func (t UpgradeTarget) Validate() error {
	switch t.Entity {
	case EntitySite, EntityElevator, EntityCart, EntityMarket:
	default:
		return fmt.Errorf("unknown entity %q", t.Entity)
	}
	switch t.Subject {
	case SubjectLevel, SubjectManager:
	default:
		return fmt.Errorf("unknown subject %q", t.Subject)
	}
	if t.Entity == EntitySite && t.SiteID < 0 {
		return fmt.Errorf("negative site id %d", t.SiteID)
	}
	return nil
}

func (t UpgradeTarget) String() string {
	if t.Entity == EntitySite {
		return fmt.Sprintf("site:%d:%s", t.SiteID, t.Subject)
	}
	return fmt.Sprintf("%s:%s", t.Entity, t.Subject)
}

// State is the root aggregate. The simulation driver is its single owner.
type State struct {
	SchemaVersion int              `json:"schemaVersion"`
	Cash          float64          `json:"cash"`
	Sites         []Site           `json:"sites"`
	Elevator      Elevator         `json:"elevator"`
	Cart          Cart             `json:"cart"`
	Market        Market           `json:"market"`
	Resources     resource.Catalog `json:"resources"`
	AutoUpgrade   *UpgradeTarget   `json:"autoUpgradeTarget"`
}

// Site returns the site with the given id, or nil when it does not exist.
func (s *State) Site(id int) *Site {
	if id < 0 || id >= len(s.Sites) {
		return nil
	}
	return &s.Sites[id]
}

// Clone returns a deep copy sharing no mutable memory with s.
func (s *State) Clone() *State {
	out := *s

	out.Sites = make([]Site, len(s.Sites))
	copy(out.Sites, s.Sites)

	out.Elevator.Load = s.Elevator.Load.Clone()
	out.Elevator.Storage = s.Elevator.Storage.Clone()
	out.Elevator.TargetPosition = cloneFloat(s.Elevator.TargetPosition)
	out.Elevator.TargetSiteID = cloneInt(s.Elevator.TargetSiteID)
	out.Elevator.ActionTimer = cloneFloat(s.Elevator.ActionTimer)

	out.Cart.Load = s.Cart.Load.Clone()
	out.Cart.ActionTimer = cloneFloat(s.Cart.ActionTimer)

	out.Resources = s.Resources.Clone()
	if s.AutoUpgrade != nil {
		t := *s.AutoUpgrade
		out.AutoUpgrade = &t
	}
	return &out
}
