package rules

import (
	"github.com/Qenawi/idle-mining/internal/domain/mine"
	"github.com/Qenawi/idle-mining/internal/domain/resource"
)

// NewSite builds site id at level 1, mining the catalog type at the same index.
// Ids past the end of the catalog reuse its last type.
func (b Balance) NewSite(id int, catalog resource.Catalog) mine.Site {
	return mine.Site{
		ID:         id,
		Level:      1,
		ResourceID: catalog.At(id).ID,
		Position:   b.SitePosition(id),
	}
}

// InitialState is a fresh economy: one site, idle carriers, starting cash.
func (b Balance) InitialState() *mine.State {
	catalog := resource.Generate(b.CatalogSize)
	return &mine.State{
		SchemaVersion: mine.SchemaVersion,
		Cash:          b.StartingCash,
		Sites:         []mine.Site{b.NewSite(0, catalog)},
		Elevator:      mine.Elevator{Level: 1, Status: mine.ElevatorIdle},
		Cart:          mine.Cart{Level: 1, Status: mine.CartIdle},
		Market:        mine.Market{Level: 1},
		Resources:     catalog,
	}
}
