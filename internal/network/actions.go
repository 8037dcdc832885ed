// Package network - actions.go
// Player commands shared by the WebSocket and REST surfaces.
package network

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Qenawi/idle-mining/internal/domain/mine"
	"github.com/Qenawi/idle-mining/internal/domain/rules"
	"github.com/Qenawi/idle-mining/internal/engine"
)

// ActionType names a player command.
type ActionType string

const (
	ActionUpgradeSite            ActionType = "UPGRADE_SITE"
	ActionUpgradeSiteManager     ActionType = "UPGRADE_SITE_MANAGER"
	ActionUnlockSiteSkill        ActionType = "UNLOCK_SITE_SKILL"
	ActionAddSite                ActionType = "ADD_SITE"
	ActionUpgradeElevator        ActionType = "UPGRADE_ELEVATOR"
	ActionUpgradeElevatorManager ActionType = "UPGRADE_ELEVATOR_MANAGER"
	ActionUnlockElevatorSkill    ActionType = "UNLOCK_ELEVATOR_SKILL"
	ActionUpgradeCart            ActionType = "UPGRADE_CART"
	ActionUpgradeCartManager     ActionType = "UPGRADE_CART_MANAGER"
	ActionUnlockCartSkill        ActionType = "UNLOCK_CART_SKILL"
	ActionUpgradeMarket          ActionType = "UPGRADE_MARKET"
	ActionUpgradeMarketManager   ActionType = "UPGRADE_MARKET_MANAGER"
	ActionUnlockMarketSkill      ActionType = "UNLOCK_MARKET_SKILL"
	ActionSetAutoUpgrade         ActionType = "SET_AUTO_UPGRADE"
	ActionClearAutoUpgrade       ActionType = "CLEAR_AUTO_UPGRADE"
)

// ErrMalformedAction is returned for unknown types and unreadable payloads.
var ErrMalformedAction = errors.New("malformed player action")

// PlayerAction represents an incoming command from the frontend.
type PlayerAction struct {
	Type    ActionType      `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"` // Action-specific data
}

// actionPayload is the union of every action's fields.
// SET_AUTO_UPGRADE carries a mine.UpgradeTarget instead.
type actionPayload struct {
	SiteID *int   `json:"siteId"`
	Amount *int   `json:"amount"` // -1 buys as many as affordable; default 1
	Skill  string `json:"skill"`
}

func (p actionPayload) site() (int, error) {
	if p.SiteID == nil {
		return 0, fmt.Errorf("%w: missing siteId", ErrMalformedAction)
	}
	return *p.SiteID, nil
}

func (p actionPayload) amount() (rules.Amount, error) {
	if p.Amount == nil {
		return 1, nil
	}
	a, ok := rules.ParseAmount(*p.Amount)
	if !ok {
		return 0, fmt.Errorf("%w: invalid amount %d", ErrMalformedAction, *p.Amount)
	}
	return a, nil
}

func skill[S mine.Skill](name string) (S, error) {
	s, ok := mine.ParseSkill[S](name)
	if !ok {
		return s, fmt.Errorf("%w: unknown skill %q", ErrMalformedAction, name)
	}
	return s, nil
}

// Dispatch applies action to eng. The bool reports whether the economy changed;
// refusals such as insufficient cash are not errors.
func Dispatch(eng *engine.Engine, action PlayerAction) (bool, error) {
	if action.Type == ActionSetAutoUpgrade {
		var target mine.UpgradeTarget
		if err := json.Unmarshal(action.Payload, &target); err != nil {
			return false, fmt.Errorf("%w: %v", ErrMalformedAction, err)
		}
		if err := target.Validate(); err != nil {
			return false, fmt.Errorf("%w: %v", ErrMalformedAction, err)
		}
		return eng.SetAutoUpgrade(&target), nil
	}

	var p actionPayload
	if len(action.Payload) > 0 {
		if err := json.Unmarshal(action.Payload, &p); err != nil {
			return false, fmt.Errorf("%w: %v", ErrMalformedAction, err)
		}
	}

	switch action.Type {
	case ActionUpgradeSite, ActionUpgradeSiteManager:
		id, err := p.site()
		if err != nil {
			return false, err
		}
		amount, err := p.amount()
		if err != nil {
			return false, err
		}
		if action.Type == ActionUpgradeSite {
			return eng.UpgradeSite(id, amount), nil
		}
		return eng.UpgradeSiteManager(id, amount), nil

	case ActionUnlockSiteSkill:
		id, err := p.site()
		if err != nil {
			return false, err
		}
		s, err := skill[mine.SiteSkill](p.Skill)
		if err != nil {
			return false, err
		}
		return eng.UnlockSiteSkill(id, s), nil

	case ActionAddSite:
		return eng.AddSite(), nil

	case ActionUnlockElevatorSkill:
		s, err := skill[mine.ElevatorSkill](p.Skill)
		if err != nil {
			return false, err
		}
		return eng.UnlockElevatorSkill(s), nil

	case ActionUnlockCartSkill:
		s, err := skill[mine.CartSkill](p.Skill)
		if err != nil {
			return false, err
		}
		return eng.UnlockCartSkill(s), nil

	case ActionUnlockMarketSkill:
		s, err := skill[mine.MarketSkill](p.Skill)
		if err != nil {
			return false, err
		}
		return eng.UnlockMarketSkill(s), nil

	case ActionClearAutoUpgrade:
		return eng.SetAutoUpgrade(nil), nil
	}

	amount, err := p.amount()
	if err != nil {
		return false, err
	}
	switch action.Type {
	case ActionUpgradeElevator:
		return eng.UpgradeElevator(amount), nil
	case ActionUpgradeElevatorManager:
		return eng.UpgradeElevatorManager(amount), nil
	case ActionUpgradeCart:
		return eng.UpgradeCart(amount), nil
	case ActionUpgradeCartManager:
		return eng.UpgradeCartManager(amount), nil
	case ActionUpgradeMarket:
		return eng.UpgradeMarket(amount), nil
	case ActionUpgradeMarketManager:
		return eng.UpgradeMarketManager(amount), nil
	}
	return false, fmt.Errorf("%w: unknown type %q", ErrMalformedAction, action.Type)
}
