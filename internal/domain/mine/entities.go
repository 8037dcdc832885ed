package mine

import (
	"encoding/json"
	"fmt"
)

// Site is an extraction location producing one resource type.
// Ids are dense, 0-based and equal to the site's index in State.Sites.
type Site struct {
	ID          int     `json:"id"`
	Level       int     `json:"level"`
	ResourceID  string  `json:"resourceId"`
	Accumulated float64 `json:"accumulated"`
	Position    float64 `json:"position"`
	Manager[SiteSkill]
}

// ElevatorStatus is the elevator's state machine phase.
type ElevatorStatus int

const (
	ElevatorIdle ElevatorStatus = iota
	ElevatorMovingDown
	ElevatorMovingUp
	ElevatorDepositing
)

var elevatorStatusNames = [...]string{"IDLE", "MOVING_DOWN", "MOVING_UP", "DEPOSITING"}

func (s ElevatorStatus) String() string {
	if s < 0 || int(s) >= len(elevatorStatusNames) {
		return fmt.Sprintf("ElevatorStatus(%d)", int(s))
	}
	return elevatorStatusNames[s]
}

// ParseElevatorStatus resolves a persisted name. Unknown names are reported as false.
func ParseElevatorStatus(name string) (ElevatorStatus, bool) {
	for i, n := range elevatorStatusNames {
		if n == name {
			return ElevatorStatus(i), true
		}
	}
	return ElevatorIdle, false
}

func (s ElevatorStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ElevatorStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	v, ok := ParseElevatorStatus(name)
	if !ok {
		return fmt.Errorf("unknown elevator status %q", name)
	}
	*s = v
	return nil
}

// Elevator is the first-stage carrier between sites and its home storage.
// TargetPosition and TargetSiteID are only meaningful while moving down.
type Elevator struct {
	Level          int            `json:"level"`
	Load           Quantities     `json:"load"`
	Storage        Quantities     `json:"storage"`
	Position       float64        `json:"position"`
	Status         ElevatorStatus `json:"state"`
	TargetPosition *float64       `json:"targetPosition"`
	TargetSiteID   *int           `json:"targetSiteId"`
	ActionTimer    *float64       `json:"actionTimer,omitempty"`
	Manager[ElevatorSkill]
}

// CartStatus is the cart's state machine phase.
type CartStatus int

const (
	CartIdle CartStatus = iota
	CartCollecting
	CartMovingToMarket
	CartDepositing
	CartReturning
)

var cartStatusNames = [...]string{"IDLE", "COLLECTING", "MOVING_TO_MARKET", "DEPOSITING", "RETURNING"}

func (s CartStatus) String() string {
	if s < 0 || int(s) >= len(cartStatusNames) {
		return fmt.Sprintf("CartStatus(%d)", int(s))
	}
	return cartStatusNames[s]
}

// ParseCartStatus resolves a persisted name. Unknown names are reported as false.
func ParseCartStatus(name string) (CartStatus, bool) {
	for i, n := range cartStatusNames {
		if n == name {
			return CartStatus(i), true
		}
	}
	return CartIdle, false
}

func (s CartStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *CartStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	v, ok := ParseCartStatus(name)
	if !ok {
		return fmt.Errorf("unknown cart status %q", name)
	}
	*s = v
	return nil
}

// Cart is the second-stage carrier between elevator storage and the market.
type Cart struct {
	Level       int        `json:"level"`
	Load        Quantities `json:"load"`
	Position    float64    `json:"position"`
	Status      CartStatus `json:"state"`
	ActionTimer *float64   `json:"actionTimer,omitempty"`
	Manager[CartSkill]
}

// Market converts delivered loads into cash. It holds no inventory.
type Market struct {
	Level             int     `json:"level"`
	LastDepositAmount float64 `json:"lastDepositAmount"`
	Manager[MarketSkill]
}

// Timer returns a pointer to an armed action timer of ms milliseconds.
func Timer(ms float64) *float64 {
	return &ms
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
