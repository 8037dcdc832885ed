// Package mine holds the economy data model: extraction sites, the elevator,
// the cart, the market and the root State that owns them.
// This package is PURE and must NOT import any infrastructure packages.
package mine

import (
	"encoding/json"
	"fmt"
)

// skillsPerEntity is the size of every skill tree. Each entity has exactly three skills.
const skillsPerEntity = 3

// Skill is the closed set of skill enums. Values must be 0..skillsPerEntity-1.
type Skill interface {
	~int
	String() string
}

// SiteSkill enumerates extraction site skills.
type SiteSkill int

const (
	GeologistsEye SiteSkill = iota
	DeeperVeins
	AdvancedMachinery
)

func (s SiteSkill) String() string {
	switch s {
	case GeologistsEye:
		return "GEOLOGISTS_EYE"
	case DeeperVeins:
		return "DEEPER_VEINS"
	case AdvancedMachinery:
		return "ADVANCED_MACHINERY"
	}
	return fmt.Sprintf("SiteSkill(%d)", int(s))
}

// ElevatorSkill enumerates elevator skills.
type ElevatorSkill int

const (
	ExpressLoad ElevatorSkill = iota
	LightweightMaterials
	ReinforcedFrame
)

func (s ElevatorSkill) String() string {
	switch s {
	case ExpressLoad:
		return "EXPRESS_LOAD"
	case LightweightMaterials:
		return "LIGHTWEIGHT_MATERIALS"
	case ReinforcedFrame:
		return "REINFORCED_FRAME"
	}
	return fmt.Sprintf("ElevatorSkill(%d)", int(s))
}

// CartSkill enumerates cart skills.
type CartSkill int

const (
	OverclockedPumps CartSkill = iota
	ReinforcedPipes
	MatterDuplicator
)

func (s CartSkill) String() string {
	switch s {
	case OverclockedPumps:
		return "OVERCLOCKED_PUMPS"
	case ReinforcedPipes:
		return "REINFORCED_PIPES"
	case MatterDuplicator:
		return "MATTER_DUPLICATOR"
	}
	return fmt.Sprintf("CartSkill(%d)", int(s))
}

// MarketSkill enumerates market skills.
type MarketSkill int

const (
	MasterNegotiator MarketSkill = iota
	// MarketInsight keeps its legacy persisted name.
	MarketInsight
	EfficientLogistics
)

func (s MarketSkill) String() string {
	switch s {
	case MasterNegotiator:
		return "MASTER_NEGOTIATOR"
	case MarketInsight:
		return "EXPANDED_STORAGE"
	case EfficientLogistics:
		return "EFFICIENT_LOGISTICS"
	}
	return fmt.Sprintf("MarketSkill(%d)", int(s))
}

// ParseSkill resolves a persisted skill name into its enum value.
func ParseSkill[S Skill](name string) (S, bool) {
	for i := 0; i < skillsPerEntity; i++ {
		if S(i).String() == name {
			return S(i), true
		}
	}
	return 0, false
}

// SkillLevels maps every skill of one entity to its level.
// Missing keys decode as zero and unknown keys are ignored.
type SkillLevels[S Skill] [skillsPerEntity]int

// Get returns the level of s, 0 for out-of-range values.
func (l SkillLevels[S]) Get(s S) int {
	if int(s) < 0 || int(s) >= skillsPerEntity {
		return 0
	}
	return l[s]
}

func (l SkillLevels[S]) MarshalJSON() ([]byte, error) {
	out := make(map[string]int, skillsPerEntity)
	for i := 0; i < skillsPerEntity; i++ {
		if l[i] > 0 {
			out[S(i).String()] = l[i]
		}
	}
	return json.Marshal(out)
}

func (l *SkillLevels[S]) UnmarshalJSON(data []byte) error {
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*l = SkillLevels[S]{}
	for name, v := range raw {
		s, ok := ParseSkill[S](name)
		if !ok || v <= 0 {
			continue
		}
		(*l)[s] = int(v)
	}
	return nil
}

// Manager is the per-entity upgrade modifier. It is embedded in every entity.
type Manager[S Skill] struct {
	ManagerLevel int            `json:"managerLevel"`
	SkillPoints  int            `json:"skillPoints"`
	SkillLevels  SkillLevels[S] `json:"skillLevels"`
}

// Skill returns the current level of s.
func (m *Manager[S]) Skill(s S) int {
	return m.SkillLevels.Get(s)
}

// UnlockSkill spends one skill point on s. Refuses without points, at the cap, or for an unknown skill.
func (m *Manager[S]) UnlockSkill(s S, maxLevel int) bool {
	if int(s) < 0 || int(s) >= skillsPerEntity {
		return false
	}
	if m.SkillPoints <= 0 || m.SkillLevels[s] >= maxLevel {
		return false
	}
	m.SkillPoints--
	m.SkillLevels[s]++
	return true
}

// Promote raises the manager level and awards the skill points earned by
// crossing interval boundaries. Returns the points awarded.
func (m *Manager[S]) Promote(levels, interval int) int {
	if levels <= 0 {
		return 0
	}
	newLevel := m.ManagerLevel + levels
	points := SkillPointsBetween(m.ManagerLevel, newLevel, interval)
	m.ManagerLevel = newLevel
	m.SkillPoints += points
	return points
}

// SkillPointsBetween counts interval boundaries crossed going from oldLevel to newLevel.
func SkillPointsBetween(oldLevel, newLevel, interval int) int {
	if interval <= 0 || newLevel <= oldLevel {
		return 0
	}
	return newLevel/interval - oldLevel/interval
}
