package mine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantities_KeepsInsertionOrderThroughJSON(t *testing.T) {
	q := NewQuantities(Entry{"zinc", 3}, Entry{"amber", 1}, Entry{"mica", 2})

	data, err := json.Marshal(q)
	require.NoError(t, err)
	assert.JSONEq(t, `{"zinc":3,"amber":1,"mica":2}`, string(data))
	assert.Equal(t, `{"zinc":3,"amber":1,"mica":2}`, string(data))

	var back Quantities
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []string{"zinc", "amber", "mica"}, back.IDs())
	assert.Equal(t, 6.0, back.Total())
}

func TestQuantities_TakeDropsEmptyEntries(t *testing.T) {
	q := NewQuantities(Entry{"a", 5}, Entry{"b", 2})

	assert.Equal(t, 2.0, q.Take("b", 10))
	assert.Equal(t, []string{"a"}, q.IDs())
	assert.Equal(t, 1.0, q.Take("a", 1))
	assert.Equal(t, 4.0, q.Get("a"))
	assert.Zero(t, q.Take("missing", 1))
}

func TestQuantities_CloneIsIndependent(t *testing.T) {
	q := NewQuantities(Entry{"a", 5})
	c := q.Clone()
	c.Add("a", 1)
	c.Add("b", 1)

	assert.Equal(t, 5.0, q.Get("a"))
	assert.Equal(t, 1, q.Len())
}

func TestSkillLevels_JSONUsesPersistedNames(t *testing.T) {
	var levels SkillLevels[MarketSkill]
	levels[MarketInsight] = 2

	data, err := json.Marshal(levels)
	require.NoError(t, err)
	assert.JSONEq(t, `{"EXPANDED_STORAGE":2}`, string(data))

	var back SkillLevels[MarketSkill]
	require.NoError(t, json.Unmarshal([]byte(`{"EXPANDED_STORAGE":2,"UNKNOWN":4}`), &back))
	assert.Equal(t, 2, back.Get(MarketInsight))
	assert.Zero(t, back.Get(MasterNegotiator))
}

func TestManager_UnlockSkillRefusesWithoutPointsOrAtCap(t *testing.T) {
	m := Manager[SiteSkill]{SkillPoints: 1}

	assert.True(t, m.UnlockSkill(DeeperVeins, 1))
	assert.Equal(t, 1, m.Skill(DeeperVeins))
	assert.Zero(t, m.SkillPoints)

	assert.False(t, m.UnlockSkill(DeeperVeins, 1), "no points left")

	m.SkillPoints = 1
	assert.False(t, m.UnlockSkill(DeeperVeins, 1), "already at cap")
	assert.Equal(t, 1, m.SkillPoints)
}

func TestManager_PromoteAwardsPointsAcrossBoundaries(t *testing.T) {
	m := Manager[CartSkill]{ManagerLevel: 9}

	awarded := m.Promote(12, 10)

	assert.Equal(t, 2, awarded)
	assert.Equal(t, 21, m.ManagerLevel)
	assert.Equal(t, 2, m.SkillPoints)
}

func TestState_CloneSharesNoMutableMemory(t *testing.T) {
	st := &State{
		Sites:    []Site{{ID: 0, Level: 1}},
		Elevator: Elevator{Load: NewQuantities(Entry{"a", 1}), ActionTimer: Timer(500)},
		Cart:     Cart{Load: NewQuantities(Entry{"a", 2})},
	}

	c := st.Clone()
	c.Sites[0].Level = 9
	c.Elevator.Load.Add("a", 1)
	*c.Elevator.ActionTimer = 0
	c.Cart.Load.Clear()

	assert.Equal(t, 1, st.Sites[0].Level)
	assert.Equal(t, 1.0, st.Elevator.Load.Get("a"))
	assert.Equal(t, 500.0, *st.Elevator.ActionTimer)
	assert.Equal(t, 2.0, st.Cart.Load.Get("a"))
}

func TestState_JSONRoundTrip(t *testing.T) {
	target := 106.0
	siteID := 0
	st := &State{
		SchemaVersion: SchemaVersion,
		Cash:          42,
		Sites:         []Site{{ID: 0, Level: 3, ResourceID: "a", Accumulated: 7, Position: 70}},
		Elevator: Elevator{
			Level:          2,
			Status:         ElevatorMovingDown,
			TargetPosition: &target,
			TargetSiteID:   &siteID,
			Load:           NewQuantities(Entry{"a", 4}),
		},
		Cart:        Cart{Level: 1, Status: CartReturning, Position: 50},
		Market:      Market{Level: 1},
		AutoUpgrade: &UpgradeTarget{Entity: EntitySite, SiteID: 0, Subject: SubjectManager},
	}
	st.Sites[0].SkillLevels[GeologistsEye] = 1

	data, err := json.Marshal(st)
	require.NoError(t, err)

	var back State
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, st.Cash, back.Cash)
	assert.Equal(t, st.Sites, back.Sites)
	assert.Equal(t, ElevatorMovingDown, back.Elevator.Status)
	assert.Equal(t, 106.0, *back.Elevator.TargetPosition)
	assert.Equal(t, CartReturning, back.Cart.Status)
	assert.Equal(t, *st.AutoUpgrade, *back.AutoUpgrade)
	assert.Equal(t, 4.0, back.Elevator.Load.Get("a"))
}

func TestUpgradeTarget_Validate(t *testing.T) {
	assert.NoError(t, UpgradeTarget{Entity: EntityCart, Subject: SubjectLevel}.Validate())
	assert.Error(t, UpgradeTarget{Entity: "forge", Subject: SubjectLevel}.Validate())
	assert.Error(t, UpgradeTarget{Entity: EntityMarket, Subject: "paint"}.Validate())
}
