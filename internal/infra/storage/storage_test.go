package storage

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Qenawi/idle-mining/internal/domain/mine"
	"github.com/Qenawi/idle-mining/internal/domain/rules"
)

const v1Save = `{
	"gameState": {
		"cash": 1234,
		"mineShafts": [
			{"id": 0, "level": 3, "resources": 40, "y": 70, "managerLevel": 12},
			{"id": 1, "level": 1, "resources": 5, "y": 220, "managerLevel": 0}
		],
		"elevator": {"level": 2, "load": 30, "y": 80, "status": 3, "targetY": null, "targetShaftId": null, "actionTimer": 200},
		"warehouse": {"level": 4, "resources": 75, "lastDepositAmount": 10}
	},
	"lastSavedTimestamp": 1700000000000
}`

const v2Save = `{
	"cash": 500,
	"resources": [
		{"id": "stygian-shale", "name": "Stygian Shale", "value": 10, "color": "#4a4a4a"},
		{"id": "crimson-ore", "name": "Crimson Ore", "value": 25, "color": "#e53935"}
	],
	"mineShafts": [
		{"id": 0, "level": 5, "resourceId": "stygian-shale", "resources": 12.5, "y": 70, "managerLevel": 10, "skillPoints": 1, "skillLevels": {"DEEPER_VEINS": 1}}
	],
	"elevator": {"level": 3, "load": {"stygian-shale": 20}, "storage": {"stygian-shale": 100}, "y": 106, "status": "MovingDown", "targetY": 106, "targetShaftId": 0, "managerLevel": 0, "skillPoints": 0, "skillLevels": {}},
	"cart": {"level": 2, "load": {}, "x": 50, "status": "Returning", "managerLevel": 0, "skillPoints": 0, "skillLevels": {"MATTER_DUPLICATOR": 2}},
	"market": {"level": 2, "resources": 0, "lastDepositAmount": 0, "managerLevel": 1, "skillPoints": 0, "skillLevels": {"EXPANDED_STORAGE": 1}},
	"autoUpgradeTarget": {"type": "mineshaft", "id": 0, "subject": "manager"}
}`

func TestDetectVersion(t *testing.T) {
	v, err := DetectVersion([]byte(v1Save))
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = DetectVersion([]byte(v2Save))
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	_, err = DetectVersion([]byte(`{"foo": 1}`))
	assert.ErrorIs(t, err, ErrUnknownSchema)

	_, err = DetectVersion([]byte(`not json`))
	assert.ErrorIs(t, err, ErrUnknownSchema)
}

func TestMigrate_V1(t *testing.T) {
	st, err := Migrate([]byte(v1Save))
	require.NoError(t, err)

	assert.Equal(t, mine.SchemaVersion, st.SchemaVersion)
	assert.Equal(t, 1234.0, st.Cash)
	require.Len(t, st.Resources, legacyCatalogSize)
	require.Len(t, st.Sites, 2)

	s0 := st.Sites[0]
	assert.Equal(t, 3, s0.Level)
	assert.Equal(t, 40.0, s0.Accumulated)
	assert.Equal(t, 70.0, s0.Position)
	assert.Equal(t, 12, s0.ManagerLevel)
	assert.Equal(t, 1, s0.SkillPoints, "points earned by existing manager levels")
	assert.Equal(t, st.Resources[0].ID, s0.ResourceID)
	assert.Equal(t, st.Resources[1].ID, st.Sites[1].ResourceID)

	first := st.Resources[0].ID
	assert.Equal(t, 2, st.Elevator.Level)
	assert.Equal(t, mine.ElevatorIdle, st.Elevator.Status)
	assert.Zero(t, st.Elevator.Position)
	assert.Nil(t, st.Elevator.ActionTimer)
	assert.Nil(t, st.Elevator.TargetPosition)
	assert.Equal(t, 30.0, st.Elevator.Load.Get(first))
	assert.Equal(t, 75.0, st.Elevator.Storage.Get(first))

	assert.Equal(t, 4, st.Market.Level)
	assert.Equal(t, 10.0, st.Market.LastDepositAmount)
	assert.Equal(t, 1, st.Cart.Level)
	assert.Equal(t, mine.CartIdle, st.Cart.Status)
	assert.Nil(t, st.AutoUpgrade)
}

func TestMigrate_V2(t *testing.T) {
	st, err := Migrate([]byte(v2Save))
	require.NoError(t, err)

	require.Len(t, st.Resources, 2)
	require.Len(t, st.Sites, 1)
	s0 := st.Sites[0]
	assert.Equal(t, 5, s0.Level)
	assert.Equal(t, 12.5, s0.Accumulated)
	assert.Equal(t, 70.0, s0.Position)
	assert.Equal(t, 1, s0.SkillPoints)
	assert.Equal(t, 1, s0.Skill(mine.DeeperVeins))

	e := st.Elevator
	assert.Equal(t, mine.ElevatorMovingDown, e.Status)
	assert.Equal(t, 106.0, e.Position)
	require.NotNil(t, e.TargetPosition)
	assert.Equal(t, 106.0, *e.TargetPosition)
	require.NotNil(t, e.TargetSiteID)
	assert.Equal(t, 0, *e.TargetSiteID)
	assert.Equal(t, 20.0, e.Load.Get("stygian-shale"))
	assert.Equal(t, 100.0, e.Storage.Get("stygian-shale"))

	assert.Equal(t, mine.CartReturning, st.Cart.Status)
	assert.Equal(t, 50.0, st.Cart.Position)
	assert.Equal(t, 2, st.Cart.Skill(mine.MatterDuplicator))

	assert.Equal(t, 1, st.Market.ManagerLevel)
	assert.Equal(t, 1, st.Market.Skill(mine.MarketInsight))

	require.NotNil(t, st.AutoUpgrade)
	assert.Equal(t, mine.UpgradeTarget{Entity: mine.EntitySite, SiteID: 0, Subject: mine.SubjectManager}, *st.AutoUpgrade)
}

func TestMigrate_V2UnknownStatusResetsToIdle(t *testing.T) {
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(v2Save), &doc))
	doc["elevator"].(map[string]any)["status"] = 7
	doc["cart"].(map[string]any)["status"] = "Teleporting"
	doc["autoUpgradeTarget"] = map[string]any{"type": "warehouse", "subject": "level"}
	payload, err := json.Marshal(doc)
	require.NoError(t, err)

	st, err := Migrate(payload)
	require.NoError(t, err)

	assert.Equal(t, mine.ElevatorIdle, st.Elevator.Status)
	assert.Zero(t, st.Elevator.Position)
	assert.Nil(t, st.Elevator.TargetSiteID)
	assert.Equal(t, 20.0, st.Elevator.Load.Get("stygian-shale"), "load survives the reset")
	assert.Equal(t, mine.CartIdle, st.Cart.Status)
	assert.Zero(t, st.Cart.Position)
	assert.Nil(t, st.AutoUpgrade)
}

func TestMigrate_CurrentRoundTripKeepsOrder(t *testing.T) {
	st := rules.DefaultBalance().InitialState()
	st.Elevator.Storage.Add("crimson-ore", 3)
	st.Elevator.Storage.Add("stygian-shale", 9)
	st.Sites[0].SkillLevels[mine.GeologistsEye] = 2
	st.AutoUpgrade = &mine.UpgradeTarget{Entity: mine.EntityCart, Subject: mine.SubjectLevel}

	payload, err := encodeState(st)
	require.NoError(t, err)
	got, err := Migrate(payload)
	require.NoError(t, err)

	again, err := encodeState(got)
	require.NoError(t, err)
	assert.Equal(t, string(payload), string(again))
	assert.Equal(t, []string{"crimson-ore", "stygian-shale"}, got.Elevator.Storage.IDs())
}

func TestMigrate_RejectsNewerVersion(t *testing.T) {
	_, err := Migrate([]byte(`{"schemaVersion": 99, "sites": [{"id": 0}]}`))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestMigrate_RejectsMisnumberedSites(t *testing.T) {
	st := rules.DefaultBalance().InitialState()
	st.Sites[0].ID = 3
	st.Sites[0].Accumulated = 500
	payload, err := encodeState(st)
	require.NoError(t, err)

	_, err = Migrate(payload)
	assert.ErrorIs(t, err, ErrUnknownSchema)

	st = rules.DefaultBalance().InitialState()
	target := 2
	st.Elevator.TargetSiteID = &target
	payload, err = encodeState(st)
	require.NoError(t, err)

	_, err = Migrate(payload)
	assert.ErrorIs(t, err, ErrUnknownSchema)
}

func TestMigrate_RejectsMisnumberedLegacySites(t *testing.T) {
	legacy := `{
		"cash": 10,
		"mineShafts": [{"id": 1, "level": 1, "resources": 0, "y": 70, "managerLevel": 0, "skillPoints": 0, "skillLevels": {}}],
		"elevator": {"level": 1, "load": {}, "storage": {}, "y": 0, "status": "Idle"},
		"market": {"level": 1}
	}`
	_, err := Migrate([]byte(legacy))
	assert.ErrorIs(t, err, ErrUnknownSchema)
}

func TestDecodeSaved_UsesEnvelopeTimestamp(t *testing.T) {
	saved, err := decodeSaved([]byte(v1Save), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000000), saved.LastSavedMillis)

	saved, err = decodeSaved([]byte(v1Save), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), saved.LastSavedMillis)
}

func testRepositoryContract(t *testing.T, repo SaveRepository) {
	ctx := context.Background()

	_, err := repo.Load(ctx)
	require.ErrorIs(t, err, ErrNoSave)

	st := rules.DefaultBalance().InitialState()
	st.Cash = 4321
	at := time.UnixMilli(1760000000000)
	require.NoError(t, repo.Save(ctx, st, at))

	saved, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4321.0, saved.State.Cash)
	assert.Equal(t, at.UnixMilli(), saved.SavedAt().UnixMilli())

	st.Cash = 99
	require.NoError(t, repo.Save(ctx, st, at.Add(time.Second)))
	saved, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 99.0, saved.State.Cash)
	assert.Equal(t, at.Add(time.Second).UnixMilli(), saved.LastSavedMillis)

	require.NoError(t, repo.Clear(ctx))
	_, err = repo.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSave)
}

func TestMemoryRepository(t *testing.T) {
	testRepositoryContract(t, NewMemoryRepository())
}

func TestSQLiteSaveRepository(t *testing.T) {
	db, err := InitSQLite(filepath.Join(t.TempDir(), "data", "mine.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	testRepositoryContract(t, NewSQLiteSaveRepository(db, ""))
}

func TestSQLiteSaveRepository_ImportsLegacySave(t *testing.T) {
	db, err := InitSQLite(filepath.Join(t.TempDir(), "mine.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := NewSQLiteSaveRepository(db, "legacy")
	ctx := context.Background()

	at := time.UnixMilli(1700000000000)
	require.NoError(t, repo.Import(ctx, []byte(v1Save), at))

	saved, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1234.0, saved.State.Cash)
	assert.Equal(t, at.UnixMilli(), saved.LastSavedMillis)
	assert.Len(t, saved.State.Sites, 2)

	var version int
	require.NoError(t, db.QueryRow(`SELECT schema_version FROM saves WHERE slot = ?`, "legacy").Scan(&version))
	assert.Equal(t, 1, version)

	assert.Error(t, repo.Import(ctx, []byte(`{"nope": true}`), at))
}

func TestSQLiteSaveRepository_SlotsAreIndependent(t *testing.T) {
	db, err := InitSQLite(filepath.Join(t.TempDir(), "mine.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	ctx := context.Background()

	a := NewSQLiteSaveRepository(db, "a")
	b := NewSQLiteSaveRepository(db, "b")
	require.NoError(t, a.Save(ctx, rules.DefaultBalance().InitialState(), time.Now()))

	_, err = b.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSave)
	_, err = a.Load(ctx)
	assert.NoError(t, err)
}
