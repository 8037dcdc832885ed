package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/Qenawi/idle-mining/internal/domain/mine"
	"github.com/Qenawi/idle-mining/internal/domain/resource"
)

var (
	// ErrUnknownSchema means the payload matches no known save shape.
	ErrUnknownSchema = errors.New("unrecognized save format")
	// ErrUnsupportedVersion means the payload was written by a newer build.
	ErrUnsupportedVersion = errors.New("unsupported save schema version")
)

// Saves written before the catalog and skill points existed were balanced with these.
const (
	legacyCatalogSize        = 10
	legacySkillPointInterval = 10
)

// migrations upgrade a decoded document from version k to k+1 in place.
var migrations = map[int]func(doc map[string]any) error{
	1: migrateV1toV2,
	2: migrateV2toV3,
}

// Migrate decodes a payload of any known schema version into the current State.
// Payloads wrapped as {"gameState": ..., "lastSavedTimestamp": ...} are unwrapped first.
func Migrate(payload []byte) (*mine.State, error) {
	inner, _, err := unwrap(payload)
	if err != nil {
		return nil, err
	}
	version, err := detect(inner)
	if err != nil {
		return nil, err
	}
	if version > mine.SchemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	if version == mine.SchemaVersion {
		return decodeCurrent(inner)
	}

	var doc map[string]any
	if err := json.Unmarshal(inner, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode v%d save: %w", version, err)
	}
	for v := version; v < mine.SchemaVersion; v++ {
		step, ok := migrations[v]
		if !ok {
			return nil, fmt.Errorf("%w: no migration from v%d", ErrUnsupportedVersion, v)
		}
		if err := step(doc); err != nil {
			return nil, fmt.Errorf("migrate v%d to v%d: %w", v, v+1, err)
		}
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode migrated save: %w", err)
	}
	return decodeCurrent(out)
}

// DetectVersion reports the schema version of a payload without migrating it.
func DetectVersion(payload []byte) (int, error) {
	inner, _, err := unwrap(payload)
	if err != nil {
		return 0, err
	}
	return detect(inner)
}

func detect(inner []byte) (int, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(inner, &probe); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnknownSchema, err)
	}
	if raw, ok := probe["schemaVersion"]; ok {
		var v int
		if err := json.Unmarshal(raw, &v); err != nil {
			return 0, fmt.Errorf("%w: bad schemaVersion", ErrUnknownSchema)
		}
		return v, nil
	}
	if _, ok := probe["warehouse"]; ok {
		return 1, nil
	}
	if _, ok := probe["mineShafts"]; ok {
		return 2, nil
	}
	return 0, ErrUnknownSchema
}

// unwrap returns the bare state and, when present, the envelope timestamp in milliseconds.
func unwrap(payload []byte) ([]byte, int64, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(payload, &probe); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrUnknownSchema, err)
	}
	inner, ok := probe["gameState"]
	if !ok {
		return payload, 0, nil
	}
	var ts float64
	if raw, ok := probe["lastSavedTimestamp"]; ok {
		_ = json.Unmarshal(raw, &ts)
	}
	return inner, int64(ts), nil
}

func decodeCurrent(data []byte) (*mine.State, error) {
	var st mine.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to decode save: %w", err)
	}
	if len(st.Sites) == 0 {
		return nil, fmt.Errorf("%w: save has no sites", ErrUnknownSchema)
	}
	// Sites are addressed by position, so ids must be 0..n-1 in order.
	for i := range st.Sites {
		if st.Sites[i].ID != i {
			return nil, fmt.Errorf("%w: site at index %d has id %d", ErrUnknownSchema, i, st.Sites[i].ID)
		}
	}
	if t := st.Elevator.TargetSiteID; t != nil && (*t < 0 || *t >= len(st.Sites)) {
		return nil, fmt.Errorf("%w: elevator targets missing site %d", ErrUnknownSchema, *t)
	}
	if len(st.Resources) == 0 {
		st.Resources = resource.Generate(legacyCatalogSize)
	}
	st.SchemaVersion = mine.SchemaVersion
	return &st, nil
}

func decodeSaved(payload []byte, savedAtMillis int64) (*SavedGame, error) {
	_, ts, err := unwrap(payload)
	if err != nil {
		return nil, err
	}
	st, err := Migrate(payload)
	if err != nil {
		return nil, err
	}
	if savedAtMillis == 0 {
		savedAtMillis = ts
	}
	return &SavedGame{State: st, LastSavedMillis: savedAtMillis}, nil
}

func encodeState(st *mine.State) ([]byte, error) {
	if st == nil {
		return nil, errors.New("cannot save a nil state")
	}
	out := *st
	out.SchemaVersion = mine.SchemaVersion
	payload, err := json.Marshal(&out)
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return payload, nil
}

// v1: {cash, mineShafts[{id,level,resources,y,managerLevel}], elevator{level,load,y,status,...},
// warehouse{level,resources,lastDepositAmount}}. Quantities were plain numbers of one resource.
func migrateV1toV2(doc map[string]any) error {
	catalog := catalogOf(doc)
	first := catalog.First().ID

	wh := object(doc, "warehouse")
	delete(doc, "warehouse")
	doc["market"] = map[string]any{
		"level":             levelOr(wh, 1),
		"lastDepositAmount": number(wh, "lastDepositAmount"),
		"managerLevel":      number(wh, "managerLevel"),
		"skillPoints":       0,
		"skillLevels":       map[string]any{},
	}

	el := object(doc, "elevator")
	el["load"] = quantity(first, number(el, "load"))
	el["storage"] = quantity(first, number(wh, "resources"))
	// The v1 status enum has no counterpart; restart the trip from home.
	el["status"] = mine.ElevatorIdle.String()
	el["y"] = 0
	el["targetY"] = nil
	el["targetShaftId"] = nil
	delete(el, "actionTimer")
	managerDefaults(el)

	shafts, _ := doc["mineShafts"].([]any)
	for _, raw := range shafts {
		s, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		id := int(number(s, "id"))
		setDefault(s, "resourceId", catalog.At(id).ID)
		if _, ok := s["skillPoints"]; !ok {
			s["skillPoints"] = mine.SkillPointsBetween(0, int(number(s, "managerLevel")), legacySkillPointInterval)
		}
		managerDefaults(s)
	}

	setDefault(doc, "cart", map[string]any{
		"level":  1,
		"load":   map[string]any{},
		"x":      0,
		"status": mine.CartIdle.String(),
	})
	managerDefaults(object(doc, "cart"))
	setDefault(doc, "autoUpgradeTarget", nil)
	return nil
}

// v2 kept the mine-shaft vocabulary and pixel coordinates; v3 renames both.
func migrateV2toV3(doc map[string]any) error {
	catalog := catalogOf(doc)

	shafts, ok := doc["mineShafts"].([]any)
	if !ok {
		return errors.New("mineShafts is not a list")
	}
	delete(doc, "mineShafts")
	sites := make([]any, 0, len(shafts))
	for _, raw := range shafts {
		s, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		id := int(number(s, "id"))
		resourceID, _ := s["resourceId"].(string)
		if resourceID == "" {
			resourceID = catalog.At(id).ID
		}
		site := map[string]any{
			"id":           id,
			"level":        levelOr(s, 1),
			"resourceId":   resourceID,
			"accumulated":  number(s, "resources"),
			"position":     number(s, "y"),
			"managerLevel": number(s, "managerLevel"),
			"skillPoints":  number(s, "skillPoints"),
			"skillLevels":  s["skillLevels"],
		}
		managerDefaults(site)
		sites = append(sites, site)
	}
	doc["sites"] = sites

	el := object(doc, "elevator")
	rename(el, "y", "position")
	rename(el, "targetY", "targetPosition")
	rename(el, "targetShaftId", "targetSiteId")
	if n, ok := el["load"].(float64); ok {
		el["load"] = quantity(catalog.First().ID, n)
	}
	setDefault(el, "load", map[string]any{})
	setDefault(el, "storage", map[string]any{})
	setDefault(el, "level", 1)
	if status, ok := mine.ParseElevatorStatus(normalizeStatus(el["status"])); ok {
		el["state"] = status.String()
	} else {
		el["state"] = mine.ElevatorIdle.String()
		el["position"] = 0
		el["targetPosition"] = nil
		el["targetSiteId"] = nil
		delete(el, "actionTimer")
	}
	delete(el, "status")
	managerDefaults(el)

	cart := object(doc, "cart")
	rename(cart, "x", "position")
	setDefault(cart, "load", map[string]any{})
	setDefault(cart, "level", 1)
	if status, ok := mine.ParseCartStatus(normalizeStatus(cart["status"])); ok {
		cart["state"] = status.String()
	} else {
		cart["state"] = mine.CartIdle.String()
		cart["position"] = 0
		delete(cart, "actionTimer")
	}
	delete(cart, "status")
	managerDefaults(cart)

	market := object(doc, "market")
	delete(market, "resources")
	setDefault(market, "level", 1)
	setDefault(market, "lastDepositAmount", 0)
	managerDefaults(market)

	doc["autoUpgradeTarget"] = migrateTarget(doc["autoUpgradeTarget"])
	doc["schemaVersion"] = 3
	return nil
}

// migrateTarget maps {type, id, subject} onto {entity, siteId, subject}. Unknown targets are dropped.
func migrateTarget(raw any) any {
	t, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	kind, _ := t["type"].(string)
	if kind == "mineshaft" {
		kind = string(mine.EntitySite)
	}
	subject, _ := t["subject"].(string)
	out := mine.UpgradeTarget{Entity: mine.EntityKind(kind), Subject: mine.UpgradeSubject(subject)}
	if out.Entity == mine.EntitySite {
		out.SiteID = int(number(t, "id"))
	}
	if out.Validate() != nil {
		return nil
	}
	return out
}

// catalogOf decodes the document's resource list, generating the legacy catalog when absent.
func catalogOf(doc map[string]any) resource.Catalog {
	var catalog resource.Catalog
	if raw, ok := doc["resources"]; ok && raw != nil {
		if data, err := json.Marshal(raw); err == nil {
			_ = json.Unmarshal(data, &catalog)
		}
	}
	if len(catalog) == 0 {
		catalog = resource.Generate(legacyCatalogSize)
		doc["resources"] = catalog
	}
	return catalog
}

// normalizeStatus turns "MovingDown", "moving-down" or "MOVING_DOWN" into "MOVING_DOWN".
func normalizeStatus(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	var b strings.Builder
	prev := rune(0)
	for _, r := range s {
		if r == '-' || r == ' ' {
			r = '_'
		}
		if unicode.IsUpper(r) && unicode.IsLower(prev) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToUpper(r))
		prev = r
	}
	return b.String()
}

func managerDefaults(m map[string]any) {
	setDefault(m, "managerLevel", 0)
	setDefault(m, "skillPoints", 0)
	setDefault(m, "skillLevels", map[string]any{})
}

func quantity(id string, n float64) map[string]any {
	if n <= 0 || id == "" {
		return map[string]any{}
	}
	return map[string]any{id: n}
}

func object(doc map[string]any, key string) map[string]any {
	if m, ok := doc[key].(map[string]any); ok {
		return m
	}
	m := map[string]any{}
	doc[key] = m
	return m
}

// number reads a JSON number, or an int written by an earlier step.
func number(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func levelOr(m map[string]any, fallback int) int {
	if v := int(number(m, "level")); v > 0 {
		return v
	}
	return fallback
}

func rename(m map[string]any, from, to string) {
	if v, ok := m[from]; ok {
		m[to] = v
		delete(m, from)
	}
}

func setDefault(m map[string]any, key string, v any) {
	if cur, ok := m[key]; !ok || cur == nil {
		m[key] = v
	}
}
