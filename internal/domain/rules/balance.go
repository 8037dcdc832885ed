// Package rules contains the pure calculation logic for the mining economy.
// This package is PURE and must NOT import any infrastructure packages.
package rules

import "time"

// Balance stores every tuning constant of the economy. Loaded from YAML over DefaultBalance.
type Balance struct {
	TickMillis   int     `yaml:"tick_ms" json:"tick_ms"`
	StartingCash float64 `yaml:"starting_cash" json:"starting_cash"`

	// Level cost curves.
	SiteUpgradeBaseCost     float64 `yaml:"site_upgrade_base_cost" json:"site_upgrade_base_cost"`
	ElevatorUpgradeBaseCost float64 `yaml:"elevator_upgrade_base_cost" json:"elevator_upgrade_base_cost"`
	CartUpgradeBaseCost     float64 `yaml:"cart_upgrade_base_cost" json:"cart_upgrade_base_cost"`
	MarketUpgradeBaseCost   float64 `yaml:"market_upgrade_base_cost" json:"market_upgrade_base_cost"`
	UpgradeCostMultiplier   float64 `yaml:"upgrade_cost_multiplier" json:"upgrade_cost_multiplier"`
	NewSiteBaseCost         float64 `yaml:"new_site_base_cost" json:"new_site_base_cost"`
	NewSiteCostMultiplier   float64 `yaml:"new_site_cost_multiplier" json:"new_site_cost_multiplier"`

	// Managers.
	SiteManagerBaseCost     float64 `yaml:"site_manager_base_cost" json:"site_manager_base_cost"`
	ElevatorManagerBaseCost float64 `yaml:"elevator_manager_base_cost" json:"elevator_manager_base_cost"`
	CartManagerBaseCost     float64 `yaml:"cart_manager_base_cost" json:"cart_manager_base_cost"`
	MarketManagerBaseCost   float64 `yaml:"market_manager_base_cost" json:"market_manager_base_cost"`
	ManagerCostMultiplier   float64 `yaml:"manager_cost_multiplier" json:"manager_cost_multiplier"`
	SiteManagerBonus        float64 `yaml:"site_manager_bonus" json:"site_manager_bonus"`
	ElevatorManagerBonus    float64 `yaml:"elevator_manager_bonus" json:"elevator_manager_bonus"`
	CartManagerBonus        float64 `yaml:"cart_manager_bonus" json:"cart_manager_bonus"`
	MarketManagerBonus      float64 `yaml:"market_manager_bonus" json:"market_manager_bonus"`
	SkillPointInterval      int     `yaml:"skill_point_interval" json:"skill_point_interval"`
	MaxSkillLevel           int     `yaml:"max_skill_level" json:"max_skill_level"`

	// Sites.
	MaxSites              int     `yaml:"max_sites" json:"max_sites"`
	CatalogSize           int     `yaml:"catalog_size" json:"catalog_size"`
	SiteBaseProduction    float64 `yaml:"site_base_production" json:"site_base_production"`
	SiteBaseCapacity      float64 `yaml:"site_base_capacity" json:"site_base_capacity"`
	SiteDepthGrowth       float64 `yaml:"site_depth_growth" json:"site_depth_growth"`
	SitePositionOffset    float64 `yaml:"site_position_offset" json:"site_position_offset"`
	SitePositionIncrement float64 `yaml:"site_position_increment" json:"site_position_increment"`
	ElevatorStopOffset    float64 `yaml:"elevator_stop_offset" json:"elevator_stop_offset"`

	// Elevator.
	ElevatorBaseSpeed    float64 `yaml:"elevator_base_speed" json:"elevator_base_speed"`
	ElevatorActionMillis float64 `yaml:"elevator_action_ms" json:"elevator_action_ms"`
	ElevatorBaseCapacity float64 `yaml:"elevator_base_capacity" json:"elevator_base_capacity"`
	ElevatorStorageBase  float64 `yaml:"elevator_storage_base" json:"elevator_storage_base"`

	// Cart.
	CartBaseSpeed      float64 `yaml:"cart_base_speed" json:"cart_base_speed"`
	CartActionMillis   float64 `yaml:"cart_action_ms" json:"cart_action_ms"`
	CartTravelDistance float64 `yaml:"cart_travel_distance" json:"cart_travel_distance"`
	CartBaseCapacity   float64 `yaml:"cart_base_capacity" json:"cart_base_capacity"`

	// Market.
	MarketLevelBonus float64 `yaml:"market_level_bonus" json:"market_level_bonus"`

	// Skills.
	GeologistChance        float64 `yaml:"geologist_chance" json:"geologist_chance"`
	GeologistMultiplier    float64 `yaml:"geologist_multiplier" json:"geologist_multiplier"`
	DeeperVeinsBonus       float64 `yaml:"deeper_veins_bonus" json:"deeper_veins_bonus"`
	AdvancedMachineryBonus float64 `yaml:"advanced_machinery_bonus" json:"advanced_machinery_bonus"`
	ExpressLoadReduction   float64 `yaml:"express_load_reduction" json:"express_load_reduction"`
	LightweightSpeedBonus  float64 `yaml:"lightweight_speed_bonus" json:"lightweight_speed_bonus"`
	ReinforcedFrameBonus   float64 `yaml:"reinforced_frame_bonus" json:"reinforced_frame_bonus"`
	OverclockedPumpsBonus  float64 `yaml:"overclocked_pumps_bonus" json:"overclocked_pumps_bonus"`
	ReinforcedPipesBonus   float64 `yaml:"reinforced_pipes_bonus" json:"reinforced_pipes_bonus"`
	DuplicatorChance       float64 `yaml:"duplicator_chance" json:"duplicator_chance"`
	NegotiatorChance       float64 `yaml:"negotiator_chance" json:"negotiator_chance"`
	NegotiatorMultiplier   float64 `yaml:"negotiator_multiplier" json:"negotiator_multiplier"`
	NegotiatorPerLevel     float64 `yaml:"negotiator_per_level" json:"negotiator_per_level"`
	MarketInsightBonus     float64 `yaml:"market_insight_bonus" json:"market_insight_bonus"`
	LogisticsBaseReduction float64 `yaml:"logistics_base_reduction" json:"logistics_base_reduction"`
	LogisticsPerLevel      float64 `yaml:"logistics_per_level" json:"logistics_per_level"`

	// Offline credit is skipped for gaps at or below this many seconds.
	OfflineMinGapSeconds float64 `yaml:"offline_min_gap_seconds" json:"offline_min_gap_seconds"`
}

// DefaultBalance returns the shipped tuning.
func DefaultBalance() Balance {
	return Balance{
		TickMillis:   100,
		StartingCash: 1000,

		SiteUpgradeBaseCost:     100,
		ElevatorUpgradeBaseCost: 173,
		CartUpgradeBaseCost:     200,
		MarketUpgradeBaseCost:   230,
		UpgradeCostMultiplier:   1.15,
		NewSiteBaseCost:         625,
		NewSiteCostMultiplier:   2.5,

		SiteManagerBaseCost:     5000,
		ElevatorManagerBaseCost: 7500,
		CartManagerBaseCost:     8000,
		MarketManagerBaseCost:   10000,
		ManagerCostMultiplier:   2,
		SiteManagerBonus:        0.5,
		ElevatorManagerBonus:    0.25,
		CartManagerBonus:        0.2,
		MarketManagerBonus:      0.1,
		SkillPointInterval:      10,
		MaxSkillLevel:           5,

		MaxSites:              10,
		CatalogSize:           10,
		SiteBaseProduction:    10,
		SiteBaseCapacity:      1000,
		SiteDepthGrowth:       10,
		SitePositionOffset:    70,
		SitePositionIncrement: 150,
		ElevatorStopOffset:    36,

		ElevatorBaseSpeed:    100,
		ElevatorActionMillis: 1000,
		ElevatorBaseCapacity: 100,
		ElevatorStorageBase:  1000,

		CartBaseSpeed:      100,
		CartActionMillis:   1000,
		CartTravelDistance: 200,
		CartBaseCapacity:   150,

		MarketLevelBonus: 0.01,

		GeologistChance:        0.01,
		GeologistMultiplier:    2,
		DeeperVeinsBonus:       1.5,
		AdvancedMachineryBonus: 1.2,
		ExpressLoadReduction:   0.2,
		LightweightSpeedBonus:  1.2,
		ReinforcedFrameBonus:   1.25,
		OverclockedPumpsBonus:  1.2,
		ReinforcedPipesBonus:   1.25,
		DuplicatorChance:       0.05,
		NegotiatorChance:       0.05,
		NegotiatorMultiplier:   2,
		NegotiatorPerLevel:     0.5,
		MarketInsightBonus:     1.1,
		LogisticsBaseReduction: 0.6,
		LogisticsPerLevel:      0.1,

		OfflineMinGapSeconds: 5,
	}
}

// TickInterval is the fixed driver period.
func (b Balance) TickInterval() time.Duration {
	return time.Duration(b.TickMillis) * time.Millisecond
}

// OfflineMinGap is the shortest gap that earns offline credit.
func (b Balance) OfflineMinGap() time.Duration {
	return time.Duration(b.OfflineMinGapSeconds * float64(time.Second))
}
