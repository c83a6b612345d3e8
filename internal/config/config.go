package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// ZonePhaseConfig describes one stage of the shrinking play area.
type ZonePhaseConfig struct {
	WaitSeconds         int     `json:"wait_seconds"`
	ShrinkSeconds       int     `json:"shrink_seconds"`
	TargetRadius        float64 `json:"target_radius"`
	DamagePerTick       float64 `json:"damage_per_tick"`
	TickIntervalSeconds int     `json:"tick_interval_seconds"`
}

// LootEntryConfig is one configured drop within a rarity tier.
type LootEntryConfig struct {
	Tier        string `json:"tier"`
	Item        string `json:"item"`
	MinQuantity int    `json:"min_quantity"`
	MaxQuantity int    `json:"max_quantity"`
}

type GameConfig struct {
	MinPlayers           int     `json:"min_players"`
	MaxPlayers           int     `json:"max_players"`
	CountdownSeconds     int     `json:"countdown_seconds"`
	MatchDurationSeconds int     `json:"match_duration_seconds"`
	InitialRadius        float64 `json:"initial_radius"`
	// DeathmatchRadius is the forced final shrink target once the match
	// time limit is reached.
	DeathmatchRadius        float64 `json:"deathmatch_radius"`
	DeathmatchShrinkSeconds int     `json:"deathmatch_shrink_seconds"`

	ZonePhases []ZonePhaseConfig `json:"zone_phases"`
	Loot       []LootEntryConfig `json:"loot"`

	BaseReward       int64  `json:"base_reward"`
	WinLeaderboardID string `json:"win_leaderboard_id"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, or nil when no config
// file was loaded. Callers should prefer the typed getters below, which fall
// back to safe defaults.
func GetGameConfig() *GameConfig {
	return cfg
}

func GetMinPlayers() int {
	if cfg == nil || cfg.MinPlayers <= 0 {
		return 2
	}
	return cfg.MinPlayers
}

func GetMaxPlayers() int {
	if cfg == nil || cfg.MaxPlayers <= 0 {
		return 10
	}
	return cfg.MaxPlayers
}

func GetCountdownSeconds() int {
	if cfg == nil || cfg.CountdownSeconds <= 0 {
		return 10
	}
	return cfg.CountdownSeconds
}

func GetMatchDurationSeconds() int {
	if cfg == nil || cfg.MatchDurationSeconds <= 0 {
		return 600
	}
	return cfg.MatchDurationSeconds
}

func GetInitialRadius() float64 {
	if cfg == nil || cfg.InitialRadius <= 0 {
		return 1000
	}
	return cfg.InitialRadius
}

func GetDeathmatchRadius() float64 {
	if cfg == nil || cfg.DeathmatchRadius <= 0 {
		return 25
	}
	return cfg.DeathmatchRadius
}

func GetDeathmatchShrinkSeconds() int {
	if cfg == nil || cfg.DeathmatchShrinkSeconds <= 0 {
		return 30
	}
	return cfg.DeathmatchShrinkSeconds
}

func GetBaseReward() int64 {
	if cfg == nil || cfg.BaseReward <= 0 {
		return 100
	}
	return cfg.BaseReward
}

func GetWinLeaderboardID() string {
	if cfg == nil || cfg.WinLeaderboardID == "" {
		return "br_wins"
	}
	return cfg.WinLeaderboardID
}

// GetZonePhases returns the configured shrink sequence, or a default
// three-stage sequence when the config omits one.
func GetZonePhases() []ZonePhaseConfig {
	if cfg != nil && len(cfg.ZonePhases) > 0 {
		return cfg.ZonePhases
	}
	return []ZonePhaseConfig{
		{WaitSeconds: 60, ShrinkSeconds: 90, TargetRadius: 600, DamagePerTick: 1, TickIntervalSeconds: 1},
		{WaitSeconds: 45, ShrinkSeconds: 60, TargetRadius: 300, DamagePerTick: 2, TickIntervalSeconds: 1},
		{WaitSeconds: 30, ShrinkSeconds: 45, TargetRadius: 100, DamagePerTick: 4, TickIntervalSeconds: 1},
	}
}

// GetLootEntries returns the configured loot table entries, or a small
// default table so loot generation always has something to draw from.
func GetLootEntries() []LootEntryConfig {
	if cfg != nil && len(cfg.Loot) > 0 {
		return cfg.Loot
	}
	return []LootEntryConfig{
		{Tier: "common", Item: "apple", MinQuantity: 1, MaxQuantity: 4},
		{Tier: "common", Item: "wooden_sword", MinQuantity: 1, MaxQuantity: 1},
		{Tier: "uncommon", Item: "leather_tunic", MinQuantity: 1, MaxQuantity: 1},
		{Tier: "uncommon", Item: "arrow", MinQuantity: 8, MaxQuantity: 16},
		{Tier: "rare", Item: "iron_sword", MinQuantity: 1, MaxQuantity: 1},
		{Tier: "rare", Item: "bow", MinQuantity: 1, MaxQuantity: 1},
		{Tier: "epic", Item: "diamond_chestplate", MinQuantity: 1, MaxQuantity: 1},
		{Tier: "legendary", Item: "dragon_blade", MinQuantity: 1, MaxQuantity: 1},
	}
}
