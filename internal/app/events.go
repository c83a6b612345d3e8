package app

import "battleroyale/internal/domain"

// EventKind identifies emitted match events for Nakama dispatch.
type EventKind string

const (
	EventPlayerJoined      EventKind = "player_joined"
	EventPlayerLeft        EventKind = "player_left"
	EventCountdown         EventKind = "countdown"
	EventCountdownAborted  EventKind = "countdown_aborted"
	EventMatchStarted      EventKind = "match_started"
	EventZoneShrinkStarted EventKind = "zone_shrink_started"
	EventZoneUpdated       EventKind = "zone_updated"
	EventZoneDamage        EventKind = "zone_damage"
	EventPlayerEliminated  EventKind = "player_eliminated"
	EventDeathmatchStarted EventKind = "deathmatch_started"
	EventMatchEnded        EventKind = "match_ended"
	EventLootGranted       EventKind = "loot_granted"
)

// Event is a match event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type PlayerJoinedPayload struct {
	UserID      string `json:"user_id"`
	PlayerCount int    `json:"player_count"`
	AliveCount  int    `json:"alive_count"`
}

type PlayerLeftPayload struct {
	UserID      string `json:"user_id"`
	PlayerCount int    `json:"player_count"`
	AliveCount  int    `json:"alive_count"`
}

type CountdownPayload struct {
	Seconds int `json:"seconds"`
}

type MatchStartedPayload struct {
	AliveCount int     `json:"alive_count"`
	Radius     float64 `json:"radius"`
}

type ZoneShrinkStartedPayload struct {
	PhaseID       int     `json:"phase_id"`
	TargetRadius  float64 `json:"target_radius"`
	ShrinkSeconds int     `json:"shrink_seconds"`
}

type ZoneUpdatedPayload struct {
	CurrentRadius float64 `json:"current_radius"`
	TargetRadius  float64 `json:"target_radius"`
	Progress      float64 `json:"progress"`
	Shrinking     bool    `json:"shrinking"`
}

type ZoneDamagePayload struct {
	UserID string  `json:"user_id"`
	Damage float64 `json:"damage"`
	Health float64 `json:"health"`
}

type PlayerEliminatedPayload struct {
	UserID     string `json:"user_id"`
	KillerID   string `json:"killer_id,omitempty"`
	Cause      string `json:"cause"`
	Placement  int    `json:"placement"`
	AliveCount int    `json:"alive_count"`
}

type DeathmatchStartedPayload struct {
	TargetRadius  float64 `json:"target_radius"`
	ShrinkSeconds int     `json:"shrink_seconds"`
}

type MatchEndedPayload struct {
	WinnerID   string         `json:"winner_id,omitempty"`
	Placements map[string]int `json:"placements"`
}

type LootGrantedPayload struct {
	UserID string            `json:"user_id"`
	Items  []domain.LootItem `json:"items"`
}
