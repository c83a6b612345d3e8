package nakama

import "battleroyale/internal/app"

// eventOpCodes maps app event kinds onto wire op codes.
var eventOpCodes = map[app.EventKind]int64{
	app.EventPlayerJoined:      OpPlayerJoined,
	app.EventPlayerLeft:        OpPlayerLeft,
	app.EventCountdown:         OpCountdown,
	app.EventCountdownAborted:  OpCountdownAborted,
	app.EventMatchStarted:      OpMatchStarted,
	app.EventZoneShrinkStarted: OpZoneShrinkStarted,
	app.EventZoneUpdated:       OpZoneUpdated,
	app.EventZoneDamage:        OpZoneDamage,
	app.EventPlayerEliminated:  OpPlayerEliminated,
	app.EventDeathmatchStarted: OpDeathmatchStarted,
	app.EventMatchEnded:        OpMatchEnded,
	app.EventLootGranted:       OpLootGranted,
}

// MatchLabel is advertised for match listing queries.
type MatchLabel struct {
	Open  int    `json:"open"` // open seats remaining
	Game  string `json:"game"`
	Phase string `json:"phase"`
}

// moveMessage is the client position update payload.
type moveMessage struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// openLootMessage requests the contents of a loot container.
type openLootMessage struct {
	Tier string `json:"tier,omitempty"` // empty means mixed-rarity roll
}

// reportDeathMessage is sent by the combat relay when a player dies.
type reportDeathMessage struct {
	KillerID string `json:"killer_id,omitempty"`
}
