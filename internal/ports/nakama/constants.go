package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create an
	// open match.
	RpcQuickMatch = "quick_match"

	// RpcSpectateToken is the Nakama RPC id clients call to obtain a signed
	// spectate token for a match.
	RpcSpectateToken = "spectate_token"

	// MatchNameBattleRoyale is the authoritative match handler name
	// registered with Nakama.
	MatchNameBattleRoyale = "battleroyale_match"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpMove        int64 = 1
	OpOpenLoot    int64 = 2
	OpReportDeath int64 = 3

	// Server -> Client events
	OpPlayerJoined      int64 = 101
	OpPlayerLeft        int64 = 102
	OpCountdown         int64 = 103
	OpCountdownAborted  int64 = 104
	OpMatchStarted      int64 = 105
	OpZoneShrinkStarted int64 = 106
	OpZoneUpdated       int64 = 107
	OpZoneDamage        int64 = 108 // sent privately to the hurt player
	OpPlayerEliminated  int64 = 109
	OpDeathmatchStarted int64 = 110
	OpMatchEnded        int64 = 111
	OpLootGranted       int64 = 112 // sent privately to the looter
)
