package domain

import "time"

// GameSettings are the fixed rules a Game is created with.
type GameSettings struct {
	MinPlayers    int
	MaxPlayers    int
	MatchDuration time.Duration // active play time before deathmatch
}

// Game holds authoritative state for a single battle-royale match from lobby
// to conclusion. All mutation funnels through its methods; callers never
// touch the roster directly.
type Game struct {
	ID       string
	settings GameSettings

	phase   GamePhase
	players map[string]*PlayerState
	// joinOrder preserves insertion order so placement ties resolve
	// deterministically.
	joinOrder []string

	aliveCount    int
	nextPlacement int
	winnerID      string

	startedAt time.Time
	endedAt   time.Time

	zone *Zone

	now           func() time.Time
	onPhaseChange func(prev, next GamePhase)
}

// NewGame creates a match in the waiting phase with an empty roster.
// A nil now falls back to time.Now.
func NewGame(id string, settings GameSettings, now func() time.Time) *Game {
	if now == nil {
		now = time.Now
	}
	return &Game{
		ID:       id,
		settings: settings,
		phase:    PhaseWaiting,
		players:  make(map[string]*PlayerState),
		now:      now,
	}
}

// SetPhaseChangeHook registers a callback fired after every successful phase
// transition. The scheduler uses it to swap its task set.
func (g *Game) SetPhaseChangeHook(fn func(prev, next GamePhase)) {
	g.onPhaseChange = fn
}

// AttachArena creates the zone for this match's arena and takes ownership of
// it. The zone shares the game's clock.
func (g *Game) AttachArena(world string, center Vec3, radius float64) *Zone {
	g.zone = NewZone(world, center, radius, g.now)
	return g.zone
}

// Zone returns the owned zone, or nil before an arena is attached.
func (g *Game) Zone() *Zone {
	return g.zone
}

// Phase returns the current lifecycle phase.
func (g *Game) Phase() GamePhase {
	return g.phase
}

// Settings returns the rules this game was created with.
func (g *Game) Settings() GameSettings {
	return g.settings
}

// SetPhase requests a transition. Illegal moves per the transition table are
// rejected as a no-op. Entering active records startedAt and freezes the
// placement countdown start; entering ending records endedAt. Both
// timestamps are set exactly once.
func (g *Game) SetPhase(next GamePhase) bool {
	if !CanTransition(g.phase, next) {
		return false
	}
	prev := g.phase
	g.phase = next

	switch next {
	case PhaseActive:
		if g.startedAt.IsZero() {
			g.startedAt = g.now()
			g.nextPlacement = g.aliveCount
		}
	case PhaseEnding:
		if g.endedAt.IsZero() {
			g.endedAt = g.now()
		}
	}

	if g.onPhaseChange != nil {
		g.onPhaseChange(prev, next)
	}
	return true
}

// AddPlayer inserts a player into the roster as alive. Rejected (false) when
// the match is past the waiting phase, the roster is full, or the player is
// already present. Reaching the configured minimum automatically arms the
// countdown by moving to starting.
func (g *Game) AddPlayer(userID string) bool {
	if g.phase != PhaseWaiting {
		return false
	}
	if len(g.players) >= g.settings.MaxPlayers {
		return false
	}
	if _, ok := g.players[userID]; ok {
		return false
	}

	g.players[userID] = &PlayerState{
		UserID:   userID,
		Alive:    true,
		JoinedAt: g.now(),
	}
	g.joinOrder = append(g.joinOrder, userID)
	g.aliveCount++

	if len(g.players) >= g.settings.MinPlayers {
		g.SetPhase(PhaseStarting)
	}
	return true
}

// RemovePlayer drops a player from the roster in any phase. During starting
// it reverts to waiting if the roster falls below the minimum; during live
// play it runs the same win check as an elimination.
func (g *Game) RemovePlayer(userID string) bool {
	pl, ok := g.players[userID]
	if !ok {
		return false
	}
	if pl.Alive && g.aliveCount > 0 {
		g.aliveCount--
	}
	delete(g.players, userID)
	for i, id := range g.joinOrder {
		if id == userID {
			g.joinOrder = append(g.joinOrder[:i], g.joinOrder[i+1:]...)
			break
		}
	}

	switch g.phase {
	case PhaseStarting:
		if len(g.players) < g.settings.MinPlayers {
			g.SetPhase(PhaseWaiting)
		}
	case PhaseActive, PhaseDeathmatch:
		g.CheckWin()
	}
	return true
}

// EliminatePlayer marks one player dead and runs the win check.
func (g *Game) EliminatePlayer(userID string) bool {
	return g.EliminatePlayers(userID) == 1
}

// EliminatePlayers marks every listed player dead in a single step and runs
// one win check afterwards, so simultaneous deaths (a single explosion, one
// zone damage tick) settle consistently. Returns how many players were
// actually eliminated. Players not in the roster, already dead, or reported
// outside live play are skipped.
func (g *Game) EliminatePlayers(userIDs ...string) int {
	if g.phase != PhaseActive && g.phase != PhaseDeathmatch {
		return 0
	}

	eliminated := 0
	for _, userID := range userIDs {
		pl, ok := g.players[userID]
		if !ok || !pl.Alive {
			continue
		}
		pl.Alive = false
		if pl.Placement == 0 {
			pl.Placement = g.nextPlacement
		}
		if g.nextPlacement > 1 {
			g.nextPlacement--
		}
		if g.aliveCount > 0 {
			g.aliveCount--
		}
		eliminated++
	}

	if eliminated > 0 {
		g.CheckWin()
	}
	return eliminated
}

// CheckWin ends the match when at most one player remains alive. With
// exactly one survivor that player becomes the winner with placement 1; with
// zero survivors the match ends with no winner recorded. Returns true when
// the check transitioned the match to ending.
func (g *Game) CheckWin() bool {
	if g.phase != PhaseActive && g.phase != PhaseDeathmatch {
		return false
	}
	switch g.aliveCount {
	case 1:
		for _, id := range g.joinOrder {
			if pl := g.players[id]; pl != nil && pl.Alive {
				pl.Placement = 1
				g.winnerID = id
				break
			}
		}
		return g.SetPhase(PhaseEnding)
	case 0:
		return g.SetPhase(PhaseEnding)
	}
	return false
}

// ShouldStartDeathmatch reports whether active play has exceeded the
// configured match duration. Polled by the scheduler so the decision stays
// on the tick cadence; the game never triggers deathmatch itself.
func (g *Game) ShouldStartDeathmatch() bool {
	if g.phase != PhaseActive || g.startedAt.IsZero() {
		return false
	}
	return g.now().Sub(g.startedAt) >= g.settings.MatchDuration
}

// AliveCount returns the number of roster entries still alive.
func (g *Game) AliveCount() int {
	return g.aliveCount
}

// PlayerCount returns the current roster size.
func (g *Game) PlayerCount() int {
	return len(g.players)
}

// IsPlayerAlive reports whether the player is in the roster and alive.
func (g *Game) IsPlayerAlive(userID string) bool {
	pl, ok := g.players[userID]
	return ok && pl.Alive
}

// HasPlayer reports whether the player is in the roster.
func (g *Game) HasPlayer(userID string) bool {
	_, ok := g.players[userID]
	return ok
}

// Winner returns the winning player's id, or "" while undecided or when the
// match ended with no survivor.
func (g *Game) Winner() string {
	return g.winnerID
}

// StartedAt returns when the match entered active play (zero until then).
func (g *Game) StartedAt() time.Time {
	return g.startedAt
}

// EndedAt returns when the match entered ending (zero until then).
func (g *Game) EndedAt() time.Time {
	return g.endedAt
}

// Placements returns the assigned placement per player id. Players without
// an assigned placement (still alive, or joined but never started) are
// omitted.
func (g *Game) Placements() map[string]int {
	out := make(map[string]int, len(g.players))
	for id, pl := range g.players {
		if pl.Placement > 0 {
			out[id] = pl.Placement
		}
	}
	return out
}

// AlivePlayers returns alive player ids in join order.
func (g *Game) AlivePlayers() []string {
	out := make([]string, 0, g.aliveCount)
	for _, id := range g.joinOrder {
		if pl := g.players[id]; pl != nil && pl.Alive {
			out = append(out, id)
		}
	}
	return out
}

// RosterIDs returns all roster ids in join order.
func (g *Game) RosterIDs() []string {
	out := make([]string, len(g.joinOrder))
	copy(out, g.joinOrder)
	return out
}
