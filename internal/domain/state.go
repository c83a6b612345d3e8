package domain

import "time"

// GamePhase represents the lifecycle stage of a battle-royale match.
type GamePhase string

const (
	// PhaseWaiting is the lobby state where players can join.
	PhaseWaiting GamePhase = "waiting"
	// PhaseStarting is the armed-countdown state; joins are rejected.
	PhaseStarting GamePhase = "starting"
	// PhaseActive is the live play state.
	PhaseActive GamePhase = "active"
	// PhaseDeathmatch is the forced finale once the match time limit is hit.
	PhaseDeathmatch GamePhase = "deathmatch"
	// PhaseEnding is the terminal state; winner and placements are frozen.
	PhaseEnding GamePhase = "ending"
)

// phaseTransitions is the authoritative transition table. Every legal phase
// change is an edge here; anything else is rejected by Game.SetPhase.
// starting -> waiting is the single backward edge, used when the roster drops
// below the minimum before the countdown completes.
var phaseTransitions = map[GamePhase][]GamePhase{
	PhaseWaiting:    {PhaseStarting},
	PhaseStarting:   {PhaseActive, PhaseWaiting},
	PhaseActive:     {PhaseDeathmatch, PhaseEnding},
	PhaseDeathmatch: {PhaseEnding},
	PhaseEnding:     {},
}

// CanTransition reports whether moving from one phase to another is legal.
func CanTransition(from, to GamePhase) bool {
	for _, next := range phaseTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// PlayerState holds roster state for a participant in the match.
type PlayerState struct {
	UserID    string
	Alive     bool
	Placement int // 0 until assigned; 1 is the winner
	JoinedAt  time.Time
}
