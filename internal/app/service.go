package app

import (
	"math/rand"
	"time"

	"battleroyale/internal/domain"
)

// EliminationCause values reported with an elimination event.
const (
	CauseCombat = "combat"
	CauseZone   = "zone"
	CauseQuit   = "quit"
)

// Service contains battle-royale use-cases operating on match state. All
// roster mutation from the hosting layer goes through it so the resulting
// events stay consistent with the state change.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with the provided rng or a time-seeded
// default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

// JoinPlayer adds a player to the roster. Returns false with no events when
// the join is rejected (match past waiting, roster full, duplicate).
func (s *Service) JoinPlayer(g *domain.Game, userID string) ([]Event, bool) {
	if !g.AddPlayer(userID) {
		return nil, false
	}
	return []Event{{
		Kind: EventPlayerJoined,
		Payload: PlayerJoinedPayload{
			UserID:      userID,
			PlayerCount: g.PlayerCount(),
			AliveCount:  g.AliveCount(),
		},
	}}, true
}

// LeavePlayer removes a player from the roster in any phase. A quit during
// live play can conclude the match; the returned events reflect that.
func (s *Service) LeavePlayer(g *domain.Game, userID string) []Event {
	wasEnding := g.Phase() == domain.PhaseEnding
	if !g.RemovePlayer(userID) {
		return nil
	}

	events := []Event{{
		Kind: EventPlayerLeft,
		Payload: PlayerLeftPayload{
			UserID:      userID,
			PlayerCount: g.PlayerCount(),
			AliveCount:  g.AliveCount(),
		},
	}}
	if !wasEnding && g.Phase() == domain.PhaseEnding {
		events = append(events, matchEndedEvent(g))
	}
	return events
}

// EliminatePlayers reports one or more deaths from the same instant (a
// combat kill, or every player a zone damage tick finished off). Players the
// game rejects are skipped silently. Killer ids parallel the victims; use ""
// for environmental deaths.
func (s *Service) EliminatePlayers(g *domain.Game, cause string, victims []string, killers []string) []Event {
	if len(victims) == 0 {
		return nil
	}

	killerOf := make(map[string]string, len(victims))
	alive := make([]string, 0, len(victims))
	for i, id := range victims {
		if !g.IsPlayerAlive(id) {
			continue
		}
		alive = append(alive, id)
		if i < len(killers) {
			killerOf[id] = killers[i]
		}
	}
	if g.EliminatePlayers(alive...) == 0 {
		return nil
	}

	placements := g.Placements()
	events := make([]Event, 0, len(alive)+1)
	for _, id := range alive {
		events = append(events, Event{
			Kind: EventPlayerEliminated,
			Payload: PlayerEliminatedPayload{
				UserID:     id,
				KillerID:   killerOf[id],
				Cause:      cause,
				Placement:  placements[id],
				AliveCount: g.AliveCount(),
			},
		})
	}

	if g.Phase() == domain.PhaseEnding {
		events = append(events, matchEndedEvent(g))
	}
	return events
}

func matchEndedEvent(g *domain.Game) Event {
	return Event{
		Kind: EventMatchEnded,
		Payload: MatchEndedPayload{
			WinnerID:   g.Winner(),
			Placements: g.Placements(),
		},
	}
}
