package domain

import (
	"testing"
	"time"
)

// fakeClock returns a clock function plus a way to advance it.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func testSettings() GameSettings {
	return GameSettings{MinPlayers: 2, MaxPlayers: 10, MatchDuration: 10 * time.Minute}
}

func TestPhaseTransitionTable(t *testing.T) {
	tests := []struct {
		name string
		from GamePhase
		to   GamePhase
		want bool
	}{
		{name: "waiting to starting", from: PhaseWaiting, to: PhaseStarting, want: true},
		{name: "starting to active", from: PhaseStarting, to: PhaseActive, want: true},
		{name: "starting reverts to waiting", from: PhaseStarting, to: PhaseWaiting, want: true},
		{name: "active to deathmatch", from: PhaseActive, to: PhaseDeathmatch, want: true},
		{name: "active to ending", from: PhaseActive, to: PhaseEnding, want: true},
		{name: "deathmatch to ending", from: PhaseDeathmatch, to: PhaseEnding, want: true},
		{name: "waiting cannot skip to active", from: PhaseWaiting, to: PhaseActive, want: false},
		{name: "active cannot revert to starting", from: PhaseActive, to: PhaseStarting, want: false},
		{name: "ending is terminal", from: PhaseEnding, to: PhaseWaiting, want: false},
		{name: "deathmatch cannot revert", from: PhaseDeathmatch, to: PhaseActive, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Fatalf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestSetPhaseRejectsIllegalMove(t *testing.T) {
	g := NewGame("m1", testSettings(), nil)

	if g.SetPhase(PhaseActive) {
		t.Fatalf("waiting -> active should be rejected")
	}
	if g.Phase() != PhaseWaiting {
		t.Fatalf("phase = %s, want waiting after rejected transition", g.Phase())
	}
}

func TestAddPlayerAutoStartsAtMinimum(t *testing.T) {
	g := NewGame("m1", testSettings(), nil)

	if !g.AddPlayer("u1") {
		t.Fatalf("first join rejected")
	}
	if g.Phase() != PhaseWaiting {
		t.Fatalf("phase = %s, want waiting with one player", g.Phase())
	}
	if !g.AddPlayer("u2") {
		t.Fatalf("second join rejected")
	}
	if g.Phase() != PhaseStarting {
		t.Fatalf("phase = %s, want starting once minimum reached", g.Phase())
	}
	// Joins are rejected once the countdown is armed.
	if g.AddPlayer("u3") {
		t.Fatalf("join accepted during starting")
	}
}

func TestAddPlayerRejections(t *testing.T) {
	g := NewGame("m1", GameSettings{MinPlayers: 5, MaxPlayers: 3}, nil)

	g.AddPlayer("u1")
	if g.AddPlayer("u1") {
		t.Fatalf("duplicate join accepted")
	}
	g.AddPlayer("u2")
	g.AddPlayer("u3")
	if g.AddPlayer("u4") {
		t.Fatalf("join accepted past capacity")
	}
	if g.PlayerCount() != 3 {
		t.Fatalf("roster = %d, want 3", g.PlayerCount())
	}
}

func TestRemovePlayerRevertsStarting(t *testing.T) {
	g := NewGame("m1", testSettings(), nil)
	g.AddPlayer("u1")
	g.AddPlayer("u2")
	if g.Phase() != PhaseStarting {
		t.Fatalf("phase = %s, want starting", g.Phase())
	}

	if !g.RemovePlayer("u2") {
		t.Fatalf("remove failed")
	}
	if g.Phase() != PhaseWaiting {
		t.Fatalf("phase = %s, want waiting after roster dropped below minimum", g.Phase())
	}
}

func startGame(t *testing.T, clock *fakeClock, playerIDs ...string) *Game {
	t.Helper()
	settings := testSettings()
	settings.MinPlayers = len(playerIDs)
	g := NewGame("m1", settings, clock.Now)
	for _, id := range playerIDs {
		if !g.AddPlayer(id) {
			t.Fatalf("AddPlayer(%s) rejected", id)
		}
	}
	if !g.SetPhase(PhaseActive) {
		t.Fatalf("could not enter active, phase = %s", g.Phase())
	}
	return g
}

func TestEliminationAssignsPlacementsAndWinner(t *testing.T) {
	clock := newFakeClock()
	g := startGame(t, clock, "u1", "u2", "u3", "u4")

	if g.StartedAt().IsZero() {
		t.Fatalf("startedAt not recorded on entering active")
	}

	if !g.EliminatePlayer("u3") {
		t.Fatalf("eliminate u3 failed")
	}
	if !g.EliminatePlayer("u1") {
		t.Fatalf("eliminate u1 failed")
	}
	if g.Phase() != PhaseActive {
		t.Fatalf("phase = %s, want active with two alive", g.Phase())
	}
	if !g.EliminatePlayer("u4") {
		t.Fatalf("eliminate u4 failed")
	}

	if g.Phase() != PhaseEnding {
		t.Fatalf("phase = %s, want ending with one survivor", g.Phase())
	}
	if g.Winner() != "u2" {
		t.Fatalf("winner = %q, want u2", g.Winner())
	}
	if g.EndedAt().IsZero() {
		t.Fatalf("endedAt not recorded on entering ending")
	}

	want := map[string]int{"u3": 4, "u1": 3, "u4": 2, "u2": 1}
	got := g.Placements()
	for id, place := range want {
		if got[id] != place {
			t.Fatalf("placement[%s] = %d, want %d (all: %v)", id, got[id], place, got)
		}
	}
}

func TestEliminateRejections(t *testing.T) {
	clock := newFakeClock()
	g := startGame(t, clock, "u1", "u2", "u3")

	if g.EliminatePlayer("ghost") {
		t.Fatalf("eliminated unknown player")
	}
	g.EliminatePlayer("u1")
	if g.EliminatePlayer("u1") {
		t.Fatalf("eliminated a dead player twice")
	}
	if g.AliveCount() != 2 {
		t.Fatalf("alive = %d, want 2", g.AliveCount())
	}
}

func TestSimultaneousEliminationEndsWithNoWinner(t *testing.T) {
	clock := newFakeClock()
	g := startGame(t, clock, "u1", "u2")

	if n := g.EliminatePlayers("u1", "u2"); n != 2 {
		t.Fatalf("eliminated = %d, want 2", n)
	}
	if g.Phase() != PhaseEnding {
		t.Fatalf("phase = %s, want ending", g.Phase())
	}
	if g.Winner() != "" {
		t.Fatalf("winner = %q, want none for simultaneous elimination", g.Winner())
	}
	if g.AliveCount() != 0 {
		t.Fatalf("alive = %d, want 0", g.AliveCount())
	}

	// Placements are still a permutation of 1..2.
	got := g.Placements()
	if got["u1"] != 2 || got["u2"] != 1 {
		t.Fatalf("placements = %v, want u1=2 u2=1", got)
	}
}

func TestRemoveLastOpponentTriggersWin(t *testing.T) {
	clock := newFakeClock()
	g := startGame(t, clock, "u1", "u2")

	if !g.RemovePlayer("u1") {
		t.Fatalf("remove failed")
	}
	if g.Phase() != PhaseEnding {
		t.Fatalf("phase = %s, want ending after opponent quit", g.Phase())
	}
	if g.Winner() != "u2" {
		t.Fatalf("winner = %q, want u2", g.Winner())
	}
}

func TestShouldStartDeathmatch(t *testing.T) {
	clock := newFakeClock()
	g := startGame(t, clock, "u1", "u2", "u3")

	if g.ShouldStartDeathmatch() {
		t.Fatalf("deathmatch due immediately after start")
	}
	clock.Advance(10*time.Minute + time.Second)
	if !g.ShouldStartDeathmatch() {
		t.Fatalf("deathmatch not due after match duration elapsed")
	}

	if !g.SetPhase(PhaseDeathmatch) {
		t.Fatalf("active -> deathmatch rejected")
	}
	if g.ShouldStartDeathmatch() {
		t.Fatalf("deathmatch reported due while already in deathmatch")
	}

	// Eliminations continue to work in deathmatch.
	g.EliminatePlayer("u1")
	g.EliminatePlayer("u2")
	if g.Phase() != PhaseEnding || g.Winner() != "u3" {
		t.Fatalf("phase = %s winner = %q, want ending/u3", g.Phase(), g.Winner())
	}
}

func TestTimestampsSetOnce(t *testing.T) {
	clock := newFakeClock()
	g := startGame(t, clock, "u1", "u2")
	started := g.StartedAt()

	clock.Advance(time.Minute)
	g.EliminatePlayer("u1")
	ended := g.EndedAt()

	if started != g.StartedAt() {
		t.Fatalf("startedAt changed")
	}
	clock.Advance(time.Minute)
	g.SetPhase(PhaseEnding) // rejected, already ending
	if ended != g.EndedAt() {
		t.Fatalf("endedAt changed")
	}
}

func TestPhaseChangeHookFires(t *testing.T) {
	g := NewGame("m1", testSettings(), nil)
	var seen []GamePhase
	g.SetPhaseChangeHook(func(prev, next GamePhase) {
		seen = append(seen, next)
	})

	g.AddPlayer("u1")
	g.AddPlayer("u2") // waiting -> starting
	g.SetPhase(PhaseActive)
	g.EliminatePlayer("u1") // -> ending

	want := []GamePhase{PhaseStarting, PhaseActive, PhaseEnding}
	if len(seen) != len(want) {
		t.Fatalf("hook fired %d times, want %d (%v)", len(seen), len(want), seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("hook[%d] = %s, want %s", i, seen[i], want[i])
		}
	}
}
