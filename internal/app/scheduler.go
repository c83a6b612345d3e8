package app

import (
	"time"

	"battleroyale/internal/domain"
)

// taskHandle is one owned repeating task, measured in match loop ticks.
// Cancellation flips the stopped flag; a stopped handle is never run again
// even if it is still referenced by an in-flight dispatch.
type taskHandle struct {
	name    string
	every   int64 // ticks between runs
	next    int64 // tick the task is next due
	run     func(tick int64)
	stopped bool
}

// SchedulerSettings configure a GameScheduler.
type SchedulerSettings struct {
	// TickRate is the host's match loop ticks per second.
	TickRate         int
	CountdownSeconds int
	Phases           []domain.ZonePhase
	DeathmatchRadius float64
	DeathmatchShrink time.Duration
}

// GameScheduler is the single timing authority for one match. The host's
// match loop calls Advance once per tick; the scheduler owns the repeating
// tasks valid for the current phase and swaps them on every phase change.
// Within one tick the zone advances before the win check, which runs before
// the deathmatch check, so a shrink completing and a win condition becoming
// true the same tick are both observed that tick.
type GameScheduler struct {
	game     *domain.Game
	settings SchedulerSettings
	tickRate int64

	countdownLeft int

	phaseIndex    int
	phaseWaitLeft int64 // ticks until the current stage's shrink begins

	tasks    []*taskHandle
	running  bool
	lastTick int64
	pending  []Event
}

// NewGameScheduler wires a scheduler to a game. It registers itself as the
// game's phase-change hook so task sets follow the state machine.
func NewGameScheduler(game *domain.Game, settings SchedulerSettings) *GameScheduler {
	if settings.TickRate < 1 {
		settings.TickRate = 1
	}
	if settings.CountdownSeconds < 1 {
		settings.CountdownSeconds = 10
	}
	s := &GameScheduler{
		game:     game,
		settings: settings,
		tickRate: int64(settings.TickRate),
	}
	game.SetPhaseChangeHook(s.handlePhaseChange)
	return s
}

// Start arms the task set for the game's current phase. Idempotent.
func (s *GameScheduler) Start() {
	if s.running {
		return
	}
	s.running = true
	s.armTasksFor(s.game.Phase())
}

// Stop cancels every owned task. Idempotent; safe to call when not running.
func (s *GameScheduler) Stop() {
	s.setTasks(nil)
	s.running = false
}

// IsRunning reports whether any owned periodic task is active.
func (s *GameScheduler) IsRunning() bool {
	return s.running && s.TaskCount() > 0
}

// TaskCount returns the number of live (non-cancelled) task handles.
func (s *GameScheduler) TaskCount() int {
	n := 0
	for _, t := range s.tasks {
		if !t.stopped {
			n++
		}
	}
	return n
}

// CountdownSeconds returns the remaining lobby countdown while the match is
// starting, and 0 in every other phase.
func (s *GameScheduler) CountdownSeconds() int {
	if s.game.Phase() != domain.PhaseStarting {
		return 0
	}
	return s.countdownLeft
}

// Advance runs every due task for this tick and returns the events produced.
// It is the only entry point that executes tasks, which keeps all time-based
// mutation on the host's single match loop context.
func (s *GameScheduler) Advance(tick int64) []Event {
	s.lastTick = tick
	if s.running {
		due := make([]*taskHandle, 0, len(s.tasks))
		for _, t := range s.tasks {
			if !t.stopped && tick >= t.next {
				due = append(due, t)
			}
		}
		for _, t := range due {
			// An earlier task this tick may have swapped the set.
			if t.stopped {
				continue
			}
			t.next = tick + t.every
			t.run(tick)
		}
	}
	out := s.pending
	s.pending = nil
	return out
}

func (s *GameScheduler) emit(kind EventKind, payload any) {
	s.pending = append(s.pending, Event{Kind: kind, Payload: payload})
}

// setTasks cancels the previous set and installs the new one. New tasks
// first fire one interval after the swap.
func (s *GameScheduler) setTasks(tasks []*taskHandle) {
	for _, t := range s.tasks {
		t.stopped = true
	}
	for _, t := range tasks {
		t.next = s.lastTick + t.every
	}
	s.tasks = tasks
}

func (s *GameScheduler) handlePhaseChange(prev, next domain.GamePhase) {
	if !s.running {
		return
	}
	s.armTasksFor(next)

	switch next {
	case domain.PhaseWaiting:
		s.emit(EventCountdownAborted, CountdownPayload{Seconds: s.countdownLeft})
	case domain.PhaseActive:
		radius := 0.0
		if zone := s.game.Zone(); zone != nil {
			radius = zone.CurrentRadius()
		}
		s.emit(EventMatchStarted, MatchStartedPayload{
			AliveCount: s.game.AliveCount(),
			Radius:     radius,
		})
	case domain.PhaseDeathmatch:
		s.emit(EventDeathmatchStarted, DeathmatchStartedPayload{
			TargetRadius:  s.settings.DeathmatchRadius,
			ShrinkSeconds: int(s.settings.DeathmatchShrink / time.Second),
		})
	}
}

func (s *GameScheduler) armTasksFor(phase domain.GamePhase) {
	switch phase {
	case domain.PhaseStarting:
		s.countdownLeft = s.settings.CountdownSeconds
		s.setTasks([]*taskHandle{
			{name: "countdown", every: s.tickRate, run: s.runCountdown},
		})
	case domain.PhaseActive:
		s.beginZoneSequence()
		s.setTasks([]*taskHandle{
			{name: "zone", every: 1, run: s.runZone},
			{name: "win_check", every: 1, run: s.runWinCheck},
			{name: "deathmatch_check", every: s.tickRate, run: s.runDeathmatchCheck},
		})
	case domain.PhaseDeathmatch:
		s.forceFinalShrink()
		s.setTasks([]*taskHandle{
			{name: "zone", every: 1, run: s.runZone},
			{name: "win_check", every: 1, run: s.runWinCheck},
		})
	case domain.PhaseEnding:
		s.setTasks(nil)
		s.running = false
	default: // waiting: armed but idle
		s.setTasks(nil)
	}
}

func (s *GameScheduler) runCountdown(tick int64) {
	if s.game.Phase() != domain.PhaseStarting {
		return
	}
	s.countdownLeft--
	if s.countdownLeft > 0 {
		s.emit(EventCountdown, CountdownPayload{Seconds: s.countdownLeft})
		return
	}
	s.countdownLeft = 0
	s.game.SetPhase(domain.PhaseActive)
}

// beginZoneSequence resets the stage cursor to the first configured phase.
func (s *GameScheduler) beginZoneSequence() {
	s.phaseIndex = 0
	s.phaseWaitLeft = 0
	if len(s.settings.Phases) > 0 {
		first := s.settings.Phases[0]
		s.phaseWaitLeft = durationTicks(first.Wait, s.tickRate)
		if zone := s.game.Zone(); zone != nil {
			zone.SetPhase(first)
		}
	}
}

func (s *GameScheduler) runZone(tick int64) {
	zone := s.game.Zone()
	if zone == nil {
		return
	}

	if zone.IsShrinking() {
		zone.Tick()
		s.emit(EventZoneUpdated, ZoneUpdatedPayload{
			CurrentRadius: zone.CurrentRadius(),
			TargetRadius:  zone.TargetRadius(),
			Progress:      zone.ShrinkProgress(),
			Shrinking:     zone.IsShrinking(),
		})
		if !zone.IsShrinking() {
			s.advanceZoneStage()
		}
		return
	}

	if s.phaseIndex >= len(s.settings.Phases) {
		return
	}
	if s.phaseWaitLeft > 0 {
		s.phaseWaitLeft--
		return
	}

	stage := s.settings.Phases[s.phaseIndex]
	zone.SetPhase(stage)
	if !zone.StartShrink(stage.TargetRadius, stage.Shrink) {
		// Target not below the current radius; skip the stage.
		s.advanceZoneStage()
		return
	}
	s.emit(EventZoneShrinkStarted, ZoneShrinkStartedPayload{
		PhaseID:       stage.ID,
		TargetRadius:  stage.TargetRadius,
		ShrinkSeconds: int(stage.Shrink / time.Second),
	})
}

func (s *GameScheduler) advanceZoneStage() {
	s.phaseIndex++
	if s.phaseIndex < len(s.settings.Phases) {
		s.phaseWaitLeft = durationTicks(s.settings.Phases[s.phaseIndex].Wait, s.tickRate)
	}
}

// forceFinalShrink overrides any staged plan with the deathmatch collapse.
func (s *GameScheduler) forceFinalShrink() {
	zone := s.game.Zone()
	if zone == nil {
		return
	}
	damage := 4.0
	interval := time.Second
	if n := len(s.settings.Phases); n > 0 {
		damage = s.settings.Phases[n-1].DamagePerTick * 2
		interval = s.settings.Phases[n-1].TickInterval
	}
	zone.SetPhase(domain.ZonePhase{
		ID:            -1,
		TargetRadius:  s.settings.DeathmatchRadius,
		DamagePerTick: damage,
		TickInterval:  interval,
	})
	zone.StartShrink(s.settings.DeathmatchRadius, s.settings.DeathmatchShrink)
	s.phaseIndex = len(s.settings.Phases)
}

func (s *GameScheduler) runWinCheck(tick int64) {
	if s.game.CheckWin() {
		s.pending = append(s.pending, matchEndedEvent(s.game))
	}
}

func (s *GameScheduler) runDeathmatchCheck(tick int64) {
	if s.game.ShouldStartDeathmatch() {
		s.game.SetPhase(domain.PhaseDeathmatch)
	}
}

func durationTicks(d time.Duration, tickRate int64) int64 {
	if d <= 0 {
		return 0
	}
	return int64(d.Seconds() * float64(tickRate))
}
