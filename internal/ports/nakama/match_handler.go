package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"time"

	"battleroyale/internal/app"
	"battleroyale/internal/config"
	"battleroyale/internal/domain"
	"battleroyale/internal/ports"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	maxHealth = 100.0

	// endGraceTicks keeps the concluded match alive long enough for clients
	// to receive the final broadcasts before teardown.
	endGraceTicks = 15

	lootItemsPerContainer = 3
)

// MatchState holds the authoritative runtime state for the Nakama match
// handler.
type MatchState struct {
	Game      *domain.Game                `json:"-"`
	Scheduler *app.GameScheduler          `json:"-"`
	App       *app.Service                `json:"-"`
	Loot      *domain.LootTable           `json:"-"`
	Presences map[string]runtime.Presence `json:"-"` // userId -> presence for targeted messaging
	Positions map[string]domain.Vec3      `json:"-"` // last reported position per alive player
	Health    map[string]float64          `json:"-"`
	Kills     map[string]int              `json:"-"`
	Economy   ports.EconomyPort           `json:"-"`
	Stats     ports.StatsPort             `json:"-"`

	Tick           int64            `json:"tick"`
	LabelPhase     domain.GamePhase `json:"label_phase"`
	Settled        bool             `json:"settled"`
	EndedAtTick    int64            `json:"ended_at_tick"`
	LastDamageTick int64            `json:"last_damage_tick"`
}

func (ms *MatchState) openSeats() int {
	if ms.Game.Phase() != domain.PhaseWaiting {
		return 0
	}
	return ms.Game.Settings().MaxPlayers - ms.Game.PlayerCount()
}

func newMatchHandler() *matchHandler {
	return &matchHandler{}
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	if err := config.LoadGameConfig("data/br_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config, using defaults: %v", err)
	}

	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
	if matchID == "" {
		matchID = uuid.NewString()
	}

	settings := domain.GameSettings{
		MinPlayers:    config.GetMinPlayers(),
		MaxPlayers:    config.GetMaxPlayers(),
		MatchDuration: time.Duration(config.GetMatchDurationSeconds()) * time.Second,
	}
	countdownSeconds := config.GetCountdownSeconds()

	// Read environment variables for match tuning overrides.
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if val, ok := env["br_min_players"]; ok {
		if i, err := strconv.Atoi(val); err == nil && i > 0 {
			settings.MinPlayers = i
		}
	}
	if val, ok := env["br_max_players"]; ok {
		if i, err := strconv.Atoi(val); err == nil && i > 0 {
			settings.MaxPlayers = i
		}
	}
	if val, ok := env["br_countdown_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil && i > 0 {
			countdownSeconds = i
		}
	}
	if val, ok := env["br_match_duration_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil && i > 0 {
			settings.MatchDuration = time.Duration(i) * time.Second
		}
	}

	world := "arena_default"
	if v, ok := params["world"].(string); ok && v != "" {
		world = v
	}

	game := domain.NewGame(matchID, settings, nil)
	game.AttachArena(world, domain.Vec3{Y: 64}, config.GetInitialRadius())

	scheduler := app.NewGameScheduler(game, app.SchedulerSettings{
		TickRate:         1,
		CountdownSeconds: countdownSeconds,
		Phases:           zonePhasesFromConfig(),
		DeathmatchRadius: config.GetDeathmatchRadius(),
		DeathmatchShrink: time.Duration(config.GetDeathmatchShrinkSeconds()) * time.Second,
	})
	scheduler.Start()

	state := &MatchState{
		Game:       game,
		Scheduler:  scheduler,
		App:        app.NewService(nil),
		Loot:       lootTableFromConfig(logger),
		Presences:  make(map[string]runtime.Presence),
		Positions:  make(map[string]domain.Vec3),
		Health:     make(map[string]float64),
		Kills:      make(map[string]int),
		Economy:    NewNakamaEconomyAdapter(nk),
		Stats:      NewNakamaStatsAdapter(nk),
		LabelPhase: domain.PhaseWaiting,
	}

	labelBytes, err := json.Marshal(MatchLabel{
		Open:  state.openSeats(),
		Game:  "battleroyale",
		Phase: string(domain.PhaseWaiting),
	})
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1 // scheduler tasks are calibrated to one tick per second
	return state, tickRate, string(labelBytes)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Reconnects are always allowed; roster membership survives a dropped
	// session.
	if matchState.Game.HasPlayer(presence.GetUserId()) {
		return state, true, ""
	}

	if matchState.Game.Phase() != domain.PhaseWaiting {
		return state, false, "match_in_progress"
	}
	if matchState.openSeats() <= 0 {
		return state, false, "match_full"
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		matchState.Presences[userID] = p

		if matchState.Game.HasPlayer(userID) {
			logger.Debug("MatchJoin: User %s reconnected.", userID)
			continue
		}

		events, ok := matchState.App.JoinPlayer(matchState.Game, userID)
		if !ok {
			logger.Warn("MatchJoin: User %s passed join attempt but the roster rejected them.", userID)
			continue
		}
		matchState.Positions[userID] = matchState.Game.Zone().Center
		matchState.Health[userID] = maxHealth

		for _, ev := range events {
			mh.broadcastEvent(matchState, dispatcher, logger, ev)
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		delete(matchState.Presences, userID)
		delete(matchState.Positions, userID)

		// Players who already placed keep their roster record so rewards
		// and stats survive a post-death disconnect. Everyone else is
		// removed, which may abort the countdown or conclude the match.
		if matchState.Game.HasPlayer(userID) && !matchState.Game.IsPlayerAlive(userID) {
			logger.Debug("MatchLeave: Eliminated user %s disconnected, keeping placement.", userID)
			continue
		}

		events := matchState.App.LeavePlayer(matchState.Game, userID)
		for _, ev := range events {
			mh.broadcastEvent(matchState, dispatcher, logger, ev)
		}
	}

	if matchState.Game.PlayerCount() == 0 && len(matchState.Presences) == 0 {
		logger.Info("MatchLeave: Terminating empty match.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	// Handle incoming messages before the scheduler tick so deaths reported
	// this tick are visible to the win check.
	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpMove:
			mh.handleMove(matchState, logger, msg)
		case OpOpenLoot:
			mh.handleOpenLoot(matchState, dispatcher, logger, msg)
		case OpReportDeath:
			mh.handleReportDeath(matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	for _, ev := range matchState.Scheduler.Advance(tick) {
		mh.broadcastEvent(matchState, dispatcher, logger, ev)
	}

	mh.applyZoneDamage(matchState, dispatcher, logger, tick)

	if matchState.LabelPhase != matchState.Game.Phase() {
		mh.updateLabel(matchState, dispatcher, logger)
	}

	if matchState.Game.Phase() == domain.PhaseEnding && !matchState.Settled {
		mh.settle(ctx, matchState, logger, tick)
	}

	if matchState.Settled && tick-matchState.EndedAtTick >= endGraceTicks {
		logger.Info("MatchLoop: Match %s concluded, shutting down.", matchState.Game.ID)
		return nil
	}

	return matchState
}

func (mh *matchHandler) handleMove(state *MatchState, logger runtime.Logger, msg runtime.MatchData) {
	userID := msg.GetUserId()
	if !state.Game.IsPlayerAlive(userID) {
		return
	}

	var req moveMessage
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		logger.Warn("handleMove: Invalid payload from %s: %v", userID, err)
		return
	}
	state.Positions[userID] = domain.Vec3{X: req.X, Y: req.Y, Z: req.Z}
}

func (mh *matchHandler) handleOpenLoot(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	userID := msg.GetUserId()
	if !state.Game.IsPlayerAlive(userID) {
		logger.Debug("handleOpenLoot: Ignoring loot request from dead or unknown user %s.", userID)
		return
	}

	var req openLootMessage
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		logger.Warn("handleOpenLoot: Invalid payload from %s: %v", userID, err)
		return
	}

	var items []domain.LootItem
	if req.Tier == "" {
		items = state.Loot.GenerateMixedLoot(lootItemsPerContainer)
	} else {
		tier, ok := domain.TierByName(req.Tier)
		if !ok {
			logger.Warn("handleOpenLoot: Unknown tier %q from %s.", req.Tier, userID)
			return
		}
		items = state.Loot.GenerateLoot(tier, lootItemsPerContainer)
	}

	mh.broadcastEvent(state, dispatcher, logger, app.Event{
		Kind:       app.EventLootGranted,
		Payload:    app.LootGrantedPayload{UserID: userID, Items: items},
		Recipients: []string{userID},
	})
}

func (mh *matchHandler) handleReportDeath(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	victimID := msg.GetUserId() // deaths are self-reported by the dying client's combat relay

	var req reportDeathMessage
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		logger.Warn("handleReportDeath: Invalid payload from %s: %v", victimID, err)
		return
	}

	events := state.App.EliminatePlayers(state.Game, app.CauseCombat, []string{victimID}, []string{req.KillerID})
	if len(events) == 0 {
		return
	}
	if req.KillerID != "" && state.Game.HasPlayer(req.KillerID) {
		state.Kills[req.KillerID]++
	}
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
}

// applyZoneDamage hurts every alive player outside the safe area on the
// active phase's damage cadence, eliminating those whose health runs out.
// All deaths from one damage tick land as a single batch so mutual
// eliminations settle consistently.
func (mh *matchHandler) applyZoneDamage(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, tick int64) {
	phase := state.Game.Phase()
	if phase != domain.PhaseActive && phase != domain.PhaseDeathmatch {
		return
	}
	zone := state.Game.Zone()
	if zone == nil {
		return
	}
	damage := zone.Phase().DamagePerTick
	if damage <= 0 {
		return
	}

	intervalTicks := int64(zone.Phase().TickInterval / time.Second)
	if intervalTicks < 1 {
		intervalTicks = 1
	}
	if tick-state.LastDamageTick < intervalTicks {
		return
	}
	state.LastDamageTick = tick

	var dead []string
	for _, userID := range state.Game.AlivePlayers() {
		pos, ok := state.Positions[userID]
		if !ok || zone.IsInZone(pos) {
			continue
		}

		state.Health[userID] -= damage
		mh.broadcastEvent(state, dispatcher, logger, app.Event{
			Kind: app.EventZoneDamage,
			Payload: app.ZoneDamagePayload{
				UserID: userID,
				Damage: damage,
				Health: state.Health[userID],
			},
			Recipients: []string{userID},
		})
		if state.Health[userID] <= 0 {
			dead = append(dead, userID)
		}
	}

	if len(dead) == 0 {
		return
	}
	for _, ev := range state.App.EliminatePlayers(state.Game, app.CauseZone, dead, nil) {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
}

// settle pays placement rewards and persists final results exactly once.
func (mh *matchHandler) settle(ctx context.Context, state *MatchState, logger runtime.Logger, tick int64) {
	state.Settled = true
	state.EndedAtTick = tick

	placements := state.Game.Placements()
	rewards := domain.CalculateRewards(placements, config.GetBaseReward())

	if state.Economy != nil && len(rewards) > 0 {
		updates := make([]ports.WalletUpdate, 0, len(rewards))
		for userID, amount := range rewards {
			updates = append(updates, ports.WalletUpdate{
				UserID: userID,
				Amount: amount,
				Metadata: map[string]interface{}{
					"match_id": state.Game.ID,
					"reason":   "placement_reward",
				},
			})
		}
		if err := state.Economy.UpdateBalances(ctx, updates); err != nil {
			logger.Error("settle: Failed to update balances: %v", err)
		}
	}

	if state.Stats != nil {
		results := make([]ports.MatchResult, 0, len(placements))
		for userID, place := range placements {
			results = append(results, ports.MatchResult{
				MatchID:   state.Game.ID,
				UserID:    userID,
				Placement: place,
				Won:       userID == state.Game.Winner(),
				Kills:     state.Kills[userID],
			})
		}
		if err := state.Stats.RecordResults(ctx, results); err != nil {
			logger.Error("settle: Failed to record results: %v", err)
		}
	}

	logger.Info("settle: Match %s settled, winner=%q, %d placements.", state.Game.ID, state.Game.Winner(), len(placements))
}

// broadcastEvent converts an app event to its wire form and dispatches it.
func (mh *matchHandler) broadcastEvent(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	opCode, ok := eventOpCodes[ev.Kind]
	if !ok {
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	data, err := json.Marshal(ev.Payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	// Determine recipients (default to broadcast).
	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, userID := range ev.Recipients {
			if p, ok := state.Presences[userID]; ok {
				recipients = append(recipients, p)
			}
		}
		// The intended recipients are all disconnected; do not leak a
		// targeted payload to everyone else.
		if len(recipients) == 0 {
			return
		}
	}

	dispatcher.BroadcastMessage(opCode, data, recipients, nil, true)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	state.LabelPhase = state.Game.Phase()
	labelBytes, err := json.Marshal(MatchLabel{
		Open:  state.openSeats(),
		Game:  "battleroyale",
		Phase: string(state.LabelPhase),
	})
	if err != nil {
		logger.Error("updateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("updateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	if matchState, ok := state.(*MatchState); ok {
		matchState.Scheduler.Stop()
	}
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}

// zonePhasesFromConfig maps the configured shrink sequence into domain
// phases.
func zonePhasesFromConfig() []domain.ZonePhase {
	configured := config.GetZonePhases()
	phases := make([]domain.ZonePhase, 0, len(configured))
	for i, pc := range configured {
		phases = append(phases, domain.ZonePhase{
			ID:            i + 1,
			Wait:          time.Duration(pc.WaitSeconds) * time.Second,
			Shrink:        time.Duration(pc.ShrinkSeconds) * time.Second,
			TargetRadius:  pc.TargetRadius,
			DamagePerTick: pc.DamagePerTick,
			TickInterval:  time.Duration(pc.TickIntervalSeconds) * time.Second,
		})
	}
	return phases
}

// lootTableFromConfig builds the match loot table from configured entries.
// Malformed entries are skipped with a warning; generation itself never
// fails over a sparse table.
func lootTableFromConfig(logger runtime.Logger) *domain.LootTable {
	table := domain.NewLootTable(nil)
	for _, entry := range config.GetLootEntries() {
		tier, ok := domain.TierByName(entry.Tier)
		if !ok {
			logger.Warn("lootTableFromConfig: Unknown tier %q for item %q.", entry.Tier, entry.Item)
			continue
		}
		if !table.AddLoot(tier, entry.Item, entry.MinQuantity, entry.MaxQuantity) {
			logger.Warn("lootTableFromConfig: Rejected loot entry %q (%d..%d).", entry.Item, entry.MinQuantity, entry.MaxQuantity)
		}
	}
	return table
}
