package nakama

import (
	"context"
	"database/sql"

	"battleroyale/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires RPCs and match handlers for the Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := RegisterRPCs(initializer); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameBattleRoyale, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return newMatchHandler(), nil
	}); err != nil {
		return err
	}

	// The win leaderboard is created eagerly so first-match settlement never
	// races its existence. Failure is non-fatal; writes will surface it.
	if err := nk.LeaderboardCreate(ctx, config.GetWinLeaderboardID(), true, "desc", "incr", "", nil, false); err != nil {
		logger.Warn("InitModule: LeaderboardCreate failed: %v", err)
	}

	logger.Info("Battle royale Go module loaded.")
	return nil
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcQuickMatch, rpcQuickMatch); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcSpectateToken, RpcGetSpectateToken)
}
