package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"battleroyale/internal/config"
	"battleroyale/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// NakamaStatsAdapter implements ports.StatsPort on Nakama storage and
// leaderboards.
type NakamaStatsAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaStatsAdapter creates a new stats adapter.
func NewNakamaStatsAdapter(nk runtime.NakamaModule) *NakamaStatsAdapter {
	return &NakamaStatsAdapter{
		nk: nk,
	}
}

const statsCollection = "match_results"

// RecordResults writes one storage object per player under the match
// results collection and credits the winner on the wins leaderboard.
func (a *NakamaStatsAdapter) RecordResults(ctx context.Context, results []ports.MatchResult) error {
	writes := make([]*runtime.StorageWrite, 0, len(results))
	for _, res := range results {
		value, err := json.Marshal(res)
		if err != nil {
			return fmt.Errorf("failed to marshal result for user %s: %w", res.UserID, err)
		}
		writes = append(writes, &runtime.StorageWrite{
			Collection:      statsCollection,
			Key:             res.MatchID,
			UserID:          res.UserID,
			Value:           string(value),
			PermissionRead:  1, // owner read
			PermissionWrite: 0, // server only
		})
	}
	if len(writes) > 0 {
		if _, err := a.nk.StorageWrite(ctx, writes); err != nil {
			return fmt.Errorf("failed to write match results: %w", err)
		}
	}

	for _, res := range results {
		if !res.Won {
			continue
		}
		_, err := a.nk.LeaderboardRecordWrite(ctx, config.GetWinLeaderboardID(), res.UserID, "", 1, 0, nil, nil)
		if err != nil {
			return fmt.Errorf("failed to write leaderboard record for user %s: %w", res.UserID, err)
		}
	}
	return nil
}
