package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"
)

// QuickMatchResponse is the payload returned to clients when requesting a lobby-capable match.
type QuickMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	return initializer.RegisterRpc(RpcQuickMatch, rpcQuickMatch)
}

// quickMatchQuery selects SMØR lobbies with at least one open seat.
var quickMatchQuery = fmt.Sprintf("+label.game:smor +label.phase:lobby +label.%s:>=1", MatchLabelKey_OpenSeats)

func rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	limit := 10
	authoritative := true
	minSize := 1
	maxSize := 3 // ensure < 4 players

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, quickMatchQuery)
	if err != nil {
		logger.Error("QuickMatch [User:%s]: MatchList error: %v", userID, err)
		return "", err
	}

	if len(matches) > 0 {
		logger.Info("QuickMatch [User:%s]: Found existing match %s", userID, matches[0].MatchId)
		return encodeQuickMatch(QuickMatchResponse{MatchID: matches[0].MatchId})
	}

	// Create new match; seat/owner assignment happens in MatchJoin (server-authoritative).
	matchID, err := nk.MatchCreate(ctx, MatchNameSmor, map[string]interface{}{})
	if err != nil {
		logger.Error("QuickMatch [User:%s]: MatchCreate error: %v", userID, err)
		return "", err
	}
	logger.Info("QuickMatch [User:%s]: Created new match %s", userID, matchID)
	return encodeQuickMatch(QuickMatchResponse{MatchID: matchID, IsNew: true})
}

func encodeQuickMatch(resp QuickMatchResponse) (string, error) {
	b, err := json.Marshal(resp)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
