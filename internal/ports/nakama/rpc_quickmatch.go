package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"caravan/internal/bot"

	"github.com/heroiclabs/nakama-common/runtime"
)

// QuickMatchRequest is the optional quick_match payload.
type QuickMatchRequest struct {
	BotLevel string `json:"bot_level,omitempty"`
}

// QuickMatchResponse is the payload returned to clients when requesting a solo match.
type QuickMatchResponse struct {
	MatchID  string `json:"match_id"`
	IsNew    bool   `json:"is_new"`
	BotLevel string `json:"bot_level"`
}

func rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req QuickMatchRequest
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("invalid quick_match payload", 3) // INVALID_ARGUMENT
		}
	}
	level, err := bot.ParseLevel(req.BotLevel)
	if err != nil {
		return "", runtime.NewError(err.Error(), 3)
	}

	// Reuse an empty match created for the same bot level that nobody joined.
	query := fmt.Sprintf("+label.open:T +label.game:%s +label.phase:lobby +label.bot_level:%s", MatchLabelGame, level)

	limit := 1
	authoritative := true
	minSize := 0
	maxSize := 0

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, query)
	if err != nil {
		logger.Error("MatchList error: %v", err)
		return "", err
	}

	if len(matches) > 0 {
		resp := QuickMatchResponse{MatchID: matches[0].MatchId, IsNew: false, BotLevel: level.String()}
		b, _ := json.Marshal(resp)
		return string(b), nil
	}

	// The human seat is assigned in MatchJoin (server-authoritative).
	matchID, err := nk.MatchCreate(ctx, MatchNameCaravan, map[string]interface{}{"bot_level": level.String()})
	if err != nil {
		logger.Error("MatchCreate error: %v", err)
		return "", err
	}

	resp := QuickMatchResponse{MatchID: matchID, IsNew: true, BotLevel: level.String()}
	b, _ := json.Marshal(resp)
	return string(b), nil
}
