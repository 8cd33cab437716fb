package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"
	"time"

	"caravan/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// DraftPoolResponse lists the cards a custom deck may be built from. The chosen
// cards come back in StartGameRequest.Deck and must pass domain.ValidateCustomDeck.
type DraftPoolResponse struct {
	Cards    []domain.Card `json:"cards"`
	DeckSize int           `json:"deck_size"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcQuickMatch, rpcQuickMatch); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcDraftPool, rpcDraftPool)
}

func rpcDraftPool(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	resp := DraftPoolResponse{Cards: domain.DraftPool(rng), DeckSize: domain.CustomDeckSize}
	b, err := json.Marshal(resp)
	if err != nil {
		logger.Error("rpcDraftPool: Failed to marshal pool: %v", err)
		return "", err
	}
	return string(b), nil
}
