package nakama

import (
	"encoding/json"
	"errors"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"caravan/internal/app"
	"caravan/internal/domain"
)

// StartGameRequest is the optional OpStartGame payload. An empty deck deals the
// standard deck.
type StartGameRequest struct {
	Deck []domain.Card `json:"deck,omitempty"`
}

// SnapshotMessage is the OpSnapshot payload. The bot's hand is masked.
type SnapshotMessage struct {
	Round    int             `json:"round"`
	Bot      string          `json:"bot"`
	Snapshot domain.Snapshot `json:"snapshot"`
	// Legal lists the human's legal actions while it is their turn.
	Legal []domain.Action `json:"legal,omitempty"`
}

// ErrorMessage is the OpGameError payload.
type ErrorMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func decodeStartGame(data []byte) (StartGameRequest, error) {
	var req StartGameRequest
	if len(data) == 0 {
		return req, nil
	}
	err := json.Unmarshal(data, &req)
	return req, err
}

func decodeAction(data []byte) (domain.Action, error) {
	var a domain.Action
	if err := json.Unmarshal(data, &a); err != nil {
		return a, err
	}
	if a.Kind == "" {
		return a, errors.New("action kind is required")
	}
	return a, nil
}

// visibleEvents keeps the events the player may see, in order.
func visibleEvents(events []app.Event, player domain.PlayerID) []app.Event {
	out := make([]app.Event, 0, len(events))
	for _, ev := range events {
		if ev.VisibleTo(player) {
			out = append(out, ev)
		}
	}
	return out
}

// errorCode maps engine errors onto OpGameError codes.
func errorCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrMalformedAction):
		return CodeBadRequest
	case errors.Is(err, domain.ErrIllegalMove), errors.Is(err, domain.ErrInvalidDeck):
		return CodeIllegalMove
	case errors.Is(err, app.ErrNotYourTurn):
		return CodeNotYourTurn
	case errors.Is(err, app.ErrRoundOver):
		return CodeRoundOver
	default:
		return CodeInternalError
	}
}

// matchLabel renders the label used by match listing queries.
func matchLabel(state *MatchState) (string, error) {
	phase := "lobby"
	if state.Game != nil {
		phase = "playing"
		if state.Game.Over() {
			phase = "ended"
		}
	}
	label, err := structpb.NewStruct(map[string]interface{}{
		"game":      MatchLabelGame,
		"open":      state.HumanID == "",
		"phase":     phase,
		"bot_level": state.BotLevel.String(),
	})
	if err != nil {
		return "", err
	}
	b, err := protojson.MarshalOptions{EmitUnpopulated: true}.Marshal(label)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
