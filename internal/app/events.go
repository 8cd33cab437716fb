package app

import "caravan/internal/domain"

// EventKind identifies emitted engine events for presentation playback.
type EventKind string

const (
	EventGameStarted       EventKind = "game_started"
	EventHandDealt         EventKind = "hand_dealt"
	EventLayerAdded        EventKind = "layer_added"
	EventCardAttached      EventKind = "card_attached"
	EventLayersRemoved     EventKind = "layers_removed"
	EventCaravanDiscarded  EventKind = "caravan_discarded"
	EventCardDiscarded     EventKind = "card_discarded"
	EventCardDrawn         EventKind = "card_drawn"
	EventDrawPileExhausted EventKind = "draw_pile_exhausted"
	EventTurnPassed        EventKind = "turn_passed"
	EventTurnSkipped       EventKind = "turn_skipped"
	EventRoundOver         EventKind = "round_over"
)

// Event is an engine event with optional targeted recipients.
type Event struct {
	Kind       EventKind         `json:"kind"`
	Payload    any               `json:"payload"`
	Recipients []domain.PlayerID `json:"-"` // empty means broadcast
}

// VisibleTo reports whether the player may see the event.
func (e Event) VisibleTo(player domain.PlayerID) bool {
	if len(e.Recipients) == 0 {
		return true
	}
	for _, r := range e.Recipients {
		if r == player {
			return true
		}
	}
	return false
}

type GameStartedPayload struct {
	Active domain.PlayerID `json:"active"`
}

type HandDealtPayload struct {
	Player   domain.PlayerID `json:"player"`
	Hand     []domain.Card   `json:"hand"`
	PileSize int             `json:"pile_size"`
}

type LayerAddedPayload struct {
	Player      domain.PlayerID  `json:"player"`
	Card        domain.Card      `json:"card"`
	Caravan     domain.CaravanID `json:"caravan"`
	Layer       int              `json:"layer"`
	OpeningLeft int              `json:"opening_left"`
}

type CardAttachedPayload struct {
	Player  domain.PlayerID  `json:"player"`
	Card    domain.Card      `json:"card"`
	Caravan domain.CaravanID `json:"caravan"`
	Layer   int              `json:"layer"`
	Anchor  domain.Card      `json:"anchor"`
}

// LayersRemovedPayload is emitted once per caravan that lost layers to a Jack or Joker.
type LayersRemovedPayload struct {
	Player  domain.PlayerID  `json:"player"`
	Effect  domain.Card      `json:"effect"`
	Caravan domain.CaravanID `json:"caravan"`
	Cards   []domain.Card    `json:"cards"`
}

type CaravanDiscardedPayload struct {
	Player  domain.PlayerID  `json:"player"`
	Caravan domain.CaravanID `json:"caravan"`
	Cards   []domain.Card    `json:"cards"`
}

type CardDiscardedPayload struct {
	Player domain.PlayerID `json:"player"`
	Card   domain.Card     `json:"card"`
}

type CardDrawnPayload struct {
	Player   domain.PlayerID `json:"player"`
	Card     domain.Card     `json:"card"`
	PileSize int             `json:"pile_size"`
}

type DrawPileExhaustedPayload struct {
	Player   domain.PlayerID `json:"player"`
	HandSize int             `json:"hand_size"`
}

type TurnPassedPayload struct {
	Player domain.PlayerID `json:"player"`
	Next   domain.PlayerID `json:"next"`
}

type TurnSkippedPayload struct {
	Player domain.PlayerID `json:"player"`
	Next   domain.PlayerID `json:"next"`
}

type RoundOverPayload struct {
	Winner    domain.PlayerID     `json:"winner"`
	Stalemate bool                `json:"stalemate"`
	Lanes     []domain.LaneResult `json:"lanes"`
	Turns     int                 `json:"turns"`
}
