package app

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"caravan/internal/domain"
	"caravan/internal/ports"
)

// Service is the turn engine. It owns every mutation of a domain.Game and reports
// each transition as a list of events.
type Service struct {
	rng     *rand.Rand
	logger  *slog.Logger
	metrics ports.MetricsPort
	strict  bool
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics reports engine activity to m.
func WithMetrics(m ports.MetricsPort) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithStrict makes Apply verify game invariants after every action and panic on
// violation.
func WithStrict(strict bool) Option {
	return func(s *Service) { s.strict = strict }
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(rng *rand.Rand, opts ...Option) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &Service{
		rng:     rng,
		logger:  slog.New(slog.DiscardHandler),
		metrics: nopMetrics{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	ErrRoundOver     = errors.New("round is over")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrUnknownPlayer = errors.New("player not found")
)

// StartGame deals a new round. A nil deck gives that player a freshly generated
// standard deck; otherwise the deck must pass domain.ValidateCustomDeck.
func (s *Service) StartGame(decks [2][]domain.Card) (*domain.Game, []Event, error) {
	var hands [2]domain.Hand
	var piles [2]domain.DrawPile
	var events []Event
	if err := ensureDistinct(decks); err != nil {
		return nil, nil, err
	}

	for i, id := range []domain.PlayerID{domain.PlayerOne, domain.PlayerTwo} {
		deck := decks[i]
		if deck == nil {
			deck = domain.NewDeck(s.rng)
		} else if err := domain.ValidateCustomDeck(deck); err != nil {
			return nil, nil, fmt.Errorf("%s deck: %w", id, err)
		}

		hand, pile, err := domain.Deal(deck, s.rng)
		if err != nil {
			return nil, nil, fmt.Errorf("%s deal: %w", id, err)
		}
		hands[i], piles[i] = hand, pile

		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{Player: id, Hand: append([]domain.Card{}, hand...), PileSize: len(pile)},
			Recipients: []domain.PlayerID{id},
		})
	}
	game := domain.NewGame(hands, piles)
	events = append(events, Event{
		Kind:    EventGameStarted,
		Payload: GameStartedPayload{Active: game.Active},
	})
	s.logger.Info("round started", "active", game.Active, "custom_p1", decks[0] != nil, "custom_p2", decks[1] != nil)
	return game, events, nil
}

// ensureDistinct rejects two custom decks that share a card id.
func ensureDistinct(decks [2][]domain.Card) error {
	if decks[0] == nil || decks[1] == nil {
		return nil
	}
	seen := make(map[domain.CardID]bool, len(decks[0]))
	for _, c := range decks[0] {
		seen[c.ID] = true
	}
	for _, c := range decks[1] {
		if seen[c.ID] {
			return fmt.Errorf("%w: card %s in both decks", domain.ErrInvalidDeck, c.ID)
		}
	}
	return nil
}

// Apply processes one action for the active player. On error the game is left
// untouched. On success the action has been committed: effects resolved, the
// opening counter advanced, the hand replenished, the win evaluated and the turn
// handed over.
func (s *Service) Apply(game *domain.Game, player domain.PlayerID, action domain.Action) ([]Event, error) {
	if game.Over() {
		return nil, ErrRoundOver
	}
	p := game.Player(player)
	if p == nil {
		return nil, ErrUnknownPlayer
	}
	if game.Active != player {
		return nil, ErrNotYourTurn
	}

	res, err := domain.Resolve(game, player, action)
	if err != nil {
		s.metrics.ObserveAction(string(action.Kind), resultRejected)
		s.logger.Debug("action rejected", "player", player, "action", action.String(), "err", err)
		return nil, err
	}
	s.metrics.ObserveAction(string(action.Kind), resultApplied)

	if res.Opening {
		p.OpeningLeft--
	}
	events := s.resolutionEvents(player, p, res)

	drawn, exhausted := domain.Replenish(&p.Hand, &p.Pile, domain.HandCapacity)
	for _, c := range drawn {
		events = append(events, Event{
			Kind:       EventCardDrawn,
			Payload:    CardDrawnPayload{Player: player, Card: c, PileSize: len(p.Pile)},
			Recipients: []domain.PlayerID{player},
		})
	}
	if exhausted {
		events = append(events, Event{
			Kind:    EventDrawPileExhausted,
			Payload: DrawPileExhaustedPayload{Player: player, HandSize: len(p.Hand)},
		})
	}

	game.Turn++
	s.logger.Debug("action applied", "player", player, "action", action.String(), "turn", game.Turn, "removed", res.RemovedCount())

	if winner := domain.Winner(game); winner != domain.PlayerNone {
		events = append(events, s.endRound(game, winner, false))
	} else {
		events = append(events, s.advance(game, player)...)
	}

	if s.strict {
		if err := game.CheckInvariants(); err != nil {
			panic(fmt.Sprintf("caravan: %v after %s by %s", err, action, player))
		}
	}
	return events, nil
}

// advance hands the turn to the opponent, skipping a player with no legal action.
// A table that can no longer change ends the round as a stalemate.
func (s *Service) advance(game *domain.Game, player domain.PlayerID) []Event {
	next := player.Opponent()
	switch {
	case domain.TableFrozen(game):
		return []Event{s.endRound(game, domain.PlayerNone, true)}
	case len(domain.LegalActions(game, next)) > 0:
		game.Active = next
		return []Event{{Kind: EventTurnPassed, Payload: TurnPassedPayload{Player: player, Next: next}}}
	case len(domain.LegalActions(game, player)) > 0:
		s.logger.Info("turn skipped", "player", next)
		return []Event{{Kind: EventTurnSkipped, Payload: TurnSkippedPayload{Player: next, Next: player}}}
	default:
		return []Event{s.endRound(game, domain.PlayerNone, true)}
	}
}

func (s *Service) endRound(game *domain.Game, winner domain.PlayerID, stalemate bool) Event {
	game.Phase = domain.PhaseEnded
	game.Winner = winner
	game.Stalemate = stalemate
	game.Active = domain.PlayerNone

	outcome := winner.String()
	if stalemate {
		outcome = outcomeStalemate
	}
	s.metrics.ObserveRound(outcome, game.Turn)
	s.logger.Info("round over", "outcome", outcome, "turns", game.Turn)

	lanes := domain.EvaluateLanes(game)
	return Event{
		Kind: EventRoundOver,
		Payload: RoundOverPayload{
			Winner:    winner,
			Stalemate: stalemate,
			Lanes:     lanes[:],
			Turns:     game.Turn,
		},
	}
}

// Abort ends a round that was abandoned before a result, e.g. when a turn cap is hit.
func (s *Service) Abort(game *domain.Game) {
	if game.Over() {
		return
	}
	game.Phase = domain.PhaseEnded
	game.Active = domain.PlayerNone
	s.metrics.ObserveRound(outcomeAborted, game.Turn)
	s.logger.Warn("round aborted", "turns", game.Turn)
}

func (s *Service) resolutionEvents(player domain.PlayerID, p *domain.Player, res domain.Resolution) []Event {
	switch res.Action.Kind {
	case domain.ActionDiscard:
		return []Event{{Kind: EventCardDiscarded, Payload: CardDiscardedPayload{Player: player, Card: res.Card}}}

	case domain.ActionDiscardCaravan:
		var cards []domain.Card
		for _, rm := range res.Removed {
			cards = append(cards, rm.Cards...)
		}
		return []Event{{Kind: EventCaravanDiscarded, Payload: CaravanDiscardedPayload{Player: player, Caravan: res.Caravan, Cards: cards}}}
	}

	var events []Event
	switch res.Card.Kind() {
	case domain.KindNumeric, domain.KindAce:
		events = append(events, Event{Kind: EventLayerAdded, Payload: LayerAddedPayload{
			Player:      player,
			Card:        res.Card,
			Caravan:     res.Caravan,
			Layer:       res.Layer,
			OpeningLeft: p.OpeningLeft,
		}})
	case domain.KindQueen, domain.KindKing, domain.KindJoker:
		events = append(events, Event{Kind: EventCardAttached, Payload: CardAttachedPayload{
			Player:  player,
			Card:    res.Card,
			Caravan: res.Caravan,
			Layer:   res.Layer,
			Anchor:  res.Anchor,
		}})
	}

	if len(res.Removed) > 0 {
		s.metrics.ObserveRemoval(res.Card.Kind().String(), res.RemovedCount())
	}
	for _, rm := range res.Removed {
		events = append(events, Event{Kind: EventLayersRemoved, Payload: LayersRemovedPayload{
			Player:  player,
			Effect:  res.Card,
			Caravan: rm.Caravan,
			Cards:   rm.Cards,
		}})
	}
	return events
}

type nopMetrics struct{}

func (nopMetrics) ObserveAction(string, string) {}
func (nopMetrics) ObserveRemoval(string, int)   {}
func (nopMetrics) ObserveRound(string, int)     {}
