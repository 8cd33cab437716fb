package domain

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

// NewDeck returns an ordered 54-card deck. Card IDs are drawn from rng so that
// seeded games are reproducible.
func NewDeck(rng *rand.Rand) []Card {
	deck := make([]Card, 0, StandardDeckSize)
	for _, s := range Suits {
		for r := RankAce; r <= RankKing; r++ {
			deck = append(deck, Card{ID: newCardID(rng), Rank: r, Suit: s})
		}
	}
	for i := 0; i < JokersPerDeck; i++ {
		deck = append(deck, Card{ID: newCardID(rng), Rank: RankJoker, Suit: SuitNone})
	}
	return deck
}

// ShuffleDeck returns a shuffled copy of the given deck.
func ShuffleDeck(deck []Card, rng *rand.Rand) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Deal shuffles deck and splits it into an opening hand and a draw pile. The hand
// always holds at least MinOpeningAnchors anchors; anchors are swapped in from the
// pile when the shuffle does not provide enough.
func Deal(deck []Card, rng *rand.Rand) (Hand, DrawPile, error) {
	if err := validateDealable(deck); err != nil {
		return nil, nil, err
	}

	shuffled := ShuffleDeck(deck, rng)
	hand := append(Hand{}, shuffled[:OpeningHandSize]...)
	pile := append(DrawPile{}, shuffled[OpeningHandSize:]...)

	for countAnchors(hand) < MinOpeningAnchors {
		hi := indexOfFace(hand)
		pi := indexOfAnchor(pile)
		hand[hi], pile[pi] = pile[pi], hand[hi]
	}
	return hand, pile, nil
}

// DraftPool returns the random selection a player builds a custom deck from.
func DraftPool(rng *rand.Rand) []Card {
	return ShuffleDeck(NewDeck(rng), rng)[:DraftPoolSize]
}

// ValidateCustomDeck checks a player-built deck can be dealt and could have been
// drafted from one standard deck: catalog cards only, one copy of each rank and
// suit, at most JokersPerDeck jokers, and ids that cannot be mistaken for caravans.
func ValidateCustomDeck(cards []Card) error {
	if len(cards) != CustomDeckSize {
		return fmt.Errorf("%w: custom deck has %d cards, want %d", ErrInvalidDeck, len(cards), CustomDeckSize)
	}

	reserved := make(map[CardID]bool, 2*len(Lanes))
	for _, p := range []PlayerID{PlayerOne, PlayerTwo} {
		for _, l := range Lanes {
			reserved[CardID(CaravanIDFor(p, l))] = true
		}
	}

	copies := make(map[string]bool, len(cards))
	jokers := 0
	for _, c := range cards {
		switch {
		case c.ID == "":
			return fmt.Errorf("%w: card %s has no id", ErrInvalidDeck, c)
		case reserved[c.ID]:
			return fmt.Errorf("%w: card id %q is a caravan id", ErrInvalidDeck, c.ID)
		case !c.Valid():
			return fmt.Errorf("%w: card %s (rank %d, suit %q) is not in the catalog", ErrInvalidDeck, c.ID, int(c.Rank), c.Suit)
		}
		if c.Rank == RankJoker {
			if jokers++; jokers > JokersPerDeck {
				return fmt.Errorf("%w: more than %d jokers", ErrInvalidDeck, JokersPerDeck)
			}
			continue
		}
		if copies[c.String()] {
			return fmt.Errorf("%w: more than one %s", ErrInvalidDeck, c)
		}
		copies[c.String()] = true
	}
	return validateDealable(cards)
}

func validateDealable(cards []Card) error {
	if len(cards) < OpeningHandSize {
		return fmt.Errorf("%w: %d cards, need at least %d", ErrInvalidDeck, len(cards), OpeningHandSize)
	}
	if n := countAnchors(cards); n < MinOpeningAnchors {
		return fmt.Errorf("%w: %d anchor cards, need at least %d", ErrInvalidDeck, n, MinOpeningAnchors)
	}
	seen := make(map[CardID]bool, len(cards))
	for _, c := range cards {
		if seen[c.ID] {
			return fmt.Errorf("%w: duplicate card %s", ErrInvalidDeck, c.ID)
		}
		seen[c.ID] = true
	}
	return nil
}

func countAnchors(cards []Card) int {
	n := 0
	for _, c := range cards {
		if c.Rank.IsAnchor() {
			n++
		}
	}
	return n
}

func indexOfFace(cards []Card) int {
	for i, c := range cards {
		if c.Rank.IsFace() {
			return i
		}
	}
	return -1
}

func indexOfAnchor(cards []Card) int {
	for i, c := range cards {
		if c.Rank.IsAnchor() {
			return i
		}
	}
	return -1
}

func newCardID(rng *rand.Rand) CardID {
	if rng != nil {
		if id, err := uuid.NewRandomFromReader(rng); err == nil {
			return CardID(id.String())
		}
	}
	return CardID(uuid.NewString())
}
