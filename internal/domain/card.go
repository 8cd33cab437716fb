package domain

import "fmt"

// Suit is a card suit. Jokers carry SuitNone.
type Suit string

const (
	SuitNone     Suit = ""
	SuitSpades   Suit = "S"
	SuitHearts   Suit = "H"
	SuitDiamonds Suit = "D"
	SuitClubs    Suit = "C"
)

// Suits lists the four standard suits in deck order.
var Suits = []Suit{SuitSpades, SuitHearts, SuitDiamonds, SuitClubs}

// Rank identifies a card rank. Numeric ranks carry their face value.
type Rank int

const (
	RankAce   Rank = 1
	RankTwo   Rank = 2
	RankThree Rank = 3
	RankFour  Rank = 4
	RankFive  Rank = 5
	RankSix   Rank = 6
	RankSeven Rank = 7
	RankEight Rank = 8
	RankNine  Rank = 9
	RankTen   Rank = 10
	RankJack  Rank = 11
	RankQueen Rank = 12
	RankKing  Rank = 13
	RankJoker Rank = 14
)

// Kind is the rules classification of a rank. Every rule and effect dispatches on it.
type Kind int

const (
	KindNumeric Kind = iota
	KindAce
	KindJack
	KindQueen
	KindKing
	KindJoker
	// KindInvalid is reported for ranks outside the catalog.
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindAce:
		return "ace"
	case KindJack:
		return "jack"
	case KindQueen:
		return "queen"
	case KindKing:
		return "king"
	case KindJoker:
		return "joker"
	case KindInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Kind classifies the rank.
func (r Rank) Kind() Kind {
	switch {
	case r == RankAce:
		return KindAce
	case r >= RankTwo && r <= RankTen:
		return KindNumeric
	case r == RankJack:
		return KindJack
	case r == RankQueen:
		return KindQueen
	case r == RankKing:
		return KindKing
	case r == RankJoker:
		return KindJoker
	default:
		return KindInvalid
	}
}

// Valid reports whether the rank is part of the catalog.
func (r Rank) Valid() bool {
	return r >= RankAce && r <= RankJoker
}

// Value is the base caravan value of the rank: Ace counts 1, face cards 0.
func (r Rank) Value() int {
	if r >= RankAce && r <= RankTen {
		return int(r)
	}
	return 0
}

// IsAnchor reports whether the rank can start a layer (numeric cards and Aces).
func (r Rank) IsAnchor() bool {
	k := r.Kind()
	return k == KindNumeric || k == KindAce
}

// IsFace reports whether the rank attaches to an existing anchor.
func (r Rank) IsFace() bool {
	switch r.Kind() {
	case KindJack, KindQueen, KindKing, KindJoker:
		return true
	}
	return false
}

func (r Rank) String() string {
	switch r {
	case RankAce:
		return "A"
	case RankJack:
		return "J"
	case RankQueen:
		return "Q"
	case RankKing:
		return "K"
	case RankJoker:
		return "JK"
	default:
		return fmt.Sprintf("%d", int(r))
	}
}

// CardID uniquely identifies a physical card within a game.
type CardID string

// Card is a single card instance. Placement is tracked by the container that holds it.
type Card struct {
	ID   CardID `json:"id"`
	Rank Rank   `json:"rank"`
	Suit Suit   `json:"suit"`
}

// Valid reports whether the card exists in the catalog: a known rank, a standard
// suit for every rank but the Joker, and SuitNone on Jokers.
func (c Card) Valid() bool {
	if !c.Rank.Valid() {
		return false
	}
	if c.Rank == RankJoker {
		return c.Suit == SuitNone
	}
	for _, s := range Suits {
		if c.Suit == s {
			return true
		}
	}
	return false
}

// Kind is shorthand for c.Rank.Kind().
func (c Card) Kind() Kind {
	return c.Rank.Kind()
}

// Value is shorthand for c.Rank.Value().
func (c Card) Value() int {
	return c.Rank.Value()
}

// String renders the short code of the card, e.g. "7H", "QS" or "JK".
func (c Card) String() string {
	if c.Rank == RankJoker {
		return "JK"
	}
	return c.Rank.String() + string(c.Suit)
}
