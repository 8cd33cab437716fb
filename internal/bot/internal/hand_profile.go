package internal

import "caravan/internal/domain"

// HandProfile summarizes a hand's strategic resources.
type HandProfile struct {
	TotalCards  int
	Anchors     int
	HighAnchors int // 7 and above
	Aces        int
	Jacks       int
	Queens      int
	Kings       int
	Jokers      int
}

// PowerCards counts the cards that change values or remove layers.
func (p HandProfile) PowerCards() int {
	return p.Jacks + p.Kings + p.Jokers
}

// ProfileHand counts the card kinds in a hand.
func ProfileHand(hand []domain.Card) HandProfile {
	profile := HandProfile{TotalCards: len(hand)}
	for _, c := range hand {
		switch c.Kind() {
		case domain.KindNumeric:
			profile.Anchors++
			if c.Value() >= 7 {
				profile.HighAnchors++
			}
		case domain.KindAce:
			profile.Anchors++
			profile.Aces++
		case domain.KindJack:
			profile.Jacks++
		case domain.KindQueen:
			profile.Queens++
		case domain.KindKing:
			profile.Kings++
		case domain.KindJoker:
			profile.Jokers++
		}
	}
	return profile
}
