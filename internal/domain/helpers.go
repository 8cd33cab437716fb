package domain

// Hand is the ordered set of cards a player may play.
type Hand []Card

// Index returns the position of the card with the given id, or -1.
func (h Hand) Index(id CardID) int {
	for i, c := range h {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Find returns the card with the given id.
func (h Hand) Find(id CardID) (Card, bool) {
	if i := h.Index(id); i >= 0 {
		return h[i], true
	}
	return Card{}, false
}

// Contains reports whether the hand holds the card.
func (h Hand) Contains(id CardID) bool {
	return h.Index(id) >= 0
}

// Remove takes the card out of the hand, keeping the order of the rest.
func (h *Hand) Remove(id CardID) (Card, bool) {
	i := h.Index(id)
	if i < 0 {
		return Card{}, false
	}
	card := (*h)[i]
	*h = append((*h)[:i:i], (*h)[i+1:]...)
	return card, true
}

// DrawPile is a face-down pile; index 0 is the next card drawn.
type DrawPile []Card

// Draw takes the front card. ok is false when the pile is exhausted.
func (p *DrawPile) Draw() (card Card, ok bool) {
	if len(*p) == 0 {
		return Card{}, false
	}
	card = (*p)[0]
	*p = (*p)[1:]
	return card, true
}

// Replenish draws from the pile until the hand reaches capacity or the pile runs out.
// It returns the drawn cards and whether the pile ran dry before the hand was full.
func Replenish(h *Hand, p *DrawPile, capacity int) (drawn []Card, exhausted bool) {
	for len(*h) < capacity {
		card, ok := p.Draw()
		if !ok {
			return drawn, true
		}
		*h = append(*h, card)
		drawn = append(drawn, card)
	}
	return drawn, false
}
