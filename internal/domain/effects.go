package domain

// Removal records the cards a single caravan lost to an effect.
type Removal struct {
	Caravan CaravanID
	Cards   []Card
}

// Resolution describes the structural consequences of an applied action.
type Resolution struct {
	Action Action
	Card   Card
	// Caravan is the caravan the card went to, empty for hand discards.
	Caravan CaravanID
	// Layer is the index of the layer the card was placed in or attached to.
	Layer int
	// Anchor is the anchor of the layer a face card targeted.
	Anchor Card
	// Opening is set when the play counted towards the player's opening placements.
	Opening bool
	Removed []Removal
}

// RemovedCount returns the number of cards that left the table.
func (r Resolution) RemovedCount() int {
	n := 0
	for _, rm := range r.Removed {
		n += len(rm.Cards)
	}
	return n
}

// Resolve validates the action and applies its effect to the table. Cards that
// leave play go to the discard. Opening counters, hand replenishment and turn order
// belong to the turn engine.
func Resolve(g *Game, player PlayerID, a Action) (Resolution, error) {
	if err := CheckAction(g, player, a); err != nil {
		return Resolution{}, err
	}
	p := g.Player(player)
	res := Resolution{Action: a, Layer: -1}

	switch a.Kind {
	case ActionDiscard:
		card, _ := p.Hand.Remove(a.Card)
		res.Card = card
		g.Discard = append(g.Discard, card)

	case ActionDiscardCaravan:
		c, _, _ := g.locate(a.Target)
		res.Caravan = c.ID
		if removed := c.TrimToBase(); len(removed) > 0 {
			g.Discard = append(g.Discard, removed...)
			res.Removed = append(res.Removed, Removal{Caravan: c.ID, Cards: removed})
		}

	case ActionPlay:
		card, _ := p.Hand.Remove(a.Card)
		c, layer, _ := g.locate(a.Target)
		if layer < 0 && card.Rank.IsFace() {
			layer = c.Len() - 1
		}
		res.Card = card
		res.Caravan = c.ID
		res.Opening = p.OpeningLeft > 0 && card.Rank.IsAnchor()

		switch card.Kind() {
		case KindNumeric, KindAce:
			placeAnchor(c, card, &res)
		case KindJack:
			playJack(g, c, layer, card, &res)
		case KindQueen, KindKing:
			attachFace(c, layer, card, &res)
		case KindJoker:
			playJoker(g, c, layer, card, &res)
		}
	}
	return res, nil
}

func placeAnchor(c *Caravan, card Card, res *Resolution) {
	c.AddLayer(card)
	res.Layer = c.Len() - 1
}

// attachFace covers Queens and Kings, whose effects are derived from the attachment:
// a King doubles its layer, a Queen on the top layer reverses direction and sets suit.
func attachFace(c *Caravan, layer int, card Card, res *Resolution) {
	c.Attach(layer, card)
	res.Layer = layer
	res.Anchor = c.Layers[layer].Anchor
}

// playJack removes the targeted layer; the Jack is discarded with it.
func playJack(g *Game, c *Caravan, layer int, card Card, res *Resolution) {
	res.Layer = layer
	res.Anchor = c.Layers[layer].Anchor
	removed := append(c.RemoveLayer(layer), card)
	g.Discard = append(g.Discard, removed...)
	res.Removed = append(res.Removed, Removal{Caravan: c.ID, Cards: removed})
}

// playJoker stays on its target. On an Ace it clears every numeric layer of the
// Ace's suit; otherwise every other layer sharing the target's rank, on all six caravans.
func playJoker(g *Game, c *Caravan, layer int, card Card, res *Resolution) {
	c.Attach(layer, card)
	res.Layer = layer
	target := c.Layers[layer].Anchor
	res.Anchor = target

	hit := func(anchor Card) bool {
		if anchor.ID == target.ID {
			return false
		}
		if target.Rank == RankAce {
			return anchor.Kind() == KindNumeric && anchor.Suit == target.Suit
		}
		return anchor.Rank == target.Rank
	}

	for _, cv := range g.Caravans {
		var removed []Card
		for i := cv.Len() - 1; i >= 0; i-- {
			if hit(cv.Layers[i].Anchor) {
				removed = append(removed, cv.RemoveLayer(i)...)
			}
		}
		if len(removed) > 0 {
			g.Discard = append(g.Discard, removed...)
			res.Removed = append(res.Removed, Removal{Caravan: cv.ID, Cards: removed})
		}
	}
}
