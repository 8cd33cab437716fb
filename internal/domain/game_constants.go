package domain

const (
	// StandardDeckSize is 13 ranks x 4 suits plus two jokers.
	StandardDeckSize = 54
	JokersPerDeck    = 2

	// OpeningHandSize is the number of cards dealt before the opening phase.
	OpeningHandSize = 8
	// HandCapacity is the size hands are replenished to after every play or discard.
	HandCapacity = 5
	// OpeningPlacements is one anchor per caravan.
	OpeningPlacements = 3
	// MinOpeningAnchors guarantees the opening phase can be completed from the dealt hand.
	MinOpeningAnchors = OpeningPlacements

	// MaxLayers is the number of layers after which a caravan accepts no new anchor.
	MaxLayers = 10

	// DraftPoolSize and CustomDeckSize drive the deck builder: pick CustomDeckSize out of the pool.
	DraftPoolSize  = 40
	CustomDeckSize = 30

	// A caravan is sold when its value lies in [MinSaleValue, MaxSaleValue].
	MinSaleValue = 21
	MaxSaleValue = 26
	// LanesToWin is the number of lanes a player must win.
	LanesToWin = 2
)
