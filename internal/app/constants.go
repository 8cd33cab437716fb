package app

// DefaultMaxTurns caps headless rounds so a pair of passive policies cannot loop forever.
const DefaultMaxTurns = 1000

// Metric label values.
const (
	resultApplied  = "applied"
	resultRejected = "rejected"

	outcomeStalemate = "stalemate"
	outcomeAborted   = "aborted"
)
