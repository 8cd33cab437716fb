package ports

// MetricsPort receives engine activity for observability backends.
type MetricsPort interface {
	// ObserveAction counts a submitted action. result is "applied" or "rejected".
	ObserveAction(kind, result string)

	// ObserveRemoval counts the cards a Jack or Joker took off the table.
	ObserveRemoval(effect string, cards int)

	// ObserveRound records a finished round. outcome is "p1", "p2" or "stalemate".
	ObserveRound(outcome string, turns int)
}
