package ports

// RefreshObserver is told how session refreshes end.
type RefreshObserver interface {
	// RefreshResult receives "ok", "error" or "anonymous".
	RefreshResult(result string)
	// RefreshShared is called when a refresh joined a fetch already in flight.
	RefreshShared()
}
