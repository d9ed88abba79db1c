package order

import "time"

// HistoryEntry records one status the order entered, who caused it and when.
// Entries are only ever appended.
type HistoryEntry struct {
	Status  Status
	ActorID string
	At      time.Time
}
