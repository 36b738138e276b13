package domain

import "time"

// Snag is a recorded build defect item.
type Snag struct {
	SnagID      string
	Title       string
	Location    string
	Description string
	CreatedAt   time.Time
}

// Progress summarizes a homeowner's aggregate: how many snags they have
// recorded plus the share they currently have in flight, if any.
type Progress struct {
	SnagCount      int64
	CurrentShareID string
}

// ResetOutcome reports what a privileged reset actually removed.
type ResetOutcome struct {
	SnagsCleared  int64
	SharesCleared int64
}
