package domain

// ShareStatus is the lifecycle state of a persisted share. The happy path is
// monotonic: draft -> pending -> paid. Moving backward requires the privileged
// reset, which discards the record entirely rather than rewinding it.
type ShareStatus string

const (
	StatusDraft   ShareStatus = "draft"
	StatusPending ShareStatus = "pending"
	StatusPaid    ShareStatus = "paid"
)

var statusRanks = map[ShareStatus]int{
	StatusDraft:   0,
	StatusPending: 1,
	StatusPaid:    2,
}

// Valid reports whether s is a known share status.
func (s ShareStatus) Valid() bool {
	_, ok := statusRanks[s]
	return ok
}

// Rank returns the position of s in the forward ordering. Higher ranks may
// never be overwritten by lower ones.
func (s ShareStatus) Rank() int {
	return statusRanks[s]
}
