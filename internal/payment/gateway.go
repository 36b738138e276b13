// Package payment bridges the share ledger and the external checkout
// provider.
package payment

import "context"

// Payment statuses reported by the gateway. Gateways may report values beyond
// these; only "paid" carries meaning for the workflow.
const (
	StatusPaid   = "paid"
	StatusUnpaid = "unpaid"
)

// MetadataShareID is the session metadata key carrying the share identifier,
// so verification can recover the linkage without a separate lookup table.
const MetadataShareID = "shareId"

// Session is the gateway's view of one checkout attempt. Referenced, never
// owned: its lifecycle belongs to the gateway.
type Session struct {
	ID            string
	URL           string
	ClientSecret  string
	PaymentStatus string
	Metadata      map[string]string
}

// SessionInput identifies the share a new checkout session pays for.
type SessionInput struct {
	ShareID string
	UserID  string
}

// Gateway abstracts the external checkout provider. Implementations must be
// safe for concurrent use and must surface unknown sessions as
// apperr.ErrNotFound and provider failures as apperr.ErrGateway.
type Gateway interface {
	CreateSession(ctx context.Context, in SessionInput) (Session, error)
	GetSession(ctx context.Context, sessionID string) (Session, error)
}
