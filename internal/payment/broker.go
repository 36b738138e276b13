package payment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/callumw/snagshare/internal/domain"
)

// Ledger is the slice of the share ledger the broker drives.
type Ledger interface {
	Status(ctx context.Context, shareID string) (domain.ShareStatus, error)
	SetStatus(ctx context.Context, shareID string, status domain.ShareStatus) error
}

// Broker creates checkout sessions for submitted shares and verifies their
// outcome, transitioning the ledger to paid exactly once. Verification is
// idempotent, so client polls and gateway callbacks can both call it without
// double-applying side effects.
type Broker struct {
	gateway Gateway
	ledger  Ledger
	logger  *slog.Logger
}

// Verification is the observable outcome of a session check.
type Verification struct {
	Verified      bool
	PaymentStatus string
	ShareID       string
}

// NewBroker wires a broker from its collaborators.
func NewBroker(gateway Gateway, ledger Ledger, logger *slog.Logger) *Broker {
	return &Broker{
		gateway: gateway,
		ledger:  ledger,
		logger:  logger,
	}
}

// CreateSession opens a checkout session for the share. The ledger record is
// confirmed to exist first but its status is not touched; it stays pending
// until verification observes a completed payment.
func (b *Broker) CreateSession(ctx context.Context, shareID, userID string) (Session, error) {
	if _, err := b.ledger.Status(ctx, shareID); err != nil {
		return Session{}, err
	}

	sess, err := b.gateway.CreateSession(ctx, SessionInput{ShareID: shareID, UserID: userID})
	if err != nil {
		return Session{}, err
	}

	b.logger.Info("checkout session created", "sessionId", sess.ID, "shareId", shareID)
	return sess, nil
}

// VerifySession asks the gateway for the session's current payment status and,
// when paid, drives the linked ledger record to paid. SetStatus treats
// re-application of an equal status as a no-op, which makes repeated
// verification safe.
func (b *Broker) VerifySession(ctx context.Context, sessionID string) (Verification, error) {
	sess, err := b.gateway.GetSession(ctx, sessionID)
	if err != nil {
		return Verification{}, err
	}

	shareID := sess.Metadata[MetadataShareID]
	result := Verification{
		Verified:      sess.PaymentStatus == StatusPaid,
		PaymentStatus: sess.PaymentStatus,
		ShareID:       shareID,
	}

	if !result.Verified {
		return result, nil
	}

	if shareID == "" {
		// Paid, but the session lost its share linkage. Report success and
		// leave the ledger untouched; the caller must log and reconcile.
		b.logger.Warn("paid session has no share metadata", "sessionId", sessionID)
		return result, nil
	}

	if err := b.ledger.SetStatus(ctx, shareID, domain.StatusPaid); err != nil {
		return Verification{}, fmt.Errorf("mark share %s paid: %w", shareID, err)
	}

	return result, nil
}
