package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/callumw/snagshare/internal/apperr"
	"github.com/callumw/snagshare/internal/domain"
)

// ShareRepository is the storage contract required by the share service.
type ShareRepository interface {
	CreateShare(ctx context.Context, userID string, data domain.ShareData) (domain.ShareRecord, error)
	GetShare(ctx context.Context, shareID string) (domain.ShareRecord, error)
	SetShareStatus(ctx context.Context, shareID string, status domain.ShareStatus) error
	CountSnags(ctx context.Context, userID string) (int64, error)
	CurrentShareID(ctx context.Context, userID string) (string, error)
}

// ShareService governs the share ledger: it validates submitted drafts once,
// at the draft-to-record boundary, and enforces the forward-only status
// ordering on every transition.
type ShareService struct {
	repo ShareRepository
}

// NewShareService constructs a ShareService over the given repository.
func NewShareService(repo ShareRepository) *ShareService {
	return &ShareService{repo: repo}
}

// Submit validates a completed draft and persists it as a pending share.
// Submission implies a payment is about to begin, so the record never exists
// in a bare draft state server-side.
func (s *ShareService) Submit(ctx context.Context, userID string, data domain.ShareData) (string, error) {
	if userID == "" {
		return "", apperr.ErrMissingUser
	}
	if err := validateShareData(data); err != nil {
		return "", err
	}

	record, err := s.repo.CreateShare(ctx, userID, data)
	if err != nil {
		return "", err
	}
	return record.ShareID, nil
}

// Status returns the current ledger status for a share.
func (s *ShareService) Status(ctx context.Context, shareID string) (domain.ShareStatus, error) {
	record, err := s.repo.GetShare(ctx, shareID)
	if err != nil {
		return "", err
	}
	return record.Status, nil
}

// SetStatus applies a forward transition to the share. Equal-status calls are
// no-ops; backward moves fail with ErrInvalidTransition.
func (s *ShareService) SetStatus(ctx context.Context, shareID string, status domain.ShareStatus) error {
	if !status.Valid() {
		return fmt.Errorf("unknown status %q: %w", status, apperr.ErrInvalidTransition)
	}
	return s.repo.SetShareStatus(ctx, shareID, status)
}

// Progress summarizes the homeowner's aggregate: snag count and the share
// currently in flight. The two reads are independent, so they run in
// parallel.
func (s *ShareService) Progress(ctx context.Context, userID string) (domain.Progress, error) {
	if userID == "" {
		return domain.Progress{}, apperr.ErrMissingUser
	}

	var progress domain.Progress
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := s.repo.CountSnags(ctx, userID)
		if err != nil {
			return err
		}
		progress.SnagCount = count
		return nil
	})
	g.Go(func() error {
		shareID, err := s.repo.CurrentShareID(ctx, userID)
		if err != nil {
			return err
		}
		progress.CurrentShareID = shareID
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.Progress{}, err
	}
	return progress, nil
}

// validateShareData checks the fields required at submission: fullName,
// address, builderEmail, and builderName when the builder is "other". Every
// missing field is reported, not just the first.
func validateShareData(data domain.ShareData) error {
	var missing []string
	if data.FullName == "" {
		missing = append(missing, "fullName")
	}
	if data.Address == "" {
		missing = append(missing, "address")
	}
	if data.BuilderEmail == "" {
		missing = append(missing, "builderEmail")
	}
	if data.BuilderType == domain.BuilderOther && data.BuilderName == "" {
		missing = append(missing, "builderName")
	}
	if len(missing) > 0 {
		return &apperr.ValidationError{Fields: missing}
	}
	return nil
}
