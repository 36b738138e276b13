package service

import (
	"context"
	"log/slog"

	"github.com/callumw/snagshare/internal/apperr"
	"github.com/callumw/snagshare/internal/domain"
	"github.com/callumw/snagshare/internal/draft"
)

// ProgressRepository is the storage contract required by the reset service.
type ProgressRepository interface {
	ResetProgress(ctx context.Context, userID string) (domain.ResetOutcome, error)
}

// ResetService is the privileged teardown of a homeowner's progress: snag
// entries, share linkage, and any in-process draft. Callers are trusted to
// have already established administrative privilege; the service only scopes
// the effect to the supplied user id.
type ResetService struct {
	repo   ProgressRepository
	drafts *draft.Store
	logger *slog.Logger
}

// NewResetService constructs a ResetService.
func NewResetService(repo ProgressRepository, drafts *draft.Store, logger *slog.Logger) *ResetService {
	return &ResetService{
		repo:   repo,
		drafts: drafts,
		logger: logger,
	}
}

// Reset discards the user's snags and share records, then clears the draft.
// The store teardown is a single transactional statement: it either fully
// applies or rolls back, and the repository reports which via
// apperr.ResetError.Partial. Resetting an already-empty user succeeds as a
// no-op.
func (s *ResetService) Reset(ctx context.Context, userID string) error {
	if userID == "" {
		return apperr.ErrMissingUser
	}

	outcome, err := s.repo.ResetProgress(ctx, userID)
	if err != nil {
		return err
	}

	s.drafts.Reset(userID)

	s.logger.Info("user progress reset",
		"userId", userID,
		"snagsCleared", outcome.SnagsCleared,
		"sharesCleared", outcome.SharesCleared,
	)
	return nil
}
