package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrContentTooLong is returned when a claim's detail text exceeds
// MaxContentLength.
var ErrContentTooLong = errors.New("claim content too long")

// ServiceConfig holds configuration for the cooldown guard service.
type ServiceConfig struct {
	Repository Repository
	Logger     zerolog.Logger

	// Cooldown is the per-actor duplicate window (default: DefaultCooldown).
	Cooldown time.Duration

	// Clock overrides the wall clock, for tests.
	Clock func() time.Time
}

// Service is the cooldown guard: it serializes conflicting concurrent
// submissions from the same actor into at most one accepted claim.
//
// No in-process lock is held across store operations; correctness under
// concurrency comes entirely from the store plus the deterministic
// arbitration in Submit, which stays correct even across multiple processes
// sharing one store.
type Service struct {
	repo     Repository
	logger   zerolog.Logger
	cooldown time.Duration
	clock    func() time.Time
}

// NewService creates a new cooldown guard service.
func NewService(cfg ServiceConfig) *Service {
	cooldown := cfg.Cooldown
	if cooldown == 0 {
		cooldown = DefaultCooldown
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Service{
		repo:     cfg.Repository,
		logger:   cfg.Logger,
		cooldown: cooldown,
		clock:    clock,
	}
}

// SubmitInput is one claim submission.
type SubmitInput struct {
	ActorID  string
	ScopeID  *string
	Category string
	Content  *string
}

// SubmitResult is the outcome of a submission.
type SubmitResult struct {
	// Accepted reports whether the claim was recorded.
	Accepted bool

	// Claim is the recorded claim when Accepted.
	Claim *Claim

	// Conflicting is the claim that holds the cooldown when not Accepted.
	Conflicting *Claim
}

// RetryAt returns when the actor may submit again after a rejection.
func (r *SubmitResult) RetryAt(cooldown time.Duration) time.Time {
	return r.Conflicting.CreatedAt.Add(cooldown)
}

// Cooldown returns the configured per-actor cooldown window.
func (s *Service) Cooldown() time.Duration {
	return s.cooldown
}

// Submit records a claim unless the actor is inside the cooldown window.
//
// The race-handling shape is read -> insert -> re-read-and-arbitrate:
//  1. Optimistic read: an existing active claim in the window rejects
//     immediately (fast path).
//  2. Insert the new claim.
//  3. Re-query the window. If more than one active claim is present the
//     submissions raced; the least (created_at, id) row is the canonical
//     winner. Every concurrent caller computes the same winner
//     independently, so losers delete their own rows and the winner deletes
//     the rest without any cross-caller coordination.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error) {
	if input.Content != nil && len(*input.Content) > MaxContentLength {
		return nil, ErrContentTooLong
	}

	now := s.clock()
	cutoff := now.Add(-s.cooldown)

	existing, err := s.repo.LatestActiveSince(ctx, input.ActorID, cutoff)
	if err == nil {
		return &SubmitResult{Accepted: false, Conflicting: existing}, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("check cooldown: %w", err)
	}

	claim := &Claim{
		ID:        uuid.New().String(),
		ActorID:   input.ActorID,
		ScopeID:   input.ScopeID,
		Category:  input.Category,
		Content:   input.Content,
		State:     StateActive,
		CreatedAt: now,
	}
	if err := s.repo.Insert(ctx, claim); err != nil {
		return nil, fmt.Errorf("insert claim: %w", err)
	}

	// Recompute the cutoff from a fresh clock read; wall time advanced
	// during the insert.
	freshCutoff := s.clock().Add(-s.cooldown)
	inWindow, err := s.repo.ListActiveSince(ctx, input.ActorID, freshCutoff)
	if err != nil {
		return nil, fmt.Errorf("arbitrate claims: %w", err)
	}

	if len(inWindow) > 1 {
		winner := inWindow[0]
		if winner.ID != claim.ID {
			// Lost the race: withdraw our row and report the winner's
			// cooldown.
			if err := s.repo.DeleteByID(ctx, claim.ID); err != nil {
				s.logger.Error().Err(err).Str("claim_id", claim.ID).Msg("failed to delete losing claim")
			}
			return &SubmitResult{Accepted: false, Conflicting: winner}, nil
		}

		// Won the race: delete the losers.
		for _, loser := range inWindow[1:] {
			if err := s.repo.DeleteByID(ctx, loser.ID); err != nil {
				s.logger.Error().Err(err).Str("claim_id", loser.ID).Msg("failed to delete losing claim")
			}
		}
	}

	s.logger.Info().
		Str("actor_id", input.ActorID).
		Str("category", input.Category).
		Msg("claim recorded")

	return &SubmitResult{Accepted: true, Claim: claim}, nil
}

// SimilarClaimCount counts distinct other actors with active claims in the
// category within the window.
func (s *Service) SimilarClaimCount(ctx context.Context, category, excludeActorID string, window time.Duration) (int64, error) {
	cutoff := s.clock().Add(-window)
	return s.repo.CountDistinctOtherActors(ctx, category, excludeActorID, cutoff)
}
