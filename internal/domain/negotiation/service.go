package negotiation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/activity"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/identity"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/repository"
	"github.com/google/uuid"
)

const numberingRetries = 3

// Service orchestrates the end-to-end negotiation process for a contract.
type Service struct {
	negotiations Repository
	versions     VersionSource
	directory    identity.Directory
	activities   ActivityRepository
	logger       *slog.Logger
}

// NewService creates a new negotiation service. The version source, identity
// directory and activity repository are optional.
func NewService(negotiations Repository, versions VersionSource, directory identity.Directory, activities ActivityRepository, logger *slog.Logger) *Service {
	return &Service{
		negotiations: negotiations,
		versions:     versions,
		directory:    directory,
		activities:   activities,
		logger:       logger,
	}
}

// CreateRequest describes a negotiation creation request.
type CreateRequest struct {
	ContractID   string
	QuoteID      *string
	Title        string
	Description  string
	TargetValue  *float64
	MinimumValue *float64
	Deadline     *time.Time
	CreatedBy    string
}

// Create starts a negotiation on a contract. The number is allocated as
// NEG-YYYYMM-#### with the sequence scoped to the year+month prefix; the
// read-max-then-write sequence is guarded by the repository's uniqueness
// constraint with bounded retry.
func (s *Service) Create(ctx context.Context, tenantID string, req CreateRequest) (*Negotiation, error) {
	if strings.TrimSpace(req.ContractID) == "" || strings.TrimSpace(req.Title) == "" {
		return nil, ErrInvalidInput
	}

	now := time.Now()
	prefix := fmt.Sprintf("NEG-%s-", now.Format("200601"))

	for attempt := 0; attempt < numberingRetries; attempt++ {
		seq, err := s.negotiations.MaxSequence(ctx, tenantID, prefix)
		if err != nil {
			return nil, fmt.Errorf("reading negotiation sequence: %w", err)
		}

		neg := &Negotiation{
			ID:             uuid.NewString(),
			TenantID:       tenantID,
			ContractID:     req.ContractID,
			QuoteID:        req.QuoteID,
			Number:         fmt.Sprintf("%s%04d", prefix, seq+1),
			Title:          req.Title,
			Description:    req.Description,
			Status:         StatusActive,
			Phase:          PhasePreparation,
			Round:          1,
			TargetValue:    req.TargetValue,
			MinimumValue:   req.MinimumValue,
			StartedAt:      now,
			Deadline:       req.Deadline,
			LastActivityAt: now,
		}

		err = s.negotiations.Create(ctx, tenantID, neg)
		if err == nil {
			s.logActivity(ctx, tenantID, neg, activity.TypeNegotiationCreated, req.CreatedBy,
				fmt.Sprintf("started negotiation %s", neg.Number))
			return neg, nil
		}
		if !errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("creating negotiation: %w", err)
		}
		// Lost the numbering race, re-read the sequence and retry.
	}

	return nil, ErrNumberingConflict
}

// Get returns a negotiation by ID.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*Negotiation, error) {
	neg, err := s.negotiations.Get(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNegotiationNotFound
		}
		return nil, fmt.Errorf("getting negotiation: %w", err)
	}
	neg.DurationDays = neg.Duration(time.Now())
	return neg, nil
}

// List returns negotiation summaries matching the given options.
func (s *Service) List(ctx context.Context, tenantID string, opts ListOptions) ([]NegotiationSummary, error) {
	return s.negotiations.List(ctx, tenantID, opts)
}

// AdvancePhase moves the negotiation to the next phase in the forward-only
// table. Calling it from the last phase fails with ErrNoFurtherPhase and
// leaves the phase unchanged.
func (s *Service) AdvancePhase(ctx context.Context, tenantID, id, actor string) (*Negotiation, error) {
	neg, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	next, ok := NextPhase(neg.Phase)
	if !ok {
		return nil, ErrNoFurtherPhase
	}

	from := neg.Phase
	neg.Phase = next
	s.touch(neg)
	if err := s.save(ctx, tenantID, neg); err != nil {
		return nil, err
	}

	s.logActivity(ctx, tenantID, neg, activity.TypePhaseAdvanced, actor,
		fmt.Sprintf("advanced negotiation %s from %s to %s", neg.Number, from, next))
	return neg, nil
}

// AddParticipant appends an identity to the target roster. Duplicate
// membership by identity is rejected with ErrDuplicateParticipant.
func (s *Service) AddParticipant(ctx context.Context, tenantID, id string, roster Roster, actorID string, permissions []string) (*Negotiation, error) {
	if strings.TrimSpace(actorID) == "" {
		return nil, ErrInvalidInput
	}
	neg, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	entries := neg.roster(roster)
	for _, p := range *entries {
		if p.ActorID == actorID {
			return nil, ErrDuplicateParticipant
		}
	}

	*entries = append(*entries, Participant{
		ActorID:     actorID,
		DisplayName: identity.DisplayNameOrID(ctx, s.directory, actorID),
		JoinedAt:    time.Now(),
		Permissions: permissions,
	})
	s.touch(neg)
	if err := s.save(ctx, tenantID, neg); err != nil {
		return nil, err
	}
	return neg, nil
}

// RemoveParticipant removes an identity from the target roster.
func (s *Service) RemoveParticipant(ctx context.Context, tenantID, id string, roster Roster, actorID string) (*Negotiation, error) {
	neg, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	entries := neg.roster(roster)
	for i, p := range *entries {
		if p.ActorID == actorID {
			*entries = append((*entries)[:i], (*entries)[i+1:]...)
			s.touch(neg)
			if err := s.save(ctx, tenantID, neg); err != nil {
				return nil, err
			}
			return neg, nil
		}
	}
	return nil, ErrParticipantNotFound
}

// RecordPricingChange appends a pricing-history entry tagged with the current
// round. Target, minimum and final values are separate explicitly-set
// attributes and stay untouched.
func (s *Service) RecordPricingChange(ctx context.Context, tenantID, id string, value float64, reason, actor string) (*Negotiation, error) {
	neg, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	neg.PricingHistory = append(neg.PricingHistory, PricingEntry{
		Value:  value,
		Reason: reason,
		Round:  neg.Round,
		Actor:  actor,
		At:     time.Now(),
	})
	s.touch(neg)
	if err := s.save(ctx, tenantID, neg); err != nil {
		return nil, err
	}

	s.logActivity(ctx, tenantID, neg, activity.TypePricingRecorded, actor,
		fmt.Sprintf("recorded pricing %.2f on round %d of %s", value, neg.Round, neg.Number))
	return neg, nil
}

// IncrementRound advances the round counter.
func (s *Service) IncrementRound(ctx context.Context, tenantID, id string) (*Negotiation, error) {
	neg, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	neg.Round++
	s.touch(neg)
	if err := s.save(ctx, tenantID, neg); err != nil {
		return nil, err
	}
	return neg, nil
}

// SetTargets updates the target and minimum acceptable values.
func (s *Service) SetTargets(ctx context.Context, tenantID, id string, target, minimum *float64) (*Negotiation, error) {
	neg, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if target != nil {
		neg.TargetValue = target
	}
	if minimum != nil {
		neg.MinimumValue = minimum
	}
	s.touch(neg)
	if err := s.save(ctx, tenantID, neg); err != nil {
		return nil, err
	}
	return neg, nil
}

// Complete terminates the negotiation. On a won completion the final agreed
// value is copied from the current version's pricing total, when one exists.
// Completing an already-completed negotiation simply re-applies the terminal
// fields.
func (s *Service) Complete(ctx context.Context, tenantID, id string, won bool, notes, actor string) (*Negotiation, error) {
	neg, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !ValidStatusTransition(neg.Status, StatusCompleted) {
		return nil, ErrInvalidStatus
	}

	now := time.Now()
	neg.Status = StatusCompleted
	neg.Phase = PhaseFinalization
	neg.CompletedAt = &now
	neg.Won = won
	neg.OutcomeNotes = notes
	neg.DurationDays = neg.Duration(now)

	if won && s.versions != nil {
		total, exists, err := s.versions.CurrentTotal(ctx, tenantID, neg.ContractID)
		if err != nil {
			return nil, fmt.Errorf("reading current version pricing: %w", err)
		}
		if exists {
			neg.FinalValue = &total
		}
	}

	s.touch(neg)
	if err := s.save(ctx, tenantID, neg); err != nil {
		return nil, err
	}

	outcome := "lost"
	if won {
		outcome = "won"
	}
	s.logActivity(ctx, tenantID, neg, activity.TypeNegotiationCompleted, actor,
		fmt.Sprintf("completed negotiation %s (%s)", neg.Number, outcome))
	return neg, nil
}

// Pause interrupts an active negotiation.
func (s *Service) Pause(ctx context.Context, tenantID, id, reason, actor string) (*Negotiation, error) {
	neg, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !ValidStatusTransition(neg.Status, StatusPaused) {
		return nil, ErrInvalidStatus
	}

	neg.Status = StatusPaused
	s.touch(neg)
	if err := s.save(ctx, tenantID, neg); err != nil {
		return nil, err
	}
	summary := fmt.Sprintf("paused negotiation %s", neg.Number)
	if reason != "" {
		summary = fmt.Sprintf("paused negotiation %s: %s", neg.Number, reason)
	}
	s.logActivity(ctx, tenantID, neg, activity.TypeNegotiationPaused, actor, summary)
	return neg, nil
}

// Resume reactivates a paused negotiation.
func (s *Service) Resume(ctx context.Context, tenantID, id, actor string) (*Negotiation, error) {
	neg, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if neg.Status != StatusPaused {
		return nil, ErrInvalidStatus
	}

	neg.Status = StatusActive
	s.touch(neg)
	if err := s.save(ctx, tenantID, neg); err != nil {
		return nil, err
	}
	s.logActivity(ctx, tenantID, neg, activity.TypeNegotiationResumed, actor,
		fmt.Sprintf("resumed negotiation %s", neg.Number))
	return neg, nil
}

// Cancel terminates the negotiation without an outcome.
func (s *Service) Cancel(ctx context.Context, tenantID, id, reason string) (*Negotiation, error) {
	neg, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !ValidStatusTransition(neg.Status, StatusCancelled) {
		return nil, ErrInvalidStatus
	}

	neg.Status = StatusCancelled
	if reason != "" {
		neg.OutcomeNotes = reason
	}
	s.touch(neg)
	if err := s.save(ctx, tenantID, neg); err != nil {
		return nil, err
	}
	return neg, nil
}

// touch stamps last_activity_at; every mutating operation goes through it.
// This is the sole mechanism behind staleness detection.
func (s *Service) touch(neg *Negotiation) {
	neg.LastActivityAt = time.Now()
}

func (s *Service) save(ctx context.Context, tenantID string, neg *Negotiation) error {
	if err := s.negotiations.Update(ctx, tenantID, neg); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNegotiationNotFound
		}
		return fmt.Errorf("updating negotiation: %w", err)
	}
	return nil
}

func (s *Service) logActivity(ctx context.Context, tenantID string, neg *Negotiation, typ activity.Type, actor, summary string) {
	if s.activities == nil {
		return
	}
	_ = s.activities.Log(ctx, tenantID, &activity.Entry{
		ContractID: neg.ContractID,
		EntityKind: activity.EntityNegotiation,
		EntityID:   &neg.ID,
		Type:       typ,
		Actor:      actor,
		Summary:    summary,
	})
}
