package version

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/activity"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/repository"
	"github.com/google/uuid"
)

// numberingRetries bounds how often a lost numbering race is retried with
// fresh state before giving up.
const numberingRetries = 3

// Service handles version snapshots, approval workflow and comparison.
type Service struct {
	versions   Repository
	contracts  ContractSource
	activities ActivityRepository
	logger     *slog.Logger
}

// NewService creates a new version service.
func NewService(versions Repository, contracts ContractSource, activities ActivityRepository, logger *slog.Logger) *Service {
	return &Service{
		versions:   versions,
		contracts:  contracts,
		activities: activities,
		logger:     logger,
	}
}

// SnapshotRequest describes a snapshot creation request.
type SnapshotRequest struct {
	ContractID    string
	NegotiationID *string
	Type          Type
	ClientVisible bool
	CreatedBy     string
}

// CreateSnapshot captures the contract's current state as a new immutable
// version. Numbering starts at v1.0 and increments the minor component; the
// read-max-then-write sequence is guarded by the repository's uniqueness
// constraint with bounded retry.
func (s *Service) CreateSnapshot(ctx context.Context, tenantID string, req SnapshotRequest) (*ContractVersion, error) {
	if strings.TrimSpace(req.ContractID) == "" {
		return nil, ErrInvalidInput
	}

	data, err := s.contracts.Get(ctx, tenantID, req.ContractID)
	if err != nil {
		return nil, fmt.Errorf("reading contract %s: %w", req.ContractID, err)
	}

	now := time.Now()

	for attempt := 0; attempt < numberingRetries; attempt++ {
		verType := req.Type
		prev, err := s.versions.Latest(ctx, tenantID, req.ContractID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("loading latest version: %w", err)
		}

		prevNumber := ""
		if prev != nil {
			prevNumber = prev.VersionNumber
		}
		number, err := NextNumber(prevNumber)
		if err != nil {
			return nil, err
		}
		if verType == "" {
			if prev == nil {
				verType = TypeInitial
			} else {
				verType = TypeRevision
			}
		}

		ver := &ContractVersion{
			ID:             uuid.NewString(),
			TenantID:       tenantID,
			ContractID:     req.ContractID,
			NegotiationID:  req.NegotiationID,
			VersionNumber:  number,
			Type:           verType,
			Status:         StatusDraft,
			ApprovalStatus: ApprovalPending,
			Title:          data.Title,
			Value:          data.Value,
			StartDate:      data.StartDate,
			EndDate:        data.EndDate,
			Data:           data.Data,
			Components:     data.Components,
			Pricing: PricingSnapshot{
				TotalValue:     data.Value,
				ComponentCount: len(data.Components),
				CapturedAt:     now,
			},
			IsClientVisible: req.ClientVisible,
			CreatedBy:       req.CreatedBy,
			CreatedAt:       now,
			ModifiedAt:      now,
		}
		if prev != nil {
			ver.Changes = Diff(prev, ver)
		}

		err = s.versions.Create(ctx, tenantID, ver)
		if err == nil {
			s.logActivity(ctx, tenantID, ver, activity.TypeVersionCreated, req.CreatedBy,
				fmt.Sprintf("created version %s for contract %s", ver.VersionNumber, ver.ContractID))
			return ver, nil
		}
		if !errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("creating version: %w", err)
		}
		// Lost the numbering race, re-read the latest version and retry.
	}

	return nil, ErrNumberingConflict
}

// Get returns a version by ID.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*ContractVersion, error) {
	ver, err := s.versions.Get(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVersionNotFound
		}
		return nil, fmt.Errorf("getting version: %w", err)
	}
	return ver, nil
}

// List returns version summaries matching the given options.
func (s *Service) List(ctx context.Context, tenantID string, opts ListOptions) ([]VersionSummary, error) {
	return s.versions.List(ctx, tenantID, opts)
}

// Approve transitions the approval status to approved and appends an entry to
// the append-only approval log. Repeated calls append further entries; the
// resulting status always reflects the last call.
func (s *Service) Approve(ctx context.Context, tenantID, id, actor, note string) (*ContractVersion, error) {
	ver, err := s.mutable(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ver.ApprovalStatus = ApprovalApproved
	ver.Status = StatusApproved
	ver.ApprovalLog = append(ver.ApprovalLog, ApprovalEntry{
		Actor:  actor,
		Action: ApprovalApproved,
		Note:   note,
		At:     now,
	})
	ver.ModifiedAt = now

	if err := s.saveMutable(ctx, tenantID, ver); err != nil {
		return nil, err
	}
	s.logActivity(ctx, tenantID, ver, activity.TypeVersionApproved, actor,
		fmt.Sprintf("approved version %s", ver.VersionNumber))
	return ver, nil
}

// Reject transitions the approval status to rejected. The reason is mandatory
// and recorded in the approval log.
func (s *Service) Reject(ctx context.Context, tenantID, id, actor, reason string) (*ContractVersion, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrReasonRequired
	}
	ver, err := s.mutable(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ver.ApprovalStatus = ApprovalRejected
	ver.Status = StatusRejected
	ver.ApprovalLog = append(ver.ApprovalLog, ApprovalEntry{
		Actor:  actor,
		Action: ApprovalRejected,
		Reason: reason,
		At:     now,
	})
	ver.ModifiedAt = now

	if err := s.saveMutable(ctx, tenantID, ver); err != nil {
		return nil, err
	}
	s.logActivity(ctx, tenantID, ver, activity.TypeVersionRejected, actor,
		fmt.Sprintf("rejected version %s: %s", ver.VersionNumber, reason))
	return ver, nil
}

// SetClientVisible toggles whether the version appears in client-facing views.
func (s *Service) SetClientVisible(ctx context.Context, tenantID, id string, visible bool) (*ContractVersion, error) {
	ver, err := s.mutable(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	ver.IsClientVisible = visible
	ver.ModifiedAt = time.Now()
	if err := s.saveMutable(ctx, tenantID, ver); err != nil {
		return nil, err
	}
	return ver, nil
}

// MarkFinal locks the version permanently. Irreversible: every later mutation
// returns ErrVersionFinal. At most one version per contract may be final.
func (s *Service) MarkFinal(ctx context.Context, tenantID, id, actor string) (*ContractVersion, error) {
	ver, err := s.mutable(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	ver.IsFinal = true
	ver.Status = StatusFinal
	ver.ModifiedAt = time.Now()

	if err := s.versions.Update(ctx, tenantID, ver); err != nil {
		switch {
		case errors.Is(err, repository.ErrImmutable):
			return nil, ErrVersionFinal
		case errors.Is(err, repository.ErrConflict):
			return nil, ErrFinalExists
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrVersionNotFound
		}
		return nil, fmt.Errorf("finalizing version: %w", err)
	}

	s.logActivity(ctx, tenantID, ver, activity.TypeVersionFinalized, actor,
		fmt.Sprintf("marked version %s final", ver.VersionNumber))
	return ver, nil
}

// Compare returns the ordered change set from version a to version b.
func (s *Service) Compare(ctx context.Context, tenantID, aID, bID string) ([]ChangeRecord, error) {
	base, err := s.Get(ctx, tenantID, aID)
	if err != nil {
		return nil, err
	}
	target, err := s.Get(ctx, tenantID, bID)
	if err != nil {
		return nil, err
	}
	return Diff(base, target), nil
}

// CurrentTotal returns the latest version's pricing total for a contract.
// The bool result reports whether any version exists.
func (s *Service) CurrentTotal(ctx context.Context, tenantID, contractID string) (float64, bool, error) {
	ver, err := s.versions.Latest(ctx, tenantID, contractID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("loading latest version: %w", err)
	}
	return ver.Pricing.TotalValue, true, nil
}

func (s *Service) mutable(ctx context.Context, tenantID, id string) (*ContractVersion, error) {
	ver, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if ver.IsFinal {
		return nil, ErrVersionFinal
	}
	return ver, nil
}

func (s *Service) saveMutable(ctx context.Context, tenantID string, ver *ContractVersion) error {
	if err := s.versions.Update(ctx, tenantID, ver); err != nil {
		switch {
		case errors.Is(err, repository.ErrImmutable):
			return ErrVersionFinal
		case errors.Is(err, repository.ErrNotFound):
			return ErrVersionNotFound
		}
		return fmt.Errorf("updating version: %w", err)
	}
	return nil
}

func (s *Service) logActivity(ctx context.Context, tenantID string, ver *ContractVersion, typ activity.Type, actor, summary string) {
	if s.activities == nil {
		return
	}
	_ = s.activities.Log(ctx, tenantID, &activity.Entry{
		ContractID: ver.ContractID,
		EntityKind: activity.EntityVersion,
		EntityID:   &ver.ID,
		Type:       typ,
		Actor:      actor,
		Summary:    summary,
	})
}
