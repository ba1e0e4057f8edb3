package comment

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/activity"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/validation"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/identity"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/repository"
	"github.com/google/uuid"
)

const positionRetries = 3

// Service handles threaded discussion with resolution tracking.
type Service struct {
	comments   Repository
	blobs      BlobStore
	directory  identity.Directory
	activities ActivityRepository
	logger     *slog.Logger
}

// NewService creates a new comment service. The blob store, identity
// directory and activity repository are optional.
func NewService(comments Repository, blobs BlobStore, directory identity.Directory, activities ActivityRepository, logger *slog.Logger) *Service {
	return &Service{
		comments:   comments,
		blobs:      blobs,
		directory:  directory,
		activities: activities,
		logger:     logger,
	}
}

// CreateRequest describes a comment creation request.
type CreateRequest struct {
	ContractID       string
	NegotiationID    *string
	VersionID        *string
	AuthorID         string
	AuthorKind       AuthorKind
	Body             string
	Type             Type
	Priority         Priority
	SectionRef       string
	Mentions         []string
	IsInternal       bool
	RequiresResponse bool
	ResponseDue      *time.Time
}

// Create validates and persists a top-level comment. The thread position is
// assigned by the repository among top-level comments of the same contract.
func (s *Service) Create(ctx context.Context, tenantID string, req CreateRequest) (*Comment, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}
	c := s.build(tenantID, req, nil)
	if err := s.insert(ctx, tenantID, c); err != nil {
		return nil, err
	}
	s.logActivity(ctx, tenantID, c, activity.TypeCommentCreated,
		fmt.Sprintf("comment added on contract %s", c.ContractID))
	return c, nil
}

// Reply creates a child comment, inheriting the parent's contract,
// negotiation, version and internal visibility. The thread position is the
// next among the parent's direct children.
func (s *Service) Reply(ctx context.Context, tenantID, parentID string, req CreateRequest) (*Comment, error) {
	parent, err := s.Get(ctx, tenantID, parentID)
	if err != nil {
		return nil, err
	}

	req.ContractID = parent.ContractID
	req.NegotiationID = parent.NegotiationID
	req.VersionID = parent.VersionID
	req.IsInternal = parent.IsInternal
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	c := s.build(tenantID, req, &parent.ID)
	if err := s.insert(ctx, tenantID, c); err != nil {
		return nil, err
	}
	s.logActivity(ctx, tenantID, c, activity.TypeCommentCreated,
		fmt.Sprintf("reply added under comment %s", parent.ID))
	return c, nil
}

// Resolve marks a comment resolved, stamping the resolver and time. When
// notes are provided a system-authored reply documenting the resolution is
// inserted under the resolved comment. Resolving a top-level comment does not
// resolve its replies.
func (s *Service) Resolve(ctx context.Context, tenantID, id, actorID, notes string, hasNegotiationEditRights bool) (*Comment, error) {
	c, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !c.CanResolve(actorID, hasNegotiationEditRights) {
		return nil, ErrNotPermitted
	}

	now := time.Now()
	c.IsResolved = true
	c.ResolvedBy = &actorID
	c.ResolvedAt = &now
	c.ModifiedAt = now
	if err := s.save(ctx, tenantID, c); err != nil {
		return nil, err
	}

	if strings.TrimSpace(notes) != "" {
		resolverName := identity.DisplayNameOrID(ctx, s.directory, actorID)
		reply := s.build(tenantID, CreateRequest{
			ContractID:    c.ContractID,
			NegotiationID: c.NegotiationID,
			VersionID:     c.VersionID,
			AuthorID:      actorID,
			AuthorKind:    AuthorSystem,
			Body:          fmt.Sprintf("Resolved by %s: %s", resolverName, notes),
			Type:          TypeGeneral,
			Priority:      PriorityNormal,
			IsInternal:    c.IsInternal,
		}, &c.ID)
		if err := s.insert(ctx, tenantID, reply); err != nil {
			return nil, fmt.Errorf("recording resolution note: %w", err)
		}
	}

	s.logActivity(ctx, tenantID, c, activity.TypeCommentResolved,
		fmt.Sprintf("comment %s resolved", c.ID))
	return c, nil
}

// Mention adds identities to the comment's mention list. Unresolvable IDs are
// kept raw; an identity-lookup failure never aborts the operation.
func (s *Service) Mention(ctx context.Context, tenantID, id string, actorIDs []string) (*Comment, error) {
	c, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]struct{}, len(c.Mentions))
	for _, m := range c.Mentions {
		existing[m] = struct{}{}
	}
	for _, actorID := range actorIDs {
		if _, ok := existing[actorID]; ok || strings.TrimSpace(actorID) == "" {
			continue
		}
		c.Mentions = append(c.Mentions, actorID)
		existing[actorID] = struct{}{}
	}
	c.ModifiedAt = time.Now()
	if err := s.save(ctx, tenantID, c); err != nil {
		return nil, err
	}
	return c, nil
}

// AddAttachment uploads the bytes through the blob store and appends the
// returned descriptor to the comment.
func (s *Service) AddAttachment(ctx context.Context, tenantID, id, fileName string, data []byte, contentType string) (*Comment, error) {
	if s.blobs == nil {
		return nil, fmt.Errorf("attachment storage not configured")
	}
	c, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("comments/%s/%s/%s", c.ContractID, c.ID, fileName)
	path, err := s.blobs.Put(ctx, objectName, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		return nil, fmt.Errorf("storing attachment: %w", err)
	}

	c.Attachments = append(c.Attachments, Attachment{
		FileName:   fileName,
		Path:       path,
		Size:       int64(len(data)),
		UploadedAt: time.Now(),
	})
	c.ModifiedAt = time.Now()
	if err := s.save(ctx, tenantID, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns a comment by ID.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*Comment, error) {
	c, err := s.comments.Get(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("getting comment: %w", err)
	}
	return c, nil
}

// List returns comments matching the given options.
func (s *Service) List(ctx context.Context, tenantID string, opts ListOptions) ([]Comment, error) {
	return s.comments.List(ctx, tenantID, opts)
}

// Unresolved returns the unresolved comments in a scope.
func (s *Service) Unresolved(ctx context.Context, tenantID string, opts ListOptions) ([]Comment, error) {
	opts.Unresolved = true
	return s.comments.List(ctx, tenantID, opts)
}

// Overdue returns comments whose required response deadline has passed.
func (s *Service) Overdue(ctx context.Context, tenantID string, opts ListOptions) ([]Comment, error) {
	opts.Unresolved = true
	opts.RequiresResponse = true
	all, err := s.comments.List(ctx, tenantID, opts)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	var overdue []Comment
	for _, c := range all {
		if c.IsOverdue(now) {
			overdue = append(overdue, c)
		}
	}
	return overdue, nil
}

// Thread returns the root comment followed by its full descendant set,
// depth-first with siblings in thread-position order.
func (s *Service) Thread(ctx context.Context, tenantID, rootID string) ([]Comment, error) {
	root, err := s.Get(ctx, tenantID, rootID)
	if err != nil {
		return nil, err
	}
	all, err := s.comments.ListByContract(ctx, tenantID, root.ContractID)
	if err != nil {
		return nil, fmt.Errorf("loading contract comments: %w", err)
	}
	a := newArena(all)
	return append([]Comment{*root}, a.descendants(rootID)...), nil
}

// Depth returns the comment's distance to its thread root.
func (s *Service) Depth(ctx context.Context, tenantID, id string) (int, error) {
	c, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return 0, err
	}
	all, err := s.comments.ListByContract(ctx, tenantID, c.ContractID)
	if err != nil {
		return 0, fmt.Errorf("loading contract comments: %w", err)
	}
	return newArena(all).depth(id), nil
}

func (s *Service) build(tenantID string, req CreateRequest, parentID *string) *Comment {
	now := time.Now()
	typ := req.Type
	if typ == "" {
		typ = TypeGeneral
	}
	priority := req.Priority
	if priority == "" {
		priority = PriorityNormal
	}
	return &Comment{
		ID:               uuid.NewString(),
		TenantID:         tenantID,
		ContractID:       req.ContractID,
		NegotiationID:    req.NegotiationID,
		VersionID:        req.VersionID,
		ParentID:         parentID,
		AuthorID:         req.AuthorID,
		AuthorKind:       req.AuthorKind,
		Body:             req.Body,
		Type:             typ,
		Priority:         priority,
		SectionRef:       req.SectionRef,
		Mentions:         req.Mentions,
		IsInternal:       req.IsInternal,
		RequiresResponse: req.RequiresResponse,
		ResponseDue:      req.ResponseDue,
		CreatedAt:        now,
		ModifiedAt:       now,
	}
}

// insert persists the comment, retrying with fresh state when the sibling
// thread-position race is lost.
func (s *Service) insert(ctx context.Context, tenantID string, c *Comment) error {
	for attempt := 0; attempt < positionRetries; attempt++ {
		err := s.comments.Create(ctx, tenantID, c)
		if err == nil {
			return nil
		}
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return ErrCommentNotFound
		}
		if !errors.Is(err, repository.ErrConflict) {
			return fmt.Errorf("creating comment: %w", err)
		}
	}
	return ErrPositionConflict
}

func (s *Service) save(ctx context.Context, tenantID string, c *Comment) error {
	if err := s.comments.Update(ctx, tenantID, c); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("updating comment: %w", err)
	}
	return nil
}

func (s *Service) logActivity(ctx context.Context, tenantID string, c *Comment, typ activity.Type, summary string) {
	if s.activities == nil {
		return
	}
	_ = s.activities.Log(ctx, tenantID, &activity.Entry{
		ContractID: c.ContractID,
		EntityKind: activity.EntityComment,
		EntityID:   &c.ID,
		Type:       typ,
		Actor:      c.AuthorID,
		Summary:    summary,
	})
}

func validateCreate(req CreateRequest) error {
	verr := &validation.Error{}
	if strings.TrimSpace(req.ContractID) == "" {
		verr.Add("contract_id is required")
	}
	if strings.TrimSpace(req.AuthorID) == "" {
		verr.Add("author_id is required")
	}
	if strings.TrimSpace(req.Body) == "" {
		verr.Add("body is required")
	}
	if !ValidAuthorKind(req.AuthorKind) {
		verr.Add(fmt.Sprintf("unknown author kind %q", req.AuthorKind))
	}
	if req.Type != "" && !ValidType(req.Type) {
		verr.Add(fmt.Sprintf("unknown comment type %q", req.Type))
	}
	if req.Priority != "" && !ValidPriority(req.Priority) {
		verr.Add(fmt.Sprintf("unknown priority %q", req.Priority))
	}
	return verr.OrNil()
}
