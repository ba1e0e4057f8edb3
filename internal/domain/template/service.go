package template

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/activity"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/validation"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/repository"
	"github.com/google/uuid"
)

// Service handles template authoring, contract generation and billing
// calculation.
type Service struct {
	templates  Repository
	formulas   FormulaEvaluator
	activities ActivityRepository
	logger     *slog.Logger
}

// NewService creates a new template service. The formula evaluator and the
// activity repository are optional.
func NewService(templates Repository, formulas FormulaEvaluator, activities ActivityRepository, logger *slog.Logger) *Service {
	return &Service{
		templates:  templates,
		formulas:   formulas,
		activities: activities,
		logger:     logger,
	}
}

// CreateRequest describes a template creation request.
type CreateRequest struct {
	Name             string
	Slug             string
	Content          string
	Variables        []string
	RequiredFields   []string
	Defaults         map[string]string
	Billing          BillingConfig
	ParentID         *string
	RequiresApproval bool
	NextReviewAt     *time.Time
	CreatedBy        string
}

// UpdateRequest describes a template update request. Nil fields are left as-is.
type UpdateRequest struct {
	ID             string
	Name           *string
	Status         *Status
	Content        *string
	Variables      []string
	RequiredFields []string
	Defaults       map[string]string
	Billing        *BillingConfig
	NextReviewAt   *time.Time
}

// Create validates and persists a new template in draft status.
func (s *Service) Create(ctx context.Context, tenantID string, req CreateRequest) (*Template, error) {
	verr := &validation.Error{}
	if strings.TrimSpace(req.Name) == "" {
		verr.Add("name is required")
	}
	if strings.TrimSpace(req.Content) == "" {
		verr.Add("content is required")
	}
	if req.Billing.Model != "" && !ValidBillingModel(req.Billing.Model) {
		verr.Add(fmt.Sprintf("unknown billing model %q", req.Billing.Model))
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	billing := req.Billing
	if billing.Model == "" {
		billing.Model = BillingFixed
	}
	slug := req.Slug
	if slug == "" {
		slug = slugify(req.Name)
	}

	now := time.Now()
	tpl := &Template{
		ID:               uuid.NewString(),
		TenantID:         tenantID,
		Name:             req.Name,
		Slug:             slug,
		Status:           StatusDraft,
		Version:          "1.0",
		ParentID:         req.ParentID,
		Content:          req.Content,
		Variables:        req.Variables,
		RequiredFields:   req.RequiredFields,
		Defaults:         req.Defaults,
		Billing:          billing,
		RequiresApproval: req.RequiresApproval,
		NextReviewAt:     req.NextReviewAt,
		CreatedAt:        now,
		ModifiedAt:       now,
	}

	if err := s.templates.Create(ctx, tenantID, tpl); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("slug %q already exists: %w", slug, err)
		}
		return nil, fmt.Errorf("creating template: %w", err)
	}

	s.logActivity(ctx, tenantID, tpl.ID, activity.TypeTemplateCreated, req.CreatedBy,
		fmt.Sprintf("created template %q", tpl.Name))

	return tpl, nil
}

// Get returns a template by ID.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*Template, error) {
	tpl, err := s.templates.Get(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("getting template: %w", err)
	}
	return tpl, nil
}

// GetBySlug returns a template by its slug.
func (s *Service) GetBySlug(ctx context.Context, tenantID, slug string) (*Template, error) {
	tpl, err := s.templates.GetBySlug(ctx, tenantID, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("getting template by slug: %w", err)
	}
	return tpl, nil
}

// List returns template summaries matching the given options.
func (s *Service) List(ctx context.Context, tenantID string, opts ListOptions) ([]TemplateSummary, error) {
	return s.templates.List(ctx, tenantID, opts)
}

// Update modifies an existing template.
func (s *Service) Update(ctx context.Context, tenantID string, req UpdateRequest) (*Template, error) {
	if req.ID == "" {
		return nil, ErrInvalidInput
	}
	tpl, err := s.Get(ctx, tenantID, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		tpl.Name = *req.Name
	}
	if req.Status != nil {
		if !ValidStatus(*req.Status) {
			verr := &validation.Error{}
			verr.Add(fmt.Sprintf("unknown status %q", *req.Status))
			return nil, verr
		}
		tpl.Status = *req.Status
	}
	if req.Content != nil {
		tpl.Content = *req.Content
	}
	if req.Variables != nil {
		tpl.Variables = req.Variables
	}
	if req.RequiredFields != nil {
		tpl.RequiredFields = req.RequiredFields
	}
	if req.Defaults != nil {
		tpl.Defaults = req.Defaults
	}
	if req.Billing != nil {
		if !ValidBillingModel(req.Billing.Model) {
			verr := &validation.Error{}
			verr.Add(fmt.Sprintf("unknown billing model %q", req.Billing.Model))
			return nil, verr
		}
		tpl.Billing = *req.Billing
	}
	if req.NextReviewAt != nil {
		tpl.NextReviewAt = req.NextReviewAt
	}
	tpl.ModifiedAt = time.Now()

	if err := s.templates.Update(ctx, tenantID, tpl); err != nil {
		return nil, fmt.Errorf("updating template: %w", err)
	}
	return tpl, nil
}

// Archive marks a template archived. Archived templates stay queryable but
// cannot generate new contracts.
func (s *Service) Archive(ctx context.Context, tenantID, id string) (*Template, error) {
	status := StatusArchived
	return s.Update(ctx, tenantID, UpdateRequest{ID: id, Status: &status})
}

// Delete removes a template. Templates bound to at least one contract
// (usage_count > 0) cannot be deleted and must be archived instead.
func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	tpl, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if tpl.UsageCount > 0 {
		return ErrTemplateInUse
	}
	if err := s.templates.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTemplateNotFound
		}
		return fmt.Errorf("deleting template: %w", err)
	}
	return nil
}

// Generate renders contract content from the template with the given
// variables. On success the template's usage counter is incremented and its
// last-used timestamp stamped. Validation failures carry every violation.
func (s *Service) Generate(ctx context.Context, tenantID, id string, vars map[string]string) (string, error) {
	tpl, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return "", err
	}
	if tpl.Status == StatusArchived {
		return "", ErrTemplateArchived
	}

	content, err := tpl.Render(vars)
	if err != nil {
		return "", err
	}

	now := time.Now()
	if err := s.templates.RecordUsage(ctx, tenantID, id, now); err != nil {
		return "", fmt.Errorf("recording template usage: %w", err)
	}

	s.logActivity(ctx, tenantID, tpl.ID, activity.TypeTemplateGenerated, "",
		fmt.Sprintf("generated contract content from template %q", tpl.Name))

	return content, nil
}

// CalculateBilling computes the billing breakdown for the given usage data.
// The formula payload, when present and an evaluator is configured, seeds the
// breakdown before the deterministic rate-based charges are applied.
func (s *Service) CalculateBilling(ctx context.Context, tenantID, id string, usage UsageData) (*Breakdown, error) {
	tpl, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	bd := &Breakdown{Base: round2(tpl.Billing.BasePrice)}
	if s.formulas != nil && len(tpl.Billing.Formula) > 0 {
		if err := s.formulas.Apply(ctx, tpl.Billing.Formula, usage, bd); err != nil {
			return nil, fmt.Errorf("applying calculation formula: %w", err)
		}
	}

	tpl.applyRates(usage, bd)
	return bd, nil
}

func (s *Service) logActivity(ctx context.Context, tenantID, templateID string, typ activity.Type, actor, summary string) {
	if s.activities == nil {
		return
	}
	_ = s.activities.Log(ctx, tenantID, &activity.Entry{
		EntityKind: activity.EntityTemplate,
		EntityID:   &templateID,
		Type:       typ,
		Actor:      actor,
		Summary:    summary,
	})
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, slug)
	return strings.Trim(strings.Join(strings.FieldsFunc(slug, func(r rune) bool { return r == '-' }), "-"), "-")
}
