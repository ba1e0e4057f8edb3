package mocks

import (
	"context"
	"time"

	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/activity"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/comment"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/negotiation"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/template"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/version"
	"github.com/stretchr/testify/mock"
)

// TemplateRepository is a mock for template.Repository.
type TemplateRepository struct {
	mock.Mock
}

func (m *TemplateRepository) Create(ctx context.Context, tenantID string, tpl *template.Template) error {
	args := m.Called(ctx, tenantID, tpl)
	return args.Error(0)
}

func (m *TemplateRepository) Get(ctx context.Context, tenantID, id string) (*template.Template, error) {
	args := m.Called(ctx, tenantID, id)
	if tpl, ok := args.Get(0).(*template.Template); ok {
		return tpl, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TemplateRepository) GetBySlug(ctx context.Context, tenantID, slug string) (*template.Template, error) {
	args := m.Called(ctx, tenantID, slug)
	if tpl, ok := args.Get(0).(*template.Template); ok {
		return tpl, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TemplateRepository) Update(ctx context.Context, tenantID string, tpl *template.Template) error {
	args := m.Called(ctx, tenantID, tpl)
	return args.Error(0)
}

func (m *TemplateRepository) Delete(ctx context.Context, tenantID, id string) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *TemplateRepository) List(ctx context.Context, tenantID string, opts template.ListOptions) ([]template.TemplateSummary, error) {
	args := m.Called(ctx, tenantID, opts)
	if list, ok := args.Get(0).([]template.TemplateSummary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TemplateRepository) RecordUsage(ctx context.Context, tenantID, id string, usedAt time.Time) error {
	args := m.Called(ctx, tenantID, id, usedAt)
	return args.Error(0)
}

// VersionRepository is a mock for version.Repository.
type VersionRepository struct {
	mock.Mock
}

func (m *VersionRepository) Create(ctx context.Context, tenantID string, ver *version.ContractVersion) error {
	args := m.Called(ctx, tenantID, ver)
	return args.Error(0)
}

func (m *VersionRepository) Get(ctx context.Context, tenantID, id string) (*version.ContractVersion, error) {
	args := m.Called(ctx, tenantID, id)
	if ver, ok := args.Get(0).(*version.ContractVersion); ok {
		return ver, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *VersionRepository) Update(ctx context.Context, tenantID string, ver *version.ContractVersion) error {
	args := m.Called(ctx, tenantID, ver)
	return args.Error(0)
}

func (m *VersionRepository) Latest(ctx context.Context, tenantID, contractID string) (*version.ContractVersion, error) {
	args := m.Called(ctx, tenantID, contractID)
	if ver, ok := args.Get(0).(*version.ContractVersion); ok {
		return ver, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *VersionRepository) List(ctx context.Context, tenantID string, opts version.ListOptions) ([]version.VersionSummary, error) {
	args := m.Called(ctx, tenantID, opts)
	if list, ok := args.Get(0).([]version.VersionSummary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ContractSource is a mock for version.ContractSource.
type ContractSource struct {
	mock.Mock
}

func (m *ContractSource) Get(ctx context.Context, tenantID, contractID string) (*version.ContractData, error) {
	args := m.Called(ctx, tenantID, contractID)
	if data, ok := args.Get(0).(*version.ContractData); ok {
		return data, args.Error(1)
	}
	return nil, args.Error(1)
}

// NegotiationRepository is a mock for negotiation.Repository.
type NegotiationRepository struct {
	mock.Mock
}

func (m *NegotiationRepository) Create(ctx context.Context, tenantID string, neg *negotiation.Negotiation) error {
	args := m.Called(ctx, tenantID, neg)
	return args.Error(0)
}

func (m *NegotiationRepository) Get(ctx context.Context, tenantID, id string) (*negotiation.Negotiation, error) {
	args := m.Called(ctx, tenantID, id)
	if neg, ok := args.Get(0).(*negotiation.Negotiation); ok {
		return neg, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *NegotiationRepository) Update(ctx context.Context, tenantID string, neg *negotiation.Negotiation) error {
	args := m.Called(ctx, tenantID, neg)
	return args.Error(0)
}

func (m *NegotiationRepository) List(ctx context.Context, tenantID string, opts negotiation.ListOptions) ([]negotiation.NegotiationSummary, error) {
	args := m.Called(ctx, tenantID, opts)
	if list, ok := args.Get(0).([]negotiation.NegotiationSummary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *NegotiationRepository) MaxSequence(ctx context.Context, tenantID, prefix string) (int, error) {
	args := m.Called(ctx, tenantID, prefix)
	return args.Int(0), args.Error(1)
}

// VersionSource is a mock for negotiation.VersionSource.
type VersionSource struct {
	mock.Mock
}

func (m *VersionSource) CurrentTotal(ctx context.Context, tenantID, contractID string) (float64, bool, error) {
	args := m.Called(ctx, tenantID, contractID)
	return args.Get(0).(float64), args.Bool(1), args.Error(2)
}

// CommentRepository is a mock for comment.Repository.
type CommentRepository struct {
	mock.Mock
}

func (m *CommentRepository) Create(ctx context.Context, tenantID string, c *comment.Comment) error {
	args := m.Called(ctx, tenantID, c)
	return args.Error(0)
}

func (m *CommentRepository) Get(ctx context.Context, tenantID, id string) (*comment.Comment, error) {
	args := m.Called(ctx, tenantID, id)
	if c, ok := args.Get(0).(*comment.Comment); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CommentRepository) Update(ctx context.Context, tenantID string, c *comment.Comment) error {
	args := m.Called(ctx, tenantID, c)
	return args.Error(0)
}

func (m *CommentRepository) List(ctx context.Context, tenantID string, opts comment.ListOptions) ([]comment.Comment, error) {
	args := m.Called(ctx, tenantID, opts)
	if list, ok := args.Get(0).([]comment.Comment); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CommentRepository) ListByContract(ctx context.Context, tenantID, contractID string) ([]comment.Comment, error) {
	args := m.Called(ctx, tenantID, contractID)
	if list, ok := args.Get(0).([]comment.Comment); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, tenantID string, entry *activity.Entry) error {
	args := m.Called(ctx, tenantID, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, tenantID string, opts activity.ListOptions) ([]activity.Entry, error) {
	args := m.Called(ctx, tenantID, opts)
	if list, ok := args.Get(0).([]activity.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
