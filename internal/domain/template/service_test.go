package template_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/template"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/validation"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/repository"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTemplateService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	repo := &mocks.TemplateRepository{}
	activities := &mocks.ActivityRepository{}
	repo.On("Create", ctx, tenantID, mock.Anything).Return(nil)
	activities.On("Log", ctx, tenantID, mock.Anything).Return(nil)

	svc := template.NewService(repo, nil, activities, nil)
	tpl, err := svc.Create(ctx, tenantID, template.CreateRequest{
		Name:    "Managed Services (Gold)",
		Content: "This agreement covers {{client_name}}.",
	})
	require.NoError(t, err)
	require.Equal(t, template.StatusDraft, tpl.Status)
	require.Equal(t, "1.0", tpl.Version)
	require.Equal(t, "managed-services-gold", tpl.Slug)
	require.Equal(t, template.BillingFixed, tpl.Billing.Model)
	require.NotEmpty(t, tpl.ID)
	activities.AssertCalled(t, "Log", ctx, tenantID, mock.Anything)
}

func TestTemplateService_Create_CollectsAllViolations(t *testing.T) {
	ctx := context.Background()

	svc := template.NewService(&mocks.TemplateRepository{}, nil, nil, nil)
	_, err := svc.Create(ctx, "tenant1", template.CreateRequest{
		Billing: template.BillingConfig{Model: "per_seat"},
	})
	require.Error(t, err)

	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Violations, 3)
}

func TestTemplateService_Create_SlugConflict(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	repo := &mocks.TemplateRepository{}
	repo.On("Create", ctx, tenantID, mock.Anything).Return(repository.ErrConflict)

	svc := template.NewService(repo, nil, nil, nil)
	_, err := svc.Create(ctx, tenantID, template.CreateRequest{
		Name:    "Duplicate",
		Content: "body",
	})
	require.ErrorIs(t, err, repository.ErrConflict)
}

func TestTemplateService_Generate(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	tpl := &template.Template{
		ID:             "t1",
		Name:           "MSA",
		Status:         template.StatusActive,
		Content:        "Agreement between {{provider}} and {{client_name}}, term {{term}}.",
		RequiredFields: []string{"client_name"},
		Defaults:       map[string]string{"provider": "Acme MSP", "term": "12 months"},
	}

	repo := &mocks.TemplateRepository{}
	repo.On("Get", ctx, tenantID, "t1").Return(tpl, nil)
	repo.On("RecordUsage", ctx, tenantID, "t1", mock.Anything).Return(nil)

	svc := template.NewService(repo, nil, nil, nil)
	content, err := svc.Generate(ctx, tenantID, "t1", map[string]string{
		"client_name": "Globex",
		"term":        "24 months",
	})
	require.NoError(t, err)
	require.Equal(t, "Agreement between Acme MSP and Globex, term 24 months.", content)
	repo.AssertCalled(t, "RecordUsage", ctx, tenantID, "t1", mock.Anything)
}

func TestTemplateService_Generate_MissingRequiredFields(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	tpl := &template.Template{
		ID:             "t1",
		Status:         template.StatusActive,
		Content:        "{{client_name}} / {{effective_date}}",
		RequiredFields: []string{"client_name", "effective_date"},
	}

	repo := &mocks.TemplateRepository{}
	repo.On("Get", ctx, tenantID, "t1").Return(tpl, nil)

	svc := template.NewService(repo, nil, nil, nil)
	_, err := svc.Generate(ctx, tenantID, "t1", map[string]string{"client_name": "  "})
	require.Error(t, err)

	// Every missing field is reported, not just the first.
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Violations, 2)
	repo.AssertNotCalled(t, "RecordUsage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTemplateService_Generate_Archived(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	repo := &mocks.TemplateRepository{}
	repo.On("Get", ctx, tenantID, "t1").Return(&template.Template{
		ID:     "t1",
		Status: template.StatusArchived,
	}, nil)

	svc := template.NewService(repo, nil, nil, nil)
	_, err := svc.Generate(ctx, tenantID, "t1", nil)
	require.ErrorIs(t, err, template.ErrTemplateArchived)
}

func TestTemplateService_Delete_InUse(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	repo := &mocks.TemplateRepository{}
	repo.On("Get", ctx, tenantID, "t1").Return(&template.Template{
		ID:         "t1",
		UsageCount: 3,
	}, nil)

	svc := template.NewService(repo, nil, nil, nil)
	err := svc.Delete(ctx, tenantID, "t1")
	require.ErrorIs(t, err, template.ErrTemplateInUse)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestTemplateService_Delete_NotFound(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	repo := &mocks.TemplateRepository{}
	repo.On("Get", ctx, tenantID, "missing").Return(nil, repository.ErrNotFound)

	svc := template.NewService(repo, nil, nil, nil)
	err := svc.Delete(ctx, tenantID, "missing")
	require.ErrorIs(t, err, template.ErrTemplateNotFound)
}

func TestTemplateService_CalculateBilling_Hybrid(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	tpl := &template.Template{
		ID:     "t1",
		Status: template.StatusActive,
		Billing: template.BillingConfig{
			Model:     template.BillingHybrid,
			BasePrice: 500,
			AssetRates: map[string]float64{
				"workstation": 25,
				"server":      100,
			},
			ContactRates: map[string]float64{
				"standard": 10,
			},
		},
	}

	repo := &mocks.TemplateRepository{}
	repo.On("Get", ctx, tenantID, "t1").Return(tpl, nil)

	svc := template.NewService(repo, nil, nil, nil)
	bd, err := svc.CalculateBilling(ctx, tenantID, "t1", template.UsageData{
		Assets:   map[string]int{"workstation": 40, "server": 3},
		Contacts: map[string]int{"standard": 15},
	})
	require.NoError(t, err)
	require.Equal(t, 500.0, bd.Base)
	require.Equal(t, 1300.0, bd.AssetCharges)
	require.Equal(t, 150.0, bd.ContactCharges)
	require.Equal(t, bd.Base+bd.AssetCharges+bd.ContactCharges+bd.UsageCharges, bd.Total)
	require.Empty(t, bd.Warnings)
}

func TestTemplateService_CalculateBilling_ModelGating(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	// A fixed-price template ignores asset and contact counts entirely.
	repo := &mocks.TemplateRepository{}
	repo.On("Get", ctx, tenantID, "t1").Return(&template.Template{
		ID: "t1",
		Billing: template.BillingConfig{
			Model:      template.BillingFixed,
			BasePrice:  750,
			AssetRates: map[string]float64{"workstation": 25},
		},
	}, nil)

	svc := template.NewService(repo, nil, nil, nil)
	bd, err := svc.CalculateBilling(ctx, tenantID, "t1", template.UsageData{
		Assets:   map[string]int{"workstation": 100},
		Contacts: map[string]int{"standard": 50},
	})
	require.NoError(t, err)
	require.Equal(t, 0.0, bd.AssetCharges)
	require.Equal(t, 0.0, bd.ContactCharges)
	require.Equal(t, 750.0, bd.Total)
}

func TestTemplateService_CalculateBilling_UnknownTypesWarn(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	repo := &mocks.TemplateRepository{}
	repo.On("Get", ctx, tenantID, "t1").Return(&template.Template{
		ID: "t1",
		Billing: template.BillingConfig{
			Model:      template.BillingPerAsset,
			AssetRates: map[string]float64{"workstation": 25},
		},
	}, nil)

	svc := template.NewService(repo, nil, nil, nil)
	bd, err := svc.CalculateBilling(ctx, tenantID, "t1", template.UsageData{
		Assets: map[string]int{"workstation": 2, "mainframe": 1},
	})
	require.NoError(t, err)
	require.Equal(t, 50.0, bd.AssetCharges)
	require.Len(t, bd.Warnings, 1)
	require.Contains(t, bd.Warnings[0], "mainframe")
}

type seedEvaluator struct {
	usageCharge float64
}

func (e seedEvaluator) Apply(_ context.Context, _ json.RawMessage, _ template.UsageData, bd *template.Breakdown) error {
	bd.UsageCharges = e.usageCharge
	return nil
}

func TestTemplateService_CalculateBilling_FormulaSeedsBreakdown(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	repo := &mocks.TemplateRepository{}
	repo.On("Get", ctx, tenantID, "t1").Return(&template.Template{
		ID: "t1",
		Billing: template.BillingConfig{
			Model:     template.BillingFixed,
			BasePrice: 100,
			Formula:   json.RawMessage(`{"kind":"overage"}`),
		},
	}, nil)

	svc := template.NewService(repo, seedEvaluator{usageCharge: 42.5}, nil, nil)
	bd, err := svc.CalculateBilling(ctx, tenantID, "t1", template.UsageData{})
	require.NoError(t, err)
	require.Equal(t, 42.5, bd.UsageCharges)
	require.Equal(t, 142.5, bd.Total)
}

func TestTemplateService_Update_InvalidBillingModel(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	repo := &mocks.TemplateRepository{}
	repo.On("Get", ctx, tenantID, "t1").Return(&template.Template{ID: "t1"}, nil)

	svc := template.NewService(repo, nil, nil, nil)
	_, err := svc.Update(ctx, tenantID, template.UpdateRequest{
		ID:      "t1",
		Billing: &template.BillingConfig{Model: "per_seat"},
	})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestTemplateService_Archive(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	repo := &mocks.TemplateRepository{}
	repo.On("Get", ctx, tenantID, "t1").Return(&template.Template{
		ID:     "t1",
		Status: template.StatusActive,
	}, nil)
	repo.On("Update", ctx, tenantID, mock.Anything).Return(nil)

	svc := template.NewService(repo, nil, nil, nil)
	tpl, err := svc.Archive(ctx, tenantID, "t1")
	require.NoError(t, err)
	require.Equal(t, template.StatusArchived, tpl.Status)
}
