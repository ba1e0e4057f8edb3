package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/activity"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/comment"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/negotiation"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/template"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/version"
)

const serverInstructions = `Contract lifecycle engine. Generate contracts from templates,
calculate billing, snapshot contract versions, track negotiations, and manage
threaded discussions. All operations are scoped to the authenticated tenant.`

// TemplateService defines template operations needed by MCP.
type TemplateService interface {
	List(ctx context.Context, tenantID string, opts template.ListOptions) ([]template.TemplateSummary, error)
	Generate(ctx context.Context, tenantID, id string, vars map[string]string) (string, error)
	CalculateBilling(ctx context.Context, tenantID, id string, usage template.UsageData) (*template.Breakdown, error)
}

// VersionService defines version operations needed by MCP.
type VersionService interface {
	CreateSnapshot(ctx context.Context, tenantID string, req version.SnapshotRequest) (*version.ContractVersion, error)
	List(ctx context.Context, tenantID string, opts version.ListOptions) ([]version.VersionSummary, error)
	Compare(ctx context.Context, tenantID, baseID, targetID string) ([]version.ChangeRecord, error)
	MarkFinal(ctx context.Context, tenantID, id, actor string) (*version.ContractVersion, error)
}

// NegotiationService defines negotiation operations needed by MCP.
type NegotiationService interface {
	Create(ctx context.Context, tenantID string, req negotiation.CreateRequest) (*negotiation.Negotiation, error)
	Get(ctx context.Context, tenantID, id string) (*negotiation.Negotiation, error)
	List(ctx context.Context, tenantID string, opts negotiation.ListOptions) ([]negotiation.NegotiationSummary, error)
	AdvancePhase(ctx context.Context, tenantID, id, actor string) (*negotiation.Negotiation, error)
	RecordPricingChange(ctx context.Context, tenantID, id string, value float64, reason, actor string) (*negotiation.Negotiation, error)
	Complete(ctx context.Context, tenantID, id string, won bool, notes, actor string) (*negotiation.Negotiation, error)
}

// CommentService defines comment operations needed by MCP.
type CommentService interface {
	Create(ctx context.Context, tenantID string, req comment.CreateRequest) (*comment.Comment, error)
	Reply(ctx context.Context, tenantID, parentID string, req comment.CreateRequest) (*comment.Comment, error)
	Resolve(ctx context.Context, tenantID, id, actorID, notes string, hasNegotiationEditRights bool) (*comment.Comment, error)
	Unresolved(ctx context.Context, tenantID string, opts comment.ListOptions) ([]comment.Comment, error)
	Thread(ctx context.Context, tenantID, rootID string) ([]comment.Comment, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	Recent(ctx context.Context, tenantID string, opts activity.ListOptions) ([]activity.Entry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Templates    TemplateService
	Versions     VersionService
	Negotiations NegotiationService
	Comments     CommentService
	Activity     ActivityService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      TenantResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "nestogy-contracts",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	// Stdio mode: always disable auth (local dev only)
	if cfg.TransportMode == "stdio" || !cfg.AuthEnabled {
		server.AddReceivingMiddleware(noAuthMiddleware("default"))
	} else {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	}

	registerTools(server, cfg.Services)

	return server
}
