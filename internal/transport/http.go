package transport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/activity"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/comment"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/negotiation"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/template"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/version"
)

// TemplateService defines template operations needed by the HTTP API.
type TemplateService interface {
	Create(ctx context.Context, tenantID string, req template.CreateRequest) (*template.Template, error)
	Get(ctx context.Context, tenantID, id string) (*template.Template, error)
	GetBySlug(ctx context.Context, tenantID, slug string) (*template.Template, error)
	List(ctx context.Context, tenantID string, opts template.ListOptions) ([]template.TemplateSummary, error)
	Update(ctx context.Context, tenantID string, req template.UpdateRequest) (*template.Template, error)
	Archive(ctx context.Context, tenantID, id string) (*template.Template, error)
	Delete(ctx context.Context, tenantID, id string) error
	Generate(ctx context.Context, tenantID, id string, vars map[string]string) (string, error)
	CalculateBilling(ctx context.Context, tenantID, id string, usage template.UsageData) (*template.Breakdown, error)
}

// VersionService defines version operations needed by the HTTP API.
type VersionService interface {
	CreateSnapshot(ctx context.Context, tenantID string, req version.SnapshotRequest) (*version.ContractVersion, error)
	Get(ctx context.Context, tenantID, id string) (*version.ContractVersion, error)
	List(ctx context.Context, tenantID string, opts version.ListOptions) ([]version.VersionSummary, error)
	Approve(ctx context.Context, tenantID, id, actor, note string) (*version.ContractVersion, error)
	Reject(ctx context.Context, tenantID, id, actor, reason string) (*version.ContractVersion, error)
	SetClientVisible(ctx context.Context, tenantID, id string, visible bool) (*version.ContractVersion, error)
	MarkFinal(ctx context.Context, tenantID, id, actor string) (*version.ContractVersion, error)
	Compare(ctx context.Context, tenantID, baseID, targetID string) ([]version.ChangeRecord, error)
}

// NegotiationService defines negotiation operations needed by the HTTP API.
type NegotiationService interface {
	Create(ctx context.Context, tenantID string, req negotiation.CreateRequest) (*negotiation.Negotiation, error)
	Get(ctx context.Context, tenantID, id string) (*negotiation.Negotiation, error)
	List(ctx context.Context, tenantID string, opts negotiation.ListOptions) ([]negotiation.NegotiationSummary, error)
	AdvancePhase(ctx context.Context, tenantID, id, actor string) (*negotiation.Negotiation, error)
	AddParticipant(ctx context.Context, tenantID, id string, roster negotiation.Roster, actorID string, permissions []string) (*negotiation.Negotiation, error)
	RemoveParticipant(ctx context.Context, tenantID, id string, roster negotiation.Roster, actorID string) (*negotiation.Negotiation, error)
	RecordPricingChange(ctx context.Context, tenantID, id string, value float64, reason, actor string) (*negotiation.Negotiation, error)
	IncrementRound(ctx context.Context, tenantID, id string) (*negotiation.Negotiation, error)
	SetTargets(ctx context.Context, tenantID, id string, target, minimum *float64) (*negotiation.Negotiation, error)
	Complete(ctx context.Context, tenantID, id string, won bool, notes, actor string) (*negotiation.Negotiation, error)
	Pause(ctx context.Context, tenantID, id, reason, actor string) (*negotiation.Negotiation, error)
	Resume(ctx context.Context, tenantID, id, actor string) (*negotiation.Negotiation, error)
	Cancel(ctx context.Context, tenantID, id, reason string) (*negotiation.Negotiation, error)
}

// CommentService defines comment operations needed by the HTTP API.
type CommentService interface {
	Create(ctx context.Context, tenantID string, req comment.CreateRequest) (*comment.Comment, error)
	Reply(ctx context.Context, tenantID, parentID string, req comment.CreateRequest) (*comment.Comment, error)
	Get(ctx context.Context, tenantID, id string) (*comment.Comment, error)
	List(ctx context.Context, tenantID string, opts comment.ListOptions) ([]comment.Comment, error)
	Resolve(ctx context.Context, tenantID, id, actorID, notes string, hasNegotiationEditRights bool) (*comment.Comment, error)
	Mention(ctx context.Context, tenantID, id string, actorIDs []string) (*comment.Comment, error)
	AddAttachment(ctx context.Context, tenantID, id, fileName string, data []byte, contentType string) (*comment.Comment, error)
	Unresolved(ctx context.Context, tenantID string, opts comment.ListOptions) ([]comment.Comment, error)
	Overdue(ctx context.Context, tenantID string, opts comment.ListOptions) ([]comment.Comment, error)
	Thread(ctx context.Context, tenantID, rootID string) ([]comment.Comment, error)
}

// ActivityService defines audit-trail operations needed by the HTTP API.
type ActivityService interface {
	Recent(ctx context.Context, tenantID string, opts activity.ListOptions) ([]activity.Entry, error)
}

// ContractStore receives contract state synced in from the owning
// application. Snapshots read from it.
type ContractStore interface {
	Put(ctx context.Context, tenantID string, data *version.ContractData) error
	Get(ctx context.Context, tenantID, contractID string) (*version.ContractData, error)
	Delete(ctx context.Context, tenantID, contractID string) error
}

// Services bundles all domain services served over HTTP.
type Services struct {
	Templates    TemplateService
	Versions     VersionService
	Negotiations NegotiationService
	Comments     CommentService
	Activity     ActivityService
	Contracts    ContractStore
}

// API is the HTTP transport for the engine.
type API struct {
	svc    Services
	auth   *Authenticator
	logger *slog.Logger
}

// NewAPI creates a new API
func NewAPI(svc Services, auth *Authenticator, logger *slog.Logger) *API {
	return &API{svc: svc, auth: auth, logger: logger}
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
			)
		})
	}
}

// Router builds the chi router with all routes mounted
func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if a.logger != nil {
		r.Use(requestLogger(a.logger))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(a.auth.Middleware)

		r.Route("/templates", func(r chi.Router) {
			r.Post("/", a.createTemplate)
			r.Get("/", a.listTemplates)
			r.Get("/{id}", a.getTemplate)
			r.Patch("/{id}", a.updateTemplate)
			r.Delete("/{id}", a.deleteTemplate)
			r.Post("/{id}/archive", a.archiveTemplate)
			r.Post("/{id}/generate", a.generateContract)
			r.Post("/{id}/billing", a.calculateBilling)
		})

		r.Route("/contracts", func(r chi.Router) {
			r.Put("/{id}", a.syncContract)
			r.Get("/{id}", a.getContract)
			r.Delete("/{id}", a.deleteContract)
		})

		r.Route("/versions", func(r chi.Router) {
			r.Post("/", a.createSnapshot)
			r.Get("/", a.listVersions)
			r.Get("/compare", a.compareVersions)
			r.Get("/{id}", a.getVersion)
			r.Post("/{id}/approve", a.approveVersion)
			r.Post("/{id}/reject", a.rejectVersion)
			r.Post("/{id}/finalize", a.finalizeVersion)
			r.Post("/{id}/visibility", a.setVersionVisibility)
		})

		r.Route("/negotiations", func(r chi.Router) {
			r.Post("/", a.createNegotiation)
			r.Get("/", a.listNegotiations)
			r.Get("/{id}", a.getNegotiation)
			r.Post("/{id}/advance", a.advancePhase)
			r.Post("/{id}/participants", a.addParticipant)
			r.Delete("/{id}/participants", a.removeParticipant)
			r.Post("/{id}/pricing", a.recordPricing)
			r.Post("/{id}/round", a.incrementRound)
			r.Post("/{id}/targets", a.setTargets)
			r.Post("/{id}/complete", a.completeNegotiation)
			r.Post("/{id}/pause", a.pauseNegotiation)
			r.Post("/{id}/resume", a.resumeNegotiation)
			r.Post("/{id}/cancel", a.cancelNegotiation)
		})

		r.Route("/comments", func(r chi.Router) {
			r.Post("/", a.createComment)
			r.Get("/", a.listComments)
			r.Get("/unresolved", a.listUnresolvedComments)
			r.Get("/overdue", a.listOverdueComments)
			r.Get("/{id}", a.getComment)
			r.Get("/{id}/thread", a.getThread)
			r.Post("/{id}/replies", a.replyToComment)
			r.Post("/{id}/resolve", a.resolveComment)
			r.Post("/{id}/mentions", a.mentionActors)
			r.Post("/{id}/attachments", a.addAttachment)
		})

		r.Get("/activity", a.listActivity)
	})

	return r
}
