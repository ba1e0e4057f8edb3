package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/activity"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/comment"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/negotiation"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/template"
	"github.com/FoleyBridge-Solutions/Nestogy-sub050/internal/domain/version"
)

type listTemplatesInput struct {
	Statuses []string `json:"statuses,omitempty" jsonschema:"filter by template status (draft, active, archived)"`
	Limit    int      `json:"limit,omitempty"`
}

type listTemplatesOutput struct {
	Templates []template.TemplateSummary `json:"templates"`
}

type generateContractInput struct {
	TemplateID string            `json:"template_id"`
	Variables  map[string]string `json:"variables,omitempty" jsonschema:"values for the template's placeholders"`
}

type generateContractOutput struct {
	Content string `json:"content"`
}

type calculateBillingInput struct {
	TemplateID string         `json:"template_id"`
	Assets     map[string]int `json:"assets,omitempty" jsonschema:"asset counts keyed by asset type"`
	Contacts   map[string]int `json:"contacts,omitempty" jsonschema:"contact counts keyed by tier"`
	Extra      map[string]any `json:"extra,omitempty"`
}

type createSnapshotInput struct {
	ContractID    string `json:"contract_id"`
	NegotiationID string `json:"negotiation_id,omitempty"`
	Type          string `json:"type,omitempty" jsonschema:"snapshot type (initial, revision, amendment, renewal)"`
	ClientVisible bool   `json:"client_visible,omitempty"`
}

type listVersionsInput struct {
	ContractID string `json:"contract_id"`
	Limit      int    `json:"limit,omitempty"`
}

type listVersionsOutput struct {
	Versions []version.VersionSummary `json:"versions"`
}

type compareVersionsInput struct {
	BaseID   string `json:"base_id"`
	TargetID string `json:"target_id"`
}

type compareVersionsOutput struct {
	Changes []version.ChangeRecord `json:"changes"`
}

type finalizeVersionInput struct {
	VersionID string `json:"version_id"`
	Actor     string `json:"actor,omitempty"`
}

type createNegotiationInput struct {
	ContractID   string   `json:"contract_id"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	TargetValue  *float64 `json:"target_value,omitempty"`
	MinimumValue *float64 `json:"minimum_value,omitempty"`
}

type negotiationIDInput struct {
	NegotiationID string `json:"negotiation_id"`
	Actor         string `json:"actor,omitempty"`
}

type listNegotiationsInput struct {
	ContractID string   `json:"contract_id,omitempty"`
	Statuses   []string `json:"statuses,omitempty" jsonschema:"filter by status (active, paused, completed, cancelled)"`
	Overdue    bool     `json:"overdue,omitempty"`
	Limit      int      `json:"limit,omitempty"`
}

type listNegotiationsOutput struct {
	Negotiations []negotiation.NegotiationSummary `json:"negotiations"`
}

type recordPricingInput struct {
	NegotiationID string  `json:"negotiation_id"`
	Value         float64 `json:"value"`
	Reason        string  `json:"reason"`
	Actor         string  `json:"actor,omitempty"`
}

type completeNegotiationInput struct {
	NegotiationID string `json:"negotiation_id"`
	Won           bool   `json:"won"`
	Notes         string `json:"notes,omitempty"`
	Actor         string `json:"actor,omitempty"`
}

type createCommentInput struct {
	ContractID       string `json:"contract_id"`
	NegotiationID    string `json:"negotiation_id,omitempty"`
	AuthorID         string `json:"author_id"`
	Body             string `json:"body"`
	Type             string `json:"type,omitempty" jsonschema:"comment type (general, suggestion, objection, approval, question)"`
	Priority         string `json:"priority,omitempty"`
	SectionRef       string `json:"section_ref,omitempty"`
	IsInternal       bool   `json:"is_internal,omitempty"`
	RequiresResponse bool   `json:"requires_response,omitempty"`
}

type replyCommentInput struct {
	ParentID string `json:"parent_id"`
	AuthorID string `json:"author_id"`
	Body     string `json:"body"`
}

type resolveCommentInput struct {
	CommentID string `json:"comment_id"`
	ActorID   string `json:"actor_id"`
	Notes     string `json:"notes,omitempty"`
	CanEdit   bool   `json:"can_edit,omitempty" jsonschema:"whether the actor has edit rights on the owning negotiation"`
}

type listUnresolvedInput struct {
	ContractID string `json:"contract_id"`
}

type commentsOutput struct {
	Comments []comment.Comment `json:"comments"`
}

type threadInput struct {
	RootID string `json:"root_id"`
}

type recentActivityInput struct {
	ContractID string `json:"contract_id,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}

type recentActivityOutput struct {
	Entries []activity.Entry `json:"entries"`
}

// registerTools registers all engine tools on the MCP server.
func registerTools(server *sdkmcp.Server, svc Services) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_templates",
		Description: "List contract templates for the current tenant",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in listTemplatesInput) (*sdkmcp.CallToolResult, listTemplatesOutput, error) {
		opts := template.ListOptions{Limit: in.Limit}
		for _, s := range in.Statuses {
			opts.Statuses = append(opts.Statuses, template.Status(s))
		}
		summaries, err := svc.Templates.List(ctx, getTenantID(ctx), opts)
		if err != nil {
			return nil, listTemplatesOutput{}, err
		}
		return nil, listTemplatesOutput{Templates: summaries}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "generate_contract",
		Description: "Generate contract text from a template, substituting the supplied variables",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in generateContractInput) (*sdkmcp.CallToolResult, generateContractOutput, error) {
		content, err := svc.Templates.Generate(ctx, getTenantID(ctx), in.TemplateID, in.Variables)
		if err != nil {
			return nil, generateContractOutput{}, err
		}
		return nil, generateContractOutput{Content: content}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "calculate_billing",
		Description: "Calculate the billing breakdown for a template given asset and contact counts",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in calculateBillingInput) (*sdkmcp.CallToolResult, *template.Breakdown, error) {
		breakdown, err := svc.Templates.CalculateBilling(ctx, getTenantID(ctx), in.TemplateID, template.UsageData{
			Assets:   in.Assets,
			Contacts: in.Contacts,
			Extra:    in.Extra,
		})
		if err != nil {
			return nil, nil, err
		}
		return nil, breakdown, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_snapshot",
		Description: "Capture the contract's current state as a new immutable version",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in createSnapshotInput) (*sdkmcp.CallToolResult, *version.ContractVersion, error) {
		sreq := version.SnapshotRequest{
			ContractID:    in.ContractID,
			Type:          version.Type(in.Type),
			ClientVisible: in.ClientVisible,
		}
		if in.NegotiationID != "" {
			sreq.NegotiationID = &in.NegotiationID
		}
		ver, err := svc.Versions.CreateSnapshot(ctx, getTenantID(ctx), sreq)
		if err != nil {
			return nil, nil, err
		}
		return nil, ver, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_versions",
		Description: "List version snapshots of a contract, newest first",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in listVersionsInput) (*sdkmcp.CallToolResult, listVersionsOutput, error) {
		summaries, err := svc.Versions.List(ctx, getTenantID(ctx), version.ListOptions{
			ContractID: in.ContractID,
			Limit:      in.Limit,
		})
		if err != nil {
			return nil, listVersionsOutput{}, err
		}
		return nil, listVersionsOutput{Versions: summaries}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "compare_versions",
		Description: "Compare two versions of a contract and list field and component changes",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in compareVersionsInput) (*sdkmcp.CallToolResult, compareVersionsOutput, error) {
		changes, err := svc.Versions.Compare(ctx, getTenantID(ctx), in.BaseID, in.TargetID)
		if err != nil {
			return nil, compareVersionsOutput{}, err
		}
		return nil, compareVersionsOutput{Changes: changes}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "finalize_version",
		Description: "Mark a version as the contract's final, immutable version",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in finalizeVersionInput) (*sdkmcp.CallToolResult, *version.ContractVersion, error) {
		ver, err := svc.Versions.MarkFinal(ctx, getTenantID(ctx), in.VersionID, in.Actor)
		if err != nil {
			return nil, nil, err
		}
		return nil, ver, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_negotiation",
		Description: "Start a negotiation on a contract",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in createNegotiationInput) (*sdkmcp.CallToolResult, *negotiation.Negotiation, error) {
		neg, err := svc.Negotiations.Create(ctx, getTenantID(ctx), negotiation.CreateRequest{
			ContractID:   in.ContractID,
			Title:        in.Title,
			Description:  in.Description,
			TargetValue:  in.TargetValue,
			MinimumValue: in.MinimumValue,
		})
		if err != nil {
			return nil, nil, err
		}
		return nil, neg, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_negotiation",
		Description: "Get a negotiation's full state including phase, round, rosters and pricing history",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in negotiationIDInput) (*sdkmcp.CallToolResult, *negotiation.Negotiation, error) {
		neg, err := svc.Negotiations.Get(ctx, getTenantID(ctx), in.NegotiationID)
		if err != nil {
			return nil, nil, err
		}
		return nil, neg, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_negotiations",
		Description: "List negotiations, optionally filtered by contract, status, or overdue deadline",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in listNegotiationsInput) (*sdkmcp.CallToolResult, listNegotiationsOutput, error) {
		opts := negotiation.ListOptions{
			ContractID: in.ContractID,
			Overdue:    in.Overdue,
			Limit:      in.Limit,
		}
		for _, s := range in.Statuses {
			opts.Statuses = append(opts.Statuses, negotiation.Status(s))
		}
		summaries, err := svc.Negotiations.List(ctx, getTenantID(ctx), opts)
		if err != nil {
			return nil, listNegotiationsOutput{}, err
		}
		return nil, listNegotiationsOutput{Negotiations: summaries}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "advance_phase",
		Description: "Advance a negotiation to its next phase (phases only move forward)",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in negotiationIDInput) (*sdkmcp.CallToolResult, *negotiation.Negotiation, error) {
		neg, err := svc.Negotiations.AdvancePhase(ctx, getTenantID(ctx), in.NegotiationID, in.Actor)
		if err != nil {
			return nil, nil, err
		}
		return nil, neg, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "record_pricing_change",
		Description: "Append an entry to a negotiation's pricing history",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in recordPricingInput) (*sdkmcp.CallToolResult, *negotiation.Negotiation, error) {
		neg, err := svc.Negotiations.RecordPricingChange(ctx, getTenantID(ctx), in.NegotiationID, in.Value, in.Reason, in.Actor)
		if err != nil {
			return nil, nil, err
		}
		return nil, neg, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "complete_negotiation",
		Description: "Complete a negotiation, recording the won/lost outcome",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in completeNegotiationInput) (*sdkmcp.CallToolResult, *negotiation.Negotiation, error) {
		neg, err := svc.Negotiations.Complete(ctx, getTenantID(ctx), in.NegotiationID, in.Won, in.Notes, in.Actor)
		if err != nil {
			return nil, nil, err
		}
		return nil, neg, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_comment",
		Description: "Create a top-level comment on a contract discussion",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in createCommentInput) (*sdkmcp.CallToolResult, *comment.Comment, error) {
		creq := comment.CreateRequest{
			ContractID:       in.ContractID,
			AuthorID:         in.AuthorID,
			AuthorKind:       comment.AuthorInternal,
			Body:             in.Body,
			Type:             comment.Type(in.Type),
			Priority:         comment.Priority(in.Priority),
			SectionRef:       in.SectionRef,
			IsInternal:       in.IsInternal,
			RequiresResponse: in.RequiresResponse,
		}
		if in.NegotiationID != "" {
			creq.NegotiationID = &in.NegotiationID
		}
		c, err := svc.Comments.Create(ctx, getTenantID(ctx), creq)
		if err != nil {
			return nil, nil, err
		}
		return nil, c, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "reply_comment",
		Description: "Reply to an existing comment, continuing its thread",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in replyCommentInput) (*sdkmcp.CallToolResult, *comment.Comment, error) {
		c, err := svc.Comments.Reply(ctx, getTenantID(ctx), in.ParentID, comment.CreateRequest{
			AuthorID:   in.AuthorID,
			AuthorKind: comment.AuthorInternal,
			Body:       in.Body,
		})
		if err != nil {
			return nil, nil, err
		}
		return nil, c, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "resolve_comment",
		Description: "Resolve a comment, optionally posting a resolution note as a system reply",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in resolveCommentInput) (*sdkmcp.CallToolResult, *comment.Comment, error) {
		c, err := svc.Comments.Resolve(ctx, getTenantID(ctx), in.CommentID, in.ActorID, in.Notes, in.CanEdit)
		if err != nil {
			return nil, nil, err
		}
		return nil, c, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_unresolved_comments",
		Description: "List unresolved comments on a contract",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in listUnresolvedInput) (*sdkmcp.CallToolResult, commentsOutput, error) {
		comments, err := svc.Comments.Unresolved(ctx, getTenantID(ctx), comment.ListOptions{
			ContractID: in.ContractID,
		})
		if err != nil {
			return nil, commentsOutput{}, err
		}
		return nil, commentsOutput{Comments: comments}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_thread",
		Description: "Get a comment thread: the root comment and all its descendants",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in threadInput) (*sdkmcp.CallToolResult, commentsOutput, error) {
		comments, err := svc.Comments.Thread(ctx, getTenantID(ctx), in.RootID)
		if err != nil {
			return nil, commentsOutput{}, err
		}
		return nil, commentsOutput{Comments: comments}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "recent_activity",
		Description: "List recent audit-trail entries, newest first",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in recentActivityInput) (*sdkmcp.CallToolResult, recentActivityOutput, error) {
		entries, err := svc.Activity.Recent(ctx, getTenantID(ctx), activity.ListOptions{
			ContractID: in.ContractID,
			Limit:      in.Limit,
		})
		if err != nil {
			return nil, recentActivityOutput{}, err
		}
		return nil, recentActivityOutput{Entries: entries}, nil
	})
}
