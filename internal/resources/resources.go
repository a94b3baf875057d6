// Package resources implements MCP resource handlers for speclens.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (speclens://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/HendryAvila/speclens/internal/constitution"
	"github.com/HendryAvila/speclens/internal/usage"
	"github.com/mark3labs/mcp-go/mcp"
)

// Resource URIs.
const (
	UsageStatsURI          = "speclens://usage/stats"
	ConstitutionSummaryURI = "speclens://constitution/summary"
)

// Summarizer produces the constitution digest.
type Summarizer interface {
	Summary(ctx context.Context, maxLength int) (constitution.Summary, error)
}

// Handler manages speclens resource endpoints. Resource reads bypass the
// harness and are not recorded in the usage log.
type Handler struct {
	log          usage.Log
	constitution Summarizer
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(log usage.Log, c Summarizer) *Handler {
	return &Handler{log: log, constitution: c}
}

// UsageStatsResource returns the MCP resource definition for usage stats.
func (h *Handler) UsageStatsResource() mcp.Resource {
	return mcp.NewResource(
		UsageStatsURI,
		"speclens Usage Statistics",
		mcp.WithResourceDescription("Per-tool call counts and token totals replayed from the usage log"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleUsageStats returns the aggregated usage log as JSON.
func (h *Handler) HandleUsageStats(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	stats, err := usage.Collect(ctx, h.log)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling usage stats: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// ConstitutionSummaryResource returns the MCP resource definition for the
// constitution digest.
func (h *Handler) ConstitutionSummaryResource() mcp.Resource {
	return mcp.NewResource(
		ConstitutionSummaryURI,
		"Constitution Summary",
		mcp.WithResourceDescription("Core values, key principles and technical guidelines of the project constitution"),
		mcp.WithMIMEType("text/markdown"),
	)
}

// HandleConstitutionSummary returns the rendered digest at the default length.
func (h *Handler) HandleConstitutionSummary(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	sum, err := h.constitution.Summary(ctx, 0)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     sum.Summary,
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
