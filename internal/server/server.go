// Package server wires all speclens components and creates the MCP
// server instance.
//
// This is the composition root (DIP): it creates concrete implementations
// and injects them into the tools/prompts/resources that depend on
// abstractions. No business logic lives here, only wiring.
package server

import (
	"github.com/HendryAvila/speclens/internal/prompts"
	"github.com/HendryAvila/speclens/internal/resources"
	"github.com/HendryAvila/speclens/internal/tools"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates the MCP server with all tools, prompts and resources
// registered against env. Closing env is the caller's job.
func New(env *Env) *server.MCPServer {
	s := server.NewMCPServer(
		"speclens",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Task tools ---

	tasksList := tools.NewTasksListTool(env.Harness)
	s.AddTool(tasksList.Definition(), tasksList.Handle)

	tasksGet := tools.NewTasksGetTool(env.Harness)
	s.AddTool(tasksGet.Definition(), tasksGet.Handle)

	tasksNext := tools.NewTasksNextTool(env.Harness)
	s.AddTool(tasksNext.Definition(), tasksNext.Handle)

	tasksDeps := tools.NewTasksDependenciesTool(env.Harness)
	s.AddTool(tasksDeps.Definition(), tasksDeps.Handle)

	// --- Constitution tools ---

	summary := tools.NewConstitutionSummaryTool(env.Harness)
	s.AddTool(summary.Definition(), summary.Handle)

	search := tools.NewConstitutionSearchTool(env.Harness)
	s.AddTool(search.Definition(), search.Handle)

	// --- Document tools ---

	section := tools.NewDocsSectionTool(env.Harness)
	s.AddTool(section.Definition(), section.Handle)

	outline := tools.NewDocsOutlineTool(env.Harness)
	s.AddTool(outline.Definition(), outline.Handle)

	// --- Telemetry ---
	//
	// usage_stats reads the log directly; it is not a harness tool, so
	// asking for stats never inflates them.

	stats := tools.NewUsageStatsTool(env.Usage)
	s.AddTool(stats.Definition(), stats.Handle)

	// --- Prompts ---

	nextTask := prompts.NewNextTaskPrompt()
	s.AddPrompt(nextTask.Definition(), nextTask.Handle)

	usageReport := prompts.NewUsageReportPrompt()
	s.AddPrompt(usageReport.Definition(), usageReport.Handle)

	// --- Resources ---

	rh := resources.NewHandler(env.Usage, env.Constitution)
	s.AddResource(rh.UsageStatsResource(), rh.HandleUsageStats)
	s.AddResource(rh.ConstitutionSummaryResource(), rh.HandleConstitutionSummary)

	return s
}

// Serve runs the MCP server over stdio until the client disconnects.
func Serve(env *Env) error {
	return server.ServeStdio(New(env))
}

// serverInstructions tells the AI how to use speclens effectively.
func serverInstructions() string {
	return `You have access to speclens, a read-only query layer over this project's
.specify documents (tasks.md, spec.md, plan.md and the constitution).

## WHY

The documents are long. Reading them whole costs thousands of tokens per turn.
speclens answers narrow questions instead and reports what each answer cost.

## HOW TO WORK

1. Start with ` + "`tasks_next`" + ` to find what to do, or ` + "`tasks_list`" + ` with a phase filter.
2. Use ` + "`tasks_get`" + ` with include_context=true for the task you are implementing.
   It returns related spec/plan sections and acceptance criteria.
3. Check your approach with ` + "`constitution_search`" + ` on the relevant topic
   (e.g. "testing", "error handling"). Use ` + "`constitution_summary`" + ` once per session.
4. When a related section is cut off, call ` + "`docs_outline`" + ` then ` + "`docs_section`" + `
   rather than reading the whole document.
5. ` + "`tasks_dependencies`" + ` tells you what must be done before a task.

## RULES

- Never read tasks.md, spec.md, plan.md or the constitution directly when a tool answers the question.
- Every tool response ends with [Token Usage: N]. Prefer the cheaper call when two would do.
- speclens does not modify documents. Update task status in tasks.md yourself.
- ` + "`usage_stats`" + ` shows which tools cost the most in this project.`
}
