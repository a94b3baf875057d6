package main

import (
	"fmt"
	"io"

	"github.com/HendryAvila/speclens/internal/constitution"
	"github.com/HendryAvila/speclens/internal/harness"
	"github.com/HendryAvila/speclens/internal/tools"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

// query runs one harness operation and prints its result.
func (a *app) query(cmd *cobra.Command, name string, input any, render bool) error {
	res, err := a.env.Harness.Call(cmd.Context(), name, input)
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), res, render)
}

// printResult writes the serialized value followed by the token footer.
// With render, markdown values are drawn for the terminal instead.
func printResult(w io.Writer, res *harness.Result, render bool) error {
	text := res.Text
	if render {
		if md, ok := markdownOf(res.Value); ok {
			out, err := renderMarkdown(md)
			if err != nil {
				return err
			}
			text = out
		}
	}
	_, err := fmt.Fprintln(w, text+harness.TokenFooter(res.Tokens))
	return err
}

// markdownOf extracts the markdown body of results that carry one.
func markdownOf(v any) (string, bool) {
	switch v := v.(type) {
	case constitution.Summary:
		return v.Summary, true
	case string:
		return v, true
	default:
		return "", false
	}
}

func renderMarkdown(md string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

func newAllTasksCmd(a *app) *cobra.Command {
	var phase string
	cmd := &cobra.Command{
		Use:   "all-tasks",
		Short: "List every task, optionally filtered by phase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.query(cmd, tools.NameGetAllTasks, tools.PhaseInput{Phase: phase}, false)
		},
	}
	cmd.Flags().StringVarP(&phase, "phase", "p", "", "Keep tasks whose phase contains this text")
	return cmd
}

func newTaskCmd(a *app) *cobra.Command {
	var (
		id          string
		withContext bool
	)
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Show one task, optionally with related spec and plan context",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.query(cmd, tools.NameGetTaskByID, tools.TaskInput{TaskID: id, IncludeContext: withContext}, false)
		},
	}
	cmd.Flags().StringVarP(&id, "id", "i", "", "Task id, e.g. 2.1")
	cmd.Flags().BoolVarP(&withContext, "context", "c", false, "Include related spec/plan sections and acceptance criteria")
	return cmd
}

func newNextTaskCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "next-task",
		Short: "Show the first task that is not started",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.query(cmd, tools.NameGetNextTask, nil, false)
		},
	}
}

func newDepsCmd(a *app) *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "List the tasks a task depends on",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.query(cmd, tools.NameGetDependencies, tools.TaskInput{TaskID: id}, false)
		},
	}
	cmd.Flags().StringVarP(&id, "id", "i", "", "Task id")
	return cmd
}

func newConstitutionSummaryCmd(a *app) *cobra.Command {
	var (
		maxLength int
		render    bool
	)
	cmd := &cobra.Command{
		Use:   "constitution-summary",
		Short: "Digest the constitution into values, principles and guidelines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.query(cmd, tools.NameConstitutionSummary, tools.SummaryInput{MaxLength: maxLength}, render)
		},
	}
	cmd.Flags().IntVar(&maxLength, "max", 0, "Maximum digest length in characters (default from config)")
	cmd.Flags().BoolVar(&render, "render", false, "Render the digest as terminal markdown")
	return cmd
}

func newConstitutionSearchCmd(a *app) *cobra.Command {
	var (
		query      string
		maxResults int
	)
	cmd := &cobra.Command{
		Use:   "constitution-search",
		Short: "Rank constitution sections against a query",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.query(cmd, tools.NameConstitutionSearch, tools.SearchInput{Query: query, MaxResults: maxResults}, false)
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "Search text")
	cmd.Flags().IntVarP(&maxResults, "max-results", "n", 0, "Maximum sections returned (default from config)")
	return cmd
}

func newSectionCmd(a *app) *cobra.Command {
	var (
		doc    string
		title  string
		render bool
	)
	cmd := &cobra.Command{
		Use:   "section",
		Short: "Print one section of the spec or plan document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.query(cmd, tools.NameGetSection, tools.SectionInput{Doc: doc, Title: title}, render)
		},
	}
	cmd.Flags().StringVar(&doc, "doc", "spec", "Document: spec or plan")
	cmd.Flags().StringVarP(&title, "title", "t", "", "Text the section title contains")
	cmd.Flags().BoolVar(&render, "render", false, "Render the section as terminal markdown")
	return cmd
}

func newOutlineCmd(a *app) *cobra.Command {
	var doc string
	cmd := &cobra.Command{
		Use:   "outline",
		Short: "List the headings of a project document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.query(cmd, tools.NameDocOutline, tools.OutlineInput{Doc: doc}, false)
		},
	}
	cmd.Flags().StringVar(&doc, "doc", "tasks", "Document: tasks, spec, plan or constitution")
	return cmd
}
