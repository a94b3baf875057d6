package tasks

import (
	"regexp"
	"strings"

	"github.com/HendryAvila/speclens/internal/markdown"
)

var (
	// phaseHeadingPattern matches "## Phase 2: Core" style headings.
	phaseHeadingPattern = regexp.MustCompile(`(?i)^##\s+Phase\s+\d+`)

	// taskHeadingPattern matches "### Task 3.2: Title [P]". The heading
	// marker is optional so plain "Task 1: Title" lines also count.
	taskHeadingPattern = regexp.MustCompile(`(?i)^(?:###\s+)?Task\s+(\d+(?:\.\d+)*):\s+(.+?)(\s+\[P\])?$`)

	// looseTaskHeadingPattern catches task headings whose id is malformed.
	looseTaskHeadingPattern = regexp.MustCompile(`(?i)^###\s+Task\b`)
)

// parseState is the parser's position in the document.
type parseState int

const (
	stateIdle          parseState = iota // no task open; lines are ignored
	stateInTask                          // a task is open
	stateInDescription                   // a task is open and free text extends its description
)

// lineKind classifies a single trimmed line.
type lineKind int

const (
	kindBlank lineKind = iota
	kindPhase
	kindTask
	kindBadTask
	kindDescription
	kindDependencies
	kindFiles
	kindStatus
	kindFileItem
	kindText
)

// classifiedLine is a line plus whatever the classifier extracted from it.
type classifiedLine struct {
	kind     lineKind
	text     string // phase name, description fragment, label remainder, file path, or raw text
	id       string
	title    string
	parallel bool
}

// classify applies the recognition rules in priority order.
func classify(raw string) classifiedLine {
	line := strings.TrimSpace(raw)
	if line == "" {
		return classifiedLine{kind: kindBlank}
	}

	if phaseHeadingPattern.MatchString(line) {
		return classifiedLine{kind: kindPhase, text: markdown.HeadingText(line)}
	}

	if m := taskHeadingPattern.FindStringSubmatch(line); m != nil {
		return classifiedLine{
			kind:     kindTask,
			id:       m[1],
			title:    strings.TrimSpace(m[2]),
			parallel: m[3] != "",
		}
	}
	if looseTaskHeadingPattern.MatchString(line) {
		return classifiedLine{kind: kindBadTask}
	}

	if rest, ok := markdown.LabeledField(line, "Description"); ok {
		return classifiedLine{kind: kindDescription, text: rest}
	}
	if rest, ok := markdown.LabeledField(line, "Dependencies"); ok {
		return classifiedLine{kind: kindDependencies, text: rest}
	}
	if rest, ok := markdown.LabeledField(line, "Files"); ok {
		return classifiedLine{kind: kindFiles, text: rest}
	}
	if rest, ok := markdown.LabeledField(line, "Status"); ok {
		return classifiedLine{kind: kindStatus, text: rest}
	}
	if path, ok := markdown.FileListItem(line); ok {
		return classifiedLine{kind: kindFileItem, text: path}
	}

	return classifiedLine{kind: kindText, text: line}
}

// parser is the explicit state machine behind Parse.
type parser struct {
	state   parseState
	phase   string
	current *Task
	tasks   []Task
}

// Parse converts a tasks document into tasks, in heading order.
// Duplicate ids are kept; the first one wins on lookup.
func Parse(content string) []Task {
	p := &parser{}
	for _, line := range markdown.Lines(content) {
		p.feed(classify(line))
	}
	p.flush()
	return p.tasks
}

func (p *parser) feed(l classifiedLine) {
	// Headings are handled in every state.
	switch l.kind {
	case kindPhase:
		p.phase = l.text
		return
	case kindTask:
		p.flush()
		p.current = &Task{
			ID:             l.id,
			Title:          l.title,
			Phase:          p.phase,
			Dependencies:   []string{},
			Files:          []string{},
			ParallelMarker: l.parallel,
		}
		p.state = stateInTask
		return
	case kindBadTask:
		p.flush()
		return
	}

	if p.state == stateIdle {
		return
	}

	switch l.kind {
	case kindDescription:
		p.current.Description = l.text
		p.state = stateInDescription
	case kindDependencies:
		p.current.Dependencies = parseDependencies(l.text)
		p.state = stateInTask
	case kindFiles:
		p.state = stateInTask
	case kindStatus:
		if st, ok := ParseStatus(l.text); ok {
			p.current.Status = st
		}
		p.state = stateInTask
	case kindFileItem:
		p.current.Files = append(p.current.Files, l.text)
	case kindText:
		if p.state == stateInDescription && !markdown.IsBoldLabel(l.text) {
			p.current.Description = strings.TrimSpace(p.current.Description + " " + l.text)
		}
	}
}

// flush closes the open task, if any, and returns to idle.
func (p *parser) flush() {
	if p.current != nil && p.current.ID != "" {
		p.current.Description = strings.TrimSpace(p.current.Description)
		p.tasks = append(p.tasks, *p.current)
	}
	p.current = nil
	p.state = stateIdle
}

// parseDependencies splits a comma-separated id list. "none" means no
// dependencies.
func parseDependencies(value string) []string {
	value = strings.TrimSpace(value)
	deps := []string{}
	if value == "" || strings.EqualFold(value, "none") {
		return deps
	}
	for _, part := range strings.Split(value, ",") {
		if dep := strings.TrimSpace(part); dep != "" {
			deps = append(deps, dep)
		}
	}
	return deps
}

// FindByID returns the first task with the given id.
func FindByID(tasks []Task, id string) (Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// ResolveDependencies returns the tasks that the task with the given id
// depends on, in declared order. Ids that resolve to no task are
// dropped, as is an unknown id itself (empty result).
func ResolveDependencies(tasks []Task, id string) []Task {
	task, ok := FindByID(tasks, id)
	if !ok {
		return []Task{}
	}
	deps := make([]Task, 0, len(task.Dependencies))
	for _, depID := range task.Dependencies {
		if dep, ok := FindByID(tasks, depID); ok {
			deps = append(deps, dep)
		}
	}
	return deps
}
