package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ngmaloney/october-cli/internal/gateway"
)

// ── State ─────────────────────────────────────────────────────────────────────

type browserState int

const (
	stateLoading browserState = iota
	stateList
	stateDetail
	stateError
)

// ── Tea messages ──────────────────────────────────────────────────────────────

type listDoneMsg struct {
	projects []gateway.ProjectSummary
	keys     []string
}

type detailDoneMsg struct{ project gateway.Project }

type errMsg struct{ err error }

// ── Browser ───────────────────────────────────────────────────────────────────

// BrowserOptions configures a Browser.
type BrowserOptions struct {
	// Context parents every gateway call; cancelling it aborts requests
	// in flight. Defaults to context.Background().
	Context context.Context

	Limit  int
	Cursor string
	// RequestTimeout bounds each gateway call made from the UI.
	RequestTimeout time.Duration
}

// Browser is the Bubble Tea model behind the browse command: a project
// table, and a rendered detail page for the selected project.
type Browser struct {
	gw    gateway.Gateway
	opts  BrowserOptions
	state browserState
	err   error

	loadingText string
	projects    []gateway.ProjectSummary
	project     gateway.Project
	emptyNote   string

	table    table.Model
	viewport viewport.Model
	spin     spinner.Model

	width  int
	height int
}

// NewBrowser creates the Browser model.
func NewBrowser(gw gateway.Gateway, opts BrowserOptions) *Browser {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.RequestTimeout == 0 {
		opts.RequestTimeout = 30 * time.Second
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styleSpinner

	tbl := table.New(
		table.WithColumns([]table.Column{
			{Title: "Project Name", Width: 40},
			{Title: "Project ID", Width: 24},
		}),
		table.WithFocused(true),
	)

	return &Browser{
		gw:          gw,
		opts:        opts,
		state:       stateLoading,
		loadingText: "Fetching projects...",
		spin:        sp,
		table:       tbl,
		viewport:    viewport.New(80, 20),
	}
}

// ── Init ──────────────────────────────────────────────────────────────────────

func (b *Browser) Init() tea.Cmd {
	return tea.Batch(
		b.spin.Tick,
		b.listCmd(),
	)
}

func (b *Browser) listCmd() tea.Cmd {
	gw, opts := b.gw, b.opts
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(opts.Context, opts.RequestTimeout)
		defer cancel()

		resp, err := gw.ListProjects(ctx, opts.Limit, opts.Cursor)
		if err != nil {
			return errMsg{err}
		}
		projects, ok := gateway.ParseProjectList(resp.Body)
		if !ok {
			return listDoneMsg{keys: ResponseKeys(resp.Body)}
		}
		return listDoneMsg{projects: projects}
	}
}

func (b *Browser) detailCmd(projectID string) tea.Cmd {
	gw, opts := b.gw, b.opts
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(opts.Context, opts.RequestTimeout)
		defer cancel()

		resp, err := gw.GetProject(ctx, projectID)
		if err != nil {
			return errMsg{err}
		}
		return detailDoneMsg{project: gateway.ParseProject(resp.Body)}
	}
}

// ── Update ────────────────────────────────────────────────────────────────────

func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.rebuildLayout()

	case tea.KeyMsg:
		if cmd, handled := b.handleKey(msg); handled {
			return b, cmd
		}

	case spinner.TickMsg:
		if b.state == stateLoading {
			var cmd tea.Cmd
			b.spin, cmd = b.spin.Update(msg)
			cmds = append(cmds, cmd)
		}

	case listDoneMsg:
		b.projects = msg.projects
		b.emptyNote = ""
		if len(msg.projects) == 0 {
			b.emptyNote = "No projects found or unexpected response format."
			if len(msg.keys) > 0 {
				b.emptyNote += "\nResponse keys: " + strings.Join(msg.keys, ", ")
			}
		}
		rows := make([]table.Row, 0, len(msg.projects))
		for _, p := range msg.projects {
			rows = append(rows, table.Row{orNA(p.Name), orNA(p.ID)})
		}
		b.table.SetRows(rows)
		b.state = stateList

	case detailDoneMsg:
		b.project = msg.project
		b.viewport.SetContent(RenderMarkdown(ProjectMarkdown(msg.project), b.viewport.Width))
		b.viewport.GotoTop()
		b.state = stateDetail

	case errMsg:
		b.err = msg.err
		b.state = stateError

	}

	switch b.state {
	case stateList:
		var cmd tea.Cmd
		b.table, cmd = b.table.Update(msg)
		cmds = append(cmds, cmd)
	case stateDetail:
		var cmd tea.Cmd
		b.viewport, cmd = b.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return b, tea.Batch(cmds...)
}

// handleKey reports handled=true when the key must not reach the focused
// widget.
func (b *Browser) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return tea.Quit, true
	}

	switch b.state {
	case stateError:
		return tea.Quit, true
	case stateList:
		switch msg.String() {
		case "q", "esc":
			return tea.Quit, true
		case "enter":
			row := b.table.SelectedRow()
			if len(row) < 2 || row[1] == NotAvailable {
				return nil, true
			}
			b.state = stateLoading
			b.loadingText = fmt.Sprintf("Fetching details for project %s...", row[1])
			return tea.Batch(b.spin.Tick, b.detailCmd(row[1])), true
		}
	case stateDetail:
		switch msg.String() {
		case "q":
			return tea.Quit, true
		case "esc", "backspace":
			b.state = stateList
			return nil, true
		}
	}
	return nil, false
}

// ── View ──────────────────────────────────────────────────────────────────────

func (b *Browser) View() string {
	switch b.state {
	case stateLoading:
		return b.viewLoading()
	case stateList:
		return b.viewList()
	case stateDetail:
		return b.viewDetail()
	case stateError:
		return b.viewError()
	}
	return ""
}

func (b *Browser) viewLoading() string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		styleAppTitle.Render("October CMS Gateway"),
		"",
		fmt.Sprintf("%s %s", b.spin.View(), b.loadingText),
		"",
		styleHelp.Render("ctrl+c to quit"),
	)
	return b.place(styleBox.Render(content))
}

func (b *Browser) viewList() string {
	title := styleAppTitle.Render("Projects")
	if b.emptyNote != "" {
		return strings.Join([]string{title, "", b.emptyNote, "", styleHelp.Render("  q: quit")}, "\n")
	}
	help := styleHelp.Render("  ↑↓: move   enter: details   q: quit")
	return strings.Join([]string{title, b.table.View(), help}, "\n")
}

func (b *Browser) viewDetail() string {
	title := styleAppTitle.Render("Project Details")
	help := styleHelp.Render("  ↑↓ PgUp PgDn: scroll   esc: back   q: quit")
	return strings.Join([]string{title, b.viewport.View(), help}, "\n")
}

func (b *Browser) viewError() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		styleError.Render("Error"),
		"",
		fmt.Sprintf("%v", b.err),
		"",
		styleHelp.Render("Press any key to quit."),
	)
	return b.place(styleBox.Render(content))
}

// Err returns the failure that ended the session, if any.
func (b *Browser) Err() error {
	return b.err
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (b *Browser) place(box string) string {
	if b.width == 0 || b.height == 0 {
		return box
	}
	return lipgloss.Place(b.width, b.height, lipgloss.Center, lipgloss.Center, box)
}

func (b *Browser) rebuildLayout() {
	if b.width == 0 || b.height == 0 {
		return
	}

	// Layout: title(1) + body + help(1)
	bodyHeight := b.height - 2
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	bodyWidth := b.width
	if bodyWidth < 20 {
		bodyWidth = 20
	}

	b.table.SetHeight(bodyHeight)
	b.table.SetWidth(bodyWidth)
	b.viewport.Width = bodyWidth
	b.viewport.Height = bodyHeight

	if b.state == stateDetail {
		b.viewport.SetContent(RenderMarkdown(ProjectMarkdown(b.project), bodyWidth))
	}
}
