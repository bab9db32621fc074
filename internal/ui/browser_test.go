package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ngmaloney/october-cli/internal/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	list    map[string]any
	listErr error
	project map[string]any
	getErr  error
	gotID   string
}

func (f *fakeGateway) ListProjects(context.Context, int, string) (*gateway.Response, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return &gateway.Response{StatusCode: 200, Body: f.list}, nil
}

func (f *fakeGateway) GetProject(_ context.Context, id string) (*gateway.Response, error) {
	f.gotID = id
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &gateway.Response{StatusCode: 200, Body: f.project}, nil
}

func sampleList() map[string]any {
	return map[string]any{"data": []any{
		map[string]any{"name": "Site A", "project_id": "abc123"},
		map[string]any{"name": "Site B", "project_id": "def456"},
	}}
}

func TestBrowserLoadsProjects(t *testing.T) {
	t.Parallel()

	b := NewBrowser(&fakeGateway{list: sampleList()}, BrowserOptions{})
	require.Equal(t, stateLoading, b.state)
	assert.Contains(t, b.View(), "Fetching projects...")

	b.Update(b.listCmd()())

	assert.Equal(t, stateList, b.state)
	assert.Len(t, b.projects, 2)
	view := b.View()
	assert.Contains(t, view, "Site A")
	assert.Contains(t, view, "def456")
}

func TestBrowserUnexpectedShape(t *testing.T) {
	t.Parallel()

	b := NewBrowser(&fakeGateway{list: map[string]any{"items": 1, "meta": 2}}, BrowserOptions{})
	b.Update(b.listCmd()())

	assert.Equal(t, stateList, b.state)
	view := b.View()
	assert.Contains(t, view, "No projects found or unexpected response format.")
	assert.Contains(t, view, "Response keys: items, meta")
}

func TestBrowserOpensDetail(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{
		list:    sampleList(),
		project: map[string]any{"name": "Site A", "project_id": "abc123", "plugins": []any{"RainLab.Blog"}},
	}
	b := NewBrowser(gw, BrowserOptions{})
	b.Update(b.listCmd()())

	_, cmd := b.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, stateLoading, b.state)
	assert.Contains(t, b.View(), "Fetching details for project abc123...")

	b.Update(b.detailCmd("abc123")())
	assert.Equal(t, "abc123", gw.gotID)
	assert.Equal(t, stateDetail, b.state)
	assert.Equal(t, "Site A", b.project.Name)
	assert.Equal(t, []string{"RainLab.Blog"}, b.project.Plugins)
	assert.Contains(t, b.View(), "Project Details")

	b.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, stateList, b.state)
}

func TestBrowserError(t *testing.T) {
	t.Parallel()

	apiErr := &gateway.APIError{StatusCode: 401, Code: "unauthorized", Message: "Invalid signature"}
	b := NewBrowser(&fakeGateway{listErr: apiErr}, BrowserOptions{})
	b.Update(b.listCmd()())

	assert.Equal(t, stateError, b.state)
	assert.True(t, errors.Is(b.Err(), gateway.ErrAPI))
	assert.Contains(t, b.View(), "Invalid signature")

	_, cmd := b.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestBrowserQuitKeys(t *testing.T) {
	t.Parallel()

	b := NewBrowser(&fakeGateway{list: sampleList()}, BrowserOptions{})
	_, cmd := b.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	b.Update(b.listCmd()())
	_, cmd = b.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestBrowserWindowResize(t *testing.T) {
	t.Parallel()

	b := NewBrowser(&fakeGateway{list: sampleList()}, BrowserOptions{})
	b.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	assert.Equal(t, 100, b.viewport.Width)
	assert.Equal(t, 28, b.viewport.Height)
}

// blockingGateway answers only once ctx is done.
type blockingGateway struct{}

func (blockingGateway) ListProjects(ctx context.Context, _ int, _ string) (*gateway.Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingGateway) GetProject(ctx context.Context, _ string) (*gateway.Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestBrowserRequestsFollowParentContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewBrowser(blockingGateway{}, BrowserOptions{Context: ctx, RequestTimeout: time.Hour})

	b.Update(b.listCmd()())
	assert.Equal(t, stateError, b.state)
	assert.ErrorIs(t, b.Err(), context.Canceled)

	msg := b.detailCmd("abc123")()
	require.IsType(t, errMsg{}, msg)
	assert.ErrorIs(t, msg.(errMsg).err, context.Canceled)
}
