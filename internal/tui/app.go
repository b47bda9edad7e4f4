// Package tui implements the interactive terminal UI: a search page over the
// parts index, a part detail view and a catalog browse page with upload,
// delete, rename/move and background job tracking.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tormodhaugland/ipcq/internal/api"
	"github.com/tormodhaugland/ipcq/internal/catalog"
	"github.com/tormodhaugland/ipcq/internal/config"
	"github.com/tormodhaugland/ipcq/internal/history"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	tabStyle      = lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("241"))
	activeTab     = lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(lipgloss.Color("212"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	markStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
)

type page int

const (
	pageSearch page = iota
	pagePart
	pageBrowse
)

// Model is the top-level TUI model. The search, part-detail and browse pages
// keep their own state; Model routes messages and draws the tab bar.
type Model struct {
	cfg    *config.Config
	client *api.Client

	page   page
	search searchPage
	part   partPage
	browse browsePage

	width  int
	height int
}

// capsMsg delivers the session capabilities fetch.
type capsMsg struct {
	caps *api.Capabilities
	err  error
}

// New builds the TUI over an API client and an optional history store
// (nil disables search history).
func New(cfg *config.Config, client *api.Client, hist *history.DB) Model {
	dir := catalog.NewDirectoryModel(client)
	tracker := catalog.NewJobTracker(client)
	coord := catalog.NewCoordinator(client, dir, tracker)

	return Model{
		cfg:    cfg,
		client: client,
		search: newSearchPage(cfg, client, hist),
		part:   newPartPage(client, hist),
		browse: newBrowsePage(dir, tracker, coord),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.search.init(),
		m.browse.init(),
		m.fetchCapabilities(),
	)
}

func (m Model) fetchCapabilities() tea.Cmd {
	return func() tea.Msg {
		caps, err := m.client.Capabilities(context.Background())
		return capsMsg{caps: caps, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.search = m.search.withSize(msg.Width, msg.Height)
		m.part = m.part.withSize(msg.Width, msg.Height)
		m.browse = m.browse.withSize(msg.Width, msg.Height)
		return m, nil

	case capsMsg:
		// A failed capabilities fetch leaves the defaults (everything
		// enabled); the server rejects what it must either way.
		if msg.err == nil && msg.caps != nil {
			m.browse.coord.SetCapabilities(*msg.caps)
		}
		return m, nil

	case openPartMsg:
		m.page = pagePart
		var cmd tea.Cmd
		m.part, cmd = m.part.open(msg.id)
		return m, cmd

	case closePartMsg:
		m.page = pageSearch
		return m, nil

	case tea.KeyMsg:
		if !m.editingText() {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "tab":
				if m.page == pageSearch {
					m.page = pageBrowse
				} else if m.page == pageBrowse {
					m.page = pageSearch
				}
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	switch m.page {
	case pageSearch:
		m.search, cmd = m.search.update(msg)
	case pagePart:
		m.part, cmd = m.part.update(msg)
	case pageBrowse:
		m.browse, cmd = m.browse.update(msg)
	}
	return m, cmd
}

// editingText reports whether the focused page has a text input grabbing
// keystrokes, in which case global shortcuts other than ctrl+c stay off.
func (m Model) editingText() bool {
	switch m.page {
	case pageSearch:
		return m.search.input.Focused()
	case pageBrowse:
		return m.browse.editing()
	}
	return false
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	tabs := m.tabBar()
	var body string
	switch m.page {
	case pageSearch:
		body = m.search.view()
	case pagePart:
		body = m.part.view()
	case pageBrowse:
		body = m.browse.view()
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabs, body)
}

func (m Model) tabBar() string {
	searchTab := tabStyle.Render("搜索")
	browseTab := tabStyle.Render("目录")
	switch m.page {
	case pageSearch, pagePart:
		searchTab = activeTab.Render("搜索")
	case pageBrowse:
		browseTab = activeTab.Render("目录")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, titleStyle.Render(" ipcq "), searchTab, browseTab)
}

// Run starts the TUI against the configured server.
func Run(cfg *config.Config) error {
	client := api.New(cfg.ServerURL, cfg.Timeout())
	if cfg.APIKey != "" {
		client.SetAPIKey(cfg.APIKey)
	}

	hist, err := history.Open(cfg.HistoryPath())
	if err != nil {
		// History is a convenience; the TUI works without it.
		hist = nil
	} else {
		defer hist.Close()
	}

	m := New(cfg, client, hist)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
