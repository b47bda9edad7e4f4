package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tormodhaugland/ipcq/internal/api"
	"github.com/tormodhaugland/ipcq/internal/config"
	"github.com/tormodhaugland/ipcq/internal/history"
	"github.com/tormodhaugland/ipcq/internal/ipc"
)

// matchModes cycles through the server's match parameter values. "all"
// lets the server pick part-number ranking for PN-like queries on its own.
var matchModes = []string{"all", "pn", "term"}

type searchDoneMsg struct {
	query string
	resp  *api.SearchResponse
	err   error
}

type openPartMsg struct{ id int64 }

type searchPage struct {
	cfg    *config.Config
	client *api.Client
	hist   *history.DB

	input     textinput.Model
	matchIdx  int
	page      int
	resp      *api.SearchResponse
	cursor    int
	searching bool
	errMsg    string
	recent    []history.SearchEntry

	width  int
	height int
}

func newSearchPage(cfg *config.Config, client *api.Client, hist *history.DB) searchPage {
	input := textinput.New()
	input.Placeholder = "零件号或名称…"
	input.CharLimit = 128
	input.Width = 48
	input.Focus()

	return searchPage{
		cfg:    cfg,
		client: client,
		hist:   hist,
		input:  input,
		page:   1,
	}
}

func (p searchPage) init() tea.Cmd {
	return tea.Batch(textinput.Blink, p.loadRecent())
}

func (p searchPage) withSize(w, h int) searchPage {
	p.width, p.height = w, h
	return p
}

func (p searchPage) loadRecent() tea.Cmd {
	if p.hist == nil {
		return nil
	}
	hist := p.hist
	return func() tea.Msg {
		entries, err := hist.RecentSearches(8)
		if err != nil {
			return recentMsg{}
		}
		return recentMsg{entries: entries}
	}
}

type recentMsg struct{ entries []history.SearchEntry }

func (p searchPage) runSearch(page int) (searchPage, tea.Cmd) {
	query := strings.TrimSpace(p.input.Value())
	if query == "" {
		return p, nil
	}
	p.searching = true
	p.errMsg = ""
	p.page = ipc.ClampPage(page)

	client := p.client
	hist := p.hist
	q := api.SearchQuery{
		Query:    query,
		Match:    matchModes[p.matchIdx],
		Page:     p.page,
		PageSize: ipc.ClampPageSize(ipc.PositiveInt(p.cfg.PageSize, ipc.DefaultPageSize)),
	}
	return p, func() tea.Msg {
		resp, err := client.Search(context.Background(), q)
		if err == nil && hist != nil && q.Page == 1 {
			hist.AddSearch(q.Query, q.Match, resp.Total)
		}
		return searchDoneMsg{query: query, resp: resp, err: err}
	}
}

func (p searchPage) update(msg tea.Msg) (searchPage, tea.Cmd) {
	switch msg := msg.(type) {
	case recentMsg:
		p.recent = msg.entries
		return p, nil

	case searchDoneMsg:
		p.searching = false
		if msg.err != nil {
			p.errMsg = fmt.Sprintf("搜索失败：%v", msg.err)
			return p, nil
		}
		p.resp = msg.resp
		p.cursor = 0
		return p, p.loadRecent()

	case tea.KeyMsg:
		if p.input.Focused() {
			switch msg.String() {
			case "enter":
				p.input.Blur()
				return p.runSearch(1)
			case "esc":
				p.input.Blur()
				return p, nil
			case "ctrl+p":
				p.matchIdx = (p.matchIdx + 1) % len(matchModes)
				return p, nil
			}
			var cmd tea.Cmd
			p.input, cmd = p.input.Update(msg)
			return p, cmd
		}

		switch msg.String() {
		case "/", "i":
			p.input.Focus()
			return p, textinput.Blink
		case "m":
			p.matchIdx = (p.matchIdx + 1) % len(matchModes)
			if p.resp != nil {
				return p.runSearch(1)
			}
			return p, nil
		case "up", "k":
			if p.cursor > 0 {
				p.cursor--
			}
		case "down", "j":
			if p.resp != nil && p.cursor < len(p.resp.Results)-1 {
				p.cursor++
			}
		case "left", "h":
			if p.resp != nil && p.page > 1 {
				return p.runSearch(p.page - 1)
			}
		case "right", "l":
			if p.resp != nil && p.page < ipc.TotalPages(p.resp.Total, p.resp.PageSize) {
				return p.runSearch(p.page + 1)
			}
		case "enter":
			if p.resp != nil && p.cursor < len(p.resp.Results) {
				id := p.resp.Results[p.cursor].ID
				return p, func() tea.Msg { return openPartMsg{id: id} }
			}
		case "q":
			return p, tea.Quit
		}
	}

	return p, nil
}

// matchHint nudges toward part-number matching when the query is shaped
// like a part number but term matching is selected. "all" needs no hint:
// the server ranks PN-like queries by part number on its own.
func matchHint(query, mode string) string {
	if mode == "term" && ipc.LooksLikePartNumber(query) {
		return "查询形似件号，m 切换匹配模式"
	}
	return ""
}

func (p searchPage) view() string {
	var sb strings.Builder

	matchLine := "match: " + matchModes[p.matchIdx]
	if hint := matchHint(strings.TrimSpace(p.input.Value()), matchModes[p.matchIdx]); hint != "" {
		matchLine += "  " + hint
	}
	sb.WriteString(fmt.Sprintf("%s  %s\n\n", p.input.View(), dimStyle.Render(matchLine)))

	switch {
	case p.searching:
		sb.WriteString(pendingStyle.Render("搜索中…") + "\n")
	case p.errMsg != "":
		sb.WriteString(errorStyle.Render(p.errMsg) + "\n")
	case p.resp != nil:
		sb.WriteString(p.resultsView())
	default:
		sb.WriteString(p.recentView())
	}

	sb.WriteString("\n" + helpStyle.Render("/: 输入  m: 匹配模式  ←/→: 翻页  enter: 详情  tab: 目录  q: 退出"))
	return sb.String()
}

func (p searchPage) resultsView() string {
	resp := p.resp
	var sb strings.Builder

	sb.WriteString(dimStyle.Render(fmt.Sprintf("共 %d 条，第 %d/%d 页（%d ms）",
		resp.Total, resp.Page, ipc.TotalPages(resp.Total, resp.PageSize), resp.ElapsedMS)) + "\n\n")

	if len(resp.Results) == 0 {
		sb.WriteString(dimStyle.Render("无结果") + "\n")
		return sb.String()
	}

	mark := func(s string) string { return markStyle.Render(s) }
	for i, r := range resp.Results {
		pn := ipc.PartNumber(r.PartNumberCanonical, r.PartNumberExtracted, r.PartNumberCell)
		fig := ipc.FigItemDisplay(r.FigItem, "", r.NotIllustrated != 0)
		line := fmt.Sprintf("%-24s %-6s %s", ipc.Highlight(pn, resp.Query, mark), fig,
			ipc.Highlight(r.NomenclaturePreview, resp.Query, mark))
		loc := dimStyle.Render(fmt.Sprintf("  %s p.%d %s", r.SourcePDF, r.PageNum, r.FigureCode))

		if i == p.cursor {
			sb.WriteString(selectedStyle.Render("> ") + line + loc + "\n")
		} else {
			sb.WriteString("  " + line + loc + "\n")
		}
	}
	return sb.String()
}

func (p searchPage) recentView() string {
	if len(p.recent) == 0 {
		return dimStyle.Render("输入关键词后回车搜索") + "\n"
	}
	var sb strings.Builder
	sb.WriteString(dimStyle.Render("最近搜索：") + "\n")
	for _, e := range p.recent {
		sb.WriteString(fmt.Sprintf("  %s %s\n", e.Query, dimStyle.Render(fmt.Sprintf("(%d)", e.ResultCount))))
	}
	return sb.String()
}
