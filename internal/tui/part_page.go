package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tormodhaugland/ipcq/internal/api"
	"github.com/tormodhaugland/ipcq/internal/history"
	"github.com/tormodhaugland/ipcq/internal/ipc"
)

type partDoneMsg struct {
	detail *api.PartDetail
	faved  bool
	err    error
}

type closePartMsg struct{}

type partPage struct {
	client *api.Client
	hist   *history.DB

	detail    *api.PartDetail
	loading   bool
	errMsg    string
	faved     bool
	statusMsg string

	width  int
	height int
}

func newPartPage(client *api.Client, hist *history.DB) partPage {
	return partPage{client: client, hist: hist}
}

func (p partPage) withSize(w, h int) partPage {
	p.width, p.height = w, h
	return p
}

func (p partPage) open(id int64) (partPage, tea.Cmd) {
	p.loading = true
	p.errMsg = ""
	p.statusMsg = ""
	p.detail = nil
	p.faved = false
	client := p.client
	hist := p.hist
	return p, func() tea.Msg {
		detail, err := client.Part(context.Background(), id)
		var faved bool
		if err == nil && hist != nil {
			faved, _ = hist.IsFavorite(id)
		}
		return partDoneMsg{detail: detail, faved: faved, err: err}
	}
}

func (p partPage) update(msg tea.Msg) (partPage, tea.Cmd) {
	switch msg := msg.(type) {
	case partDoneMsg:
		p.loading = false
		if msg.err != nil {
			if api.IsNotFound(msg.err) {
				p.errMsg = "零件不存在"
			} else {
				p.errMsg = fmt.Sprintf("加载失败：%v", msg.err)
			}
			return p, nil
		}
		p.detail = msg.detail
		p.faved = msg.faved
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q", "backspace":
			return p, func() tea.Msg { return closePartMsg{} }
		case "f":
			return p.toggleFavorite(), nil
		}
	}
	return p, nil
}

// toggleFavorite bookmarks the shown part or removes the bookmark. Without
// a history store the key is a no-op.
func (p partPage) toggleFavorite() partPage {
	if p.detail == nil || p.hist == nil {
		return p
	}
	part := p.detail.Part
	if p.faved {
		if err := p.hist.RemoveFavorite(part.ID); err != nil {
			p.statusMsg = fmt.Sprintf("取消收藏失败：%v", err)
			return p
		}
		p.faved = false
		p.statusMsg = "已取消收藏"
		return p
	}
	pn := ipc.PartNumber(part.PartNumberCanonical, part.PartNumberExtracted, part.PartNumberCell)
	desc := firstNonEmpty(part.NomenclatureClean, part.Nomenclature)
	if err := p.hist.AddFavorite(part.ID, pn, desc, part.SourcePDF); err != nil {
		p.statusMsg = fmt.Sprintf("收藏失败：%v", err)
		return p
	}
	p.faved = true
	p.statusMsg = "已收藏"
	return p
}

func (p partPage) view() string {
	if p.loading {
		return pendingStyle.Render("加载中…")
	}
	if p.errMsg != "" {
		return errorStyle.Render(p.errMsg) + "\n\n" + helpStyle.Render("esc: 返回")
	}
	if p.detail == nil {
		return ""
	}

	d := p.detail
	part := d.Part
	var sb strings.Builder

	pn := ipc.PartNumber(part.PartNumberCanonical, part.PartNumberExtracted, part.PartNumberCell)
	title := titleStyle.Render(pn)
	if p.faved {
		title += " " + markStyle.Render("★")
	}
	sb.WriteString(title + "\n\n")
	sb.WriteString(fmt.Sprintf("名称:     %s\n", firstNonEmpty(part.NomenclatureClean, part.Nomenclature)))
	sb.WriteString(fmt.Sprintf("来源:     %s 第 %d 页\n", part.SourcePDF, part.PageNum))
	if part.FigureCode != "" {
		sb.WriteString(fmt.Sprintf("图号:     %s %s\n", part.FigureCode, part.FigureLabel))
	}
	if fig := ipc.FigItemDisplay(part.FigItem, "", part.NotIllustrated != 0); fig != "" {
		sb.WriteString(fmt.Sprintf("图项:     %s\n", fig))
	}
	if part.Effectivity != "" {
		sb.WriteString(fmt.Sprintf("适用性:   %s\n", part.Effectivity))
	}
	if part.UnitsPerAssy != "" {
		sb.WriteString(fmt.Sprintf("装机数:   %s\n", part.UnitsPerAssy))
	}

	if len(part.AttachedNotes) > 0 {
		sb.WriteString("\n备注:\n")
		for _, n := range part.AttachedNotes {
			sb.WriteString("  • " + n.Text + "\n")
		}
	}

	if len(d.Aliases) > 0 {
		sb.WriteString("\n别名:\n")
		for _, a := range d.Aliases {
			sb.WriteString(fmt.Sprintf("  %s (%s)\n", a.AliasValue, a.AliasType))
		}
	}

	if len(d.Xrefs) > 0 {
		sb.WriteString("\n交叉引用:\n")
		for _, x := range d.Xrefs {
			sb.WriteString(fmt.Sprintf("  %s → %s\n", x.Kind, x.Target))
		}
	}

	sb.WriteString(hierarchyView(d.Hierarchy))
	if p.statusMsg != "" {
		sb.WriteString("\n" + successStyle.Render(p.statusMsg) + "\n")
	}
	sb.WriteString("\n" + helpStyle.Render("f: 收藏  esc: 返回"))
	return sb.String()
}

func hierarchyView(h api.Hierarchy) string {
	if len(h.Ancestors) == 0 && len(h.Children) == 0 && len(h.Siblings) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\n装配层级:\n")
	depth := 0
	for _, a := range h.Ancestors {
		sb.WriteString(strings.Repeat("  ", depth) + hierarchyLine(a) + "\n")
		depth++
	}
	for _, c := range h.Children {
		sb.WriteString(strings.Repeat("  ", depth+1) + hierarchyLine(c) + "\n")
	}
	return sb.String()
}

func hierarchyLine(n api.PartNode) string {
	return fmt.Sprintf("%s  %s", n.PartNumber, dimStyle.Render(n.Nomenclature))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
