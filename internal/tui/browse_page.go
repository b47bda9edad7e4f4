package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
	"github.com/tormodhaugland/ipcq/internal/api"
	"github.com/tormodhaugland/ipcq/internal/catalog"
)

// browseMode is the input mode of the browse page. List mode handles
// navigation keys; the others route keystrokes into a text input or a
// confirm prompt.
type browseMode int

const (
	modeList browseMode = iota
	modeConfirmDelete
	modeNewFolder
	modeUpload
	modeFilter
	modeRowEdit // inline rename or move, driven by coord.Rows()
)

type dirLoadedMsg struct {
	err   error
	stale bool
}

type opDoneMsg struct{}

type jobsTickMsg struct{}

// browseRow is one visible line: a directory or a file of the current level.
type browseRow struct {
	isDir bool
	dir   api.TreeDir
	file  api.TreeFile
}

func (r browseRow) path() string {
	if r.isDir {
		return r.dir.Path
	}
	return r.file.RelativePath
}

func (r browseRow) name() string {
	if r.isDir {
		return r.dir.Name
	}
	return r.file.Name
}

type browsePage struct {
	dir     *catalog.DirectoryModel
	tracker *catalog.JobTracker
	coord   *catalog.Coordinator

	mode    browseMode
	cursor  int
	input   textinput.Model
	editRow string // normalized path of the row being renamed/moved
	filter  string
	loaded  bool

	width  int
	height int
}

func newBrowsePage(dir *catalog.DirectoryModel, tracker *catalog.JobTracker, coord *catalog.Coordinator) browsePage {
	input := textinput.New()
	input.CharLimit = 256
	input.Width = 48

	return browsePage{
		dir:     dir,
		tracker: tracker,
		coord:   coord,
		input:   input,
	}
}

func (p browsePage) init() tea.Cmd {
	dir := p.dir
	tracker := p.tracker
	tracker.OnAllSettled(func() {
		dir.Refresh(context.Background())
	})
	return tea.Batch(p.load(""), tickCmd())
}

func (p browsePage) withSize(w, h int) browsePage {
	p.width, p.height = w, h
	return p
}

func (p browsePage) editing() bool {
	return p.input.Focused()
}

func tickCmd() tea.Cmd {
	return tea.Tick(catalog.PollInterval, func(time.Time) tea.Msg {
		return jobsTickMsg{}
	})
}

func (p browsePage) load(path string) tea.Cmd {
	dir := p.dir
	return func() tea.Msg {
		err := dir.LoadDirectory(context.Background(), path, catalog.LoadOptions{Push: true})
		if err == catalog.ErrStaleLoad {
			return dirLoadedMsg{stale: true}
		}
		return dirLoadedMsg{err: err}
	}
}

// rows flattens the current level into display order: directories first,
// then files, optionally fuzzy-filtered by name.
func (p browsePage) rows() []browseRow {
	var rows []browseRow
	if node := p.dir.CachedNode(p.dir.CurrentPath()); node != nil {
		for _, d := range node.Directories {
			rows = append(rows, browseRow{isDir: true, dir: d})
		}
	}
	for _, f := range p.dir.VisibleFiles() {
		rows = append(rows, browseRow{file: f})
	}

	if p.filter == "" {
		return rows
	}
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.name()
	}
	var filtered []browseRow
	for _, m := range fuzzy.Find(p.filter, names) {
		filtered = append(filtered, rows[m.Index])
	}
	return filtered
}

func (p browsePage) update(msg tea.Msg) (browsePage, tea.Cmd) {
	switch msg := msg.(type) {
	case dirLoadedMsg:
		p.loaded = true
		// A failed or superseded load leaves the view in place; resetting
		// the cursor and filter would throw away the user's position.
		if msg.err == nil && !msg.stale {
			p.cursor = 0
			p.filter = ""
		}
		return p, nil

	case opDoneMsg:
		return p, nil

	case jobsTickMsg:
		tracker := p.tracker
		if !tracker.Active() {
			return p, tickCmd()
		}
		return p, tea.Batch(
			func() tea.Msg {
				tracker.Tick(context.Background())
				return opDoneMsg{}
			},
			tickCmd(),
		)

	case tea.KeyMsg:
		switch p.mode {
		case modeList:
			return p.updateList(msg)
		case modeConfirmDelete:
			return p.updateConfirmDelete(msg)
		case modeNewFolder, modeUpload, modeFilter:
			return p.updatePrompt(msg)
		case modeRowEdit:
			return p.updateRowEdit(msg)
		}
	}
	return p, nil
}

func (p browsePage) updateList(msg tea.KeyMsg) (browsePage, tea.Cmd) {
	rows := p.rows()
	switch msg.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(rows)-1 {
			p.cursor++
		}
	case "enter":
		if p.cursor < len(rows) && rows[p.cursor].isDir {
			return p, p.load(rows[p.cursor].dir.Path)
		}
	case "backspace", "left", "h":
		current := p.dir.CurrentPath()
		if current != "" {
			return p, p.load(catalog.ParentDir(current))
		}
	case " ":
		if p.cursor < len(rows) && !rows[p.cursor].isDir {
			path := rows[p.cursor].file.RelativePath
			p.dir.SetSelected(path, !p.dir.IsSelected(path))
		}
	case "a":
		for _, f := range p.dir.VisibleFiles() {
			p.dir.SetSelected(f.RelativePath, true)
		}
	case "A":
		p.dir.ClearSelection()
	case "d":
		if len(p.dir.SelectedPaths()) > 0 {
			p.mode = modeConfirmDelete
		}
	case "r":
		if p.cursor < len(rows) && !rows[p.cursor].isDir {
			p.editRow = catalog.Normalize(rows[p.cursor].file.RelativePath)
			p.coord.BeginRename(p.editRow)
			row, _ := p.coord.Rows().Get(p.editRow)
			p.input.SetValue(row.Value)
			p.input.Focus()
			p.mode = modeRowEdit
			return p, textinput.Blink
		}
	case "v":
		if p.cursor < len(rows) && !rows[p.cursor].isDir {
			p.editRow = catalog.Normalize(rows[p.cursor].file.RelativePath)
			p.coord.BeginMove(p.editRow)
			row, _ := p.coord.Rows().Get(p.editRow)
			p.input.SetValue(row.Value)
			p.input.Focus()
			p.mode = modeRowEdit
			return p, textinput.Blink
		}
	case "n":
		p.input.SetValue("")
		p.input.Placeholder = "文件夹名称"
		p.input.Focus()
		p.mode = modeNewFolder
		return p, textinput.Blink
	case "u":
		p.input.SetValue("")
		p.input.Placeholder = "本地 PDF 路径"
		p.input.Focus()
		p.mode = modeUpload
		return p, textinput.Blink
	case "f", "/":
		p.input.SetValue("")
		p.input.Placeholder = "过滤"
		p.input.Focus()
		p.mode = modeFilter
		return p, textinput.Blink
	case "s":
		coord := p.coord
		return p, func() tea.Msg {
			coord.TriggerRescan(context.Background())
			return opDoneMsg{}
		}
	case "R":
		dir := p.dir
		return p, func() tea.Msg {
			dir.Refresh(context.Background())
			return dirLoadedMsg{}
		}
	case "q":
		return p, tea.Quit
	}
	return p, nil
}

func (p browsePage) updateConfirmDelete(msg tea.KeyMsg) (browsePage, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		p.mode = modeList
		coord := p.coord
		paths := p.dir.SelectedPaths()
		return p, func() tea.Msg {
			coord.DeleteSelected(context.Background(), paths)
			return opDoneMsg{}
		}
	case "n", "N", "esc":
		p.mode = modeList
	}
	return p, nil
}

func (p browsePage) updatePrompt(msg tea.KeyMsg) (browsePage, tea.Cmd) {
	switch msg.String() {
	case "esc":
		p.mode = modeList
		p.filter = ""
		p.input.Blur()
		return p, nil
	case "enter":
		value := p.input.Value()
		mode := p.mode
		p.mode = modeList
		p.input.Blur()
		switch mode {
		case modeNewFolder:
			coord := p.coord
			return p, func() tea.Msg {
				coord.CreateFolder(context.Background(), value)
				return opDoneMsg{}
			}
		case modeUpload:
			return p, p.uploadCmd(value)
		case modeFilter:
			p.filter = strings.TrimSpace(value)
			p.cursor = 0
			return p, nil
		}
		return p, nil
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if p.mode == modeFilter {
		p.filter = strings.TrimSpace(p.input.Value())
		p.cursor = 0
	}
	return p, cmd
}

func (p browsePage) uploadCmd(localPath string) tea.Cmd {
	coord := p.coord
	return func() tea.Msg {
		localPath = strings.TrimSpace(localPath)
		if localPath == "" {
			return opDoneMsg{}
		}
		data, err := os.ReadFile(localPath)
		if err != nil {
			p.tracker.PushLocalFailure(catalog.KindImport, filepath.Base(localPath), err.Error())
			return opDoneMsg{}
		}
		coord.SubmitUploads(context.Background(), []catalog.UploadFile{{
			Name:    filepath.Base(localPath),
			Content: strings.NewReader(string(data)),
			Size:    int64(len(data)),
		}})
		return opDoneMsg{}
	}
}

func (p browsePage) updateRowEdit(msg tea.KeyMsg) (browsePage, tea.Cmd) {
	switch msg.String() {
	case "esc":
		p.coord.ClearRow(p.editRow)
		p.mode = modeList
		p.input.Blur()
		return p, nil
	case "enter":
		p.coord.Rows().SetValue(p.editRow, p.input.Value())
		coord := p.coord
		path := p.editRow
		row, _ := p.coord.Rows().Get(path)
		p.input.Blur()
		p.mode = modeList
		return p, func() tea.Msg {
			ctx := context.Background()
			if row.Mode == catalog.RowMoving {
				coord.ApplyMove(ctx, path)
			} else {
				coord.ApplyRename(ctx, path)
			}
			return rowEditDoneMsg{path: path}
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

type rowEditDoneMsg struct{ path string }

func (p browsePage) view() string {
	var sb strings.Builder

	current := p.dir.CurrentPath()
	crumb := "/"
	if current != "" {
		crumb = "/" + current
	}
	sb.WriteString(titleStyle.Render(crumb) + "\n")
	if status := p.dir.Status(); status != "" {
		sb.WriteString(errorStyle.Render(status) + "\n")
	}
	sb.WriteString("\n")

	sb.WriteString(p.listView())
	sb.WriteString(p.statusView())
	sb.WriteString(p.jobsView())

	switch p.mode {
	case modeConfirmDelete:
		n := len(p.dir.SelectedPaths())
		sb.WriteString("\n" + errorStyle.Render(fmt.Sprintf("确认删除选中的 %d 个文件？(y/n)", n)))
	case modeNewFolder, modeUpload, modeFilter:
		sb.WriteString("\n" + p.input.View())
	}

	sb.WriteString("\n" + helpStyle.Render("space: 选择  d: 删除  r: 重命名  v: 移动  n: 新建文件夹  u: 上传  s: 重新扫描  f: 过滤  tab: 搜索"))
	return sb.String()
}

func (p browsePage) listView() string {
	rows := p.rows()
	if !p.loaded {
		return pendingStyle.Render("加载中…") + "\n"
	}
	if len(rows) == 0 {
		return dimStyle.Render("（空目录）") + "\n"
	}

	var sb strings.Builder
	for i, r := range rows {
		var line string
		switch {
		case r.isDir:
			line = "▸ " + r.dir.Name + "/"
		default:
			check := "[ ]"
			if p.dir.IsSelected(r.file.RelativePath) {
				check = "[x]"
			}
			indexed := ""
			if !r.file.Indexed {
				indexed = dimStyle.Render("（未索引）")
			}
			line = fmt.Sprintf("%s %s %s", check, r.file.Name, indexed)

			if row, ok := p.coord.Rows().Get(r.file.RelativePath); ok {
				line += "  " + rowEditView(row, p.mode == modeRowEdit && p.editRow == catalog.Normalize(r.file.RelativePath), p.input)
			}
		}

		if i == p.cursor {
			sb.WriteString(selectedStyle.Render("> ") + line + "\n")
		} else {
			sb.WriteString("  " + line + "\n")
		}
	}
	return sb.String()
}

func rowEditView(row catalog.RowAction, active bool, input textinput.Model) string {
	label := "重命名为:"
	if row.Mode == catalog.RowMoving {
		label = "移动到:"
	}
	var value string
	if active {
		value = input.View()
	} else {
		value = row.Value
	}
	s := dimStyle.Render(label) + " " + value
	switch row.Phase {
	case catalog.RowPending:
		s += " " + pendingStyle.Render("提交中…")
	case catalog.RowError:
		s += " " + errorStyle.Render(row.Err)
	}
	return s
}

// statusView shows the last outcome of each coordinator operation that has
// something to say.
func (p browsePage) statusView() string {
	var sb strings.Builder
	for _, kind := range []catalog.ActionKind{
		catalog.ActionUpload, catalog.ActionDelete, catalog.ActionCreateFolder, catalog.ActionRescan,
	} {
		status := p.coord.Status(kind)
		switch status.Phase {
		case catalog.ActionPending:
			sb.WriteString(pendingStyle.Render(status.Message) + "\n")
		case catalog.ActionSuccess:
			sb.WriteString(successStyle.Render(status.Message) + "\n")
		case catalog.ActionError:
			sb.WriteString(errorStyle.Render(status.Message) + "\n")
		}
	}
	if sb.Len() == 0 {
		return ""
	}
	return "\n" + sb.String()
}

func (p browsePage) jobsView() string {
	jobs := p.tracker.Jobs()
	if len(jobs) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\n" + dimStyle.Render("后台任务：") + "\n")
	limit := len(jobs)
	if limit > 8 {
		limit = 8
	}
	for _, j := range jobs[:limit] {
		line := fmt.Sprintf("  [%s] %s %s", j.Kind, jobStatusText(j.Status), j.PathText)
		if j.Error != "" {
			line += " " + errorStyle.Render(j.Error)
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

func jobStatusText(status string) string {
	switch status {
	case api.JobQueued:
		return dimStyle.Render("排队中")
	case api.JobRunning:
		return pendingStyle.Render("进行中")
	case api.JobSuccess:
		return successStyle.Render("完成")
	case api.JobFailed:
		return errorStyle.Render("失败")
	}
	return status
}
