package main

import (
	"fmt"
	"log/slog"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/weftui/weft/pkg/collections"
	"github.com/weftui/weft/pkg/controls"
	"github.com/weftui/weft/pkg/weft"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	statusStyle = lipgloss.NewStyle().Faint(true)
)

// app is the demo root: a title bar, a TabNavigator filling the middle,
// and a status line reporting the latest selection.
type app struct {
	weft.Base

	tabs  *controls.TabNavigator
	tree  *controls.TreeView
	list  *controls.ListView
	combo *controls.ComboBox

	status string

	width  int
	height int
}

func newApp(cfg Config) *app {
	a := &app{status: "ready"}

	a.tree = newProjectTree(a)
	a.list = newTaskList(a, cfg.Rows)
	a.combo = newThemeCombo(a, cfg.PopupHeight)

	a.tabs = controls.NewTabNavigator()
	// AddTab on the built-in ArrayList source cannot fail.
	_ = a.tabs.AddTab(controls.NewTab("Project", a.tree))
	_ = a.tabs.AddTab(controls.NewTab("Tasks", a.list))
	_ = a.tabs.AddTab(controls.NewTab("Theme", a.combo))
	a.tabs.OnSelectionChange = func(index int, tab *controls.TabItem) {
		if tab != nil {
			a.setStatus("tab: " + tab.Title)
		}
	}
	return a
}

func (a *app) Children() []weft.Component {
	return []weft.Component{a.tabs}
}

func (a *app) setStatus(s string) {
	if a.status != s {
		a.status = s
		a.Invalidate(weft.FlagData)
	}
}

func (a *app) Validate() {}

func (a *app) Render(ctx weft.RenderContext) weft.RenderResult {
	if ctx.Width != a.width || ctx.Height != a.height {
		a.width, a.height = ctx.Width, ctx.Height
		a.resize()
	}

	title := titleStyle.Render("weft demo")
	hint := statusStyle.Render("←/→ tabs · ↑/↓ select · space toggles · enter commits · q quits")

	lines := []string{title}
	body := weft.RenderCached(a.tabs, weft.RenderContext{Width: ctx.Width, Height: a.bodyHeight()})
	lines = append(lines, body.Lines...)
	for len(lines) < ctx.Height-2 {
		lines = append(lines, "")
	}
	lines = append(lines, statusStyle.Render(ansi.Truncate(a.status, ctx.Width, "…")), hint)
	if len(lines) > ctx.Height {
		lines = lines[:ctx.Height]
	}
	return weft.RenderResult{Lines: lines}
}

func (a *app) bodyHeight() int {
	// Title, status and hint lines are carved off the terminal height.
	h := a.height - 3
	if h < 1 {
		h = 1
	}
	return h
}

// resize pushes the new terminal geometry into every control. Each tab
// renders under the navigator's one-line header.
func (a *app) resize() {
	content := a.bodyHeight() - 1
	if content < 1 {
		content = 1
	}
	a.tabs.SetViewport(a.width, a.bodyHeight())
	a.tree.SetViewport(a.width, content)
	a.list.SetViewport(a.width, content)
	a.combo.SetViewport(a.width)
}

// ── Project tab ────────────────────────────────────────────────────────────

func newProjectTree(a *app) *controls.TreeView {
	data := collections.NewTreeList(
		collections.Branch("cmd",
			collections.Branch("weft-demo",
				collections.Leaf("main.go"),
				collections.Leaf("config.go"),
				collections.Leaf("app.go"),
			),
		),
		collections.Branch("pkg",
			collections.Branch("collections",
				collections.Leaf("list.go"),
				collections.Leaf("tree.go"),
				collections.Leaf("identity.go"),
			),
			collections.Branch("controls",
				collections.Leaf("pool.go"),
				collections.Leaf("listview.go"),
				collections.Leaf("treeview.go"),
			),
			collections.Branch("weft",
				collections.Leaf("scheduler.go"),
				collections.Leaf("control.go"),
			),
		),
		collections.Leaf("go.mod"),
	)

	tv := controls.NewTreeView()
	tv.SetData(data)
	tv.ItemToText = func(item any) string {
		if n, ok := item.(*collections.TreeNode); ok {
			return fmt.Sprint(n.Value)
		}
		return fmt.Sprint(item)
	}
	tv.OnSelectionChange = func(loc collections.Location, item any) {
		if item != nil {
			a.setStatus(fmt.Sprintf("selected %s at %v", tv.ItemToText(item), loc))
		}
	}
	tv.OnItemTrigger = func(item any, loc collections.Location) {
		a.setStatus("opened " + tv.ItemToText(item))
		slog.Debug("tree trigger", "loc", fmt.Sprint(loc))
	}
	if err := tv.ToggleBranch(collections.Location{1}, true); err != nil {
		slog.Warn("opening pkg branch", "err", err)
	}
	return tv
}

// ── Tasks tab ──────────────────────────────────────────────────────────────

type task struct {
	id   int
	name string
	done bool
}

func newTaskList(a *app, rows int) *controls.ListView {
	items := make([]any, rows)
	for i := range items {
		items[i] = &task{id: i + 1, name: fmt.Sprintf("task %03d", i+1), done: i%7 == 0}
	}
	data := collections.NewArrayList(items...)

	lv := controls.NewListView()
	lv.SetData(data)
	lv.SetItemToText(func(item any) string {
		t := item.(*task)
		mark := "[ ]"
		if t.done {
			mark = "[x]"
		}
		return fmt.Sprintf("%s %s", mark, t.name)
	})
	lv.OnSelectionChange = func(index int, item any) {
		if t, ok := item.(*task); ok {
			a.setStatus(fmt.Sprintf("task %d of %d", t.id, data.Len()))
		}
	}
	lv.OnItemTrigger = func(item any, index int) {
		t := item.(*task)
		t.done = !t.done
		data.UpdateAt(index)
		a.setStatus(fmt.Sprintf("toggled %s", t.name))
	}
	return lv
}

// ── Theme tab ──────────────────────────────────────────────────────────────

func newThemeCombo(a *app, popupHeight int) *controls.ComboBox {
	data := collections.NewArrayList(
		"charm", "dracula", "gruvbox", "nord", "solarized dark",
		"solarized light", "tokyo night",
	)

	cb := controls.NewComboBox()
	cb.Placeholder = "pick a theme"
	cb.PopupHeight = popupHeight
	cb.SetData(data)
	cb.OnSelectionChange = func(index int, item any) {
		a.setStatus(fmt.Sprintf("theme: %v", item))
	}
	return cb
}
