package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Joseda-hg/taskminder/internal/model"
	"github.com/Joseda-hg/taskminder/internal/notify"
	"github.com/Joseda-hg/taskminder/internal/reminder"
	"github.com/Joseda-hg/taskminder/internal/store"
	"github.com/Joseda-hg/taskminder/internal/view"
	"github.com/charmbracelet/log"
	goerrors "github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"
)

const (
	viewHeader  = "header"
	viewFooter  = "footer"
	viewTasks   = "tasks"
	viewDetail  = "detail"
	viewSearch  = "search"
	viewForm    = "form"
	viewComment = "comment"
	viewHelp    = "help"
)

// Options wires the UI to the rest of the application.
type Options struct {
	// Reload re-reads the collection from storage for the r key.
	Reload func(ctx context.Context) []model.Task
	// Notifier receives reminder alerts in addition to the status line.
	Notifier         notify.Notifier
	ReminderInterval time.Duration
	Logger           *log.Logger
}

type UI struct {
	store  *store.Store
	gui    *gocui.Gui
	logger *log.Logger
	now    func() time.Time
	reload func(ctx context.Context) []model.Task

	criteria   view.Criteria
	visible    []model.Task
	selected   int
	selectedID int64

	form          *formState
	formEditor    *formEditor
	searchActive  bool
	commentActive bool
	helpActive    bool
	status        string
}

type formState struct {
	taskID int64
	fields []formField
	index  int
}

type formEditor struct {
	ui *UI
}

func newUI(s *store.Store, opts Options) *UI {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	ui := &UI{
		store:    s,
		logger:   logger,
		now:      time.Now,
		reload:   opts.Reload,
		criteria: view.Criteria{Status: model.StatusAll, Priority: model.PriorityAll},
	}
	ui.formEditor = &formEditor{ui: ui}
	return ui
}

// Run shows the task manager until the user quits. The reminder monitor
// runs for as long as the UI does.
func Run(ctx context.Context, s *store.Store, opts Options) error {
	gui, err := gocui.NewGui(gocui.NewGuiOpts{OutputMode: gocui.OutputNormal})
	if err != nil {
		return err
	}
	defer gui.Close()

	ui := newUI(s, opts)
	ui.gui = gui
	gui.Mouse = true

	gui.SetManagerFunc(ui.layout)
	if err := ui.bindKeys(gui); err != nil {
		return err
	}
	ui.refresh()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	monitor := reminder.NewMonitor(s,
		notify.Multi{opts.Notifier, ui.alertNotifier()},
		reminder.WithInterval(opts.ReminderInterval),
		reminder.WithLogger(ui.logger),
	)
	go monitor.Run(ctx)

	if err := gui.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}

	return nil
}

func (u *UI) bindKeys(gui *gocui.Gui) error {
	global := []struct {
		key     any
		handler func(*gocui.Gui, *gocui.View) error
	}{
		{gocui.KeyCtrlC, u.quit},
		{'q', u.quit},
		{'r', u.reloadTasks},
		{'a', u.addTask},
		{'e', u.editTask},
		{'d', u.deleteTask},
		{'x', u.toggleDone},
		{'c', u.startComment},
		{'/', u.startSearch},
		{'f', u.cycleStatusFilter},
		{'p', u.cyclePriorityFilter},
		{'g', u.clearFilters},
		{'?', u.toggleHelp},
	}
	for _, binding := range global {
		if err := gui.SetKeybinding("", binding.key, gocui.ModNone, binding.handler); err != nil {
			return err
		}
	}

	for _, key := range []any{gocui.KeyArrowDown, 'j'} {
		if err := gui.SetKeybinding(viewTasks, key, gocui.ModNone, u.moveDown); err != nil {
			return err
		}
	}
	for _, key := range []any{gocui.KeyArrowUp, 'k'} {
		if err := gui.SetKeybinding(viewTasks, key, gocui.ModNone, u.moveUp); err != nil {
			return err
		}
	}

	if err := gui.SetKeybinding(viewSearch, gocui.KeyEnter, gocui.ModNone, u.submitSearch); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewSearch, gocui.KeyEsc, gocui.ModNone, u.cancelSearch); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewComment, gocui.KeyEnter, gocui.ModNone, u.submitComment); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewComment, gocui.KeyEsc, gocui.ModNone, u.cancelComment); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyEnter, gocui.ModNone, u.submitFormNow); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyCtrlJ, gocui.ModNone, u.submitFormNow); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyTab, gocui.ModNone, u.nextFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyBacktab, gocui.ModNone, u.prevFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyArrowDown, gocui.ModNone, u.nextFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyArrowUp, gocui.ModNone, u.prevFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyEsc, gocui.ModNone, u.cancelForm); err != nil {
		return err
	}
	for _, key := range []any{gocui.KeyEsc, 'q', '?'} {
		if err := gui.SetKeybinding(viewHelp, key, gocui.ModNone, u.closeHelp); err != nil {
			return err
		}
	}

	if err := gui.SetViewClickBinding(&gocui.ViewMouseBinding{ViewName: viewTasks, Key: gocui.MouseLeft, Handler: func(opts gocui.ViewMouseBindingOpts) error {
		return u.onListClick(gui, opts)
	}}); err != nil {
		return err
	}
	for _, name := range []string{viewTasks, viewDetail} {
		if err := gui.SetKeybinding(name, gocui.MouseWheelUp, gocui.ModNone, u.scrollUp); err != nil {
			return err
		}
		if err := gui.SetKeybinding(name, gocui.MouseWheelDown, gocui.ModNone, u.scrollDown); err != nil {
			return err
		}
	}
	return nil
}

func (u *UI) layout(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	if maxX <= 0 || maxY <= 0 {
		return nil
	}

	// Other goroutines (reminders, the web server) may have changed the store.
	u.refresh()

	headerView, err := gui.SetView(viewHeader, 0, 0, maxX-1, 0, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	headerView.Frame = false
	headerView.Wrap = true
	headerView.FgColor = gocui.ColorDefault
	u.renderHeader(headerView)

	footerY1 := max(maxY-2, 1)
	footerY0 := max(footerY1-2, 1)
	footerView, err := gui.SetView(viewFooter, 0, footerY0, maxX-1, footerY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	footerView.Frame = false
	footerView.Wrap = true
	footerView.FgColor = gocui.ColorDefault | gocui.AttrDim
	footerView.BgColor = gocui.ColorDefault
	u.renderFooter(footerView)

	bodyTop := 1
	bodyBottom := footerY0 - 1
	if bodyBottom <= bodyTop {
		return nil
	}

	listWidth := listPaneWidth(maxX)
	tasksView, err := gui.SetView(viewTasks, 0, bodyTop, listWidth-1, bodyBottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		tasksView.TitleColor = gocui.ColorYellow
	}
	tasksView.Title = fmt.Sprintf("Tasks (%d)", len(u.visible))
	applyViewStyle(tasksView, true, true)
	u.renderTaskList(tasksView)

	detailView, err := gui.SetView(viewDetail, listWidth, bodyTop, maxX-1, bodyBottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		detailView.Title = "Details"
		detailView.Wrap = true
	}
	applyViewStyle(detailView, false, false)
	u.renderDetail(detailView)

	_, _ = gui.SetViewOnTop(viewHeader)
	_, _ = gui.SetViewOnTop(viewFooter)

	if u.searchActive {
		if err := u.showPrompt(gui, viewSearch, "Search", u.criteria.Search); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewSearch)
	}

	if u.commentActive {
		title := "New Comment"
		if task := u.selectedTask(); task != nil {
			title = "Comment on: " + task.Title
		}
		if err := u.showPrompt(gui, viewComment, title, ""); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewComment)
	}

	if u.form != nil {
		if err := u.showForm(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewForm)
	}

	if u.helpActive {
		if err := u.showHelp(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewHelp)
	}

	if gui.CurrentView() == nil {
		_, _ = gui.SetCurrentView(viewTasks)
	}

	gui.Cursor = u.searchActive || u.commentActive || u.form != nil

	return nil
}

func listPaneWidth(width int) int {
	listWidth := width / 2
	if listWidth < 30 {
		listWidth = min(30, width-1)
	}
	return max(listWidth, 1)
}

// refresh re-derives the visible list, keeping the selection on the same
// task when it is still visible.
func (u *UI) refresh() {
	u.visible = view.Derive(u.store.Tasks(), u.criteria)

	if u.selectedID != 0 {
		for i, task := range u.visible {
			if task.ID == u.selectedID {
				u.selected = i
				return
			}
		}
	}
	if u.selected >= len(u.visible) {
		u.selected = max(len(u.visible)-1, 0)
	}
	u.syncSelectedID()
}

func (u *UI) syncSelectedID() {
	u.selectedID = 0
	if u.selected >= 0 && u.selected < len(u.visible) {
		u.selectedID = u.visible[u.selected].ID
	}
}

func (u *UI) selectedTask() *model.Task {
	if u.selected >= 0 && u.selected < len(u.visible) {
		return &u.visible[u.selected]
	}
	return nil
}

func (u *UI) renderHeader(v *gocui.View) {
	v.Clear()
	search := strings.TrimSpace(u.criteria.Search)
	if search == "" {
		search = "type / to search"
	}
	total := len(u.store.Tasks())
	fmt.Fprintf(v, "Search: %s | Status: %s | Priority: %s | Showing %d of %d",
		search, u.criteria.Status, u.criteria.Priority, len(u.visible), total)
}

func (u *UI) renderFooter(v *gocui.View) {
	v.Clear()
	v.SetOrigin(0, 0)
	v.SetCursor(0, 0)

	fmt.Fprintln(v, "a add | e edit | d delete | x done | c comment | j/k move | r reload | ? help | q quit")
	fmt.Fprintln(v, "/ search | f status filter | p priority filter | g clear filters")
	if u.status != "" {
		fmt.Fprint(v, u.status)
	}
}

func (u *UI) renderTaskList(v *gocui.View) {
	v.Clear()
	if len(u.visible) == 0 {
		if u.criteria.Active() {
			fmt.Fprint(v, "No tasks match the current filters")
		} else {
			fmt.Fprint(v, "No tasks yet, press a to add one")
		}
		return
	}
	now := u.now()
	for i, task := range u.visible {
		prefix := " "
		if i == u.selected {
			prefix = ">"
		}
		fmt.Fprintf(v, "%s %s\n", prefix, formatTaskSummary(task, now))
	}
	v.SetCursor(0, min(u.selected, len(u.visible)-1))
}

func (u *UI) renderDetail(v *gocui.View) {
	v.Clear()
	task := u.selectedTask()
	if task == nil {
		fmt.Fprint(v, "No task selected")
		return
	}
	fmt.Fprint(v, strings.Join(detailLines(*task, u.now()), "\n"))
}

func (u *UI) onListClick(gui *gocui.Gui, opts gocui.ViewMouseBindingOpts) error {
	if u.inputActive() {
		return nil
	}
	v, err := gui.View(viewTasks)
	if err != nil {
		return nil
	}

	_, y0, _, _ := v.Dimensions()
	_, oy := v.Origin()
	row := max(opts.Y-y0-1+oy, 0)
	u.selected = min(row, len(u.visible)-1)
	u.syncSelectedID()
	_, _ = gui.SetCurrentView(viewTasks)
	return nil
}

func (u *UI) scrollUp(gui *gocui.Gui, v *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if v == nil {
		v = gui.CurrentView()
	}
	if v == nil {
		return nil
	}
	v.ScrollUp(1)
	return nil
}

func (u *UI) scrollDown(gui *gocui.Gui, v *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if v == nil {
		v = gui.CurrentView()
	}
	if v == nil {
		return nil
	}
	v.ScrollDown(1)
	return nil
}

func (u *UI) moveDown(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if u.selected < len(u.visible)-1 {
		u.selected++
		u.syncSelectedID()
	}
	return nil
}

func (u *UI) moveUp(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if u.selected > 0 {
		u.selected--
		u.syncSelectedID()
	}
	return nil
}

func (u *UI) reloadTasks(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if u.reload != nil {
		u.store.Replace(u.reload(context.Background()))
		u.status = "Reloaded from storage"
	}
	u.refresh()
	return nil
}

func (u *UI) cycleStatusFilter(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.criteria.Status = cycle(model.StatusFilters, u.criteria.Status, 1)
	u.refresh()
	return nil
}

func (u *UI) cyclePriorityFilter(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	order := []model.PriorityFilter{model.PriorityAll}
	for i := len(model.Priorities) - 1; i >= 0; i-- {
		order = append(order, model.PriorityFilter(model.Priorities[i]))
	}
	u.criteria.Priority = cycle(order, u.criteria.Priority, 1)
	u.refresh()
	return nil
}

func (u *UI) clearFilters(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.criteria = view.Criteria{Status: model.StatusAll, Priority: model.PriorityAll}
	u.status = ""
	u.refresh()
	return nil
}

func (u *UI) startSearch(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.searchActive = true
	return nil
}

func (u *UI) submitSearch(gui *gocui.Gui, v *gocui.View) error {
	value := ""
	if v != nil {
		value = v.Buffer()
	}
	u.applySearch(value)
	u.closeOverlay(gui, viewSearch)
	return nil
}

func (u *UI) applySearch(value string) {
	u.criteria.Search = strings.TrimSpace(value)
	u.searchActive = false
	u.status = ""
	u.refresh()
}

func (u *UI) cancelSearch(gui *gocui.Gui, _ *gocui.View) error {
	u.searchActive = false
	u.closeOverlay(gui, viewSearch)
	return nil
}

func (u *UI) startComment(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || u.selectedTask() == nil {
		return nil
	}
	u.commentActive = true
	return nil
}

func (u *UI) submitComment(gui *gocui.Gui, v *gocui.View) error {
	value := ""
	if v != nil {
		value = v.Buffer()
	}
	u.addComment(value)
	u.closeOverlay(gui, viewComment)
	return nil
}

func (u *UI) addComment(text string) {
	u.commentActive = false
	task := u.selectedTask()
	if task == nil {
		return
	}
	if _, ok := u.store.AddComment(context.Background(), task.ID, text); !ok {
		u.status = "Comment is empty, nothing added"
		return
	}
	u.status = "Comment added"
	u.refresh()
}

func (u *UI) cancelComment(gui *gocui.Gui, _ *gocui.View) error {
	u.commentActive = false
	u.closeOverlay(gui, viewComment)
	return nil
}

func (u *UI) toggleHelp(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() && !u.helpActive {
		return nil
	}
	u.helpActive = !u.helpActive
	return nil
}

func (u *UI) closeHelp(gui *gocui.Gui, _ *gocui.View) error {
	u.helpActive = false
	u.closeOverlay(gui, viewHelp)
	return nil
}

func (u *UI) addTask(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.form = &formState{fields: buildFormFields(nil, u.now().Location())}
	return nil
}

func (u *UI) editTask(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	task := u.selectedTask()
	if task == nil {
		return nil
	}
	u.form = &formState{taskID: task.ID, fields: buildFormFields(task, u.now().Location())}
	return nil
}

func (u *UI) submitFormNow(gui *gocui.Gui, _ *gocui.View) error {
	if u.form == nil {
		return nil
	}
	values, err := parseFormFields(u.form.fields, u.now().Location())
	if err != nil {
		u.status = err.Error()
		return nil
	}

	ctx := context.Background()
	if u.form.taskID == 0 {
		task, ok := u.store.Create(ctx, values.input())
		if !ok {
			u.status = "Task not saved: title is required"
			return nil
		}
		u.selectedID = task.ID
		u.status = "Task added"
	} else {
		if _, ok := u.store.Update(ctx, u.form.taskID, values.patch()); !ok {
			u.status = "Task not saved: title is required"
			return nil
		}
		u.status = "Task updated"
	}

	u.form = nil
	u.closeOverlay(gui, viewForm)
	u.refresh()
	return nil
}

func (u *UI) cancelForm(gui *gocui.Gui, _ *gocui.View) error {
	u.form = nil
	u.closeOverlay(gui, viewForm)
	return nil
}

func (u *UI) nextFormField(_ *gocui.Gui, v *gocui.View) error {
	if u.form == nil {
		return nil
	}
	if u.form.index < len(u.form.fields)-1 {
		u.form.index++
	}
	u.renderForm(v)
	return nil
}

func (u *UI) prevFormField(_ *gocui.Gui, v *gocui.View) error {
	if u.form == nil {
		return nil
	}
	if u.form.index > 0 {
		u.form.index--
	}
	u.renderForm(v)
	return nil
}

func (u *UI) deleteTask(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	task := u.selectedTask()
	if task == nil {
		return nil
	}
	if u.store.Delete(context.Background(), task.ID) {
		u.status = fmt.Sprintf("Deleted %q", task.Title)
	}
	u.selectedID = 0
	u.refresh()
	return nil
}

func (u *UI) toggleDone(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	task := u.selectedTask()
	if task == nil {
		return nil
	}
	u.store.ToggleCompletion(context.Background(), task.ID)
	u.status = ""
	u.refresh()
	return nil
}

// alertNotifier shows fired reminders in the status line.
func (u *UI) alertNotifier() notify.Notifier {
	return notify.Func(func(_ context.Context, alert notify.Alert) error {
		message := "Reminder: " + alert.Title
		if description := strings.TrimSpace(alert.Description); description != "" {
			message += " - " + description
		}
		if u.gui == nil {
			u.status = message
			return nil
		}
		u.gui.Update(func(*gocui.Gui) error {
			u.status = message
			return nil
		})
		return nil
	})
}

func (u *UI) showPrompt(gui *gocui.Gui, name, title, initial string) error {
	maxX, maxY := gui.Size()
	width := max(40, maxX/2)
	height := 3
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2
	v, err := gui.SetView(name, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		v.Wrap = true
		v.Clear()
		fmt.Fprint(v, initial)
		v.SetCursor(len([]rune(initial)), 0)
	}
	v.Title = title
	v.Editable = true
	v.Editor = gocui.DefaultEditor
	_, _ = gui.SetCurrentView(name)
	return nil
}

func (u *UI) showForm(gui *gocui.Gui) error {
	if u.form == nil {
		return nil
	}
	maxX, maxY := gui.Size()
	width := max(60, maxX/2)
	height := min(10, max(8, maxY/2))
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2
	v, err := gui.SetView(viewForm, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		v.Wrap = true
	}
	v.Title = "New Task"
	if u.form.taskID != 0 {
		v.Title = "Edit Task"
	}
	v.Editable = true
	v.KeybindOnEdit = true
	v.Editor = u.formEditor
	u.renderForm(v)
	_, _ = gui.SetCurrentView(viewForm)
	return nil
}

func (u *UI) showHelp(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := max(60, maxX/2)
	height := 18
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2
	v, err := gui.SetView(viewHelp, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		v.Title = "Help"
		v.Wrap = true
	}
	v.Clear()
	fmt.Fprint(v, helpText())
	_, _ = gui.SetCurrentView(viewHelp)
	return nil
}

func (u *UI) closeOverlay(gui *gocui.Gui, name string) {
	if gui == nil {
		return
	}
	_ = gui.DeleteView(name)
	_, _ = gui.SetCurrentView(viewTasks)
}

func (u *UI) inputActive() bool {
	return u.searchActive || u.commentActive || u.form != nil || u.helpActive
}

func (u *UI) quit(_ *gocui.Gui, _ *gocui.View) error {
	return gocui.ErrQuit
}

func helpText() string {
	return strings.Join([]string{
		"Navigation:",
		"  j/k or arrows move selection | mouse click selects",
		"",
		"Actions:",
		"  a add task | e edit task | d delete task",
		"  x toggle done | c add comment",
		"  enter save (form) | tab/arrows next field | esc cancel",
		"  space/left/right cycle priority (form)",
		"",
		"Search/Filter:",
		"  / search title and description",
		"  f cycle status (all, pending, completed)",
		"  p cycle priority (all, High, Medium, Low)",
		"  g clear filters",
		"",
		"Other:",
		"  r reload from storage | ? help | esc/q close help | q quit",
	}, "\n")
}

func applyViewStyle(v *gocui.View, focused bool, highlight bool) {
	v.Frame = true
	v.Highlight = focused && highlight
	v.HighlightInactive = false
	v.SelBgColor = gocui.ColorBlue
	v.SelFgColor = gocui.ColorBlack
	v.InactiveViewSelBgColor = gocui.ColorDefault
	if focused {
		v.FrameColor = gocui.ColorCyan
		v.TitleColor = gocui.ColorCyan
	} else {
		v.FrameColor = gocui.ColorDefault
	}
}

func cycle[T comparable](order []T, current T, delta int) T {
	index := 0
	for i, value := range order {
		if value == current {
			index = i
			break
		}
	}
	index = (index + delta + len(order)) % len(order)
	return order[index]
}
