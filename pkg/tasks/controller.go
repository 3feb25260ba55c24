package tasks

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"todocal/pkg/database"
	apperrors "todocal/pkg/errors"
	"todocal/pkg/utils"
)

var (
	// ErrNotEditing is returned by edit operations outside the Edit screen
	ErrNotEditing = errors.New("no task is being edited")

	// ErrOverlayDetached is returned when a picker result arrives for an
	// overlay that is not attached
	ErrOverlayDetached = errors.New("overlay is not attached")
)

// Row is one line of the Home list
type Row struct {
	Task    database.Task
	Overdue bool
}

// Options tunes a Controller
type Options struct {
	// Now defaults to time.Now
	Now func() time.Time
	// TitleWidth defaults to DefaultTitleWidth
	TitleWidth int
}

// Controller drives the screens. Every call runs to completion and every
// render re-reads the store.
type Controller struct {
	store  TaskStore
	dialog *Dialog
	now    func() time.Time

	state   ViewState
	session *EditSession

	// attached is the dialog mounted on the current Home surface
	attached *Dialog

	rows      []Row
	rowIndex  map[int64]int
	grid      Grid
	projector Projector

	notice string
}

// NewController starts on Home with the dialog closed and the calendar on
// the current month, and renders the Home list.
func NewController(store TaskStore, dialog *Dialog, opts Options) *Controller {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	c := &Controller{
		store:     store,
		dialog:    dialog,
		now:       now,
		state:     ViewState{Screen: ScreenHome, Cursor: CursorFor(now())},
		projector: Projector{TitleWidth: opts.TitleWidth, Now: now},
	}

	c.rebuildHome()
	return c
}

func (c *Controller) State() ViewState {
	return c.state
}

// Dialog returns the one creation dialog
func (c *Controller) Dialog() *Dialog {
	return c.dialog
}

// AttachedDialog returns the dialog mounted on the rendering surface
func (c *Controller) AttachedDialog() *Dialog {
	return c.attached
}

// Session returns the open edit session, or nil outside Edit
func (c *Controller) Session() *EditSession {
	return c.session
}

// Rows returns the Home list in display order
func (c *Controller) Rows() []Row {
	return c.rows
}

// RowByID looks a task up in the current Home list
func (c *Controller) RowByID(id int64) (Row, bool) {
	i, ok := c.rowIndex[id]
	if !ok {
		return Row{}, false
	}
	return c.rows[i], true
}

// Grid returns the last projected calendar month
func (c *Controller) Grid() Grid {
	return c.grid
}

// Notice returns the latest user-facing message
func (c *Controller) Notice() string {
	return c.notice
}

func (c *Controller) ClearNotice() {
	c.notice = ""
}

// SelectTask opens task id in the editor. A task that no longer exists is
// ignored and Home stays.
func (c *Controller) SelectTask(id int64) error {
	if c.state.Screen != ScreenHome || c.state.DialogOpen {
		return nil
	}

	session, err := Begin(c.store, id)
	if apperrors.IsNotFound(err) {
		utils.Log("Task %d vanished before edit; staying on home", id)
		return c.refreshHome()
	}
	if err != nil {
		c.report("Could not open task", err)
		return err
	}

	c.session = session
	c.state = Transition(c.state, EnterEdit{ID: id})
	utils.Log("Editing task %d, overlays %s", id, c.state.Overlays)
	return nil
}

// Back leaves the editor without saving
func (c *Controller) Back() error {
	if c.state.Screen != ScreenEdit {
		return nil
	}
	return c.leaveEdit()
}

// Save commits the open session and returns to Home. On failure the
// editor stays open with its pending edits.
func (c *Controller) Save() error {
	if c.state.Screen != ScreenEdit {
		return ErrNotEditing
	}

	if err := c.session.Commit(c.store); err != nil {
		if apperrors.IsValidation(err) {
			c.notice = "Title must not be empty"
			return err
		}
		c.report("Could not save task", err)
		return err
	}

	if err := c.leaveEdit(); err != nil {
		return err
	}
	c.notice = "Saved"
	return nil
}

// Delete removes the task being edited and returns to Home
func (c *Controller) Delete() error {
	if c.state.Screen != ScreenEdit {
		return ErrNotEditing
	}

	if err := c.session.Delete(c.store); err != nil {
		c.report("Could not delete task", err)
		return err
	}

	if err := c.leaveEdit(); err != nil {
		return err
	}
	c.notice = "Deleted"
	return nil
}

// EditTitle updates the pending title
func (c *Controller) EditTitle(title string) error {
	if c.session == nil {
		return ErrNotEditing
	}
	c.session.SetTitle(title)
	return nil
}

// EditContent updates the pending note
func (c *Controller) EditContent(content string) error {
	if c.session == nil {
		return ErrNotEditing
	}
	c.session.SetContent(content)
	return nil
}

// PickDeadline receives a date from the date picker
func (c *Controller) PickDeadline(date time.Time) error {
	if err := c.requireOverlay(OverlayDatePicker); err != nil {
		return err
	}
	c.session.SetDeadline(&date)
	return nil
}

// ClearDeadline removes the pending due date via the date picker
func (c *Controller) ClearDeadline() error {
	if err := c.requireOverlay(OverlayDatePicker); err != nil {
		return err
	}
	c.session.ClearDeadline()
	return nil
}

// PickImage receives a path from the file picker
func (c *Controller) PickImage(path string) error {
	if err := c.requireOverlay(OverlayFilePicker); err != nil {
		return err
	}
	c.session.SetImageRef(path)
	return nil
}

// ShowCalendar switches from Home to the calendar and projects a fresh
// snapshot at the remembered cursor
func (c *Controller) ShowCalendar() error {
	if c.state.Screen != ScreenHome || c.state.DialogOpen {
		return nil
	}
	return c.projectTo(Transition(c.state, ShowCalendar{}))
}

// ShowHome switches from the calendar back to Home
func (c *Controller) ShowHome() error {
	if c.state.Screen != ScreenCalendar {
		return nil
	}
	c.state = Transition(c.state, ShowHome{})
	return c.rebuildHome()
}

func (c *Controller) PrevMonth() error {
	return c.moveCursor(AdvanceBy{Delta: -1})
}

func (c *Controller) NextMonth() error {
	return c.moveCursor(AdvanceBy{Delta: 1})
}

// ThisMonth moves the calendar back to the current month
func (c *Controller) ThisMonth() error {
	return c.moveCursor(ResetMonth{Cursor: CursorFor(c.now())})
}

// OpenCreateDialog clears and shows the creation dialog
func (c *Controller) OpenCreateDialog() {
	c.dialog.clear()
	c.state = Transition(c.state, OpenDialog{})
}

// ConfirmCreate creates a task from the dialog. A blank title is rejected
// and leaves the dialog open.
func (c *Controller) ConfirmCreate(title string) error {
	if !c.state.DialogOpen {
		return nil
	}

	if strings.TrimSpace(title) == "" {
		return apperrors.NewValidationError("title", "must not be empty")
	}

	task, err := c.store.CreateTask(database.Task{Title: title})
	if err != nil {
		c.report("Could not create task", err)
		return err
	}
	utils.Log("Created task %d %q", task.ID, task.Title)

	c.dialog.clear()
	c.state = Transition(c.state, CloseDialog{})
	return c.refreshHome()
}

// CancelCreate hides the creation dialog
func (c *Controller) CancelCreate() {
	c.state = Transition(c.state, CloseDialog{})
}

// ToggleComplete flips the completion of a task on Home
func (c *Controller) ToggleComplete(id int64) error {
	if c.state.Screen != ScreenHome || c.state.DialogOpen {
		return nil
	}

	task, err := c.store.GetTask(id)
	if apperrors.IsNotFound(err) {
		return c.refreshHome()
	}
	if err != nil {
		c.report("Could not update task", err)
		return err
	}

	task.Completed = !task.Completed
	if err := c.store.UpdateTask(task); err != nil {
		c.report("Could not update task", err)
		return err
	}
	return c.refreshHome()
}

// Refresh re-reads the store for the current screen
func (c *Controller) Refresh() error {
	switch c.state.Screen {
	case ScreenHome:
		return c.refreshHome()
	case ScreenCalendar:
		return c.refreshCalendar()
	}
	return nil
}

// leaveEdit drops the overlays before anything else, then discards the
// session and rebuilds Home. Discard is a no-op after Commit or Delete.
func (c *Controller) leaveEdit() error {
	c.state = Transition(c.state, LeaveEdit{})
	c.session.Discard()
	c.session = nil
	return c.rebuildHome()
}

// rebuildHome mounts Home again with the existing dialog; a new one is
// never built. The previous rows stay until a read succeeds.
func (c *Controller) rebuildHome() error {
	c.attached = c.dialog
	return c.refreshHome()
}

func (c *Controller) refreshHome() error {
	items, err := c.store.ListAllTasks()
	if err != nil {
		c.report("Could not load tasks", err)
		return err
	}

	today := database.DateKey(c.now())
	ordered := Order(items)

	c.rows = make([]Row, len(ordered))
	c.rowIndex = make(map[int64]int, len(ordered))
	for i, task := range ordered {
		c.rows[i] = Row{
			Task:    task,
			Overdue: task.HasDeadline() && !task.Completed && task.DeadlineKey() < today,
		}
		c.rowIndex[task.ID] = i
	}
	return nil
}

func (c *Controller) refreshCalendar() error {
	return c.projectTo(c.state)
}

// projectTo renders the calendar for next and only then adopts it, so a
// failed read leaves both the state and the grid where they were
func (c *Controller) projectTo(next ViewState) error {
	items, err := c.store.ListAllTasks()
	if err != nil {
		c.report("Could not load calendar", err)
		return err
	}
	c.grid = c.projector.Project(next.Cursor, items)
	c.state = next
	return nil
}

func (c *Controller) moveCursor(ev Event) error {
	if c.state.Screen != ScreenCalendar {
		return nil
	}
	return c.projectTo(Transition(c.state, ev))
}

func (c *Controller) requireOverlay(o Overlay) error {
	if c.session == nil {
		return ErrNotEditing
	}
	if !c.state.Overlays.Has(o) {
		return ErrOverlayDetached
	}
	return nil
}

// report sends a failure to the log and the notice line
func (c *Controller) report(action string, err error) {
	utils.Log("%s: %v", action, err)
	c.notice = fmt.Sprintf("%s: %v", action, err)
}
