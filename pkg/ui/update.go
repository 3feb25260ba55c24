package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"todocal/pkg/database"
	"todocal/pkg/tasks"
	"todocal/pkg/utils"
)

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

		prev := m.ctrl.State().Screen
		m.ctrl.ClearNotice()

		var cmd tea.Cmd
		switch {
		case m.showHelp:
			if key.Matches(msg, m.keyMap.ShowHelp, m.keyMap.Back) {
				m.showHelp = false
			} else if key.Matches(msg, m.keyMap.QuitApp) {
				return m, tea.Quit
			}
		case m.ctrl.State().DialogOpen:
			cmd = m.updateDialog(msg)
		default:
			switch prev {
			case tasks.ScreenHome:
				cmd = m.updateHome(msg)
			case tasks.ScreenEdit:
				cmd = m.updateEdit(msg)
			case tasks.ScreenCalendar:
				cmd = m.updateCalendar(msg)
			}
		}
		cmds = append(cmds, cmd, m.afterAction(prev))

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table.SetWidth(max(msg.Width-4, 20))
		m.table.SetHeight(max(msg.Height-8, 3))
		m.contentInput.SetWidth(max(msg.Width-8, 20))
		m.help.Width = msg.Width
		if m.filePicker != nil {
			var cmd tea.Cmd
			*m.filePicker, cmd = m.filePicker.Update(msg)
			cmds = append(cmds, cmd)
		}

	default:
		// directory listings and other async results for the file picker
		if m.filePicker != nil {
			var cmd tea.Cmd
			*m.filePicker, cmd = m.filePicker.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// afterAction brings the widgets in line with whatever the controller did
func (m *Model) afterAction(prev tasks.Screen) tea.Cmd {
	state := m.ctrl.State()
	m.syncOverlays()

	if state.Screen == tasks.ScreenEdit && prev != tasks.ScreenEdit {
		m.loadEditor()
	}
	if state.Screen != tasks.ScreenEdit {
		m.titleInput.Blur()
		m.contentInput.Blur()
	}
	if state.Screen == tasks.ScreenHome {
		m.refreshTable()
	}
	if !state.DialogOpen {
		m.dialogInput.Blur()
	}
	return nil
}

func (m *Model) updateHome(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keyMap.QuitApp):
		return tea.Quit

	case key.Matches(msg, m.keyMap.ShowHelp):
		m.showHelp = true

	case key.Matches(msg, m.keyMap.AddTask):
		m.ctrl.OpenCreateDialog()
		m.dialogInput.Reset()
		return m.dialogInput.Focus()

	case key.Matches(msg, m.keyMap.OpenTask):
		if row, ok := m.selectedRow(); ok {
			_ = m.ctrl.SelectTask(row.Task.ID)
		}

	case key.Matches(msg, m.keyMap.ToggleStatus):
		if row, ok := m.selectedRow(); ok {
			_ = m.ctrl.ToggleComplete(row.Task.ID)
		}

	case key.Matches(msg, m.keyMap.ToggleCalendarView):
		_ = m.ctrl.ShowCalendar()

	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) updateDialog(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.ctrl.CancelCreate()
		m.dialogInput.Reset()
		return nil

	case tea.KeyEnter:
		if err := m.ctrl.ConfirmCreate(m.dialogInput.Value()); err != nil {
			utils.Log("Create rejected: %v", err)
			return nil
		}
		if !m.ctrl.State().DialogOpen {
			m.dialogInput.Reset()
		}
		return nil
	}

	var cmd tea.Cmd
	m.dialogInput, cmd = m.dialogInput.Update(msg)
	m.ctrl.Dialog().SetInput(m.dialogInput.Value())
	return cmd
}

func (m *Model) updateEdit(msg tea.KeyMsg) tea.Cmd {
	switch m.picking {
	case tasks.OverlayDatePicker:
		return m.updateDatePicker(msg)
	case tasks.OverlayFilePicker:
		return m.updateFilePicker(msg)
	}

	switch {
	case key.Matches(msg, m.keyMap.SaveTask):
		_ = m.ctrl.Save()
		return nil

	case key.Matches(msg, m.keyMap.DeleteTask):
		_ = m.ctrl.Delete()
		return nil

	case key.Matches(msg, m.keyMap.Back):
		_ = m.ctrl.Back()
		return nil

	case key.Matches(msg, m.keyMap.NextField):
		m.focusNextField()
		return nil

	case key.Matches(msg, m.keyMap.PickDate):
		if m.datePicker == nil {
			return nil
		}
		m.picking = tasks.OverlayDatePicker
		m.pickErr = ""
		m.datePicker.SetValue(m.ctrl.Session().Pending().DeadlineKey())
		m.datePicker.CursorEnd()
		return m.datePicker.Focus()

	case key.Matches(msg, m.keyMap.PickImage):
		if m.filePicker == nil {
			return nil
		}
		m.picking = tasks.OverlayFilePicker
		return m.filePicker.Init()
	}

	var cmd tea.Cmd
	if m.activeField == titleField {
		m.titleInput, cmd = m.titleInput.Update(msg)
		_ = m.ctrl.EditTitle(m.titleInput.Value())
	} else {
		m.contentInput, cmd = m.contentInput.Update(msg)
		_ = m.ctrl.EditContent(m.contentInput.Value())
	}
	return cmd
}

func (m *Model) updateDatePicker(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.closePicker()
		return nil

	case tea.KeyEnter:
		value := strings.TrimSpace(m.datePicker.Value())
		if value == "" {
			_ = m.ctrl.ClearDeadline()
			m.closePicker()
			return nil
		}
		date, err := database.ParseDate(value)
		if err != nil {
			m.pickErr = "Dates look like 2024-06-01"
			return nil
		}
		if err := m.ctrl.PickDeadline(date); err != nil {
			m.pickErr = err.Error()
			return nil
		}
		m.closePicker()
		return nil
	}

	var cmd tea.Cmd
	*m.datePicker, cmd = m.datePicker.Update(msg)
	return cmd
}

func (m *Model) updateFilePicker(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyEsc {
		m.closePicker()
		return nil
	}

	var cmd tea.Cmd
	*m.filePicker, cmd = m.filePicker.Update(msg)

	if ok, path := m.filePicker.DidSelectFile(msg); ok {
		if err := m.ctrl.PickImage(path); err != nil {
			m.pickErr = err.Error()
			return cmd
		}
		m.pickerDir = m.filePicker.CurrentDirectory
		m.closePicker()
	} else if ok, path := m.filePicker.DidSelectDisabledFile(msg); ok {
		m.pickErr = path + " is not an image"
	}
	return cmd
}

func (m *Model) closePicker() {
	if m.datePicker != nil {
		m.datePicker.Blur()
	}
	m.picking = 0
	m.pickErr = ""
}

func (m *Model) updateCalendar(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keyMap.QuitApp):
		return tea.Quit
	case key.Matches(msg, m.keyMap.ShowHelp):
		m.showHelp = true
	case key.Matches(msg, m.keyMap.ToggleCalendarView, m.keyMap.Back):
		_ = m.ctrl.ShowHome()
	case key.Matches(msg, m.keyMap.PrevMonth):
		_ = m.ctrl.PrevMonth()
	case key.Matches(msg, m.keyMap.NextMonth):
		_ = m.ctrl.NextMonth()
	case key.Matches(msg, m.keyMap.ThisMonth):
		_ = m.ctrl.ThisMonth()
	}
	return nil
}
