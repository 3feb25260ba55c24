package ui

import (
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"todocal/pkg/config"
	"todocal/pkg/keymaps"
	"todocal/pkg/tasks"
)

// editField is the focused input on the Edit screen
type editField int

const (
	titleField editField = iota
	contentField
)

// ImageTypes are the extensions the file picker offers
var ImageTypes = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp"}

// Model renders the controller's screens
type Model struct {
	ctrl          *tasks.Controller
	table         table.Model
	help          help.Model
	showHelp      bool
	width, height int

	// Configuration
	config config.Config
	styles config.Styles
	keyMap keymaps.KeyMap

	// Creation dialog
	dialogInput textinput.Model

	// Edit screen
	titleInput   textinput.Model
	contentInput textarea.Model
	activeField  editField

	// Overlay widgets exist only while the controller has them attached
	datePicker *textinput.Model
	filePicker *filepicker.Model
	picking    tasks.Overlay
	pickErr    string
	pickerDir  string

	now func() time.Time
}

// NewModel creates a UI model over ctrl
func NewModel(ctrl *tasks.Controller, cfg config.Config, styles config.Styles) Model {
	columns := []table.Column{
		{Title: "", Width: 3},
		{Title: "Task", Width: 40},
		{Title: "Due", Width: 16},
		{Title: "", Width: 3},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(styles.BorderColor)).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color(styles.SelectedTextColor)).
		Background(lipgloss.Color(styles.SelectedBgColor)).
		Bold(true)
	t.SetStyles(s)

	dialogInput := textinput.New()
	dialogInput.Placeholder = "What needs doing?"
	dialogInput.CharLimit = 200
	dialogInput.Width = 40

	titleInput := textinput.New()
	titleInput.Placeholder = "Title"
	titleInput.Width = 40

	contentInput := textarea.New()
	contentInput.Placeholder = "Notes"
	contentInput.ShowLineNumbers = false
	contentInput.SetWidth(60)
	contentInput.SetHeight(6)

	pickerDir, err := os.UserHomeDir()
	if err != nil {
		pickerDir = "."
	}

	m := Model{
		ctrl:         ctrl,
		table:        t,
		help:         help.New(),
		config:       cfg,
		styles:       styles,
		keyMap:       keymaps.BuildKeyMap(cfg.KeyMap),
		dialogInput:  dialogInput,
		titleInput:   titleInput,
		contentInput: contentInput,
		pickerDir:    pickerDir,
		now:          time.Now,
	}

	m.refreshTable()
	return m
}

// Init initializes the model (required by Bubble Tea Model interface)
func (m Model) Init() tea.Cmd {
	return nil
}

// Run starts the terminal program and blocks until it exits
func Run(ctrl *tasks.Controller, cfg config.Config, styles config.Styles) error {
	p := tea.NewProgram(NewModel(ctrl, cfg, styles), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// syncOverlays builds the picker widgets the controller has attached and
// drops the ones it has detached
func (m *Model) syncOverlays() {
	overlays := m.ctrl.State().Overlays

	if overlays.Has(tasks.OverlayDatePicker) {
		if m.datePicker == nil {
			input := textinput.New()
			input.Placeholder = "YYYY-MM-DD (empty clears)"
			input.CharLimit = 10
			input.Width = 12
			m.datePicker = &input
		}
	} else {
		m.datePicker = nil
	}

	if overlays.Has(tasks.OverlayFilePicker) {
		if m.filePicker == nil {
			fp := filepicker.New()
			fp.AllowedTypes = ImageTypes
			fp.CurrentDirectory = m.pickerDir
			fp.Height = 10
			m.filePicker = &fp
		}
	} else {
		m.filePicker = nil
	}

	if m.picking != 0 && !overlays.Has(m.picking) {
		m.picking = 0
		m.pickErr = ""
	}
}

// loadEditor fills the Edit inputs from the open session
func (m *Model) loadEditor() {
	session := m.ctrl.Session()
	if session == nil {
		return
	}
	pending := session.Pending()

	m.titleInput.SetValue(pending.Title)
	m.titleInput.CursorEnd()
	m.contentInput.SetValue(pending.Content)

	m.activeField = titleField
	m.titleInput.Focus()
	m.contentInput.Blur()
}

func (m *Model) focusNextField() {
	if m.activeField == titleField {
		m.activeField = contentField
		m.titleInput.Blur()
		m.contentInput.Focus()
		return
	}
	m.activeField = titleField
	m.contentInput.Blur()
	m.titleInput.Focus()
}
