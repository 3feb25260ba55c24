package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"todocal/pkg/database"
	"todocal/pkg/tasks"
)

// View renders the current screen
func (m Model) View() string {
	var sb strings.Builder

	state := m.ctrl.State()
	switch {
	case m.showHelp:
		sb.WriteString(m.renderHelpScreen())
	case state.Screen == tasks.ScreenEdit:
		sb.WriteString(m.titleBar(" Edit Task "))
		sb.WriteString("\n\n")
		sb.WriteString(m.renderEdit())
	case state.Screen == tasks.ScreenCalendar:
		sb.WriteString(m.renderCalendar())
	default:
		sb.WriteString(m.titleBar(" todocal "))
		sb.WriteString("\n\n")
		sb.WriteString(m.table.View())
		if len(m.ctrl.Rows()) == 0 {
			sb.WriteString("\n")
			sb.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(m.styles.MutedColor)).
				Render("Nothing to do. Press " + m.keyMap.AddTask.Help().Key + " to add a task."))
		}
		if state.DialogOpen {
			sb.WriteString("\n\n")
			sb.WriteString(m.renderDialog())
		}
	}

	if notice := m.ctrl.Notice(); notice != "" {
		sb.WriteString("\n\n")
		sb.WriteString(m.noticeStyle(notice).Render(notice))
	}

	sb.WriteString("\n")
	sb.WriteString(m.helpBar())

	return sb.String()
}

func (m Model) titleBar(text string) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(m.styles.SelectedTextColor)).
		Background(lipgloss.Color(m.styles.AccentColor)).
		Padding(0, 1).
		Render(text)
}

// noticeStyle colors failures differently from confirmations
func (m Model) noticeStyle(notice string) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true)
	if strings.HasPrefix(notice, "Could not") || strings.HasSuffix(notice, "empty") {
		return style.Foreground(lipgloss.Color(m.styles.ErrorColor))
	}
	return style.Foreground(lipgloss.Color(m.styles.NormalTextColor))
}

func (m Model) renderDialog() string {
	var sb strings.Builder
	sb.WriteString(lipgloss.NewStyle().Bold(true).Render("New task"))
	sb.WriteString("\n\n")
	sb.WriteString(m.dialogInput.View())
	sb.WriteString("\n\n")
	sb.WriteString(lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.styles.MutedColor)).
		Render("enter create • esc cancel"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.styles.AccentColor)).
		Padding(1, 2).
		Render(sb.String())
}

func (m Model) renderEdit() string {
	session := m.ctrl.Session()
	if session == nil {
		return ""
	}
	pending := session.Pending()

	label := lipgloss.NewStyle().Bold(true)
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.MutedColor))

	var sb strings.Builder
	sb.WriteString(label.Render("Title:"))
	sb.WriteString("\n")
	sb.WriteString(m.titleInput.View())
	sb.WriteString("\n\n")

	sb.WriteString(label.Render("Notes:"))
	sb.WriteString("\n")
	sb.WriteString(m.contentInput.View())
	sb.WriteString("\n\n")

	sb.WriteString(label.Render("Deadline: "))
	if pending.HasDeadline() {
		deadline := pending.DeadlineKey()
		if !pending.Completed && deadline < database.DateKey(m.now()) {
			sb.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(m.styles.OverdueColor)).
				Render(deadline + " (overdue)"))
		} else {
			sb.WriteString(deadline)
		}
	} else {
		sb.WriteString(muted.Render("none"))
	}
	sb.WriteString("\n")

	sb.WriteString(label.Render("Image:    "))
	if pending.HasImage() {
		sb.WriteString(pending.ImageRef)
	} else {
		sb.WriteString(muted.Render("none"))
	}

	switch m.picking {
	case tasks.OverlayDatePicker:
		sb.WriteString("\n\n")
		sb.WriteString(m.renderPicker("Deadline", m.datePicker.View()))
	case tasks.OverlayFilePicker:
		sb.WriteString("\n\n")
		sb.WriteString(m.renderPicker("Image ("+m.filePicker.CurrentDirectory+")", m.filePicker.View()))
	}

	return sb.String()
}

func (m Model) renderPicker(title, body string) string {
	content := lipgloss.NewStyle().Bold(true).Render(title) + "\n\n" + body
	if m.pickErr != "" {
		content += "\n" + lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.styles.ErrorColor)).
			Render(m.pickErr)
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.styles.BorderColor)).
		Padding(0, 1).
		Render(content)
}

// renderHelpScreen lists every binding
func (m Model) renderHelpScreen() string {
	var sb strings.Builder
	sb.WriteString(lipgloss.NewStyle().Bold(true).Render("Available Commands"))
	sb.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.styles.AccentColor)).
		Bold(true)
	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.styles.NormalTextColor))

	addCommand := func(binding key.Binding) {
		var keys []string
		for _, k := range binding.Keys() {
			if strings.TrimSpace(k) != "" {
				keys = append(keys, k)
			}
		}
		sb.WriteString(fmt.Sprintf("%s: %s\n",
			descStyle.Render(binding.Help().Desc),
			keyStyle.Render(strings.Join(keys, "/"))))
	}

	for i, group := range m.keyMap.FullHelp() {
		if i > 0 {
			sb.WriteString("\n")
		}
		for _, binding := range group {
			addCommand(binding)
		}
	}
	return sb.String()
}

// helpBar renders the bindings that are live on the current screen
func (m Model) helpBar() string {
	var bindings []key.Binding
	state := m.ctrl.State()

	switch {
	case m.showHelp:
		bindings = []key.Binding{m.keyMap.Back, m.keyMap.QuitApp}
	case state.DialogOpen:
		return ""
	case state.Screen == tasks.ScreenEdit:
		bindings = m.keyMap.EditHelp()
	case state.Screen == tasks.ScreenCalendar:
		bindings = m.keyMap.CalendarHelp()
	default:
		bindings = m.keyMap.HomeHelp()
	}
	return m.help.ShortHelpView(bindings)
}
