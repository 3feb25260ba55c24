package keymaps

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type KeyDefinition struct {
	DefaultKey string
	Help       string
}

// Actions lists every bindable action in help order
var Actions = []string{
	"OpenTask",
	"ToggleStatus",
	"AddTask",
	"ToggleCalendarView",
	"PrevMonth",
	"NextMonth",
	"ThisMonth",
	"NextField",
	"PickDate",
	"PickImage",
	"SaveTask",
	"DeleteTask",
	"Back",
	"ShowHelp",
	"QuitApp",
}

var KeyDefinitions = map[string]KeyDefinition{
	"OpenTask":           {"enter", "open task"},
	"ToggleStatus":       {"space", "toggle done"},
	"AddTask":            {"a", "add task"},
	"ToggleCalendarView": {"tab", "toggle calendar"},
	"PrevMonth":          {"left,h", "previous month"},
	"NextMonth":          {"right,l", "next month"},
	"ThisMonth":          {"t", "this month"},
	"NextField":          {"tab", "next field"},
	"PickDate":           {"ctrl+t", "pick deadline"},
	"PickImage":          {"ctrl+o", "pick image"},
	"SaveTask":           {"ctrl+s", "save"},
	"DeleteTask":         {"ctrl+d", "delete task"},
	"Back":               {"esc", "back"},
	"ShowHelp":           {"?", "show/hide commands"},
	"QuitApp":            {"q", "quit"},
}

type KeyMap struct {
	OpenTask           key.Binding
	ToggleStatus       key.Binding
	AddTask            key.Binding
	ToggleCalendarView key.Binding
	PrevMonth          key.Binding
	NextMonth          key.Binding
	ThisMonth          key.Binding
	NextField          key.Binding
	PickDate           key.Binding
	PickImage          key.Binding
	SaveTask           key.Binding
	DeleteTask         key.Binding
	Back               key.Binding
	ShowHelp           key.Binding
	QuitApp            key.Binding
}

func (km *KeyMap) field(action string) *key.Binding {
	switch action {
	case "OpenTask":
		return &km.OpenTask
	case "ToggleStatus":
		return &km.ToggleStatus
	case "AddTask":
		return &km.AddTask
	case "ToggleCalendarView":
		return &km.ToggleCalendarView
	case "PrevMonth":
		return &km.PrevMonth
	case "NextMonth":
		return &km.NextMonth
	case "ThisMonth":
		return &km.ThisMonth
	case "NextField":
		return &km.NextField
	case "PickDate":
		return &km.PickDate
	case "PickImage":
		return &km.PickImage
	case "SaveTask":
		return &km.SaveTask
	case "DeleteTask":
		return &km.DeleteTask
	case "Back":
		return &km.Back
	case "ShowHelp":
		return &km.ShowHelp
	case "QuitApp":
		return &km.QuitApp
	}
	return nil
}

// BuildKeyMap applies configOverrides on top of the defaults. Override
// names are matched case-insensitively since config loaders lowercase keys.
func BuildKeyMap(configOverrides map[string]string) KeyMap {
	overrides := make(map[string]string, len(configOverrides))
	for action, keys := range configOverrides {
		overrides[strings.ToLower(action)] = keys
	}

	km := KeyMap{}
	for _, action := range Actions {
		def := KeyDefinitions[action]
		keyStr := def.DefaultKey
		if override, exists := overrides[strings.ToLower(action)]; exists && strings.TrimSpace(override) != "" {
			keyStr = override
		}
		*km.field(action) = parseKeyBinding(keyStr, def.DefaultKey, def.Help)
	}
	return km
}

func parseKeyBinding(keyStr, defaultKey, helpText string) key.Binding {
	if keyStr == "" {
		keyStr = defaultKey
	}

	// Handle multiple keys separated by commas
	var keys []string
	for _, k := range strings.Split(keyStr, ",") {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		keys = append(keys, k)
		// the terminal reports the space bar as " "
		if k == "space" {
			keys = append(keys, " ")
		}
	}
	if len(keys) == 0 {
		return parseKeyBinding(defaultKey, defaultKey, helpText)
	}

	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(keys[0], helpText),
	)
}

// GetDefaultKeyMappings returns the default key mappings for configuration
func GetDefaultKeyMappings() map[string]string {
	keyMappings := make(map[string]string)
	for action, def := range KeyDefinitions {
		keyMappings[action] = def.DefaultKey
	}
	return keyMappings
}

// ShortHelp implements help.KeyMap
func (km KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{km.AddTask, km.OpenTask, km.ToggleCalendarView, km.ShowHelp, km.QuitApp}
}

// FullHelp implements help.KeyMap
func (km KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{km.OpenTask, km.ToggleStatus, km.AddTask, km.ToggleCalendarView},
		{km.PrevMonth, km.NextMonth, km.ThisMonth},
		{km.NextField, km.PickDate, km.PickImage, km.SaveTask, km.DeleteTask},
		{km.Back, km.ShowHelp, km.QuitApp},
	}
}

// HomeHelp lists the bindings live on the Home screen
func (km KeyMap) HomeHelp() []key.Binding {
	return []key.Binding{km.AddTask, km.OpenTask, km.ToggleStatus, km.ToggleCalendarView, km.ShowHelp, km.QuitApp}
}

// EditHelp lists the bindings live on the Edit screen
func (km KeyMap) EditHelp() []key.Binding {
	return []key.Binding{km.NextField, km.PickDate, km.PickImage, km.SaveTask, km.DeleteTask, km.Back}
}

// CalendarHelp lists the bindings live on the Calendar screen
func (km KeyMap) CalendarHelp() []key.Binding {
	return []key.Binding{km.PrevMonth, km.NextMonth, km.ThisMonth, km.ToggleCalendarView, km.QuitApp}
}
