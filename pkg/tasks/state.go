package tasks

import (
	"strings"
)

// Screen is one of the three mutually exclusive views
type Screen int

const (
	ScreenHome Screen = iota
	ScreenEdit
	ScreenCalendar
)

func (s Screen) String() string {
	switch s {
	case ScreenHome:
		return "home"
	case ScreenEdit:
		return "edit"
	case ScreenCalendar:
		return "calendar"
	default:
		return "unknown"
	}
}

// Overlay is a transient picker bound to the Edit screen
type Overlay uint8

const (
	OverlayDatePicker Overlay = 1 << iota
	OverlayFilePicker
)

func (o Overlay) String() string {
	switch o {
	case OverlayDatePicker:
		return "date-picker"
	case OverlayFilePicker:
		return "file-picker"
	default:
		return "unknown"
	}
}

// OverlaySet is a set of overlays
type OverlaySet uint8

func (s OverlaySet) Has(o Overlay) bool {
	return s&OverlaySet(o) != 0
}

func (s OverlaySet) With(o Overlay) OverlaySet {
	return s | OverlaySet(o)
}

func (s OverlaySet) Empty() bool {
	return s == 0
}

func (s OverlaySet) String() string {
	var names []string
	for _, o := range []Overlay{OverlayDatePicker, OverlayFilePicker} {
		if s.Has(o) {
			names = append(names, o.String())
		}
	}
	return "{" + strings.Join(names, ",") + "}"
}

// ViewState is the process-wide view state. Overlays is empty whenever
// Screen is not ScreenEdit.
type ViewState struct {
	Screen     Screen
	EditingID  int64
	DialogOpen bool
	Cursor     Cursor
	Overlays   OverlaySet
}

// Event is an input to Transition
type Event interface {
	event()
}

type (
	EnterEdit    struct{ ID int64 }
	LeaveEdit    struct{}
	ShowCalendar struct{}
	ShowHome     struct{}
	AdvanceBy    struct{ Delta int }
	ResetMonth   struct{ Cursor Cursor }
	OpenDialog   struct{}
	CloseDialog  struct{}
)

func (EnterEdit) event()    {}
func (LeaveEdit) event()    {}
func (ShowCalendar) event() {}
func (ShowHome) event()     {}
func (AdvanceBy) event()    {}
func (ResetMonth) event()   {}
func (OpenDialog) event()   {}
func (CloseDialog) event()  {}

// Transition returns the state after ev. Events that are not valid in the
// current screen return s unchanged.
func Transition(s ViewState, ev Event) ViewState {
	switch ev := ev.(type) {
	case EnterEdit:
		if s.Screen != ScreenHome {
			return s
		}
		s.Screen = ScreenEdit
		s.EditingID = ev.ID
		s.Overlays = OverlaySet(0).With(OverlayDatePicker).With(OverlayFilePicker)

	case LeaveEdit:
		if s.Screen != ScreenEdit {
			return s
		}
		s.Overlays = 0
		s.EditingID = 0
		s.Screen = ScreenHome

	case ShowCalendar:
		if s.Screen != ScreenHome {
			return s
		}
		s.Screen = ScreenCalendar

	case ShowHome:
		if s.Screen != ScreenCalendar {
			return s
		}
		s.Screen = ScreenHome

	case AdvanceBy:
		if s.Screen != ScreenCalendar {
			return s
		}
		s.Cursor = s.Cursor.Advance(ev.Delta)

	case ResetMonth:
		if s.Screen != ScreenCalendar {
			return s
		}
		s.Cursor = ev.Cursor

	case OpenDialog:
		s.DialogOpen = true

	case CloseDialog:
		s.DialogOpen = false
	}

	return s
}
