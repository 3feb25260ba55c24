package tasks

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionTable(t *testing.T) {
	home := ViewState{Screen: ScreenHome, Cursor: Cursor{2024, time.December}}
	both := OverlaySet(0).With(OverlayDatePicker).With(OverlayFilePicker)
	edit := ViewState{Screen: ScreenEdit, EditingID: 3, Cursor: home.Cursor, Overlays: both}
	cal := ViewState{Screen: ScreenCalendar, Cursor: home.Cursor}

	tests := []struct {
		name string
		from ViewState
		ev   Event
		want ViewState
	}{
		{"home to edit", home, EnterEdit{ID: 3}, edit},
		{"edit to home clears overlays", edit, LeaveEdit{}, home},
		{"home to calendar", home, ShowCalendar{}, cal},
		{"calendar to home", cal, ShowHome{}, home},
		{"next month wraps", cal, AdvanceBy{Delta: 1}, ViewState{Screen: ScreenCalendar, Cursor: Cursor{2025, time.January}}},
		{"reset month", cal, ResetMonth{Cursor: Cursor{2020, time.May}}, ViewState{Screen: ScreenCalendar, Cursor: Cursor{2020, time.May}}},
		{"edit ignores calendar", edit, ShowCalendar{}, edit},
		{"edit ignores re-entry", edit, EnterEdit{ID: 9}, edit},
		{"calendar ignores edit", cal, EnterEdit{ID: 3}, cal},
		{"home ignores leave edit", home, LeaveEdit{}, home},
		{"home ignores month moves", home, AdvanceBy{Delta: 1}, home},
		{"open dialog", home, OpenDialog{}, ViewState{Screen: ScreenHome, Cursor: home.Cursor, DialogOpen: true}},
		{"close dialog", ViewState{Screen: ScreenHome, DialogOpen: true}, CloseDialog{}, ViewState{Screen: ScreenHome}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Transition(tt.from, tt.ev))
		})
	}
}

func TestOverlaysNeverOutliveEdit(t *testing.T) {
	events := []Event{
		EnterEdit{ID: 1}, LeaveEdit{}, ShowCalendar{}, ShowHome{},
		AdvanceBy{Delta: 1}, AdvanceBy{Delta: -1}, OpenDialog{}, CloseDialog{},
	}
	rng := rand.New(rand.NewSource(1))

	state := ViewState{Screen: ScreenHome}
	for i := 0; i < 5000; i++ {
		state = Transition(state, events[rng.Intn(len(events))])
		if state.Screen != ScreenEdit {
			require.True(t, state.Overlays.Empty(), "step %d: %+v", i, state)
			require.Zero(t, state.EditingID)
		} else {
			require.True(t, state.Overlays.Has(OverlayDatePicker))
			require.True(t, state.Overlays.Has(OverlayFilePicker))
		}
	}
}

func TestOverlaySetString(t *testing.T) {
	assert.Equal(t, "{}", OverlaySet(0).String())
	assert.Equal(t, "{date-picker,file-picker}", OverlaySet(0).With(OverlayFilePicker).With(OverlayDatePicker).String())
	assert.Equal(t, "calendar", ScreenCalendar.String())
}
