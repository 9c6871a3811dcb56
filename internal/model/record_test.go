package model_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mendonca-galvao/horaextra/internal/model"
)

func TestAbsenceDayList(t *testing.T) {
	tests := []struct {
		days string
		want []string
	}{
		{"", nil},
		{"Seg 21/10", []string{"Seg 21/10"}},
		{"Seg 21/10; Ter 22/10", []string{"Seg 21/10", "Ter 22/10"}},
		{"Seg 21/10;Ter 22/10; ", []string{"Seg 21/10", "Ter 22/10"}},
	}
	for _, tt := range tests {
		got := model.TimesheetRecord{AbsenceDays: tt.days}.AbsenceDayList()
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("AbsenceDayList(%q) mismatch (-want +got):\n%s", tt.days, diff)
		}
	}
}

func TestWarnings(t *testing.T) {
	base := model.TimesheetRecord{
		Company:           "Jappa",
		Name:              "João",
		Overtime50:        "02:30",
		Overtime100:       "00:00",
		NightShiftPremium: "00:00",
	}

	tests := []struct {
		name   string
		modify func(r *model.TimesheetRecord)
		want   int
	}{
		{"consistent without absences", func(r *model.TimesheetRecord) {}, 0},
		{"consistent with absences", func(r *model.TimesheetRecord) {
			r.AbsenceCount = 2
			r.AbsenceDays = "Seg 21/10; Ter 22/10"
		}, 0},
		{"zero count with days", func(r *model.TimesheetRecord) {
			r.AbsenceDays = "Seg 21/10"
		}, 1},
		{"count mismatch", func(r *model.TimesheetRecord) {
			r.AbsenceCount = 3
			r.AbsenceDays = "Seg 21/10"
		}, 1},
		{"bad duration", func(r *model.TimesheetRecord) {
			r.Overtime100 = "2h30"
		}, 1},
		{"negative count and empty duration", func(r *model.TimesheetRecord) {
			r.AbsenceCount = -1
			r.NightShiftPremium = ""
		}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := base
			tt.modify(&r)
			if got := r.Warnings(); len(got) != tt.want {
				t.Errorf("Warnings() = %q, want %d warning(s)", got, tt.want)
			}
		})
	}
}

func TestStateTerminal(t *testing.T) {
	for state, want := range map[model.State]bool{
		model.StatePending:    false,
		model.StateProcessing: false,
		model.StateSuccess:    true,
		model.StateError:      true,
	} {
		if got := state.Terminal(); got != want {
			t.Errorf("%s.Terminal() = %v, want %v", state, got, want)
		}
	}
}
