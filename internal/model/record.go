package model

import (
	"fmt"
	"strings"

	"github.com/mendonca-galvao/horaextra/internal/timecalc"
)

// ZeroDuration is the value used for overtime fields missing from a document.
const ZeroDuration = "00:00"

// TimesheetRecord is one employee's extracted period summary.
type TimesheetRecord struct {
	Company           string `json:"company"`
	Name              string `json:"name"`
	AbsenceCount      int    `json:"absenceCount"`
	AbsenceDays       string `json:"absenceDays"`
	Overtime50        string `json:"overtime50"`
	Overtime100       string `json:"overtime100"`
	NightShiftPremium string `json:"nightShiftPremium"`
	Notes             string `json:"notes"`
}

// AbsenceDayList splits AbsenceDays into its "Weekday Date" tokens.
func (r TimesheetRecord) AbsenceDayList() []string {
	var days []string
	for _, d := range strings.Split(r.AbsenceDays, ";") {
		d = strings.TrimSpace(d)
		if d != "" {
			days = append(days, d)
		}
	}
	return days
}

// Warnings reports inconsistencies in r. The extraction service owns these
// fields, so the warnings are informational and r is never rejected.
func (r TimesheetRecord) Warnings() []string {
	var warns []string

	days := r.AbsenceDayList()
	switch {
	case r.AbsenceCount < 0:
		warns = append(warns, fmt.Sprintf("negative absence count %d", r.AbsenceCount))
	case r.AbsenceCount == 0 && len(days) > 0:
		warns = append(warns, fmt.Sprintf("absence count is 0 but %d absence day(s) listed", len(days)))
	case r.AbsenceCount != len(days):
		warns = append(warns, fmt.Sprintf("absence count %d does not match %d listed day(s)", r.AbsenceCount, len(days)))
	}

	for _, f := range []struct {
		label string
		value string
	}{
		{"overtime 50%", r.Overtime50},
		{"overtime 100%", r.Overtime100},
		{"night shift premium", r.NightShiftPremium},
	} {
		if !timecalc.ValidHHMM(f.value) {
			warns = append(warns, fmt.Sprintf("%s %q is not HH:MM", f.label, f.value))
		}
	}
	return warns
}
