package session

import (
	"github.com/mendonca-galvao/horaextra/internal/model"
	"github.com/mendonca-galvao/horaextra/internal/timecalc"
)

// Summary totals a set of records.
type Summary struct {
	Employees         int    `json:"employees"`
	Absences          int    `json:"absences"`
	Overtime50        string `json:"overtime50"`
	Overtime100       string `json:"overtime100"`
	NightShiftPremium string `json:"nightShiftPremium"`
	// Unparsed counts duration values that were not HH:MM and were left out.
	Unparsed int `json:"unparsed"`
}

// Summarize computes the totals of records.
func Summarize(records []model.TimesheetRecord) Summary {
	s := Summary{Employees: len(records)}

	he50 := make([]string, 0, len(records))
	he100 := make([]string, 0, len(records))
	night := make([]string, 0, len(records))
	for _, r := range records {
		s.Absences += r.AbsenceCount
		he50 = append(he50, r.Overtime50)
		he100 = append(he100, r.Overtime100)
		night = append(night, r.NightShiftPremium)
	}

	var n int
	s.Overtime50, n = timecalc.SumHHMM(he50)
	s.Unparsed += n
	s.Overtime100, n = timecalc.SumHHMM(he100)
	s.Unparsed += n
	s.NightShiftPremium, n = timecalc.SumHHMM(night)
	s.Unparsed += n
	return s
}
