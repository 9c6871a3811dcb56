// Package export renders the record aggregate as a spreadsheet or a markdown
// table and delivers the result.
package export

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/mendonca-galvao/horaextra/internal/model"
	"github.com/mendonca-galvao/horaextra/internal/timecalc"
)

// ErrEmpty is returned when there is nothing to export.
var ErrEmpty = errors.New("no records to export")

// DefaultPrefix is the product prefix of exported file names.
const DefaultPrefix = "mendonca-galvao"

// Columns is the fixed header shared by every export format.
var Columns = []string{
	"Empresa",
	"Nome",
	"Qtde de faltas",
	"Dias das faltas",
	"H.E. 50%",
	"H.E. 100%",
	"Adc Noturno",
	"Observações",
}

// Row returns the column values of r in Columns order.
func Row(r model.TimesheetRecord) []string {
	return []string{
		r.Company,
		r.Name,
		strconv.Itoa(r.AbsenceCount),
		r.AbsenceDays,
		r.Overtime50,
		r.Overtime100,
		r.NightShiftPremium,
		r.Notes,
	}
}

// Filename returns "<prefix>_export_<YYYY-MM-DD>.<ext>" for now.
func Filename(prefix string, now time.Time, ext string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return fmt.Sprintf("%s_export_%s.%s", prefix, timecalc.ExportDate(now), ext)
}
