package export_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/mendonca-galvao/horaextra/internal/export"
	"github.com/mendonca-galvao/horaextra/internal/model"
)

var joao = model.TimesheetRecord{
	Company:           "Jappa",
	Name:              "João",
	AbsenceCount:      1,
	AbsenceDays:       "Seg 21/10",
	Overtime50:        "02:30",
	Overtime100:       "00:00",
	NightShiftPremium: "00:00",
	Notes:             "Sem observações",
}

func TestMarkdownSingleRecord(t *testing.T) {
	got := export.Markdown([]model.TimesheetRecord{joao})
	want := strings.Join([]string{
		"| Empresa | Nome | Qtde de faltas | Dias das faltas | H.E. 50% | H.E. 100% | Adc Noturno | Observações |",
		"|---|---|---|---|---|---|---|---|",
		"| Jappa | João | 1 | Seg 21/10 | 02:30 | 00:00 | 00:00 | Sem observações |",
	}, "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Markdown() mismatch (-want +got):\n%s", diff)
	}
}

func TestMarkdownEmpty(t *testing.T) {
	if got := export.Markdown(nil); got != "" {
		t.Errorf("Markdown(nil) = %q, want empty", got)
	}
}

func TestMarkdownIdempotent(t *testing.T) {
	records := []model.TimesheetRecord{joao, {Company: "Jappa", Name: "Maria", Overtime50: "00:00"}}
	a := export.Markdown(records)
	b := export.Markdown(records)
	if a != b {
		t.Errorf("Markdown() not idempotent:\n%s\n---\n%s", a, b)
	}
}

// parseMarkdown reads a table produced by Markdown back into cell values.
func parseMarkdown(t *testing.T, md string) [][]string {
	t.Helper()
	lines := strings.Split(md, "\n")
	var rows [][]string
	for i, line := range lines {
		if i == 1 {
			continue
		}
		line = strings.TrimPrefix(line, "| ")
		line = strings.TrimSuffix(line, " |")
		var cells []string
		var cur strings.Builder
		for j := 0; j < len(line); j++ {
			switch {
			case line[j] == '\\' && j+1 < len(line) && line[j+1] == '|':
				cur.WriteByte('|')
				j++
			case strings.HasPrefix(line[j:], " | "):
				cells = append(cells, cur.String())
				cur.Reset()
				j += 2
			default:
				cur.WriteByte(line[j])
			}
		}
		cells = append(cells, cur.String())
		for k := range cells {
			cells[k] = strings.ReplaceAll(cells[k], "<br>", "\n")
		}
		rows = append(rows, cells)
	}
	return rows
}

func TestMarkdownRoundTrip(t *testing.T) {
	tricky := model.TimesheetRecord{
		Company:           "A | B",
		Name:              "Ana",
		AbsenceCount:      2,
		AbsenceDays:       "Ter 01/10; Qua 02/10",
		Overtime50:        "00:00",
		Overtime100:       "01:15",
		NightShiftPremium: "00:00",
		Notes:             "linha 1\nlinha 2",
	}
	records := []model.TimesheetRecord{joao, tricky}

	rows := parseMarkdown(t, export.Markdown(records))
	if len(rows) != len(records)+1 {
		t.Fatalf("got %d rows, want %d", len(rows), len(records)+1)
	}
	if diff := cmp.Diff(export.Columns, rows[0]); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	for i, r := range records {
		if diff := cmp.Diff(export.Row(r), rows[i+1]); diff != "" {
			t.Errorf("row %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestMarkdownRoundTripNormalizesLineBreaks(t *testing.T) {
	r := joao
	r.Notes = "entrada manual\r\nsaída ajustada\rconferido"

	rows := parseMarkdown(t, export.Markdown([]model.TimesheetRecord{r}))
	want := export.Row(r)
	want[7] = "entrada manual\nsaída ajustada\nconferido"
	if diff := cmp.Diff(want, rows[1]); diff != "" {
		t.Errorf("row mismatch (-want +got):\n%s", diff)
	}
}

func TestXLSX(t *testing.T) {
	maria := model.TimesheetRecord{Company: "Jappa", Name: "Maria", Overtime50: "00:00", Overtime100: "03:00", NightShiftPremium: "00:00"}
	data, err := export.XLSX([]model.TimesheetRecord{joao, maria})
	if err != nil {
		t.Fatalf("XLSX() error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader() error: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetName(0); got != export.SheetName {
		t.Errorf("sheet name = %q, want %q", got, export.SheetName)
	}
	rows, err := f.GetRows(export.SheetName)
	if err != nil {
		t.Fatalf("GetRows() error: %v", err)
	}
	want := [][]string{
		export.Columns,
		{"Jappa", "João", "1", "Seg 21/10", "02:30", "00:00", "00:00", "Sem observações"},
		{"Jappa", "Maria", "0", "", "00:00", "03:00", "00:00"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	width, err := f.GetColWidth(export.SheetName, "D")
	if err != nil {
		t.Fatalf("GetColWidth() error: %v", err)
	}
	if width != 40 {
		t.Errorf("column D width = %v, want 40", width)
	}
}

func TestXLSXEmpty(t *testing.T) {
	if _, err := export.XLSX(nil); !errors.Is(err, export.ErrEmpty) {
		t.Errorf("XLSX(nil) error = %v, want ErrEmpty", err)
	}
}

func TestFilename(t *testing.T) {
	// 23:30 in São Paulo is already the next day in UTC.
	loc := time.FixedZone("BRT", -3*60*60)
	now := time.Date(2024, 10, 21, 23, 30, 0, 0, loc)

	tests := []struct {
		prefix, ext, want string
	}{
		{"mendonca-galvao", "xlsx", "mendonca-galvao_export_2024-10-22.xlsx"},
		{"", "md", "mendonca-galvao_export_2024-10-22.md"},
		{"acme", "xlsx", "acme_export_2024-10-22.xlsx"},
	}
	for _, tt := range tests {
		if got := export.Filename(tt.prefix, now, tt.ext); got != tt.want {
			t.Errorf("Filename(%q, %v, %q) = %q, want %q", tt.prefix, now, tt.ext, got, tt.want)
		}
	}
}

func TestDirPut(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	dest := export.Dir(dir)

	where, err := dest.Put(context.Background(), "a.md", "text/markdown", []byte("hello"))
	if err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if where != filepath.Join(dir, "a.md") {
		t.Errorf("Put() location = %q", where)
	}
	got, err := os.ReadFile(where)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("file content = %q, want hello", got)
	}
	if _, err := os.Stat(where + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}

	// Overwrite in place.
	if _, err := dest.Put(context.Background(), "a.md", "text/markdown", []byte("again")); err != nil {
		t.Fatalf("second Put() error: %v", err)
	}
	got, _ = os.ReadFile(where)
	if string(got) != "again" {
		t.Errorf("file content after overwrite = %q", got)
	}
}
