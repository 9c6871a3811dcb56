package export

import (
	"strings"

	"github.com/mendonca-galvao/horaextra/internal/model"
)

var cellEscaper = strings.NewReplacer(
	`|`, `\|`,
	"\r\n", "<br>",
	"\n", "<br>",
	"\r", "<br>",
)

// Markdown renders records as a GitHub-flavored markdown table: header,
// separator and one line per record. No records yields "".
//
// Cells escape "|" as "\|" and turn every line break ("\r\n", "\n", "\r")
// into "<br>". Reading a cell back therefore yields "\n" line breaks, and a
// literal "<br>" in a value cannot be told apart from a line break.
func Markdown(records []model.TimesheetRecord) string {
	if len(records) == 0 {
		return ""
	}

	var b strings.Builder
	writeMarkdownRow(&b, Columns)
	b.WriteByte('\n')
	b.WriteString("|" + strings.Repeat("---|", len(Columns)))
	for _, r := range records {
		b.WriteByte('\n')
		writeMarkdownRow(&b, Row(r))
	}
	return b.String()
}

func writeMarkdownRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" ")
		b.WriteString(cellEscaper.Replace(c))
		b.WriteString(" |")
	}
}
