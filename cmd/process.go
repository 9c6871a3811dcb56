package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/mendonca-galvao/horaextra/internal/batch"
	"github.com/mendonca-galvao/horaextra/internal/export"
	"github.com/mendonca-galvao/horaextra/internal/model"
	"github.com/mendonca-galvao/horaextra/internal/notify"
	"github.com/mendonca-galvao/horaextra/internal/reader"
	"github.com/mendonca-galvao/horaextra/internal/session"
	"github.com/mendonca-galvao/horaextra/internal/timecalc"
)

var (
	processXLSX   bool
	processMD     bool
	processCopy   bool
	processOut    string
	processNotify bool
)

var processCmd = &cobra.Command{
	Use:   "process <file>...",
	Short: "Extract records from timesheet images or PDFs",
	Long: `Process reads every file in order, extracts one record per employee and
prints the results. Files that are not images or PDFs are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().BoolVar(&processXLSX, "xlsx", false, "Save the results as a spreadsheet")
	processCmd.Flags().BoolVar(&processMD, "md", false, "Save the results as a markdown table")
	processCmd.Flags().BoolVar(&processCopy, "copy", false, "Copy the markdown table to the clipboard")
	processCmd.Flags().StringVar(&processOut, "out", "", "Export directory (overrides export.dir)")
	processCmd.Flags().BoolVar(&processNotify, "notify", false, "Desktop notification when done (overrides notify.enabled)")
}

func runProcess(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	files := selectFiles(args)
	if len(files) == 0 {
		return batch.ErrNoFiles
	}

	ex, err := newExtractor(ctx)
	if err != nil {
		return err
	}

	s := session.New()
	s.Status.Subscribe(func(e model.StatusEntry) {
		printStatus(e, len(files))
	})

	res, err := batch.New(ex, s, log).Run(ctx, files)
	if err != nil {
		return err
	}

	records := s.Records.Snapshot()
	fmt.Println()
	if len(records) == 0 {
		pterm.Warning.Println("Nenhum registro extraído.")
	} else {
		printTable(recordsTable(records))
		printSummary(session.Summarize(records))
	}
	pterm.Info.Printfln("%d arquivo(s) em %s", res.Files, timecalc.FormatElapsed(res.Elapsed))

	if err := notify.For(cfg.Notify.Enabled || processNotify).
		Notify("horaextra", notify.BatchMessage(res.Files, res.Failed, res.Records)); err != nil {
		log.Warn().Err(err).Msg("notification not shown")
	}

	return exportResults(ctx, records)
}

// selectFiles keeps the paths whose media type is an image or a PDF.
func selectFiles(paths []string) []reader.Source {
	files := make([]reader.Source, 0, len(paths))
	for _, p := range paths {
		src := reader.FromPath(p)
		if !reader.Supported(src.MediaType()) {
			pterm.Warning.Printfln("Ignorando %s: tipo %s não suportado", p, src.MediaType())
			continue
		}
		files = append(files, src)
	}
	return files
}

func printStatus(e model.StatusEntry, total int) {
	line := statusLine(e, total)
	switch e.State {
	case model.StateSuccess:
		pterm.Success.Println(line)
	case model.StateError:
		pterm.Error.Println(line)
	default:
		pterm.Info.Println(line)
	}
}

func statusLine(e model.StatusEntry, total int) string {
	return fmt.Sprintf("[%d/%d] %s: %s", e.Index+1, total, e.FileName, e.Message)
}

// recordsTable returns the header and one row per record.
func recordsTable(records []model.TimesheetRecord) [][]string {
	data := [][]string{export.Columns}
	for _, r := range records {
		data = append(data, export.Row(r))
	}
	return data
}

func printTable(data [][]string) {
	table := pterm.DefaultTable
	table.Boxed = true

	str, err := table.WithHasHeader().WithData(data).Srender()
	if err != nil {
		pterm.Error.Printfln("Failed to render table: %s", err.Error())
		return
	}
	fmt.Println(str)
}

func summaryTable(s session.Summary) [][]string {
	return [][]string{
		{"Funcionários", "Faltas", "H.E. 50%", "H.E. 100%", "Adc Noturno"},
		{strconv.Itoa(s.Employees), strconv.Itoa(s.Absences), s.Overtime50, s.Overtime100, s.NightShiftPremium},
	}
}

func printSummary(s session.Summary) {
	printTable(summaryTable(s))
	if s.Unparsed > 0 {
		pterm.Warning.Printfln("%d valor(es) fora do formato HH:MM não somado(s)", s.Unparsed)
	}
}

func exportResults(ctx context.Context, records []model.TimesheetRecord) error {
	if !processXLSX && !processMD && !processCopy {
		return nil
	}
	if len(records) == 0 {
		pterm.Warning.Println("Nada para exportar.")
		return nil
	}

	dir := cfg.Export.Dir
	if processOut != "" {
		dir = processOut
	}
	now := time.Now()

	if processXLSX || processMD {
		dest, err := newDestination(ctx, dir)
		if err != nil {
			return err
		}
		if processXLSX {
			data, err := export.XLSX(records)
			if err != nil {
				return err
			}
			where, err := dest.Put(ctx, export.Filename(cfg.Export.Prefix, now, "xlsx"), export.XLSXContentType, data)
			if err != nil {
				return err
			}
			pterm.Success.Printfln("Planilha salva em %s", where)
		}
		if processMD {
			where, err := dest.Put(ctx, export.Filename(cfg.Export.Prefix, now, "md"), "text/markdown", []byte(export.Markdown(records)))
			if err != nil {
				return err
			}
			pterm.Success.Printfln("Tabela salva em %s", where)
		}
	}

	if processCopy {
		ack, err := export.Copy(export.SystemClipboard(), records)
		if err != nil {
			return err
		}
		if ack.Copied() {
			pterm.Success.Println("Copiado!")
		}
	}
	return nil
}
