// Package batch drives extraction over a user selection of files, one file at
// a time, isolating per-file failures.
package batch

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mendonca-galvao/horaextra/internal/extract"
	"github.com/mendonca-galvao/horaextra/internal/model"
	"github.com/mendonca-galvao/horaextra/internal/reader"
	"github.com/mendonca-galvao/horaextra/internal/session"
)

var (
	// ErrNoFiles is returned when Run is called with an empty selection.
	ErrNoFiles = errors.New("no files selected")
	// ErrBatchInFlight is returned while another batch is still running.
	ErrBatchInFlight = errors.New("a batch is already being processed")

	errFilePanic = errors.New("panic while processing file")
)

// Status messages shown to the user.
const (
	MsgReading   = "Lendo arquivo..."
	MsgFailed    = "Erro ao processar arquivo com IA."
	MsgNoData    = "Nenhum dado encontrado ou formato inválido."
	msgSucceeded = "%d funcionário(s) identificado(s)."
	msgAborted   = "Processamento interrompido."
)

// SuccessMessage is the status message for a file that yielded n records.
func SuccessMessage(n int) string {
	return fmt.Sprintf(msgSucceeded, n)
}

// Result describes a finished batch.
type Result struct {
	ID        string
	Files     int
	Succeeded int
	Failed    int
	Records   int
	Elapsed   time.Duration
}

// Orchestrator processes batches against one session.
type Orchestrator struct {
	extractor extract.Extractor
	session   *session.Session
	log       zerolog.Logger
	running   atomic.Bool
}

// New returns an Orchestrator that merges results into s.
func New(ex extract.Extractor, s *session.Session, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		extractor: ex,
		session:   s,
		log:       log.With().Str("component", "batch").Logger(),
	}
}

// Running reports whether a batch is in flight.
func (o *Orchestrator) Running() bool {
	return o.running.Load()
}

// Run processes files sequentially in selection order. Per-file failures are
// recorded in the status log and never abort the batch; the records of all
// successful files are merged into the session in one append at the end.
func (o *Orchestrator) Run(ctx context.Context, files []reader.Source) (Result, error) {
	if len(files) == 0 {
		return Result{}, ErrNoFiles
	}
	if !o.running.CompareAndSwap(false, true) {
		return Result{}, ErrBatchInFlight
	}
	return o.runWithID(ctx, uuid.NewString(), files), nil
}

// Start claims the in-flight flag and processes files on a new goroutine.
// done, when not nil, receives the result.
func (o *Orchestrator) Start(ctx context.Context, files []reader.Source, done func(Result)) (string, error) {
	if len(files) == 0 {
		return "", ErrNoFiles
	}
	if !o.running.CompareAndSwap(false, true) {
		return "", ErrBatchInFlight
	}
	id := uuid.NewString()
	go func() {
		res := o.runWithID(ctx, id, files)
		if done != nil {
			done(res)
		}
	}()
	return id, nil
}

// runWithID expects the in-flight flag to be held and releases it.
func (o *Orchestrator) runWithID(ctx context.Context, id string, files []reader.Source) (res Result) {
	start := time.Now()
	log := o.log.With().Str("batch", id).Logger()
	status := o.session.Status

	res = Result{ID: id, Files: len(files)}
	// next is the index of the first file without a status entry.
	next := 0

	defer o.running.Store(false)
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("global processing error")
			for _, e := range status.Entries() {
				if !e.State.Terminal() && status.Finish(e.ID, model.StateError, MsgFailed) {
					res.Failed++
				}
			}
			for j := next; j < len(files); j++ {
				status.Finish(status.Begin(j, sourceName(files[j], j), MsgReading), model.StateError, msgAborted)
				res.Failed++
			}
			res.Records = 0
		}
		res.Elapsed = time.Since(start)
		log.Info().
			Int("files", res.Files).
			Int("succeeded", res.Succeeded).
			Int("failed", res.Failed).
			Int("records", res.Records).
			Dur("elapsed", res.Elapsed).
			Msg("batch finished")
	}()

	status.Reset()
	log.Info().Int("files", len(files)).Msg("batch started")

	var collected []model.TimesheetRecord
	for i, f := range files {
		current := status.Begin(i, f.Name(), MsgReading)
		next = i + 1

		records, err := o.processFile(ctx, f)
		switch {
		case err != nil:
			ev := log.Error().Err(err).Str("file", f.Name()).Int("index", i)
			if reason := extract.UserMessage(err); reason != "" {
				ev = ev.Str("reason", reason)
			}
			ev.Msg("file processing failed")
			status.Finish(current, model.StateError, MsgFailed)
			res.Failed++
		case len(records) == 0:
			log.Warn().Str("file", f.Name()).Int("index", i).Msg("no records found")
			status.Finish(current, model.StateError, MsgNoData)
			res.Failed++
		default:
			for _, r := range records {
				for _, w := range r.Warnings() {
					log.Warn().Str("file", f.Name()).Str("employee", r.Name).Msg(w)
				}
			}
			collected = append(collected, records...)
			status.Finish(current, model.StateSuccess, SuccessMessage(len(records)))
			res.Succeeded++
		}
	}

	o.session.Records.Append(collected)
	res.Records = len(collected)
	return res
}

// sourceName returns the file name, or a positional label when the source
// cannot report one.
func sourceName(f reader.Source, index int) (name string) {
	defer func() {
		if r := recover(); r != nil {
			name = fmt.Sprintf("arquivo %d", index+1)
		}
	}()
	return f.Name()
}

// processFile reads and extracts one file. A panic in either step fails this
// file only.
func (o *Orchestrator) processFile(ctx context.Context, f reader.Source) (records []model.TimesheetRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			records, err = nil, fmt.Errorf("%w: %v", errFilePanic, r)
		}
	}()

	payload, err := reader.Read(f)
	if err != nil {
		return nil, err
	}
	return o.extractor.Extract(ctx, payload)
}
