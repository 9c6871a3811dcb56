package export

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/atotto/clipboard"

	"github.com/mendonca-galvao/horaextra/internal/model"
)

// AckWindow is how long a copy acknowledgment stays visible.
const AckWindow = 2 * time.Second

// Clipboard receives exported text.
type Clipboard interface {
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// SystemClipboard returns the operating system clipboard.
func SystemClipboard() Clipboard {
	return systemClipboard{}
}

// Ack is a transient "copied" acknowledgment that clears itself.
type Ack struct {
	copied atomic.Bool
	timer  *time.Timer
}

func newAck(window time.Duration) *Ack {
	a := &Ack{}
	a.copied.Store(true)
	a.timer = time.AfterFunc(window, func() { a.copied.Store(false) })
	return a
}

// Copied reports whether the acknowledgment is still showing.
func (a *Ack) Copied() bool {
	return a != nil && a.copied.Load()
}

// Copy writes the markdown table of records to c. With no records nothing is
// written and the returned Ack is nil.
func Copy(c Clipboard, records []model.TimesheetRecord) (*Ack, error) {
	return copyWithin(c, records, AckWindow)
}

func copyWithin(c Clipboard, records []model.TimesheetRecord, window time.Duration) (*Ack, error) {
	md := Markdown(records)
	if md == "" {
		return nil, nil
	}
	if err := c.WriteAll(md); err != nil {
		return nil, fmt.Errorf("copying to clipboard: %w", err)
	}
	return newAck(window), nil
}
