// Package notify raises desktop notifications.
package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"
)

// Notifier shows a message to the user.
type Notifier interface {
	Notify(title, message string) error
}

// Desktop sends notifications through the operating system.
type Desktop struct{}

func (Desktop) Notify(title, message string) error {
	if err := beeep.Notify(title, message, ""); err != nil {
		return fmt.Errorf("desktop notification: %w", err)
	}
	return nil
}

// Discard drops notifications.
type Discard struct{}

func (Discard) Notify(string, string) error { return nil }

// For returns Desktop when enabled, Discard otherwise.
func For(enabled bool) Notifier {
	if enabled {
		return Desktop{}
	}
	return Discard{}
}

// BatchMessage summarizes a finished batch.
func BatchMessage(files, failed, records int) string {
	return fmt.Sprintf("%d arquivo(s) processado(s), %d com erro, %d registro(s).", files, failed, records)
}
