package commands

import (
	"fmt"
	"io"

	"github.com/ticketflow/notify-go/pkg/log"
)

// RunView prints matching events in human-readable form.
func RunView(path string, filter *log.Filter, output io.Writer) error {
	events, err := log.ReadFile(path, filter)
	if err != nil {
		return fmt.Errorf("failed to read log file: %w", err)
	}

	for _, event := range events {
		formatEvent(output, event)
	}
	return nil
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	connID := shortenConnID(event.ConnectionID)

	fmt.Fprintf(w, "%s [conn:%s] %-5s %s\n", ts, connID, event.Direction, typeLabel(event))

	switch {
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Message != nil:
		formatMessageDetails(w, event.Message)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

func typeLabel(event log.Event) string {
	switch {
	case event.StateChange != nil:
		return "State"
	case event.Message != nil:
		return event.Message.Type
	case event.Error != nil:
		return "Error"
	default:
		return "Unknown"
	}
}

func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	if sc.Old != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.Old, sc.New)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.New)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

func formatMessageDetails(w io.Writer, msg *log.MessageEvent) {
	if msg.Category != "" {
		fmt.Fprintf(w, "  Category: %s\n", msg.Category)
	}
	if msg.Method != "" {
		fmt.Fprintf(w, "  Method: %s\n", msg.Method)
	}
	if msg.Size > 0 {
		fmt.Fprintf(w, "  Size: %d bytes\n", msg.Size)
	}
}

func formatErrorDetails(w io.Writer, errEvent *log.ErrorEvent) {
	fmt.Fprintf(w, "  Message: %s\n", errEvent.Message)
	if errEvent.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", errEvent.Context)
	}
}
