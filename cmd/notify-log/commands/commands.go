// Package commands implements the notify-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ticketflow/notify-go/pkg/log"
)

// BuildFilter assembles a log filter from flag values. Empty strings mean
// no filtering for that criterion.
func BuildFilter(connID, direction, kind, timeStart, timeEnd string) (*log.Filter, error) {
	filter := &log.Filter{ConnectionID: connID}

	if direction != "" {
		d, err := parseDirection(direction)
		if err != nil {
			return nil, err
		}
		filter.Direction = &d
	}

	if kind != "" {
		k, err := parseKind(kind)
		if err != nil {
			return nil, err
		}
		filter.Kind = &k
	}

	if timeStart != "" {
		t, err := time.Parse(time.RFC3339, timeStart)
		if err != nil {
			return nil, fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}

	if timeEnd != "" {
		t, err := time.Parse(time.RFC3339, timeEnd)
		if err != nil {
			return nil, fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}

	return filter, nil
}

// parseDirection parses a direction string (case-insensitive).
func parseDirection(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	case "local":
		return log.DirectionLocal, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in, out, or local)", s)
	}
}

// parseKind parses a kind string (case-insensitive).
func parseKind(s string) (log.Kind, error) {
	switch strings.ToLower(s) {
	case "state":
		return log.KindState, nil
	case "message":
		return log.KindMessage, nil
	case "error":
		return log.KindError, nil
	default:
		return 0, fmt.Errorf("invalid kind: %s (must be state, message, or error)", s)
	}
}

// shortenConnID returns the first 8 characters of the connection ID.
func shortenConnID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// RunFilter reads matching events and writes them to a new log file.
func RunFilter(path string, filter *log.Filter, output string, w io.Writer) error {
	events, err := log.ReadFile(path, filter)
	if err != nil {
		return fmt.Errorf("failed to read log file: %w", err)
	}

	logger, err := log.NewFileLogger(output)
	if err != nil {
		return fmt.Errorf("failed to create output logger: %w", err)
	}
	defer logger.Close()

	for _, event := range events {
		logger.Log(event)
	}

	fmt.Fprintf(w, "Filtered %d events to %s\n", len(events), output)
	return nil
}
