package log

import (
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// DefaultMaxLogSize is the size cap applied by NewFileLogger.
const DefaultMaxLogSize = 64 << 20

// FileLogger writes channel events to a file in CBOR format.
// Once the file reaches its size cap, further events are dropped.
// It is safe for concurrent use from multiple goroutines.
type FileLogger struct {
	file    *os.File
	encoder *cbor.Encoder
	mu      sync.Mutex
	closed  bool
	size    int64
	maxSize int64
}

// NewFileLogger creates a FileLogger that writes to the specified path,
// capped at DefaultMaxLogSize. If the file exists, new events are appended
// and its current size counts against the cap. The file is created with
// permissions 0644 if it doesn't exist.
func NewFileLogger(path string) (*FileLogger, error) {
	return NewFileLoggerWithLimit(path, DefaultMaxLogSize)
}

// NewFileLoggerWithLimit is NewFileLogger with an explicit size cap in
// bytes. A non-positive limit disables the cap.
func NewFileLoggerWithLimit(path string, maxBytes int64) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	l := &FileLogger{
		file:    f,
		maxSize: maxBytes,
	}
	if fi, err := f.Stat(); err == nil {
		l.size = fi.Size()
	}
	l.encoder = NewEncoder(fileWriter{l})
	return l, nil
}

// fileWriter tracks bytes written so Log can enforce the size cap.
// The FileLogger mutex is held for the duration of every write.
type fileWriter struct {
	l *FileLogger
}

func (w fileWriter) Write(p []byte) (int, error) {
	n, err := w.l.file.Write(p)
	w.l.size += int64(n)
	return n, err
}

// Log writes an event to the log file. Events arriving after the size cap
// is reached are dropped. Encoding errors are ignored; logging must not
// disrupt the application.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	if l.maxSize > 0 && l.size >= l.maxSize {
		return
	}

	_ = l.encoder.Encode(event)
}

// Close closes the log file.
// It is safe to call Close multiple times.
// After Close is called, subsequent Log calls are silently ignored.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}

	l.closed = true
	return l.file.Close()
}

// Compile-time interface satisfaction check.
var _ Logger = (*FileLogger)(nil)
