package log

// MultiLogger fans each event out to every attached sink, in order.
// Combine a console SlogAdapter with a FileLogger to get a live trace
// and a replayable capture of the same session.
type MultiLogger []Logger

// NewMultiLogger builds a MultiLogger over the given sinks. Nil sinks
// are tolerated and skipped at log time.
func NewMultiLogger(sinks ...Logger) MultiLogger {
	return MultiLogger(sinks)
}

// Log delivers the event to every sink.
func (m MultiLogger) Log(event Event) {
	for _, sink := range m {
		if sink != nil {
			sink.Log(event)
		}
	}
}

var _ Logger = MultiLogger(nil)
