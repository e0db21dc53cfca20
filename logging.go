package variants

// LogEvent describes a renderer state transition.
type LogEvent struct {
	Key    string
	ID     string
	From   State
	To     State
	Active string
	// Err holds activity hook failures for the transition.
	Err error
}

// Logger records renderer transitions.
type Logger interface {
	LogTransition(LogEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(LogEvent)

// LogTransition implements Logger.
func (f LoggerFunc) LogTransition(event LogEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) LogTransition(LogEvent) {}
