package logger

// Logger is the structured logging contract shared by every component.
// Implementations attach the component name as a field so log streams from
// the pipeline, persistence and CLI layers stay separable.
type Logger interface {
	Debug(component, message string, fields map[string]interface{})
	Info(component, message string, fields map[string]interface{})
	Warning(component, message string, fields map[string]interface{})
	Error(component string, err error, fields map[string]interface{})
}

// Noop discards everything. Used by tests and as a safe default.
type Noop struct{}

func (Noop) Debug(string, string, map[string]interface{})   {}
func (Noop) Info(string, string, map[string]interface{})    {}
func (Noop) Warning(string, string, map[string]interface{}) {}
func (Noop) Error(string, error, map[string]interface{})    {}
