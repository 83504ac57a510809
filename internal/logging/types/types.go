package types

import "time"

// LogLevel orders entries by severity. Entries below a logger's level are dropped.
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

var levelNames = [...]string{"debug", "info", "warn", "error", "fatal"}

func (l LogLevel) String() string {
	if l < DebugLevel || l > FatalLevel {
		return "info"
	}
	return levelNames[l]
}

// MarshalText encodes the level by name
func (l LogLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// LogEntry is what adapters receive. Fields already include the logger's bound fields.
type LogEntry struct {
	Level     LogLevel               `json:"level"`
	Message   string                 `json:"message"`
	Timestamp time.Time              `json:"timestamp"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// LogAdapter is a destination for log entries
type LogAdapter interface {
	Write(entry *LogEntry) error
	Close() error
	Health() error
	Name() string
}

// Logger is the structured logger handed to every component.
// Each call accepts optional field maps that are merged over the bound fields.
type Logger interface {
	Debug(message string, fields ...map[string]interface{})
	Info(message string, fields ...map[string]interface{})
	Warn(message string, fields ...map[string]interface{})
	Error(message string, fields ...map[string]interface{})
	Fatal(message string, fields ...map[string]interface{})

	// WithField and WithFields return a child that shares adapters and level
	// and stamps the given fields on every entry.
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger

	SetLevel(level LogLevel)
	GetLevel() LogLevel
	AddAdapter(adapter LogAdapter) error
	Close() error
}

// AdapterConfig is one entry of logging.adapters in the config file
type AdapterConfig struct {
	Name    string                 `yaml:"name"`
	Type    string                 `yaml:"type"`
	Enabled bool                   `yaml:"enabled"`
	Options map[string]interface{} `yaml:"options"`
}
