package contracts

import "time"

// LogLevel represents the severity level for logging.
// The zero value means "not set" and is replaced by InfoLevel when options are applied.
type LogLevel int

const (
	// DebugLevel logs every packet written to the chip and every dropped command.
	DebugLevel LogLevel = iota + 1
	// InfoLevel logs lifecycle events such as opening a port or pulsing the reset line.
	InfoLevel
	// WarnLevel indicates potentially harmful situations, such as a failed sink write.
	WarnLevel
	// ErrorLevel indicates errors that need attention.
	ErrorLevel
	// FatalLevel logs the message and terminates the application.
	FatalLevel
)

// LogDestination specifies where the log messages should be directed.
type LogDestination string

const (
	// ConsoleLog directs log messages to standard error.
	ConsoleLog LogDestination = "console"
	// FileLog directs log messages to a file.
	FileLog LogDestination = "file"
)

// Field is a typed key/value pair attached to a log entry.
type Field interface {
	Bool(key string, val bool) Field
	Int(key string, val int) Field
	String(key string, val string) Field
	Duration(key string, val time.Duration) Field
	Error(key string, val error) Field
	Uint8(key string, val uint8) Field
	Uint16(key string, val uint16) Field
	// Hex renders val as space separated hex bytes, only when the entry is written.
	Hex(key string, val []byte) Field
}

// Logger provides methods to log messages at different levels.
type Logger interface {
	Info(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Debug(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	Field() Field

	SetLevel(level LogLevel)
	SetDestination(dest LogDestination, filePath ...string)
}
