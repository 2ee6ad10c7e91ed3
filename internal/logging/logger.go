// Package logging is a small leveled, structured logger with text and JSON
// console output.
package logging

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"
)

// Level is a logging severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Format selects how entries are rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Field is a key-value pair attached to an entry.
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Entry is one rendered log record.
type Entry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Output is a log destination.
type Output interface {
	Write(entry Entry) error
	Close() error
}

// Logger is the interface library code logs through.
type Logger interface {
	Debug(msg string, fields ...Field)
	Debugf(format string, args ...interface{})
	Info(msg string, fields ...Field)
	Infof(format string, args ...interface{})
	Warn(msg string, fields ...Field)
	Warnf(format string, args ...interface{})
	Error(msg string, fields ...Field)
	Errorf(format string, args ...interface{})
	With(fields ...Field) Logger
}

// Core is the standard Logger implementation.
type Core struct {
	mu      sync.RWMutex
	level   Level
	outputs []Output
	fields  map[string]interface{}
}

// New returns a logger writing to w at the given level and format.
func New(levelStr string, format Format, w io.Writer) *Core {
	c := &Core{
		level:  ParseLevel(levelStr),
		fields: make(map[string]interface{}),
	}
	if w != nil {
		c.AddOutput(NewConsoleOutput(w, format))
	}
	return c
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return &Core{level: LevelError + 1, fields: map[string]interface{}{}}
}

// ParseLevel maps a level name to a Level; unknown names mean info.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (c *Core) log(level Level, msg string, fields ...Field) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.level > level {
		return
	}

	entry := Entry{
		Timestamp: time.Now(),
		Level:     level.String(),
		Message:   msg,
		Fields:    make(map[string]interface{}, len(c.fields)+len(fields)),
	}
	for k, v := range c.fields {
		entry.Fields[k] = v
	}
	for _, f := range fields {
		entry.Fields[f.Key] = f.Value
	}

	for _, out := range c.outputs {
		if err := out.Write(entry); err != nil {
			log.Printf("logging: write entry: %v", err)
		}
	}
}

func (c *Core) Debug(msg string, fields ...Field) { c.log(LevelDebug, msg, fields...) }

func (c *Core) Debugf(format string, args ...interface{}) {
	c.log(LevelDebug, fmt.Sprintf(format, args...))
}

func (c *Core) Info(msg string, fields ...Field) { c.log(LevelInfo, msg, fields...) }

func (c *Core) Infof(format string, args ...interface{}) {
	c.log(LevelInfo, fmt.Sprintf(format, args...))
}

func (c *Core) Warn(msg string, fields ...Field) { c.log(LevelWarn, msg, fields...) }

func (c *Core) Warnf(format string, args ...interface{}) {
	c.log(LevelWarn, fmt.Sprintf(format, args...))
}

func (c *Core) Error(msg string, fields ...Field) { c.log(LevelError, msg, fields...) }

func (c *Core) Errorf(format string, args ...interface{}) {
	c.log(LevelError, fmt.Sprintf(format, args...))
}

// With returns a child logger that adds fields to every entry. The child
// shares the parent's outputs.
func (c *Core) With(fields ...Field) Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()

	merged := make(map[string]interface{}, len(c.fields)+len(fields))
	for k, v := range c.fields {
		merged[k] = v
	}
	for _, f := range fields {
		merged[f.Key] = f.Value
	}
	return &Core{level: c.level, outputs: c.outputs, fields: merged}
}

// SetLevel changes the minimum level.
func (c *Core) SetLevel(level Level) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.level = level
}

// AddOutput registers another destination.
func (c *Core) AddOutput(out Output) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outputs = append(c.outputs, out)
}

// Close closes every output.
func (c *Core) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var first error
	for _, out := range c.outputs {
		if err := out.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
