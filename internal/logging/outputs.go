package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
)

// ConsoleOutput writes entries to a writer, one per line.
type ConsoleOutput struct {
	mu     sync.Mutex
	writer io.Writer
	format Format
}

// NewConsoleOutput creates a console output.
func NewConsoleOutput(w io.Writer, format Format) Output {
	return &ConsoleOutput{writer: w, format: format}
}

func (c *ConsoleOutput) Write(entry Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	line, err := render(entry, c.format)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.writer, line)
	return err
}

func (c *ConsoleOutput) Close() error { return nil }

// FileOutput appends entries to a file.
type FileOutput struct {
	mu     sync.Mutex
	file   *os.File
	format Format
}

// NewFileOutput opens path for appending.
func NewFileOutput(path string, format Format) (Output, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("logging: open %s: %w", path, err)
	}
	return &FileOutput{file: f, format: format}, nil
}

func (f *FileOutput) Write(entry Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	line, err := render(entry, f.format)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f.file, line)
	return err
}

func (f *FileOutput) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.file.Close()
}

func render(entry Entry, format Format) (string, error) {
	if format == FormatJSON {
		data, err := sonic.Marshal(entry)
		if err != nil {
			return "", fmt.Errorf("logging: marshal entry: %w", err)
		}
		return string(data), nil
	}

	line := fmt.Sprintf("%s [%s] %s", entry.Timestamp.Format("2006/01/02 15:04:05"), entry.Level, entry.Message)
	if len(entry.Fields) == 0 {
		return line, nil
	}
	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, entry.Fields[k])
	}
	return line + " " + strings.Join(parts, " "), nil
}
