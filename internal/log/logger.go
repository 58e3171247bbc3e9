package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tmfelwu/obsidian-file-rename/pkg/types"
)

type Logger struct {
	mu      sync.Mutex
	console io.Writer
	file    *os.File
	logJSON bool
	logText bool
}

func New(logFilePath string, logJSON, logText bool) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(logFilePath), 0755); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	return &Logger{
		console: os.Stdout,
		file:    file,
		logJSON: logJSON,
		logText: logText,
	}, nil
}

// NewConsole returns a logger that only prints notices to w.
func NewConsole(w io.Writer) *Logger {
	return &Logger{console: w}
}

// SetConsole redirects notices to w.
func (l *Logger) SetConsole(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.console = w
}

func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

type LogEntry struct {
	Timestamp time.Time          `json:"timestamp"`
	Level     string             `json:"level"`
	Message   string             `json:"message"`
	Source    string             `json:"source,omitempty"`
	Dest      string             `json:"dest,omitempty"`
	Action    types.RenameAction `json:"action,omitempty"`
	Reason    string             `json:"reason,omitempty"`
	Error     string             `json:"error,omitempty"`
	Duration  time.Duration      `json:"duration,omitempty"`
}

func (l *Logger) LogRename(result types.RenameResult, duration time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     "INFO",
		Message:   fmt.Sprintf("%s: %s -> %s", result.Action, result.Source, result.Dest),
		Source:    result.Source,
		Dest:      result.Dest,
		Action:    result.Action,
		Reason:    result.Reason,
		Duration:  duration,
	}

	switch result.Action {
	case types.RenameActionFailed:
		entry.Level = "ERROR"
		entry.Error = result.Reason
	case types.RenameActionSkipped:
		entry.Message = fmt.Sprintf("%s: %s (%s)", result.Action, result.Source, result.Reason)
	}

	l.writeEntry(entry)
}

func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     "INFO",
		Message:   msg,
	}
	l.writeEntry(entry)
}

func (l *Logger) Error(msg string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     "ERROR",
		Message:   msg,
		Error:     err.Error(),
	}
	l.writeEntry(entry)
}

func (l *Logger) writeEntry(entry LogEntry) {
	if l.logJSON && l.file != nil {
		data, _ := json.Marshal(entry)
		l.file.Write(data)
		l.file.Write([]byte("\n"))
	}

	if l.logText && l.file != nil {
		line := fmt.Sprintf("[%s] %s %s\n",
			entry.Timestamp.Format("2006-01-02 15:04:05"),
			entry.Level,
			entry.Message,
		)
		if entry.Error != "" {
			line = fmt.Sprintf("[%s] %s %s - Error: %s\n",
				entry.Timestamp.Format("2006-01-02 15:04:05"),
				entry.Level,
				entry.Message,
				entry.Error,
			)
		}
		l.file.WriteString(line)
	}
}

// Notice prints a user-facing message on the console.
func (l *Logger) Notice(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.console != nil {
		fmt.Fprintln(l.console, msg)
	}
}

// History prints the rename journal, newest last.
func (l *Logger) History(records []types.RenameRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(records) == 0 {
		fmt.Fprintln(l.console, "No renames recorded.")
		return
	}
	for _, r := range records {
		fmt.Fprintf(l.console, "%s  %-8s  %s -> %s\n",
			r.Timestamp.Format("2006-01-02 15:04:05"), r.Action, r.From, r.To)
	}
}
