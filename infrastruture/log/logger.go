// Package logger provides the coloured, prefixed application logger.
package logger

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	levelErrorColor = "\033[31m"
	levelWarnColor  = "\033[33m"
	levelInfoColor  = "\033[32m"
	levelDebugColor = "\033[90m"
	colorReset      = "\033[0m"

	timestampFormat = "2006/01/02 15:04:05"
)

var ErrEmptyPrefix = errors.New("logger prefix must not be empty")

// Logger writes "[PREFIX] time [LEVEL] message" lines.
type Logger struct {
	entry *logrus.Entry
}

// New creates a logger writing to w. The prefix is drawn in color, which is
// an ANSI escape sequence and may be empty.
func New(prefix string, color string, w io.Writer) (*Logger, error) {
	if strings.TrimSpace(prefix) == "" {
		return nil, ErrEmptyPrefix
	}

	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&prefixFormatter{prefix: prefix, color: color})

	return &Logger{entry: logrus.NewEntry(l)}, nil
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string) {
	l.entry.Debug(msg)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.entry.Info(msg)
}

// Warning logs a warning.
func (l *Logger) Warning(msg string) {
	l.entry.Warn(msg)
}

// Error logs an error.
func (l *Logger) Error(msg string) {
	l.entry.Error(msg)
}

// WithField returns a logger that appends key=value to every line.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

// SetLevel changes the minimum level written, e.g. "info" or "debug".
func (l *Logger) SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	l.entry.Logger.SetLevel(lvl)
	return nil
}

type prefixFormatter struct {
	prefix string
	color  string
}

// Format implements logrus.Formatter.
func (f *prefixFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer

	if f.color != "" {
		fmt.Fprintf(&b, "%s[%s]%s ", f.color, f.prefix, colorReset)
	} else {
		fmt.Fprintf(&b, "[%s] ", f.prefix)
	}
	b.WriteString(e.Time.Format(timestampFormat))

	levelColor, levelName := levelStyle(e.Level)
	if f.color != "" {
		fmt.Fprintf(&b, " %s[%s]%s %s", levelColor, levelName, colorReset, e.Message)
	} else {
		fmt.Fprintf(&b, " [%s] %s", levelName, e.Message)
	}

	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Data[k])
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

func levelStyle(level logrus.Level) (string, string) {
	switch level {
	case logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel:
		return levelErrorColor, "ERROR"
	case logrus.WarnLevel:
		return levelWarnColor, "WARNING"
	case logrus.InfoLevel:
		return levelInfoColor, "INFO"
	default:
		return levelDebugColor, "DEBUG"
	}
}
