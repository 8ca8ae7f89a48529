// Package logger builds the process logger from configuration.
package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cabewaldrop/lightoladb/internal/config"
)

// StyleFormatter prints "time LEVEL function - message key=value ...".
type StyleFormatter struct{}

func (f *StyleFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	timestamp := entry.Time.Format("2006-01-02 15:04:05")
	level := strings.ToUpper(entry.Level.String())
	function := "unknown"
	if entry.Caller != nil {
		function = entry.Caller.Function
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %-5s %s - %s", timestamp, level, function, entry.Message)
	for _, key := range sortedKeys(entry.Data) {
		fmt.Fprintf(&sb, " %s=%v", key, entry.Data[key])
	}
	sb.WriteByte('\n')
	return []byte(sb.String()), nil
}

// New creates a logger writing to stderr.
func New(cfg config.LogConfig) (*logrus.Logger, error) {
	return NewWithOutput(cfg, os.Stderr)
}

// NewWithOutput creates a logger writing to w.
func NewWithOutput(cfg config.LogConfig, w io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(level)

	switch cfg.Format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "style":
		log.SetFormatter(&StyleFormatter{})
		log.SetReportCaller(true)
	case "text", "":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}
	return log, nil
}

// Discard returns a logger that drops everything. Tests use it.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func sortedKeys(data logrus.Fields) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
