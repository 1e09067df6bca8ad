// Package log wraps go-logging with one module-named logger per package and a
// single process-wide level.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/op/go-logging"
)

// Level is the verbosity shared by every module logger.
type Level int

const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var levels = []struct {
	name  string
	level logging.Level
}{
	Debug:   {"debug", logging.DEBUG},
	Info:    {"info", logging.INFO},
	Notice:  {"notice", logging.NOTICE},
	Warning: {"warning", logging.WARNING},
	Error:   {"error", logging.ERROR},
}

func (l Level) String() string {
	if l < Debug || l > Error {
		return fmt.Sprintf("level(%d)", int(l))
	}
	return levels[l].name
}

// ParseLevel accepts the names printed by Level.String, case-insensitively.
func ParseLevel(name string) (Level, error) {
	for l, entry := range levels {
		if strings.EqualFold(name, entry.name) {
			return Level(l), nil
		}
	}
	return Notice, fmt.Errorf("unknown log level %q", name)
}

var (
	colorFormat = logging.MustStringFormatter(
		`%{color}%{time:15:04:05.000} %{level:.4s} [%{module}]%{color:reset} %{message}`,
	)
	plainFormat = logging.MustStringFormatter(
		`%{time:15:04:05.000} %{level:.4s} [%{module}] %{message}`,
	)
)

var (
	mu      sync.Mutex
	backend logging.LeveledBackend
	current = Notice
)

// Logger is the subset of *logging.Logger the tracer logs through.
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// New returns the logger for module, for example "renderer".
func New(module string) Logger {
	return logging.MustGetLogger(module)
}

// SetSink sends all output to sink. Colors are only used when sink is the
// process's stdout or stderr. The current level is kept.
func SetSink(sink io.Writer) {
	format := plainFormat
	if sink == os.Stderr || sink == os.Stdout {
		format = colorFormat
	}

	mu.Lock()
	defer mu.Unlock()
	backend = logging.AddModuleLevel(
		logging.NewBackendFormatter(logging.NewLogBackend(sink, "", 0), format),
	)
	backend.SetLevel(levels[current].level, "")
	logging.SetBackend(backend)
}

// SetLevel changes the verbosity of every module.
func SetLevel(level Level) {
	if level < Debug || level > Error {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	current = level
	backend.SetLevel(levels[level].level, "")
}

// CurrentLevel returns the level set last.
func CurrentLevel() Level {
	mu.Lock()
	defer mu.Unlock()
	return current
}

func init() {
	SetSink(os.Stderr)
}
