// Package logging provides the component-tagged diagnostic logger and the
// console reporter used for everything the operator sees.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls where diagnostics go
type Config struct {
	// Verbose enables the Verbose messages
	Verbose bool
	// LogFile, when set, receives JSON lines through a rotating writer
	LogFile string
	// HistoryLines bounds the in-memory history (default 30)
	HistoryLines int
	// Output receives console diagnostics (default stderr)
	Output io.Writer
}

// Logger is the unified debug logger: console, optional rotating file and history
type Logger struct {
	zap     *zap.Logger
	verbose bool
	history *History
	file    *lumberjack.Logger
}

// New builds a logger from cfg
func New(cfg Config) (*Logger, error) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	lines := cfg.HistoryLines
	if lines <= 0 {
		lines = 30
	}

	level := zapcore.InfoLevel
	if cfg.Verbose {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(out), level),
	}

	l := &Logger{
		verbose: cfg.Verbose,
		history: NewHistory(lines),
	}

	if cfg.LogFile != "" {
		l.file = &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10,
			MaxBackups: 3,
			Compress:   true,
		}
		// probe the path now so a bad --log-file is reported up front
		if _, err := l.file.Write(nil); err != nil {
			return nil, errors.Wrapf(err, "failed to open log file %s", cfg.LogFile)
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(l.file),
			level,
		))
	}

	l.zap = zap.New(zapcore.NewTee(cores...))
	return l, nil
}

// NewNop returns a logger that only keeps history
func NewNop() *Logger {
	return &Logger{zap: zap.NewNop(), history: NewHistory(30)}
}

// Debug logs a component-tagged diagnostic message
func (l *Logger) Debug(component, message string) {
	l.history.Add(fmt.Sprintf("[%s] %s", component, message))
	l.zap.Info(message, zap.String("component", component))
}

// Verbose logs only when verbose output was requested
func (l *Logger) Verbose(component, message string) {
	if !l.verbose {
		return
	}
	l.history.Add(fmt.Sprintf("[%s] %s", component, message))
	l.zap.Debug(message, zap.String("component", component))
}

// History returns the recent-lines buffer
func (l *Logger) History() *History {
	return l.history
}

// Close flushes buffered output and closes the log file
func (l *Logger) Close() error {
	// Sync on a terminal stderr reports EINVAL on some platforms, nothing to do about it
	_ = l.zap.Sync()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
