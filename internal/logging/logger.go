// Package logging builds the process logger: a zap console core on stdout
// (colored levels when enabled) plus an optional plain-text file sink.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/backmassage/webpdrop/internal/config"
	"github.com/backmassage/webpdrop/internal/term"
)

// Logger wraps a *zap.Logger with the log file it may own.
// Call Close() when done.
type Logger struct {
	*zap.Logger
	file *os.File
}

// NewLogger builds the logger from cfg: Debug level when Verbose, colored
// level names when the color mode resolves to on, and a second core that
// appends to cfg.LogFile when set.
func NewLogger(cfg *config.Config) (*Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Verbose {
		level = zapcore.DebugLevel
	}

	stdoutEnc := encoderConfig()
	if term.ColorEnabled(cfg.ColorMode) {
		stdoutEnc.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(stdoutEnc), zapcore.Lock(os.Stdout), level),
	}

	l := &Logger{}
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		l.file = f
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.AddSync(f), level))
	}

	l.Logger = zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zapcore.FatalLevel))
	return l, nil
}

func encoderConfig() zapcore.EncoderConfig {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	ec.CallerKey = ""
	return ec
}

// Close flushes buffered entries and closes the log file if one was opened.
func (l *Logger) Close() error {
	_ = l.Logger.Sync()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}
