// Package logging builds the zap loggers used by the command line tool.
package logging

import (
	"fmt"

	"github.com/Laisky/zap"
	"github.com/Laisky/zap/zapcore"
	"github.com/pkg/errors"
)

// Logger is a zap logger whose level can be changed after construction.
type Logger struct {
	*zap.Logger

	// zap does not expose the level of a built logger, so keep the atomic
	// level to be able to change it.
	level zap.AtomicLevel
}

// Shared is the process wide logger. It logs at info level until changed.
var Shared *Logger

// New returns a console logger writing to stderr at the given level.
func New(name, level string, opts ...zap.Option) (*Logger, error) {
	zl := zap.NewAtomicLevel()
	cfg := zap.Config{
		Level:            zl,
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	cfg.EncoderConfig.MessageKey = "message"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	zapLogger, err := cfg.Build(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "build zap logger")
	}
	if name != "" {
		zapLogger = zapLogger.Named(name)
	}

	l := &Logger{Logger: zapLogger, level: zl}
	return l, l.ChangeLevel(level)
}

// ChangeLevel sets the minimum level that is logged.
func (l *Logger) ChangeLevel(level string) error {
	switch level {
	case "debug":
		l.level.SetLevel(zap.DebugLevel)
	case "info":
		l.level.SetLevel(zap.InfoLevel)
	case "warn":
		l.level.SetLevel(zap.WarnLevel)
	case "error":
		l.level.SetLevel(zap.ErrorLevel)
	default:
		return fmt.Errorf("log level only be debug/info/warn/error, got %q", level)
	}
	return nil
}

// Level returns the current minimum level.
func (l *Logger) Level() string {
	return l.level.Level().String()
}

func init() {
	var err error
	if Shared, err = New("shamirvote", "info"); err != nil {
		panic(fmt.Sprintf("create logger: %+v", err))
	}
}
