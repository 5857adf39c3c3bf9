package logger

import (
	"fmt"
	"os"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Rotation settings for the optional log file.
const (
	MaxAge       = 7 * 24 * time.Hour
	RotationTime = 24 * time.Hour
)

// Options controls where and how much is logged.
type Options struct {
	File    string // Rotating JSON log file prefix, empty for none
	Verbose bool   // Debug level everywhere
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "date",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// New builds the application logger. Console output goes to stderr so that
// stdout carries only results; it stays at Warn unless verbose, since the
// live status line shares the terminal.
func New(opts Options) (*zap.Logger, error) {
	level, consoleLevel := zap.InfoLevel, zap.WarnLevel
	if opts.Verbose {
		level, consoleLevel = zap.DebugLevel, zap.DebugLevel
	}

	encCfg := encoderConfig()
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), consoleLevel),
	}

	if opts.File != "" {
		rotator, err := rotatelogs.New(
			fmt.Sprintf("%s_%%Y-%%m-%%d.log", opts.File),
			rotatelogs.WithMaxAge(MaxAge),
			rotatelogs.WithRotationTime(RotationTime))
		if err != nil {
			return nil, err
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(rotator), level))
	}

	return zap.New(zapcore.NewTee(cores...)), nil
}
