package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the application logger.  Entries go to stdout and to a
// rotated file under dir.  Production uses JSON; other environments use
// the console encoder.
func NewLogger(env, dir string) (*zap.Logger, error) {
	encCfg := zap.NewDevelopmentEncoderConfig()
	level := zapcore.DebugLevel
	if env == "prod" {
		encCfg = zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		level = zapcore.InfoLevel
	}
	var enc zapcore.Encoder
	if env == "prod" {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	file, err := rotatingFile(dir, "app.log")
	if err != nil {
		return nil, err
	}
	core := zapcore.NewTee(
		zapcore.NewCore(enc, zapcore.Lock(os.Stdout), level),
		zapcore.NewCore(enc, zapcore.AddSync(file), level),
	)
	return zap.New(core, zap.AddCaller()), nil
}

// NewJournal returns an Info-level JSON logger that writes only to
// dir/name.  The booking event consumer uses it as an append-only journal.
func NewJournal(dir, name string) (*zap.Logger, error) {
	file, err := rotatingFile(dir, name)
	if err != nil {
		return nil, err
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(file), zapcore.InfoLevel)
	return zap.New(core), nil
}

func rotatingFile(dir, name string) (*lumberjack.Logger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, name),
		MaxSize:    10, // megabytes
		MaxBackups: 7,
		MaxAge:     28, // days
		Compress:   true,
	}, nil
}
