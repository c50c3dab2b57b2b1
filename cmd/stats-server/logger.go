package main

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type logConfig struct {
	Level      string `long:"level" env:"LEVEL" description:"minimum log level" default:"debug"`
	File       string `long:"file" env:"FILE" description:"write JSON logs to this file instead of the console"`
	MaxSizeMB  int    `long:"max-size" env:"MAX_SIZE" description:"megabytes before the log file is rotated" default:"100"`
	MaxBackups int    `long:"max-backups" env:"MAX_BACKUPS" description:"rotated log files kept" default:"5"`
	MaxAgeDays int    `long:"max-age" env:"MAX_AGE" description:"days rotated log files are kept" default:"28"`
}

// newLogger returns the development console logger, or a JSON logger on a
// rotated file when a log file is configured.
func newLogger(cfg logConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	if cfg.File == "" {
		dev := zap.NewDevelopmentConfig()
		dev.Level = zap.NewAtomicLevelAt(level)
		return dev.Build()
	}

	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	})
	core := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), writer, level)
	return zap.New(core, zap.AddCaller()), nil
}
