package logwrap

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SinkConfig describes a console and/or rolling-file zerolog sink.
type SinkConfig struct {
	// Level is the minimum level written by the sink.
	Level string `validate:"required"`
	// ConsoleLogging enables human-readable output on stderr.
	ConsoleLogging bool
	// FileLogging enables a size/age-rotated log file.
	FileLogging bool
	// Filename is the rotated file path. Required when FileLogging is set.
	Filename string `validate:"required_if=FileLogging true"`
	// WithTimestamp adds a timestamp field to every record.
	WithTimestamp bool

	LogFileMaxBackups int `validate:"gte=0"`
	LogFileMaxAgeDays int `validate:"gte=0"`
	LogFileMaxSizeMB  int `validate:"gte=0"`
}

func (cfg *SinkConfig) rollingFileWriter() *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxBackups: cfg.LogFileMaxBackups,
		MaxAge:     cfg.LogFileMaxAgeDays,
		MaxSize:    cfg.LogFileMaxSizeMB,
	}
}

func (cfg *SinkConfig) writers() []io.Writer {
	var writers []io.Writer
	if cfg.FileLogging {
		writers = append(writers, cfg.rollingFileWriter())
	}
	if cfg.ConsoleLogging {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return writers
}

// NewSink builds a Sink from cfg. The configuration is validated first;
// violations are reported wrapped in ErrInvalidConfig.
func NewSink(cfg SinkConfig) (Sink, error) {
	if err := validateStruct(&cfg); err != nil {
		return nil, err
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing sink level: %w", err)
	}

	writers := cfg.writers()
	if len(writers) == 0 {
		return nil, errors.New(errMsgNoChannels)
	}

	ctx := zerolog.New(io.MultiWriter(writers...)).Level(level).With()
	if cfg.WithTimestamp {
		ctx = ctx.Timestamp()
	}
	logger := ctx.Logger()
	return ZerologSink{Logger: &logger}, nil
}
