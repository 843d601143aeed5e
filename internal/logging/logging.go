// Copyright (c) Microsoft. All rights reserved.

// Package logging configures the slog default logger for the samples.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures [New].
type Options struct {
	// Debug lowers the level to slog.LevelDebug.
	Debug bool

	// File sends logs to a size-rotated file instead of Output.
	File       string
	MaxSizeMB  int // default 10
	MaxBackups int // default 5
	MaxAgeDays int // default 7

	// Output receives logs when File is empty. Default os.Stderr.
	Output io.Writer
}

// OptionsFromEnv reads DEBUG and LOG_FILE. Any DEBUG value other than a
// false boolean enables debug logging.
func OptionsFromEnv() Options {
	debug := false
	if v := os.Getenv("DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		debug = err != nil || b
	}
	return Options{Debug: debug, File: os.Getenv("LOG_FILE")}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds a text logger. The returned Closer releases the log file.
func New(opts Options) (*slog.Logger, io.Closer) {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}

	var (
		w      io.Writer = opts.Output
		closer io.Closer = nopCloser{}
	)
	if w == nil {
		w = os.Stderr
	}
	if opts.File != "" {
		_ = os.MkdirAll(filepath.Dir(opts.File), 0o755)
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    orDefault(opts.MaxSizeMB, 10),
			MaxBackups: orDefault(opts.MaxBackups, 5),
			MaxAge:     orDefault(opts.MaxAgeDays, 7),
			Compress:   true,
		}
		w, closer = lj, lj
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closer
}

// Setup installs a logger built from the environment as the slog default.
func Setup() io.Closer {
	logger, closer := New(OptionsFromEnv())
	slog.SetDefault(logger)
	return closer
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
