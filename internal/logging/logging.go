// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging wraps logrus with a package-level logger.
//
// The terminal belongs to the TUI, so until Init is called the logger
// discards everything.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

var current atomic.Pointer[logrus.Logger]

func init() {
	l := logrus.New()
	l.SetOutput(io.Discard)
	current.Store(l)
}

// ParseLevel maps a config level name to a logrus level. Unknown names
// fall back to info.
func ParseLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// Init replaces the package logger.
func Init(level, format string, out io.Writer) {
	l := logrus.New()
	l.SetLevel(ParseLevel(level))

	switch format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			DisableColors: true,
		})
	}

	if out == nil {
		out = io.Discard
	}
	l.SetOutput(out)
	current.Store(l)
}

// InitFile opens (or creates) path for appending and logs to it.
// The caller closes the returned file on shutdown.
func InitFile(level, format, path string) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	Init(level, format, f)
	return f, nil
}

// L returns the package logger.
func L() *logrus.Logger {
	return current.Load()
}

// WithField returns an entry with one field set.
func WithField(key string, value interface{}) *logrus.Entry {
	return L().WithField(key, value)
}

// WithFields returns an entry with several fields set.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return L().WithFields(fields)
}

// WithError returns an entry carrying err.
func WithError(err error) *logrus.Entry {
	return L().WithError(err)
}

func Debug(args ...interface{})                 { L().Debug(args...) }
func Debugf(format string, args ...interface{}) { L().Debugf(format, args...) }
func Info(args ...interface{})                  { L().Info(args...) }
func Infof(format string, args ...interface{})  { L().Infof(format, args...) }
func Warn(args ...interface{})                  { L().Warn(args...) }
func Warnf(format string, args ...interface{})  { L().Warnf(format, args...) }
func Error(args ...interface{})                 { L().Error(args...) }
func Errorf(format string, args ...interface{}) { L().Errorf(format, args...) }
