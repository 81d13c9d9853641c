// Copyright (c) 2026 Keymaster Team
// sshkeymanager - authorized_keys assembler
// This source code is licensed under the MIT license found in the LICENSE file.

// Package logging builds the loggers handed to discovery, the writer and the
// publisher. Nothing below the CLI reads a global logger; callers pass the
// *log.Logger they were given.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	clog "github.com/charmbracelet/log"
)

// Component is the name printed in front of every message.
const Component = "sshkeymanager"

// levelNames are the level labels used in the log line.
var levelNames = map[clog.Level]string{
	clog.DebugLevel: "DEBUG",
	clog.InfoLevel:  "INFO",
	clog.WarnLevel:  "WARNING",
	clog.ErrorLevel: "ERROR",
	clog.FatalLevel: "CRITICAL",
}

// L is the process-level logger used before configuration has been loaded
// and for the final fatal error in main.
var L = New(os.Stderr, 0)

// LevelForVerbosity maps the number of -v flags to a log level. Zero keeps
// warnings and errors, one adds info, two or more add debug.
func LevelForVerbosity(verbosity int) clog.Level {
	switch {
	case verbosity <= 0:
		return clog.WarnLevel
	case verbosity == 1:
		return clog.InfoLevel
	default:
		return clog.DebugLevel
	}
}

// Styles renders each line as "<component>:<LEVEL> - <message>" with the
// level padded to eight columns.
func Styles() *clog.Styles {
	st := clog.DefaultStyles()
	for lvl, name := range levelNames {
		st.Levels[lvl] = lipgloss.NewStyle().SetString(fmt.Sprintf("%s:%-8s -", Component, name))
	}
	return st
}

// New returns a logger writing to w at the level selected by verbosity.
func New(w io.Writer, verbosity int) *clog.Logger {
	l := clog.NewWithOptions(w, clog.Options{
		Level:           LevelForVerbosity(verbosity),
		ReportTimestamp: false,
	})
	l.SetStyles(Styles())
	return l
}

// Discard returns a logger that drops everything. Useful as a default for
// library callers that do not care about warnings.
func Discard() *clog.Logger {
	return clog.New(io.Discard)
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *clog.Logger) *clog.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
