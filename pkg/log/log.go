// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/harvest/pkg/status"
)

// 🎨 Display configuration
const (
	fileIndent   = 4  // spaces to indent file entries
	nameWidth    = 35 // base width for filename
	outcomeWidth = 28 // width for outcome text
)

// 📦 RunHeader describes a run for the console banner.
type RunHeader struct {
	SourceRoots []string
	Destination string
	Keywords    []string
}

// 🎯 Logger handles structured logging with console output. Console lines go
// to the configured writer; every line is mirrored to zerolog for machine
// consumption.
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
}

// 🏭 New creates a new logger.
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context, or nil if absent.
func FromContext(ctx context.Context) *Logger {
	logger, _ := ctx.Value(contextKey{}).(*Logger)
	return logger
}

// 🎯 NewContext adds the logger to context.
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 StartRun prints the run banner.
func (l *Logger) StartRun(ctx context.Context, hdr RunHeader) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "[harvesting into %s]\n",
		color.New(color.FgCyan).Sprint(hdr.Destination))
	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(strings.Join(hdr.SourceRoots, ", ")),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(strings.Join(hdr.Keywords, ", ")))

	l.zlog.Info().
		Strs("source_roots", hdr.SourceRoots).
		Str("destination", hdr.Destination).
		Strs("keywords", hdr.Keywords).
		Msg("starting run")
}

// 📝 LogMatch logs a matched file found during the scan phase.
func (l *Logger) LogMatch(ctx context.Context, path, rule, keyword string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "%s%s %s %s\n",
		strings.Repeat(" ", fileIndent),
		color.New(color.FgRed).Sprint("»"),
		fmt.Sprintf("%-*s", nameWidth, filepath.Base(path)),
		color.New(color.Faint).Sprintf("(%s: %s)", rule, keyword))

	l.zlog.Info().
		Str("file", path).
		Str("rule", rule).
		Str("keyword", keyword).
		Msg("match found")
}

// 📝 LogEntry logs a per-file copy outcome.
func (l *Logger) LogEntry(ctx context.Context, e status.Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var symbol string
	switch e.Outcome {
	case status.OutcomeCopied:
		if e.Renamed {
			symbol = color.BlueString("⟳")
		} else {
			symbol = color.GreenString("✓")
		}
	case status.OutcomeDuplicate, status.OutcomeExistingIdentical:
		symbol = color.HiBlackString("-")
	case status.OutcomeFailed:
		symbol = color.RedString("✗")
	default:
		symbol = color.YellowString("?")
	}

	fmt.Fprintf(l.console, "%s%s %s %s\n",
		strings.Repeat(" ", fileIndent),
		symbol,
		fmt.Sprintf("%-*s", nameWidth, filepath.Base(e.Source)),
		fmt.Sprintf("%-*s", outcomeWidth, e.Outcome.String()))

	ev := l.zlog.Info()
	if e.Outcome == status.OutcomeFailed {
		ev = l.zlog.Error().Err(e.Err)
	}
	ev.Str("source", e.Source).
		Str("dest", e.Dest).
		Str("outcome", e.Outcome.String()).
		Msg("file outcome")
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	harvestText := color.New(color.Bold, color.FgCyan).Sprint("harvest")
	fmt.Fprintf(l.console, "\n%s %s\n\n", harvestText, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
