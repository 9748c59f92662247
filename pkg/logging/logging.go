// Package logging builds the application logger and adapts it to the
// narrow types.Logger interface the core packages depend on.
package logging

import (
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"

	"github.com/userpulse/userpulse/pkg/types"
)

// New builds a named glog logger at the given level and wraps it so core
// packages stay decoupled from the logging library.
func New(name, level string) types.Logger {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(parseLevel(level)),
		glog.WithName(name),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(goerrors.ToSlogAttributes),
	)
	return &adapter{l: lgr.GetLogger(name)}
}

func parseLevel(level string) string {
	switch level {
	case "trace":
		return glog.Trace
	case "debug":
		return glog.Debug
	case "warn":
		return glog.Warn
	case "error":
		return glog.Error
	default:
		return glog.Info
	}
}

type adapter struct {
	l glog.Logger
}

func (a *adapter) Debug(msg string, args ...any) {
	a.l.Debug(msg, args...)
}

func (a *adapter) Info(msg string, args ...any) {
	a.l.Info(msg, args...)
}

func (a *adapter) Error(msg string, err error, args ...any) {
	if err != nil {
		args = append([]any{"error", err}, args...)
	}
	a.l.Error(msg, args...)
}
