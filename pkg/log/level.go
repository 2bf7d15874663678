package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Global, default log level control.
var globalLogLevel levelSetter = zap.NewAtomicLevel()

type levelSetter interface {
	zapcore.LevelEnabler
	SetLevel(zapcore.Level)
	Level() zapcore.Level
}

// SetLevel sets the log level for loggers created with the default level
// controller.
func SetLevel(level int8) {
	SetLevelForControl(globalLogLevel, level)
}

// SetLevelForControl sets the log level for a given control.
func SetLevelForControl(control levelSetter, level int8) {
	// Zap's levels get more verbose as the number gets smaller, so the logr
	// verbosity is negated.
	control.SetLevel(zapcore.Level(-level))
}
