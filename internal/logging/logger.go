// Package logging builds the zap logger shared by all components.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New creates a logger writing human-readable output to stderr at the
// given level. When logFile is set, full JSON debug output is also
// written there with rotation, so a quiet console run still leaves a
// usable trace behind.
func New(level string, logFile string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.WarnLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stderr),
		lvl,
	)

	cores := []zapcore.Core{consoleCore}

	if logFile != "" {
		rotator := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // Megabytes
			MaxBackups: 5,
			MaxAge:     30, // Days
			Compress:   true,
		}
		jsonConfig := zap.NewProductionEncoderConfig()
		jsonConfig.TimeKey = "timestamp"
		jsonConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		fileCore := zapcore.NewCore(
			zapcore.NewJSONEncoder(jsonConfig),
			zapcore.AddSync(rotator),
			zapcore.DebugLevel,
		)
		cores = append(cores, fileCore)
	}

	return zap.New(zapcore.NewTee(cores...)), nil
}
