// Package obslog builds the *zap.Logger that cmd/rashc uses as an
// observability hook; no internal package takes a logger. It is structured
// exactly like the teacher's utils.InitializeLogger: console encoder against
// stdout plus the rotated file in development, JSON encoder rotated through
// lumberjack (file only) once RASHC_ENV=prod,
// level selected from an environment variable.
package obslog

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls New's output target and verbosity. The zero Config is
// development mode at info level, logging to stdout and to rashc.log.
type Config struct {
	// Env selects the encoder/sink pair. "prod" gets JSON-to-rotated-file;
	// anything else (including empty) gets console encoding to stdout plus
	// the rotated file.
	Env string
	// Level is one of debug, info, warn, error, dpanic, panic, fatal.
	// Empty defaults to info.
	Level string
	// LogFile is the lumberjack destination used when Env is "prod".
	// Empty defaults to "rashc.log".
	LogFile string
}

// FromEnviron builds a Config from RASHC_ENV and RASHC_LOG_LEVEL, the two
// environment variables cmd/rashc documents for logging control.
func FromEnviron() Config {
	return Config{
		Env:   os.Getenv("RASHC_ENV"),
		Level: os.Getenv("RASHC_LOG_LEVEL"),
	}
}

// New builds a *zap.Logger per cfg. Never returns an error: an unrecognized
// Level falls back to info rather than failing a CLI invocation over a typo
// in an environment variable.
func New(cfg Config) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	level := parseLevel(cfg.Level)
	prod := strings.ToLower(cfg.Env) == "prod"

	var encoder zapcore.Encoder
	if prod {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	logFile := cfg.LogFile
	if logFile == "" {
		logFile = "rashc.log"
	}
	rotator := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}

	var writer zapcore.WriteSyncer
	if prod {
		writer = zapcore.AddSync(rotator)
	} else {
		writer = zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout), zapcore.AddSync(rotator))
	}

	core := zapcore.NewCore(encoder, writer, level)
	return zap.New(core, zap.AddCaller())
}

// Nop returns a no-op logger — logging is observability-only, so a caller
// that never wants a *zap.Logger in the loop pays nothing for it.
func Nop() *zap.Logger {
	return zap.NewNop()
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zap.DebugLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	case "dpanic":
		return zap.DPanicLevel
	case "panic":
		return zap.PanicLevel
	case "fatal":
		return zap.FatalLevel
	default:
		return zap.InfoLevel
	}
}
