package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the global logger. It is a no-op until Initialize runs, so packages
// can log from tests without setup.
var Log = zap.NewNop()

// DisableFile is the log file value that turns off file output
const DisableFile = "-"

// Initialize replaces Log with a logger writing human-readable lines to stdout
// and JSON lines to a rotated logFile.
// logLevel is one of debug, info, warn, error (default info).
// logFile defaults to server.log; DisableFile keeps output on stdout only.
func Initialize(logLevel string, logFile string) error {
	if logFile == "" {
		logFile = "server.log"
	}
	level := parseLogLevel(logLevel)

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.AddSync(os.Stdout),
			level,
		),
	}

	if logFile != DisableFile {
		jsonConfig := zap.NewProductionEncoderConfig()
		jsonConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(jsonConfig),
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   logFile,
				MaxSize:    100, // megabytes
				MaxBackups: 5,
				MaxAge:     7, // days
				Compress:   true,
			}),
			level,
		))
	}

	Log = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).
		With(zap.String("service", "inkwell"))

	Log.Info("Logger initialized",
		zap.String("level", level.String()),
		zap.String("file", logFile),
	)
	return nil
}

// Close flushes buffered entries
func Close() error {
	return Log.Sync()
}

func parseLogLevel(levelStr string) zapcore.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// WarnWithFields logs a warning, attaching err when non-nil
func WarnWithFields(msg string, err error) {
	if err != nil {
		Log.Warn(msg, zap.Error(err))
		return
	}
	Log.Warn(msg)
}

// ErrorWithFields logs an error, attaching err when non-nil
func ErrorWithFields(msg string, err error) {
	if err != nil {
		Log.Error(msg, zap.Error(err))
		return
	}
	Log.Error(msg)
}

// FatalWithFields logs and exits the process
func FatalWithFields(msg string, err error) {
	if err != nil {
		Log.Fatal(msg, zap.Error(err))
		return
	}
	Log.Fatal(msg)
}

func WithRequestID(requestID string) zap.Field { return zap.String("request_id", requestID) }
func WithUserID(userID string) zap.Field       { return zap.String("user_id", userID) }
func WithPostID(postID string) zap.Field       { return zap.String("post_id", postID) }
func WithCommentID(commentID string) zap.Field { return zap.String("comment_id", commentID) }
func WithEventID(eventID string) zap.Field     { return zap.String("event_id", eventID) }
func WithAction(action string) zap.Field       { return zap.String("action", action) }
func WithIP(ip string) zap.Field               { return zap.String("ip", ip) }
func WithStatus(status int) zap.Field          { return zap.Int("status", status) }
