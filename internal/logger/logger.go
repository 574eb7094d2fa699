// Package logger owns the application log. The planning and review wizards
// draw the whole terminal, so nothing may leak to stderr during normal
// operation: entries go to a rotating file under the config directory, and
// only --debug mirrors them to stderr.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/tandemhq/tandem/internal/constants"
)

// Logger is the global instance; nil until Init succeeds. The package-level
// helpers tolerate nil so components like the progress stores can log
// unconditionally.
var Logger *log.Logger

type Config struct {
	Debug     bool
	ConfigDir string
}

// Init routes log output to <ConfigDir>/logs/tandem.log with rotation. In
// debug mode the level drops to debug and entries are mirrored to stderr;
// otherwise only warnings and errors are recorded, silently.
func Init(cfg Config) error {
	logDir := filepath.Join(cfg.ConfigDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	var writer io.Writer = &lumberjack.Logger{
		Filename:   filepath.Join(logDir, constants.AppName+".log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	level := log.WarnLevel
	if cfg.Debug {
		level = log.DebugLevel
		writer = io.MultiWriter(os.Stderr, writer)
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})
	return nil
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
