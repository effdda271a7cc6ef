package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// 初始化前的日志全部丢弃
var defaultLogger = zerolog.Nop()

// GetLogLevelFromString 将字符串转换为日志级别
func GetLogLevelFromString(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.WarnLevel
	}
}

/**
 * Initialize logging system
 * @param {string} path - Log file path, "console" or empty writes to stderr only
 * @param {string} level - Log level (debug/info/warn/error)
 * @param {bool} console - Mirror log lines to stderr in human readable form
 * @description
 * - Creates parent directory of the log file if needed
 * - Falls back to stderr when the log file cannot be opened
 */
func InitLogger(path string, level string, console bool) {
	var writers []io.Writer
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}

	if path == "console" || path == "" {
		writers = append(writers, consoleWriter)
	} else {
		file, err := openLogFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			writers = append(writers, consoleWriter)
		} else {
			writers = append(writers, file)
			if console {
				writers = append(writers, consoleWriter)
			}
		}
	}
	defaultLogger = zerolog.New(io.MultiWriter(writers...)).
		Level(GetLogLevelFromString(level)).
		With().Timestamp().Logger()
}

/**
 * Initialize logging to an arbitrary writer
 * @param {io.Writer} w - Destination of JSON log lines
 * @param {string} level - Log level
 */
func InitLoggerWithWriter(w io.Writer, level string) {
	defaultLogger = zerolog.New(w).Level(GetLogLevelFromString(level)).With().Timestamp().Logger()
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

// With 返回带组件名的子日志器
func With(component string) zerolog.Logger {
	return defaultLogger.With().Str("component", component).Logger()
}

func Debug(v ...any) {
	defaultLogger.Debug().Msg(fmt.Sprint(v...))
}

func Debugf(format string, v ...any) {
	defaultLogger.Debug().Msgf(format, v...)
}

func Info(v ...any) {
	defaultLogger.Info().Msg(fmt.Sprint(v...))
}

func Infof(format string, v ...any) {
	defaultLogger.Info().Msgf(format, v...)
}

func Warn(v ...any) {
	defaultLogger.Warn().Msg(fmt.Sprint(v...))
}

func Warnf(format string, v ...any) {
	defaultLogger.Warn().Msgf(format, v...)
}

func Error(v ...any) {
	defaultLogger.Error().Msg(fmt.Sprint(v...))
}

func Errorf(format string, v ...any) {
	defaultLogger.Error().Msgf(format, v...)
}

// Fatal 记录错误并退出进程
func Fatal(v ...any) {
	defaultLogger.Error().Msg(fmt.Sprint(v...))
	os.Exit(1)
}

func Fatalf(format string, v ...any) {
	defaultLogger.Error().Msgf(format, v...)
	os.Exit(1)
}
