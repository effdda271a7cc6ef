package env

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

const AppName = "modkeeper"

// 构建信息，由 -ldflags 注入
var (
	SoftwareVer  = "1.0.0"
	BuildTime    = "unknown"
	BuildTag     = "unknown"
	BuildCommit  = "unknown"
	SoftwareName = AppName
)

// ($XDG_DATA_HOME/modkeeper on Linux, ~/Library/Application Support/modkeeper on macOS)
var DataDir string = GetDataDir()

/**
 * Get modkeeper data directory path
 * @returns {string} Returns data directory path holding the installed-mods record
 */
func GetDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

/**
 * Get directory holding the daemon's unix socket
 * @returns {string} Returns runtime directory path
 */
func GetRunDir() string {
	return filepath.Join(xdg.RuntimeDir, AppName)
}

/**
 * Get default log file path under the XDG state directory
 * @returns {string} Returns log file path
 */
func GetLogFile() string {
	return filepath.Join(xdg.StateHome, AppName, AppName+".log")
}

/**
 * Get default config search directory
 * @returns {string} Returns config directory path
 */
func GetConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}
