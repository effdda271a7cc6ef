package server

import (
	"net"
	"os"
	"path/filepath"
	"runtime"

	"modkeeper/internal/logger"
)

type ListenAddr struct {
	Network string
	Address string
}

/**
 * Test if the system supports Unix socket network type
 * @returns {bool} Always true off Windows, otherwise probes a temporary socket
 */
func IsUnixSocketSupported() bool {
	if runtime.GOOS != "windows" { //window,linux,darwin
		return true
	}
	// 尝试创建一个临时的Unix socket来测试系统是否支持
	testSocketPath := filepath.Join(os.TempDir(), "modkeeper_probe.sock")
	// 清理可能存在的测试socket文件
	os.Remove(testSocketPath)

	// 尝试创建Unix socket监听器
	listener, err := net.Listen("unix", testSocketPath)
	if err != nil {
		// 如果创建失败，说明系统不支持Unix socket
		return false
	}

	// 如果创建成功，关闭监听器并清理文件
	listener.Close()
	os.Remove(testSocketPath)
	return true
}

/**
 * Create TCP and Unix socket listeners for cross-platform support
 * @param {[]ListenAddr} addrs - Listener Address
 * @returns {[]net.Listener} Array of created listeners
 * @returns {error} Error if listener creation fails
 * @description
 * - Removes a stale socket file before listening on it
 * - Restricts the socket file to the current user
 * - A failed address is logged and skipped, the last error is returned
 */
func CreateListeners(addrs []ListenAddr) ([]net.Listener, error) {
	var listeners []net.Listener

	var lastErr error
	for _, addr := range addrs {
		if addr.Network == "unix" {
			if err := os.Remove(addr.Address); err != nil && !os.IsNotExist(err) {
				logger.Errorf("Failed to remove existing socket file: %v", err)
				continue
			}
		}
		l, err := net.Listen(addr.Network, addr.Address)
		if err != nil {
			logger.Errorf("Failed to create listener on %s://%s: %v", addr.Network, addr.Address, err)
			lastErr = err
			continue
		}
		if addr.Network == "unix" {
			os.Chmod(addr.Address, 0600)
		}
		listeners = append(listeners, l)
	}
	return listeners, lastErr
}
