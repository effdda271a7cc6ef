package mod

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"modkeeper/cmd/root"
	"modkeeper/internal/config"
	"modkeeper/services"

	"github.com/spf13/cobra"
)

var modCmd = &cobra.Command{
	Use:   "mod",
	Short: "Manage mods in the local game directory",
	Long:  "Install, uninstall, enable/disable and list mods directly, without going through the daemon",
}

/**
 * Build the mod manager for a one-shot command
 * @param {context.Context} ctx - Bounds the catalog fetch
 * @returns {*services.ModManager} Manager loaded with the current catalog
 * @returns {error} Configuration or catalog errors
 */
func LoadManager(ctx context.Context) (*services.ModManager, error) {
	m, err := services.InitModManager(ctx, config.App())
	if err != nil {
		return nil, fmt.Errorf("failed to load mods: %v", err)
	}
	return m, nil
}

// CommandContext 返回可被Ctrl+C取消的上下文
func CommandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func init() {
	root.RootCmd.AddCommand(modCmd)
}
