package remote

import (
	"fmt"
	"net/url"
	"time"

	"modkeeper/cmd/root"
	"modkeeper/controllers"
	"modkeeper/internal/config"
	"modkeeper/internal/models"
	"modkeeper/internal/rpc"

	"github.com/spf13/cobra"
)

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Manage mods through a running daemon",
	Long:  "Send mod management requests to the daemon started by 'modkeeper server', over its unix socket or TCP address",
}

/**
 * Create client for the configured daemon
 * @param {time.Duration} timeout - Request timeout, 0 keeps the default
 * @returns {rpc.HTTPClient} Client, caller closes it
 */
func newClient(timeout time.Duration) rpc.HTTPClient {
	cfg := rpc.DefaultHTTPConfig(&config.App().Server)
	if timeout > 0 {
		cfg.Timeout = timeout
	}
	return rpc.NewHTTPClient(cfg)
}

func modPath(name string, action string) string {
	p := controllers.APIPrefix + "/mods/" + url.PathEscape(name)
	if action != "" {
		p += "/" + action
	}
	return p
}

// printModState 输出操作后的模组状态
func printModState(resp *rpc.HTTPResponse) error {
	var detail models.ModDetail
	if err := resp.Decode(&detail); err != nil {
		return err
	}
	fmt.Printf("Mod '%s' is now %s\n", detail.Name, detail.State)
	return nil
}

func printStatus(resp *rpc.HTTPResponse) error {
	var status models.StatusResponse
	if err := resp.Decode(&status); err != nil {
		return err
	}
	fmt.Println(status.Message)
	return nil
}

func init() {
	root.RootCmd.AddCommand(remoteCmd)
}
