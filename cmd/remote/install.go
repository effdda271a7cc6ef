package remote

import (
	"time"

	"modkeeper/internal/config"

	"github.com/spf13/cobra"
)

var optDisabled bool

var installCmd = &cobra.Command{
	Use:   "install <mod name>",
	Short: "Install a mod through the daemon",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// 安装包含下载，超时时间与下载超时保持一致
		client := newClient(config.App().Install.DownloadTimeout + time.Minute)
		defer client.Close()

		resp, err := client.Post(modPath(args[0], "install"), map[string]interface{}{"enable": !optDisabled}, nil)
		if err != nil {
			return err
		}
		return printModState(resp)
	},
}

func init() {
	installCmd.Flags().BoolVar(&optDisabled, "disabled", false, "install into the disabled folder")
	remoteCmd.AddCommand(installCmd)
}
