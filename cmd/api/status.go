package api

import (
	"fmt"

	"modkeeper/cmd/root"
	"modkeeper/internal/config"
	"modkeeper/internal/models"
	"modkeeper/internal/store"
	"modkeeper/internal/utils"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show runtime support state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 只读取本地记录，不访问远程目录
		installed, err := store.Load(config.App().State.Path)
		if err != nil {
			return err
		}
		return PrintApiDetail(root.OutputFormat, models.NewApiDetail(installed.ApiInstall()))
	},
}

// PrintApiDetail 输出运行时支持包状态
func PrintApiDetail(format string, d models.ApiDetail) error {
	if format != utils.FormatTable {
		return utils.Print(format, d)
	}
	fmt.Printf("State: %s\n", d.State)
	if d.Installed {
		fmt.Printf("Version: %s\n", d.Version)
	}
	return nil
}

func init() {
	apiCmd.AddCommand(statusCmd)
}
