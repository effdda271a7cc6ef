package api

import (
	"fmt"

	"modkeeper/cmd/mod"

	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install or enable the runtime support package",
	Long:  "Enable the runtime support package if it is disabled, and download it when it is missing or older than the required major version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := mod.CommandContext()
		defer cancel()
		m, err := mod.LoadManager(ctx)
		if err != nil {
			return err
		}
		if err := m.InstallApi(ctx); err != nil {
			return err
		}
		fmt.Printf("Runtime support is %s\n", m.ApiState().State)
		return nil
	},
}

func init() {
	apiCmd.AddCommand(installCmd)
}
