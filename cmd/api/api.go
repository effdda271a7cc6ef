package api

import (
	"modkeeper/cmd/root"

	"github.com/spf13/cobra"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Manage the runtime support package",
	Long:  "Show, install and enable/disable the BepInEx runtime support package that loads mods",
}

func init() {
	root.RootCmd.AddCommand(apiCmd)
}
