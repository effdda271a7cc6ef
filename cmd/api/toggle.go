package api

import (
	"fmt"

	"modkeeper/cmd/mod"

	"github.com/spf13/cobra"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Enable or disable the runtime support package",
	Long:  "Rename the loader entry file so the game starts with or without mods",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := mod.CommandContext()
		defer cancel()
		m, err := mod.LoadManager(ctx)
		if err != nil {
			return err
		}
		if err := m.ToggleApi(ctx); err != nil {
			return err
		}
		fmt.Printf("Runtime support is now %s\n", m.ApiState().State)
		return nil
	},
}

func init() {
	apiCmd.AddCommand(toggleCmd)
}
