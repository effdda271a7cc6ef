package mod

import (
	"fmt"

	"github.com/spf13/cobra"
)

var uninstallCmd = &cobra.Command{
	Use:     "uninstall <mod name>",
	Aliases: []string{"remove"},
	Short:   "Uninstall a mod",
	Long:    "Remove an installed mod. With install.auto_remove_deps, dependencies no other installed mod needs are removed too.",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := CommandContext()
		defer cancel()
		m, err := LoadManager(ctx)
		if err != nil {
			return err
		}
		if err := m.Uninstall(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("Mod '%s' uninstalled\n", args[0])
		return nil
	},
}

func init() {
	modCmd.AddCommand(uninstallCmd)
}
