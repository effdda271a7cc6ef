package mod

import (
	"fmt"

	"github.com/spf13/cobra"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle <mod name>",
	Short: "Enable or disable an installed mod",
	Long:  "Move an installed mod between the plugins folder and the disabled folder. Enabling a mod also enables its dependencies.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := CommandContext()
		defer cancel()
		m, err := LoadManager(ctx)
		if err != nil {
			return err
		}
		if err := m.Toggle(ctx, args[0]); err != nil {
			return err
		}
		mod, err := m.GetMod(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Mod '%s' is now %s\n", args[0], mod.GetDetail().State)
		return nil
	},
}

func init() {
	modCmd.AddCommand(toggleCmd)
}
