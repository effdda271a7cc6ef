package remote

import (
	"github.com/spf13/cobra"
)

var uninstallCmd = &cobra.Command{
	Use:     "uninstall <mod name>",
	Aliases: []string{"remove"},
	Short:   "Uninstall a mod through the daemon",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient(0)
		defer client.Close()

		resp, err := client.Delete(modPath(args[0], ""), nil)
		if err != nil {
			return err
		}
		return printModState(resp)
	},
}

func init() {
	remoteCmd.AddCommand(uninstallCmd)
}
