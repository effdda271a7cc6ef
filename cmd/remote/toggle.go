package remote

import (
	"github.com/spf13/cobra"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle <mod name>",
	Short: "Enable or disable a mod through the daemon",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient(0)
		defer client.Close()

		resp, err := client.Post(modPath(args[0], "toggle"), nil, nil)
		if err != nil {
			return err
		}
		return printModState(resp)
	},
}

func init() {
	remoteCmd.AddCommand(toggleCmd)
}
