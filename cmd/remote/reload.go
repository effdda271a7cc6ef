package remote

import (
	"time"

	"modkeeper/controllers"

	"github.com/spf13/cobra"
)

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Make the daemon reload its config and refetch the catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient(30 * time.Second)
		defer client.Close()

		resp, err := client.Post(controllers.APIPrefix+"/reload", nil, nil)
		if err != nil {
			return err
		}
		return printStatus(resp)
	},
}

func init() {
	remoteCmd.AddCommand(reloadCmd)
}
